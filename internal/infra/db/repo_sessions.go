package db

import (
	"context"
	"time"

	"taskboard/internal/domain"

	"gorm.io/gorm"
)

type SessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) Create(ctx context.Context, session domain.Session) error {
	if r.db == nil {
		return errDBUnavailable
	}
	model := SessionModel{
		Token:     session.Token,
		UserID:    session.UserID,
		ExpiresAt: session.ExpiresAt,
		CreatedAt: session.CreatedAt,
		UserAgent: session.UserAgent,
		IPAddress: session.IPAddress,
	}
	return r.db.WithContext(ctx).Create(&model).Error
}

// FindByToken is a point lookup by exact token equality, joining the
// owning user so callers can check the account's active flag.
func (r *SessionRepository) FindByToken(ctx context.Context, token string) (*domain.Session, error) {
	if r.db == nil {
		return nil, errDBUnavailable
	}
	var model SessionModel
	err := r.db.WithContext(ctx).Preload("User").First(&model, "token = ?", token).Error
	if err != nil {
		return nil, mapNotFound(err)
	}
	session := sessionFromModel(model)
	return &session, nil
}

func (r *SessionRepository) DeleteByToken(ctx context.Context, token string) error {
	if r.db == nil {
		return errDBUnavailable
	}
	return r.db.WithContext(ctx).Delete(&SessionModel{}, "token = ?", token).Error
}

// DeleteByUser revokes every session belonging to a user, used when an
// account is deactivated.
func (r *SessionRepository) DeleteByUser(ctx context.Context, userID string) error {
	if r.db == nil {
		return errDBUnavailable
	}
	return r.db.WithContext(ctx).Delete(&SessionModel{}, "user_id = ?", userID).Error
}

// DeleteExpired is the expiry sweep run out of band.
func (r *SessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	if r.db == nil {
		return 0, errDBUnavailable
	}
	result := r.db.WithContext(ctx).Delete(&SessionModel{}, "expires_at < ?", now)
	return result.RowsAffected, result.Error
}

func sessionFromModel(model SessionModel) domain.Session {
	return domain.Session{
		Token:     model.Token,
		UserID:    model.UserID,
		ExpiresAt: model.ExpiresAt,
		CreatedAt: model.CreatedAt,
		UserAgent: model.UserAgent,
		IPAddress: model.IPAddress,
		User:      userFromModel(model.User),
	}
}
