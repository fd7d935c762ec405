package db

import (
	"context"

	"taskboard/internal/domain"

	"gorm.io/gorm"
)

type TeamRepository struct {
	db *gorm.DB
}

func NewTeamRepository(db *gorm.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

func (r *TeamRepository) Create(ctx context.Context, team domain.Team) error {
	if r.db == nil {
		return errDBUnavailable
	}
	model := TeamModel{ID: team.ID, Name: team.Name, CreatedAt: team.CreatedAt}
	return r.db.WithContext(ctx).Create(&model).Error
}

func (r *TeamRepository) List(ctx context.Context) ([]domain.Team, error) {
	if r.db == nil {
		return nil, errDBUnavailable
	}
	var models []TeamModel
	if err := r.db.WithContext(ctx).Order("created_at").Find(&models).Error; err != nil {
		return nil, err
	}
	teams := make([]domain.Team, 0, len(models))
	for _, model := range models {
		teams = append(teams, domain.Team{ID: model.ID, Name: model.Name, CreatedAt: model.CreatedAt})
	}
	return teams, nil
}

func (r *TeamRepository) AddMember(ctx context.Context, member domain.TeamMember) error {
	if r.db == nil {
		return errDBUnavailable
	}
	model := TeamMemberModel{
		ID:        member.ID,
		TeamID:    member.TeamID,
		UserID:    member.UserID,
		Role:      member.Role,
		CreatedAt: member.CreatedAt,
	}
	return r.db.WithContext(ctx).Create(&model).Error
}
