// Package sessioncache puts a short-lived redis read-through in front of
// the session store so the per-request lookup does not hit postgres every
// time. Entries expire quickly because the cached copy carries the owning
// user's active flag.
package sessioncache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"taskboard/internal/domain"

	"github.com/redis/go-redis/v9"
)

const (
	sessionKeyPrefix = "taskboard:session:"
	userKeyPrefix    = "taskboard:user-sessions:"
)

// Inner is the persistent session store the cache falls through to.
type Inner interface {
	Create(ctx context.Context, session domain.Session) error
	FindByToken(ctx context.Context, token string) (*domain.Session, error)
	DeleteByToken(ctx context.Context, token string) error
	DeleteByUser(ctx context.Context, userID string) error
}

// redisClient is the slice of the redis API the cache uses; *redis.Client
// satisfies it.
type redisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	SAdd(ctx context.Context, key string, members ...any) *redis.IntCmd
	SMembers(ctx context.Context, key string) *redis.StringSliceCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
	Close() error
}

type Store struct {
	inner  Inner
	client redisClient
	ttl    time.Duration
}

func New(inner Inner, addr, password string, db int, ttl time.Duration) (*Store, error) {
	if addr == "" {
		return nil, errors.New("redis addr is required")
	}
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &Store{inner: inner, client: client, ttl: ttl}, nil
}

type cachedSession struct {
	Token     string    `json:"token"`
	UserID    string    `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
	UserAgent string    `json:"user_agent,omitempty"`
	IPAddress string    `json:"ip_address,omitempty"`

	UserEmail    string `json:"user_email"`
	UserName     string `json:"user_name"`
	UserRole     string `json:"user_role"`
	UserIsActive bool   `json:"user_is_active"`
}

func (s *Store) Create(ctx context.Context, session domain.Session) error {
	if err := s.inner.Create(ctx, session); err != nil {
		return err
	}
	s.set(ctx, session)
	return nil
}

func (s *Store) FindByToken(ctx context.Context, token string) (*domain.Session, error) {
	raw, err := s.client.Get(ctx, sessionKey(token)).Bytes()
	if err == nil {
		var cached cachedSession
		if err := json.Unmarshal(raw, &cached); err == nil {
			session := cached.toDomain()
			return &session, nil
		}
		// Corrupt entry; drop it and fall through.
		s.client.Del(ctx, sessionKey(token))
	}
	session, err := s.inner.FindByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	s.set(ctx, *session)
	return session, nil
}

func (s *Store) DeleteByToken(ctx context.Context, token string) error {
	if err := s.inner.DeleteByToken(ctx, token); err != nil {
		return err
	}
	s.client.Del(ctx, sessionKey(token))
	return nil
}

// DeleteByUser revokes the user's sessions and purges their cached
// copies, so a deactivation is not masked by a still-warm cache entry.
func (s *Store) DeleteByUser(ctx context.Context, userID string) error {
	if err := s.inner.DeleteByUser(ctx, userID); err != nil {
		return err
	}
	tokens, err := s.client.SMembers(ctx, userKey(userID)).Result()
	if err == nil {
		for _, token := range tokens {
			s.client.Del(ctx, sessionKey(token))
		}
	}
	s.client.Del(ctx, userKey(userID))
	return nil
}

func (s *Store) Close() error {
	return s.client.Close()
}

func sessionKey(token string) string {
	return sessionKeyPrefix + token
}

func userKey(userID string) string {
	return userKeyPrefix + userID
}

func (s *Store) set(ctx context.Context, session domain.Session) {
	cached := cachedSession{
		Token:        session.Token,
		UserID:       session.UserID,
		ExpiresAt:    session.ExpiresAt,
		CreatedAt:    session.CreatedAt,
		UserAgent:    session.UserAgent,
		IPAddress:    session.IPAddress,
		UserEmail:    session.User.Email,
		UserName:     session.User.Name,
		UserRole:     session.User.Role,
		UserIsActive: session.User.IsActive,
	}
	raw, err := json.Marshal(cached)
	if err != nil {
		return
	}
	// Best effort; a failed SET only costs a later db lookup. The user
	// index tracks live entries so DeleteByUser can purge them.
	s.client.Set(ctx, sessionKey(session.Token), raw, s.ttl)
	s.client.SAdd(ctx, userKey(session.UserID), session.Token)
	s.client.Expire(ctx, userKey(session.UserID), s.ttl)
}

func (c cachedSession) toDomain() domain.Session {
	return domain.Session{
		Token:     c.Token,
		UserID:    c.UserID,
		ExpiresAt: c.ExpiresAt,
		CreatedAt: c.CreatedAt,
		UserAgent: c.UserAgent,
		IPAddress: c.IPAddress,
		User: domain.User{
			ID:       c.UserID,
			Email:    c.UserEmail,
			Name:     c.UserName,
			Role:     c.UserRole,
			IsActive: c.UserIsActive,
		},
	}
}
