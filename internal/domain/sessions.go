package domain

import "time"

// Session is the server-side record keyed by the literal token string.
// Its expiry is independent of the token's embedded expiry and must be
// checked against wall-clock time on every use.
type Session struct {
	Token     string
	UserID    string
	ExpiresAt time.Time
	CreatedAt time.Time
	UserAgent string
	IPAddress string
	User      User
}

func (s Session) Expired(now time.Time) bool {
	return s.ExpiresAt.Before(now)
}
