package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrNoSecret is returned by Issue when no signing secret is configured.
var ErrNoSecret = errors.New("signing secret is not configured")

// Claims is the identity claim set embedded in a bearer token.
type Claims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Codec signs and verifies time-bound bearer tokens. It holds no mutable
// state and is safe for concurrent use.
type Codec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewCodec(secret string, ttl time.Duration) *Codec {
	return &Codec{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// NewCodecWithClock is for tests that need a fixed clock.
func NewCodecWithClock(secret string, ttl time.Duration, now func() time.Time) *Codec {
	c := NewCodec(secret, ttl)
	if now != nil {
		c.now = now
	}
	return c
}

func (c *Codec) Issue(userID, role string) (string, error) {
	if len(c.secret) == 0 {
		return "", ErrNoSecret
	}
	now := c.now()
	claims := Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

// Parse validates the token and returns its claims, surfacing the jwt
// error taxonomy (jwt.ErrTokenExpired, jwt.ErrTokenSignatureInvalid, ...)
// for callers that classify failures.
func (c *Codec) Parse(raw string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(raw, claims,
		func(t *jwt.Token) (any, error) {
			return c.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		return nil, err
	}
	if !parsed.Valid {
		return nil, jwt.ErrTokenUnverifiable
	}
	return claims, nil
}

// Verify returns the claims for a valid token and nil on any structural,
// signature, or expiry failure. Verification failure is an expected
// outcome, not a fault.
func (c *Codec) Verify(raw string) *Claims {
	claims, err := c.Parse(raw)
	if err != nil {
		return nil
	}
	return claims
}
