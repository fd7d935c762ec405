package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"taskboard/internal/domain"

	"github.com/gin-gonic/gin"
)

const (
	principalContextKey    = "principal"
	sessionTokenContextKey = "session_token"
)

// authenticate is the mandatory stage. The checks run strictly in order
// and the first failure terminates the request; expected auth failures
// are written directly, only unexpected store faults reach the error
// normalizer.
func (s *Server) authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "No authorization header"})
			return
		}
		raw, found := strings.CutPrefix(header, "Bearer ")
		if !found {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid authorization format"})
			return
		}
		rawToken := strings.TrimSpace(raw)
		if rawToken == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "No token provided"})
			return
		}
		claims := s.codec.Verify(rawToken)
		if claims == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid or expired token"})
			return
		}
		session, err := s.sessions.FindByToken(c.Request.Context(), rawToken)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "Session not found"})
				return
			}
			s.writeError(c, err)
			return
		}
		// The session's expiry is independent of the token's own expiry
		// and must be checked on every use.
		if session.Expired(time.Now()) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "Session expired"})
			return
		}
		if !session.User.IsActive {
			c.AbortWithStatusJSON(http.StatusForbidden, ErrorResponse{Error: "Account is deactivated"})
			return
		}

		principal := domain.Principal{
			UserID: session.UserID,
			Email:  session.User.Email,
			Role:   claims.Role,
		}
		if claims.IssuedAt != nil {
			principal.IssuedAt = claims.IssuedAt.Time
		}
		if claims.ExpiresAt != nil {
			principal.ExpiresAt = claims.ExpiresAt.Time
		}
		c.Set(principalContextKey, principal)
		c.Set(sessionTokenContextKey, rawToken)
		c.Next()
	}
}

// optionalAuthenticate attaches a principal when a valid token and live
// session are presented, and otherwise lets the request through
// unauthenticated. It never writes a response, including on store faults.
func (s *Server) optionalAuthenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, found := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		rawToken := strings.TrimSpace(raw)
		if !found || rawToken == "" {
			c.Next()
			return
		}
		claims := s.codec.Verify(rawToken)
		if claims == nil {
			c.Next()
			return
		}
		session, err := s.sessions.FindByToken(c.Request.Context(), rawToken)
		if err != nil || session == nil {
			c.Next()
			return
		}
		if session.Expired(time.Now()) || !session.User.IsActive {
			c.Next()
			return
		}

		principal := domain.Principal{
			UserID: session.UserID,
			Email:  session.User.Email,
			Role:   claims.Role,
		}
		if claims.IssuedAt != nil {
			principal.IssuedAt = claims.IssuedAt.Time
		}
		if claims.ExpiresAt != nil {
			principal.ExpiresAt = claims.ExpiresAt.Time
		}
		c.Set(principalContextKey, principal)
		c.Set(sessionTokenContextKey, rawToken)
		c.Next()
	}
}

// authorize gates a route on a fixed role allowlist. It assumes the
// mandatory stage ran earlier in the chain.
func authorize(roles ...string) gin.HandlerFunc {
	allowed := append([]string(nil), roles...)
	return func(c *gin.Context) {
		principal, ok := principalFromContext(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "Not authenticated"})
			return
		}
		if !principal.HasRole(allowed...) {
			c.AbortWithStatusJSON(http.StatusForbidden, ErrorResponse{
				Error:    "Insufficient permissions",
				Required: allowed,
				Current:  principal.Role,
			})
			return
		}
		c.Next()
	}
}

func principalFromContext(c *gin.Context) (domain.Principal, bool) {
	raw, ok := c.Get(principalContextKey)
	if !ok {
		return domain.Principal{}, false
	}
	principal, ok := raw.(domain.Principal)
	return principal, ok
}

func sessionTokenFromContext(c *gin.Context) string {
	raw, ok := c.Get(sessionTokenContextKey)
	if !ok {
		return ""
	}
	token, _ := raw.(string)
	return token
}
