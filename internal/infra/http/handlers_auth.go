package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"taskboard/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type registerRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Name     string `json:"name" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role" binding:"omitempty,oneof=ADMIN MANAGER MEMBER"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type userResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

type loginResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

func toUserResponse(user domain.User) userResponse {
	return userResponse{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		Role:      user.Role,
		IsActive:  user.IsActive,
		CreatedAt: user.CreatedAt,
	}
}

func (s *Server) handleRegister(c *gin.Context) error {
	var req registerRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	role := req.Role
	if role == "" {
		role = domain.RoleMember
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	now := time.Now()
	user := domain.User{
		ID:           uuid.NewString(),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		Name:         req.Name,
		PasswordHash: string(hash),
		Role:         role,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(c.Request.Context(), user); err != nil {
		return err
	}
	c.JSON(http.StatusCreated, toUserResponse(user))
	return nil
}

func (s *Server) handleLogin(c *gin.Context) error {
	var req loginRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	if s.loginLimiter != nil && s.cfg.LoginRateLimit > 0 {
		decision, err := s.loginLimiter.Allow(c.Request.Context(), "login:"+c.ClientIP(), s.cfg.LoginRateLimit, s.cfg.LoginRateWindow())
		// Limiter faults fail open; login availability wins.
		if err == nil && !decision.Allowed {
			return domain.NewAppError(http.StatusTooManyRequests, "Too many login attempts")
		}
	}

	user, err := s.users.GetByEmail(c.Request.Context(), strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.NewAppError(http.StatusUnauthorized, "Invalid email or password")
		}
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return domain.NewAppError(http.StatusUnauthorized, "Invalid email or password")
	}
	if !user.IsActive {
		return domain.NewAppError(http.StatusForbidden, "Account is deactivated")
	}

	tokenString, err := s.codec.Issue(user.ID, user.Role)
	if err != nil {
		return err
	}
	now := time.Now()
	session := domain.Session{
		Token:     tokenString,
		UserID:    user.ID,
		ExpiresAt: now.Add(s.cfg.SessionTTL()),
		CreatedAt: now,
		UserAgent: c.Request.UserAgent(),
		IPAddress: c.ClientIP(),
		User:      *user,
	}
	if err := s.sessions.Create(c.Request.Context(), session); err != nil {
		return err
	}

	c.JSON(http.StatusOK, loginResponse{Token: tokenString, User: toUserResponse(*user)})
	return nil
}

func (s *Server) handleLogout(c *gin.Context) error {
	if err := s.sessions.DeleteByToken(c.Request.Context(), sessionTokenFromContext(c)); err != nil {
		return err
	}
	c.Status(http.StatusNoContent)
	return nil
}

func (s *Server) handleMe(c *gin.Context) error {
	principal, ok := principalFromContext(c)
	if !ok {
		return domain.NewAppError(http.StatusUnauthorized, "Not authenticated")
	}
	user, err := s.users.GetByID(c.Request.Context(), principal.UserID)
	if err != nil {
		return err
	}
	c.JSON(http.StatusOK, toUserResponse(*user))
	return nil
}
