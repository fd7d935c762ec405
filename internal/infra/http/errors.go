package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"taskboard/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// ErrorResponse is the single client-facing failure shape. Every failure
// produces exactly one of these and one status code.
type ErrorResponse struct {
	Error    string       `json:"error"`
	Field    string       `json:"field,omitempty"`
	Code     string       `json:"code,omitempty"`
	Details  []FieldError `json:"details,omitempty"`
	Required []string     `json:"required,omitempty"`
	Current  string       `json:"current,omitempty"`
}

// wrap adapts an error-returning handler into a gin handler whose failure
// is routed through the error normalizer. All business handlers register
// through it so no raised error can escape unclassified.
func (s *Server) wrap(handler func(*gin.Context) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := handler(c); err != nil {
			s.writeError(c, err)
		}
	}
}

// writeError is the terminal stage: it logs the failure once and writes
// the normalized response. Response status and body for faults are
// decided here and nowhere else.
func (s *Server) writeError(c *gin.Context, err error) {
	slog.Error("request failed",
		"error", err.Error(),
		"path", c.Request.URL.Path,
		"method", c.Request.Method,
	)
	status, body := s.normalizeError(err)
	c.AbortWithStatusJSON(status, body)
}

// normalizeError classifies a raw error against a fixed, ordered
// taxonomy; the first matching rule wins and unmatched errors fall to
// the generic 500 case.
func (s *Server) normalizeError(err error) (int, ErrorResponse) {
	var pgErr *pgconn.PgError
	hasPgErr := errors.As(err, &pgErr)
	var validationErrs validator.ValidationErrors
	var appErr *domain.AppError

	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey) || (hasPgErr && pgErr.Code == pgerrcode.UniqueViolation):
		body := ErrorResponse{Error: "A record with this value already exists"}
		if hasPgErr {
			body.Field = fieldFromConstraint(pgErr.ConstraintName)
		}
		return http.StatusConflict, body

	case errors.Is(err, gorm.ErrRecordNotFound) || errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, ErrorResponse{Error: "Record not found"}

	case hasPgErr:
		return http.StatusBadRequest, ErrorResponse{Error: "Database operation failed", Code: pgErr.Code}

	case errors.As(err, &validationErrs):
		details := make([]FieldError, 0, len(validationErrs))
		for _, fe := range validationErrs {
			details = append(details, FieldError{
				Field:   strings.ToLower(fe.Field()),
				Message: validationMessage(fe),
				Code:    fe.Tag(),
			})
		}
		return http.StatusBadRequest, ErrorResponse{Error: "Validation failed", Details: details}

	case errors.As(err, &appErr):
		return appErr.Status, ErrorResponse{Error: appErr.Message}

	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return http.StatusUnauthorized, ErrorResponse{Error: "Invalid token"}

	case errors.Is(err, jwt.ErrTokenExpired):
		return http.StatusUnauthorized, ErrorResponse{Error: "Token expired"}

	default:
		if s.cfg.IsProduction() {
			return http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"}
		}
		return http.StatusInternalServerError, ErrorResponse{Error: err.Error()}
	}
}

// fieldFromConstraint recovers the column from postgres constraint names
// like "users_email_key" or "idx_users_email". Best effort; returns ""
// when the name doesn't follow a recognizable convention.
func fieldFromConstraint(name string) string {
	name = strings.TrimPrefix(name, "idx_")
	name = strings.TrimPrefix(name, "uni_")
	name = strings.TrimSuffix(name, "_key")
	name = strings.TrimSuffix(name, "_idx")
	if i := strings.IndexByte(name, '_'); i >= 0 && i+1 < len(name) {
		return name[i+1:]
	}
	return ""
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return "must be at least " + fe.Param() + " characters"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "oneof":
		return "must be one of " + fe.Param()
	case "uuid":
		return "must be a valid UUID"
	default:
		return "is invalid"
	}
}

// bindJSON separates structured validation failures, which the normalizer
// expands into field details, from malformed request bodies.
func bindJSON(c *gin.Context, dest any) error {
	if err := c.ShouldBindJSON(dest); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return err
		}
		return domain.NewAppError(http.StatusBadRequest, "Invalid JSON body")
	}
	return nil
}
