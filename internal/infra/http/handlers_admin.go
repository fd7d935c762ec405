package http

import (
	"net/http"

	"taskboard/internal/domain"

	"github.com/gin-gonic/gin"
)

func (s *Server) handleListUsers(c *gin.Context) error {
	users, err := s.users.List(c.Request.Context())
	if err != nil {
		return err
	}
	out := make([]userResponse, 0, len(users))
	for _, user := range users {
		out = append(out, toUserResponse(user))
	}
	c.JSON(http.StatusOK, gin.H{"items": out})
	return nil
}

// Deactivation is not deletion. The user row stays; open sessions are
// revoked (cached copies included) so the change takes effect on the
// user's next request, not after a cache TTL.
func (s *Server) handleDeactivateUser(c *gin.Context) error {
	id, err := parseUUIDParam(c, "user_id")
	if err != nil {
		return err
	}
	principal, _ := principalFromContext(c)
	if principal.UserID == id {
		return domain.NewAppError(http.StatusBadRequest, "Cannot deactivate your own account")
	}
	if err := s.users.SetActive(c.Request.Context(), id, false); err != nil {
		return err
	}
	if err := s.sessions.DeleteByUser(c.Request.Context(), id); err != nil {
		return err
	}
	c.Status(http.StatusNoContent)
	return nil
}
