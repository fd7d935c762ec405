package http

import (
	"net/http"
	"time"

	"taskboard/internal/domain"

	"github.com/gin-gonic/gin"
)

type notificationResponse struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

func (s *Server) handleListNotifications(c *gin.Context) error {
	principal, ok := principalFromContext(c)
	if !ok {
		return domain.NewAppError(http.StatusUnauthorized, "Not authenticated")
	}
	notifications, err := s.notifications.ListByUser(c.Request.Context(), principal.UserID)
	if err != nil {
		return err
	}
	out := make([]notificationResponse, 0, len(notifications))
	for _, notification := range notifications {
		out = append(out, notificationResponse{
			ID:        notification.ID,
			Type:      notification.Type,
			Message:   notification.Message,
			Read:      notification.Read,
			CreatedAt: notification.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{"items": out})
	return nil
}

// Marking a notification read is scoped to the owner: the store call
// matches on both notification id and user id so one user can never
// flip another user's notifications.
func (s *Server) handleMarkNotificationRead(c *gin.Context) error {
	principal, ok := principalFromContext(c)
	if !ok {
		return domain.NewAppError(http.StatusUnauthorized, "Not authenticated")
	}
	id, err := parseUUIDParam(c, "notification_id")
	if err != nil {
		return err
	}
	if err := s.notifications.MarkRead(c.Request.Context(), id, principal.UserID); err != nil {
		return err
	}
	c.Status(http.StatusNoContent)
	return nil
}
