package http

import (
	"net/http"
	"strings"
	"time"

	"taskboard/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type createMilestoneRequest struct {
	Name    string    `json:"name" binding:"required"`
	DueDate time.Time `json:"due_date" binding:"required"`
}

type milestoneResponse struct {
	ID        string    `json:"id"`
	ProjectID string    `json:"project_id"`
	Name      string    `json:"name"`
	DueDate   time.Time `json:"due_date"`
	CreatedAt time.Time `json:"created_at"`
}

func (s *Server) handleListMilestones(c *gin.Context) error {
	projectID, err := parseUUIDParam(c, "project_id")
	if err != nil {
		return err
	}
	milestones, err := s.milestones.ListByProject(c.Request.Context(), projectID)
	if err != nil {
		return err
	}
	out := make([]milestoneResponse, 0, len(milestones))
	for _, milestone := range milestones {
		out = append(out, milestoneResponse{
			ID:        milestone.ID,
			ProjectID: milestone.ProjectID,
			Name:      milestone.Name,
			DueDate:   milestone.DueDate,
			CreatedAt: milestone.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{"items": out})
	return nil
}

func (s *Server) handleCreateMilestone(c *gin.Context) error {
	projectID, err := parseUUIDParam(c, "project_id")
	if err != nil {
		return err
	}
	var req createMilestoneRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	if _, err := s.projects.GetByID(c.Request.Context(), projectID); err != nil {
		return err
	}
	milestone := domain.Milestone{
		ID:        uuid.NewString(),
		ProjectID: projectID,
		Name:      strings.TrimSpace(req.Name),
		DueDate:   req.DueDate,
		CreatedAt: time.Now(),
	}
	if err := s.milestones.Create(c.Request.Context(), milestone); err != nil {
		return err
	}
	c.JSON(http.StatusCreated, milestoneResponse{
		ID:        milestone.ID,
		ProjectID: milestone.ProjectID,
		Name:      milestone.Name,
		DueDate:   milestone.DueDate,
		CreatedAt: milestone.CreatedAt,
	})
	return nil
}
