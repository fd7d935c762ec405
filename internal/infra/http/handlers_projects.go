package http

import (
	"net/http"
	"sort"
	"strings"
	"time"

	"taskboard/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type createProjectRequest struct {
	Name        string     `json:"name" binding:"required"`
	Description string     `json:"description"`
	TeamID      string     `json:"team_id" binding:"omitempty,uuid"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
}

type updateProjectRequest struct {
	Name        *string    `json:"name"`
	Description *string    `json:"description"`
	Status      *string    `json:"status" binding:"omitempty,oneof=active on_hold archived"`
	TeamID      *string    `json:"team_id" binding:"omitempty,uuid"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
}

type projectResponse struct {
	ID          string     `json:"id"`
	TeamID      *string    `json:"team_id,omitempty"`
	OwnerID     string     `json:"owner_id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Status      string     `json:"status"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	EndDate     *time.Time `json:"end_date,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func toProjectResponse(project domain.Project) projectResponse {
	return projectResponse{
		ID:          project.ID,
		TeamID:      project.TeamID,
		OwnerID:     project.OwnerID,
		Name:        project.Name,
		Description: project.Description,
		Status:      string(project.Status),
		StartDate:   project.StartDate,
		EndDate:     project.EndDate,
		CreatedAt:   project.CreatedAt,
		UpdatedAt:   project.UpdatedAt,
	}
}

// Unauthenticated callers only see active projects; a live principal
// unlocks the full listing.
func (s *Server) handleListProjects(c *gin.Context) error {
	_, authenticated := principalFromContext(c)
	projects, err := s.projects.List(c.Request.Context(), !authenticated)
	if err != nil {
		return err
	}
	out := make([]projectResponse, 0, len(projects))
	for _, project := range projects {
		out = append(out, toProjectResponse(project))
	}
	c.JSON(http.StatusOK, gin.H{"items": out})
	return nil
}

func (s *Server) handleCreateProject(c *gin.Context) error {
	principal, ok := principalFromContext(c)
	if !ok {
		return domain.NewAppError(http.StatusUnauthorized, "Not authenticated")
	}
	var req createProjectRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	now := time.Now()
	project := domain.Project{
		ID:          uuid.NewString(),
		OwnerID:     principal.UserID,
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Status:      domain.ProjectStatusActive,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if req.TeamID != "" {
		teamID := req.TeamID
		project.TeamID = &teamID
	}
	if err := s.projects.Create(c.Request.Context(), project); err != nil {
		return err
	}
	c.JSON(http.StatusCreated, toProjectResponse(project))
	return nil
}

func (s *Server) handleGetProject(c *gin.Context) error {
	id, err := parseUUIDParam(c, "project_id")
	if err != nil {
		return err
	}
	project, err := s.projects.GetByID(c.Request.Context(), id)
	if err != nil {
		return err
	}
	c.JSON(http.StatusOK, toProjectResponse(*project))
	return nil
}

func (s *Server) handleUpdateProject(c *gin.Context) error {
	id, err := parseUUIDParam(c, "project_id")
	if err != nil {
		return err
	}
	var req updateProjectRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	project, err := s.projects.GetByID(c.Request.Context(), id)
	if err != nil {
		return err
	}
	if req.Name != nil {
		project.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		project.Description = *req.Description
	}
	if req.Status != nil {
		project.Status = domain.ProjectStatus(*req.Status)
	}
	if req.TeamID != nil {
		project.TeamID = req.TeamID
	}
	if req.StartDate != nil {
		project.StartDate = req.StartDate
	}
	if req.EndDate != nil {
		project.EndDate = req.EndDate
	}
	project.UpdatedAt = time.Now()
	if err := s.projects.Update(c.Request.Context(), *project); err != nil {
		return err
	}
	c.JSON(http.StatusOK, toProjectResponse(*project))
	return nil
}

func (s *Server) handleDeleteProject(c *gin.Context) error {
	id, err := parseUUIDParam(c, "project_id")
	if err != nil {
		return err
	}
	if err := s.projects.Delete(c.Request.Context(), id); err != nil {
		return err
	}
	c.Status(http.StatusNoContent)
	return nil
}

type timelineEntryResponse struct {
	Kind  string    `json:"kind"`
	ID    string    `json:"id"`
	Title string    `json:"title"`
	Due   time.Time `json:"due"`
}

// handleProjectTimeline merges the project's due-dated tasks and its
// milestones into a single chronological view.
func (s *Server) handleProjectTimeline(c *gin.Context) error {
	id, err := parseUUIDParam(c, "project_id")
	if err != nil {
		return err
	}
	if _, err := s.projects.GetByID(c.Request.Context(), id); err != nil {
		return err
	}
	tasks, err := s.tasks.ListByProject(c.Request.Context(), id)
	if err != nil {
		return err
	}
	milestones, err := s.milestones.ListByProject(c.Request.Context(), id)
	if err != nil {
		return err
	}

	entries := make([]domain.TimelineEntry, 0, len(tasks)+len(milestones))
	for _, task := range tasks {
		if task.DueDate == nil {
			continue
		}
		entries = append(entries, domain.TimelineEntry{Kind: "task", ID: task.ID, Title: task.Title, Due: *task.DueDate})
	}
	for _, milestone := range milestones {
		entries = append(entries, domain.TimelineEntry{Kind: "milestone", ID: milestone.ID, Title: milestone.Name, Due: milestone.DueDate})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Due.Before(entries[j].Due) })

	out := make([]timelineEntryResponse, 0, len(entries))
	for _, entry := range entries {
		out = append(out, timelineEntryResponse(entry))
	}
	c.JSON(http.StatusOK, gin.H{"items": out})
	return nil
}

func parseUUIDParam(c *gin.Context, name string) (string, error) {
	value := strings.TrimSpace(c.Param(name))
	if value == "" {
		return "", domain.NewAppError(http.StatusBadRequest, name+" is required")
	}
	if _, err := uuid.Parse(value); err != nil {
		return "", domain.NewAppError(http.StatusBadRequest, name+" must be a valid UUID")
	}
	return value, nil
}
