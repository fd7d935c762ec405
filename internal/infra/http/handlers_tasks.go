package http

import (
	"net/http"
	"strings"
	"time"

	"taskboard/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type createTaskRequest struct {
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description"`
	Priority    string     `json:"priority" binding:"omitempty,oneof=low medium high"`
	AssigneeID  string     `json:"assignee_id" binding:"omitempty,uuid"`
	MilestoneID string     `json:"milestone_id" binding:"omitempty,uuid"`
	DueDate     *time.Time `json:"due_date"`
}

type updateTaskRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Status      *string    `json:"status" binding:"omitempty,oneof=todo in_progress done"`
	Priority    *string    `json:"priority" binding:"omitempty,oneof=low medium high"`
	AssigneeID  *string    `json:"assignee_id" binding:"omitempty,uuid"`
	MilestoneID *string    `json:"milestone_id" binding:"omitempty,uuid"`
	DueDate     *time.Time `json:"due_date"`
}

type taskResponse struct {
	ID          string     `json:"id"`
	ProjectID   string     `json:"project_id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	AssigneeID  *string    `json:"assignee_id,omitempty"`
	MilestoneID *string    `json:"milestone_id,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func toTaskResponse(task domain.Task) taskResponse {
	return taskResponse{
		ID:          task.ID,
		ProjectID:   task.ProjectID,
		Title:       task.Title,
		Description: task.Description,
		Status:      string(task.Status),
		Priority:    string(task.Priority),
		AssigneeID:  task.AssigneeID,
		MilestoneID: task.MilestoneID,
		DueDate:     task.DueDate,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
}

func (s *Server) handleListTasks(c *gin.Context) error {
	projectID, err := parseUUIDParam(c, "project_id")
	if err != nil {
		return err
	}
	tasks, err := s.tasks.ListByProject(c.Request.Context(), projectID)
	if err != nil {
		return err
	}
	out := make([]taskResponse, 0, len(tasks))
	for _, task := range tasks {
		out = append(out, toTaskResponse(task))
	}
	c.JSON(http.StatusOK, gin.H{"items": out})
	return nil
}

func (s *Server) handleCreateTask(c *gin.Context) error {
	projectID, err := parseUUIDParam(c, "project_id")
	if err != nil {
		return err
	}
	var req createTaskRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	if _, err := s.projects.GetByID(c.Request.Context(), projectID); err != nil {
		return err
	}
	priority := domain.TaskPriority(req.Priority)
	if priority == "" {
		priority = domain.TaskPriorityMedium
	}
	now := time.Now()
	task := domain.Task{
		ID:          uuid.NewString(),
		ProjectID:   projectID,
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Status:      domain.TaskStatusTodo,
		Priority:    priority,
		DueDate:     req.DueDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if req.AssigneeID != "" {
		assigneeID := req.AssigneeID
		task.AssigneeID = &assigneeID
	}
	if req.MilestoneID != "" {
		milestoneID := req.MilestoneID
		task.MilestoneID = &milestoneID
	}
	if err := s.tasks.Create(c.Request.Context(), task); err != nil {
		return err
	}
	if task.AssigneeID != nil {
		s.notifyAssignment(c, task)
	}
	c.JSON(http.StatusCreated, toTaskResponse(task))
	return nil
}

func (s *Server) handleUpdateTask(c *gin.Context) error {
	id, err := parseUUIDParam(c, "task_id")
	if err != nil {
		return err
	}
	var req updateTaskRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	task, err := s.tasks.GetByID(c.Request.Context(), id)
	if err != nil {
		return err
	}
	previousAssignee := task.AssigneeID
	if req.Title != nil {
		task.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	if req.Status != nil {
		task.Status = domain.TaskStatus(*req.Status)
	}
	if req.Priority != nil {
		task.Priority = domain.TaskPriority(*req.Priority)
	}
	if req.AssigneeID != nil {
		task.AssigneeID = req.AssigneeID
	}
	if req.MilestoneID != nil {
		task.MilestoneID = req.MilestoneID
	}
	if req.DueDate != nil {
		task.DueDate = req.DueDate
	}
	task.UpdatedAt = time.Now()
	if err := s.tasks.Update(c.Request.Context(), *task); err != nil {
		return err
	}
	if task.AssigneeID != nil && (previousAssignee == nil || *previousAssignee != *task.AssigneeID) {
		s.notifyAssignment(c, *task)
	}
	c.JSON(http.StatusOK, toTaskResponse(*task))
	return nil
}

func (s *Server) handleDeleteTask(c *gin.Context) error {
	id, err := parseUUIDParam(c, "task_id")
	if err != nil {
		return err
	}
	if err := s.tasks.Delete(c.Request.Context(), id); err != nil {
		return err
	}
	c.Status(http.StatusNoContent)
	return nil
}

// notifyAssignment is best effort: a failed notification never fails the
// task mutation that triggered it.
func (s *Server) notifyAssignment(c *gin.Context, task domain.Task) {
	if s.notifications == nil || task.AssigneeID == nil {
		return
	}
	notification := domain.Notification{
		ID:        uuid.NewString(),
		UserID:    *task.AssigneeID,
		Type:      "task_assigned",
		Message:   "You have been assigned to task: " + task.Title,
		CreatedAt: time.Now(),
	}
	_ = s.notifications.Create(c.Request.Context(), notification)
}
