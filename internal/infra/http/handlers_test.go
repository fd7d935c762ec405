package http

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"taskboard/internal/config"
	"taskboard/internal/domain"
)

func TestProjectLifecycle(t *testing.T) {
	env := newTestEnv(t, config.Config{})
	ownerID, tok := env.seedUser(t, "owner@example.com", domain.RoleManager, true)

	w := env.do(http.MethodPost, "/v1/projects", tok, map[string]any{
		"name":        "  Launch  ",
		"description": "Q3 launch",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var created projectResponse
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode create: %v", err)
	}
	if created.Name != "Launch" {
		t.Fatalf("expected trimmed name, got %q", created.Name)
	}
	if created.OwnerID != ownerID {
		t.Fatalf("expected owner %q, got %q", ownerID, created.OwnerID)
	}
	if created.Status != string(domain.ProjectStatusActive) {
		t.Fatalf("expected active status, got %q", created.Status)
	}

	w = env.do(http.MethodPatch, "/v1/projects/"+created.ID, tok, map[string]any{
		"status": "on_hold",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("update: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var updated projectResponse
	if err := json.Unmarshal(w.Body.Bytes(), &updated); err != nil {
		t.Fatalf("decode update: %v", err)
	}
	if updated.Status != string(domain.ProjectStatusOnHold) {
		t.Fatalf("expected on_hold, got %q", updated.Status)
	}

	w = env.do(http.MethodGet, "/v1/projects/"+created.ID, tok, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get: expected 200, got %d", w.Code)
	}

	w = env.do(http.MethodDelete, "/v1/projects/"+created.ID, tok, nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("delete: expected 204, got %d: %s", w.Code, w.Body.String())
	}

	w = env.do(http.MethodGet, "/v1/projects/"+created.ID, tok, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("get after delete: expected 404, got %d", w.Code)
	}
	if resp := decodeError(t, w.Body.Bytes()); resp.Error != "Record not found" {
		t.Fatalf("unexpected error message: %q", resp.Error)
	}
}

func TestProjectInvalidUUIDParam(t *testing.T) {
	env := newTestEnv(t, config.Config{})
	_, tok := env.seedUser(t, "param@example.com", domain.RoleMember, true)

	w := env.do(http.MethodGet, "/v1/projects/not-a-uuid", tok, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
	if resp := decodeError(t, w.Body.Bytes()); resp.Error != "project_id must be a valid UUID" {
		t.Fatalf("unexpected error message: %q", resp.Error)
	}
}

func TestTaskAssignmentNotifies(t *testing.T) {
	env := newTestEnv(t, config.Config{})
	_, tok := env.seedUser(t, "lead@example.com", domain.RoleManager, true)
	assigneeID, assigneeToken := env.seedUser(t, "dev@example.com", domain.RoleMember, true)

	project := domain.Project{ID: "6a2f66ac-3c8d-4a18-9a0e-0a0f3f1f0010", Name: "Board", Status: domain.ProjectStatusActive}
	if err := env.projects.Create(context.Background(), project); err != nil {
		t.Fatalf("seed project: %v", err)
	}

	w := env.do(http.MethodPost, "/v1/projects/"+project.ID+"/tasks", tok, map[string]any{
		"title":       "Write docs",
		"assignee_id": assigneeID,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create task: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var created taskResponse
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode task: %v", err)
	}
	if created.Status != string(domain.TaskStatusTodo) {
		t.Fatalf("expected todo, got %q", created.Status)
	}
	if created.Priority != string(domain.TaskPriorityMedium) {
		t.Fatalf("expected default medium priority, got %q", created.Priority)
	}

	w = env.do(http.MethodGet, "/v1/notifications", assigneeToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list notifications: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var body struct {
		Items []notificationResponse `json:"items"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode notifications: %v", err)
	}
	if len(body.Items) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(body.Items))
	}
	if body.Items[0].Type != "task_assigned" || body.Items[0].Read {
		t.Fatalf("unexpected notification: %+v", body.Items[0])
	}

	w = env.do(http.MethodPost, "/v1/notifications/"+body.Items[0].ID+"/read", assigneeToken, nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("mark read: expected 204, got %d: %s", w.Code, w.Body.String())
	}

	// Updating without touching the assignee must not notify again.
	w = env.do(http.MethodPatch, "/v1/tasks/"+created.ID, tok, map[string]any{"status": "in_progress"})
	if w.Code != http.StatusOK {
		t.Fatalf("update task: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	notifications, err := env.notifications.ListByUser(context.Background(), assigneeID)
	if err != nil {
		t.Fatalf("list notifications: %v", err)
	}
	if len(notifications) != 1 {
		t.Fatalf("expected still 1 notification, got %d", len(notifications))
	}
	if !notifications[0].Read {
		t.Fatal("expected notification marked read")
	}
}

func TestMarkNotificationReadScopedToOwner(t *testing.T) {
	env := newTestEnv(t, config.Config{})
	ownerID, _ := env.seedUser(t, "target@example.com", domain.RoleMember, true)
	_, otherToken := env.seedUser(t, "other@example.com", domain.RoleMember, true)

	notification := domain.Notification{
		ID:        "6a2f66ac-3c8d-4a18-9a0e-0a0f3f1f0020",
		UserID:    ownerID,
		Type:      "task_assigned",
		Message:   "hello",
		CreatedAt: time.Now(),
	}
	if err := env.notifications.Create(context.Background(), notification); err != nil {
		t.Fatalf("seed notification: %v", err)
	}

	w := env.do(http.MethodPost, "/v1/notifications/"+notification.ID+"/read", otherToken, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for foreign notification, got %d: %s", w.Code, w.Body.String())
	}
}

func TestProjectTimelineOrdering(t *testing.T) {
	env := newTestEnv(t, config.Config{})
	_, tok := env.seedUser(t, "planner@example.com", domain.RoleManager, true)

	project := domain.Project{ID: "6a2f66ac-3c8d-4a18-9a0e-0a0f3f1f0030", Name: "Plan", Status: domain.ProjectStatusActive}
	if err := env.projects.Create(context.Background(), project); err != nil {
		t.Fatalf("seed project: %v", err)
	}

	base := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	late := base.AddDate(0, 0, 14)
	early := base.AddDate(0, 0, 3)
	mid := base.AddDate(0, 0, 7)

	tasks := []domain.Task{
		{ID: "6a2f66ac-3c8d-4a18-9a0e-0a0f3f1f0031", ProjectID: project.ID, Title: "Ship", Status: domain.TaskStatusTodo, Priority: domain.TaskPriorityHigh, DueDate: &late},
		{ID: "6a2f66ac-3c8d-4a18-9a0e-0a0f3f1f0032", ProjectID: project.ID, Title: "Draft", Status: domain.TaskStatusTodo, Priority: domain.TaskPriorityLow, DueDate: &early},
		{ID: "6a2f66ac-3c8d-4a18-9a0e-0a0f3f1f0033", ProjectID: project.ID, Title: "No due date", Status: domain.TaskStatusTodo, Priority: domain.TaskPriorityLow},
	}
	for _, task := range tasks {
		if err := env.tasks.Create(context.Background(), task); err != nil {
			t.Fatalf("seed task: %v", err)
		}
	}
	milestone := domain.Milestone{ID: "6a2f66ac-3c8d-4a18-9a0e-0a0f3f1f0034", ProjectID: project.ID, Name: "Beta", DueDate: mid}
	if err := env.milestones.Create(context.Background(), milestone); err != nil {
		t.Fatalf("seed milestone: %v", err)
	}

	w := env.do(http.MethodGet, "/v1/projects/"+project.ID+"/timeline", tok, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var body struct {
		Items []timelineEntryResponse `json:"items"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode timeline: %v", err)
	}
	if len(body.Items) != 3 {
		t.Fatalf("expected 3 entries (task without due date skipped), got %d", len(body.Items))
	}
	want := []string{"Draft", "Beta", "Ship"}
	for i, entry := range body.Items {
		if entry.Title != want[i] {
			t.Fatalf("entry %d: expected %q, got %q (items: %+v)", i, want[i], entry.Title, body.Items)
		}
	}
	if body.Items[1].Kind != "milestone" {
		t.Fatalf("expected milestone in the middle, got %q", body.Items[1].Kind)
	}
}

func TestAdminDeactivateUser(t *testing.T) {
	env := newTestEnv(t, config.Config{})
	adminID, adminToken := env.seedUser(t, "root@example.com", domain.RoleAdmin, true)
	targetID, targetToken := env.seedUser(t, "victim@example.com", domain.RoleMember, true)

	w := env.do(http.MethodPost, "/v1/admin/users/"+adminID+"/deactivate", adminToken, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("self deactivate: expected 400, got %d: %s", w.Code, w.Body.String())
	}
	if resp := decodeError(t, w.Body.Bytes()); resp.Error != "Cannot deactivate your own account" {
		t.Fatalf("unexpected error message: %q", resp.Error)
	}

	w = env.do(http.MethodPost, "/v1/admin/users/"+targetID+"/deactivate", adminToken, nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("deactivate: expected 204, got %d: %s", w.Code, w.Body.String())
	}
	target, err := env.users.GetByID(context.Background(), targetID)
	if err != nil {
		t.Fatalf("load target: %v", err)
	}
	if target.IsActive {
		t.Fatal("expected target deactivated")
	}

	// Deactivation revokes the target's sessions, so their token is
	// rejected on the very next request.
	w = env.do(http.MethodGet, "/v1/auth/me", targetToken, nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 after deactivation, got %d: %s", w.Code, w.Body.String())
	}
	if resp := decodeError(t, w.Body.Bytes()); resp.Error != "Session not found" {
		t.Fatalf("unexpected error message: %q", resp.Error)
	}
}

func TestAdminRoutesRequireAdmin(t *testing.T) {
	env := newTestEnv(t, config.Config{})
	_, managerToken := env.seedUser(t, "mgr@example.com", domain.RoleManager, true)

	w := env.do(http.MethodGet, "/v1/admin/users", managerToken, nil)
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d: %s", w.Code, w.Body.String())
	}
	resp := decodeError(t, w.Body.Bytes())
	if resp.Error != "Insufficient permissions" {
		t.Fatalf("unexpected error message: %q", resp.Error)
	}
	if len(resp.Required) != 1 || resp.Required[0] != domain.RoleAdmin {
		t.Fatalf("unexpected required roles: %v", resp.Required)
	}
}
