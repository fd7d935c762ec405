package db

import (
	"context"

	"taskboard/internal/domain"

	"gorm.io/gorm"
)

type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Create(ctx context.Context, task domain.Task) error {
	if r.db == nil {
		return errDBUnavailable
	}
	model := taskToModel(task)
	return r.db.WithContext(ctx).Create(&model).Error
}

func (r *TaskRepository) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	if r.db == nil {
		return nil, errDBUnavailable
	}
	var model TaskModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, mapNotFound(err)
	}
	task := taskFromModel(model)
	return &task, nil
}

func (r *TaskRepository) ListByProject(ctx context.Context, projectID string) ([]domain.Task, error) {
	if r.db == nil {
		return nil, errDBUnavailable
	}
	var models []TaskModel
	err := r.db.WithContext(ctx).Where("project_id = ?", projectID).Order("created_at").Find(&models).Error
	if err != nil {
		return nil, err
	}
	tasks := make([]domain.Task, 0, len(models))
	for _, model := range models {
		tasks = append(tasks, taskFromModel(model))
	}
	return tasks, nil
}

func (r *TaskRepository) Update(ctx context.Context, task domain.Task) error {
	if r.db == nil {
		return errDBUnavailable
	}
	model := taskToModel(task)
	result := r.db.WithContext(ctx).Model(&TaskModel{}).Where("id = ?", task.ID).Updates(map[string]any{
		"title":        model.Title,
		"description":  model.Description,
		"status":       model.Status,
		"priority":     model.Priority,
		"assignee_id":  model.AssigneeID,
		"milestone_id": model.MilestoneID,
		"due_date":     model.DueDate,
		"updated_at":   model.UpdatedAt,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	if r.db == nil {
		return errDBUnavailable
	}
	result := r.db.WithContext(ctx).Delete(&TaskModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func taskToModel(task domain.Task) TaskModel {
	return TaskModel{
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

func taskFromModel(model TaskModel) domain.Task {
	return domain.Task{
		ID:          model.ID,
		ProjectID:   model.ProjectID,
		Title:       model.Title,
		Description: model.Description,
		Status:      domain.TaskStatus(model.Status),
		Priority:    domain.TaskPriority(model.Priority),
		AssigneeID:  model.AssigneeID,
		MilestoneID: model.MilestoneID,
		DueDate:     model.DueDate,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}
}
