package db

import (
	"context"

	"taskboard/internal/domain"

	"gorm.io/gorm"
)

type ProjectRepository struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

func (r *ProjectRepository) Create(ctx context.Context, project domain.Project) error {
	if r.db == nil {
		return errDBUnavailable
	}
	model := projectToModel(project)
	return r.db.WithContext(ctx).Create(&model).Error
}

func (r *ProjectRepository) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	if r.db == nil {
		return nil, errDBUnavailable
	}
	var model ProjectModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, mapNotFound(err)
	}
	project := projectFromModel(model)
	return &project, nil
}

func (r *ProjectRepository) List(ctx context.Context, activeOnly bool) ([]domain.Project, error) {
	if r.db == nil {
		return nil, errDBUnavailable
	}
	q := r.db.WithContext(ctx).Order("created_at")
	if activeOnly {
		q = q.Where("status = ?", string(domain.ProjectStatusActive))
	}
	var models []ProjectModel
	if err := q.Find(&models).Error; err != nil {
		return nil, err
	}
	projects := make([]domain.Project, 0, len(models))
	for _, model := range models {
		projects = append(projects, projectFromModel(model))
	}
	return projects, nil
}

func (r *ProjectRepository) Update(ctx context.Context, project domain.Project) error {
	if r.db == nil {
		return errDBUnavailable
	}
	model := projectToModel(project)
	result := r.db.WithContext(ctx).Model(&ProjectModel{}).Where("id = ?", project.ID).Updates(map[string]any{
		"name":        model.Name,
		"description": model.Description,
		"status":      model.Status,
		"team_id":     model.TeamID,
		"start_date":  model.StartDate,
		"end_date":    model.EndDate,
		"updated_at":  model.UpdatedAt,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ProjectRepository) Delete(ctx context.Context, id string) error {
	if r.db == nil {
		return errDBUnavailable
	}
	result := r.db.WithContext(ctx).Delete(&ProjectModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func projectToModel(project domain.Project) ProjectModel {
	return ProjectModel{
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

func projectFromModel(model ProjectModel) domain.Project {
	return domain.Project{
		ID:          model.ID,
		TeamID:      model.TeamID,
		OwnerID:     model.OwnerID,
		Name:        model.Name,
		Description: model.Description,
		Status:      domain.ProjectStatus(model.Status),
		StartDate:   model.StartDate,
		EndDate:     model.EndDate,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}
}
