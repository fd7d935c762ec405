package db

import (
	"context"

	"taskboard/internal/domain"

	"gorm.io/gorm"
)

type MilestoneRepository struct {
	db *gorm.DB
}

func NewMilestoneRepository(db *gorm.DB) *MilestoneRepository {
	return &MilestoneRepository{db: db}
}

func (r *MilestoneRepository) Create(ctx context.Context, milestone domain.Milestone) error {
	if r.db == nil {
		return errDBUnavailable
	}
	model := MilestoneModel{
		ID:        milestone.ID,
		ProjectID: milestone.ProjectID,
		Name:      milestone.Name,
		DueDate:   milestone.DueDate,
		CreatedAt: milestone.CreatedAt,
	}
	return r.db.WithContext(ctx).Create(&model).Error
}

func (r *MilestoneRepository) ListByProject(ctx context.Context, projectID string) ([]domain.Milestone, error) {
	if r.db == nil {
		return nil, errDBUnavailable
	}
	var models []MilestoneModel
	err := r.db.WithContext(ctx).Where("project_id = ?", projectID).Order("due_date").Find(&models).Error
	if err != nil {
		return nil, err
	}
	milestones := make([]domain.Milestone, 0, len(models))
	for _, model := range models {
		milestones = append(milestones, domain.Milestone{
			ID:        model.ID,
			ProjectID: model.ProjectID,
			Name:      model.Name,
			DueDate:   model.DueDate,
			CreatedAt: model.CreatedAt,
		})
	}
	return milestones, nil
}
