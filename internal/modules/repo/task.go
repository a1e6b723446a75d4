package repo

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/joeystdio/handoff-app/internal/modules/model"
)

type TaskRepo interface {
	Create(ctx context.Context, t *model.Task) error
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]model.Task, error)
	UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]any) (*model.Task, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type taskRepo struct{ db *gorm.DB }

func NewTaskRepo(db *gorm.DB) TaskRepo {
	return &taskRepo{db: db}
}

func (r *taskRepo) Create(ctx context.Context, t *model.Task) error {
	return r.db.WithContext(ctx).Create(t).Error
}

// ListByProject orders by stage then position; position only means anything
// within a stage.
func (r *taskRepo) ListByProject(ctx context.Context, projectID uuid.UUID) ([]model.Task, error) {
	var tasks []model.Task
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("stage ASC, position ASC, created_at ASC").
		Find(&tasks).Error
	return tasks, err
}

// UpdateFields applies a partial update: only the given columns change.
// Concurrent updates interleave last-write-wins per column; the store's row
// lock is the only serialization. Returns the row as of after the update.
func (r *taskRepo) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]any) (*model.Task, error) {
	if len(fields) > 0 {
		err := r.db.WithContext(ctx).
			Model(&model.Task{}).
			Where("id = ?", id).
			Updates(fields).Error
		if err != nil {
			return nil, err
		}
	}

	var t model.Task
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&t).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *taskRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Task{}).Error
}
