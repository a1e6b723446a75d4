package repo

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/joeystdio/handoff-app/internal/modules/model"
)

type FileRepo interface {
	Create(ctx context.Context, f *model.File) error
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]model.File, error)
}

type fileRepo struct{ db *gorm.DB }

func NewFileRepo(db *gorm.DB) FileRepo {
	return &fileRepo{db: db}
}

func (r *fileRepo) Create(ctx context.Context, f *model.File) error {
	return r.db.WithContext(ctx).Create(f).Error
}

func (r *fileRepo) ListByProject(ctx context.Context, projectID uuid.UUID) ([]model.File, error) {
	var files []model.File
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("created_at DESC").
		Find(&files).Error
	return files, err
}
