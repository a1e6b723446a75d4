package repo

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/joeystdio/handoff-app/internal/modules/model"
)

type UpdateRepo interface {
	Create(ctx context.Context, u *model.Update) error
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]model.UpdateWithAuthor, error)
}

type updateRepo struct{ db *gorm.DB }

func NewUpdateRepo(db *gorm.DB) UpdateRepo {
	return &updateRepo{db: db}
}

func (r *updateRepo) Create(ctx context.Context, u *model.Update) error {
	return r.db.WithContext(ctx).Create(u).Error
}

// ListByProject resolves the polymorphic author reference at query time:
// author_id joins against freelancers or clients depending on author_type,
// since no FK constraint can bind a discriminated column.
func (r *updateRepo) ListByProject(ctx context.Context, projectID uuid.UUID) ([]model.UpdateWithAuthor, error) {
	var rows []model.UpdateWithAuthor
	err := r.db.WithContext(ctx).
		Model(&model.Update{}).
		Select("updates.*, COALESCE(freelancers.name, clients.name, '') AS author_name").
		Joins("LEFT JOIN freelancers ON updates.author_type = ? AND freelancers.id = updates.author_id", model.AuthorFreelancer).
		Joins("LEFT JOIN clients ON updates.author_type = ? AND clients.id = updates.author_id", model.AuthorClient).
		Where("updates.project_id = ?", projectID).
		Order("updates.created_at ASC").
		Find(&rows).Error
	return rows, err
}
