package repo

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/joeystdio/handoff-app/internal/modules/model"
)

type ProjectRepo interface {
	Create(ctx context.Context, p *model.Project) error
	ListByClient(ctx context.Context, clientID uuid.UUID) ([]model.Project, error)
}

type projectRepo struct{ db *gorm.DB }

func NewProjectRepo(db *gorm.DB) ProjectRepo {
	return &projectRepo{db: db}
}

func (r *projectRepo) Create(ctx context.Context, p *model.Project) error {
	return r.db.WithContext(ctx).Create(p).Error
}

// ListByClient scopes by the owning client id, so ownership enforcement is
// part of the filter itself for both the freelancer surface (after the chain
// check on the client) and the client-portal surface (principal's own id).
func (r *projectRepo) ListByClient(ctx context.Context, clientID uuid.UUID) ([]model.Project, error) {
	var projects []model.Project
	err := r.db.WithContext(ctx).
		Where("client_id = ?", clientID).
		Order("created_at ASC").
		Find(&projects).Error
	return projects, err
}
