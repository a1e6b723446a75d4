package repo

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/joeystdio/handoff-app/internal/modules/model"
)

type PortalRepo interface {
	Create(ctx context.Context, p *model.Portal) error
	ListByOwner(ctx context.Context, freelancerID uuid.UUID) ([]model.Portal, error)
	GetBySubdomain(ctx context.Context, subdomain string) (*model.Portal, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type portalRepo struct{ db *gorm.DB }

func NewPortalRepo(db *gorm.DB) PortalRepo {
	return &portalRepo{db: db}
}

func (r *portalRepo) Create(ctx context.Context, p *model.Portal) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *portalRepo) ListByOwner(ctx context.Context, freelancerID uuid.UUID) ([]model.Portal, error) {
	var portals []model.Portal
	err := r.db.WithContext(ctx).
		Where("freelancer_id = ?", freelancerID).
		Order("created_at ASC").
		Find(&portals).Error
	return portals, err
}

func (r *portalRepo) GetBySubdomain(ctx context.Context, subdomain string) (*model.Portal, error) {
	var p model.Portal
	err := r.db.WithContext(ctx).Where("subdomain = ?", subdomain).First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Delete removes the portal row; clients, projects, tasks, updates, files and
// the tracking logs go with it through the schema's cascade constraints.
func (r *portalRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Portal{}).Error
}
