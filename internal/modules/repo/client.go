package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/joeystdio/handoff-app/internal/modules/model"
)

type ClientRepo interface {
	Create(ctx context.Context, c *model.Client) error
	ListByPortal(ctx context.Context, portalID uuid.UUID) ([]model.Client, error)
	GetByAccessToken(ctx context.Context, token string) (*model.Client, error)
	TouchLastSeen(ctx context.Context, id uuid.UUID, at time.Time) error
}

type clientRepo struct{ db *gorm.DB }

func NewClientRepo(db *gorm.DB) ClientRepo {
	return &clientRepo{db: db}
}

func (r *clientRepo) Create(ctx context.Context, c *model.Client) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *clientRepo) ListByPortal(ctx context.Context, portalID uuid.UUID) ([]model.Client, error) {
	var clients []model.Client
	err := r.db.WithContext(ctx).
		Where("portal_id = ?", portalID).
		Order("created_at ASC").
		Find(&clients).Error
	return clients, err
}

func (r *clientRepo) GetByAccessToken(ctx context.Context, token string) (*model.Client, error) {
	var c model.Client
	err := r.db.WithContext(ctx).Where("access_token = ?", token).First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *clientRepo) TouchLastSeen(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&model.Client{}).
		Where("id = ?", id).
		Update("last_seen_at", at).Error
}
