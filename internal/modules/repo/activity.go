package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/joeystdio/handoff-app/internal/modules/model"
)

// ActivityRepo reads the append-only tracking logs for the freelancer-facing
// activity view. Writes happen only through the tracking recorder.
type ActivityRepo interface {
	ListViews(ctx context.Context, clientID uuid.UUID, afterCreatedAt time.Time, afterID uuid.UUID, limit int) ([]model.ClientView, error)
	ListDownloads(ctx context.Context, clientID uuid.UUID, afterCreatedAt time.Time, afterID uuid.UUID, limit int) ([]model.FileDownload, error)
}

type activityRepo struct{ db *gorm.DB }

func NewActivityRepo(db *gorm.DB) ActivityRepo {
	return &activityRepo{db: db}
}

func (r *activityRepo) ListViews(ctx context.Context, clientID uuid.UUID, afterCreatedAt time.Time, afterID uuid.UUID, limit int) ([]model.ClientView, error) {
	q := r.db.WithContext(ctx).Where("client_id = ?", clientID)
	q = applyCursor(q, afterCreatedAt, afterID)

	var views []model.ClientView
	return views, q.Order("created_at DESC, id DESC").Limit(limit).Find(&views).Error
}

func (r *activityRepo) ListDownloads(ctx context.Context, clientID uuid.UUID, afterCreatedAt time.Time, afterID uuid.UUID, limit int) ([]model.FileDownload, error) {
	q := r.db.WithContext(ctx).Where("client_id = ?", clientID)
	q = applyCursor(q, afterCreatedAt, afterID)

	var downloads []model.FileDownload
	return downloads, q.Order("created_at DESC, id DESC").Limit(limit).Find(&downloads).Error
}

// applyCursor filters to rows strictly after the cursor position in the
// newest-first ordering.
func applyCursor(q *gorm.DB, afterCreatedAt time.Time, afterID uuid.UUID) *gorm.DB {
	if afterCreatedAt.IsZero() || afterID == uuid.Nil {
		return q
	}
	return q.Where(
		"(created_at < ?) OR (created_at = ? AND id < ?)",
		afterCreatedAt, afterCreatedAt, afterID,
	)
}
