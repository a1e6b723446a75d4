package tracking

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/joeystdio/handoff-app/internal/config"
	mq "github.com/joeystdio/handoff-app/internal/infra/queue"
	"github.com/joeystdio/handoff-app/internal/modules/model"
)

const appendTimeout = 5 * time.Second

// Recorder appends analytics events for the client-facing surface. Appends
// are fire-and-forget: they run off the request goroutine, failures are
// logged and never surfaced, and the download event is written before any
// file bytes move, so an interrupted transfer still counts.
//
// Freelancer-side reads are never recorded; callers on that surface simply
// do not hold a Recorder.
type Recorder struct {
	db        *gorm.DB
	publisher *mq.Publisher
	cfg       *config.Config
	log       *zap.Logger
	wg        sync.WaitGroup
}

func NewRecorder(db *gorm.DB, publisher *mq.Publisher, cfg *config.Config, log *zap.Logger) *Recorder {
	return &Recorder{db: db, publisher: publisher, cfg: cfg, log: log}
}

type viewEvent struct {
	ClientID  uuid.UUID  `json:"client_id"`
	Page      string     `json:"page"`
	ProjectID *uuid.UUID `json:"project_id,omitempty"`
}

type downloadEvent struct {
	FileID   uuid.UUID `json:"file_id"`
	ClientID uuid.UUID `json:"client_id"`
	IP       string    `json:"ip"`
}

// View records one ClientView row for a portal page load. projectID is nil
// for the project list page.
func (r *Recorder) View(clientID uuid.UUID, page string, projectID *uuid.UUID) {
	r.spawn(func(ctx context.Context) {
		row := model.ClientView{ClientID: clientID, Page: page, ProjectID: projectID}
		if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
			r.log.Warn("failed to record client view",
				zap.Error(err),
				zap.String("client_id", clientID.String()),
				zap.String("page", page))
			return
		}
		r.publish(ctx, r.cfg.RabbitMQ.ViewRoutingKey, viewEvent{
			ClientID:  clientID,
			Page:      page,
			ProjectID: projectID,
		})
	})
}

// Download records one FileDownload row with the requester's IP.
func (r *Recorder) Download(fileID, clientID uuid.UUID, ip string) {
	r.spawn(func(ctx context.Context) {
		row := model.FileDownload{FileID: fileID, ClientID: clientID, IP: ip}
		if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
			r.log.Warn("failed to record file download",
				zap.Error(err),
				zap.String("file_id", fileID.String()),
				zap.String("client_id", clientID.String()))
			return
		}
		r.publish(ctx, r.cfg.RabbitMQ.DownloadRouting, downloadEvent{
			FileID:   fileID,
			ClientID: clientID,
			IP:       ip,
		})
	})
}

// Wait blocks until in-flight appends finish. Used on shutdown and in tests.
func (r *Recorder) Wait() {
	r.wg.Wait()
}

func (r *Recorder) spawn(fn func(ctx context.Context)) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), appendTimeout)
		defer cancel()
		fn(ctx)
	}()
}

func (r *Recorder) publish(ctx context.Context, routingKey string, body any) {
	if r.publisher == nil {
		return
	}
	if err := r.publisher.PublishJSON(ctx, r.cfg.RabbitMQ.AnalyticsExchange, routingKey, body); err != nil {
		r.log.Warn("failed to publish analytics event", zap.Error(err), zap.String("routing_key", routingKey))
	}
}
