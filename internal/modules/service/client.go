package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/joeystdio/handoff-app/internal/config"
	"github.com/joeystdio/handoff-app/internal/infra/httpclient"
	"github.com/joeystdio/handoff-app/internal/modules/authz"
	"github.com/joeystdio/handoff-app/internal/modules/model"
	"github.com/joeystdio/handoff-app/internal/modules/repo"
	"github.com/joeystdio/handoff-app/internal/pkg/paging"
	"github.com/joeystdio/handoff-app/internal/pkg/utils/tokens"
)

// lastSeenDebounce limits last-seen writes to one per client per interval.
const lastSeenDebounce = time.Minute

type ClientService interface {
	Create(ctx context.Context, ownerID, portalID uuid.UUID, in CreateClientInput) (*CreateClientOutput, error)
	List(ctx context.Context, ownerID, portalID uuid.UUID) ([]model.Client, error)
	Activity(ctx context.Context, ownerID, clientID uuid.UUID, in ActivityInput) (*ActivityOutput, error)
	// ResolveAccessToken is the client-side identity resolution: opaque
	// token to client row, fail closed. On success it schedules a
	// best-effort last-seen touch that never fails the request.
	ResolveAccessToken(ctx context.Context, token string) (*model.Client, error)
}

type clientService struct {
	r        repo.ClientRepo
	activity repo.ActivityRepo
	az       authz.Checker
	cache    *redis.Client
	mailer   *httpclient.Mailer
	cfg      *config.Config
	log      *zap.Logger
}

func NewClientService(r repo.ClientRepo, activity repo.ActivityRepo, az authz.Checker, cache *redis.Client, mailer *httpclient.Mailer, cfg *config.Config, log *zap.Logger) ClientService {
	return &clientService{r: r, activity: activity, az: az, cache: cache, mailer: mailer, cfg: cfg, log: log}
}

type CreateClientInput struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type CreateClientOutput struct {
	Client *model.Client `json:"client"`
	// AccessToken is returned exactly once, at creation.
	AccessToken string `json:"access_token"`
	MagicLink   string `json:"magic_link"`
}

func (s *clientService) Create(ctx context.Context, ownerID, portalID uuid.UUID, in CreateClientInput) (*CreateClientOutput, error) {
	portal, err := s.az.PortalForOwner(ctx, ownerID, portalID)
	if err != nil {
		return nil, err
	}

	token, err := tokens.NewAccessToken()
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}

	c := &model.Client{
		PortalID:    portal.ID,
		Name:        in.Name,
		Email:       in.Email,
		AccessToken: token,
	}
	if err := s.r.Create(ctx, c); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("create client: %w", err)
	}

	link := fmt.Sprintf("https://%s.%s/portal?token=%s", portal.Subdomain, s.cfg.Auth.PortalDomain, token)

	if s.mailer != nil && s.mailer.Enabled() {
		// Invite delivery is best effort; client creation already succeeded.
		go func() {
			mailCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := s.mailer.SendInvite(mailCtx, c.Email, portal.Name, link); err != nil {
				s.log.Warn("invite mail failed",
					zap.Error(err),
					zap.String("client_id", c.ID.String()))
			}
		}()
	}

	return &CreateClientOutput{Client: c, AccessToken: token, MagicLink: link}, nil
}

func (s *clientService) List(ctx context.Context, ownerID, portalID uuid.UUID) ([]model.Client, error) {
	if _, err := s.az.PortalForOwner(ctx, ownerID, portalID); err != nil {
		return nil, err
	}
	return s.r.ListByPortal(ctx, portalID)
}

type ActivityInput struct {
	Limit          int    `json:"limit"`
	ViewCursor     string `json:"view_cursor"`
	DownloadCursor string `json:"download_cursor"`
}

type ActivityOutput struct {
	Views              []model.ClientView   `json:"views"`
	Downloads          []model.FileDownload `json:"downloads"`
	NextViewCursor     string               `json:"next_view_cursor,omitempty"`
	NextDownloadCursor string               `json:"next_download_cursor,omitempty"`
	HasMoreViews       bool                 `json:"has_more_views"`
	HasMoreDownloads   bool                 `json:"has_more_downloads"`
}

func (s *clientService) Activity(ctx context.Context, ownerID, clientID uuid.UUID, in ActivityInput) (*ActivityOutput, error) {
	client, err := s.az.ClientForOwner(ctx, ownerID, clientID)
	if err != nil {
		return nil, err
	}

	if in.Limit <= 0 {
		in.Limit = 50
	}

	out := &ActivityOutput{}

	var afterT time.Time
	var afterID uuid.UUID
	if in.ViewCursor != "" {
		if afterT, afterID, err = paging.DecodeCursor(in.ViewCursor); err != nil {
			return nil, err
		}
	}
	views, err := s.activity.ListViews(ctx, client.ID, afterT, afterID, in.Limit+1)
	if err != nil {
		return nil, fmt.Errorf("list views: %w", err)
	}
	out.Views = views
	if len(views) > in.Limit {
		out.HasMoreViews = true
		out.Views = views[:in.Limit]
		last := out.Views[len(out.Views)-1]
		out.NextViewCursor = paging.EncodeCursor(last.CreatedAt, last.ID)
	}

	afterT, afterID = time.Time{}, uuid.Nil
	if in.DownloadCursor != "" {
		if afterT, afterID, err = paging.DecodeCursor(in.DownloadCursor); err != nil {
			return nil, err
		}
	}
	downloads, err := s.activity.ListDownloads(ctx, client.ID, afterT, afterID, in.Limit+1)
	if err != nil {
		return nil, fmt.Errorf("list downloads: %w", err)
	}
	out.Downloads = downloads
	if len(downloads) > in.Limit {
		out.HasMoreDownloads = true
		out.Downloads = downloads[:in.Limit]
		last := out.Downloads[len(out.Downloads)-1]
		out.NextDownloadCursor = paging.EncodeCursor(last.CreatedAt, last.ID)
	}

	return out, nil
}

func (s *clientService) ResolveAccessToken(ctx context.Context, token string) (*model.Client, error) {
	if token == "" {
		return nil, ErrInvalidCredentials
	}
	c, err := s.r.GetByAccessToken(ctx, token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("resolve access token: %w", err)
	}

	s.touchLastSeen(c.ID)
	return c, nil
}

// touchLastSeen updates the client's last-seen timestamp off the request
// path, debounced through redis so a busy portal session does not hammer the
// row. Failures are logged only.
func (s *clientService) touchLastSeen(clientID uuid.UUID) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if s.cache != nil {
			set, err := s.cache.SetNX(ctx, "client:seen:"+clientID.String(), 1, lastSeenDebounce).Result()
			if err == nil && !set {
				return
			}
		}

		if err := s.r.TouchLastSeen(ctx, clientID, time.Now()); err != nil {
			s.log.Warn("failed to update client last-seen",
				zap.Error(err),
				zap.String("client_id", clientID.String()))
		}
	}()
}
