package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/joeystdio/handoff-app/internal/modules/authz"
	"github.com/joeystdio/handoff-app/internal/modules/model"
	"github.com/joeystdio/handoff-app/internal/modules/repo"
)

const subdomainCacheTTL = 60 * time.Second

type PortalService interface {
	Create(ctx context.Context, ownerID uuid.UUID, in CreatePortalInput) (*model.Portal, error)
	List(ctx context.Context, ownerID uuid.UUID) ([]model.Portal, error)
	Delete(ctx context.Context, ownerID, portalID uuid.UUID) error
	// GetBySubdomain serves the public, unauthenticated branding lookup.
	GetBySubdomain(ctx context.Context, subdomain string) (*PublicPortal, error)
}

type portalService struct {
	r     repo.PortalRepo
	az    authz.Checker
	cache *redis.Client
	log   *zap.Logger
}

func NewPortalService(r repo.PortalRepo, az authz.Checker, cache *redis.Client, log *zap.Logger) PortalService {
	return &portalService{r: r, az: az, cache: cache, log: log}
}

type CreatePortalInput struct {
	Subdomain   string `json:"subdomain"`
	Name        string `json:"name"`
	LogoURL     string `json:"logo_url"`
	AccentColor string `json:"accent_color"`
}

// PublicPortal is the subset safe to expose without authentication.
type PublicPortal struct {
	Subdomain string            `json:"subdomain"`
	Name      string            `json:"name"`
	Branding  datatypes.JSONMap `json:"branding"`
}

func (s *portalService) Create(ctx context.Context, ownerID uuid.UUID, in CreatePortalInput) (*model.Portal, error) {
	p := &model.Portal{
		FreelancerID: ownerID,
		Subdomain:    strings.ToLower(in.Subdomain),
		Name:         in.Name,
		Branding: datatypes.JSONMap{
			"logo_url":     in.LogoURL,
			"accent_color": in.AccentColor,
		},
	}
	if err := s.r.Create(ctx, p); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("create portal: %w", err)
	}
	return p, nil
}

func (s *portalService) List(ctx context.Context, ownerID uuid.UUID) ([]model.Portal, error) {
	return s.r.ListByOwner(ctx, ownerID)
}

func (s *portalService) Delete(ctx context.Context, ownerID, portalID uuid.UUID) error {
	p, err := s.az.PortalForOwner(ctx, ownerID, portalID)
	if err != nil {
		return err
	}
	if err := s.r.Delete(ctx, p.ID); err != nil {
		return fmt.Errorf("delete portal: %w", err)
	}
	s.invalidate(ctx, p.Subdomain)
	return nil
}

func (s *portalService) GetBySubdomain(ctx context.Context, subdomain string) (*PublicPortal, error) {
	subdomain = strings.ToLower(subdomain)
	key := cacheKey(subdomain)

	if s.cache != nil {
		if raw, err := s.cache.Get(ctx, key).Bytes(); err == nil {
			var pub PublicPortal
			if err := sonic.Unmarshal(raw, &pub); err == nil {
				return &pub, nil
			}
		}
	}

	p, err := s.r.GetBySubdomain(ctx, subdomain)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, authz.ErrNotFound
		}
		return nil, fmt.Errorf("lookup portal: %w", err)
	}

	pub := &PublicPortal{
		Subdomain: p.Subdomain,
		Name:      p.Name,
		Branding:  p.Branding,
	}

	if s.cache != nil {
		if raw, err := sonic.Marshal(pub); err == nil {
			if err := s.cache.Set(ctx, key, raw, subdomainCacheTTL).Err(); err != nil {
				s.log.Debug("portal cache set failed", zap.Error(err), zap.String("subdomain", subdomain))
			}
		}
	}
	return pub, nil
}

func (s *portalService) invalidate(ctx context.Context, subdomain string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, cacheKey(subdomain)).Err(); err != nil {
		s.log.Debug("portal cache invalidation failed", zap.Error(err), zap.String("subdomain", subdomain))
	}
}

func cacheKey(subdomain string) string {
	return "portal:subdomain:" + subdomain
}
