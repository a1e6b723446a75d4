package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/joeystdio/handoff-app/internal/modules/authz"
	"github.com/joeystdio/handoff-app/internal/modules/model"
	"github.com/joeystdio/handoff-app/internal/modules/repo"
)

type UpdateService interface {
	CreateByFreelancer(ctx context.Context, ownerID, projectID uuid.UUID, content string) (*model.Update, error)
	// CreateByClient is the portal reply path; the client may only post to
	// its own projects.
	CreateByClient(ctx context.Context, clientID, projectID uuid.UUID, content string) (*model.Update, error)
	List(ctx context.Context, ownerID, projectID uuid.UUID) ([]model.UpdateWithAuthor, error)
	ListForClient(ctx context.Context, clientID, projectID uuid.UUID) ([]model.UpdateWithAuthor, error)
}

type updateService struct {
	r  repo.UpdateRepo
	az authz.Checker
}

func NewUpdateService(r repo.UpdateRepo, az authz.Checker) UpdateService {
	return &updateService{r: r, az: az}
}

func (s *updateService) CreateByFreelancer(ctx context.Context, ownerID, projectID uuid.UUID, content string) (*model.Update, error) {
	project, err := s.az.ProjectForOwner(ctx, ownerID, projectID)
	if err != nil {
		return nil, err
	}
	return s.create(ctx, project.ID, model.AuthorFreelancer, ownerID, content)
}

func (s *updateService) CreateByClient(ctx context.Context, clientID, projectID uuid.UUID, content string) (*model.Update, error) {
	project, err := s.az.ProjectForClient(ctx, clientID, projectID)
	if err != nil {
		return nil, err
	}
	return s.create(ctx, project.ID, model.AuthorClient, clientID, content)
}

func (s *updateService) List(ctx context.Context, ownerID, projectID uuid.UUID) ([]model.UpdateWithAuthor, error) {
	if _, err := s.az.ProjectForOwner(ctx, ownerID, projectID); err != nil {
		return nil, err
	}
	return s.r.ListByProject(ctx, projectID)
}

func (s *updateService) ListForClient(ctx context.Context, clientID, projectID uuid.UUID) ([]model.UpdateWithAuthor, error) {
	if _, err := s.az.ProjectForClient(ctx, clientID, projectID); err != nil {
		return nil, err
	}
	return s.r.ListByProject(ctx, projectID)
}

func (s *updateService) create(ctx context.Context, projectID uuid.UUID, authorType string, authorID uuid.UUID, content string) (*model.Update, error) {
	u := &model.Update{
		ProjectID:  projectID,
		AuthorType: authorType,
		AuthorID:   authorID,
		Content:    content,
	}
	if err := s.r.Create(ctx, u); err != nil {
		return nil, fmt.Errorf("create update: %w", err)
	}
	return u, nil
}
