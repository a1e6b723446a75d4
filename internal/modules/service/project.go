package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/joeystdio/handoff-app/internal/modules/authz"
	"github.com/joeystdio/handoff-app/internal/modules/model"
	"github.com/joeystdio/handoff-app/internal/modules/repo"
)

type ProjectService interface {
	Create(ctx context.Context, ownerID, clientID uuid.UUID, in CreateProjectInput) (*model.Project, error)
	List(ctx context.Context, ownerID, clientID uuid.UUID) ([]model.Project, error)
	Get(ctx context.Context, ownerID, projectID uuid.UUID) (*model.Project, error)

	// Client-portal surface. The client principal only ever sees its own
	// projects; the scope is the filter, not a post-fetch check.
	ListForClient(ctx context.Context, clientID uuid.UUID) ([]model.Project, error)
	GetForClient(ctx context.Context, clientID, projectID uuid.UUID) (*model.Project, error)
}

type projectService struct {
	r  repo.ProjectRepo
	az authz.Checker
}

func NewProjectService(r repo.ProjectRepo, az authz.Checker) ProjectService {
	return &projectService{r: r, az: az}
}

type CreateProjectInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Status      string `json:"status"`
}

func (s *projectService) Create(ctx context.Context, ownerID, clientID uuid.UUID, in CreateProjectInput) (*model.Project, error) {
	client, err := s.az.ClientForOwner(ctx, ownerID, clientID)
	if err != nil {
		return nil, err
	}

	status := in.Status
	if status == "" {
		status = "active"
	}
	p := &model.Project{
		ClientID:    client.ID,
		Name:        in.Name,
		Description: in.Description,
		Status:      status,
	}
	if err := s.r.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}
	return p, nil
}

func (s *projectService) List(ctx context.Context, ownerID, clientID uuid.UUID) ([]model.Project, error) {
	if _, err := s.az.ClientForOwner(ctx, ownerID, clientID); err != nil {
		return nil, err
	}
	return s.r.ListByClient(ctx, clientID)
}

func (s *projectService) Get(ctx context.Context, ownerID, projectID uuid.UUID) (*model.Project, error) {
	return s.az.ProjectForOwner(ctx, ownerID, projectID)
}

func (s *projectService) ListForClient(ctx context.Context, clientID uuid.UUID) ([]model.Project, error) {
	return s.r.ListByClient(ctx, clientID)
}

func (s *projectService) GetForClient(ctx context.Context, clientID, projectID uuid.UUID) (*model.Project, error) {
	return s.az.ProjectForClient(ctx, clientID, projectID)
}
