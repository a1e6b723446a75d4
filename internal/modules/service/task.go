package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/joeystdio/handoff-app/internal/modules/authz"
	"github.com/joeystdio/handoff-app/internal/modules/model"
	"github.com/joeystdio/handoff-app/internal/modules/repo"
)

type TaskService interface {
	Create(ctx context.Context, ownerID, projectID uuid.UUID, in CreateTaskInput) (*model.Task, error)
	List(ctx context.Context, ownerID, projectID uuid.UUID) ([]model.Task, error)
	Update(ctx context.Context, ownerID, taskID uuid.UUID, in UpdateTaskInput) (*model.Task, error)
	Delete(ctx context.Context, ownerID, taskID uuid.UUID) error

	// ListForClient scopes by the client's own project chain, never the
	// freelancer chain.
	ListForClient(ctx context.Context, clientID, projectID uuid.UUID) ([]model.Task, error)
}

type taskService struct {
	r  repo.TaskRepo
	az authz.Checker
}

func NewTaskService(r repo.TaskRepo, az authz.Checker) TaskService {
	return &taskService{r: r, az: az}
}

type CreateTaskInput struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Stage       string     `json:"stage"`
	Position    int        `json:"position"`
	DueDate     *time.Time `json:"due_date"`
}

// UpdateTaskInput carries a partial update: nil means the field was omitted
// and must stay untouched.
type UpdateTaskInput struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Stage       *string    `json:"stage"`
	Position    *int       `json:"position"`
	DueDate     *time.Time `json:"due_date"`
}

func (s *taskService) Create(ctx context.Context, ownerID, projectID uuid.UUID, in CreateTaskInput) (*model.Task, error) {
	project, err := s.az.ProjectForOwner(ctx, ownerID, projectID)
	if err != nil {
		return nil, err
	}

	stage := in.Stage
	if stage == "" {
		stage = model.StageBacklog
	}
	t := &model.Task{
		ProjectID:   project.ID,
		Title:       in.Title,
		Description: in.Description,
		Stage:       stage,
		Position:    in.Position,
		DueDate:     in.DueDate,
	}
	if err := s.r.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	return t, nil
}

func (s *taskService) List(ctx context.Context, ownerID, projectID uuid.UUID) ([]model.Task, error) {
	if _, err := s.az.ProjectForOwner(ctx, ownerID, projectID); err != nil {
		return nil, err
	}
	return s.r.ListByProject(ctx, projectID)
}

func (s *taskService) ListForClient(ctx context.Context, clientID, projectID uuid.UUID) ([]model.Task, error) {
	if _, err := s.az.ProjectForClient(ctx, clientID, projectID); err != nil {
		return nil, err
	}
	return s.r.ListByProject(ctx, projectID)
}

// Update authorizes the full chain, then applies only the fields present in
// the input. An empty update set is a no-op success returning the current
// row, not an error.
func (s *taskService) Update(ctx context.Context, ownerID, taskID uuid.UUID, in UpdateTaskInput) (*model.Task, error) {
	task, err := s.az.TaskForOwner(ctx, ownerID, taskID)
	if err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if in.Title != nil {
		fields["title"] = *in.Title
	}
	if in.Description != nil {
		fields["description"] = *in.Description
	}
	if in.Stage != nil {
		fields["stage"] = *in.Stage
	}
	if in.Position != nil {
		fields["position"] = *in.Position
	}
	if in.DueDate != nil {
		fields["due_date"] = *in.DueDate
	}

	if len(fields) == 0 {
		return task, nil
	}

	updated, err := s.r.UpdateFields(ctx, task.ID, fields)
	if err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}
	return updated, nil
}

func (s *taskService) Delete(ctx context.Context, ownerID, taskID uuid.UUID) error {
	task, err := s.az.TaskForOwner(ctx, ownerID, taskID)
	if err != nil {
		return err
	}
	if err := s.r.Delete(ctx, task.ID); err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}
