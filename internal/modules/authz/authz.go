package authz

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/joeystdio/handoff-app/internal/modules/model"
)

var (
	// ErrNotFound: no row exists for the target id.
	ErrNotFound = errors.New("entity not found")
	// ErrForbidden: the row exists but its ownership chain does not reach
	// the principal.
	ErrForbidden = errors.New("entity not owned by principal")
)

// Checker is the ownership-chain contract the services program against.
// Authorizer is the production implementation.
type Checker interface {
	PortalForOwner(ctx context.Context, freelancerID, portalID uuid.UUID) (*model.Portal, error)
	ClientForOwner(ctx context.Context, freelancerID, clientID uuid.UUID) (*model.Client, error)
	ProjectForOwner(ctx context.Context, freelancerID, projectID uuid.UUID) (*model.Project, error)
	TaskForOwner(ctx context.Context, freelancerID, taskID uuid.UUID) (*model.Task, error)
	FileForOwner(ctx context.Context, freelancerID, fileID uuid.UUID) (*model.File, error)

	ProjectForClient(ctx context.Context, clientID, projectID uuid.UUID) (*model.Project, error)
	FileForClient(ctx context.Context, clientID, fileID uuid.UUID) (*model.File, error)
}

// Authorizer walks the foreign-key chain from a target entity up to its
// portal owner. Every check is a single joined query fetching the entity
// together with the owning freelancer id, so there is no gap between the
// existence check and the ownership check. Callers translate the outcome:
// missing row is ErrNotFound, owner mismatch is ErrForbidden.
type Authorizer struct {
	db *gorm.DB
}

func NewAuthorizer(db *gorm.DB) *Authorizer {
	return &Authorizer{db: db}
}

// Scan rows mirror the entity columns plus the joined owner id. They stay
// free of gorm associations so they are plain scan targets.

type clientRow struct {
	ID          uuid.UUID
	PortalID    uuid.UUID
	Name        string
	Email       string
	AccessToken string
	LastSeenAt  *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
	OwnerID     uuid.UUID
}

type projectRow struct {
	ID          uuid.UUID
	ClientID    uuid.UUID
	Name        string
	Description string
	Status      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	OwnerID     uuid.UUID
}

type taskRow struct {
	ID          uuid.UUID
	ProjectID   uuid.UUID
	Title       string
	Description string
	Stage       string
	Position    int
	DueDate     *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
	OwnerID     uuid.UUID
}

type fileRow struct {
	ID            uuid.UUID
	ProjectID     uuid.UUID
	UpdateID      *uuid.UUID
	Name          string
	StorageKey    string
	Size          int64
	MimeType      string
	UploaderID    uuid.UUID
	CreatedAt     time.Time
	OwnerID       uuid.UUID
	ChainClientID uuid.UUID
}

// PortalForOwner authorizes a freelancer against a portal: portal.owner must
// equal the principal id. The portal row itself carries the owner, so no
// join is needed.
func (a *Authorizer) PortalForOwner(ctx context.Context, freelancerID, portalID uuid.UUID) (*model.Portal, error) {
	var p model.Portal
	err := a.db.WithContext(ctx).Where("id = ?", portalID).Take(&p).Error
	if err != nil {
		return nil, mapErr(err)
	}
	if p.FreelancerID != freelancerID {
		return nil, ErrForbidden
	}
	return &p, nil
}

// ClientForOwner: client.portal.owner must equal the principal id.
func (a *Authorizer) ClientForOwner(ctx context.Context, freelancerID, clientID uuid.UUID) (*model.Client, error) {
	var row clientRow
	err := a.db.WithContext(ctx).
		Model(&model.Client{}).
		Select("clients.*, portals.freelancer_id AS owner_id").
		Joins("JOIN portals ON portals.id = clients.portal_id").
		Where("clients.id = ?", clientID).
		Take(&row).Error
	if err != nil {
		return nil, mapErr(err)
	}
	if row.OwnerID != freelancerID {
		return nil, ErrForbidden
	}
	return &model.Client{
		ID:          row.ID,
		PortalID:    row.PortalID,
		Name:        row.Name,
		Email:       row.Email,
		AccessToken: row.AccessToken,
		LastSeenAt:  row.LastSeenAt,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}, nil
}

// ProjectForOwner: project.client.portal.owner must equal the principal id.
func (a *Authorizer) ProjectForOwner(ctx context.Context, freelancerID, projectID uuid.UUID) (*model.Project, error) {
	var row projectRow
	err := a.db.WithContext(ctx).
		Model(&model.Project{}).
		Select("projects.*, portals.freelancer_id AS owner_id").
		Joins("JOIN clients ON clients.id = projects.client_id").
		Joins("JOIN portals ON portals.id = clients.portal_id").
		Where("projects.id = ?", projectID).
		Take(&row).Error
	if err != nil {
		return nil, mapErr(err)
	}
	if row.OwnerID != freelancerID {
		return nil, ErrForbidden
	}
	return projectFromRow(row), nil
}

// TaskForOwner: task.project.client.portal.owner must equal the principal id.
func (a *Authorizer) TaskForOwner(ctx context.Context, freelancerID, taskID uuid.UUID) (*model.Task, error) {
	var row taskRow
	err := a.db.WithContext(ctx).
		Model(&model.Task{}).
		Select("tasks.*, portals.freelancer_id AS owner_id").
		Joins("JOIN projects ON projects.id = tasks.project_id").
		Joins("JOIN clients ON clients.id = projects.client_id").
		Joins("JOIN portals ON portals.id = clients.portal_id").
		Where("tasks.id = ?", taskID).
		Take(&row).Error
	if err != nil {
		return nil, mapErr(err)
	}
	if row.OwnerID != freelancerID {
		return nil, ErrForbidden
	}
	return &model.Task{
		ID:          row.ID,
		ProjectID:   row.ProjectID,
		Title:       row.Title,
		Description: row.Description,
		Stage:       row.Stage,
		Position:    row.Position,
		DueDate:     row.DueDate,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}, nil
}

// FileForOwner: file.project.client.portal.owner must equal the principal id.
func (a *Authorizer) FileForOwner(ctx context.Context, freelancerID, fileID uuid.UUID) (*model.File, error) {
	var row fileRow
	err := a.db.WithContext(ctx).
		Model(&model.File{}).
		Select("files.*, portals.freelancer_id AS owner_id").
		Joins("JOIN projects ON projects.id = files.project_id").
		Joins("JOIN clients ON clients.id = projects.client_id").
		Joins("JOIN portals ON portals.id = clients.portal_id").
		Where("files.id = ?", fileID).
		Take(&row).Error
	if err != nil {
		return nil, mapErr(err)
	}
	if row.OwnerID != freelancerID {
		return nil, ErrForbidden
	}
	return fileFromRow(row), nil
}

// ProjectForClient is the flat client-side scope: the project must hang off
// the client's own row.
func (a *Authorizer) ProjectForClient(ctx context.Context, clientID, projectID uuid.UUID) (*model.Project, error) {
	var p model.Project
	err := a.db.WithContext(ctx).Where("id = ?", projectID).Take(&p).Error
	if err != nil {
		return nil, mapErr(err)
	}
	if p.ClientID != clientID {
		return nil, ErrForbidden
	}
	return &p, nil
}

// FileForClient: the file's project must belong to the client.
func (a *Authorizer) FileForClient(ctx context.Context, clientID, fileID uuid.UUID) (*model.File, error) {
	var row fileRow
	err := a.db.WithContext(ctx).
		Model(&model.File{}).
		Select("files.*, projects.client_id AS chain_client_id").
		Joins("JOIN projects ON projects.id = files.project_id").
		Where("files.id = ?", fileID).
		Take(&row).Error
	if err != nil {
		return nil, mapErr(err)
	}
	if row.ChainClientID != clientID {
		return nil, ErrForbidden
	}
	return fileFromRow(row), nil
}

func projectFromRow(row projectRow) *model.Project {
	return &model.Project{
		ID:          row.ID,
		ClientID:    row.ClientID,
		Name:        row.Name,
		Description: row.Description,
		Status:      row.Status,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
}

func fileFromRow(row fileRow) *model.File {
	return &model.File{
		ID:         row.ID,
		ProjectID:  row.ProjectID,
		UpdateID:   row.UpdateID,
		Name:       row.Name,
		StorageKey: row.StorageKey,
		Size:       row.Size,
		MimeType:   row.MimeType,
		UploaderID: row.UploaderID,
		CreatedAt:  row.CreatedAt,
	}
}

func mapErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
