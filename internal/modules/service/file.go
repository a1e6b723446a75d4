package service

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"

	"github.com/google/uuid"

	"github.com/joeystdio/handoff-app/internal/config"
	"github.com/joeystdio/handoff-app/internal/infra/blob"
	"github.com/joeystdio/handoff-app/internal/modules/authz"
	"github.com/joeystdio/handoff-app/internal/modules/model"
	"github.com/joeystdio/handoff-app/internal/modules/repo"
	"github.com/joeystdio/handoff-app/internal/pkg/utils/mime"
)

// sniffLen is how much of the file is read for content-based mime detection.
const sniffLen = 3072

type FileService interface {
	Upload(ctx context.Context, ownerID, projectID uuid.UUID, updateID *uuid.UUID, fh *multipart.FileHeader) (*model.File, error)
	List(ctx context.Context, ownerID, projectID uuid.UUID) ([]model.File, error)
	Download(ctx context.Context, ownerID, fileID uuid.UUID) (*model.File, io.ReadCloser, error)

	// Client-portal surface.
	ListForClient(ctx context.Context, clientID, projectID uuid.UUID) ([]model.File, error)
	DownloadForClient(ctx context.Context, clientID, fileID uuid.UUID) (*model.File, io.ReadCloser, error)
}

type fileService struct {
	r   repo.FileRepo
	az  authz.Checker
	s3  blob.Store
	cfg *config.Config
}

func NewFileService(r repo.FileRepo, az authz.Checker, s3 blob.Store, cfg *config.Config) FileService {
	return &fileService{r: r, az: az, s3: s3, cfg: cfg}
}

func (s *fileService) Upload(ctx context.Context, ownerID, projectID uuid.UUID, updateID *uuid.UUID, fh *multipart.FileHeader) (*model.File, error) {
	project, err := s.az.ProjectForOwner(ctx, ownerID, projectID)
	if err != nil {
		return nil, err
	}

	if fh.Size > s.cfg.Upload.MaxBytes {
		return nil, ErrFileTooLarge
	}

	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	contentType, err := sniffMime(f, fh)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("projects/%s/%s_%s", project.ID, uuid.New(), fh.Filename)
	if err := s.s3.Upload(ctx, key, f, contentType); err != nil {
		return nil, fmt.Errorf("store file: %w", err)
	}

	file := &model.File{
		ProjectID:  project.ID,
		UpdateID:   updateID,
		Name:       fh.Filename,
		StorageKey: key,
		Size:       fh.Size,
		MimeType:   contentType,
		UploaderID: ownerID,
	}
	if err := s.r.Create(ctx, file); err != nil {
		// The object is orphaned without its metadata row; cleanup is
		// best effort.
		_ = s.s3.Delete(ctx, key)
		return nil, fmt.Errorf("create file record: %w", err)
	}
	return file, nil
}

func (s *fileService) List(ctx context.Context, ownerID, projectID uuid.UUID) ([]model.File, error) {
	if _, err := s.az.ProjectForOwner(ctx, ownerID, projectID); err != nil {
		return nil, err
	}
	return s.r.ListByProject(ctx, projectID)
}

func (s *fileService) Download(ctx context.Context, ownerID, fileID uuid.UUID) (*model.File, io.ReadCloser, error) {
	file, err := s.az.FileForOwner(ctx, ownerID, fileID)
	if err != nil {
		return nil, nil, err
	}
	return s.open(ctx, file)
}

func (s *fileService) ListForClient(ctx context.Context, clientID, projectID uuid.UUID) ([]model.File, error) {
	if _, err := s.az.ProjectForClient(ctx, clientID, projectID); err != nil {
		return nil, err
	}
	return s.r.ListByProject(ctx, projectID)
}

func (s *fileService) DownloadForClient(ctx context.Context, clientID, fileID uuid.UUID) (*model.File, io.ReadCloser, error) {
	file, err := s.az.FileForClient(ctx, clientID, fileID)
	if err != nil {
		return nil, nil, err
	}
	return s.open(ctx, file)
}

func (s *fileService) open(ctx context.Context, file *model.File) (*model.File, io.ReadCloser, error) {
	body, _, err := s.s3.Download(ctx, file.StorageKey)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch file bytes: %w", err)
	}
	return file, body, nil
}

// sniffMime prefers content-based detection over the client-supplied header,
// falling back to the header only when sniffing yields nothing useful.
func sniffMime(f multipart.File, fh *multipart.FileHeader) (string, error) {
	buf := make([]byte, sniffLen)
	n, err := f.Read(buf)
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("read upload: %w", err)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("rewind upload: %w", err)
	}

	detected := mime.Detect(buf[:n], fh.Filename)
	if detected == "application/octet-stream" {
		if declared := fh.Header.Get("Content-Type"); declared != "" {
			return declared, nil
		}
	}
	return detected, nil
}
