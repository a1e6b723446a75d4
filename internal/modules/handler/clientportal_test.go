package handler

import (
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/joeystdio/handoff-app/internal/middleware"
	"github.com/joeystdio/handoff-app/internal/modules/authz"
	"github.com/joeystdio/handoff-app/internal/modules/model"
	"github.com/joeystdio/handoff-app/internal/modules/serializer"
	"github.com/joeystdio/handoff-app/internal/modules/service"
)

type MockProjectService struct {
	mock.Mock
}

func (m *MockProjectService) Create(ctx context.Context, ownerID, clientID uuid.UUID, in service.CreateProjectInput) (*model.Project, error) {
	args := m.Called(ctx, ownerID, clientID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Project), args.Error(1)
}

func (m *MockProjectService) List(ctx context.Context, ownerID, clientID uuid.UUID) ([]model.Project, error) {
	args := m.Called(ctx, ownerID, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Project), args.Error(1)
}

func (m *MockProjectService) Get(ctx context.Context, ownerID, projectID uuid.UUID) (*model.Project, error) {
	args := m.Called(ctx, ownerID, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Project), args.Error(1)
}

func (m *MockProjectService) ListForClient(ctx context.Context, clientID uuid.UUID) ([]model.Project, error) {
	args := m.Called(ctx, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Project), args.Error(1)
}

func (m *MockProjectService) GetForClient(ctx context.Context, clientID, projectID uuid.UUID) (*model.Project, error) {
	args := m.Called(ctx, clientID, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Project), args.Error(1)
}

type MockUpdateService struct {
	mock.Mock
}

func (m *MockUpdateService) CreateByFreelancer(ctx context.Context, ownerID, projectID uuid.UUID, content string) (*model.Update, error) {
	args := m.Called(ctx, ownerID, projectID, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Update), args.Error(1)
}

func (m *MockUpdateService) CreateByClient(ctx context.Context, clientID, projectID uuid.UUID, content string) (*model.Update, error) {
	args := m.Called(ctx, clientID, projectID, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Update), args.Error(1)
}

func (m *MockUpdateService) List(ctx context.Context, ownerID, projectID uuid.UUID) ([]model.UpdateWithAuthor, error) {
	args := m.Called(ctx, ownerID, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.UpdateWithAuthor), args.Error(1)
}

func (m *MockUpdateService) ListForClient(ctx context.Context, clientID, projectID uuid.UUID) ([]model.UpdateWithAuthor, error) {
	args := m.Called(ctx, clientID, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.UpdateWithAuthor), args.Error(1)
}

type MockFileService struct {
	mock.Mock
}

func (m *MockFileService) Upload(ctx context.Context, ownerID, projectID uuid.UUID, updateID *uuid.UUID, fh *multipart.FileHeader) (*model.File, error) {
	args := m.Called(ctx, ownerID, projectID, updateID, fh)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.File), args.Error(1)
}

func (m *MockFileService) List(ctx context.Context, ownerID, projectID uuid.UUID) ([]model.File, error) {
	args := m.Called(ctx, ownerID, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.File), args.Error(1)
}

func (m *MockFileService) Download(ctx context.Context, ownerID, fileID uuid.UUID) (*model.File, io.ReadCloser, error) {
	args := m.Called(ctx, ownerID, fileID)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*model.File), args.Get(1).(io.ReadCloser), args.Error(2)
}

func (m *MockFileService) ListForClient(ctx context.Context, clientID, projectID uuid.UUID) ([]model.File, error) {
	args := m.Called(ctx, clientID, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.File), args.Error(1)
}

func (m *MockFileService) DownloadForClient(ctx context.Context, clientID, fileID uuid.UUID) (*model.File, io.ReadCloser, error) {
	args := m.Called(ctx, clientID, fileID)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*model.File), args.Get(1).(io.ReadCloser), args.Error(2)
}

// fakeRecorder captures tracking calls synchronously.
type fakeRecorder struct {
	mu        sync.Mutex
	views     []string
	downloads []uuid.UUID
}

func (f *fakeRecorder) View(clientID uuid.UUID, page string, projectID *uuid.UUID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.views = append(f.views, page)
}

func (f *fakeRecorder) Download(fileID, clientID uuid.UUID, ip string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.downloads = append(f.downloads, fileID)
}

func setClient(id, portalID uuid.UUID) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.CtxClient, &authz.Client{ID: id, PortalID: portalID})
		c.Next()
	}
}

func portalTestRouter(h *ClientPortalHandler, clientID, portalID uuid.UUID) *gin.Engine {
	r := gin.New()
	grp := r.Group("/portal", setClient(clientID, portalID))
	grp.GET("/projects", h.PortalProjects)
	grp.GET("/projects/:project_id", h.PortalProject)
	grp.POST("/projects/:project_id/updates", h.PortalReply)
	grp.GET("/files/:file_id/download", h.PortalDownload)
	return r
}

func TestClientPortalHandler_PortalProjects(t *testing.T) {
	gin.SetMode(gin.TestMode)
	serializer.SetLogger(zap.NewNop())

	clientID := uuid.New()
	portalID := uuid.New()

	projects := new(MockProjectService)
	projects.On("ListForClient", mock.Anything, clientID).
		Return([]model.Project{{ID: uuid.New(), ClientID: clientID, Name: "site redesign"}}, nil)

	rec := &fakeRecorder{}
	h := NewClientPortalHandler(projects, new(MockTaskService), new(MockUpdateService), new(MockFileService), rec)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/portal/projects", nil)
	portalTestRouter(h, clientID, portalID).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{model.PageProjects}, rec.views)
}

func TestClientPortalHandler_PortalProject(t *testing.T) {
	gin.SetMode(gin.TestMode)
	serializer.SetLogger(zap.NewNop())

	clientID := uuid.New()
	portalID := uuid.New()
	projectID := uuid.New()

	t.Run("detail view is tracked with the project page tag", func(t *testing.T) {
		projects := new(MockProjectService)
		tasks := new(MockTaskService)
		updates := new(MockUpdateService)
		files := new(MockFileService)

		projects.On("GetForClient", mock.Anything, clientID, projectID).
			Return(&model.Project{ID: projectID, ClientID: clientID}, nil)
		tasks.On("ListForClient", mock.Anything, clientID, projectID).Return([]model.Task{}, nil)
		updates.On("ListForClient", mock.Anything, clientID, projectID).Return([]model.UpdateWithAuthor{}, nil)
		files.On("ListForClient", mock.Anything, clientID, projectID).Return([]model.File{}, nil)

		rec := &fakeRecorder{}
		h := NewClientPortalHandler(projects, tasks, updates, files, rec)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/portal/projects/"+projectID.String(), nil)
		portalTestRouter(h, clientID, portalID).ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, []string{model.PageProject}, rec.views)
	})

	t.Run("foreign project reads as 404, never 403", func(t *testing.T) {
		projects := new(MockProjectService)
		projects.On("GetForClient", mock.Anything, clientID, projectID).
			Return(nil, authz.ErrForbidden)

		rec := &fakeRecorder{}
		h := NewClientPortalHandler(projects, new(MockTaskService), new(MockUpdateService), new(MockFileService), rec)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/portal/projects/"+projectID.String(), nil)
		portalTestRouter(h, clientID, portalID).ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Empty(t, rec.views, "failed fetches must not be tracked")
	})

	t.Run("missing project also reads as 404", func(t *testing.T) {
		projects := new(MockProjectService)
		projects.On("GetForClient", mock.Anything, clientID, projectID).
			Return(nil, authz.ErrNotFound)

		rec := &fakeRecorder{}
		h := NewClientPortalHandler(projects, new(MockTaskService), new(MockUpdateService), new(MockFileService), rec)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/portal/projects/"+projectID.String(), nil)
		portalTestRouter(h, clientID, portalID).ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestClientPortalHandler_PortalReply(t *testing.T) {
	gin.SetMode(gin.TestMode)
	serializer.SetLogger(zap.NewNop())

	clientID := uuid.New()
	portalID := uuid.New()
	projectID := uuid.New()

	updates := new(MockUpdateService)
	updates.On("CreateByClient", mock.Anything, clientID, projectID, "thanks, approved").
		Return(&model.Update{ID: uuid.New(), ProjectID: projectID, AuthorType: model.AuthorClient}, nil)

	rec := &fakeRecorder{}
	h := NewClientPortalHandler(new(MockProjectService), new(MockTaskService), updates, new(MockFileService), rec)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/portal/projects/"+projectID.String()+"/updates",
		strings.NewReader(`{"content":"thanks, approved"}`))
	req.Header.Set("Content-Type", "application/json")
	portalTestRouter(h, clientID, portalID).ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Empty(t, rec.views, "replies are not page views")
	updates.AssertExpectations(t)
}

func TestClientPortalHandler_PortalDownload(t *testing.T) {
	gin.SetMode(gin.TestMode)
	serializer.SetLogger(zap.NewNop())

	clientID := uuid.New()
	portalID := uuid.New()
	fileID := uuid.New()

	t.Run("download is recorded before bytes are streamed", func(t *testing.T) {
		files := new(MockFileService)
		files.On("DownloadForClient", mock.Anything, clientID, fileID).
			Return(&model.File{
				ID:       fileID,
				Name:     "brand-kit.zip",
				MimeType: "application/zip",
				Size:     int64(8),
			}, io.NopCloser(strings.NewReader("zipbytes")), nil)

		rec := &fakeRecorder{}
		h := NewClientPortalHandler(new(MockProjectService), new(MockTaskService), new(MockUpdateService), files, rec)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/portal/files/"+fileID.String()+"/download", nil)
		portalTestRouter(h, clientID, portalID).ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "zipbytes", w.Body.String())
		assert.Contains(t, w.Header().Get("Content-Disposition"), "brand-kit.zip")
		assert.Equal(t, []uuid.UUID{fileID}, rec.downloads)
	})

	t.Run("foreign file reads as 404 and is not recorded", func(t *testing.T) {
		files := new(MockFileService)
		files.On("DownloadForClient", mock.Anything, clientID, fileID).
			Return(nil, nil, authz.ErrForbidden)

		rec := &fakeRecorder{}
		h := NewClientPortalHandler(new(MockProjectService), new(MockTaskService), new(MockUpdateService), files, rec)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/portal/files/"+fileID.String()+"/download", nil)
		portalTestRouter(h, clientID, portalID).ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Empty(t, rec.downloads)
	})
}
