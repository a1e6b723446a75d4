package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/joeystdio/handoff-app/internal/modules/authz"
	"github.com/joeystdio/handoff-app/internal/modules/model"
)

type MockUpdateRepo struct {
	mock.Mock
}

func (m *MockUpdateRepo) Create(ctx context.Context, u *model.Update) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockUpdateRepo) ListByProject(ctx context.Context, projectID uuid.UUID) ([]model.UpdateWithAuthor, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.UpdateWithAuthor), args.Error(1)
}

func TestUpdateService_Create(t *testing.T) {
	ownerID := uuid.New()
	clientID := uuid.New()
	projectID := uuid.New()
	project := &model.Project{ID: projectID, ClientID: clientID}

	t.Run("freelancer post carries the freelancer author type", func(t *testing.T) {
		az := new(MockChecker)
		r := new(MockUpdateRepo)
		az.On("ProjectForOwner", mock.Anything, ownerID, projectID).Return(project, nil)
		r.On("Create", mock.Anything, mock.MatchedBy(func(u *model.Update) bool {
			return u.AuthorType == model.AuthorFreelancer && u.AuthorID == ownerID
		})).Return(nil)

		svc := NewUpdateService(r, az)
		u, err := svc.CreateByFreelancer(context.Background(), ownerID, projectID, "shipped the header")
		require.NoError(t, err)
		assert.Equal(t, model.AuthorFreelancer, u.AuthorType)
		r.AssertExpectations(t)
	})

	t.Run("client reply carries the client author type", func(t *testing.T) {
		az := new(MockChecker)
		r := new(MockUpdateRepo)
		az.On("ProjectForClient", mock.Anything, clientID, projectID).Return(project, nil)
		r.On("Create", mock.Anything, mock.MatchedBy(func(u *model.Update) bool {
			return u.AuthorType == model.AuthorClient && u.AuthorID == clientID
		})).Return(nil)

		svc := NewUpdateService(r, az)
		u, err := svc.CreateByClient(context.Background(), clientID, projectID, "looks great")
		require.NoError(t, err)
		assert.Equal(t, model.AuthorClient, u.AuthorType)
		r.AssertExpectations(t)
	})

	t.Run("client cannot post to a foreign project", func(t *testing.T) {
		az := new(MockChecker)
		r := new(MockUpdateRepo)
		az.On("ProjectForClient", mock.Anything, clientID, projectID).Return(nil, authz.ErrForbidden)

		svc := NewUpdateService(r, az)
		_, err := svc.CreateByClient(context.Background(), clientID, projectID, "sneaky")
		assert.ErrorIs(t, err, authz.ErrForbidden)
		r.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}
