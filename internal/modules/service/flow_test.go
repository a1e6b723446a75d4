package service

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/joeystdio/handoff-app/internal/config"
	"github.com/joeystdio/handoff-app/internal/modules/authz"
	"github.com/joeystdio/handoff-app/internal/modules/model"
	"github.com/joeystdio/handoff-app/internal/modules/repo"
)

func setupFlowTestDB(t *testing.T) *gorm.DB {
	dsn := "host=localhost user=handoff password=handoff dbname=handoff_test port=5432 sslmode=disable"
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Skip("Test database not available, skipping integration tests")
		return nil
	}

	db.Exec("CREATE EXTENSION IF NOT EXISTS pgcrypto")

	err = db.AutoMigrate(
		&model.Freelancer{},
		&model.Portal{},
		&model.Client{},
		&model.Project{},
	)
	require.NoError(t, err)

	return db
}

// Walks the whole onboarding chain against a real database: a freelancer
// registers, opens a portal, invites a client, and the client's token then
// sees exactly the projects created for it.
func TestOnboardingFlow(t *testing.T) {
	db := setupFlowTestDB(t)
	if db == nil {
		return
	}

	mr := miniredis.RunT(t)
	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	cfg := &config.Config{
		Auth: config.AuthConfig{
			JWTSecret:    "flow-test-secret",
			TokenTTLHour: 1,
			PortalDomain: "handoff.test",
		},
	}
	log := zap.NewNop()
	az := authz.NewAuthorizer(db)

	auth := NewAuthService(repo.NewFreelancerRepo(db), cfg)
	portals := NewPortalService(repo.NewPortalRepo(db), az, cache, log)
	clients := NewClientService(repo.NewClientRepo(db), repo.NewActivityRepo(db), az, cache, nil, cfg, log)
	projects := NewProjectService(repo.NewProjectRepo(db), az)

	ctx := context.Background()

	session, err := auth.Register(ctx, RegisterInput{
		Email:    "flow@example.com",
		Password: "correct horse battery staple",
		Name:     "Flow Tester",
	})
	require.NoError(t, err)
	defer db.Exec("DELETE FROM freelancers WHERE id = ?", session.Freelancer.ID)

	principal, err := auth.VerifyToken(session.Token)
	require.NoError(t, err)
	assert.Equal(t, session.Freelancer.ID, principal.ID)

	portal, err := portals.Create(ctx, principal.ID, CreatePortalInput{
		Subdomain: "flowstudio",
		Name:      "Flow Studio",
	})
	require.NoError(t, err)
	defer db.Exec("DELETE FROM portals WHERE id = ?", portal.ID)

	invited, err := clients.Create(ctx, principal.ID, portal.ID, CreateClientInput{
		Name:  "Flow Client",
		Email: "client@example.com",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, invited.AccessToken)
	assert.Contains(t, invited.MagicLink, "flowstudio.handoff.test")

	client, err := clients.ResolveAccessToken(ctx, invited.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, invited.Client.ID, client.ID)

	_, err = clients.ResolveAccessToken(ctx, "not-a-real-token")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	visible, err := projects.ListForClient(ctx, client.ID)
	require.NoError(t, err)
	assert.Empty(t, visible)

	created, err := projects.Create(ctx, principal.ID, client.ID, CreateProjectInput{
		Name:   "Site redesign",
		Status: "active",
	})
	require.NoError(t, err)

	visible, err = projects.ListForClient(ctx, client.ID)
	require.NoError(t, err)
	require.Len(t, visible, 1)
	assert.Equal(t, created.ID, visible[0].ID)

	got, err := projects.GetForClient(ctx, client.ID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Site redesign", got.Name)
}
