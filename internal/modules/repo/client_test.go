package repo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/joeystdio/handoff-app/internal/modules/model"
)

func TestClientRepo_Create_EmailUniquePerPortal(t *testing.T) {
	db := setupRepoTestDB(t)
	if db == nil {
		return
	}

	f := model.Freelancer{Email: "clientrepo@example.com", PasswordHash: "x", Name: "clientrepo"}
	require.NoError(t, db.Create(&f).Error)
	defer db.Exec("DELETE FROM freelancers WHERE id = ?", f.ID)

	studio := model.Portal{FreelancerID: f.ID, Subdomain: "clientrepo-studio", Name: "Studio"}
	require.NoError(t, db.Create(&studio).Error)
	defer db.Exec("DELETE FROM portals WHERE id = ?", studio.ID)

	agency := model.Portal{FreelancerID: f.ID, Subdomain: "clientrepo-agency", Name: "Agency"}
	require.NoError(t, db.Create(&agency).Error)
	defer db.Exec("DELETE FROM portals WHERE id = ?", agency.ID)

	repo := NewClientRepo(db)
	ctx := context.Background()

	first := &model.Client{PortalID: studio.ID, Name: "Dana", Email: "dana@example.com", AccessToken: "clientrepo-tok-1"}
	require.NoError(t, repo.Create(ctx, first))

	t.Run("same email under the same portal conflicts", func(t *testing.T) {
		dup := &model.Client{PortalID: studio.ID, Name: "Dana again", Email: "dana@example.com", AccessToken: "clientrepo-tok-2"}
		err := repo.Create(ctx, dup)
		assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
	})

	t.Run("same email under another portal is fine", func(t *testing.T) {
		other := &model.Client{PortalID: agency.ID, Name: "Dana", Email: "dana@example.com", AccessToken: "clientrepo-tok-3"}
		require.NoError(t, repo.Create(ctx, other))
		assert.NotEqual(t, first.ID, other.ID)
	})
}
