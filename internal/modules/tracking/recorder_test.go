package tracking

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/joeystdio/handoff-app/internal/config"
	"github.com/joeystdio/handoff-app/internal/modules/model"
)

func setupTrackingTestDB(t *testing.T) *gorm.DB {
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
		&model.File{},
		&model.FileDownload{},
		&model.ClientView{},
	)
	require.NoError(t, err)

	return db
}

func seedTrackingFixtures(t *testing.T, db *gorm.DB) (model.Client, model.File, func()) {
	f := model.Freelancer{Email: "track@example.com", PasswordHash: "x", Name: "Track"}
	require.NoError(t, db.Create(&f).Error)
	portal := model.Portal{FreelancerID: f.ID, Subdomain: "track", Name: "Track"}
	require.NoError(t, db.Create(&portal).Error)
	client := model.Client{PortalID: portal.ID, Name: "C", Email: "c@example.com", AccessToken: "track-token"}
	require.NoError(t, db.Create(&client).Error)
	project := model.Project{ClientID: client.ID, Name: "P", Status: "active"}
	require.NoError(t, db.Create(&project).Error)
	file := model.File{
		ProjectID:  project.ID,
		Name:       "x.pdf",
		StorageKey: "k",
		Size:       1,
		MimeType:   "application/pdf",
		UploaderID: f.ID,
	}
	require.NoError(t, db.Create(&file).Error)

	cleanup := func() {
		db.Exec("DELETE FROM portals WHERE id = ?", portal.ID)
		db.Exec("DELETE FROM freelancers WHERE id = ?", f.ID)
	}
	return client, file, cleanup
}

func TestRecorder_View(t *testing.T) {
	db := setupTrackingTestDB(t)
	if db == nil {
		return
	}

	client, _, cleanup := seedTrackingFixtures(t, db)
	defer cleanup()

	rec := NewRecorder(db, nil, &config.Config{}, zap.NewNop())

	rec.View(client.ID, model.PageProjects, nil)
	rec.Wait()

	var count int64
	require.NoError(t, db.Model(&model.ClientView{}).
		Where("client_id = ? AND page = ?", client.ID, model.PageProjects).
		Count(&count).Error)
	assert.Equal(t, int64(1), count, "exactly one view row per recorded page load")

	var row model.ClientView
	require.NoError(t, db.Where("client_id = ?", client.ID).Take(&row).Error)
	assert.Nil(t, row.ProjectID)
}

func TestRecorder_Download(t *testing.T) {
	db := setupTrackingTestDB(t)
	if db == nil {
		return
	}

	client, file, cleanup := seedTrackingFixtures(t, db)
	defer cleanup()

	rec := NewRecorder(db, nil, &config.Config{}, zap.NewNop())

	rec.Download(file.ID, client.ID, "203.0.113.9")
	rec.Wait()

	var rows []model.FileDownload
	require.NoError(t, db.Where("file_id = ?", file.ID).Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, client.ID, rows[0].ClientID)
	assert.Equal(t, "203.0.113.9", rows[0].IP)
}

func TestRecorder_AppendFailureIsSwallowed(t *testing.T) {
	db := setupTrackingTestDB(t)
	if db == nil {
		return
	}

	rec := NewRecorder(db, nil, &config.Config{}, zap.NewNop())

	// Violates the client FK; the append fails inside the goroutine and
	// must neither panic nor surface.
	rec.View(uuid.New(), model.PageProjects, nil)
	rec.Wait()
}
