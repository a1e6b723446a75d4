package repo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/joeystdio/handoff-app/internal/modules/model"
)

func setupRepoTestDB(t *testing.T) *gorm.DB {
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
		&model.Task{},
		&model.Update{},
	)
	require.NoError(t, err)

	return db
}

func seedProject(t *testing.T, db *gorm.DB, tag string) (model.Project, func()) {
	f := model.Freelancer{Email: tag + "@example.com", PasswordHash: "x", Name: tag}
	require.NoError(t, db.Create(&f).Error)
	portal := model.Portal{FreelancerID: f.ID, Subdomain: tag, Name: tag}
	require.NoError(t, db.Create(&portal).Error)
	client := model.Client{PortalID: portal.ID, Name: tag, Email: tag + "-c@example.com", AccessToken: tag + "-tok"}
	require.NoError(t, db.Create(&client).Error)
	project := model.Project{ClientID: client.ID, Name: tag, Status: "active"}
	require.NoError(t, db.Create(&project).Error)

	cleanup := func() {
		db.Exec("DELETE FROM portals WHERE id = ?", portal.ID)
		db.Exec("DELETE FROM freelancers WHERE id = ?", f.ID)
	}
	return project, cleanup
}

func TestTaskRepo_UpdateFields(t *testing.T) {
	db := setupRepoTestDB(t)
	if db == nil {
		return
	}

	project, cleanup := seedProject(t, db, "taskrepo")
	defer cleanup()

	repo := NewTaskRepo(db)
	ctx := context.Background()

	due := time.Now().Add(72 * time.Hour).UTC().Truncate(time.Second)
	task := &model.Task{
		ProjectID:   project.ID,
		Title:       "draft contract",
		Description: "first pass",
		Stage:       model.StageBacklog,
		Position:    2,
		DueDate:     &due,
	}
	require.NoError(t, repo.Create(ctx, task))

	t.Run("touches only the given columns", func(t *testing.T) {
		got, err := repo.UpdateFields(ctx, task.ID, map[string]any{"stage": model.StageReview})
		require.NoError(t, err)

		assert.Equal(t, model.StageReview, got.Stage)
		assert.Equal(t, "draft contract", got.Title)
		assert.Equal(t, "first pass", got.Description)
		assert.Equal(t, 2, got.Position)
		require.NotNil(t, got.DueDate)
		assert.True(t, due.Equal(got.DueDate.UTC()))
	})

	t.Run("empty field set reads the row back unchanged", func(t *testing.T) {
		got, err := repo.UpdateFields(ctx, task.ID, map[string]any{})
		require.NoError(t, err)
		assert.Equal(t, model.StageReview, got.Stage)
	})
}

func TestTaskRepo_ListByProject_Order(t *testing.T) {
	db := setupRepoTestDB(t)
	if db == nil {
		return
	}

	project, cleanup := seedProject(t, db, "taskorder")
	defer cleanup()

	repo := NewTaskRepo(db)
	ctx := context.Background()

	for _, row := range []struct {
		title string
		stage string
		pos   int
	}{
		{"later backlog", model.StageBacklog, 5},
		{"first backlog", model.StageBacklog, 1},
		{"done item", model.StageDone, 0},
	} {
		require.NoError(t, repo.Create(ctx, &model.Task{
			ProjectID: project.ID,
			Title:     row.title,
			Stage:     row.stage,
			Position:  row.pos,
		}))
	}

	tasks, err := repo.ListByProject(ctx, project.ID)
	require.NoError(t, err)
	require.Len(t, tasks, 3)

	assert.Equal(t, "first backlog", tasks[0].Title)
	assert.Equal(t, "later backlog", tasks[1].Title)
	assert.Equal(t, "done item", tasks[2].Title)
}

func TestUpdateRepo_ListByProject_AuthorNames(t *testing.T) {
	db := setupRepoTestDB(t)
	if db == nil {
		return
	}

	project, cleanup := seedProject(t, db, "updjoin")
	defer cleanup()

	var client model.Client
	require.NoError(t, db.Where("id = ?", project.ClientID).Take(&client).Error)
	var portal model.Portal
	require.NoError(t, db.Where("id = ?", client.PortalID).Take(&portal).Error)

	repo := NewUpdateRepo(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &model.Update{
		ProjectID:  project.ID,
		AuthorType: model.AuthorFreelancer,
		AuthorID:   portal.FreelancerID,
		Content:    "kickoff done",
	}))
	require.NoError(t, repo.Create(ctx, &model.Update{
		ProjectID:  project.ID,
		AuthorType: model.AuthorClient,
		AuthorID:   client.ID,
		Content:    "looks good",
	}))

	rows, err := repo.ListByProject(ctx, project.ID)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, model.AuthorFreelancer, rows[0].AuthorType)
	assert.Equal(t, "updjoin", rows[0].AuthorName)
	assert.Equal(t, model.AuthorClient, rows[1].AuthorType)
	assert.Equal(t, "updjoin", rows[1].AuthorName)
}
