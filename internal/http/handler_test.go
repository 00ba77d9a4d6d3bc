package http_test

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/paulster44/Muse-Contracts/client"
	"github.com/paulster44/Muse-Contracts/draft"
	"github.com/paulster44/Muse-Contracts/internal/auth"
	"github.com/paulster44/Muse-Contracts/internal/config"
	"github.com/paulster44/Muse-Contracts/internal/db"
	"github.com/paulster44/Muse-Contracts/internal/excel"
	httphandler "github.com/paulster44/Muse-Contracts/internal/http"
	"github.com/paulster44/Muse-Contracts/internal/http/middleware"
	"github.com/paulster44/Muse-Contracts/internal/pdf"
	"github.com/paulster44/Muse-Contracts/internal/repository"
	"github.com/paulster44/Muse-Contracts/internal/service"
)

// startServer wires the full stack against an in-memory database and returns
// a running test server.
func startServer(t *testing.T) *httptest.Server {
	t.Helper()

	database, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := database.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.Migrate(database))

	cfg := &config.Config{
		Environment: "test",
		Contracts: config.ContractsConfig{
			DefaultLocal: "Local802",
			DefaultScale: "ClassicalConcert_23_24",
		},
	}

	tokens := auth.NewManager("test-secret", time.Hour)
	authService := service.NewAuthService(repository.NewUserRepository(database), tokens)
	contractService := service.NewContractService(
		repository.NewContractRepository(database), pdf.NewGenerator(), excel.NewGenerator(), cfg)

	handler := httphandler.NewHandler(authService, contractService, tokens.TTL(), zerolog.Nop())
	router := httphandler.NewRouter(handler, middleware.Auth(tokens), cfg.Environment)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server
}

func TestContractLifecycle(t *testing.T) {
	server := startServer(t)
	ctx := context.Background()

	c := client.New(server.URL)
	user, err := c.Register(ctx, "leader@example.com", "secret", "Ana Ruiz")
	require.NoError(t, err)
	assert.Equal(t, "leader@example.com", user.Email)
	require.NotEmpty(t, c.Token())

	// Drive the two-phase workflow against the live stack.
	var submitted uuid.UUID
	workflow := draft.New(c.Store(), func(id uuid.UUID) { submitted = id })

	require.NoError(t, workflow.SetField(draft.FieldEngagementDate, "2026-05-01"))
	require.NoError(t, workflow.SetField(draft.FieldLeaderName, "Ana Ruiz"))
	require.NoError(t, workflow.SetField(draft.FieldVenueName, "Town Hall"))
	require.NoError(t, workflow.CreateDraft(ctx))

	id, ok := workflow.DraftID()
	require.True(t, ok)

	require.NoError(t, workflow.SetField(draft.FieldActualHoursEngagement, "3"))
	index := workflow.AddSideMusician()
	require.NoError(t, workflow.SetSideMusicianField(index, draft.MusicianFieldName, "Ben Ok"))
	require.NoError(t, workflow.SetSideMusicianField(index, draft.MusicianFieldTaxID, "123-45-6789"))
	require.NoError(t, workflow.SetSideMusicianField(index, draft.MusicianFieldInstrument, "Violin"))
	require.NoError(t, workflow.Submit(ctx))
	assert.Equal(t, id, submitted)

	saved, err := c.GetContract(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "draft", saved.Status)
	assert.Equal(t, "Ana Ruiz", saved.LeaderName)
	assert.Equal(t, 2, saved.NumMusicians)
	assert.Greater(t, saved.TotalGrossComp, 0.0)
	require.Len(t, saved.SideMusicians, 1)
	assert.Equal(t, "Ben Ok", saved.SideMusicians[0].Name)

	list, err := c.ListContracts(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, id, list[0].ID)

	require.NoError(t, c.FinalizeContract(ctx, id))
	saved, err = c.GetContract(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "completed", saved.Status)

	// A completed contract cannot be saved again.
	_, err = c.UpdateContract(ctx, id, workflow.Draft())
	assert.ErrorIs(t, err, client.ErrConflict)

	require.NoError(t, c.ReopenContract(ctx, id))

	content, err := c.ContractPDF(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(content[:4]))

	export, err := c.ExportContracts(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, export)

	require.NoError(t, c.DeleteContract(ctx, id))
	_, err = c.GetContract(ctx, id)
	assert.ErrorIs(t, err, client.ErrNotFound)
}

func TestRoutesRequireAuth(t *testing.T) {
	server := startServer(t)
	ctx := context.Background()

	c := client.New(server.URL)
	_, err := c.CreateDraft(ctx)
	assert.ErrorIs(t, err, client.ErrAuthorization)

	_, err = c.ListContracts(ctx)
	assert.ErrorIs(t, err, client.ErrAuthorization)
}

func TestValidationErrorsSurfaceAsBadRequest(t *testing.T) {
	server := startServer(t)
	ctx := context.Background()

	c := client.New(server.URL)
	_, err := c.Register(ctx, "leader@example.com", "secret", "")
	require.NoError(t, err)

	id, err := c.CreateDraft(ctx)
	require.NoError(t, err)

	// Missing engagement date and leader name.
	d := draft.NewContractDraft()
	_, err = c.UpdateContract(ctx, id, d)
	require.Error(t, err)
	assert.ErrorIs(t, err, client.ErrValidation)
	assert.Contains(t, err.Error(), "engagement date")
}

func TestContractsAreScopedToOwner(t *testing.T) {
	server := startServer(t)
	ctx := context.Background()

	owner := client.New(server.URL)
	_, err := owner.Register(ctx, "owner@example.com", "secret", "")
	require.NoError(t, err)
	id, err := owner.CreateDraft(ctx)
	require.NoError(t, err)

	stranger := client.New(server.URL)
	_, err = stranger.Register(ctx, "stranger@example.com", "secret", "")
	require.NoError(t, err)

	_, err = stranger.GetContract(ctx, id)
	assert.ErrorIs(t, err, client.ErrNotFound)
}
