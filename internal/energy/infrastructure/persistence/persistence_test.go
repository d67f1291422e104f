package persistence

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	energy "github.com/felixgeelhaar/monkmode/internal/energy/domain"
	"github.com/felixgeelhaar/monkmode/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/monkmode/internal/shared/infrastructure/migrations"
)

func setupConn(t *testing.T) database.Connection {
	t.Helper()
	ctx := context.Background()
	conn, err := database.Connect(ctx, database.Config{
		Driver:     database.DriverSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "energy.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	require.NoError(t, migrations.Run(ctx, conn))
	return conn
}

func TestEnergyLogRepository(t *testing.T) {
	ctx := context.Background()
	conn := setupConn(t)
	repo := NewEnergyLogRepository(conn)
	userID := uuid.New()

	loggedAt := time.Date(2026, 3, 4, 9, 30, 0, 0, time.UTC)
	log := energy.NewEnergyLog(userID, loggedAt, 7, map[string]any{
		"sleep_hours":                      "8",
		energy.ContextFactorActivityBefore: "Exercise",
	}, "felt sharp")
	require.NoError(t, repo.Save(ctx, log))

	older := energy.NewEnergyLog(userID, loggedAt.AddDate(0, 0, -40), 4, nil, "")
	require.NoError(t, repo.Save(ctx, older))

	t.Run("round-trips with context factors", func(t *testing.T) {
		logs, err := repo.ListSince(ctx, userID, loggedAt.AddDate(0, 0, -30))
		require.NoError(t, err)
		require.Len(t, logs, 1)

		loaded := logs[0]
		assert.Equal(t, log.ID(), loaded.ID())
		assert.Equal(t, 7, loaded.Level())
		assert.Equal(t, loggedAt, loaded.LoggedAt().UTC())
		assert.Equal(t, "felt sharp", loaded.Notes())
		assert.Equal(t, "Exercise", loaded.ContextFactors()[energy.ContextFactorActivityBefore])
		// JSON numbers come back as float64.
		assert.Equal(t, float64(8), loaded.ContextFactors()["sleep_hours"])
	})

	t.Run("window excludes older logs", func(t *testing.T) {
		logs, err := repo.ListSince(ctx, userID, loggedAt.AddDate(0, 0, -60))
		require.NoError(t, err)
		assert.Len(t, logs, 2)
		assert.True(t, logs[0].LoggedAt().Before(logs[1].LoggedAt()))
	})

	t.Run("scoped to user", func(t *testing.T) {
		logs, err := repo.ListSince(ctx, uuid.New(), loggedAt.AddDate(0, 0, -60))
		require.NoError(t, err)
		assert.Empty(t, logs)
	})
}

func TestPredictionRepository(t *testing.T) {
	ctx := context.Background()
	conn := setupConn(t)
	repo := NewPredictionRepository(conn)
	userID := uuid.New()

	at := time.Date(2026, 3, 4, 9, 0, 0, 0, time.UTC)

	t.Run("duplicate rows for the same instant are tolerated", func(t *testing.T) {
		first := energy.NewEnergyPrediction(userID, at, 7.5, 0.8, energy.BasisHistorical)
		second := energy.NewEnergyPrediction(userID, at, 6.9, 0.7, energy.BasisHistorical)
		require.NoError(t, repo.Save(ctx, first))
		require.NoError(t, repo.Save(ctx, second))

		predictions, err := repo.ListForRange(ctx, userID, at, at.Add(time.Hour))
		require.NoError(t, err)
		assert.Len(t, predictions, 2)
	})

	t.Run("records actual energy on resave", func(t *testing.T) {
		prediction := energy.NewEnergyPrediction(userID, at.Add(time.Hour), 5.0, 0.3, energy.BasisCircadian)
		require.NoError(t, repo.Save(ctx, prediction))

		prediction.RecordActual(6)
		require.NoError(t, repo.Save(ctx, prediction))

		predictions, err := repo.ListForRange(ctx, userID, at.Add(time.Hour), at.Add(2*time.Hour))
		require.NoError(t, err)
		require.Len(t, predictions, 1)
		require.NotNil(t, predictions[0].ActualEnergy())
		assert.Equal(t, 6.0, *predictions[0].ActualEnergy())
		assert.Equal(t, energy.BasisCircadian, predictions[0].Basis())
	})
}
