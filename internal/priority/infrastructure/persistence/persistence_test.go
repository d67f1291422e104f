package persistence

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	planning "github.com/felixgeelhaar/monkmode/internal/planning/domain"
	planningpersistence "github.com/felixgeelhaar/monkmode/internal/planning/infrastructure/persistence"
	priority "github.com/felixgeelhaar/monkmode/internal/priority/domain"
	"github.com/felixgeelhaar/monkmode/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/monkmode/internal/shared/infrastructure/migrations"
)

func setupConn(t *testing.T) database.Connection {
	t.Helper()
	ctx := context.Background()
	conn, err := database.Connect(ctx, database.Config{
		Driver:     database.DriverSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "priority.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	require.NoError(t, migrations.Run(ctx, conn))
	return conn
}

func seedActivity(t *testing.T, conn database.Connection, userID uuid.UUID) *planning.ScheduledActivity {
	t.Helper()
	ctx := context.Background()

	goal, err := planning.NewGoal(userID, "Ship the book", "")
	require.NoError(t, err)
	require.NoError(t, planningpersistence.NewGoalRepository(conn).Save(ctx, goal))

	start := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	period, err := planning.NewPeriod(goal.ID(), userID, "March sprint", start, start.AddDate(0, 0, 13))
	require.NoError(t, err)
	require.NoError(t, planningpersistence.NewPeriodRepository(conn).Save(ctx, period))

	from, err := planning.NewTimeOfDay(9, 0)
	require.NoError(t, err)
	to, err := planning.NewTimeOfDay(11, 0)
	require.NoError(t, err)
	activity, err := planning.NewScheduledActivity(period.ID(), userID, planning.ActivityTypeDeepWork, "Draft chapter one", 3, from, to, 7)
	require.NoError(t, err)
	require.NoError(t, planningpersistence.NewActivityRepository(conn).Save(ctx, activity))
	return activity
}

func TestScoreRepository(t *testing.T) {
	ctx := context.Background()
	conn := setupConn(t)
	repo := NewScoreRepository(conn)
	userID := uuid.New()
	activity := seedActivity(t, conn, userID)

	factors := priority.FactorScores{
		DeadlineUrgency:   0.8,
		GoalImpact:        1.0,
		EnergyRequirement: 0.9,
		DependencyWeight:  0.5,
		UserPreference:    0.6,
		MomentumFactor:    0.7,
	}
	score := priority.NewTaskPriorityScore(activity.ID(), userID, factors, 0.81)
	require.NoError(t, repo.Upsert(ctx, score))

	t.Run("round-trips all factors", func(t *testing.T) {
		loaded, err := repo.FindByActivity(ctx, activity.ID())
		require.NoError(t, err)
		assert.Equal(t, factors, loaded.Factors())
		assert.Equal(t, 0.81, loaded.FinalScore())
		assert.Equal(t, userID, loaded.UserID())
	})

	t.Run("recalculation replaces the existing row", func(t *testing.T) {
		revised := priority.NewTaskPriorityScore(activity.ID(), userID, priority.FactorScores{
			DeadlineUrgency:   1.0,
			GoalImpact:        1.0,
			EnergyRequirement: 0.6,
			DependencyWeight:  0.5,
			UserPreference:    0.5,
			MomentumFactor:    0.4,
		}, 0.77)
		require.NoError(t, repo.Upsert(ctx, revised))

		loaded, err := repo.FindByActivity(ctx, activity.ID())
		require.NoError(t, err)
		assert.Equal(t, 1.0, loaded.Factors().DeadlineUrgency)
		assert.Equal(t, 0.77, loaded.FinalScore())
		// The original row was updated, not shadowed by a second one.
		assert.Equal(t, score.ID(), loaded.ID())
	})

	t.Run("missing activity yields the sentinel", func(t *testing.T) {
		_, err := repo.FindByActivity(ctx, uuid.New())
		assert.ErrorIs(t, err, priority.ErrScoreNotFound)
	})
}

func TestPatternRepository(t *testing.T) {
	ctx := context.Background()
	conn := setupConn(t)
	repo := NewPatternRepository(conn)
	userID := uuid.New()

	t.Run("first sample creates the cell", func(t *testing.T) {
		require.NoError(t, repo.UpsertSample(ctx, userID, 9, planning.ActivityTypeDeepWork, 0.8, 7))

		patterns, err := repo.ListByUser(ctx, userID)
		require.NoError(t, err)
		require.Len(t, patterns, 1)
		assert.Equal(t, 9, patterns[0].HourOfDay())
		assert.InDelta(t, 0.8, patterns[0].AveragePerformance(), 1e-9)
		assert.Equal(t, 1, patterns[0].SampleSize())
		assert.Equal(t, 1.0, patterns[0].CompletionRate())
	})

	t.Run("later samples fold into the running average", func(t *testing.T) {
		require.NoError(t, repo.UpsertSample(ctx, userID, 9, planning.ActivityTypeDeepWork, 0.4, 7))

		patterns, err := repo.ListByUser(ctx, userID)
		require.NoError(t, err)
		require.Len(t, patterns, 1)
		assert.InDelta(t, 0.6, patterns[0].AveragePerformance(), 1e-9)
		assert.Equal(t, 2, patterns[0].SampleSize())
	})

	t.Run("distinct hours get distinct cells", func(t *testing.T) {
		require.NoError(t, repo.UpsertSample(ctx, userID, 15, planning.ActivityTypeDeepWork, 0.3, 5))

		patterns, err := repo.ListByUser(ctx, userID)
		require.NoError(t, err)
		assert.Len(t, patterns, 2)
	})

	t.Run("average spans the type's hour cells", func(t *testing.T) {
		avg, cells, err := repo.AverageForType(ctx, userID, planning.ActivityTypeDeepWork)
		require.NoError(t, err)
		assert.Equal(t, 2, cells)
		assert.InDelta(t, 0.45, avg, 1e-9)
	})

	t.Run("unseen type has no cells", func(t *testing.T) {
		avg, cells, err := repo.AverageForType(ctx, userID, planning.ActivityTypeExercise)
		require.NoError(t, err)
		assert.Zero(t, cells)
		assert.Zero(t, avg)
	})
}
