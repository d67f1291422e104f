package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	energy "github.com/felixgeelhaar/monkmode/internal/energy/domain"
	planning "github.com/felixgeelhaar/monkmode/internal/planning/domain"
	"github.com/felixgeelhaar/monkmode/internal/shared/infrastructure/eventbus"
)

func TestInsightsService_GetInsights(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	now := time.Date(2026, 3, 20, 12, 0, 0, 0, time.UTC)

	t.Run("zero logs yields insufficient data report", func(t *testing.T) {
		svc := NewInsightsService(&fakeLogRepo{}, nil, testLogger()).WithClock(fixedClock(now))

		insights, err := svc.GetInsights(ctx, userID, 30)
		require.NoError(t, err)
		assert.True(t, insights.InsufficientData)
		assert.NotEmpty(t, insights.Recommendations)
	})

	t.Run("all malformed yields explicit error", func(t *testing.T) {
		repo := &fakeLogRepo{logs: []*energy.EnergyLog{
			malformedLog(userID, now.AddDate(0, 0, -1), 0),
			malformedLog(userID, now.AddDate(0, 0, -2), 77),
		}}
		svc := NewInsightsService(repo, nil, testLogger()).WithClock(fixedClock(now))

		_, err := svc.GetInsights(ctx, userID, 30)
		assert.ErrorIs(t, err, energy.ErrNoValidSamples)
	})

	t.Run("computes summary, hours, patterns, and factors", func(t *testing.T) {
		repo := &fakeLogRepo{}
		// Mornings high with exercise beforehand, evenings low with poor
		// sleep recorded.
		for day := 1; day <= 8; day++ {
			at := time.Date(2026, 3, 10+day, 9, 0, 0, 0, time.UTC)
			repo.logs = append(repo.logs, energy.NewEnergyLog(userID, at, 8, map[string]any{
				energy.ContextFactorActivityBefore: "Exercise",
			}, ""))
			evening := time.Date(2026, 3, 10+day, 22, 0, 0, 0, time.UTC)
			repo.logs = append(repo.logs, energy.NewEnergyLog(userID, evening, 3, map[string]any{
				"sleep_hours": 5,
			}, ""))
		}
		svc := NewInsightsService(repo, nil, testLogger()).WithClock(fixedClock(now))

		insights, err := svc.GetInsights(ctx, userID, 30)
		require.NoError(t, err)

		assert.False(t, insights.InsufficientData)
		assert.InDelta(t, 5.5, insights.Summary.AverageEnergy, 1e-9)
		assert.Equal(t, 3.0, insights.Summary.MinEnergy)
		assert.Equal(t, 8.0, insights.Summary.MaxEnergy)
		assert.Equal(t, 16, insights.Summary.TotalLogs)

		require.NotEmpty(t, insights.PeakHours)
		assert.Equal(t, 9, insights.PeakHours[0].Hour)
		require.NotEmpty(t, insights.LowHours)
		assert.Equal(t, 22, insights.LowHours[0].Hour)

		require.NotEmpty(t, insights.Boosters)
		assert.Equal(t, FactorCount{Factor: "Exercise", Count: 8}, insights.Boosters[0])
		require.NotEmpty(t, insights.Drains)
		assert.Equal(t, FactorCount{Factor: "sleep_hours: 5", Count: 8}, insights.Drains[0])

		assert.NotEmpty(t, insights.Recommendations)
		assert.Len(t, insights.DailyPatterns, 7)
	})

	t.Run("trend requires at least seven logs", func(t *testing.T) {
		repo := &fakeLogRepo{}
		for day := 1; day <= 3; day++ {
			at := now.AddDate(0, 0, -day)
			repo.logs = append(repo.logs, energy.NewEnergyLog(userID, at, 5, nil, ""))
		}
		svc := NewInsightsService(repo, nil, testLogger()).WithClock(fixedClock(now))

		insights, err := svc.GetInsights(ctx, userID, 30)
		require.NoError(t, err)
		assert.Equal(t, TrendInsufficient, insights.Trend.Direction)
	})

	t.Run("detects upward trend", func(t *testing.T) {
		repo := &fakeLogRepo{}
		for i := 0; i < 4; i++ {
			repo.logs = append(repo.logs, energy.NewEnergyLog(userID, now.AddDate(0, 0, -10+i), 3, nil, ""))
		}
		for i := 0; i < 4; i++ {
			repo.logs = append(repo.logs, energy.NewEnergyLog(userID, now.AddDate(0, 0, -4+i), 7, nil, ""))
		}
		svc := NewInsightsService(repo, nil, testLogger()).WithClock(fixedClock(now))

		insights, err := svc.GetInsights(ctx, userID, 30)
		require.NoError(t, err)
		assert.Equal(t, TrendUp, insights.Trend.Direction)
		assert.InDelta(t, 4.0, insights.Trend.Delta, 1e-9)
	})
}

type fakeInsightCache struct {
	stored map[string]*EnergyInsights
	hits   int
}

func (c *fakeInsightCache) Get(_ context.Context, userID uuid.UUID, daysBack int) (*EnergyInsights, bool) {
	insights, ok := c.stored[cacheKeyFor(userID, daysBack)]
	if ok {
		c.hits++
	}
	return insights, ok
}

func (c *fakeInsightCache) Set(_ context.Context, userID uuid.UUID, daysBack int, insights *EnergyInsights) {
	if c.stored == nil {
		c.stored = map[string]*EnergyInsights{}
	}
	c.stored[cacheKeyFor(userID, daysBack)] = insights
}

func cacheKeyFor(userID uuid.UUID, daysBack int) string {
	return userID.String() + ":" + time.Duration(daysBack).String()
}

func TestInsightsService_UsesCache(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	now := time.Date(2026, 3, 20, 12, 0, 0, 0, time.UTC)

	repo := &fakeLogRepo{logs: []*energy.EnergyLog{energy.NewEnergyLog(userID, now.AddDate(0, 0, -1), 6, nil, "")}}
	cache := &fakeInsightCache{}
	svc := NewInsightsService(repo, cache, testLogger()).WithClock(fixedClock(now))

	first, err := svc.GetInsights(ctx, userID, 30)
	require.NoError(t, err)
	second, err := svc.GetInsights(ctx, userID, 30)
	require.NoError(t, err)

	assert.Equal(t, 1, cache.hits)
	assert.Same(t, first, second)
}

func TestRecoveryService_GetRecommendations(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	now := time.Date(2026, 3, 20, 12, 0, 0, 0, time.UTC)

	t.Run("no logs prompts tracking", func(t *testing.T) {
		svc := NewRecoveryService(&fakeLogRepo{}, testLogger()).WithClock(fixedClock(now))

		recs, err := svc.GetRecommendations(ctx, userID)
		require.NoError(t, err)
		require.Len(t, recs, 1)
		assert.Contains(t, recs[0], "Start tracking")
	})

	t.Run("low energy tier with context add-ons", func(t *testing.T) {
		repo := &fakeLogRepo{logs: []*energy.EnergyLog{
			energy.NewEnergyLog(userID, now.Add(-5*time.Hour), 3, nil, ""),
			energy.NewEnergyLog(userID, now.Add(-1*time.Hour), 3, map[string]any{
				"stress_level": 4,
				"sleep_hours":  "5.5",
			}, ""),
		}}
		svc := NewRecoveryService(repo, testLogger()).WithClock(fixedClock(now))

		recs, err := svc.GetRecommendations(ctx, userID)
		require.NoError(t, err)

		assert.Contains(t, recs[0], "7-9 hours")
		joined := ""
		for _, r := range recs {
			joined += r + "\n"
		}
		assert.Contains(t, joined, "High stress detected")
		assert.Contains(t, joined, "Insufficient sleep detected")
	})

	t.Run("healthy tier", func(t *testing.T) {
		repo := &fakeLogRepo{logs: []*energy.EnergyLog{
			energy.NewEnergyLog(userID, now.Add(-2*time.Hour), 8, nil, ""),
		}}
		svc := NewRecoveryService(repo, testLogger()).WithClock(fixedClock(now))

		recs, err := svc.GetRecommendations(ctx, userID)
		require.NoError(t, err)
		assert.Contains(t, recs[0], "doing great")
	})

	t.Run("only malformed recent samples", func(t *testing.T) {
		repo := &fakeLogRepo{logs: []*energy.EnergyLog{malformedLog(userID, now.Add(-time.Hour), 0)}}
		svc := NewRecoveryService(repo, testLogger()).WithClock(fixedClock(now))

		_, err := svc.GetRecommendations(ctx, userID)
		assert.ErrorIs(t, err, energy.ErrNoValidSamples)
	})
}

type fakeCompletionSource struct {
	completions []*planning.ScheduledActivity
	err         error
}

func (s *fakeCompletionSource) ListCompletedSince(_ context.Context, _ uuid.UUID, _ time.Time) ([]*planning.ScheduledActivity, error) {
	return s.completions, s.err
}

func TestLogService_Log(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	now := time.Date(2026, 3, 20, 12, 0, 0, 0, time.UTC)

	t.Run("attaches recent completion as activity before", func(t *testing.T) {
		repo := &fakeLogRepo{}
		completions := &fakeCompletionSource{completions: []*planning.ScheduledActivity{
			scheduledActivity(t, userID, planning.ActivityTypeDeepWork),
		}}
		svc := NewLogService(repo, completions, eventbus.NewNoopPublisher(), testLogger()).WithClock(fixedClock(now))

		log, err := svc.Log(ctx, userID, 6, nil, "after a session")
		require.NoError(t, err)

		assert.Equal(t, "Deep Work", log.ContextFactors()[energy.ContextFactorActivityBefore])
		require.Len(t, repo.logs, 1)
		assert.Equal(t, now, repo.logs[0].LoggedAt())
	})

	t.Run("caller-provided factor wins", func(t *testing.T) {
		completions := &fakeCompletionSource{completions: []*planning.ScheduledActivity{
			scheduledActivity(t, userID, planning.ActivityTypeDeepWork),
		}}
		svc := NewLogService(&fakeLogRepo{}, completions, eventbus.NewNoopPublisher(), testLogger()).WithClock(fixedClock(now))

		log, err := svc.Log(ctx, userID, 6, map[string]any{
			energy.ContextFactorActivityBefore: "Exercise",
		}, "")
		require.NoError(t, err)
		assert.Equal(t, "Exercise", log.ContextFactors()[energy.ContextFactorActivityBefore])
	})

	t.Run("completion lookup failure degrades gracefully", func(t *testing.T) {
		completions := &fakeCompletionSource{err: assert.AnError}
		svc := NewLogService(&fakeLogRepo{}, completions, eventbus.NewNoopPublisher(), testLogger()).WithClock(fixedClock(now))

		log, err := svc.Log(ctx, userID, 6, nil, "")
		require.NoError(t, err)
		assert.NotContains(t, log.ContextFactors(), energy.ContextFactorActivityBefore)
	})
}
