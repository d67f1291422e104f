package services

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	priority "github.com/felixgeelhaar/monkmode/internal/priority/domain"
)

// patternWindowDays is how far back completions feed pattern learning.
const patternWindowDays = 30

// UpdateProductivityPatterns folds the user's recent completions into the
// (hour, activity type) pattern grid and returns how many samples were
// absorbed. A sample that fails to persist is skipped, not fatal.
func (e *Engine) UpdateProductivityPatterns(ctx context.Context, userID uuid.UUID) (int, error) {
	since := e.clock().AddDate(0, 0, -patternWindowDays)
	completed, err := e.activities.ListCompletedSince(ctx, userID, since)
	if err != nil {
		return 0, err
	}

	updated := 0
	for _, activity := range completed {
		completedAt := activity.CompletedAt()
		if completedAt == nil {
			continue
		}

		actualMinutes, hasActual := activity.ActualDurationMinutes()
		performance := priority.PerformanceScore(activity.CompletionQuality(),
			activity.DurationMinutes(), actualMinutes, hasActual)

		err := e.patterns.UpsertSample(ctx, userID, completedAt.Hour(),
			activity.ActivityType(), performance, float64(activity.EnergyRequired()))
		if err != nil {
			e.logger.WarnContext(ctx, "failed to record productivity sample",
				slog.String("activity_id", activity.ID().String()),
				slog.String("error", err.Error()),
			)
			continue
		}
		updated++
	}

	e.logger.InfoContext(ctx, "productivity patterns updated",
		slog.String("user_id", userID.String()),
		slog.Int("samples", updated),
	)
	return updated, nil
}
