package domain

import (
	"context"

	"github.com/google/uuid"

	planning "github.com/felixgeelhaar/monkmode/internal/planning/domain"
)

// ScoreRepository persists task priority scores, one row per activity.
type ScoreRepository interface {
	// Upsert writes the score, replacing the factors of an existing row
	// for the same activity.
	Upsert(ctx context.Context, score *TaskPriorityScore) error
	FindByActivity(ctx context.Context, activityID uuid.UUID) (*TaskPriorityScore, error)
}

// PatternRepository persists productivity patterns.
type PatternRepository interface {
	// AverageForType returns the mean average_performance across all hour
	// cells of one activity type, and how many cells exist.
	AverageForType(ctx context.Context, userID uuid.UUID, activityType planning.ActivityType) (avg float64, cells int, err error)
	// UpsertSample folds one performance sample into the (user, hour,
	// type) cell atomically, creating the cell on first sight.
	UpsertSample(ctx context.Context, userID uuid.UUID, hourOfDay int, activityType planning.ActivityType, performance, energyLevel float64) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*UserProductivityPattern, error)
}
