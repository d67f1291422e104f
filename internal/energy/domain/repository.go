package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// EnergyLogRepository persists energy logs.
type EnergyLogRepository interface {
	Save(ctx context.Context, log *EnergyLog) error
	// ListSince returns the user's logs at or after the given instant,
	// oldest first.
	ListSince(ctx context.Context, userID uuid.UUID, since time.Time) ([]*EnergyLog, error)
}

// PredictionRepository persists energy predictions.
type PredictionRepository interface {
	Save(ctx context.Context, prediction *EnergyPrediction) error
	// ListForRange returns predictions whose predicted_for falls inside
	// [from, to), oldest first.
	ListForRange(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]*EnergyPrediction, error)
}
