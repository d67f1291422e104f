package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	energy "github.com/felixgeelhaar/monkmode/internal/energy/domain"
	priorityservices "github.com/felixgeelhaar/monkmode/internal/priority/application/services"
)

// ActiveUserSource lists the users the sweep must visit. Satisfied by the
// planning period repository.
type ActiveUserSource interface {
	ListActiveUserIDs(ctx context.Context, date time.Time) ([]uuid.UUID, error)
}

// EnergyPredictor is the slice of the energy predictor the sweep drives.
type EnergyPredictor interface {
	Predict(ctx context.Context, userID uuid.UUID, predictionDate time.Time, hoursAhead int) ([]*energy.EnergyPrediction, error)
}

// PriorityCalculator is the slice of the priority engine the sweep drives.
type PriorityCalculator interface {
	CalculateDailyPriorities(ctx context.Context, userID uuid.UUID, targetDate time.Time) ([]priorityservices.PrioritizedActivity, error)
	UpdateProductivityPatterns(ctx context.Context, userID uuid.UUID) (int, error)
}

// Sweep is the scheduled batch pass: for every user with an active period it
// refreshes the energy forecast, recalculates the day's priorities, and folds
// recent completions into the productivity patterns. One user failing never
// stops the sweep.
type Sweep struct {
	periods    ActiveUserSource
	predictor  EnergyPredictor
	engine     PriorityCalculator
	hoursAhead int
	logger     *slog.Logger
	clock      func() time.Time
}

func NewSweep(periods ActiveUserSource, predictor EnergyPredictor, engine PriorityCalculator, hoursAhead int, logger *slog.Logger) *Sweep {
	return &Sweep{
		periods:    periods,
		predictor:  predictor,
		engine:     engine,
		hoursAhead: hoursAhead,
		logger:     logger,
		clock:      func() time.Time { return time.Now().UTC() },
	}
}

// WithClock overrides the time source. Tests only.
func (s *Sweep) WithClock(clock func() time.Time) *Sweep {
	s.clock = clock
	return s
}

// Run processes every active user once and returns how many succeeded fully.
func (s *Sweep) Run(ctx context.Context) (int, error) {
	today := s.clock()
	userIDs, err := s.periods.ListActiveUserIDs(ctx, today)
	if err != nil {
		return 0, err
	}

	succeeded := 0
	for _, userID := range userIDs {
		if ctx.Err() != nil {
			return succeeded, ctx.Err()
		}
		if s.runForUser(ctx, userID, today) {
			succeeded++
		}
	}

	s.logger.InfoContext(ctx, "sweep finished",
		slog.Int("users", len(userIDs)),
		slog.Int("succeeded", succeeded),
	)
	return succeeded, nil
}

func (s *Sweep) runForUser(ctx context.Context, userID uuid.UUID, today time.Time) bool {
	ok := true
	if _, err := s.predictor.Predict(ctx, userID, today, s.hoursAhead); err != nil {
		s.logger.ErrorContext(ctx, "sweep: energy prediction failed",
			slog.String("user_id", userID.String()),
			slog.String("error", err.Error()),
		)
		ok = false
	}
	if _, err := s.engine.CalculateDailyPriorities(ctx, userID, today); err != nil {
		s.logger.ErrorContext(ctx, "sweep: priority calculation failed",
			slog.String("user_id", userID.String()),
			slog.String("error", err.Error()),
		)
		ok = false
	}
	if _, err := s.engine.UpdateProductivityPatterns(ctx, userID); err != nil {
		s.logger.ErrorContext(ctx, "sweep: pattern update failed",
			slog.String("user_id", userID.String()),
			slog.String("error", err.Error()),
		)
		ok = false
	}
	return ok
}
