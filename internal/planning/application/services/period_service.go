package services

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	planning "github.com/felixgeelhaar/monkmode/internal/planning/domain"
	"github.com/felixgeelhaar/monkmode/internal/shared/infrastructure/eventbus"
)

// PeriodService owns period lifecycle transitions.
type PeriodService struct {
	periods   planning.PeriodRepository
	publisher eventbus.Publisher
	logger    *slog.Logger
}

func NewPeriodService(periods planning.PeriodRepository, publisher eventbus.Publisher, logger *slog.Logger) *PeriodService {
	return &PeriodService{periods: periods, publisher: publisher, logger: logger}
}

// Activate makes the period the active one for its goal. Sibling periods are
// deactivated in the same transaction, which is what lets the scoring engine
// assume at most one active period per goal.
func (s *PeriodService) Activate(ctx context.Context, periodID uuid.UUID) (*planning.Period, error) {
	period, err := s.periods.FindByID(ctx, periodID)
	if err != nil {
		return nil, err
	}
	period.Activate()
	period.AddDomainEvent(planning.NewPeriodActivatedEvent(period.ID(), period.GoalID(), period.UserID()))

	if err := s.periods.SaveActivated(ctx, period); err != nil {
		return nil, err
	}
	eventbus.PublishAndClear(ctx, s.publisher, s.logger, period)

	s.logger.InfoContext(ctx, "period activated",
		slog.String("period_id", period.ID().String()),
		slog.String("goal_id", period.GoalID().String()),
	)
	return period, nil
}
