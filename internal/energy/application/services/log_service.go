package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	energy "github.com/felixgeelhaar/monkmode/internal/energy/domain"
	planning "github.com/felixgeelhaar/monkmode/internal/planning/domain"
	"github.com/felixgeelhaar/monkmode/internal/shared/infrastructure/eventbus"
)

// CompletionSource supplies recently completed activities so log intake can
// attach the "activity before" context factor. Satisfied by the planning
// activity repository.
type CompletionSource interface {
	ListCompletedSince(ctx context.Context, userID uuid.UUID, since time.Time) ([]*planning.ScheduledActivity, error)
}

// LogService records energy samples.
type LogService struct {
	logs        energy.EnergyLogRepository
	completions CompletionSource
	publisher   eventbus.Publisher
	logger      *slog.Logger
	clock       func() time.Time
}

func NewLogService(logs energy.EnergyLogRepository, completions CompletionSource, publisher eventbus.Publisher, logger *slog.Logger) *LogService {
	return &LogService{
		logs:        logs,
		completions: completions,
		publisher:   publisher,
		logger:      logger,
		clock:       func() time.Time { return time.Now().UTC() },
	}
}

// WithClock overrides the time source. Tests only.
func (s *LogService) WithClock(clock func() time.Time) *LogService {
	s.clock = clock
	return s
}

// Log records a sample at the current instant. When the caller did not name
// the preceding activity, the most recent completion within two hours is
// attached; failures there degrade to logging without the factor.
func (s *LogService) Log(ctx context.Context, userID uuid.UUID, level int, contextFactors map[string]any, notes string) (*energy.EnergyLog, error) {
	now := s.clock()

	if contextFactors == nil {
		contextFactors = map[string]any{}
	}
	if _, ok := contextFactors[energy.ContextFactorActivityBefore]; !ok {
		if recent := s.recentCompletion(ctx, userID, now); recent != "" {
			contextFactors[energy.ContextFactorActivityBefore] = recent
		}
	}

	log := energy.NewEnergyLog(userID, now, level, contextFactors, notes)
	log.AddDomainEvent(energy.NewEnergyLoggedEvent(log.ID(), userID, log.Level(), now))

	if err := s.logs.Save(ctx, log); err != nil {
		return nil, fmt.Errorf("persist energy log: %w", err)
	}
	eventbus.PublishAndClear(ctx, s.publisher, s.logger, log)
	return log, nil
}

func (s *LogService) recentCompletion(ctx context.Context, userID uuid.UUID, now time.Time) string {
	completions, err := s.completions.ListCompletedSince(ctx, userID, now.Add(-2*time.Hour))
	if err != nil {
		s.logger.WarnContext(ctx, "failed to look up recent completion",
			slog.String("user_id", userID.String()),
			slog.String("error", err.Error()),
		)
		return ""
	}
	if len(completions) == 0 {
		return ""
	}
	return completions[0].ActivityType().String()
}
