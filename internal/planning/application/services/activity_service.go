// Package services holds the planning use cases the scoring engine and the
// CLI drive: scheduling, completing, and period activation.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	planning "github.com/felixgeelhaar/monkmode/internal/planning/domain"
	"github.com/felixgeelhaar/monkmode/internal/shared/infrastructure/eventbus"
)

// ActivityService mutates scheduled activities.
type ActivityService struct {
	activities planning.ActivityRepository
	publisher  eventbus.Publisher
	logger     *slog.Logger
	clock      func() time.Time
}

func NewActivityService(activities planning.ActivityRepository, publisher eventbus.Publisher, logger *slog.Logger) *ActivityService {
	return &ActivityService{
		activities: activities,
		publisher:  publisher,
		logger:     logger,
		clock:      func() time.Time { return time.Now().UTC() },
	}
}

// WithClock overrides the time source. Tests only.
func (s *ActivityService) WithClock(clock func() time.Time) *ActivityService {
	s.clock = clock
	return s
}

// Schedule creates an activity on a period day.
func (s *ActivityService) Schedule(ctx context.Context, periodID, userID uuid.UUID, activityType planning.ActivityType, description string, dayOfPeriod int, startTime, endTime planning.TimeOfDay, energyRequired int) (*planning.ScheduledActivity, error) {
	activity, err := planning.NewScheduledActivity(periodID, userID, activityType, description, dayOfPeriod, startTime, endTime, energyRequired)
	if err != nil {
		return nil, err
	}
	if err := s.activities.Save(ctx, activity); err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "activity scheduled",
		slog.String("activity_id", activity.ID().String()),
		slog.String("activity_type", activityType.String()),
		slog.Int("day_of_period", dayOfPeriod),
	)
	return activity, nil
}

// Complete marks an activity done and publishes the completion event that
// drives pattern learning.
func (s *ActivityService) Complete(ctx context.Context, activityID uuid.UUID, actualStart, actualEnd *time.Time, quality *int) (*planning.ScheduledActivity, error) {
	activity, err := s.activities.FindByID(ctx, activityID)
	if err != nil {
		return nil, err
	}
	if err := activity.Complete(s.clock(), actualStart, actualEnd, quality); err != nil {
		return nil, err
	}
	if err := s.activities.Save(ctx, activity); err != nil {
		return nil, fmt.Errorf("persist completed activity: %w", err)
	}
	eventbus.PublishAndClear(ctx, s.publisher, s.logger, activity)
	return activity, nil
}
