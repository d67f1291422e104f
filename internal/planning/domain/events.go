package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/monkmode/internal/shared/domain"
)

// ActivityCompletedEvent is raised when a scheduled activity is marked done.
// The pattern-learning sweep consumes it to refresh productivity patterns.
type ActivityCompletedEvent struct {
	domain.BaseEvent
	UserID       uuid.UUID    `json:"user_id"`
	ActivityType ActivityType `json:"activity_type"`
	CompletedAt  time.Time    `json:"completed_at"`
}

func NewActivityCompletedEvent(activityID, userID uuid.UUID, activityType ActivityType, completedAt time.Time) ActivityCompletedEvent {
	return ActivityCompletedEvent{
		BaseEvent:    domain.NewBaseEvent(activityID, "scheduled_activity", "planning.activity.completed"),
		UserID:       userID,
		ActivityType: activityType,
		CompletedAt:  completedAt,
	}
}

// PeriodActivatedEvent is raised when a period becomes the active one for
// its goal.
type PeriodActivatedEvent struct {
	domain.BaseEvent
	GoalID uuid.UUID `json:"goal_id"`
	UserID uuid.UUID `json:"user_id"`
}

func NewPeriodActivatedEvent(periodID, goalID, userID uuid.UUID) PeriodActivatedEvent {
	return PeriodActivatedEvent{
		BaseEvent: domain.NewBaseEvent(periodID, "monk_mode_period", "planning.period.activated"),
		GoalID:    goalID,
		UserID:    userID,
	}
}
