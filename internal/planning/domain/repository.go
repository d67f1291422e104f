package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// GoalRepository persists goals.
type GoalRepository interface {
	Save(ctx context.Context, goal *Goal) error
	FindByID(ctx context.Context, id uuid.UUID) (*Goal, error)
	// FindActiveByUser returns the user's single active goal, or
	// ErrGoalNotFound when there is none.
	FindActiveByUser(ctx context.Context, userID uuid.UUID) (*Goal, error)
}

// PeriodRepository persists monk mode periods.
type PeriodRepository interface {
	Save(ctx context.Context, period *Period) error
	FindByID(ctx context.Context, id uuid.UUID) (*Period, error)
	// FindActiveByGoal returns the goal's single active period, or
	// ErrPeriodNotFound when there is none.
	FindActiveByGoal(ctx context.Context, goalID uuid.UUID) (*Period, error)
	// SaveActivated persists the period as active and deactivates all
	// sibling periods of the same goal in one transaction.
	SaveActivated(ctx context.Context, period *Period) error
	// ListActiveUserIDs returns every user who has an active period
	// covering the given date. Used by batch sweeps.
	ListActiveUserIDs(ctx context.Context, date time.Time) ([]uuid.UUID, error)
}

// ObjectiveRepository persists objectives.
type ObjectiveRepository interface {
	Save(ctx context.Context, objective *Objective) error
	ListByGoal(ctx context.Context, goalID uuid.UUID) ([]*Objective, error)
	// ListOpenWithDueDates returns incomplete objectives that have a due
	// date, earliest first.
	ListOpenWithDueDates(ctx context.Context, goalID uuid.UUID) ([]*Objective, error)
}

// ActivityRepository persists scheduled activities.
type ActivityRepository interface {
	Save(ctx context.Context, activity *ScheduledActivity) error
	FindByID(ctx context.Context, id uuid.UUID) (*ScheduledActivity, error)
	// ListForPeriodDay returns all activities for a period day regardless
	// of completion state, ordered by (day_of_period, start_time).
	ListForPeriodDay(ctx context.Context, periodID uuid.UUID, dayOfPeriod int) ([]*ScheduledActivity, error)
	// ListCompletedSince returns the user's activities completed at or
	// after the given instant, most recent first.
	ListCompletedSince(ctx context.Context, userID uuid.UUID, since time.Time) ([]*ScheduledActivity, error)
	// CountByType returns completed and total counts of the user's
	// activities of one type.
	CountByType(ctx context.Context, userID uuid.UUID, activityType ActivityType) (completed, total int, err error)
	// ListInTimeOfDayWindow returns the user's activities whose scheduled
	// window overlaps [windowStart, windowEnd] by wall-clock time.
	ListInTimeOfDayWindow(ctx context.Context, userID uuid.UUID, windowStart, windowEnd TimeOfDay) ([]*ScheduledActivity, error)
	// UpdatePriorityScore writes only the priority_score column.
	UpdatePriorityScore(ctx context.Context, activityID uuid.UUID, score float64) error
}
