package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/monkmode/internal/shared/domain"
)

var (
	ErrPeriodNotFound     = errors.New("monk mode period not found")
	ErrInvalidPeriodRange = errors.New("period end date must not be before start date")
)

// Period is a bounded date range during which a user follows a generated
// activity schedule toward a goal.
type Period struct {
	domain.BaseAggregateRoot
	goalID    uuid.UUID
	userID    uuid.UUID
	name      string
	startDate time.Time
	endDate   time.Time
	active    bool
}

// NewPeriod creates an inactive period. Dates are truncated to whole days.
func NewPeriod(goalID, userID uuid.UUID, name string, startDate, endDate time.Time) (*Period, error) {
	start := truncateToDay(startDate)
	end := truncateToDay(endDate)
	if end.Before(start) {
		return nil, ErrInvalidPeriodRange
	}
	return &Period{
		BaseAggregateRoot: domain.NewBaseAggregateRoot(),
		goalID:            goalID,
		userID:            userID,
		name:              name,
		startDate:         start,
		endDate:           end,
	}, nil
}

// RehydratePeriod recreates a period from persisted state.
func RehydratePeriod(base domain.BaseEntity, goalID, userID uuid.UUID, name string, startDate, endDate time.Time, active bool) *Period {
	return &Period{
		BaseAggregateRoot: domain.RehydrateBaseAggregateRoot(base),
		goalID:            goalID,
		userID:            userID,
		name:              name,
		startDate:         startDate,
		endDate:           endDate,
		active:            active,
	}
}

func (p *Period) GoalID() uuid.UUID    { return p.goalID }
func (p *Period) UserID() uuid.UUID    { return p.userID }
func (p *Period) Name() string         { return p.name }
func (p *Period) StartDate() time.Time { return p.startDate }
func (p *Period) EndDate() time.Time   { return p.endDate }
func (p *Period) IsActive() bool       { return p.active }

// Activate marks the period active. Deactivating sibling periods of the same
// goal is the repository's job so the switch is atomic.
func (p *Period) Activate() {
	p.active = true
	p.Touch()
}

// Deactivate clears the active flag.
func (p *Period) Deactivate() {
	p.active = false
	p.Touch()
}

// DayOfPeriod returns the 1-based day number of target within the period.
func (p *Period) DayOfPeriod(target time.Time) int {
	return int(truncateToDay(target).Sub(p.startDate).Hours()/24) + 1
}

// Contains reports whether target falls inside the period's date range.
func (p *Period) Contains(target time.Time) bool {
	day := truncateToDay(target)
	return !day.Before(p.startDate) && !day.After(p.endDate)
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
