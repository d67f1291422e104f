package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/monkmode/internal/shared/domain"
)

var (
	ErrActivityNotFound         = errors.New("scheduled activity not found")
	ErrActivityAlreadyCompleted = errors.New("scheduled activity already completed")
	ErrInvalidEnergyRequired    = errors.New("energy required must be between 1 and 10")
	ErrInvalidCompletionQuality = errors.New("completion quality must be between 1 and 5")
)

// ScheduledActivity is a single time-boxed task instance within a period day.
type ScheduledActivity struct {
	domain.BaseAggregateRoot
	periodID          uuid.UUID
	userID            uuid.UUID
	activityType      ActivityType
	description       string
	dayOfPeriod       int
	startTime         TimeOfDay
	endTime           TimeOfDay
	durationMinutes   int
	energyRequired    int
	completed         bool
	completedAt       *time.Time
	actualStartTime   *time.Time
	actualEndTime     *time.Time
	completionQuality *int
	priorityScore     float64
}

// NewScheduledActivity creates an activity for a period day.
func NewScheduledActivity(periodID, userID uuid.UUID, activityType ActivityType, description string, dayOfPeriod int, startTime, endTime TimeOfDay, energyRequired int) (*ScheduledActivity, error) {
	if energyRequired < 1 || energyRequired > 10 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidEnergyRequired, energyRequired)
	}
	duration := endTime.Minutes() - startTime.Minutes()
	if duration < 0 {
		duration = 0
	}
	return &ScheduledActivity{
		BaseAggregateRoot: domain.NewBaseAggregateRoot(),
		periodID:          periodID,
		userID:            userID,
		activityType:      activityType,
		description:       description,
		dayOfPeriod:       dayOfPeriod,
		startTime:         startTime,
		endTime:           endTime,
		durationMinutes:   duration,
		energyRequired:    energyRequired,
	}, nil
}

// RehydrateScheduledActivity recreates an activity from persisted state.
func RehydrateScheduledActivity(
	base domain.BaseEntity,
	periodID, userID uuid.UUID,
	activityType ActivityType,
	description string,
	dayOfPeriod int,
	startTime, endTime TimeOfDay,
	durationMinutes, energyRequired int,
	completed bool,
	completedAt, actualStartTime, actualEndTime *time.Time,
	completionQuality *int,
	priorityScore float64,
) *ScheduledActivity {
	return &ScheduledActivity{
		BaseAggregateRoot: domain.RehydrateBaseAggregateRoot(base),
		periodID:          periodID,
		userID:            userID,
		activityType:      activityType,
		description:       description,
		dayOfPeriod:       dayOfPeriod,
		startTime:         startTime,
		endTime:           endTime,
		durationMinutes:   durationMinutes,
		energyRequired:    energyRequired,
		completed:         completed,
		completedAt:       completedAt,
		actualStartTime:   actualStartTime,
		actualEndTime:     actualEndTime,
		completionQuality: completionQuality,
		priorityScore:     priorityScore,
	}
}

func (a *ScheduledActivity) PeriodID() uuid.UUID        { return a.periodID }
func (a *ScheduledActivity) UserID() uuid.UUID          { return a.userID }
func (a *ScheduledActivity) ActivityType() ActivityType { return a.activityType }
func (a *ScheduledActivity) Description() string        { return a.description }
func (a *ScheduledActivity) DayOfPeriod() int           { return a.dayOfPeriod }
func (a *ScheduledActivity) StartTime() TimeOfDay       { return a.startTime }
func (a *ScheduledActivity) EndTime() TimeOfDay         { return a.endTime }
func (a *ScheduledActivity) DurationMinutes() int       { return a.durationMinutes }
func (a *ScheduledActivity) EnergyRequired() int        { return a.energyRequired }
func (a *ScheduledActivity) IsCompleted() bool          { return a.completed }
func (a *ScheduledActivity) CompletedAt() *time.Time    { return a.completedAt }
func (a *ScheduledActivity) ActualStartTime() *time.Time { return a.actualStartTime }
func (a *ScheduledActivity) ActualEndTime() *time.Time  { return a.actualEndTime }
func (a *ScheduledActivity) CompletionQuality() *int    { return a.completionQuality }
func (a *ScheduledActivity) PriorityScore() float64     { return a.priorityScore }

// ActualDurationMinutes returns the measured duration when both actual
// timestamps were recorded.
func (a *ScheduledActivity) ActualDurationMinutes() (int, bool) {
	if a.actualStartTime == nil || a.actualEndTime == nil {
		return 0, false
	}
	return int(a.actualEndTime.Sub(*a.actualStartTime).Minutes()), true
}

// Complete marks the activity done. Quality is optional; when present it must
// be a 1-5 rating.
func (a *ScheduledActivity) Complete(at time.Time, actualStart, actualEnd *time.Time, quality *int) error {
	if a.completed {
		return ErrActivityAlreadyCompleted
	}
	if quality != nil && (*quality < 1 || *quality > 5) {
		return fmt.Errorf("%w: got %d", ErrInvalidCompletionQuality, *quality)
	}
	a.completed = true
	a.completedAt = &at
	a.actualStartTime = actualStart
	a.actualEndTime = actualEnd
	a.completionQuality = quality
	a.Touch()
	a.AddDomainEvent(NewActivityCompletedEvent(a.ID(), a.userID, a.activityType, at))
	return nil
}

// SetPriorityScore records the latest blended priority for the activity.
func (a *ScheduledActivity) SetPriorityScore(score float64) {
	a.priorityScore = score
	a.Touch()
}
