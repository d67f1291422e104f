package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/monkmode/internal/shared/domain"
)

var ErrObjectiveNotFound = errors.New("objective not found")

// Objective is a sub-goal with an optional due date. Objectives feed the
// deadline-urgency factor and are otherwise read-only to the scoring engine.
type Objective struct {
	domain.BaseAggregateRoot
	goalID        uuid.UUID
	description   string
	dueDate       *time.Time
	completed     bool
	completedAt   *time.Time
	priorityScore float64
}

// NewObjective creates an incomplete objective.
func NewObjective(goalID uuid.UUID, description string, dueDate *time.Time) *Objective {
	return &Objective{
		BaseAggregateRoot: domain.NewBaseAggregateRoot(),
		goalID:            goalID,
		description:       description,
		dueDate:           dueDate,
	}
}

// RehydrateObjective recreates an objective from persisted state.
func RehydrateObjective(base domain.BaseEntity, goalID uuid.UUID, description string, dueDate *time.Time, completed bool, completedAt *time.Time, priorityScore float64) *Objective {
	return &Objective{
		BaseAggregateRoot: domain.RehydrateBaseAggregateRoot(base),
		goalID:            goalID,
		description:       description,
		dueDate:           dueDate,
		completed:         completed,
		completedAt:       completedAt,
		priorityScore:     priorityScore,
	}
}

func (o *Objective) GoalID() uuid.UUID       { return o.goalID }
func (o *Objective) Description() string     { return o.description }
func (o *Objective) DueDate() *time.Time     { return o.dueDate }
func (o *Objective) IsCompleted() bool       { return o.completed }
func (o *Objective) CompletedAt() *time.Time { return o.completedAt }
func (o *Objective) PriorityScore() float64  { return o.priorityScore }

// Complete marks the objective done at the given time.
func (o *Objective) Complete(at time.Time) {
	o.completed = true
	o.completedAt = &at
	o.Touch()
}
