package domain

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/monkmode/internal/shared/domain"
)

var (
	ErrGoalNotFound      = errors.New("goal not found")
	ErrEmptyGoalTitle    = errors.New("goal title cannot be empty")
	ErrInvalidGoalStatus = errors.New("invalid goal status")
)

// GoalStatus is the lifecycle state of a goal.
type GoalStatus string

const (
	GoalStatusDraft     GoalStatus = "draft"
	GoalStatusActive    GoalStatus = "active"
	GoalStatusCompleted GoalStatus = "completed"
	GoalStatusArchived  GoalStatus = "archived"
)

// ParseGoalStatus validates a stored status string.
func ParseGoalStatus(s string) (GoalStatus, error) {
	switch GoalStatus(s) {
	case GoalStatusDraft, GoalStatusActive, GoalStatusCompleted, GoalStatusArchived:
		return GoalStatus(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidGoalStatus, s)
	}
}

// Goal is the top-level target a user commits to during monk mode.
type Goal struct {
	domain.BaseAggregateRoot
	userID      uuid.UUID
	title       string
	description string
	status      GoalStatus
}

// NewGoal creates a draft goal.
func NewGoal(userID uuid.UUID, title, description string) (*Goal, error) {
	if title == "" {
		return nil, ErrEmptyGoalTitle
	}
	return &Goal{
		BaseAggregateRoot: domain.NewBaseAggregateRoot(),
		userID:            userID,
		title:             title,
		description:       description,
		status:            GoalStatusDraft,
	}, nil
}

// RehydrateGoal recreates a goal from persisted state.
func RehydrateGoal(base domain.BaseEntity, userID uuid.UUID, title, description string, status GoalStatus) *Goal {
	return &Goal{
		BaseAggregateRoot: domain.RehydrateBaseAggregateRoot(base),
		userID:            userID,
		title:             title,
		description:       description,
		status:            status,
	}
}

func (g *Goal) UserID() uuid.UUID   { return g.userID }
func (g *Goal) Title() string       { return g.title }
func (g *Goal) Description() string { return g.description }
func (g *Goal) Status() GoalStatus  { return g.status }

// Activate moves the goal into the active state.
func (g *Goal) Activate() {
	g.status = GoalStatusActive
	g.Touch()
}

// Complete marks the goal finished.
func (g *Goal) Complete() {
	g.status = GoalStatusCompleted
	g.Touch()
}

// Archive retires the goal.
func (g *Goal) Archive() {
	g.status = GoalStatusArchived
	g.Touch()
}
