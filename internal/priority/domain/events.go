package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/monkmode/internal/shared/domain"
)

// PrioritiesCalculatedEvent is raised after a scoring run replaces the
// priority scores for a user's day.
type PrioritiesCalculatedEvent struct {
	domain.BaseEvent
	TargetDate time.Time `json:"target_date"`
	Activities int       `json:"activities"`
}

func NewPrioritiesCalculatedEvent(userID uuid.UUID, targetDate time.Time, activities int) PrioritiesCalculatedEvent {
	return PrioritiesCalculatedEvent{
		BaseEvent:  domain.NewBaseEvent(userID, "user", "priority.scores.calculated"),
		TargetDate: targetDate,
		Activities: activities,
	}
}
