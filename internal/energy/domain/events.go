package domain

import (
	"time"

	"github.com/google/uuid"

	shared "github.com/felixgeelhaar/monkmode/internal/shared/domain"
)

// EnergyLoggedEvent is raised when a user reports an energy level.
type EnergyLoggedEvent struct {
	shared.BaseEvent
	UserID   uuid.UUID `json:"user_id"`
	Level    int       `json:"level"`
	LoggedAt time.Time `json:"logged_at"`
}

func NewEnergyLoggedEvent(logID, userID uuid.UUID, level int, loggedAt time.Time) EnergyLoggedEvent {
	return EnergyLoggedEvent{
		BaseEvent: shared.NewBaseEvent(logID, "energy_log", "energy.log.created"),
		UserID:    userID,
		Level:     level,
		LoggedAt:  loggedAt,
	}
}
