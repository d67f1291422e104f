// Package domain holds the energy tracking model: immutable energy logs,
// prediction records, and the circadian defaults the predictor falls back on.
package domain

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	shared "github.com/felixgeelhaar/monkmode/internal/shared/domain"
)

var (
	ErrEnergyLogNotFound = errors.New("energy log not found")
	// ErrNoValidSamples is reported when every sample in a requested
	// aggregation window is malformed or the window is empty.
	ErrNoValidSamples = errors.New("no valid energy samples in window")
)

// ContextFactorActivityBefore is the well-known context factor recording the
// activity the user finished shortly before logging.
const ContextFactorActivityBefore = "activity_before"

// EnergyLog is one self-reported energy sample. Append-only; immutable once
// written.
type EnergyLog struct {
	shared.BaseAggregateRoot
	userID         uuid.UUID
	loggedAt       time.Time
	level          int
	contextFactors map[string]any
	notes          string
}

// NewEnergyLog creates a log entry. A zero level defaults to 5 and
// out-of-range values are clamped into [1,10]; context factor values are
// normalized (trimmed strings, numeric strings converted).
func NewEnergyLog(userID uuid.UUID, loggedAt time.Time, level int, contextFactors map[string]any, notes string) *EnergyLog {
	if level == 0 {
		level = 5
	}
	if level < 1 {
		level = 1
	}
	if level > 10 {
		level = 10
	}
	return &EnergyLog{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		userID:            userID,
		loggedAt:          loggedAt,
		level:             level,
		contextFactors:    normalizeContextFactors(contextFactors),
		notes:             notes,
	}
}

// RehydrateEnergyLog recreates a log from persisted state without
// re-validating the level, so malformed stored samples stay visible to the
// aggregation layer's skip-and-warn handling.
func RehydrateEnergyLog(base shared.BaseEntity, userID uuid.UUID, loggedAt time.Time, level int, contextFactors map[string]any, notes string) *EnergyLog {
	if contextFactors == nil {
		contextFactors = map[string]any{}
	}
	return &EnergyLog{
		BaseAggregateRoot: shared.RehydrateBaseAggregateRoot(base),
		userID:            userID,
		loggedAt:          loggedAt,
		level:             level,
		contextFactors:    contextFactors,
		notes:             notes,
	}
}

func (l *EnergyLog) UserID() uuid.UUID              { return l.userID }
func (l *EnergyLog) LoggedAt() time.Time            { return l.loggedAt }
func (l *EnergyLog) Level() int                     { return l.level }
func (l *EnergyLog) ContextFactors() map[string]any { return l.contextFactors }
func (l *EnergyLog) Notes() string                  { return l.notes }

// HasValidLevel reports whether the stored level is inside the 1-10 scale.
func (l *EnergyLog) HasValidLevel() bool {
	return l.level >= 1 && l.level <= 10
}

func normalizeContextFactors(factors map[string]any) map[string]any {
	normalized := make(map[string]any, len(factors))
	for key, value := range factors {
		if value == nil {
			continue
		}
		if s, ok := value.(string); ok {
			s = strings.TrimSpace(s)
			if n, err := strconv.Atoi(s); err == nil {
				normalized[key] = n
				continue
			}
			normalized[key] = s
			continue
		}
		normalized[key] = value
	}
	return normalized
}
