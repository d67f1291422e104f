package domain

import (
	"github.com/google/uuid"

	planning "github.com/felixgeelhaar/monkmode/internal/planning/domain"
	"github.com/felixgeelhaar/monkmode/internal/shared/domain"
)

// UserProductivityPattern is the learned performance record for one
// (user, hour, activity type) cell. Sample counts only ever grow.
type UserProductivityPattern struct {
	domain.BaseEntity
	userID             uuid.UUID
	hourOfDay          int
	activityType       planning.ActivityType
	averagePerformance float64
	energyLevel        float64
	completionRate     float64
	sampleSize         int
}

// NewUserProductivityPattern starts a pattern cell from its first sample.
func NewUserProductivityPattern(userID uuid.UUID, hourOfDay int, activityType planning.ActivityType, performance, energyLevel float64) *UserProductivityPattern {
	return &UserProductivityPattern{
		BaseEntity:         domain.NewBaseEntity(),
		userID:             userID,
		hourOfDay:          hourOfDay,
		activityType:       activityType,
		averagePerformance: performance,
		energyLevel:        energyLevel,
		completionRate:     1.0,
		sampleSize:         1,
	}
}

// RehydrateUserProductivityPattern recreates a pattern from persisted state.
func RehydrateUserProductivityPattern(base domain.BaseEntity, userID uuid.UUID, hourOfDay int, activityType planning.ActivityType, averagePerformance, energyLevel, completionRate float64, sampleSize int) *UserProductivityPattern {
	return &UserProductivityPattern{
		BaseEntity:         base,
		userID:             userID,
		hourOfDay:          hourOfDay,
		activityType:       activityType,
		averagePerformance: averagePerformance,
		energyLevel:        energyLevel,
		completionRate:     completionRate,
		sampleSize:         sampleSize,
	}
}

func (p *UserProductivityPattern) UserID() uuid.UUID                   { return p.userID }
func (p *UserProductivityPattern) HourOfDay() int                      { return p.hourOfDay }
func (p *UserProductivityPattern) ActivityType() planning.ActivityType { return p.activityType }
func (p *UserProductivityPattern) AveragePerformance() float64         { return p.averagePerformance }
func (p *UserProductivityPattern) EnergyLevel() float64                { return p.energyLevel }
func (p *UserProductivityPattern) CompletionRate() float64             { return p.completionRate }
func (p *UserProductivityPattern) SampleSize() int                     { return p.sampleSize }

// Absorb folds a new performance sample into the running average.
func (p *UserProductivityPattern) Absorb(performance float64) {
	p.averagePerformance, p.sampleSize = IncrementalAverage(p.averagePerformance, p.sampleSize, performance)
	p.Touch()
}

// IncrementalAverage folds one sample into a running mean without keeping the
// sample history.
func IncrementalAverage(oldAvg float64, oldN int, sample float64) (float64, int) {
	newN := oldN + 1
	return (oldAvg*float64(oldN) + sample) / float64(newN), newN
}

// PerformanceScore rates a completed activity in [0,1]. Quality moves the
// base up or down, and finishing close to the scheduled duration earns a
// bonus while badly overrunning costs one.
func PerformanceScore(quality *int, scheduledMinutes int, actualMinutes int, hasActual bool) float64 {
	score := NeutralFactor
	if quality != nil {
		score += float64(*quality-3) * 0.1
	}
	if hasActual && scheduledMinutes > 0 && actualMinutes > 0 {
		ratio := float64(actualMinutes) / float64(scheduledMinutes)
		if ratio >= 0.8 && ratio <= 1.2 {
			score += 0.2
		} else if ratio > 1.5 {
			score -= 0.2
		}
	}
	return Clamp01(score)
}
