// Package domain holds the priority scoring model: the six factor rules, the
// weighted blend, and the productivity patterns the preference factor learns
// from.
package domain

import (
	"errors"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/monkmode/internal/shared/domain"
)

var ErrScoreNotFound = errors.New("task priority score not found")

// FactorScores holds the six normalized factor values, each in [0,1].
type FactorScores struct {
	DeadlineUrgency   float64
	GoalImpact        float64
	EnergyRequirement float64
	DependencyWeight  float64
	UserPreference    float64
	MomentumFactor    float64
}

// EngineConfig weights the six factors. The defaults sum to 1.0 so the final
// score stays in [0,1].
type EngineConfig struct {
	DeadlineUrgencyWeight   float64
	GoalImpactWeight        float64
	EnergyAlignmentWeight   float64
	DependencyWeightWeight  float64
	UserPreferenceWeight    float64
	MomentumFactorWeight    float64
}

func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		DeadlineUrgencyWeight:  0.25,
		GoalImpactWeight:       0.25,
		EnergyAlignmentWeight:  0.20,
		DependencyWeightWeight: 0.15,
		UserPreferenceWeight:   0.10,
		MomentumFactorWeight:   0.05,
	}
}

// Composite blends the factors into the final score.
func (c EngineConfig) Composite(f FactorScores) float64 {
	return f.DeadlineUrgency*c.DeadlineUrgencyWeight +
		f.GoalImpact*c.GoalImpactWeight +
		f.EnergyRequirement*c.EnergyAlignmentWeight +
		f.DependencyWeight*c.DependencyWeightWeight +
		f.UserPreference*c.UserPreferenceWeight +
		f.MomentumFactor*c.MomentumFactorWeight
}

// TaskPriorityScore is the persisted scoring record, one per activity. A
// recalculation replaces the factors in place rather than appending history.
type TaskPriorityScore struct {
	domain.BaseEntity
	activityID uuid.UUID
	userID     uuid.UUID
	factors    FactorScores
	finalScore float64
}

func NewTaskPriorityScore(activityID, userID uuid.UUID, factors FactorScores, finalScore float64) *TaskPriorityScore {
	return &TaskPriorityScore{
		BaseEntity: domain.NewBaseEntity(),
		activityID: activityID,
		userID:     userID,
		factors:    factors,
		finalScore: finalScore,
	}
}

// RehydrateTaskPriorityScore recreates a score record from persisted state.
func RehydrateTaskPriorityScore(base domain.BaseEntity, activityID, userID uuid.UUID, factors FactorScores, finalScore float64) *TaskPriorityScore {
	return &TaskPriorityScore{
		BaseEntity: base,
		activityID: activityID,
		userID:     userID,
		factors:    factors,
		finalScore: finalScore,
	}
}

func (s *TaskPriorityScore) ActivityID() uuid.UUID  { return s.activityID }
func (s *TaskPriorityScore) UserID() uuid.UUID      { return s.userID }
func (s *TaskPriorityScore) Factors() FactorScores  { return s.factors }
func (s *TaskPriorityScore) FinalScore() float64    { return s.finalScore }

// Replace overwrites the factors and final score from a recalculation.
func (s *TaskPriorityScore) Replace(factors FactorScores, finalScore float64) {
	s.factors = factors
	s.finalScore = finalScore
	s.Touch()
}
