package domain

import (
	"time"

	"github.com/google/uuid"

	shared "github.com/felixgeelhaar/monkmode/internal/shared/domain"
)

// PredictionBasis names the data source a prediction came from.
type PredictionBasis string

const (
	// BasisHistorical means the value is a recency-weighted average of
	// the user's own logs for that hour.
	BasisHistorical PredictionBasis = "historical"
	// BasisCircadian means the value fell back to the circadian default
	// table for that hour.
	BasisCircadian PredictionBasis = "circadian"
)

// EnergyPrediction is one forecast for a user at a specific instant.
// Predictions are never updated, only superseded by later runs; duplicate
// rows for the same instant are expected and tolerated.
type EnergyPrediction struct {
	shared.BaseAggregateRoot
	userID          uuid.UUID
	predictedFor    time.Time
	predictedEnergy float64
	confidence      float64
	basis           PredictionBasis
	actualEnergy    *float64
}

// NewEnergyPrediction creates a prediction record.
func NewEnergyPrediction(userID uuid.UUID, predictedFor time.Time, predictedEnergy, confidence float64, basis PredictionBasis) *EnergyPrediction {
	return &EnergyPrediction{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		userID:            userID,
		predictedFor:      predictedFor,
		predictedEnergy:   predictedEnergy,
		confidence:        confidence,
		basis:             basis,
	}
}

// RehydrateEnergyPrediction recreates a prediction from persisted state.
func RehydrateEnergyPrediction(base shared.BaseEntity, userID uuid.UUID, predictedFor time.Time, predictedEnergy, confidence float64, basis PredictionBasis, actualEnergy *float64) *EnergyPrediction {
	return &EnergyPrediction{
		BaseAggregateRoot: shared.RehydrateBaseAggregateRoot(base),
		userID:            userID,
		predictedFor:      predictedFor,
		predictedEnergy:   predictedEnergy,
		confidence:        confidence,
		basis:             basis,
		actualEnergy:      actualEnergy,
	}
}

func (p *EnergyPrediction) UserID() uuid.UUID        { return p.userID }
func (p *EnergyPrediction) PredictedFor() time.Time  { return p.predictedFor }
func (p *EnergyPrediction) PredictedEnergy() float64 { return p.predictedEnergy }
func (p *EnergyPrediction) Confidence() float64      { return p.confidence }
func (p *EnergyPrediction) Basis() PredictionBasis   { return p.basis }
func (p *EnergyPrediction) ActualEnergy() *float64   { return p.actualEnergy }

// RecordActual fills in the observed energy for later accuracy evaluation.
func (p *EnergyPrediction) RecordActual(actual float64) {
	p.actualEnergy = &actual
	p.Touch()
}
