package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	energy "github.com/felixgeelhaar/monkmode/internal/energy/domain"
	shared "github.com/felixgeelhaar/monkmode/internal/shared/domain"
	"github.com/felixgeelhaar/monkmode/internal/shared/infrastructure/database"
)

// PredictionRepository is the database-backed energy.PredictionRepository.
// Predictions carry no uniqueness constraint; superseded runs leave their
// rows in place.
type PredictionRepository struct {
	conn database.Connection
}

func NewPredictionRepository(conn database.Connection) *PredictionRepository {
	return &PredictionRepository{conn: conn}
}

func (r *PredictionRepository) Save(ctx context.Context, prediction *energy.EnergyPrediction) error {
	_, err := r.conn.Exec(ctx, `
		INSERT INTO energy_predictions (id, user_id, predicted_for, predicted_energy, confidence_score, basis, actual_energy, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			actual_energy = excluded.actual_energy,
			updated_at = excluded.updated_at`,
		prediction.ID().String(),
		prediction.UserID().String(),
		fmtTime(prediction.PredictedFor()),
		prediction.PredictedEnergy(),
		prediction.Confidence(),
		string(prediction.Basis()),
		prediction.ActualEnergy(),
		fmtTime(prediction.CreatedAt()),
		fmtTime(prediction.UpdatedAt()),
	)
	if err != nil {
		return fmt.Errorf("save energy prediction %s: %w", prediction.ID(), err)
	}
	return nil
}

func (r *PredictionRepository) ListForRange(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]*energy.EnergyPrediction, error) {
	rows, err := r.conn.Query(ctx, `
		SELECT id, user_id, predicted_for, predicted_energy, confidence_score, basis, actual_energy, created_at, updated_at
		FROM energy_predictions
		WHERE user_id = ? AND predicted_for >= ? AND predicted_for < ?
		ORDER BY predicted_for`,
		userID.String(), fmtTime(from), fmtTime(to))
	if err != nil {
		return nil, fmt.Errorf("list energy predictions: %w", err)
	}
	defer rows.Close()

	var predictions []*energy.EnergyPrediction
	for rows.Next() {
		prediction, err := scanPrediction(rows)
		if err != nil {
			return nil, err
		}
		predictions = append(predictions, prediction)
	}
	return predictions, rows.Err()
}

func scanPrediction(row database.Row) (*energy.EnergyPrediction, error) {
	var (
		idStr, userIDStr, predictedForStr, basisStr string
		predictedEnergy, confidence                 float64
		actualEnergy                                *float64
		createdAtStr, updatedAtStr                  string
	)
	if err := row.Scan(&idStr, &userIDStr, &predictedForStr, &predictedEnergy, &confidence, &basisStr, &actualEnergy, &createdAtStr, &updatedAtStr); err != nil {
		return nil, fmt.Errorf("scan energy prediction: %w", err)
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, fmt.Errorf("parse prediction id: %w", err)
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return nil, fmt.Errorf("parse prediction user id: %w", err)
	}
	predictedFor, err := parseTime(predictedForStr)
	if err != nil {
		return nil, err
	}
	createdAt, err := parseTime(createdAtStr)
	if err != nil {
		return nil, err
	}
	updatedAt, err := parseTime(updatedAtStr)
	if err != nil {
		return nil, err
	}

	base := shared.RehydrateBaseEntity(id, createdAt, updatedAt)
	return energy.RehydrateEnergyPrediction(base, userID, predictedFor, predictedEnergy, confidence,
		energy.PredictionBasis(basisStr), actualEnergy), nil
}
