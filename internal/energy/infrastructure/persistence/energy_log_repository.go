// Package persistence implements the energy repositories over the shared
// database connection.
package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	energy "github.com/felixgeelhaar/monkmode/internal/energy/domain"
	shared "github.com/felixgeelhaar/monkmode/internal/shared/domain"
	"github.com/felixgeelhaar/monkmode/internal/shared/infrastructure/database"
)

// EnergyLogRepository is the database-backed energy.EnergyLogRepository.
type EnergyLogRepository struct {
	conn database.Connection
}

func NewEnergyLogRepository(conn database.Connection) *EnergyLogRepository {
	return &EnergyLogRepository{conn: conn}
}

func (r *EnergyLogRepository) Save(ctx context.Context, log *energy.EnergyLog) error {
	factors, err := json.Marshal(log.ContextFactors())
	if err != nil {
		return fmt.Errorf("marshal context factors: %w", err)
	}

	// Logs are append-only, so a plain insert suffices.
	_, err = r.conn.Exec(ctx, `
		INSERT INTO energy_logs (id, user_id, logged_at, energy_level, context_factors, notes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		log.ID().String(),
		log.UserID().String(),
		fmtTime(log.LoggedAt()),
		log.Level(),
		string(factors),
		log.Notes(),
		fmtTime(log.CreatedAt()),
		fmtTime(log.UpdatedAt()),
	)
	if err != nil {
		return fmt.Errorf("save energy log %s: %w", log.ID(), err)
	}
	return nil
}

func (r *EnergyLogRepository) ListSince(ctx context.Context, userID uuid.UUID, since time.Time) ([]*energy.EnergyLog, error) {
	rows, err := r.conn.Query(ctx, `
		SELECT id, user_id, logged_at, energy_level, context_factors, notes, created_at, updated_at
		FROM energy_logs WHERE user_id = ? AND logged_at >= ? ORDER BY logged_at`,
		userID.String(), fmtTime(since))
	if err != nil {
		return nil, fmt.Errorf("list energy logs: %w", err)
	}
	defer rows.Close()

	var logs []*energy.EnergyLog
	for rows.Next() {
		log, err := scanEnergyLog(rows)
		if err != nil {
			return nil, err
		}
		logs = append(logs, log)
	}
	return logs, rows.Err()
}

func scanEnergyLog(row database.Row) (*energy.EnergyLog, error) {
	var (
		idStr, userIDStr, loggedAtStr, factorsJSON, notes string
		level                                             int
		createdAtStr, updatedAtStr                        string
	)
	if err := row.Scan(&idStr, &userIDStr, &loggedAtStr, &level, &factorsJSON, &notes, &createdAtStr, &updatedAtStr); err != nil {
		return nil, fmt.Errorf("scan energy log: %w", err)
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, fmt.Errorf("parse energy log id: %w", err)
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return nil, fmt.Errorf("parse energy log user id: %w", err)
	}
	loggedAt, err := parseTime(loggedAtStr)
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

	var factors map[string]any
	if err := json.Unmarshal([]byte(factorsJSON), &factors); err != nil {
		// A corrupt factor blob must not hide the sample itself.
		factors = map[string]any{}
	}

	base := shared.RehydrateBaseEntity(id, createdAt, updatedAt)
	return energy.RehydrateEnergyLog(base, userID, loggedAt, level, factors, notes), nil
}
