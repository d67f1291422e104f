package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	planning "github.com/felixgeelhaar/monkmode/internal/planning/domain"
	priority "github.com/felixgeelhaar/monkmode/internal/priority/domain"
	shared "github.com/felixgeelhaar/monkmode/internal/shared/domain"
	"github.com/felixgeelhaar/monkmode/internal/shared/infrastructure/database"
)

// PatternRepository is the database-backed priority.PatternRepository. The
// incremental average is folded in by a single upsert statement, so
// concurrent samples for the same cell cannot lose updates.
type PatternRepository struct {
	conn database.Connection
}

func NewPatternRepository(conn database.Connection) *PatternRepository {
	return &PatternRepository{conn: conn}
}

func (r *PatternRepository) UpsertSample(ctx context.Context, userID uuid.UUID, hourOfDay int, activityType planning.ActivityType, performance, energyLevel float64) error {
	now := fmtTime(time.Now().UTC())
	_, err := r.conn.Exec(ctx, `
		INSERT INTO user_productivity_patterns (id, user_id, hour_of_day, activity_type, average_performance, energy_level, completion_rate, sample_size, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, 1.0, 1, ?, ?)
		ON CONFLICT (user_id, hour_of_day, activity_type) DO UPDATE SET
			average_performance = (user_productivity_patterns.average_performance * user_productivity_patterns.sample_size + excluded.average_performance) / (user_productivity_patterns.sample_size + 1),
			sample_size = user_productivity_patterns.sample_size + 1,
			updated_at = excluded.updated_at`,
		uuid.New().String(),
		userID.String(),
		hourOfDay,
		string(activityType),
		performance,
		energyLevel,
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("upsert productivity sample (%s, hour %d, %s): %w", userID, hourOfDay, activityType, err)
	}
	return nil
}

func (r *PatternRepository) AverageForType(ctx context.Context, userID uuid.UUID, activityType planning.ActivityType) (float64, int, error) {
	row := r.conn.QueryRow(ctx, `
		SELECT COALESCE(AVG(average_performance), 0), COUNT(*)
		FROM user_productivity_patterns
		WHERE user_id = ? AND activity_type = ?`,
		userID.String(), string(activityType))

	var avg float64
	var cells int
	if err := row.Scan(&avg, &cells); err != nil {
		return 0, 0, fmt.Errorf("average productivity for type %s: %w", activityType, err)
	}
	return avg, cells, nil
}

func (r *PatternRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*priority.UserProductivityPattern, error) {
	rows, err := r.conn.Query(ctx, `
		SELECT id, user_id, hour_of_day, activity_type, average_performance, energy_level, completion_rate, sample_size, created_at, updated_at
		FROM user_productivity_patterns
		WHERE user_id = ?
		ORDER BY hour_of_day, activity_type`,
		userID.String())
	if err != nil {
		return nil, fmt.Errorf("list productivity patterns: %w", err)
	}
	defer rows.Close()

	var patterns []*priority.UserProductivityPattern
	for rows.Next() {
		pattern, err := scanPattern(rows)
		if err != nil {
			return nil, err
		}
		patterns = append(patterns, pattern)
	}
	return patterns, rows.Err()
}

func scanPattern(row database.Row) (*priority.UserProductivityPattern, error) {
	var (
		idStr, userIDStr, activityTypeStr           string
		hourOfDay, sampleSize                       int
		averagePerformance, energyLevel, completion float64
		createdAtStr, updatedAtStr                  string
	)
	if err := row.Scan(&idStr, &userIDStr, &hourOfDay, &activityTypeStr,
		&averagePerformance, &energyLevel, &completion, &sampleSize,
		&createdAtStr, &updatedAtStr); err != nil {
		return nil, fmt.Errorf("scan productivity pattern: %w", err)
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, fmt.Errorf("parse pattern id: %w", err)
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return nil, fmt.Errorf("parse pattern user id: %w", err)
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
	return priority.RehydrateUserProductivityPattern(base, userID, hourOfDay,
		planning.ActivityType(activityTypeStr), averagePerformance, energyLevel,
		completion, sampleSize), nil
}
