// Package persistence implements the priority repositories over the shared
// database connection.
package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	priority "github.com/felixgeelhaar/monkmode/internal/priority/domain"
	shared "github.com/felixgeelhaar/monkmode/internal/shared/domain"
	"github.com/felixgeelhaar/monkmode/internal/shared/infrastructure/database"
)

// ScoreRepository is the database-backed priority.ScoreRepository. The
// activity_id uniqueness makes every recalculation replace the previous
// factors in place.
type ScoreRepository struct {
	conn database.Connection
}

func NewScoreRepository(conn database.Connection) *ScoreRepository {
	return &ScoreRepository{conn: conn}
}

func (r *ScoreRepository) Upsert(ctx context.Context, score *priority.TaskPriorityScore) error {
	f := score.Factors()
	_, err := r.conn.Exec(ctx, `
		INSERT INTO task_priority_scores (id, activity_id, user_id, deadline_urgency, goal_impact, energy_requirement, dependency_weight, user_preference, momentum_factor, final_score, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (activity_id) DO UPDATE SET
			deadline_urgency = excluded.deadline_urgency,
			goal_impact = excluded.goal_impact,
			energy_requirement = excluded.energy_requirement,
			dependency_weight = excluded.dependency_weight,
			user_preference = excluded.user_preference,
			momentum_factor = excluded.momentum_factor,
			final_score = excluded.final_score,
			updated_at = excluded.updated_at`,
		score.ID().String(),
		score.ActivityID().String(),
		score.UserID().String(),
		f.DeadlineUrgency,
		f.GoalImpact,
		f.EnergyRequirement,
		f.DependencyWeight,
		f.UserPreference,
		f.MomentumFactor,
		score.FinalScore(),
		fmtTime(score.CreatedAt()),
		fmtTime(score.UpdatedAt()),
	)
	if err != nil {
		return fmt.Errorf("upsert priority score for activity %s: %w", score.ActivityID(), err)
	}
	return nil
}

func (r *ScoreRepository) FindByActivity(ctx context.Context, activityID uuid.UUID) (*priority.TaskPriorityScore, error) {
	row := r.conn.QueryRow(ctx, `
		SELECT id, activity_id, user_id, deadline_urgency, goal_impact, energy_requirement, dependency_weight, user_preference, momentum_factor, final_score, created_at, updated_at
		FROM task_priority_scores WHERE activity_id = ?`,
		activityID.String())

	var (
		idStr, activityIDStr, userIDStr string
		f                               priority.FactorScores
		finalScore                      float64
		createdAtStr, updatedAtStr      string
	)
	err := row.Scan(&idStr, &activityIDStr, &userIDStr,
		&f.DeadlineUrgency, &f.GoalImpact, &f.EnergyRequirement,
		&f.DependencyWeight, &f.UserPreference, &f.MomentumFactor,
		&finalScore, &createdAtStr, &updatedAtStr)
	if database.IsNoRows(err) {
		return nil, priority.ErrScoreNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find priority score for activity %s: %w", activityID, err)
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, fmt.Errorf("parse priority score id: %w", err)
	}
	scoredActivityID, err := uuid.Parse(activityIDStr)
	if err != nil {
		return nil, fmt.Errorf("parse priority score activity id: %w", err)
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return nil, fmt.Errorf("parse priority score user id: %w", err)
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
	return priority.RehydrateTaskPriorityScore(base, scoredActivityID, userID, f, finalScore), nil
}

func fmtTime(t time.Time) string { return t.UTC().Format(time.RFC3339Nano) }

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	return t, nil
}
