package persistence

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	planning "github.com/felixgeelhaar/monkmode/internal/planning/domain"
	shared "github.com/felixgeelhaar/monkmode/internal/shared/domain"
	"github.com/felixgeelhaar/monkmode/internal/shared/infrastructure/database"
)

// ObjectiveRepository is the database-backed planning.ObjectiveRepository.
type ObjectiveRepository struct {
	conn database.Connection
}

func NewObjectiveRepository(conn database.Connection) *ObjectiveRepository {
	return &ObjectiveRepository{conn: conn}
}

const objectiveColumns = "id, goal_id, description, due_date, is_completed, completed_at, priority_score, created_at, updated_at"

func (r *ObjectiveRepository) Save(ctx context.Context, objective *planning.Objective) error {
	_, err := r.conn.Exec(ctx, `
		INSERT INTO objectives (id, goal_id, description, due_date, is_completed, completed_at, priority_score, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			description = excluded.description,
			due_date = excluded.due_date,
			is_completed = excluded.is_completed,
			completed_at = excluded.completed_at,
			priority_score = excluded.priority_score,
			updated_at = excluded.updated_at`,
		objective.ID().String(),
		objective.GoalID().String(),
		objective.Description(),
		fmtDatePtr(objective.DueDate()),
		boolToInt(objective.IsCompleted()),
		fmtTimePtr(objective.CompletedAt()),
		objective.PriorityScore(),
		fmtTime(objective.CreatedAt()),
		fmtTime(objective.UpdatedAt()),
	)
	if err != nil {
		return fmt.Errorf("save objective %s: %w", objective.ID(), err)
	}
	return nil
}

func (r *ObjectiveRepository) ListByGoal(ctx context.Context, goalID uuid.UUID) ([]*planning.Objective, error) {
	return r.list(ctx,
		"SELECT "+objectiveColumns+" FROM objectives WHERE goal_id = ? ORDER BY created_at",
		goalID.String())
}

func (r *ObjectiveRepository) ListOpenWithDueDates(ctx context.Context, goalID uuid.UUID) ([]*planning.Objective, error) {
	return r.list(ctx,
		"SELECT "+objectiveColumns+" FROM objectives WHERE goal_id = ? AND is_completed = 0 AND due_date IS NOT NULL ORDER BY due_date",
		goalID.String())
}

func (r *ObjectiveRepository) list(ctx context.Context, query string, args ...any) ([]*planning.Objective, error) {
	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list objectives: %w", err)
	}
	defer rows.Close()

	var objectives []*planning.Objective
	for rows.Next() {
		objective, err := scanObjective(rows)
		if err != nil {
			return nil, err
		}
		objectives = append(objectives, objective)
	}
	return objectives, rows.Err()
}

func scanObjective(row database.Row) (*planning.Objective, error) {
	var (
		idStr, goalIDStr, description string
		dueDateStr, completedAtStr    *string
		completed                     int
		priorityScore                 float64
		createdAtStr, updatedAtStr    string
	)
	err := row.Scan(&idStr, &goalIDStr, &description, &dueDateStr, &completed, &completedAtStr, &priorityScore, &createdAtStr, &updatedAtStr)
	if err != nil {
		return nil, fmt.Errorf("scan objective: %w", err)
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, fmt.Errorf("parse objective id: %w", err)
	}
	goalID, err := uuid.Parse(goalIDStr)
	if err != nil {
		return nil, fmt.Errorf("parse objective goal id: %w", err)
	}
	dueDate, err := parseDatePtr(dueDateStr)
	if err != nil {
		return nil, err
	}
	completedAt, err := parseTimePtr(completedAtStr)
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
	return planning.RehydrateObjective(base, goalID, description, dueDate, completed != 0, completedAt, priorityScore), nil
}
