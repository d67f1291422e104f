package persistence

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	planning "github.com/felixgeelhaar/monkmode/internal/planning/domain"
	shared "github.com/felixgeelhaar/monkmode/internal/shared/domain"
	"github.com/felixgeelhaar/monkmode/internal/shared/infrastructure/database"
)

// GoalRepository is the database-backed planning.GoalRepository.
type GoalRepository struct {
	conn database.Connection
}

func NewGoalRepository(conn database.Connection) *GoalRepository {
	return &GoalRepository{conn: conn}
}

func (r *GoalRepository) Save(ctx context.Context, goal *planning.Goal) error {
	_, err := r.conn.Exec(ctx, `
		INSERT INTO goals (id, user_id, title, description, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			title = excluded.title,
			description = excluded.description,
			status = excluded.status,
			updated_at = excluded.updated_at`,
		goal.ID().String(),
		goal.UserID().String(),
		goal.Title(),
		goal.Description(),
		string(goal.Status()),
		fmtTime(goal.CreatedAt()),
		fmtTime(goal.UpdatedAt()),
	)
	if err != nil {
		return fmt.Errorf("save goal %s: %w", goal.ID(), err)
	}
	return nil
}

func (r *GoalRepository) FindByID(ctx context.Context, id uuid.UUID) (*planning.Goal, error) {
	row := r.conn.QueryRow(ctx, `
		SELECT id, user_id, title, description, status, created_at, updated_at
		FROM goals WHERE id = ?`, id.String())
	return r.scanGoal(row)
}

func (r *GoalRepository) FindActiveByUser(ctx context.Context, userID uuid.UUID) (*planning.Goal, error) {
	row := r.conn.QueryRow(ctx, `
		SELECT id, user_id, title, description, status, created_at, updated_at
		FROM goals WHERE user_id = ? AND status = 'active'
		ORDER BY created_at DESC LIMIT 1`, userID.String())
	return r.scanGoal(row)
}

func (r *GoalRepository) scanGoal(row database.Row) (*planning.Goal, error) {
	var (
		idStr, userIDStr, title, description, statusStr string
		createdAtStr, updatedAtStr                      string
	)
	err := row.Scan(&idStr, &userIDStr, &title, &description, &statusStr, &createdAtStr, &updatedAtStr)
	if database.IsNoRows(err) {
		return nil, planning.ErrGoalNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan goal: %w", err)
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, fmt.Errorf("parse goal id: %w", err)
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return nil, fmt.Errorf("parse goal user id: %w", err)
	}
	status, err := planning.ParseGoalStatus(statusStr)
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
	return planning.RehydrateGoal(base, userID, title, description, status), nil
}
