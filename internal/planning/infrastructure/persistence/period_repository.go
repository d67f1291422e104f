package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	planning "github.com/felixgeelhaar/monkmode/internal/planning/domain"
	shared "github.com/felixgeelhaar/monkmode/internal/shared/domain"
	"github.com/felixgeelhaar/monkmode/internal/shared/infrastructure/database"
)

// PeriodRepository is the database-backed planning.PeriodRepository.
type PeriodRepository struct {
	conn database.Connection
}

func NewPeriodRepository(conn database.Connection) *PeriodRepository {
	return &PeriodRepository{conn: conn}
}

const periodColumns = "id, goal_id, user_id, name, start_date, end_date, is_active, created_at, updated_at"

func (r *PeriodRepository) Save(ctx context.Context, period *planning.Period) error {
	return r.save(ctx, r.conn, period)
}

func (r *PeriodRepository) save(ctx context.Context, exec database.Executor, period *planning.Period) error {
	_, err := exec.Exec(ctx, `
		INSERT INTO monk_mode_periods (id, goal_id, user_id, name, start_date, end_date, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			name = excluded.name,
			start_date = excluded.start_date,
			end_date = excluded.end_date,
			is_active = excluded.is_active,
			updated_at = excluded.updated_at`,
		period.ID().String(),
		period.GoalID().String(),
		period.UserID().String(),
		period.Name(),
		fmtDate(period.StartDate()),
		fmtDate(period.EndDate()),
		boolToInt(period.IsActive()),
		fmtTime(period.CreatedAt()),
		fmtTime(period.UpdatedAt()),
	)
	if err != nil {
		return fmt.Errorf("save period %s: %w", period.ID(), err)
	}
	return nil
}

// SaveActivated persists the period as active and deactivates its siblings
// in a single transaction so at most one period per goal is ever active.
func (r *PeriodRepository) SaveActivated(ctx context.Context, period *planning.Period) error {
	tx, err := r.conn.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(ctx, `
		UPDATE monk_mode_periods SET is_active = 0, updated_at = ?
		WHERE goal_id = ? AND id != ? AND is_active = 1`,
		fmtTime(time.Now()),
		period.GoalID().String(),
		period.ID().String(),
	)
	if err != nil {
		return fmt.Errorf("deactivate sibling periods of goal %s: %w", period.GoalID(), err)
	}

	if err := r.save(ctx, tx, period); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *PeriodRepository) FindByID(ctx context.Context, id uuid.UUID) (*planning.Period, error) {
	row := r.conn.QueryRow(ctx,
		"SELECT "+periodColumns+" FROM monk_mode_periods WHERE id = ?", id.String())
	return scanPeriod(row)
}

func (r *PeriodRepository) FindActiveByGoal(ctx context.Context, goalID uuid.UUID) (*planning.Period, error) {
	row := r.conn.QueryRow(ctx,
		"SELECT "+periodColumns+" FROM monk_mode_periods WHERE goal_id = ? AND is_active = 1 ORDER BY created_at DESC LIMIT 1",
		goalID.String())
	return scanPeriod(row)
}

func (r *PeriodRepository) ListActiveUserIDs(ctx context.Context, date time.Time) ([]uuid.UUID, error) {
	rows, err := r.conn.Query(ctx, `
		SELECT DISTINCT p.user_id
		FROM monk_mode_periods p
		JOIN goals g ON g.id = p.goal_id
		WHERE p.is_active = 1 AND g.status = 'active'
		  AND p.start_date <= ? AND p.end_date >= ?`,
		fmtDate(date), fmtDate(date))
	if err != nil {
		return nil, fmt.Errorf("list users with active periods: %w", err)
	}
	defer rows.Close()

	var userIDs []uuid.UUID
	for rows.Next() {
		var idStr string
		if err := rows.Scan(&idStr); err != nil {
			return nil, fmt.Errorf("scan active user id: %w", err)
		}
		id, err := uuid.Parse(idStr)
		if err != nil {
			return nil, fmt.Errorf("parse active user id: %w", err)
		}
		userIDs = append(userIDs, id)
	}
	return userIDs, rows.Err()
}

func scanPeriod(row database.Row) (*planning.Period, error) {
	var (
		idStr, goalIDStr, userIDStr, name    string
		startDateStr, endDateStr             string
		active                               int
		createdAtStr, updatedAtStr           string
	)
	err := row.Scan(&idStr, &goalIDStr, &userIDStr, &name, &startDateStr, &endDateStr, &active, &createdAtStr, &updatedAtStr)
	if database.IsNoRows(err) {
		return nil, planning.ErrPeriodNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan period: %w", err)
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, fmt.Errorf("parse period id: %w", err)
	}
	goalID, err := uuid.Parse(goalIDStr)
	if err != nil {
		return nil, fmt.Errorf("parse period goal id: %w", err)
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return nil, fmt.Errorf("parse period user id: %w", err)
	}
	startDate, err := parseDate(startDateStr)
	if err != nil {
		return nil, err
	}
	endDate, err := parseDate(endDateStr)
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
	return planning.RehydratePeriod(base, goalID, userID, name, startDate, endDate, active != 0), nil
}
