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

// ActivityRepository is the database-backed planning.ActivityRepository.
type ActivityRepository struct {
	conn database.Connection
}

func NewActivityRepository(conn database.Connection) *ActivityRepository {
	return &ActivityRepository{conn: conn}
}

const activityColumns = `id, period_id, user_id, activity_type, description, day_of_period,
	start_time, end_time, duration_minutes, energy_required, is_completed,
	completed_at, actual_start_time, actual_end_time, completion_quality,
	priority_score, created_at, updated_at`

func (r *ActivityRepository) Save(ctx context.Context, activity *planning.ScheduledActivity) error {
	_, err := r.conn.Exec(ctx, `
		INSERT INTO scheduled_activities (id, period_id, user_id, activity_type, description, day_of_period,
			start_time, end_time, duration_minutes, energy_required, is_completed,
			completed_at, actual_start_time, actual_end_time, completion_quality,
			priority_score, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			activity_type = excluded.activity_type,
			description = excluded.description,
			day_of_period = excluded.day_of_period,
			start_time = excluded.start_time,
			end_time = excluded.end_time,
			duration_minutes = excluded.duration_minutes,
			energy_required = excluded.energy_required,
			is_completed = excluded.is_completed,
			completed_at = excluded.completed_at,
			actual_start_time = excluded.actual_start_time,
			actual_end_time = excluded.actual_end_time,
			completion_quality = excluded.completion_quality,
			priority_score = excluded.priority_score,
			updated_at = excluded.updated_at`,
		activity.ID().String(),
		activity.PeriodID().String(),
		activity.UserID().String(),
		activity.ActivityType().String(),
		activity.Description(),
		activity.DayOfPeriod(),
		activity.StartTime().String(),
		activity.EndTime().String(),
		activity.DurationMinutes(),
		activity.EnergyRequired(),
		boolToInt(activity.IsCompleted()),
		fmtTimePtr(activity.CompletedAt()),
		fmtTimePtr(activity.ActualStartTime()),
		fmtTimePtr(activity.ActualEndTime()),
		activity.CompletionQuality(),
		activity.PriorityScore(),
		fmtTime(activity.CreatedAt()),
		fmtTime(activity.UpdatedAt()),
	)
	if err != nil {
		return fmt.Errorf("save activity %s: %w", activity.ID(), err)
	}
	return nil
}

func (r *ActivityRepository) FindByID(ctx context.Context, id uuid.UUID) (*planning.ScheduledActivity, error) {
	row := r.conn.QueryRow(ctx,
		"SELECT "+activityColumns+" FROM scheduled_activities WHERE id = ?", id.String())
	activity, err := scanActivity(row)
	if database.IsNoRows(err) {
		return nil, planning.ErrActivityNotFound
	}
	return activity, err
}

func (r *ActivityRepository) ListForPeriodDay(ctx context.Context, periodID uuid.UUID, dayOfPeriod int) ([]*planning.ScheduledActivity, error) {
	return r.list(ctx,
		"SELECT "+activityColumns+" FROM scheduled_activities WHERE period_id = ? AND day_of_period = ? ORDER BY day_of_period, start_time",
		periodID.String(), dayOfPeriod)
}

func (r *ActivityRepository) ListCompletedSince(ctx context.Context, userID uuid.UUID, since time.Time) ([]*planning.ScheduledActivity, error) {
	return r.list(ctx,
		"SELECT "+activityColumns+" FROM scheduled_activities WHERE user_id = ? AND is_completed = 1 AND completed_at >= ? ORDER BY completed_at DESC",
		userID.String(), fmtTime(since))
}

func (r *ActivityRepository) CountByType(ctx context.Context, userID uuid.UUID, activityType planning.ActivityType) (completed, total int, err error) {
	row := r.conn.QueryRow(ctx, `
		SELECT COALESCE(SUM(is_completed), 0), COUNT(*)
		FROM scheduled_activities WHERE user_id = ? AND activity_type = ?`,
		userID.String(), activityType.String())
	if err := row.Scan(&completed, &total); err != nil {
		return 0, 0, fmt.Errorf("count activities by type: %w", err)
	}
	return completed, total, nil
}

func (r *ActivityRepository) ListInTimeOfDayWindow(ctx context.Context, userID uuid.UUID, windowStart, windowEnd planning.TimeOfDay) ([]*planning.ScheduledActivity, error) {
	// HH:MM strings compare lexicographically in chronological order.
	return r.list(ctx,
		"SELECT "+activityColumns+" FROM scheduled_activities WHERE user_id = ? AND start_time <= ? AND end_time >= ? ORDER BY start_time",
		userID.String(), windowEnd.String(), windowStart.String())
}

func (r *ActivityRepository) UpdatePriorityScore(ctx context.Context, activityID uuid.UUID, score float64) error {
	_, err := r.conn.Exec(ctx,
		"UPDATE scheduled_activities SET priority_score = ?, updated_at = ? WHERE id = ?",
		score, fmtTime(time.Now()), activityID.String())
	if err != nil {
		return fmt.Errorf("update priority score of activity %s: %w", activityID, err)
	}
	return nil
}

func (r *ActivityRepository) list(ctx context.Context, query string, args ...any) ([]*planning.ScheduledActivity, error) {
	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	defer rows.Close()

	var activities []*planning.ScheduledActivity
	for rows.Next() {
		activity, err := scanActivity(rows)
		if err != nil {
			return nil, err
		}
		activities = append(activities, activity)
	}
	return activities, rows.Err()
}

func scanActivity(row database.Row) (*planning.ScheduledActivity, error) {
	var (
		idStr, periodIDStr, userIDStr, activityTypeStr, description string
		dayOfPeriod, durationMinutes, energyRequired, completed     int
		startTimeStr, endTimeStr                                    string
		completedAtStr, actualStartStr, actualEndStr                *string
		completionQuality                                           *int
		priorityScore                                               float64
		createdAtStr, updatedAtStr                                  string
	)
	err := row.Scan(&idStr, &periodIDStr, &userIDStr, &activityTypeStr, &description, &dayOfPeriod,
		&startTimeStr, &endTimeStr, &durationMinutes, &energyRequired, &completed,
		&completedAtStr, &actualStartStr, &actualEndStr, &completionQuality,
		&priorityScore, &createdAtStr, &updatedAtStr)
	if err != nil {
		if database.IsNoRows(err) {
			return nil, err
		}
		return nil, fmt.Errorf("scan activity: %w", err)
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, fmt.Errorf("parse activity id: %w", err)
	}
	periodID, err := uuid.Parse(periodIDStr)
	if err != nil {
		return nil, fmt.Errorf("parse activity period id: %w", err)
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return nil, fmt.Errorf("parse activity user id: %w", err)
	}
	startTime, err := planning.ParseTimeOfDay(startTimeStr)
	if err != nil {
		return nil, err
	}
	endTime, err := planning.ParseTimeOfDay(endTimeStr)
	if err != nil {
		return nil, err
	}
	completedAt, err := parseTimePtr(completedAtStr)
	if err != nil {
		return nil, err
	}
	actualStart, err := parseTimePtr(actualStartStr)
	if err != nil {
		return nil, err
	}
	actualEnd, err := parseTimePtr(actualEndStr)
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
	return planning.RehydrateScheduledActivity(base, periodID, userID,
		planning.ActivityType(activityTypeStr), description, dayOfPeriod,
		startTime, endTime, durationMinutes, energyRequired,
		completed != 0, completedAt, actualStart, actualEnd, completionQuality, priorityScore), nil
}
