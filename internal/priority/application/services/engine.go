// Package services implements the priority use cases: daily scoring, focus
// recommendations, and productivity pattern learning.
package services

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	planning "github.com/felixgeelhaar/monkmode/internal/planning/domain"
	priority "github.com/felixgeelhaar/monkmode/internal/priority/domain"
	"github.com/felixgeelhaar/monkmode/internal/shared/infrastructure/eventbus"
)

// momentumWindowDays is how far back completed work still counts as momentum.
const momentumWindowDays = 2

// EnergyForecaster is the slice of the energy predictor the engine needs for
// the energy-alignment factor.
type EnergyForecaster interface {
	PredictAt(ctx context.Context, userID uuid.UUID, at time.Time) (level, confidence float64, err error)
}

// PrioritizedActivity pairs an activity with its freshly computed score.
type PrioritizedActivity struct {
	Activity *planning.ScheduledActivity
	Score    *priority.TaskPriorityScore
}

// Engine blends six factors into a priority score for every activity of a
// period day. Factors that cannot be computed fall back to neutral so one
// degraded input never sinks the whole ranking.
type Engine struct {
	goals      planning.GoalRepository
	periods    planning.PeriodRepository
	objectives planning.ObjectiveRepository
	activities planning.ActivityRepository
	scores     priority.ScoreRepository
	patterns   priority.PatternRepository
	forecaster EnergyForecaster
	config     priority.EngineConfig
	publisher  eventbus.Publisher
	logger     *slog.Logger
	clock      func() time.Time
}

func NewEngine(
	goals planning.GoalRepository,
	periods planning.PeriodRepository,
	objectives planning.ObjectiveRepository,
	activities planning.ActivityRepository,
	scores priority.ScoreRepository,
	patterns priority.PatternRepository,
	forecaster EnergyForecaster,
	config priority.EngineConfig,
	publisher eventbus.Publisher,
	logger *slog.Logger,
) *Engine {
	return &Engine{
		goals:      goals,
		periods:    periods,
		objectives: objectives,
		activities: activities,
		scores:     scores,
		patterns:   patterns,
		forecaster: forecaster,
		config:     config,
		publisher:  publisher,
		logger:     logger,
		clock:      func() time.Time { return time.Now().UTC() },
	}
}

// WithClock overrides the time source. Tests only.
func (e *Engine) WithClock(clock func() time.Time) *Engine {
	e.clock = clock
	return e
}

// CalculateDailyPriorities scores every activity scheduled for targetDate in
// the user's active period and returns them highest score first. Without an
// active goal and period there is nothing to score and the result is empty.
func (e *Engine) CalculateDailyPriorities(ctx context.Context, userID uuid.UUID, targetDate time.Time) ([]PrioritizedActivity, error) {
	goal, err := e.goals.FindActiveByUser(ctx, userID)
	if errors.Is(err, planning.ErrGoalNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	period, err := e.periods.FindActiveByGoal(ctx, goal.ID())
	if errors.Is(err, planning.ErrPeriodNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	day := period.DayOfPeriod(targetDate)
	activities, err := e.activities.ListForPeriodDay(ctx, period.ID(), day)
	if err != nil {
		return nil, err
	}

	nearestDue := e.nearestDeadline(ctx, goal.ID())
	recent := e.recentCompletions(ctx, userID)

	ranked := make([]PrioritizedActivity, 0, len(activities))
	for _, activity := range activities {
		factors := priority.FactorScores{
			DeadlineUrgency:   priority.DeadlineUrgency(nearestDue, targetDate),
			GoalImpact:        priority.GoalImpact(activity.ActivityType()),
			EnergyRequirement: e.energyAlignment(ctx, userID, activity, targetDate),
			DependencyWeight:  priority.DependencyWeight(activity.Description()),
			UserPreference:    e.userPreference(ctx, userID, activity.ActivityType()),
			MomentumFactor:    momentumFor(activity.ActivityType(), recent),
		}
		finalScore := e.config.Composite(factors)

		score := priority.NewTaskPriorityScore(activity.ID(), userID, factors, finalScore)
		if err := e.scores.Upsert(ctx, score); err != nil {
			e.logger.ErrorContext(ctx, "failed to persist priority score",
				slog.String("activity_id", activity.ID().String()),
				slog.String("error", err.Error()),
			)
			continue
		}
		if err := e.activities.UpdatePriorityScore(ctx, activity.ID(), finalScore); err != nil {
			e.logger.WarnContext(ctx, "failed to write activity priority score",
				slog.String("activity_id", activity.ID().String()),
				slog.String("error", err.Error()),
			)
		}
		activity.SetPriorityScore(finalScore)

		ranked = append(ranked, PrioritizedActivity{Activity: activity, Score: score})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score.FinalScore() > ranked[j].Score.FinalScore()
	})

	if len(ranked) > 0 {
		event := priority.NewPrioritiesCalculatedEvent(userID, targetDate, len(ranked))
		if err := e.publisher.Publish(ctx, event); err != nil {
			e.logger.WarnContext(ctx, "failed to publish scoring event",
				slog.String("user_id", userID.String()),
				slog.String("error", err.Error()),
			)
		}
	}
	return ranked, nil
}

// nearestDeadline returns the earliest open objective due date of the goal,
// or nil when the goal has none. Lookup failures degrade to nil.
func (e *Engine) nearestDeadline(ctx context.Context, goalID uuid.UUID) *time.Time {
	objectives, err := e.objectives.ListOpenWithDueDates(ctx, goalID)
	if err != nil {
		e.logger.WarnContext(ctx, "failed to load objective deadlines",
			slog.String("goal_id", goalID.String()),
			slog.String("error", err.Error()),
		)
		return nil
	}
	if len(objectives) == 0 {
		return nil
	}
	return objectives[0].DueDate()
}

// recentCompletions loads the completions inside the momentum window. A
// lookup failure degrades to no momentum signal.
func (e *Engine) recentCompletions(ctx context.Context, userID uuid.UUID) []*planning.ScheduledActivity {
	since := e.clock().AddDate(0, 0, -momentumWindowDays)
	recent, err := e.activities.ListCompletedSince(ctx, userID, since)
	if err != nil {
		e.logger.WarnContext(ctx, "failed to load recent completions",
			slog.String("user_id", userID.String()),
			slog.String("error", err.Error()),
		)
		return nil
	}
	return recent
}

func (e *Engine) energyAlignment(ctx context.Context, userID uuid.UUID, activity *planning.ScheduledActivity, targetDate time.Time) float64 {
	at := activity.StartTime().On(targetDate)
	predicted, _, err := e.forecaster.PredictAt(ctx, userID, at)
	if err != nil {
		e.logger.WarnContext(ctx, "energy forecast unavailable, using neutral alignment",
			slog.String("activity_id", activity.ID().String()),
			slog.String("error", err.Error()),
		)
		return priority.NeutralFactor
	}
	return priority.EnergyAlignment(predicted, activity.EnergyRequired())
}

// userPreference prefers learned pattern averages, falls back to the raw
// completion rate for the type, and is neutral without history.
func (e *Engine) userPreference(ctx context.Context, userID uuid.UUID, activityType planning.ActivityType) float64 {
	avg, cells, err := e.patterns.AverageForType(ctx, userID, activityType)
	if err != nil {
		e.logger.WarnContext(ctx, "failed to load productivity patterns",
			slog.String("user_id", userID.String()),
			slog.String("error", err.Error()),
		)
		return priority.NeutralFactor
	}
	if cells > 0 {
		return priority.Clamp01(avg)
	}

	completed, total, err := e.activities.CountByType(ctx, userID, activityType)
	if err != nil {
		e.logger.WarnContext(ctx, "failed to count activities by type",
			slog.String("user_id", userID.String()),
			slog.String("error", err.Error()),
		)
		return priority.NeutralFactor
	}
	if total == 0 {
		return priority.NeutralFactor
	}
	return float64(completed) / float64(total)
}

func momentumFor(activityType planning.ActivityType, recent []*planning.ScheduledActivity) float64 {
	var sameType, complementary int
	complements := priority.ComplementaryTypes(activityType)
	for _, done := range recent {
		if done.ActivityType() == activityType {
			sameType++
			continue
		}
		for _, name := range complements {
			if string(done.ActivityType()) == name {
				complementary++
				break
			}
		}
	}
	return priority.MomentumFactor(len(recent), sameType, complementary)
}
