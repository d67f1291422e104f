// Package services implements the energy use cases: forecasting, insight
// derivation, recovery guidance, and log intake.
package services

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	energy "github.com/felixgeelhaar/monkmode/internal/energy/domain"
	planning "github.com/felixgeelhaar/monkmode/internal/planning/domain"
)

const (
	historyWindowDays = 30
	recencyDecay      = 0.1
	maxConfidence     = 0.95
	confidencePerLog  = 0.1
	// Confidence tiers for circadian fallbacks: new users get 0.4 for the
	// whole horizon, users with history get 0.3 for hours lacking samples.
	defaultConfidence  = 0.4
	fallbackConfidence = 0.3
)

// ActivitySource supplies the scheduled activities the contextual adjustment
// inspects. Satisfied by the planning activity repository.
type ActivitySource interface {
	ListInTimeOfDayWindow(ctx context.Context, userID uuid.UUID, windowStart, windowEnd planning.TimeOfDay) ([]*planning.ScheduledActivity, error)
}

// Predictor forecasts a user's energy level from historical logs, with
// circadian defaults as fallback and contextual adjustment on top.
type Predictor struct {
	logs        energy.EnergyLogRepository
	predictions energy.PredictionRepository
	activities  ActivitySource
	logger      *slog.Logger
	clock       func() time.Time
}

func NewPredictor(logs energy.EnergyLogRepository, predictions energy.PredictionRepository, activities ActivitySource, logger *slog.Logger) *Predictor {
	return &Predictor{
		logs:        logs,
		predictions: predictions,
		activities:  activities,
		logger:      logger,
		clock:       func() time.Time { return time.Now().UTC() },
	}
}

// WithClock overrides the time source. Tests only.
func (p *Predictor) WithClock(clock func() time.Time) *Predictor {
	p.clock = clock
	return p
}

// Predict produces one prediction per hour offset in [0, hoursAhead),
// starting at the top of the current hour transplanted onto predictionDate.
// Every prediction is persisted; persistence failures are logged and do not
// abort the run.
func (p *Predictor) Predict(ctx context.Context, userID uuid.UUID, predictionDate time.Time, hoursAhead int) ([]*energy.EnergyPrediction, error) {
	now := p.clock()
	history, err := p.validHistory(ctx, userID, now)
	if err != nil {
		return nil, err
	}

	base := baseHour(now, predictionDate)
	predictions := make([]*energy.EnergyPrediction, 0, hoursAhead)

	if len(history) == 0 {
		// New-user path: the whole horizon comes from the circadian
		// table, unadjusted.
		for offset := 0; offset < hoursAhead; offset++ {
			at := base.Add(time.Duration(offset) * time.Hour)
			prediction := energy.NewEnergyPrediction(userID, at,
				energy.CircadianDefault(at.Hour()), defaultConfidence, energy.BasisCircadian)
			p.persist(ctx, prediction)
			predictions = append(predictions, prediction)
		}
		return predictions, nil
	}

	byHour := bucketByHour(history)
	for offset := 0; offset < hoursAhead; offset++ {
		at := base.Add(time.Duration(offset) * time.Hour)

		level, confidence, basis := p.rawForHour(byHour, at.Hour(), now)
		level = p.adjustForContext(ctx, userID, level, at)

		prediction := energy.NewEnergyPrediction(userID, at, level, confidence, basis)
		p.persist(ctx, prediction)
		predictions = append(predictions, prediction)
	}
	return predictions, nil
}

// PredictAt forecasts a single instant without persisting anything. Used by
// the priority engine's energy-alignment factor and the focus
// recommendations.
func (p *Predictor) PredictAt(ctx context.Context, userID uuid.UUID, at time.Time) (level, confidence float64, err error) {
	now := p.clock()
	history, err := p.validHistory(ctx, userID, now)
	if err != nil {
		return 0, 0, err
	}

	if len(history) == 0 {
		return energy.CircadianDefault(at.Hour()), defaultConfidence, nil
	}

	level, confidence, _ = p.rawForHour(bucketByHour(history), at.Hour(), now)
	level = p.adjustForContext(ctx, userID, level, at)
	return level, confidence, nil
}

// validHistory loads the 30-day window and drops malformed samples with a
// warning each.
func (p *Predictor) validHistory(ctx context.Context, userID uuid.UUID, now time.Time) ([]*energy.EnergyLog, error) {
	logs, err := p.logs.ListSince(ctx, userID, now.AddDate(0, 0, -historyWindowDays))
	if err != nil {
		return nil, err
	}
	valid := make([]*energy.EnergyLog, 0, len(logs))
	for _, log := range logs {
		if !log.HasValidLevel() {
			p.logger.WarnContext(ctx, "skipping malformed energy sample",
				slog.String("log_id", log.ID().String()),
				slog.Int("level", log.Level()),
			)
			continue
		}
		valid = append(valid, log)
	}
	return valid, nil
}

// rawForHour computes the recency-weighted average for an hour bucket, or
// the circadian default when the bucket is empty.
func (p *Predictor) rawForHour(byHour map[int][]*energy.EnergyLog, hour int, now time.Time) (float64, float64, energy.PredictionBasis) {
	bucket := byHour[hour]
	if len(bucket) == 0 {
		return energy.CircadianDefault(hour), fallbackConfidence, energy.BasisCircadian
	}

	var weightedSum, totalWeight float64
	for _, log := range bucket {
		age := daysBetween(log.LoggedAt(), now)
		weight := 1.0 / (1.0 + float64(age)*recencyDecay)
		weightedSum += float64(log.Level()) * weight
		totalWeight += weight
	}
	level := weightedSum / totalWeight
	confidence := min(maxConfidence, float64(len(bucket))*confidencePerLog)
	return level, confidence, energy.BasisHistorical
}

// adjustForContext applies the additive adjustments: overlapping scheduled
// activities, weekend lift, post-lunch dip, morning peak. The result is
// clamped to [1,10]. An activity-source failure skips only the activity
// term.
func (p *Predictor) adjustForContext(ctx context.Context, userID uuid.UUID, level float64, at time.Time) float64 {
	windowStart := planning.TimeOfDayFrom(at.Add(-2 * time.Hour))
	windowEnd := planning.TimeOfDayFrom(at)

	activities, err := p.activities.ListInTimeOfDayWindow(ctx, userID, windowStart, windowEnd)
	if err != nil {
		p.logger.WarnContext(ctx, "failed to load activities for contextual adjustment",
			slog.String("user_id", userID.String()),
			slog.String("error", err.Error()),
		)
	} else {
		for _, activity := range activities {
			name := activity.ActivityType().LowerName()
			switch {
			case strings.Contains(name, "exercise"):
				level += 1.0
			case strings.Contains(name, "deep work"):
				level -= 0.5
			case name == "break" || name == "mindfulness" || name == "meditation":
				level += 0.5
			}
		}
	}

	if wd := at.Weekday(); wd == time.Saturday || wd == time.Sunday {
		level += 0.5
	}
	switch at.Hour() {
	case 14, 15:
		level -= 0.5
	case 10, 11:
		level += 0.5
	}

	return clampLevel(level)
}

func (p *Predictor) persist(ctx context.Context, prediction *energy.EnergyPrediction) {
	if err := p.predictions.Save(ctx, prediction); err != nil {
		p.logger.WarnContext(ctx, "failed to persist energy prediction",
			slog.String("user_id", prediction.UserID().String()),
			slog.Time("predicted_for", prediction.PredictedFor()),
			slog.String("error", err.Error()),
		)
	}
}

// baseHour transplants the current hour of day onto the prediction date.
func baseHour(now, predictionDate time.Time) time.Time {
	return time.Date(predictionDate.Year(), predictionDate.Month(), predictionDate.Day(),
		now.Hour(), 0, 0, 0, now.Location())
}

func bucketByHour(logs []*energy.EnergyLog) map[int][]*energy.EnergyLog {
	byHour := make(map[int][]*energy.EnergyLog)
	for _, log := range logs {
		hour := log.LoggedAt().Hour()
		byHour[hour] = append(byHour[hour], log)
	}
	return byHour
}

// daysBetween counts whole calendar days from a to b.
func daysBetween(a, b time.Time) int {
	aDay := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	bDay := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(bDay.Sub(aDay).Hours() / 24)
}

func clampLevel(level float64) float64 {
	if level < 1 {
		return 1
	}
	if level > 10 {
		return 10
	}
	return level
}
