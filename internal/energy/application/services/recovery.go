package services

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"

	energy "github.com/felixgeelhaar/monkmode/internal/energy/domain"
)

// RecoveryService recommends recovery actions from a user's recent energy
// levels.
type RecoveryService struct {
	logs   energy.EnergyLogRepository
	logger *slog.Logger
	clock  func() time.Time
}

func NewRecoveryService(logs energy.EnergyLogRepository, logger *slog.Logger) *RecoveryService {
	return &RecoveryService{
		logs:   logs,
		logger: logger,
		clock:  func() time.Time { return time.Now().UTC() },
	}
}

// WithClock overrides the time source. Tests only.
func (s *RecoveryService) WithClock(clock func() time.Time) *RecoveryService {
	s.clock = clock
	return s
}

// GetRecommendations tiers recovery advice by the average of the user's last
// five valid samples from the trailing three days, plus add-ons driven by
// the most recent log's stress and sleep context factors.
func (s *RecoveryService) GetRecommendations(ctx context.Context, userID uuid.UUID) ([]string, error) {
	now := s.clock()
	logs, err := s.logs.ListSince(ctx, userID, now.AddDate(0, 0, -3))
	if err != nil {
		return nil, err
	}

	if len(logs) == 0 {
		return []string{"Start tracking your energy levels to get personalized recovery recommendations"}, nil
	}

	// Logs arrive oldest first; walk backwards for the most recent five
	// valid samples.
	var recent []float64
	for i := len(logs) - 1; i >= 0 && len(recent) < 5; i-- {
		if !logs[i].HasValidLevel() {
			s.logger.WarnContext(ctx, "skipping malformed energy sample",
				slog.String("log_id", logs[i].ID().String()),
				slog.Int("level", logs[i].Level()),
			)
			continue
		}
		recent = append(recent, float64(logs[i].Level()))
	}
	if len(recent) == 0 {
		return nil, energy.ErrNoValidSamples
	}

	avg := mean(recent)
	var recs []string
	switch {
	case avg <= 4:
		recs = append(recs,
			"Priority: get 7-9 hours of quality sleep tonight",
			"Increase water intake, dehydration affects energy",
			"Focus on nutritious meals with complex carbs and protein",
			"Take a 10-minute walk in natural light",
			"Reduce screen time an hour before bed",
		)
	case avg <= 6:
		recs = append(recs,
			"Schedule 15-minute breaks between demanding tasks",
			"Try a 5-minute breathing exercise",
			"Get some sunlight exposure if possible",
		)
	default:
		recs = append(recs,
			"You're doing great, maintain current energy habits",
			"Consider taking on additional challenges",
		)
	}

	factors := logs[len(logs)-1].ContextFactors()
	if stress, ok := factorInt(factors["stress_level"]); ok && stress > 3 {
		recs = append(recs, "High stress detected, prioritize stress management techniques")
	}
	if sleep, ok := factorFloat(factors["sleep_hours"]); ok && sleep < 6 {
		recs = append(recs, "Insufficient sleep detected, aim for 7-9 hours tonight")
	}
	return recs, nil
}

func factorInt(value any) (int, bool) {
	switch v := value.(type) {
	case int:
		return v, true
	case float64:
		return int(v), true
	case string:
		n, err := strconv.Atoi(v)
		return n, err == nil
	default:
		return 0, false
	}
}

func factorFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case int:
		return float64(v), true
	case float64:
		return v, true
	case string:
		f, err := strconv.ParseFloat(v, 64)
		return f, err == nil
	default:
		return 0, false
	}
}
