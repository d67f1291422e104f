package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// FocusRecommendations is the daily guidance bundle: the top activity, the
// runners-up, and human-readable advice derived from the score distribution.
type FocusRecommendations struct {
	PrimaryFocus    *PrioritizedActivity
	SecondaryFocus  []PrioritizedActivity
	All             []PrioritizedActivity
	Recommendations []string
	GeneratedAt     time.Time
}

// FocusRecommendations scores the day and distills it into focus guidance.
func (e *Engine) FocusRecommendations(ctx context.Context, userID uuid.UUID, targetDate time.Time) (*FocusRecommendations, error) {
	ranked, err := e.CalculateDailyPriorities(ctx, userID, targetDate)
	if err != nil {
		return nil, err
	}

	result := &FocusRecommendations{
		All:         ranked,
		GeneratedAt: e.clock(),
	}
	if len(ranked) == 0 {
		result.Recommendations = []string{"No active monk mode period found."}
		return result, nil
	}

	result.PrimaryFocus = &ranked[0]
	if len(ranked) > 1 {
		end := min(3, len(ranked))
		result.SecondaryFocus = ranked[1:end]
	}
	result.Recommendations = e.buildRecommendations(ctx, userID, ranked)
	return result, nil
}

func (e *Engine) buildRecommendations(ctx context.Context, userID uuid.UUID, ranked []PrioritizedActivity) []string {
	now := e.clock()
	recommendations := []string{
		fmt.Sprintf("Focus on %q first, it has the highest impact on your goals.", ranked[0].Activity.Description()),
	}

	if predicted, _, err := e.forecaster.PredictAt(ctx, userID, now); err == nil {
		if predicted >= 7 {
			recommendations = append(recommendations,
				fmt.Sprintf("Your energy is high (%.1f/10), a good window for demanding tasks.", predicted))
		} else if predicted <= 4 {
			recommendations = append(recommendations,
				fmt.Sprintf("Energy is low (%.1f/10), consider lighter tasks or a break.", predicted))
		}
	}

	hour := now.Hour()
	if hour >= 6 && hour <= 10 {
		recommendations = append(recommendations,
			"Morning is well suited for deep work, tackle your most important tasks now.")
	} else if hour >= 14 && hour <= 16 {
		recommendations = append(recommendations,
			"Post-lunch period, consider lighter or creative tasks.")
	}

	urgent := 0
	momentum := false
	for _, item := range ranked {
		if item.Score.Factors().DeadlineUrgency > 0.7 {
			urgent++
		}
		if item.Score.Factors().MomentumFactor > 0.6 {
			momentum = true
		}
	}
	if urgent > 0 {
		recommendations = append(recommendations,
			fmt.Sprintf("You have %d urgent task(s), prioritize time-sensitive work.", urgent))
	}
	if momentum {
		recommendations = append(recommendations,
			"You are on a roll with similar tasks, keep the momentum going.")
	}
	return recommendations
}
