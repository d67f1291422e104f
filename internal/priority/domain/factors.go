package domain

import (
	"strings"
	"time"

	planning "github.com/felixgeelhaar/monkmode/internal/planning/domain"
)

// NeutralFactor is the score every factor falls back to when it has no signal
// to work from.
const NeutralFactor = 0.5

// blockingKeywords mark work that typically unblocks later tasks.
var blockingKeywords = []string{
	"foundation", "setup", "planning", "research",
	"design", "architecture", "framework",
}

// dependentKeywords mark work that typically waits on earlier tasks.
var dependentKeywords = []string{
	"polish", "refine", "optimize", "review", "test",
}

// complementaryTypes maps an activity type to the types whose recent
// completion still counts as momentum for it. The map is intentionally
// asymmetric: Planning feeds Deep Work without the reverse holding.
var complementaryTypes = map[string][]string{
	"Deep Work":   {"Planning", "Research", "Learning"},
	"Exercise":    {"Mindfulness", "Sleep", "Cooking"},
	"Learning":    {"Deep Work", "Reflection", "Practice"},
	"Planning":    {"Deep Work", "Research"},
	"Research":    {"Deep Work", "Planning", "Learning"},
	"Mindfulness": {"Exercise", "Reflection", "Sleep"},
	"Reflection":  {"Mindfulness", "Planning", "Learning"},
}

// ComplementaryTypes returns the types that complement the given one. Types
// without an entry complement nothing.
func ComplementaryTypes(activityType planning.ActivityType) []string {
	return complementaryTypes[string(activityType)]
}

// DeadlineUrgency tiers the nearest open objective deadline against the
// scoring date. A nil deadline is neutral; overdue is maximal.
func DeadlineUrgency(nearestDue *time.Time, targetDate time.Time) float64 {
	if nearestDue == nil {
		return NeutralFactor
	}
	days := daysUntil(targetDate, *nearestDue)
	switch {
	case days <= 0:
		return 1.0
	case days <= 1:
		return 0.9
	case days <= 3:
		return 0.8
	case days <= 7:
		return 0.6
	case days <= 14:
		return 0.4
	default:
		return 0.2
	}
}

// GoalImpact rates how directly an activity type advances the goal.
func GoalImpact(activityType planning.ActivityType) float64 {
	switch activityType.LowerName() {
	case "deep work", "project focus", "skill development":
		return 1.0
	case "planning", "research", "learning":
		return 0.8
	case "exercise", "mindfulness", "reflection":
		return 0.6
	case "sleep", "cooking", "partner time":
		return 0.4
	default:
		return NeutralFactor
	}
}

// EnergyAlignment compares the predicted energy at the activity's start
// against its requirement. Sufficient energy floors at 0.6, a deficit is
// penalized down to 0.1.
func EnergyAlignment(predicted float64, required int) float64 {
	req := float64(required)
	if predicted >= req {
		alignment := 1.0 - (predicted-req)/10.0
		return max(0.6, alignment)
	}
	penalty := (req - predicted) / 10.0
	return max(0.1, NeutralFactor-penalty)
}

// DependencyWeight infers blocking relationships from the activity
// description. Foundational work outranks dependent work; the first matching
// keyword wins.
func DependencyWeight(description string) float64 {
	desc := strings.ToLower(description)
	for _, keyword := range blockingKeywords {
		if strings.Contains(desc, keyword) {
			return 0.8
		}
	}
	for _, keyword := range dependentKeywords {
		if strings.Contains(desc, keyword) {
			return 0.3
		}
	}
	return NeutralFactor
}

// MomentumFactor rewards continuing a streak. With no recent completions at
// all the factor is neutral; an unrelated streak is a mild context-switch
// penalty.
func MomentumFactor(recentTotal, sameType, complementary int) float64 {
	if recentTotal == 0 {
		return NeutralFactor
	}
	if sameType > 0 {
		return NeutralFactor + min(0.3, float64(sameType)*0.1)
	}
	if complementary > 0 {
		return 0.6
	}
	return 0.4
}

// Clamp01 bounds a factor to [0,1].
func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// daysUntil counts whole calendar days from the target date to the deadline.
func daysUntil(from, to time.Time) int {
	fromDay := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	toDay := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(toDay.Sub(fromDay).Hours() / 24)
}
