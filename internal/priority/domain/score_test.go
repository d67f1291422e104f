package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	planning "github.com/felixgeelhaar/monkmode/internal/planning/domain"
)

func TestDefaultEngineConfigWeightsSumToOne(t *testing.T) {
	c := DefaultEngineConfig()
	sum := c.DeadlineUrgencyWeight + c.GoalImpactWeight + c.EnergyAlignmentWeight +
		c.DependencyWeightWeight + c.UserPreferenceWeight + c.MomentumFactorWeight
	assert.InDelta(t, 1.0, sum, 1e-9)
}

func TestCompositeOfNeutralFactorsIsNeutral(t *testing.T) {
	neutral := FactorScores{
		DeadlineUrgency:   NeutralFactor,
		GoalImpact:        NeutralFactor,
		EnergyRequirement: NeutralFactor,
		DependencyWeight:  NeutralFactor,
		UserPreference:    NeutralFactor,
		MomentumFactor:    NeutralFactor,
	}
	assert.InDelta(t, 0.5, DefaultEngineConfig().Composite(neutral), 1e-9)
}

func TestDeadlineUrgency(t *testing.T) {
	target := time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC)
	due := func(days int) *time.Time {
		d := target.AddDate(0, 0, days)
		return &d
	}

	tests := []struct {
		name string
		due  *time.Time
		want float64
	}{
		{"no deadline is neutral", nil, 0.5},
		{"overdue", due(-2), 1.0},
		{"due today", due(0), 1.0},
		{"due tomorrow", due(1), 0.9},
		{"due in two days", due(2), 0.8},
		{"due in three days", due(3), 0.8},
		{"due within a week", due(7), 0.6},
		{"due within two weeks", due(14), 0.4},
		{"due later", due(30), 0.2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeadlineUrgency(tt.due, target))
		})
	}
}

func TestGoalImpact(t *testing.T) {
	tests := []struct {
		activityType planning.ActivityType
		want         float64
	}{
		{planning.ActivityTypeDeepWork, 1.0},
		{planning.ActivityTypeSkillDevelopment, 1.0},
		{planning.ActivityTypePlanning, 0.8},
		{planning.ActivityTypeExercise, 0.6},
		{planning.ActivityTypeSleep, 0.4},
		{planning.ActivityTypeOther, 0.5},
	}
	for _, tt := range tests {
		t.Run(string(tt.activityType), func(t *testing.T) {
			assert.Equal(t, tt.want, GoalImpact(tt.activityType))
		})
	}
}

func TestEnergyAlignment(t *testing.T) {
	t.Run("exact match scores full", func(t *testing.T) {
		assert.InDelta(t, 1.0, EnergyAlignment(7, 7), 1e-9)
	})
	t.Run("surplus floors at 0.6", func(t *testing.T) {
		assert.InDelta(t, 0.6, EnergyAlignment(10, 1), 1e-9)
	})
	t.Run("small surplus stays high", func(t *testing.T) {
		assert.InDelta(t, 0.9, EnergyAlignment(8, 7), 1e-9)
	})
	t.Run("deficit is penalized", func(t *testing.T) {
		assert.InDelta(t, 0.2, EnergyAlignment(5, 8), 1e-9)
	})
	t.Run("deep deficit floors at 0.1", func(t *testing.T) {
		assert.InDelta(t, 0.1, EnergyAlignment(1, 10), 1e-9)
	})
}

func TestDependencyWeight(t *testing.T) {
	tests := []struct {
		name        string
		description string
		want        float64
	}{
		{"blocking keyword", "Design the storage schema", 0.8},
		{"dependent keyword", "Polish the landing page", 0.3},
		{"blocking beats dependent", "Research test strategies", 0.8},
		{"no keyword is neutral", "Write chapter three", 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DependencyWeight(tt.description))
		})
	}
}

func TestMomentumFactor(t *testing.T) {
	t.Run("no recent completions is neutral", func(t *testing.T) {
		assert.Equal(t, 0.5, MomentumFactor(0, 0, 0))
	})
	t.Run("same-type streak earns a capped bonus", func(t *testing.T) {
		assert.InDelta(t, 0.7, MomentumFactor(3, 2, 0), 1e-9)
		assert.InDelta(t, 0.8, MomentumFactor(6, 5, 0), 1e-9)
	})
	t.Run("complementary streak earns a small bonus", func(t *testing.T) {
		assert.Equal(t, 0.6, MomentumFactor(2, 0, 1))
	})
	t.Run("unrelated streak penalizes the context switch", func(t *testing.T) {
		assert.Equal(t, 0.4, MomentumFactor(2, 0, 0))
	})
}

func TestComplementaryTypesIsAsymmetric(t *testing.T) {
	assert.Contains(t, ComplementaryTypes(planning.ActivityTypeDeepWork), "Planning")
	assert.Contains(t, ComplementaryTypes(planning.ActivityTypePlanning), "Deep Work")
	assert.Contains(t, ComplementaryTypes(planning.ActivityTypeExercise), "Sleep")
	assert.NotContains(t, ComplementaryTypes(planning.ActivityTypeSleep), "Exercise")
	assert.Empty(t, ComplementaryTypes(planning.ActivityTypeCooking))
}

func TestIncrementalAverage(t *testing.T) {
	avg, n := IncrementalAverage(0, 0, 0.8)
	assert.InDelta(t, 0.8, avg, 1e-9)
	assert.Equal(t, 1, n)

	avg, n = IncrementalAverage(avg, n, 0.4)
	assert.InDelta(t, 0.6, avg, 1e-9)
	assert.Equal(t, 2, n)

	avg, n = IncrementalAverage(avg, n, 0.9)
	assert.InDelta(t, 0.7, avg, 1e-9)
	assert.Equal(t, 3, n)
}

func TestPerformanceScore(t *testing.T) {
	quality := func(q int) *int { return &q }

	t.Run("base score without quality or timing", func(t *testing.T) {
		assert.InDelta(t, 0.5, PerformanceScore(nil, 60, 0, false), 1e-9)
	})
	t.Run("quality shifts the base", func(t *testing.T) {
		assert.InDelta(t, 0.7, PerformanceScore(quality(5), 60, 0, false), 1e-9)
		assert.InDelta(t, 0.3, PerformanceScore(quality(1), 60, 0, false), 1e-9)
	})
	t.Run("on-time completion earns the timing bonus", func(t *testing.T) {
		assert.InDelta(t, 0.7, PerformanceScore(nil, 60, 60, true), 1e-9)
	})
	t.Run("bad overrun is penalized", func(t *testing.T) {
		assert.InDelta(t, 0.3, PerformanceScore(nil, 60, 100, true), 1e-9)
	})
	t.Run("quality and timing stack", func(t *testing.T) {
		assert.InDelta(t, 0.9, PerformanceScore(quality(5), 60, 55, true), 1e-9)
		assert.InDelta(t, 0.1, PerformanceScore(quality(1), 60, 120, true), 1e-9)
	})
}

func TestTaskPriorityScoreReplace(t *testing.T) {
	score := NewTaskPriorityScore(uuid.New(), uuid.New(), FactorScores{DeadlineUrgency: 0.2}, 0.3)
	score.Replace(FactorScores{DeadlineUrgency: 0.9}, 0.7)
	assert.Equal(t, 0.9, score.Factors().DeadlineUrgency)
	assert.Equal(t, 0.7, score.FinalScore())
}

func TestUserProductivityPatternAbsorb(t *testing.T) {
	pattern := NewUserProductivityPattern(uuid.New(), 9, planning.ActivityTypeDeepWork, 0.8, 7)
	assert.Equal(t, 1, pattern.SampleSize())
	assert.Equal(t, 1.0, pattern.CompletionRate())

	pattern.Absorb(0.4)
	assert.InDelta(t, 0.6, pattern.AveragePerformance(), 1e-9)
	assert.Equal(t, 2, pattern.SampleSize())
}
