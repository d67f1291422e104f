package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustTimeOfDay(t *testing.T, s string) TimeOfDay {
	t.Helper()
	tod, err := ParseTimeOfDay(s)
	require.NoError(t, err)
	return tod
}

func TestParseActivityType(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want ActivityType
	}{
		{name: "exact match", in: "Deep Work", want: ActivityTypeDeepWork},
		{name: "case insensitive", in: "deep work", want: ActivityTypeDeepWork},
		{name: "mixed case", in: "MINDFULNESS", want: ActivityTypeMindfulness},
		{name: "surrounding whitespace", in: "  Exercise  ", want: ActivityTypeExercise},
		{name: "unknown falls through", in: "Underwater Basket Weaving", want: ActivityTypeOther},
		{name: "empty falls through", in: "", want: ActivityTypeOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseActivityType(tt.in))
		})
	}
}

func TestTimeOfDay(t *testing.T) {
	t.Run("parses and renders HH:MM", func(t *testing.T) {
		tod, err := ParseTimeOfDay("09:30")
		require.NoError(t, err)
		assert.Equal(t, 9, tod.Hour())
		assert.Equal(t, 30, tod.Minute())
		assert.Equal(t, "09:30", tod.String())
		assert.Equal(t, 570, tod.Minutes())
	})

	t.Run("rejects out-of-range values", func(t *testing.T) {
		_, err := ParseTimeOfDay("24:00")
		assert.ErrorIs(t, err, ErrInvalidTimeOfDay)

		_, err = NewTimeOfDay(12, 60)
		assert.ErrorIs(t, err, ErrInvalidTimeOfDay)
	})

	t.Run("rejects garbage", func(t *testing.T) {
		_, err := ParseTimeOfDay("noon")
		assert.ErrorIs(t, err, ErrInvalidTimeOfDay)
	})

	t.Run("anchors to a date", func(t *testing.T) {
		tod := mustTimeOfDay(t, "14:15")
		date := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
		at := tod.On(date)
		assert.Equal(t, time.Date(2026, 3, 10, 14, 15, 0, 0, time.UTC), at)
	})
}

func TestPeriod_DayOfPeriod(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 30, 0, 0, 0, 0, time.UTC)
	period, err := NewPeriod(uuid.New(), uuid.New(), "Q1 sprint", start, end)
	require.NoError(t, err)

	assert.Equal(t, 1, period.DayOfPeriod(start))
	assert.Equal(t, 5, period.DayOfPeriod(time.Date(2026, 3, 5, 18, 30, 0, 0, time.UTC)))
	assert.True(t, period.Contains(time.Date(2026, 3, 30, 23, 0, 0, 0, time.UTC)))
	assert.False(t, period.Contains(time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)))
}

func TestNewPeriod_RejectsInvertedRange(t *testing.T) {
	start := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	_, err := NewPeriod(uuid.New(), uuid.New(), "backwards", start, end)
	assert.ErrorIs(t, err, ErrInvalidPeriodRange)
}

func TestNewScheduledActivity(t *testing.T) {
	periodID, userID := uuid.New(), uuid.New()

	t.Run("computes scheduled duration", func(t *testing.T) {
		activity, err := NewScheduledActivity(periodID, userID, ActivityTypeDeepWork, "write the parser", 1,
			mustTimeOfDay(t, "09:00"), mustTimeOfDay(t, "11:30"), 8)
		require.NoError(t, err)
		assert.Equal(t, 150, activity.DurationMinutes())
		assert.False(t, activity.IsCompleted())
		assert.Zero(t, activity.PriorityScore())
	})

	t.Run("rejects invalid energy requirement", func(t *testing.T) {
		_, err := NewScheduledActivity(periodID, userID, ActivityTypeBreak, "", 1,
			mustTimeOfDay(t, "09:00"), mustTimeOfDay(t, "09:15"), 11)
		assert.ErrorIs(t, err, ErrInvalidEnergyRequired)
	})
}

func TestScheduledActivity_Complete(t *testing.T) {
	newActivity := func(t *testing.T) *ScheduledActivity {
		t.Helper()
		activity, err := NewScheduledActivity(uuid.New(), uuid.New(), ActivityTypeDeepWork, "write the parser", 1,
			mustTimeOfDay(t, "09:00"), mustTimeOfDay(t, "10:00"), 8)
		require.NoError(t, err)
		return activity
	}

	t.Run("records completion and raises event", func(t *testing.T) {
		activity := newActivity(t)
		now := time.Now().UTC()
		quality := 4

		require.NoError(t, activity.Complete(now, nil, nil, &quality))

		assert.True(t, activity.IsCompleted())
		require.NotNil(t, activity.CompletedAt())
		assert.Equal(t, now, *activity.CompletedAt())
		require.Len(t, activity.DomainEvents(), 1)
		assert.Equal(t, "planning.activity.completed", activity.DomainEvents()[0].RoutingKey())
	})

	t.Run("rejects double completion", func(t *testing.T) {
		activity := newActivity(t)
		now := time.Now().UTC()
		require.NoError(t, activity.Complete(now, nil, nil, nil))
		assert.ErrorIs(t, activity.Complete(now, nil, nil, nil), ErrActivityAlreadyCompleted)
	})

	t.Run("rejects invalid quality", func(t *testing.T) {
		activity := newActivity(t)
		quality := 6
		assert.ErrorIs(t, activity.Complete(time.Now().UTC(), nil, nil, &quality), ErrInvalidCompletionQuality)
	})

	t.Run("actual duration from actual timestamps", func(t *testing.T) {
		activity := newActivity(t)
		start := time.Date(2026, 3, 1, 9, 5, 0, 0, time.UTC)
		end := start.Add(66 * time.Minute)
		require.NoError(t, activity.Complete(end, &start, &end, nil))

		minutes, ok := activity.ActualDurationMinutes()
		require.True(t, ok)
		assert.Equal(t, 66, minutes)
	})
}
