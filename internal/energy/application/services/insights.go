package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	energy "github.com/felixgeelhaar/monkmode/internal/energy/domain"
)

// TrendDirection summarizes the first-half vs second-half comparison of a
// log window.
type TrendDirection string

const (
	TrendUp           TrendDirection = "up"
	TrendDown         TrendDirection = "down"
	TrendStable       TrendDirection = "stable"
	TrendInsufficient TrendDirection = "insufficient_data"
)

// Trend is the direction plus the underlying average delta.
type Trend struct {
	Direction TrendDirection `json:"direction"`
	Delta     float64        `json:"delta"`
}

// HourAverage is an hourly energy average.
type HourAverage struct {
	Hour    int     `json:"hour"`
	Average float64 `json:"average"`
}

// FactorCount tallies how often a context factor coincided with high or low
// energy.
type FactorCount struct {
	Factor string `json:"factor"`
	Count  int    `json:"count"`
}

// InsightsSummary carries the window-level statistics.
type InsightsSummary struct {
	AverageEnergy float64 `json:"average_energy"`
	MinEnergy     float64 `json:"min_energy"`
	MaxEnergy     float64 `json:"max_energy"`
	TotalLogs     int     `json:"total_logs"`
	DaysTracked   int     `json:"days_tracked"`
}

// EnergyInsights is the full insight report for a user's log window.
type EnergyInsights struct {
	InsufficientData bool                     `json:"insufficient_data"`
	Summary          InsightsSummary          `json:"summary"`
	PeakHours        []HourAverage            `json:"peak_hours"`
	LowHours         []HourAverage            `json:"low_hours"`
	DailyPatterns    map[time.Weekday]float64 `json:"daily_patterns"`
	Boosters         []FactorCount            `json:"energy_boosters"`
	Drains           []FactorCount            `json:"energy_drains"`
	Trend            Trend                    `json:"trend"`
	Recommendations  []string                 `json:"recommendations"`
}

// InsightsService derives summaries and recommendations from energy logs.
type InsightsService struct {
	logs   energy.EnergyLogRepository
	cache  InsightCache
	logger *slog.Logger
	clock  func() time.Time
}

// InsightCache is an optional read-through cache for insight reports.
type InsightCache interface {
	Get(ctx context.Context, userID uuid.UUID, daysBack int) (*EnergyInsights, bool)
	Set(ctx context.Context, userID uuid.UUID, daysBack int, insights *EnergyInsights)
}

func NewInsightsService(logs energy.EnergyLogRepository, cache InsightCache, logger *slog.Logger) *InsightsService {
	return &InsightsService{
		logs:   logs,
		cache:  cache,
		logger: logger,
		clock:  func() time.Time { return time.Now().UTC() },
	}
}

// WithClock overrides the time source. Tests only.
func (s *InsightsService) WithClock(clock func() time.Time) *InsightsService {
	s.clock = clock
	return s
}

// GetInsights builds the insight report over the trailing daysBack days.
// Zero logs yields an "insufficient data" report; a window where every
// sample is malformed yields energy.ErrNoValidSamples.
func (s *InsightsService) GetInsights(ctx context.Context, userID uuid.UUID, daysBack int) (*EnergyInsights, error) {
	if daysBack <= 0 {
		daysBack = historyWindowDays
	}
	if s.cache != nil {
		if cached, ok := s.cache.Get(ctx, userID, daysBack); ok {
			return cached, nil
		}
	}

	now := s.clock()
	logs, err := s.logs.ListSince(ctx, userID, now.AddDate(0, 0, -daysBack))
	if err != nil {
		return nil, err
	}

	if len(logs) == 0 {
		return &EnergyInsights{
			InsufficientData: true,
			Recommendations: []string{
				"Log your energy levels 3-4 times per day",
				"Note what activities or factors affect your energy",
				"Track patterns over at least a week for insights",
			},
		}, nil
	}

	var values []float64
	for _, log := range logs {
		if !log.HasValidLevel() {
			s.logger.WarnContext(ctx, "skipping malformed energy sample",
				slog.String("log_id", log.ID().String()),
				slog.Int("level", log.Level()),
			)
			continue
		}
		values = append(values, float64(log.Level()))
	}
	if len(values) == 0 {
		return nil, energy.ErrNoValidSamples
	}

	avg := mean(values)
	insights := &EnergyInsights{
		Summary: InsightsSummary{
			AverageEnergy: avg,
			MinEnergy:     minOf(values),
			MaxEnergy:     maxOf(values),
			TotalLogs:     len(logs),
			DaysTracked:   daysBack,
		},
		DailyPatterns: weekdayAverages(logs),
		Trend:         computeTrend(logs),
	}
	insights.PeakHours, insights.LowHours = rankHours(logs)
	insights.Boosters, insights.Drains = analyzeContextFactors(logs)
	insights.Recommendations = s.buildRecommendations(insights, avg)

	if s.cache != nil {
		s.cache.Set(ctx, userID, daysBack, insights)
	}
	return insights, nil
}

// rankHours returns the top-3 and bottom-3 hours by average energy. Ties
// break on the hour number so results are deterministic.
func rankHours(logs []*energy.EnergyLog) (peaks, lows []HourAverage) {
	byHour := make(map[int][]float64)
	for _, log := range logs {
		if !log.HasValidLevel() {
			continue
		}
		hour := log.LoggedAt().Hour()
		byHour[hour] = append(byHour[hour], float64(log.Level()))
	}

	averages := make([]HourAverage, 0, len(byHour))
	for hour, vals := range byHour {
		averages = append(averages, HourAverage{Hour: hour, Average: mean(vals)})
	}

	desc := make([]HourAverage, len(averages))
	copy(desc, averages)
	sort.Slice(desc, func(i, j int) bool {
		if desc[i].Average != desc[j].Average {
			return desc[i].Average > desc[j].Average
		}
		return desc[i].Hour < desc[j].Hour
	})
	asc := make([]HourAverage, len(averages))
	copy(asc, averages)
	sort.Slice(asc, func(i, j int) bool {
		if asc[i].Average != asc[j].Average {
			return asc[i].Average < asc[j].Average
		}
		return asc[i].Hour < asc[j].Hour
	})

	return firstN(desc, 3), firstN(asc, 3)
}

func weekdayAverages(logs []*energy.EnergyLog) map[time.Weekday]float64 {
	byDay := make(map[time.Weekday][]float64)
	for _, log := range logs {
		if !log.HasValidLevel() {
			continue
		}
		day := log.LoggedAt().Weekday()
		byDay[day] = append(byDay[day], float64(log.Level()))
	}
	averages := make(map[time.Weekday]float64, len(byDay))
	for day, vals := range byDay {
		averages[day] = mean(vals)
	}
	return averages
}

// analyzeContextFactors tallies factor occurrences against high (>=7) and
// low (<=4) energy samples, returning the top five of each.
func analyzeContextFactors(logs []*energy.EnergyLog) (boosters, drains []FactorCount) {
	boosterCounts := make(map[string]int)
	drainCounts := make(map[string]int)

	for _, log := range logs {
		if !log.HasValidLevel() {
			continue
		}
		level := float64(log.Level())
		for factor, value := range log.ContextFactors() {
			if value == nil {
				continue
			}
			label := fmt.Sprintf("%s: %v", factor, value)
			if factor == energy.ContextFactorActivityBefore {
				label = fmt.Sprintf("%v", value)
			}
			switch {
			case level >= 7:
				boosterCounts[label]++
			case level <= 4:
				drainCounts[label]++
			}
		}
	}
	return topFactors(boosterCounts, 5), topFactors(drainCounts, 5)
}

func topFactors(counts map[string]int, n int) []FactorCount {
	factors := make([]FactorCount, 0, len(counts))
	for factor, count := range counts {
		factors = append(factors, FactorCount{Factor: factor, Count: count})
	}
	sort.Slice(factors, func(i, j int) bool {
		if factors[i].Count != factors[j].Count {
			return factors[i].Count > factors[j].Count
		}
		return factors[i].Factor < factors[j].Factor
	})
	return firstN(factors, n)
}

// computeTrend compares the first and second half of the window. Fewer than
// seven logs is too little signal.
func computeTrend(logs []*energy.EnergyLog) Trend {
	if len(logs) < 7 {
		return Trend{Direction: TrendInsufficient}
	}

	mid := len(logs) / 2
	var first, second []float64
	for _, log := range logs[:mid] {
		if log.HasValidLevel() {
			first = append(first, float64(log.Level()))
		}
	}
	for _, log := range logs[mid:] {
		if log.HasValidLevel() {
			second = append(second, float64(log.Level()))
		}
	}
	if len(first) == 0 || len(second) == 0 {
		return Trend{Direction: TrendInsufficient}
	}

	delta := mean(second) - mean(first)
	switch {
	case delta > 0.5:
		return Trend{Direction: TrendUp, Delta: delta}
	case delta < -0.5:
		return Trend{Direction: TrendDown, Delta: delta}
	default:
		return Trend{Direction: TrendStable, Delta: delta}
	}
}

func (s *InsightsService) buildRecommendations(insights *EnergyInsights, avg float64) []string {
	var recs []string

	if len(insights.PeakHours) > 0 {
		peak := insights.PeakHours[0]
		recs = append(recs, fmt.Sprintf(
			"Schedule your most important work around %02d:00 when your energy peaks at %.1f/10",
			peak.Hour, peak.Average))
	}
	if len(insights.LowHours) > 0 {
		low := insights.LowHours[0]
		recs = append(recs, fmt.Sprintf(
			"Avoid demanding tasks around %02d:00 when energy drops to %.1f/10",
			low.Hour, low.Average))
	}

	if len(insights.DailyPatterns) > 0 {
		best, worst := bestAndWorstDay(insights.DailyPatterns)
		recs = append(recs, fmt.Sprintf(
			"%ss are your best days (avg %.1f/10), plan important activities then",
			best.day, best.avg))
		if worst.avg < avg-1 {
			recs = append(recs, fmt.Sprintf(
				"%ss tend to be challenging (avg %.1f/10), schedule lighter tasks or self-care",
				worst.day, worst.avg))
		}
	}

	if len(insights.Boosters) > 0 {
		recs = append(recs, fmt.Sprintf("%q consistently boosts your energy, do more of this", insights.Boosters[0].Factor))
	}
	if len(insights.Drains) > 0 {
		recs = append(recs, fmt.Sprintf("%q often drains your energy, consider modifications or breaks", insights.Drains[0].Factor))
	}

	if avg < 5 {
		recs = append(recs,
			"Your average energy is low: prioritize sleep, nutrition, and stress management",
			"Regular exercise might help boost overall energy levels",
		)
	} else if avg > 7 {
		recs = append(recs, "Great energy levels, you can handle more challenging tasks")
	}
	return recs
}

type dayAverage struct {
	day time.Weekday
	avg float64
}

func bestAndWorstDay(patterns map[time.Weekday]float64) (best, worst dayAverage) {
	first := true
	for day, avg := range patterns {
		if first {
			best, worst = dayAverage{day, avg}, dayAverage{day, avg}
			first = false
			continue
		}
		if avg > best.avg || (avg == best.avg && day < best.day) {
			best = dayAverage{day, avg}
		}
		if avg < worst.avg || (avg == worst.avg && day < worst.day) {
			worst = dayAverage{day, avg}
		}
	}
	return best, worst
}

func firstN[T any](items []T, n int) []T {
	if len(items) > n {
		return items[:n]
	}
	return items
}

func mean(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func minOf(values []float64) float64 {
	m := values[0]
	for _, v := range values[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

func maxOf(values []float64) float64 {
	m := values[0]
	for _, v := range values[1:] {
		if v > m {
			m = v
		}
	}
	return m
}
