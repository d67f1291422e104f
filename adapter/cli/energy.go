package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

var energyCmd = &cobra.Command{
	Use:   "energy",
	Short: "Log energy samples and inspect your energy rhythm",
}

var (
	energyLogNote    string
	energyLogFactors []string
)

var energyLogCmd = &cobra.Command{
	Use:   "log [level]",
	Short: "Record an energy sample (1-10)",
	Long: `Record how energized you feel right now on a 1-10 scale.

Examples:
  monkmode energy log 7
  monkmode energy log 4 --note "short night" --factor sleep_hours=5.5`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		container, err := requireApp()
		if err != nil {
			return err
		}
		userID, err := currentUserID()
		if err != nil {
			return err
		}
		level, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid energy level %q: %w", args[0], err)
		}

		factors, err := parseFactors(energyLogFactors)
		if err != nil {
			return err
		}

		log, err := container.LogService.Log(cmd.Context(), userID, level, factors, energyLogNote)
		if err != nil {
			return fmt.Errorf("failed to record energy log: %w", err)
		}

		fmt.Printf("Logged energy %d/10 at %s\n", log.Level(), log.LoggedAt().Format("15:04"))
		return nil
	},
}

var (
	predictHours int
	predictDate  string
)

var energyPredictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Forecast hourly energy levels",
	RunE: func(cmd *cobra.Command, args []string) error {
		container, err := requireApp()
		if err != nil {
			return err
		}
		userID, err := currentUserID()
		if err != nil {
			return err
		}
		date, err := parseDate(predictDate)
		if err != nil {
			return err
		}

		predictions, err := container.Predictor.Predict(cmd.Context(), userID, date, predictHours)
		if err != nil {
			return fmt.Errorf("failed to predict energy: %w", err)
		}

		fmt.Printf("Energy forecast for %s:\n", date.Format("2006-01-02"))
		for _, p := range predictions {
			fmt.Printf("  %s  %4.1f/10  (confidence %.2f, %s)\n",
				p.PredictedFor().Format("Mon 15:04"), p.PredictedEnergy(), p.Confidence(), p.Basis())
		}
		return nil
	},
}

var insightsDays int

var energyInsightsCmd = &cobra.Command{
	Use:   "insights",
	Short: "Summarize your energy patterns",
	RunE: func(cmd *cobra.Command, args []string) error {
		container, err := requireApp()
		if err != nil {
			return err
		}
		userID, err := currentUserID()
		if err != nil {
			return err
		}

		insights, err := container.InsightsService.GetInsights(cmd.Context(), userID, insightsDays)
		if err != nil {
			return fmt.Errorf("failed to build insights: %w", err)
		}

		if insights.InsufficientData {
			fmt.Println("Not enough energy logs yet.")
			for _, rec := range insights.Recommendations {
				fmt.Printf("  - %s\n", rec)
			}
			return nil
		}

		s := insights.Summary
		fmt.Printf("Average energy: %.1f/10 over %d logs (%d days)\n", s.AverageEnergy, s.TotalLogs, s.DaysTracked)
		if len(insights.PeakHours) > 0 {
			fmt.Println("Peak hours:")
			for _, h := range insights.PeakHours {
				fmt.Printf("  %02d:00  %.1f/10\n", h.Hour, h.Average)
			}
		}
		if len(insights.LowHours) > 0 {
			fmt.Println("Low hours:")
			for _, h := range insights.LowHours {
				fmt.Printf("  %02d:00  %.1f/10\n", h.Hour, h.Average)
			}
		}
		if len(insights.Boosters) > 0 {
			fmt.Println("Energy boosters:")
			for _, f := range insights.Boosters {
				fmt.Printf("  %s (%dx)\n", f.Factor, f.Count)
			}
		}
		if len(insights.Drains) > 0 {
			fmt.Println("Energy drains:")
			for _, f := range insights.Drains {
				fmt.Printf("  %s (%dx)\n", f.Factor, f.Count)
			}
		}
		fmt.Printf("Trend: %s (%+.1f)\n", insights.Trend.Direction, insights.Trend.Delta)
		for _, rec := range insights.Recommendations {
			fmt.Printf("  - %s\n", rec)
		}
		return nil
	},
}

var energyRecoveryCmd = &cobra.Command{
	Use:   "recovery",
	Short: "Get recovery recommendations for low energy",
	RunE: func(cmd *cobra.Command, args []string) error {
		container, err := requireApp()
		if err != nil {
			return err
		}
		userID, err := currentUserID()
		if err != nil {
			return err
		}

		recommendations, err := container.RecoveryService.GetRecommendations(cmd.Context(), userID)
		if err != nil {
			return fmt.Errorf("failed to build recovery recommendations: %w", err)
		}
		for _, rec := range recommendations {
			fmt.Printf("  - %s\n", rec)
		}
		return nil
	},
}

// parseFactors turns repeated key=value flags into context factors. Numeric
// values stay strings here; normalization happens at the domain boundary.
func parseFactors(pairs []string) (map[string]any, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	factors := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		key, value, found := strings.Cut(pair, "=")
		if !found || key == "" {
			return nil, fmt.Errorf("invalid factor %q, expected key=value", pair)
		}
		factors[key] = value
	}
	return factors, nil
}

func init() {
	energyLogCmd.Flags().StringVar(&energyLogNote, "note", "", "free-form note for the sample")
	energyLogCmd.Flags().StringArrayVar(&energyLogFactors, "factor", nil, "context factor key=value (repeatable)")
	energyPredictCmd.Flags().IntVar(&predictHours, "hours", 24, "forecast horizon in hours")
	energyPredictCmd.Flags().StringVar(&predictDate, "date", "", "forecast date (YYYY-MM-DD, default today)")
	energyInsightsCmd.Flags().IntVar(&insightsDays, "days", 30, "how many trailing days to analyze")

	energyCmd.AddCommand(energyLogCmd, energyPredictCmd, energyInsightsCmd, energyRecoveryCmd)
	rootCmd.AddCommand(energyCmd)
}
