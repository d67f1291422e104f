package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var prioritiesDate string

var prioritiesCmd = &cobra.Command{
	Use:   "priorities",
	Short: "Score and rank today's scheduled activities",
	RunE: func(cmd *cobra.Command, args []string) error {
		container, err := requireApp()
		if err != nil {
			return err
		}
		userID, err := currentUserID()
		if err != nil {
			return err
		}
		date, err := parseDate(prioritiesDate)
		if err != nil {
			return err
		}

		ranked, err := container.Engine.CalculateDailyPriorities(cmd.Context(), userID, date)
		if err != nil {
			return fmt.Errorf("failed to calculate priorities: %w", err)
		}
		if len(ranked) == 0 {
			fmt.Println("No activities to score. Is a monk mode period active?")
			return nil
		}

		fmt.Printf("Priorities for %s:\n", date.Format("2006-01-02"))
		for i, item := range ranked {
			factors := item.Score.Factors()
			fmt.Printf("%2d. [%.2f] %s (%s at %s)\n", i+1, item.Score.FinalScore(),
				item.Activity.Description(), item.Activity.ActivityType(), item.Activity.StartTime())
			if verbose {
				fmt.Printf("      deadline %.2f  impact %.2f  energy %.2f  dependency %.2f  preference %.2f  momentum %.2f\n",
					factors.DeadlineUrgency, factors.GoalImpact, factors.EnergyRequirement,
					factors.DependencyWeight, factors.UserPreference, factors.MomentumFactor)
			}
		}
		return nil
	},
}

var focusDate string

var focusCmd = &cobra.Command{
	Use:   "focus",
	Short: "Get focus recommendations for the day",
	RunE: func(cmd *cobra.Command, args []string) error {
		container, err := requireApp()
		if err != nil {
			return err
		}
		userID, err := currentUserID()
		if err != nil {
			return err
		}
		date, err := parseDate(focusDate)
		if err != nil {
			return err
		}

		recs, err := container.Engine.FocusRecommendations(cmd.Context(), userID, date)
		if err != nil {
			return fmt.Errorf("failed to build focus recommendations: %w", err)
		}

		if recs.PrimaryFocus != nil {
			fmt.Printf("Primary focus:   %s\n", recs.PrimaryFocus.Activity.Description())
		}
		for _, item := range recs.SecondaryFocus {
			fmt.Printf("Secondary focus: %s\n", item.Activity.Description())
		}
		for _, rec := range recs.Recommendations {
			fmt.Printf("  - %s\n", rec)
		}
		return nil
	},
}

var patternsCmd = &cobra.Command{
	Use:   "patterns",
	Short: "Fold recent completions into your productivity patterns",
	RunE: func(cmd *cobra.Command, args []string) error {
		container, err := requireApp()
		if err != nil {
			return err
		}
		userID, err := currentUserID()
		if err != nil {
			return err
		}

		updated, err := container.Engine.UpdateProductivityPatterns(cmd.Context(), userID)
		if err != nil {
			return fmt.Errorf("failed to update productivity patterns: %w", err)
		}
		fmt.Printf("Absorbed %d completion sample(s).\n", updated)
		return nil
	},
}

func init() {
	prioritiesCmd.Flags().StringVar(&prioritiesDate, "date", "", "scoring date (YYYY-MM-DD, default today)")
	focusCmd.Flags().StringVar(&focusDate, "date", "", "recommendation date (YYYY-MM-DD, default today)")

	rootCmd.AddCommand(prioritiesCmd, focusCmd, patternsCmd)
}
