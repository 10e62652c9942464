package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arkmentor/arkmentor/internal/practice"
	"github.com/arkmentor/arkmentor/internal/store"
)

var difficultyCmd = &cobra.Command{
	Use:   "difficulty <student-id> <topic>",
	Short: "Recommend the next difficulty tier from recent attempts",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		studentID, topic := args[0], args[1]
		window, _ := cmd.Flags().GetInt("window")
		currentName, _ := cmd.Flags().GetString("current")

		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve database path: %w", err)
		}
		s, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer s.Close()

		recent, err := s.AttemptRepo().ListRecent(context.Background(), studentID, topic, window)
		if err != nil {
			return fmt.Errorf("load recent attempts: %w", err)
		}

		current, err := currentDifficulty(currentName, recent)
		if err != nil {
			return err
		}

		stats := practice.ComputeWindowStats(recent)
		next := practice.RecommendDifficulty(recent, current)

		fmt.Printf("Window:      %d attempts\n", stats.Total)
		if stats.Total > 0 {
			fmt.Printf("Accuracy:    %.0f%%\n", stats.Accuracy*100)
			fmt.Printf("Avg time:    %.1f min\n", stats.AvgMinutes)
		}
		fmt.Printf("Current:     %s\n", current)
		fmt.Printf("Recommended: %s\n", next)
		return nil
	},
}

// currentDifficulty uses the --current flag when given, otherwise the
// difficulty of the most recent attempt, otherwise easy.
func currentDifficulty(name string, recent []practice.PracticeAttempt) (practice.Difficulty, error) {
	if name != "" {
		d, err := practice.ParseDifficulty(name)
		if err != nil {
			return 0, fmt.Errorf("invalid --current: %w", err)
		}
		return d, nil
	}
	if len(recent) > 0 {
		return recent[0].Difficulty, nil
	}
	return practice.DifficultyEasy, nil
}

func init() {
	difficultyCmd.Flags().IntP("window", "w", 10, "Number of recent attempts to evaluate")
	difficultyCmd.Flags().StringP("current", "c", "", "Current difficulty tier (defaults to the latest attempt's)")
}
