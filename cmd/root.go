package cmd

import (
	"github.com/arkmentor/arkmentor/internal/store"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "arkmentor",
	Short: "Behavioral adaptive scoring engine",
	Long:  "ArkMentor: adaptive difficulty, mistake tracking with spaced repetition, and behavioral risk scoring for mentored students.",
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides ARKMENTOR_DB env var)")

	rootCmd.AddCommand(riskCmd)
	rootCmd.AddCommand(reviewCmd)
	rootCmd.AddCommand(patternsCmd)
	rootCmd.AddCommand(difficultyCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then ARKMENTOR_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}
