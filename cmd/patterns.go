package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/arkmentor/arkmentor/internal/mistakes"
	"github.com/arkmentor/arkmentor/internal/store"
)

var patternsCmd = &cobra.Command{
	Use:   "patterns <student-id>",
	Short: "Analyze a student's mistake patterns and trends",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		studentID := args[0]

		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve database path: %w", err)
		}
		s, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer s.Close()

		records, err := s.MistakeRepo().ListMistakes(context.Background(), studentID, "", "")
		if err != nil {
			return fmt.Errorf("list mistake records: %w", err)
		}

		report := mistakes.AnalyzePatterns(records, time.Now())
		if report.TotalRecords == 0 {
			fmt.Println("No mistakes recorded yet.")
			return nil
		}

		fmt.Printf("Records:      %d (%d total occurrences)\n",
			report.TotalRecords, report.TotalOccurrences)
		fmt.Printf("Dominant:     %s on %q\n", report.DominantType, report.DominantTopic)

		fmt.Println("\nBy topic:")
		fmt.Printf("  %-20s  %7s  %11s  %s\n", "Topic", "Records", "Occurrences", "Trend")
		fmt.Println("  " + strings.Repeat("─", 52))
		for _, ts := range report.ByTopic {
			fmt.Printf("  %-20s  %7d  %11d  %s\n",
				truncate(ts.Topic, 20), ts.Records, ts.Occurrences, ts.Trend)
		}

		fmt.Println("\nBy type:")
		for _, mt := range []mistakes.MistakeType{
			mistakes.TypeCalculation,
			mistakes.TypeConceptual,
			mistakes.TypeApplication,
			mistakes.TypeReadingComprehension,
			mistakes.TypeTimeManagement,
			mistakes.TypeOther,
		} {
			if n := report.ByType[mt]; n > 0 {
				fmt.Printf("  %-22s  %d\n", string(mt), n)
			}
		}

		printList("Recommendations", report.Recommendations)
		return nil
	},
}
