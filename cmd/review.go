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

var reviewCmd = &cobra.Command{
	Use:   "review <student-id>",
	Short: "List mistake records due for spaced-repetition review",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		studentID := args[0]
		topic, _ := cmd.Flags().GetString("topic")
		subject, _ := cmd.Flags().GetString("subject")

		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve database path: %w", err)
		}
		s, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer s.Close()

		log := newLogger()
		defer log.Sync()

		svc := mistakes.NewService(s.MistakeRepo(), log)
		due, err := svc.DueForReview(context.Background(), studentID, topic, subject, time.Now())
		if err != nil {
			return fmt.Errorf("load due reviews: %w", err)
		}

		if len(due) == 0 {
			fmt.Println("Nothing due for review.")
			return nil
		}

		fmt.Printf("%-12s  %-16s  %-22s  %4s  %7s  %s\n",
			"Question", "Topic", "Type", "Seen", "Mastery", "Due")
		fmt.Println(strings.Repeat("─", 80))
		for _, r := range due {
			fmt.Printf("%-12s  %-16s  %-22s  %4d  %7d  %s\n",
				truncate(r.QuestionID, 12),
				truncate(r.Topic, 16),
				string(r.Type),
				r.Occurrences,
				r.MasteryLevel,
				r.NextReviewDate.Local().Format("2006-01-02"),
			)
		}
		return nil
	},
}

var reviewDoneCmd = &cobra.Command{
	Use:   "done <student-id> <question-id>",
	Short: "Record the outcome of a completed review",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		studentID, questionID := args[0], args[1]
		correct, _ := cmd.Flags().GetBool("correct")

		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve database path: %w", err)
		}
		s, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer s.Close()

		log := newLogger()
		defer log.Sync()

		svc := mistakes.NewService(s.MistakeRepo(), log)
		rec, err := svc.RecordReview(context.Background(), studentID, questionID, correct, time.Now())
		if err != nil {
			return fmt.Errorf("record review: %w", err)
		}

		fmt.Printf("Mastery: %d  Next review: %s\n",
			rec.MasteryLevel, rec.NextReviewDate.Local().Format("2006-01-02"))
		return nil
	},
}

func init() {
	reviewCmd.Flags().StringP("topic", "t", "", "Filter by topic")
	reviewCmd.Flags().StringP("subject", "s", "", "Filter by subject")
	reviewDoneCmd.Flags().Bool("correct", false, "The student answered correctly this time")

	reviewCmd.AddCommand(reviewDoneCmd)
}
