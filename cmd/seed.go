package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/arkmentor/arkmentor/internal/mistakes"
	"github.com/arkmentor/arkmentor/internal/practice"
	"github.com/arkmentor/arkmentor/internal/risk"
	"github.com/arkmentor/arkmentor/internal/store"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load demo telemetry for local runs",
	Long: `Seeds two demo students with 30 days of behavioral patterns,
practice attempts, and mistake records: "demo-steady" (healthy) and
"demo-fading" (declining engagement).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve database path: %w", err)
		}
		s, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer s.Close()

		ctx := context.Background()
		now := time.Now()

		if err := seedPatterns(ctx, s, now); err != nil {
			return err
		}
		if err := seedPractice(ctx, s, now); err != nil {
			return err
		}

		fmt.Println("Seeded demo students: demo-steady, demo-fading")
		return nil
	},
}

func seedPatterns(ctx context.Context, s *store.Store, now time.Time) error {
	repo := s.PatternRepo()
	for i := 0; i < 30; i++ {
		day := now.AddDate(0, 0, -i)

		steady := &risk.BehavioralPattern{
			StudentID:             "demo-steady",
			Date:                  day,
			EngagementScore:       75 + float64(i%5),
			DailyCheckinCompleted: true,
			AvgEmotionScore:       7,
			AvgEnergyLevel:        7,
			ArkProgressDelta:      1,
			XPEarned:              35,
			ChatMessageCount:      5,
		}
		if err := repo.UpsertDaily(ctx, steady); err != nil {
			return fmt.Errorf("seed patterns: %w", err)
		}

		// Recent days low, older days healthy: a declining series with
		// check-ins fading out entirely over the last ten days.
		fading := &risk.BehavioralPattern{
			StudentID:             "demo-fading",
			Date:                  day,
			EngagementScore:       80 - float64(30-i)*2,
			DailyCheckinCompleted: i >= 10,
			AvgEmotionScore:       3.5,
			AvgEnergyLevel:        4,
			HighStressDay:         i%2 == 0,
			ArkProgressDelta:      -0.5,
			XPEarned:              5,
			ChatMessageCount:      0,
		}
		if err := repo.UpsertDaily(ctx, fading); err != nil {
			return fmt.Errorf("seed patterns: %w", err)
		}
	}
	return nil
}

func seedPractice(ctx context.Context, s *store.Store, now time.Time) error {
	attempts := s.AttemptRepo()
	log := newLogger()
	defer log.Sync()
	svc := mistakes.NewService(s.MistakeRepo(), log)

	questions := []practice.Question{
		{
			ID: "frac-add-01", Topic: "fractions", Subject: "math",
			Difficulty:   practice.DifficultyMedium,
			Text:         "What is 1/4 + 2/4?",
			Choices:      []string{"3/4", "3/8", "2/4", "1/2"},
			CorrectIndex: 0,
			Explanation:  "Add the numerators when denominators match: 1 + 2 = 3, so 3/4.",
		},
		{
			ID: "frac-why-02", Topic: "fractions", Subject: "math",
			Difficulty:   practice.DifficultyMedium,
			Text:         "Explain why 2/4 equals 1/2.",
			Choices:      []string{"They simplify to the same value", "They do not", "2/4 is larger", "1/2 is larger"},
			CorrectIndex: 0,
			Explanation:  "The concept of equivalent fractions: dividing numerator and denominator by 2 keeps the value.",
		},
	}

	for i, q := range questions {
		wrong := (q.CorrectIndex + 1) % len(q.Choices)
		ts := now.Add(-time.Duration(i+1) * time.Hour)

		err := attempts.Append(ctx, &practice.PracticeAttempt{
			QuestionID:       q.ID,
			StudentID:        "demo-fading",
			Topic:            q.Topic,
			Subject:          q.Subject,
			Difficulty:       q.Difficulty,
			SelectedAnswer:   q.Choice(wrong),
			CorrectAnswer:    q.Choice(q.CorrectIndex),
			WasCorrect:       false,
			TimeSpentSeconds: 20 + i*140,
			Timestamp:        ts,
		})
		if err != nil {
			return fmt.Errorf("seed attempts: %w", err)
		}

		q := q
		if _, err := svc.RecordMistake(ctx, "demo-fading", &q, wrong, 20+i*140, ts); err != nil {
			return fmt.Errorf("seed mistakes: %w", err)
		}
	}

	for i := 0; i < 5; i++ {
		err := attempts.Append(ctx, &practice.PracticeAttempt{
			QuestionID:       fmt.Sprintf("frac-drill-%02d", i),
			StudentID:        "demo-steady",
			Topic:            "fractions",
			Subject:          "math",
			Difficulty:       practice.DifficultyEasy,
			SelectedAnswer:   "3/4",
			CorrectAnswer:    "3/4",
			WasCorrect:       true,
			TimeSpentSeconds: 30,
			Timestamp:        now.Add(-time.Duration(i) * time.Minute),
		})
		if err != nil {
			return fmt.Errorf("seed attempts: %w", err)
		}
	}
	return nil
}
