package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/arkmentor/arkmentor/internal/llm"
	"github.com/arkmentor/arkmentor/internal/risk"
	"github.com/arkmentor/arkmentor/internal/store"
)

// riskStore combines the pattern and prediction repositories into the
// scorer's persistence surface.
type riskStore struct {
	*store.PatternRepo
	*store.PredictionRepo
}

var riskCmd = &cobra.Command{
	Use:   "risk <student-id>",
	Short: "Score a student's dropout, burnout, and disengagement risk",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		studentID := args[0]
		useLLM, _ := cmd.Flags().GetBool("llm")

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

		ctx := context.Background()
		narrator := buildNarrator(ctx, s, useLLM, log)
		svc := risk.NewService(riskStore{s.PatternRepo(), s.PredictionRepo()}, narrator, log)

		p, err := svc.ScoreRisk(ctx, studentID, time.Now())
		if err != nil {
			return fmt.Errorf("score risk: %w", err)
		}

		printPrediction(p)
		return nil
	},
}

// buildNarrator returns an LLM-backed narrator when requested and a
// provider is discoverable, otherwise the rule-based path.
func buildNarrator(ctx context.Context, s *store.Store, useLLM bool, log *zap.SugaredLogger) risk.Narrator {
	if !useLLM {
		return nil
	}

	cfg := llm.ConfigFromEnv()
	if err := cfg.Validate(); err != nil {
		discovered, ok := llm.DiscoverConfig()
		if !ok {
			log.Warnw("no LLM provider configured, using rule-based narrative")
			return nil
		}
		cfg = discovered
	}

	provider, err := llm.NewProvider(ctx, cfg, s.EventRepo())
	if err != nil {
		log.Warnw("LLM provider init failed, using rule-based narrative", "error", err)
		return nil
	}
	return risk.NewLLMNarrator(provider, risk.DefaultNarratorConfig(), log)
}

func printPrediction(p *risk.RiskPrediction) {
	fmt.Printf("Student:        %s\n", p.StudentID)
	fmt.Printf("Date:           %s\n", p.PredictionDate.Local().Format("2006-01-02 15:04"))
	fmt.Printf("Risk level:     %s\n", strings.ToUpper(string(p.RiskLevel)))
	fmt.Printf("Dropout:        %.1f\n", p.DropoutRiskScore)
	fmt.Printf("Burnout:        %.1f\n", p.BurnoutRiskScore)
	fmt.Printf("Disengagement:  %.1f\n", p.DisengagementRiskScore)
	fmt.Printf("Confidence:     %.2f\n", p.ConfidenceScore)
	fmt.Printf("Model:          %s\n", p.ModelVersion)

	printList("Primary risk factors", p.PrimaryRiskFactors)
	printList("Protective factors", p.ProtectiveFactors)
	printList("Recommended interventions", p.RecommendedInterventions)
	printList("Early warning flags", p.EarlyWarningFlags)
}

func printList(title string, items []string) {
	fmt.Printf("\n%s:\n", title)
	if len(items) == 0 {
		fmt.Println("  (none)")
		return
	}
	for _, item := range items {
		fmt.Printf("  - %s\n", item)
	}
}

func init() {
	riskCmd.Flags().Bool("llm", false, "Refine the assessment with a configured LLM provider")
}
