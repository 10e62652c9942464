package risk

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Store is the persistence surface the scorer needs.
type Store interface {
	// ListPatternsSince returns a student's behavioral patterns with a
	// date on or after since, in any order.
	ListPatternsSince(ctx context.Context, studentID string, since time.Time) ([]BehavioralPattern, error)

	// SavePrediction persists a completed risk prediction.
	SavePrediction(ctx context.Context, p *RiskPrediction) error
}

// Service runs the full scoring pipeline: feature extraction, sub-scores,
// flags, composites, and narration.
type Service struct {
	store    Store
	narrator Narrator
	weights  Weights
	log      *zap.SugaredLogger
}

// NewService wires a scorer. A nil narrator means rule-based narration only.
func NewService(store Store, narrator Narrator, log *zap.SugaredLogger) *Service {
	if narrator == nil {
		narrator = RuleNarrator{}
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Service{
		store:    store,
		narrator: narrator,
		weights:  DefaultWeights(),
		log:      log,
	}
}

// ScoreRisk assesses one student over the 30 days ending at now, persists
// the prediction, and returns it.
func (s *Service) ScoreRisk(ctx context.Context, studentID string, now time.Time) (*RiskPrediction, error) {
	since := dateOnly(now).AddDate(0, 0, -(WindowDays - 1))
	patterns, err := s.store.ListPatternsSince(ctx, studentID, since)
	if err != nil {
		return nil, fmt.Errorf("loading behavioral patterns: %w", err)
	}

	assessment := s.Assess(studentID, patterns, now)

	narrative, err := s.narrator.Narrate(ctx, assessment)
	if err != nil {
		// Narrators are expected to degrade internally; this is the
		// backstop for ones that surface errors anyway.
		s.log.Warnw("narrator failed, using rule-based narrative",
			"student_id", studentID, "error", err)
		narrative, _ = RuleNarrator{}.Narrate(ctx, assessment)
	}

	prediction := &RiskPrediction{
		ID:                       uuid.NewString(),
		StudentID:                studentID,
		PredictionDate:           now,
		DropoutRiskScore:         narrative.Dropout,
		BurnoutRiskScore:         narrative.Burnout,
		DisengagementRiskScore:   narrative.Disengagement,
		RiskLevel:                LevelFor(narrative.Dropout, narrative.Burnout, narrative.Disengagement),
		PrimaryRiskFactors:       narrative.PrimaryRiskFactors,
		ProtectiveFactors:        narrative.ProtectiveFactors,
		RecommendedInterventions: narrative.RecommendedInterventions,
		EarlyWarningFlags:        narrative.EarlyWarningFlags,
		ConfidenceScore:          narrative.Confidence,
		ModelVersion:             narrative.ModelVersion,
	}

	if err := s.store.SavePrediction(ctx, prediction); err != nil {
		return nil, fmt.Errorf("saving prediction: %w", err)
	}

	s.log.Infow("risk scored",
		"student_id", studentID,
		"level", prediction.RiskLevel,
		"dropout", prediction.DropoutRiskScore,
		"burnout", prediction.BurnoutRiskScore,
		"disengagement", prediction.DisengagementRiskScore,
	)
	return prediction, nil
}

// Assess computes the numeric assessment without persistence or narration.
func (s *Service) Assess(studentID string, patterns []BehavioralPattern, now time.Time) *Assessment {
	features := ExtractFeatures(patterns, now)
	scores := ComputeSubScores(features, s.weights)
	flags := EvalDomainFlags(features)
	dropout, burnout, disengagement := CompositeScores(scores, s.weights)

	return &Assessment{
		StudentID:     studentID,
		GeneratedAt:   now,
		Features:      features,
		Scores:        scores,
		Flags:         flags,
		Dropout:       dropout,
		Burnout:       burnout,
		Disengagement: disengagement,
	}
}
