package risk

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeRiskStore struct {
	patterns []BehavioralPattern
	listErr  error
	saveErr  error
	saved    []*RiskPrediction
}

func (s *fakeRiskStore) ListPatternsSince(_ context.Context, studentID string, since time.Time) ([]BehavioralPattern, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	var out []BehavioralPattern
	for _, p := range s.patterns {
		if p.StudentID == studentID && !p.Date.Before(since) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *fakeRiskStore) SavePrediction(_ context.Context, p *RiskPrediction) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saved = append(s.saved, p)
	return nil
}

func TestScoreRiskHealthyStudentIsLow(t *testing.T) {
	store := &fakeRiskStore{patterns: fullWindow(nil)}
	svc := NewService(store, nil, nil)

	p, err := svc.ScoreRisk(context.Background(), "s1", testNow)
	if err != nil {
		t.Fatalf("ScoreRisk returned error: %v", err)
	}

	if p.RiskLevel != LevelLow {
		t.Errorf("RiskLevel = %q, want %q", p.RiskLevel, LevelLow)
	}
	if len(p.ProtectiveFactors) == 0 {
		t.Error("ProtectiveFactors empty, want one per healthy domain")
	}
	if len(p.EarlyWarningFlags) != 0 {
		t.Errorf("EarlyWarningFlags = %v, want none", p.EarlyWarningFlags)
	}
	if p.ModelVersion != RuleModelVersion {
		t.Errorf("ModelVersion = %q, want %q", p.ModelVersion, RuleModelVersion)
	}
	if p.ID == "" || p.StudentID != "s1" {
		t.Errorf("prediction identity = %q/%q, want uuid and s1", p.ID, p.StudentID)
	}
}

func TestScoreRiskStrugglingStudentEscalates(t *testing.T) {
	// No check-ins, flat emotion, no chat, regressing progress.
	patterns := fullWindow(func(_ int, p *BehavioralPattern) {
		p.EngagementScore = 15
		p.DailyCheckinCompleted = false
		p.AvgEmotionScore = 2.5
		p.AvgEnergyLevel = 3
		p.HighStressDay = true
		p.ArkProgressDelta = -1
		p.XPEarned = 0
		p.ChatMessageCount = 0
	})
	store := &fakeRiskStore{patterns: patterns}
	svc := NewService(store, nil, nil)

	p, err := svc.ScoreRisk(context.Background(), "s1", testNow)
	if err != nil {
		t.Fatalf("ScoreRisk returned error: %v", err)
	}

	if p.RiskLevel != LevelCritical && p.RiskLevel != LevelHigh {
		t.Errorf("RiskLevel = %q, want high or critical", p.RiskLevel)
	}
	if len(p.PrimaryRiskFactors) != 3 {
		t.Errorf("PrimaryRiskFactors = %v, want top 3", p.PrimaryRiskFactors)
	}
	found := false
	for _, iv := range p.RecommendedInterventions {
		if iv == escalationIntervention {
			found = true
		}
	}
	if !found {
		t.Errorf("RecommendedInterventions = %v, want escalation entry", p.RecommendedInterventions)
	}
}

func TestScoreRiskPersistsPrediction(t *testing.T) {
	store := &fakeRiskStore{patterns: fullWindow(nil)}
	svc := NewService(store, nil, nil)

	p, err := svc.ScoreRisk(context.Background(), "s1", testNow)
	if err != nil {
		t.Fatalf("ScoreRisk returned error: %v", err)
	}
	if len(store.saved) != 1 {
		t.Fatalf("saved %d predictions, want 1", len(store.saved))
	}
	if store.saved[0] != p {
		t.Error("persisted prediction is not the returned one")
	}
}

func TestScoreRiskNoDataStillPredicts(t *testing.T) {
	store := &fakeRiskStore{}
	svc := NewService(store, nil, nil)

	p, err := svc.ScoreRisk(context.Background(), "ghost", testNow)
	if err != nil {
		t.Fatalf("ScoreRisk returned error: %v", err)
	}
	if p.ConfidenceScore != 0 {
		t.Errorf("ConfidenceScore = %v, want 0 for empty window", p.ConfidenceScore)
	}
}

func TestScoreRiskStoreErrors(t *testing.T) {
	svc := NewService(&fakeRiskStore{listErr: errors.New("db locked")}, nil, nil)
	if _, err := svc.ScoreRisk(context.Background(), "s1", testNow); err == nil {
		t.Error("want error when pattern loading fails")
	}

	svc = NewService(&fakeRiskStore{saveErr: errors.New("db locked")}, nil, nil)
	if _, err := svc.ScoreRisk(context.Background(), "s1", testNow); err == nil {
		t.Error("want error when saving fails")
	}
}

type failingNarrator struct{}

func (failingNarrator) Narrate(context.Context, *Assessment) (*Narrative, error) {
	return nil, errors.New("provider exploded")
}

func TestScoreRiskNarratorFailureFallsBack(t *testing.T) {
	store := &fakeRiskStore{patterns: fullWindow(nil)}
	svc := NewService(store, failingNarrator{}, nil)

	p, err := svc.ScoreRisk(context.Background(), "s1", testNow)
	if err != nil {
		t.Fatalf("ScoreRisk returned error: %v", err)
	}
	if p.ModelVersion != RuleModelVersion {
		t.Errorf("ModelVersion = %q, want rule-based fallback", p.ModelVersion)
	}
}
