package risk

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arkmentor/arkmentor/internal/llm"
)

func riskyAssessment() *Assessment {
	f := &Features{
		Days:                25,
		AvgEngagement:       35,
		AvgEmotion:          3.5,
		AvgEnergy:           4.5,
		EngagementTrend:     TrendDeclining,
		EmotionTrend:        TrendDeclining,
		CheckinRate:         0.4,
		LongestMissedStreak: 6,
		ChatRate:            1,
		StressHighDays:      16,
		ArkProgressRate:     -0.2,
		XPRate:              10,
	}
	return &Assessment{
		StudentID:     "s1",
		Features:      f,
		Scores:        SubScores{Engagement: 35, Emotional: 30, Performance: 45, Social: 50},
		Flags:         EvalDomainFlags(f),
		Dropout:       62,
		Burnout:       68,
		Disengagement: 58,
	}
}

func TestLLMNarratorRefinedScores(t *testing.T) {
	canned := map[string]any{
		"dropout_risk":       65.0,
		"burnout_risk":       72.0,
		"disengagement_risk": 55.0,
		"risk_level":         "high",
		"primary_risk_factors": []string{
			"Emotional state declining for two straight weeks",
			"Check-ins completed on fewer than half of days",
		},
		"protective_factors":        []string{"Still earning XP most days"},
		"recommended_interventions": []string{"Schedule a wellbeing call this week"},
		"early_warning_flags":       []string{"Low emotional state"},
		"confidence":                0.8,
	}
	raw, err := json.Marshal(canned)
	require.NoError(t, err)

	mock := llm.NewMockProvider(llm.MockResponse{Content: raw})
	n := NewLLMNarrator(mock, DefaultNarratorConfig(), nil)

	got, err := n.Narrate(context.Background(), riskyAssessment())
	require.NoError(t, err)

	assert.Equal(t, 65.0, got.Dropout)
	assert.Equal(t, 72.0, got.Burnout)
	assert.Equal(t, 55.0, got.Disengagement)
	assert.Equal(t, "mock", got.ModelVersion)
	assert.Equal(t, 0.8, got.Confidence)
	assert.Len(t, got.PrimaryRiskFactors, 2)
	assert.Equal(t, 1, mock.CallCount())
}

func TestLLMNarratorClampsOutOfRangeScores(t *testing.T) {
	raw, err := json.Marshal(map[string]any{
		"dropout_risk":              140.0,
		"burnout_risk":              -10.0,
		"disengagement_risk":        50.0,
		"risk_level":                "critical",
		"primary_risk_factors":      []string{"x"},
		"protective_factors":        []string{},
		"recommended_interventions": []string{},
		"early_warning_flags":       []string{},
		"confidence":                1.4,
	})
	require.NoError(t, err)

	mock := llm.NewMockProvider(llm.MockResponse{Content: raw})
	n := NewLLMNarrator(mock, DefaultNarratorConfig(), nil)

	got, err := n.Narrate(context.Background(), riskyAssessment())
	require.NoError(t, err)

	assert.Equal(t, 100.0, got.Dropout)
	assert.Equal(t, 0.0, got.Burnout)
	assert.Equal(t, 1.0, got.Confidence)
}

func TestLLMNarratorFallsBackOnProviderError(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Err: &llm.ErrProviderUnavailable{Err: errors.New("connection refused")},
	})
	n := NewLLMNarrator(mock, DefaultNarratorConfig(), nil)

	a := riskyAssessment()
	got, err := n.Narrate(context.Background(), a)
	require.NoError(t, err, "enrichment failure must not surface as an error")

	assert.Equal(t, RuleModelVersion, got.ModelVersion)
	assert.Equal(t, a.Dropout, got.Dropout)
	assert.Equal(t, a.Burnout, got.Burnout)
}

func TestLLMNarratorFallsBackOnMalformedJSON(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: json.RawMessage(`{"dropout_risk": "not a number"`),
	})
	n := NewLLMNarrator(mock, DefaultNarratorConfig(), nil)

	got, err := n.Narrate(context.Background(), riskyAssessment())
	require.NoError(t, err)
	assert.Equal(t, RuleModelVersion, got.ModelVersion)
}

func TestLLMNarratorNilProviderUsesRulePath(t *testing.T) {
	n := NewLLMNarrator(nil, DefaultNarratorConfig(), nil)

	got, err := n.Narrate(context.Background(), riskyAssessment())
	require.NoError(t, err)
	assert.Equal(t, RuleModelVersion, got.ModelVersion)
}

func TestLLMNarratorRequestShape(t *testing.T) {
	raw, _ := json.Marshal(map[string]any{
		"dropout_risk": 60.0, "burnout_risk": 60.0, "disengagement_risk": 60.0,
		"risk_level":                "high",
		"primary_risk_factors":      []string{"x"},
		"protective_factors":        []string{},
		"recommended_interventions": []string{},
		"early_warning_flags":       []string{},
		"confidence":                0.7,
	})
	mock := llm.NewMockProvider(llm.MockResponse{Content: raw})
	n := NewLLMNarrator(mock, DefaultNarratorConfig(), nil)

	_, err := n.Narrate(context.Background(), riskyAssessment())
	require.NoError(t, err)
	require.Len(t, mock.Calls, 1)

	req := mock.Calls[0]
	assert.Equal(t, NarrativeSchema, req.Schema)
	assert.NotEmpty(t, req.System)
	require.Len(t, req.Messages, 1)
	assert.Equal(t, llm.RoleUser, req.Messages[0].Role)
	assert.Contains(t, req.Messages[0].Content, "dropout: 62.0")
	assert.Contains(t, req.Messages[0].Content, "Triggered warning flags:")
}
