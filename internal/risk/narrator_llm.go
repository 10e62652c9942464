package risk

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"text/template"

	"go.uber.org/zap"

	"github.com/arkmentor/arkmentor/internal/llm"
)

// NarratorConfig holds LLM narrator tuning.
type NarratorConfig struct {
	MaxTokens   int
	Temperature float64
}

// DefaultNarratorConfig returns sensible defaults.
func DefaultNarratorConfig() NarratorConfig {
	return NarratorConfig{
		MaxTokens:   512,
		Temperature: 0.2,
	}
}

// LLMNarrator refines the numeric assessment with a text-generation
// provider. Any failure (transport, malformed payload, schema mismatch)
// degrades silently to the rule-based narrator; callers never see an
// error from the enrichment path.
type LLMNarrator struct {
	provider llm.Provider
	fallback Narrator
	cfg      NarratorConfig
	log      *zap.SugaredLogger
}

// NewLLMNarrator creates an LLM-backed narrator with a rule-based fallback.
func NewLLMNarrator(provider llm.Provider, cfg NarratorConfig, log *zap.SugaredLogger) *LLMNarrator {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &LLMNarrator{
		provider: provider,
		fallback: RuleNarrator{},
		cfg:      cfg,
		log:      log,
	}
}

// narrativeOutput is the raw LLM response.
type narrativeOutput struct {
	DropoutRisk              float64  `json:"dropout_risk"`
	BurnoutRisk              float64  `json:"burnout_risk"`
	DisengagementRisk        float64  `json:"disengagement_risk"`
	RiskLevel                string   `json:"risk_level"`
	PrimaryRiskFactors       []string `json:"primary_risk_factors"`
	ProtectiveFactors        []string `json:"protective_factors"`
	RecommendedInterventions []string `json:"recommended_interventions"`
	EarlyWarningFlags        []string `json:"early_warning_flags"`
	Confidence               float64  `json:"confidence"`
}

func (n *LLMNarrator) Narrate(ctx context.Context, a *Assessment) (*Narrative, error) {
	if n.provider == nil {
		return n.fallback.Narrate(ctx, a)
	}

	ctx = llm.WithPurpose(ctx, "risk-narrative")

	userMsg, err := buildNarrativeMessage(a)
	if err != nil {
		n.log.Warnw("risk narrative prompt failed, using rule-based path", "error", err)
		return n.fallback.Narrate(ctx, a)
	}

	resp, err := n.provider.Generate(ctx, llm.Request{
		System: narrativeSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: userMsg},
		},
		Schema:      NarrativeSchema,
		MaxTokens:   n.cfg.MaxTokens,
		Temperature: n.cfg.Temperature,
	})
	if err != nil {
		n.log.Warnw("risk narrative generation failed, using rule-based path",
			"student_id", a.StudentID, "error", err)
		return n.fallback.Narrate(ctx, a)
	}

	var raw narrativeOutput
	if err := json.Unmarshal(resp.Content, &raw); err != nil {
		n.log.Warnw("risk narrative response malformed, using rule-based path",
			"student_id", a.StudentID, "error", err)
		return n.fallback.Narrate(ctx, a)
	}

	return &Narrative{
		Dropout:                  clamp100(raw.DropoutRisk),
		Burnout:                  clamp100(raw.BurnoutRisk),
		Disengagement:            clamp100(raw.DisengagementRisk),
		PrimaryRiskFactors:       raw.PrimaryRiskFactors,
		ProtectiveFactors:        raw.ProtectiveFactors,
		RecommendedInterventions: raw.RecommendedInterventions,
		EarlyWarningFlags:        raw.EarlyWarningFlags,
		Confidence:               clamp01(raw.Confidence),
		ModelVersion:             n.provider.ModelID(),
	}, nil
}

const narrativeSystemPrompt = `You are a student-success analyst for a mentorship platform. You receive a numeric risk assessment computed from 30 days of behavioral telemetry. Refine it.

Instructions:
- Keep refined scores close to the computed ones; adjust only where the flags clearly justify it.
- Risk factors, protective factors, and interventions must be grounded in the listed features and flags. Do not invent telemetry.
- Interventions are concrete actions a human mentor can take this week.
- Keep every list entry to one short sentence.`

var narrativeUserTemplate = template.Must(template.New("narrative").Funcs(template.FuncMap{
	"pct": func(v float64) float64 { return v * 100 },
}).Parse(`Student window: {{.Features.Days}} of 30 days with telemetry.

Computed risk scores:
- dropout: {{printf "%.1f" .Dropout}}
- burnout: {{printf "%.1f" .Burnout}}
- disengagement: {{printf "%.1f" .Disengagement}}

Domain health (0-100, higher is healthier):
- engagement: {{printf "%.1f" .Scores.Engagement}} ({{.Features.EngagementTrend}})
- emotional: {{printf "%.1f" .Scores.Emotional}} ({{.Features.EmotionTrend}})
- performance: {{printf "%.1f" .Scores.Performance}}
- social: {{printf "%.1f" .Scores.Social}}

Key features:
- check-in completion {{printf "%.0f" (pct .Features.CheckinRate)}}%, current streak {{.Features.CurrentStreak}} days, longest gap {{.Features.LongestMissedStreak}} days
- avg emotion {{printf "%.1f" .Features.AvgEmotion}}/10, avg energy {{printf "%.1f" .Features.AvgEnergy}}/10, high-stress days {{.Features.StressHighDays}}
- ARK progress rate {{printf "%.2f" .Features.ArkProgressRate}}/day, decline days {{.Features.ProgressDeclineDays}}, XP rate {{printf "%.1f" .Features.XPRate}}/day
- chat rate {{printf "%.1f" .Features.ChatRate}}/day, interventions {{.Features.InterventionCount}}

Triggered warning flags:
{{if .AllFlags}}{{range .AllFlags}}- {{.}}
{{end}}{{else}}- none
{{end}}`))

type narrativePromptData struct {
	*Assessment
	AllFlags []string
}

func buildNarrativeMessage(a *Assessment) (string, error) {
	var buf bytes.Buffer
	if err := narrativeUserTemplate.Execute(&buf, narrativePromptData{
		Assessment: a,
		AllFlags:   a.Flags.All(),
	}); err != nil {
		return "", err
	}
	return strings.TrimSpace(buf.String()), nil
}
