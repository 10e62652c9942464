package risk

import "github.com/arkmentor/arkmentor/internal/llm"

// NarrativeSchema defines the JSON schema for LLM risk narrative responses.
var NarrativeSchema = &llm.Schema{
	Name:        "risk-narrative",
	Description: "Refined risk assessment with qualitative factors for a student's 30-day behavioral window",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"dropout_risk": map[string]any{
				"type":        "number",
				"minimum":     0.0,
				"maximum":     100.0,
				"description": "Refined dropout risk score (0-100)",
			},
			"burnout_risk": map[string]any{
				"type":        "number",
				"minimum":     0.0,
				"maximum":     100.0,
				"description": "Refined burnout risk score (0-100)",
			},
			"disengagement_risk": map[string]any{
				"type":        "number",
				"minimum":     0.0,
				"maximum":     100.0,
				"description": "Refined disengagement risk score (0-100)",
			},
			"risk_level": map[string]any{
				"type":        "string",
				"enum":        []any{"low", "medium", "high", "critical"},
				"description": "Overall risk bucket",
			},
			"primary_risk_factors": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "The top contributing risk factors, most important first",
			},
			"protective_factors": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "Behaviors currently protecting the student",
			},
			"recommended_interventions": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "Concrete mentor actions, most urgent first",
			},
			"early_warning_flags": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "All warning signs worth monitoring",
			},
			"confidence": map[string]any{
				"type":        "number",
				"minimum":     0.0,
				"maximum":     1.0,
				"description": "Confidence in this assessment (0.0-1.0)",
			},
		},
		"required": []any{
			"dropout_risk", "burnout_risk", "disengagement_risk", "risk_level",
			"primary_risk_factors", "protective_factors",
			"recommended_interventions", "early_warning_flags", "confidence",
		},
		"additionalProperties": false,
	},
}
