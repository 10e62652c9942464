package risk

import "time"

// BehavioralPattern is one calendar day of aggregated telemetry for a
// student, produced by collaborators outside this engine. Read-only input.
type BehavioralPattern struct {
	StudentID             string
	Date                  time.Time
	EngagementScore       float64 // 0-100
	DailyCheckinCompleted bool
	AvgEmotionScore       float64 // 0-10
	AvgEnergyLevel        float64 // 0-10
	HighStressDay         bool
	ArkProgressDelta      float64
	XPEarned              int
	MilestonesCompleted   int
	ChatMessageCount      int
	InterventionCount     int
}

// RiskLevel is the coarse bucket derived from the maximum composite score.
type RiskLevel string

const (
	LevelLow      RiskLevel = "low"
	LevelMedium   RiskLevel = "medium"
	LevelHigh     RiskLevel = "high"
	LevelCritical RiskLevel = "critical"
)

// Risk level thresholds over the maximum composite score.
const (
	CriticalThreshold = 75.0
	HighThreshold     = 55.0
	MediumThreshold   = 35.0
)

// LevelFor derives the risk level from the three composite scores. The
// mapping is deterministic: max score against fixed thresholds.
func LevelFor(dropout, burnout, disengagement float64) RiskLevel {
	maxRisk := dropout
	if burnout > maxRisk {
		maxRisk = burnout
	}
	if disengagement > maxRisk {
		maxRisk = disengagement
	}

	switch {
	case maxRisk >= CriticalThreshold:
		return LevelCritical
	case maxRisk >= HighThreshold:
		return LevelHigh
	case maxRisk >= MediumThreshold:
		return LevelMedium
	default:
		return LevelLow
	}
}

// RiskPrediction is one scoring run's output. Predictions are append-only
// history: a new row per request, never mutated.
type RiskPrediction struct {
	ID                       string
	StudentID                string
	PredictionDate           time.Time
	DropoutRiskScore         float64
	BurnoutRiskScore         float64
	DisengagementRiskScore   float64
	RiskLevel                RiskLevel
	PrimaryRiskFactors       []string
	ProtectiveFactors        []string
	RecommendedInterventions []string
	EarlyWarningFlags        []string
	ConfidenceScore          float64
	ModelVersion             string
}
