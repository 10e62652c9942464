package risk

import (
	"context"
	"sort"
	"time"
)

// RuleModelVersion tags predictions produced without LLM enrichment.
const RuleModelVersion = "rule-based-v1"

// Assessment is the numeric picture handed to a narrator: features,
// scores, and triggered flags for one student.
type Assessment struct {
	StudentID   string
	GeneratedAt time.Time

	Features *Features
	Scores   SubScores
	Flags    DomainFlags

	Dropout       float64
	Burnout       float64
	Disengagement float64
}

// Narrative is the qualitative half of a prediction. A narrator may also
// refine the numeric scores; the rule-based narrator passes them through.
type Narrative struct {
	Dropout       float64
	Burnout       float64
	Disengagement float64

	PrimaryRiskFactors       []string
	ProtectiveFactors        []string
	RecommendedInterventions []string
	EarlyWarningFlags        []string

	Confidence   float64
	ModelVersion string
}

// Narrator turns an assessment into a narrative. Implementations must be
// safe to call concurrently.
type Narrator interface {
	Narrate(ctx context.Context, a *Assessment) (*Narrative, error)
}

// protectiveByDomain is the protective-factor wording for a flag-free domain.
var protectiveByDomain = map[string]string{
	"engagement":  "Consistent check-in engagement",
	"emotional":   "Stable emotional state",
	"performance": "Steady learning progress",
	"social":      "Healthy social engagement",
}

// interventionsByDomain maps the weakest domain to suggested actions.
var interventionsByDomain = map[string][]string{
	"engagement": {
		"Re-establish a daily check-in routine with the student",
		"Schedule a mentor call to reconnect this week",
	},
	"emotional": {
		"Offer a wellbeing conversation with the mentor",
		"Reduce workload until energy and mood recover",
	},
	"performance": {
		"Review the current ARK plan and reset milestone goals",
		"Pair the student with a study partner for the weakest topics",
	},
	"social": {
		"Invite the student to a small group session",
		"Open a low-stakes chat prompt to restart conversation",
	},
}

const escalationIntervention = "Escalate to the mentorship lead for direct outreach"

// RuleNarrator derives all qualitative fields from the flag tables. It is
// the always-available fallback and never returns an error.
type RuleNarrator struct{}

func (RuleNarrator) Narrate(_ context.Context, a *Assessment) (*Narrative, error) {
	n := &Narrative{
		Dropout:       a.Dropout,
		Burnout:       a.Burnout,
		Disengagement: a.Disengagement,
		Confidence:    ruleConfidence(a.Features),
		ModelVersion:  RuleModelVersion,
	}

	flags := orderedFlags(a)
	n.EarlyWarningFlags = flags
	if len(flags) > 3 {
		n.PrimaryRiskFactors = flags[:3]
	} else {
		n.PrimaryRiskFactors = flags
	}

	for _, domain := range []struct {
		name  string
		flags []string
	}{
		{"engagement", a.Flags.Engagement},
		{"emotional", a.Flags.Emotional},
		{"performance", a.Flags.Performance},
		{"social", a.Flags.Social},
	} {
		if len(domain.flags) == 0 {
			n.ProtectiveFactors = append(n.ProtectiveFactors, protectiveByDomain[domain.name])
		}
	}

	weakest, _ := a.Scores.Min()
	if a.Flags.Count() > 0 {
		n.RecommendedInterventions = append(n.RecommendedInterventions, interventionsByDomain[weakest]...)
		level := LevelFor(a.Dropout, a.Burnout, a.Disengagement)
		if level == LevelHigh || level == LevelCritical {
			n.RecommendedInterventions = append(n.RecommendedInterventions, escalationIntervention)
		}
	}

	return n, nil
}

// orderedFlags lists triggered flags with the weakest domains first, so
// the top-3 primary factors point at the biggest problems.
func orderedFlags(a *Assessment) []string {
	domains := []struct {
		score float64
		flags []string
	}{
		{a.Scores.Engagement, a.Flags.Engagement},
		{a.Scores.Emotional, a.Flags.Emotional},
		{a.Scores.Performance, a.Flags.Performance},
		{a.Scores.Social, a.Flags.Social},
	}
	sort.SliceStable(domains, func(i, j int) bool {
		return domains[i].score < domains[j].score
	})

	var out []string
	for _, d := range domains {
		out = append(out, d.flags...)
	}
	return out
}

// ruleConfidence reports data coverage as confidence. Sparse windows read
// as low-confidence predictions; a full window caps below certainty.
func ruleConfidence(f *Features) float64 {
	c := f.Coverage()
	if c > 0.95 {
		return 0.95
	}
	return c
}
