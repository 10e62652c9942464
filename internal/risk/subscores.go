package risk

// SubScores are the four domain health scores, 0-100 each, higher is
// healthier.
type SubScores struct {
	Engagement  float64
	Emotional   float64
	Performance float64
	Social      float64
}

// Min returns the weakest domain name and its score.
func (s SubScores) Min() (string, float64) {
	name, score := "engagement", s.Engagement
	if s.Emotional < score {
		name, score = "emotional", s.Emotional
	}
	if s.Performance < score {
		name, score = "performance", s.Performance
	}
	if s.Social < score {
		name, score = "social", s.Social
	}
	return name, score
}

// Blend weighs the four domains in a composite; weights sum to 1.
type Blend struct {
	Engagement  float64
	Emotional   float64
	Performance float64
	Social      float64
}

func (b Blend) apply(s SubScores) float64 {
	return b.Engagement*s.Engagement +
		b.Emotional*s.Emotional +
		b.Performance*s.Performance +
		b.Social*s.Social
}

// Weights is the tunable scoring configuration: per-domain feature
// weights plus the composite blends. The contract is monotonicity, not
// the particular numbers: healthier feature values must never lower a
// sub-score.
type Weights struct {
	EngagementAvg     float64
	EngagementCheckin float64
	EngagementChat    float64
	EngagementStreak  float64

	EmotionalMood   float64
	EmotionalEnergy float64
	EmotionalStress float64

	PerformanceProgress float64
	PerformanceXP       float64
	PerformanceSteady   float64

	SocialChat         float64
	SocialIntervention float64

	DropoutBlend       Blend
	BurnoutBlend       Blend
	DisengagementBlend Blend
}

// DefaultWeights returns the production scoring configuration.
func DefaultWeights() Weights {
	return Weights{
		EngagementAvg:     0.40,
		EngagementCheckin: 0.30,
		EngagementChat:    0.15,
		EngagementStreak:  0.15,

		EmotionalMood:   0.40,
		EmotionalEnergy: 0.30,
		EmotionalStress: 0.30,

		PerformanceProgress: 0.40,
		PerformanceXP:       0.30,
		PerformanceSteady:   0.30,

		SocialChat:         0.60,
		SocialIntervention: 0.40,

		DropoutBlend:       Blend{Engagement: 0.35, Emotional: 0.20, Performance: 0.30, Social: 0.15},
		BurnoutBlend:       Blend{Engagement: 0.20, Emotional: 0.50, Performance: 0.20, Social: 0.10},
		DisengagementBlend: Blend{Engagement: 0.45, Emotional: 0.10, Performance: 0.15, Social: 0.30},
	}
}

// Feature normalization anchors: the value at which a rate saturates its
// contribution.
const (
	chatRateFull    = 10.0 // messages/day treated as full chat engagement
	streakFull      = 7.0  // days of current streak treated as full habit
	xpRateFull      = 50.0 // XP/day treated as full earning pace
	progressSwing   = 5.0  // |daily progress delta| mapped onto the score range
	perIntervention = 20.0 // score cost of each intervention
)

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

func clamp100(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 100 {
		return 100
	}
	return x
}

// ComputeSubScores turns extracted features into the four domain scores.
// Every term is normalized to [0,100] with healthier behavior scoring
// higher, then combined by the weight table.
func ComputeSubScores(f *Features, w Weights) SubScores {
	chatScore := clamp01(f.ChatRate/chatRateFull) * 100
	streakScore := clamp01(float64(f.CurrentStreak)/streakFull) * 100

	engagement := w.EngagementAvg*clamp100(f.AvgEngagement) +
		w.EngagementCheckin*clamp01(f.CheckinRate)*100 +
		w.EngagementChat*chatScore +
		w.EngagementStreak*streakScore

	stressScore := clamp01(1-float64(f.StressHighDays)/WindowDays) * 100
	emotional := w.EmotionalMood*clamp01(f.AvgEmotion/10)*100 +
		w.EmotionalEnergy*clamp01(f.AvgEnergy/10)*100 +
		w.EmotionalStress*stressScore

	progressScore := clamp100(50 + f.ArkProgressRate/progressSwing*50)
	steadyScore := clamp01(1-float64(f.ProgressDeclineDays)/WindowDays) * 100
	performance := w.PerformanceProgress*progressScore +
		w.PerformanceXP*clamp01(f.XPRate/xpRateFull)*100 +
		w.PerformanceSteady*steadyScore

	interventionScore := clamp100(100 - float64(f.InterventionCount)*perIntervention)
	social := w.SocialChat*chatScore +
		w.SocialIntervention*interventionScore

	return SubScores{
		Engagement:  clamp100(engagement),
		Emotional:   clamp100(emotional),
		Performance: clamp100(performance),
		Social:      clamp100(social),
	}
}

// CompositeScores inverts the blended sub-scores into the three risk
// scores: lower health means higher risk.
func CompositeScores(s SubScores, w Weights) (dropout, burnout, disengagement float64) {
	dropout = clamp100(100 - w.DropoutBlend.apply(s))
	burnout = clamp100(100 - w.BurnoutBlend.apply(s))
	disengagement = clamp100(100 - w.DisengagementBlend.apply(s))
	return dropout, burnout, disengagement
}
