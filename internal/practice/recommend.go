package practice

const (
	// PromoteAccuracy is the minimum window accuracy (inclusive) for a tier promotion.
	PromoteAccuracy = 0.8

	// PromoteMaxMinutes is the maximum average time per question (exclusive)
	// for a tier promotion.
	PromoteMaxMinutes = 2.0

	// DemoteAccuracy is the window accuracy (exclusive) below which the tier drops.
	DemoteAccuracy = 0.5

	// DemoteMinutes is the average time per question (exclusive) above which
	// the tier drops regardless of accuracy.
	DemoteMinutes = 5.0
)

// WindowStats summarizes a rolling attempt window.
type WindowStats struct {
	Total      int
	Correct    int
	Accuracy   float64
	AvgMinutes float64
}

// ComputeWindowStats aggregates a window of recent attempts.
func ComputeWindowStats(recent []PracticeAttempt) WindowStats {
	stats := WindowStats{Total: len(recent)}
	if stats.Total == 0 {
		return stats
	}

	totalSeconds := 0
	for _, a := range recent {
		if a.WasCorrect {
			stats.Correct++
		}
		totalSeconds += a.TimeSpentSeconds
	}

	stats.Accuracy = float64(stats.Correct) / float64(stats.Total)
	stats.AvgMinutes = float64(totalSeconds) / float64(stats.Total) / 60.0
	return stats
}

// RecommendDifficulty returns the next difficulty tier for a topic given a
// rolling window of recent attempts. The function is total: an empty window
// returns current unchanged. Promotion and demotion move exactly one tier
// per call, and promotion is checked first so the rules never both fire.
func RecommendDifficulty(recent []PracticeAttempt, current Difficulty) Difficulty {
	stats := ComputeWindowStats(recent)
	if stats.Total == 0 {
		return current
	}

	if stats.Accuracy >= PromoteAccuracy && stats.AvgMinutes < PromoteMaxMinutes {
		return current.StepUp()
	}

	if stats.Accuracy < DemoteAccuracy || stats.AvgMinutes > DemoteMinutes {
		return current.StepDown()
	}

	return current
}
