package mistakes

import "time"

// ReviewIntervals defines the expanding review schedule in days, indexed by
// occurrence count (1-based). Counts beyond the table reuse the last entry.
// A fixed lookup rather than a continuous formula: SM-2-inspired, not SM-2.
var ReviewIntervals = []int{1, 3, 7, 14, 30, 60, 120}

const (
	// MasteryStart is the neutral mastery level for a newly created record.
	MasteryStart = 50

	// MasteryPenaltyStep is subtracted from mastery on every repeated mistake.
	MasteryPenaltyStep = 10

	// MasteryRecoverStep is added to mastery after a correct on-schedule
	// review. The review ladder decreases mastery on repeats only; without
	// recovery a record could never climb back, so successful reviews earn
	// back a step and a half.
	MasteryRecoverStep = 15

	// MasteryMax and MasteryMin bound every mastery update.
	MasteryMax = 100
	MasteryMin = 0
)

// IntervalDays returns the review interval for the given occurrence count.
func IntervalDays(occurrences int) int {
	if occurrences < 1 {
		occurrences = 1
	}
	if occurrences > len(ReviewIntervals) {
		return ReviewIntervals[len(ReviewIntervals)-1]
	}
	return ReviewIntervals[occurrences-1]
}

// NextReview returns the review date for a record with the given occurrence
// count, measured from now.
func NextReview(now time.Time, occurrences int) time.Time {
	return now.AddDate(0, 0, IntervalDays(occurrences))
}

// laterOf keeps NextReviewDate monotonically non-decreasing across updates.
func laterOf(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

// clampMastery bounds a mastery level to [MasteryMin, MasteryMax].
func clampMastery(level int) int {
	if level < MasteryMin {
		return MasteryMin
	}
	if level > MasteryMax {
		return MasteryMax
	}
	return level
}
