package practice

import (
	"testing"
	"time"
)

func makeWindow(correct, wrong, secondsEach int) []PracticeAttempt {
	var attempts []PracticeAttempt
	ts := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < correct; i++ {
		attempts = append(attempts, PracticeAttempt{
			WasCorrect:       true,
			TimeSpentSeconds: secondsEach,
			Timestamp:        ts,
		})
	}
	for i := 0; i < wrong; i++ {
		attempts = append(attempts, PracticeAttempt{
			WasCorrect:       false,
			TimeSpentSeconds: secondsEach,
			Timestamp:        ts,
		})
	}
	return attempts
}

func TestRecommendDifficulty_EmptyWindow(t *testing.T) {
	got := RecommendDifficulty(nil, DifficultyHard)
	if got != DifficultyHard {
		t.Errorf("got %v, want unchanged hard", got)
	}
}

func TestRecommendDifficulty_PromotesOneTier(t *testing.T) {
	// 5/5 correct at 30s each: accuracy 1.0, avg 0.5 min -> promote.
	got := RecommendDifficulty(makeWindow(5, 0, 30), DifficultyEasy)
	if got != DifficultyMedium {
		t.Errorf("got %v, want medium", got)
	}
}

func TestRecommendDifficulty_PromotionCappedAtAdvanced(t *testing.T) {
	got := RecommendDifficulty(makeWindow(5, 0, 30), DifficultyAdvanced)
	if got != DifficultyAdvanced {
		t.Errorf("got %v, want advanced", got)
	}
}

func TestRecommendDifficulty_NoPromotionWhenSlow(t *testing.T) {
	// Perfect accuracy but 3 min average: neither rule fires.
	got := RecommendDifficulty(makeWindow(5, 0, 180), DifficultyMedium)
	if got != DifficultyMedium {
		t.Errorf("got %v, want unchanged medium", got)
	}
}

func TestRecommendDifficulty_DemotesOnLowAccuracy(t *testing.T) {
	// 2/5 correct: accuracy 0.4 -> demote.
	got := RecommendDifficulty(makeWindow(2, 3, 60), DifficultyHard)
	if got != DifficultyMedium {
		t.Errorf("got %v, want medium", got)
	}
}

func TestRecommendDifficulty_DemotesOnSlowness(t *testing.T) {
	// Accuracy 0.6 but 6 min average -> demote.
	got := RecommendDifficulty(makeWindow(3, 2, 360), DifficultyMedium)
	if got != DifficultyEasy {
		t.Errorf("got %v, want easy", got)
	}
}

func TestRecommendDifficulty_DemotionFlooredAtEasy(t *testing.T) {
	got := RecommendDifficulty(makeWindow(0, 5, 60), DifficultyEasy)
	if got != DifficultyEasy {
		t.Errorf("got %v, want easy", got)
	}
}

func TestRecommendDifficulty_AccuracyBoundaryPromotes(t *testing.T) {
	// 4/5 correct is exactly 0.8: inclusive, so it promotes.
	got := RecommendDifficulty(makeWindow(4, 1, 30), DifficultyMedium)
	if got != DifficultyHard {
		t.Errorf("got %v, want hard", got)
	}
}

func TestRecommendDifficulty_StableProfileConverges(t *testing.T) {
	// Repeatedly applying the recommendation with the same window must settle,
	// never oscillate.
	window := makeWindow(5, 0, 30)
	d := DifficultyEasy
	for i := 0; i < 10; i++ {
		d = RecommendDifficulty(window, d)
	}
	if d != DifficultyAdvanced {
		t.Errorf("got %v after convergence, want advanced", d)
	}
	if next := RecommendDifficulty(window, d); next != d {
		t.Errorf("oscillation: %v -> %v", d, next)
	}
}

func TestComputeWindowStats(t *testing.T) {
	stats := ComputeWindowStats(makeWindow(3, 1, 90))
	if stats.Total != 4 || stats.Correct != 3 {
		t.Errorf("got total=%d correct=%d, want 4/3", stats.Total, stats.Correct)
	}
	if stats.Accuracy != 0.75 {
		t.Errorf("got accuracy %f, want 0.75", stats.Accuracy)
	}
	if stats.AvgMinutes != 1.5 {
		t.Errorf("got avg minutes %f, want 1.5", stats.AvgMinutes)
	}
}

func TestDifficultySteps(t *testing.T) {
	if got := DifficultyEasy.StepDown(); got != DifficultyEasy {
		t.Errorf("StepDown at floor: got %v, want easy", got)
	}
	if got := DifficultyHard.StepUp(); got != DifficultyAdvanced {
		t.Errorf("StepUp: got %v, want advanced", got)
	}
}

func TestParseDifficulty_RoundTrip(t *testing.T) {
	for _, d := range []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard, DifficultyAdvanced} {
		parsed, err := ParseDifficulty(d.String())
		if err != nil {
			t.Fatalf("ParseDifficulty(%q): %v", d.String(), err)
		}
		if parsed != d {
			t.Errorf("round trip %v -> %v", d, parsed)
		}
	}
	if _, err := ParseDifficulty("expert"); err == nil {
		t.Error("expected error for unknown tier")
	}
}
