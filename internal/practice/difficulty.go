package practice

import "fmt"

// Difficulty is the ordinal difficulty tier of a practice question.
type Difficulty int

const (
	DifficultyEasy Difficulty = iota
	DifficultyMedium
	DifficultyHard
	DifficultyAdvanced
)

var difficultyNames = [...]string{"easy", "medium", "hard", "advanced"}

func (d Difficulty) String() string {
	if d < DifficultyEasy || d > DifficultyAdvanced {
		return "unknown"
	}
	return difficultyNames[d]
}

// ParseDifficulty converts a stored tier name back to a Difficulty.
func ParseDifficulty(s string) (Difficulty, error) {
	for i, name := range difficultyNames {
		if name == s {
			return Difficulty(i), nil
		}
	}
	return DifficultyEasy, fmt.Errorf("unknown difficulty: %q", s)
}

// StepUp returns the next tier, capped at advanced.
func (d Difficulty) StepUp() Difficulty {
	if d >= DifficultyAdvanced {
		return DifficultyAdvanced
	}
	return d + 1
}

// StepDown returns the previous tier, floored at easy.
func (d Difficulty) StepDown() Difficulty {
	if d <= DifficultyEasy {
		return DifficultyEasy
	}
	return d - 1
}
