package practice

import "time"

// PracticeAttempt is one submitted answer. Attempts are append-only: they
// are written once when the learner answers and never mutated.
type PracticeAttempt struct {
	QuestionID       string
	StudentID        string
	Topic            string
	Subject          string
	Difficulty       Difficulty
	SelectedAnswer   string
	CorrectAnswer    string
	WasCorrect       bool
	TimeSpentSeconds int
	Timestamp        time.Time
}

// Question is a multiple-choice practice question as served to the learner.
type Question struct {
	ID           string
	Topic        string
	Subject      string
	Difficulty   Difficulty
	Text         string
	Choices      []string
	CorrectIndex int
	Explanation  string
}

// Choice returns the choice text at idx, or "" when idx is out of range.
// Submitted answer indexes come from untrusted callers.
func (q *Question) Choice(idx int) string {
	if idx < 0 || idx >= len(q.Choices) {
		return ""
	}
	return q.Choices[idx]
}
