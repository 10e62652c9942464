package mistakes

import "time"

// MistakeType classifies why a wrong answer went wrong.
type MistakeType string

const (
	TypeCalculation          MistakeType = "calculation"
	TypeConceptual           MistakeType = "conceptual"
	TypeApplication          MistakeType = "application"
	TypeReadingComprehension MistakeType = "reading_comprehension"
	TypeTimeManagement       MistakeType = "time_management"
	TypeOther                MistakeType = "other"
)

// MistakeRecord tracks repeated mistakes on one question for one student.
// Records are never hard-deleted; the pattern analysis depends on history
// staying in place. MasteryLevel is always kept within [0,100] and
// NextReviewDate never moves backwards across updates.
type MistakeRecord struct {
	ID              string
	StudentID       string
	QuestionID      string
	Topic           string
	Subject         string
	Type            MistakeType
	Occurrences     int
	FirstOccurrence time.Time
	LastOccurrence  time.Time
	NextReviewDate  time.Time
	MasteryLevel    int
}

// IsDue reports whether the record is at or past its review date.
func (r *MistakeRecord) IsDue(now time.Time) bool {
	return !now.Before(r.NextReviewDate)
}

// ClassifyInput holds the context a classifier sees for one wrong answer.
type ClassifyInput struct {
	QuestionText     string
	Explanation      string
	AttemptedAnswer  string
	CorrectAnswer    string
	TimeSpentSeconds int
}
