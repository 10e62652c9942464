package mistakes

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/arkmentor/arkmentor/internal/practice"
)

// Store is the persistence collaborator for mistake records. Writes use
// compare-and-swap semantics: SwapMistake applies an update only when the
// stored occurrence count still matches expectedOccurrences, and
// InsertMistake reports false when another writer created the record
// first. Both signal a conflict without error so the caller can retry the
// whole read-modify-write cycle.
type Store interface {
	GetMistakeByQuestion(ctx context.Context, studentID, questionID string) (*MistakeRecord, error)
	InsertMistake(ctx context.Context, rec *MistakeRecord) (bool, error)
	SwapMistake(ctx context.Context, rec *MistakeRecord, expectedOccurrences int) (bool, error)
	ListMistakes(ctx context.Context, studentID, topic, subject string) ([]*MistakeRecord, error)
}

// maxWriteAttempts bounds the retry loop for conflicting updates.
const maxWriteAttempts = 3

// Service records mistakes, schedules reviews, and analyzes patterns.
type Service struct {
	classifiers []Classifier
	store       Store
	log         *zap.SugaredLogger
}

// NewService creates a mistake tracking service.
func NewService(store Store, log *zap.SugaredLogger) *Service {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Service{
		classifiers: DefaultClassifiers(),
		store:       store,
		log:         log,
	}
}

// Classify runs the rule table against a wrong answer without persisting
// anything.
func (s *Service) Classify(q *practice.Question, attemptedIdx, timeSpentSeconds int) (MistakeType, float64, string) {
	input := &ClassifyInput{
		QuestionText:     q.Text,
		Explanation:      q.Explanation,
		AttemptedAnswer:  q.Choice(attemptedIdx),
		CorrectAnswer:    q.Choice(q.CorrectIndex),
		TimeSpentSeconds: timeSpentSeconds,
	}
	return RunClassifiers(s.classifiers, input)
}

// RecordMistake classifies a wrong answer and upserts the student's record
// for the question. First occurrence creates the record at neutral mastery
// with the first review interval; repeats increment occurrences, drop
// mastery by a fixed step, and push the review date out along the interval
// table. Conflicting concurrent updates retry the full cycle.
func (s *Service) RecordMistake(ctx context.Context, studentID string, q *practice.Question, attemptedIdx, timeSpentSeconds int, now time.Time) (*MistakeRecord, error) {
	mtype, conf, ruleName := s.Classify(q, attemptedIdx, timeSpentSeconds)
	s.log.Debugw("classified mistake",
		"student_id", studentID,
		"question_id", q.ID,
		"type", mtype,
		"confidence", conf,
		"rule", ruleName,
	)

	for attempt := 0; attempt < maxWriteAttempts; attempt++ {
		existing, err := s.store.GetMistakeByQuestion(ctx, studentID, q.ID)
		if err != nil {
			return nil, fmt.Errorf("get mistake record: %w", err)
		}

		if existing == nil {
			rec := &MistakeRecord{
				ID:              uuid.NewString(),
				StudentID:       studentID,
				QuestionID:      q.ID,
				Topic:           q.Topic,
				Subject:         q.Subject,
				Type:            mtype,
				Occurrences:     1,
				FirstOccurrence: now,
				LastOccurrence:  now,
				NextReviewDate:  NextReview(now, 1),
				MasteryLevel:    MasteryStart,
			}
			inserted, err := s.store.InsertMistake(ctx, rec)
			if err != nil {
				return nil, fmt.Errorf("insert mistake record: %w", err)
			}
			if inserted {
				return rec, nil
			}
			// Another writer created the record between Get and Insert.
			continue
		}

		updated := *existing
		updated.Occurrences = existing.Occurrences + 1
		updated.LastOccurrence = now
		updated.MasteryLevel = clampMastery(existing.MasteryLevel - MasteryPenaltyStep)
		updated.NextReviewDate = laterOf(existing.NextReviewDate, NextReview(now, updated.Occurrences))

		swapped, err := s.store.SwapMistake(ctx, &updated, existing.Occurrences)
		if err != nil {
			return nil, fmt.Errorf("update mistake record: %w", err)
		}
		if swapped {
			return &updated, nil
		}
		s.log.Debugw("mistake update conflict, retrying",
			"student_id", studentID, "question_id", q.ID, "attempt", attempt+1)
	}

	return nil, fmt.Errorf("record mistake for question %s: too many write conflicts", q.ID)
}

// RecordReview applies a spaced-repetition review outcome. A correct
// on-schedule review recovers mastery and advances the review date along
// the interval table; an incorrect review drops mastery and schedules a
// short retry. The review date never moves backwards either way.
func (s *Service) RecordReview(ctx context.Context, studentID, questionID string, correct bool, now time.Time) (*MistakeRecord, error) {
	for attempt := 0; attempt < maxWriteAttempts; attempt++ {
		existing, err := s.store.GetMistakeByQuestion(ctx, studentID, questionID)
		if err != nil {
			return nil, fmt.Errorf("get mistake record: %w", err)
		}
		if existing == nil {
			return nil, fmt.Errorf("no mistake record for question %s", questionID)
		}

		updated := *existing
		if correct {
			updated.MasteryLevel = clampMastery(existing.MasteryLevel + MasteryRecoverStep)
			updated.NextReviewDate = laterOf(existing.NextReviewDate, NextReview(now, existing.Occurrences))
		} else {
			updated.MasteryLevel = clampMastery(existing.MasteryLevel - MasteryPenaltyStep)
			updated.NextReviewDate = laterOf(existing.NextReviewDate, NextReview(now, 1))
		}

		swapped, err := s.store.SwapMistake(ctx, &updated, existing.Occurrences)
		if err != nil {
			return nil, fmt.Errorf("update mistake record: %w", err)
		}
		if swapped {
			return &updated, nil
		}
	}

	return nil, fmt.Errorf("record review for question %s: too many write conflicts", questionID)
}

// Due filters records that are at or past their review date and orders
// them most-repeated first, earliest review date second.
func Due(records []*MistakeRecord, now time.Time) []*MistakeRecord {
	var due []*MistakeRecord
	for _, r := range records {
		if r.IsDue(now) {
			due = append(due, r)
		}
	}
	sort.SliceStable(due, func(i, j int) bool {
		if due[i].Occurrences != due[j].Occurrences {
			return due[i].Occurrences > due[j].Occurrences
		}
		return due[i].NextReviewDate.Before(due[j].NextReviewDate)
	})
	return due
}

// DueForReview loads a student's records, optionally filtered by topic
// and subject, and returns the ones due now.
func (s *Service) DueForReview(ctx context.Context, studentID, topic, subject string, now time.Time) ([]*MistakeRecord, error) {
	records, err := s.store.ListMistakes(ctx, studentID, topic, subject)
	if err != nil {
		return nil, fmt.Errorf("list mistake records: %w", err)
	}
	return Due(records, now), nil
}
