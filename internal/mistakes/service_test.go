package mistakes

import (
	"context"
	"testing"
	"time"

	"github.com/arkmentor/arkmentor/internal/practice"
)

// fakeStore is an in-memory Store with optional injected swap conflicts.
type fakeStore struct {
	records       map[string]*MistakeRecord // keyed by studentID+"/"+questionID
	swapConflicts int                       // fail this many swaps before succeeding
	inserts       int
	swaps         int
}

func newFakeStore() *fakeStore {
	return &fakeStore{records: make(map[string]*MistakeRecord)}
}

func (f *fakeStore) key(studentID, questionID string) string {
	return studentID + "/" + questionID
}

func (f *fakeStore) GetMistakeByQuestion(_ context.Context, studentID, questionID string) (*MistakeRecord, error) {
	if rec, ok := f.records[f.key(studentID, questionID)]; ok {
		cp := *rec
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeStore) InsertMistake(_ context.Context, rec *MistakeRecord) (bool, error) {
	f.inserts++
	k := f.key(rec.StudentID, rec.QuestionID)
	if _, ok := f.records[k]; ok {
		return false, nil
	}
	cp := *rec
	f.records[k] = &cp
	return true, nil
}

func (f *fakeStore) SwapMistake(_ context.Context, rec *MistakeRecord, expectedOccurrences int) (bool, error) {
	f.swaps++
	if f.swapConflicts > 0 {
		f.swapConflicts--
		return false, nil
	}
	k := f.key(rec.StudentID, rec.QuestionID)
	existing, ok := f.records[k]
	if !ok || existing.Occurrences != expectedOccurrences {
		return false, nil
	}
	cp := *rec
	f.records[k] = &cp
	return true, nil
}

func (f *fakeStore) ListMistakes(_ context.Context, studentID, topic, subject string) ([]*MistakeRecord, error) {
	var out []*MistakeRecord
	for _, rec := range f.records {
		if rec.StudentID != studentID {
			continue
		}
		if topic != "" && rec.Topic != topic {
			continue
		}
		if subject != "" && rec.Subject != subject {
			continue
		}
		cp := *rec
		out = append(out, &cp)
	}
	return out, nil
}

func fractionQuestion() *practice.Question {
	return &practice.Question{
		ID:           "q-frac-7",
		Topic:        "fractions",
		Subject:      "math",
		Difficulty:   practice.DifficultyMedium,
		Text:         "What is 1/2 + 1/4?",
		Choices:      []string{"2/6", "3/4", "1/4"},
		CorrectIndex: 1,
		Explanation:  "Convert to a common denominator before adding.",
	}
}

func TestRecordMistake_CreatesNeutralRecord(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, nil)
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	rec, err := svc.RecordMistake(context.Background(), "stu-1", fractionQuestion(), 0, 45, now)
	if err != nil {
		t.Fatalf("RecordMistake: %v", err)
	}

	if rec.Occurrences != 1 {
		t.Errorf("got occurrences %d, want 1", rec.Occurrences)
	}
	if rec.MasteryLevel != MasteryStart {
		t.Errorf("got mastery %d, want %d", rec.MasteryLevel, MasteryStart)
	}
	want := now.AddDate(0, 0, 1)
	if !rec.NextReviewDate.Equal(want) {
		t.Errorf("got next review %v, want %v", rec.NextReviewDate, want)
	}
	if rec.Type != TypeCalculation {
		t.Errorf("got type %q, want calculation for numeric mismatch", rec.Type)
	}
	if rec.Topic != "fractions" || rec.Subject != "math" {
		t.Errorf("record did not carry topic/subject: %+v", rec)
	}
}

func TestRecordMistake_RepeatIncrementsAndReschedules(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, nil)
	ctx := context.Background()
	q := fractionQuestion()
	day1 := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	day3 := day1.AddDate(0, 0, 2)

	if _, err := svc.RecordMistake(ctx, "stu-1", q, 0, 45, day1); err != nil {
		t.Fatalf("first RecordMistake: %v", err)
	}
	rec, err := svc.RecordMistake(ctx, "stu-1", q, 2, 45, day3)
	if err != nil {
		t.Fatalf("second RecordMistake: %v", err)
	}

	if rec.Occurrences != 2 {
		t.Errorf("got occurrences %d, want 2", rec.Occurrences)
	}
	if rec.MasteryLevel != MasteryStart-MasteryPenaltyStep {
		t.Errorf("got mastery %d, want %d", rec.MasteryLevel, MasteryStart-MasteryPenaltyStep)
	}
	want := day3.AddDate(0, 0, 3)
	if !rec.NextReviewDate.Equal(want) {
		t.Errorf("got next review %v, want %v", rec.NextReviewDate, want)
	}
	if !rec.LastOccurrence.Equal(day3) {
		t.Errorf("got last occurrence %v, want %v", rec.LastOccurrence, day3)
	}
	if !rec.FirstOccurrence.Equal(day1) {
		t.Errorf("first occurrence moved: %v", rec.FirstOccurrence)
	}
}

func TestRecordMistake_ReviewDateNeverRegresses(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, nil)
	ctx := context.Background()
	q := fractionQuestion()
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	var prev time.Time
	for i := 0; i < 9; i++ {
		rec, err := svc.RecordMistake(ctx, "stu-1", q, 0, 45, base.AddDate(0, 0, i))
		if err != nil {
			t.Fatalf("RecordMistake %d: %v", i, err)
		}
		if i > 0 && rec.NextReviewDate.Before(prev) {
			t.Errorf("update %d moved review date backwards: %v -> %v", i, prev, rec.NextReviewDate)
		}
		prev = rec.NextReviewDate
		if rec.MasteryLevel < 0 || rec.MasteryLevel > 100 {
			t.Errorf("mastery %d out of bounds after update %d", rec.MasteryLevel, i)
		}
	}
}

func TestRecordMistake_RetriesOnSwapConflict(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, nil)
	ctx := context.Background()
	q := fractionQuestion()
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	if _, err := svc.RecordMistake(ctx, "stu-1", q, 0, 45, now); err != nil {
		t.Fatalf("seed RecordMistake: %v", err)
	}

	store.swapConflicts = 1
	rec, err := svc.RecordMistake(ctx, "stu-1", q, 0, 45, now.AddDate(0, 0, 1))
	if err != nil {
		t.Fatalf("RecordMistake with conflict: %v", err)
	}
	if rec.Occurrences != 2 {
		t.Errorf("got occurrences %d after retry, want 2", rec.Occurrences)
	}
	if store.swaps < 2 {
		t.Errorf("got %d swap calls, want a retry after the conflict", store.swaps)
	}
}

func TestRecordMistake_GivesUpAfterRepeatedConflicts(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, nil)
	ctx := context.Background()
	q := fractionQuestion()
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	if _, err := svc.RecordMistake(ctx, "stu-1", q, 0, 45, now); err != nil {
		t.Fatalf("seed RecordMistake: %v", err)
	}

	store.swapConflicts = maxWriteAttempts
	if _, err := svc.RecordMistake(ctx, "stu-1", q, 0, 45, now.AddDate(0, 0, 1)); err == nil {
		t.Error("expected error after exhausting write attempts")
	}
}

func TestRecordReview_CorrectRecoversMastery(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, nil)
	ctx := context.Background()
	q := fractionQuestion()
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	if _, err := svc.RecordMistake(ctx, "stu-1", q, 0, 45, now); err != nil {
		t.Fatalf("seed RecordMistake: %v", err)
	}

	reviewDay := now.AddDate(0, 0, 1)
	rec, err := svc.RecordReview(ctx, "stu-1", q.ID, true, reviewDay)
	if err != nil {
		t.Fatalf("RecordReview: %v", err)
	}
	if rec.MasteryLevel != MasteryStart+MasteryRecoverStep {
		t.Errorf("got mastery %d, want %d", rec.MasteryLevel, MasteryStart+MasteryRecoverStep)
	}
	if rec.NextReviewDate.Before(reviewDay) {
		t.Errorf("review date %v not advanced past %v", rec.NextReviewDate, reviewDay)
	}
	if rec.Occurrences != 1 {
		t.Errorf("review changed occurrences: %d", rec.Occurrences)
	}
}

func TestRecordReview_IncorrectDropsMastery(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, nil)
	ctx := context.Background()
	q := fractionQuestion()
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	if _, err := svc.RecordMistake(ctx, "stu-1", q, 0, 45, now); err != nil {
		t.Fatalf("seed RecordMistake: %v", err)
	}

	rec, err := svc.RecordReview(ctx, "stu-1", q.ID, false, now.AddDate(0, 0, 1))
	if err != nil {
		t.Fatalf("RecordReview: %v", err)
	}
	if rec.MasteryLevel != MasteryStart-MasteryPenaltyStep {
		t.Errorf("got mastery %d, want %d", rec.MasteryLevel, MasteryStart-MasteryPenaltyStep)
	}
}

func TestRecordReview_UnknownRecord(t *testing.T) {
	svc := NewService(newFakeStore(), nil)
	if _, err := svc.RecordReview(context.Background(), "stu-1", "missing", true, time.Now()); err == nil {
		t.Error("expected error for unknown record")
	}
}

func TestDue_FiltersAndOrders(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	records := []*MistakeRecord{
		{QuestionID: "future", Occurrences: 9, NextReviewDate: now.AddDate(0, 0, 2)},
		{QuestionID: "old-few", Occurrences: 2, NextReviewDate: now.AddDate(0, 0, -5)},
		{QuestionID: "old-many", Occurrences: 4, NextReviewDate: now.AddDate(0, 0, -1)},
		{QuestionID: "same-count-later", Occurrences: 2, NextReviewDate: now.AddDate(0, 0, -2)},
	}

	due := Due(records, now)
	if len(due) != 3 {
		t.Fatalf("got %d due records, want 3", len(due))
	}
	for _, r := range due {
		if r.NextReviewDate.After(now) {
			t.Errorf("record %s due in the future", r.QuestionID)
		}
	}
	wantOrder := []string{"old-many", "old-few", "same-count-later"}
	for i, want := range wantOrder {
		if due[i].QuestionID != want {
			t.Errorf("position %d: got %s, want %s", i, due[i].QuestionID, want)
		}
	}
}

func TestDue_ExactlyAtNowIsDue(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	due := Due([]*MistakeRecord{{QuestionID: "edge", NextReviewDate: now}}, now)
	if len(due) != 1 {
		t.Errorf("got %d due records, want record due exactly at now", len(due))
	}
}
