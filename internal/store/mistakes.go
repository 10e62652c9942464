package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/arkmentor/arkmentor/internal/mistakes"
)

// MistakeRepo persists mistake records with compare-and-swap update
// semantics. One row per student and question, enforced by a unique
// constraint.
type MistakeRepo struct {
	db *sql.DB
}

// GetMistakeByQuestion returns the record for a student and question, or
// nil when none exists.
func (r *MistakeRepo) GetMistakeByQuestion(ctx context.Context, studentID, questionID string) (*mistakes.MistakeRecord, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, student_id, question_id, topic, subject, mistake_type,
		       occurrences, first_occurrence, last_occurrence,
		       next_review_date, mastery_level
		FROM mistakes
		WHERE student_id = ? AND question_id = ?`, studentID, questionID)

	rec, err := scanMistake(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query mistake: %w", err)
	}
	return rec, nil
}

// InsertMistake creates a new record. It reports false without error when
// a record for the student and question already exists, so the caller can
// re-read and retry.
func (r *MistakeRepo) InsertMistake(ctx context.Context, rec *mistakes.MistakeRecord) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO mistakes
			(id, student_id, question_id, topic, subject, mistake_type,
			 occurrences, first_occurrence, last_occurrence,
			 next_review_date, mastery_level)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (student_id, question_id) DO NOTHING`,
		rec.ID,
		rec.StudentID,
		rec.QuestionID,
		rec.Topic,
		rec.Subject,
		string(rec.Type),
		rec.Occurrences,
		rec.FirstOccurrence.UTC().Format(time.RFC3339),
		rec.LastOccurrence.UTC().Format(time.RFC3339),
		rec.NextReviewDate.UTC().Format(time.RFC3339),
		rec.MasteryLevel,
	)
	if err != nil {
		return false, fmt.Errorf("insert mistake: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("insert mistake: %w", err)
	}
	return n == 1, nil
}

// SwapMistake applies rec only when the stored occurrence count still
// matches expectedOccurrences. It reports false when another writer got
// there first.
func (r *MistakeRepo) SwapMistake(ctx context.Context, rec *mistakes.MistakeRecord, expectedOccurrences int) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE mistakes
		SET mistake_type = ?, occurrences = ?, last_occurrence = ?,
		    next_review_date = ?, mastery_level = ?
		WHERE id = ? AND occurrences = ?`,
		string(rec.Type),
		rec.Occurrences,
		rec.LastOccurrence.UTC().Format(time.RFC3339),
		rec.NextReviewDate.UTC().Format(time.RFC3339),
		rec.MasteryLevel,
		rec.ID,
		expectedOccurrences,
	)
	if err != nil {
		return false, fmt.Errorf("update mistake: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("update mistake: %w", err)
	}
	return n == 1, nil
}

// ListMistakes returns a student's records, optionally filtered by topic
// and subject. Empty filter values match everything.
func (r *MistakeRepo) ListMistakes(ctx context.Context, studentID, topic, subject string) ([]*mistakes.MistakeRecord, error) {
	query := `
		SELECT id, student_id, question_id, topic, subject, mistake_type,
		       occurrences, first_occurrence, last_occurrence,
		       next_review_date, mastery_level
		FROM mistakes
		WHERE student_id = ?`
	args := []any{studentID}
	if topic != "" {
		query += " AND topic = ?"
		args = append(args, topic)
	}
	if subject != "" {
		query += " AND subject = ?"
		args = append(args, subject)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query mistakes: %w", err)
	}
	defer rows.Close()

	var out []*mistakes.MistakeRecord
	for rows.Next() {
		rec, err := scanMistake(rows)
		if err != nil {
			return nil, fmt.Errorf("scan mistake: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMistake(row rowScanner) (*mistakes.MistakeRecord, error) {
	var rec mistakes.MistakeRecord
	var mtype, first, last, next string
	if err := row.Scan(
		&rec.ID, &rec.StudentID, &rec.QuestionID, &rec.Topic, &rec.Subject,
		&mtype, &rec.Occurrences, &first, &last, &next, &rec.MasteryLevel,
	); err != nil {
		return nil, err
	}
	rec.Type = mistakes.MistakeType(mtype)
	rec.FirstOccurrence, _ = time.Parse(time.RFC3339, first)
	rec.LastOccurrence, _ = time.Parse(time.RFC3339, last)
	rec.NextReviewDate, _ = time.Parse(time.RFC3339, next)
	return &rec, nil
}
