package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/arkmentor/arkmentor/internal/practice"
)

// AttemptRepo persists practice attempts. Attempts are append-only.
type AttemptRepo struct {
	db *sql.DB
}

// Append records one submitted answer.
func (r *AttemptRepo) Append(ctx context.Context, a *practice.PracticeAttempt) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO practice_attempts
			(question_id, student_id, topic, subject, difficulty,
			 selected_answer, correct_answer, was_correct,
			 time_spent_seconds, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.QuestionID,
		a.StudentID,
		a.Topic,
		a.Subject,
		int(a.Difficulty),
		a.SelectedAnswer,
		a.CorrectAnswer,
		a.WasCorrect,
		a.TimeSpentSeconds,
		a.Timestamp.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("save practice attempt: %w", err)
	}
	return nil
}

// ListRecent returns the student's most recent attempts for a topic,
// newest first, up to limit.
func (r *AttemptRepo) ListRecent(ctx context.Context, studentID, topic string, limit int) ([]practice.PracticeAttempt, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT question_id, student_id, topic, subject, difficulty,
		       selected_answer, correct_answer, was_correct,
		       time_spent_seconds, timestamp
		FROM practice_attempts
		WHERE student_id = ? AND topic = ?
		ORDER BY timestamp DESC, id DESC
		LIMIT ?`, studentID, topic, limit)
	if err != nil {
		return nil, fmt.Errorf("query practice attempts: %w", err)
	}
	defer rows.Close()

	var out []practice.PracticeAttempt
	for rows.Next() {
		var a practice.PracticeAttempt
		var difficulty int
		var ts string
		if err := rows.Scan(
			&a.QuestionID, &a.StudentID, &a.Topic, &a.Subject, &difficulty,
			&a.SelectedAnswer, &a.CorrectAnswer, &a.WasCorrect,
			&a.TimeSpentSeconds, &ts,
		); err != nil {
			return nil, fmt.Errorf("scan practice attempt: %w", err)
		}
		a.Difficulty = practice.Difficulty(difficulty)
		a.Timestamp, _ = time.Parse(time.RFC3339, ts)
		out = append(out, a)
	}
	return out, rows.Err()
}
