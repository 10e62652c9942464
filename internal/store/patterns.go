package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/arkmentor/arkmentor/internal/risk"
)

// patternDateFormat stores dates without a time component so one row per
// student per calendar day can be enforced by the primary key.
const patternDateFormat = "2006-01-02"

// PatternRepo persists daily behavioral pattern rows.
type PatternRepo struct {
	db *sql.DB
}

// UpsertDaily writes the pattern row for the student and day, replacing
// any existing row for that day.
func (r *PatternRepo) UpsertDaily(ctx context.Context, p *risk.BehavioralPattern) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO behavioral_patterns
			(student_id, date, engagement_score, daily_checkin_completed,
			 avg_emotion_score, avg_energy_level, high_stress_day,
			 ark_progress_delta, xp_earned, milestones_completed,
			 chat_message_count, intervention_count)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (student_id, date) DO UPDATE SET
			engagement_score = excluded.engagement_score,
			daily_checkin_completed = excluded.daily_checkin_completed,
			avg_emotion_score = excluded.avg_emotion_score,
			avg_energy_level = excluded.avg_energy_level,
			high_stress_day = excluded.high_stress_day,
			ark_progress_delta = excluded.ark_progress_delta,
			xp_earned = excluded.xp_earned,
			milestones_completed = excluded.milestones_completed,
			chat_message_count = excluded.chat_message_count,
			intervention_count = excluded.intervention_count`,
		p.StudentID,
		p.Date.UTC().Format(patternDateFormat),
		p.EngagementScore,
		p.DailyCheckinCompleted,
		p.AvgEmotionScore,
		p.AvgEnergyLevel,
		p.HighStressDay,
		p.ArkProgressDelta,
		p.XPEarned,
		p.MilestonesCompleted,
		p.ChatMessageCount,
		p.InterventionCount,
	)
	if err != nil {
		return fmt.Errorf("upsert behavioral pattern: %w", err)
	}
	return nil
}

// ListPatternsSince returns a student's pattern rows with a date on or
// after since.
func (r *PatternRepo) ListPatternsSince(ctx context.Context, studentID string, since time.Time) ([]risk.BehavioralPattern, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT student_id, date, engagement_score, daily_checkin_completed,
		       avg_emotion_score, avg_energy_level, high_stress_day,
		       ark_progress_delta, xp_earned, milestones_completed,
		       chat_message_count, intervention_count
		FROM behavioral_patterns
		WHERE student_id = ? AND date >= ?
		ORDER BY date`, studentID, since.UTC().Format(patternDateFormat))
	if err != nil {
		return nil, fmt.Errorf("query behavioral patterns: %w", err)
	}
	defer rows.Close()

	var out []risk.BehavioralPattern
	for rows.Next() {
		var p risk.BehavioralPattern
		var date string
		if err := rows.Scan(
			&p.StudentID, &date, &p.EngagementScore, &p.DailyCheckinCompleted,
			&p.AvgEmotionScore, &p.AvgEnergyLevel, &p.HighStressDay,
			&p.ArkProgressDelta, &p.XPEarned, &p.MilestonesCompleted,
			&p.ChatMessageCount, &p.InterventionCount,
		); err != nil {
			return nil, fmt.Errorf("scan behavioral pattern: %w", err)
		}
		p.Date, _ = time.Parse(patternDateFormat, date)
		out = append(out, p)
	}
	return out, rows.Err()
}
