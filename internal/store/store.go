package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

// Store wraps the SQLite database and provides access to repositories.
type Store struct {
	db  *sql.DB
	seq *sequenceCounter
}

// Open creates a new Store connected to the SQLite database at dsn.
// It applies recommended pragmas and creates missing tables.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	seq, err := newSequenceCounter(db)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("init sequence counter: %w", err)
	}

	return &Store{db: db, seq: seq}, nil
}

// DB returns the underlying *sql.DB for raw queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// AttemptRepo returns the practice attempt repository.
func (s *Store) AttemptRepo() *AttemptRepo {
	return &AttemptRepo{db: s.db}
}

// MistakeRepo returns the mistake record repository.
func (s *Store) MistakeRepo() *MistakeRepo {
	return &MistakeRepo{db: s.db}
}

// PatternRepo returns the behavioral pattern repository.
func (s *Store) PatternRepo() *PatternRepo {
	return &PatternRepo{db: s.db}
}

// PredictionRepo returns the risk prediction repository.
func (s *Store) PredictionRepo() *PredictionRepo {
	return &PredictionRepo{db: s.db}
}

// EventRepo returns the event repository backed by the global sequence.
func (s *Store) EventRepo() EventRepo {
	return &eventRepo{db: s.db, seq: s.seq}
}

// applyPragmas configures SQLite for reliable concurrent access from a
// single process.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

// migrate creates the schema. Statements are idempotent so Open can run
// them on every start.
func migrate(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS practice_attempts (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			question_id TEXT NOT NULL,
			student_id TEXT NOT NULL,
			topic TEXT NOT NULL,
			subject TEXT NOT NULL,
			difficulty INTEGER NOT NULL,
			selected_answer TEXT NOT NULL,
			correct_answer TEXT NOT NULL,
			was_correct INTEGER NOT NULL,
			time_spent_seconds INTEGER NOT NULL,
			timestamp TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_attempts_student_topic
			ON practice_attempts (student_id, topic, timestamp DESC)`,

		`CREATE TABLE IF NOT EXISTS mistakes (
			id TEXT PRIMARY KEY,
			student_id TEXT NOT NULL,
			question_id TEXT NOT NULL,
			topic TEXT NOT NULL,
			subject TEXT NOT NULL,
			mistake_type TEXT NOT NULL,
			occurrences INTEGER NOT NULL,
			first_occurrence TEXT NOT NULL,
			last_occurrence TEXT NOT NULL,
			next_review_date TEXT NOT NULL,
			mastery_level INTEGER NOT NULL,
			UNIQUE (student_id, question_id)
		)`,

		`CREATE TABLE IF NOT EXISTS behavioral_patterns (
			student_id TEXT NOT NULL,
			date TEXT NOT NULL,
			engagement_score REAL NOT NULL,
			daily_checkin_completed INTEGER NOT NULL,
			avg_emotion_score REAL NOT NULL,
			avg_energy_level REAL NOT NULL,
			high_stress_day INTEGER NOT NULL,
			ark_progress_delta REAL NOT NULL,
			xp_earned INTEGER NOT NULL,
			milestones_completed INTEGER NOT NULL,
			chat_message_count INTEGER NOT NULL,
			intervention_count INTEGER NOT NULL,
			PRIMARY KEY (student_id, date)
		)`,

		`CREATE TABLE IF NOT EXISTS risk_predictions (
			id TEXT PRIMARY KEY,
			student_id TEXT NOT NULL,
			prediction_date TEXT NOT NULL,
			dropout_risk_score REAL NOT NULL,
			burnout_risk_score REAL NOT NULL,
			disengagement_risk_score REAL NOT NULL,
			risk_level TEXT NOT NULL,
			primary_risk_factors TEXT NOT NULL,
			protective_factors TEXT NOT NULL,
			recommended_interventions TEXT NOT NULL,
			early_warning_flags TEXT NOT NULL,
			confidence_score REAL NOT NULL,
			model_version TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_predictions_student
			ON risk_predictions (student_id, prediction_date DESC)`,

		`CREATE TABLE IF NOT EXISTS llm_request_events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			sequence INTEGER NOT NULL UNIQUE,
			timestamp TEXT NOT NULL DEFAULT (datetime('now')),
			provider TEXT NOT NULL,
			model TEXT NOT NULL,
			purpose TEXT NOT NULL,
			input_tokens INTEGER NOT NULL,
			output_tokens INTEGER NOT NULL,
			latency_ms INTEGER NOT NULL,
			success INTEGER NOT NULL,
			error_message TEXT NOT NULL DEFAULT '',
			request_body TEXT NOT NULL DEFAULT '',
			response_body TEXT NOT NULL DEFAULT ''
		)`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("exec schema statement: %w", err)
		}
	}
	return nil
}

// DefaultDBPath resolves the database file path in priority order:
// 1. ARKMENTOR_DB environment variable
// 2. $XDG_DATA_HOME/arkmentor/arkmentor.db
// 3. ~/.local/share/arkmentor/arkmentor.db
func DefaultDBPath() (string, error) {
	if p := os.Getenv("ARKMENTOR_DB"); p != "" {
		return p, EnsureDir(p)
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	p := filepath.Join(dataHome, "arkmentor", "arkmentor.db")
	return p, EnsureDir(p)
}

// EnsureDir creates the parent directory of path if it doesn't exist.
func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0o755)
}
