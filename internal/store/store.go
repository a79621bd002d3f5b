package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const currentVersion = 1

const (
	timeLayout = time.RFC3339
	dateLayout = "2006-01-02"
)

type Store struct {
	db *sql.DB
}

// New opens (or creates) the SQLite database at dbPath and runs migrations.
func New(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(1)

	// Configure pragmas.
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec pragma %q: %w", p, err)
		}
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// NewMemory creates an in-memory store for testing.
func NewMemory() (*Store, error) {
	return New(":memory:")
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	var version int
	err := s.db.QueryRow("PRAGMA user_version").Scan(&version)
	if err != nil {
		return fmt.Errorf("read user_version: %w", err)
	}

	if version >= currentVersion {
		return nil
	}

	if version < 1 {
		if err := s.migrateV1(); err != nil {
			return err
		}
	}

	_, err = s.db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentVersion))
	return err
}

func (s *Store) migrateV1() error {
	const ddl = `
	CREATE TABLE IF NOT EXISTS categories (
		id          TEXT PRIMARY KEY,
		name        TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		color       TEXT NOT NULL DEFAULT '#6C63FF',
		icon        TEXT,
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS tasks (
		id              TEXT PRIMARY KEY,
		title           TEXT NOT NULL,
		description     TEXT NOT NULL DEFAULT '',
		status          TEXT NOT NULL DEFAULT 'pending',
		priority        TEXT NOT NULL DEFAULT 'medium',
		category_id     TEXT,
		due_date        TEXT,
		reminder_time   TEXT,
		repeating       INTEGER NOT NULL DEFAULT 0,
		repeat_interval INTEGER,
		completed_at    TEXT,
		created_at      TEXT NOT NULL,
		updated_at      TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_tasks_status ON tasks(status);
	CREATE INDEX IF NOT EXISTS idx_tasks_due    ON tasks(due_date);

	CREATE TABLE IF NOT EXISTS goals (
		id           TEXT PRIMARY KEY,
		title        TEXT NOT NULL,
		description  TEXT NOT NULL DEFAULT '',
		period       TEXT NOT NULL DEFAULT 'weekly',
		start_date   TEXT NOT NULL,
		target_date  TEXT NOT NULL,
		status       TEXT NOT NULL DEFAULT 'active',
		progress     INTEGER NOT NULL DEFAULT 0,
		color        TEXT NOT NULL DEFAULT '#6C63FF',
		created_at   TEXT NOT NULL,
		updated_at   TEXT NOT NULL,
		completed_at TEXT
	);

	CREATE TABLE IF NOT EXISTS habits (
		id             TEXT PRIMARY KEY,
		name           TEXT NOT NULL,
		description    TEXT NOT NULL DEFAULT '',
		color          TEXT NOT NULL DEFAULT '#6C63FF',
		icon           TEXT,
		frequency      TEXT NOT NULL DEFAULT 'daily',
		frequency_days TEXT NOT NULL DEFAULT '',
		reminder       TEXT,
		days_completed INTEGER NOT NULL DEFAULT 0,
		current_streak INTEGER NOT NULL DEFAULT 0,
		best_streak    INTEGER NOT NULL DEFAULT 0,
		last_completed TEXT,
		goal_id        TEXT,
		active         INTEGER NOT NULL DEFAULT 1,
		created_at     TEXT NOT NULL,
		updated_at     TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS habit_completions (
		id           TEXT PRIMARY KEY,
		habit_id     TEXT NOT NULL REFERENCES habits(id) ON DELETE CASCADE,
		date         TEXT NOT NULL,
		completed    INTEGER NOT NULL DEFAULT 1,
		completed_at TEXT NOT NULL,
		notes        TEXT NOT NULL DEFAULT ''
	);

	CREATE INDEX IF NOT EXISTS idx_completions_habit ON habit_completions(habit_id);
	CREATE INDEX IF NOT EXISTS idx_completions_date  ON habit_completions(date);

	CREATE TABLE IF NOT EXISTS pomodoro_sessions (
		id                 TEXT PRIMARY KEY,
		task_id            TEXT,
		label              TEXT,
		focus_minutes      INTEGER NOT NULL DEFAULT 25,
		break_minutes      INTEGER NOT NULL DEFAULT 5,
		long_break_minutes INTEGER NOT NULL DEFAULT 15,
		sessions_before_lb INTEGER NOT NULL DEFAULT 4,
		sessions_completed INTEGER NOT NULL DEFAULT 0,
		status             TEXT NOT NULL DEFAULT 'not_started',
		started_at         TEXT,
		ended_at           TEXT,
		focus_seconds      INTEGER NOT NULL DEFAULT 0,
		created_at         TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS preferences (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	INSERT OR IGNORE INTO preferences (key, value) VALUES
		('dark_mode',             '0'),
		('daily_summary_enabled', '1'),
		('daily_summary_time',    '08:00'),
		('reminder_lead_minutes', '30'),
		('task_duration_minutes', '60'),
		('pomodoro_focus',        '25'),
		('pomodoro_break',        '5'),
		('pomodoro_long_break',   '15'),
		('pomodoro_sessions',     '4'),
		('notification_sound',    '1'),
		('vibration',             '1'),
		('show_completed',        '0'),
		('task_view',             'list'),
		('task_sort',             'due_date'),
		('task_sort_direction',   'asc'),
		('week_start',            'monday');
	`
	_, err := s.db.Exec(ddl)
	return err
}

// DefaultDBPath returns ~/.config/taskit/taskit.db
func DefaultDBPath() (string, error) {
	cfg, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfg, "taskit", "taskit.db"), nil
}

// newID generates a random unique string identifier. IDs are created
// client-side so records can be made without coordinating with anything.
func newID() string {
	return uuid.NewString()
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	t, _ := time.Parse(timeLayout, s)
	return t
}

func formatTimePtr(t *time.Time) any {
	if t == nil {
		return nil
	}
	return formatTime(*t)
}

func parseTimePtr(ns sql.NullString) *time.Time {
	if !ns.Valid {
		return nil
	}
	t := parseTime(ns.String)
	return &t
}

func strPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	v := ns.String
	return &v
}

func intPtr(ni sql.NullInt64) *int {
	if !ni.Valid {
		return nil
	}
	v := int(ni.Int64)
	return &v
}

func sqlLower(s string) string {
	return strings.ToLower(s)
}

func joinInts(vals []int) string {
	if len(vals) == 0 {
		return ""
	}
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = fmt.Sprintf("%d", v)
	}
	return strings.Join(parts, ",")
}

func splitInts(s string) []int {
	if s == "" {
		return nil
	}
	var vals []int
	for _, part := range strings.Split(s, ",") {
		var v int
		if _, err := fmt.Sscanf(part, "%d", &v); err == nil {
			vals = append(vals, v)
		}
	}
	return vals
}
