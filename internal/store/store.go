// Package store provides SQLite-backed persistence for goals, tasks,
// recurring task templates, and notes.
//
// The database is a single file opened through the pure-Go driver. String
// sets and task logs are stored as JSON text columns; civil dates are stored
// as YYYY-MM-DD text, which compares correctly as a string.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/whitejm/steve/internal/model"
)

// Store provides access to the steve SQLite database.
type Store struct {
	db     *sql.DB
	logger *zap.Logger
}

// Open initializes the database at the given path and runs migrations.
// A nil logger disables store logging.
func Open(path string, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// SQLite supports one writer at a time; a single connection avoids
	// SQLITE_BUSY between our own goroutines.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		logger.Debug("failed to set busy_timeout", zap.Error(err))
	}
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		logger.Debug("failed to set journal_mode=WAL", zap.Error(err))
	}
	if _, err := db.Exec("PRAGMA synchronous = NORMAL"); err != nil {
		logger.Debug("failed to set synchronous=NORMAL", zap.Error(err))
	}

	s := &Store{db: db, logger: logger}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	logger.Debug("store opened", zap.String("path", path))
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks the database connection is alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// migrate runs idempotent schema migrations.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS goals (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT 'active',
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS tasks (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'pending',
		scheduled_date TEXT,
		due_date TEXT,
		estimated_completion_time INTEGER NOT NULL DEFAULT 0,
		actual_completion_time INTEGER NOT NULL DEFAULT 0,
		goals TEXT NOT NULL DEFAULT '[]',
		dependencies TEXT NOT NULL DEFAULT '[]',
		can_complete_late INTEGER NOT NULL DEFAULT 1,
		log TEXT,
		log_instructions TEXT NOT NULL DEFAULT '',
		source_template_id TEXT,
		instance_date TEXT,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS templates (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		goals TEXT NOT NULL DEFAULT '[]',
		estimated_completion_time INTEGER NOT NULL DEFAULT 0,
		can_complete_late INTEGER NOT NULL DEFAULT 1,
		log_instructions TEXT NOT NULL DEFAULT '',
		frequency TEXT NOT NULL,
		interval INTEGER NOT NULL DEFAULT 1,
		weekdays TEXT NOT NULL DEFAULT '[]',
		start_date TEXT NOT NULL,
		end_date TEXT,
		last_generated_date TEXT,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS notes (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		content TEXT NOT NULL,
		note_type TEXT NOT NULL DEFAULT 'general',
		is_system_prompt INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_goals_status ON goals(status);
	CREATE INDEX IF NOT EXISTS idx_tasks_status ON tasks(status);
	CREATE INDEX IF NOT EXISTS idx_tasks_due_date ON tasks(due_date);
	CREATE INDEX IF NOT EXISTS idx_tasks_template ON tasks(source_template_id);
	CREATE INDEX IF NOT EXISTS idx_notes_type ON notes(note_type);

	CREATE UNIQUE INDEX IF NOT EXISTS idx_tasks_template_instance
		ON tasks(source_template_id, instance_date)
		WHERE source_template_id IS NOT NULL;
	`

	_, err := s.db.Exec(schema)
	return err
}

// isUniqueViolation reports whether err is a SQLite unique constraint error.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint") || strings.Contains(msg, "unique constraint")
}

// marshalStrings encodes a string set as a JSON text column.
func marshalStrings(values []string) string {
	if len(values) == 0 {
		return "[]"
	}
	b, _ := json.Marshal(values)
	return string(b)
}

// unmarshalStrings decodes a JSON text column into a string set.
func unmarshalStrings(raw string) []string {
	if raw == "" || raw == "[]" {
		return nil
	}
	var values []string
	if err := json.Unmarshal([]byte(raw), &values); err != nil {
		return nil
	}
	return values
}

// nullDate converts an optional civil date for binding.
func nullDate(d *model.Date) any {
	if d == nil {
		return nil
	}
	return d.String()
}

// scanDate converts a nullable date column back to a civil date.
func scanDate(ns sql.NullString) (*model.Date, error) {
	if !ns.Valid || ns.String == "" {
		return nil, nil
	}
	d, err := model.ParseDate(ns.String)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// nullString converts an optional string for binding.
func nullString(v string) any {
	if v == "" {
		return nil
	}
	return v
}

// now returns the store's write timestamp.
func now() time.Time {
	return time.Now().UTC()
}

// whereClause joins filter clauses into a WHERE fragment.
func whereClause(clauses []string) string {
	if len(clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(clauses, " AND ")
}

// checkAffected converts a zero-row update or delete into ErrNotFound.
func checkAffected(res sql.Result, kind, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("check rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s %s", ErrNotFound, kind, id)
	}
	return nil
}
