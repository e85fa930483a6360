// Package history records every pipeline outcome in a small SQLite journal.
// It is a telemetry consumer only: the engine never reads it back to make
// decisions, and losing it loses nothing but the audit trail.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"orgd/pkg/types"
)

// Entry is one recorded pipeline outcome.
type Entry struct {
	ID         int64
	RunID      string
	Source     string
	Dest       string
	Category   string
	Status     types.MoveStatus
	Detail     string
	RecordedAt time.Time
}

// Store manages the history database.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the history database at the given path,
// creating the parent directory and schema as needed.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening history db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func (s *Store) migrate(ctx context.Context) error {
	const schema = `
CREATE TABLE IF NOT EXISTS move_history (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id TEXT NOT NULL,
    source TEXT NOT NULL,
    destination TEXT NOT NULL DEFAULT '',
    category TEXT NOT NULL DEFAULT '',
    status TEXT NOT NULL,
    detail TEXT NOT NULL DEFAULT '',
    recorded_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_move_history_recorded_at ON move_history (recorded_at);`
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("applying history schema: %w", err)
	}
	return nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Record inserts one outcome row.
func (s *Store) Record(ctx context.Context, outcome types.MoveOutcome) error {
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO move_history (run_id, source, destination, category, status, detail, recorded_at)
         VALUES (?, ?, ?, ?, ?, ?, ?)`,
		outcome.RunID,
		outcome.Source,
		outcome.Dest,
		outcome.Category,
		string(outcome.Status),
		outcome.Detail(),
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("recording outcome: %w", err)
	}
	return nil
}

// Recent returns up to limit entries, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT id, run_id, source, destination, category, status, detail, recorded_at
         FROM move_history ORDER BY id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying history: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var status, recorded string
		if err := rows.Scan(&e.ID, &e.RunID, &e.Source, &e.Dest, &e.Category, &status, &e.Detail, &recorded); err != nil {
			return nil, fmt.Errorf("scanning history row: %w", err)
		}
		e.Status = types.MoveStatus(status)
		if ts, parseErr := time.Parse(time.RFC3339Nano, recorded); parseErr == nil {
			e.RecordedAt = ts
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// CountByStatus returns how many recorded outcomes carry each status.
func (s *Store) CountByStatus(ctx context.Context) (map[types.MoveStatus]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT status, COUNT(*) FROM move_history GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("counting history: %w", err)
	}
	defer rows.Close()

	counts := make(map[types.MoveStatus]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("scanning history count: %w", err)
		}
		counts[types.MoveStatus(status)] = n
	}
	return counts, rows.Err()
}
