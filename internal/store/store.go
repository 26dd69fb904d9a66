// Package store provides a SQLite-backed transcript of harness runs. Each
// processed query is recorded with the model's reply and, when a tool was
// dispatched, the tool name and its result text.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // register "sqlite" driver
)

// Disabled is the AWSAI_HISTORY_DB value that turns the transcript off.
const Disabled = "disabled"

// Entry is one processed query.
type Entry struct {
	// Query is the user query as given to the harness.
	Query string
	// Response is the model's free-text reply. Empty when the model call failed.
	Response string
	// Tool is the dispatched tool name, empty when no tool ran.
	Tool string
	// Result is the rendered tool result or the iteration error text.
	Result string
	// Failed reports whether the iteration or the tool call failed.
	Failed bool
	// CreatedAt is when the entry was persisted.
	CreatedAt time.Time
}

// TranscriptStore persists and retrieves harness transcript entries.
// Implementations must be safe for concurrent use.
type TranscriptStore interface {
	// Append persists a single entry. CreatedAt is set by the store.
	Append(ctx context.Context, e Entry) error
	// Recent returns the most recent n entries, ordered oldest-first.
	// If fewer than n entries exist, all are returned.
	Recent(ctx context.Context, n int) ([]Entry, error)
	// Close releases any resources held by the store.
	Close() error
}

// SQLiteStore is a TranscriptStore backed by a local SQLite database.
type SQLiteStore struct {
	// db is the underlying database connection pool.
	db *sql.DB
}

// DefaultDBPath returns the default path for the transcript database.
// It resolves to ~/.awsai/history.db, creating the directory if needed.
func DefaultDBPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("store: could not determine home directory: %w", err)
	}
	dir := filepath.Join(home, ".awsai")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("store: could not create %s: %w", dir, err)
	}
	return filepath.Join(dir, "history.db"), nil
}

// PathFromEnv resolves the database path from AWSAI_HISTORY_DB. It returns
// ("", nil) when the transcript is disabled.
func PathFromEnv() (string, error) {
	switch v := os.Getenv("AWSAI_HISTORY_DB"); v {
	case Disabled:
		return "", nil
	case "":
		return DefaultDBPath()
	default:
		return v, nil
	}
}

// Open opens (or creates) a SQLiteStore at the given path and runs the schema
// migration. Use ":memory:" for an in-memory database in tests.
func Open(path string) (*SQLiteStore, error) {
	dsn := path + "?_journal_mode=WAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", path, err)
	}
	// Single writer connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// migrate creates the schema if it does not already exist.
func (s *SQLiteStore) migrate() error {
	const ddl = `
CREATE TABLE IF NOT EXISTS transcript (
    id           INTEGER PRIMARY KEY AUTOINCREMENT,
    query        TEXT    NOT NULL,
    response     TEXT    NOT NULL,
    tool         TEXT    NOT NULL DEFAULT '',
    result       TEXT    NOT NULL DEFAULT '',
    failed       INTEGER NOT NULL DEFAULT 0,
    created_at   INTEGER NOT NULL  -- Unix timestamp (seconds)
);
CREATE INDEX IF NOT EXISTS idx_transcript_created
    ON transcript (created_at);
`
	if _, err := s.db.Exec(ddl); err != nil {
		return fmt.Errorf("store: migrate: %w", err)
	}
	return nil
}

// Append persists a single entry.
func (s *SQLiteStore) Append(ctx context.Context, e Entry) error {
	const q = `INSERT INTO transcript (query, response, tool, result, failed, created_at) VALUES (?, ?, ?, ?, ?, ?)`
	failed := 0
	if e.Failed {
		failed = 1
	}
	if _, err := s.db.ExecContext(ctx, q, e.Query, e.Response, e.Tool, e.Result, failed, time.Now().Unix()); err != nil {
		return fmt.Errorf("store: append: %w", err)
	}
	return nil
}

// Recent returns the most recent n entries, ordered oldest-first.
func (s *SQLiteStore) Recent(ctx context.Context, n int) ([]Entry, error) {
	const q = `
SELECT query, response, tool, result, failed, created_at FROM (
    SELECT id, query, response, tool, result, failed, created_at
    FROM   transcript
    ORDER  BY created_at DESC, id DESC
    LIMIT  ?
) ORDER BY created_at ASC, id ASC`

	rows, err := s.db.QueryContext(ctx, q, n)
	if err != nil {
		return nil, fmt.Errorf("store: recent: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var ts int64
		var failed int
		if err := rows.Scan(&e.Query, &e.Response, &e.Tool, &e.Result, &failed, &ts); err != nil {
			return nil, fmt.Errorf("store: recent scan: %w", err)
		}
		e.Failed = failed != 0
		e.CreatedAt = time.Unix(ts, 0)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: recent rows: %w", err)
	}
	return entries, nil
}

// Close releases the database connection pool.
func (s *SQLiteStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("store: close: %w", err)
	}
	return nil
}
