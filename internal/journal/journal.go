// Package journal stores session lifecycle events in a SQLite database so
// they can be listed after the dashboard exits.
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"augustinus/pkg/sessions"
)

// SchemaDDL creates the journal tables.
const SchemaDDL = `
CREATE TABLE IF NOT EXISTS events (
    id INTEGER PRIMARY KEY,
    kind TEXT NOT NULL,
    pane TEXT NOT NULL,
    session_id TEXT,
    program TEXT,
    detail TEXT,
    created_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_events_created_at ON events(created_at);
`

// Entry is one stored event.
type Entry struct {
	ID        int64
	Kind      string
	Pane      string
	SessionID string
	Program   string
	Detail    string
	CreatedAt time.Time
}

// Journal is an open event database.
type Journal struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens or creates the journal at path.
func Open(ctx context.Context, path string) (*Journal, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("create journal dir: %w", err)
	}
	db, err := openDB(ctx, path)
	if err != nil {
		return nil, err
	}
	if _, err := db.ExecContext(ctx, SchemaDDL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply journal schema: %w", err)
	}
	return &Journal{db: db, now: time.Now}, nil
}

// busyTimeout is how long a writer waits for another connection's lock.
const busyTimeout = 5 * time.Second

// dsn returns the driver connection string for path. The pragmas are applied
// by the driver to every pooled connection.
func dsn(path string) string {
	q := url.Values{}
	q.Add("_pragma", "journal_mode(WAL)")
	q.Add("_pragma", fmt.Sprintf("busy_timeout(%d)", busyTimeout.Milliseconds()))
	return "file:" + path + "?" + q.Encode()
}

func openDB(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("open journal %s: %w", path, err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("open journal %s: %w", path, err)
	}
	return db, nil
}

// Record appends e. A zero CreatedAt is set to the current time.
func (j *Journal) Record(ctx context.Context, e Entry) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = j.now()
	}
	_, err := j.db.ExecContext(ctx,
		`INSERT INTO events (kind, pane, session_id, program, detail, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		e.Kind, e.Pane, e.SessionID, e.Program, e.Detail,
		e.CreatedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

// Recent returns up to limit entries, newest first.
func (j *Journal) Recent(ctx context.Context, limit int) ([]Entry, error) {
	rows, err := j.db.QueryContext(ctx,
		`SELECT id, kind, pane, session_id, program, detail, created_at
		 FROM events ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		var sessionID, program, detail sql.NullString
		var created string
		if err := rows.Scan(&e.ID, &e.Kind, &e.Pane, &sessionID, &program, &detail, &created); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		e.SessionID, e.Program, e.Detail = sessionID.String, program.String, detail.String
		if e.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
			return nil, fmt.Errorf("parse event time %q: %w", created, err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return out, nil
}

// Recorder adapts the journal to the session manager's event sink.
func (j *Journal) Recorder() sessions.Recorder {
	return sessions.RecorderFunc(func(e sessions.Event) error {
		return j.Record(context.Background(), Entry{
			Kind:      string(e.Kind),
			Pane:      e.Pane.String(),
			SessionID: e.SessionID,
			Program:   e.Program,
			Detail:    e.Detail,
		})
	})
}

// Close closes the database.
func (j *Journal) Close() error {
	if err := j.db.Close(); err != nil {
		return fmt.Errorf("close journal: %w", err)
	}
	return nil
}
