// Package journal keeps a local history of store events in SQLite, read
// back by the history command. The journal is observability, not source of
// truth: losing it never affects snapshots or metadata.
package journal

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Event kinds recorded by the tracking and recovery flows.
const (
	KindBaseline = "baseline"
	KindSnapshot = "snapshot"
	KindPrune    = "prune"
	KindRestore  = "restore"
)

const schema = `
CREATE TABLE IF NOT EXISTS events (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    occurred_at TIMESTAMP NOT NULL,
    kind TEXT NOT NULL,
    snapshot_id INTEGER NOT NULL,
    detail TEXT
);

CREATE INDEX IF NOT EXISTS idx_events_kind ON events(kind);
`

// Event is one recorded store operation.
type Event struct {
	ID         int64
	OccurredAt time.Time
	Kind       string
	SnapshotID int
	Detail     string
}

// Journal provides append and list operations over the event log.
type Journal struct {
	db *sql.DB
}

// Open opens (creating if needed) the journal database at path. Use
// ":memory:" for tests.
func Open(path string) (*Journal, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}

	// SQLite only allows one writer at a time.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create journal schema: %w", err)
	}
	return &Journal{db: db}, nil
}

// Close closes the database connection.
func (j *Journal) Close() error {
	if j.db != nil {
		return j.db.Close()
	}
	return nil
}

// Record appends one event.
func (j *Journal) Record(kind string, snapshotID int, detail string) error {
	_, err := j.db.Exec(
		`INSERT INTO events (occurred_at, kind, snapshot_id, detail) VALUES (?, ?, ?, ?)`,
		time.Now().Format(time.RFC3339), kind, snapshotID, detail,
	)
	if err != nil {
		return fmt.Errorf("record %s event: %w", kind, err)
	}
	return nil
}

// List returns the most recent events, newest first, up to limit.
func (j *Journal) List(limit int) ([]*Event, error) {
	rows, err := j.db.Query(
		`SELECT id, occurred_at, kind, snapshot_id, detail FROM events ORDER BY id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var events []*Event
	for rows.Next() {
		var e Event
		var occurred string
		if err := rows.Scan(&e.ID, &occurred, &e.Kind, &e.SnapshotID, &e.Detail); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		if t, err := time.Parse(time.RFC3339, occurred); err == nil {
			e.OccurredAt = t
		}
		events = append(events, &e)
	}
	return events, rows.Err()
}
