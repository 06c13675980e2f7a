// Package history provides SQLite-backed persistence of lint runs.
package history

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/siberianbearofficial/lint-gost-tex/internal/apperr"
	"github.com/siberianbearofficial/lint-gost-tex/internal/issue"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS runs (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	started_at  DATETIME NOT NULL,
	duration_ms INTEGER NOT NULL DEFAULT 0,
	file_count  INTEGER NOT NULL DEFAULT 0,
	issue_count INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS run_issues (
	run_id  INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
	rule_id TEXT NOT NULL,
	message TEXT NOT NULL,
	path    TEXT NOT NULL,
	line    INTEGER NOT NULL,
	col     INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_run_issues_run ON run_issues(run_id);
`

// Run is one recorded lint run.
type Run struct {
	ID         int64
	StartedAt  time.Time
	Duration   time.Duration
	FileCount  int
	IssueCount int
}

// Store defines the run history operations. Consumers should depend on
// this interface rather than the concrete *DB type to facilitate testing
// with mocks.
type Store interface {
	RecordRun(startedAt time.Time, duration time.Duration, fileCount int, issues []issue.Issue) (int64, error)
	RecentRuns(limit int) ([]Run, error)
	RunIssues(runID int64) ([]issue.Issue, error)
	Close() error
}

// Verify *DB satisfies Store at compile time.
var _ Store = (*DB)(nil)

// DB wraps a sql.DB with history-specific operations.
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the SQLite database and applies the schema.
func Open(dsn string) (*DB, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("history: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("history: ping: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("history: apply schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// RecordRun stores a run and its issues within a transaction and returns
// the new run id.
func (db *DB) RecordRun(startedAt time.Time, duration time.Duration, fileCount int, issues []issue.Issue) (int64, error) {
	tx, err := db.conn.Begin()
	if err != nil {
		return 0, fmt.Errorf("history: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	res, err := tx.Exec(`
		INSERT INTO runs (started_at, duration_ms, file_count, issue_count)
		VALUES (?, ?, ?, ?)
	`, startedAt.UTC(), duration.Milliseconds(), fileCount, len(issues))
	if err != nil {
		return 0, fmt.Errorf("history: insert run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("history: run id: %w", err)
	}

	if len(issues) > 0 {
		stmt, err := tx.Prepare(`
			INSERT INTO run_issues (run_id, rule_id, message, path, line, col)
			VALUES (?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return 0, fmt.Errorf("history: prepare issue insert: %w", err)
		}
		defer stmt.Close()
		for _, iss := range issues {
			if _, err := stmt.Exec(runID, iss.RuleID, iss.Message, iss.Path, iss.Line, iss.Col); err != nil {
				return 0, fmt.Errorf("history: insert issue: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("history: commit: %w", err)
	}
	return runID, nil
}

// RecentRuns returns the latest runs, newest first.
func (db *DB) RecentRuns(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.conn.Query(`
		SELECT id, started_at, duration_ms, file_count, issue_count
		FROM runs ORDER BY id DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("history: recent runs: %w", err)
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var (
			r          Run
			durationMS int64
		)
		if err := rows.Scan(&r.ID, &r.StartedAt, &durationMS, &r.FileCount, &r.IssueCount); err != nil {
			return nil, err
		}
		r.Duration = time.Duration(durationMS) * time.Millisecond
		out = append(out, r)
	}
	return out, rows.Err()
}

// RunIssues returns the issues recorded for a run, in insertion order.
// Returns apperr.ErrNotFound for an unknown run id.
func (db *DB) RunIssues(runID int64) ([]issue.Issue, error) {
	var exists int
	if err := db.conn.QueryRow(`SELECT 1 FROM runs WHERE id = ?`, runID).Scan(&exists); err != nil {
		return nil, fmt.Errorf("history: run %d: %w", runID, apperr.ErrNotFound)
	}

	rows, err := db.conn.Query(`
		SELECT rule_id, message, path, line, col
		FROM run_issues WHERE run_id = ? ORDER BY rowid
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("history: run issues: %w", err)
	}
	defer rows.Close()

	var out []issue.Issue
	for rows.Next() {
		var iss issue.Issue
		if err := rows.Scan(&iss.RuleID, &iss.Message, &iss.Path, &iss.Line, &iss.Col); err != nil {
			return nil, err
		}
		out = append(out, iss)
	}
	return out, rows.Err()
}
