// Package store provides SQLite-backed persistence for build-run
// history, so repeated pipeline invocations (e.g. in CI) can be
// inspected after the fact.
package store

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// RunRecord summarizes one completed pipeline run.
type RunRecord struct {
	ID           string
	StartedAt    time.Time
	Duration     time.Duration
	Elements     int
	Processes    int
	Diagrams     int
	RenderedPDFs int
	CopiedAssets int
}

// Store wraps a SQLite database for build history persistence.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) a SQLite database at dbPath and ensures
// all required tables exist. Use ":memory:" for an in-memory database.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := createTables(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func createTables(db *sql.DB) error {
	stmt := `CREATE TABLE IF NOT EXISTS runs (
		id            TEXT PRIMARY KEY,
		started_at    DATETIME NOT NULL,
		duration_ms   INTEGER NOT NULL,
		elements      INTEGER NOT NULL,
		processes     INTEGER NOT NULL,
		diagrams      INTEGER NOT NULL,
		rendered_pdfs INTEGER NOT NULL,
		copied_assets INTEGER NOT NULL
	)`
	if _, err := db.Exec(stmt); err != nil {
		return fmt.Errorf("exec %q: %w", stmt[:30], err)
	}
	return nil
}

// RecordRun persists one run summary.
func (s *Store) RecordRun(r RunRecord) error {
	_, err := s.db.Exec(
		`INSERT INTO runs (id, started_at, duration_ms, elements, processes, diagrams, rendered_pdfs, copied_assets)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.StartedAt.UTC(), r.Duration.Milliseconds(),
		r.Elements, r.Processes, r.Diagrams, r.RenderedPDFs, r.CopiedAssets,
	)
	if err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	return nil
}

// RecentRuns returns up to limit runs, newest first.
func (s *Store) RecentRuns(limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.Query(
		`SELECT id, started_at, duration_ms, elements, processes, diagrams, rendered_pdfs, copied_assets
		 FROM runs ORDER BY started_at DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []RunRecord
	for rows.Next() {
		var r RunRecord
		var durationMS int64
		if err := rows.Scan(&r.ID, &r.StartedAt, &durationMS, &r.Elements, &r.Processes, &r.Diagrams, &r.RenderedPDFs, &r.CopiedAssets); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		r.Duration = time.Duration(durationMS) * time.Millisecond
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
