// Package history persists finished deployment runs to a local SQLite
// database so past runs can be listed without the report files.
package history

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/launchdeck/launchdeck/internal/report"
)

// Store records and lists deployment runs.
type Store struct {
	db *sql.DB
}

// Open opens (and if needed creates) the history database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening history database: %w", err)
	}

	s := &Store{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing history schema: %w", err)
	}
	return s, nil
}

func (s *Store) initSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			target TEXT NOT NULL,
			environment TEXT NOT NULL,
			status TEXT NOT NULL,
			health TEXT NOT NULL DEFAULT 'skipped',
			error TEXT NOT NULL DEFAULT '',
			started_at DATETIME NOT NULL,
			duration TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS run_steps (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL,
			name TEXT NOT NULL,
			status TEXT NOT NULL,
			fatal INTEGER NOT NULL DEFAULT 0,
			exit_code INTEGER NOT NULL DEFAULT 0,
			duration TEXT NOT NULL DEFAULT '',
			FOREIGN KEY(run_id) REFERENCES runs(id) ON DELETE CASCADE
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_run_steps_run_id ON run_steps(run_id)`,
	}
	for _, q := range queries {
		if _, err := s.db.Exec(q); err != nil {
			return err
		}
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record inserts a finished run and its build steps.
func (s *Store) Record(rep *report.RunReport) error {
	healthOutcome := "skipped"
	if rep.Health != nil {
		healthOutcome = string(rep.Health.Outcome)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("recording run: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO runs (id, target, environment, status, health, error, started_at, duration)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rep.ID, rep.Target, rep.Environment, string(rep.Status), healthOutcome,
		rep.Error, rep.StartedAt, rep.Duration.String(),
	)
	if err != nil {
		return fmt.Errorf("recording run: %w", err)
	}

	for _, step := range rep.Steps {
		_, err = tx.Exec(
			`INSERT INTO run_steps (run_id, name, status, fatal, exit_code, duration)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			rep.ID, step.Name, step.Status, step.Fatal, step.ExitCode, step.Duration.String(),
		)
		if err != nil {
			return fmt.Errorf("recording step %s: %w", step.Name, err)
		}
	}

	return tx.Commit()
}

// Entry is one row of the run listing.
type Entry struct {
	ID          string
	Target      string
	Environment string
	Status      string
	Health      string
	Error       string
	StartedAt   time.Time
	Duration    string
}

// Recent returns up to limit runs, most recent first.
func (s *Store) Recent(limit int) ([]Entry, error) {
	rows, err := s.db.Query(
		`SELECT id, target, environment, status, health, error, started_at, duration
		 FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Target, &e.Environment, &e.Status, &e.Health,
			&e.Error, &e.StartedAt, &e.Duration); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Steps returns the recorded build steps for a run, in insertion order.
func (s *Store) Steps(runID string) ([]report.StepReport, error) {
	rows, err := s.db.Query(
		`SELECT name, status, fatal, exit_code FROM run_steps WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("listing steps: %w", err)
	}
	defer rows.Close()

	var steps []report.StepReport
	for rows.Next() {
		var sr report.StepReport
		if err := rows.Scan(&sr.Name, &sr.Status, &sr.Fatal, &sr.ExitCode); err != nil {
			return nil, fmt.Errorf("scanning step: %w", err)
		}
		steps = append(steps, sr)
	}
	return steps, rows.Err()
}
