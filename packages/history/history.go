// Package history keeps finished runs in a SQLite database so they can be
// listed, re-rendered and compared later.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/abdul-hamid-achik/speclab/packages/core/suite"
	"github.com/abdul-hamid-achik/speclab/packages/output"

	// SQLite driver
	_ "github.com/mattn/go-sqlite3"
)

// ErrNotFound is returned when no run matches an id.
var ErrNotFound = errors.New("history: run not found")

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id          TEXT PRIMARY KEY,
	name        TEXT NOT NULL,
	started_at  TIMESTAMP NOT NULL,
	finished_at TIMESTAMP NOT NULL,
	precision   TEXT NOT NULL,
	passed      INTEGER NOT NULL,
	failed      INTEGER NOT NULL,
	ignored     INTEGER NOT NULL,
	duration_ns INTEGER NOT NULL,
	document    TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS specs (
	run_id      TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
	ord         INTEGER NOT NULL,
	full_name   TEXT NOT NULL,
	status      TEXT NOT NULL,
	attempts    INTEGER NOT NULL,
	duration_ns INTEGER NOT NULL,
	error       TEXT NOT NULL DEFAULT '',
	PRIMARY KEY (run_id, ord)
);
CREATE INDEX IF NOT EXISTS specs_full_name ON specs(full_name);
`

// Run is one row of the run listing.
type Run struct {
	ID         string
	Name       string
	StartedAt  time.Time
	FinishedAt time.Time
	Precision  suite.Precision
	Passed     int
	Failed     int
	Ignored    int
	Duration   time.Duration
}

// SpecRun is one recorded outcome of a spec.
type SpecRun struct {
	RunID     string
	StartedAt time.Time
	Status    suite.Status
	Attempts  int
	Duration  time.Duration
	Error     string
}

// Store represents a history database
type Store struct {
	db           *sql.DB
	queryTimeout time.Duration
}

// Open opens (and if needed creates) the history database. The connection
// string may be a plain path, sqlite://path or sqlite:path.
func Open(connectionString string) (*Store, error) {
	dsn, err := parseConnectionString(connectionString)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Store{db: db, queryTimeout: 30 * time.Second}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Record stores a finished report and every spec outcome in it.
func (s *Store) Record(ctx context.Context, r *suite.Report) error {
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	doc, err := json.Marshal(output.NewDocument(r, ""))
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	root := r.Root
	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, name, started_at, finished_at, precision, passed, failed, ignored, duration_ns, document)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.RunID, root.Name, r.Start.UTC(), r.End.UTC(), r.Precision.String(),
		root.Passing, root.Failing, root.Ignored, int64(root.Duration), string(doc),
	)
	if err != nil {
		return fmt.Errorf("inserting run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO specs (run_id, ord, full_name, status, attempts, duration_ns, error) VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing spec insert: %w", err)
	}
	defer stmt.Close()

	for _, sp := range root.AllSpecs() {
		if _, err := stmt.ExecContext(ctx, r.RunID, sp.Order, sp.FullName, string(sp.Status),
			sp.Attempts, int64(sp.Duration), sp.Error); err != nil {
			return fmt.Errorf("inserting spec %q: %w", sp.FullName, err)
		}
	}

	return tx.Commit()
}

// List returns the most recent runs first. A limit of zero or less returns
// every run.
func (s *Store) List(ctx context.Context, limit int) ([]Run, error) {
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	query := `SELECT id, name, started_at, finished_at, precision, passed, failed, ignored, duration_ns
		FROM runs ORDER BY started_at DESC, rowid DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	runs := make([]Run, 0)
	for rows.Next() {
		var (
			run       Run
			precision string
			duration  int64
		)
		if err := rows.Scan(&run.ID, &run.Name, &run.StartedAt, &run.FinishedAt, &precision,
			&run.Passed, &run.Failed, &run.Ignored, &duration); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		run.Precision, _ = suite.ParsePrecision(precision)
		run.Duration = time.Duration(duration)
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return runs, nil
}

// Get loads the full report of a run. id may be any unambiguous prefix.
func (s *Store) Get(ctx context.Context, id string) (*suite.Report, error) {
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	// A plain prefix compare, so % and _ in id are not LIKE wildcards.
	rows, err := s.db.QueryContext(ctx, `SELECT id, document FROM runs WHERE substr(id, 1, ?) = ? LIMIT 2`, len(id), id)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var matches []string
	var doc string
	for rows.Next() {
		var runID string
		if err := rows.Scan(&runID, &doc); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		matches = append(matches, runID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	case 1:
		return output.Decode([]byte(doc))
	default:
		return nil, fmt.Errorf("history: run id %q is ambiguous (%s)", id, strings.Join(matches, ", "))
	}
}

// SpecHistory returns the recorded outcomes of one spec, newest first.
func (s *Store) SpecHistory(ctx context.Context, fullName string, limit int) ([]SpecRun, error) {
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	query := `SELECT s.run_id, r.started_at, s.status, s.attempts, s.duration_ns, s.error
		FROM specs s JOIN runs r ON r.id = s.run_id
		WHERE s.full_name = ? ORDER BY r.started_at DESC, r.rowid DESC`
	args := []any{fullName}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	out := make([]SpecRun, 0)
	for rows.Next() {
		var (
			sr       SpecRun
			status   string
			duration int64
		)
		if err := rows.Scan(&sr.RunID, &sr.StartedAt, &status, &sr.Attempts, &duration, &sr.Error); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		sr.Status = suite.Status(status)
		sr.Duration = time.Duration(duration)
		out = append(out, sr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return out, nil
}

// parseConnectionString accepts sqlite://path, sqlite:path or a bare path.
func parseConnectionString(connStr string) (string, error) {
	connStr = strings.TrimSpace(connStr)
	switch {
	case connStr == "":
		return "", errors.New("history: empty database path")
	case strings.HasPrefix(connStr, "sqlite://"):
		return strings.TrimPrefix(connStr, "sqlite://"), nil
	case strings.HasPrefix(connStr, "sqlite:"):
		return strings.TrimPrefix(connStr, "sqlite:"), nil
	case strings.Contains(connStr, "://"):
		return "", fmt.Errorf("unsupported database scheme in %q", connStr)
	default:
		return connStr, nil
	}
}
