// Package history persists completed lint runs in a local SQLite database.
// Ad-hoc runs only record when asked to; the daemon records every run so
// regressions can be traced back to a commit.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"git.home.luguber.info/inful/doclint/internal/runner"
)

// Record is a stored run. Targets is only populated by Get; list queries
// return the summary columns alone.
type Record struct {
	ID            string         `json:"id"`
	StartedAt     time.Time      `json:"started_at"`
	Duration      time.Duration  `json:"duration_ns"`
	DocsRoot      string         `json:"docs_root"`
	GitCommit     string         `json:"git_commit,omitempty"`
	GitBranch     string         `json:"git_branch,omitempty"`
	Policy        string         `json:"policy"`
	Outcome       string         `json:"outcome"`
	TargetsTotal  int            `json:"targets_total"`
	TargetsFailed int            `json:"targets_failed"`
	Targets       []TargetRecord `json:"targets,omitempty"`
}

// TargetRecord is one linted target within a stored run.
type TargetRecord struct {
	Target   string        `json:"target"`
	Kind     string        `json:"kind"`
	ExitCode int           `json:"exit_code"`
	Passed   bool          `json:"passed"`
	Output   string        `json:"output,omitempty"`
	Duration time.Duration `json:"duration_ns"`
}

// GitInfo annotates a stored run with the repository state it ran against.
// Zero values mean the docs root was not inside a git repository.
type GitInfo struct {
	Commit string
	Branch string
}

// Store provides SQLite-backed persistence for lint runs.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// Open creates or opens the history database at dbPath.
// Use ":memory:" for an in-memory database (useful for testing).
func Open(dbPath string) (*Store, error) {
	if dbPath != ":memory:" {
		if dir := filepath.Dir(dbPath); dir != "." {
			if err := os.MkdirAll(dir, 0o750); err != nil {
				return nil, fmt.Errorf("failed to create history directory: %w", err)
			}
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// SQLite allows one writer, and each pooled connection to ":memory:"
	// would see its own empty database.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	store := &Store{db: db}
	if err := store.initialize(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return store, nil
}

// initialize creates the schema if it doesn't exist.
func (s *Store) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		started_at INTEGER NOT NULL,
		duration_ms INTEGER NOT NULL,
		docs_root TEXT NOT NULL,
		git_commit TEXT NOT NULL DEFAULT '',
		git_branch TEXT NOT NULL DEFAULT '',
		policy TEXT NOT NULL,
		outcome TEXT NOT NULL,
		targets_total INTEGER NOT NULL,
		targets_failed INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);
	CREATE INDEX IF NOT EXISTS idx_runs_outcome ON runs(outcome);

	CREATE TABLE IF NOT EXISTS run_targets (
		run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		target TEXT NOT NULL,
		kind TEXT NOT NULL,
		exit_code INTEGER NOT NULL,
		passed INTEGER NOT NULL,
		output TEXT NOT NULL DEFAULT '',
		duration_ms INTEGER NOT NULL,
		PRIMARY KEY (run_id, position)
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Record stores a completed run with its per-target results.
func (s *Store) Record(ctx context.Context, res *runner.RunResult, git GitInfo) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (id, started_at, duration_ms, docs_root, git_commit, git_branch, policy, outcome, targets_total, targets_failed)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, res.ID, res.StartedAt.Unix(), res.Duration.Milliseconds(), res.DocsRoot,
		git.Commit, git.Branch, string(res.Policy), string(res.Outcome),
		res.TargetCount(), res.FailedCount())
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	for i, tr := range res.Results {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO run_targets (run_id, position, target, kind, exit_code, passed, output, duration_ms)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, res.ID, i, tr.Target, string(tr.Kind), tr.ExitCode, tr.Passed, tr.Output, tr.Duration.Milliseconds())
		if err != nil {
			return fmt.Errorf("failed to insert target result: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// Recent returns up to limit runs, newest first, without per-target results.
func (s *Store) Recent(ctx context.Context, limit int) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, started_at, duration_ms, docs_root, git_commit, git_branch, policy, outcome, targets_total, targets_failed
		FROM runs
		ORDER BY started_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanRuns(rows)
}

// Get returns one run matched by exact ID or unique ID prefix, including
// its per-target results in lint order.
func (s *Store) Get(ctx context.Context, idPrefix string) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, started_at, duration_ms, docs_root, git_commit, git_branch, policy, outcome, targets_total, targets_failed
		FROM runs
		WHERE id LIKE ? || '%'
		ORDER BY started_at DESC
		LIMIT 2
	`, idPrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	matches, err := scanRuns(rows)
	if err != nil {
		return nil, err
	}

	switch len(matches) {
	case 0:
		return nil, ErrRunNotFound
	case 1:
	default:
		return nil, fmt.Errorf("%w: %q", ErrAmbiguousRunID, idPrefix)
	}

	rec := matches[0]
	targets, err := s.targetsForRun(ctx, rec.ID)
	if err != nil {
		return nil, err
	}
	rec.Targets = targets

	return &rec, nil
}

// targetsForRun loads per-target results for a run, in lint order.
func (s *Store) targetsForRun(ctx context.Context, runID string) ([]TargetRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT target, kind, exit_code, passed, output, duration_ms
		FROM run_targets
		WHERE run_id = ?
		ORDER BY position
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query target results: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var targets []TargetRecord
	for rows.Next() {
		var tr TargetRecord
		var durationMS int64
		if err := rows.Scan(&tr.Target, &tr.Kind, &tr.ExitCode, &tr.Passed, &tr.Output, &durationMS); err != nil {
			return nil, fmt.Errorf("failed to scan target result: %w", err)
		}
		tr.Duration = time.Duration(durationMS) * time.Millisecond
		targets = append(targets, tr)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating target results: %w", err)
	}

	return targets, nil
}

// scanRuns scans run summary rows into records.
func scanRuns(rows *sql.Rows) ([]Record, error) {
	var records []Record
	for rows.Next() {
		var rec Record
		var startedAt, durationMS int64
		if err := rows.Scan(&rec.ID, &startedAt, &durationMS, &rec.DocsRoot,
			&rec.GitCommit, &rec.GitBranch, &rec.Policy, &rec.Outcome,
			&rec.TargetsTotal, &rec.TargetsFailed); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		rec.StartedAt = time.Unix(startedAt, 0).UTC()
		rec.Duration = time.Duration(durationMS) * time.Millisecond
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating runs: %w", err)
	}

	return records, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}
