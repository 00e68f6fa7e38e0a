package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nao1215/osintdata/internal/dataset"
)

// Status is the outcome of a load run.
type Status string

const (
	// StatusSuccess marks a run where every dataset loaded.
	StatusSuccess Status = "success"

	// StatusFailed marks a run that aborted on a missing or invalid file.
	StatusFailed Status = "failed"
)

// Run is one recorded load attempt.
type Run struct {
	// ID is the run's UUID.
	ID string `json:"id"`

	// StartedAt is when the load began.
	StartedAt time.Time `json:"started_at"`

	// BaseDir is the dataset directory that was read.
	BaseDir string `json:"base_dir"`

	Status Status `json:"status"`

	// Error is the failure message of a failed run.
	Error string `json:"error,omitempty"`

	// FailedPath is the dataset file that caused a failure, when known.
	FailedPath string `json:"failed_path,omitempty"`

	// Duration is how long a successful load took.
	Duration time.Duration `json:"duration"`

	// Datasets holds per-file statistics of a successful run, in manifest order.
	Datasets []dataset.FileStat `json:"datasets,omitempty"`
}

// Succeeded reports whether the run loaded every dataset.
func (r *Run) Succeeded() bool {
	return r.Status == StatusSuccess
}

// Dataset returns the statistics recorded for name.
func (r *Run) Dataset(name dataset.Name) (dataset.FileStat, bool) {
	for _, st := range r.Datasets {
		if st.Name == name {
			return st, true
		}
	}
	return dataset.FileStat{}, false
}

// RecordRun stores a successful load.
func (s *Store) RecordRun(ctx context.Context, ds *dataset.Dataset) (*Run, error) {
	run := &Run{
		ID:        uuid.NewString(),
		StartedAt: ds.LoadedAt(),
		BaseDir:   ds.BaseDir(),
		Status:    StatusSuccess,
		Duration:  ds.Duration(),
		Datasets:  ds.Stats(),
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := insertRun(ctx, tx, run); err != nil {
		return nil, err
	}

	query := `
	INSERT INTO dataset_snapshots (run_id, position, name, filename, kind, path, entries, bytes, digest)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	for i, st := range run.Datasets {
		_, err := tx.ExecContext(ctx, query,
			run.ID,
			i,
			string(st.Name),
			st.Filename,
			st.Kind.String(),
			st.Path,
			st.Entries,
			st.Bytes,
			st.Digest,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to insert snapshot %s: %w", st.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit run: %w", err)
	}
	return run, nil
}

// RecordFailure stores a load of baseDir that failed with cause.
func (s *Store) RecordFailure(ctx context.Context, baseDir string, cause error) (*Run, error) {
	if cause == nil {
		return nil, errors.New("record failure: nil error")
	}

	run := &Run{
		ID:         uuid.NewString(),
		StartedAt:  s.now(),
		BaseDir:    baseDir,
		Status:     StatusFailed,
		Error:      cause.Error(),
		FailedPath: failedPath(cause),
	}

	if err := insertRun(ctx, s.db, run); err != nil {
		return nil, err
	}
	return run, nil
}

// GetRun retrieves a run by ID. It returns nil if no such run exists.
func (s *Store) GetRun(ctx context.Context, id string) (*Run, error) {
	return s.queryOne(ctx, "WHERE run_id = ?", id)
}

// LatestSuccessfulRun returns the most recent successful run, or nil if there is none.
func (s *Store) LatestSuccessfulRun(ctx context.Context) (*Run, error) {
	return s.queryOne(ctx, "WHERE status = ? ORDER BY started_at DESC, seq DESC LIMIT 1", string(StatusSuccess))
}

// ListRuns returns up to limit runs, newest first. A limit of zero or less
// returns every run.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]*Run, error) {
	clause := "ORDER BY started_at DESC, seq DESC"
	args := []any{}
	if limit > 0 {
		clause += " LIMIT ?"
		args = append(args, limit)
	}

	runs, err := s.queryRuns(ctx, clause, args...)
	if err != nil {
		return nil, err
	}
	for _, run := range runs {
		if err := s.loadSnapshots(ctx, run); err != nil {
			return nil, err
		}
	}
	return runs, nil
}

// execer is satisfied by *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insertRun(ctx context.Context, db execer, run *Run) error {
	query := `
	INSERT INTO load_runs (run_id, started_at, base_dir, status, error, failed_path, duration_ns)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err := db.ExecContext(ctx, query,
		run.ID,
		formatTimestamp(run.StartedAt),
		run.BaseDir,
		string(run.Status),
		run.Error,
		run.FailedPath,
		int64(run.Duration),
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}
	return nil
}

func (s *Store) queryOne(ctx context.Context, clause string, args ...any) (*Run, error) {
	runs, err := s.queryRuns(ctx, clause, args...)
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, nil
	}
	if err := s.loadSnapshots(ctx, runs[0]); err != nil {
		return nil, err
	}
	return runs[0], nil
}

// queryRuns reads load_runs rows without their snapshots. The rows are
// closed before returning, since the pool holds a single connection.
func (s *Store) queryRuns(ctx context.Context, clause string, args ...any) ([]*Run, error) {
	query := `
	SELECT run_id, started_at, base_dir, status, error, failed_path, duration_ns
	FROM load_runs
	` + clause

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		var (
			run        Run
			startedAt  string
			status     string
			errMsg     sql.NullString
			failed     sql.NullString
			durationNS int64
		)
		if err := rows.Scan(&run.ID, &startedAt, &run.BaseDir, &status, &errMsg, &failed, &durationNS); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		run.StartedAt = parseTimestamp(startedAt)
		run.Status = Status(status)
		run.Error = errMsg.String
		run.FailedPath = failed.String
		run.Duration = time.Duration(durationNS)
		runs = append(runs, &run)
	}

	return runs, rows.Err()
}

func (s *Store) loadSnapshots(ctx context.Context, run *Run) error {
	query := `
	SELECT name, filename, kind, path, entries, bytes, digest
	FROM dataset_snapshots
	WHERE run_id = ?
	ORDER BY position
	`

	rows, err := s.db.QueryContext(ctx, query, run.ID)
	if err != nil {
		return fmt.Errorf("failed to query snapshots: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			st   dataset.FileStat
			name string
			kind string
		)
		if err := rows.Scan(&name, &st.Filename, &kind, &st.Path, &st.Entries, &st.Bytes, &st.Digest); err != nil {
			return fmt.Errorf("failed to scan snapshot: %w", err)
		}
		st.Name = dataset.Name(name)
		if err := st.Kind.UnmarshalText([]byte(kind)); err != nil {
			return fmt.Errorf("snapshot %s: %w", name, err)
		}
		run.Datasets = append(run.Datasets, st)
	}

	return rows.Err()
}

// failedPath extracts the dataset path from a load error.
func failedPath(err error) string {
	var missing *dataset.MissingError
	if errors.As(err, &missing) {
		return missing.Path
	}
	var parse *dataset.ParseError
	if errors.As(err, &parse) {
		return parse.Path
	}
	return ""
}
