package results

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrRunNotFound is returned when no run matches an id or prefix.
	ErrRunNotFound = errors.New("run not found")
	// ErrAmbiguousRun is returned when a prefix matches several runs.
	ErrAmbiguousRun = errors.New("run id prefix is ambiguous")
)

const runColumns = "id, dataset_dir, status, started_at, finished_at, cases_total, cases_failed, cases_skipped, cases_with_findings, findings_total, error_message"

func scanRun(scanner interface{ Scan(dest ...any) error }) (*Run, error) {
	var (
		run        Run
		status     string
		startedRaw sql.NullString
		finishRaw  sql.NullString
		errMsg     sql.NullString
	)
	if err := scanner.Scan(
		&run.ID,
		&run.DatasetDir,
		&status,
		&startedRaw,
		&finishRaw,
		&run.Totals.Cases,
		&run.Totals.Failed,
		&run.Totals.Skipped,
		&run.Totals.WithFindings,
		&run.Totals.Findings,
		&errMsg,
	); err != nil {
		return nil, err
	}
	run.Status = RunStatus(status)
	run.StartedAt = parseTime(startedRaw)
	run.FinishedAt = parseTime(finishRaw)
	run.Error = errMsg.String
	return &run, nil
}

// CreateRun records the start of a batch run.
func (s *Store) CreateRun(ctx context.Context, id, datasetDir string, startedAt time.Time) (*Run, error) {
	if id == "" {
		return nil, errors.New("run id is required")
	}
	_, err := s.execWithRetry(ctx,
		`INSERT INTO runs (id, dataset_dir, status, started_at) VALUES (?, ?, ?, ?)`,
		id, datasetDir, RunRunning, formatTime(startedAt),
	)
	if err != nil {
		return nil, fmt.Errorf("insert run: %w", err)
	}
	return &Run{ID: id, DatasetDir: datasetDir, Status: RunRunning, StartedAt: startedAt.UTC()}, nil
}

// FinishRun stores the final status and totals of a run.
func (s *Store) FinishRun(ctx context.Context, id string, status RunStatus, totals Totals, finishedAt time.Time, errMsg string) error {
	res, err := s.execWithRetry(ctx,
		`UPDATE runs
         SET status = ?, finished_at = ?, cases_total = ?, cases_failed = ?, cases_skipped = ?,
             cases_with_findings = ?, findings_total = ?, error_message = ?
         WHERE id = ?`,
		status,
		formatTime(finishedAt),
		totals.Cases,
		totals.Failed,
		totals.Skipped,
		totals.WithFindings,
		totals.Findings,
		nullableString(errMsg),
		id,
	)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	return nil
}

// ListRuns returns the most recent runs first. A non-positive limit returns
// every run.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs ORDER BY started_at DESC, id`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, *run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// GetRun finds a run by full id or unique id prefix.
func (s *Store) GetRun(ctx context.Context, idOrPrefix string) (*Run, error) {
	if idOrPrefix == "" {
		return nil, fmt.Errorf("%w: empty id", ErrRunNotFound)
	}
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, idOrPrefix)
	run, err := scanRun(row)
	if err == nil {
		return run, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get run: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+runColumns+` FROM runs WHERE substr(id, 1, ?) = ? LIMIT 2`,
		len(idOrPrefix), idOrPrefix,
	)
	if err != nil {
		return nil, fmt.Errorf("get run by prefix: %w", err)
	}
	defer rows.Close()
	var matches []*Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		matches = append(matches, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, idOrPrefix)
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrAmbiguousRun, idOrPrefix)
	}
}
