package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"a11ydiff/internal/config"
	"a11ydiff/internal/dataset"
	"a11ydiff/internal/detect"
	"a11ydiff/internal/logging"
	"a11ydiff/internal/report"
	"a11ydiff/internal/results"
)

// ErrLocked is returned when another run holds the results directory.
var ErrLocked = errors.New("results directory is locked by another run")

// Summary describes a finished run.
type Summary struct {
	RunID    string            `json:"run_id"`
	Status   results.RunStatus `json:"status"`
	Totals   results.Totals    `json:"totals"`
	Duration time.Duration     `json:"duration"`
	// Cases are in discovery order.
	Cases []results.Case `json:"cases"`
}

// Runner executes batch runs against one configuration.
type Runner struct {
	cfg      *config.Config
	store    *results.Store
	loader   *dataset.Loader
	analyzer *detect.Analyzer
	writer   *report.Writer
	logger   *slog.Logger
	now      func() time.Time
}

// NewRunner wires the loader, analyzer and report writer for cfg.
func NewRunner(cfg *config.Config, store *results.Store, logger *slog.Logger) (*Runner, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	if store == nil {
		return nil, errors.New("results store is required")
	}
	loader, err := dataset.NewLoader(cfg, logger)
	if err != nil {
		return nil, err
	}
	return &Runner{
		cfg:      cfg,
		store:    store,
		loader:   loader,
		analyzer: detect.NewAnalyzer(cfg.DetectPolicy(), logger),
		writer:   report.NewWriter(cfg.Paths.ResultsDir, cfg.Batch.RenderOverlays, logger),
		logger:   logging.NewComponentLogger(logger, "batch"),
		now:      time.Now,
	}, nil
}

// Run analyzes every test case below datasetDir. An empty datasetDir uses
// the configured dataset directory.
func (r *Runner) Run(ctx context.Context, datasetDir string) (*Summary, error) {
	if datasetDir == "" {
		datasetDir = r.cfg.Paths.DatasetDir
	}

	lock := flock.New(r.cfg.LockPath())
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !locked {
		return nil, ErrLocked
	}
	defer func() { _ = lock.Unlock() }()

	cases, err := dataset.Discover(datasetDir)
	if err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	logger := logging.WithRunID(r.logger, runID)
	started := r.now()
	if _, err := r.store.CreateRun(ctx, runID, datasetDir, started); err != nil {
		return nil, err
	}
	logger.Info("run started",
		logging.String("dataset", datasetDir),
		logging.Int("cases", len(cases)),
		logging.Int("workers", max(r.cfg.Batch.Workers, 1)),
	)

	var (
		mu       sync.Mutex
		totals   results.Totals
		recorded = make([]results.Case, len(cases))
	)
	workers := max(r.cfg.Batch.Workers, 1)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, c := range cases {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			rec := r.processCase(gctx, logger, runID, c)
			if _, err := r.store.RecordCase(gctx, rec); err != nil {
				if gctx.Err() == nil {
					logging.ErrorWithContext(logger, "case not recorded", "case_record_failed",
						logging.String(logging.FieldApp, c.App),
						logging.String(logging.FieldCase, c.Name),
						logging.String(logging.FieldErrorHint, "check the results database for disk or lock errors"),
						logging.String(logging.FieldImpact, "remaining cases are abandoned and the run is marked failed"),
						logging.Error(err),
					)
				}
				return err
			}
			mu.Lock()
			totals.Add(rec)
			recorded[i] = *rec
			mu.Unlock()
			return nil
		})
	}
	runErr := g.Wait()

	status := results.RunCompleted
	errMsg := ""
	switch {
	case ctx.Err() != nil:
		status = results.RunCanceled
		errMsg = ctx.Err().Error()
		runErr = ctx.Err()
	case runErr != nil:
		status = results.RunFailed
		errMsg = runErr.Error()
	}

	finished := r.now()
	if err := r.store.FinishRun(context.WithoutCancel(ctx), runID, status, totals, finished, errMsg); err != nil {
		runErr = errors.Join(runErr, err)
	}

	summary := &Summary{
		RunID:    runID,
		Status:   status,
		Totals:   totals,
		Duration: finished.Sub(started),
		Cases:    compact(recorded),
	}
	logger.Info("run finished",
		logging.String("status", string(status)),
		logging.Int("cases", totals.Cases),
		logging.Int("with_findings", totals.WithFindings),
		logging.Int("findings", totals.Findings),
		logging.Int("skipped", totals.Skipped),
		logging.Int("failed", totals.Failed),
		logging.Duration("duration", summary.Duration),
	)
	return summary, runErr
}

// compact drops slots of cases that never ran.
func compact(cases []results.Case) []results.Case {
	out := cases[:0]
	for _, c := range cases {
		if c.RunID != "" {
			out = append(out, c)
		}
	}
	return out
}
