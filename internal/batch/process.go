package batch

import (
	"context"
	"errors"
	"log/slog"

	"a11ydiff/internal/dataset"
	"a11ydiff/internal/detect"
	"a11ydiff/internal/logging"
	"a11ydiff/internal/report"
	"a11ydiff/internal/results"
)

// processCase loads, analyzes and reports one case. Failures are folded
// into the returned record rather than returned.
func (r *Runner) processCase(ctx context.Context, logger *slog.Logger, runID string, c dataset.Case) *results.Case {
	ctx = logging.WithCase(ctx, c.App, c.Name)
	logger = logging.WithContext(ctx, logger)
	start := r.now()

	rec := &results.Case{
		RunID:      runID,
		App:        c.App,
		Name:       c.Name,
		Dir:        c.Dir,
		Similarity: -1,
	}

	loaded, err := r.loader.Load(ctx, c)
	if err != nil {
		logging.WarnWithContext(logger, "case failed to load", "case_load_failed",
			logging.String(logging.FieldErrorHint, "check the test case directory for missing or corrupt artifacts"),
			logging.String(logging.FieldImpact, "case recorded as error and excluded from findings"),
			logging.Error(err),
		)
		rec.Status = results.CaseError
		rec.Error = err.Error()
		rec.Duration = r.now().Sub(start)
		return rec
	}

	result := r.analyzer.Analyze(loaded.Input)
	rec.Flags = loaded.Input.Flags
	rec.Similarity = loaded.Similarity
	rec.Counts = results.CountsOf(result)
	rec.Findings = results.FindingsOf(result)
	rec.Status = results.CaseAnalyzed
	if result.Skipped != "" {
		rec.Status = results.CaseSkipped
		rec.SkipReason = result.Skipped
	}

	if r.shouldReport(result) {
		folder, err := r.writer.Write(ctx, ReportCase(loaded, result))
		switch {
		case errors.Is(err, report.ErrOverlay):
			logging.WarnWithContext(logger, "report discarded", "report_overlay_failed",
				logging.String(logging.FieldErrorHint, "check that the case screenshots are readable images"),
				logging.String(logging.FieldImpact, "findings are stored but no report folder exists for this case"),
				logging.Error(err),
			)
		case err != nil:
			logging.WarnWithContext(logger, "report not written", "report_write_failed",
				logging.String(logging.FieldErrorHint, "check free space and permissions of the results directory"),
				logging.String(logging.FieldImpact, "findings are stored but no report folder exists for this case"),
				logging.Error(err),
			)
		default:
			rec.ReportDir = folder
		}
	}
	rec.Duration = r.now().Sub(start)

	attrs := []logging.Attr{
		logging.String("status", string(rec.Status)),
		logging.Int("findings", rec.Counts.Total()),
	}
	for _, cat := range detect.Categories {
		attrs = append(attrs, logging.Int(cat.String(), rec.Counts.Of(cat)))
	}
	if rec.SkipReason != "" {
		attrs = append(attrs, logging.DecisionAttrs("case_gate", "skipped", rec.SkipReason)...)
	}
	logger.Info("case analyzed", logging.Args(attrs...)...)
	return rec
}

// shouldReport skips cases the gate rejected; analyzed cases are reported
// when they have findings or when every case is kept.
func (r *Runner) shouldReport(result detect.Result) bool {
	if result.Skipped != "" {
		return false
	}
	return !r.cfg.Batch.SaveOnlyOnFindings || !result.Empty()
}

// ReportCase describes a loaded case and its result for the report writer.
func ReportCase(loaded *dataset.Loaded, result detect.Result) report.Case {
	a := loaded.Artifacts
	return report.Case{
		App:           loaded.Case.App,
		Name:          loaded.Case.Name,
		Dir:           loaded.Case.Dir,
		WindowChanged: loaded.Input.Flags.WindowChanged,
		Result:        result,
		Images:        a.Images(),
		Sources:       []string{a.EventLog, a.PreTree, a.MidTree, a.FinalTree},
	}
}
