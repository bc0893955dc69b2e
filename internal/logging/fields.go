package logging

import (
	"context"
	"log/slog"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldRunID identifies one batch run.
	FieldRunID = "run_id"
	// FieldApp is the application directory a test case belongs to.
	FieldApp = "app"
	// FieldCase is the test case directory name.
	FieldCase = "case"
	// FieldCategory names a finding category.
	FieldCategory = "category"
	// FieldEventType classifies warnings and errors for filtering.
	FieldEventType = "event_type"
	// FieldErrorHint suggests the next step to the operator.
	FieldErrorHint = "error_hint"
	// FieldImpact is the user-facing consequence of a warning.
	FieldImpact = "impact"
	// FieldDecisionType names the gate a decision log line reports on.
	FieldDecisionType = "decision_type"
)

type caseKey struct{}

type caseFields struct {
	app  string
	name string
}

// WithCase returns a context carrying the app and test case being analyzed.
func WithCase(ctx context.Context, app, name string) context.Context {
	return context.WithValue(ctx, caseKey{}, caseFields{app: app, name: name})
}

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	fields, ok := ctx.Value(caseKey{}).(caseFields)
	if !ok {
		return nil
	}
	out := make([]slog.Attr, 0, 2)
	if fields.app != "" {
		out = append(out, slog.String(FieldApp, fields.app))
	}
	if fields.name != "" {
		out = append(out, slog.String(FieldCase, fields.name))
	}
	return out
}

// WithContext returns a logger augmented with structured fields derived from the supplied context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(attrsToArgs(fields)...)
}
