// Package logging assembles structured slog loggers and formatting helpers
// used across a11ydiff.
//
// It owns the console and JSON handlers, tees output into the persistent log
// file, and exposes helpers so batch code can tag log lines with the run, app,
// and test case being analyzed. The package also provides a no-op logger for
// tests and wiring code that cannot fail.
package logging
