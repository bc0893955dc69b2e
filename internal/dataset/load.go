package dataset

import (
	"context"
	"fmt"
	"log/slog"

	"a11ydiff/internal/config"
	"a11ydiff/internal/detect"
	"a11ydiff/internal/eventlog"
	"a11ydiff/internal/logging"
	"a11ydiff/internal/screenshot"
	"a11ydiff/internal/uitree"
)

// Loaded is a materialized test case ready for analysis.
type Loaded struct {
	Case      Case
	Artifacts Artifacts
	Input     *detect.Input
	// Similarity of the outer screenshots under the configured hash, or -1
	// when it could not be computed.
	Similarity float64
}

// Loader materializes test cases using the configured screen geometry and
// screenshot comparator.
type Loader struct {
	screen      uitree.Bounds
	significant *screenshot.Comparator
	similarity  *screenshot.Comparator
	logger      *slog.Logger
}

// NewLoader builds a loader from configuration. The significance check always
// uses the average hash, as the configured hash kind only applies to
// general similarity checks.
func NewLoader(cfg *config.Config, logger *slog.Logger) (*Loader, error) {
	cmp, err := screenshot.NewComparator(screenshot.HashAverage, cfg.Screenshots.SignificanceThreshold)
	if err != nil {
		return nil, fmt.Errorf("significance comparator: %w", err)
	}
	sim, err := screenshot.NewComparator(screenshot.HashKind(cfg.Screenshots.Hash), cfg.Screenshots.SimilarityThreshold)
	if err != nil {
		return nil, fmt.Errorf("similarity comparator: %w", err)
	}
	return &Loader{
		screen:      cfg.Screen.Bounds.Bounds(),
		significant: cmp,
		similarity:  sim,
		logger:      logging.NewComponentLogger(logger, "dataset"),
	}, nil
}

// Load locates and parses every artifact of c.
func (l *Loader) Load(ctx context.Context, c Case) (*Loaded, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	artifacts, err := Locate(c.Dir)
	if err != nil {
		return nil, err
	}

	var snaps [3]uitree.Snapshot
	for i, path := range artifacts.Trees() {
		snap, err := uitree.LoadFile(path, l.screen)
		if err != nil {
			return nil, err
		}
		snaps[i] = snap
	}

	events, err := eventlog.ParseFile(artifacts.EventLog)
	if err != nil {
		return nil, err
	}
	summary := eventlog.Analyze(events)

	flags := detect.Flags{
		WindowChanged:       summary.WindowChanged,
		A11yFocusPresent:    summary.A11yFocusPresent,
		ScrollingNewContent: summary.ScrollingNewContent,
		ClickNewWindow:      summary.ClickNewWindow,
	}
	if !flags.ScrollingNewContent && !flags.ClickNewWindow {
		flags.SignificantContent = l.significantChange(ctx, c, artifacts)
		if flags.SignificantContent {
			flags.FocusChangedAfterClick = summary.FocusChangedAfterClick
		}
	}

	in := &detect.Input{
		Pre:            snaps[0],
		Mid:            snaps[1],
		Final:          snaps[2],
		RefreshedAreas: eventlog.RefreshedAreas(events),
		FocusEvents:    eventlog.FocusRects(events),
		LastFocused:    summary.LastFocused,
		LastClicked:    summary.LastClicked,
		Flags:          flags,
	}
	similarity, err := l.similarity.SimilarityFiles(artifacts.PreImage, artifacts.FinalImage)
	if err != nil {
		similarity = -1
	}
	logging.WithContext(ctx, l.logger).Debug("case loaded",
		logging.Int("pre_nodes", len(in.Pre)),
		logging.Int("mid_nodes", len(in.Mid)),
		logging.Int("final_nodes", len(in.Final)),
		logging.Int("events", len(events)),
		logging.Float64("similarity", similarity),
		logging.Any("flags", flags),
	)
	return &Loaded{Case: c, Artifacts: artifacts, Input: in, Similarity: similarity}, nil
}

// significantChange compares the outer screenshots. A comparison failure
// counts as no significant change.
func (l *Loader) significantChange(ctx context.Context, c Case, a Artifacts) bool {
	different, err := l.significant.Different(a.PreImage, a.FinalImage)
	if err != nil {
		logging.WarnWithContext(logging.WithContext(ctx, l.logger), "screenshot comparison failed", "screenshot_compare_failed",
			logging.String(logging.FieldErrorHint, "check that the .1.png and .3.png screenshots are valid images"),
			logging.String(logging.FieldImpact, "case analyzed as if content did not change significantly"),
			logging.String("dir", c.Dir),
			logging.Error(err),
		)
		return false
	}
	return different
}
