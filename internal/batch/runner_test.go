package batch_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/gofrs/flock"

	"a11ydiff/internal/batch"
	"a11ydiff/internal/config"
	"a11ydiff/internal/detect"
	"a11ydiff/internal/eventlog"
	"a11ydiff/internal/results"
	"a11ydiff/internal/testsupport"
)

var (
	feed  = testsupport.Elem{ID: "app:id/feed", Text: "Feed", Bounds: "[0,100][1080,200]", Focused: true}
	promo = testsupport.Elem{ID: "app:id/promo", Text: "Promo", Bounds: "[10,500][1070,600]"}
	plain = testsupport.Elem{ID: "app:id/plain", Text: "Plain", Bounds: "[0,100][1080,200]"}
)

func newRunner(t *testing.T, cfg *config.Config) (*batch.Runner, *results.Store) {
	t.Helper()
	store, err := results.OpenForConfig(cfg)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	runner, err := batch.NewRunner(cfg, store, nil)
	if err != nil {
		t.Fatalf("NewRunner: %v", err)
	}
	return runner, store
}

func writeDataset(t *testing.T, cfg *config.Config) {
	t.Helper()
	root := cfg.Paths.DatasetDir
	testsupport.WriteCase(t, root, "com.example", "promo", testsupport.Case{
		Pre:      testsupport.TreeXML(feed, promo),
		Mid:      testsupport.TreeXML(feed, promo),
		Final:    testsupport.TreeXML(feed),
		EventLog: testsupport.EventLine(eventlog.TypeWindowContentChanged, []int{0, 400, 1080, 800}),
	})
	testsupport.WriteCase(t, root, "com.example", "quiet", testsupport.Case{
		Pre:   testsupport.TreeXML(plain),
		Final: testsupport.TreeXML(plain),
	})
	testsupport.WriteCase(t, root, "com.example", "broken", testsupport.Case{
		Omit: []string{testsupport.SuffixFinalTree},
	})
	if err := os.MkdirAll(filepath.Join(root, ".trash", "old"), 0o755); err != nil {
		t.Fatal(err)
	}
}

func TestRunClassifiesDataset(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	writeDataset(t, cfg)
	runner, store := newRunner(t, cfg)

	summary, err := runner.Run(context.Background(), "")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.Status != results.RunCompleted || summary.RunID == "" {
		t.Fatalf("unexpected summary %+v", summary)
	}
	want := results.Totals{Cases: 3, Failed: 1, Skipped: 1, WithFindings: 1, Findings: 1}
	if summary.Totals != want {
		t.Fatalf("totals = %+v, want %+v", summary.Totals, want)
	}

	byName := map[string]results.Case{}
	for _, c := range summary.Cases {
		byName[c.Name] = c
	}
	if got := byName["broken"]; got.Status != results.CaseError || got.Error == "" {
		t.Fatalf("unexpected broken case %+v", got)
	}
	if got := byName["quiet"]; got.Status != results.CaseSkipped || got.SkipReason != detect.SkipNoFocus || got.ReportDir != "" {
		t.Fatalf("unexpected quiet case %+v", got)
	}
	found := byName["promo"]
	if found.Status != results.CaseAnalyzed || found.Counts.Disappearing != 1 || found.Counts.Total() != 1 {
		t.Fatalf("unexpected promo case %+v", found)
	}
	for _, name := range []string{"results.txt", "d_1_out.png", "d_2_out.png", "d_3_out.png", "artifacts/promo-ev.txt"} {
		if _, err := os.Stat(filepath.Join(found.ReportDir, name)); err != nil {
			t.Fatalf("expected report file %s: %v", name, err)
		}
	}

	run, err := store.GetRun(context.Background(), summary.RunID)
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if run.Status != results.RunCompleted || run.Totals != want {
		t.Fatalf("unexpected stored run %+v", run)
	}
	stored, err := store.ListCases(context.Background(), summary.RunID)
	if err != nil || len(stored) != 3 {
		t.Fatalf("expected 3 stored cases, got %d (%v)", len(stored), err)
	}
	var promoID int64
	for _, c := range stored {
		if c.Name == "promo" {
			promoID = c.ID
		}
	}
	findings, err := store.Findings(context.Background(), promoID)
	if err != nil {
		t.Fatalf("Findings: %v", err)
	}
	if len(findings) != 1 || findings[0].Record.ResourceID != "app:id/promo" || findings[0].Record.FocusStatus != "AFTER" {
		t.Fatalf("unexpected stored findings %+v", findings)
	}
}

func TestRunSaveAllReportsEmptyCases(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithSaveAll(), testsupport.WithoutOverlays(), testsupport.WithWorkers(1))
	testsupport.WriteCase(t, cfg.Paths.DatasetDir, "com.example", "steady", testsupport.Case{
		Pre:   testsupport.TreeXML(feed),
		Final: testsupport.TreeXML(feed),
	})
	runner, _ := newRunner(t, cfg)

	summary, err := runner.Run(context.Background(), "")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(summary.Cases) != 1 {
		t.Fatalf("expected one case, got %+v", summary.Cases)
	}
	c := summary.Cases[0]
	if c.Status != results.CaseAnalyzed || c.Counts.Total() != 0 || c.ReportDir == "" {
		t.Fatalf("expected an empty analyzed case with a report, got %+v", c)
	}
	if _, err := os.Stat(filepath.Join(c.ReportDir, "d_1_out.png")); !os.IsNotExist(err) {
		t.Fatalf("expected no overlays, stat err %v", err)
	}
}

func TestRunRefusesWhenLocked(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	runner, _ := newRunner(t, cfg)

	holder := flock.New(cfg.LockPath())
	locked, err := holder.TryLock()
	if err != nil || !locked {
		t.Fatalf("take lock: locked=%v err=%v", locked, err)
	}
	defer holder.Unlock()

	if _, err := runner.Run(context.Background(), ""); !errors.Is(err, batch.ErrLocked) {
		t.Fatalf("expected ErrLocked, got %v", err)
	}
}

func TestRunMissingDataset(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	runner, _ := newRunner(t, cfg)
	if _, err := runner.Run(context.Background(), filepath.Join(t.TempDir(), "absent")); err == nil {
		t.Fatal("expected error for missing dataset")
	}
}

func TestRunCanceledBeforeStart(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	writeDataset(t, cfg)
	runner, _ := newRunner(t, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := runner.Run(ctx, ""); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestNewRunnerRequiresDependencies(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	if _, err := batch.NewRunner(nil, nil, nil); err == nil {
		t.Fatal("expected error without config")
	}
	if _, err := batch.NewRunner(cfg, nil, nil); err == nil {
		t.Fatal("expected error without store")
	}
}
