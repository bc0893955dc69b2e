package results

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"a11ydiff/internal/detect"
	"a11ydiff/internal/uitree"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "a11ydiff.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func sampleResult() detect.Result {
	gone := &uitree.Node{ResourceID: "app:id/promo", Text: "Promo", Bounds: uitree.Rect(10, 500, 1070, 600), LiveRegion: "0", FocusStatus: uitree.FocusAfter}
	mover := &uitree.Node{ResourceID: "app:id/list", Bounds: uitree.Rect(0, 900, 1080, 1000), LiveRegion: "0", FocusStatus: uitree.FocusBefore, Direction: uitree.DirectionBelow}
	return detect.Result{
		Disappearing: []*uitree.Node{gone},
		Moving:       []*uitree.Node{mover},
	}
}

func TestRunLifecycle(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	started := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

	run, err := store.CreateRun(ctx, "4f0c2a9e-run", "/data/set", started)
	if err != nil {
		t.Fatalf("CreateRun: %v", err)
	}
	if run.Status != RunRunning {
		t.Fatalf("unexpected status %s", run.Status)
	}

	result := sampleResult()
	found := &Case{
		RunID:      run.ID,
		App:        "com.example",
		Name:       "t1",
		Dir:        "/data/set/com.example/t1",
		Status:     CaseAnalyzed,
		Flags:      detect.Flags{WindowChanged: true, A11yFocusPresent: true},
		Similarity: 0.5,
		ReportDir:  "/results/com.example_t1",
		Counts:     CountsOf(result),
		Duration:   1500 * time.Millisecond,
		Findings:   FindingsOf(result),
	}
	skipped := &Case{RunID: run.ID, App: "com.example", Name: "t2", Dir: "/x", Status: CaseSkipped, SkipReason: detect.SkipNoFocus}
	broken := &Case{RunID: run.ID, App: "com.other", Name: "t1", Dir: "/y", Status: CaseError, Error: "missing artifact"}

	var totals Totals
	for _, c := range []*Case{found, skipped, broken} {
		id, err := store.RecordCase(ctx, c)
		if err != nil {
			t.Fatalf("RecordCase(%s): %v", c.Name, err)
		}
		if id == 0 || c.ID != id {
			t.Fatalf("expected case id to be assigned, got %d/%d", id, c.ID)
		}
		totals.Add(c)
	}
	want := Totals{Cases: 3, Failed: 1, Skipped: 1, WithFindings: 1, Findings: 2}
	if totals != want {
		t.Fatalf("totals = %+v, want %+v", totals, want)
	}

	if err := store.FinishRun(ctx, run.ID, RunCompleted, totals, started.Add(time.Minute), ""); err != nil {
		t.Fatalf("FinishRun: %v", err)
	}

	got, err := store.GetRun(ctx, "4f0c")
	if err != nil {
		t.Fatalf("GetRun by prefix: %v", err)
	}
	if got.Status != RunCompleted || got.Totals != want || !got.FinishedAt.Equal(started.Add(time.Minute)) {
		t.Fatalf("unexpected run %+v", got)
	}

	cases, err := store.ListCases(ctx, run.ID)
	if err != nil {
		t.Fatalf("ListCases: %v", err)
	}
	if len(cases) != 3 || cases[0].Name != "t1" || cases[1].Name != "t2" || cases[2].App != "com.other" {
		t.Fatalf("unexpected case order: %+v", cases)
	}
	first := cases[0]
	if !first.Flags.WindowChanged || first.Counts.Total() != 2 || first.Duration != 1500*time.Millisecond || first.ReportDir == "" {
		t.Fatalf("unexpected stored case %+v", first)
	}
	if cases[1].SkipReason != detect.SkipNoFocus || cases[2].Error != "missing artifact" {
		t.Fatalf("unexpected skip/error fields: %+v %+v", cases[1], cases[2])
	}

	findings, err := store.Findings(ctx, first.ID)
	if err != nil {
		t.Fatalf("Findings: %v", err)
	}
	if len(findings) != 2 || findings[0].Category != detect.CategoryDisappearing || findings[1].Category != detect.CategoryMoving {
		t.Fatalf("unexpected findings %+v", findings)
	}
	if findings[0].Record.ResourceID != "app:id/promo" || findings[0].Record.FocusStatus != "AFTER" {
		t.Fatalf("unexpected record %+v", findings[0].Record)
	}
	if findings[1].Record.MovedFromAboveToBelow == nil || findings[1].Record.Direction != "Below" {
		t.Fatalf("expected moving record to keep its crossing flag, got %+v", findings[1].Record)
	}

	onlyMoving, err := store.Findings(ctx, first.ID, detect.CategoryMoving)
	if err != nil {
		t.Fatalf("Findings filtered: %v", err)
	}
	if len(onlyMoving) != 1 || onlyMoving[0].Position != 0 {
		t.Fatalf("unexpected filtered findings %+v", onlyMoving)
	}
}

func TestRecordCaseRejectsDuplicates(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	if _, err := store.CreateRun(ctx, "run-1", "/d", time.Now()); err != nil {
		t.Fatal(err)
	}
	c := Case{RunID: "run-1", App: "a", Name: "t", Dir: "/d/a/t", Status: CaseAnalyzed}
	if _, err := store.RecordCase(ctx, &c); err != nil {
		t.Fatalf("first RecordCase: %v", err)
	}
	dup := c
	dup.ID = 0
	if _, err := store.RecordCase(ctx, &dup); err == nil {
		t.Fatal("expected unique constraint violation")
	}
}

func TestRecordCaseRequiresRun(t *testing.T) {
	store := openTestStore(t)
	c := &Case{RunID: "missing", App: "a", Name: "t", Dir: "/d", Status: CaseAnalyzed}
	if _, err := store.RecordCase(context.Background(), c); err == nil {
		t.Fatal("expected foreign key violation")
	}
}

func TestGetRunErrors(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	for _, id := range []string{"abc-1", "abc-2"} {
		if _, err := store.CreateRun(ctx, id, "/d", time.Now()); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := store.GetRun(ctx, "abc"); !errors.Is(err, ErrAmbiguousRun) {
		t.Fatalf("expected ErrAmbiguousRun, got %v", err)
	}
	if _, err := store.GetRun(ctx, "zzz"); !errors.Is(err, ErrRunNotFound) {
		t.Fatalf("expected ErrRunNotFound, got %v", err)
	}
	if run, err := store.GetRun(ctx, "abc-2"); err != nil || run.ID != "abc-2" {
		t.Fatalf("exact match failed: %v %v", run, err)
	}
	if err := store.FinishRun(ctx, "nope", RunFailed, Totals{}, time.Now(), "boom"); !errors.Is(err, ErrRunNotFound) {
		t.Fatalf("expected ErrRunNotFound from FinishRun, got %v", err)
	}
}

func TestListRunsNewestFirst(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"old", "mid", "new"} {
		if _, err := store.CreateRun(ctx, id, "/d", base.Add(time.Duration(i)*time.Hour)); err != nil {
			t.Fatal(err)
		}
	}
	runs, err := store.ListRuns(ctx, 2)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 2 || runs[0].ID != "new" || runs[1].ID != "mid" {
		t.Fatalf("unexpected runs %+v", runs)
	}
	all, err := store.ListRuns(ctx, 0)
	if err != nil || len(all) != 3 {
		t.Fatalf("expected all runs, got %d (%v)", len(all), err)
	}
}

func TestOpenRejectsSchemaMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a11ydiff.db")
	store, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := store.db.Exec("UPDATE schema_version SET version = 99"); err != nil {
		t.Fatalf("bump version: %v", err)
	}
	_ = store.Close()

	if _, err := Open(path); !errors.Is(err, ErrSchemaMismatch) {
		t.Fatalf("expected ErrSchemaMismatch, got %v", err)
	}
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a11ydiff.db")
	store, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := store.CreateRun(context.Background(), "persisted", "/d", time.Now()); err != nil {
		t.Fatal(err)
	}
	_ = store.Close()

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()
	if _, err := reopened.GetRun(context.Background(), "persisted"); err != nil {
		t.Fatalf("expected run to survive reopen: %v", err)
	}
}

func TestIsSQLiteBusy(t *testing.T) {
	cases := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{errors.New("database is locked"), true},
		{errors.New("SQLITE_BUSY: retry"), true},
		{errors.New("no such table"), false},
	}
	for _, tc := range cases {
		if got := isSQLiteBusy(tc.err); got != tc.want {
			t.Errorf("isSQLiteBusy(%v) = %v, want %v", tc.err, got, tc.want)
		}
	}
}

func TestRetryOnBusy(t *testing.T) {
	attempts := 0
	err := retryOnBusy(context.Background(), func() error {
		attempts++
		if attempts < 3 {
			return errors.New("database is locked")
		}
		return nil
	})
	if err != nil || attempts != 3 {
		t.Fatalf("expected success on third attempt, got err=%v attempts=%d", err, attempts)
	}

	attempts = 0
	permanent := errors.New("constraint failed")
	if err := retryOnBusy(context.Background(), func() error {
		attempts++
		return permanent
	}); !errors.Is(err, permanent) || attempts != 1 {
		t.Fatalf("expected no retry for non-busy error, got err=%v attempts=%d", err, attempts)
	}
}
