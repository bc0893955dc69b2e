package logging_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"a11ydiff/internal/logging"
)

func TestConsoleLoggerFormatsComponentAndCase(t *testing.T) {
	var buf bytes.Buffer
	logger, closer, err := logging.New(logging.Options{Format: "console", Level: "info", Output: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	defer closer.Close()

	ctx := logging.WithCase(context.Background(), "com.example.app", "test-03")
	log := logging.WithContext(ctx, logging.NewComponentLogger(logger, "batch"))
	log.Info("case analyzed", logging.Int("findings", 3), logging.String("status", "needs review"))
	log.Debug("hidden")

	line := buf.String()
	for _, want := range []string{" INFO batch: case analyzed", "[com.example.app/test-03]", "findings=3", `status="needs review"`} {
		if !strings.Contains(line, want) {
			t.Fatalf("expected %q in %q", want, line)
		}
	}
	if strings.Contains(line, "hidden") {
		t.Fatal("expected debug line to be filtered at info level")
	}
	if strings.Contains(line, ".go:") {
		t.Fatalf("expected no caller information at info level, got %q", line)
	}
}

func TestJSONLoggerWritesStructuredFields(t *testing.T) {
	var buf bytes.Buffer
	logger, _, err := logging.New(logging.Options{Format: "json", Output: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logging.WarnWithContext(logger, "screenshot compare failed", "screenshot_compare_failed", logging.Error(errors.New("boom")))

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("decode log line %q: %v", buf.String(), err)
	}
	if record["level"] != "warn" || record["event_type"] != "screenshot_compare_failed" {
		t.Fatalf("unexpected record: %v", record)
	}
	if record["error_hint"] == nil || record["impact"] == nil {
		t.Fatalf("expected injected hint and impact, got %v", record)
	}
	if _, ok := record["ts"]; !ok {
		t.Fatalf("expected ts key, got %v", record)
	}
}

func TestLoggerTeesIntoFile(t *testing.T) {
	var buf bytes.Buffer
	path := filepath.Join(t.TempDir(), "logs", "a11ydiff.log")
	logger, closer, err := logging.New(logging.Options{Format: "console", Output: &buf, FilePath: path})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logging.WithRunID(logger, "run-1").Info("run started")
	if err := closer.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), `"run_id":"run-1"`) {
		t.Fatalf("expected JSON line with run id in file, got %q", data)
	}
	if !strings.Contains(buf.String(), "run_id=run-1") {
		t.Fatalf("expected console line with run id, got %q", buf.String())
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestDecisionAttrs(t *testing.T) {
	attrs := logging.DecisionAttrs("classification", "skipped", "no focus")
	for _, key := range []string{logging.FieldDecisionType, "decision_result", "decision_reason"} {
		if !logging.HasAttrKey(attrs, key) {
			t.Fatalf("missing %s in %v", key, attrs)
		}
	}
}
