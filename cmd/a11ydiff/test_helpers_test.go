package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"a11ydiff/internal/config"
	"a11ydiff/internal/eventlog"
	"a11ydiff/internal/testsupport"
)

var (
	feed  = testsupport.Elem{ID: "app:id/feed", Text: "Feed", Bounds: "[0,100][1080,200]", Focused: true}
	promo = testsupport.Elem{ID: "app:id/promo", Text: "Promo", Bounds: "[10,500][1070,600]"}
	plain = testsupport.Elem{ID: "app:id/plain", Text: "Plain", Bounds: "[0,100][1080,200]"}
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
}

func setupCLITestEnv(t *testing.T, opts ...testsupport.ConfigOption) *cliTestEnv {
	t.Helper()

	cfg := testsupport.NewConfig(t, opts...)
	cfg.Logging.Level = "error"
	homeDir := filepath.Join(testsupport.BaseDir(cfg), "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)

	configPath := filepath.Join(homeDir, ".config", "a11ydiff", "config.toml")
	writeTestConfig(t, configPath, cfg)
	return &cliTestEnv{cfg: cfg, configPath: configPath}
}

// writeDataset lays out one case with a disappearing promo banner and one
// case without focus evidence.
func (e *cliTestEnv) writeDataset(t *testing.T) {
	t.Helper()
	root := e.cfg.Paths.DatasetDir
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
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	content, err := cfg.Encode()
	if err != nil {
		t.Fatalf("encode config: %v", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir config dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
