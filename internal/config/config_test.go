package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"a11ydiff/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved != filepath.Join(tempHome, ".config", "a11ydiff", "config.toml") {
		t.Fatalf("unexpected resolved path: %q", resolved)
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	if want := filepath.Join(tempHome, "a11ydiff", "results"); cfg.Paths.ResultsDir != want {
		t.Fatalf("unexpected results dir: got %q want %q", cfg.Paths.ResultsDir, want)
	}
	if cfg.Screen.Bounds != (config.Rect{0, 0, 1080, 2400}) {
		t.Fatalf("unexpected screen bounds: %v", cfg.Screen.Bounds)
	}
	if cfg.Detection.NavBarTolerance != 100 || cfg.Detection.ContentTolerance != 2000 {
		t.Fatalf("unexpected tolerances: %+v", cfg.Detection)
	}
	if cfg.Screenshots.SignificanceThreshold != 0.9 || cfg.Screenshots.Hash != "average" {
		t.Fatalf("unexpected screenshot settings: %+v", cfg.Screenshots)
	}
	if !cfg.Batch.SaveOnlyOnFindings || cfg.Batch.Workers != 4 {
		t.Fatalf("unexpected batch settings: %+v", cfg.Batch)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{cfg.Paths.ResultsDir, cfg.Paths.LogDir} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("expected directory %q to exist: %v", dir, err)
		}
		if !info.IsDir() {
			t.Fatalf("expected %q to be directory", dir)
		}
	}
	if _, err := os.Stat(cfg.Paths.DatasetDir); !os.IsNotExist(err) {
		t.Fatalf("expected dataset dir to be left alone, stat err = %v", err)
	}
}

func TestLoadCustomPath(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "a11ydiff.toml")

	type payload struct {
		Paths struct {
			DatasetDir string `toml:"dataset_dir"`
		} `toml:"paths"`
		Screen struct {
			Bounds [4]int `toml:"bounds"`
		} `toml:"screen"`
		Detection struct {
			ContentTolerance int `toml:"content_tolerance"`
		} `toml:"detection"`
		Logging struct {
			Format string `toml:"format"`
		} `toml:"logging"`
	}
	custom := payload{}
	custom.Paths.DatasetDir = filepath.Join(tempDir, "data")
	custom.Screen.Bounds = [4]int{0, 0, 1440, 3200}
	custom.Detection.ContentTolerance = 500
	custom.Logging.Format = " JSON "
	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal custom config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write custom config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected exists to be true")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, configPath)
	}
	if cfg.Paths.DatasetDir != custom.Paths.DatasetDir {
		t.Fatalf("expected dataset dir from file, got %q", cfg.Paths.DatasetDir)
	}
	if got := cfg.Screen.Bounds.Bounds(); got.X2 != 1440 || got.Y2 != 3200 {
		t.Fatalf("expected screen override, got %s", got)
	}
	if cfg.Logging.Format != "json" {
		t.Fatalf("expected normalized log format, got %q", cfg.Logging.Format)
	}

	policy := cfg.DetectPolicy()
	if policy.ContentTolerance != 500 || policy.NavBarTolerance != 100 {
		t.Fatalf("unexpected detect policy: %+v", policy)
	}
	if policy.BottomNavBar.Y1 != 2270 {
		t.Fatalf("expected default bottom nav bar, got %s", policy.BottomNavBar)
	}
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "broken.toml")
	if err := os.WriteFile(configPath, []byte("[detection\nnav_bar_tolerance = "), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := config.Load(configPath); err == nil || !strings.Contains(err.Error(), "parse config") {
		t.Fatalf("expected parse error, got %v", err)
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "sample.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}

	var cfg config.Config
	if err := toml.Unmarshal(contents, &cfg); err != nil {
		t.Fatalf("unmarshal sample: %v", err)
	}
	if cfg.Screen.BottomNavBar != (config.Rect{0, 2270, 1080, 2400}) {
		t.Fatalf("unexpected sample bottom nav bar: %v", cfg.Screen.BottomNavBar)
	}
	if !strings.Contains(cfg.Paths.ResultsDir, "a11ydiff") {
		t.Fatalf("expected results dir to mention a11ydiff, got %q", cfg.Paths.ResultsDir)
	}

	loaded, _, exists, err := config.Load(path)
	if err != nil || !exists {
		t.Fatalf("expected sample to load cleanly, exists=%v err=%v", exists, err)
	}
	if loaded.Batch.Workers != config.Default().Batch.Workers {
		t.Fatalf("sample workers %d differ from default", loaded.Batch.Workers)
	}
}

func TestEncodeRoundTrips(t *testing.T) {
	cfg := config.Default()
	text, err := cfg.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	var decoded config.Config
	if err := toml.Unmarshal([]byte(text), &decoded); err != nil {
		t.Fatalf("decode encoded config: %v", err)
	}
	if decoded.Detection != cfg.Detection || decoded.Screen != cfg.Screen {
		t.Fatalf("round trip mismatch: %+v vs %+v", decoded, cfg)
	}
}

func TestValidateDetectsInvalidValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"nav tolerance", func(c *config.Config) { c.Detection.NavBarTolerance = 0 }, "detection.nav_bar_tolerance"},
		{"content tolerance", func(c *config.Config) { c.Detection.ContentTolerance = -1 }, "detection.content_tolerance"},
		{"threshold zero", func(c *config.Config) { c.Screenshots.SignificanceThreshold = 0 }, "screenshots.significance_threshold"},
		{"threshold above one", func(c *config.Config) { c.Screenshots.SimilarityThreshold = 1.5 }, "screenshots.similarity_threshold"},
		{"inverted rect", func(c *config.Config) { c.Screen.TopNavBar = config.Rect{0, 80, 1080, 0} }, "screen.top_nav_bar"},
		{"negative rect", func(c *config.Config) { c.Screen.Bounds = config.Rect{-1, 0, 1080, 2400} }, "screen.bounds"},
		{"nav bar off screen", func(c *config.Config) { c.Screen.BottomNavBar = config.Rect{0, 2270, 1080, 2600} }, "screen.bottom_nav_bar"},
		{"workers", func(c *config.Config) { c.Batch.Workers = -2 }, "batch.workers"},
		{"hash", func(c *config.Config) { c.Screenshots.Hash = "wavelet" }, "screenshots.hash"},
		{"log format", func(c *config.Config) { c.Logging.Format = "xml" }, "logging.format"},
		{"log level", func(c *config.Config) { c.Logging.Level = "loud" }, "logging.level"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("error %q does not name %s", err, tc.want)
			}
		})
	}

	cfg := config.Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}
}
