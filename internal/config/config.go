package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"a11ydiff/internal/detect"
	"a11ydiff/internal/uitree"
)

//go:embed sample_config.toml
var sampleConfig string

// Rect is a screen rectangle written as [x1, y1, x2, y2] in TOML.
type Rect [4]int

// Bounds converts the rectangle into the detector's geometry type.
func (r Rect) Bounds() uitree.Bounds {
	return uitree.Bounds{X1: r[0], Y1: r[1], X2: r[2], Y2: r[3]}
}

func (r Rect) String() string { return r.Bounds().String() }

// Paths contains directory configuration.
type Paths struct {
	DatasetDir string `toml:"dataset_dir"`
	ResultsDir string `toml:"results_dir"`
	LogDir     string `toml:"log_dir"`
}

// Screen describes the device the dataset was recorded on.
type Screen struct {
	Bounds       Rect `toml:"bounds"`
	TopNavBar    Rect `toml:"top_nav_bar"`
	BottomNavBar Rect `toml:"bottom_nav_bar"`
}

// Detection contains the movement detector tolerances in pixels.
type Detection struct {
	NavBarTolerance  int `toml:"nav_bar_tolerance"`
	ContentTolerance int `toml:"content_tolerance"`
}

// Screenshots contains perceptual comparison thresholds.
type Screenshots struct {
	// SignificanceThreshold decides whether the outer screenshots show
	// significantly different content (average hash).
	SignificanceThreshold float64 `toml:"significance_threshold"`
	// SimilarityThreshold is used for general similarity checks with the
	// configured hash.
	SimilarityThreshold float64 `toml:"similarity_threshold"`
	Hash                string  `toml:"hash"`
}

// Batch contains batch driver settings.
type Batch struct {
	Workers            int  `toml:"workers"`
	SaveOnlyOnFindings bool `toml:"save_only_on_findings"`
	RenderOverlays     bool `toml:"render_overlays"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for a11ydiff.
type Config struct {
	Paths       Paths       `toml:"paths"`
	Screen      Screen      `toml:"screen"`
	Detection   Detection   `toml:"detection"`
	Screenshots Screenshots `toml:"screenshots"`
	Batch       Batch       `toml:"batch"`
	Logging     Logging     `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/a11ydiff/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("a11ydiff.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories a batch run writes to. The
// dataset directory is input only and is never created.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.ResultsDir, c.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// LogFilePath is the persistent log written alongside stdout.
func (c *Config) LogFilePath() string {
	return filepath.Join(c.Paths.LogDir, "a11ydiff.log")
}

// DatabasePath is the SQLite results store.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.Paths.ResultsDir, "a11ydiff.db")
}

// LockPath guards the results directory against concurrent batch runs.
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.ResultsDir, ".a11ydiff.lock")
}

// DetectPolicy returns the movement tolerances for the detection core.
func (c *Config) DetectPolicy() detect.Policy {
	return detect.Policy{
		TopNavBar:        c.Screen.TopNavBar.Bounds(),
		BottomNavBar:     c.Screen.BottomNavBar.Bounds(),
		NavBarTolerance:  c.Detection.NavBarTolerance,
		ContentTolerance: c.Detection.ContentTolerance,
	}
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// Encode renders the effective configuration as TOML.
func (c *Config) Encode() (string, error) {
	var b strings.Builder
	enc := toml.NewEncoder(&b)
	enc.SetIndentTables(true)
	if err := enc.Encode(c); err != nil {
		return "", fmt.Errorf("encode config: %w", err)
	}
	return b.String(), nil
}
