package config

const (
	defaultDatasetDir            = "~/a11ydiff/dataset"
	defaultResultsDir            = "~/a11ydiff/results"
	defaultLogDir                = "~/.local/share/a11ydiff/logs"
	defaultLogFormat             = "console"
	defaultLogLevel              = "info"
	defaultNavBarTolerance       = 100
	defaultContentTolerance      = 2000
	defaultSignificanceThreshold = 0.9
	defaultSimilarityThreshold   = 0.95
	defaultHash                  = "average"
	defaultWorkers               = 4
)

var (
	defaultScreen       = Rect{0, 0, 1080, 2400}
	defaultTopNavBar    = Rect{0, 0, 1080, 80}
	defaultBottomNavBar = Rect{0, 2270, 1080, 2400}
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DatasetDir: defaultDatasetDir,
			ResultsDir: defaultResultsDir,
			LogDir:     defaultLogDir,
		},
		Screen: Screen{
			Bounds:       defaultScreen,
			TopNavBar:    defaultTopNavBar,
			BottomNavBar: defaultBottomNavBar,
		},
		Detection: Detection{
			NavBarTolerance:  defaultNavBarTolerance,
			ContentTolerance: defaultContentTolerance,
		},
		Screenshots: Screenshots{
			SignificanceThreshold: defaultSignificanceThreshold,
			SimilarityThreshold:   defaultSimilarityThreshold,
			Hash:                  defaultHash,
		},
		Batch: Batch{
			Workers:            defaultWorkers,
			SaveOnlyOnFindings: true,
			RenderOverlays:     true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
