package preflight

import (
	"a11ydiff/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail"`
}

// RunAll executes every preflight check for the given config. The lock check
// only runs once the results directory itself passed.
func RunAll(cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("Dataset directory", cfg.Paths.DatasetDir, ReadOnly),
		CheckDirectoryAccess("Results directory", cfg.Paths.ResultsDir, ReadWrite),
		CheckDirectoryAccess("Log directory", cfg.Paths.LogDir, ReadWrite),
	}
	if results[1].Passed {
		results = append(results, CheckLockAvailable("Results lock", cfg.LockPath()))
	}
	return results
}

// Failed returns the results that did not pass.
func Failed(results []Result) []Result {
	var out []Result
	for _, r := range results {
		if !r.Passed {
			out = append(out, r)
		}
	}
	return out
}
