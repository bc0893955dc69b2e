package dataset

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrMissingArtifact marks a test case that lacks a required file.
var ErrMissingArtifact = errors.New("missing artifact")

// Artifacts are the resolved file paths of one test case.
type Artifacts struct {
	EventLog   string
	PreTree    string
	MidTree    string
	FinalTree  string
	PreImage   string
	MidImage   string
	FinalImage string
}

// Trees returns the three dump paths in snapshot order.
func (a Artifacts) Trees() [3]string {
	return [3]string{a.PreTree, a.MidTree, a.FinalTree}
}

// Images returns the three screenshot paths in snapshot order; the mid entry
// may be empty.
func (a Artifacts) Images() [3]string {
	return [3]string{a.PreImage, a.MidImage, a.FinalImage}
}

// Case is one test case directory.
type Case struct {
	App  string
	Name string
	Dir  string
}

// ID is the "<app>/<test>" label used in logs and the results store.
func (c Case) ID() string {
	return c.App + "/" + c.Name
}

// Discover lists every <app>/<test> directory below root in lexical order.
// Hidden entries and loose files are skipped.
func Discover(root string) ([]Case, error) {
	apps, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("read dataset %s: %w", root, err)
	}
	var cases []Case
	for _, app := range apps {
		if !app.IsDir() || hidden(app.Name()) {
			continue
		}
		appDir := filepath.Join(root, app.Name())
		tests, err := os.ReadDir(appDir)
		if err != nil {
			return nil, fmt.Errorf("read app %s: %w", appDir, err)
		}
		for _, test := range tests {
			if !test.IsDir() || hidden(test.Name()) {
				continue
			}
			cases = append(cases, Case{
				App:  app.Name(),
				Name: test.Name(),
				Dir:  filepath.Join(appDir, test.Name()),
			})
		}
	}
	sort.Slice(cases, func(i, j int) bool {
		if cases[i].App != cases[j].App {
			return cases[i].App < cases[j].App
		}
		return cases[i].Name < cases[j].Name
	})
	return cases, nil
}

// CaseAt describes a single test case directory given directly, taking the
// app name from its parent directory.
func CaseAt(dir string) (Case, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return Case{}, fmt.Errorf("resolve %s: %w", dir, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return Case{}, fmt.Errorf("stat case: %w", err)
	}
	if !info.IsDir() {
		return Case{}, fmt.Errorf("%s is not a directory", abs)
	}
	return Case{
		App:  filepath.Base(filepath.Dir(abs)),
		Name: filepath.Base(abs),
		Dir:  abs,
	}, nil
}

func hidden(name string) bool {
	return strings.HasPrefix(name, ".")
}

// Locate resolves every artifact of the case directory. When a pattern
// matches several files the lexically first one wins.
func Locate(dir string) (Artifacts, error) {
	var (
		a       Artifacts
		missing []string
	)
	targets := []struct {
		pattern  string
		dst      *string
		optional bool
	}{
		{"*-ev.txt", &a.EventLog, false},
		{"*.1-a11y.xml", &a.PreTree, false},
		{"*.action-a11y.xml", &a.MidTree, false},
		{"*.3-a11y.xml", &a.FinalTree, false},
		{"*.1.png", &a.PreImage, false},
		{"*.action.2.png", &a.MidImage, true},
		{"*.3.png", &a.FinalImage, false},
	}
	for _, target := range targets {
		matches, err := filepath.Glob(filepath.Join(dir, target.pattern))
		if err != nil {
			return Artifacts{}, fmt.Errorf("glob %s: %w", target.pattern, err)
		}
		if len(matches) == 0 {
			if !target.optional {
				missing = append(missing, target.pattern)
			}
			continue
		}
		sort.Strings(matches)
		*target.dst = matches[0]
	}
	if len(missing) > 0 {
		return Artifacts{}, fmt.Errorf("%w: %s in %s", ErrMissingArtifact, strings.Join(missing, ", "), dir)
	}
	return a, nil
}
