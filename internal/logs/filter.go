package logs

import (
	"encoding/json"
	"strings"

	"a11ydiff/internal/logging"
)

// Entry is the decoded subset of one JSON log line.
type Entry struct {
	Time    string `json:"ts"`
	Level   string `json:"level"`
	Message string `json:"msg"`
	RunID   string `json:"run_id"`
	App     string `json:"app"`
	Case    string `json:"case"`
	// Raw is the undecoded line.
	Raw string `json:"-"`
}

// Filter narrows log lines. Zero fields match everything.
type Filter struct {
	// RunID matches by prefix, like run ids on the command line.
	RunID string
	// Case is "<app>/<test>" or a bare test name.
	Case string
	// MinLevel is a level name such as "warn"; empty keeps every level.
	MinLevel string
}

// Active reports whether any criterion is set.
func (f Filter) Active() bool {
	return f.RunID != "" || f.Case != "" || f.MinLevel != ""
}

// Parse decodes line. Lines that are not JSON objects return ok=false.
func Parse(line string) (Entry, bool) {
	var e Entry
	if err := json.Unmarshal([]byte(line), &e); err != nil {
		return Entry{Raw: line}, false
	}
	e.Raw = line
	return e, true
}

// Match reports whether line passes the filter. Undecodable lines only pass
// an inactive filter.
func (f Filter) Match(line string) bool {
	e, ok := Parse(line)
	if !ok {
		return !f.Active()
	}
	return f.MatchEntry(e)
}

// MatchEntry applies the filter to a decoded entry.
func (f Filter) MatchEntry(e Entry) bool {
	if f.RunID != "" && !strings.HasPrefix(e.RunID, f.RunID) {
		return false
	}
	if f.Case != "" {
		app, name, scoped := strings.Cut(f.Case, "/")
		if !scoped {
			name, app = app, ""
		}
		if e.Case != name || (app != "" && e.App != app) {
			return false
		}
	}
	if f.MinLevel != "" && logging.ParseLevel(e.Level) < logging.ParseLevel(f.MinLevel) {
		return false
	}
	return true
}

// Apply returns the lines that pass the filter.
func (f Filter) Apply(lines []string) []string {
	if !f.Active() {
		return lines
	}
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if f.Match(line) {
			out = append(out, line)
		}
	}
	return out
}
