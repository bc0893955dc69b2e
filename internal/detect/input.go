package detect

import "a11ydiff/internal/uitree"

// Flags are the scenario signals computed once per test case before any
// detector runs.
type Flags struct {
	WindowChanged          bool `json:"window_changed"`
	A11yFocusPresent       bool `json:"a11y_focus_present"`
	ScrollingNewContent    bool `json:"scrolling_new_content"`
	ClickNewWindow         bool `json:"click_new_window"`
	SignificantContent     bool `json:"significant_content"`
	FocusChangedAfterClick bool `json:"focus_changed_after_click"`
}

// Input is the fully materialized data for one test case.
type Input struct {
	Pre   uitree.Snapshot
	Mid   uitree.Snapshot
	Final uitree.Snapshot

	// RefreshedAreas are the content-changed rectangles from the event log.
	RefreshedAreas []uitree.Bounds
	// FocusEvents are the rectangles of accessibility-focus events.
	FocusEvents []uitree.Bounds

	LastFocused uitree.MaybeBounds
	LastClicked uitree.MaybeBounds

	Flags Flags
}

// FocusEvidence collects every recorded accessibility-focus rectangle: the
// focused elements of both outer snapshots plus, when the log reported any,
// the focus event rectangles.
func (in *Input) FocusEvidence() []uitree.Bounds {
	out := append([]uitree.Bounds{}, in.Pre.FocusedBounds()...)
	out = append(out, in.Final.FocusedBounds()...)
	if in.Flags.A11yFocusPresent {
		out = append(out, in.FocusEvents...)
	}
	return out
}

// Policy holds the geometric tolerances of the movement detector.
type Policy struct {
	TopNavBar        uitree.Bounds
	BottomNavBar     uitree.Bounds
	NavBarTolerance  int
	ContentTolerance int
}

// DefaultPolicy matches a 1080x2400 portrait screen.
func DefaultPolicy() Policy {
	return Policy{
		TopNavBar:        uitree.Rect(0, 0, 1080, 80),
		BottomNavBar:     uitree.Rect(0, 2270, 1080, 2400),
		NavBarTolerance:  100,
		ContentTolerance: 2000,
	}
}

func (p Policy) normalized() Policy {
	d := DefaultPolicy()
	if p.TopNavBar == (uitree.Bounds{}) {
		p.TopNavBar = d.TopNavBar
	}
	if p.BottomNavBar == (uitree.Bounds{}) {
		p.BottomNavBar = d.BottomNavBar
	}
	if p.NavBarTolerance <= 0 {
		p.NavBarTolerance = d.NavBarTolerance
	}
	if p.ContentTolerance <= 0 {
		p.ContentTolerance = d.ContentTolerance
	}
	return p
}

// toleranceFor holds navigation-bar elements to the tighter tolerance.
func (p Policy) toleranceFor(b uitree.Bounds) int {
	if b.Within(p.TopNavBar) || b.Within(p.BottomNavBar) {
		return p.NavBarTolerance
	}
	return p.ContentTolerance
}
