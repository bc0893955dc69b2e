package eventlog

import (
	"strings"

	"a11ydiff/internal/uitree"
)

// Summary is everything the event log alone says about one test case.
type Summary struct {
	WindowChanged          bool
	A11yFocusPresent       bool
	ScrollingNewContent    bool
	ClickNewWindow         bool
	FocusChangedAfterClick bool
	LastFocused            uitree.MaybeBounds
	LastClicked            uitree.MaybeBounds
}

// Analyze derives the scenario signals from an ordered event list.
func Analyze(events []Event) Summary {
	var s Summary
	s.ScrollingNewContent, s.ClickNewWindow = scrollAndClick(events)
	s.FocusChangedAfterClick = focusAfterClick(events)

	for _, ev := range events {
		switch ev.Type {
		case TypeWindowsChanged, TypeWindowStateChanged:
			s.WindowChanged = true
		case TypeViewAccessibilityFocused:
			if ev.HasRect {
				s.A11yFocusPresent = true
			}
			s.LastFocused = maybeRect(ev)
		case TypeViewClicked:
			s.LastClicked = maybeRect(ev)
		}
	}
	return s
}

// RefreshedAreas returns the rectangles marked as content-changed.
func RefreshedAreas(events []Event) []uitree.Bounds {
	var out []uitree.Bounds
	for _, ev := range events {
		if ev.Type == TypeWindowContentChanged && ev.HasRect {
			out = append(out, ev.Rect)
		}
	}
	return out
}

// FocusRects returns the rectangles of every accessibility-focus event.
func FocusRects(events []Event) []uitree.Bounds {
	var out []uitree.Bounds
	for _, ev := range events {
		if ev.Type == TypeViewAccessibilityFocused && ev.HasRect {
			out = append(out, ev.Rect)
		}
	}
	return out
}

func maybeRect(ev Event) uitree.MaybeBounds {
	if !ev.HasRect {
		return uitree.NotFound
	}
	return uitree.Found(ev.Rect)
}

// scrollAndClick looks for a real scroll followed by a content or state
// change, and a click followed by a window change. A pending click stays
// armed until the next scroll or click.
func scrollAndClick(events []Event) (scrolling, clickNewWindow bool) {
	var (
		pending    string
		lastScroll Event
	)
	for _, ev := range events {
		switch ev.Type {
		case TypeViewScrolled:
			pending = TypeViewScrolled
			lastScroll = ev
			continue
		case TypeViewClicked:
			pending = TypeViewClicked
			continue
		}
		switch {
		case pending == TypeViewScrolled && (ev.Type == TypeWindowStateChanged || ev.Type == TypeWindowContentChanged):
			if lastScroll.Scrolled() {
				scrolling = true
			}
		case pending == TypeViewClicked && (ev.Type == TypeWindowStateChanged || ev.Type == TypeWindowsChanged):
			clickNewWindow = true
		}
		if !strings.Contains(ev.Type, "TYPE_VIEW_") && pending != TypeViewClicked {
			pending = ""
		}
	}
	return scrolling, clickNewWindow
}

func focusAfterClick(events []Event) bool {
	clicked := false
	for _, ev := range events {
		switch {
		case ev.Type == TypeViewClicked:
			clicked = true
		case clicked && ev.Type == TypeViewAccessibilityFocused:
			return true
		}
	}
	return false
}
