package detect

import "a11ydiff/internal/uitree"

// Pivot is the y-coordinate of the user's last known reading position.
// An unbounded pivot means no position is known.
type Pivot struct {
	Y       int
	Bounded bool
}

// FocusPivot prefers the last focused rectangle from the event log and falls
// back to the lowest top edge among all focus evidence.
func FocusPivot(lastFocused uitree.MaybeBounds, evidence []uitree.Bounds) Pivot {
	if lastFocused.Found {
		return Pivot{Y: lastFocused.Bounds.Y1, Bounded: true}
	}
	var p Pivot
	for _, b := range evidence {
		if !p.Bounded || b.Y1 > p.Y {
			p = Pivot{Y: b.Y1, Bounded: true}
		}
	}
	return p
}

// AttentionPivot is FocusPivot except that a recorded click wins over any
// focus signal.
func AttentionPivot(lastFocused, lastClicked uitree.MaybeBounds, evidence []uitree.Bounds) Pivot {
	if lastClicked.Found {
		return Pivot{Y: lastClicked.Bounds.Y1, Bounded: true}
	}
	return FocusPivot(lastFocused, evidence)
}

// Classify places b relative to the pivot. Elements straddling the pivot
// count as AFTER, as does everything when the pivot is unbounded.
func (p Pivot) Classify(b uitree.Bounds) uitree.FocusStatus {
	if p.Bounded && b.Y2 <= p.Y {
		return uitree.FocusBefore
	}
	return uitree.FocusAfter
}

// Apply writes the classification onto each node.
func (p Pivot) Apply(nodes []*uitree.Node) {
	for _, n := range nodes {
		n.FocusStatus = p.Classify(n.Bounds)
	}
}
