package detect

import "a11ydiff/internal/uitree"

type movement struct {
	direction  uitree.Direction
	aboveBelow bool
}

// Moving matches each final element against the comparison snapshot by
// loose identity and flags those whose bounds shifted beyond tolerance. The
// comparison snapshot is the mid-action one after a window change, else the
// pre-action one. Only important elements overlapping a refreshed area are
// kept.
func Moving(in *Input, policy Policy) []*uitree.Node {
	policy = policy.normalized()
	comparison := in.Pre
	if in.Flags.WindowChanged {
		comparison = in.Mid
	}
	byKey := make(map[uitree.LooseKey][]*uitree.Node, len(comparison))
	for _, n := range comparison {
		byKey[n.LooseKey()] = append(byKey[n.LooseKey()], n)
	}

	pivot := FocusPivot(in.LastFocused, in.FocusEvidence())
	moved := make(map[uitree.LooseKey]struct{})
	moves := make(map[*uitree.Node]movement)
	for _, n := range in.Final {
		for _, other := range byKey[n.LooseKey()] {
			if n.Bounds == other.Bounds || n.Bounds.Near(other.Bounds, policy.toleranceFor(n.Bounds)) {
				continue
			}
			moved[n.LooseKey()] = struct{}{}
			m := moves[n]
			switch {
			case n.Bounds.Y1 > other.Bounds.Y1:
				m.direction = uitree.DirectionBelow
			case n.Bounds.Y1 < other.Bounds.Y1:
				m.direction = uitree.DirectionAbove
			}
			if pivot.Classify(n.Bounds) == uitree.FocusAfter && pivot.Classify(other.Bounds) == uitree.FocusBefore {
				m.aboveBelow = true
			}
			moves[n] = m
		}
	}

	refreshed := areas(in.RefreshedAreas)
	var found []*uitree.Node
	for _, n := range in.Final {
		if _, ok := moved[n.LooseKey()]; !ok {
			continue
		}
		if !n.Important || !refreshed.touches(n.Bounds) {
			continue
		}
		c := n.Clone()
		m := moves[n]
		c.Direction = m.direction
		c.MovedFromAboveToBelow = m.aboveBelow
		found = append(found, c)
	}
	pivot.Apply(found)
	return FilterContained(found)
}
