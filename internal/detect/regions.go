package detect

import "a11ydiff/internal/uitree"

// areas is the set of refreshed rectangles of one test case.
type areas []uitree.Bounds

// holdsCorner reports whether the top-left corner of b lies strictly inside
// any refreshed rectangle.
func (a areas) holdsCorner(b uitree.Bounds) bool {
	for _, r := range a {
		if r.StrictlyContainsPoint(b.X1, b.Y1) {
			return true
		}
	}
	return false
}

// touches reports whether b overlaps any refreshed rectangle.
func (a areas) touches(b uitree.Bounds) bool {
	for _, r := range a {
		if r.Overlaps(b) {
			return true
		}
	}
	return false
}

// FilterContained drops every node whose bounds strictly enclose another
// node of the same set, keeping the innermost elements. Order is preserved.
func FilterContained(nodes []*uitree.Node) []*uitree.Node {
	if len(nodes) < 2 {
		return nodes
	}
	out := make([]*uitree.Node, 0, len(nodes))
	for i, n := range nodes {
		container := false
		for j, other := range nodes {
			if i != j && n.Bounds.Encloses(other.Bounds) {
				container = true
				break
			}
		}
		if !container {
			out = append(out, n)
		}
	}
	return out
}
