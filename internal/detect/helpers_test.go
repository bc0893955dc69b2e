package detect_test

import (
	"a11ydiff/internal/detect"
	"a11ydiff/internal/uitree"
)

type nodeOption func(*uitree.Node)

func focused(n *uitree.Node)     { n.A11yFocused = true }
func unimportant(n *uitree.Node) { n.Important = false }
func clickable(n *uitree.Node)   { n.Clickable = true }
func invisible(n *uitree.Node)   { n.Visible = false }

func childOf(p *uitree.Node) nodeOption {
	return func(n *uitree.Node) { n.Parent = p }
}

func withDesc(desc string) nodeOption {
	return func(n *uitree.Node) { n.ContentDescription = desc }
}

func withLiveRegion(v string) nodeOption {
	return func(n *uitree.Node) { n.LiveRegion = v }
}

// node builds a visible, enabled, important element the way the loader
// would after parsing.
func node(id, text string, b uitree.Bounds, opts ...nodeOption) *uitree.Node {
	n := &uitree.Node{
		ResourceID: id,
		Text:       text,
		Class:      "android.widget.TextView",
		Bounds:     b,
		LiveRegion: "0",
		Visible:    true,
		Enabled:    true,
		Important:  true,
	}
	for _, opt := range opts {
		opt(n)
	}
	if n.Parent != nil {
		n.InLiveRegionSubtree = n.HasLiveRegionAncestor()
	}
	derived := n.FocusStatus
	n.Finalize()
	if derived != uitree.FocusUncertain {
		n.FocusStatus = derived
	}
	return n
}

func fullScreen() []uitree.Bounds {
	return []uitree.Bounds{uitree.Rect(0, 0, 1080, 2400)}
}

func ids(nodes []*uitree.Node) []string {
	out := make([]string, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, n.ResourceID)
	}
	return out
}

func sameIDs(got []*uitree.Node, want ...string) bool {
	g := ids(got)
	if len(g) != len(want) {
		return false
	}
	for i := range g {
		if g[i] != want[i] {
			return false
		}
	}
	return true
}

func emptyExcept(r detect.Result, keep detect.Category) []detect.Category {
	var nonEmpty []detect.Category
	for _, c := range detect.Categories {
		if c != keep && len(r.Nodes(c)) > 0 {
			nonEmpty = append(nonEmpty, c)
		}
	}
	return nonEmpty
}
