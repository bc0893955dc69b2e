package detect

import "a11ydiff/internal/uitree"

// Refine reconciles raw detector output into the reported result. Steps run
// in a fixed order and each narrows the sets consulted by the next. pre and
// final are the opposing snapshots used for the uniqueness checks of
// appearing and disappearing elements respectively. Refine never mutates its
// input and is idempotent.
func Refine(raw Result, pre, final uitree.Snapshot) Result {
	out := Result{Skipped: raw.Skipped}

	out.AttributeChanged = uniqueByResourceID(keep(raw.AttributeChanged, func(n *uitree.Node) bool {
		return !n.HasLiveRegion() && !n.InLiveRegionSubtree && (n.Focusable || n.Important)
	}))

	out.Moving = keep(raw.Moving, func(n *uitree.Node) bool {
		return n.FocusStatus == uitree.FocusBefore
	})

	changed := looseSet(out.AttributeChanged)
	out.ShortLived = keep(raw.ShortLived, func(n *uitree.Node) bool {
		if _, ok := changed[n.LooseKey()]; ok {
			return false
		}
		return n.Clickable || (!n.HasLiveRegion() && !n.InLiveRegionSubtree && n.Important && n.Visible)
	})

	claimed := looseSet(out.Moving, out.ShortLived)
	out.Disappearing = refineTransient(raw.Disappearing, claimed, raw.Appearing, final, uitree.FocusAfter)
	out.Appearing = refineTransient(raw.Appearing, claimed, out.Disappearing, pre, uitree.FocusBefore)
	return out
}

// refineTransient narrows appearing or disappearing candidates. counterparts
// are the candidates of the opposite category: an element matching one of
// them is treated as relocated rather than gone or new.
func refineTransient(nodes []*uitree.Node, claimed map[uitree.LooseKey]struct{}, counterparts []*uitree.Node, target uitree.Snapshot, want uitree.FocusStatus) []*uitree.Node {
	nodes = keep(nodes, func(n *uitree.Node) bool {
		if _, ok := claimed[n.LooseKey()]; ok {
			return false
		}
		return n.Visible && (n.Important || n.Focusable || n.Text != "" || n.ContentDescription != "")
	})
	if len(counterparts) > 0 {
		nodes = unmatched(nodes, counterparts)
	}

	unique, texts, descs := targetIndex(target)
	return keep(nodes, func(n *uitree.Node) bool {
		if n.FocusStatus != want || n.HasLiveRegion() {
			return false
		}
		if _, ok := unique[n.ResourceID]; ok {
			return false
		}
		if _, ok := texts[n.Text]; ok {
			return false
		}
		_, ok := descs[n.ContentDescription]
		return !ok
	})
}

// unmatched keeps nodes that differ from every counterpart in at least one of
// resource-id, text or content-description, each compared as a set.
func unmatched(nodes, counterparts []*uitree.Node) []*uitree.Node {
	ids := make(map[string]struct{}, len(counterparts))
	texts := make(map[string]struct{}, len(counterparts))
	descs := make(map[string]struct{}, len(counterparts))
	for _, c := range counterparts {
		ids[c.ResourceID] = struct{}{}
		texts[c.Text] = struct{}{}
		descs[c.ContentDescription] = struct{}{}
	}
	return keep(nodes, func(n *uitree.Node) bool {
		_, id := ids[n.ResourceID]
		_, text := texts[n.Text]
		_, desc := descs[n.ContentDescription]
		return !id || !text || !desc
	})
}

// targetIndex returns the resource-ids occurring exactly once in target and
// the non-empty texts and content-descriptions it carries.
func targetIndex(target uitree.Snapshot) (unique, texts, descs map[string]struct{}) {
	counts := make(map[string]int, len(target))
	texts = make(map[string]struct{})
	descs = make(map[string]struct{})
	for _, n := range target {
		counts[n.ResourceID]++
		if n.Text != "" {
			texts[n.Text] = struct{}{}
		}
		if n.ContentDescription != "" {
			descs[n.ContentDescription] = struct{}{}
		}
	}
	unique = make(map[string]struct{})
	for id, c := range counts {
		if c == 1 {
			unique[id] = struct{}{}
		}
	}
	return unique, texts, descs
}

func uniqueByResourceID(nodes []*uitree.Node) []*uitree.Node {
	seen := make(map[string]struct{}, len(nodes))
	return keep(nodes, func(n *uitree.Node) bool {
		if _, ok := seen[n.ResourceID]; ok {
			return false
		}
		seen[n.ResourceID] = struct{}{}
		return true
	})
}

func looseSet(groups ...[]*uitree.Node) map[uitree.LooseKey]struct{} {
	out := make(map[uitree.LooseKey]struct{})
	for _, g := range groups {
		for _, n := range g {
			out[n.LooseKey()] = struct{}{}
		}
	}
	return out
}

// keep returns the nodes accepted by fn in their original order. The result
// never aliases the input slice.
func keep(nodes []*uitree.Node, fn func(*uitree.Node) bool) []*uitree.Node {
	var out []*uitree.Node
	for _, n := range nodes {
		if fn(n) {
			out = append(out, n)
		}
	}
	return out
}
