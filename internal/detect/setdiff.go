package detect

import "a11ydiff/internal/uitree"

// transitionSuppressed reports whether the action visibly replaced the screen
// and moved accessibility focus with it. Appearing and disappearing content
// is then the expected transition rather than a defect.
func transitionSuppressed(f Flags) bool {
	return f.SignificantContent && f.FocusChangedAfterClick
}

// baselines picks the snapshot pair a set-difference detector compares:
// mid→final after a click opened a new window, pre→final for a static
// update. Scrolling that produced new content disables detection.
func baselines(in *Input) (earlier uitree.Snapshot, ok bool) {
	switch {
	case in.Flags.ClickNewWindow:
		return in.Mid, true
	case !in.Flags.ScrollingNewContent:
		return in.Pre, true
	default:
		return nil, false
	}
}

// Disappearing returns elements of the baseline snapshot whose strict
// identity is absent from the final snapshot and whose top-left corner lies
// inside a refreshed area.
func Disappearing(in *Input) []*uitree.Node {
	if transitionSuppressed(in.Flags) {
		return nil
	}
	source, ok := baselines(in)
	if !ok {
		return nil
	}
	final := in.Final.StrictKeys()
	refreshed := areas(in.RefreshedAreas)

	var found []*uitree.Node
	for _, n := range source {
		if _, present := final[n.StrictKey()]; present {
			continue
		}
		if refreshed.holdsCorner(n.Bounds) {
			found = append(found, n.Clone())
		}
	}
	AttentionPivot(in.LastFocused, in.LastClicked, in.FocusEvidence()).Apply(found)
	return FilterContained(found)
}

// Appearing returns elements of the final snapshot whose strict identity is
// absent from the baseline snapshot and whose top-left corner lies inside a
// refreshed area.
func Appearing(in *Input) []*uitree.Node {
	if transitionSuppressed(in.Flags) {
		return nil
	}
	baseline, ok := baselines(in)
	if !ok {
		return nil
	}
	earlier := baseline.StrictKeys()
	refreshed := areas(in.RefreshedAreas)

	var found []*uitree.Node
	for _, n := range in.Final {
		if _, present := earlier[n.StrictKey()]; present {
			continue
		}
		if refreshed.holdsCorner(n.Bounds) {
			found = append(found, n.Clone())
		}
	}
	AttentionPivot(in.LastFocused, in.LastClicked, in.FocusEvidence()).Apply(found)
	return FilterContained(found)
}

// ShortLived returns elements that exist only in the mid-action snapshot
// while their container survives into the final snapshot, restricted to
// elements overlapping a refreshed area.
func ShortLived(in *Input) []*uitree.Node {
	first := in.Pre.LooseKeys()
	last := in.Final.LooseKeys()
	refreshed := areas(in.RefreshedAreas)

	var found []*uitree.Node
	for _, n := range in.Mid {
		key := n.LooseKey()
		if _, ok := first[key]; ok {
			continue
		}
		if _, ok := last[key]; ok {
			continue
		}
		if n.Parent == nil {
			continue
		}
		if _, ok := last[n.Parent.LooseKey()]; !ok {
			continue
		}
		if refreshed.touches(n.Bounds) {
			found = append(found, n.Clone())
		}
	}
	FocusPivot(in.LastFocused, in.FocusEvidence()).Apply(found)
	return FilterContained(found)
}
