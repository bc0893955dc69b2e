package uitree

// FocusStatus places an element relative to the user's reading position.
type FocusStatus int

const (
	// FocusUncertain is the default before any classification runs.
	FocusUncertain FocusStatus = iota
	// FocusBefore marks elements the user has already passed.
	FocusBefore
	// FocusOn marks the element holding accessibility focus in the dump.
	FocusOn
	// FocusAfter marks elements the user has not reached yet.
	FocusAfter
)

func (s FocusStatus) String() string {
	switch s {
	case FocusBefore:
		return "BEFORE"
	case FocusOn:
		return "ON"
	case FocusAfter:
		return "AFTER"
	default:
		return "UNCERTAIN"
	}
}

// Direction is the vertical movement of an element between snapshots.
type Direction int

const (
	DirectionNone Direction = iota
	DirectionAbove
	DirectionBelow
)

func (d Direction) String() string {
	switch d {
	case DirectionAbove:
		return "Above"
	case DirectionBelow:
		return "Below"
	default:
		return ""
	}
}

// StrictKey identifies an element in an unchanged state. Any shift in bounds
// or text produces a different key.
type StrictKey struct {
	ResourceID         string
	Class              string
	Index              int
	ContentDescription string
	Text               string
	Bounds             Bounds
}

// LooseKey identifies a logical element independent of where it is drawn.
type LooseKey struct {
	Class              string
	ResourceID         string
	Text               string
	Index              int
	Clickable          bool
	Important          bool
	LiveRegion         string
	ContentDescription string
	DrawingOrder       int
}

// MinimalKey is the coarse identity used for equality checks.
type MinimalKey struct {
	Class              string
	ResourceID         string
	ContentDescription string
	Text               string
}

// Node is one UI element as captured in one snapshot.
type Node struct {
	Text               string
	ContentDescription string
	Class              string
	ResourceID         string
	Bounds             Bounds
	A11yFocused        bool
	LiveRegion         string
	Visible            bool
	Checked            bool
	Selected           bool
	Enabled            bool
	Focusable          bool
	Clickable          bool
	Important          bool
	DrawingOrder       int
	Index              int
	ActionList         string

	// Parent is a non-owning link to the enclosing element of the same
	// snapshot; nil for top-level elements.
	Parent *Node
	// InLiveRegionSubtree caches HasLiveRegionAncestor at load time.
	InLiveRegionSubtree bool

	// Derived by the detection pipeline.
	FocusStatus           FocusStatus
	Direction             Direction
	MovedFromAboveToBelow bool

	strict  StrictKey
	loose   LooseKey
	minimal MinimalKey
}

// Finalize computes identity keys and the initial focus status. Loaders call
// it once after every attribute is populated; the keys never change after.
func (n *Node) Finalize() {
	n.Bounds = n.Bounds.Normalize()
	n.strict = StrictKey{
		ResourceID:         n.ResourceID,
		Class:              n.Class,
		Index:              n.Index,
		ContentDescription: n.ContentDescription,
		Text:               n.Text,
		Bounds:             n.Bounds,
	}
	n.loose = LooseKey{
		Class:              n.Class,
		ResourceID:         n.ResourceID,
		Text:               n.Text,
		Index:              n.Index,
		Clickable:          n.Clickable,
		Important:          n.Important,
		LiveRegion:         n.LiveRegion,
		ContentDescription: n.ContentDescription,
		DrawingOrder:       n.DrawingOrder,
	}
	n.minimal = MinimalKey{
		Class:              n.Class,
		ResourceID:         n.ResourceID,
		ContentDescription: n.ContentDescription,
		Text:               n.Text,
	}
	if n.A11yFocused {
		n.FocusStatus = FocusOn
	} else {
		n.FocusStatus = FocusUncertain
	}
}

// Clone returns a copy that shares the parent link and identity keys but owns
// its derived fields.
func (n *Node) Clone() *Node {
	c := *n
	return &c
}

// StrictKey returns the identity that breaks on any field change.
func (n *Node) StrictKey() StrictKey { return n.strict }

// LooseKey returns the identity that survives relocation.
func (n *Node) LooseKey() LooseKey { return n.loose }

// MinimalKey returns the coarse identity.
func (n *Node) MinimalKey() MinimalKey { return n.minimal }

// Size returns the width and height of the element.
func (n *Node) Size() (int, int) { return n.Bounds.Width(), n.Bounds.Height() }

// HasLiveRegion reports whether the element itself announces updates.
func (n *Node) HasLiveRegion() bool { return n.LiveRegion != "0" }

// HasLiveRegionAncestor walks the parent chain and reports whether any
// ancestor declares a live region.
func (n *Node) HasLiveRegionAncestor() bool {
	for p := n.Parent; p != nil; p = p.Parent {
		if p.HasLiveRegion() {
			return true
		}
	}
	return false
}

// Snapshot is the ordered working set of one accessibility-tree capture.
type Snapshot []*Node

// StrictKeys returns the set of strict identities present in the snapshot.
func (s Snapshot) StrictKeys() map[StrictKey]struct{} {
	out := make(map[StrictKey]struct{}, len(s))
	for _, n := range s {
		out[n.strict] = struct{}{}
	}
	return out
}

// LooseKeys returns the set of loose identities present in the snapshot.
func (s Snapshot) LooseKeys() map[LooseKey]struct{} {
	out := make(map[LooseKey]struct{}, len(s))
	for _, n := range s {
		out[n.loose] = struct{}{}
	}
	return out
}

// FocusedBounds returns the bounds of every element flagged as holding
// accessibility focus.
func (s Snapshot) FocusedBounds() []Bounds {
	var out []Bounds
	for _, n := range s {
		if n.A11yFocused {
			out = append(out, n.Bounds)
		}
	}
	return out
}
