package detect

import (
	"fmt"
	"log/slog"

	"a11ydiff/internal/logging"
	"a11ydiff/internal/uitree"
)

// Category names one class of problematic dynamic content.
type Category int

const (
	CategoryShortLived Category = iota
	CategoryDisappearing
	CategoryAppearing
	CategoryMoving
	CategoryAttributeChanged
)

// Categories lists every category in reporting order.
var Categories = []Category{
	CategoryShortLived,
	CategoryDisappearing,
	CategoryAppearing,
	CategoryMoving,
	CategoryAttributeChanged,
}

func (c Category) String() string {
	switch c {
	case CategoryShortLived:
		return "short_lived"
	case CategoryDisappearing:
		return "disappearing"
	case CategoryAppearing:
		return "appearing"
	case CategoryMoving:
		return "moving"
	case CategoryAttributeChanged:
		return "attribute_changed"
	default:
		return "unknown"
	}
}

// ParseCategory is the inverse of Category.String.
func ParseCategory(s string) (Category, bool) {
	for _, c := range Categories {
		if c.String() == s {
			return c, true
		}
	}
	return 0, false
}

func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Category) UnmarshalText(text []byte) error {
	parsed, ok := ParseCategory(string(text))
	if !ok {
		return fmt.Errorf("unknown category %q", text)
	}
	*c = parsed
	return nil
}

// Skip reasons reported when a case is not classified.
const (
	SkipEmptyFinal    = "final snapshot empty"
	SkipEmptyBaseline = "pre-action and mid-action snapshots empty"
	SkipNoFocus       = "no accessibility focus evidence"
)

// Result holds the five classified sets of one test case.
type Result struct {
	ShortLived       []*uitree.Node
	Disappearing     []*uitree.Node
	Appearing        []*uitree.Node
	Moving           []*uitree.Node
	AttributeChanged []*uitree.Node

	// Skipped is set when the case did not meet the preconditions for
	// classification.
	Skipped string
}

// Nodes returns the set for c.
func (r Result) Nodes(c Category) []*uitree.Node {
	switch c {
	case CategoryShortLived:
		return r.ShortLived
	case CategoryDisappearing:
		return r.Disappearing
	case CategoryAppearing:
		return r.Appearing
	case CategoryMoving:
		return r.Moving
	case CategoryAttributeChanged:
		return r.AttributeChanged
	default:
		return nil
	}
}

// Total counts findings across all categories.
func (r Result) Total() int {
	total := 0
	for _, c := range Categories {
		total += len(r.Nodes(c))
	}
	return total
}

// Empty reports whether nothing was flagged.
func (r Result) Empty() bool { return r.Total() == 0 }

// Record is the flat attribute view of a flagged element used for
// serialization.
type Record struct {
	Text                  string `json:"text"`
	ContentDescription    string `json:"content_description"`
	Class                 string `json:"class_name"`
	ResourceID            string `json:"resource_id"`
	Bounds                string `json:"bounds"`
	LiveRegion            string `json:"liveRegion"`
	Visible               bool   `json:"visible"`
	FocusStatus           string `json:"a11yFocusedStatus"`
	Clickable             bool   `json:"clickable"`
	Important             bool   `json:"important_for_accessibility"`
	Direction             string `json:"moving_direction"`
	MovedFromAboveToBelow *bool  `json:"moving_from_above_to_below,omitempty"`
}

// NewRecord flattens n. The crossing flag is only meaningful for moving
// elements and is omitted elsewhere.
func NewRecord(c Category, n *uitree.Node) Record {
	rec := Record{
		Text:               n.Text,
		ContentDescription: n.ContentDescription,
		Class:              n.Class,
		ResourceID:         n.ResourceID,
		Bounds:             n.Bounds.String(),
		LiveRegion:         n.LiveRegion,
		Visible:            n.Visible,
		FocusStatus:        n.FocusStatus.String(),
		Clickable:          n.Clickable,
		Important:          n.Important,
		Direction:          n.Direction.String(),
	}
	if c == CategoryMoving {
		crossed := n.MovedFromAboveToBelow
		rec.MovedFromAboveToBelow = &crossed
	}
	return rec
}

// Records flattens every node of category c.
func (r Result) Records(c Category) []Record {
	nodes := r.Nodes(c)
	out := make([]Record, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, NewRecord(c, n))
	}
	return out
}

// Analyzer runs the detectors and refinement for one test case at a time.
// It holds no per-case state and is safe for concurrent use.
type Analyzer struct {
	policy Policy
	logger *slog.Logger
}

// NewAnalyzer constructs an analyzer. A nil logger discards output.
func NewAnalyzer(policy Policy, logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Analyzer{
		policy: policy.normalized(),
		logger: logging.NewComponentLogger(logger, "detect"),
	}
}

// Policy returns the effective tolerances.
func (a *Analyzer) Policy() Policy { return a.policy }

// Analyze classifies one test case. Degenerate input is reported through
// Result.Skipped rather than classified.
func (a *Analyzer) Analyze(in *Input) Result {
	if reason := precondition(in); reason != "" {
		a.logger.Debug("classification skipped",
			logging.Args(logging.DecisionAttrs("classification", "skipped", reason)...)...)
		return Result{Skipped: reason}
	}

	raw := Result{
		Appearing:        Appearing(in),
		Moving:           Moving(in, a.policy),
		ShortLived:       ShortLived(in),
		AttributeChanged: AttributeChanged(in),
		Disappearing:     Disappearing(in),
	}
	a.logger.Debug("raw candidates",
		logging.Int("short_lived", len(raw.ShortLived)),
		logging.Int("disappearing", len(raw.Disappearing)),
		logging.Int("appearing", len(raw.Appearing)),
		logging.Int("moving", len(raw.Moving)),
		logging.Int("attribute_changed", len(raw.AttributeChanged)),
	)
	return Refine(raw, in.Pre, in.Final)
}

func precondition(in *Input) string {
	switch {
	case len(in.Final) == 0:
		return SkipEmptyFinal
	case len(in.Pre) == 0 && len(in.Mid) == 0:
		return SkipEmptyBaseline
	case len(in.FocusEvidence()) == 0:
		return SkipNoFocus
	default:
		return ""
	}
}
