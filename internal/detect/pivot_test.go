package detect_test

import (
	"testing"

	"a11ydiff/internal/detect"
	"a11ydiff/internal/uitree"
)

func TestFocusPivot(t *testing.T) {
	evidence := []uitree.Bounds{
		uitree.Rect(0, 200, 10, 220),
		uitree.Rect(0, 700, 10, 720),
		uitree.Rect(0, 500, 10, 520),
	}
	cases := []struct {
		name     string
		last     uitree.MaybeBounds
		evidence []uitree.Bounds
		want     detect.Pivot
	}{
		{"last focused wins", uitree.Found(uitree.Rect(0, 300, 10, 320)), evidence, detect.Pivot{Y: 300, Bounded: true}},
		{"lowest evidence", uitree.NotFound, evidence, detect.Pivot{Y: 700, Bounded: true}},
		{"no evidence", uitree.NotFound, nil, detect.Pivot{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := detect.FocusPivot(tc.last, tc.evidence); got != tc.want {
				t.Fatalf("FocusPivot = %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestAttentionPivotPrefersClick(t *testing.T) {
	focus := uitree.Found(uitree.Rect(0, 300, 10, 320))
	click := uitree.Found(uitree.Rect(0, 50, 10, 60))
	if got := detect.AttentionPivot(focus, click, nil); got.Y != 50 || !got.Bounded {
		t.Fatalf("expected click pivot, got %+v", got)
	}
	if got := detect.AttentionPivot(focus, uitree.NotFound, nil); got.Y != 300 {
		t.Fatalf("expected focus pivot without click, got %+v", got)
	}
}

func TestPivotClassify(t *testing.T) {
	p := detect.Pivot{Y: 100, Bounded: true}
	cases := []struct {
		name  string
		pivot detect.Pivot
		b     uitree.Bounds
		want  uitree.FocusStatus
	}{
		{"ends at pivot", p, uitree.Rect(0, 0, 10, 100), uitree.FocusBefore},
		{"starts at pivot", p, uitree.Rect(0, 100, 10, 150), uitree.FocusAfter},
		{"straddles pivot", p, uitree.Rect(0, 90, 10, 110), uitree.FocusAfter},
		{"unbounded", detect.Pivot{}, uitree.Rect(0, 0, 10, 10), uitree.FocusAfter},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.pivot.Classify(tc.b); got != tc.want {
				t.Fatalf("Classify(%s) = %s, want %s", tc.b, got, tc.want)
			}
		})
	}
}

func TestFilterContained(t *testing.T) {
	outer := node("outer", "", uitree.Rect(0, 0, 100, 100))
	inner := node("inner", "", uitree.Rect(10, 10, 20, 20))
	flush := node("flush", "", uitree.Rect(0, 10, 20, 20))
	twin := node("twin", "", uitree.Rect(0, 0, 100, 100))
	apart := node("apart", "", uitree.Rect(200, 200, 300, 300))

	cases := []struct {
		name  string
		nodes []*uitree.Node
		want  []string
	}{
		{"drops encloser", []*uitree.Node{outer, inner}, []string{"inner"}},
		{"shared edge is not strict", []*uitree.Node{outer, flush}, []string{"outer", "flush"}},
		{"equal bounds kept", []*uitree.Node{outer, twin}, []string{"outer", "twin"}},
		{"disjoint no-op", []*uitree.Node{outer, apart}, []string{"outer", "apart"}},
		{"single", []*uitree.Node{outer}, []string{"outer"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := detect.FilterContained(tc.nodes)
			if !sameIDs(got, tc.want...) {
				t.Fatalf("FilterContained = %v, want %v", ids(got), tc.want)
			}
			again := detect.FilterContained(got)
			if !sameIDs(again, tc.want...) {
				t.Fatalf("second pass = %v, want %v", ids(again), tc.want)
			}
		})
	}
}
