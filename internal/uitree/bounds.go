package uitree

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
)

// ErrMalformedBounds reports a bounds attribute that is not "[x1,y1][x2,y2]".
var ErrMalformedBounds = errors.New("malformed bounds")

var boundsPattern = regexp.MustCompile(`^\[(-?\d+),(-?\d+)\]\[(-?\d+),(-?\d+)\]$`)

// Bounds is an axis-aligned screen rectangle given by its top-left (X1,Y1)
// and bottom-right (X2,Y2) corners.
type Bounds struct {
	X1 int `json:"x1" toml:"x1"`
	Y1 int `json:"y1" toml:"y1"`
	X2 int `json:"x2" toml:"x2"`
	Y2 int `json:"y2" toml:"y2"`
}

// Rect builds a normalized Bounds from two corners.
func Rect(x1, y1, x2, y2 int) Bounds {
	return Bounds{X1: x1, Y1: y1, X2: x2, Y2: y2}.Normalize()
}

// ParseBounds parses the accessibility dump notation "[x1,y1][x2,y2]". The
// result is not normalized.
func ParseBounds(raw string) (Bounds, error) {
	m := boundsPattern.FindStringSubmatch(raw)
	if m == nil {
		return Bounds{}, fmt.Errorf("%w: %q", ErrMalformedBounds, raw)
	}
	var vals [4]int
	for i := range vals {
		v, err := strconv.Atoi(m[i+1])
		if err != nil {
			return Bounds{}, fmt.Errorf("%w: %q", ErrMalformedBounds, raw)
		}
		vals[i] = v
	}
	return Bounds{X1: vals[0], Y1: vals[1], X2: vals[2], Y2: vals[3]}, nil
}

// Normalize swaps corners so that X1 <= X2 and Y1 <= Y2.
func (b Bounds) Normalize() Bounds {
	if b.X2 < b.X1 {
		b.X1, b.X2 = b.X2, b.X1
	}
	if b.Y2 < b.Y1 {
		b.Y1, b.Y2 = b.Y2, b.Y1
	}
	return b
}

// Negative reports whether any coordinate is below zero.
func (b Bounds) Negative() bool {
	return b.X1 < 0 || b.Y1 < 0 || b.X2 < 0 || b.Y2 < 0
}

// Width returns the horizontal extent.
func (b Bounds) Width() int { return absInt(b.X2 - b.X1) }

// Height returns the vertical extent.
func (b Bounds) Height() int { return absInt(b.Y2 - b.Y1) }

// ContainsPoint reports whether (x, y) lies on or inside the rectangle.
func (b Bounds) ContainsPoint(x, y int) bool {
	return b.X1 <= x && x <= b.X2 && b.Y1 <= y && y <= b.Y2
}

// StrictlyContainsPoint reports whether (x, y) lies inside the rectangle and
// not on its edge.
func (b Bounds) StrictlyContainsPoint(x, y int) bool {
	return b.X1 < x && x < b.X2 && b.Y1 < y && y < b.Y2
}

// Encloses reports whether b strictly encloses other on all four sides.
func (b Bounds) Encloses(other Bounds) bool {
	return b.X1 < other.X1 && b.Y1 < other.Y1 && b.X2 > other.X2 && b.Y2 > other.Y2
}

// Overlaps reports whether the two rectangles share at least one point.
// Touching edges count as overlap.
func (b Bounds) Overlaps(other Bounds) bool {
	return !(b.X2 < other.X1 || b.X1 > other.X2 || b.Y2 < other.Y1 || b.Y1 > other.Y2)
}

// Near reports whether every corner coordinate differs by at most tolerance.
func (b Bounds) Near(other Bounds, tolerance int) bool {
	return absInt(b.X1-other.X1) <= tolerance &&
		absInt(b.Y1-other.Y1) <= tolerance &&
		absInt(b.X2-other.X2) <= tolerance &&
		absInt(b.Y2-other.Y2) <= tolerance
}

// Within reports whether b lies vertically inside band. Only the y axis is
// considered because navigation bars span the full screen width.
func (b Bounds) Within(band Bounds) bool {
	return b.Y1 >= band.Y1 && b.Y2 <= band.Y2
}

// String renders the bounds in accessibility dump notation.
func (b Bounds) String() string {
	return fmt.Sprintf("[%d,%d][%d,%d]", b.X1, b.Y1, b.X2, b.Y2)
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// MaybeBounds is a rectangle recovered from the event log that may be absent.
type MaybeBounds struct {
	Bounds Bounds
	Found  bool
}

// Found wraps b as a present rectangle.
func Found(b Bounds) MaybeBounds { return MaybeBounds{Bounds: b, Found: true} }

// NotFound is the sentinel for a rectangle the event log did not record.
var NotFound = MaybeBounds{}

func (m MaybeBounds) String() string {
	if !m.Found {
		return "not found"
	}
	return m.Bounds.String()
}
