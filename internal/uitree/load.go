package uitree

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// LoadFile reads an accessibility dump from disk. See Load.
func LoadFile(path string, screen Bounds) (Snapshot, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open accessibility dump: %w", err)
	}
	defer file.Close()

	nodes, err := Load(file, screen)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return nodes, nil
}

// Load parses an accessibility dump. The document root is a container; each
// element below it becomes a Node linked to its enclosing element. Elements
// with a negative coordinate or a corner outside screen are dropped from the
// returned working set, though they remain reachable as parents.
func Load(r io.Reader, screen Bounds) (Snapshot, error) {
	dec := xml.NewDecoder(r)
	var (
		all   []*Node
		stack []*Node
		raw   = map[*Node]string{}
	)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse xml: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if len(stack) == 0 {
				stack = append(stack, nil)
				continue
			}
			node, bounds := nodeFromAttrs(t.Attr)
			node.Parent = stack[len(stack)-1]
			raw[node] = bounds
			all = append(all, node)
			stack = append(stack, node)
		case xml.EndElement:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		}
	}

	out := make(Snapshot, 0, len(all))
	for _, node := range all {
		node.InLiveRegionSubtree = node.HasLiveRegionAncestor()
		b, err := ParseBounds(raw[node])
		if err != nil {
			return nil, err
		}
		negative := b.Negative()
		node.Bounds = b
		node.Finalize()
		if negative {
			continue
		}
		if !screen.ContainsPoint(node.Bounds.X1, node.Bounds.Y1) || !screen.ContainsPoint(node.Bounds.X2, node.Bounds.Y2) {
			continue
		}
		out = append(out, node)
	}
	return out, nil
}

func nodeFromAttrs(attrs []xml.Attr) (*Node, string) {
	values := make(map[string]string, len(attrs))
	for _, a := range attrs {
		values[a.Name.Local] = a.Value
	}
	live := strings.TrimSpace(values["liveRegion"])
	if live == "" {
		live = "0"
	}
	node := &Node{
		Text:               values["text"],
		ContentDescription: values["content-desc"],
		Class:              values["class"],
		ResourceID:         values["resource-id"],
		A11yFocused:        isTrue(values["a11yFocused"]),
		LiveRegion:         live,
		Visible:            isTrue(values["visible"]),
		Checked:            isTrue(values["checked"]),
		Selected:           isTrue(values["selected"]),
		Enabled:            isTrue(values["enabled"]),
		Focusable:          isTrue(values["focusable"]),
		Clickable:          isTrue(values["clickable"]),
		Important:          isTrue(values["importantForAccessibility"]),
		DrawingOrder:       atoiOr(values["drawingOrder"], 0),
		Index:              atoiOr(values["index"], 0),
		ActionList:         values["actionList"],
	}
	return node, values["bounds"]
}

func isTrue(v string) bool {
	return strings.EqualFold(strings.TrimSpace(v), "true")
}

func atoiOr(v string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return fallback
	}
	return n
}
