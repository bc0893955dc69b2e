package detect

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"

	"a11ydiff/internal/uitree"
)

// digests maps unambiguous resource-ids of one snapshot to an attribute
// digest and the node carrying it. Order records first appearance.
type digests struct {
	sum   map[string]string
	node  map[string]*uitree.Node
	order []string
}

// Digest hashes the attribute subset whose change is announced to the user.
func Digest(n *uitree.Node) string {
	var b strings.Builder
	b.WriteString(n.Text)
	b.WriteString(n.ContentDescription)
	b.WriteString(n.Class)
	for _, flag := range []bool{n.Visible, n.Clickable, n.Important, n.Enabled, n.Checked, n.Selected} {
		b.WriteString(strconv.FormatBool(flag))
	}
	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}

// digestSnapshot skips empty resource-ids and drops any id seen more than
// once, since a digest cannot be attributed to one element.
func digestSnapshot(s uitree.Snapshot) digests {
	d := digests{sum: make(map[string]string), node: make(map[string]*uitree.Node)}
	dup := make(map[string]struct{})
	for _, n := range s {
		id := n.ResourceID
		if id == "" {
			continue
		}
		if _, seen := dup[id]; seen {
			continue
		}
		if _, seen := d.sum[id]; seen {
			dup[id] = struct{}{}
			delete(d.sum, id)
			delete(d.node, id)
			continue
		}
		d.sum[id] = Digest(n)
		d.node[id] = n
		d.order = append(d.order, id)
	}
	return d
}

// changedAgainst returns the ids of earlier whose digest differs in later.
// Ids missing from either side are not compared.
func (earlier digests) changedAgainst(later digests) []string {
	var out []string
	for _, id := range earlier.order {
		sum, ok := earlier.sum[id]
		if !ok {
			continue
		}
		if other, ok := later.sum[id]; ok && other != sum {
			out = append(out, id)
		}
	}
	return out
}

// AttributeChanged flags resource-ids whose digest differs between any pair
// of snapshots (pre/mid, pre/final, mid/final). Each flagged id is reported
// once, using the node of the earliest snapshot of the differing pair.
func AttributeChanged(in *Input) []*uitree.Node {
	pre := digestSnapshot(in.Pre)
	mid := digestSnapshot(in.Mid)
	final := digestSnapshot(in.Final)

	seen := make(map[*uitree.Node]struct{})
	var found []*uitree.Node
	add := func(from digests, ids []string) {
		for _, id := range ids {
			n := from.node[id]
			if _, dup := seen[n]; dup {
				continue
			}
			seen[n] = struct{}{}
			found = append(found, n.Clone())
		}
	}
	add(pre, pre.changedAgainst(mid))
	add(pre, pre.changedAgainst(final))
	add(mid, mid.changedAgainst(final))

	FocusPivot(in.LastFocused, in.FocusEvidence()).Apply(found)
	return found
}
