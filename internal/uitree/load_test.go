package uitree_test

import (
	"errors"
	"strings"
	"testing"

	"a11ydiff/internal/uitree"
)

var testScreen = uitree.Rect(0, 0, 1080, 2400)

const sampleDump = `<?xml version="1.0" encoding="UTF-8"?>
<hierarchy rotation="0">
  <node index="0" class="android.widget.FrameLayout" resource-id="app:id/root" bounds="[0,0][1080,2400]" liveRegion="0" visible="true" importantForAccessibility="false">
    <node index="0" class="android.widget.TextView" resource-id="app:id/title" text="Inbox" bounds="[40,200][600,260]" liveRegion="0" visible="true" importantForAccessibility="true" a11yFocused="true" drawingOrder="1"/>
    <node index="1" class="android.widget.LinearLayout" resource-id="app:id/banner" bounds="[0,300][1080,400]" liveRegion="1" visible="true">
      <node index="0" class="android.widget.TextView" resource-id="app:id/status" text="Saving" bounds="[10,310][500,390]" visible="true" importantForAccessibility="true"/>
    </node>
    <node index="2" class="android.widget.Button" resource-id="app:id/offscreen" bounds="[0,2300][1080,2600]" liveRegion="0"/>
    <node index="3" class="android.widget.Button" resource-id="app:id/negative" bounds="[-5,10][100,50]" liveRegion="0"/>
    <node index="4" class="android.widget.Button" resource-id="app:id/flipped" bounds="[300,900][100,800]" liveRegion="0" clickable="true"/>
  </node>
</hierarchy>`

func TestLoadLinksParentsAndFiltersScreen(t *testing.T) {
	nodes, err := uitree.Load(strings.NewReader(sampleDump), testScreen)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	byID := map[string]*uitree.Node{}
	for _, n := range nodes {
		byID[n.ResourceID] = n
	}
	if len(nodes) != 5 {
		t.Fatalf("expected 5 on-screen nodes, got %d", len(nodes))
	}
	if _, ok := byID["app:id/offscreen"]; ok {
		t.Fatal("expected offscreen node to be dropped")
	}
	if _, ok := byID["app:id/negative"]; ok {
		t.Fatal("expected node with negative coordinates to be dropped")
	}

	title := byID["app:id/title"]
	if title.Parent == nil || title.Parent.ResourceID != "app:id/root" {
		t.Fatalf("expected title parent to be root, got %+v", title.Parent)
	}
	if title.FocusStatus != uitree.FocusOn {
		t.Fatalf("expected focused node to start ON, got %s", title.FocusStatus)
	}
	if byID["app:id/root"].Parent != nil {
		t.Fatal("expected top-level node to have nil parent")
	}

	status := byID["app:id/status"]
	if status.LiveRegion != "0" {
		t.Fatalf("expected missing liveRegion to read as 0, got %q", status.LiveRegion)
	}
	if !status.InLiveRegionSubtree {
		t.Fatal("expected status to sit inside a live region subtree")
	}
	if title.InLiveRegionSubtree {
		t.Fatal("expected title outside any live region")
	}

	flipped := byID["app:id/flipped"]
	want := uitree.Bounds{X1: 100, Y1: 800, X2: 300, Y2: 900}
	if flipped.Bounds != want {
		t.Fatalf("expected normalized bounds %v, got %v", want, flipped.Bounds)
	}
	if !flipped.Clickable {
		t.Fatal("expected clickable flag")
	}
}

func TestLoadRejectsMalformedBounds(t *testing.T) {
	dump := `<hierarchy><node class="x" bounds="0,0,10,10"/></hierarchy>`
	_, err := uitree.Load(strings.NewReader(dump), testScreen)
	if !errors.Is(err, uitree.ErrMalformedBounds) {
		t.Fatalf("expected ErrMalformedBounds, got %v", err)
	}
}

func TestLoadEmptyHierarchy(t *testing.T) {
	nodes, err := uitree.Load(strings.NewReader(`<hierarchy/>`), testScreen)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if len(nodes) != 0 {
		t.Fatalf("expected no nodes, got %d", len(nodes))
	}
}
