package testsupport

import (
	"encoding/xml"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// Elem is one element of a synthetic accessibility dump. Every element is
// visible and enabled; Bounds uses the dump's "[x1,y1][x2,y2]" notation.
type Elem struct {
	ID          string
	Text        string
	Desc        string
	Class       string
	Bounds      string
	Focused     bool
	Clickable   bool
	Unimportant bool
	LiveRegion  string
	Children    []Elem
}

// TreeXML renders elements as a hierarchy document the tree loader accepts.
func TreeXML(elems ...Elem) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n<hierarchy rotation=\"0\">\n")
	for i, e := range elems {
		writeElem(&b, e, i, 1)
	}
	b.WriteString("</hierarchy>\n")
	return b.String()
}

func writeElem(b *strings.Builder, e Elem, index, depth int) {
	class := e.Class
	if class == "" {
		class = "android.widget.TextView"
	}
	live := e.LiveRegion
	if live == "" {
		live = "0"
	}
	indent := strings.Repeat("  ", depth)
	fmt.Fprintf(b, `%s<node index="%d" class=%s resource-id=%s text=%s content-desc=%s bounds=%s liveRegion=%s visible="true" enabled="true" clickable="%t" importantForAccessibility="%t" a11yFocused="%t"`,
		indent, index, attr(class), attr(e.ID), attr(e.Text), attr(e.Desc), attr(e.Bounds), attr(live), e.Clickable, !e.Unimportant, e.Focused)
	if len(e.Children) == 0 {
		b.WriteString("/>\n")
		return
	}
	b.WriteString(">\n")
	for i, c := range e.Children {
		writeElem(b, c, i, depth+1)
	}
	b.WriteString(indent + "</node>\n")
}

func attr(v string) string {
	var b strings.Builder
	b.WriteByte('"')
	_ = xml.EscapeText(&b, []byte(v))
	b.WriteByte('"')
	return b.String()
}

// Case describes the artifacts of one synthetic test case.
type Case struct {
	Pre, Mid, Final string
	// EventLog holds raw log lines; empty writes an empty log.
	EventLog string
	// Screens are the pre, mid and final screenshots. Nil entries are
	// written as a plain gray image.
	Screens [3]image.Image
	// Omit lists artifact suffixes to leave out, e.g. ".3-a11y.xml".
	Omit []string
}

// Artifact suffixes, in the naming the dataset recorder uses.
const (
	SuffixEventLog   = "-ev.txt"
	SuffixPreTree    = ".1-a11y.xml"
	SuffixMidTree    = ".action-a11y.xml"
	SuffixFinalTree  = ".3-a11y.xml"
	SuffixPreImage   = ".1.png"
	SuffixMidImage   = ".action.2.png"
	SuffixFinalImage = ".3.png"
)

// WriteCase lays out <datasetDir>/<app>/<test>/ with every artifact of c and
// returns the case directory.
func WriteCase(t testing.TB, datasetDir, app, test string, c Case) string {
	t.Helper()

	dir := filepath.Join(datasetDir, app, test)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", dir, err)
	}
	omitted := func(suffix string) bool {
		for _, o := range c.Omit {
			if o == suffix {
				return true
			}
		}
		return false
	}
	texts := []struct {
		suffix, body string
	}{
		{SuffixEventLog, c.EventLog},
		{SuffixPreTree, orEmptyTree(c.Pre)},
		{SuffixMidTree, orEmptyTree(c.Mid)},
		{SuffixFinalTree, orEmptyTree(c.Final)},
	}
	for _, f := range texts {
		if omitted(f.suffix) {
			continue
		}
		WriteText(t, filepath.Join(dir, test+f.suffix), f.body)
	}
	for i, suffix := range []string{SuffixPreImage, SuffixMidImage, SuffixFinalImage} {
		if omitted(suffix) {
			continue
		}
		img := c.Screens[i]
		if img == nil {
			img = Solid(108, 240, color.Gray{Y: 128})
		}
		WritePNG(t, filepath.Join(dir, test+suffix), img)
	}
	return dir
}

func orEmptyTree(body string) string {
	if body == "" {
		return TreeXML()
	}
	return body
}

// WriteText writes body to path, creating parent directories.
func WriteText(t testing.TB, path, body string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// WritePNG encodes img to path.
func WritePNG(t testing.TB, path string, img image.Image) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encode %s: %v", path, err)
	}
}

// Solid returns a single-color image.
func Solid(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

// Halves returns an image whose top and bottom halves are black and white,
// swapped when darkTop is false. Two such images hash far apart.
func Halves(w, h int, darkTop bool) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		dark := (y < h/2) == darkTop
		c := color.Gray{Y: 255}
		if dark {
			c = color.Gray{Y: 0}
		}
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

// EventLine formats one accessibility event log line. A nil rect omits the
// boundsInScreen field.
func EventLine(eventType string, rect []int) string {
	line := "03-14 10:22:01.000 I/A11yService: EventType: " + eventType + "; EventTime: 1;"
	if len(rect) == 4 {
		line += fmt.Sprintf(" boundsInScreen: Rect(%d, %d - %d, %d);", rect[0], rect[1], rect[2], rect[3])
	}
	return line + "\n"
}
