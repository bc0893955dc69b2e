package eventlog

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"a11ydiff/internal/uitree"
)

// Accessibility event types the pipeline reacts to.
const (
	TypeWindowContentChanged     = "TYPE_WINDOW_CONTENT_CHANGED"
	TypeWindowStateChanged       = "TYPE_WINDOW_STATE_CHANGED"
	TypeWindowsChanged           = "TYPE_WINDOWS_CHANGED"
	TypeViewAccessibilityFocused = "TYPE_VIEW_ACCESSIBILITY_FOCUSED"
	TypeViewClicked              = "TYPE_VIEW_CLICKED"
	TypeViewScrolled             = "TYPE_VIEW_SCROLLED"
)

var (
	typePattern       = regexp.MustCompile(`EventType: (\S*?);`)
	timePattern       = regexp.MustCompile(`EventTime: (\d+);`)
	stampPattern      = regexp.MustCompile(`^(\d{2}-\d{2} \d{2}:\d{2}:\d{2}\.\d{3})`)
	rectPattern       = regexp.MustCompile(`boundsInScreen: Rect\((-?\d+), (-?\d+) - (-?\d+), (-?\d+)\)`)
	scrollDXPattern   = regexp.MustCompile(`ScrollDeltaX: (-?\d+)`)
	scrollDYPattern   = regexp.MustCompile(`ScrollDeltaY: (-?\d+)`)
	utf8BOM           = []byte{0xEF, 0xBB, 0xBF}
	utf16LittleBOM    = []byte{0xFF, 0xFE}
	utf16BigEndianBOM = []byte{0xFE, 0xFF}
)

// Event is one accessibility or interaction occurrence from the log.
type Event struct {
	Type string
	// Stamp is the logcat wall-clock prefix, empty when absent.
	Stamp string
	// Time is the EventTime field in milliseconds, zero when absent.
	Time         int64
	Rect         uitree.Bounds
	HasRect      bool
	ScrollDeltaX int
	ScrollDeltaY int
	Line         string
}

// Scrolled reports whether the event carries a non-zero scroll delta.
func (e Event) Scrolled() bool {
	return e.ScrollDeltaX != 0 || e.ScrollDeltaY != 0
}

// ParseFile reads and parses an event log from disk.
func ParseFile(path string) ([]Event, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open event log: %w", err)
	}
	defer file.Close()

	events, err := Parse(file)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return events, nil
}

// Parse decodes the log and returns its events in order. Lines without an
// EventType field are ignored.
func Parse(r io.Reader) ([]Event, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read event log: %w", err)
	}
	text, err := decode(data)
	if err != nil {
		return nil, err
	}

	var events []Event
	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		if ev, ok := parseLine(scanner.Text()); ok {
			events = append(events, ev)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan event log: %w", err)
	}
	return events, nil
}

func parseLine(line string) (Event, bool) {
	m := typePattern.FindStringSubmatch(line)
	if m == nil {
		return Event{}, false
	}
	ev := Event{Type: m[1], Line: line}
	if s := stampPattern.FindStringSubmatch(line); s != nil {
		ev.Stamp = s[1]
	}
	if t := timePattern.FindStringSubmatch(line); t != nil {
		ev.Time, _ = strconv.ParseInt(t[1], 10, 64)
	}
	if r := rectPattern.FindStringSubmatch(line); r != nil {
		var v [4]int
		for i := range v {
			v[i], _ = strconv.Atoi(r[i+1])
		}
		ev.Rect = uitree.Bounds{X1: v[0], Y1: v[1], X2: v[2], Y2: v[3]}
		ev.HasRect = true
	}
	if d := scrollDXPattern.FindStringSubmatch(line); d != nil {
		ev.ScrollDeltaX, _ = strconv.Atoi(d[1])
	}
	if d := scrollDYPattern.FindStringSubmatch(line); d != nil {
		ev.ScrollDeltaY, _ = strconv.Atoi(d[1])
	}
	return ev, true
}

// decode honours UTF-8 and UTF-16 byte order marks. Input without a BOM that
// is not valid UTF-8 is treated as Windows-1252.
func decode(data []byte) (string, error) {
	hasBOM := bytes.HasPrefix(data, utf8BOM) ||
		bytes.HasPrefix(data, utf16LittleBOM) ||
		bytes.HasPrefix(data, utf16BigEndianBOM)
	if !hasBOM && !utf8.Valid(data) {
		out, _, err := transform.Bytes(charmap.Windows1252.NewDecoder(), data)
		if err != nil {
			return "", fmt.Errorf("decode event log as windows-1252: %w", err)
		}
		return string(out), nil
	}
	out, _, err := transform.Bytes(unicode.BOMOverride(unicode.UTF8.NewDecoder()), data)
	if err != nil {
		return "", fmt.Errorf("decode event log: %w", err)
	}
	return string(out), nil
}
