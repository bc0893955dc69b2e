// Package eventlog parses the accessibility event log recorded alongside each
// test case and derives the scenario signals the detectors are gated on.
//
// Parse accepts the raw log bytes in whatever encoding the recorder produced
// (UTF-8, UTF-16 with BOM, or legacy single-byte) and yields one Event per
// "EventType:" line. Analyze walks the events in order to recover window
// changes, scroll and click follow-ups, and the last focused and clicked
// rectangles.
package eventlog
