// Package dataset walks a recorded dataset laid out as
// <root>/<app>/<test>/ and turns each test case directory into a
// detect.Input.
//
// A test case directory holds the event log (*-ev.txt), three accessibility
// dumps (*.1-a11y.xml, *.action-a11y.xml, *.3-a11y.xml) and the matching
// screenshots (*.1.png, *.action.2.png, *.3.png). The mid screenshot is only
// used for overlays and may be absent.
package dataset
