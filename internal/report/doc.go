// Package report writes the reviewer-facing output of one test case: a
// results.txt listing every finding as a JSON line under its category
// header, overlay PNGs outlining the findings on each screenshot, and a copy
// of the source artifacts.
//
// Folders live directly under the results directory and are named after the
// app and test case. A folder whose overlays cannot be rendered is removed so
// a partial report is never left behind.
package report
