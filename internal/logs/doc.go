// Package logs reads back the JSON lines log that every a11ydiff command
// appends to.
//
// Tail returns the last N lines or everything after a byte offset with
// bounded memory, optionally waiting for new output. Filter narrows decoded
// lines to one run, one test case or a minimum level so the CLI can replay
// what happened to a specific case after a batch finishes.
package logs
