// Package preflight checks that the filesystem is ready for a batch run:
// the dataset is readable, the results and log directories are writable, and
// no other run holds the results lock.
//
// The "a11ydiff preflight" command prints every result; "a11ydiff analyze"
// runs the same checks and refuses to start when one fails.
package preflight
