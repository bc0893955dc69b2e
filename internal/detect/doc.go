// Package detect classifies UI elements whose behaviour during an action
// would confuse a screen-reader user.
//
// Five detectors compare the pre-action, mid-action, and final snapshots of
// one test case: short-lived, disappearing, appearing, moving, and
// attribute-changed elements. Each detector is a function of the Input and
// returns its own copies of the nodes it flags, so derived fields (focus
// status, movement direction) are written once per finding and the input
// snapshots stay untouched. Refine then reconciles the five raw sets into
// the final answer, dropping findings another category already explains.
//
// The package performs no I/O. Loading snapshots, parsing the event log, and
// comparing screenshots happen in internal/dataset before Analyze is called.
package detect
