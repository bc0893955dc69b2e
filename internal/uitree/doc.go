// Package uitree models one accessibility-tree snapshot of the UI under test.
//
// A Node carries the attributes captured by the accessibility dump plus a
// handful of derived fields (focus status, movement direction) that the
// detection pipeline fills in. Identity keys are computed once at load time
// and never change, so callers can choose the notion of sameness that fits
// their comparison: StrictKey for "same element, unchanged", LooseKey for
// "same logical element, possibly moved", MinimalKey for coarse equality.
//
// LoadFile parses the XML dump, links parents, resolves live-region ancestry,
// and drops elements that fall outside the screen rectangle so downstream
// code only sees normalized, on-screen bounds.
package uitree
