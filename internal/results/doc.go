// Package results persists batch runs in SQLite.
//
// A run owns one row per analyzed test case, and each case owns its
// findings as flattened records. The store records every case, including
// cases that were skipped by the classification preconditions or failed to
// load, so a run can be audited without re-reading the dataset.
//
// The schema is versioned; an existing database with a different version is
// rejected with ErrSchemaMismatch instead of being migrated.
package results
