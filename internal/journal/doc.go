// Package journal persists rewrite runs in SQLite.
//
// Every run gets a row in runs; every processed session file gets a row in
// files holding its outcome and, for files that were overwritten, the exact
// bytes they held before the write. Restore writes those bytes back, which
// makes a run reversible without keeping backup copies on disk.
//
// The schema lives in schema.sql and is versioned through schema_version.
// When the schema changes, bump schemaVersion; older databases are rejected
// with ErrSchemaMismatch rather than migrated.
package journal
