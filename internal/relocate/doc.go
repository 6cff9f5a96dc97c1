// Package relocate runs a directory-wide rewrite of session file fields.
//
// A Runner lists the candidate session files in an input directory,
// optionally stages them into an output directory, and rewrites the keyed
// field of every target with a bounded pool of workers. Each file yields a
// FileResult; the run as a whole yields a Report. Runs are serialised through
// an advisory file lock and, when a Journal is attached, recorded together
// with the original bytes of every file that was written so they can be
// restored later.
//
// ProcessFile exposes the single-file read, rewrite, write sequence without
// any logging, locking, or journaling.
package relocate
