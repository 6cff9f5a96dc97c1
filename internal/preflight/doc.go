// Package preflight provides readiness checks run before session files are
// rewritten.
//
// Directory checks fail hard: a missing or unwritable session directory makes
// the whole run pointless. The client check only warns. rtorrent keeps a
// rtorrent.lock in its session directory while running and saves every
// session file on shutdown, which would silently undo a rewrite; the CLI
// refuses to continue past that warning unless forced.
package preflight
