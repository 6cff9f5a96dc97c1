// Package main hosts the rtmodify CLI entrypoint and command graph.
//
// The Cobra command tree resolves configuration once, builds the structured
// logger, runs preflight checks, and hands rewrite runs to the relocate
// runner. Results are rendered as tables and status lines; the journal backs
// the history and restore commands.
//
// Keep this package lean: behaviour belongs in the internal packages and is
// surfaced here through commands and flags.
package main
