// Package logging assembles structured slog loggers and formatting helpers used
// across rtmodify.
//
// It owns the console and JSON handlers, output fan-out to stderr and an
// optional JSON log file, and TTY-aware colouring of console level labels.
// Components receive a *slog.Logger explicitly; nothing here installs a
// process-wide default. The package also provides a no-op logger for tests
// and wiring code that cannot fail.
package logging
