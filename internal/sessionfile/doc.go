// Package sessionfile reads and rewrites whole session-state files.
//
// Files are read fully into memory and written back with truncate-and-
// overwrite semantics. Failures are reported as *IOError with a coarse Kind
// (not found, permission denied, other) so callers can report them without
// inspecting syscall errors.
package sessionfile
