package preflight

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sys/unix"
)

// ClientLockName is the lock file rtorrent keeps in its session directory.
const ClientLockName = "rtorrent.lock"

// CheckDirectoryAccess verifies that the directory exists and is readable,
// and writable when writable is set.
func CheckDirectoryAccess(name, path string, writable bool) Result {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}

	mode := uint32(unix.R_OK | unix.X_OK)
	access := "read"
	if writable {
		mode |= unix.W_OK
		access = "read/write"
	}
	if err := unix.Access(path, mode); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%s ok)", path, access)}
}

// CheckOutputDirectory passes for a writable directory, or for a missing one
// whose nearest existing parent is writable so it can be created.
func CheckOutputDirectory(name, path string) Result {
	if _, err := os.Stat(path); err == nil || !errors.Is(err, os.ErrNotExist) {
		return CheckDirectoryAccess(name, path, true)
	}

	parent := filepath.Dir(filepath.Clean(path))
	for {
		if _, err := os.Stat(parent); err == nil {
			break
		}
		next := filepath.Dir(parent)
		if next == parent {
			break
		}
		parent = next
	}
	check := CheckDirectoryAccess(name, parent, true)
	if !check.Passed {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: cannot create under %s)", path, parent)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (will be created)", path)}
}

// CheckClientIdle warns when a torrent client lock file is present in dir.
func CheckClientIdle(dir string) Result {
	const name = "Torrent client"

	lockPath := filepath.Join(dir, ClientLockName)
	data, err := os.ReadFile(lockPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Result{Name: name, Passed: true, Detail: "no rtorrent.lock in session directory"}
		}
		return Result{Name: name, Passed: true, Warning: true, Detail: fmt.Sprintf("%s present but unreadable: %v", lockPath, err)}
	}

	owner := strings.TrimSpace(string(data))
	if owner == "" {
		owner = "unknown owner"
	}
	return Result{
		Name:    name,
		Passed:  true,
		Warning: true,
		Detail:  fmt.Sprintf("%s held by %s; stop rtorrent first or it will overwrite rewritten sessions on exit", lockPath, owner),
	}
}
