package sessiondir

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"rtmodify/internal/sessionfile"
)

// List returns the regular files directly inside dir whose names match m,
// sorted by path. Symlinks are followed; subdirectories are not descended.
func List(dir string, m *Matcher) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, sessionfile.Wrap("list", dir, err)
	}

	var files []string
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		if !m.Match(path) {
			continue
		}
		info, err := os.Stat(path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				// Dangling symlink or a file removed mid-listing.
				continue
			}
			return nil, sessionfile.Wrap("stat", path, err)
		}
		if !info.Mode().IsRegular() {
			continue
		}
		files = append(files, path)
	}
	sort.Strings(files)
	return files, nil
}

// Stage copies files into outDir, creating it when needed, and returns the
// destination paths in the same order. Existing destinations are replaced.
func Stage(ctx context.Context, files []string, outDir string) ([]string, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, sessionfile.Wrap("create", outDir, err)
	}

	staged := make([]string, 0, len(files))
	for _, src := range files {
		if err := ctx.Err(); err != nil {
			return staged, err
		}
		dst := filepath.Join(outDir, filepath.Base(src))
		if sameFile(src, dst) {
			return staged, fmt.Errorf("stage %s: source and destination are the same file", src)
		}
		if err := copyFile(src, dst); err != nil {
			return staged, err
		}
		staged = append(staged, dst)
	}
	return staged, nil
}

func copyFile(src, dst string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return sessionfile.Wrap("open", src, err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return sessionfile.Wrap("stat", src, err)
	}

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return sessionfile.Wrap("create", dst, err)
	}
	defer func() {
		if closeErr := out.Close(); closeErr != nil && err == nil {
			err = sessionfile.Wrap("close", dst, closeErr)
		}
	}()

	if _, err := io.Copy(out, in); err != nil {
		return sessionfile.Wrap("copy", dst, err)
	}
	return nil
}

func sameFile(a, b string) bool {
	ai, err := os.Stat(a)
	if err != nil {
		return false
	}
	bi, err := os.Stat(b)
	if err != nil {
		return false
	}
	return os.SameFile(ai, bi)
}
