package sessionfile

import (
	"fmt"
	"os"
)

// Source supplies file content and persists rewritten content.
type Source interface {
	ReadAll(path string) ([]byte, error)
	WriteAll(path string, data []byte) error
}

// Disk is the filesystem-backed Source.
type Disk struct{}

// ReadAll implements Source.
func (Disk) ReadAll(path string) ([]byte, error) {
	return ReadAll(path)
}

// WriteAll implements Source.
func (Disk) WriteAll(path string, data []byte) error {
	return WriteAll(path, data)
}

// ReadAll returns the full content of path.
func ReadAll(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, Wrap("read", path, err)
	}
	return data, nil
}

// WriteAll overwrites an existing file from offset zero and truncates it to
// len(data). The file keeps its mode and inode, so hard links and open
// handles observe the new content.
func WriteAll(path string, data []byte) (err error) {
	file, err := os.OpenFile(path, os.O_WRONLY, 0)
	if err != nil {
		return Wrap("open", path, err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && err == nil {
			err = Wrap("close", path, closeErr)
		}
	}()

	if _, err := file.WriteAt(data, 0); err != nil {
		return Wrap("write", path, err)
	}
	if err := file.Truncate(int64(len(data))); err != nil {
		return Wrap("truncate", path, fmt.Errorf("set length %d: %w", len(data), err))
	}
	if err := file.Sync(); err != nil {
		return Wrap("sync", path, err)
	}
	return nil
}
