package fileutil

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// AtomicWrite writes data to path atomically using a temp file and rename
// strategy, so readers never observe a partial write.
//
// The data is written to a uniquely named sibling file in the same directory
// (same filesystem, keeping the rename atomic) and then renamed over the
// target. Parent directories are created as needed. If the operation fails at
// any point the original file, if present, is left unchanged.
func AtomicWrite(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tmpPath := fmt.Sprintf("%s.%s.tmp", path, uuid.NewString())
	if err := WriteFileMode(tmpPath, data, perm); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write temp file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename temp file to %s: %w", path, err)
	}

	return nil
}

// WriteFileMode writes data to path, creating it if needed and truncating any
// existing content, then forces the file mode to perm even if the file
// already existed with different permissions.
func WriteFileMode(path string, data []byte, perm os.FileMode) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return err
	}

	if err := f.Chmod(perm); err != nil {
		f.Close()
		return err
	}

	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}

	if err := f.Sync(); err != nil {
		f.Close()
		return err
	}

	return f.Close()
}
