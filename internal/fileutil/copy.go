package fileutil

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// CopyDirRecursive copies the contents of one directory into another,
// creating the destination as needed. Symlinks and other non-regular entries
// are not copied.
func CopyDirRecursive(from, to string) error {
	if err := os.MkdirAll(to, 0755); err != nil {
		return fmt.Errorf("creating %s: %w", to, err)
	}
	entries, err := os.ReadDir(from)
	if err != nil {
		return fmt.Errorf("reading %s: %w", from, err)
	}

	for _, entry := range entries {
		newFrom := filepath.Join(from, entry.Name())
		newTo := filepath.Join(to, entry.Name())

		switch {
		case entry.IsDir():
			if err := CopyDirRecursive(newFrom, newTo); err != nil {
				return fmt.Errorf("dir %s to %s: %w", newFrom, newTo, err)
			}
		case entry.Type().IsRegular():
			if err := copyFile(newFrom, newTo); err != nil {
				return fmt.Errorf("copying %s to %s: %w", newFrom, newTo, err)
			}
		}
	}
	return nil
}

func copyFile(from, to string) error {
	src, err := os.Open(from)
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := os.Create(to)
	if err != nil {
		return err
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return err
	}
	return dst.Close()
}

// hardLinkRetryDelay is how long to back off when another process wins a
// race on the same link target.
const hardLinkRetryDelay = 10 * time.Millisecond

// HardLinkDirRecursive replicates a directory tree by hardlinking every file
// into the destination. Symlinks and other non-regular entries are skipped.
//
// Concurrent replicators racing on the same destination are tolerated: when a
// link target already exists it is removed and the link is retried, and when
// another process creates or removes the target mid-operation we back off
// briefly and treat the link as theirs.
func HardLinkDirRecursive(from, to string) error {
	if err := os.MkdirAll(to, 0755); err != nil {
		return fmt.Errorf("creating %s: %w", to, err)
	}
	entries, err := os.ReadDir(from)
	if err != nil {
		return fmt.Errorf("reading %s: %w", from, err)
	}

	for _, entry := range entries {
		newFrom := filepath.Join(from, entry.Name())
		newTo := filepath.Join(to, entry.Name())

		switch {
		case entry.IsDir():
			if err := HardLinkDirRecursive(newFrom, newTo); err != nil {
				return fmt.Errorf("dir %s to %s: %w", newFrom, newTo, err)
			}
		case entry.Type().IsRegular():
			if err := hardLinkFile(newFrom, newTo); err != nil {
				return err
			}
		}
	}
	return nil
}

func hardLinkFile(from, to string) error {
	err := os.Link(from, to)
	if err == nil {
		return nil
	}
	if !errors.Is(err, fs.ErrExist) {
		return fmt.Errorf("hard linking %s to %s: %w", from, to, err)
	}

	// The target exists. Remove it and relink, tolerating another process
	// removing or recreating it between the two steps.
	if err := os.Remove(to); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("removing file to hard link %s to %s: %w", from, to, err)
		}
		time.Sleep(hardLinkRetryDelay)
	}

	if err := os.Link(from, to); err != nil {
		if errors.Is(err, fs.ErrExist) {
			// another process created the link first; let it win
			time.Sleep(hardLinkRetryDelay)
			return nil
		}
		return fmt.Errorf("hard linking %s to %s: %w", from, to, err)
	}
	return nil
}

// SymlinkDir creates a symlink at newname pointing at the directory oldname,
// annotating any failure with both paths.
func SymlinkDir(oldname, newname string) error {
	if err := os.Symlink(oldname, newname); err != nil {
		return fmt.Errorf("symlink '%s' -> '%s': %w", oldname, newname, err)
	}
	return nil
}

// DirSize returns the total size in bytes of all files under path.
func DirSize(path string) (int64, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return 0, err
	}
	var total int64
	for _, entry := range entries {
		if entry.IsDir() {
			size, err := DirSize(filepath.Join(path, entry.Name()))
			if err != nil {
				return 0, err
			}
			total += size
			continue
		}
		info, err := entry.Info()
		if err != nil {
			return 0, err
		}
		total += info.Size()
	}
	return total, nil
}

// RemoveDirAllIfExists removes a directory and all its descendants, but does
// not error when the directory does not exist.
func RemoveDirAllIfExists(path string) error {
	err := os.RemoveAll(path)
	if err != nil && errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
