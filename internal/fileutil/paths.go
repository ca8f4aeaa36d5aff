package fileutil

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

// CanonicalizePath resolves path to an absolute form with all symlinks
// evaluated. It fails if the path does not exist.
func CanonicalizePath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(abs)
}

// CanonicalizePathMaybeNotExists canonicalizes a path that might not exist by
// walking up the ancestors until it finds one that does, canonicalizing that,
// and joining the missing components back on.
//
// Note: a symlink may subsequently be created along the returned path by
// other code; callers relying on the result should tolerate that.
func CanonicalizePathMaybeNotExists(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	current := filepath.Clean(abs)

	var missing []string
	for {
		canon, err := CanonicalizePath(current)
		if err == nil {
			for i := len(missing) - 1; i >= 0; i-- {
				canon = filepath.Join(canon, missing[i])
			}
			return canon, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", err
		}
		parent := filepath.Dir(current)
		if parent == current {
			return "", err
		}
		missing = append(missing, filepath.Base(current))
		current = parent
	}
}

// ResolveFromCwd resolves path against the current working directory and
// cleans it lexically. Symlinks are not evaluated.
func ResolveFromCwd(path string) (string, error) {
	if filepath.IsAbs(path) {
		return filepath.Clean(path), nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(cwd, path), nil
}
