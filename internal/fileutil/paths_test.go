package fileutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// canonicalTempDir returns a t.TempDir with its own symlinks resolved, so
// comparisons are stable on platforms where the temp root is a symlink
// (e.g. /var on macOS).
func canonicalTempDir(t *testing.T) string {
	t.Helper()
	dir, err := CanonicalizePath(t.TempDir())
	require.NoError(t, err)
	return dir
}

func TestCanonicalizePathResolvesSymlinks(t *testing.T) {
	dir := canonicalTempDir(t)

	target := filepath.Join(dir, "target")
	require.NoError(t, os.Mkdir(target, 0755))
	link := filepath.Join(dir, "link")
	require.NoError(t, os.Symlink(target, link))

	canon, err := CanonicalizePath(link)
	require.NoError(t, err)
	assert.Equal(t, target, canon)
}

func TestCanonicalizePathMissing(t *testing.T) {
	dir := canonicalTempDir(t)

	_, err := CanonicalizePath(filepath.Join(dir, "missing"))
	assert.Error(t, err)
}

func TestCanonicalizePathRelative(t *testing.T) {
	canon, err := CanonicalizePath(".")
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(canon))
}

func TestCanonicalizePathMaybeNotExists(t *testing.T) {
	dir := canonicalTempDir(t)

	// existing path behaves like CanonicalizePath
	canon, err := CanonicalizePathMaybeNotExists(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, canon)

	// missing components are joined back onto the deepest existing ancestor
	canon, err = CanonicalizePathMaybeNotExists(filepath.Join(dir, "a", "b", "c"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "a", "b", "c"), canon)
}

func TestCanonicalizePathMaybeNotExistsThroughSymlink(t *testing.T) {
	dir := canonicalTempDir(t)

	target := filepath.Join(dir, "target")
	require.NoError(t, os.Mkdir(target, 0755))
	link := filepath.Join(dir, "link")
	require.NoError(t, os.Symlink(target, link))

	canon, err := CanonicalizePathMaybeNotExists(filepath.Join(link, "missing.txt"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(target, "missing.txt"), canon)
}

func TestResolveFromCwd(t *testing.T) {
	cwd, err := os.Getwd()
	require.NoError(t, err)

	got, err := ResolveFromCwd("a")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(cwd, "a"), got)

	got, err = ResolveFromCwd(".")
	require.NoError(t, err)
	assert.Equal(t, cwd, got)

	got, err = ResolveFromCwd(filepath.Join("a", ".."))
	require.NoError(t, err)
	assert.Equal(t, cwd, got)

	abs := string(filepath.Separator) + "a"
	got, err = ResolveFromCwd(abs)
	require.NoError(t, err)
	assert.Equal(t, abs, got)
}
