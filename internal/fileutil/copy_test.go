package fileutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildReplicationTree writes a small nested tree and returns its root.
func buildReplicationTree(t *testing.T) string {
	t.Helper()
	root := filepath.Join(t.TempDir(), "src")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "sub", "deep"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "top.txt"), []byte("top"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "sub", "mid.txt"), []byte("middle"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "sub", "deep", "leaf.txt"), []byte("leaf"), 0644))
	return root
}

func TestCopyDirRecursive(t *testing.T) {
	src := buildReplicationTree(t)
	dst := filepath.Join(t.TempDir(), "dst")

	require.NoError(t, CopyDirRecursive(src, dst))

	for path, want := range map[string]string{
		filepath.Join(dst, "top.txt"):                 "top",
		filepath.Join(dst, "sub", "mid.txt"):          "middle",
		filepath.Join(dst, "sub", "deep", "leaf.txt"): "leaf",
	} {
		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, want, string(content))
	}
}

func TestCopyDirRecursiveSkipsSymlinks(t *testing.T) {
	src := buildReplicationTree(t)
	require.NoError(t, os.Symlink(filepath.Join(src, "top.txt"), filepath.Join(src, "alias.txt")))
	dst := filepath.Join(t.TempDir(), "dst")

	require.NoError(t, CopyDirRecursive(src, dst))

	_, err := os.Lstat(filepath.Join(dst, "alias.txt"))
	assert.True(t, os.IsNotExist(err), "symlinks are not replicated")
}

func TestCopyDirRecursiveMissingSource(t *testing.T) {
	dst := filepath.Join(t.TempDir(), "dst")
	err := CopyDirRecursive(filepath.Join(t.TempDir(), "missing"), dst)
	assert.Error(t, err)
}

func TestHardLinkDirRecursive(t *testing.T) {
	src := buildReplicationTree(t)
	dst := filepath.Join(filepath.Dir(src), "linked")

	require.NoError(t, HardLinkDirRecursive(src, dst))

	srcInfo, err := os.Stat(filepath.Join(src, "sub", "deep", "leaf.txt"))
	require.NoError(t, err)
	dstInfo, err := os.Stat(filepath.Join(dst, "sub", "deep", "leaf.txt"))
	require.NoError(t, err)
	assert.True(t, os.SameFile(srcInfo, dstInfo), "replica must share the source inode")
}

func TestHardLinkDirRecursiveOverwritesExisting(t *testing.T) {
	src := buildReplicationTree(t)
	dst := filepath.Join(filepath.Dir(src), "linked")

	// pre-existing divergent target gets relinked
	require.NoError(t, os.MkdirAll(dst, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dst, "top.txt"), []byte("stale"), 0644))

	require.NoError(t, HardLinkDirRecursive(src, dst))

	content, err := os.ReadFile(filepath.Join(dst, "top.txt"))
	require.NoError(t, err)
	assert.Equal(t, "top", string(content))
}

func TestSymlinkDir(t *testing.T) {
	src := buildReplicationTree(t)
	link := filepath.Join(filepath.Dir(src), "link")

	require.NoError(t, SymlinkDir(src, link))

	content, err := os.ReadFile(filepath.Join(link, "top.txt"))
	require.NoError(t, err)
	assert.Equal(t, "top", string(content))

	// second creation fails and names both paths
	err = SymlinkDir(src, link)
	require.Error(t, err)
	assert.Contains(t, err.Error(), src)
	assert.Contains(t, err.Error(), link)
}

func TestDirSize(t *testing.T) {
	src := buildReplicationTree(t)

	size, err := DirSize(src)
	require.NoError(t, err)
	// "top" + "middle" + "leaf"
	assert.Equal(t, int64(3+6+4), size)
}

func TestDirSizeMissing(t *testing.T) {
	_, err := DirSize(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestRemoveDirAllIfExists(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "victim")
	require.NoError(t, os.MkdirAll(filepath.Join(target, "sub"), 0755))

	require.NoError(t, RemoveDirAllIfExists(target))
	_, err := os.Stat(target)
	assert.True(t, os.IsNotExist(err))

	// absent directory is not an error
	assert.NoError(t, RemoveDirAllIfExists(target))
}
