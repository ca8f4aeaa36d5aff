// Package fileutil provides the low-level filesystem utilities fskit is
// built on: pruning directory collection, path canonicalization, atomic
// writes, and directory replication.
//
// # File Collection
//
// FileCollector walks directory trees in pre-order and returns the files
// accepted by a caller-supplied predicate. Whole subtrees are pruned cheaply,
// without descending into them, when they fall under a configured ignore path
// or carry a well-known ignored name (.git, node_modules). An explicitly
// listed walk root always opts out of the name-based ignore.
//
//	collector := fileutil.NewFileCollector(func(path string) bool {
//	    return strings.HasSuffix(path, ".md")
//	}).AddIgnorePaths("vendor").IgnoreGitFolder().IgnoreNodeModules()
//
//	files := collector.CollectFiles("docs", "examples")
//
// Collection is best-effort by design: unreadable entries, dangling symlinks,
// and paths that vanish mid-walk are skipped, never fatal, so the walk
// tolerates concurrent mutation of the tree.
//
// # Path Canonicalization
//
// CanonicalizePath resolves a path to its absolute, symlink-free form, which
// is what makes the collector's prefix-based ignore matching reliable.
// CanonicalizePathMaybeNotExists extends this to paths that do not exist yet.
//
// # Atomic Writes
//
// AtomicWrite writes through a uniquely named temp file in the target's
// directory followed by a rename, so readers never observe partial content.
//
// # Directory Replication
//
// CopyDirRecursive and HardLinkDirRecursive replicate a tree by copying or
// hardlinking respectively; the hardlink variant tolerates concurrent
// replicators racing on the same destination. SymlinkDir, DirSize, and
// RemoveDirAllIfExists round out the replication helpers.
package fileutil
