package fileutil

import (
	"os"
	"path/filepath"
	"strings"
)

// FileCollector walks directory trees and collects the files that satisfy a
// caller-supplied predicate. Configured ignore paths prune whole subtrees
// without descending into them; the well-known .git and node_modules
// directories can be pruned by name.
//
// A collector is configured once through the fluent builder methods and is
// then safe to reuse across any number of CollectFiles calls; collection
// never mutates the collector.
type FileCollector struct {
	canonicalizedIgnore []string
	fileFilter          func(path string) bool
	ignoreGitFolder     bool
	ignoreNodeModules   bool
}

// NewFileCollector creates a collector that includes files accepted by filter.
// The filter is evaluated against files only, never directories.
func NewFileCollector(filter func(path string) bool) *FileCollector {
	return &FileCollector{fileFilter: filter}
}

// AddIgnorePaths adds paths whose subtrees are skipped during collection.
// Paths are canonicalized up front so prefix matching is reliable; paths that
// fail to canonicalize (e.g. they do not exist) are dropped.
func (c *FileCollector) AddIgnorePaths(paths ...string) *FileCollector {
	for _, p := range paths {
		if canon, err := CanonicalizePath(p); err == nil {
			c.canonicalizedIgnore = append(c.canonicalizedIgnore, canon)
		}
	}
	return c
}

// IgnoreGitFolder prunes directories named .git (case-insensitive).
func (c *FileCollector) IgnoreGitFolder() *FileCollector {
	c.ignoreGitFolder = true
	return c
}

// IgnoreNodeModules prunes directories named node_modules (case-insensitive).
func (c *FileCollector) IgnoreNodeModules() *FileCollector {
	c.ignoreNodeModules = true
	return c
}

// CollectFiles walks each root in pre-order and returns the canonicalized
// paths of all files that passed the filter and were not pruned. When no
// roots are given the current directory is walked.
//
// The walk is best-effort: roots that cannot be canonicalized are skipped,
// entries that vanish or error mid-walk are skipped, and an unreadable
// directory simply contributes nothing. Collection never fails. Output order
// is filesystem-dependent; callers sort when determinism matters.
func (c *FileCollector) CollectFiles(roots ...string) []string {
	if len(roots) == 0 {
		roots = []string{"."}
	}
	var collected []string
	for _, root := range roots {
		canonRoot, err := CanonicalizePath(root)
		if err != nil {
			continue
		}
		info, err := os.Stat(canonRoot)
		if err != nil {
			continue
		}
		collected = c.walk(canonRoot, info.IsDir(), collected)
	}
	return collected
}

type walkItem struct {
	path  string
	isDir bool
}

// walk performs an iterative pre-order traversal rooted at root. Each
// directory is an explicit descend-or-prune decision made by visit; pruned
// directories are never read.
func (c *FileCollector) walk(root string, rootIsDir bool, collected []string) []string {
	stack := []walkItem{{path: root, isDir: rootIsDir}}
	for len(stack) > 0 {
		item := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		descend, file := c.visit(item, root)
		if file != "" {
			collected = append(collected, file)
		}
		if !descend {
			continue
		}

		entries, err := os.ReadDir(item.path)
		if err != nil {
			// tolerate concurrent mutation and permission errors
			continue
		}
		for _, entry := range entries {
			stack = append(stack, walkItem{
				path:  filepath.Join(item.path, entry.Name()),
				isDir: entry.IsDir(),
			})
		}
	}
	return collected
}

// visit decides what to do with a single entry: for directories it returns
// whether to descend, for files it returns the canonicalized path to collect
// (empty when rejected).
func (c *FileCollector) visit(item walkItem, root string) (descend bool, file string) {
	canon, err := CanonicalizePath(item.path)
	if err != nil {
		// dangling symlink, permission error, or the entry vanished
		return false, ""
	}

	for _, ignore := range c.canonicalizedIgnore {
		if hasPathPrefix(canon, ignore) {
			return false, ""
		}
	}

	if item.isDir {
		name := strings.ToLower(filepath.Base(canon))
		ignored := (c.ignoreGitFolder && name == ".git") ||
			(c.ignoreNodeModules && name == "node_modules")
		// an explicit walk root always opts out of the name-based ignore
		if ignored && canon != root {
			return false, ""
		}
		return true, ""
	}

	if c.fileFilter == nil || c.fileFilter(item.path) {
		return false, canon
	}
	return false, ""
}

// hasPathPrefix reports whether path is prefix itself or lives beneath it.
// Matching is component-aware so /a/bc is not a child of /a/b.
func hasPathPrefix(path, prefix string) bool {
	if path == prefix {
		return true
	}
	return strings.HasPrefix(path, prefix+string(filepath.Separator))
}
