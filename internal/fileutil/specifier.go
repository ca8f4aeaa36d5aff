package fileutil

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// CollectSpecifiers resolves the include entries into addressable specifiers
// (file:// URLs for local paths), recursively collecting directory contents
// that satisfy the predicate. Entries starting with http:// or https:// are
// left intact. Directories listed in exclude are pruned, and .git and
// node_modules folders are always ignored.
//
// Files collected from a directory are sorted; the relative order of the
// include entries themselves is preserved.
func CollectSpecifiers(include, exclude []string, predicate func(path string) bool) ([]string, error) {
	collector := NewFileCollector(predicate).
		AddIgnorePaths(exclude...).
		IgnoreGitFolder().
		IgnoreNodeModules()

	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get current working directory: %w", err)
	}
	if len(include) == 0 {
		include = []string{cwd}
	}

	var specifiers []string
	for _, entry := range include {
		lower := strings.ToLower(entry)
		if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
			u, err := url.Parse(entry)
			if err != nil {
				return nil, fmt.Errorf("invalid specifier %q: %w", entry, err)
			}
			specifiers = append(specifiers, u.String())
			continue
		}

		var path string
		switch {
		case strings.HasPrefix(lower, "file://"):
			u, err := url.Parse(entry)
			if err != nil {
				return nil, fmt.Errorf("invalid specifier %q: %w", entry, err)
			}
			path = u.Path
		case filepath.IsAbs(entry):
			path = filepath.Clean(entry)
		default:
			path = filepath.Join(cwd, entry)
		}

		info, err := os.Stat(path)
		if err == nil && info.IsDir() {
			files := collector.CollectFiles(path)
			urls := make([]string, 0, len(files))
			for _, f := range files {
				urls = append(urls, fileURL(f))
			}
			sort.Strings(urls)
			specifiers = append(specifiers, urls...)
			continue
		}
		specifiers = append(specifiers, fileURL(path))
	}

	return specifiers, nil
}

// fileURL converts an absolute path into a file:// URL.
func fileURL(path string) string {
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(path)}
	return u.String()
}
