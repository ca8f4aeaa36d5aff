package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/calder/fskit/internal/fileutil"
	"github.com/calder/fskit/internal/logger"
)

// NewCollectCommand creates the collect subcommand
func NewCollectCommand() *cobra.Command {
	var (
		excludes       []string
		extensions     []string
		ignoreGit      bool
		ignoreNodeMods bool
		asURLs         bool
		watch          bool
	)

	cmd := &cobra.Command{
		Use:   "collect [paths...]",
		Short: "Recursively collect files, pruning ignored subtrees",
		Long: `Collect walks the given paths (the current directory when none are given)
and prints every file that survives the ignore rules, one per line, sorted.

Subtrees under --exclude paths are pruned without being read. Directories
named .git or node_modules are pruned by name unless listed explicitly as a
walk root.

Examples:
  # every Go file outside vendor/
  fskit collect --ext .go --exclude vendor

  # print file:// URLs instead of paths
  fskit collect src --urls

  # keep re-collecting as the tree changes
  fskit collect src --watch`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadSetup(cmd)
			if err != nil {
				return err
			}

			// config supplies defaults; explicit flags win
			if !cmd.Flags().Changed("ignore-git") {
				ignoreGit = cfg.Collect.IgnoreGit
			}
			if !cmd.Flags().Changed("ignore-node-modules") {
				ignoreNodeMods = cfg.Collect.IgnoreNodeModules
			}
			excludes = append(excludes, cfg.Collect.IgnorePaths...)
			if len(extensions) == 0 {
				extensions = cfg.Collect.Extensions
			}

			opts := collectOptions{
				roots:          args,
				excludes:       excludes,
				extensions:     extensions,
				ignoreGit:      ignoreGit,
				ignoreNodeMods: ignoreNodeMods,
				asURLs:         asURLs,
			}

			if err := runCollect(cmd, opts); err != nil {
				return err
			}
			if watch {
				return watchCollect(cmd, opts, log)
			}
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&excludes, "exclude", nil, "Paths whose subtrees are pruned (repeatable)")
	cmd.Flags().StringSliceVar(&extensions, "ext", nil, "Only collect files with these extensions")
	cmd.Flags().BoolVar(&ignoreGit, "ignore-git", true, "Prune .git directories")
	cmd.Flags().BoolVar(&ignoreNodeMods, "ignore-node-modules", true, "Prune node_modules directories")
	cmd.Flags().BoolVar(&asURLs, "urls", false, "Print file:// URLs instead of paths")
	cmd.Flags().BoolVar(&watch, "watch", false, "Re-collect and reprint whenever the tree changes")

	return cmd
}

type collectOptions struct {
	roots          []string
	excludes       []string
	extensions     []string
	ignoreGit      bool
	ignoreNodeMods bool
	asURLs         bool
}

// extensionFilter builds the file predicate for the configured extensions.
// Matching is case-insensitive; no extensions means everything is accepted.
func extensionFilter(extensions []string) func(string) bool {
	if len(extensions) == 0 {
		return func(string) bool { return true }
	}
	extMap := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		extMap[strings.ToLower(ext)] = true
	}
	return func(path string) bool {
		return extMap[strings.ToLower(filepath.Ext(path))]
	}
}

func newCollector(opts collectOptions) *fileutil.FileCollector {
	collector := fileutil.NewFileCollector(extensionFilter(opts.extensions)).
		AddIgnorePaths(opts.excludes...)
	if opts.ignoreGit {
		collector = collector.IgnoreGitFolder()
	}
	if opts.ignoreNodeMods {
		collector = collector.IgnoreNodeModules()
	}
	return collector
}

func runCollect(cmd *cobra.Command, opts collectOptions) error {
	if opts.asURLs {
		specifiers, err := fileutil.CollectSpecifiers(opts.roots, opts.excludes, extensionFilter(opts.extensions))
		if err != nil {
			return err
		}
		for _, s := range specifiers {
			fmt.Fprintln(cmd.OutOrStdout(), s)
		}
		return nil
	}

	files := newCollector(opts).CollectFiles(opts.roots...)
	sort.Strings(files)
	for _, f := range files {
		fmt.Fprintln(cmd.OutOrStdout(), f)
	}
	return nil
}

// watchDebounce batches filesystem events so a burst of changes produces a
// single re-collection.
const watchDebounce = 200 * time.Millisecond

// watchCollect re-runs the collection whenever anything under the walk roots
// changes. It blocks until the watcher fails or the process is interrupted.
func watchCollect(cmd *cobra.Command, opts collectOptions, log *logger.ConsoleLogger) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	defer watcher.Close()

	roots := opts.roots
	if len(roots) == 0 {
		roots = []string{"."}
	}
	for _, root := range roots {
		if err := watchTree(watcher, root); err != nil {
			return err
		}
	}

	var pending <-chan time.Time
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			log.Tracef("fs event: %s", event)
			if event.Op.Has(fsnotify.Create) {
				// new directories need their own watches
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := watchTree(watcher, event.Name); err != nil {
						log.Debugf("failed to watch %s: %v", event.Name, err)
					}
				}
			}
			pending = time.After(watchDebounce)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warnf("watch error: %v", err)
		case <-pending:
			pending = nil
			fmt.Fprintln(cmd.OutOrStdout())
			if err := runCollect(cmd, opts); err != nil {
				return err
			}
		}
	}
}

// watchTree registers watches for root and every directory beneath it.
func watchTree(watcher *fsnotify.Watcher, root string) error {
	canon, err := fileutil.CanonicalizePath(root)
	if err != nil {
		return nil // missing roots are skipped, matching collection
	}
	return filepath.WalkDir(canon, func(path string, d os.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		return watcher.Add(path)
	})
}
