// Package cmd implements the fskit command-line interface.
package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/calder/fskit/internal/config"
	"github.com/calder/fskit/internal/logger"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// NewRootCommand creates and returns the root cobra command for fskit
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fskit",
		Short: "Filesystem support utilities",
		Long: `fskit provides the filesystem plumbing used by larger tools: filtered
recursive file collection, directory replication by copy or hardlink, and
cross-process serialization through a lax, heartbeat-monitored file lock.`,
		Version: Version,
		// Silence usage on errors to avoid duplicate help text
		SilenceUsage: true,
	}

	cmd.PersistentFlags().String("config", ".fskit.yaml", "Path to the configuration file")
	cmd.PersistentFlags().String("log-level", "", "Log level (trace|debug|info|warn|error), overrides config")

	cmd.AddCommand(NewCollectCommand())
	cmd.AddCommand(NewMirrorCommand())
	cmd.AddCommand(NewSizeCommand())

	return cmd
}

// loadSetup resolves the configuration and logger for a subcommand from the
// root command's persistent flags.
func loadSetup(cmd *cobra.Command) (*config.Config, *logger.ConsoleLogger, error) {
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, nil, err
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, nil, err
	}

	level, err := cmd.Flags().GetString("log-level")
	if err != nil {
		return nil, nil, err
	}
	if level == "" {
		level = cfg.LogLevel
	}

	return cfg, logger.NewConsoleLogger(os.Stderr, level), nil
}
