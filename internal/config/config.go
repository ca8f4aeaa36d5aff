// Package config loads fskit configuration from YAML files.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// LockConfig tunes the lax lock coordinator.
type LockConfig struct {
	// HeartbeatInterval is how often a holder refreshes the liveness file.
	HeartbeatInterval time.Duration `yaml:"heartbeat_interval"`

	// RetryInterval is the sleep between failed acquisition attempts.
	RetryInterval time.Duration `yaml:"retry_interval"`

	// StaleAfter is the heartbeat age beyond which a holder is presumed
	// dead. Zero derives it from the heartbeat interval.
	StaleAfter time.Duration `yaml:"stale_after"`

	// TransientBudget bounds consecutive heartbeat read failures before a
	// waiter proceeds without the lock.
	TransientBudget int `yaml:"transient_budget"`

	// NoticeAfter is the quiet period before the long-wait notice.
	NoticeAfter time.Duration `yaml:"notice_after"`
}

// CollectConfig sets collection defaults applied before command-line flags.
type CollectConfig struct {
	// IgnorePaths are pruned from every walk.
	IgnorePaths []string `yaml:"ignore_paths"`

	// IgnoreGit prunes .git directories.
	IgnoreGit bool `yaml:"ignore_git"`

	// IgnoreNodeModules prunes node_modules directories.
	IgnoreNodeModules bool `yaml:"ignore_node_modules"`

	// Extensions restricts collection to the listed file extensions
	// (case-insensitive). Empty means all files.
	Extensions []string `yaml:"extensions"`
}

// Config represents fskit configuration options.
type Config struct {
	// LogLevel sets the logging verbosity (trace, debug, info, warn, error)
	LogLevel string `yaml:"log_level"`

	// Lock contains lax lock tuning
	Lock LockConfig `yaml:"lock"`

	// Collect contains file collection defaults
	Collect CollectConfig `yaml:"collect"`
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() *Config {
	return &Config{
		LogLevel: "info",
		Lock: LockConfig{
			HeartbeatInterval: 100 * time.Millisecond,
			RetryInterval:     20 * time.Millisecond,
			TransientBudget:   10,
			NoticeAfter:       1 * time.Second,
		},
		Collect: CollectConfig{
			IgnoreGit:         true,
			IgnoreNodeModules: true,
		},
	}
}

// LoadConfig loads configuration from the specified file path.
// If the file doesn't exist, returns default configuration without error.
// If the file exists but is malformed, returns an error.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// durations arrive as strings ("100ms", "1s"), so unmarshal through a
	// shadow struct and parse them explicitly
	type yamlLock struct {
		HeartbeatInterval string `yaml:"heartbeat_interval"`
		RetryInterval     string `yaml:"retry_interval"`
		StaleAfter        string `yaml:"stale_after"`
		TransientBudget   *int   `yaml:"transient_budget"`
		NoticeAfter       string `yaml:"notice_after"`
	}
	type yamlConfig struct {
		LogLevel string         `yaml:"log_level"`
		Lock     yamlLock       `yaml:"lock"`
		Collect  *CollectConfig `yaml:"collect"`
	}

	var yamlCfg yamlConfig
	if err := yaml.Unmarshal(data, &yamlCfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if yamlCfg.LogLevel != "" {
		cfg.LogLevel = yamlCfg.LogLevel
	}
	if yamlCfg.Collect != nil {
		cfg.Collect = *yamlCfg.Collect
	}
	if yamlCfg.Lock.TransientBudget != nil {
		cfg.Lock.TransientBudget = *yamlCfg.Lock.TransientBudget
	}

	durations := []struct {
		raw   string
		field string
		dst   *time.Duration
	}{
		{yamlCfg.Lock.HeartbeatInterval, "lock.heartbeat_interval", &cfg.Lock.HeartbeatInterval},
		{yamlCfg.Lock.RetryInterval, "lock.retry_interval", &cfg.Lock.RetryInterval},
		{yamlCfg.Lock.StaleAfter, "lock.stale_after", &cfg.Lock.StaleAfter},
		{yamlCfg.Lock.NoticeAfter, "lock.notice_after", &cfg.Lock.NoticeAfter},
	}
	for _, d := range durations {
		if d.raw == "" {
			continue
		}
		parsed, err := time.ParseDuration(d.raw)
		if err != nil {
			return nil, fmt.Errorf("invalid duration for %s: %w", d.field, err)
		}
		*d.dst = parsed
	}

	return cfg, nil
}
