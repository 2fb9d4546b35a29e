// Package config provides configuration parsing for resmon.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"gitlab.com/tinyland/lab/resmon/collectors"
)

// ArchiveSubdir is the archive location relative to the agent disk directory.
var ArchiveSubdir = filepath.Join("messages", "archive")

// Config represents the resmon daemon configuration.
type Config struct {
	// Daemon holds daemon-level settings.
	Daemon DaemonConfig `yaml:"daemon"`

	// Agent holds settings shared with the host agent.
	Agent AgentConfig `yaml:"agent"`

	// Limits holds the resource limits in configuration units.
	Limits LimitsConfig `yaml:"limits"`
}

// DaemonConfig holds daemon-level settings.
type DaemonConfig struct {
	// PollInterval is a duration string (e.g. "30s", "5m") between sampling cycles.
	PollInterval string `yaml:"poll_interval"`
	// CacheDir is the directory for the published snapshot and health file.
	CacheDir string `yaml:"cache_dir"`
	// LogFile is the path for daemon log output. Empty means stderr.
	LogFile string `yaml:"log_file"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
}

// AgentConfig holds host agent settings.
type AgentConfig struct {
	// DiskDirectory is the agent's working directory. The message archive,
	// whose size is the disk usage reading, lives beneath it.
	DiskDirectory string `yaml:"disk_directory"`
}

// LimitsConfig holds limits as written by operators.
type LimitsConfig struct {
	// DiskLimitGB is the disk budget in gigabytes (1e9 bytes).
	DiskLimitGB float64 `yaml:"disk_limit_gb"`
	// CPULimitPercent is the process CPU budget in percent of total CPU time.
	CPULimitPercent float64 `yaml:"cpu_limit_percent"`
	// MemoryLimitMB is the memory budget in megabytes (1e6 bytes).
	MemoryLimitMB float64 `yaml:"memory_limit_mb"`
}

// DefaultConfig returns a Config populated with sensible defaults.
func DefaultConfig() *Config {
	home, _ := os.UserHomeDir()

	return &Config{
		Daemon: DaemonConfig{
			PollInterval: "30s",
			CacheDir:     filepath.Join(home, ".cache", "resmon"),
			LogFile:      "",
			LogLevel:     "info",
		},
		Agent: AgentConfig{
			DiskDirectory: "/var/lib/iofog/",
		},
		Limits: LimitsConfig{
			DiskLimitGB:     50,
			CPULimitPercent: 80,
			MemoryLimitMB:   4096,
		},
	}
}

// LoadConfig loads configuration from a YAML file, merging with defaults.
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()

	if path == "" {
		return config, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return config, nil
}

// Validate checks the configuration for required fields and logical consistency.
func (c *Config) Validate() error {
	// Daemon validation
	if c.Daemon.PollInterval == "" {
		return fmt.Errorf("daemon.poll_interval is required")
	}
	d, err := time.ParseDuration(c.Daemon.PollInterval)
	if err != nil {
		return fmt.Errorf("daemon.poll_interval: %w", err)
	}
	if d <= 0 {
		return fmt.Errorf("daemon.poll_interval must be positive, got %s", d)
	}
	if c.Daemon.CacheDir == "" {
		return fmt.Errorf("daemon.cache_dir is required")
	}
	if _, err := parseLevel(c.Daemon.LogLevel); err != nil {
		return err
	}

	// Agent validation
	if c.Agent.DiskDirectory == "" {
		return fmt.Errorf("agent.disk_directory is required")
	}

	// Limits validation
	if c.Limits.DiskLimitGB < 0 {
		return fmt.Errorf("limits.disk_limit_gb must be non-negative, got %g", c.Limits.DiskLimitGB)
	}
	if c.Limits.CPULimitPercent < 0 {
		return fmt.Errorf("limits.cpu_limit_percent must be non-negative, got %g", c.Limits.CPULimitPercent)
	}
	if c.Limits.MemoryLimitMB < 0 {
		return fmt.Errorf("limits.memory_limit_mb must be non-negative, got %g", c.Limits.MemoryLimitMB)
	}

	return nil
}

// Interval returns the parsed poll interval. Call Validate first; an
// unparseable value yields zero.
func (c *Config) Interval() time.Duration {
	d, _ := time.ParseDuration(c.Daemon.PollInterval)
	return d
}

// LimitSet converts the configured limits to bytes and percent.
func (c *Config) LimitSet() collectors.LimitSet {
	return collectors.LimitSet{
		DiskLimitBytes:   c.Limits.DiskLimitGB * collectors.BytesPerGB,
		CPULimitPercent:  c.Limits.CPULimitPercent,
		MemoryLimitBytes: c.Limits.MemoryLimitMB * collectors.BytesPerMB,
	}
}

// ArchiveDir returns the directory holding archived message pairs.
func (c *Config) ArchiveDir() string {
	return filepath.Join(c.Agent.DiskDirectory, ArchiveSubdir)
}

// Level returns the configured log level, defaulting to info.
func (c *Config) Level() slog.Level {
	l, _ := parseLevel(c.Daemon.LogLevel)
	return l
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("daemon.log_level must be debug, info, warn or error, got %q", s)
	}
}

// SaveConfig saves configuration to a YAML file.
func SaveConfig(config *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
