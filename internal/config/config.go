// Package config loads and validates doclint configuration. The tool runs
// fine with no configuration file at all; every field has a working default.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultPath is the configuration file looked up when --config is not given.
const DefaultPath = "doclint.yaml"

// Config represents the application configuration
type Config struct {
	Docs      DocsConfig      `yaml:"docs"`
	Notebooks NotebooksConfig `yaml:"notebooks"`
	Linter    ToolConfig      `yaml:"linter"`
	Adapter   AdapterConfig   `yaml:"adapter"`
	Run       RunConfig       `yaml:"run"`
	History   HistoryConfig   `yaml:"history"`
	Watch     WatchConfig     `yaml:"watch"`
	Daemon    DaemonConfig    `yaml:"daemon"`
}

// DocsConfig selects the documentation tree to lint.
type DocsConfig struct {
	Root string `yaml:"root,omitempty"` // empty means auto-detect (docs, documentation, .)
}

// NotebooksConfig controls notebook discovery.
type NotebooksConfig struct {
	Enabled            bool `yaml:"enabled"`
	IncludeCheckpoints bool `yaml:"include_checkpoints"`
}

// ToolConfig describes the external style linter invocation.
type ToolConfig struct {
	Command string   `yaml:"command"`
	Args    []string `yaml:"args,omitempty"`
}

// AdapterConfig describes the notebook adapter invocation.
type AdapterConfig struct {
	Command string   `yaml:"command"`
	Linter  string   `yaml:"linter"`
	Flags   []string `yaml:"flags,omitempty"`
}

// RunConfig tunes a single lint run.
type RunConfig struct {
	KeepGoing bool   `yaml:"keep_going"`
	Timeout   string `yaml:"timeout,omitempty"` // duration string, empty or "0s" disables
}

// HistoryConfig controls the optional run-history store.
type HistoryConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path,omitempty"`
}

// WatchConfig tunes watch mode.
type WatchConfig struct {
	Debounce string `yaml:"debounce,omitempty"` // duration string (default 750ms)
}

// DaemonConfig tunes daemon mode.
type DaemonConfig struct {
	Interval string     `yaml:"interval,omitempty"` // duration string (default 1h)
	Listen   string     `yaml:"listen,omitempty"`
	History  bool       `yaml:"history"`
	NATS     NATSConfig `yaml:"nats,omitempty"`
}

// NATSConfig configures optional run-summary publishing.
type NATSConfig struct {
	URL     string `yaml:"url,omitempty"` // empty disables publishing
	Subject string `yaml:"subject,omitempty"`
}

// Default returns a configuration with every field set to its working default.
func Default() *Config {
	return &Config{
		Notebooks: NotebooksConfig{Enabled: true},
		Linter:    ToolConfig{Command: "vale", Args: []string{}},
		Adapter: AdapterConfig{
			Command: "nbqa",
			Linter:  "vale",
			Flags:   []string{"--nbqa-shell", "--nbqa-md"},
		},
		Run:     RunConfig{Timeout: "0s"},
		History: HistoryConfig{Path: filepath.Join(".doclint", "history.db")},
		Watch:   WatchConfig{Debounce: "750ms"},
		Daemon: DaemonConfig{
			Interval: "1h",
			Listen:   ":9444",
			History:  true,
			NATS:     NATSConfig{Subject: "doclint.runs"},
		},
	}
}

// Load loads configuration from the specified file. Values absent from the
// file keep their defaults.
func Load(configPath string) (*Config, error) {
	// Load .env file if it exists; absence is fine.
	loadEnvFiles()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("configuration file not found: %s", configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Expand environment variables in the YAML content
	expandedData := os.ExpandEnv(string(data))

	config := Default()
	if err := yaml.Unmarshal([]byte(expandedData), config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// LoadOrDefault behaves like Load but returns the defaults when the file
// does not exist. Used for the implicit config path, where the file is
// optional by contract.
func LoadOrDefault(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		loadEnvFiles()
		return Default(), nil
	}
	return Load(configPath)
}

// Validate checks field combinations that unmarshaling alone cannot.
func (c *Config) Validate() error {
	if c.Linter.Command == "" {
		return fmt.Errorf("linter.command must not be empty")
	}
	if c.Notebooks.Enabled {
		if c.Adapter.Command == "" {
			return fmt.Errorf("adapter.command must not be empty while notebooks are enabled")
		}
		if c.Adapter.Linter == "" {
			return fmt.Errorf("adapter.linter must not be empty while notebooks are enabled")
		}
	}
	if c.History.Enabled && c.History.Path == "" {
		return fmt.Errorf("history.path must be set when history is enabled")
	}
	for _, d := range []struct{ field, value string }{
		{"run.timeout", c.Run.Timeout},
		{"watch.debounce", c.Watch.Debounce},
		{"daemon.interval", c.Daemon.Interval},
	} {
		if d.value == "" {
			continue
		}
		v, err := time.ParseDuration(d.value)
		if err != nil {
			return fmt.Errorf("%s: invalid duration %q: %w", d.field, d.value, err)
		}
		if v < 0 {
			return fmt.Errorf("%s: must not be negative", d.field)
		}
	}
	if iv := c.Daemon.Interval; iv != "" {
		if v, err := time.ParseDuration(iv); err == nil && v == 0 {
			return fmt.Errorf("daemon.interval: must be greater than zero")
		}
	}
	return nil
}

// RunTimeout returns the per-run timeout, zero meaning none.
func (c *Config) RunTimeout() time.Duration {
	return parseDurationOr(c.Run.Timeout, 0)
}

// WatchDebounce returns the watch debounce window.
func (c *Config) WatchDebounce() time.Duration {
	return parseDurationOr(c.Watch.Debounce, 750*time.Millisecond)
}

// DaemonInterval returns the scheduled run interval.
func (c *Config) DaemonInterval() time.Duration {
	return parseDurationOr(c.Daemon.Interval, time.Hour)
}

func parseDurationOr(s string, fallback time.Duration) time.Duration {
	if s == "" {
		return fallback
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return v
}
