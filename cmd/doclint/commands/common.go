// Package commands defines the doclint CLI surface.
package commands

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/doclint/internal/config"
)

// Global context passed to subcommands if we need to share global state later.
type Global struct {
	Logger *slog.Logger
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"doclint.yaml"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Check    CheckCmd    `cmd:"" default:"withargs" help:"Lint the documentation tree and every notebook in it"`
	Discover DiscoverCmd `cmd:"" help:"List lint targets without running any tools"`
	Watch    WatchCmd    `cmd:"" help:"Re-lint the documentation tree whenever it changes"`
	Daemon   DaemonCmd   `cmd:"" help:"Run scheduled lint passes and serve status over HTTP"`
	History  HistoryCmd  `cmd:"" help:"Show recorded lint runs"`
	Init     InitCmd     `cmd:"" help:"Write an example configuration file"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}

// loadConfig loads the configuration named by the global flag. The default
// path is optional by contract; a non-default path must exist.
func loadConfig(root *CLI) (*config.Config, error) {
	if root.Config != config.DefaultPath {
		return config.Load(root.Config)
	}
	return config.LoadOrDefault(root.Config)
}
