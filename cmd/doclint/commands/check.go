package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"git.home.luguber.info/inful/doclint/internal/config"
	derrors "git.home.luguber.info/inful/doclint/internal/errors"
	"git.home.luguber.info/inful/doclint/internal/gitinfo"
	"git.home.luguber.info/inful/doclint/internal/history"
	"git.home.luguber.info/inful/doclint/internal/runner"
	"git.home.luguber.info/inful/doclint/internal/targets"
)

// CheckCmd implements the 'check' command.
type CheckCmd struct {
	Path               string        `arg:"" optional:"" help:"Documentation root to lint. Defaults to intelligent detection (docs/, documentation/, or .)"`
	KeepGoing          bool          `short:"k" help:"Lint every target and aggregate failures instead of stopping at the first failing notebook"`
	IncludeCheckpoints bool          `help:"Also lint notebook checkpoint artifacts"`
	NoNotebooks        bool          `help:"Lint only the directory tree, skipping notebook discovery"`
	Format             string        `short:"f" default:"text" help:"Output format (text or json)" enum:"text,json"`
	Quiet              bool          `short:"q" help:"Suppress streaming tool output, print only the summary"`
	Timeout            time.Duration `help:"Abort the run after this duration (overrides run.timeout)"`
	Record             bool          `help:"Record the run in the history store"`
}

// Run executes the check command. Lint violations terminate the process
// with a dedicated exit code; they are results, not errors.
func (c *CheckCmd) Run(_ *Global, root *CLI) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	outcome, err := c.run(ctx, root, os.Stdout)
	if err != nil {
		return err
	}

	switch outcome {
	case runner.OutcomePassed:
		return nil
	case runner.OutcomeCanceled:
		os.Exit(derrors.ExitRuntime)
	default:
		os.Exit(derrors.ExitViolations)
	}
	return nil
}

// run executes the lint pass and writes the formatted result to w.
func (c *CheckCmd) run(ctx context.Context, root *CLI, w io.Writer) (runner.Outcome, error) {
	cfg, err := loadConfig(root)
	if err != nil {
		return "", derrors.ConfigInvalid(root.Config, err)
	}

	docsRoot, autoDetected, err := c.resolveRoot(cfg)
	if err != nil {
		return "", err
	}

	req := runner.Request{
		DocsRoot:           docsRoot,
		Policy:             runner.PolicyFor(c.KeepGoing || cfg.Run.KeepGoing),
		NotebooksEnabled:   cfg.Notebooks.Enabled && !c.NoNotebooks,
		IncludeCheckpoints: c.IncludeCheckpoints || cfg.Notebooks.IncludeCheckpoints,
		Timeout:            c.effectiveTimeout(cfg),
	}
	// Tool output streams live in text mode only; JSON output must stay
	// parseable.
	if c.Format == "text" && !c.Quiet {
		req.Relay = w
	}

	res, runErr := runner.New(cfg, nil).Run(ctx, req)
	if runErr != nil {
		// A canceled run still carries its partial results.
		if res == nil || res.Outcome != runner.OutcomeCanceled {
			return "", runErr
		}
	}

	formatter := runner.NewFormatter(c.Format)
	if err := formatter.Format(w, res, autoDetected); err != nil {
		return "", fmt.Errorf("formatting output: %w", err)
	}

	if c.Record || cfg.History.Enabled {
		if err := c.record(ctx, cfg, res); err != nil {
			return "", err
		}
	}

	return res.Outcome, nil
}

// resolveRoot picks the docs root: positional argument, configuration, or
// auto-detection, in that order.
func (c *CheckCmd) resolveRoot(cfg *config.Config) (string, bool, error) {
	explicit := c.Path
	if explicit == "" {
		explicit = cfg.Docs.Root
	}
	return targets.ResolveRoot(explicit)
}

// effectiveTimeout prefers the flag over the configured run timeout.
func (c *CheckCmd) effectiveTimeout(cfg *config.Config) time.Duration {
	if c.Timeout > 0 {
		return c.Timeout
	}
	return cfg.RunTimeout()
}

// record stores the completed run.
func (c *CheckCmd) record(ctx context.Context, cfg *config.Config, res *runner.RunResult) error {
	store, err := history.Open(cfg.History.Path)
	if err != nil {
		return derrors.HistoryError("open store", err)
	}
	defer func() { _ = store.Close() }()

	git, _ := gitinfo.Lookup(res.DocsRoot)
	if err := store.Record(ctx, res, history.GitInfo{Commit: git.Commit, Branch: git.Branch}); err != nil {
		return derrors.HistoryError("record run", err)
	}

	return nil
}
