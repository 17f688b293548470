package commands

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	derrors "git.home.luguber.info/inful/doclint/internal/errors"
	"git.home.luguber.info/inful/doclint/internal/runner"
	"git.home.luguber.info/inful/doclint/internal/targets"
	"git.home.luguber.info/inful/doclint/internal/watch"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	Path               string        `arg:"" optional:"" help:"Documentation root to watch. Defaults to intelligent detection"`
	IncludeCheckpoints bool          `help:"Also lint notebook checkpoint artifacts"`
	NoNotebooks        bool          `help:"Lint only the directory tree, skipping notebook discovery"`
	Quiet              bool          `short:"q" help:"Suppress streaming tool output, print only summaries"`
	Debounce           time.Duration `help:"Quiet period after a change before re-linting (overrides watch.debounce)"`
}

// Run lints once, then re-lints on every change until interrupted.
// Interruption is a normal exit; violations do not stop the watch.
func (w *WatchCmd) Run(_ *Global, root *CLI) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := loadConfig(root)
	if err != nil {
		return derrors.ConfigInvalid(root.Config, err)
	}

	explicit := w.Path
	if explicit == "" {
		explicit = cfg.Docs.Root
	}
	docsRoot, autoDetected, err := targets.ResolveRoot(explicit)
	if err != nil {
		return err
	}

	// Watch mode always aggregates: stopping at the first failure would
	// hide later regressions introduced while editing.
	req := runner.Request{
		DocsRoot:           docsRoot,
		Policy:             runner.PolicyKeepGoing,
		NotebooksEnabled:   cfg.Notebooks.Enabled && !w.NoNotebooks,
		IncludeCheckpoints: w.IncludeCheckpoints || cfg.Notebooks.IncludeCheckpoints,
		Timeout:            cfg.RunTimeout(),
	}
	if !w.Quiet {
		req.Relay = os.Stdout
	}

	debounce := w.Debounce
	if debounce <= 0 {
		debounce = cfg.WatchDebounce()
	}

	formatter := runner.NewFormatter("text")
	onResult := func(res *runner.RunResult) {
		_ = formatter.Format(os.Stdout, res, autoDetected)
	}

	watcher := watch.New(runner.New(cfg, nil), req, debounce, onResult)
	if err := watcher.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
