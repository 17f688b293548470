// Package runner orchestrates one documentation lint run: the style linter
// over the whole documentation root, then the notebook adapter over every
// discovered notebook, applying the configured failure policy.
//
// Runs are strictly sequential. One child process executes at a time and is
// waited upon before the next starts. Nothing retries; findings from the
// external tools are relayed, never parsed.
package runner

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/doclint/internal/config"
	"git.home.luguber.info/inful/doclint/internal/errors"
	"git.home.luguber.info/inful/doclint/internal/logfields"
	"git.home.luguber.info/inful/doclint/internal/metrics"
	"git.home.luguber.info/inful/doclint/internal/targets"
	"git.home.luguber.info/inful/doclint/internal/vale"
)

// Runner executes lint runs with a fixed tool configuration.
type Runner struct {
	linter  *vale.Client
	adapter *vale.NotebookAdapter
	rec     metrics.Recorder
}

// New builds a Runner from configuration. A nil recorder falls back to the
// no-op recorder.
func New(cfg *config.Config, rec metrics.Recorder) *Runner {
	if rec == nil {
		rec = metrics.NoopRecorder{}
	}
	return &Runner{
		linter:  vale.NewClient(cfg.Linter.Command, cfg.Linter.Args),
		adapter: vale.NewNotebookAdapter(cfg.Adapter.Command, cfg.Adapter.Linter, cfg.Adapter.Flags),
		rec:     rec,
	}
}

// Request describes one lint run. The documentation root is always explicit
// here; auto-detection happens in the command layer.
type Request struct {
	DocsRoot           string
	Policy             Policy
	NotebooksEnabled   bool
	IncludeCheckpoints bool
	// Timeout bounds the whole run; zero means none.
	Timeout time.Duration
	// Relay receives the external tools' output as it is produced. Nil
	// captures into the result only.
	Relay io.Writer
}

// Run performs one lint run. Lint findings are reported through the result,
// not the error: the error is non-nil only for infrastructure failures
// (missing tools, discovery failure, cancellation). On cancellation the
// partial result is returned alongside the context error.
func (r *Runner) Run(ctx context.Context, req Request) (*RunResult, error) {
	if req.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	res := &RunResult{
		ID:        uuid.NewString(),
		StartedAt: time.Now(),
		DocsRoot:  req.DocsRoot,
		Policy:    req.Policy,
	}

	slog.Info("Starting lint run",
		logfields.RunID(res.ID),
		logfields.DocsRoot(req.DocsRoot),
		logfields.Policy(string(req.Policy)))

	if err := vale.Probe(r.linter.Command()); err != nil {
		return nil, errors.ToolNotFound(r.linter.Command(), err)
	}

	set, err := targets.Discover(req.DocsRoot, targets.DiscoverOptions{
		NotebooksEnabled:   req.NotebooksEnabled,
		IncludeCheckpoints: req.IncludeCheckpoints,
	})
	if err != nil {
		return nil, errors.DiscoveryError(req.DocsRoot, err)
	}
	res.NotebooksDiscovered = len(set.Notebooks)
	r.rec.SetTargetsDiscovered(len(set.Notebooks) + 1)

	// The adapter is required only when there is a notebook to hand it.
	if len(set.Notebooks) > 0 {
		if err := vale.Probe(r.adapter.Command()); err != nil {
			return nil, errors.ToolNotFound(r.adapter.Command(), err)
		}
	}

	// Directory-wide lint always runs, regardless of its own status.
	inv, err := r.linter.LintDir(ctx, set.Root, req.Relay)
	if err != nil {
		return r.finishAborted(ctx, res, err, ".", targets.KindDocsDir)
	}
	r.record(res, ".", targets.KindDocsDir, inv)

	for _, nb := range set.Notebooks {
		inv, err := r.adapter.LintNotebook(ctx, set.Root, nb, req.Relay)
		if err != nil {
			return r.finishAborted(ctx, res, err, nb, targets.KindNotebook)
		}
		r.record(res, nb, targets.KindNotebook, inv)

		if inv.ExitCode != 0 && req.Policy != PolicyKeepGoing {
			slog.Info("Stopping at first failing notebook",
				logfields.RunID(res.ID),
				logfields.Target(nb))
			break
		}
	}

	res.Duration = time.Since(res.StartedAt)
	res.Outcome = OutcomePassed
	if res.FailedCount() > 0 {
		res.Outcome = OutcomeViolations
	}

	r.rec.ObserveRunDuration(res.Duration)
	r.rec.IncRunOutcome(string(res.Outcome))

	slog.Info("Lint run completed",
		logfields.RunID(res.ID),
		logfields.Outcome(string(res.Outcome)),
		slog.Int("targets", res.TargetCount()),
		slog.Int("failed", res.FailedCount()),
		logfields.DurationMS(float64(res.Duration.Milliseconds())))

	return res, nil
}

// record appends one invocation to the result and feeds the metrics hooks.
func (r *Runner) record(res *RunResult, target string, kind targets.Kind, inv *vale.Invocation) {
	tr := TargetResult{
		Target:   target,
		Kind:     kind,
		ExitCode: inv.ExitCode,
		Passed:   inv.ExitCode == 0,
		Output:   string(inv.Output),
		Duration: inv.Duration,
	}
	res.Results = append(res.Results, tr)

	label := metrics.ResultPassed
	level := slog.LevelDebug
	if !tr.Passed {
		label = metrics.ResultFailed
		level = slog.LevelWarn
	}
	r.rec.IncTargetResult(string(kind), label)
	r.rec.ObserveTargetDuration(string(kind), inv.Duration)

	slog.Log(nil, level, "Target linted",
		logfields.RunID(res.ID),
		logfields.Target(target),
		logfields.TargetKind(string(kind)),
		logfields.Tool(inv.Tool),
		logfields.ExitCode(inv.ExitCode))
}

// finishAborted classifies an invocation error. Cancellation yields the
// partial result with the canceled outcome; anything else is a tool error.
func (r *Runner) finishAborted(ctx context.Context, res *RunResult, err error, target string, kind targets.Kind) (*RunResult, error) {
	if ctx.Err() != nil {
		res.Duration = time.Since(res.StartedAt)
		res.Outcome = OutcomeCanceled
		r.rec.ObserveRunDuration(res.Duration)
		r.rec.IncRunOutcome(string(res.Outcome))
		slog.Warn("Lint run canceled",
			logfields.RunID(res.ID),
			logfields.Target(target),
			logfields.Error(ctx.Err()))
		return res, ctx.Err()
	}

	tool := r.linter.Command()
	if kind == targets.KindNotebook {
		tool = r.adapter.Command()
	}
	return nil, errors.ToolInvocationFailed(tool, target, err)
}
