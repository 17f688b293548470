// Package daemon runs scheduled lint passes over a documentation tree and
// serves health, metrics, and run history over HTTP.
package daemon

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/doclint/internal/config"
	"git.home.luguber.info/inful/doclint/internal/gitinfo"
	"git.home.luguber.info/inful/doclint/internal/history"
	"git.home.luguber.info/inful/doclint/internal/logfields"
	"git.home.luguber.info/inful/doclint/internal/metrics"
	"git.home.luguber.info/inful/doclint/internal/runner"
	"git.home.luguber.info/inful/doclint/internal/targets"
)

// Daemon periodically lints the configured docs tree. Each completed run is
// recorded to history and published to NATS when those are configured.
type Daemon struct {
	cfg        *config.Config
	runner     *runner.Runner
	store      *history.Store
	publisher  *Publisher
	scheduler  *Scheduler
	httpServer *HTTPServer
	registry   *prom.Registry

	docsRoot  string
	startTime time.Time

	mu       sync.RWMutex
	lastRun  *runner.RunResult
	lastErr  error
	runCount int
}

// New wires up a daemon from configuration. The docs root is resolved once
// at startup; a root that disappears later surfaces as failed runs.
func New(cfg *config.Config) (*Daemon, error) {
	root, autoDetected, err := targets.ResolveRoot(cfg.Docs.Root)
	if err != nil {
		return nil, err
	}
	if autoDetected {
		slog.Info("Detected documentation directory", logfields.DocsRoot(root))
	}

	registry := prom.NewRegistry()
	rec := metrics.NewPrometheusRecorder(registry)

	d := &Daemon{
		cfg:       cfg,
		runner:    runner.New(cfg, rec),
		registry:  registry,
		docsRoot:  root,
		startTime: time.Now(),
	}

	if cfg.Daemon.History {
		store, err := history.Open(cfg.History.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to open history store: %w", err)
		}
		d.store = store
	}

	if cfg.Daemon.NATS.URL != "" {
		publisher, err := NewPublisher(cfg.Daemon.NATS)
		if err != nil {
			d.closeStores()
			return nil, err
		}
		d.publisher = publisher
	}

	scheduler, err := NewScheduler()
	if err != nil {
		d.closeStores()
		return nil, err
	}
	d.scheduler = scheduler
	d.httpServer = NewHTTPServer(cfg.Daemon.Listen, d)

	return d, nil
}

// Start launches the HTTP server and the periodic lint job, then blocks
// until ctx is canceled.
func (d *Daemon) Start(ctx context.Context) error {
	if err := d.httpServer.Start(ctx); err != nil {
		return err
	}

	interval := d.cfg.DaemonInterval()
	if _, err := d.scheduler.ScheduleEvery("periodic-lint", interval, func() {
		d.runOnce(ctx)
	}); err != nil {
		return err
	}
	d.scheduler.Start()

	slog.Info("Daemon started",
		logfields.DocsRoot(d.docsRoot),
		slog.Duration("interval", interval),
		slog.String("listen", d.cfg.Daemon.Listen))

	<-ctx.Done()
	return nil
}

// Stop shuts down the scheduler, HTTP server, and connections gracefully.
func (d *Daemon) Stop(ctx context.Context) error {
	var errs []error

	if err := d.scheduler.Stop(); err != nil {
		errs = append(errs, fmt.Errorf("scheduler shutdown: %w", err))
	}
	if err := d.httpServer.Stop(ctx); err != nil {
		errs = append(errs, fmt.Errorf("http server shutdown: %w", err))
	}
	if d.publisher != nil {
		if err := d.publisher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("publisher close: %w", err))
		}
	}
	if d.store != nil {
		if err := d.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("history close: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("shutdown errors: %v", errs)
	}

	slog.Info("Daemon stopped")
	return nil
}

// runOnce executes one scheduled lint pass and fans the result out to
// history and the publisher. Violations are a normal outcome here; only an
// execution failure marks the daemon degraded.
func (d *Daemon) runOnce(ctx context.Context) {
	req := runner.Request{
		DocsRoot:           d.docsRoot,
		Policy:             runner.PolicyFor(d.cfg.Run.KeepGoing),
		NotebooksEnabled:   d.cfg.Notebooks.Enabled,
		IncludeCheckpoints: d.cfg.Notebooks.IncludeCheckpoints,
		Timeout:            d.cfg.RunTimeout(),
	}

	res, err := d.runner.Run(ctx, req)

	d.mu.Lock()
	d.lastRun = res
	d.lastErr = err
	d.runCount++
	d.mu.Unlock()

	if err != nil {
		slog.Error("Scheduled lint run failed", logfields.Error(err))
		return
	}

	git, _ := gitinfo.Lookup(d.docsRoot)

	if d.store != nil {
		if err := d.store.Record(ctx, res, history.GitInfo{Commit: git.Commit, Branch: git.Branch}); err != nil {
			slog.Warn("Failed to record run history", logfields.RunID(res.ID), logfields.Error(err))
		}
	}

	if d.publisher != nil {
		if err := d.publisher.PublishRun(res, git); err != nil {
			slog.Warn("Failed to publish run event", logfields.RunID(res.ID), logfields.Error(err))
		}
	}
}

// LastRun returns the most recent run result and its execution error.
func (d *Daemon) LastRun() (*runner.RunResult, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.lastRun, d.lastErr
}

// RunCount returns how many scheduled passes have completed.
func (d *Daemon) RunCount() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.runCount
}

func (d *Daemon) closeStores() {
	if d.store != nil {
		_ = d.store.Close()
	}
}
