// Package watch re-lints a documentation tree whenever it changes on disk.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/doclint/internal/logfields"
	"git.home.luguber.info/inful/doclint/internal/runner"
	"git.home.luguber.info/inful/doclint/internal/targets"
)

// DefaultDebounce bounds how quickly editor save bursts re-trigger a run.
const DefaultDebounce = 750 * time.Millisecond

// Watcher re-runs the linter when files under the docs root change.
// Runs never overlap; changes arriving mid-run queue at most one rerun.
type Watcher struct {
	runner   *runner.Runner
	request  runner.Request
	debounce time.Duration
	onResult func(*runner.RunResult)
}

// New creates a watcher that executes req after every change burst.
// onResult is called after each completed run and may be nil.
func New(r *runner.Runner, req runner.Request, debounce time.Duration, onResult func(*runner.RunResult)) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{runner: r, request: req, debounce: debounce, onResult: onResult}
}

// Run lints once immediately, then blocks watching for changes until ctx is
// canceled. An error from the initial run is returned as-is; errors on later
// runs are logged and watching continues.
func (w *Watcher) Run(ctx context.Context) error {
	if err := w.lintOnce(ctx); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("fsnotify: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := addDirsRecursive(watcher, w.request.DocsRoot); err != nil {
		return err
	}

	lintReq, trigger := setupDebouncer(w.debounce)

	workerCtx, cancelWorker := context.WithCancel(ctx)
	defer cancelWorker()
	done := w.startLintWorker(workerCtx, lintReq)

	slog.Info("Watching for changes",
		logfields.DocsRoot(w.request.DocsRoot),
		slog.Duration("debounce", w.debounce))

	err = w.eventLoop(ctx, watcher, trigger)
	cancelWorker()
	<-done
	return err
}

// lintOnce runs the linter and reports the result to the callback.
func (w *Watcher) lintOnce(ctx context.Context) error {
	res, err := w.runner.Run(ctx, w.request)
	if err != nil {
		return err
	}
	if w.onResult != nil {
		w.onResult(res)
	}
	return nil
}

// setupDebouncer creates the lint request channel and a trigger function
// that coalesces event bursts into a single queued request.
func setupDebouncer(debounce time.Duration) (chan struct{}, func()) {
	var mu sync.Mutex
	var timer *time.Timer
	lintReq := make(chan struct{}, 1)

	trigger := func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(debounce, func() {
			select {
			case lintReq <- struct{}{}:
			default:
			}
		})
	}

	return lintReq, trigger
}

// startLintWorker processes lint requests one at a time. The channel's
// single-slot buffer queues at most one rerun while a run is in flight.
func (w *Watcher) startLintWorker(ctx context.Context, lintReq <-chan struct{}) <-chan struct{} {
	done := make(chan struct{})

	go func() {
		defer close(done)
		for {
			select {
			case <-ctx.Done():
				return
			case <-lintReq:
				slog.Info("Change detected; re-linting", logfields.DocsRoot(w.request.DocsRoot))
				if err := w.lintOnce(ctx); err != nil {
					slog.Error("Lint run failed", logfields.Error(err))
				}
			}
		}
	}()

	return done
}

// eventLoop dispatches filesystem events until ctx is canceled.
func (w *Watcher) eventLoop(ctx context.Context, watcher *fsnotify.Watcher, trigger func()) error {
	for {
		select {
		case <-ctx.Done():
			slog.Info("Stopping watch")
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			handleFileEvent(watcher, ev, trigger)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("Watcher error", logfields.Error(err))
		}
	}
}

// handleFileEvent processes a filesystem event and triggers a run if needed.
func handleFileEvent(watcher *fsnotify.Watcher, ev fsnotify.Event, trigger func()) {
	if shouldIgnoreEvent(ev.Name) {
		return
	}
	if ev.Op&fsnotify.Create == fsnotify.Create {
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			_ = addDirsRecursive(watcher, ev.Name)
		}
	}
	slog.Debug("File change detected", logfields.Path(ev.Name), slog.String("op", ev.Op.String()))
	trigger()
}

// addDirsRecursive watches root and every non-hidden directory below it.
// Hidden directories are skipped; .git and checkpoint churn would otherwise
// re-trigger runs on every save of unrelated state.
func addDirsRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if err := w.Add(path); err != nil {
			slog.Warn("Watch add failed", logfields.Path(path), logfields.Error(err))
		}
		return nil
	})
}

// shouldIgnoreEvent returns true for filesystem events that should not
// trigger a lint run.
func shouldIgnoreEvent(path string) bool {
	if targets.IsCheckpointArtifact(path) {
		return true
	}

	base := filepath.Base(path)

	// Hidden files
	if strings.HasPrefix(base, ".") {
		return true
	}

	// Editor temp/swap files
	if strings.HasSuffix(base, "~") ||
		strings.HasSuffix(base, ".swp") ||
		strings.HasSuffix(base, ".swx") ||
		strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#") {
		return true
	}

	if base == "Thumbs.db" {
		return true
	}

	return false
}
