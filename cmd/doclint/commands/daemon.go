package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"git.home.luguber.info/inful/doclint/internal/config"
	"git.home.luguber.info/inful/doclint/internal/daemon"
	derrors "git.home.luguber.info/inful/doclint/internal/errors"
)

// DaemonCmd implements the 'daemon' command.
type DaemonCmd struct {
	Listen   string        `help:"HTTP listen address (overrides daemon.listen)"`
	Interval time.Duration `help:"Interval between scheduled lint runs (overrides daemon.interval)"`
}

func (d *DaemonCmd) Run(_ *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return derrors.ConfigInvalid(root.Config, err)
	}
	if d.Listen != "" {
		cfg.Daemon.Listen = d.Listen
	}
	if d.Interval > 0 {
		cfg.Daemon.Interval = d.Interval.String()
	}
	return RunDaemon(cfg)
}

// RunDaemon runs the daemon until a shutdown signal arrives.
func RunDaemon(cfg *config.Config) error {
	slog.Info("Starting daemon mode",
		"listen", cfg.Daemon.Listen,
		"interval", cfg.DaemonInterval().String())

	// Create main context for the daemon
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	d, err := daemon.New(cfg)
	if err != nil {
		return derrors.DaemonError("failed to create daemon", err)
	}

	// Start daemon in a goroutine
	errChan := make(chan error, 1)
	go func() {
		errChan <- d.Start(ctx)
	}()

	slog.Info("Daemon started, waiting for shutdown signal...")

	// Wait for either error or shutdown signal
	select {
	case err := <-errChan:
		if err != nil {
			return derrors.DaemonError("daemon error", err)
		}
	case <-ctx.Done():
		slog.Info("Shutdown signal received, stopping daemon...")
	}

	// Stop daemon gracefully
	stopCtx, stopCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer stopCancel()

	if err := d.Stop(stopCtx); err != nil {
		return fmt.Errorf("failed to stop daemon: %w", err)
	}

	slog.Info("Daemon stopped successfully")
	return nil
}
