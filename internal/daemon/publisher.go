package daemon

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"git.home.luguber.info/inful/doclint/internal/config"
	"git.home.luguber.info/inful/doclint/internal/gitinfo"
	"git.home.luguber.info/inful/doclint/internal/logfields"
	"git.home.luguber.info/inful/doclint/internal/runner"
)

// RunEvent is the run summary published after each scheduled lint pass.
type RunEvent struct {
	ID            string    `json:"id"`
	Timestamp     time.Time `json:"timestamp"`
	DocsRoot      string    `json:"docs_root"`
	Policy        string    `json:"policy"`
	Outcome       string    `json:"outcome"`
	TargetsTotal  int       `json:"targets_total"`
	TargetsFailed int       `json:"targets_failed"`
	GitCommit     string    `json:"git_commit,omitempty"`
	GitBranch     string    `json:"git_branch,omitempty"`
}

// Publisher sends run summaries to a JetStream subject so downstream
// consumers (dashboards, notifiers) can react to documentation regressions.
type Publisher struct {
	conn    *nats.Conn
	js      jetstream.JetStream
	subject string
}

// NewPublisher connects to NATS and prepares the JetStream context.
func NewPublisher(cfg config.NATSConfig) (*Publisher, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("nats url is required")
	}

	conn, err := nats.Connect(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := jetstream.New(conn)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	slog.Info("NATS publisher initialized",
		slog.String("url", cfg.URL),
		slog.String("subject", cfg.Subject))

	return &Publisher{conn: conn, js: js, subject: cfg.Subject}, nil
}

// PublishRun publishes the summary of a completed run.
func (p *Publisher) PublishRun(res *runner.RunResult, git gitinfo.Info) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	event := RunEvent{
		ID:            res.ID,
		Timestamp:     time.Now(),
		DocsRoot:      res.DocsRoot,
		Policy:        string(res.Policy),
		Outcome:       string(res.Outcome),
		TargetsTotal:  res.TargetCount(),
		TargetsFailed: res.FailedCount(),
		GitCommit:     git.Commit,
		GitBranch:     git.Branch,
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal run event: %w", err)
	}

	if _, err := p.js.Publish(ctx, p.subject, data); err != nil {
		return fmt.Errorf("failed to publish run event: %w", err)
	}

	slog.Debug("Published run event",
		logfields.RunID(res.ID),
		logfields.Outcome(string(res.Outcome)),
		slog.String("subject", p.subject))

	return nil
}

// Close closes the NATS connection.
func (p *Publisher) Close() error {
	if p.conn != nil {
		p.conn.Close()
	}
	return nil
}
