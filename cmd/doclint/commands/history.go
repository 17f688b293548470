package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	derrors "git.home.luguber.info/inful/doclint/internal/errors"
	"git.home.luguber.info/inful/doclint/internal/history"
)

// HistoryCmd implements the 'history' command. Without an argument it lists
// recent runs; with a run ID (or unique prefix) it shows one run in full.
type HistoryCmd struct {
	RunID  string `arg:"" optional:"" help:"Run ID or unique prefix to show in detail"`
	Limit  int    `short:"n" default:"20" help:"Number of recent runs to list"`
	Format string `short:"f" default:"text" help:"Output format (text or json)" enum:"text,json"`
}

func (h *HistoryCmd) Run(_ *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return derrors.ConfigInvalid(root.Config, err)
	}
	if h.Limit <= 0 {
		return derrors.ValidationFailed("limit", "must be greater than zero")
	}

	store, err := history.Open(cfg.History.Path)
	if err != nil {
		return derrors.HistoryError("open store", err)
	}
	defer func() { _ = store.Close() }()

	ctx := context.Background()
	if h.RunID != "" {
		rec, err := store.Get(ctx, h.RunID)
		if err != nil {
			return derrors.HistoryError("get run", err)
		}
		return h.printRecord(os.Stdout, rec)
	}

	recs, err := store.Recent(ctx, h.Limit)
	if err != nil {
		return derrors.HistoryError("list runs", err)
	}
	return h.printList(os.Stdout, recs)
}

func (h *HistoryCmd) printList(w io.Writer, recs []history.Record) error {
	if h.Format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string][]history.Record{"runs": recs})
	}

	if len(recs) == 0 {
		_, err := fmt.Fprintln(w, "No recorded runs.")
		return err
	}

	for _, rec := range recs {
		fmt.Fprintf(w, "%s  %s  %-10s  %d/%d targets failed  %s%s\n",
			shortID(rec.ID),
			rec.StartedAt.Local().Format("2006-01-02 15:04:05"),
			rec.Outcome,
			rec.TargetsFailed,
			rec.TargetsTotal,
			rec.DocsRoot,
			gitSuffix(rec))
	}
	return nil
}

func (h *HistoryCmd) printRecord(w io.Writer, rec *history.Record) error {
	if h.Format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rec)
	}

	fmt.Fprintf(w, "Run:        %s\n", rec.ID)
	fmt.Fprintf(w, "Started:    %s\n", rec.StartedAt.Local().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "Duration:   %s\n", rec.Duration)
	fmt.Fprintf(w, "Docs root:  %s\n", rec.DocsRoot)
	if rec.GitCommit != "" {
		fmt.Fprintf(w, "Commit:     %s", rec.GitCommit)
		if rec.GitBranch != "" {
			fmt.Fprintf(w, " (%s)", rec.GitBranch)
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintf(w, "Policy:     %s\n", rec.Policy)
	fmt.Fprintf(w, "Outcome:    %s (%d/%d targets failed)\n", rec.Outcome, rec.TargetsFailed, rec.TargetsTotal)

	fmt.Fprintf(w, "\nTargets:\n")
	for _, t := range rec.Targets {
		mark := "✓"
		if !t.Passed {
			mark = "✗"
		}
		fmt.Fprintf(w, "  %s %s (%s, exit %d, %s)\n", mark, t.Target, t.Kind, t.ExitCode, t.Duration)
		if !t.Passed && t.Output != "" {
			for _, line := range strings.Split(strings.TrimRight(t.Output, "\n"), "\n") {
				fmt.Fprintf(w, "      %s\n", line)
			}
		}
	}
	return nil
}

// shortID abbreviates a run ID for the list view.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func gitSuffix(rec history.Record) string {
	if rec.GitCommit == "" {
		return ""
	}
	commit := rec.GitCommit
	if len(commit) > 8 {
		commit = commit[:8]
	}
	if rec.GitBranch != "" {
		return fmt.Sprintf("  [%s @ %s]", rec.GitBranch, commit)
	}
	return fmt.Sprintf("  [%s]", commit)
}
