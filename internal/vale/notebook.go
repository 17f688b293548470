package vale

import (
	"context"
	"io"
	"slices"
)

// NotebookAdapter drives the style linter through a notebook-aware wrapper,
// one notebook file at a time. The default invocation shape is
//
//	nbqa vale <notebook> --nbqa-shell --nbqa-md
//
// where the wrapper extracts markdown cells and hands them to the linter.
type NotebookAdapter struct {
	command string
	linter  string
	flags   []string
}

// NewNotebookAdapter returns an adapter invoking command with the given
// linter argument and mode flags.
func NewNotebookAdapter(command, linter string, flags []string) *NotebookAdapter {
	return &NotebookAdapter{command: command, linter: linter, flags: slices.Clone(flags)}
}

// Command returns the configured adapter binary name.
func (a *NotebookAdapter) Command() string { return a.command }

// LintNotebook lints a single notebook, given by its root-relative path.
func (a *NotebookAdapter) LintNotebook(ctx context.Context, root, notebook string, relay io.Writer) (*Invocation, error) {
	args := append([]string{a.linter, notebook}, a.flags...)
	return run(ctx, root, relay, a.command, args...)
}
