// Package vale invokes the external documentation style linter and the
// notebook adapter as subprocesses. Both tools are opaque collaborators:
// this package composes their invocations and relays their output, it never
// interprets their findings.
//
// Every invocation runs with the documentation root as its working
// directory and a root-relative path argument. That keeps the tools' own
// config discovery anchored at the root and their reported paths stable,
// without mutating this process's working directory.
package vale

import (
	"context"
	"io"
	"slices"
)

// Client drives the style linter over a whole documentation tree.
type Client struct {
	command string
	args    []string
}

// NewClient returns a linter client for the given command and extra
// arguments.
func NewClient(command string, args []string) *Client {
	return &Client{command: command, args: slices.Clone(args)}
}

// Command returns the configured linter binary name.
func (c *Client) Command() string { return c.command }

// LintDir lints the documentation root as a whole. The tree is handed to
// the linter as "." relative to root.
func (c *Client) LintDir(ctx context.Context, root string, relay io.Writer) (*Invocation, error) {
	args := append(slices.Clone(c.args), ".")
	return run(ctx, root, relay, c.command, args...)
}
