package vale

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"time"
)

// Invocation is the outcome of one external tool invocation. A non-zero
// ExitCode reports lint findings; infrastructure failures (missing binary,
// abnormal termination, cancellation) surface as errors instead.
type Invocation struct {
	Tool     string
	Args     []string
	ExitCode int
	Output   []byte
	Duration time.Duration
}

// Probe verifies the binary is reachable on PATH.
func Probe(command string) error {
	_, err := exec.LookPath(command)
	return err
}

// run executes the tool with its working directory set to dir. Stdout and
// stderr are interleaved, captured into the Invocation, and mirrored to
// relay when non-nil. The tool's own output is relayed verbatim, never
// parsed.
func run(ctx context.Context, dir string, relay io.Writer, name string, args ...string) (*Invocation, error) {
	var buf bytes.Buffer
	out := io.Writer(&buf)
	if relay != nil {
		out = io.MultiWriter(&buf, relay)
	}

	// #nosec G204 -- invoking the configured lint tool with controlled args
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Stdout = out
	cmd.Stderr = out

	start := time.Now()
	err := cmd.Run()
	inv := &Invocation{
		Tool:     name,
		Args:     args,
		Output:   buf.Bytes(),
		Duration: time.Since(start),
	}

	if err != nil {
		var ee *exec.ExitError
		if errors.As(err, &ee) {
			if ctx.Err() != nil {
				return inv, ctx.Err()
			}
			if code := ee.ExitCode(); code >= 0 {
				inv.ExitCode = code
				return inv, nil
			}
			return inv, fmt.Errorf("%s terminated abnormally: %w", name, err)
		}
		return inv, fmt.Errorf("%s invocation failed: %w", name, err)
	}

	return inv, nil
}
