package runner

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Formatter renders a run summary. The external tools' own output is not
// part of the summary; in text mode it streams during the run, in JSON mode
// it is embedded per target.
type Formatter interface {
	Format(w io.Writer, res *RunResult, wasAutoDetected bool) error
}

// TextFormatter renders a human-readable summary.
type TextFormatter struct{}

// NewTextFormatter creates a text formatter.
func NewTextFormatter() *TextFormatter {
	return &TextFormatter{}
}

// Format outputs the run summary in human-readable text format.
func (f *TextFormatter) Format(w io.Writer, res *RunResult, wasAutoDetected bool) error {
	if _, err := fmt.Fprintln(w, strings.Repeat("━", 60)); err != nil {
		return err
	}
	if wasAutoDetected {
		if _, err := fmt.Fprintf(w, "Detected documentation directory: %s\n", res.DocsRoot); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintf(w, "Results:\n"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "  %d notebook%s discovered\n", res.NotebooksDiscovered, pluralize(res.NotebooksDiscovered)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "  %d target%s linted\n", res.TargetCount(), pluralize(res.TargetCount())); err != nil {
		return err
	}

	for _, tr := range res.Results {
		if tr.Passed {
			continue
		}
		if _, err := fmt.Fprintf(w, "  ✗ %s (%s, exit %d)\n", tr.Target, tr.Kind, tr.ExitCode); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}
	return f.printFinalMessage(w, res)
}

// printFinalMessage prints the appropriate final message based on the outcome.
func (f *TextFormatter) printFinalMessage(w io.Writer, res *RunResult) error {
	switch res.Outcome {
	case OutcomeCanceled:
		_, err := fmt.Fprintln(w, "⚠️  Lint run canceled before completion.")
		return err
	case OutcomeViolations:
		failed := res.FailedCount()
		if res.Policy == PolicyFailFast && res.NotebooksDiscovered+1 > res.TargetCount() {
			_, err := fmt.Fprintf(w, "❌ Documentation has style violations (%d target%s failed, stopped early).\n", failed, pluralize(failed))
			return err
		}
		_, err := fmt.Fprintf(w, "❌ Documentation has style violations (%d target%s failed).\n", failed, pluralize(failed))
		return err
	default:
		_, err := fmt.Fprintln(w, "✨ All documentation passes linting!")
		return err
	}
}

// JSONFormatter renders the full run record as JSON.
type JSONFormatter struct{}

// NewJSONFormatter creates a JSON formatter.
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// JSONOutput represents the JSON output structure.
type JSONOutput struct {
	*RunResult
	WasAutoDetected bool `json:"was_auto_detected"`
	TargetsTotal    int  `json:"targets_total"`
	TargetsFailed   int  `json:"targets_failed"`
}

// Format outputs the run record in JSON format.
func (f *JSONFormatter) Format(w io.Writer, res *RunResult, wasAutoDetected bool) error {
	output := JSONOutput{
		RunResult:       res,
		WasAutoDetected: wasAutoDetected,
		TargetsTotal:    res.TargetCount(),
		TargetsFailed:   res.FailedCount(),
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}

// NewFormatter creates the appropriate formatter based on format string.
func NewFormatter(format string) Formatter {
	switch format {
	case "json":
		return NewJSONFormatter()
	default:
		return NewTextFormatter()
	}
}

// pluralize returns "s" if count != 1, otherwise empty string.
func pluralize(count int) string {
	if count == 1 {
		return ""
	}
	return "s"
}
