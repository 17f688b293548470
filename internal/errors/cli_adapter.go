package errors

import (
	"fmt"
	"log/slog"
	"os"
)

// Exit codes reported by the CLI. Lint violations are not errors and exit
// with ExitViolations directly from the command layer.
const (
	ExitOK         = 0
	ExitViolations = 1
	ExitUsage      = 2
	ExitConfig     = 7
	ExitTool       = 8
	ExitInternal   = 10
	ExitRuntime    = 12
)

// CLIErrorAdapter handles error presentation and exit code determination for CLI applications.
type CLIErrorAdapter struct {
	verbose bool
	logger  *slog.Logger
}

// NewCLIErrorAdapter creates a new CLI error adapter.
func NewCLIErrorAdapter(verbose bool, logger *slog.Logger) *CLIErrorAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CLIErrorAdapter{
		verbose: verbose,
		logger:  logger,
	}
}

// ExitCodeFor determines the appropriate exit code for an error.
func (a *CLIErrorAdapter) ExitCodeFor(err error) int {
	if err == nil {
		return ExitOK
	}

	if dle, ok := err.(*DocLintError); ok {
		return a.exitCodeFromDocLint(dle)
	}

	return 1
}

// exitCodeFromDocLint maps DocLintError to exit codes.
func (a *CLIErrorAdapter) exitCodeFromDocLint(err *DocLintError) int {
	switch err.Category {
	case CategoryValidation:
		return ExitUsage
	case CategoryConfig:
		return ExitConfig
	case CategoryTool:
		return ExitTool
	case CategoryFileSystem, CategoryHistory:
		return ExitRuntime
	case CategoryDaemon, CategoryRuntime:
		return ExitRuntime
	case CategoryInternal:
		return ExitInternal
	default:
		return 1
	}
}

// FormatError formats an error for user-friendly display.
func (a *CLIErrorAdapter) FormatError(err error) string {
	if err == nil {
		return ""
	}

	if dle, ok := err.(*DocLintError); ok {
		return a.formatDocLint(dle)
	}

	return fmt.Sprintf("Error: %v", err)
}

// formatDocLint formats a DocLintError for display.
func (a *CLIErrorAdapter) formatDocLint(err *DocLintError) string {
	if a.verbose {
		return err.Error()
	}

	switch err.Category {
	case CategoryConfig, CategoryValidation:
		return err.Message
	default:
		return fmt.Sprintf("%s: %s", err.Category, err.Message)
	}
}

// HandleError processes an error and exits the program with appropriate code.
func (a *CLIErrorAdapter) HandleError(err error) {
	if err == nil {
		return
	}

	exitCode := a.ExitCodeFor(err)
	message := a.FormatError(err)

	if a.shouldLog(err) {
		a.logError(err)
	}

	fmt.Fprintf(os.Stderr, "%s\n", message)
	os.Exit(exitCode)
}

// shouldLog determines if an error should be logged.
func (a *CLIErrorAdapter) shouldLog(err error) bool {
	if a.verbose {
		return true
	}

	if dle, ok := err.(*DocLintError); ok {
		return dle.Category == CategoryInternal ||
			dle.Category == CategoryRuntime ||
			dle.Severity == SeverityFatal
	}

	return true
}

// logError logs an error with appropriate level and context.
func (a *CLIErrorAdapter) logError(err error) {
	if dle, ok := err.(*DocLintError); ok {
		level := a.slogLevelFromSeverity(dle.Severity)
		attrs := []slog.Attr{
			slog.String("category", string(dle.Category)),
		}
		if dle.Retryable {
			attrs = append(attrs, slog.Bool("retryable", true))
		}

		a.logger.LogAttrs(nil, level, dle.Message, attrs...)
		return
	}

	a.logger.Error("Unclassified error", "error", err)
}

// slogLevelFromSeverity converts DocLintError severity to slog level.
func (a *CLIErrorAdapter) slogLevelFromSeverity(severity ErrorSeverity) slog.Level {
	switch severity {
	case SeverityInfo:
		return slog.LevelInfo
	case SeverityWarning:
		return slog.LevelWarn
	case SeverityFatal:
		return slog.LevelError
	default:
		return slog.LevelError
	}
}
