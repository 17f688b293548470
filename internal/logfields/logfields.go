package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyRunID      = "run_id"
	KeyTarget     = "target"
	KeyTargetKind = "target_kind"
	KeyTool       = "tool"
	KeyDocsRoot   = "docs_root"
	KeyPolicy     = "policy"
	KeyOutcome    = "outcome"
	KeyExitCode   = "exit_code"
	KeyDurationMS = "duration_ms"
	KeyPath       = "path"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func RunID(id string) slog.Attr        { return slog.String(KeyRunID, id) }
func Target(t string) slog.Attr        { return slog.String(KeyTarget, t) }
func TargetKind(k string) slog.Attr    { return slog.String(KeyTargetKind, k) }
func Tool(name string) slog.Attr       { return slog.String(KeyTool, name) }
func DocsRoot(root string) slog.Attr   { return slog.String(KeyDocsRoot, root) }
func Policy(p string) slog.Attr        { return slog.String(KeyPolicy, p) }
func Outcome(o string) slog.Attr       { return slog.String(KeyOutcome, o) }
func ExitCode(code int) slog.Attr      { return slog.Int(KeyExitCode, code) }
func DurationMS(ms float64) slog.Attr  { return slog.Float64(KeyDurationMS, ms) }
func Path(p string) slog.Attr          { return slog.String(KeyPath, p) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
