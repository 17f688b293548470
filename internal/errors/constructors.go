package errors

// Convenience functions for common error patterns

// Config errors

func ConfigNotFound(path string) *DocLintError {
	return New(CategoryConfig, SeverityFatal, "configuration file not found").
		WithContext("path", path)
}

func ConfigInvalid(reason string, cause error) *DocLintError {
	return Wrap(cause, CategoryConfig, SeverityFatal, "configuration invalid").
		WithContext("reason", reason)
}

func ValidationFailed(field, reason string) *DocLintError {
	return New(CategoryValidation, SeverityFatal, "validation failed").
		WithContext("field", field).
		WithContext("reason", reason)
}

func DocsRootMissing(path string) *DocLintError {
	return New(CategoryValidation, SeverityFatal, "documentation root does not exist").
		WithContext("path", path)
}

// External tool errors

func ToolNotFound(tool string, cause error) *DocLintError {
	return Wrap(cause, CategoryTool, SeverityFatal, "required tool not found on PATH").
		WithContext("tool", tool)
}

func ToolInvocationFailed(tool, target string, cause error) *DocLintError {
	return Wrap(cause, CategoryTool, SeverityFatal, "tool invocation failed").
		WithContext("tool", tool).
		WithContext("target", target)
}

// Discovery and filesystem errors

func DiscoveryError(root string, cause error) *DocLintError {
	return Wrap(cause, CategoryFileSystem, SeverityFatal, "notebook discovery failed").
		WithContext("root", root)
}

// History store errors

func HistoryError(operation string, cause error) *DocLintError {
	return Wrap(cause, CategoryHistory, SeverityError, "history store operation failed").
		WithContext("operation", operation)
}

// Daemon errors

func DaemonError(message string, cause error) *DocLintError {
	return Wrap(cause, CategoryDaemon, SeverityFatal, message)
}

// Internal errors

func InternalError(message string, cause error) *DocLintError {
	return Wrap(cause, CategoryInternal, SeverityFatal, message)
}
