// Package emoji provides symbol constants for CLI output.
package emoji

// Symbol constants for status lines.
const (
	// Success marks a completed run or a written artifact.
	Success = "✓"

	// Error marks a failed run.
	Error = "✗"

	// Warning marks a run that finished with nothing to do.
	Warning = "!"

	// Info marks informational lines such as watch notifications.
	Info = "i"

	// Preview marks changes that were computed but not written.
	Preview = "~"
)
