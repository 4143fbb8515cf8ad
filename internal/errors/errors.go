package apperrors

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"
)

// Application exit codes define the standard exit statuses for the application.
// These codes are used to signal the outcome of the program execution to the OS.
const (
	ExitSuccess       = 0   // Indicates successful execution.
	ExitErrorGeneric  = 1   // Indicates a generic error.
	ExitErrorTimeout  = 2   // Indicates the operation timed out.
	ExitErrorConfig   = 4   // Indicates a configuration error.
	ExitErrorCanceled = 130 // Indicates the operation was canceled (e.g., SIGINT).
)

// ConfigError represents a user configuration error, such as invalid flags or
// values. It indicates that the application cannot proceed due to incorrect user input.
type ConfigError struct {
	// Message explains the specific configuration error.
	Message string
}

// Error returns the error message for a ConfigError.
func (e ConfigError) Error() string { return e.Message }

// NewConfigError creates a new ConfigError with a formatted message.
//
// Parameters:
//   - format: A format string (see fmt.Sprintf).
//   - a: Arguments to be formatted into the string.
//
// Returns:
//   - error: A new ConfigError instance containing the formatted message.
func NewConfigError(format string, a ...any) error {
	return ConfigError{Message: fmt.Sprintf(format, a...)}
}

// RenderError encapsulates a failure while rendering a frame while preserving
// the original cause.
type RenderError struct {
	// Cause is the underlying error that triggered this render error.
	Cause error
}

// Error returns the error message from the underlying cause.
func (e RenderError) Error() string { return e.Cause.Error() }

// Unwrap returns the original wrapped error.
func (e RenderError) Unwrap() error { return e.Cause }

// TimeoutError represents an operation timeout. It captures the operation
// name and the duration limit that was exceeded.
type TimeoutError struct {
	// Operation is the name of the operation that timed out.
	Operation string
	// Limit is the duration after which the operation was considered timed out.
	Limit time.Duration
}

// Error returns a formatted message describing the timeout.
func (e TimeoutError) Error() string {
	return fmt.Sprintf("operation %q timed out after %s", e.Operation, e.Limit)
}

// ValidationError represents an input validation failure. It identifies which
// field failed validation and provides a human-readable explanation. Cause,
// when set, is a package sentinel such as escape.ErrInvalidArgument so callers
// can match the failure class with errors.Is.
type ValidationError struct {
	// Field is the name of the field that failed validation.
	Field string
	// Message explains the validation failure.
	Message string
	// Cause is the optional sentinel the failure belongs to.
	Cause error
}

// Error returns a formatted message describing the validation failure.
func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error for %q: %s", e.Field, e.Message)
}

// Unwrap returns the sentinel cause, if any.
func (e ValidationError) Unwrap() error { return e.Cause }

// WrapError wraps an error with additional context using fmt.Errorf and %w.
// This allows the wrapped error to be unwrapped with errors.Unwrap() and
// checked with errors.Is() and errors.As().
//
// Parameters:
//   - err: The error to wrap.
//   - format: A format string for the context message.
//   - args: Arguments for the format string.
//
// Returns:
//   - error: The wrapped error, or nil if err is nil.
func WrapError(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	message := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %w", message, err)
}

// IsContextError checks if the error is a context cancellation or deadline exceeded error.
func IsContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// ColorProvider supplies the ANSI sequences used by HandleRenderError.
// A nil provider prints without color.
type ColorProvider interface {
	Red() string
	Yellow() string
	Reset() string
}

// HandleRenderError prints a one-line diagnosis of a failed render to out and
// maps the error to an exit code.
//
// Parameters:
//   - err: The error returned by the render (nil means success).
//   - duration: How long the render ran before failing.
//   - out: The writer for the diagnosis.
//   - colors: Optional color provider.
//
// Returns:
//   - int: The exit code for the process.
func HandleRenderError(err error, duration time.Duration, out io.Writer, colors ColorProvider) int {
	if err == nil {
		return ExitSuccess
	}

	red, yellow, reset := "", "", ""
	if colors != nil {
		red, yellow, reset = colors.Red(), colors.Yellow(), colors.Reset()
	}

	suffix := ""
	if duration > 0 {
		suffix = fmt.Sprintf(" after %s%s%s", yellow, duration, reset)
	}

	var validationErr ValidationError
	var configErr ConfigError
	var timeoutErr TimeoutError
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.As(err, &timeoutErr):
		fmt.Fprintf(out, "%sRender timed out%s%s.\n", red, reset, suffix)
		return ExitErrorTimeout
	case errors.Is(err, context.Canceled):
		fmt.Fprintf(out, "%sRender canceled%s%s.\n", yellow, reset, suffix)
		return ExitErrorCanceled
	case errors.As(err, &validationErr), errors.As(err, &configErr):
		fmt.Fprintf(out, "%sInvalid input:%s %v\n", red, reset, err)
		return ExitErrorConfig
	default:
		fmt.Fprintf(out, "%sRender failed%s%s: %v\n", red, reset, suffix, err)
		return ExitErrorGeneric
	}
}
