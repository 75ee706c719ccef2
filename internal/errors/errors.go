package apperrors

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"
)

// Application exit codes define the standard exit statuses for the application.
const (
	ExitSuccess       = 0   // Indicates successful execution.
	ExitErrorGeneric  = 1   // Indicates a generic error.
	ExitErrorTimeout  = 2   // Indicates the operation timed out.
	ExitErrorBinding  = 3   // Indicates a rejected binding call (bad symbol or arguments).
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
func NewConfigError(format string, a ...any) error {
	return ConfigError{Message: fmt.Sprintf(format, a...)}
}

// BindingError is returned when a call through the binding layer is
// rejected. Symbol names the function, class or method that was called.
type BindingError struct {
	// Symbol is the bound name, e.g. "sort_numbers" or "Calculator.add".
	Symbol string
	// Cause is the underlying reason the call was rejected.
	Cause error
}

// Error returns "<symbol>: <cause>".
func (e BindingError) Error() string {
	if e.Cause == nil {
		return e.Symbol + ": call rejected"
	}
	return e.Symbol + ": " + e.Cause.Error()
}

// Unwrap returns the original cause, allowing errors.Is and errors.As to
// inspect the chain.
func (e BindingError) Unwrap() error { return e.Cause }

// TimeoutError represents an operation that exceeded its time limit.
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
// field or argument failed validation and provides a human-readable explanation.
type ValidationError struct {
	// Field is the name of the field or argument that failed validation.
	Field string
	// Message explains the validation failure.
	Message string
}

// Error returns a formatted message describing the validation failure.
func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error for %q: %s", e.Field, e.Message)
}

// WrapError wraps an error with additional context using fmt.Errorf and %w.
// It returns nil if err is nil.
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

// ExitCodeFor maps an error to the process exit code it should produce.
// A nil error maps to ExitSuccess.
func ExitCodeFor(err error) int {
	var (
		configErr  ConfigError
		timeoutErr TimeoutError
		bindingErr BindingError
	)
	switch {
	case err == nil:
		return ExitSuccess
	case errors.As(err, &configErr):
		return ExitErrorConfig
	case errors.As(err, &timeoutErr), errors.Is(err, context.DeadlineExceeded):
		return ExitErrorTimeout
	case errors.Is(err, context.Canceled):
		return ExitErrorCanceled
	case errors.As(err, &bindingErr):
		return ExitErrorBinding
	default:
		return ExitErrorGeneric
	}
}

// ColorProvider supplies the escape sequences used when reporting errors.
type ColorProvider interface {
	Red() string
	Yellow() string
	Reset() string
}

// HandleError writes a human-readable description of err to out and
// returns the matching exit code. The duration, when non-zero, is the time
// spent before the failure.
func HandleError(err error, duration time.Duration, out io.Writer, colors ColorProvider) int {
	if err == nil {
		return ExitSuccess
	}
	code := ExitCodeFor(err)
	suffix := ""
	if duration > 0 {
		suffix = fmt.Sprintf(" after %s", duration)
	}
	switch code {
	case ExitErrorTimeout:
		fmt.Fprintf(out, "%sTimeout%s%s: %v\n", colors.Yellow(), colors.Reset(), suffix, err)
	case ExitErrorCanceled:
		fmt.Fprintf(out, "%sCanceled%s%s.\n", colors.Yellow(), colors.Reset(), suffix)
	default:
		fmt.Fprintf(out, "%sError%s%s: %v\n", colors.Red(), colors.Reset(), suffix, err)
	}
	return code
}
