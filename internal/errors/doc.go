// Package apperrors defines structured application error types and the
// process exit codes derived from them. Errors raised at the binding
// boundary (bad arguments, unknown symbols) are kept distinct from
// configuration and timeout failures so each host surface can translate
// them into its own convention.
//
// Error Wrapping Guidelines:
// This package follows Go's error wrapping conventions using fmt.Errorf with %w.
// All wrapping error types implement Unwrap() to support errors.Is() and errors.As().
package apperrors
