// Package errors provides structured error types for graphgen.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI, the HTTP API and the generator
//   - Machine-readable error codes for programmatic handling
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input validation failures and violated graph invariants
//   - NOT_FOUND: Resource not found (runs, cache entries)
//   - DEPTH_UNREACHED: Informational, generation stopped short of max depth
//   - INTERNAL_*: Unexpected internal errors
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidParams, "max depth must be positive, got %d", d)
//	if errors.Is(err, errors.ErrCodeInvalidParams) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInternal, origErr, "render %s", format)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidParams Code = "INVALID_PARAMS"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidRunID  Code = "INVALID_RUN_ID"

	// ErrCodeInvalidOperation marks a violated graph invariant: a duplicate
	// edge between connected vertices or an edge to an unknown vertex.
	ErrCodeInvalidOperation Code = "INVALID_OPERATION"

	// Generation outcomes that are not failures
	ErrCodeDepthUnreached      Code = "DEPTH_UNREACHED"
	ErrCodeExhaustedCandidates Code = "EXHAUSTED_CANDIDATES"

	// Resource not found errors
	ErrCodeNotFound Code = "NOT_FOUND"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error carries a machine-readable code next to its message. The HTTP API
// maps codes to status codes.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether any error in err's chain carries code. Inner codes
// count: an INTERNAL_ERROR wrapping an INVALID_OPERATION matches both.
func Is(err error, code Code) bool {
	return errors.Is(err, &Error{Code: code})
}

// Is matches a bare code target, as built by the package-level [Is].
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Message == "" && t.Cause == nil && t.Code == e.Code
}

// GetCode returns the code of the outermost *Error in err's chain, or ""
// when there is none.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns the message of the outermost *Error without its code
// prefix, or err.Error() for uncoded errors.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
