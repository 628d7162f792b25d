// Package errors provides structured error types for the organogram engine.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the engine, CLI and HTTP binding
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages for alerts
//   - Error wrapping with context preservation
//
// # Taxonomy
//
// The engine distinguishes three families of failure, none of which is
// retried automatically and none of which leaves the graph unusable:
//
//   - REFERENTIAL: an edge references a missing node, or an id collides on insert.
//     Logged and skipped; the store is unchanged.
//   - TRANSPORT: a save or validate request failed or returned success=false.
//     Surfaced to the user; the store is unchanged.
//   - INVALID_INPUT: malformed drag payload or request body. Logged and ignored.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidInput, "malformed drop payload: %s", raw)
//	if errors.Is(err, errors.ErrCodeInvalidInput) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeTransport, origErr, "save structure %s", id)
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
	ErrCodeInvalidInput       Code = "INVALID_INPUT"
	ErrCodeInvalidStructureID Code = "INVALID_STRUCTURE_ID"
	ErrCodeInvalidEvent       Code = "INVALID_EVENT"

	// Graph integrity errors
	ErrCodeReferential Code = "REFERENTIAL"

	// Resource not found errors
	ErrCodeNotFound      Code = "NOT_FOUND"
	ErrCodeDraftNotFound Code = "DRAFT_NOT_FOUND"

	// Collaborator errors
	ErrCodeNetwork   Code = "NETWORK_ERROR"
	ErrCodeTimeout   Code = "TIMEOUT"
	ErrCodeTransport Code = "TRANSPORT"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

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

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if e.Cause != nil {
			return e.Message + ": " + e.Cause.Error()
		}
		return e.Message
	}
	return err.Error()
}

// IsReferential reports whether err is a graph integrity rejection.
func IsReferential(err error) bool { return Is(err, ErrCodeReferential) }

// IsTransport reports whether err came from the collaborator API,
// either a failed request or a success=false response.
func IsTransport(err error) bool {
	return Is(err, ErrCodeTransport) || Is(err, ErrCodeNetwork) || Is(err, ErrCodeTimeout)
}
