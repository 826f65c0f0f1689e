// Package errors provides structured error types for Polaris.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI, the HTTP API and the library
//   - Machine-readable error codes for programmatic handling
//   - Error wrapping with context preservation
//
// # Error Codes
//
// The radar core reports three failure kinds:
//   - VALIDATION_FAILED: malformed input data (unknown references, duplicates)
//   - EMPTY_INPUT: nothing to lay out
//   - INTERNAL_ERROR: a broken invariant inside the engine
//
// The remaining codes cover the surfaces around the core (documents, storage,
// rendering).
//
// # Usage
//
//	err := errors.New(errors.ErrCodeValidation, "entity %q: unknown stage %q", id, stage)
//	if errors.Is(err, errors.ErrCodeValidation) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInvalidFormat, origErr, "decode %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Radar core errors
	ErrCodeValidation Code = "VALIDATION_FAILED"
	ErrCodeEmptyInput Code = "EMPTY_INPUT"
	ErrCodeInternal   Code = "INTERNAL_ERROR"

	// Input errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidPath   Code = "INVALID_PATH"

	// Resource errors
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// Backend errors
	ErrCodeStorage     Code = "STORAGE_ERROR"
	ErrCodeTimeout     Code = "TIMEOUT"
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

// Validation is shorthand for New(ErrCodeValidation, ...).
func Validation(format string, args ...any) *Error {
	return New(ErrCodeValidation, format, args...)
}

// Internal is shorthand for New(ErrCodeInternal, ...).
func Internal(format string, args ...any) *Error {
	return New(ErrCodeInternal, format, args...)
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
		return e.Message
	}
	return err.Error()
}

// Problems collects validation failures so they can be reported together.
// The zero value is ready to use.
type Problems struct {
	items []string
}

// Addf records one problem.
func (p *Problems) Addf(format string, args ...any) {
	p.items = append(p.items, fmt.Sprintf(format, args...))
}

// Len returns the number of recorded problems.
func (p *Problems) Len() int { return len(p.items) }

// List returns the recorded problems in insertion order.
func (p *Problems) List() []string { return p.items }

// Err returns nil when nothing was recorded, otherwise a single
// VALIDATION_FAILED error listing every problem.
func (p *Problems) Err() error {
	switch len(p.items) {
	case 0:
		return nil
	case 1:
		return Validation("%s", p.items[0])
	}
	msg := fmt.Sprintf("%d problems:", len(p.items))
	for _, it := range p.items {
		msg += "\n  - " + it
	}
	return Validation("%s", msg)
}
