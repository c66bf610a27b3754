// Package errors provides structured error types for VisionSpec.
//
// Every failure that crosses a package boundary carries a machine-readable
// [Code] so that the CLI and the HTTP API can map it to an exit status or a
// response status without string matching.
//
// # Error Codes
//
//   - CONFIGURATION_ERROR: the size catalog is missing, unreadable or invalid.
//     Fatal for the caller and never retried.
//   - INVALID_INPUT: a non-positive distance or height, an inverted room
//     profile, an unknown regime or output format.
//   - NOT_FOUND: a study or catalog size does not exist.
//   - UNSUPPORTED: a requested capability is unavailable (e.g. PNG export
//     without rsvg-convert).
//   - INTERNAL_ERROR: anything else.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidInput, "distance must be positive, got %v", d)
//	if errors.Is(err, errors.ErrCodeInvalidInput) {
//	    // reject the request
//	}
//
//	err := errors.Wrap(errors.ErrCodeConfiguration, cause, "read catalog %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	ErrCodeConfiguration Code = "CONFIGURATION_ERROR"
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeNotFound      Code = "NOT_FOUND"
	ErrCodeUnsupported   Code = "UNSUPPORTED"
	ErrCodeInternal      Code = "INTERNAL_ERROR"
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
		return e.Message
	}
	return err.Error()
}

// IsConfiguration is shorthand for Is(err, ErrCodeConfiguration).
func IsConfiguration(err error) bool { return Is(err, ErrCodeConfiguration) }

// IsInvalidInput reports whether err is an input or format validation failure.
func IsInvalidInput(err error) bool {
	return Is(err, ErrCodeInvalidInput) || Is(err, ErrCodeInvalidFormat)
}

// IsNotFound is shorthand for Is(err, ErrCodeNotFound).
func IsNotFound(err error) bool { return Is(err, ErrCodeNotFound) }
