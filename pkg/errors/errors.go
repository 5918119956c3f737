// Package errors provides structured error types for sketchviz.
//
// Every failure the core can produce carries a machine-readable [Code], so
// library callers can branch on the kind of failure while the CLI and the
// HTTP surface present a human-readable message.
//
// # Error Codes
//
// Codes mirror the failure kinds of the rendering pipeline:
//   - EMPTY_INPUT: a diagram with no payload after front matter stripping
//   - COMPILER_TIMEOUT: the layout engine did not finish within the deadline
//   - COMPILER_FAILURE: the layout engine could not start or exited non-zero
//   - INVALID_SVG: compiler output is not a well-formed, svg-rooted document
//   - UNSUPPORTED_GEOMETRY: a primitive with missing or non-numeric geometry
//   - CLASSIFICATION_INPUT_INVALID: a classifier input failed validation
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidSVG, "missing svg root")
//	if errors.Is(err, errors.ErrCodeInvalidSVG) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeCompilerFailure, origErr, "start %s", exe)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Pipeline errors
	ErrCodeEmptyInput          Code = "EMPTY_INPUT"
	ErrCodeCompilerTimeout     Code = "COMPILER_TIMEOUT"
	ErrCodeCompilerFailure     Code = "COMPILER_FAILURE"
	ErrCodeInvalidSVG          Code = "INVALID_SVG"
	ErrCodeUnsupportedGeometry Code = "UNSUPPORTED_GEOMETRY"
	ErrCodeClassificationInput Code = "CLASSIFICATION_INPUT_INVALID"

	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"
	ErrCodeInvalidParams Code = "INVALID_PARAMS"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidPath   Code = "INVALID_PATH"

	// Resource not found errors
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

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
// For *Error types, returns the message without the code prefix, followed by
// the cause when there is one.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if e.Cause != nil {
			return e.Message + ": " + UserMessage(e.Cause)
		}
		return e.Message
	}
	return err.Error()
}

// IsInputError reports whether err was caused by the caller's input rather
// than by the environment (missing binaries, timeouts, internal failures).
func IsInputError(err error) bool {
	switch GetCode(err) {
	case ErrCodeEmptyInput, ErrCodeInvalidSVG, ErrCodeClassificationInput,
		ErrCodeInvalidInput, ErrCodeInvalidConfig, ErrCodeInvalidParams,
		ErrCodeInvalidFormat, ErrCodeInvalidPath:
		return true
	}
	return false
}
