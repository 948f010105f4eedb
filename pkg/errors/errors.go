// Package errors provides structured error types for dependency management.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the container, the DSL and the CLI
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow the taxonomy of the dependency management container:
//   - VALIDATION: malformed or incomplete user input (missing group, name or version)
//   - MALFORMED_COORDINATE: a coordinate string with the wrong number of components
//   - BOM_RESOLUTION: the BOM retrieval collaborator could not produce a usable BOM
//   - UNKNOWN_SCOPE: a configuration name that the project does not declare
//   - NOT_FOUND / NETWORK_ERROR: transport failures underneath BOM retrieval
//
// All of them are fatal to the configuration phase. Nothing in this module
// recovers from them locally.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeValidation, "dependency did not specify %s", "version")
//	if errors.Is(err, errors.ErrCodeValidation) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeBomResolution, origErr, "failed to resolve %s", coord)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Declaration errors
	ErrCodeValidation          Code = "VALIDATION"
	ErrCodeMalformedCoordinate Code = "MALFORMED_COORDINATE"
	ErrCodeUnknownScope        Code = "UNKNOWN_SCOPE"
	ErrCodeUnknownProperty     Code = "UNKNOWN_PROPERTY"
	ErrCodeInvalidManifest     Code = "INVALID_MANIFEST"

	// BOM retrieval errors
	ErrCodeBomResolution Code = "BOM_RESOLUTION"
	ErrCodeInvalidPOM    Code = "INVALID_POM"

	// Resource not found errors
	ErrCodeNotFound Code = "NOT_FOUND"

	// Network errors
	ErrCodeNetwork Code = "NETWORK_ERROR"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
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
// It unwraps the error chain looking for an *Error with a matching code,
// so a BOM_RESOLUTION error wrapping a NOT_FOUND error matches both codes.
func Is(err error, code Code) bool {
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			return false
		}
		if e.Code == code {
			return true
		}
		err = e.Cause
	}
	return false
}

// GetCode extracts the outermost error code from an error, if available.
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
