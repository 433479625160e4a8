// Package errors provides structured error types for the licensegate application.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across CLI and API
//   - Machine-readable error codes for programmatic handling
//   - A stable mapping from failure class to HTTP status
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - NO_INPUT / INVALID_* / UNSUPPORTED_*: caller-input failures (HTTP 400)
//   - REPOSITORY_* / NETWORK_*: upstream failures (HTTP 5xx)
//   - INTERNAL_*: unexpected internal errors
//
// # Usage
//
//	err := errors.New(errors.ErrCodeUnsupportedFile, "unsupported manifest: %s", name)
//	if errors.Is(err, errors.ErrCodeUnsupportedFile) {
//	    // Handle caller-input error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInvalidArchive, origErr, "read snapshot for %s", repo)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Caller-input errors. These abort a compliance check with no partial
	// results and map to HTTP 400.
	ErrCodeNoInput         Code = "NO_INPUT"
	ErrCodeInvalidInput    Code = "INVALID_INPUT"
	ErrCodeInvalidEncoding Code = "INVALID_ENCODING"
	ErrCodeUnsupportedFile Code = "UNSUPPORTED_FILE_TYPE"
	ErrCodeInvalidManifest Code = "INVALID_MANIFEST"

	// Repository snapshot errors
	ErrCodeRepoUnavailable Code = "REPOSITORY_UNAVAILABLE"
	ErrCodeInvalidArchive  Code = "INVALID_ARCHIVE"

	// Resource not found errors
	ErrCodeNotFound       Code = "NOT_FOUND"
	ErrCodePolicyNotFound Code = "POLICY_NOT_FOUND"

	// Network errors
	ErrCodeNetwork Code = "NETWORK_ERROR"
	ErrCodeTimeout Code = "TIMEOUT"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
	ErrCodeStorage  Code = "STORAGE_ERROR"
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

// IsCallerInput reports whether the error was caused by bad caller input
// (missing file, wrong encoding, unsupported manifest, malformed JSON).
// The API handler uses this to choose between 400 and 5xx responses.
func IsCallerInput(err error) bool {
	switch GetCode(err) {
	case ErrCodeNoInput, ErrCodeInvalidInput, ErrCodeInvalidEncoding,
		ErrCodeUnsupportedFile, ErrCodeInvalidManifest:
		return true
	}
	return false
}
