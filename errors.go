// Package reflop structured error types for backend and file failures
package reflop

import (
	"errors"
	"fmt"
)

// ErrorKind represents categories of errors
type ErrorKind int

const (
	// Unsupported backend/type combination, fatal at initialization
	ErrConfiguration ErrorKind = iota
	// Bad magic tag or malformed header
	ErrFormat
	// Declared element width differs from the expected width
	ErrTypeMismatch
	// Short or unreadable file; the caller receives an empty result
	ErrTruncated
	// Invalid argument errors
	ErrInvalidArg
	// Fewer than two valid files for a category; non-fatal
	ErrSkipped
)

// String returns the error kind as a string
func (k ErrorKind) String() string {
	switch k {
	case ErrConfiguration:
		return "Configuration"
	case ErrFormat:
		return "Format"
	case ErrTypeMismatch:
		return "TypeMismatch"
	case ErrTruncated:
		return "Truncated"
	case ErrInvalidArg:
		return "InvalidArgument"
	case ErrSkipped:
		return "Skipped"
	default:
		return "Unknown"
	}
}

// Error represents a structured error with context
type Error struct {
	Kind    ErrorKind
	Op      string // Operation that failed
	Path    string // File involved, if any
	Message string // Human-readable message
	Err     error  // Underlying error if any
}

// Error implements the error interface
func (e *Error) Error() string {
	msg := e.Message
	if e.Path != "" {
		msg = fmt.Sprintf("%s: %s", e.Path, msg)
	}
	if e.Err != nil {
		return fmt.Sprintf("reflop %s error in %s: %s (caused by: %v)",
			e.Kind.String(), e.Op, msg, e.Err)
	}
	return fmt.Sprintf("reflop %s error in %s: %s", e.Kind.String(), e.Op, msg)
}

// Unwrap allows error chain inspection
func (e *Error) Unwrap() error {
	return e.Err
}

// Common error constructors

// NewConfigurationError reports an unsupported backend/type combination.
func NewConfigurationError(op string, message string) error {
	return &Error{Kind: ErrConfiguration, Op: op, Message: message}
}

// NewFormatError reports a file with a bad magic tag or malformed header.
func NewFormatError(op string, path string, message string) error {
	return &Error{Kind: ErrFormat, Op: op, Path: path, Message: message}
}

// NewTypeMismatchError reports a declared width differing from the expected one.
func NewTypeMismatchError(op string, path string, message string) error {
	return &Error{Kind: ErrTypeMismatch, Op: op, Path: path, Message: message}
}

// NewTruncatedError reports a short or unreadable file.
func NewTruncatedError(op string, path string, message string, err error) error {
	return &Error{Kind: ErrTruncated, Op: op, Path: path, Message: message, Err: err}
}

// NewInvalidArgError creates an invalid argument error
func NewInvalidArgError(op string, message string) error {
	return &Error{Kind: ErrInvalidArg, Op: op, Message: message}
}

// NewSkippedError reports a category with fewer than two valid files.
func NewSkippedError(op string, message string) error {
	return &Error{Kind: ErrSkipped, Op: op, Message: message}
}

// kindOf extracts the kind from an error chain, or -1.
func kindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ErrorKind(-1)
}

// IsConfigurationError checks if an error is a configuration error
func IsConfigurationError(err error) bool { return kindOf(err) == ErrConfiguration }

// IsFormatError checks if an error is a format error
func IsFormatError(err error) bool { return kindOf(err) == ErrFormat }

// IsTypeMismatchError checks if an error is a type mismatch error
func IsTypeMismatchError(err error) bool { return kindOf(err) == ErrTypeMismatch }

// IsTruncatedError checks if an error is a truncated file error
func IsTruncatedError(err error) bool { return kindOf(err) == ErrTruncated }

// IsInvalidArgError checks if an error is an invalid argument error
func IsInvalidArgError(err error) bool { return kindOf(err) == ErrInvalidArg }

// IsSkippedError checks if an error is a skipped category error
func IsSkippedError(err error) bool { return kindOf(err) == ErrSkipped }
