// Package errors provides structured errors for liveline components.
// Errors carry a category code and the file:line of their origin so the
// console sink can report faults with useful context.
package errors

import (
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
)

// Error codes for categorizing errors
const (
	ErrInvalidArgument = "INVALID_ARGUMENT"
	ErrEncoding        = "ENCODING"
	ErrRuntime         = "RUNTIME"
	ErrConfig          = "CONFIG"
)

// ErrBenign marks conditions that should propagate to the caller without
// being reported through the console as failures (deprecation notices and
// similar advisory conditions). Test with errors.Is.
var ErrBenign = errors.New("benign condition")

// Error is a structured error with a category code, a message, an optional
// suggestion, an optional cause, and the call site that created it.
type Error struct {
	Code       string
	Message    string
	Suggestion string
	Cause      error
	File       string
	Line       int
}

// New creates a structured error with the given code and message,
// capturing the caller's file and line.
func New(code, message string) *Error {
	e := &Error{Code: code, Message: message}
	e.capture(2)
	return e
}

// Newf creates a structured error with a formatted message.
func Newf(code, format string, args ...interface{}) *Error {
	e := &Error{Code: code, Message: fmt.Sprintf(format, args...)}
	e.capture(2)
	return e
}

// Wrap wraps an existing error with a code and message.
func Wrap(err error, code, message string) *Error {
	e := &Error{Code: code, Message: message, Cause: err}
	e.capture(2)
	return e
}

// InvalidArgument creates an INVALID_ARGUMENT error with a formatted message.
func InvalidArgument(format string, args ...interface{}) *Error {
	e := &Error{Code: ErrInvalidArgument, Message: fmt.Sprintf(format, args...)}
	e.capture(2)
	return e
}

func (e *Error) capture(skip int) {
	if _, file, line, ok := runtime.Caller(skip); ok {
		e.File = filepath.Base(file)
		e.Line = line
	}
}

// WithSuggestion attaches an actionable hint and returns the error.
func (e *Error) WithSuggestion(s string) *Error {
	e.Suggestion = s
	return e
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteString(e.Message)

	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}

	if e.Suggestion != "" {
		b.WriteString(" (")
		b.WriteString(e.Suggestion)
		b.WriteString(")")
	}

	return b.String()
}

// Context returns the error message prefixed with its origin file:line,
// matching the way scoped sessions report faults.
func (e *Error) Context() string {
	if e.File == "" {
		return e.Error()
	}
	return fmt.Sprintf("%s:%d: %s", e.File, e.Line, e.Error())
}

// Unwrap returns the underlying cause for use with errors.Is/errors.As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// IsCode checks if an error is a structured Error with the given code.
func IsCode(err error, code string) bool {
	if err == nil {
		return false
	}
	var llErr *Error
	if errors.As(err, &llErr) {
		return llErr.Code == code
	}
	return false
}

// IsInvalidArgument reports whether err is an INVALID_ARGUMENT error.
func IsInvalidArgument(err error) bool {
	return IsCode(err, ErrInvalidArgument)
}
