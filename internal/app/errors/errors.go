package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// Common error types
var (
	// Configuration errors
	ErrCredentialMissing = New("AssemblyAI API key not found in secrets store or environment")
	ErrInvalidConfig     = New("invalid configuration")

	// Intake errors
	ErrUnsupportedFormat = New("unsupported audio format")
	ErrUploadTooLarge    = New("upload exceeds size limit")

	// Scratch file errors
	ErrFileWriteFailed = New("file write failed")
	ErrCleanupFailed   = New("temporary file cleanup failed")
	ErrOutputCollision = New("output path already used by another input")
)

// Error represents a standardized error
type Error struct {
	message string
	cause   error
}

// New creates a new error
func New(message string) *Error {
	return &Error{message: message}
}

// Newf creates a new formatted error
func Newf(format string, args ...interface{}) *Error {
	return &Error{message: fmt.Sprintf(format, args...)}
}

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return &Error{
		message: message,
		cause:   err,
	}
}

// Wrapf wraps an error with formatted context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return &Error{
		message: fmt.Sprintf(format, args...),
		cause:   err,
	}
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.cause
}

// Is checks if the error matches target
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.message == t.message
}

// DecodeError reports bytes that are not a parseable audio container.
type DecodeError struct {
	Filename string
	Detail   string
	cause    error
}

// NewDecodeError creates a decode error for the named upload.
func NewDecodeError(filename, detail string, cause error) *DecodeError {
	return &DecodeError{Filename: filename, Detail: strings.TrimSpace(detail), cause: cause}
}

func (e *DecodeError) Error() string {
	msg := fmt.Sprintf("could not decode audio %q", e.Filename)
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.cause != nil {
		msg += fmt.Sprintf(" (%v)", e.cause)
	}
	return msg
}

func (e *DecodeError) Unwrap() error {
	return e.cause
}

// TranscriptionServiceError carries a failure reported by the remote
// transcription service. Message is the service text, verbatim.
type TranscriptionServiceError struct {
	Provider     string
	TranscriptID string
	StatusCode   int
	Message      string
}

func (e *TranscriptionServiceError) Error() string {
	return fmt.Sprintf("%s transcription error: %s", e.Provider, e.Message)
}

// UnexpectedError is the catch-all for failures that fit no other kind.
type UnexpectedError struct {
	cause error
}

// Unexpected wraps err as an UnexpectedError. Already-classified errors are
// returned unchanged.
func Unexpected(err error) error {
	if err == nil {
		return nil
	}
	if IsClassified(err) {
		return err
	}
	return &UnexpectedError{cause: err}
}

func (e *UnexpectedError) Error() string {
	return fmt.Sprintf("unexpected error: %v", e.cause)
}

func (e *UnexpectedError) Unwrap() error {
	return e.cause
}

// IsClassified reports whether err already belongs to the pipeline taxonomy.
func IsClassified(err error) bool {
	var (
		decodeErr     *DecodeError
		serviceErr    *TranscriptionServiceError
		unexpectedErr *UnexpectedError
	)
	return stderrors.As(err, &decodeErr) ||
		stderrors.As(err, &serviceErr) ||
		stderrors.As(err, &unexpectedErr) ||
		stderrors.Is(err, ErrUnsupportedFormat) ||
		stderrors.Is(err, ErrUploadTooLarge)
}

// Helper functions for common patterns

// RequiredField returns an error for missing required fields
func RequiredField(field string) error {
	return Newf("%s is required", field)
}

// InvalidField returns an error for invalid field values
func InvalidField(field string, reason string) error {
	return Newf("%s is invalid: %s", field, reason)
}

// OutOfRange returns an error for values outside acceptable range
func OutOfRange(field string, min, max interface{}) error {
	return Newf("%s out of range (must be between %v and %v)", field, min, max)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "required") ||
		strings.Contains(msg, "invalid") ||
		strings.Contains(msg, "out of range")
}
