// Package errs provides the named failure taxonomy of the advisory pipeline.
package errs

import (
	"errors"
	"fmt"
)

// Code is a standardized internal failure code.
type Code string

const (
	// Fatal: malformed date, non-positive market price, unknown loan
	// category. Surfaced to the caller, never retried.
	CodeInvalidInput Code = "INVALID_INPUT"

	// Transient inference failures: recovered inside the orchestrator via
	// backoff and candidate rotation, never surfaced.
	CodeInferenceTimeout   Code = "INFERENCE_TIMEOUT"
	CodeInferenceThrottled Code = "INFERENCE_THROTTLED"

	// Hard inference failure: auth, not-found, malformed request. The
	// candidate is abandoned without consuming a backoff slot.
	CodeInferenceRejected Code = "INFERENCE_REJECTED"

	// Unusable backend output: empty choice list or blank completion.
	// Transient, so the candidate is retried like any flaky call.
	CodeMalformedResponse Code = "MALFORMED_RESPONSE"
)

// Error is a structured application error.
type Error struct {
	Code      Code
	Message   string
	Retryable bool
	Err       error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// InvalidInput creates a fatal input validation error.
func InvalidInput(format string, args ...interface{}) *Error {
	return &Error{
		Code:    CodeInvalidInput,
		Message: fmt.Sprintf(format, args...),
	}
}

// Transient wraps a recoverable inference failure.
func Transient(code Code, message string, err error) *Error {
	return &Error{
		Code:      code,
		Message:   message,
		Retryable: true,
		Err:       err,
	}
}

// Rejected wraps a hard inference failure that must not be retried.
func Rejected(message string, err error) *Error {
	return &Error{
		Code:    CodeInferenceRejected,
		Message: message,
		Err:     err,
	}
}

// IsInvalidInput reports whether err is a fatal input validation error.
func IsInvalidInput(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == CodeInvalidInput
}

// IsRetryable reports whether err may succeed on a later attempt.
func IsRetryable(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Retryable
}
