// Package errors defines the tagged error kinds used across the scanner core.
package errors

import (
	"errors"
	"fmt"
)

// Kind classifies an error for retry and reporting decisions.
type Kind int

const (
	// KindUnknown marks errors that do not fit any other category.
	KindUnknown Kind = iota
	// KindNotFound marks a missing organization, user or repository.
	KindNotFound
	// KindPermissionDenied marks insufficient token scopes.
	KindPermissionDenied
	// KindRateLimited marks an API rate-limit rejection.
	KindRateLimited
	// KindServerError marks a 5xx response from the remote API.
	KindServerError
	// KindNetworkError marks a connection or timeout failure below HTTP.
	KindNetworkError
	// KindExecutionFailed marks a non-zero exit of the external scorer.
	KindExecutionFailed
	// KindParseFailed marks unparseable scorer output.
	KindParseFailed
	// KindTimeout marks an exceeded scorer deadline.
	KindTimeout
)

// String returns the human-readable name of a Kind.
func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not found"
	case KindPermissionDenied:
		return "permission denied"
	case KindRateLimited:
		return "rate limited"
	case KindServerError:
		return "server error"
	case KindNetworkError:
		return "network error"
	case KindExecutionFailed:
		return "execution failed"
	case KindParseFailed:
		return "parse failed"
	case KindTimeout:
		return "timeout"
	default:
		return "unknown"
	}
}

// Error is an error tagged with a Kind and an optional wrapped cause.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil && e.Message != "" {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the wrapped cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a tagged error with the given kind and message.
func New(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates a tagged error wrapping a cause.
func Wrap(kind Kind, err error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

// KindOf returns the Kind of err, or KindUnknown for untagged errors.
func KindOf(err error) Kind {
	var tagged *Error
	if errors.As(err, &tagged) {
		return tagged.Kind
	}
	return KindUnknown
}

// IsRetryable reports whether an error kind is worth retrying.
// Rate limits, server errors and network errors are transient; everything
// else is a caller error or a terminal failure.
func IsRetryable(err error) bool {
	switch KindOf(err) {
	case KindRateLimited, KindServerError, KindNetworkError:
		return true
	default:
		return false
	}
}
