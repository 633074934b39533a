// Package dErrors provides coded domain errors shared across modules.
//
// Services create or wrap errors with a Code; the HTTP layer translates the
// code into a status and a stable machine-readable error string. Details
// carry structured fields (validation field names, limiter reset times) that
// callers need to act on a denial rather than show a generic failure.
package dErrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code classifies a domain error for transport mapping and caller branching.
type Code string

const (
	CodeBadRequest   Code = "bad_request"
	CodeInvalidInput Code = "invalid_input"
	CodeUnauthorized Code = "unauthorized"
	CodeNotFound     Code = "not_found"
	CodeConflict     Code = "conflict"
	CodeUnavailable  Code = "unavailable"
	CodeInternal     Code = "internal"

	// Policy denial codes. These are terminal for the current request and
	// must stay distinguishable from generic failures so callers can show
	// an actionable message instead of a 500.
	CodeGlobalReadOnly  Code = "global_read_only"
	CodeFeatureDisabled Code = "feature_disabled"
	CodeSuspended       Code = "entity_suspended"
	CodeLimitExceeded   Code = "limit_exceeded"
)

// Error is a domain error with a classification code and optional details.
type Error struct {
	Code    Code
	Message string
	Details map[string]any
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// New creates a domain error with the given code and message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf creates a domain error with a formatted message.
func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and message to an underlying error, preserving the
// cause for errors.Is/errors.As chains.
func Wrap(err error, code Code, message string) *Error {
	return &Error{Code: code, Message: message, cause: err}
}

// WithDetail returns the error with a structured detail attached.
func (e *Error) WithDetail(key string, value any) *Error {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// HasCode reports whether err (or anything it wraps) carries the given code.
func HasCode(err error, code Code) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// Is is an alias of HasCode kept for readability at call sites.
func Is(err error, code Code) bool {
	return HasCode(err, code)
}

// CodeOf extracts the code from err, defaulting to CodeInternal for
// unclassified errors.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// DetailsOf extracts structured details from err, or nil.
func DetailsOf(err error) map[string]any {
	var de *Error
	if errors.As(err, &de) {
		return de.Details
	}
	return nil
}

// ToHTTPStatus maps a domain error code to an HTTP status.
//
// Policy denials map to the 4xx "service temporarily unavailable / account
// restricted" class rather than 500, so clients can present a specific
// message. LimitExceeded maps to 429 and its details carry the reset time.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeBadRequest, CodeInvalidInput:
		return http.StatusBadRequest
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict:
		return http.StatusConflict
	case CodeGlobalReadOnly, CodeFeatureDisabled, CodeSuspended:
		return http.StatusForbidden
	case CodeLimitExceeded:
		return http.StatusTooManyRequests
	case CodeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
