// Package dErrors provides coded domain errors so services can signal intent
// without transport packages inspecting error strings.
package dErrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code classifies a domain error.
type Code string

const (
	// CodeValidation marks caller input faults. Never retried.
	CodeValidation Code = "validation"
	// CodeNotFound marks lookups that found nothing (unknown carrier).
	CodeNotFound Code = "not_found"
	// CodeInvalidCredentials marks a 401 from the carrier identity service.
	CodeInvalidCredentials Code = "invalid_credentials"
	// CodeRateLimited marks a 429 that survived the retry budget.
	CodeRateLimited Code = "rate_limited"
	// CodeUnavailable marks 502/503/504 responses that survived the retry budget.
	CodeUnavailable Code = "unavailable"
	// CodeMalformedResponse marks an upstream response missing a required field.
	CodeMalformedResponse Code = "malformed_response"
	// CodeInvalidToken marks an access token whose claims cannot be decoded.
	CodeInvalidToken Code = "invalid_token"
	// CodeInternal is the fallback for everything else.
	CodeInternal Code = "internal"
)

// Error is a domain error with a classification code.
type Error struct {
	Code    Code
	Message string
	cause   error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

// New builds a coded error with a fixed message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf builds a coded error with a formatted message.
func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and message to an underlying error, keeping the cause
// reachable through errors.Is/As.
func Wrap(err error, code Code, message string) *Error {
	return &Error{Code: code, Message: message, cause: err}
}

// HasCode reports whether err (or anything it wraps) carries the given code.
func HasCode(err error, code Code) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// CodeOf returns the code carried by err, or CodeInternal when err is not a
// domain error.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// ToHTTPStatus translates a code into the status the transport layer writes.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeValidation:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeInvalidCredentials:
		return http.StatusUnauthorized
	case CodeRateLimited:
		return http.StatusTooManyRequests
	case CodeUnavailable:
		return http.StatusServiceUnavailable
	case CodeMalformedResponse, CodeInvalidToken, CodeInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
