package api

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind classifies API failures so handlers can branch: redirect to login
// on auth errors, offer a retry on network errors, and so on.
type ErrorKind string

const (
	KindValidation ErrorKind = "validation"
	KindAuth       ErrorKind = "auth"
	KindForbidden  ErrorKind = "forbidden"
	KindNotFound   ErrorKind = "not_found"
	KindConflict   ErrorKind = "conflict"
	KindServer     ErrorKind = "server"
	KindNetwork    ErrorKind = "network"
)

// Error is the single error type the client returns for failed requests. For
// server-reported failures Message carries the backend's message field; for
// transport failures it wraps the underlying error and Status is zero.
type Error struct {
	Kind    ErrorKind
	Status  int
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("api: %s (%d): %s", e.Kind, e.Status, e.Message)
	}
	return fmt.Sprintf("api: %s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// IsAuthError reports whether err is an API error signalling an invalid or
// expired session.
func IsAuthError(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Kind == KindAuth
}

// IsNetworkError reports whether err is a transport failure where no server
// response exists.
func IsNetworkError(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Kind == KindNetwork
}

// Message extracts a human-readable message from any error, preferring the
// server-provided one.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return err.Error()
}

func kindForStatus(status int) ErrorKind {
	switch status {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return KindValidation
	case http.StatusUnauthorized:
		return KindAuth
	case http.StatusForbidden:
		return KindForbidden
	case http.StatusNotFound:
		return KindNotFound
	case http.StatusConflict:
		return KindConflict
	default:
		return KindServer
	}
}

func newNetworkError(err error) *Error {
	return &Error{Kind: KindNetwork, Message: "backend unreachable", cause: err}
}

func newStatusError(status int, message string) *Error {
	if message == "" {
		message = "An error occurred"
	}
	return &Error{Kind: kindForStatus(status), Status: status, Message: message}
}
