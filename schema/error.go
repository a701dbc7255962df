package schema

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind classifies a failed remote call.
type ErrorKind string

const (
	// KindTransport - the call never completed (network failure, timeout).
	KindTransport ErrorKind = "transport"
	// KindUnauthorized - the presented or absent access token was rejected.
	KindUnauthorized ErrorKind = "unauthorized"
	// KindRequest - the service rejected the request (4xx other than 401).
	KindRequest ErrorKind = "request"
	// KindServer - the service failed (5xx).
	KindServer ErrorKind = "server"
	// KindDecode - the response body could not be decoded.
	KindDecode ErrorKind = "decode"
)

// Error describes a failed remote call with enough context to diagnose it.
type Error struct {
	Kind       ErrorKind
	StatusCode int
	Message    string
	Body       string
	cause      error
}

func (e *Error) Error() string {
	switch {
	case e.StatusCode != 0 && e.Body != "":
		return fmt.Sprintf("%v: %v: status %v: %v", e.Kind, e.Message, e.StatusCode, e.Body)
	case e.StatusCode != 0:
		return fmt.Sprintf("%v: %v: status %v", e.Kind, e.Message, e.StatusCode)
	case e.cause != nil:
		return fmt.Sprintf("%v: %v: %v", e.Kind, e.Message, e.cause)
	}
	return fmt.Sprintf("%v: %v", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// NewTransportError creates a transport error
func NewTransportError(message string, cause error) *Error {
	return &Error{Kind: KindTransport, Message: message, cause: cause}
}

// NewDecodeError creates a decode error
func NewDecodeError(message string, cause error) *Error {
	return &Error{Kind: KindDecode, Message: message, cause: cause}
}

// NewUnauthorized creates an unauthorized error with no backing response.
func NewUnauthorized(message string) *Error {
	return &Error{Kind: KindUnauthorized, Message: message}
}

// NewStatusError maps a non-2xx response status to an error kind.
func NewStatusError(statusCode int, message, body string) *Error {
	kind := KindRequest
	switch {
	case statusCode == http.StatusUnauthorized:
		kind = KindUnauthorized
	case statusCode >= http.StatusInternalServerError:
		kind = KindServer
	}
	return &Error{Kind: kind, StatusCode: statusCode, Message: message, Body: body}
}

// IsUnauthorized reports whether err denotes an invalid or expired session.
func IsUnauthorized(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == KindUnauthorized
}

// KindOf returns the error kind, or empty when err is not a schema error.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
