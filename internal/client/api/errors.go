package api

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a request failure.
type Kind int

const (
	// KindNetwork means the request never reached the server.
	KindNetwork Kind = iota + 1
	// KindClient covers 4xx responses: bad input, bad credentials, no access.
	KindClient
	// KindServer covers 5xx responses.
	KindServer
)

// Error is the normalized failure shape every request returns.
type Error struct {
	// Kind is the failure class.
	Kind Kind
	// Status is the HTTP status code, 0 for network failures.
	Status int
	// Message is safe to show to the user.
	Message string

	err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s (status %d)", e.Message, e.Status)
	}
	return e.Message
}

// Unwrap exposes the underlying transport or decode error, if any.
func (e *Error) Unwrap() error { return e.err }

// Retryable reports whether retrying the request could succeed:
// network failures and server errors qualify, client errors never do.
func (e *Error) Retryable() bool {
	return e.Kind == KindNetwork || e.Kind == KindServer
}

// NetworkError wraps a transport failure into the normalized shape.
func NetworkError(err error) *Error {
	return &Error{
		Kind:    KindNetwork,
		Message: "network error - please check your connection",
		err:     err,
	}
}

// StatusError maps an HTTP error status to the normalized shape.
// serverMessage is the message field from the response body, used for
// statuses without a fixed client-side message.
func StatusError(status int, serverMessage string) *Error {
	e := &Error{Status: status}
	switch {
	case status == http.StatusUnauthorized:
		e.Kind = KindClient
		e.Message = "session expired - please log in again"
	case status == http.StatusForbidden:
		e.Kind = KindClient
		e.Message = "you are not authorized to perform this action"
	case status == http.StatusTooManyRequests:
		e.Kind = KindClient
		e.Message = "too many requests - please slow down"
	case status >= 500:
		e.Kind = KindServer
		e.Message = "server error - please try again later"
	default:
		e.Kind = KindClient
		e.Message = serverMessage
		if e.Message == "" {
			e.Message = "request failed"
		}
	}
	return e
}

// AsError extracts the normalized *Error from err, if present.
func AsError(err error) (*Error, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
