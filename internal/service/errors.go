package service

import (
	"errors"
	"fmt"
	"net/http"
)

// TransportError reports any failed remote call: network failure, non-2xx
// status or an unreadable body are all reported the same way.
type TransportError struct {
	// Op is the operation name, e.g. "create task".
	Op string

	// Status is the HTTP status code, or 0 when no response was received.
	Status int

	// Reason is the HTTP status text.
	Reason string

	// Message is the server-supplied error message, if any.
	Message string

	// Err is the underlying cause, if any.
	Err error
}

func (e *TransportError) Error() string {
	msg := "failed to " + e.Op
	if e.Status != 0 {
		reason := e.Reason
		if reason == "" {
			reason = http.StatusText(e.Status)
		}
		msg += fmt.Sprintf(": %d %s", e.Status, reason)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *TransportError) Unwrap() error { return e.Err }

// IsNotFound reports whether err is a TransportError with status 404.
func IsNotFound(err error) bool {
	var te *TransportError
	return errors.As(err, &te) && te.Status == http.StatusNotFound
}

// IsTransport reports whether err is a TransportError.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}
