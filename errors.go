package oadr3

import (
	"errors"
	"fmt"
)

var (
	// ErrArgument is returned when a call violates the caller contract.
	// It is detected before any network activity.
	ErrArgument = errors.New("invalid argument")
	// ErrAuth is returned when no access token could be obtained.
	ErrAuth = errors.New("authentication failed")
	// ErrTransport is returned when the HTTP exchange itself failed.
	ErrTransport = errors.New("transport failure")
	// ErrProtocol is returned when a successful response cannot be decoded
	// or carries an invalid payload.
	ErrProtocol = errors.New("protocol violation")
)

// Error describes a call that could not produce a [Response].
// Kind is one of [ErrArgument], [ErrAuth], [ErrTransport] or [ErrProtocol],
// so callers classify with [errors.Is].
type Error struct {
	Kind error
	// Op names the failed operation, e.g. "token" or "GET /programs".
	Op string
	// Status is the HTTP status code when one was received.
	Status int
	Err    error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Kind.Error()
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Status != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.Status)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}

	return msg
}

// Unwrap exposes both the kind and the cause to [errors.Is] and [errors.As].
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}

	return []error{e.Kind, e.Err}
}

func argumentError(op string, err error) error {
	return &Error{Kind: ErrArgument, Op: op, Err: err}
}

func argumentErrorf(op, format string, args ...any) error {
	return argumentError(op, fmt.Errorf(format, args...))
}
