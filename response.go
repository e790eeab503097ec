package oadr3

import (
	"fmt"
	"net/http"
)

// Response is the result of every dispatched call: exactly one of Payload
// (success) or Problem (failure reported by the server), plus the HTTP status.
// Payload may also be nil on success when the server sent no body.
type Response[T any] struct {
	Status  int       `json:"status"`
	Payload *T        `json:"response,omitempty"`
	Problem *APIError `json:"problem,omitempty"`
}

// Success reports whether the status is 2xx and no problem is present.
// It is the only rule deciding success; the presence of a body is irrelevant.
func (r *Response[T]) Success() bool {
	if r == nil {
		return false
	}

	return r.Status >= 200 && r.Status < 300 && r.Problem == nil
}

// Err returns the problem as an error, or nil if the response is successful.
func (r *Response[T]) Err() error {
	if r.Success() {
		return nil
	}
	if r == nil {
		return fmt.Errorf("nil response: %w", ErrProtocol)
	}
	if r.Problem != nil {
		return r.Problem
	}

	return &APIError{
		Type:   httpErrorType,
		Title:  http.StatusText(r.Status),
		Status: r.Status,
	}
}

const httpErrorType = "HTTP_ERROR"

// APIError is a problem-details description of a failed call, either sent by
// the VTN or synthesized from the raw response.
type APIError struct {
	Type     string `json:"type,omitempty"`
	Title    string `json:"title,omitempty"`
	Status   int    `json:"status,omitempty"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	msg := e.Title
	if msg == "" {
		msg = e.Type
	}
	if e.Status != 0 {
		msg = fmt.Sprintf("%d %s", e.Status, msg)
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}

	return msg
}

// empty reports whether no field was populated, i.e. the body did not have
// the problem-details shape.
func (e *APIError) empty() bool {
	return e.Type == "" && e.Title == "" && e.Status == 0 && e.Detail == "" && e.Instance == ""
}

// fallbackProblem synthesizes a problem for error bodies that could not be parsed.
func fallbackProblem(status int, body string) *APIError {
	return &APIError{
		Type:   httpErrorType,
		Title:  http.StatusText(status),
		Status: status,
		Detail: body,
	}
}
