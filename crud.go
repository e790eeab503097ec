package oadr3

import (
	"context"
	"net/http"
	"net/url"
	"strings"
)

// Page holds the pagination parameters accepted by every search endpoint.
type Page struct {
	// Skip is the number of objects to skip, at least 0.
	Skip *int `url:"skip,omitempty" json:"skip,omitempty" validate:"omitempty,min=0"`
	// Limit is the maximum number of objects to return, between 0 and 50.
	Limit *int `url:"limit,omitempty" json:"limit,omitempty" validate:"omitempty,min=0,max=50"`
}

// Ptr returns a pointer to v, for optional parameters such as [Page.Skip].
func Ptr[T any](v T) *T {
	return &v
}

// objectPath joins escaped path segments below the base URL.
func objectPath(segments ...string) string {
	escaped := make([]string, len(segments))
	for i, s := range segments {
		escaped[i] = url.PathEscape(s)
	}

	return "/" + strings.Join(escaped, "/")
}

// search lists objects of type T at path, filtered by params.
func search[T any](ctx context.Context, c *Client, path string, params any) (*Response[[]T], error) {
	op := "search " + path
	if err := c.checkArgument(op, params); err != nil {
		return nil, err
	}

	target, err := withQuery(path, params)
	if err != nil {
		return nil, argumentError(op, err)
	}

	return dispatch[[]T](ctx, c, op, Request{Method: http.MethodGet, Path: target})
}

// fetch retrieves a single object.
func fetch[T any](ctx context.Context, c *Client, path string) (*Response[T], error) {
	return dispatch[T](ctx, c, "get "+path, Request{Method: http.MethodGet, Path: path})
}

// create posts a new object.
func create[T any](ctx context.Context, c *Client, path string, obj *T) (*Response[T], error) {
	op := "create " + path
	if err := c.checkBody(op, obj); err != nil {
		return nil, err
	}

	return dispatch[T](ctx, c, op, Request{Method: http.MethodPost, Path: path, Body: obj})
}

// update replaces an existing object.
func update[T any](ctx context.Context, c *Client, path string, obj *T) (*Response[T], error) {
	op := "update " + path
	if err := c.checkBody(op, obj); err != nil {
		return nil, err
	}

	return dispatch[T](ctx, c, op, Request{Method: http.MethodPut, Path: path, Body: obj})
}

// remove deletes an object. The body of a successful delete is informational:
// the deleted object is kept when the VTN echoes it, anything else yields a
// nil payload.
func remove[T any](ctx context.Context, c *Client, path string) (*Response[T], error) {
	return Execute[T](ctx, c, Request{Method: http.MethodDelete, Path: path}, decodeDeleted[T])
}

func decodeDeleted[T any](data []byte) (*T, error) {
	v, err := DecodeJSON[T](data)
	if err != nil {
		return nil, nil
	}

	return v, nil
}

func (c *Client) checkBody(op string, obj any) error {
	if isNil(obj) {
		return argumentErrorf(op, "object cannot be nil")
	}

	return c.checkArgument(op, obj)
}

// dispatch executes req and validates the payload of a successful response.
// The envelope itself is returned untouched.
func dispatch[T any](ctx context.Context, c *Client, op string, req Request) (*Response[T], error) {
	resp, err := Execute[T](ctx, c, req, DecodeJSON[T])
	if err != nil {
		return nil, err
	}

	if err := checkPayload(c, op, resp); err != nil {
		return nil, err
	}

	return resp, nil
}
