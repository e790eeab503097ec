package oadr3

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"reflect"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Request describes one authenticated call to the VTN.
type Request struct {
	// Method is one of GET, POST, PUT, PATCH or DELETE.
	Method string
	// Path is relative to the base URL and may carry a query string,
	// e.g. "/programs?skip=0".
	Path string
	// Body is serialized as JSON. It is required for POST, PUT and PATCH
	// and forbidden for GET and DELETE.
	Body any
}

// Decoder turns a non-empty success body into the expected payload.
type Decoder[T any] func(data []byte) (*T, error)

// DecodeJSON is the [Decoder] for JSON payloads.
func DecodeJSON[T any](data []byte) (*T, error) {
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, err
	}

	return &v, nil
}

// Execute performs req with a bearer token and normalizes the outcome.
//
// Any response received from the server yields a [Response]: 2xx statuses
// carry the decoded payload (nil if the body is empty or decode is nil),
// other statuses carry an [APIError]. An error is returned only when the call
// could not be made: [ErrArgument] for an invalid method/body combination,
// [ErrAuth] when no token could be obtained, [ErrTransport] when the exchange
// failed, and [ErrProtocol] when a success body cannot be decoded.
func Execute[T any](ctx context.Context, c *Client, req Request, decode Decoder[T]) (*Response[T], error) {
	op := req.Method + " " + req.Path

	payload, err := encodeBody(op, req)
	if err != nil {
		return nil, err
	}

	target, err := c.resolve(op, req.Path)
	if err != nil {
		return nil, err
	}

	token, err := c.Token(ctx)
	if err != nil {
		return nil, err
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, &Error{Kind: ErrTransport, Op: op, Err: err}
		}
	}

	httpReq, requestID, err := c.newRequest(ctx, req.Method, target, payload)
	if err != nil {
		return nil, &Error{Kind: ErrArgument, Op: op, Err: err}
	}
	httpReq.Header.Set("Authorization", "Bearer "+token.Value)

	start := time.Now()
	status, body, err := c.do(httpReq)
	if err != nil {
		return nil, &Error{Kind: ErrTransport, Op: op, Err: err}
	}

	c.logger.DebugContext(ctx, "request dispatched",
		slog.String("method", req.Method),
		slog.String("path", req.Path),
		slog.Int("status", status),
		slog.String("request_id", requestID),
		slog.Duration("duration", time.Since(start)),
	)

	return classify(op, status, body, decode)
}

// encodeBody enforces the method/body contract and serializes the body.
func encodeBody(op string, req Request) ([]byte, error) {
	hasBody := !isNil(req.Body)

	switch req.Method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		if !hasBody {
			return nil, argumentErrorf(op, "method %s requires a body", req.Method)
		}
	case http.MethodGet, http.MethodDelete:
		if hasBody {
			return nil, argumentErrorf(op, "method %s does not accept a body", req.Method)
		}
		return nil, nil
	default:
		return nil, argumentErrorf(op, "unsupported method %q", req.Method)
	}

	data, err := json.Marshal(req.Body)
	if err != nil {
		return nil, argumentError(op, fmt.Errorf("marshal request: %w", err))
	}

	return data, nil
}

// classify turns a received response into an envelope.
func classify[T any](op string, status int, body string, decode Decoder[T]) (*Response[T], error) {
	if status >= 200 && status < 300 {
		if body == "" || decode == nil {
			return &Response[T]{Status: status}, nil
		}

		payload, err := decode([]byte(body))
		if err != nil {
			return nil, &Error{Kind: ErrProtocol, Op: op, Status: status, Err: fmt.Errorf("decode response: %w", err)}
		}

		return &Response[T]{Status: status, Payload: payload}, nil
	}

	return &Response[T]{Status: status, Problem: parseProblem(status, body)}, nil
}

// parseProblem reads a problem-details body, falling back to a synthesized
// problem when the body is empty, not JSON, or not problem-shaped.
func parseProblem(status int, body string) *APIError {
	var problem APIError
	if err := json.Unmarshal([]byte(body), &problem); err != nil || problem.empty() {
		return fallbackProblem(status, body)
	}

	return &problem
}

// resolve joins path to the base URL and checks that the result parses.
func (c *Client) resolve(op, path string) (string, error) {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	target := c.creds.baseURL + path
	if _, err := url.Parse(target); err != nil {
		return "", argumentError(op, err)
	}

	return target, nil
}

// newRequest creates a new HTTP request for the resolved target URL.
func (c *Client) newRequest(
	ctx context.Context,
	method, target string,
	payload []byte,
) (*http.Request, string, error) {
	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reqBody)
	if err != nil {
		return nil, "", fmt.Errorf("create request: %w", err)
	}

	requestID := uuid.NewString()

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", requestID)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json; charset=utf-8")
	}

	return req, requestID, nil
}

// do executes the request and reads the whole body as text.
func (c *Client) do(req *http.Request) (int, string, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, "", fmt.Errorf("read response: %w", err)
	}

	return resp.StatusCode, string(body), nil
}

// isNil reports whether v is nil or a nil pointer, map, slice or interface.
func isNil(v any) bool {
	if v == nil {
		return true
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface:
		return rv.IsNil()
	default:
		return false
	}
}
