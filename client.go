package oadr3

import (
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"runtime"
	"runtime/debug"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/net/http2"
	"golang.org/x/time/rate"
)

const modulePath = "thde.io/oadr3"

// Client holds configuration needed to call an OpenADR 3 VTN.
// Use [New] to create a new client. A Client is safe for concurrent use.
type Client struct {
	creds Credentials

	httpClient *http.Client
	timeout    time.Duration
	userAgent  string
	logger     *slog.Logger
	limiter    *rate.Limiter
	validate   *validator.Validate

	auth *tokenManager
}

// ClientOption configures a Client before use.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
// It is used for both the token endpoint and resource calls.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithTimeout bounds a whole HTTP exchange, including reading the body.
// It overrides the timeout of the default or provided HTTP client.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithUserAgent sets a custom User-Agent header for API requests.
func WithUserAgent(userAgent string) ClientOption {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// WithLogger sets the structured logger. Defaults to discarding all records.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRateLimiter paces outgoing resource calls. Calls wait for the limiter
// before being sent; nothing is retried.
func WithRateLimiter(limiter *rate.Limiter) ClientOption {
	return func(c *Client) {
		c.limiter = limiter
	}
}

// New creates an OpenADR 3 client for the provided credentials and applies
// any provided options. No network call happens until the first request.
func New(creds Credentials, opts ...ClientOption) *Client {
	c := &Client{
		creds:      creds,
		httpClient: defaultHTTPClient(),
		logger:     slog.New(slog.DiscardHandler),
		validate:   newValidator(),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.userAgent == "" {
		c.userAgent = userAgent()
	}

	if c.timeout > 0 {
		httpClient := *c.httpClient
		httpClient.Timeout = c.timeout
		c.httpClient = &httpClient
	}

	c.auth = &tokenManager{
		creds:      creds,
		httpClient: c.httpClient,
		userAgent:  c.userAgent,
		logger:     c.logger,
		now:        time.Now,
	}

	return c
}

// Credentials returns the credentials the client was created with.
func (c *Client) Credentials() Credentials {
	return c.creds
}

// defaultHTTPClient bounds connect and TLS setup at 30s and waiting for
// response headers at 60s.
func defaultHTTPClient() *http.Client {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   30 * time.Second,
		ResponseHeaderTimeout: 60 * time.Second,
		ExpectContinueTimeout: time.Second,
		IdleConnTimeout:       90 * time.Second,
		MaxIdleConns:          100,
	}

	if _, err := http2.ConfigureTransports(transport); err != nil {
		transport.ForceAttemptHTTP2 = true
	}

	return &http.Client{
		Transport: transport,
		Timeout:   2 * time.Minute,
	}
}

// version returns the module version of the oadr3 package.
// It returns "devel" if built without module version information.
func version() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "devel"
	}

	for _, dep := range info.Deps {
		if dep.Path == modulePath {
			if dep.Version == "(devel)" {
				return "devel"
			}

			return dep.Version
		}
	}

	if info.Main.Path == modulePath && info.Main.Version != "(devel)" {
		return info.Main.Version
	}

	return "devel"
}

// userAgent returns the default User-Agent string for this package.
func userAgent() string {
	return fmt.Sprintf("go-oadr3/%s (%s; %s/%s)", version(), runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
