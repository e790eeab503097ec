package oadr3

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// freshnessBuffer is how long before expiry a cached token stops being used.
const freshnessBuffer = 30 * time.Second

const tokenPath = "/auth/token"

// maxExpiresIn is the largest expires_in, in seconds, a time.Duration can hold.
const maxExpiresIn = int64(math.MaxInt64 / time.Second)

// AccessToken is a bearer token issued by the VTN token endpoint.
// It is never mutated; a refresh replaces it.
type AccessToken struct {
	Value     string
	ExpiresAt time.Time
}

// tokenResponse is the body returned by the client-credentials exchange.
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
	Scope       string `json:"scope,omitempty"`
}

// tokenManager owns the cached token of a single client.
// The mutex is held across decide, exchange and store so that concurrent
// callers share one exchange.
type tokenManager struct {
	sync.Mutex

	token *AccessToken

	creds      Credentials
	httpClient *http.Client
	userAgent  string
	logger     *slog.Logger
	now        func() time.Time
}

// Token returns a valid access token, performing the OAuth2 client-credentials
// exchange when no cached token exists or the cached one is about to expire.
// Failures are reported as [ErrAuth].
func (c *Client) Token(ctx context.Context) (AccessToken, error) {
	return c.auth.validToken(ctx)
}

// InvalidateToken drops the cached token so the next call performs a new exchange.
func (c *Client) InvalidateToken() {
	c.auth.Lock()
	defer c.auth.Unlock()

	c.auth.token = nil
}

func (tm *tokenManager) validToken(ctx context.Context) (AccessToken, error) {
	tm.Lock()
	defer tm.Unlock()

	now := tm.now()
	if !tm.shouldRefresh(now) {
		return *tm.token, nil
	}

	token, err := tm.exchange(ctx, now)
	if err != nil {
		tm.logger.WarnContext(ctx, "access token exchange failed", slog.Any("error", err))
		return AccessToken{}, err
	}

	tm.token = &token
	tm.logger.DebugContext(ctx, "obtained access token", slog.Time("expires_at", token.ExpiresAt))

	return token, nil
}

// shouldRefresh checks if the cached token needs replacing.
func (tm *tokenManager) shouldRefresh(now time.Time) bool {
	if tm == nil || tm.token == nil {
		return true
	}
	if tm.token.Value == "" {
		return true
	}

	return !now.Add(freshnessBuffer).Before(tm.token.ExpiresAt)
}

// exchange performs the client-credentials grant against the token endpoint.
func (tm *tokenManager) exchange(ctx context.Context, now time.Time) (AccessToken, error) {
	form := url.Values{
		"grant_type":    {"client_credentials"},
		"client_id":     {tm.creds.clientID},
		"client_secret": {tm.creds.clientSecret},
		"scope":         {tm.creds.scope},
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		tm.creds.baseURL+tokenPath,
		strings.NewReader(form.Encode()),
	)
	if err != nil {
		return AccessToken{}, authError(0, fmt.Errorf("create request: %w", err))
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", tm.userAgent)

	resp, err := tm.httpClient.Do(req)
	if err != nil {
		return AccessToken{}, authError(0, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return AccessToken{}, authError(resp.StatusCode, fmt.Errorf("read response: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return AccessToken{}, authError(
			resp.StatusCode,
			fmt.Errorf("%s: %s", http.StatusText(resp.StatusCode), strings.TrimSpace(string(body))),
		)
	}

	if len(strings.TrimSpace(string(body))) == 0 {
		return AccessToken{}, authError(resp.StatusCode, errors.New("empty response body from token endpoint"))
	}

	var tr tokenResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		return AccessToken{}, authError(resp.StatusCode, fmt.Errorf("decode token response: %w", err))
	}

	if tr.AccessToken == "" {
		return AccessToken{}, authError(resp.StatusCode, errors.New("token response has no access_token"))
	}

	return AccessToken{
		Value:     tr.AccessToken,
		ExpiresAt: tokenExpiry(tr, now),
	}, nil
}

// tokenExpiry computes when the token stops being usable. Servers omitting
// expires_in often issue JWTs, so the exp claim is consulted in that case.
func tokenExpiry(tr tokenResponse, now time.Time) time.Time {
	if tr.ExpiresIn <= 0 {
		if exp, ok := jwtExpiry(tr.AccessToken); ok {
			return exp.Add(-freshnessBuffer)
		}
	}

	return now.Add(time.Duration(min(tr.ExpiresIn, maxExpiresIn))*time.Second - freshnessBuffer)
}

// jwtExpiry reads the exp claim without verifying the signature; the VTN,
// not the client, is the party that verifies the token.
func jwtExpiry(raw string) (time.Time, bool) {
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(raw, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}

	return claims.ExpiresAt.Time, true
}

func authError(status int, err error) error {
	return &Error{Kind: ErrAuth, Op: "token", Status: status, Err: err}
}
