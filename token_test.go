package oadr3

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// fakeVTN serves the token endpoint and hands every other request to api.
type fakeVTN struct {
	*httptest.Server

	tokenCalls atomic.Int32
	apiCalls   atomic.Int32

	token func(w http.ResponseWriter, r *http.Request, n int32)
	api   http.HandlerFunc
}

func newFakeVTN(t *testing.T, api http.HandlerFunc) *fakeVTN {
	t.Helper()

	v := &fakeVTN{
		api: api,
		token: func(w http.ResponseWriter, r *http.Request, n int32) {
			writeJSON(w, http.StatusOK, tokenResponse{
				AccessToken: fmt.Sprintf("token-%d", n),
				TokenType:   "Bearer",
				ExpiresIn:   3600,
			})
		},
	}

	v.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == tokenPath {
			v.token(w, r, v.tokenCalls.Add(1))
			return
		}

		v.apiCalls.Add(1)
		if v.api == nil {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL)
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		v.api(w, r)
	}))
	t.Cleanup(v.Close)

	return v
}

func (v *fakeVTN) client(t *testing.T, opts ...ClientOption) *Client {
	t.Helper()

	creds, err := NewCredentials(v.URL+"/", "client-id", "client-secret", "")
	if err != nil {
		t.Fatalf("NewCredentials() error = %v", err)
	}

	return New(creds, append([]ClientOption{WithHTTPClient(v.Client())}, opts...)...)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestTokenManager_shouldRefresh(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		token       *AccessToken
		wantRefresh bool
	}{
		{
			name:        "no token should refresh",
			token:       nil,
			wantRefresh: true,
		},
		{
			name:        "empty token value should refresh",
			token:       &AccessToken{ExpiresAt: now.Add(time.Hour)},
			wantRefresh: true,
		},
		{
			name:        "token expiring in 10 seconds should refresh",
			token:       &AccessToken{Value: "t", ExpiresAt: now.Add(10 * time.Second)},
			wantRefresh: true,
		},
		{
			name:        "token expiring in exactly 30 seconds should refresh",
			token:       &AccessToken{Value: "t", ExpiresAt: now.Add(30 * time.Second)},
			wantRefresh: true,
		},
		{
			name:        "token expiring in 31 seconds should not refresh",
			token:       &AccessToken{Value: "t", ExpiresAt: now.Add(31 * time.Second)},
			wantRefresh: false,
		},
		{
			name:        "token expiring in 10 minutes should not refresh",
			token:       &AccessToken{Value: "t", ExpiresAt: now.Add(10 * time.Minute)},
			wantRefresh: false,
		},
		{
			name:        "expired token should refresh",
			token:       &AccessToken{Value: "t", ExpiresAt: now.Add(-time.Minute)},
			wantRefresh: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tm := &tokenManager{token: tt.token}

			got := tm.shouldRefresh(now)
			if got != tt.wantRefresh {
				t.Errorf("shouldRefresh() = %v, want %v", got, tt.wantRefresh)
			}
		})
	}
}

func TestTokenManager_shouldRefresh_NilManager(t *testing.T) {
	var tm *tokenManager
	if !tm.shouldRefresh(time.Now()) {
		t.Error("shouldRefresh() on nil manager should return true")
	}
}

func TestTokenExpiry(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	exp := now.Add(2 * time.Hour)

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(exp),
	}).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}

	tests := []struct {
		name string
		resp tokenResponse
		want time.Time
	}{
		{
			name: "expires_in minus buffer",
			resp: tokenResponse{AccessToken: "opaque", ExpiresIn: 3600},
			want: now.Add(3570 * time.Second),
		},
		{
			name: "expires_in wins over jwt claim",
			resp: tokenResponse{AccessToken: signed, ExpiresIn: 60},
			want: now.Add(30 * time.Second),
		},
		{
			name: "jwt exp claim when expires_in is missing",
			resp: tokenResponse{AccessToken: signed},
			want: exp.Add(-30 * time.Second),
		},
		{
			name: "huge expires_in is clamped instead of wrapping",
			resp: tokenResponse{AccessToken: "opaque", ExpiresIn: math.MaxInt64},
			want: now.Add(time.Duration(maxExpiresIn)*time.Second - 30*time.Second),
		},
		{
			name: "opaque token without expires_in is already stale",
			resp: tokenResponse{AccessToken: "opaque"},
			want: now.Add(-30 * time.Second),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tokenExpiry(tt.resp, now)
			if !got.Equal(tt.want) {
				t.Errorf("tokenExpiry() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClient_Token(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	vtn := newFakeVTN(t, nil)
	vtn.token = func(w http.ResponseWriter, r *http.Request, n int32) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST request, got %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/x-www-form-urlencoded" {
			t.Errorf("Content-Type = %q", ct)
		}
		if accept := r.Header.Get("Accept"); accept != "application/json" {
			t.Errorf("Accept = %q", accept)
		}

		if err := r.ParseForm(); err != nil {
			t.Errorf("failed to parse form: %v", err)
		}
		want := map[string]string{
			"grant_type":    "client_credentials",
			"client_id":     "client-id",
			"client_secret": "client-secret",
			"scope":         "",
		}
		for k, v := range want {
			got, ok := r.PostForm[k]
			if !ok {
				t.Errorf("form field %s missing", k)
				continue
			}
			if got[0] != v {
				t.Errorf("form field %s = %q, want %q", k, got[0], v)
			}
		}

		writeJSON(w, http.StatusOK, tokenResponse{AccessToken: "abc", TokenType: "Bearer", ExpiresIn: 3600})
	}

	client := vtn.client(t)
	client.auth.now = func() time.Time { return now }

	token, err := client.Token(context.Background())
	if err != nil {
		t.Fatalf("Token() error = %v", err)
	}

	if token.Value != "abc" {
		t.Errorf("Value = %q, want abc", token.Value)
	}
	if want := now.Add(3570 * time.Second); !token.ExpiresAt.Equal(want) {
		t.Errorf("ExpiresAt = %v, want %v", token.ExpiresAt, want)
	}
	if client.auth.token == nil || client.auth.token.Value != "abc" {
		t.Error("token should be cached after a successful exchange")
	}
}

func TestClient_Token_Failures(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantStatus  int
		errContains string
	}{
		{
			name:        "unauthorized",
			status:      http.StatusUnauthorized,
			body:        "invalid client",
			wantStatus:  http.StatusUnauthorized,
			errContains: "invalid client",
		},
		{
			name:        "server error",
			status:      http.StatusInternalServerError,
			wantStatus:  http.StatusInternalServerError,
			errContains: "Internal Server Error",
		},
		{
			name:        "empty body",
			status:      http.StatusOK,
			wantStatus:  http.StatusOK,
			errContains: "empty response body",
		},
		{
			name:        "not json",
			status:      http.StatusOK,
			body:        "<html>",
			wantStatus:  http.StatusOK,
			errContains: "decode token response",
		},
		{
			name:        "missing access token",
			status:      http.StatusOK,
			body:        `{"token_type":"Bearer","expires_in":3600}`,
			wantStatus:  http.StatusOK,
			errContains: "no access_token",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vtn := newFakeVTN(t, nil)
			vtn.token = func(w http.ResponseWriter, r *http.Request, n int32) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}

			client := vtn.client(t)

			_, err := client.Token(context.Background())
			if !errors.Is(err, ErrAuth) {
				t.Fatalf("Token() error = %v, want ErrAuth", err)
			}

			var e *Error
			if !errors.As(err, &e) {
				t.Fatalf("Token() error type = %T, want *Error", err)
			}
			if e.Status != tt.wantStatus {
				t.Errorf("Status = %d, want %d", e.Status, tt.wantStatus)
			}
			if !strings.Contains(err.Error(), tt.errContains) {
				t.Errorf("Token() error = %v, should contain %q", err, tt.errContains)
			}

			if client.auth.token != nil {
				t.Error("nothing should be cached after a failed exchange")
			}
		})
	}
}

func TestClient_Token_Unreachable(t *testing.T) {
	vtn := newFakeVTN(t, nil)
	client := vtn.client(t)
	vtn.Close()

	_, err := client.Token(context.Background())
	if !errors.Is(err, ErrAuth) {
		t.Errorf("Token() error = %v, want ErrAuth", err)
	}
}

func TestClient_Token_ReusesCachedToken(t *testing.T) {
	vtn := newFakeVTN(t, nil)
	client := vtn.client(t)

	for range 5 {
		token, err := client.Token(context.Background())
		if err != nil {
			t.Fatalf("Token() error = %v", err)
		}
		if token.Value != "token-1" {
			t.Errorf("Value = %q, want token-1", token.Value)
		}
	}

	if got := vtn.tokenCalls.Load(); got != 1 {
		t.Errorf("token endpoint called %d times, want 1", got)
	}
}

func TestClient_Token_RefreshesWithinBuffer(t *testing.T) {
	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	now := start

	vtn := newFakeVTN(t, nil)
	client := vtn.client(t)
	client.auth.now = func() time.Time { return now }

	if _, err := client.Token(context.Background()); err != nil {
		t.Fatalf("Token() error = %v", err)
	}

	// Cached expiry is start+3570s, so the token is reused until start+3540s.
	now = start.Add(3539 * time.Second)
	token, err := client.Token(context.Background())
	if err != nil {
		t.Fatalf("Token() error = %v", err)
	}
	if token.Value != "token-1" {
		t.Errorf("Value = %q, want token-1", token.Value)
	}

	now = start.Add(3540 * time.Second)
	token, err = client.Token(context.Background())
	if err != nil {
		t.Fatalf("Token() error = %v", err)
	}
	if token.Value != "token-2" {
		t.Errorf("Value = %q, want token-2", token.Value)
	}

	if got := vtn.tokenCalls.Load(); got != 2 {
		t.Errorf("token endpoint called %d times, want 2", got)
	}
}

func TestClient_Token_ConcurrentCalls(t *testing.T) {
	vtn := newFakeVTN(t, nil)
	vtn.token = func(w http.ResponseWriter, r *http.Request, n int32) {
		time.Sleep(50 * time.Millisecond) // Simulate network delay
		writeJSON(w, http.StatusOK, tokenResponse{AccessToken: fmt.Sprintf("token-%d", n), ExpiresIn: 3600})
	}
	client := vtn.client(t)

	const callers = 10
	tokens := make([]string, callers)

	var wg sync.WaitGroup
	for i := range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			token, err := client.Token(context.Background())
			if err != nil {
				t.Errorf("Token() error = %v", err)
				return
			}
			tokens[i] = token.Value
		}()
	}
	wg.Wait()

	if got := vtn.tokenCalls.Load(); got != 1 {
		t.Errorf("token endpoint called %d times, want 1", got)
	}
	for i, token := range tokens {
		if token != "token-1" {
			t.Errorf("caller %d got token %q, want token-1", i, token)
		}
	}
}

func TestClient_InvalidateToken(t *testing.T) {
	vtn := newFakeVTN(t, nil)
	client := vtn.client(t)

	if _, err := client.Token(context.Background()); err != nil {
		t.Fatalf("Token() error = %v", err)
	}

	client.InvalidateToken()

	token, err := client.Token(context.Background())
	if err != nil {
		t.Fatalf("Token() error = %v", err)
	}
	if token.Value != "token-2" {
		t.Errorf("Value = %q, want token-2", token.Value)
	}
}
