package oadr3

import (
	"net/url"
	"strings"
)

// Credentials identify a confidential OAuth2 client against a VTN.
// Use [NewCredentials] to create them; the zero value is unusable.
type Credentials struct {
	baseURL      string
	clientID     string
	clientSecret string
	scope        string
}

// NewCredentials normalises and checks the client configuration.
// Trailing slashes are stripped from baseURL, which must be absolute. baseURL, clientID and clientSecret
// must not be blank; scope is optional.
func NewCredentials(baseURL, clientID, clientSecret, scope string) (Credentials, error) {
	baseURL = strings.TrimSpace(baseURL)
	clientID = strings.TrimSpace(clientID)
	clientSecret = strings.TrimSpace(clientSecret)

	switch {
	case baseURL == "":
		return Credentials{}, argumentErrorf("credentials", "baseURL cannot be empty")
	case clientID == "":
		return Credentials{}, argumentErrorf("credentials", "clientID cannot be empty")
	case clientSecret == "":
		return Credentials{}, argumentErrorf("credentials", "clientSecret cannot be empty")
	}

	baseURL = strings.TrimRight(baseURL, "/")
	u, err := url.Parse(baseURL)
	if err != nil {
		return Credentials{}, argumentError("credentials", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return Credentials{}, argumentErrorf("credentials", "baseURL %q must be an absolute URL", baseURL)
	}

	return Credentials{
		baseURL:      baseURL,
		clientID:     clientID,
		clientSecret: clientSecret,
		scope:        strings.TrimSpace(scope),
	}, nil
}

// BaseURL returns the VTN base URL without a trailing slash.
func (c Credentials) BaseURL() string { return c.baseURL }

// ClientID returns the OAuth2 client id.
func (c Credentials) ClientID() string { return c.clientID }

// Scope returns the requested scope, which may be empty.
func (c Credentials) Scope() string { return c.scope }

// String implements [fmt.Stringer] without leaking the secret.
func (c Credentials) String() string {
	return "Credentials{baseURL=" + c.baseURL + ", clientID=" + c.clientID + ", clientSecret=***, scope=" + c.scope + "}"
}
