// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// DataStoreScope is the scope required to push DataStore commands
const DataStoreScope = "alexa::datastore"

var (
	ErrTokenUnavailable = errors.New("access token unavailable")
	ErrNotConfigured    = errors.New("token client is not configured")
)

// Credential is a short-lived bearer credential
type Credential struct {
	TokenType   string
	AccessToken string
}

// Valid reports whether the credential can be used
func (c Credential) Valid() bool {
	return c.AccessToken != ""
}

// AuthorizationHeader returns "<token_type> <access_token>"
func (c Credential) AuthorizationHeader() string {
	return c.TokenType + " " + c.AccessToken
}

// TokenClient obtains credentials with the client-credentials grant.
// Every call hits the token endpoint; nothing is cached.
type TokenClient struct {
	cfg     clientcredentials.Config
	timeout time.Duration
	client  *http.Client
}

// NewTokenClient builds a client for tokenURL. timeout bounds each fetch;
// zero means no bound.
func NewTokenClient(clientID, clientSecret, tokenURL string, timeout time.Duration, client *http.Client) *TokenClient {
	if client == nil {
		client = http.DefaultClient
	}
	return &TokenClient{
		cfg: clientcredentials.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			TokenURL:     tokenURL,
			Scopes:       []string{DataStoreScope},
			AuthStyle:    oauth2.AuthStyleInParams,
		},
		timeout: timeout,
		client:  client,
	}
}

// FetchAccessToken requests a new credential. Failures are logged and
// returned wrapped in ErrTokenUnavailable; callers skip the sync.
func (c *TokenClient) FetchAccessToken(ctx context.Context) (Credential, error) {
	if c == nil || c.cfg.ClientID == "" || c.cfg.ClientSecret == "" {
		slog.Error("access token fetch skipped", "error", ErrNotConfigured)
		return Credential{}, fmt.Errorf("%w: %w", ErrTokenUnavailable, ErrNotConfigured)
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.client)

	start := time.Now()
	tok, err := c.cfg.Token(ctx)
	if err != nil {
		slog.Error("access token fetch failed",
			"error", err,
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return Credential{}, fmt.Errorf("%w: %w", ErrTokenUnavailable, err)
	}

	// Type() rewrites "bearer" to "Bearer"; keep what the server sent
	tokenType := tok.TokenType
	if tokenType == "" {
		tokenType = tok.Type()
	}
	cred := Credential{TokenType: tokenType, AccessToken: tok.AccessToken}
	if !cred.Valid() {
		slog.Error("access token fetch returned empty token")
		return Credential{}, fmt.Errorf("%w: empty access token", ErrTokenUnavailable)
	}

	slog.Info("access token fetched", "duration_ms", time.Since(start).Milliseconds())
	return cred, nil
}

// NewHTTPClient returns a client that stamps every request with userAgent
func NewHTTPClient(userAgent string, timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout:   timeout,
		Transport: &userAgentTransport{userAgent: userAgent, next: http.DefaultTransport},
	}
}

type userAgentTransport struct {
	userAgent string
	next      http.RoundTripper
}

func (t *userAgentTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	if t.userAgent != "" {
		r = r.Clone(r.Context())
		r.Header.Set("User-Agent", t.userAgent)
	}
	return t.next.RoundTrip(r)
}
