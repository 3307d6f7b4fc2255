// Package supabase wraps the community SDKs for the hosted backend: gotrue-go
// for auth, postgrest-go for rows and storage-go for objects. Bearer tokens
// come from golang.org/x/oauth2 token sources and are handed to a fresh SDK
// client on every call.
package supabase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	gotrue "github.com/supabase-community/gotrue-go"
	"golang.org/x/oauth2"
)

// ErrNotConfigured is returned when no backend URL or key is set.
var ErrNotConfigured = errors.New("supabase client not initialized")

// Config holds the backend connection settings.
type Config struct {
	URL     string
	AnonKey string
	Timeout time.Duration
}

// Client talks to one backend project. The zero-token client acts as the
// anonymous role; WithToken/WithTokenSource derive user-scoped clients.
type Client struct {
	baseURL string
	anonKey string
	timeout time.Duration
	base    http.RoundTripper
	tokens  oauth2.TokenSource
	auth    gotrue.Client
}

// New returns a client, or ErrNotConfigured when URL or key is missing.
func New(cfg Config) (*Client, error) {
	if cfg.URL == "" || cfg.AnonKey == "" {
		return nil, ErrNotConfigured
	}
	if _, err := url.Parse(cfg.URL); err != nil {
		return nil, fmt.Errorf("parsing backend url: %w", err)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	baseURL := strings.TrimRight(cfg.URL, "/")
	return &Client{
		baseURL: baseURL,
		anonKey: cfg.AnonKey,
		timeout: cfg.Timeout,
		base:    http.DefaultTransport,
		tokens: oauth2.StaticTokenSource(&oauth2.Token{
			AccessToken: cfg.AnonKey,
			TokenType:   "Bearer",
		}),
		auth: gotrue.New("", cfg.AnonKey).WithCustomGoTrueURL(baseURL + "/auth/v1"),
	}, nil
}

// URL returns the project URL.
func (c *Client) URL() string { return c.baseURL }

// WithToken returns a client that authorizes as the holder of accessToken.
func (c *Client) WithToken(accessToken string) *Client {
	return c.WithTokenSource(oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: accessToken,
		TokenType:   "Bearer",
	}))
}

// WithTokenSource returns a client whose bearer token comes from ts.
func (c *Client) WithTokenSource(ts oauth2.TokenSource) *Client {
	cp := *c
	cp.tokens = ts
	return &cp
}

// accessToken returns the current bearer token, refreshing it through the
// token source when it has expired.
func (c *Client) accessToken() (string, error) {
	tok, err := c.tokens.Token()
	if err != nil {
		return "", err
	}
	return tok.AccessToken, nil
}

// httpClient returns an http.Client for one SDK call. The SDKs build their
// requests without a context, so ctx is attached in the transport.
func (c *Client) httpClient(ctx context.Context) http.Client {
	return http.Client{
		Timeout:   c.timeout,
		Transport: &contextTransport{ctx: ctx, base: c.base},
	}
}

// contextTransport binds outgoing requests to ctx.
type contextTransport struct {
	ctx  context.Context
	base http.RoundTripper
}

func (t *contextTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.base
	if base == nil {
		base = http.DefaultTransport
	}
	return base.RoundTrip(req.WithContext(t.ctx))
}
