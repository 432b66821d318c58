// Package identity provides a client for resolving caller tokens
// against an external identity provider. Ballot submissions carry an
// opaque voter token; the provider maps that token back to a
// registered voter before any votes are recorded.
package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Kind classifies a resolved caller.
type Kind string

const (
	KindAnonymous Kind = "anonymous"
	KindVoter     Kind = "voter"
	KindAdmin     Kind = "admin"
)

// Caller is the identity behind a request token.
type Caller struct {
	Kind    Kind   `json:"kind"`
	VoterID int    `json:"voter_id,omitempty"`
	Subject string `json:"subject,omitempty"`
}

// Client is the interface for identity resolution.
// This allows for mocking in tests.
type Client interface {
	// ResolveCaller exchanges a token for the caller it identifies.
	// An unknown token resolves to an anonymous caller, not an error;
	// errors are reserved for transport and provider failures.
	ResolveCaller(ctx context.Context, token string) (*Caller, error)

	// BaseURL returns the configured provider URL.
	BaseURL() string
}

// HTTPClient is the real implementation that talks to an identity provider.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewHTTPClient creates a new identity provider client.
func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// BaseURL returns the configured provider URL.
func (c *HTTPClient) BaseURL() string {
	return c.baseURL
}

// ResolveCaller POSTs the token to the provider's resolve endpoint.
func (c *HTTPClient) ResolveCaller(ctx context.Context, token string) (*Caller, error) {
	if token == "" {
		return &Caller{Kind: KindAnonymous}, nil
	}

	body, err := json.Marshal(map[string]string{"token": token})
	if err != nil {
		return nil, fmt.Errorf("marshaling resolve request: %w", err)
	}

	url := c.baseURL + "/api/v1/resolve"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating resolve request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("resolving caller: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return &Caller{Kind: KindAnonymous}, nil
	}
	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("identity provider returned %d: %s", resp.StatusCode, data)
	}

	var caller Caller
	if err := json.NewDecoder(resp.Body).Decode(&caller); err != nil {
		return nil, fmt.Errorf("decoding resolve response: %w", err)
	}
	if caller.Kind == "" {
		caller.Kind = KindAnonymous
	}

	return &caller, nil
}
