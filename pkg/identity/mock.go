package identity

import (
	"context"
)

// MockClient is a mock identity client for testing
type MockClient struct {
	callers    map[string]*Caller
	baseURL    string
	resolveErr error
}

// MockOption configures the mock client
type MockOption func(*MockClient)

// WithVoter maps a token to a voter caller
func WithVoter(token string, voterID int) MockOption {
	return func(m *MockClient) {
		m.callers[token] = &Caller{Kind: KindVoter, VoterID: voterID}
	}
}

// WithAdmin maps a token to an admin caller
func WithAdmin(token, subject string) MockOption {
	return func(m *MockClient) {
		m.callers[token] = &Caller{Kind: KindAdmin, Subject: subject}
	}
}

// WithResolveError sets an error to return from ResolveCaller
func WithResolveError(err error) MockOption {
	return func(m *MockClient) {
		m.resolveErr = err
	}
}

// WithBaseURL sets the base URL
func WithBaseURL(url string) MockOption {
	return func(m *MockClient) {
		m.baseURL = url
	}
}

// NewMockClient creates a new mock identity client
func NewMockClient(opts ...MockOption) *MockClient {
	m := &MockClient{
		callers: make(map[string]*Caller),
		baseURL: "http://mock-identity.local",
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// BaseURL returns the configured base URL
func (m *MockClient) BaseURL() string {
	return m.baseURL
}

// ResolveCaller returns the configured caller for the token, or an
// anonymous caller for unknown tokens
func (m *MockClient) ResolveCaller(ctx context.Context, token string) (*Caller, error) {
	if m.resolveErr != nil {
		return nil, m.resolveErr
	}
	if caller, ok := m.callers[token]; ok {
		return caller, nil
	}
	return &Caller{Kind: KindAnonymous}, nil
}

// Ensure implementations satisfy Client
var _ Client = (*MockClient)(nil)
var _ Client = (*HTTPClient)(nil)
