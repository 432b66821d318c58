package handlers

import (
	"github.com/votekeep/votekeep/internal/auth"
	"github.com/votekeep/votekeep/internal/services"
	"github.com/votekeep/votekeep/internal/websocket"
	"github.com/votekeep/votekeep/pkg/identity"
)

// Handlers holds all HTTP handler dependencies
type Handlers struct {
	Elections services.ElectionServicer
	Voters    services.VoterServicer
	Ballots   services.BallotServicer
	Results   services.ResultsServicer
	Identity  identity.Client
	Auth      *auth.Auth
	Hub       *websocket.Hub
	Log       HTTPLogger
}

// HTTPLogger is an interface for loggers that support HTTP logging control
type HTTPLogger interface {
	IsHTTPLoggingEnabled() bool
}

// New creates a new Handlers instance with all dependencies
func New(
	elections services.ElectionServicer,
	voters services.VoterServicer,
	ballots services.BallotServicer,
	results services.ResultsServicer,
	identityClient identity.Client,
	adminAuth *auth.Auth,
	hub *websocket.Hub,
	log HTTPLogger,
) *Handlers {
	return &Handlers{
		Elections: elections,
		Voters:    voters,
		Ballots:   ballots,
		Results:   results,
		Identity:  identityClient,
		Auth:      adminAuth,
		Hub:       hub,
		Log:       log,
	}
}

// NoopHTTPLogger is a test logger that always returns false for HTTP logging
type NoopHTTPLogger struct{}

func (NoopHTTPLogger) IsHTTPLoggingEnabled() bool { return false }

// NewForTesting creates a Handlers instance without a websocket hub
func NewForTesting(
	elections services.ElectionServicer,
	voters services.VoterServicer,
	ballots services.BallotServicer,
	results services.ResultsServicer,
	identityClient identity.Client,
) *Handlers {
	// Create a test auth with a known password
	testAuth := auth.New("test-password")
	return &Handlers{
		Elections: elections,
		Voters:    voters,
		Ballots:   ballots,
		Results:   results,
		Identity:  identityClient,
		Auth:      testAuth,
		Log:       NoopHTTPLogger{},
		// Hub left nil - broadcasts are skipped
	}
}
