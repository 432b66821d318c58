package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// conditionalHTTPLogger only logs HTTP requests when HTTP logging is enabled
func (h *Handlers) conditionalHTTPLogger(next http.Handler) http.Handler {
	logger := middleware.Logger(next)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.Log != nil && h.Log.IsHTTPLoggingEnabled() {
			logger.ServeHTTP(w, r)
		} else {
			next.ServeHTTP(w, r)
		}
	})
}

// Router returns a configured chi router with all routes
func (h *Handlers) Router() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(h.conditionalHTTPLogger) // Custom conditional HTTP logger
	r.Use(middleware.Recoverer)
	r.Use(middleware.RedirectSlashes)
	r.Use(middleware.Timeout(60 * time.Second))

	// WebSocket
	if h.Hub != nil {
		r.Get("/ws", h.Hub.ServeWs)
	}

	// Public election API
	r.Get("/api/elections", h.handleListElections)
	r.Get("/api/elections/{id}", h.handleGetElection)
	r.Get("/api/elections/{id}/positions", h.handleListPositions)
	r.Get("/api/elections/{id}/candidates", h.handleListCandidates)
	r.Get("/api/elections/{id}/results", h.handleGetResults)

	// Ballot API (public, voter token required)
	r.Post("/api/ballots", h.handleSubmitBallot)
	r.Get("/api/ballots/{ref}", h.handleGetBallot)
	r.Get("/api/ballots/{ref}/qr", h.handleBallotQR)

	// Auth routes (public)
	r.Post("/api/admin/login", h.handleLogin)
	r.Post("/api/admin/logout", h.handleLogout)

	// Admin API (protected)
	r.Group(func(r chi.Router) {
		r.Use(h.Auth.RequireAuthAPI)

		// Elections
		r.Post("/api/admin/elections", h.handleCreateElection)
		r.Delete("/api/admin/elections/{id}", h.handleDeleteElection)
		r.Post("/api/admin/elections/resolve-status", h.handleResolveStatuses)

		// Positions & Candidates
		r.Post("/api/admin/elections/{id}/positions", h.handleCreatePosition)
		r.Post("/api/admin/positions/{id}/candidates", h.handleCreateCandidate)

		// Voters
		r.Post("/api/admin/elections/{id}/voters", h.handleRegisterVoter)
		r.Get("/api/admin/elections/{id}/voters", h.handleListVoters)

		// Stats
		r.Get("/api/admin/elections/{id}/turnout", h.handleGetTurnout)
	})

	return r
}
