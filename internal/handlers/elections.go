package handlers

import (
	"net/http"
)

// handleListElections returns all elections
func (h *Handlers) handleListElections(w http.ResponseWriter, r *http.Request) {
	elections, err := h.Elections.ListElections(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, elections)
}

// handleGetElection returns a single election
func (h *Handlers) handleGetElection(w http.ResponseWriter, r *http.Request) {
	id, err := parseIntParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	election, err := h.Elections.GetElection(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, election)
}

// handleListPositions returns the positions of an election
func (h *Handlers) handleListPositions(w http.ResponseWriter, r *http.Request) {
	id, err := parseIntParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	positions, err := h.Elections.ListPositions(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, positions)
}

// handleListCandidates returns the candidates of an election
func (h *Handlers) handleListCandidates(w http.ResponseWriter, r *http.Request) {
	id, err := parseIntParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	candidates, err := h.Elections.ListCandidates(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, candidates)
}
