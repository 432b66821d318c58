package handlers

import (
	"net/http"
	"strconv"

	"github.com/votekeep/votekeep/internal/services"
)

// handleGetResults returns the tallied results of an election. Query
// parameters: denominator=position_votes|registered_voters (default
// position_votes), position=<id> to restrict to one position.
func (h *Handlers) handleGetResults(w http.ResponseWriter, r *http.Request) {
	id, err := parseIntParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	opts := services.ResultsOptions{}
	switch r.URL.Query().Get("denominator") {
	case "", "position_votes":
		opts.Denominator = services.DenominatorPositionVotes
	case "registered_voters":
		opts.Denominator = services.DenominatorRegisteredVoters
	default:
		respondError(w, BadRequest("Invalid denominator parameter"))
		return
	}

	if posStr := r.URL.Query().Get("position"); posStr != "" {
		positionID, err := strconv.Atoi(posStr)
		if err != nil {
			respondError(w, BadRequest("Invalid position parameter"))
			return
		}
		opts.PositionID = positionID
	}

	results, err := h.Results.ComputeResults(r.Context(), id, opts)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, results)
}

// handleGetTurnout returns turnout statistics for an election
func (h *Handlers) handleGetTurnout(w http.ResponseWriter, r *http.Request) {
	id, err := parseIntParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	stats, err := h.Results.GetTurnout(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, stats)
}
