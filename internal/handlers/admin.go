package handlers

import (
	"net/http"
	"time"

	"github.com/votekeep/votekeep/internal/services"
)

// handleCreateElection creates a new election
func (h *Handlers) handleCreateElection(w http.ResponseWriter, r *http.Request) {
	var req ElectionCreateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	startsAt, err := time.Parse(time.RFC3339, req.StartsAt)
	if err != nil {
		respondError(w, BadRequest("Invalid starts_at, expected RFC3339"))
		return
	}
	endsAt, err := time.Parse(time.RFC3339, req.EndsAt)
	if err != nil {
		respondError(w, BadRequest("Invalid ends_at, expected RFC3339"))
		return
	}

	election, err := h.Elections.CreateElection(r.Context(), services.CreateElectionParams{
		Name:               req.Name,
		StartsAt:           startsAt,
		EndsAt:             endsAt,
		HideCandidateNames: req.HideCandidateNames,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respondCreated(w, election)
}

// handleDeleteElection deletes an election without recorded ballots
func (h *Handlers) handleDeleteElection(w http.ResponseWriter, r *http.Request) {
	id, err := parseIntParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	if err := h.Elections.DeleteElection(r.Context(), id); err != nil {
		respondError(w, err)
		return
	}
	respondDeleted(w)
}

// handleCreatePosition adds a position to an election
func (h *Handlers) handleCreatePosition(w http.ResponseWriter, r *http.Request) {
	id, err := parseIntParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	var req PositionCreateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	position, err := h.Elections.CreatePosition(r.Context(), id, req.Name, req.MaxSelections, req.DisplayOrder)
	if err != nil {
		respondError(w, err)
		return
	}
	respondCreated(w, position)
}

// handleCreateCandidate adds a candidate to a position
func (h *Handlers) handleCreateCandidate(w http.ResponseWriter, r *http.Request) {
	positionID, err := parseIntParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	var req CandidateCreateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	candidate, err := h.Elections.CreateCandidate(r.Context(), positionID, req.Name, req.Party, req.PhotoURL)
	if err != nil {
		respondError(w, err)
		return
	}
	respondCreated(w, candidate)
}

// handleRegisterVoter registers a voter to an election roster
func (h *Handlers) handleRegisterVoter(w http.ResponseWriter, r *http.Request) {
	id, err := parseIntParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	var req VoterCreateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	voter, err := h.Voters.RegisterVoter(r.Context(), id, req.Name, req.Email)
	if err != nil {
		respondError(w, err)
		return
	}

	respondCreated(w, VoterResponse{
		ID:         voter.ID,
		ElectionID: voter.ElectionID,
		Name:       voter.Name,
		Email:      voter.Email,
		AccessCode: voter.AccessCode,
		Status:     string(voter.Status),
	})
}

// handleListVoters returns the roster of an election
func (h *Handlers) handleListVoters(w http.ResponseWriter, r *http.Request) {
	id, err := parseIntParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	voters, err := h.Voters.ListVoters(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, voters)
}

// handleResolveStatuses recomputes and persists every unfinished
// election's status, broadcasting each transition
func (h *Handlers) handleResolveStatuses(w http.ResponseWriter, r *http.Request) {
	changes, failures, err := h.Elections.ResolveAndPersistAll(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}

	if h.Hub != nil {
		for _, change := range changes {
			h.Hub.BroadcastStatusChange(change)
		}
	}

	resp := ResolveStatusResponse{Changes: changes}
	for _, f := range failures {
		resp.Failures = append(resp.Failures, StatusFailureResponse{
			ElectionID: f.ElectionID,
			Error:      f.Err.Error(),
		})
	}
	respondOK(w, resp)
}
