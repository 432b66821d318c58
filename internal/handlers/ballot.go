package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/votekeep/votekeep/internal/models"
	"github.com/votekeep/votekeep/pkg/identity"
)

// voterTokenHeader carries the opaque token the identity provider resolves
const voterTokenHeader = "X-Voter-Token"

// handleSubmitBallot handles ballot submissions
func (h *Handlers) handleSubmitBallot(w http.ResponseWriter, r *http.Request) {
	caller, err := h.Identity.ResolveCaller(r.Context(), r.Header.Get(voterTokenHeader))
	if err != nil {
		respondError(w, InternalError(err))
		return
	}
	if caller.Kind != identity.KindVoter {
		respondError(w, Unauthorized("A voter token is required to cast a ballot"))
		return
	}

	var req BallotSubmitRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	selections := make(models.BallotSelections, len(req.Selections))
	for key, candidateIDs := range req.Selections {
		positionID, err := strconv.Atoi(key)
		if err != nil {
			respondError(w, BadRequest("Invalid position ID: "+key))
			return
		}
		selections[positionID] = candidateIDs
	}

	receipt, err := h.Ballots.SubmitBallot(r.Context(), caller.VoterID, selections)
	if err != nil {
		respondError(w, err)
		return
	}

	if h.Hub != nil {
		h.Hub.BroadcastBallotAccepted(receipt.ElectionID)
	}
	respondCreated(w, receipt)
}

// handleGetBallot returns the recorded ballot for a reference
func (h *Handlers) handleGetBallot(w http.ResponseWriter, r *http.Request) {
	ref := chi.URLParam(r, "ref")
	if ref == "" {
		respondError(w, BadRequest("Missing ballot reference"))
		return
	}

	voter, votes, err := h.Ballots.GetBallot(r.Context(), ref)
	if err != nil {
		respondError(w, err)
		return
	}

	resp := BallotResponse{
		BallotRef:  ref,
		ElectionID: voter.ElectionID,
		VoterName:  voter.Name,
		Votes:      votes,
	}
	if voter.CastAt != nil {
		resp.CastAt = voter.CastAt.UTC().Format(time.RFC3339)
	}
	respondOK(w, resp)
}

// handleBallotQR returns a QR code image encoding the ballot reference
func (h *Handlers) handleBallotQR(w http.ResponseWriter, r *http.Request) {
	ref := chi.URLParam(r, "ref")
	if ref == "" {
		respondError(w, BadRequest("Missing ballot reference"))
		return
	}

	// Verify the ballot exists before encoding anything
	if _, _, err := h.Ballots.GetBallot(r.Context(), ref); err != nil {
		respondError(w, err)
		return
	}

	png, err := qrcode.Encode(ref, qrcode.Medium, 256)
	if err != nil {
		respondError(w, InternalError(err))
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.Write(png)
}
