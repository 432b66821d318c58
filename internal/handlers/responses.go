package handlers

import "github.com/votekeep/votekeep/internal/models"

// StatusFailureResponse reports one election whose status resolve failed
type StatusFailureResponse struct {
	ElectionID int    `json:"election_id"`
	Error      string `json:"error"`
}

// ResolveStatusResponse is the response for the status resolve endpoint
type ResolveStatusResponse struct {
	Changes  []models.StatusChange   `json:"changes"`
	Failures []StatusFailureResponse `json:"failures,omitempty"`
}

// BallotResponse is the response for ballot lookups
type BallotResponse struct {
	BallotRef  string        `json:"ballot_ref"`
	ElectionID int           `json:"election_id"`
	VoterName  string        `json:"voter_name"`
	CastAt     string        `json:"cast_at,omitempty"`
	Votes      []models.Vote `json:"votes"`
}

// VoterResponse is the response for voter registration
type VoterResponse struct {
	ID         int    `json:"id"`
	ElectionID int    `json:"election_id"`
	Name       string `json:"name"`
	Email      string `json:"email,omitempty"`
	AccessCode string `json:"access_code"`
	Status     string `json:"status"`
}
