package models

import "time"

// ElectionStatus is the lifecycle state of an election, derived from its
// time window.
type ElectionStatus string

const (
	StatusUpcoming  ElectionStatus = "upcoming"
	StatusActive    ElectionStatus = "active"
	StatusCompleted ElectionStatus = "completed"
)

// VoterStatus tracks whether a voter has cast their ballot.
type VoterStatus string

const (
	VoterUncast VoterStatus = "uncast"
	VoterCast   VoterStatus = "cast"
)

// Election is a configured election with a voting window.
// Status is a stored cache of the pure time-window derivation and is
// refreshed by the status resolver.
type Election struct {
	ID                 int            `json:"id"`
	Name               string         `json:"name"`
	StartsAt           time.Time      `json:"starts_at"`
	EndsAt             time.Time      `json:"ends_at"`
	Status             ElectionStatus `json:"status"`
	HideCandidateNames bool           `json:"hide_candidate_names"`
}

// Position is a contested seat within an election.
type Position struct {
	ID            int    `json:"id"`
	ElectionID    int    `json:"election_id"`
	Name          string `json:"name"`
	MaxSelections int    `json:"max_selections"`
	DisplayOrder  int    `json:"display_order"`
}

// Candidate runs for exactly one position. ElectionID is denormalized
// from the position for query convenience and must always match it.
type Candidate struct {
	ID         int    `json:"id"`
	ElectionID int    `json:"election_id"`
	PositionID int    `json:"position_id"`
	Name       string `json:"name"`
	Party      string `json:"party,omitempty"`
	PhotoURL   string `json:"photo_url,omitempty"`
}

// Voter is registered to one election and may cast at most one ballot.
type Voter struct {
	ID         int         `json:"id"`
	ElectionID int         `json:"election_id"`
	Name       string      `json:"name"`
	Email      string      `json:"email,omitempty"`
	AccessCode string      `json:"access_code,omitempty"`
	Status     VoterStatus `json:"status"`
	BallotRef  string      `json:"ballot_ref,omitempty"`
	CastAt     *time.Time  `json:"cast_at,omitempty"`
}

// Vote is one immutable position selection inside a ballot.
type Vote struct {
	ID          int       `json:"id"`
	VoterID     int       `json:"voter_id"`
	ElectionID  int       `json:"election_id"`
	PositionID  int       `json:"position_id"`
	CandidateID int       `json:"candidate_id"`
	BallotRef   string    `json:"ballot_ref"`
	CastAt      time.Time `json:"cast_at"`
}

// BallotSelections maps position ID to the chosen candidate IDs.
// Most positions allow a single selection; positions with a higher
// max_selections accept a set.
type BallotSelections map[int][]int

// StatusChange records one election status transition written by the
// status resolver.
type StatusChange struct {
	ElectionID int            `json:"election_id"`
	OldStatus  ElectionStatus `json:"old_status"`
	NewStatus  ElectionStatus `json:"new_status"`
}

// WSMessage is the envelope for dashboard WebSocket pushes.
type WSMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}
