package handlers

// ElectionCreateRequest represents a request to create an election
type ElectionCreateRequest struct {
	Name               string `json:"name"`
	StartsAt           string `json:"starts_at"`
	EndsAt             string `json:"ends_at"`
	HideCandidateNames bool   `json:"hide_candidate_names"`
}

// PositionCreateRequest represents a request to create a position
type PositionCreateRequest struct {
	Name          string `json:"name"`
	MaxSelections int    `json:"max_selections"`
	DisplayOrder  int    `json:"display_order"`
}

// CandidateCreateRequest represents a request to create a candidate
type CandidateCreateRequest struct {
	Name     string `json:"name"`
	Party    string `json:"party"`
	PhotoURL string `json:"photo_url"`
}

// VoterCreateRequest represents a request to register a voter
type VoterCreateRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// BallotSubmitRequest represents a request to cast a ballot. Selections
// maps position IDs (as JSON object keys) to the chosen candidate IDs.
type BallotSubmitRequest struct {
	Selections map[string][]int `json:"selections"`
}

// LoginRequest represents an admin login
type LoginRequest struct {
	Password string `json:"password"`
}
