package services

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/votekeep/votekeep/internal/logger"
	"github.com/votekeep/votekeep/internal/models"
	"github.com/votekeep/votekeep/internal/repository"
)

// ResultsServiceRepository defines the repository methods needed by ResultsService
type ResultsServiceRepository interface {
	repository.ElectionRepository
	repository.PositionRepository
	repository.CandidateRepository
	repository.VoterRepository
	repository.VoteRepository
}

// ResultsService aggregates committed votes into presentable tallies.
// It is read-only and safe to run concurrently with ballot submission.
type ResultsService struct {
	log  logger.Logger
	repo ResultsServiceRepository
}

// NewResultsService creates a new ResultsService
func NewResultsService(log logger.Logger, repo ResultsServiceRepository) *ResultsService {
	return &ResultsService{log: log, repo: repo}
}

// Denominator selects the base for percentage computation.
type Denominator int

const (
	// DenominatorPositionVotes divides by the votes cast for the position
	// (per-position turnout views). Default.
	DenominatorPositionVotes Denominator = iota
	// DenominatorRegisteredVoters divides by the voters registered to the
	// election regardless of per-position turnout (overall-share views).
	DenominatorRegisteredVoters
)

// String returns the wire name of the denominator
func (d Denominator) String() string {
	if d == DenominatorRegisteredVoters {
		return "registered_voters"
	}
	return "position_votes"
}

// ResultsOptions configures a tally computation
type ResultsOptions struct {
	Denominator Denominator
	PositionID  int // 0 means all positions
}

// CandidateTally is one candidate's standing within a position
type CandidateTally struct {
	CandidateID int     `json:"candidate_id"`
	Name        string  `json:"name"`
	Party       string  `json:"party,omitempty"`
	PhotoURL    string  `json:"photo_url,omitempty"`
	VoteCount   int     `json:"vote_count"`
	Percentage  float64 `json:"percentage"`
	Rank        int     `json:"rank"`
	Winner      bool    `json:"winner"`
	Tied        bool    `json:"tied,omitempty"`
}

// PositionResult holds the ranked tallies of one position
type PositionResult struct {
	PositionID    int              `json:"position_id"`
	Name          string           `json:"name"`
	MaxSelections int              `json:"max_selections"`
	TotalVotes    int              `json:"total_votes"`
	Candidates    []CandidateTally `json:"candidates"`
}

// ElectionResults is the full election summary
type ElectionResults struct {
	ElectionID       int                   `json:"election_id"`
	Name             string                `json:"name"`
	Status           models.ElectionStatus `json:"status"`
	Anonymized       bool                  `json:"anonymized"`
	Denominator      string                `json:"denominator"`
	RegisteredVoters int                   `json:"registered_voters"`
	Positions        []PositionResult      `json:"positions"`
}

// ComputeResults tallies committed votes per position: counts grouped by
// candidate, ordered by vote count descending (candidate ID ascending on
// equal counts, so the ordering is deterministic). Top candidates with a
// nonzero count are flagged winner; a leading tie flags every tied leader
// and sets Tied. A position with no candidates or no votes yields an
// empty/zeroed result, never an error.
func (s *ResultsService) ComputeResults(ctx context.Context, electionID int, opts ResultsOptions) (*ElectionResults, error) {
	election, err := s.repo.GetElection(ctx, electionID)
	if err != nil {
		return nil, err
	}

	positions, err := s.repo.ListPositions(ctx, electionID)
	if err != nil {
		return nil, err
	}
	if opts.PositionID != 0 {
		filtered := positions[:0]
		for _, p := range positions {
			if p.ID == opts.PositionID {
				filtered = append(filtered, p)
			}
		}
		positions = filtered
	}

	candidates, err := s.repo.ListCandidates(ctx, electionID)
	if err != nil {
		return nil, err
	}

	counts, err := s.repo.CountVotesByCandidate(ctx, electionID)
	if err != nil {
		return nil, err
	}
	votesByCandidate := make(map[int]int, len(counts))
	for _, c := range counts {
		votesByCandidate[c.CandidateID] = c.VoteCount
	}

	registered, err := s.repo.CountVotersForElection(ctx, electionID)
	if err != nil {
		return nil, err
	}

	// Candidates arrive ordered by (position, id); that ballot order also
	// drives the opaque aliases used when names are hidden.
	candidatesByPosition := make(map[int][]models.Candidate)
	for _, c := range candidates {
		candidatesByPosition[c.PositionID] = append(candidatesByPosition[c.PositionID], c)
	}

	results := &ElectionResults{
		ElectionID:       election.ID,
		Name:             election.Name,
		Status:           election.Status,
		Anonymized:       election.HideCandidateNames,
		Denominator:      opts.Denominator.String(),
		RegisteredVoters: registered,
		Positions:        make([]PositionResult, 0, len(positions)),
	}

	for _, position := range positions {
		result := PositionResult{
			PositionID:    position.ID,
			Name:          position.Name,
			MaxSelections: position.MaxSelections,
			Candidates:    []CandidateTally{},
		}

		for i, candidate := range candidatesByPosition[position.ID] {
			tally := CandidateTally{
				CandidateID: candidate.ID,
				Name:        candidate.Name,
				Party:       candidate.Party,
				PhotoURL:    candidate.PhotoURL,
				VoteCount:   votesByCandidate[candidate.ID],
			}
			if election.HideCandidateNames {
				tally.Name = fmt.Sprintf("Candidate %d", i+1)
				tally.Party = ""
				tally.PhotoURL = ""
			}
			result.TotalVotes += tally.VoteCount
			result.Candidates = append(result.Candidates, tally)
		}

		sort.SliceStable(result.Candidates, func(i, j int) bool {
			a, b := result.Candidates[i], result.Candidates[j]
			if a.VoteCount != b.VoteCount {
				return a.VoteCount > b.VoteCount
			}
			return a.CandidateID < b.CandidateID
		})

		denominator := result.TotalVotes
		if opts.Denominator == DenominatorRegisteredVoters {
			denominator = registered
		}

		for i := range result.Candidates {
			result.Candidates[i].Rank = i + 1
			if denominator > 0 {
				pct := float64(result.Candidates[i].VoteCount) * 100 / float64(denominator)
				result.Candidates[i].Percentage = math.Round(pct*100) / 100
			}
		}

		// Winner designation: the leader wins only with at least one vote;
		// every candidate tied with the leader shares the flag.
		if len(result.Candidates) > 0 && result.Candidates[0].VoteCount > 0 {
			leading := result.Candidates[0].VoteCount
			tied := len(result.Candidates) > 1 && result.Candidates[1].VoteCount == leading
			for i := range result.Candidates {
				if result.Candidates[i].VoteCount != leading {
					break
				}
				result.Candidates[i].Winner = true
				result.Candidates[i].Tied = tied
			}
		}

		results.Positions = append(results.Positions, result)
	}

	return results, nil
}

// GetTurnout returns registration and ballot counts for an election
func (s *ResultsService) GetTurnout(ctx context.Context, electionID int) (map[string]interface{}, error) {
	if _, err := s.repo.GetElection(ctx, electionID); err != nil {
		return nil, err
	}
	return s.repo.GetElectionStats(ctx, electionID)
}
