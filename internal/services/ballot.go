package services

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/google/uuid"

	"github.com/votekeep/votekeep/internal/logger"
	"github.com/votekeep/votekeep/internal/models"
	"github.com/votekeep/votekeep/internal/repository"
)

// BallotServiceRepository defines the repository methods needed by BallotService
type BallotServiceRepository interface {
	repository.ElectionRepository
	repository.PositionRepository
	repository.CandidateRepository
	repository.VoterRepository
	repository.VoteRepository
}

// StatusResolver refreshes an election's stored status from the clock
// before the active-window check. BallotService must not trust the cache.
type StatusResolver interface {
	ResolveAndPersist(ctx context.Context, electionID int) (*models.StatusChange, error)
}

// BallotService accepts a voter's full multi-position ballot as a single
// atomic, exactly-once operation.
type BallotService struct {
	log      logger.Logger
	repo     BallotServiceRepository
	resolver StatusResolver
	now      func() time.Time
}

// NewBallotService creates a new BallotService
func NewBallotService(log logger.Logger, repo BallotServiceRepository, resolver StatusResolver, now func() time.Time) *BallotService {
	if now == nil {
		now = time.Now
	}
	return &BallotService{log: log, repo: repo, resolver: resolver, now: now}
}

// BallotReceipt is returned on a successful submission. BallotRef is the
// audit reference clients can use to verify or de-duplicate retries.
type BallotReceipt struct {
	BallotRef     string    `json:"ballot_ref"`
	ElectionID    int       `json:"election_id"`
	CastAt        time.Time `json:"cast_at"`
	VotesRecorded int       `json:"votes_recorded"`
}

// SubmitBallot validates and commits the voter's selections as one unit.
// Either every selected position gets exactly one set of vote rows and the
// voter flips to cast, or nothing is written.
func (s *BallotService) SubmitBallot(ctx context.Context, voterID int, selections models.BallotSelections) (*BallotReceipt, error) {
	if len(selections) == 0 {
		return nil, ErrEmptyBallot
	}

	voter, err := s.repo.GetVoter(ctx, voterID)
	if err != nil {
		return nil, err
	}
	if voter.Status == models.VoterCast {
		return nil, &AlreadyVotedError{BallotRef: voter.BallotRef}
	}

	// The stored status is only a cache of the time derivation;
	// re-resolve at the instant of submission.
	if _, err := s.resolver.ResolveAndPersist(ctx, voter.ElectionID); err != nil {
		return nil, err
	}
	election, err := s.repo.GetElection(ctx, voter.ElectionID)
	if err != nil {
		return nil, err
	}
	if election.Status != models.StatusActive {
		return nil, &ElectionNotActiveError{Status: election.Status}
	}

	votes, err := s.validateSelections(ctx, election.ID, selections)
	if err != nil {
		return nil, err
	}

	ballot := repository.Ballot{
		VoterID:    voter.ID,
		ElectionID: election.ID,
		Ref:        uuid.NewString(),
		CastAt:     s.now().UTC(),
		Votes:      votes,
	}
	if err := s.repo.CastBallot(ctx, ballot); err != nil {
		if stderrors.Is(err, repository.ErrAlreadyCast) {
			// Lost a concurrent race; surface the winning ballot's
			// reference so the caller can recognize a duplicate retry.
			ref := ""
			if current, gerr := s.repo.GetVoter(ctx, voterID); gerr == nil {
				ref = current.BallotRef
			}
			return nil, &AlreadyVotedError{BallotRef: ref}
		}
		return nil, err
	}

	s.log.Info("Ballot recorded",
		"voter_id", voter.ID, "election_id", election.ID,
		"ballot_ref", ballot.Ref, "votes", len(votes))

	return &BallotReceipt{
		BallotRef:     ballot.Ref,
		ElectionID:    election.ID,
		CastAt:        ballot.CastAt,
		VotesRecorded: len(votes),
	}, nil
}

// validateSelections checks every selection against the election's ballot:
// each position must belong to the election, each candidate to its
// position, and the per-position selection count must respect
// max_selections. Partial ballots (abstaining on some positions) are fine.
func (s *BallotService) validateSelections(ctx context.Context, electionID int, selections models.BallotSelections) ([]repository.BallotVote, error) {
	positions, err := s.repo.ListPositions(ctx, electionID)
	if err != nil {
		return nil, err
	}
	candidates, err := s.repo.ListCandidates(ctx, electionID)
	if err != nil {
		return nil, err
	}

	positionByID := make(map[int]models.Position, len(positions))
	for _, p := range positions {
		positionByID[p.ID] = p
	}
	candidateByID := make(map[int]models.Candidate, len(candidates))
	for _, c := range candidates {
		candidateByID[c.ID] = c
	}

	for positionID := range selections {
		if _, ok := positionByID[positionID]; !ok {
			return nil, &InvalidSelectionError{PositionID: positionID, Reason: "position does not belong to this election"}
		}
	}

	// Walk positions in ballot order so vote rows are inserted
	// deterministically.
	var votes []repository.BallotVote
	for _, position := range positions {
		candidateIDs, ok := selections[position.ID]
		if !ok {
			continue // abstained
		}
		if len(candidateIDs) == 0 {
			return nil, &InvalidSelectionError{PositionID: position.ID, Reason: "no candidate selected"}
		}
		if len(candidateIDs) > position.MaxSelections {
			return nil, &InvalidSelectionError{PositionID: position.ID, Reason: "too many candidates selected"}
		}

		seen := make(map[int]bool, len(candidateIDs))
		for _, candidateID := range candidateIDs {
			if seen[candidateID] {
				return nil, &InvalidSelectionError{PositionID: position.ID, Reason: "duplicate candidate selected"}
			}
			seen[candidateID] = true

			candidate, ok := candidateByID[candidateID]
			if !ok || candidate.PositionID != position.ID {
				return nil, &InvalidSelectionError{PositionID: position.ID, Reason: "candidate is not on the ballot for this position"}
			}
			votes = append(votes, repository.BallotVote{PositionID: position.ID, CandidateID: candidateID})
		}
	}
	return votes, nil
}

// GetBallot returns the committed votes of a ballot reference together
// with the voter that cast it.
func (s *BallotService) GetBallot(ctx context.Context, ref string) (*models.Voter, []models.Vote, error) {
	voter, err := s.repo.GetVoterByBallotRef(ctx, ref)
	if err != nil {
		return nil, nil, err
	}
	votes, err := s.repo.ListVotesForBallot(ctx, ref)
	if err != nil {
		return nil, nil, err
	}
	return voter, votes, nil
}
