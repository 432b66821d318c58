package repository

import (
	"context"
	"time"

	"github.com/votekeep/votekeep/internal/models"
)

// ElectionRepository defines election data operations
type ElectionRepository interface {
	CreateElection(ctx context.Context, name string, startsAt, endsAt time.Time, status models.ElectionStatus, hideCandidateNames bool) (int64, error)
	GetElection(ctx context.Context, id int) (*models.Election, error)
	ListElections(ctx context.Context) ([]models.Election, error)
	ListUnfinishedElections(ctx context.Context) ([]models.Election, error)
	UpdateElectionStatus(ctx context.Context, id int, from, to models.ElectionStatus) (bool, error)
	DeleteElection(ctx context.Context, id int) error
}

// PositionRepository defines position data operations
type PositionRepository interface {
	CreatePosition(ctx context.Context, electionID int, name string, maxSelections, displayOrder int) (int64, error)
	GetPosition(ctx context.Context, id int) (*models.Position, error)
	ListPositions(ctx context.Context, electionID int) ([]models.Position, error)
}

// CandidateRepository defines candidate data operations
type CandidateRepository interface {
	CreateCandidate(ctx context.Context, positionID int, name, party, photoURL string) (int64, error)
	GetCandidate(ctx context.Context, id int) (*models.Candidate, error)
	ListCandidates(ctx context.Context, electionID int) ([]models.Candidate, error)
}

// VoterRepository defines voter data operations
type VoterRepository interface {
	CreateVoter(ctx context.Context, electionID int, name, email, accessCode string) (int64, error)
	GetVoter(ctx context.Context, id int) (*models.Voter, error)
	GetVoterByAccessCode(ctx context.Context, code string) (*models.Voter, error)
	GetVoterByBallotRef(ctx context.Context, ref string) (*models.Voter, error)
	ListVoters(ctx context.Context, electionID int) ([]models.Voter, error)
	CountVotersForElection(ctx context.Context, electionID int) (int, error)
}

// VoteRepository defines ballot and vote data operations
type VoteRepository interface {
	CastBallot(ctx context.Context, b Ballot) error
	CountVotesByCandidate(ctx context.Context, electionID int) ([]CandidateVoteCount, error)
	ListVotesForBallot(ctx context.Context, ref string) ([]models.Vote, error)
	CountVotesForElection(ctx context.Context, electionID int) (int, error)
	GetElectionStats(ctx context.Context, electionID int) (map[string]interface{}, error)
}

// FullRepository combines all repository interfaces
// Use this when a service needs access to multiple domains
type FullRepository interface {
	ElectionRepository
	PositionRepository
	CandidateRepository
	VoterRepository
	VoteRepository
}

// Ensure Repository implements all interfaces
var _ FullRepository = (*Repository)(nil)
