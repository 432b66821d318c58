package services

import (
	"context"

	"github.com/votekeep/votekeep/internal/models"
)

// ElectionServicer defines the interface for election operations
type ElectionServicer interface {
	CreateElection(ctx context.Context, params CreateElectionParams) (*models.Election, error)
	GetElection(ctx context.Context, id int) (*models.Election, error)
	ListElections(ctx context.Context) ([]models.Election, error)
	DeleteElection(ctx context.Context, id int) error
	CreatePosition(ctx context.Context, electionID int, name string, maxSelections, displayOrder int) (*models.Position, error)
	ListPositions(ctx context.Context, electionID int) ([]models.Position, error)
	CreateCandidate(ctx context.Context, positionID int, name, party, photoURL string) (*models.Candidate, error)
	ListCandidates(ctx context.Context, electionID int) ([]models.Candidate, error)
	ResolveAndPersist(ctx context.Context, electionID int) (*models.StatusChange, error)
	ResolveAndPersistAll(ctx context.Context) ([]models.StatusChange, []ResolveFailure, error)
}

// VoterServicer defines the interface for voter roster operations
type VoterServicer interface {
	RegisterVoter(ctx context.Context, electionID int, name, email string) (*models.Voter, error)
	ListVoters(ctx context.Context, electionID int) ([]models.Voter, error)
	GetVoterByAccessCode(ctx context.Context, code string) (*models.Voter, error)
	GetVoterByBallotRef(ctx context.Context, ref string) (*models.Voter, error)
}

// BallotServicer defines the interface for ballot submission
type BallotServicer interface {
	SubmitBallot(ctx context.Context, voterID int, selections models.BallotSelections) (*BallotReceipt, error)
	GetBallot(ctx context.Context, ref string) (*models.Voter, []models.Vote, error)
}

// ResultsServicer defines the interface for tally aggregation
type ResultsServicer interface {
	ComputeResults(ctx context.Context, electionID int, opts ResultsOptions) (*ElectionResults, error)
	GetTurnout(ctx context.Context, electionID int) (map[string]interface{}, error)
}

// Compile-time interface checks
var (
	_ ElectionServicer = (*ElectionService)(nil)
	_ VoterServicer    = (*VoterService)(nil)
	_ BallotServicer   = (*BallotService)(nil)
	_ ResultsServicer  = (*ResultsService)(nil)
)
