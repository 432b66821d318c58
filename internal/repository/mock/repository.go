package mock

import (
	"context"
	"time"

	"github.com/votekeep/votekeep/internal/models"
	"github.com/votekeep/votekeep/internal/repository"
)

// Repository wraps a real repository and allows injecting errors for testing.
// This provides a flexible way to test error paths without complex database manipulation.
//
// Usage:
//
//	realRepo := testutil.NewTestRepository(t)
//	mockRepo := mock.NewRepository(realRepo)
//	mockRepo.UpdateElectionStatusError = errors.New("database error")
//	svc := services.NewElectionService(log, mockRepo, nil)
//	_, _, err := svc.ResolveAndPersistAll(ctx)
//	// failures will now contain the injected error
type Repository struct {
	repository.FullRepository

	// ===== Election Errors =====
	CreateElectionError          error
	GetElectionError             error
	ListElectionsError           error
	ListUnfinishedElectionsError error
	UpdateElectionStatusError    error
	DeleteElectionError          error

	// ===== Position Errors =====
	CreatePositionError error
	GetPositionError    error
	ListPositionsError  error

	// ===== Candidate Errors =====
	CreateCandidateError error
	GetCandidateError    error
	ListCandidatesError  error

	// ===== Voter Errors =====
	CreateVoterError            error
	GetVoterError               error
	GetVoterByAccessCodeError   error
	GetVoterByBallotRefError    error
	ListVotersError             error
	CountVotersForElectionError error

	// ===== Vote Errors =====
	CastBallotError            error
	CountVotesByCandidateError error
	ListVotesForBallotError    error
	CountVotesForElectionError error
	GetElectionStatsError      error

	// UpdateElectionStatusFailFor injects the error only for the named
	// election, leaving other elections untouched
	UpdateElectionStatusFailFor int
}

// NewRepository creates a mock repository wrapping a real one
func NewRepository(real repository.FullRepository) *Repository {
	return &Repository{
		FullRepository: real,
	}
}

// ===== Election Methods =====

func (m *Repository) CreateElection(ctx context.Context, name string, startsAt, endsAt time.Time, status models.ElectionStatus, hideCandidateNames bool) (int64, error) {
	if m.CreateElectionError != nil {
		return 0, m.CreateElectionError
	}
	return m.FullRepository.CreateElection(ctx, name, startsAt, endsAt, status, hideCandidateNames)
}

func (m *Repository) GetElection(ctx context.Context, id int) (*models.Election, error) {
	if m.GetElectionError != nil {
		return nil, m.GetElectionError
	}
	return m.FullRepository.GetElection(ctx, id)
}

func (m *Repository) ListElections(ctx context.Context) ([]models.Election, error) {
	if m.ListElectionsError != nil {
		return nil, m.ListElectionsError
	}
	return m.FullRepository.ListElections(ctx)
}

func (m *Repository) ListUnfinishedElections(ctx context.Context) ([]models.Election, error) {
	if m.ListUnfinishedElectionsError != nil {
		return nil, m.ListUnfinishedElectionsError
	}
	return m.FullRepository.ListUnfinishedElections(ctx)
}

func (m *Repository) UpdateElectionStatus(ctx context.Context, id int, from, to models.ElectionStatus) (bool, error) {
	if m.UpdateElectionStatusError != nil {
		if m.UpdateElectionStatusFailFor == 0 || m.UpdateElectionStatusFailFor == id {
			return false, m.UpdateElectionStatusError
		}
	}
	return m.FullRepository.UpdateElectionStatus(ctx, id, from, to)
}

func (m *Repository) DeleteElection(ctx context.Context, id int) error {
	if m.DeleteElectionError != nil {
		return m.DeleteElectionError
	}
	return m.FullRepository.DeleteElection(ctx, id)
}

// ===== Position Methods =====

func (m *Repository) CreatePosition(ctx context.Context, electionID int, name string, maxSelections, displayOrder int) (int64, error) {
	if m.CreatePositionError != nil {
		return 0, m.CreatePositionError
	}
	return m.FullRepository.CreatePosition(ctx, electionID, name, maxSelections, displayOrder)
}

func (m *Repository) GetPosition(ctx context.Context, id int) (*models.Position, error) {
	if m.GetPositionError != nil {
		return nil, m.GetPositionError
	}
	return m.FullRepository.GetPosition(ctx, id)
}

func (m *Repository) ListPositions(ctx context.Context, electionID int) ([]models.Position, error) {
	if m.ListPositionsError != nil {
		return nil, m.ListPositionsError
	}
	return m.FullRepository.ListPositions(ctx, electionID)
}

// ===== Candidate Methods =====

func (m *Repository) CreateCandidate(ctx context.Context, positionID int, name, party, photoURL string) (int64, error) {
	if m.CreateCandidateError != nil {
		return 0, m.CreateCandidateError
	}
	return m.FullRepository.CreateCandidate(ctx, positionID, name, party, photoURL)
}

func (m *Repository) GetCandidate(ctx context.Context, id int) (*models.Candidate, error) {
	if m.GetCandidateError != nil {
		return nil, m.GetCandidateError
	}
	return m.FullRepository.GetCandidate(ctx, id)
}

func (m *Repository) ListCandidates(ctx context.Context, electionID int) ([]models.Candidate, error) {
	if m.ListCandidatesError != nil {
		return nil, m.ListCandidatesError
	}
	return m.FullRepository.ListCandidates(ctx, electionID)
}

// ===== Voter Methods =====

func (m *Repository) CreateVoter(ctx context.Context, electionID int, name, email, accessCode string) (int64, error) {
	if m.CreateVoterError != nil {
		return 0, m.CreateVoterError
	}
	return m.FullRepository.CreateVoter(ctx, electionID, name, email, accessCode)
}

func (m *Repository) GetVoter(ctx context.Context, id int) (*models.Voter, error) {
	if m.GetVoterError != nil {
		return nil, m.GetVoterError
	}
	return m.FullRepository.GetVoter(ctx, id)
}

func (m *Repository) GetVoterByAccessCode(ctx context.Context, code string) (*models.Voter, error) {
	if m.GetVoterByAccessCodeError != nil {
		return nil, m.GetVoterByAccessCodeError
	}
	return m.FullRepository.GetVoterByAccessCode(ctx, code)
}

func (m *Repository) GetVoterByBallotRef(ctx context.Context, ref string) (*models.Voter, error) {
	if m.GetVoterByBallotRefError != nil {
		return nil, m.GetVoterByBallotRefError
	}
	return m.FullRepository.GetVoterByBallotRef(ctx, ref)
}

func (m *Repository) ListVoters(ctx context.Context, electionID int) ([]models.Voter, error) {
	if m.ListVotersError != nil {
		return nil, m.ListVotersError
	}
	return m.FullRepository.ListVoters(ctx, electionID)
}

func (m *Repository) CountVotersForElection(ctx context.Context, electionID int) (int, error) {
	if m.CountVotersForElectionError != nil {
		return 0, m.CountVotersForElectionError
	}
	return m.FullRepository.CountVotersForElection(ctx, electionID)
}

// ===== Vote Methods =====

func (m *Repository) CastBallot(ctx context.Context, b repository.Ballot) error {
	if m.CastBallotError != nil {
		return m.CastBallotError
	}
	return m.FullRepository.CastBallot(ctx, b)
}

func (m *Repository) CountVotesByCandidate(ctx context.Context, electionID int) ([]repository.CandidateVoteCount, error) {
	if m.CountVotesByCandidateError != nil {
		return nil, m.CountVotesByCandidateError
	}
	return m.FullRepository.CountVotesByCandidate(ctx, electionID)
}

func (m *Repository) ListVotesForBallot(ctx context.Context, ref string) ([]models.Vote, error) {
	if m.ListVotesForBallotError != nil {
		return nil, m.ListVotesForBallotError
	}
	return m.FullRepository.ListVotesForBallot(ctx, ref)
}

func (m *Repository) CountVotesForElection(ctx context.Context, electionID int) (int, error) {
	if m.CountVotesForElectionError != nil {
		return 0, m.CountVotesForElectionError
	}
	return m.FullRepository.CountVotesForElection(ctx, electionID)
}

func (m *Repository) GetElectionStats(ctx context.Context, electionID int) (map[string]interface{}, error) {
	if m.GetElectionStatsError != nil {
		return nil, m.GetElectionStatsError
	}
	return m.FullRepository.GetElectionStats(ctx, electionID)
}

// Ensure mock implements the full interface
var _ repository.FullRepository = (*Repository)(nil)
