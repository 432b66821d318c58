package services

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/votekeep/votekeep/internal/errors"
	"github.com/votekeep/votekeep/internal/logger"
	"github.com/votekeep/votekeep/internal/models"
	"github.com/votekeep/votekeep/internal/repository"
)

// VoterServiceRepository defines the repository methods needed by VoterService
type VoterServiceRepository interface {
	repository.ElectionRepository
	repository.VoterRepository
}

// VoterService handles voter registration and lookup. Authentication of
// callers lives with the external identity provider; this service only
// manages the roster records the ballot core depends on.
type VoterService struct {
	log  logger.Logger
	repo VoterServiceRepository
}

// NewVoterService creates a new VoterService
func NewVoterService(log logger.Logger, repo VoterServiceRepository) *VoterService {
	return &VoterService{log: log, repo: repo}
}

// RegisterVoter registers a voter to an election with a generated access code
func (s *VoterService) RegisterVoter(ctx context.Context, electionID int, name, email string) (*models.Voter, error) {
	if strings.TrimSpace(name) == "" {
		return nil, errors.Validation("voter name is required")
	}
	if _, err := s.repo.GetElection(ctx, electionID); err != nil {
		return nil, err
	}

	code := uuid.NewString()
	id, err := s.repo.CreateVoter(ctx, electionID, name, email, code)
	if err != nil {
		return nil, err
	}

	s.log.Info("Voter registered", "voter_id", id, "election_id", electionID)
	return s.repo.GetVoter(ctx, int(id))
}

// ListVoters returns the roster of an election
func (s *VoterService) ListVoters(ctx context.Context, electionID int) ([]models.Voter, error) {
	return s.repo.ListVoters(ctx, electionID)
}

// GetVoterByAccessCode resolves an access code to a voter
func (s *VoterService) GetVoterByAccessCode(ctx context.Context, code string) (*models.Voter, error) {
	return s.repo.GetVoterByAccessCode(ctx, code)
}

// GetVoterByBallotRef returns the voter that cast the given ballot
func (s *VoterService) GetVoterByBallotRef(ctx context.Context, ref string) (*models.Voter, error) {
	return s.repo.GetVoterByBallotRef(ctx, ref)
}
