package services

import (
	"context"
	stderrors "errors"
	"strings"
	"time"

	"github.com/votekeep/votekeep/internal/errors"
	"github.com/votekeep/votekeep/internal/logger"
	"github.com/votekeep/votekeep/internal/models"
	"github.com/votekeep/votekeep/internal/repository"
)

// ElectionServiceRepository defines the repository methods needed by ElectionService
type ElectionServiceRepository interface {
	repository.ElectionRepository
	repository.PositionRepository
	repository.CandidateRepository
}

// ElectionService handles election configuration and the status resolver
type ElectionService struct {
	log  logger.Logger
	repo ElectionServiceRepository
	now  func() time.Time
}

// NewElectionService creates a new ElectionService. now supplies the
// wall clock; pass time.Now outside of tests.
func NewElectionService(log logger.Logger, repo ElectionServiceRepository, now func() time.Time) *ElectionService {
	if now == nil {
		now = time.Now
	}
	return &ElectionService{log: log, repo: repo, now: now}
}

// ResolveStatus maps an election window and a wall-clock instant to the
// logically correct status. The window is half-open: an election is active
// from startsAt inclusive up to but excluding endsAt.
func ResolveStatus(startsAt, endsAt, now time.Time) models.ElectionStatus {
	switch {
	case now.Before(startsAt):
		return models.StatusUpcoming
	case now.Before(endsAt):
		return models.StatusActive
	default:
		return models.StatusCompleted
	}
}

// ResolveFailure reports one election whose status write failed during a
// sweep. Failures are isolated; they never abort the rest of the batch.
type ResolveFailure struct {
	ElectionID int
	Err        error
}

// ResolveAndPersist recomputes one election's status and writes it back
// if it differs from the stored value. Returns nil when nothing changed.
// Repeated invocation with no time change performs no writes.
func (s *ElectionService) ResolveAndPersist(ctx context.Context, electionID int) (*models.StatusChange, error) {
	election, err := s.repo.GetElection(ctx, electionID)
	if err != nil {
		return nil, err
	}
	return s.resolveElection(ctx, election)
}

func (s *ElectionService) resolveElection(ctx context.Context, election *models.Election) (*models.StatusChange, error) {
	next := ResolveStatus(election.StartsAt, election.EndsAt, s.now())
	if next == election.Status {
		return nil, nil
	}

	updated, err := s.repo.UpdateElectionStatus(ctx, election.ID, election.Status, next)
	if err != nil {
		return nil, err
	}
	if !updated {
		// A concurrent resolver moved the row first. The computation is
		// deterministic for a timestamp, so there is nothing left to report.
		return nil, nil
	}

	s.log.Info("Election status changed",
		"election_id", election.ID, "old_status", election.Status, "new_status", next)
	return &models.StatusChange{
		ElectionID: election.ID,
		OldStatus:  election.Status,
		NewStatus:  next,
	}, nil
}

// ResolveAndPersistAll recomputes the status of every election not already
// completed. A persistence failure on one election is reported in the
// failure list and resolution continues with the others.
func (s *ElectionService) ResolveAndPersistAll(ctx context.Context) ([]models.StatusChange, []ResolveFailure, error) {
	elections, err := s.repo.ListUnfinishedElections(ctx)
	if err != nil {
		return nil, nil, err
	}

	var changes []models.StatusChange
	var failures []ResolveFailure
	for i := range elections {
		change, err := s.resolveElection(ctx, &elections[i])
		if err != nil {
			s.log.Error("Status resolution failed", "election_id", elections[i].ID, "error", err)
			failures = append(failures, ResolveFailure{ElectionID: elections[i].ID, Err: err})
			continue
		}
		if change != nil {
			changes = append(changes, *change)
		}
	}
	return changes, failures, nil
}

// CreateElectionParams holds the fields for creating an election
type CreateElectionParams struct {
	Name               string
	StartsAt           time.Time
	EndsAt             time.Time
	HideCandidateNames bool
}

// CreateElection creates an election with its status derived from the
// current time rather than trusting a caller-supplied flag.
func (s *ElectionService) CreateElection(ctx context.Context, params CreateElectionParams) (*models.Election, error) {
	if strings.TrimSpace(params.Name) == "" {
		return nil, errors.Validation("election name is required")
	}
	if !params.StartsAt.Before(params.EndsAt) {
		return nil, errors.Validation("election window must start before it ends")
	}

	status := ResolveStatus(params.StartsAt, params.EndsAt, s.now())
	id, err := s.repo.CreateElection(ctx, params.Name, params.StartsAt, params.EndsAt, status, params.HideCandidateNames)
	if err != nil {
		return nil, err
	}

	s.log.Info("Election created", "election_id", id, "name", params.Name, "status", status)
	return s.repo.GetElection(ctx, int(id))
}

// GetElection returns an election by ID
func (s *ElectionService) GetElection(ctx context.Context, id int) (*models.Election, error) {
	return s.repo.GetElection(ctx, id)
}

// ListElections returns all elections
func (s *ElectionService) ListElections(ctx context.Context) ([]models.Election, error) {
	return s.repo.ListElections(ctx)
}

// DeleteElection removes an election without recorded votes
func (s *ElectionService) DeleteElection(ctx context.Context, id int) error {
	err := s.repo.DeleteElection(ctx, id)
	if stderrors.Is(err, repository.ErrHasVotes) {
		return errors.Conflict("election has recorded votes and cannot be deleted")
	}
	return err
}

// CreatePosition adds a contested position to an election
func (s *ElectionService) CreatePosition(ctx context.Context, electionID int, name string, maxSelections, displayOrder int) (*models.Position, error) {
	if strings.TrimSpace(name) == "" {
		return nil, errors.Validation("position name is required")
	}
	if _, err := s.repo.GetElection(ctx, electionID); err != nil {
		return nil, err
	}
	if maxSelections < 1 {
		maxSelections = 1
	}

	id, err := s.repo.CreatePosition(ctx, electionID, name, maxSelections, displayOrder)
	if err != nil {
		return nil, err
	}
	return s.repo.GetPosition(ctx, int(id))
}

// ListPositions returns the positions of an election
func (s *ElectionService) ListPositions(ctx context.Context, electionID int) ([]models.Position, error) {
	return s.repo.ListPositions(ctx, electionID)
}

// CreateCandidate adds a candidate to a position
func (s *ElectionService) CreateCandidate(ctx context.Context, positionID int, name, party, photoURL string) (*models.Candidate, error) {
	if strings.TrimSpace(name) == "" {
		return nil, errors.Validation("candidate name is required")
	}

	id, err := s.repo.CreateCandidate(ctx, positionID, name, party, photoURL)
	if err != nil {
		return nil, err
	}
	return s.repo.GetCandidate(ctx, int(id))
}

// ListCandidates returns all candidates of an election
func (s *ElectionService) ListCandidates(ctx context.Context, electionID int) ([]models.Candidate, error) {
	return s.repo.ListCandidates(ctx, electionID)
}
