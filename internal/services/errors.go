package services

import (
	"fmt"

	"github.com/votekeep/votekeep/internal/models"
)

// ServiceError represents a service-level error
type ServiceError struct {
	Message string
}

func (e *ServiceError) Error() string {
	return e.Message
}

// Service errors
var (
	ErrEmptyBallot = &ServiceError{Message: "ballot contains no selections"}
)

// AlreadyVotedError is returned when a voter who already cast a ballot
// submits again. It is an expected outcome, not a fault: BallotRef carries
// the reference of the committed ballot so a client retry can recognize its
// own earlier success.
type AlreadyVotedError struct {
	BallotRef string
}

func (e *AlreadyVotedError) Error() string {
	return "voter has already cast a ballot"
}

// ElectionNotActiveError is returned when a ballot arrives outside the
// election window.
type ElectionNotActiveError struct {
	Status models.ElectionStatus
}

func (e *ElectionNotActiveError) Error() string {
	return fmt.Sprintf("election is not active (status: %s)", e.Status)
}

// InvalidSelectionError names the position whose selection was rejected.
type InvalidSelectionError struct {
	PositionID int
	Reason     string
}

func (e *InvalidSelectionError) Error() string {
	return fmt.Sprintf("invalid selection for position %d: %s", e.PositionID, e.Reason)
}
