package repository

import "errors"

// ErrNotFound is returned when a requested record is not found in the
// repository. This abstracts away the underlying storage implementation
// from the service layer.
var ErrNotFound = errors.New("record not found")

// ErrAlreadyCast is returned by CastBallot when the voter's status was
// already flipped to cast, either before the call or by a concurrent
// submission that won the race. The transaction is rolled back whole.
var ErrAlreadyCast = errors.New("voter has already cast a ballot")

// ErrHasVotes is returned when deleting an election that has recorded
// votes. Vote rows are immutable and must outlive such deletions.
var ErrHasVotes = errors.New("election has recorded votes")
