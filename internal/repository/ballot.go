package repository

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/mattn/go-sqlite3"
)

// BallotVote is one position selection inside a ballot insert.
type BallotVote struct {
	PositionID  int
	CandidateID int
}

// Ballot is the unit committed by CastBallot.
type Ballot struct {
	VoterID    int
	ElectionID int
	Ref        string
	CastAt     time.Time
	Votes      []BallotVote
}

// CastBallot commits a voter's full ballot as one transaction.
//
// The voter row is the contended resource: the conditional UPDATE acts as an
// atomic compare-and-set on status, so of two concurrent submissions for the
// same voter exactly one sees a row flip and the other gets ErrAlreadyCast.
// The UNIQUE(voter_id, position_id) constraint on votes is the backstop; a
// violation there also surfaces as ErrAlreadyCast. Any failure rolls back
// the whole ballot, so nothing partial is ever visible.
func (r *Repository) CastBallot(ctx context.Context, b Ballot) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
		UPDATE voters SET status = 'cast', ballot_ref = ?, cast_at = ?
		WHERE id = ? AND status = 'uncast'
	`, b.Ref, b.CastAt, b.VoterID)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrAlreadyCast
	}

	for _, v := range b.Votes {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO votes (voter_id, election_id, position_id, candidate_id, ballot_ref, cast_at)
			VALUES (?, ?, ?, ?, ?, ?)
		`, b.VoterID, b.ElectionID, v.PositionID, v.CandidateID, b.Ref, b.CastAt)
		if err != nil {
			if isUniqueViolation(err) {
				return ErrAlreadyCast
			}
			return err
		}
	}

	return tx.Commit()
}

// isUniqueViolation reports whether err is a sqlite unique constraint error
func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if stderrors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}
