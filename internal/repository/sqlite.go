package repository

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/votekeep/votekeep/internal/errors"
	"github.com/votekeep/votekeep/internal/models"
)

// Repository provides data access methods
type Repository struct {
	db *sql.DB
}

// New creates a new Repository
func New(dbPath string) (*Repository, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	// Enable foreign key constraints
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, err
	}

	// SQLite works best with a single connection
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	repo := &Repository{db: db}

	if err := repo.migrate(); err != nil {
		return nil, err
	}

	return repo, nil
}

// DB returns the underlying database connection (for transactions)
func (r *Repository) DB() *sql.DB {
	return r.db
}

// Close closes the database connection
func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping checks if the database connection is alive
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// migrate runs database migrations
func (r *Repository) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS elections (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			starts_at DATETIME NOT NULL,
			ends_at DATETIME NOT NULL,
			status TEXT NOT NULL DEFAULT 'upcoming',
			hide_candidate_names BOOLEAN NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS positions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			election_id INTEGER NOT NULL,
			name TEXT NOT NULL,
			max_selections INTEGER NOT NULL DEFAULT 1,
			display_order INTEGER NOT NULL DEFAULT 0,
			FOREIGN KEY (election_id) REFERENCES elections(id)
		)`,
		`CREATE TABLE IF NOT EXISTS candidates (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			election_id INTEGER NOT NULL,
			position_id INTEGER NOT NULL,
			name TEXT NOT NULL,
			party TEXT,
			photo_url TEXT,
			FOREIGN KEY (election_id) REFERENCES elections(id),
			FOREIGN KEY (position_id) REFERENCES positions(id)
		)`,
		`CREATE TABLE IF NOT EXISTS voters (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			election_id INTEGER NOT NULL,
			name TEXT,
			email TEXT,
			access_code TEXT UNIQUE NOT NULL,
			status TEXT NOT NULL DEFAULT 'uncast',
			ballot_ref TEXT,
			cast_at DATETIME,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (election_id) REFERENCES elections(id)
		)`,
		`CREATE TABLE IF NOT EXISTS votes (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			voter_id INTEGER NOT NULL,
			election_id INTEGER NOT NULL,
			position_id INTEGER NOT NULL,
			candidate_id INTEGER NOT NULL,
			ballot_ref TEXT NOT NULL,
			cast_at DATETIME NOT NULL,
			FOREIGN KEY (voter_id) REFERENCES voters(id),
			FOREIGN KEY (election_id) REFERENCES elections(id),
			FOREIGN KEY (position_id) REFERENCES positions(id),
			FOREIGN KEY (candidate_id) REFERENCES candidates(id),
			UNIQUE(voter_id, position_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_positions_election ON positions(election_id)`,
		`CREATE INDEX IF NOT EXISTS idx_candidates_position ON candidates(position_id)`,
		`CREATE INDEX IF NOT EXISTS idx_candidates_election ON candidates(election_id)`,
		`CREATE INDEX IF NOT EXISTS idx_voters_election ON voters(election_id)`,
		`CREATE INDEX IF NOT EXISTS idx_voters_code ON voters(access_code)`,
		`CREATE INDEX IF NOT EXISTS idx_votes_election ON votes(election_id)`,
		`CREATE INDEX IF NOT EXISTS idx_votes_position ON votes(position_id)`,
		`CREATE INDEX IF NOT EXISTS idx_votes_ballot ON votes(ballot_ref)`,
	}

	for _, migration := range migrations {
		if _, err := r.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}

// ==================== Election Methods ====================

// CreateElection creates a new election
func (r *Repository) CreateElection(ctx context.Context, name string, startsAt, endsAt time.Time, status models.ElectionStatus, hideCandidateNames bool) (int64, error) {
	result, err := r.db.ExecContext(ctx, `
		INSERT INTO elections (name, starts_at, ends_at, status, hide_candidate_names)
		VALUES (?, ?, ?, ?, ?)
	`, name, startsAt, endsAt, string(status), hideCandidateNames)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// GetElection returns an election by ID
func (r *Repository) GetElection(ctx context.Context, id int) (*models.Election, error) {
	var e models.Election
	var status string
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, starts_at, ends_at, status, hide_candidate_names
		FROM elections WHERE id = ?
	`, id).Scan(&e.ID, &e.Name, &e.StartsAt, &e.EndsAt, &status, &e.HideCandidateNames)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("election not found")
	}
	if err != nil {
		return nil, err
	}
	e.Status = models.ElectionStatus(status)
	return &e, nil
}

// ListElections returns all elections ordered by start time
func (r *Repository) ListElections(ctx context.Context) ([]models.Election, error) {
	return r.queryElections(ctx, `
		SELECT id, name, starts_at, ends_at, status, hide_candidate_names
		FROM elections ORDER BY starts_at
	`)
}

// ListUnfinishedElections returns all elections not yet marked completed.
// These are the candidates for a status resolver sweep.
func (r *Repository) ListUnfinishedElections(ctx context.Context) ([]models.Election, error) {
	return r.queryElections(ctx, `
		SELECT id, name, starts_at, ends_at, status, hide_candidate_names
		FROM elections WHERE status != 'completed' ORDER BY starts_at
	`)
}

func (r *Repository) queryElections(ctx context.Context, query string) ([]models.Election, error) {
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var elections []models.Election
	for rows.Next() {
		var e models.Election
		var status string
		if err := rows.Scan(&e.ID, &e.Name, &e.StartsAt, &e.EndsAt, &status, &e.HideCandidateNames); err != nil {
			return nil, err
		}
		e.Status = models.ElectionStatus(status)
		elections = append(elections, e)
	}
	return elections, rows.Err()
}

// UpdateElectionStatus writes a new status only when the stored status still
// matches from. Returns false when the row was already moved on, which a
// concurrent resolver may legitimately have done (the computation is
// deterministic for a timestamp, so last writer wins).
func (r *Repository) UpdateElectionStatus(ctx context.Context, id int, from, to models.ElectionStatus) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE elections SET status = ? WHERE id = ? AND status = ?`,
		string(to), id, string(from))
	if err != nil {
		return false, err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// DeleteElection removes an election and its positions, candidates and
// voters. Elections with recorded votes are never deleted.
func (r *Repository) DeleteElection(ctx context.Context, id int) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var votes int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM votes WHERE election_id = ?`, id).Scan(&votes); err != nil {
		return err
	}
	if votes > 0 {
		return ErrHasVotes
	}

	for _, stmt := range []string{
		`DELETE FROM voters WHERE election_id = ?`,
		`DELETE FROM candidates WHERE election_id = ?`,
		`DELETE FROM positions WHERE election_id = ?`,
		`DELETE FROM elections WHERE id = ?`,
	} {
		if _, err := tx.ExecContext(ctx, stmt, id); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// ==================== Position Methods ====================

// CreatePosition creates a position under an election
func (r *Repository) CreatePosition(ctx context.Context, electionID int, name string, maxSelections, displayOrder int) (int64, error) {
	if maxSelections < 1 {
		maxSelections = 1
	}
	result, err := r.db.ExecContext(ctx, `
		INSERT INTO positions (election_id, name, max_selections, display_order)
		VALUES (?, ?, ?, ?)
	`, electionID, name, maxSelections, displayOrder)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// GetPosition returns a position by ID
func (r *Repository) GetPosition(ctx context.Context, id int) (*models.Position, error) {
	var p models.Position
	err := r.db.QueryRowContext(ctx, `
		SELECT id, election_id, name, max_selections, display_order
		FROM positions WHERE id = ?
	`, id).Scan(&p.ID, &p.ElectionID, &p.Name, &p.MaxSelections, &p.DisplayOrder)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("position not found")
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListPositions returns the positions of an election in display order
func (r *Repository) ListPositions(ctx context.Context, electionID int) ([]models.Position, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, election_id, name, max_selections, display_order
		FROM positions WHERE election_id = ? ORDER BY display_order, id
	`, electionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var positions []models.Position
	for rows.Next() {
		var p models.Position
		if err := rows.Scan(&p.ID, &p.ElectionID, &p.Name, &p.MaxSelections, &p.DisplayOrder); err != nil {
			return nil, err
		}
		positions = append(positions, p)
	}
	return positions, rows.Err()
}

// ==================== Candidate Methods ====================

// CreateCandidate creates a candidate under a position. The election ID is
// derived from the position so the denormalized column can never diverge.
func (r *Repository) CreateCandidate(ctx context.Context, positionID int, name, party, photoURL string) (int64, error) {
	pos, err := r.GetPosition(ctx, positionID)
	if err != nil {
		return 0, err
	}
	result, err := r.db.ExecContext(ctx, `
		INSERT INTO candidates (election_id, position_id, name, party, photo_url)
		VALUES (?, ?, ?, ?, ?)
	`, pos.ElectionID, positionID, name, party, photoURL)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// GetCandidate returns a candidate by ID
func (r *Repository) GetCandidate(ctx context.Context, id int) (*models.Candidate, error) {
	var c models.Candidate
	var party, photoURL sql.NullString
	err := r.db.QueryRowContext(ctx, `
		SELECT id, election_id, position_id, name, party, photo_url
		FROM candidates WHERE id = ?
	`, id).Scan(&c.ID, &c.ElectionID, &c.PositionID, &c.Name, &party, &photoURL)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("candidate not found")
	}
	if err != nil {
		return nil, err
	}
	c.Party = party.String
	c.PhotoURL = photoURL.String
	return &c, nil
}

// ListCandidates returns all candidates of an election ordered by position
// and candidate ID. The ordering is stable so downstream ranking and
// anonymization stay deterministic.
func (r *Repository) ListCandidates(ctx context.Context, electionID int) ([]models.Candidate, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, election_id, position_id, name, party, photo_url
		FROM candidates WHERE election_id = ? ORDER BY position_id, id
	`, electionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var candidates []models.Candidate
	for rows.Next() {
		var c models.Candidate
		var party, photoURL sql.NullString
		if err := rows.Scan(&c.ID, &c.ElectionID, &c.PositionID, &c.Name, &party, &photoURL); err != nil {
			return nil, err
		}
		c.Party = party.String
		c.PhotoURL = photoURL.String
		candidates = append(candidates, c)
	}
	return candidates, rows.Err()
}

// ==================== Voter Methods ====================

// CreateVoter registers a voter to an election
func (r *Repository) CreateVoter(ctx context.Context, electionID int, name, email, accessCode string) (int64, error) {
	result, err := r.db.ExecContext(ctx, `
		INSERT INTO voters (election_id, name, email, access_code, status)
		VALUES (?, ?, ?, ?, 'uncast')
	`, electionID, name, email, accessCode)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// GetVoter returns a voter by ID
func (r *Repository) GetVoter(ctx context.Context, id int) (*models.Voter, error) {
	return r.queryVoter(ctx, `
		SELECT id, election_id, name, email, access_code, status, ballot_ref, cast_at
		FROM voters WHERE id = ?
	`, id)
}

// GetVoterByAccessCode returns a voter by access code
func (r *Repository) GetVoterByAccessCode(ctx context.Context, code string) (*models.Voter, error) {
	return r.queryVoter(ctx, `
		SELECT id, election_id, name, email, access_code, status, ballot_ref, cast_at
		FROM voters WHERE access_code = ?
	`, code)
}

// GetVoterByBallotRef returns the voter that cast the given ballot
func (r *Repository) GetVoterByBallotRef(ctx context.Context, ref string) (*models.Voter, error) {
	return r.queryVoter(ctx, `
		SELECT id, election_id, name, email, access_code, status, ballot_ref, cast_at
		FROM voters WHERE ballot_ref = ?
	`, ref)
}

func (r *Repository) queryVoter(ctx context.Context, query string, arg interface{}) (*models.Voter, error) {
	var v models.Voter
	var name, email, ballotRef sql.NullString
	var status string
	var castAt sql.NullTime
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&v.ID, &v.ElectionID, &name, &email, &v.AccessCode, &status, &ballotRef, &castAt)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("voter not found")
	}
	if err != nil {
		return nil, err
	}
	v.Name = name.String
	v.Email = email.String
	v.Status = models.VoterStatus(status)
	v.BallotRef = ballotRef.String
	if castAt.Valid {
		t := castAt.Time
		v.CastAt = &t
	}
	return &v, nil
}

// ListVoters returns all voters registered to an election
func (r *Repository) ListVoters(ctx context.Context, electionID int) ([]models.Voter, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, election_id, name, email, access_code, status, ballot_ref, cast_at
		FROM voters WHERE election_id = ? ORDER BY id
	`, electionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var voters []models.Voter
	for rows.Next() {
		var v models.Voter
		var name, email, ballotRef sql.NullString
		var status string
		var castAt sql.NullTime
		if err := rows.Scan(&v.ID, &v.ElectionID, &name, &email, &v.AccessCode, &status, &ballotRef, &castAt); err != nil {
			return nil, err
		}
		v.Name = name.String
		v.Email = email.String
		v.Status = models.VoterStatus(status)
		v.BallotRef = ballotRef.String
		if castAt.Valid {
			t := castAt.Time
			v.CastAt = &t
		}
		voters = append(voters, v)
	}
	return voters, rows.Err()
}

// CountVotersForElection returns the number of registered voters, used as
// the registered-voters percentage denominator.
func (r *Repository) CountVotersForElection(ctx context.Context, electionID int) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM voters WHERE election_id = ?`, electionID).Scan(&count)
	return count, err
}

// ==================== Vote Methods ====================

// CandidateVoteCount is one row of the grouped tally query
type CandidateVoteCount struct {
	PositionID  int
	CandidateID int
	VoteCount   int
}

// CountVotesByCandidate returns committed vote counts grouped by position
// and candidate. Candidates without votes do not appear.
func (r *Repository) CountVotesByCandidate(ctx context.Context, electionID int) ([]CandidateVoteCount, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT position_id, candidate_id, COUNT(*) as vote_count
		FROM votes WHERE election_id = ?
		GROUP BY position_id, candidate_id
		ORDER BY position_id, vote_count DESC, candidate_id
	`, electionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []CandidateVoteCount
	for rows.Next() {
		var c CandidateVoteCount
		if err := rows.Scan(&c.PositionID, &c.CandidateID, &c.VoteCount); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

// ListVotesForBallot returns the vote rows committed under one ballot
func (r *Repository) ListVotesForBallot(ctx context.Context, ref string) ([]models.Vote, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, voter_id, election_id, position_id, candidate_id, ballot_ref, cast_at
		FROM votes WHERE ballot_ref = ? ORDER BY position_id
	`, ref)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var votes []models.Vote
	for rows.Next() {
		var v models.Vote
		if err := rows.Scan(&v.ID, &v.VoterID, &v.ElectionID, &v.PositionID, &v.CandidateID, &v.BallotRef, &v.CastAt); err != nil {
			return nil, err
		}
		votes = append(votes, v)
	}
	return votes, rows.Err()
}

// CountVotesForElection returns the total committed vote rows of an election
func (r *Repository) CountVotesForElection(ctx context.Context, electionID int) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM votes WHERE election_id = ?`, electionID).Scan(&count)
	return count, err
}

// GetElectionStats returns turnout statistics for an election
func (r *Repository) GetElectionStats(ctx context.Context, electionID int) (map[string]interface{}, error) {
	stats := make(map[string]interface{})

	var registered int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM voters WHERE election_id = ?`, electionID).Scan(&registered); err != nil {
		return nil, err
	}
	stats["registered_voters"] = registered

	var cast int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM voters WHERE election_id = ? AND status = 'cast'`, electionID).Scan(&cast); err != nil {
		return nil, err
	}
	stats["ballots_cast"] = cast

	var totalVotes int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM votes WHERE election_id = ?`, electionID).Scan(&totalVotes); err != nil {
		return nil, err
	}
	stats["total_votes"] = totalVotes

	var positions int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM positions WHERE election_id = ?`, electionID).Scan(&positions); err != nil {
		return nil, err
	}
	stats["total_positions"] = positions

	var candidates int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM candidates WHERE election_id = ?`, electionID).Scan(&candidates); err != nil {
		return nil, err
	}
	stats["total_candidates"] = candidates

	return stats, nil
}
