package domain

import (
	"time"

	"github.com/google/uuid"
)

// Roles a user record can carry. The service enforces that at most one
// admin record exists at any time.
const (
	RoleVoter = "voter"
	RoleAdmin = "admin"
)

// AccountKind tags which credential paths a user record supports.
// Modeling this as an explicit variant keeps the "does this account have a
// password" check exhaustive instead of an implicit empty-field test.
type AccountKind int

const (
	// AccountLocal has a national id and a password hash, no verified email.
	AccountLocal AccountKind = iota
	// AccountFederated was auto-provisioned from a verified identity-provider
	// email and holds no password.
	AccountFederated
	// AccountLinked carries both a local password credential and a verified
	// email.
	AccountLinked
)

// User is the canonical voter/admin identity aggregate.
// Identity is either a 12-digit national id (local signup) or a verified
// email (federated login); both may be present on the same record.
type User struct {
	UserID       uuid.UUID
	Name         string
	Age          int
	Email        string
	Mobile       string
	Address      string
	NationalID   string
	PasswordHash string
	Role         string
	HasVoted     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Kind derives the account variant from the stored credentials.
func (u User) Kind() AccountKind {
	hasLocal := u.NationalID != "" && u.PasswordHash != ""
	switch {
	case hasLocal && u.Email != "":
		return AccountLinked
	case hasLocal:
		return AccountLocal
	default:
		return AccountFederated
	}
}

// HasPassword reports whether the account can complete a password check.
func (u User) HasPassword() bool {
	switch u.Kind() {
	case AccountLocal, AccountLinked:
		return true
	default:
		return false
	}
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Candidate is one roster entry. VoteCount must always equal the number of
// persisted vote events for the candidate; both are only mutated inside the
// vote-cast and reset transactions.
type Candidate struct {
	CandidateID uuid.UUID
	Name        string
	Party       string
	VoteCount   int
	Votes       []VoteEvent
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// VoteEvent is the immutable record of one cast vote.
type VoteEvent struct {
	EventID     uuid.UUID
	CandidateID uuid.UUID
	VoterID     uuid.UUID
	VotedAt     time.Time
}

// TallyRow is one line of the public vote-count board, sorted by votes
// descending when served.
type TallyRow struct {
	CandidateID uuid.UUID `json:"candidate_id"`
	Candidate   string    `json:"candidate"`
	Party       string    `json:"party"`
	Votes       int       `json:"votes"`
}
