package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/civicgrid/voting-service/internal/domain"
)

// UserRepository defines persistence operations for voter/admin identities.
// Uniqueness of national id, email, mobile and the single-admin invariant
// are enforced inside Create so concurrent signups cannot race past an
// in-process check.
type UserRepository interface {
	Create(ctx context.Context, user domain.User) (domain.User, error)
	GetByID(ctx context.Context, userID uuid.UUID) (domain.User, error)
	GetByNationalID(ctx context.Context, nationalID string) (domain.User, error)
	GetByEmail(ctx context.Context, email string) (domain.User, error)
	UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash string, updatedAt time.Time) error
	ListByRole(ctx context.Context, role string) ([]domain.User, error)
}

// CandidateRepository manages the candidate roster. Vote state is not
// mutated here; that belongs to VotingRepository.
type CandidateRepository interface {
	Create(ctx context.Context, candidate domain.Candidate) (domain.Candidate, error)
	Update(ctx context.Context, candidate domain.Candidate) (domain.Candidate, error)
	Delete(ctx context.Context, candidateID uuid.UUID) error
	GetByID(ctx context.Context, candidateID uuid.UUID) (domain.Candidate, error)
	List(ctx context.Context) ([]domain.Candidate, error)
	Tally(ctx context.Context) ([]domain.TallyRow, error)
}

// VotingRepository owns every mutation of vote state. Each method is a
// single database transaction so the per-candidate ledger and the
// per-user flag can never diverge, and the has-voted check-then-set is a
// conditional update rather than a separate read and write.
type VotingRepository interface {
	// CastVote appends a vote event, increments the candidate counter and
	// flips the voter's has_voted flag atomically. It returns
	// domain.ErrNotFound when candidate or voter is missing,
	// domain.ErrForbidden for admin voters and domain.ErrAlreadyVoted when
	// the flag was already set.
	CastVote(ctx context.Context, candidateID, voterID uuid.UUID, votedAt time.Time) (domain.VoteEvent, error)
	// ResetVotes zeroes all candidate counters, clears all vote events and
	// resets every voter's has_voted flag. Candidates are preserved.
	ResetVotes(ctx context.Context) error
	// ResetAndClear resets every voter's has_voted flag and then deletes
	// all candidate records and their events. Irreversible.
	ResetAndClear(ctx context.Context) error
}
