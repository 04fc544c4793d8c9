package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/civicgrid/voting-service/internal/domain"
	"github.com/civicgrid/voting-service/internal/ports"
)

// VotingRepository owns every mutation of vote state. Each public method is
// a single transaction so the candidate counter, the vote-event ledger and
// the voter flag never diverge.
type VotingRepository struct {
	db *gorm.DB
}

func NewVotingRepository(db *gorm.DB) *VotingRepository {
	return &VotingRepository{db: db}
}

var _ ports.VotingRepository = (*VotingRepository)(nil)

// CastVote validates the preconditions in order (candidate exists, voter
// exists, voter is not the admin, voter has not voted) and then records the
// vote. The has-voted check is a conditional update: a concurrent second
// cast by the same voter sees zero affected rows and fails, it cannot
// double-count.
func (r *VotingRepository) CastVote(ctx context.Context, candidateID, voterID uuid.UUID, votedAt time.Time) (domain.VoteEvent, error) {
	event := voteEventModel{
		EventID:     uuid.New(),
		CandidateID: candidateID,
		VoterID:     voterID,
		VotedAt:     votedAt,
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var candidate candidateModel
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("candidate_id = ?", candidateID).
			Take(&candidate).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("candidate %s: %w", candidateID, domain.ErrNotFound)
			}
			return fmt.Errorf("lock candidate: %w", err)
		}

		var voter userModel
		err = tx.Where("user_id = ?", voterID).Take(&voter).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("voter %s: %w", voterID, domain.ErrNotFound)
			}
			return fmt.Errorf("load voter: %w", err)
		}
		if voter.Role == domain.RoleAdmin {
			return fmt.Errorf("admin cannot vote: %w", domain.ErrForbidden)
		}

		res := tx.Model(&userModel{}).
			Where("user_id = ? AND has_voted = FALSE", voterID).
			Updates(map[string]any{
				"has_voted":  true,
				"updated_at": votedAt,
			})
		if res.Error != nil {
			return fmt.Errorf("mark voter: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("voter %s: %w", voterID, domain.ErrAlreadyVoted)
		}

		if err := tx.Create(&event).Error; err != nil {
			return fmt.Errorf("insert vote event: %w", err)
		}

		err = tx.Model(&candidateModel{}).
			Where("candidate_id = ?", candidateID).
			Updates(map[string]any{
				"vote_count": gorm.Expr("vote_count + 1"),
				"updated_at": votedAt,
			}).Error
		if err != nil {
			return fmt.Errorf("increment vote count: %w", err)
		}
		return nil
	})
	if err != nil {
		return domain.VoteEvent{}, err
	}
	return toDomainVoteEvent(event), nil
}

// ResetVotes clears vote state for a fresh election round while keeping the
// candidate roster intact.
func (r *VotingRepository) ResetVotes(ctx context.Context) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM vote_events").Error; err != nil {
			return fmt.Errorf("clear vote events: %w", err)
		}
		if err := tx.Exec("UPDATE candidates SET vote_count = 0, updated_at = now() WHERE vote_count <> 0").Error; err != nil {
			return fmt.Errorf("zero vote counts: %w", err)
		}
		if err := tx.Exec("UPDATE users SET has_voted = FALSE, updated_at = now() WHERE has_voted").Error; err != nil {
			return fmt.Errorf("reset voter flags: %w", err)
		}
		return nil
	})
}

// ResetAndClear tears the election down entirely: voter flags are reset and
// the candidate roster is deleted, cascading to its vote events.
func (r *VotingRepository) ResetAndClear(ctx context.Context) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("UPDATE users SET has_voted = FALSE, updated_at = now() WHERE has_voted").Error; err != nil {
			return fmt.Errorf("reset voter flags: %w", err)
		}
		if err := tx.Exec("DELETE FROM candidates").Error; err != nil {
			return fmt.Errorf("delete candidates: %w", err)
		}
		return nil
	})
}
