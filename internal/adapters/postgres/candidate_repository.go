package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/civicgrid/voting-service/internal/domain"
	"github.com/civicgrid/voting-service/internal/ports"
)

// CandidateRepository manages the candidate roster in Postgres. Vote-state
// mutations live in VotingRepository, never here.
type CandidateRepository struct {
	db *gorm.DB
}

func NewCandidateRepository(db *gorm.DB) *CandidateRepository {
	return &CandidateRepository{db: db}
}

var _ ports.CandidateRepository = (*CandidateRepository)(nil)

func (r *CandidateRepository) Create(ctx context.Context, candidate domain.Candidate) (domain.Candidate, error) {
	if candidate.CandidateID == uuid.Nil {
		candidate.CandidateID = uuid.New()
	}
	model := toCandidateModel(candidate)
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		if isUniqueViolation(err) {
			return domain.Candidate{}, fmt.Errorf("candidate already exists: %w", domain.ErrConflict)
		}
		return domain.Candidate{}, fmt.Errorf("insert candidate: %w", err)
	}
	return toDomainCandidate(model, nil), nil
}

// Update rewrites name and party only; the vote counter is owned by the
// vote-cast and reset transactions.
func (r *CandidateRepository) Update(ctx context.Context, candidate domain.Candidate) (domain.Candidate, error) {
	res := r.db.WithContext(ctx).
		Model(&candidateModel{}).
		Where("candidate_id = ?", candidate.CandidateID).
		Updates(map[string]any{
			"name":       candidate.Name,
			"party":      candidate.Party,
			"updated_at": candidate.UpdatedAt,
		})
	if res.Error != nil {
		return domain.Candidate{}, fmt.Errorf("update candidate: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.Candidate{}, fmt.Errorf("candidate %s: %w", candidate.CandidateID, domain.ErrNotFound)
	}
	return r.GetByID(ctx, candidate.CandidateID)
}

func (r *CandidateRepository) Delete(ctx context.Context, candidateID uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Where("candidate_id = ?", candidateID).
		Delete(&candidateModel{})
	if res.Error != nil {
		return fmt.Errorf("delete candidate: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("candidate %s: %w", candidateID, domain.ErrNotFound)
	}
	return nil
}

func (r *CandidateRepository) GetByID(ctx context.Context, candidateID uuid.UUID) (domain.Candidate, error) {
	var model candidateModel
	err := r.db.WithContext(ctx).Where("candidate_id = ?", candidateID).Take(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Candidate{}, fmt.Errorf("candidate %s: %w", candidateID, domain.ErrNotFound)
		}
		return domain.Candidate{}, fmt.Errorf("get candidate: %w", err)
	}

	var votes []voteEventModel
	err = r.db.WithContext(ctx).
		Where("candidate_id = ?", candidateID).
		Order("voted_at ASC").
		Find(&votes).Error
	if err != nil {
		return domain.Candidate{}, fmt.Errorf("load vote events: %w", err)
	}
	return toDomainCandidate(model, votes), nil
}

func (r *CandidateRepository) List(ctx context.Context) ([]domain.Candidate, error) {
	var models []candidateModel
	err := r.db.WithContext(ctx).Order("created_at ASC").Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("list candidates: %w", err)
	}
	candidates := make([]domain.Candidate, 0, len(models))
	for _, m := range models {
		candidates = append(candidates, toDomainCandidate(m, nil))
	}
	return candidates, nil
}

// Tally returns the public board ordered by vote count descending; ties
// break on name for a stable order.
func (r *CandidateRepository) Tally(ctx context.Context) ([]domain.TallyRow, error) {
	var models []candidateModel
	err := r.db.WithContext(ctx).
		Order("vote_count DESC, name ASC").
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("tally candidates: %w", err)
	}
	rows := make([]domain.TallyRow, 0, len(models))
	for _, m := range models {
		rows = append(rows, domain.TallyRow{
			CandidateID: m.CandidateID,
			Candidate:   m.Name,
			Party:       m.Party,
			Votes:       m.VoteCount,
		})
	}
	return rows, nil
}
