package application

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/civicgrid/voting-service/internal/domain"
)

// CreateCandidate adds a roster entry, admin only.
func (s *Service) CreateCandidate(ctx context.Context, p Principal, req CandidateRequest) (CandidateResponse, error) {
	if err := s.requireAdmin(p); err != nil {
		return CandidateResponse{}, err
	}
	name := strings.TrimSpace(req.Name)
	party := strings.TrimSpace(req.Party)
	if name == "" || party == "" {
		return CandidateResponse{}, fmt.Errorf("%w: candidate name and party are required", domain.ErrInvalidInput)
	}

	now := s.nowFn()
	candidate, err := s.candidates.Create(ctx, domain.Candidate{
		CandidateID: uuid.New(),
		Name:        name,
		Party:       party,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return CandidateResponse{}, err
	}
	s.invalidateTally(ctx)
	return toCandidateResponse(candidate), nil
}

// UpdateCandidate rewrites name and party, admin only. Vote counts are
// untouched here.
func (s *Service) UpdateCandidate(ctx context.Context, p Principal, candidateID uuid.UUID, req CandidateRequest) (CandidateResponse, error) {
	if err := s.requireAdmin(p); err != nil {
		return CandidateResponse{}, err
	}
	name := strings.TrimSpace(req.Name)
	party := strings.TrimSpace(req.Party)
	if name == "" || party == "" {
		return CandidateResponse{}, fmt.Errorf("%w: candidate name and party are required", domain.ErrInvalidInput)
	}

	candidate, err := s.candidates.Update(ctx, domain.Candidate{
		CandidateID: candidateID,
		Name:        name,
		Party:       party,
		UpdatedAt:   s.nowFn(),
	})
	if err != nil {
		return CandidateResponse{}, err
	}
	s.invalidateTally(ctx)
	return toCandidateResponse(candidate), nil
}

// DeleteCandidate removes a roster entry and its vote events, admin only.
func (s *Service) DeleteCandidate(ctx context.Context, p Principal, candidateID uuid.UUID) error {
	if err := s.requireAdmin(p); err != nil {
		return err
	}
	if err := s.candidates.Delete(ctx, candidateID); err != nil {
		return err
	}
	s.invalidateTally(ctx)
	return nil
}

// ListCandidates is the public roster view: id, name and party only.
func (s *Service) ListCandidates(ctx context.Context) ([]CandidateSummary, error) {
	candidates, err := s.candidates.List(ctx)
	if err != nil {
		return nil, err
	}
	summaries := make([]CandidateSummary, 0, len(candidates))
	for _, c := range candidates {
		summaries = append(summaries, CandidateSummary{
			CandidateID: c.CandidateID,
			Name:        c.Name,
			Party:       c.Party,
		})
	}
	return summaries, nil
}

// GetCandidate returns one roster entry with its vote count, admin only.
func (s *Service) GetCandidate(ctx context.Context, p Principal, candidateID uuid.UUID) (CandidateResponse, error) {
	if err := s.requireAdmin(p); err != nil {
		return CandidateResponse{}, err
	}
	candidate, err := s.candidates.GetByID(ctx, candidateID)
	if err != nil {
		return CandidateResponse{}, err
	}
	return toCandidateResponse(candidate), nil
}

// Tally serves the public vote-count board sorted by votes descending,
// through the short-TTL cache. A cache read error degrades to a recompute,
// never to a request failure.
func (s *Service) Tally(ctx context.Context) ([]domain.TallyRow, error) {
	if rows, ok, err := s.tallyCache.Get(ctx); err == nil && ok {
		return rows, nil
	}

	rows, err := s.candidates.Tally(ctx)
	if err != nil {
		return nil, err
	}
	_ = s.tallyCache.Put(ctx, rows, s.cfg.TallyTTL) // best effort
	return rows, nil
}

// CastVote records the caller's single vote. All precondition checks and
// state writes happen in one storage transaction; on success the cached
// board is invalidated.
func (s *Service) CastVote(ctx context.Context, p Principal, candidateID uuid.UUID) (VoteResponse, error) {
	event, err := s.voting.CastVote(ctx, candidateID, p.UserID, s.nowFn())
	if err != nil {
		return VoteResponse{}, err
	}
	s.invalidateTally(ctx)
	return VoteResponse{
		EventID:     event.EventID,
		CandidateID: event.CandidateID,
		VotedAt:     event.VotedAt,
	}, nil
}

// ResetVotes starts a fresh round: counters zeroed, events cleared, voter
// flags reset, candidates kept. Admin only.
func (s *Service) ResetVotes(ctx context.Context, p Principal) error {
	if err := s.requireAdmin(p); err != nil {
		return err
	}
	if err := s.voting.ResetVotes(ctx); err != nil {
		return err
	}
	s.invalidateTally(ctx)
	return nil
}

// ResetAndClear resets voter flags and deletes the entire candidate roster.
// Admin only, irreversible.
func (s *Service) ResetAndClear(ctx context.Context, p Principal) error {
	if err := s.requireAdmin(p); err != nil {
		return err
	}
	if err := s.voting.ResetAndClear(ctx); err != nil {
		return err
	}
	s.invalidateTally(ctx)
	return nil
}

func (s *Service) invalidateTally(ctx context.Context) {
	// Cache invalidation is best effort; the TTL bounds any window where a
	// failed delete leaves a stale board.
	_ = s.tallyCache.Invalidate(ctx)
}
