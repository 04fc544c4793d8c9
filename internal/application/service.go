package application

import (
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/civicgrid/voting-service/internal/domain"
	"github.com/civicgrid/voting-service/internal/ports"
)

// Service implements every use case of the voting backend on top of the
// port interfaces. It holds no mutable state of its own; all vote-state
// invariants live in the storage transactions.
type Service struct {
	cfg        Config
	users      ports.UserRepository
	candidates ports.CandidateRepository
	voting     ports.VotingRepository
	lockouts   ports.LockoutStore
	tallyCache ports.TallyCache
	verifier   ports.FederatedVerifier
	hasher     ports.PasswordHasher
	signer     ports.TokenSigner
	nowFn      func() time.Time
}

type Dependencies struct {
	Config     Config
	Users      ports.UserRepository
	Candidates ports.CandidateRepository
	Voting     ports.VotingRepository
	Lockouts   ports.LockoutStore
	TallyCache ports.TallyCache
	Verifier   ports.FederatedVerifier
	Hasher     ports.PasswordHasher
	Signer     ports.TokenSigner
}

func NewService(deps Dependencies) *Service {
	return &Service{
		cfg:        deps.Config,
		users:      deps.Users,
		candidates: deps.Candidates,
		voting:     deps.Voting,
		lockouts:   deps.Lockouts,
		tallyCache: deps.TallyCache,
		verifier:   deps.Verifier,
		hasher:     deps.Hasher,
		signer:     deps.Signer,
		nowFn:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) requireAdmin(p Principal) error {
	if p.Role != domain.RoleAdmin {
		return fmt.Errorf("admin role required: %w", domain.ErrForbidden)
	}
	return nil
}

func (s *Service) issueToken(user domain.User) (TokenResponse, error) {
	now := s.nowFn()
	token, err := s.signer.Sign(ports.AuthClaims{
		UserID:    user.UserID,
		Role:      user.Role,
		IssuedAt:  now,
		ExpiresAt: now.Add(s.cfg.TokenTTL),
	})
	if err != nil {
		return TokenResponse{}, fmt.Errorf("sign token: %w", err)
	}
	return TokenResponse{Token: token, ExpiresAt: now.Add(s.cfg.TokenTTL)}, nil
}

func normalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return "", nil
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return "", fmt.Errorf("%w: invalid email address", domain.ErrInvalidInput)
	}
	return email, nil
}

func toProfile(user domain.User) UserProfile {
	return UserProfile{
		UserID:     user.UserID,
		Name:       user.Name,
		Age:        user.Age,
		Email:      user.Email,
		Mobile:     user.Mobile,
		Address:    user.Address,
		NationalID: user.NationalID,
		Role:       user.Role,
		HasVoted:   user.HasVoted,
		CreatedAt:  user.CreatedAt,
	}
}

func toCandidateResponse(c domain.Candidate) CandidateResponse {
	return CandidateResponse{
		CandidateID: c.CandidateID,
		Name:        c.Name,
		Party:       c.Party,
		VoteCount:   c.VoteCount,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}
