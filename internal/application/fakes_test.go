package application_test

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/civicgrid/voting-service/internal/domain"
	"github.com/civicgrid/voting-service/internal/ports"
)

type fakeUsers struct {
	mu   sync.Mutex
	byID map[uuid.UUID]domain.User
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{byID: make(map[uuid.UUID]domain.User)}
}

func (f *fakeUsers) Create(_ context.Context, user domain.User) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.byID {
		if user.NationalID != "" && existing.NationalID == user.NationalID {
			return domain.User{}, fmt.Errorf("duplicate national id: %w", domain.ErrConflict)
		}
		if user.Email != "" && existing.Email == user.Email {
			return domain.User{}, fmt.Errorf("duplicate email: %w", domain.ErrConflict)
		}
		if user.Mobile != "" && existing.Mobile == user.Mobile {
			return domain.User{}, fmt.Errorf("duplicate mobile: %w", domain.ErrConflict)
		}
		if user.Role == domain.RoleAdmin && existing.Role == domain.RoleAdmin {
			return domain.User{}, fmt.Errorf("admin already exists: %w", domain.ErrConflict)
		}
	}
	if user.UserID == uuid.Nil {
		user.UserID = uuid.New()
	}
	f.byID[user.UserID] = user
	return user, nil
}

func (f *fakeUsers) GetByID(_ context.Context, userID uuid.UUID) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.byID[userID]
	if !ok {
		return domain.User{}, domain.ErrNotFound
	}
	return user, nil
}

func (f *fakeUsers) GetByNationalID(_ context.Context, nationalID string) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.byID {
		if user.NationalID == nationalID {
			return user, nil
		}
	}
	return domain.User{}, domain.ErrNotFound
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.byID {
		if user.Email == email {
			return user, nil
		}
	}
	return domain.User{}, domain.ErrNotFound
}

func (f *fakeUsers) UpdatePassword(_ context.Context, userID uuid.UUID, passwordHash string, updatedAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.byID[userID]
	if !ok {
		return domain.ErrNotFound
	}
	user.PasswordHash = passwordHash
	user.UpdatedAt = updatedAt
	f.byID[userID] = user
	return nil
}

func (f *fakeUsers) ListByRole(_ context.Context, role string) ([]domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.User
	for _, user := range f.byID {
		if user.Role == role {
			out = append(out, user)
		}
	}
	return out, nil
}

func (f *fakeUsers) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.byID)
}

type fakeCandidates struct {
	mu    sync.Mutex
	byID  map[uuid.UUID]domain.Candidate
	order []uuid.UUID
}

func newFakeCandidates() *fakeCandidates {
	return &fakeCandidates{byID: make(map[uuid.UUID]domain.Candidate)}
}

func (f *fakeCandidates) Create(_ context.Context, candidate domain.Candidate) (domain.Candidate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if candidate.CandidateID == uuid.Nil {
		candidate.CandidateID = uuid.New()
	}
	f.byID[candidate.CandidateID] = candidate
	f.order = append(f.order, candidate.CandidateID)
	return candidate, nil
}

func (f *fakeCandidates) Update(_ context.Context, candidate domain.Candidate) (domain.Candidate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	existing, ok := f.byID[candidate.CandidateID]
	if !ok {
		return domain.Candidate{}, domain.ErrNotFound
	}
	existing.Name = candidate.Name
	existing.Party = candidate.Party
	existing.UpdatedAt = candidate.UpdatedAt
	f.byID[candidate.CandidateID] = existing
	return existing, nil
}

func (f *fakeCandidates) Delete(_ context.Context, candidateID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[candidateID]; !ok {
		return domain.ErrNotFound
	}
	delete(f.byID, candidateID)
	for i, id := range f.order {
		if id == candidateID {
			f.order = append(f.order[:i], f.order[i+1:]...)
			break
		}
	}
	return nil
}

func (f *fakeCandidates) GetByID(_ context.Context, candidateID uuid.UUID) (domain.Candidate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	candidate, ok := f.byID[candidateID]
	if !ok {
		return domain.Candidate{}, domain.ErrNotFound
	}
	return candidate, nil
}

func (f *fakeCandidates) List(_ context.Context) ([]domain.Candidate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.Candidate, 0, len(f.order))
	for _, id := range f.order {
		out = append(out, f.byID[id])
	}
	return out, nil
}

func (f *fakeCandidates) Tally(_ context.Context) ([]domain.TallyRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rows := make([]domain.TallyRow, 0, len(f.order))
	for _, id := range f.order {
		c := f.byID[id]
		rows = append(rows, domain.TallyRow{
			CandidateID: c.CandidateID,
			Candidate:   c.Name,
			Party:       c.Party,
			Votes:       c.VoteCount,
		})
	}
	for i := 0; i < len(rows); i++ {
		for j := i + 1; j < len(rows); j++ {
			if rows[j].Votes > rows[i].Votes {
				rows[i], rows[j] = rows[j], rows[i]
			}
		}
	}
	return rows, nil
}

// fakeVoting mirrors the transactional storage behavior: precondition order,
// conditional flag flip and counter+ledger moving together.
type fakeVoting struct {
	mu         sync.Mutex
	users      *fakeUsers
	candidates *fakeCandidates
	events     []domain.VoteEvent
}

func newFakeVoting(users *fakeUsers, candidates *fakeCandidates) *fakeVoting {
	return &fakeVoting{users: users, candidates: candidates}
}

func (f *fakeVoting) CastVote(_ context.Context, candidateID, voterID uuid.UUID, votedAt time.Time) (domain.VoteEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.candidates.mu.Lock()
	defer f.candidates.mu.Unlock()
	f.users.mu.Lock()
	defer f.users.mu.Unlock()

	candidate, ok := f.candidates.byID[candidateID]
	if !ok {
		return domain.VoteEvent{}, fmt.Errorf("candidate: %w", domain.ErrNotFound)
	}
	voter, ok := f.users.byID[voterID]
	if !ok {
		return domain.VoteEvent{}, fmt.Errorf("voter: %w", domain.ErrNotFound)
	}
	if voter.Role == domain.RoleAdmin {
		return domain.VoteEvent{}, fmt.Errorf("admin cannot vote: %w", domain.ErrForbidden)
	}
	if voter.HasVoted {
		return domain.VoteEvent{}, fmt.Errorf("voter: %w", domain.ErrAlreadyVoted)
	}

	voter.HasVoted = true
	voter.UpdatedAt = votedAt
	f.users.byID[voterID] = voter

	event := domain.VoteEvent{
		EventID:     uuid.New(),
		CandidateID: candidateID,
		VoterID:     voterID,
		VotedAt:     votedAt,
	}
	f.events = append(f.events, event)
	candidate.VoteCount++
	candidate.UpdatedAt = votedAt
	f.candidates.byID[candidateID] = candidate
	return event, nil
}

func (f *fakeVoting) ResetVotes(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.candidates.mu.Lock()
	defer f.candidates.mu.Unlock()
	f.users.mu.Lock()
	defer f.users.mu.Unlock()

	f.events = nil
	for id, c := range f.candidates.byID {
		c.VoteCount = 0
		f.candidates.byID[id] = c
	}
	for id, u := range f.users.byID {
		u.HasVoted = false
		f.users.byID[id] = u
	}
	return nil
}

func (f *fakeVoting) ResetAndClear(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.candidates.mu.Lock()
	defer f.candidates.mu.Unlock()
	f.users.mu.Lock()
	defer f.users.mu.Unlock()

	for id, u := range f.users.byID {
		u.HasVoted = false
		f.users.byID[id] = u
	}
	f.candidates.byID = make(map[uuid.UUID]domain.Candidate)
	f.candidates.order = nil
	f.events = nil
	return nil
}

func (f *fakeVoting) eventCount(candidateID uuid.UUID) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, e := range f.events {
		if e.CandidateID == candidateID {
			n++
		}
	}
	return n
}

type fakeLockouts struct {
	mu    sync.Mutex
	state map[string]ports.LockoutState
}

func newFakeLockouts() *fakeLockouts {
	return &fakeLockouts{state: make(map[string]ports.LockoutState)}
}

func (f *fakeLockouts) Get(_ context.Context, key string) (ports.LockoutState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state[key], nil
}

func (f *fakeLockouts) RecordFailure(_ context.Context, key string, now time.Time, threshold int, lockoutWindow time.Duration) (ports.LockoutState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	state := f.state[key]
	state.FailedCount++
	if state.FailedCount >= threshold {
		until := now.Add(lockoutWindow)
		state.LockedUntil = &until
	}
	f.state[key] = state
	return state, nil
}

func (f *fakeLockouts) Clear(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.state, key)
	return nil
}

type fakeTallyCache struct {
	mu   sync.Mutex
	rows []domain.TallyRow
	ok   bool
	puts int
}

func (f *fakeTallyCache) Get(_ context.Context) ([]domain.TallyRow, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rows, f.ok, nil
}

func (f *fakeTallyCache) Put(_ context.Context, rows []domain.TallyRow, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows = rows
	f.ok = true
	f.puts++
	return nil
}

func (f *fakeTallyCache) Invalidate(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows = nil
	f.ok = false
	return nil
}

type fakeVerifier struct {
	identities map[string]ports.FederatedIdentity
}

func (f *fakeVerifier) VerifyIDToken(_ context.Context, rawToken string) (ports.FederatedIdentity, error) {
	identity, ok := f.identities[rawToken]
	if !ok {
		return ports.FederatedIdentity{}, fmt.Errorf("unverifiable token")
	}
	return identity, nil
}

type fakeHasher struct{}

func (fakeHasher) Hash(password string) (string, error) {
	return "hashed:" + password, nil
}

func (fakeHasher) Compare(hash, password string) error {
	if hash != "hashed:"+password {
		return fmt.Errorf("hash mismatch")
	}
	return nil
}

type fakeSigner struct {
	mu     sync.Mutex
	tokens map[string]ports.AuthClaims
}

func newFakeSigner() *fakeSigner {
	return &fakeSigner{tokens: make(map[string]ports.AuthClaims)}
}

func (f *fakeSigner) Sign(claims ports.AuthClaims) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	token := "token-" + uuid.NewString()
	f.tokens[token] = claims
	return token, nil
}

func (f *fakeSigner) ParseAndValidate(token string) (ports.AuthClaims, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	claims, ok := f.tokens[token]
	if !ok {
		return ports.AuthClaims{}, fmt.Errorf("unknown token")
	}
	if time.Now().UTC().After(claims.ExpiresAt) {
		return ports.AuthClaims{}, fmt.Errorf("token expired")
	}
	return claims, nil
}
