package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/civicgrid/voting-service/internal/domain"
)

// Signup registers a local account and immediately issues a session token.
// Role defaults to voter; the storage layer rejects a second admin.
func (s *Service) Signup(ctx context.Context, req SignupRequest) (SignupResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return SignupResponse{}, fmt.Errorf("%w: name is required", domain.ErrInvalidInput)
	}
	if req.Age < 0 {
		return SignupResponse{}, fmt.Errorf("%w: age must not be negative", domain.ErrInvalidInput)
	}

	nationalID := strings.TrimSpace(req.NationalID)
	if err := domain.ValidateNationalID(nationalID); err != nil {
		return SignupResponse{}, err
	}
	if err := domain.ValidatePassword(req.Password); err != nil {
		return SignupResponse{}, err
	}

	email, err := normalizeEmail(req.Email)
	if err != nil {
		return SignupResponse{}, err
	}

	role := strings.ToLower(strings.TrimSpace(req.Role))
	if role == "" {
		role = domain.RoleVoter
	}
	if role != domain.RoleVoter && role != domain.RoleAdmin {
		return SignupResponse{}, fmt.Errorf("%w: role must be voter or admin", domain.ErrInvalidInput)
	}

	passwordHash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return SignupResponse{}, fmt.Errorf("hash password: %w", err)
	}

	now := s.nowFn()
	user, err := s.users.Create(ctx, domain.User{
		UserID:       uuid.New(),
		Name:         name,
		Age:          req.Age,
		Email:        email,
		Mobile:       strings.TrimSpace(req.Mobile),
		Address:      strings.TrimSpace(req.Address),
		NationalID:   nationalID,
		PasswordHash: passwordHash,
		Role:         role,
		HasVoted:     false,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return SignupResponse{}, err
	}

	token, err := s.issueToken(user)
	if err != nil {
		return SignupResponse{}, err
	}
	return SignupResponse{User: toProfile(user), Token: token}, nil
}

// Login authenticates by national id + password. Failures are counted in
// the lockout store; user-not-found and wrong-password both surface as the
// same invalid-credential error so callers cannot enumerate accounts.
func (s *Service) Login(ctx context.Context, req LoginRequest) (TokenResponse, error) {
	nationalID := strings.TrimSpace(req.NationalID)
	if nationalID == "" || req.Password == "" {
		return TokenResponse{}, fmt.Errorf("%w: national id and password are required", domain.ErrInvalidInput)
	}

	now := s.nowFn()
	state, err := s.lockouts.Get(ctx, nationalID)
	if err != nil {
		return TokenResponse{}, fmt.Errorf("read lockout state: %w", err)
	}
	if state.LockedUntil != nil && state.LockedUntil.After(now) {
		return TokenResponse{}, fmt.Errorf("locked until %s: %w", state.LockedUntil.Format("15:04:05"), domain.ErrAccountLocked)
	}

	user, err := s.users.GetByNationalID(ctx, nationalID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return TokenResponse{}, s.recordLoginFailure(ctx, nationalID, now)
		}
		return TokenResponse{}, err
	}
	if !user.HasPassword() {
		return TokenResponse{}, s.recordLoginFailure(ctx, nationalID, now)
	}
	if err := s.hasher.Compare(user.PasswordHash, req.Password); err != nil {
		return TokenResponse{}, s.recordLoginFailure(ctx, nationalID, now)
	}

	if err := s.lockouts.Clear(ctx, nationalID); err != nil {
		return TokenResponse{}, fmt.Errorf("clear lockout state: %w", err)
	}
	return s.issueToken(user)
}

func (s *Service) recordLoginFailure(ctx context.Context, key string, now time.Time) error {
	state, err := s.lockouts.RecordFailure(ctx, key, now, s.cfg.LockoutThreshold, s.cfg.LockoutWindow)
	if err != nil {
		return fmt.Errorf("record login failure: %w", err)
	}
	if state.LockedUntil != nil && state.LockedUntil.After(now) {
		return fmt.Errorf("too many failed attempts: %w", domain.ErrAccountLocked)
	}
	return fmt.Errorf("national id or password does not match: %w", domain.ErrInvalidCredential)
}

// GoogleLogin exchanges a verified provider ID token for a local session
// token, auto-provisioning a voter account on first sight of the email.
func (s *Service) GoogleLogin(ctx context.Context, req GoogleLoginRequest) (TokenResponse, error) {
	if strings.TrimSpace(req.IDToken) == "" {
		return TokenResponse{}, fmt.Errorf("%w: id_token is required", domain.ErrInvalidInput)
	}
	user, err := s.resolveFederated(ctx, req.IDToken)
	if err != nil {
		return TokenResponse{}, err
	}
	return s.issueToken(user)
}

// ResolvePrincipal is the auth gate. A missing credential and a failing
// credential map to different sentinels; a valid provider token resolves to
// a (possibly just provisioned) user record.
func (s *Service) ResolvePrincipal(ctx context.Context, bearerToken string) (Principal, error) {
	if strings.TrimSpace(bearerToken) == "" {
		return Principal{}, domain.ErrUnauthenticated
	}

	if claims, err := s.signer.ParseAndValidate(bearerToken); err == nil {
		return Principal{UserID: claims.UserID, Role: claims.Role}, nil
	}

	user, err := s.resolveFederated(ctx, bearerToken)
	if err != nil {
		return Principal{}, err
	}
	return Principal{UserID: user.UserID, Role: user.Role}, nil
}

// resolveFederated verifies a provider ID token and maps it to a user
// record. Provisioning is idempotent under concurrent first logins: losing
// the insert race falls back to re-reading by email.
func (s *Service) resolveFederated(ctx context.Context, rawToken string) (domain.User, error) {
	identity, err := s.verifier.VerifyIDToken(ctx, rawToken)
	if err != nil {
		return domain.User{}, fmt.Errorf("%w: %v", domain.ErrInvalidCredential, err)
	}
	if identity.Email == "" || !identity.EmailVerified {
		return domain.User{}, fmt.Errorf("%w: identity has no verified email", domain.ErrInvalidCredential)
	}

	user, err := s.users.GetByEmail(ctx, identity.Email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return domain.User{}, err
	}

	name := identity.Name
	if name == "" {
		name = identity.Email
	}
	now := s.nowFn()
	created, err := s.users.Create(ctx, domain.User{
		UserID:    uuid.New(),
		Name:      name,
		Email:     identity.Email,
		Role:      domain.RoleVoter,
		HasVoted:  false,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err == nil {
		return created, nil
	}
	if errors.Is(err, domain.ErrConflict) {
		return s.users.GetByEmail(ctx, identity.Email)
	}
	return domain.User{}, err
}

// Profile returns the caller's own record, minus the password hash.
func (s *Service) Profile(ctx context.Context, p Principal) (UserProfile, error) {
	user, err := s.users.GetByID(ctx, p.UserID)
	if err != nil {
		return UserProfile{}, err
	}
	return toProfile(user), nil
}

// ChangePassword rotates the local credential. Federated-only accounts have
// no password to change.
func (s *Service) ChangePassword(ctx context.Context, p Principal, req ChangePasswordRequest) error {
	user, err := s.users.GetByID(ctx, p.UserID)
	if err != nil {
		return err
	}
	if !user.HasPassword() {
		return fmt.Errorf("%w: account has no local password", domain.ErrInvalidInput)
	}
	if err := s.hasher.Compare(user.PasswordHash, req.CurrentPassword); err != nil {
		return fmt.Errorf("current password does not match: %w", domain.ErrInvalidCredential)
	}
	if err := domain.ValidatePassword(req.NewPassword); err != nil {
		return err
	}

	newHash, err := s.hasher.Hash(req.NewPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.users.UpdatePassword(ctx, user.UserID, newHash, s.nowFn())
}

// ListVoters returns every voter-role record, admin only.
func (s *Service) ListVoters(ctx context.Context, p Principal) ([]UserProfile, error) {
	if err := s.requireAdmin(p); err != nil {
		return nil, err
	}
	users, err := s.users.ListByRole(ctx, domain.RoleVoter)
	if err != nil {
		return nil, err
	}
	profiles := make([]UserProfile, 0, len(users))
	for _, u := range users {
		profiles = append(profiles, toProfile(u))
	}
	return profiles, nil
}
