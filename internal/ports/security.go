package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// AuthClaims is the payload of a locally-issued token. Validity is purely a
// function of signature and expiry; nothing is persisted.
type AuthClaims struct {
	UserID    uuid.UUID `json:"user_id"`
	Role      string    `json:"role"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

type TokenSigner interface {
	Sign(claims AuthClaims) (string, error)
	ParseAndValidate(token string) (AuthClaims, error)
}

// FederatedIdentity is the verified result of a third-party identity
// assertion.
type FederatedIdentity struct {
	Subject       string
	Email         string
	EmailVerified bool
	Name          string
}

// FederatedVerifier validates an externally-issued ID token against the
// trusted issuer, constrained to the configured audience.
type FederatedVerifier interface {
	VerifyIDToken(ctx context.Context, rawToken string) (FederatedIdentity, error)
}
