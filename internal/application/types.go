package application

import (
	"time"

	"github.com/google/uuid"
)

// Config carries the tunables the use-case layer needs. Validation and
// defaulting happen at bootstrap.
type Config struct {
	TokenTTL         time.Duration
	LockoutThreshold int
	LockoutWindow    time.Duration
	TallyTTL         time.Duration
}

// Principal is the authenticated caller attached to a request context by
// the auth gate.
type Principal struct {
	UserID uuid.UUID
	Role   string
}

type SignupRequest struct {
	Name       string `json:"name"`
	Age        int    `json:"age"`
	Email      string `json:"email"`
	Mobile     string `json:"mobile"`
	Address    string `json:"address"`
	NationalID string `json:"national_id"`
	Password   string `json:"password"`
	Role       string `json:"role"`
}

type LoginRequest struct {
	NationalID string `json:"national_id"`
	Password   string `json:"password"`
}

type GoogleLoginRequest struct {
	IDToken string `json:"id_token"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// UserProfile is the outward view of a user record; it never carries the
// password hash.
type UserProfile struct {
	UserID     uuid.UUID `json:"user_id"`
	Name       string    `json:"name"`
	Age        int       `json:"age,omitempty"`
	Email      string    `json:"email,omitempty"`
	Mobile     string    `json:"mobile,omitempty"`
	Address    string    `json:"address,omitempty"`
	NationalID string    `json:"national_id,omitempty"`
	Role       string    `json:"role"`
	HasVoted   bool      `json:"has_voted"`
	CreatedAt  time.Time `json:"created_at"`
}

type TokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

type SignupResponse struct {
	User  UserProfile   `json:"user"`
	Token TokenResponse `json:"token"`
}

type CandidateRequest struct {
	Name  string `json:"name"`
	Party string `json:"party"`
}

type CandidateResponse struct {
	CandidateID uuid.UUID `json:"candidate_id"`
	Name        string    `json:"name"`
	Party       string    `json:"party"`
	VoteCount   int       `json:"vote_count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CandidateSummary is the public roster projection; vote counts are served
// by the tally endpoint, not here.
type CandidateSummary struct {
	CandidateID uuid.UUID `json:"candidate_id"`
	Name        string    `json:"name"`
	Party       string    `json:"party"`
}

type VoteResponse struct {
	EventID     uuid.UUID `json:"event_id"`
	CandidateID uuid.UUID `json:"candidate_id"`
	VotedAt     time.Time `json:"voted_at"`
}
