package postgres

import (
	"time"

	"github.com/google/uuid"

	"github.com/civicgrid/voting-service/internal/domain"
)

// userModel maps the users table. Identity columns are pointers so the
// partial unique indexes see NULL, not an empty string, for absent values.
type userModel struct {
	UserID       uuid.UUID `gorm:"column:user_id;primaryKey"`
	Name         string    `gorm:"column:name"`
	Age          int       `gorm:"column:age"`
	Email        *string   `gorm:"column:email"`
	Mobile       *string   `gorm:"column:mobile"`
	Address      string    `gorm:"column:address"`
	NationalID   *string   `gorm:"column:national_id"`
	PasswordHash *string   `gorm:"column:password_hash"`
	Role         string    `gorm:"column:role"`
	HasVoted     bool      `gorm:"column:has_voted"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (userModel) TableName() string { return "users" }

type candidateModel struct {
	CandidateID uuid.UUID `gorm:"column:candidate_id;primaryKey"`
	Name        string    `gorm:"column:name"`
	Party       string    `gorm:"column:party"`
	VoteCount   int       `gorm:"column:vote_count"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (candidateModel) TableName() string { return "candidates" }

type voteEventModel struct {
	EventID     uuid.UUID `gorm:"column:event_id;primaryKey"`
	CandidateID uuid.UUID `gorm:"column:candidate_id"`
	VoterID     uuid.UUID `gorm:"column:voter_id"`
	VotedAt     time.Time `gorm:"column:voted_at"`
}

func (voteEventModel) TableName() string { return "vote_events" }

func toUserModel(u domain.User) userModel {
	return userModel{
		UserID:       u.UserID,
		Name:         u.Name,
		Age:          u.Age,
		Email:        nullable(u.Email),
		Mobile:       nullable(u.Mobile),
		Address:      u.Address,
		NationalID:   nullable(u.NationalID),
		PasswordHash: nullable(u.PasswordHash),
		Role:         u.Role,
		HasVoted:     u.HasVoted,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func toDomainUser(m userModel) domain.User {
	return domain.User{
		UserID:       m.UserID,
		Name:         m.Name,
		Age:          m.Age,
		Email:        deref(m.Email),
		Mobile:       deref(m.Mobile),
		Address:      m.Address,
		NationalID:   deref(m.NationalID),
		PasswordHash: deref(m.PasswordHash),
		Role:         m.Role,
		HasVoted:     m.HasVoted,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func toCandidateModel(c domain.Candidate) candidateModel {
	return candidateModel{
		CandidateID: c.CandidateID,
		Name:        c.Name,
		Party:       c.Party,
		VoteCount:   c.VoteCount,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func toDomainCandidate(m candidateModel, votes []voteEventModel) domain.Candidate {
	out := domain.Candidate{
		CandidateID: m.CandidateID,
		Name:        m.Name,
		Party:       m.Party,
		VoteCount:   m.VoteCount,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
	for _, v := range votes {
		out.Votes = append(out.Votes, toDomainVoteEvent(v))
	}
	return out
}

func toDomainVoteEvent(m voteEventModel) domain.VoteEvent {
	return domain.VoteEvent{
		EventID:     m.EventID,
		CandidateID: m.CandidateID,
		VoterID:     m.VoterID,
		VotedAt:     m.VotedAt,
	}
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
