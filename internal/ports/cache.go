package ports

import (
	"context"
	"time"

	"github.com/civicgrid/voting-service/internal/domain"
)

// LockoutState tracks failed login attempts for one identity key.
type LockoutState struct {
	FailedCount int
	LockedUntil *time.Time
}

// LockoutStore implements brute-force lockout bookkeeping.
type LockoutStore interface {
	Get(ctx context.Context, key string) (LockoutState, error)
	RecordFailure(ctx context.Context, key string, now time.Time, threshold int, lockoutWindow time.Duration) (LockoutState, error)
	Clear(ctx context.Context, key string) error
}

// TallyCache holds the public vote-count board for a short TTL.
// It is invalidated whenever vote state changes, so a stale board never
// outlives a cast or reset by more than one request.
type TallyCache interface {
	Get(ctx context.Context) ([]domain.TallyRow, bool, error)
	Put(ctx context.Context, rows []domain.TallyRow, ttl time.Duration) error
	Invalidate(ctx context.Context) error
}
