package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/civicgrid/voting-service/internal/domain"
	"github.com/civicgrid/voting-service/internal/ports"
)

const tallyKey = "vote:tally:board"

// RedisTallyCache keeps the public vote-count board in Redis for a short
// TTL. Writers of vote state must call Invalidate so the board never lags a
// cast or reset past the next read.
type RedisTallyCache struct {
	client *redis.Client
}

func NewRedisTallyCache(client *redis.Client) *RedisTallyCache {
	return &RedisTallyCache{client: client}
}

var _ ports.TallyCache = (*RedisTallyCache)(nil)

func (c *RedisTallyCache) Get(ctx context.Context) ([]domain.TallyRow, bool, error) {
	raw, err := c.client.Get(ctx, tallyKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}

	var rows []domain.TallyRow
	if err := json.Unmarshal(raw, &rows); err != nil {
		// A corrupt cache entry is treated as a miss; the next Put repairs it.
		_ = c.client.Del(ctx, tallyKey).Err()
		return nil, false, nil
	}
	return rows, true, nil
}

func (c *RedisTallyCache) Put(ctx context.Context, rows []domain.TallyRow, ttl time.Duration) error {
	raw, err := json.Marshal(rows)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, tallyKey, raw, ttl).Err()
}

func (c *RedisTallyCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, tallyKey).Err()
}
