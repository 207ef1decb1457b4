package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iho/trustbook/internal/domain"
)

// StatementCache implements usecase.StatementCache using Redis. Statements
// are stored as JSON under keys that already carry the account version, so
// stale entries simply stop being read and expire with their TTL.
type StatementCache struct {
	client redis.UniversalClient
	prefix string
}

// NewStatementCache creates a new StatementCache.
func NewStatementCache(client redis.UniversalClient) *StatementCache {
	return &StatementCache{
		client: client,
		prefix: "cache:",
	}
}

// Get returns the cached statement, or false on a miss.
func (c *StatementCache) Get(ctx context.Context, key string) (*domain.Statement, bool, error) {
	raw, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var st domain.Statement
	if err := json.Unmarshal(raw, &st); err != nil {
		return nil, false, fmt.Errorf("decode cached statement %s: %w", key, err)
	}

	return &st, true, nil
}

// Set stores a statement with TTL.
func (c *StatementCache) Set(ctx context.Context, key string, statement *domain.Statement, ttl time.Duration) error {
	raw, err := json.Marshal(statement)
	if err != nil {
		return fmt.Errorf("encode statement %s: %w", key, err)
	}

	return c.client.Set(ctx, c.prefix+key, raw, ttl).Err()
}
