package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/angelmondragon/storefront-backend/pkg/redis"
	"github.com/google/uuid"
)

type kvStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	Incr(ctx context.Context, key string) (int64, error)
	Expire(ctx context.Context, key string, ttl time.Duration) error
	CartKey(userID string) string
	CartVersionKey(userID string) string
}

// CachedLine is the durable part of a cart line. Product data and prices
// are never cached; they are read from the catalog when the line is served.
type CachedLine struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

// RedisCache stores cart lines as JSON under one key per user, tagged with
// the user's cart generation. Invalidate bumps the generation, so a snapshot
// written from a read that started before a mutation is never served.
type RedisCache struct {
	store kvStore
	ttl   time.Duration
}

// NewRedisCache returns nil when ttl is not positive; a nil cache never hits.
func NewRedisCache(store kvStore, ttl time.Duration) *RedisCache {
	if store == nil || ttl <= 0 {
		return nil
	}
	return &RedisCache{store: store, ttl: ttl}
}

type snapshot struct {
	UserID  uuid.UUID    `json:"userId"`
	Version int64        `json:"version"`
	Lines   []CachedLine `json:"lines"`
}

// Version returns the user's current cart generation, zero before the first
// invalidation.
func (c *RedisCache) Version(ctx context.Context, userID uuid.UUID) (int64, error) {
	if c == nil {
		return 0, nil
	}
	raw, err := c.store.Get(ctx, c.store.CartVersionKey(userID.String()))
	if err != nil {
		if redis.IsMiss(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("cart cache version: %w", err)
	}
	version, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("cart cache version: %w", err)
	}
	return version, nil
}

// Get returns the cached lines when a snapshot exists for the current
// generation.
func (c *RedisCache) Get(ctx context.Context, userID uuid.UUID) ([]CachedLine, bool, error) {
	if c == nil {
		return nil, false, nil
	}
	raw, err := c.store.Get(ctx, c.store.CartKey(userID.String()))
	if err != nil {
		if redis.IsMiss(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("cart cache get: %w", err)
	}

	var snap snapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		return nil, false, fmt.Errorf("cart cache decode: %w", err)
	}
	if snap.UserID != userID {
		return nil, false, nil
	}
	current, err := c.Version(ctx, userID)
	if err != nil {
		return nil, false, err
	}
	if snap.Version != current {
		return nil, false, nil
	}
	return snap.Lines, true, nil
}

// Set stores lines read at the given generation.
func (c *RedisCache) Set(ctx context.Context, userID uuid.UUID, version int64, lines []CachedLine) error {
	if c == nil {
		return nil
	}
	if lines == nil {
		lines = []CachedLine{}
	}
	payload, err := json.Marshal(snapshot{UserID: userID, Version: version, Lines: lines})
	if err != nil {
		return fmt.Errorf("cart cache encode: %w", err)
	}
	id := userID.String()
	if err := c.store.Set(ctx, c.store.CartKey(id), payload, c.ttl); err != nil {
		return fmt.Errorf("cart cache set: %w", err)
	}
	// the counter must outlive every snapshot tagged with it
	if err := c.store.Expire(ctx, c.store.CartVersionKey(id), c.versionTTL()); err != nil {
		return fmt.Errorf("cart cache set: %w", err)
	}
	return nil
}

// Invalidate bumps the generation and drops the snapshot.
func (c *RedisCache) Invalidate(ctx context.Context, userID uuid.UUID) error {
	if c == nil {
		return nil
	}
	id := userID.String()
	var errs []error
	if _, err := c.store.Incr(ctx, c.store.CartVersionKey(id)); err != nil {
		errs = append(errs, fmt.Errorf("cart cache bump version: %w", err))
	} else if err := c.store.Expire(ctx, c.store.CartVersionKey(id), c.versionTTL()); err != nil {
		errs = append(errs, fmt.Errorf("cart cache expire version: %w", err))
	}
	if err := c.store.Del(ctx, c.store.CartKey(id)); err != nil {
		errs = append(errs, fmt.Errorf("cart cache invalidate: %w", err))
	}
	return errors.Join(errs...)
}

func (c *RedisCache) versionTTL() time.Duration {
	return 2 * c.ttl
}
