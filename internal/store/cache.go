package store

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/dahby/13-14-relationship-mapping/internal/models"
)

// DefaultCacheTTL bounds how long a cached food may be served.
const DefaultCacheTTL = 5 * time.Minute

// versionGrace keeps a version key alive well past any read still in flight.
const versionGrace = time.Hour

var errStaleRead = errors.New("food changed during cache fill")

// CachedStore is a read-through redis cache in front of another FoodStore.
// Only FindByID is cached; writes invalidate the entry. Redis failures are
// logged and the request falls through to the wrapped store.
type CachedStore struct {
	next   FoodStore
	redis  *redis.Client
	ttl    time.Duration
	prefix string
}

// NewCachedStore wraps next with a redis cache
func NewCachedStore(next FoodStore, client *redis.Client, ttl time.Duration) *CachedStore {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &CachedStore{
		next:   next,
		redis:  client,
		ttl:    ttl,
		prefix: "food:",
	}
}

func (c *CachedStore) key(id uuid.UUID) string {
	return c.prefix + id.String()
}

// versionKey counts the writes to id. A read only fills the cache when the
// count is unchanged since before it went to the wrapped store.
func (c *CachedStore) versionKey(id uuid.UUID) string {
	return c.prefix + "ver:" + id.String()
}

func (c *CachedStore) Create(ctx context.Context, food *models.Food) error {
	return c.next.Create(ctx, food)
}

func (c *CachedStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Food, error) {
	data, err := c.redis.Get(ctx, c.key(id)).Bytes()
	switch {
	case err == nil:
		var food models.Food
		if jsonErr := json.Unmarshal(data, &food); jsonErr == nil {
			return &food, nil
		}
		slog.Warn("discarding corrupt cached food", "id", id)
	case !errors.Is(err, redis.Nil):
		slog.Warn("food cache read failed", "id", id, "error", err)
	}

	version, verErr := c.version(ctx, id)

	food, err := c.next.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if verErr != nil {
		slog.Warn("food cache version read failed", "id", id, "error", verErr)
		return food, nil
	}
	c.fill(ctx, food, version)
	return food, nil
}

func (c *CachedStore) FindByField(ctx context.Context, field, value string) (*models.Food, error) {
	return c.next.FindByField(ctx, field, value)
}

func (c *CachedStore) Update(ctx context.Context, id uuid.UUID, update models.FoodUpdate) (*models.Food, error) {
	food, err := c.next.Update(ctx, id, update)
	c.invalidate(ctx, id)
	return food, err
}

func (c *CachedStore) Delete(ctx context.Context, id uuid.UUID) error {
	err := c.next.Delete(ctx, id)
	c.invalidate(ctx, id)
	return err
}

func (c *CachedStore) version(ctx context.Context, id uuid.UUID) (int64, error) {
	v, err := c.redis.Get(ctx, c.versionKey(id)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return v, err
}

// fill caches food unless a write to it has landed since version was read.
func (c *CachedStore) fill(ctx context.Context, food *models.Food, version int64) {
	data, err := json.Marshal(food)
	if err != nil {
		return
	}

	verKey := c.versionKey(food.ID)
	err = c.redis.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, verKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != version {
			return errStaleRead
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, c.key(food.ID), data, c.ttl)
			return nil
		})
		return err
	}, verKey)

	switch {
	case err == nil, errors.Is(err, errStaleRead), errors.Is(err, redis.TxFailedErr):
	default:
		slog.Warn("food cache write failed", "id", food.ID, "error", err)
	}
}

// invalidate bumps the version before dropping the entry, so reads that
// started earlier cannot put the old record back.
func (c *CachedStore) invalidate(ctx context.Context, id uuid.UUID) {
	verKey := c.versionKey(id)
	_, err := c.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, verKey)
		pipe.Expire(ctx, verKey, c.ttl+versionGrace)
		pipe.Del(ctx, c.key(id))
		return nil
	})
	if err != nil {
		slog.Warn("food cache invalidation failed", "id", id, "error", err)
	}
}
