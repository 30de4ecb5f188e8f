package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/oggyb/muzz-matchmaker/internal/config"
	"github.com/redis/go-redis/v9"
)

const (
	likeCountTTL = time.Hour
	weightsKey   = "answers:weights"
)

var errStaleCount = errors.New("cache: stale like count")

type RedisCache struct {
	Client *redis.Client
}

// NewRedisCache initializes Redis client from config.
// Only Addr is mandatory, Password/DB are optional.
func NewRedisCache(cfg *config.Config) *RedisCache {
	opts := &redis.Options{
		Addr: cfg.Redis.Addr,
	}
	if cfg.Redis.Password != "" {
		opts.Password = cfg.Redis.Password
	}
	if cfg.Redis.DB != 0 {
		opts.DB = cfg.Redis.DB
	}
	return &RedisCache{Client: redis.NewClient(opts)}
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.Client.Ping(ctx).Err()
}

func (c *RedisCache) Close() error {
	return c.Client.Close()
}

// KeyForLikeCount generates Redis key for a user's like count
func (c *RedisCache) KeyForLikeCount(userID uint64) string {
	return fmt.Sprintf("likes:count:%d", userID)
}

// KeyForPriority generates Redis key for a user's fresh priority coefficient
func (c *RedisCache) KeyForPriority(userID uint64) string {
	return fmt.Sprintf("priority:coef:%d", userID)
}

// KeyForLikeCountVersion generates Redis key for the version guarding a user's like count
func (c *RedisCache) KeyForLikeCountVersion(userID uint64) string {
	return fmt.Sprintf("likes:count:ver:%d", userID)
}

// LikeCountVersion returns the current version of a user's like count.
// Read it before counting and hand it to SetLikeCount.
func (c *RedisCache) LikeCountVersion(ctx context.Context, userID uint64) (int64, error) {
	v, err := c.Client.Get(ctx, c.KeyForLikeCountVersion(userID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return v, err
}

// SetLikeCount caches count only if no invalidation happened since version
// was read, so a count taken before a concurrent like is never written back.
// A stale count is dropped silently.
func (c *RedisCache) SetLikeCount(ctx context.Context, userID uint64, count, version int64) error {
	verKey := c.KeyForLikeCountVersion(userID)
	err := c.Client.Watch(ctx, func(tx *redis.Tx) error {
		cur, err := tx.Get(ctx, verKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if cur != version {
			return errStaleCount
		}
		_, err = tx.TxPipelined(ctx, func(p redis.Pipeliner) error {
			p.Set(ctx, c.KeyForLikeCount(userID), count, likeCountTTL)
			return nil
		})
		return err
	}, verKey)
	if errors.Is(err, errStaleCount) || errors.Is(err, redis.TxFailedErr) {
		return nil
	}
	return err
}

// GetLikeCount returns the cached count and whether it was present. Hits do
// not extend the TTL.
func (c *RedisCache) GetLikeCount(ctx context.Context, userID uint64) (int64, bool, error) {
	val, err := c.Client.Get(ctx, c.KeyForLikeCount(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil // cache miss
	} else if err != nil {
		return 0, false, err
	}
	n, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false, nil // corrupted entry counts as a miss
	}
	return n, true, nil
}

// InvalidateLikeCount drops the cached count and bumps its version so that
// counts taken before this call are not cached afterwards.
func (c *RedisCache) InvalidateLikeCount(ctx context.Context, userID uint64) error {
	_, err := c.Client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Incr(ctx, c.KeyForLikeCountVersion(userID))
		p.Del(ctx, c.KeyForLikeCount(userID))
		return nil
	})
	return err
}

// SetAnswerWeights stores the explicit question weights as a hash.
func (c *RedisCache) SetAnswerWeights(ctx context.Context, weights map[uint64]float64, ttl time.Duration) error {
	pipe := c.Client.TxPipeline()
	pipe.Del(ctx, weightsKey)
	if len(weights) > 0 {
		fields := make(map[string]interface{}, len(weights))
		for q, w := range weights {
			fields[strconv.FormatUint(q, 10)] = strconv.FormatFloat(w, 'g', -1, 64)
		}
		pipe.HSet(ctx, weightsKey, fields)
	} else {
		// marker so an empty table is still a hit
		pipe.HSet(ctx, weightsKey, "-", "0")
	}
	pipe.Expire(ctx, weightsKey, ttl)
	_, err := pipe.Exec(ctx)
	return err
}

// GetAnswerWeights returns the cached weights and whether they were present.
func (c *RedisCache) GetAnswerWeights(ctx context.Context) (map[uint64]float64, bool, error) {
	raw, err := c.Client.HGetAll(ctx, weightsKey).Result()
	if err != nil {
		return nil, false, err
	}
	if len(raw) == 0 {
		return nil, false, nil
	}
	out := make(map[uint64]float64, len(raw))
	for k, v := range raw {
		q, err := strconv.ParseUint(k, 10, 64)
		if err != nil {
			continue
		}
		w, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, false, nil
		}
		out[q] = w
	}
	return out, true, nil
}

// InvalidateAnswerWeights removes the cached weight table.
func (c *RedisCache) InvalidateAnswerWeights(ctx context.Context) error {
	return c.Client.Del(ctx, weightsKey).Err()
}

// SetPriority caches a freshly computed coefficient.
func (c *RedisCache) SetPriority(ctx context.Context, userID uint64, coef float64, ttl time.Duration) error {
	return c.Client.Set(ctx, c.KeyForPriority(userID), strconv.FormatFloat(coef, 'g', -1, 64), ttl).Err()
}

// GetPriorities looks up many coefficients in one round trip. Missing or
// unparsable entries are absent from the result.
func (c *RedisCache) GetPriorities(ctx context.Context, userIDs []uint64) (map[uint64]float64, error) {
	out := make(map[uint64]float64, len(userIDs))
	if len(userIDs) == 0 {
		return out, nil
	}
	keys := make([]string, len(userIDs))
	for i, id := range userIDs {
		keys[i] = c.KeyForPriority(id)
	}
	vals, err := c.Client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}
	for i, v := range vals {
		s, ok := v.(string)
		if !ok {
			continue
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			out[userIDs[i]] = f
		}
	}
	return out, nil
}
