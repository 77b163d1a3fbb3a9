package dedup

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const seenKeyPrefix = "seen:"

// RedisStore is a Store backed by Redis sets, shared across engine
// instances. The whole set expires ttl after its last write.
type RedisStore struct {
	rdb redis.Cmdable
	ttl time.Duration
}

func NewRedisStore(rdb redis.Cmdable, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, ttl: ttl}
}

func seenKey(category, userID string) string {
	return seenKeyPrefix + category + ":" + userID
}

func (s *RedisStore) Contains(ctx context.Context, category, userID, item string) (bool, error) {
	ok, err := s.rdb.SIsMember(ctx, seenKey(category, userID), item).Result()
	if err != nil {
		return false, fmt.Errorf("sismember %s: %w", seenKey(category, userID), err)
	}
	return ok, nil
}

func (s *RedisStore) Add(ctx context.Context, category, userID string, items []string) error {
	if len(items) == 0 {
		return nil
	}
	key := seenKey(category, userID)

	members := make([]any, len(items))
	for i, item := range items {
		members[i] = item
	}

	pipe := s.rdb.Pipeline()
	pipe.SAdd(ctx, key, members...)
	pipe.Expire(ctx, key, s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("pipeline exec for %s: %w", key, err)
	}
	return nil
}
