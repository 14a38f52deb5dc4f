package store

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps the blobs in Redis. Only safe as a durable backend when
// the Redis instance runs with appendonly persistence; selected via
// LOCAL_STORE=redis.
type RedisStore struct {
	rdb *redis.Client
	ctx context.Context
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb, ctx: context.Background()}
}

func (s *RedisStore) Load(key string) (string, bool, error) {
	val, err := s.rdb.Get(s.ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return "", false, nil
		}
		return "", false, err
	}
	return val, true, nil
}

func (s *RedisStore) Save(key string, value string) error {
	// No expiry: queue and catalog blobs live until replaced or cleared.
	return s.rdb.Set(s.ctx, key, value, 0).Err()
}

func (s *RedisStore) Delete(keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return s.rdb.Del(s.ctx, keys...).Err()
}
