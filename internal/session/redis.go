package session

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps sessions in Redis so that refresh tokens survive process
// restarts. Entries expire together with the tokens they track via TTL.
type RedisStore struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisStore wraps an existing Redis client. ttl should match the refresh
// token lifetime.
func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, prefix: "session:", ttl: ttl}
}

func (s *RedisStore) Put(ctx context.Context, loginID, token string) error {
	return s.rdb.Set(ctx, s.prefix+loginID, token, s.ttl).Err()
}

func (s *RedisStore) Get(ctx context.Context, loginID string) (string, bool, error) {
	token, err := s.rdb.Get(ctx, s.prefix+loginID).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, err
	}
	return token, true, nil
}

func (s *RedisStore) Delete(ctx context.Context, loginID string) error {
	return s.rdb.Del(ctx, s.prefix+loginID).Err()
}
