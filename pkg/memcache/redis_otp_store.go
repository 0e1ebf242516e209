package mem

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type RedisOtpStore struct {
	rdb    redis.UniversalClient
	prefix string
}

func NewRedisOtpStore(rdb redis.UniversalClient) *RedisOtpStore {
	return &RedisOtpStore{rdb: rdb, prefix: "itinera:otp"}
}

func (s *RedisOtpStore) key(kind, key string) string {
	return fmt.Sprintf("%s:%s:%s", s.prefix, kind, key)
}

func (s *RedisOtpStore) SaveOtp(ctx context.Context, key, code string, ttl time.Duration) error {
	return s.rdb.Set(ctx, s.key("code", key), code, ttl).Err()
}

func (s *RedisOtpStore) ConsumeOtp(ctx context.Context, key, code string) (bool, error) {
	k := s.key("code", key)
	stored, err := s.rdb.Get(ctx, k).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if subtle.ConstantTimeCompare([]byte(stored), []byte(code)) != 1 {
		return false, nil
	}
	// Only one concurrent caller gets a non-zero delete count.
	n, err := s.rdb.Del(ctx, k).Result()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (s *RedisOtpStore) AcquireCooldown(ctx context.Context, key string, cooldown time.Duration) (bool, error) {
	return s.rdb.SetNX(ctx, s.key("cooldown", key), 1, cooldown).Result()
}

func (s *RedisOtpStore) MarkVerified(ctx context.Context, key string, ttl time.Duration) error {
	return s.rdb.Set(ctx, s.key("verified", key), 1, ttl).Err()
}

func (s *RedisOtpStore) ConsumeVerified(ctx context.Context, key string) (bool, error) {
	n, err := s.rdb.Del(ctx, s.key("verified", key)).Result()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}
