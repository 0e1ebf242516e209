package memcache_fx

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"itinera/internal/config"
	mem "itinera/pkg/memcache"
)

var Module = fx.Provide(provideOtpStore)

// provideOtpStore uses Redis when REDIS_URL is set and the in-process store otherwise.
func provideOtpStore(lc fx.Lifecycle, cfg *config.Config, logger *zap.Logger) (mem.OtpStore, error) {
	if cfg.RedisURL == "" {
		logger.Info("otp store: in-memory")
		return mem.NewMemoryOtpStore(), nil
	}

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}
	rdb := redis.NewClient(opts)

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := rdb.Ping(ctx).Err(); err != nil {
				return fmt.Errorf("ping redis: %w", err)
			}
			logger.Info("otp store: redis", zap.String("addr", opts.Addr))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return rdb.Close()
		},
	})
	return mem.NewRedisOtpStore(rdb), nil
}
