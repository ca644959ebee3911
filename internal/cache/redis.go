// Package cache provides the shared redis client. The client is optional:
// without REDIS_ADDR the application runs on in-process fallbacks.
package cache

import (
	"context"
	"strings"

	"github.com/ordinlampo/ordinlampo/internal/config"
	redis "github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// NewClient connects to redis when an address is configured, returning nil
// otherwise so dependents fall back to in-memory implementations.
func NewClient(lc fx.Lifecycle, cfg config.Config, log *zap.Logger) *redis.Client {
	addr := strings.TrimSpace(cfg.RedisAddr)
	if addr == "" {
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: strings.TrimSpace(cfg.RedisPassword),
	})

	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return client.Close()
		},
	})

	log.Info("redis client configured", zap.String("addr", addr))
	return client
}

var Module = fx.Module("cache", fx.Provide(NewClient))
