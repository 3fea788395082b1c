package cache

import (
	"context"
	"fmt"
	"time"

	"lecture-manager/internal/config"
	interfaces "lecture-manager/internal/interfaces/infrastructure"
	"lecture-manager/pkg/logger"
)

// New builds the stats cache named by cfg.Type. It returns nil for "none".
// An unreachable Redis at startup is not fatal; the fallback takes over.
func New(ctx context.Context, cfg config.CacheConfig) (interfaces.StatsCache, error) {
	switch cfg.Type {
	case "", "none":
		return nil, nil
	case "memory":
		return NewMemoryCache(), nil
	case "redis":
		addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
		redisCache := NewRedisCache(addr, cfg.Password, cfg.DB)
		fallback := NewFallbackCache(redisCache, NewMemoryCache())

		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		if err := redisCache.Health(pingCtx); err != nil {
			fallback.fail("ping", err)
		} else {
			logger.Info("Connected to Redis at %s", addr)
		}
		return fallback, nil
	default:
		return nil, fmt.Errorf("unsupported cache type: %s", cfg.Type)
	}
}
