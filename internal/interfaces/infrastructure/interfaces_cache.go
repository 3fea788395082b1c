package interfaces

import (
	"context"
	"time"
)

// StatsCache is an advisory cache for statistics results. Values may be stale
// for up to their TTL; nothing on the write path reads from it.
type StatsCache interface {
	// Get decodes the cached value for key into dest. The boolean is false on a miss.
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error

	// Backend names the store currently serving requests ("redis", "memory").
	Backend() string
	Health(ctx context.Context) error
	Close() error
}
