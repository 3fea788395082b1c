package cache

import (
	"context"
	"sync/atomic"
	"time"

	interfaces "lecture-manager/internal/interfaces/infrastructure"
	"lecture-manager/pkg/logger"
)

// FallbackCache serves from primary until primary returns an error, then
// moves every later call to secondary for the rest of the process lifetime.
type FallbackCache struct {
	primary   interfaces.StatsCache
	secondary interfaces.StatsCache
	degraded  atomic.Bool
}

func NewFallbackCache(primary, secondary interfaces.StatsCache) *FallbackCache {
	return &FallbackCache{
		primary:   primary,
		secondary: secondary,
	}
}

func (f *FallbackCache) active() interfaces.StatsCache {
	if f.degraded.Load() {
		return f.secondary
	}
	return f.primary
}

func (f *FallbackCache) fail(op string, err error) {
	if f.degraded.CompareAndSwap(false, true) {
		logger.Warn("%s cache %s failed, falling back to %s: %v",
			f.primary.Backend(), op, f.secondary.Backend(), err)
	}
}

func (f *FallbackCache) Get(ctx context.Context, key string, dest any) (bool, error) {
	if !f.degraded.Load() {
		found, err := f.primary.Get(ctx, key, dest)
		if err == nil {
			return found, nil
		}
		f.fail("get", err)
	}
	return f.secondary.Get(ctx, key, dest)
}

func (f *FallbackCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	if !f.degraded.Load() {
		err := f.primary.Set(ctx, key, value, ttl)
		if err == nil {
			return nil
		}
		f.fail("set", err)
	}
	return f.secondary.Set(ctx, key, value, ttl)
}

func (f *FallbackCache) Delete(ctx context.Context, keys ...string) error {
	if !f.degraded.Load() {
		err := f.primary.Delete(ctx, keys...)
		if err == nil {
			return nil
		}
		f.fail("delete", err)
	}
	return f.secondary.Delete(ctx, keys...)
}

func (f *FallbackCache) Backend() string {
	return f.active().Backend()
}

func (f *FallbackCache) Health(ctx context.Context) error {
	return f.active().Health(ctx)
}

func (f *FallbackCache) Close() error {
	err := f.primary.Close()
	if serr := f.secondary.Close(); err == nil {
		err = serr
	}
	return err
}

var _ interfaces.StatsCache = (*FallbackCache)(nil)
