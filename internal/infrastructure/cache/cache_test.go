package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"lecture-manager/internal/config"
)

type stat struct {
	ID    int64 `json:"id"`
	Count int   `json:"count"`
}

func TestMemoryCache_SetGetDelete(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	if err := c.Set(ctx, "k", []stat{{ID: 1, Count: 2}}, time.Minute); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	var got []stat
	found, err := c.Get(ctx, "k", &got)
	if err != nil || !found {
		t.Fatalf("Expected hit, got found=%v err=%v", found, err)
	}
	if len(got) != 1 || got[0].Count != 2 {
		t.Errorf("Unexpected cached value: %+v", got)
	}

	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	found, _ = c.Get(ctx, "k", &got)
	if found {
		t.Error("Expected miss after delete")
	}
}

func TestMemoryCache_Expiry(t *testing.T) {
	c := NewMemoryCache()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	ctx := context.Background()

	_ = c.Set(ctx, "k", 1, 30*time.Second)

	var v int
	if found, _ := c.Get(ctx, "k", &v); !found {
		t.Fatal("Expected hit before expiry")
	}

	now = now.Add(31 * time.Second)
	if found, _ := c.Get(ctx, "k", &v); found {
		t.Error("Expected miss after expiry")
	}
}

// brokenCache fails every call, like an unreachable Redis
type brokenCache struct {
	MemoryCache
	calls int
}

var errDown = errors.New("connection refused")

func (b *brokenCache) Get(ctx context.Context, key string, dest any) (bool, error) {
	b.calls++
	return false, errDown
}

func (b *brokenCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	b.calls++
	return errDown
}

func (b *brokenCache) Delete(ctx context.Context, keys ...string) error {
	b.calls++
	return errDown
}

func (b *brokenCache) Backend() string { return "redis" }

func TestFallbackCache_SwitchesAfterPrimaryError(t *testing.T) {
	primary := &brokenCache{}
	fallback := NewFallbackCache(primary, NewMemoryCache())
	ctx := context.Background()

	if fallback.Backend() != "redis" {
		t.Fatalf("Expected redis backend before any failure, got %s", fallback.Backend())
	}

	if err := fallback.Set(ctx, "k", 42, time.Minute); err != nil {
		t.Fatalf("Expected set to succeed on fallback, got %v", err)
	}
	if fallback.Backend() != "memory" {
		t.Errorf("Expected memory backend after failure, got %s", fallback.Backend())
	}

	var v int
	found, err := fallback.Get(ctx, "k", &v)
	if err != nil || !found || v != 42 {
		t.Errorf("Expected 42 from fallback, got %d found=%v err=%v", v, found, err)
	}
	if primary.calls != 1 {
		t.Errorf("Expected primary to be skipped after the first failure, got %d calls", primary.calls)
	}
}

func TestNew_Types(t *testing.T) {
	ctx := context.Background()

	c, err := New(ctx, config.CacheConfig{Type: "none"})
	if err != nil || c != nil {
		t.Errorf("Expected nil cache for none, got %v, %v", c, err)
	}

	c, err = New(ctx, config.CacheConfig{Type: "memory"})
	if err != nil || c == nil || c.Backend() != "memory" {
		t.Errorf("Expected memory cache, got %v, %v", c, err)
	}

	if _, err := New(ctx, config.CacheConfig{Type: "memcached"}); err == nil {
		t.Error("Expected error for unsupported cache type")
	}
}
