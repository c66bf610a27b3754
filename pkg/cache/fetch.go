package cache

import (
	"context"
	"time"

	"github.com/visionspec/visionspec/pkg/observability"
)

// Fetch returns the cached value for key or computes, stores and returns
// it. Cache read and write failures degrade to computing the value; only
// errors from compute are returned. keyType labels the hooks events.
func Fetch(ctx context.Context, c Cache, keyType, key string, ttl time.Duration, compute func() ([]byte, error)) ([]byte, bool, error) {
	hooks := observability.Cache()

	if data, ok, err := c.Get(ctx, key); err == nil && ok {
		hooks.OnCacheHit(ctx, keyType)
		return data, true, nil
	}
	hooks.OnCacheMiss(ctx, keyType)

	data, err := compute()
	if err != nil {
		return nil, false, err
	}
	if err := c.Set(ctx, key, data, ttl); err == nil {
		hooks.OnCacheSet(ctx, keyType, len(data))
	}
	return data, false, nil
}
