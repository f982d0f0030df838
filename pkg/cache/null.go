package cache

import (
	"context"
	"time"
)

// NullCache stores nothing. It backs --no-cache runs and the "none" backend,
// so every layout is computed fresh and invalidation always succeeds.
//
// Like the remote backends, it reports a cancelled ctx instead of a miss.
type NullCache struct{}

// NewNullCache creates a null cache.
func NewNullCache() Cache {
	return NullCache{}
}

func (NullCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return nil, false, ctx.Err()
}

func (NullCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return ctx.Err()
}

func (NullCache) Delete(ctx context.Context, key string) error {
	return ctx.Err()
}

func (NullCache) Close() error { return nil }

var _ Cache = NullCache{}
