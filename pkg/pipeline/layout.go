package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/layerview/pkg/cache"
	"github.com/matzehuels/layerview/pkg/errors"
	"github.com/matzehuels/layerview/pkg/graph"
	"github.com/matzehuels/layerview/pkg/layout"
	"github.com/matzehuels/layerview/pkg/observability"
)

// LayoutKey returns the cache key of the layout of items under opts.
func (r *Runner) LayoutKey(items []graph.Item, opts Options) (string, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return "", err
	}
	hash, err := itemsHash(items)
	if err != nil {
		return "", err
	}
	return r.Keyer.LayoutKey(hash, opts.LayoutKeyOpts()), nil
}

// LayoutWithCacheInfo computes a layout with caching and returns cache hit
// info. With opts.Refresh the cached entry is ignored and overwritten.
//
// The engine runs as a [layout.Task]; if ctx ends first, LayoutWithCacheInfo
// returns the context's error and the result is discarded.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, items []graph.Item, opts Options) (*layout.Result, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}
	key, err := r.LayoutKey(items, opts)
	if err != nil {
		return nil, false, err
	}

	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, len(items))
	start := time.Now()

	if !opts.Refresh {
		if res, ok := r.cachedLayout(ctx, key); ok {
			hooks.OnLayoutComplete(ctx, summarize(res, len(items), true), time.Since(start), nil)
			return res, true, nil
		}
	}

	res, err := layout.Start(ctx, items, opts.LayoutOptions()).Wait(ctx)
	if err != nil {
		hooks.OnLayoutComplete(ctx, observability.LayoutSummary{Items: len(items)}, time.Since(start), err)
		return nil, false, err
	}
	hooks.OnLayoutComplete(ctx, summarize(res, len(items), false), time.Since(start), nil)

	r.store(ctx, cache.KindLayout, key, res.Export(), r.ttl())
	return res, false, nil
}

// Layout is a convenience wrapper that calls LayoutWithCacheInfo and
// discards the cache hit info.
func (r *Runner) Layout(ctx context.Context, items []graph.Item, opts Options) (*layout.Result, error) {
	res, _, err := r.LayoutWithCacheInfo(ctx, items, opts)
	return res, err
}

// Invalidate removes the cached layout of items under opts and returns the
// removed key.
func (r *Runner) Invalidate(ctx context.Context, items []graph.Item, opts Options) (string, error) {
	key, err := r.LayoutKey(items, opts)
	if err != nil {
		return "", err
	}
	return key, r.InvalidateKey(ctx, key)
}

// InvalidateKey removes a cached layout by key. Keys of any other kind,
// such as rendered artifacts, are INVALID_INPUT.
func (r *Runner) InvalidateKey(ctx context.Context, key string) error {
	if kind, ok := cache.KeyKind(key); !ok || kind != cache.KindLayout {
		return errors.New(errors.ErrCodeInvalidInput, "not a layout key: %q", key)
	}
	if err := r.Cache.Delete(ctx, key); err != nil {
		return err
	}
	observability.Cache().OnCacheInvalidate(ctx, cache.KindLayout)
	r.Logger.Debug("invalidated layout", "key", key)
	return nil
}

// cachedLayout reads a layout entry. Read and decode failures count as
// misses; the entry is recomputed and overwritten.
func (r *Runner) cachedLayout(ctx context.Context, key string) (*layout.Result, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "key", key, "error", err)
	}
	if hit {
		if l, err := graph.UnmarshalLayout(data); err == nil {
			observability.Cache().OnCacheHit(ctx, cache.KindLayout)
			return layout.Parse(l), true
		}
		r.Logger.Warn("discarding corrupt cache entry", "key", key)
	}
	observability.Cache().OnCacheMiss(ctx, cache.KindLayout)
	return nil, false
}

func (r *Runner) store(ctx context.Context, keyType, key string, l graph.Layout, ttl time.Duration) {
	data, err := graph.MarshalLayout(l)
	if err != nil {
		r.Logger.Warn("cannot encode layout for cache", "error", err)
		return
	}
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Warn("cache write failed", "key", key, "error", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

func (r *Runner) ttl() time.Duration {
	if r.TTL > 0 {
		return r.TTL
	}
	return cache.TTLLayout
}

func summarize(res *layout.Result, items int, hit bool) observability.LayoutSummary {
	return observability.LayoutSummary{
		Items:     items,
		Layers:    res.LayerCount,
		Dummies:   res.DummyCount,
		Rounds:    res.Rounds,
		Crossings: res.Crossings,
		CacheHit:  hit,
	}
}
