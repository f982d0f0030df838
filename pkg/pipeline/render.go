package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/matzehuels/layerview/pkg/cache"
	"github.com/matzehuels/layerview/pkg/errors"
	"github.com/matzehuels/layerview/pkg/graph"
	"github.com/matzehuels/layerview/pkg/observability"
	"github.com/matzehuels/layerview/pkg/render/dot"
)

// RenderLayout produces one artifact per requested format. It does no
// caching; see [Runner.RenderWithCacheInfo].
func RenderLayout(ctx context.Context, l graph.Layout, opts Options) (map[string][]byte, error) {
	opts.SetRenderDefaults()
	dotOpts := dot.Options{Detailed: opts.Detailed, HideRelays: opts.HideRelays}
	hooks := observability.Pipeline()

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		hooks.OnRenderStart(ctx, format)
		start := time.Now()

		var data []byte
		var err error
		switch format {
		case FormatSVG:
			data, err = dot.RenderSVG(dot.ToDOT(l, dotOpts))
		case FormatDOT:
			data = []byte(dot.ToDOT(l, dotOpts))
		case FormatJSON:
			data, err = graph.MarshalLayout(l)
		case FormatYAML:
			var buf bytes.Buffer
			err = graph.WriteLayoutYAML(l, &buf)
			data = buf.Bytes()
		default:
			err = ValidateFormat(format)
		}

		hooks.OnRenderComplete(ctx, format, len(data), time.Since(start), err)
		if err != nil {
			if errors.GetCode(err) != "" {
				return nil, err
			}
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

// RenderWithCacheInfo renders artifacts with caching and returns cache hit
// info. The hit flag is set only when every format came from the cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, l graph.Layout, opts Options) (map[string][]byte, bool, error) {
	opts.SetRenderDefaults()
	if err := ValidateFormats(opts.Formats); err != nil {
		return nil, false, err
	}

	layoutData, err := graph.MarshalLayout(l)
	if err != nil {
		return nil, false, fmt.Errorf("serialize layout for cache key: %w", err)
	}
	layoutHash := cache.Hash(layoutData)

	artifacts := make(map[string][]byte, len(opts.Formats))
	var missing []string
	for _, format := range opts.Formats {
		key := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			observability.Cache().OnCacheHit(ctx, cache.KindArtifact)
			artifacts[format] = data
			continue
		}
		observability.Cache().OnCacheMiss(ctx, cache.KindArtifact)
		missing = append(missing, format)
	}
	if len(missing) == 0 {
		return artifacts, true, nil
	}

	renderOpts := opts
	renderOpts.Formats = missing
	rendered, err := RenderLayout(ctx, l, renderOpts)
	if err != nil {
		return nil, false, err
	}
	for format, data := range rendered {
		key := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err != nil {
			r.Logger.Warn("cache write failed", "key", key, "error", err)
		} else {
			observability.Cache().OnCacheSet(ctx, cache.KindArtifact, len(data))
		}
		artifacts[format] = data
	}
	return artifacts, false, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and
// discards the cache hit info.
func (r *Runner) Render(ctx context.Context, l graph.Layout, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, l, opts)
	return artifacts, err
}
