// Package pipeline runs the load → layout → render pipeline for Layerview.
//
// The CLI and the HTTP server both go through a [Runner], so caching,
// validation and logging behave the same from either entry point.
//
// # Architecture
//
// The pipeline has three stages:
//
//  1. Load: read an item file (JSON, YAML or TOML)
//  2. Layout: run the layered layout engine from pkg/layout
//  3. Render: produce artifacts (SVG, DOT, JSON, YAML) from the layout
//
// Layouts and artifacts are cached by content hash. Each stage can be run on
// its own.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	result, err := runner.Execute(ctx, items, pipeline.Options{
//	    MaxWidth: 4,
//	    Formats:  []string{"svg"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	res, hit, err := runner.LayoutWithCacheInfo(ctx, items, opts)
//	artifacts, err := runner.Render(ctx, res.Export(), opts)
package pipeline

import (
	"time"

	"github.com/matzehuels/layerview/pkg/cache"
	"github.com/matzehuels/layerview/pkg/errors"
	"github.com/matzehuels/layerview/pkg/graph"
	"github.com/matzehuels/layerview/pkg/layout"
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatDOT  = "dot"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatDOT:  true,
	FormatJSON: true,
	FormatYAML: true,
}

// Options contains all configuration for a pipeline run. It supports JSON
// for HTTP requests.
//
// A zero numeric field means "use the engine default", so a request only
// names what it changes.
type Options struct {
	// Layout options
	MaxWidth       int     `json:"max_width,omitempty"`
	MaxRounds      int     `json:"max_rounds,omitempty"`
	TransposeAfter int     `json:"transpose_after,omitempty"`
	LayerSpacing   float64 `json:"layer_spacing,omitempty"`
	VertexSpacing  float64 `json:"vertex_spacing,omitempty"`
	Refresh        bool    `json:"refresh,omitempty"` // Skip the layout cache read

	// Render options
	Formats    []string `json:"formats,omitempty"`
	Detailed   bool     `json:"detailed,omitempty"`
	HideRelays bool     `json:"hide_relays,omitempty"`

	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Layout is the engine result.
	Layout *layout.Result

	// LayoutKey is the cache key of the layout, usable for invalidation.
	LayoutKey string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	ItemCount  int
	LayerCount int
	DummyCount int
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool // Whether the layout came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: svg, dot, json, yaml)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateAndSetDefaults applies defaults and validates the options.
// Calling it more than once has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	o.SetLayoutDefaults()
	o.SetRenderDefaults()
	if err := o.LayoutOptions().Validate(); err != nil {
		return err
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetLayoutDefaults replaces zero layout fields with the engine defaults.
func (o *Options) SetLayoutDefaults() {
	d := layout.DefaultOptions()
	if o.MaxWidth == 0 {
		o.MaxWidth = d.MaxWidth
	}
	if o.MaxRounds == 0 {
		o.MaxRounds = d.MaxRounds
	}
	if o.TransposeAfter == 0 {
		o.TransposeAfter = d.TransposeAfter
	}
	if o.LayerSpacing == 0 {
		o.LayerSpacing = d.LayerSpacing
	}
	if o.VertexSpacing == 0 {
		o.VertexSpacing = d.VertexSpacing
	}
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
}

// LayoutOptions returns the engine options.
func (o *Options) LayoutOptions() layout.Options {
	return layout.Options{
		MaxWidth:       o.MaxWidth,
		MaxRounds:      o.MaxRounds,
		TransposeAfter: o.TransposeAfter,
		LayerSpacing:   o.LayerSpacing,
		VertexSpacing:  o.VertexSpacing,
	}
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		MaxWidth:       o.MaxWidth,
		MaxRounds:      o.MaxRounds,
		TransposeAfter: o.TransposeAfter,
		LayerSpacing:   o.LayerSpacing,
		VertexSpacing:  o.VertexSpacing,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:     format,
		Detailed:   o.Detailed,
		HideRelays: o.HideRelays,
	}
}

// itemsHash is the content hash of an item list. Input order is part of the
// hash, since it breaks ties in the layout.
func itemsHash(items []graph.Item) (string, error) {
	data, err := marshalItems(items)
	if err != nil {
		return "", err
	}
	return cache.Hash(data), nil
}
