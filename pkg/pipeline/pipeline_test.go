package pipeline

import (
	"context"
	stderrors "errors"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/layerview/pkg/cache"
	"github.com/matzehuels/layerview/pkg/errors"
	"github.com/matzehuels/layerview/pkg/graph"
	"github.com/matzehuels/layerview/pkg/layout"
	"github.com/matzehuels/layerview/pkg/observability"
)

// memCache is an in-memory cache that counts writes.
type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
	ttls map[string]time.Duration
	sets int
}

func newMemCache() *memCache {
	return &memCache{data: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (c *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	data, ok := c.data[key]
	return data, ok, nil
}

func (c *memCache) Set(_ context.Context, key string, data []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
	c.ttls[key] = ttl
	c.sets++
	return nil
}

func (c *memCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *memCache) Close() error { return nil }

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

func diamond() []graph.Item {
	return []graph.Item{
		{ID: "A"},
		{ID: "B", Prerequisites: []string{"A"}},
		{ID: "C", Prerequisites: []string{"A"}},
		{ID: "D", Prerequisites: []string{"B", "C"}},
	}
}

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"dot", false},
		{"json", false},
		{"yaml", false},
		{"png", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, errors.ErrCodeInvalidFormat) {
			t.Errorf("ValidateFormat(%q) code = %s, want INVALID_FORMAT", tt.format, errors.GetCode(err))
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"svg", "dot"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}

	if err := ValidateFormats([]string{"svg", "invalid"}); err == nil {
		t.Error("Invalid format should fail")
	}

	// Empty slice is valid
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestOptionsValidateAndSetDefaults(t *testing.T) {
	opts := Options{MaxWidth: 3}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults: %v", err)
	}

	d := layout.DefaultOptions()
	if opts.MaxWidth != 3 {
		t.Errorf("MaxWidth = %d, want 3", opts.MaxWidth)
	}
	if opts.MaxRounds != d.MaxRounds || opts.TransposeAfter != d.TransposeAfter {
		t.Errorf("rounds = %d/%d, want %d/%d", opts.MaxRounds, opts.TransposeAfter, d.MaxRounds, d.TransposeAfter)
	}
	if opts.LayerSpacing != d.LayerSpacing || opts.VertexSpacing != d.VertexSpacing {
		t.Errorf("spacing = %v/%v, want defaults", opts.LayerSpacing, opts.VertexSpacing)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != FormatSVG {
		t.Errorf("Formats should be [svg], got %v", opts.Formats)
	}

	// Second call should be idempotent
	before := opts
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("Second validation failed: %v", err)
	}
	if !reflect.DeepEqual(before, opts) {
		t.Error("options changed on second call")
	}
}

func TestOptionsInvalid(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"NegativeWidth", Options{MaxWidth: -1}, errors.ErrCodeInvalidInput},
		{"NegativeSpacing", Options{VertexSpacing: -2}, errors.ErrCodeInvalidInput},
		{"UnknownFormat", Options{Formats: []string{"png"}}, errors.ErrCodeInvalidFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if !errors.Is(err, tt.code) {
				t.Errorf("err = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestArtifactKeyOpts(t *testing.T) {
	opts := Options{Detailed: true, HideRelays: true}
	got := opts.ArtifactKeyOpts(FormatDOT)
	if got.Format != FormatDOT || !got.Detailed || !got.HideRelays {
		t.Errorf("ArtifactKeyOpts = %+v", got)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "items.yaml")
	src := "items:\n  - id: A\n  - id: B\n    prerequisites: [A]\n"
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}

	items, err := Load(path, "", nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(items) != 2 || items[1].Prerequisites[0] != "A" {
		t.Errorf("items = %+v", items)
	}

	items, err = Load("-", "json", strings.NewReader(`[{"id":"X"}]`))
	if err != nil {
		t.Fatalf("Load stdin: %v", err)
	}
	if len(items) != 1 || items[0].ID != "X" {
		t.Errorf("stdin items = %+v", items)
	}

	if _, err := Load("-", "", strings.NewReader(`[]`)); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("stdin without format: err = %v, want INVALID_FORMAT", err)
	}
	if _, err := Load(filepath.Join(dir, "missing.json"), "", nil); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing file: err = %v, want FILE_NOT_FOUND", err)
	}
}

func TestRunnerLayoutCaching(t *testing.T) {
	ctx := context.Background()
	c := newMemCache()
	r := NewRunner(c, nil, quietLogger())

	first, hit, err := r.LayoutWithCacheInfo(ctx, diamond(), Options{})
	if err != nil {
		t.Fatalf("first layout: %v", err)
	}
	if hit {
		t.Error("first layout should miss")
	}
	if c.sets != 1 {
		t.Fatalf("cache writes = %d, want 1", c.sets)
	}

	second, hit, err := r.LayoutWithCacheInfo(ctx, diamond(), Options{})
	if err != nil {
		t.Fatalf("second layout: %v", err)
	}
	if !hit {
		t.Error("second layout should hit")
	}
	if !reflect.DeepEqual(first.Positions, second.Positions) {
		t.Errorf("cached positions differ:\n%v\n%v", first.Positions, second.Positions)
	}
	if !reflect.DeepEqual(first.Export(), second.Export()) {
		t.Error("cached export differs from computed export")
	}

	// Refresh recomputes and rewrites.
	_, hit, err = r.LayoutWithCacheInfo(ctx, diamond(), Options{Refresh: true})
	if err != nil || hit {
		t.Errorf("refresh: hit=%v err=%v", hit, err)
	}
	if c.sets != 2 {
		t.Errorf("cache writes after refresh = %d, want 2", c.sets)
	}

	// Different options use a different key.
	_, hit, err = r.LayoutWithCacheInfo(ctx, diamond(), Options{MaxWidth: 2})
	if err != nil || hit {
		t.Errorf("other options: hit=%v err=%v", hit, err)
	}
}

func TestRunnerTTL(t *testing.T) {
	c := newMemCache()
	r := NewRunner(c, nil, quietLogger())
	r.TTL = time.Hour

	key, err := r.LayoutKey(diamond(), Options{})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := r.Layout(context.Background(), diamond(), Options{}); err != nil {
		t.Fatal(err)
	}
	if c.ttls[key] != time.Hour {
		t.Errorf("ttl = %v, want 1h", c.ttls[key])
	}
}

func TestRunnerInvalidate(t *testing.T) {
	ctx := context.Background()
	c := newMemCache()
	r := NewRunner(c, nil, quietLogger())

	if _, err := r.Layout(ctx, diamond(), Options{}); err != nil {
		t.Fatal(err)
	}
	key, err := r.Invalidate(ctx, diamond(), Options{})
	if err != nil {
		t.Fatalf("Invalidate: %v", err)
	}
	if _, ok := c.data[key]; ok {
		t.Errorf("key %s still cached", key)
	}
	if !strings.HasPrefix(key, "layout:") {
		t.Errorf("key = %q", key)
	}

	_, hit, err := r.LayoutWithCacheInfo(ctx, diamond(), Options{})
	if err != nil || hit {
		t.Errorf("after invalidate: hit=%v err=%v", hit, err)
	}
}

func TestRunnerInvalidateKeyKind(t *testing.T) {
	ctx := context.Background()
	c := newMemCache()
	r := NewRunner(c, nil, quietLogger())

	artifactKey := r.Keyer.ArtifactKey(cache.Hash([]byte("{}")), cache.ArtifactKeyOpts{Format: FormatSVG})
	c.data[artifactKey] = []byte("<svg/>")

	for _, key := range []string{artifactKey, "layout:abc", "anything"} {
		if err := r.InvalidateKey(ctx, key); !errors.Is(err, errors.ErrCodeInvalidInput) {
			t.Errorf("InvalidateKey(%q) = %v, want INVALID_INPUT", key, err)
		}
	}
	if _, ok := c.data[artifactKey]; !ok {
		t.Error("artifact entry was deleted")
	}
}

func TestRunnerCorruptEntry(t *testing.T) {
	ctx := context.Background()
	c := newMemCache()
	r := NewRunner(c, nil, quietLogger())

	key, err := r.LayoutKey(diamond(), Options{})
	if err != nil {
		t.Fatal(err)
	}
	c.data[key] = []byte("not json")

	res, hit, err := r.LayoutWithCacheInfo(ctx, diamond(), Options{})
	if err != nil {
		t.Fatalf("layout: %v", err)
	}
	if hit {
		t.Error("corrupt entry should count as a miss")
	}
	if res.LayerCount != 3 {
		t.Errorf("LayerCount = %d, want 3", res.LayerCount)
	}
	if _, err := graph.UnmarshalLayout(c.data[key]); err != nil {
		t.Errorf("entry was not overwritten: %v", err)
	}
}

func TestRunnerErrorsAreNotCached(t *testing.T) {
	c := newMemCache()
	r := NewRunner(c, nil, quietLogger())

	items := []graph.Item{
		{ID: "A", Prerequisites: []string{"B"}},
		{ID: "B", Prerequisites: []string{"A"}},
	}
	_, err := r.Execute(context.Background(), items, Options{Formats: []string{FormatJSON}})
	if !errors.Is(err, errors.ErrCodeCyclicGraph) {
		t.Errorf("err = %v, want CYCLIC_GRAPH", err)
	}
	if !errors.IsInputError(err) {
		t.Error("cycle should be an input error")
	}
	if len(c.data) != 0 {
		t.Errorf("cache holds %d entries after a failed run", len(c.data))
	}
}

func TestRunnerCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := NewRunner(nil, nil, quietLogger())
	_, err := r.Layout(ctx, diamond(), Options{})
	if !stderrors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestRunnerExecute(t *testing.T) {
	ctx := context.Background()
	c := newMemCache()
	r := NewRunner(c, nil, quietLogger())
	opts := Options{Formats: []string{FormatDOT, FormatJSON, FormatYAML}}

	result, err := r.Execute(ctx, diamond(), opts)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if result.CacheInfo.LayoutHit || result.CacheInfo.RenderHit {
		t.Errorf("first run cache info = %+v", result.CacheInfo)
	}
	if result.Stats.ItemCount != 4 || result.Stats.LayerCount != 3 {
		t.Errorf("stats = %+v", result.Stats)
	}
	if !strings.Contains(string(result.Artifacts[FormatDOT]), "digraph layout") {
		t.Errorf("dot artifact = %q", result.Artifacts[FormatDOT])
	}
	l, err := graph.UnmarshalLayout(result.Artifacts[FormatJSON])
	if err != nil {
		t.Fatalf("json artifact: %v", err)
	}
	if l.LayerCount != 3 || len(l.Nodes) != 4 {
		t.Errorf("json layout = %+v", l)
	}
	if !strings.Contains(string(result.Artifacts[FormatYAML]), "layer_count: 3") {
		t.Errorf("yaml artifact = %q", result.Artifacts[FormatYAML])
	}

	again, err := r.Execute(ctx, diamond(), opts)
	if err != nil {
		t.Fatalf("second Execute: %v", err)
	}
	if !again.CacheInfo.LayoutHit || !again.CacheInfo.RenderHit {
		t.Errorf("second run cache info = %+v", again.CacheInfo)
	}
	if again.LayoutKey != result.LayoutKey {
		t.Errorf("layout key changed: %s vs %s", again.LayoutKey, result.LayoutKey)
	}
	if !reflect.DeepEqual(again.Artifacts, result.Artifacts) {
		t.Error("cached artifacts differ")
	}
}

func TestRenderLayoutSVG(t *testing.T) {
	res, err := layout.Compute(diamond(), layout.DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	artifacts, err := RenderLayout(context.Background(), res.Export(), Options{})
	if err != nil {
		t.Fatalf("RenderLayout: %v", err)
	}
	if !strings.Contains(string(artifacts[FormatSVG]), "<svg") {
		t.Error("svg artifact has no <svg> element")
	}
}

func TestRenderLayoutInvalidFormat(t *testing.T) {
	_, err := RenderLayout(context.Background(), graph.Layout{}, Options{Formats: []string{"pdf"}})
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("err = %v, want INVALID_FORMAT", err)
	}
}

type recordingHooks struct {
	observability.NoopPipelineHooks
	mu        sync.Mutex
	summaries []observability.LayoutSummary
	formats   []string
}

func (h *recordingHooks) OnLayoutComplete(_ context.Context, s observability.LayoutSummary, _ time.Duration, _ error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.summaries = append(h.summaries, s)
}

func (h *recordingHooks) OnRenderComplete(_ context.Context, format string, _ int, _ time.Duration, _ error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.formats = append(h.formats, format)
}

func TestRunnerHooks(t *testing.T) {
	hooks := &recordingHooks{}
	observability.SetPipelineHooks(hooks)
	t.Cleanup(observability.Reset)

	r := NewRunner(newMemCache(), nil, quietLogger())
	opts := Options{Formats: []string{FormatDOT}}
	for range 2 {
		if _, err := r.Execute(context.Background(), diamond(), opts); err != nil {
			t.Fatal(err)
		}
	}

	if len(hooks.summaries) != 2 {
		t.Fatalf("layout events = %d, want 2", len(hooks.summaries))
	}
	if hooks.summaries[0].CacheHit || !hooks.summaries[1].CacheHit {
		t.Errorf("summaries = %+v", hooks.summaries)
	}
	if hooks.summaries[0].Layers != 3 || hooks.summaries[0].Items != 4 {
		t.Errorf("summary = %+v", hooks.summaries[0])
	}
	// The second render is served from cache.
	if !reflect.DeepEqual(hooks.formats, []string{FormatDOT}) {
		t.Errorf("render events = %v", hooks.formats)
	}
}
