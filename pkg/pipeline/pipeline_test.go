package pipeline

import (
	"bytes"
	"context"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/pentagrid/pkg/cache"
	"github.com/matzehuels/pentagrid/pkg/errors"
	"github.com/matzehuels/pentagrid/pkg/observability"
)

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"png", false},
		{"pdf", false},
		{"json", false},
		{"invalid", true},
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
	if err := ValidateFormats([]string{"svg", "png"}); err != nil {
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

func TestValidatePalette(t *testing.T) {
	tests := []struct {
		palette string
		wantErr bool
	}{
		{"penrose", false},
		{"spectrum", false},
		{"ocean", false},
		{"mono", false},
		{"invalid", true},
		{"", true},
	}

	for _, tt := range tests {
		err := ValidatePalette(tt.palette)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidatePalette(%q) error = %v, wantErr %v", tt.palette, err, tt.wantErr)
		}
	}
}

func TestSetGenerationDefaults(t *testing.T) {
	opts := Options{}
	opts.SetGenerationDefaults()

	if opts.Families != DefaultFamilies {
		t.Errorf("Families should be %d, got %d", DefaultFamilies, opts.Families)
	}
	if opts.Width != DefaultWidth {
		t.Errorf("Width should be %f, got %f", DefaultWidth, opts.Width)
	}
	if opts.Height != DefaultHeight {
		t.Errorf("Height should be %f, got %f", DefaultHeight, opts.Height)
	}
	if opts.Logger == nil {
		t.Error("Logger should default to a discard logger")
	}
}

func TestSetRenderDefaults(t *testing.T) {
	opts := Options{}
	opts.SetRenderDefaults()

	if len(opts.Formats) != 1 || opts.Formats[0] != FormatSVG {
		t.Errorf("Formats should be [svg], got %v", opts.Formats)
	}
	if opts.Palette != DefaultPalette {
		t.Errorf("Palette should be %s, got %s", DefaultPalette, opts.Palette)
	}
	if opts.StrokeWidth == nil || *opts.StrokeWidth != DefaultStrokeWidth {
		t.Errorf("StrokeWidth should be %v, got %v", DefaultStrokeWidth, opts.StrokeWidth)
	}
	if opts.Scale != DefaultScale {
		t.Errorf("Scale should be %v, got %v", DefaultScale, opts.Scale)
	}
}

func TestExplicitZeroStrokeWidthKept(t *testing.T) {
	zero := 0.0
	opts := Options{StrokeWidth: &zero}
	opts.SetRenderDefaults()
	if *opts.StrokeWidth != 0 {
		t.Errorf("explicit zero stroke width overwritten: %v", *opts.StrokeWidth)
	}
}

func TestOptionsValidateAndSetDefaultsIdempotent(t *testing.T) {
	opts := Options{Seed: 3}

	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("First validation failed: %v", err)
	}
	originalFamilies := opts.Families
	originalPalette := opts.Palette

	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("Second validation failed: %v", err)
	}
	if opts.Families != originalFamilies {
		t.Error("Families changed on second call")
	}
	if opts.Palette != originalPalette {
		t.Error("Palette changed on second call")
	}
}

func TestValidateForRenderRejects(t *testing.T) {
	neg, nan, inf := -1.0, math.NaN(), math.Inf(1)
	tests := []struct {
		name string
		opts Options
	}{
		{"bad format", Options{Formats: []string{"gif"}}},
		{"bad palette", Options{Palette: "neon"}},
		{"negative stroke", Options{StrokeWidth: &neg}},
		{"negative scale", Options{Scale: -2}},
		{"NaN stroke", Options{StrokeWidth: &nan}},
		{"infinite stroke", Options{StrokeWidth: &inf}},
		{"NaN scale", Options{Scale: math.NaN()}},
		{"infinite scale", Options{Scale: math.Inf(1)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.opts.ValidateForRender(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestArtifactKeyOpts(t *testing.T) {
	opts := Options{Scale: 2}
	opts.SetRenderDefaults()

	if got := opts.ArtifactKeyOpts(FormatSVG).Scale; got != 0 {
		t.Errorf("scale should only key PNG artifacts, got %v for svg", got)
	}
	if got := opts.ArtifactKeyOpts(FormatPNG).Scale; got != 2 {
		t.Errorf("PNG scale = %v, want 2", got)
	}

	opaque := opts.ArtifactKeyOpts(FormatSVG)
	opts.Transparent = true
	if opts.ArtifactKeyOpts(FormatSVG) == opaque {
		t.Error("transparent artifacts must key separately")
	}
}

func TestRunnerExecute(t *testing.T) {
	ctx := context.Background()
	runner := NewRunner(nil, nil, nil)

	result, err := runner.Execute(ctx, Options{
		Seed:    1,
		Width:   300,
		Height:  200,
		Formats: []string{FormatSVG, FormatJSON},
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if result.Stats.TileCount == 0 {
		t.Fatal("expected tiles")
	}
	if result.Stats.TileCount != len(result.Tiles) {
		t.Errorf("TileCount %d != len(Tiles) %d", result.Stats.TileCount, len(result.Tiles))
	}
	if result.Shapes["thick"]+result.Shapes["thin"] != len(result.Tiles) {
		t.Error("shape counts should cover every tile")
	}
	if !bytes.HasPrefix(result.Artifacts[FormatSVG], []byte("<svg")) {
		t.Error("svg artifact missing")
	}
	if len(result.Artifacts[FormatJSON]) == 0 {
		t.Error("json artifact missing")
	}
	if result.CacheInfo.TilesHit || result.CacheInfo.RenderHit {
		t.Error("null cache should never hit")
	}
}

func TestRunnerExecuteInvalid(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	_, err := runner.Execute(context.Background(), Options{Families: 2})
	if !errors.Is(err, errors.ErrCodeInvalidFamilies) {
		t.Errorf("Execute with 2 families: got %v, want INVALID_FAMILIES", err)
	}
}

func TestRunnerCaching(t *testing.T) {
	ctx := context.Background()
	mem := newMemCache()
	runner := NewRunner(mem, nil, nil)
	opts := Options{Seed: 9, Width: 240, Height: 240, Formats: []string{FormatSVG}}

	first, err := runner.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("first Execute: %v", err)
	}
	if first.CacheInfo.TilesHit || first.CacheInfo.RenderHit {
		t.Fatal("first run should miss")
	}

	second, err := runner.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("second Execute: %v", err)
	}
	if !second.CacheInfo.TilesHit || !second.CacheInfo.RenderHit {
		t.Errorf("second run should hit: %+v", second.CacheInfo)
	}
	if !bytes.Equal(first.Artifacts[FormatSVG], second.Artifacts[FormatSVG]) {
		t.Error("cached artifact differs")
	}
	if len(first.Tiles) != len(second.Tiles) || first.Tiles[0] != second.Tiles[0] {
		t.Error("cached tiles differ")
	}
	if first.GenerationHash != second.GenerationHash {
		t.Error("generation hash should be stable")
	}

	// A different palette reuses the tiles but renders again.
	opts.Palette = "ocean"
	third, err := runner.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("third Execute: %v", err)
	}
	if !third.CacheInfo.TilesHit || third.CacheInfo.RenderHit {
		t.Errorf("palette change: %+v", third.CacheInfo)
	}

	// Refresh bypasses the cache.
	opts.Refresh = true
	fourth, err := runner.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("refresh Execute: %v", err)
	}
	if fourth.CacheInfo.TilesHit || fourth.CacheInfo.RenderHit {
		t.Error("refresh should not hit")
	}
}

func TestRunnerHooks(t *testing.T) {
	defer observability.Reset()
	hooks := &countingHooks{}
	observability.SetPipelineHooks(hooks)
	observability.SetCacheHooks(hooks)

	runner := NewRunner(newMemCache(), nil, nil)
	opts := Options{Seed: 2, Width: 200, Height: 200, Formats: []string{FormatSVG, FormatJSON}}
	if _, err := runner.Execute(context.Background(), opts); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if hooks.generated != 1 || hooks.enumerated != 1 {
		t.Errorf("generate/enumerate hooks = %d/%d, want 1/1", hooks.generated, hooks.enumerated)
	}
	if hooks.rendered != 2 {
		t.Errorf("render hooks = %d, want 2", hooks.rendered)
	}
	if hooks.sets != 3 {
		t.Errorf("cache sets = %d, want 3 (tiles + 2 artifacts)", hooks.sets)
	}
}

func TestRunnerCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	runner := NewRunner(nil, nil, nil)
	if _, err := runner.Execute(ctx, Options{Seed: 1}); err == nil {
		t.Error("cancelled context should fail enumeration")
	}
}

// memCache is an in-memory cache.Cache for tests.
type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemCache() *memCache { return &memCache{data: make(map[string][]byte)} }

func (m *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.data[key]
	return d, ok, nil
}

func (m *memCache) Set(_ context.Context, key string, data []byte, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = data
	return nil
}

func (m *memCache) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *memCache) Close() error { return nil }

var _ cache.Cache = (*memCache)(nil)

type countingHooks struct {
	observability.NoopPipelineHooks
	observability.NoopCacheHooks
	generated, enumerated, rendered, sets int
}

func (h *countingHooks) OnGenerateComplete(context.Context, uint64, int, time.Duration, error) {
	h.generated++
}

func (h *countingHooks) OnEnumerateComplete(context.Context, int, int, time.Duration, error) {
	h.enumerated++
}

func (h *countingHooks) OnRenderComplete(context.Context, string, int, time.Duration, error) {
	h.rendered++
}

func (h *countingHooks) OnCacheSet(context.Context, string, int) { h.sets++ }
