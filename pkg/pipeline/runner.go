package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/pentagrid/pkg/cache"
	"github.com/matzehuels/pentagrid/pkg/observability"
	"github.com/matzehuels/pentagrid/pkg/pentagrid"
)

// Runner encapsulates pipeline execution with caching.
// Both the CLI and the server use it to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete generate → enumerate → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	// Stage 1: Generate
	genStart := time.Now()
	gen, err := r.Generate(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("generate: %w", err)
	}
	result := &Result{
		Generation:     gen,
		GenerationHash: cache.GenerationHash(GenerationKeyOpts(gen)),
	}
	result.Stats.GenerateTime = time.Since(genStart)

	r.Logger.Debug("derived generation",
		"seed", gen.Seed(),
		"families", gen.Families(),
		"spacing", gen.Spacing(),
		"line_range", gen.LineRange(),
		"offsets", gen.Offsets())

	// Stage 2: Enumerate
	enumStart := time.Now()
	tiles, tilesHit, err := r.EnumerateWithCacheInfo(ctx, gen, opts)
	if err != nil {
		return nil, fmt.Errorf("enumerate: %w", err)
	}
	result.Tiles = tiles
	result.Shapes = pentagrid.ShapeCounts(tiles)
	result.Stats.TileCount = len(tiles)
	result.Stats.EnumerateTime = time.Since(enumStart)
	result.CacheInfo.TilesHit = tilesHit

	r.Logger.Info("enumerated tiles",
		"tiles", len(tiles),
		"thick", result.Shapes[pentagrid.Thick],
		"thin", result.Shapes[pentagrid.Thin],
		"duration", result.Stats.EnumerateTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, gen, tiles, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Generate builds the Generation for opts.
func (r *Runner) Generate(ctx context.Context, opts Options) (*pentagrid.Generation, error) {
	opts.SetGenerationDefaults()
	hooks := observability.Pipeline()
	hooks.OnGenerateStart(ctx, opts.Seed, opts.Families)
	start := time.Now()
	gen, err := pentagrid.New(opts.Params())
	hooks.OnGenerateComplete(ctx, opts.Seed, opts.Families, time.Since(start), err)
	return gen, err
}

// EnumerateWithCacheInfo collects the visible tiles of gen with caching and
// returns cache hit info.
func (r *Runner) EnumerateWithCacheInfo(ctx context.Context, gen *pentagrid.Generation, opts Options) ([]pentagrid.Tile, bool, error) {
	cacheKey := r.Keyer.TilesKey(GenerationKeyOpts(gen))
	cacheHooks := observability.Cache()

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var tiles []pentagrid.Tile
			if err := json.Unmarshal(data, &tiles); err == nil {
				cacheHooks.OnCacheHit(ctx, "tiles")
				return tiles, true, nil // Cache hit
			}
			// If deserialization fails, fall through to recompute
		} else if err != nil {
			r.Logger.Warn("cache read failed", "key", "tiles", "error", err)
		}
		cacheHooks.OnCacheMiss(ctx, "tiles")
	}

	hooks := observability.Pipeline()
	hooks.OnEnumerateStart(ctx, gen.Families())
	start := time.Now()
	tiles, err := pentagrid.Collect(ctx, gen, opts.Workers)
	hooks.OnEnumerateComplete(ctx, gen.Families(), len(tiles), time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	// Cache the result
	if data, err := json.Marshal(tiles); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLTiles); err != nil {
			r.Logger.Warn("cache write failed", "key", "tiles", "error", err)
		} else {
			cacheHooks.OnCacheSet(ctx, "tiles", len(data))
		}
	}

	return tiles, false, nil // Cache miss
}

// Enumerate is a convenience wrapper that calls EnumerateWithCacheInfo and discards the cache hit info.
func (r *Runner) Enumerate(ctx context.Context, gen *pentagrid.Generation, opts Options) ([]pentagrid.Tile, error) {
	tiles, _, err := r.EnumerateWithCacheInfo(ctx, gen, opts)
	return tiles, err
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, gen *pentagrid.Generation, tiles []pentagrid.Tile, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}
	genHash := cache.GenerationHash(GenerationKeyOpts(gen))
	cacheHooks := observability.Cache()

	// Try to get all formats from cache
	artifacts := make(map[string][]byte, len(opts.Formats))
	if !opts.Refresh {
		for _, format := range opts.Formats {
			cacheKey := r.Keyer.ArtifactKey(genHash, opts.ArtifactKeyOpts(format))
			data, hit, err := r.Cache.Get(ctx, cacheKey)
			if err != nil || !hit {
				cacheHooks.OnCacheMiss(ctx, "artifact")
				break
			}
			cacheHooks.OnCacheHit(ctx, "artifact")
			artifacts[format] = data
		}
		if len(artifacts) == len(opts.Formats) {
			return artifacts, true, nil // All artifacts from cache
		}
	}

	sinkOpts, err := buildSinkOptions(opts)
	if err != nil {
		return nil, false, err
	}

	hooks := observability.Pipeline()
	rendered := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		hooks.OnRenderStart(ctx, format)
		start := time.Now()
		data, err := RenderFormat(ctx, gen, tiles, format, sinkOpts...)
		hooks.OnRenderComplete(ctx, format, len(data), time.Since(start), err)
		if err != nil {
			return nil, false, fmt.Errorf("render %s: %w", format, err)
		}
		rendered[format] = data

		cacheKey := r.Keyer.ArtifactKey(genHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLArtifact); err != nil {
			r.Logger.Warn("cache write failed", "key", "artifact", "format", format, "error", err)
		} else {
			cacheHooks.OnCacheSet(ctx, "artifact", len(data))
		}
	}

	return rendered, false, nil // Cache miss
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, gen *pentagrid.Generation, tiles []pentagrid.Tile, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, gen, tiles, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
