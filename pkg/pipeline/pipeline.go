// Package pipeline provides the tiling pipeline shared by the CLI and the
// HTTP server.
//
// This package implements the complete generate → enumerate → render
// pipeline. By centralizing this logic, `pentagrid render` and
// `pentagrid serve` produce byte-identical artifacts for the same options.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Generate: Derive offsets, spacing and line range into a Generation
//  2. Enumerate: Collect the visible tiles, in parallel
//  3. Render: Produce output in various formats (SVG, PNG, PDF, JSON)
//
// Enumerated tiles and rendered artifacts are cached by a hash of the
// resolved generation parameters.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Seed:     7,
//	    Families: 5,
//	    Formats:  []string{"svg"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"fmt"
	"io"
	"math"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/pentagrid/pkg/cache"
	"github.com/matzehuels/pentagrid/pkg/errors"
	"github.com/matzehuels/pentagrid/pkg/pentagrid"
	"github.com/matzehuels/pentagrid/pkg/render/palette"
	"github.com/matzehuels/pentagrid/pkg/render/sink"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and server
// =============================================================================

const (
	// DefaultWidth is the default viewport width in pixels.
	DefaultWidth = 800.0

	// DefaultHeight is the default viewport height in pixels.
	DefaultHeight = 600.0

	// DefaultSeed is the default random seed.
	DefaultSeed = uint64(1)

	// DefaultFamilies gives the Penrose tiling.
	DefaultFamilies = pentagrid.DefaultFamilies

	// DefaultScale is the PNG scale factor.
	DefaultScale = 1.0

	// DefaultStrokeWidth is the tile outline width.
	DefaultStrokeWidth = sink.DefaultStrokeWidth
)

// DefaultPalette is the default palette name.
const DefaultPalette = palette.Default

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatJSON: true,
}

// ContentTypes maps formats to MIME types.
var ContentTypes = map[string]string{
	FormatSVG:  "image/svg+xml",
	FormatPNG:  "image/png",
	FormatPDF:  "application/pdf",
	FormatJSON: "application/json",
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the tiling pipeline.
// This struct supports JSON and TOML serialization.
type Options struct {
	// Generation options
	Seed      uint64  `json:"seed" toml:"seed"`
	Families  int     `json:"families,omitempty" toml:"families"`
	Width     float64 `json:"width,omitempty" toml:"width"`
	Height    float64 `json:"height,omitempty" toml:"height"`
	Spacing   float64 `json:"spacing,omitempty" toml:"spacing"`       // 0 derives from the viewport
	LineRange int     `json:"line_range,omitempty" toml:"line_range"` // 0 derives from the viewport
	CullScale float64 `json:"cull_scale,omitempty" toml:"cull_scale"`

	// Render options
	Formats     []string `json:"formats,omitempty" toml:"formats"`
	Palette     string   `json:"palette,omitempty" toml:"palette"`
	StrokeWidth *float64 `json:"stroke_width,omitempty" toml:"stroke_width"` // nil uses the default; 0 disables outlines
	Scale       float64  `json:"scale,omitempty" toml:"scale"`
	Transparent bool     `json:"transparent,omitempty" toml:"transparent"`

	// Runtime options (not serialized)
	Workers int         `json:"-" toml:"-"`
	Refresh bool        `json:"-" toml:"-"`
	Logger  *log.Logger `json:"-" toml:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Generation is the resolved generation.
	Generation *pentagrid.Generation

	// GenerationHash is the content hash of the resolved parameters.
	GenerationHash string

	// Tiles are the visible tiles in enumeration order.
	Tiles []pentagrid.Tile

	// Shapes counts tiles per shape.
	Shapes map[pentagrid.Shape]int

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	TileCount     int
	GenerateTime  time.Duration
	EnumerateTime time.Duration
	RenderTime    time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	TilesHit  bool // Whether the tile set came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: svg, png, pdf, json)", format)
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

// ValidatePalette checks that a palette exists.
func ValidatePalette(name string) error {
	_, err := palette.Named(name)
	return err
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults applies defaults for the full pipeline and checks
// render options. Generation parameters are validated by pentagrid.New.
// This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	o.SetGenerationDefaults()
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetGenerationDefaults sets default values for generation.
func (o *Options) SetGenerationDefaults() {
	if o.Families == 0 {
		o.Families = DefaultFamilies
	}
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Palette == "" {
		o.Palette = DefaultPalette
	}
	if o.StrokeWidth == nil {
		w := DefaultStrokeWidth
		o.StrokeWidth = &w
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if err := ValidatePalette(o.Palette); err != nil {
		return err
	}
	if w := *o.StrokeWidth; w < 0 || math.IsNaN(w) || math.IsInf(w, 0) {
		return errors.New(errors.ErrCodeInvalidInput, "stroke width must be finite and not negative, got %v", w)
	}
	if o.Scale < 0 || math.IsNaN(o.Scale) || math.IsInf(o.Scale, 0) {
		return errors.New(errors.ErrCodeInvalidInput, "scale must be finite and positive, got %v", o.Scale)
	}
	return nil
}

// Params returns the generation parameters.
func (o *Options) Params() pentagrid.Params {
	return pentagrid.Params{
		Seed:      o.Seed,
		Families:  o.Families,
		Width:     o.Width,
		Height:    o.Height,
		Spacing:   o.Spacing,
		LineRange: o.LineRange,
		CullScale: o.CullScale,
	}
}

// GenerationKeyOpts returns cache key options for a resolved generation.
// Derived fields are taken from gen so explicit and derived values that
// agree share cache entries.
func GenerationKeyOpts(gen *pentagrid.Generation) cache.GenerationKeyOpts {
	p := gen.Params()
	return cache.GenerationKeyOpts{
		Seed:      p.Seed,
		Families:  p.Families,
		Width:     p.Width,
		Height:    p.Height,
		Spacing:   p.Spacing,
		LineRange: p.LineRange,
		CullScale: p.CullScale,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{
		Format:  format,
		Palette: o.Palette,
	}
	if o.StrokeWidth != nil {
		k.StrokeWidth = *o.StrokeWidth
	}
	if format == FormatPNG {
		k.Scale = o.Scale
	}
	if o.Transparent && format != FormatJSON {
		k.Format += "+transparent"
	}
	return k
}

// String summarizes the generation options for log lines.
func (o *Options) String() string {
	return fmt.Sprintf("seed=%d families=%d viewport=%gx%g", o.Seed, o.Families, o.Width, o.Height)
}
