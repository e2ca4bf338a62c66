package pentagrid

import (
	"math"

	"github.com/jbeda/geom"

	"github.com/matzehuels/pentagrid/pkg/errors"
)

const (
	// DefaultFamilies gives the Penrose pentagrid.
	DefaultFamilies = 5

	// MinFamilies and MaxFamilies bound AdjustFamilies. New accepts any
	// count >= MinFamilies.
	MinFamilies = errors.MinFamilies
	MaxFamilies = 10

	// MinLineRange and MaxLineRange bound AdjustLineRange and the derived
	// line range.
	MinLineRange = 6
	MaxLineRange = 24

	// SpacingDivisor derives the line spacing from the smaller viewport
	// dimension.
	SpacingDivisor = 16

	// DefaultCullScale keeps the culling window equal to the viewport.
	DefaultCullScale = 1.0
)

// Params are the inputs of a Generation. Zero Spacing, LineRange and
// CullScale are derived from the viewport.
type Params struct {
	Seed      uint64  `json:"seed" toml:"seed"`
	Families  int     `json:"families" toml:"families"`
	Width     float64 `json:"width" toml:"width"`
	Height    float64 `json:"height" toml:"height"`
	Spacing   float64 `json:"spacing,omitempty" toml:"spacing"`
	LineRange int     `json:"line_range,omitempty" toml:"line_range"`
	CullScale float64 `json:"cull_scale,omitempty" toml:"cull_scale"`
}

// Generation is the immutable tuple (seed, N, spacing, offsets, line range,
// viewport) that determines a tile set.
type Generation struct {
	params Params // fully resolved, no zero-valued derived fields
	grid   *Grid
}

// New validates p, derives the missing fields and builds the grid.
// The same p always yields the same offsets, spacing and line range.
func New(p Params) (*Generation, error) {
	if err := errors.ValidateFamilies(p.Families); err != nil {
		return nil, err
	}
	if err := errors.ValidateViewport(p.Width, p.Height); err != nil {
		return nil, err
	}

	if p.Spacing == 0 {
		p.Spacing = DeriveSpacing(p.Width, p.Height)
	}
	if err := errors.ValidateSpacing(p.Spacing); err != nil {
		return nil, err
	}
	if p.LineRange == 0 {
		p.LineRange = DeriveLineRange(p.Width, p.Height, p.Spacing)
	}
	if err := errors.ValidateLineRange(p.LineRange); err != nil {
		return nil, err
	}
	if p.CullScale == 0 {
		p.CullScale = DefaultCullScale
	}
	if math.IsNaN(p.CullScale) || math.IsInf(p.CullScale, 0) || p.CullScale < 0 {
		return nil, errors.New(errors.ErrCodeInvalidViewport, "cull scale must be positive and finite, got %v", p.CullScale)
	}

	grid, err := NewGrid(p.Families, p.Spacing, OffsetsForSeed(p.Seed, p.Families))
	if err != nil {
		return nil, err
	}
	return &Generation{params: p, grid: grid}, nil
}

// DeriveSpacing returns the line spacing for a viewport.
func DeriveSpacing(width, height float64) float64 {
	return min(width, height) / SpacingDivisor
}

// DeriveLineRange returns enough lines per side to span the viewport's half
// diagonal, clamped to [MinLineRange, MaxLineRange].
func DeriveLineRange(width, height, spacing float64) int {
	r := int(math.Ceil(math.Hypot(width, height) / 2 / spacing))
	return clamp(r, MinLineRange, MaxLineRange)
}

// Params returns the resolved parameters, derived fields included.
func (g *Generation) Params() Params { return g.params }

func (g *Generation) Seed() uint64       { return g.params.Seed }
func (g *Generation) Families() int      { return g.params.Families }
func (g *Generation) Spacing() float64   { return g.params.Spacing }
func (g *Generation) LineRange() int     { return g.params.LineRange }
func (g *Generation) Width() float64     { return g.params.Width }
func (g *Generation) Height() float64    { return g.params.Height }
func (g *Generation) Offsets() []float64 { return g.grid.Offsets() }
func (g *Generation) Grid() *Grid        { return g.grid }

// Viewport returns the viewport rectangle, centered on the origin.
func (g *Generation) Viewport() geom.Rect {
	hw, hh := g.params.Width/2, g.params.Height/2
	return geom.Rect{Min: geom.Coord{X: -hw, Y: -hh}, Max: geom.Coord{X: hw, Y: hh}}
}

// Window returns the culling window: the viewport scaled by CullScale
// about the origin.
func (g *Generation) Window() geom.Rect {
	r := g.Viewport()
	r.Min = r.Min.Times(g.params.CullScale)
	r.Max = r.Max.Times(g.params.CullScale)
	return r
}

// Visible reports whether at least one corner lies inside the window
// (boundary included).
func (g *Generation) Visible(corners [4]geom.Coord) bool {
	w := g.Window()
	for _, c := range corners {
		if c.X >= w.Min.X && c.X <= w.Max.X && c.Y >= w.Min.Y && c.Y <= w.Max.Y {
			return true
		}
	}
	return false
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
