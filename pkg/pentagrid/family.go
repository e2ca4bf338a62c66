package pentagrid

import (
	"math"
	"slices"

	"github.com/jbeda/geom"

	"github.com/matzehuels/pentagrid/pkg/errors"
)

// Family is one set of parallel, evenly spaced lines.
type Family struct {
	Index  int
	Angle  float64    // i·2π/N
	Normal geom.Coord // unit normal of every line in the family
	Edge   geom.Coord // Normal scaled by the grid spacing; a rhombus side
	Offset float64    // phase shift in [0,1), in units of spacing
}

// Grid is the line family model: N families sharing one spacing.
// A Grid is immutable after NewGrid returns.
type Grid struct {
	spacing  float64
	families []Family
}

// NewGrid derives the families for n, spacing and offsets.
//
// Even n produces antiparallel family pairs (i, i+n/2). That is not an error:
// those pairs simply never intersect.
func NewGrid(n int, spacing float64, offsets []float64) (*Grid, error) {
	if err := errors.ValidateFamilies(n); err != nil {
		return nil, err
	}
	if err := errors.ValidateSpacing(spacing); err != nil {
		return nil, err
	}
	if err := errors.ValidateOffsets(offsets, n); err != nil {
		return nil, err
	}

	step := 2 * math.Pi / float64(n)
	families := make([]Family, n)
	for i := range families {
		angle := float64(i) * step
		normal := geom.Coord{X: math.Cos(angle), Y: math.Sin(angle)}
		families[i] = Family{
			Index:  i,
			Angle:  angle,
			Normal: normal,
			Edge:   normal.Times(spacing),
			Offset: offsets[i],
		}
	}
	return &Grid{spacing: spacing, families: families}, nil
}

// Len returns the family count N.
func (g *Grid) Len() int { return len(g.families) }

// Spacing returns the distance between adjacent lines of a family, which is
// also the rhombus edge length.
func (g *Grid) Spacing() float64 { return g.spacing }

// Family returns family i.
func (g *Grid) Family(i int) Family { return g.families[i] }

// Families returns a copy of all families in index order.
func (g *Grid) Families() []Family { return slices.Clone(g.families) }

// Offsets returns a copy of the per-family phase offsets.
func (g *Grid) Offsets() []float64 {
	out := make([]float64, len(g.families))
	for i, f := range g.families {
		out[i] = f.Offset
	}
	return out
}

// LineOffset is the signed perpendicular distance from the origin to line k
// of family i.
func (g *Grid) LineOffset(i, k int) float64 {
	return (float64(k) + g.families[i].Offset) * g.spacing
}
