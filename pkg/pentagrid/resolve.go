package pentagrid

import (
	"math"

	"github.com/jbeda/geom"
)

const (
	// ParallelEpsilon is the determinant magnitude below which two unit
	// normals count as parallel. Normals are unit length, so the threshold
	// is already spacing-normalized.
	ParallelEpsilon = 1e-6

	// BoundaryBias nudges projections that land exactly on a line into the
	// strip on its lower side before rounding up, so a point on line k of a
	// family always gets index k.
	BoundaryBias = 1e-9
)

// MultiIndex holds, per family, the index of the strip a point lies in.
// Strip k of a family is the open band between lines k-1 and k.
type MultiIndex []int

// Intersect returns the point p with n1·p = o1 and n2·p = o2.
// Parallel and antiparallel lines report false; that is an expected outcome,
// not a fault.
func Intersect(n1 geom.Coord, o1 float64, n2 geom.Coord, o2 float64) (geom.Coord, bool) {
	det := n1.X*n2.Y - n1.Y*n2.X
	if math.Abs(det) < ParallelEpsilon {
		return geom.Coord{}, false
	}
	return geom.Coord{
		X: (o1*n2.Y - o2*n1.Y) / det,
		Y: (n1.X*o2 - n2.X*o1) / det,
	}, true
}

// IntersectLines intersects line k of family i with line l of family j.
func (g *Grid) IntersectLines(i, k, j, l int) (geom.Coord, bool) {
	return Intersect(g.families[i].Normal, g.LineOffset(i, k), g.families[j].Normal, g.LineOffset(j, l))
}

// Projection returns the position of p across family i in line units:
// p lies on line k of family i exactly when the result equals k.
func (g *Grid) Projection(i int, p geom.Coord) float64 {
	f := g.families[i]
	return dot(f.Normal, p)/g.spacing - f.Offset
}

// CellIndex classifies p into the strip it occupies in every family.
func (g *Grid) CellIndex(p geom.Coord) MultiIndex {
	idx := make(MultiIndex, len(g.families))
	for i := range g.families {
		idx[i] = int(math.Ceil(g.Projection(i, p) - BoundaryBias))
	}
	return idx
}

func dot(a, b geom.Coord) float64 {
	return a.X*b.X + a.Y*b.Y
}
