package pentagrid

import (
	"math"

	"github.com/jbeda/geom"

	"github.com/matzehuels/pentagrid/pkg/errors"
)

// Vertex maps a multi-index to its dual vertex: the sum of every family's
// edge vector scaled by that family's index component.
func (g *Grid) Vertex(idx MultiIndex) geom.Coord {
	var v geom.Coord
	for i, f := range g.families {
		v = v.Plus(f.Edge.Times(float64(idx[i])))
	}
	return v
}

// Rhombus builds the four corners of the tile dual to the crossing of line k
// of family i with line l of family j. Corners are
//
//	v0, v0+e_i, v0+e_i+e_j, v0+e_j
//
// so v2-v0 always equals e_i+e_j. It reports false when the families are
// parallel.
//
// Rhombus panics if the corners are not finite, which only happens when the
// grid itself was built from non-finite data.
func (g *Grid) Rhombus(i, j, k, l int) ([4]geom.Coord, bool) {
	p, ok := g.IntersectLines(i, k, j, l)
	if !ok {
		return [4]geom.Coord{}, false
	}

	// The crossing lies exactly on line k of i and line l of j, so those two
	// components are known; only the other N-2 come from rounding.
	idx := g.CellIndex(p)
	idx[i] = k
	idx[j] = l

	ei, ej := g.families[i].Edge, g.families[j].Edge
	v0 := g.Vertex(idx)
	v1 := v0.Plus(ei)
	corners := [4]geom.Coord{v0, v1, v1.Plus(ej), v0.Plus(ej)}

	for _, c := range corners {
		if !finite(c) {
			panic(errors.New(errors.ErrCodeInternal,
				"non-finite rhombus corner %v for families (%d,%d) lines (%d,%d)", c, i, j, k, l))
		}
	}
	return corners, true
}

func finite(c geom.Coord) bool {
	return !math.IsNaN(c.X) && !math.IsInf(c.X, 0) && !math.IsNaN(c.Y) && !math.IsInf(c.Y, 0)
}
