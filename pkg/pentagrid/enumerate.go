package pentagrid

import (
	"iter"

	"github.com/jbeda/geom"
)

// Tile is one rhombus of the tiling, dual to the crossing of line K of
// family I with line L of family J (I < J).
type Tile struct {
	I, J     int
	K, L     int
	Corners  [4]geom.Coord
	Shape    Shape
	ColorKey int // ordinal of the (I,J) pair in enumeration order
}

// Pair is an unordered pair of distinct families, I < J.
type Pair struct {
	I, J    int
	Ordinal int
}

// Pairs lists the family pairs of an n-family grid in enumeration order:
// I ascending, then J ascending.
func Pairs(n int) []Pair {
	pairs := make([]Pair, 0, n*(n-1)/2)
	for i := range n {
		for j := i + 1; j < n; j++ {
			pairs = append(pairs, Pair{I: i, J: j, Ordinal: len(pairs)})
		}
	}
	return pairs
}

// Tiles enumerates the visible tiles of g. Family pairs come first in
// ascending order, then line k of family I, then line l of family J, each
// in [-LineRange, LineRange]. The sequence is finite and can be ranged over
// any number of times with identical results.
func (g *Generation) Tiles() iter.Seq[Tile] {
	return func(yield func(Tile) bool) {
		r := g.params.LineRange
		for _, p := range Pairs(g.params.Families) {
			for k := -r; k <= r; k++ {
				if !g.row(p, k, yield) {
					return
				}
			}
		}
	}
}

// row yields the tiles on line k of family p.I. It returns false once yield
// asks to stop.
func (g *Generation) row(p Pair, k int, yield func(Tile) bool) bool {
	r := g.params.LineRange
	shape := ShapeOf(g.params.Families, p.I, p.J)
	for l := -r; l <= r; l++ {
		corners, ok := g.grid.Rhombus(p.I, p.J, k, l)
		if !ok {
			// Parallel families: no line of one crosses the other.
			return true
		}
		if !g.Visible(corners) {
			continue
		}
		t := Tile{I: p.I, J: p.J, K: k, L: l, Corners: corners, Shape: shape, ColorKey: p.Ordinal}
		if !yield(t) {
			return false
		}
	}
	return true
}

// ShapeCounts tallies tiles per shape.
func ShapeCounts(tiles []Tile) map[Shape]int {
	counts := make(map[Shape]int, 2)
	for _, t := range tiles {
		counts[t.Shape]++
	}
	return counts
}
