// Package pentagrid computes rhombus tilings dual to de Bruijn multigrids.
//
// # Overview
//
// A multigrid is N >= 3 families of equally spaced parallel lines. Family i
// has unit normal (cos 2πi/N, sin 2πi/N) and its k-th line sits at signed
// distance (k + offset_i)·spacing from the origin. Five families with offsets
// summing to zero (mod 1) give de Bruijn's pentagrid, whose dual is the
// Penrose rhombus tiling.
//
// Every crossing of two lines becomes one rhombus. The crossing is classified
// into a [MultiIndex] (which strip of every family it lies in), the multi-index
// is mapped to a vertex by summing the family edge vectors, and the rhombus
// is spanned by the edge vectors of the two crossing families.
//
// # Usage
//
//	gen, err := pentagrid.New(pentagrid.Params{
//	    Seed:     1,
//	    Families: 5,
//	    Width:    800,
//	    Height:   600,
//	})
//	if err != nil {
//	    return err
//	}
//	for tile := range gen.Tiles() {
//	    draw(tile.Corners, tile.Shape)
//	}
//
// # Reproducibility
//
// A [Generation] is immutable. Equal [Params] always give bit-identical
// offsets, spacing and line range, and therefore the same tile sequence.
// Parameter changes ([Generation.AdjustFamilies], [Generation.Reseed], ...)
// return a new Generation and never mutate the receiver.
//
// # Concurrency
//
// Everything here is pure. A Generation may be shared freely between
// goroutines; [Collect] splits enumeration across a bounded worker pool and
// returns tiles in the same order as [Generation.Tiles].
package pentagrid
