package pentagrid

import (
	"context"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/jbeda/geom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/pentagrid/pkg/errors"
)

func scenario(t *testing.T) *Generation {
	t.Helper()
	gen, err := New(Params{Seed: 1, Families: 5, Width: 400, Height: 400, Spacing: 60, LineRange: 2})
	require.NoError(t, err)
	return gen
}

func TestNewDeterministic(t *testing.T) {
	p := Params{Seed: 17, Families: 7, Width: 800, Height: 600}

	a, err := New(p)
	require.NoError(t, err)
	b, err := New(p)
	require.NoError(t, err)

	require.Equal(t, a.Offsets(), b.Offsets())
	require.Equal(t, a.Spacing(), b.Spacing())
	require.Equal(t, a.LineRange(), b.LineRange())
	require.Equal(t, a.Params(), b.Params())
}

func TestNewDerivesDefaults(t *testing.T) {
	gen, err := New(Params{Seed: 1, Families: 5, Width: 800, Height: 600})
	require.NoError(t, err)

	assert.Equal(t, 37.5, gen.Spacing())
	assert.Equal(t, 14, gen.LineRange())
	assert.Equal(t, DefaultCullScale, gen.Params().CullScale)

	vp := gen.Viewport()
	assert.Equal(t, geom.Coord{X: -400, Y: -300}, vp.Min)
	assert.Equal(t, geom.Coord{X: 400, Y: 300}, vp.Max)
}

func TestDeriveLineRangeClamps(t *testing.T) {
	assert.Equal(t, MinLineRange, DeriveLineRange(100, 100, 50))
	assert.Equal(t, MaxLineRange, DeriveLineRange(10000, 10000, 1))
}

func TestNewErrors(t *testing.T) {
	tests := []struct {
		name   string
		params Params
		code   errors.Code
	}{
		{"families", Params{Families: 2, Width: 100, Height: 100}, errors.ErrCodeInvalidFamilies},
		{"width", Params{Families: 5, Width: 0, Height: 100}, errors.ErrCodeInvalidViewport},
		{"spacing", Params{Families: 5, Width: 100, Height: 100, Spacing: -3}, errors.ErrCodeInvalidSpacing},
		{"line range", Params{Families: 5, Width: 100, Height: 100, LineRange: -1}, errors.ErrCodeInvalidLineRange},
		{"cull scale", Params{Families: 5, Width: 100, Height: 100, CullScale: -1}, errors.ErrCodeInvalidViewport},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.params)
			require.Error(t, err)
			require.Equal(t, tt.code, errors.GetCode(err))
		})
	}
}

func TestScenarioSeedOne(t *testing.T) {
	first := slices.Collect(scenario(t).Tiles())
	require.NotEmpty(t, first)
	for _, tile := range first {
		require.Contains(t, []Shape{Thin, Thick}, tile.Shape)
	}

	second := slices.Collect(scenario(t).Tiles())
	require.Equal(t, first, second, "same seed must reproduce the same tiles")
}

func TestTilesRestartable(t *testing.T) {
	gen := scenario(t)
	seq := gen.Tiles()
	require.Equal(t, slices.Collect(seq), slices.Collect(seq))
}

func TestTilesEarlyStop(t *testing.T) {
	gen := scenario(t)
	var n int
	for range gen.Tiles() {
		n++
		if n == 3 {
			break
		}
	}
	require.Equal(t, 3, n)
}

func TestTilesOrder(t *testing.T) {
	tiles := slices.Collect(scenario(t).Tiles())
	less := func(a, b Tile) bool {
		if a.I != b.I {
			return a.I < b.I
		}
		if a.J != b.J {
			return a.J < b.J
		}
		if a.K != b.K {
			return a.K < b.K
		}
		return a.L < b.L
	}
	for n := 1; n < len(tiles); n++ {
		require.True(t, less(tiles[n-1], tiles[n]), "tiles %d and %d out of order", n-1, n)
	}
}

func TestRhombusClosure(t *testing.T) {
	gen, err := New(Params{Seed: 3, Families: 7, Width: 600, Height: 600})
	require.NoError(t, err)

	grid := gen.Grid()
	var count int
	for tile := range gen.Tiles() {
		count++
		want := grid.Family(tile.I).Edge.Plus(grid.Family(tile.J).Edge)
		got := tile.Corners[2].Minus(tile.Corners[0])
		require.InDelta(t, want.X, got.X, 1e-6)
		require.InDelta(t, want.Y, got.Y, 1e-6)
		require.Less(t, tile.I, tile.J)
	}
	require.Positive(t, count)
}

func TestParallelFamiliesNeverYield(t *testing.T) {
	for _, n := range []int{4, 6, 8, 10} {
		gen, err := New(Params{Seed: 11, Families: n, Width: 500, Height: 500})
		require.NoError(t, err)

		var count int
		for tile := range gen.Tiles() {
			count++
			require.NotEqual(t, tile.I+n/2, tile.J, "n=%d yielded tile for antiparallel pair", n)
		}
		require.Positive(t, count)
	}
}

func TestCullingMatchesWindow(t *testing.T) {
	gen, err := New(Params{Seed: 5, Families: 5, Width: 300, Height: 200, Spacing: 30, LineRange: 6})
	require.NoError(t, err)

	type key struct{ i, j, k, l int }
	yielded := map[key]bool{}
	for tile := range gen.Tiles() {
		yielded[key{tile.I, tile.J, tile.K, tile.L}] = true
		require.True(t, anyCornerIn(gen.Window(), tile.Corners), "yielded tile has no corner in window")
	}

	r := gen.LineRange()
	var inside int
	for _, p := range Pairs(gen.Families()) {
		for k := -r; k <= r; k++ {
			for l := -r; l <= r; l++ {
				corners, ok := gen.Grid().Rhombus(p.I, p.J, k, l)
				if !ok {
					continue
				}
				visible := anyCornerIn(gen.Window(), corners)
				if visible {
					inside++
				}
				require.Equal(t, visible, yielded[key{p.I, p.J, k, l}], "pair (%d,%d) lines (%d,%d)", p.I, p.J, k, l)
			}
		}
	}
	require.Equal(t, inside, len(yielded))
	require.Less(t, inside, len(Pairs(5))*(2*r+1)*(2*r+1), "some rhombi should be culled")
}

func TestCullScaleWidensWindow(t *testing.T) {
	p := Params{Seed: 5, Families: 5, Width: 300, Height: 200, Spacing: 30, LineRange: 6}
	narrow, err := New(p)
	require.NoError(t, err)
	p.CullScale = 2
	wide, err := New(p)
	require.NoError(t, err)

	assert.Greater(t, len(slices.Collect(wide.Tiles())), len(slices.Collect(narrow.Tiles())))
}

// TestCoverageNoOverlap samples points near the origin and checks that each
// lies in exactly one tile.
func TestCoverageNoOverlap(t *testing.T) {
	for _, n := range []int{3, 5, 7} {
		gen, err := New(Params{Seed: 7, Families: n, Width: 800, Height: 800, Spacing: 40, LineRange: 12})
		require.NoError(t, err)
		tiles := slices.Collect(gen.Tiles())
		require.NotEmpty(t, tiles)

		rng := rand.New(rand.NewPCG(1, 2))
		var misses int
		const samples = 1500
		for range samples {
			p := geom.Coord{X: rng.Float64()*200 - 100, Y: rng.Float64()*200 - 100}
			var hits int
			for _, tile := range tiles {
				if insideParallelogram(p, tile.Corners) {
					hits++
				}
			}
			if hits != 1 {
				misses++
			}
		}
		require.LessOrEqual(t, misses, samples/200, "n=%d: %d of %d samples not covered exactly once", n, misses, samples)
	}
}

func TestCollectMatchesTiles(t *testing.T) {
	gen, err := New(Params{Seed: 21, Families: 6, Width: 640, Height: 480})
	require.NoError(t, err)

	want := slices.Collect(gen.Tiles())
	for _, workers := range []int{0, 1, 3, 16} {
		got, err := Collect(context.Background(), gen, workers)
		require.NoError(t, err)
		require.Equal(t, want, got, "workers=%d", workers)
	}
}

func TestCollectCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Collect(ctx, scenario(t), 2)
	require.ErrorIs(t, err, context.Canceled)
}

func TestShapeCounts(t *testing.T) {
	tiles := slices.Collect(scenario(t).Tiles())
	counts := ShapeCounts(tiles)
	require.Equal(t, len(tiles), counts[Thin]+counts[Thick])
}

func TestAdjustLineRangeKeepsOffsets(t *testing.T) {
	gen, err := New(Params{Seed: 2, Families: 5, Width: 800, Height: 600})
	require.NoError(t, err)

	wider := gen.AdjustLineRange(3)
	assert.Equal(t, gen.LineRange()+3, wider.LineRange())
	assert.Same(t, gen.Grid(), wider.Grid())
	assert.Equal(t, gen.Offsets(), wider.Offsets())
	assert.Equal(t, 14, gen.LineRange(), "receiver must not change")

	assert.Equal(t, MaxLineRange, gen.AdjustLineRange(100).LineRange())
	assert.Equal(t, MinLineRange, gen.AdjustLineRange(-100).LineRange())
}

func TestAdjustFamiliesClamps(t *testing.T) {
	gen, err := New(Params{Seed: 2, Families: 5, Width: 800, Height: 600})
	require.NoError(t, err)

	more, err := gen.AdjustFamilies(1)
	require.NoError(t, err)
	assert.Equal(t, 6, more.Families())
	assert.Len(t, more.Offsets(), 6)
	assert.Equal(t, gen.Spacing(), more.Spacing())
	assert.Equal(t, gen.Seed(), more.Seed())

	most, err := gen.AdjustFamilies(50)
	require.NoError(t, err)
	assert.Equal(t, MaxFamilies, most.Families())

	fewest, err := gen.AdjustFamilies(-50)
	require.NoError(t, err)
	assert.Equal(t, MinFamilies, fewest.Families())

	assert.Equal(t, 5, gen.Families(), "receiver must not change")
}

func TestReseed(t *testing.T) {
	gen, err := New(Params{Seed: 2, Families: 5, Width: 800, Height: 600})
	require.NoError(t, err)

	next, err := gen.Reseed()
	require.NoError(t, err)
	assert.Equal(t, uint64(3), next.Seed())
	assert.NotEqual(t, gen.Offsets(), next.Offsets())
	assert.Equal(t, OffsetsForSeed(3, 5), next.Offsets())
}

func TestResize(t *testing.T) {
	gen, err := New(Params{Seed: 2, Families: 5, Width: 800, Height: 600})
	require.NoError(t, err)
	gen = gen.AdjustLineRange(5)

	resized, err := gen.Resize(1600, 1600)
	require.NoError(t, err)
	assert.Equal(t, 100.0, resized.Spacing())
	assert.Equal(t, DeriveLineRange(1600, 1600, 100), resized.LineRange())
	assert.Equal(t, gen.Offsets(), resized.Offsets(), "same seed and N keep offsets")

	_, err = gen.Resize(0, 10)
	require.True(t, errors.Is(err, errors.ErrCodeInvalidViewport))
}

func anyCornerIn(r geom.Rect, corners [4]geom.Coord) bool {
	for _, c := range corners {
		if c.X >= r.Min.X && c.X <= r.Max.X && c.Y >= r.Min.Y && c.Y <= r.Max.Y {
			return true
		}
	}
	return false
}

// insideParallelogram solves p-v0 = a·(v1-v0) + b·(v3-v0) and checks
// 0 < a, b < 1.
func insideParallelogram(p geom.Coord, c [4]geom.Coord) bool {
	u, v, d := c[1].Minus(c[0]), c[3].Minus(c[0]), p.Minus(c[0])
	den := u.X*v.Y - u.Y*v.X
	if den == 0 {
		return false
	}
	a := (d.X*v.Y - d.Y*v.X) / den
	b := (u.X*d.Y - u.Y*d.X) / den
	const eps = 1e-9
	return a > eps && a < 1-eps && b > eps && b < 1-eps
}
