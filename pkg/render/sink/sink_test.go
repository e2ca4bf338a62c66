package sink

import (
	"bytes"
	"context"
	"encoding/json"
	"image/png"
	"math"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/pentagrid/pkg/errors"
	"github.com/matzehuels/pentagrid/pkg/pentagrid"
	"github.com/matzehuels/pentagrid/pkg/render"
	"github.com/matzehuels/pentagrid/pkg/render/palette"
)

func testTiling(t *testing.T) (*pentagrid.Generation, []pentagrid.Tile) {
	t.Helper()
	gen, err := pentagrid.New(pentagrid.Params{Seed: 7, Families: 5, Width: 200, Height: 160})
	require.NoError(t, err)
	tiles := slices.Collect(gen.Tiles())
	require.NotEmpty(t, tiles)
	return gen, tiles
}

func TestRenderSVG(t *testing.T) {
	gen, tiles := testTiling(t)
	svg := string(RenderSVG(gen, tiles))

	assert.True(t, strings.HasPrefix(svg, "<svg"))
	assert.Contains(t, svg, `viewBox="-100.00 -80.00 200.00 160.00"`)
	assert.Equal(t, len(tiles), strings.Count(svg, "<polygon"))
	assert.Contains(t, svg, `class="pair-0-1"`)
	assert.Equal(t, strings.Count(svg, "<g"), strings.Count(svg, "</g>"), "groups must be balanced")
}

func TestRenderSVGOptions(t *testing.T) {
	gen, tiles := testTiling(t)
	mono, err := palette.Named("mono")
	require.NoError(t, err)

	svg := string(RenderSVG(gen, tiles, WithPalette(mono), WithStrokeWidth(0), WithoutBackground()))
	assert.NotContains(t, svg, "<rect")
	assert.Contains(t, svg, `stroke="none"`)
	assert.Contains(t, svg, mono.Fill(tiles[0], 10).Hex())
}

func TestRenderSVGEmpty(t *testing.T) {
	gen, _ := testTiling(t)
	svg := string(RenderSVG(gen, nil))
	assert.NotContains(t, svg, "<polygon")
	assert.Equal(t, strings.Count(svg, "<g"), strings.Count(svg, "</g>"))
}

func TestRenderPNG(t *testing.T) {
	gen, tiles := testTiling(t)

	tests := []struct {
		name  string
		scale float64
		w, h  int
	}{
		{"default scale", 0, 200, 160},
		{"2x", 2, 400, 320},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := RenderPNG(gen, tiles, WithScale(tt.scale))
			require.NoError(t, err)

			img, err := png.Decode(bytes.NewReader(data))
			require.NoError(t, err)
			assert.Equal(t, tt.w, img.Bounds().Dx())
			assert.Equal(t, tt.h, img.Bounds().Dy())
		})
	}
}

func TestRenderPNGTooLarge(t *testing.T) {
	gen, tiles := testTiling(t)
	for _, scale := range []float64{1000, 1e18, 1e300, math.MaxFloat64} {
		_, err := RenderPNG(gen, tiles, WithScale(scale))
		assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput), "scale %g: got %v", scale, err)
	}
}

func TestRenderPNGIgnoresInfiniteScale(t *testing.T) {
	gen, tiles := testTiling(t)
	data, err := RenderPNG(gen, tiles, WithScale(math.Inf(1)))
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 200, img.Bounds().Dx())
}

func TestRenderSVGNonFiniteStroke(t *testing.T) {
	gen, tiles := testTiling(t)

	svg := string(RenderSVG(gen, tiles, WithStrokeWidth(math.NaN())))
	assert.NotContains(t, svg, "NaN")
	assert.Contains(t, svg, `stroke="none"`)

	svg = string(RenderSVG(gen, tiles, WithStrokeWidth(math.Inf(1))))
	assert.NotContains(t, svg, "Inf")
	assert.Contains(t, svg, `stroke-width="0.75"`)
}

func TestRenderJSON(t *testing.T) {
	gen, tiles := testTiling(t)
	data, err := RenderJSON(gen, tiles)
	require.NoError(t, err)

	var doc Document
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, uint64(7), doc.Seed)
	assert.Equal(t, 5, doc.Families)
	assert.Equal(t, palette.Default, doc.Palette)
	assert.Len(t, doc.Offsets, 5)
	require.Len(t, doc.Tiles, len(tiles))
	assert.Equal(t, len(tiles), doc.Shapes["thick"]+doc.Shapes["thin"])

	first := doc.Tiles[0]
	assert.Equal(t, tiles[0].Corners[2].X, first.Corners[2][0])
	assert.Equal(t, tiles[0].Corners[2].Y, first.Corners[2][1])
	assert.True(t, strings.HasPrefix(first.Fill, "#"))
}

func TestRenderPDF(t *testing.T) {
	if !render.Available() {
		t.Skip("rsvg-convert not installed")
	}
	gen, tiles := testTiling(t)
	data, err := RenderPDF(context.Background(), gen, tiles)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}
