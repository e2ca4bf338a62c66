// Package palette maps tiles to colors.
//
// A palette only sees a tile's [pentagrid.Shape] and its ColorKey (the
// ordinal of its family pair), so the same Generation can be rendered with
// any palette.
//
// [pentagrid.Shape]: github.com/matzehuels/pentagrid/pkg/pentagrid#Shape
package palette

import (
	"slices"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/pentagrid/pkg/errors"
	"github.com/matzehuels/pentagrid/pkg/pentagrid"
)

// Default is the palette used when none is requested.
const Default = "penrose"

// Palette assigns fill colors to tiles plus a stroke and background color.
type Palette struct {
	name       string
	stroke     colorful.Color
	background colorful.Color
	fill       func(t pentagrid.Tile, pairs int) colorful.Color
}

var palettes = map[string]Palette{
	"penrose": {
		name:       "penrose",
		stroke:     mustHex("#2b2118"),
		background: mustHex("#f7f1e3"),
		fill: byShape(
			mustHex("#e0a458"),
			mustHex("#3f6e8c"),
		),
	},
	"spectrum": {
		name:       "spectrum",
		stroke:     mustHex("#1e1e1e"),
		background: mustHex("#ffffff"),
		fill: func(t pentagrid.Tile, pairs int) colorful.Color {
			hue := 360 * float64(t.ColorKey) / float64(max(pairs, 1))
			return colorful.Hcl(hue, 0.55, 0.72).Clamped()
		},
	},
	"ocean": {
		name:       "ocean",
		stroke:     mustHex("#0a1f2e"),
		background: mustHex("#e8f1f5"),
		fill: blend(
			mustHex("#0b3954"),
			mustHex("#bfd7ea"),
		),
	},
	"mono": {
		name:       "mono",
		stroke:     mustHex("#000000"),
		background: mustHex("#ffffff"),
		fill: byShape(
			mustHex("#d9d9d9"),
			mustHex("#7a7a7a"),
		),
	},
}

// Named returns the palette with the given name (case-insensitive).
func Named(name string) (Palette, error) {
	p, ok := palettes[strings.ToLower(name)]
	if !ok {
		return Palette{}, errors.New(errors.ErrCodeInvalidPalette,
			"unknown palette %q (available: %s)", name, strings.Join(Names(), ", "))
	}
	return p, nil
}

// Names lists the available palettes in sorted order.
func Names() []string {
	names := make([]string, 0, len(palettes))
	for name := range palettes {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func (p Palette) Name() string { return p.name }

// Fill returns the fill color of t. pairs is the number of family pairs of
// the tile's Generation, N(N-1)/2.
func (p Palette) Fill(t pentagrid.Tile, pairs int) colorful.Color { return p.fill(t, pairs) }

func (p Palette) Stroke() colorful.Color     { return p.stroke }
func (p Palette) Background() colorful.Color { return p.background }

// mustHex parses a palette color literal. It panics on malformed input, so
// the palette table fails at init rather than at render time.
func mustHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}

func byShape(thick, thin colorful.Color) func(pentagrid.Tile, int) colorful.Color {
	return func(t pentagrid.Tile, _ int) colorful.Color {
		if t.Shape == pentagrid.Thick {
			return thick
		}
		return thin
	}
}

// blend spreads the family pairs evenly between two colors in HCL space.
func blend(from, to colorful.Color) func(pentagrid.Tile, int) colorful.Color {
	return func(t pentagrid.Tile, pairs int) colorful.Color {
		if pairs <= 1 {
			return from
		}
		return from.BlendHcl(to, float64(t.ColorKey)/float64(pairs-1)).Clamped()
	}
}
