package sink_test

import (
	"fmt"
	"slices"
	"strings"

	"github.com/matzehuels/pentagrid/pkg/pentagrid"
	"github.com/matzehuels/pentagrid/pkg/render/palette"
	"github.com/matzehuels/pentagrid/pkg/render/sink"
)

func ExampleRenderSVG() {
	gen, _ := pentagrid.New(pentagrid.Params{Seed: 1, Families: 5, Width: 400, Height: 300})
	tiles := slices.Collect(gen.Tiles())

	svg := sink.RenderSVG(gen, tiles)

	fmt.Println("SVG starts with:", string(svg[:4]))
	fmt.Println("Contains viewBox:", strings.Contains(string(svg), "viewBox"))
	// Output:
	// SVG starts with: <svg
	// Contains viewBox: true
}

func ExampleWithPalette() {
	gen, _ := pentagrid.New(pentagrid.Params{Seed: 1, Families: 7, Width: 400, Height: 300})
	tiles := slices.Collect(gen.Tiles())

	p, _ := palette.Named("spectrum")
	svg := sink.RenderSVG(gen, tiles, sink.WithPalette(p), sink.WithStrokeWidth(0.5))

	fmt.Println("one polygon per tile:", strings.Count(string(svg), "<polygon") == len(tiles))
	// Output:
	// one polygon per tile: true
}
