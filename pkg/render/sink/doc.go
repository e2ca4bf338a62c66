// Package sink provides output format renderers for rhombus tilings.
//
// # Overview
//
// A "sink" transforms the tiles of a [pentagrid.Generation] into a final
// output format:
//
//   - SVG: one closed polygon per tile, grouped by family pair
//   - PNG: native rasterization (no external tools)
//   - PDF: print-ready output (requires rsvg-convert)
//   - JSON: generation summary plus every tile's corners
//
// The drawing space is the Generation's viewport with the origin at its
// center, so the image shows exactly the region tiles were culled against.
//
// Basic usage:
//
//	tiles := slices.Collect(gen.Tiles())
//	svg := sink.RenderSVG(gen, tiles,
//	    sink.WithPalette(p),
//	    sink.WithStrokeWidth(0.75),
//	)
//
// # Options
//
//   - [WithPalette]: Fill, stroke and background colors
//   - [WithStrokeWidth]: Outline width in viewport units (0 disables outlines)
//   - [WithoutBackground]: Leave the background transparent
//   - [WithScale]: Raster scale factor for PNG output
//
// [pentagrid.Generation]: github.com/matzehuels/pentagrid/pkg/pentagrid#Generation
package sink
