// Package render turns enumerated tiles into image artifacts.
//
// # Overview
//
// Rendering never changes geometry. It consumes the [pentagrid.Tile] values
// a Generation yields and maps them to bytes:
//
//   - SVG to PDF conversion in this package
//   - Palettes in the [palette] subpackage
//   - Output formats (SVG, PNG, PDF, JSON) in the [sink] subpackage
//
// # Format Conversion
//
// [ToPDF] converts any SVG to PDF using the external rsvg-convert tool
// (from librsvg). [Available] reports whether the tool is installed.
//
//	svg := sink.RenderSVG(gen, tiles, sink.WithPalette(p))
//	pdf, err := render.ToPDF(ctx, svg)
//
// [sink.RenderPNG] rasterizes natively and needs no external tool.
//
// [pentagrid.Tile]: github.com/matzehuels/pentagrid/pkg/pentagrid#Tile
// [palette]: github.com/matzehuels/pentagrid/pkg/render/palette
// [sink]: github.com/matzehuels/pentagrid/pkg/render/sink
// [sink.RenderPNG]: github.com/matzehuels/pentagrid/pkg/render/sink#RenderPNG
package render
