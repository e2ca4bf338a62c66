package sink

import (
	"context"

	"github.com/matzehuels/pentagrid/pkg/pentagrid"
	"github.com/matzehuels/pentagrid/pkg/render"
)

// RenderPDF renders the SVG and converts it with rsvg-convert.
func RenderPDF(ctx context.Context, gen *pentagrid.Generation, tiles []pentagrid.Tile, opts ...Option) ([]byte, error) {
	return render.ToPDF(ctx, RenderSVG(gen, tiles, opts...))
}
