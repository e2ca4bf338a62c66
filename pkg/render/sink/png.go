package sink

import (
	"bytes"
	"math"

	"github.com/fogleman/gg"

	"github.com/matzehuels/pentagrid/pkg/errors"
	"github.com/matzehuels/pentagrid/pkg/pentagrid"
)

// maxPixels bounds the raster size a scale factor can request.
const maxPixels = 64 << 20

// RenderPNG rasterizes tiles with the same layout as RenderSVG. The image
// is the viewport size multiplied by the WithScale factor.
func RenderPNG(gen *pentagrid.Generation, tiles []pentagrid.Tile, opts ...Option) ([]byte, error) {
	r := newRenderer(opts...)
	vp := gen.Viewport()
	fw := math.Ceil(vp.Width() * r.scale)
	fh := math.Ceil(vp.Height() * r.scale)
	if !(fw >= 1 && fh >= 1 && fw*fh <= maxPixels) {
		return nil, errors.New(errors.ErrCodeInvalidInput, "raster of %gx%g pixels exceeds limit", fw, fh)
	}
	w, h := int(fw), int(fh)
	pairs := len(pentagrid.Pairs(gen.Families()))

	dc := gg.NewContext(w, h)
	if r.background {
		dc.SetColor(r.palette.Background())
		dc.Clear()
	}

	// Viewport coordinates map onto pixels with the origin at the center.
	dc.Scale(r.scale, r.scale)
	dc.Translate(-vp.Min.X, -vp.Min.Y)
	dc.SetLineJoinRound()
	dc.SetLineWidth(r.strokeWidth * r.scale)

	for _, t := range tiles {
		c := t.Corners
		dc.MoveTo(c[0].X, c[0].Y)
		for _, p := range c[1:] {
			dc.LineTo(p.X, p.Y)
		}
		dc.ClosePath()
		dc.SetColor(r.palette.Fill(t, pairs))
		if r.strokeWidth > 0 {
			dc.FillPreserve()
			dc.SetColor(r.palette.Stroke())
			dc.Stroke()
		} else {
			dc.Fill()
		}
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode png")
	}
	return buf.Bytes(), nil
}
