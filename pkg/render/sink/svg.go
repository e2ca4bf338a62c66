package sink

import (
	"bytes"
	"fmt"

	"github.com/matzehuels/pentagrid/pkg/pentagrid"
)

// RenderSVG draws tiles as closed polygons inside the viewport of gen.
// Tiles are grouped by family pair in the order given.
func RenderSVG(gen *pentagrid.Generation, tiles []pentagrid.Tile, opts ...Option) []byte {
	r := newRenderer(opts...)
	vp := gen.Viewport()
	pairs := len(pentagrid.Pairs(gen.Families()))

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="%.2f %.2f %.2f %.2f" width="%.0f" height="%.0f">`+"\n",
		vp.Min.X, vp.Min.Y, vp.Width(), vp.Height(), vp.Width(), vp.Height())

	if r.background {
		fmt.Fprintf(&buf, `  <rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="%s"/>`+"\n",
			vp.Min.X, vp.Min.Y, vp.Width(), vp.Height(), r.palette.Background().Hex())
	}

	stroke := "none"
	if r.strokeWidth > 0 {
		stroke = r.palette.Stroke().Hex()
	}
	fmt.Fprintf(&buf, `  <g stroke="%s" stroke-width="%.2f" stroke-linejoin="round">`+"\n", stroke, r.strokeWidth)

	group := -1
	for _, t := range tiles {
		if t.ColorKey != group {
			if group >= 0 {
				buf.WriteString("    </g>\n")
			}
			group = t.ColorKey
			fmt.Fprintf(&buf, `    <g class="pair-%d-%d">`+"\n", t.I, t.J)
		}
		c := t.Corners
		fmt.Fprintf(&buf, `      <polygon class="%s" points="%.3f,%.3f %.3f,%.3f %.3f,%.3f %.3f,%.3f" fill="%s"/>`+"\n",
			t.Shape, c[0].X, c[0].Y, c[1].X, c[1].Y, c[2].X, c[2].Y, c[3].X, c[3].Y,
			r.palette.Fill(t, pairs).Hex())
	}
	if group >= 0 {
		buf.WriteString("    </g>\n")
	}

	buf.WriteString("  </g>\n</svg>\n")
	return buf.Bytes()
}
