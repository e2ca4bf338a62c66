package sink

import (
	"math"

	"github.com/matzehuels/pentagrid/pkg/render/palette"
)

// DefaultStrokeWidth is the outline width in viewport units.
const DefaultStrokeWidth = 0.75

type Option func(*renderer)

type renderer struct {
	palette     palette.Palette
	strokeWidth float64
	background  bool
	scale       float64
}

func WithPalette(p palette.Palette) Option { return func(r *renderer) { r.palette = p } }
func WithoutBackground() Option            { return func(r *renderer) { r.background = false } }

// WithStrokeWidth sets the outline width. Negative or NaN widths disable
// outlines; infinite widths are ignored.
func WithStrokeWidth(w float64) Option {
	return func(r *renderer) {
		switch {
		case math.IsInf(w, 0):
		case w > 0:
			r.strokeWidth = w
		default:
			r.strokeWidth = 0
		}
	}
}

// WithScale sets the raster scale factor. Non-positive and non-finite
// values are ignored.
func WithScale(s float64) Option {
	return func(r *renderer) {
		if s > 0 && !math.IsInf(s, 0) {
			r.scale = s
		}
	}
}

func newRenderer(opts ...Option) renderer {
	def, _ := palette.Named(palette.Default)
	r := renderer{
		palette:     def,
		strokeWidth: DefaultStrokeWidth,
		background:  true,
		scale:       1,
	}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}
