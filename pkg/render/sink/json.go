package sink

import (
	"encoding/json"

	"github.com/matzehuels/pentagrid/pkg/errors"
	"github.com/matzehuels/pentagrid/pkg/pentagrid"
)

// Document is the JSON form of a rendered tiling.
type Document struct {
	Seed      uint64         `json:"seed"`
	Families  int            `json:"families"`
	Spacing   float64        `json:"spacing"`
	LineRange int            `json:"line_range"`
	Width     float64        `json:"width"`
	Height    float64        `json:"height"`
	Offsets   []float64      `json:"offsets"`
	Palette   string         `json:"palette"`
	Shapes    map[string]int `json:"shapes"`
	Tiles     []TileJSON     `json:"tiles"`
}

// TileJSON is one tile in a Document. Corners are [x, y] pairs in
// viewport coordinates, origin at the center.
type TileJSON struct {
	I        int           `json:"i"`
	J        int           `json:"j"`
	K        int           `json:"k"`
	L        int           `json:"l"`
	Shape    string        `json:"shape"`
	ColorKey int           `json:"color_key"`
	Fill     string        `json:"fill"`
	Corners  [4][2]float64 `json:"corners"`
}

// RenderJSON serializes the generation summary and its tiles. Fill colors
// come from the WithPalette option.
func RenderJSON(gen *pentagrid.Generation, tiles []pentagrid.Tile, opts ...Option) ([]byte, error) {
	r := newRenderer(opts...)
	pairs := len(pentagrid.Pairs(gen.Families()))

	doc := Document{
		Seed:      gen.Seed(),
		Families:  gen.Families(),
		Spacing:   gen.Spacing(),
		LineRange: gen.LineRange(),
		Width:     gen.Width(),
		Height:    gen.Height(),
		Offsets:   gen.Offsets(),
		Palette:   r.palette.Name(),
		Shapes:    make(map[string]int, 2),
		Tiles:     make([]TileJSON, 0, len(tiles)),
	}
	for shape, n := range pentagrid.ShapeCounts(tiles) {
		doc.Shapes[string(shape)] = n
	}
	for _, t := range tiles {
		tj := TileJSON{
			I: t.I, J: t.J, K: t.K, L: t.L,
			Shape:    string(t.Shape),
			ColorKey: t.ColorKey,
			Fill:     r.palette.Fill(t, pairs).Hex(),
		}
		for n, c := range t.Corners {
			tj.Corners[n] = [2]float64{c.X, c.Y}
		}
		doc.Tiles = append(doc.Tiles, tj)
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode tiling json")
	}
	return data, nil
}
