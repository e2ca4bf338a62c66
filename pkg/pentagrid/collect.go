package pentagrid

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Collect enumerates all visible tiles of g using up to workers goroutines.
// workers <= 0 uses GOMAXPROCS.
//
// The index space is split into rows (one family pair, one line k). Rows run
// independently and are reassembled in row order, so the result is the
// same slice Tiles would produce. Cancelling ctx stops rows that have not
// started yet and returns ctx's error.
func Collect(ctx context.Context, g *Generation, workers int) ([]Tile, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	type rowKey struct {
		pair Pair
		k    int
	}
	r := g.params.LineRange
	var rows []rowKey
	for _, p := range Pairs(g.params.Families) {
		for k := -r; k <= r; k++ {
			rows = append(rows, rowKey{pair: p, k: k})
		}
	}

	results := make([][]Tile, len(rows))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)
	for idx, row := range rows {
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			var out []Tile
			g.row(row.pair, row.k, func(t Tile) bool {
				out = append(out, t)
				return true
			})
			results[idx] = out
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	var total int
	for _, rs := range results {
		total += len(rs)
	}
	tiles := make([]Tile, 0, total)
	for _, rs := range results {
		tiles = append(tiles, rs...)
	}
	return tiles, nil
}
