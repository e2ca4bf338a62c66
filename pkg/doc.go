// Package pkg provides the core libraries for Pentagrid rhombus tilings.
//
// # Overview
//
// Pentagrid draws the rhombus tiling dual to a de Bruijn multigrid: N
// families of evenly spaced parallel lines, each family rotated by 2π/N
// and shifted by a random offset. Every crossing of two lines becomes one
// rhombus. Five families give the Penrose rhombus tiling. The pkg
// directory is organized into four areas:
//
//  1. [pentagrid] - Domain logic (offsets, grid, cell resolution, dual tiles)
//  2. [pipeline] - Orchestration (generate → enumerate → render)
//  3. [render] - Palettes, output sinks and SVG conversion
//  4. [cache] - Tile and artifact caching (file, redis, null)
//
// # Architecture
//
// The typical data flow:
//
//	seed, N, viewport
//	         ↓
//	    [pentagrid] New (offsets, spacing, line range)
//	         ↓
//	    [pentagrid] Collect (visible tiles, in parallel)
//	         ↓
//	    [render/sink] (SVG, PNG, PDF, JSON)
//
// # Quick Start
//
//	import (
//	    "context"
//	    "github.com/matzehuels/pentagrid/pkg/pentagrid"
//	    "github.com/matzehuels/pentagrid/pkg/render/sink"
//	)
//
//	// 1. Derive the generation
//	gen, _ := pentagrid.New(pentagrid.Params{Seed: 7, Families: 5, Width: 800, Height: 600})
//
//	// 2. Enumerate visible tiles
//	tiles, _ := pentagrid.Collect(context.Background(), gen, 0)
//
//	// 3. Render to SVG
//	svg := sink.RenderSVG(gen, tiles)
//
// # Supporting Packages
//
// [errors] - Coded errors shared by the CLI and the HTTP server.
//
// [observability] - Pipeline, cache and HTTP hooks with a Prometheus
// implementation.
//
// [buildinfo] - Version information set at link time.
//
// # Testing
//
//	go test ./pkg/...                    # All tests
//	go test ./pkg/pentagrid/...          # Specific package
//	go test -run Example                 # Examples only
//
// [pentagrid]: https://pkg.go.dev/github.com/matzehuels/pentagrid/pkg/pentagrid
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/pentagrid/pkg/pipeline
// [render]: https://pkg.go.dev/github.com/matzehuels/pentagrid/pkg/render
// [render/sink]: https://pkg.go.dev/github.com/matzehuels/pentagrid/pkg/render/sink
// [cache]: https://pkg.go.dev/github.com/matzehuels/pentagrid/pkg/cache
// [errors]: https://pkg.go.dev/github.com/matzehuels/pentagrid/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/pentagrid/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/pentagrid/pkg/buildinfo
package pkg
