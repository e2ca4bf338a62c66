package pipeline

import (
	"context"
	"fmt"

	"github.com/matzehuels/pentagrid/pkg/pentagrid"
	"github.com/matzehuels/pentagrid/pkg/render/palette"
	"github.com/matzehuels/pentagrid/pkg/render/sink"
)

// Render generates output artifacts in the requested formats.
func Render(ctx context.Context, gen *pentagrid.Generation, tiles []pentagrid.Tile, opts Options) (map[string][]byte, error) {
	sinkOpts, err := buildSinkOptions(opts)
	if err != nil {
		return nil, err
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		data, err := RenderFormat(ctx, gen, tiles, format, sinkOpts...)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

// RenderFormat renders a single format.
func RenderFormat(ctx context.Context, gen *pentagrid.Generation, tiles []pentagrid.Tile, format string, opts ...sink.Option) ([]byte, error) {
	switch format {
	case FormatSVG:
		return sink.RenderSVG(gen, tiles, opts...), nil
	case FormatPNG:
		return sink.RenderPNG(gen, tiles, opts...)
	case FormatPDF:
		return sink.RenderPDF(ctx, gen, tiles, opts...)
	case FormatJSON:
		return sink.RenderJSON(gen, tiles, opts...)
	default:
		return nil, ValidateFormat(format)
	}
}

// buildSinkOptions maps pipeline options to sink options.
func buildSinkOptions(opts Options) ([]sink.Option, error) {
	name := opts.Palette
	if name == "" {
		name = DefaultPalette
	}
	p, err := palette.Named(name)
	if err != nil {
		return nil, err
	}

	sinkOpts := []sink.Option{sink.WithPalette(p), sink.WithScale(opts.Scale)}
	if opts.StrokeWidth != nil {
		sinkOpts = append(sinkOpts, sink.WithStrokeWidth(*opts.StrokeWidth))
	}
	if opts.Transparent {
		sinkOpts = append(sinkOpts, sink.WithoutBackground())
	}
	return sinkOpts, nil
}
