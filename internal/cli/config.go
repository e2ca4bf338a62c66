package cli

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/matzehuels/pentagrid/pkg/pentagrid"
	"github.com/matzehuels/pentagrid/pkg/pipeline"
)

// Config mirrors the TOML config file.
//
//	[generation]
//	seed = 7
//	families = 5
//
//	[render]
//	formats = ["svg", "png"]
//	palette = "ocean"
//
//	[server]
//	addr = ":8080"
//	redis_url = "redis://localhost:6379/0"
type Config struct {
	Generation pentagrid.Params `toml:"generation"`
	Render     RenderConfig     `toml:"render"`
	Server     ServerConfig     `toml:"server"`
}

// RenderConfig holds presentation defaults.
type RenderConfig struct {
	Output      string   `toml:"output"`
	Formats     []string `toml:"formats"`
	Palette     string   `toml:"palette"`
	StrokeWidth *float64 `toml:"stroke_width"`
	Scale       float64  `toml:"scale"`
	Transparent bool     `toml:"transparent"`
	Workers     int      `toml:"workers"`
}

// ServerConfig holds `pentagrid serve` settings.
type ServerConfig struct {
	Addr      string  `toml:"addr"`
	RedisURL  string  `toml:"redis_url"`
	KeyPrefix string  `toml:"key_prefix"`
	MaxWidth  float64 `toml:"max_width"`
	MaxHeight float64 `toml:"max_height"`
}

// loadConfig reads path. An empty path yields the zero Config. Unknown keys
// are rejected so typos don't silently fall back to defaults.
func loadConfig(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, nil
	}
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return cfg, fmt.Errorf("load config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return cfg, fmt.Errorf("load config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	return cfg, nil
}

// =============================================================================
// Shared Flags
// =============================================================================

// renderFlags holds flag values that don't map one-to-one onto
// pipeline.Options.
type renderFlags struct {
	formats     string
	strokeWidth float64
	noCache     bool
}

func addGenerationFlags(cmd *cobra.Command, opts *pipeline.Options) {
	f := cmd.Flags()
	f.Uint64Var(&opts.Seed, "seed", pipeline.DefaultSeed, "random seed for the line offsets")
	f.IntVarP(&opts.Families, "families", "n", pipeline.DefaultFamilies, "number of line families (>= 3; 5 is Penrose)")
	f.Float64Var(&opts.Width, "width", pipeline.DefaultWidth, "viewport width")
	f.Float64Var(&opts.Height, "height", pipeline.DefaultHeight, "viewport height")
	f.Float64Var(&opts.Spacing, "spacing", 0, "line spacing (0 derives min(width,height)/16)")
	f.IntVar(&opts.LineRange, "line-range", 0, "lines per side of each family (0 derives from the viewport)")
	f.Float64Var(&opts.CullScale, "cull-scale", 0, "culling window relative to the viewport (0 means 1.0)")
	f.IntVar(&opts.Workers, "workers", 0, "enumeration goroutines (0 uses GOMAXPROCS)")
}

func addRenderFlags(cmd *cobra.Command, opts *pipeline.Options, rf *renderFlags) {
	f := cmd.Flags()
	f.StringVarP(&rf.formats, "format", "f", "", "output format(s): svg (default), png, pdf, json (comma-separated)")
	f.StringVarP(&opts.Palette, "palette", "p", pipeline.DefaultPalette, "palette: penrose, spectrum, ocean, mono")
	f.Float64Var(&rf.strokeWidth, "stroke-width", pipeline.DefaultStrokeWidth, "tile outline width (0 disables outlines)")
	f.Float64Var(&opts.Scale, "scale", pipeline.DefaultScale, "PNG scale factor")
	f.BoolVar(&opts.Transparent, "transparent", false, "omit the background")
	f.BoolVar(&rf.noCache, "no-cache", false, "disable caching")
	f.BoolVar(&opts.Refresh, "refresh", false, "recompute and overwrite cached results")
}

// applyConfig fills opts from cfg wherever the corresponding flag was not
// set on the command line.
func applyConfig(cmd *cobra.Command, cfg Config, opts *pipeline.Options, rf *renderFlags) {
	g := cfg.Generation
	override(cmd, "seed", &opts.Seed, g.Seed)
	override(cmd, "families", &opts.Families, g.Families)
	override(cmd, "width", &opts.Width, g.Width)
	override(cmd, "height", &opts.Height, g.Height)
	override(cmd, "spacing", &opts.Spacing, g.Spacing)
	override(cmd, "line-range", &opts.LineRange, g.LineRange)
	override(cmd, "cull-scale", &opts.CullScale, g.CullScale)
	override(cmd, "workers", &opts.Workers, cfg.Render.Workers)

	if rf == nil {
		return
	}
	r := cfg.Render
	override(cmd, "palette", &opts.Palette, r.Palette)
	override(cmd, "scale", &opts.Scale, r.Scale)
	override(cmd, "transparent", &opts.Transparent, r.Transparent)

	opts.Formats = parseFormats(rf.formats)
	if !cmd.Flags().Changed("format") && len(r.Formats) > 0 {
		opts.Formats = r.Formats
	}

	switch {
	case cmd.Flags().Changed("stroke-width"):
		opts.StrokeWidth = &rf.strokeWidth
	case r.StrokeWidth != nil:
		opts.StrokeWidth = r.StrokeWidth
	}
}

func override[T comparable](cmd *cobra.Command, flag string, dst *T, v T) {
	var zero T
	if v != zero && !cmd.Flags().Changed(flag) {
		*dst = v
	}
}
