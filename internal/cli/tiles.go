package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pentagrid/pkg/pentagrid"
	"github.com/matzehuels/pentagrid/pkg/pipeline"
)

// tilesCommand creates the tiles command that summarizes a generation.
func (c *CLI) tilesCommand() *cobra.Command {
	var (
		asJSON  bool
		noCache bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "tiles",
		Short: "Print the derived parameters and tile counts of a generation",
		Long: `Print the derived parameters and tile counts of a generation.

Shows the line offsets, the derived spacing and line range, and the number
of visible tiles per family pair with its rhombus shape. With --json the
full tile list (corners included) is written to stdout instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(c.configPath)
			if err != nil {
				return err
			}
			applyConfig(cmd, cfg, &opts, nil)
			return c.runTiles(cmd.Context(), opts, asJSON, noCache)
		},
	}

	addGenerationFlags(cmd, &opts)
	cmd.Flags().BoolVar(&asJSON, "json", false, "write the tile list as JSON to stdout")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runTiles(ctx context.Context, opts pipeline.Options, asJSON, noCache bool) error {
	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()
	opts.Logger = c.Logger

	gen, err := runner.Generate(ctx, opts)
	if err != nil {
		return err
	}
	tiles, cached, err := runner.EnumerateWithCacheInfo(ctx, gen, opts)
	if err != nil {
		return fmt.Errorf("enumerate: %w", err)
	}

	if asJSON {
		data, err := pipeline.RenderFormat(ctx, gen, tiles, pipeline.FormatJSON)
		if err != nil {
			return err
		}
		_, err = stdout.Write(append(data, '\n'))
		return err
	}

	printGeneration(gen)
	printNewline()
	printPairs(gen, tiles)
	printNewline()
	printStats(len(tiles), pentagrid.ShapeCounts(tiles), cached)
	return nil
}

func printGeneration(gen *pentagrid.Generation) {
	fmt.Fprintln(stdout, StyleTitle.Render(fmt.Sprintf("%d-fold multigrid", gen.Families())))
	printKeyValue("seed", fmt.Sprint(gen.Seed()))
	printKeyValue("viewport", fmt.Sprintf("%g × %g", gen.Width(), gen.Height()))
	printKeyValue("spacing", fmt.Sprintf("%.4g", gen.Spacing()))
	printKeyValue("line range", fmt.Sprintf("±%d", gen.LineRange()))

	offsets := make([]string, 0, gen.Families())
	var sum float64
	for _, o := range gen.Offsets() {
		offsets = append(offsets, fmt.Sprintf("%.4f", o))
		sum += o
	}
	printKeyValue("offsets", strings.Join(offsets, " "))
	printKeyValue("offset sum", fmt.Sprintf("%.6f", sum))
}

// printPairs lists tile counts per family pair.
func printPairs(gen *pentagrid.Generation, tiles []pentagrid.Tile) {
	counts := make(map[int]int)
	for _, t := range tiles {
		counts[t.ColorKey]++
	}
	n := gen.Families()
	for _, p := range pentagrid.Pairs(n) {
		shape := pentagrid.ShapeOf(n, p.I, p.J)
		label := fmt.Sprintf("(%d,%d)", p.I, p.J)
		if _, ok := gen.Grid().IntersectLines(p.I, 0, p.J, 0); !ok {
			printKeyValue(label, StyleDim.Render("parallel"))
			continue
		}
		printKeyValue(label, fmt.Sprintf("%s %s", StyleNumber.Render(fmt.Sprint(counts[p.Ordinal])), StyleDim.Render(string(shape))))
	}
}

// printNewline prints an empty line.
func printNewline() {
	fmt.Fprintln(stdout)
}
