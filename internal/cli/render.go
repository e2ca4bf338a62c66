package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pentagrid/pkg/errors"
	"github.com/matzehuels/pentagrid/pkg/pipeline"
	"github.com/matzehuels/pentagrid/pkg/render"
)

// renderCommand creates the render command that writes tiling images.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		output string
		rf     renderFlags
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a rhombus tiling to SVG, PNG, PDF or JSON",
		Long: `Render a rhombus tiling to SVG, PNG, PDF or JSON.

The tiling is fully determined by the seed, the number of families and the
viewport; the same flags always produce the same file. Enumerated tiles and
rendered files are cached locally, so re-rendering a seed with a different
palette only repeats the drawing step.

PDF output requires rsvg-convert (librsvg).`,
		Example: `  pentagrid render --seed 7
  pentagrid render -n 7 -f svg,png --palette spectrum -o heptagrid
  pentagrid render --config pentagrid.toml --width 1920 --height 1080`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(c.configPath)
			if err != nil {
				return err
			}
			applyConfig(cmd, cfg, &opts, &rf)
			if !cmd.Flags().Changed("output") && cfg.Render.Output != "" {
				output = cfg.Render.Output
			}
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			if slices.Contains(opts.Formats, pipeline.FormatPDF) && !render.Available() {
				return errors.New(errors.ErrCodeUnsupported,
					"pdf export requires rsvg-convert (librsvg); use -f svg or -f png instead")
			}
			return c.runRender(cmd.Context(), opts, output, rf.noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	addGenerationFlags(cmd, &opts)
	addRenderFlags(cmd, &opts, &rf)

	return cmd
}

// runRender executes the pipeline and writes one file per format.
func (c *CLI) runRender(ctx context.Context, opts pipeline.Options, output string, noCache bool) error {
	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger
	prog := newProgress(c.Logger)

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Tiling %d families...", opts.Families))
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return fmt.Errorf("render: %w", err)
	}
	spinner.Stop()

	paths, err := writeArtifacts(result.Artifacts, opts.Formats, output, defaultBaseName(opts))
	if err != nil {
		return err
	}

	printSuccess("Rendered %d-fold tiling (seed %d)", result.Generation.Families(), result.Generation.Seed())
	printStats(result.Stats.TileCount, result.Shapes, result.CacheInfo.RenderHit)
	for _, p := range paths {
		printFile(p)
	}
	prog.done("render complete", "files", len(paths))
	return nil
}

// defaultBaseName names output files after the parameters that determine
// the tiling.
func defaultBaseName(opts pipeline.Options) string {
	return fmt.Sprintf("pentagrid-n%d-s%d", opts.Families, opts.Seed)
}

// basePath strips a known format extension from output, or falls back to
// fallback when output is empty.
func basePath(output, fallback string) string {
	if output == "" {
		return fallback
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// outputPaths maps each format to its file path. A single format written to
// an explicit output path keeps that path verbatim.
func outputPaths(formats []string, output, fallback string) map[string]string {
	paths := make(map[string]string, len(formats))
	if len(formats) == 1 && output != "" && filepath.Ext(output) != "" {
		paths[formats[0]] = output
		return paths
	}
	base := basePath(output, fallback)
	for _, f := range formats {
		paths[f] = base + "." + f
	}
	return paths
}

// writeArtifacts writes artifacts in format order and returns the paths.
func writeArtifacts(artifacts map[string][]byte, formats []string, output, fallback string) ([]string, error) {
	paths := outputPaths(formats, output, fallback)
	written := make([]string, 0, len(formats))
	for _, f := range formats {
		path := paths[f]
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return written, fmt.Errorf("create output dir: %w", err)
			}
		}
		if err := os.WriteFile(path, artifacts[f], 0644); err != nil {
			return written, fmt.Errorf("write %s: %w", path, err)
		}
		written = append(written, path)
	}
	return written, nil
}
