package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	compio "github.com/matzehuels/sketchbook/pkg/io"
	"github.com/matzehuels/sketchbook/pkg/pipeline"
	"github.com/matzehuels/sketchbook/pkg/sketch"
)

// renderOpts holds the command-line flags shared by render and reroll.
type renderOpts struct {
	seed    int64
	set     []string // key=value parameter patches
	formats string
	scale   int
	title   string
	output  string // output directory; empty uses the project default
	from    string // composition JSON to re-render instead of generating
	noCache bool
	refresh bool
}

// addRenderFlags registers the output flags on cmd.
func (o *renderOpts) addRenderFlags(cmd *cobra.Command) {
	cmd.Flags().StringArrayVar(&o.set, "set", nil, "override a sketch parameter (key=value, repeatable)")
	cmd.Flags().StringVarP(&o.formats, "format", "f", "", "output format(s): svg (default), png, pdf, json (comma-separated)")
	cmd.Flags().IntVar(&o.scale, "scale", pipeline.DefaultScale, "PNG/PDF pixel density (1 or 2)")
	cmd.Flags().StringVar(&o.title, "title", "", "document title embedded in SVG and PDF")
	cmd.Flags().StringVarP(&o.output, "output", "o", "", "output directory")
	cmd.Flags().BoolVar(&o.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&o.refresh, "refresh", false, "ignore cached results")
}

// pipelineOptions converts the flags for one sketch.
func (c *CLI) pipelineOptions(name string, o *renderOpts) (pipeline.Options, error) {
	set, err := sketch.ParsePatch(o.set)
	if err != nil {
		return pipeline.Options{}, err
	}
	opts := pipeline.Options{
		Sketch:   name,
		Seed:     o.seed,
		Patch:    c.cfg().patchFor(name, set),
		Formats:  parseFormats(o.formats),
		Scale:    o.scale,
		Title:    o.title,
		Refresh:  o.refresh,
		Palettes: c.palettes(),
		Font:     c.font(),
		Logger:   c.Logger,
	}
	if err := pipeline.ValidateFormats(opts.Formats); err != nil {
		return pipeline.Options{}, err
	}
	return opts, nil
}

func (o *renderOpts) outputDir(cfg *Config) string {
	if o.output != "" {
		return o.output
	}
	return cfg.Output
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [sketch]",
		Short: "Generate a sketch and export it",
		Long: `Generate a sketch from a seed and export it to SVG, PNG, PDF or JSON.

Without --seed a fresh seed is chosen and printed, so any output can be
reproduced later. With --from, a saved composition JSON is re-rendered
without generating.`,
		Example: `  sketchbook render packing --seed 32
  sketchbook render city --set grid=14 --set windows=false -f svg,png --scale 2
  sketchbook render --from genuary-2025-01-13T09-30-00.000Z.json -f pdf`,
		Args: cobra.MaximumNArgs(1),
		ValidArgsFunction: c.completeSketches,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.from != "" {
				return c.runRenderFrom(cmd.Context(), &opts)
			}
			if len(args) == 0 {
				return fmt.Errorf("sketch name required (see: %s sketches)", appName)
			}
			return c.runRender(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().Int64Var(&opts.seed, "seed", 0, "random seed (0 picks one)")
	cmd.Flags().StringVar(&opts.from, "from", "", "re-render a composition JSON file")
	opts.addRenderFlags(cmd)
	c.completeParams(cmd)
	return cmd
}

func (c *CLI) runRender(ctx context.Context, name string, o *renderOpts) error {
	opts, err := c.pipelineOptions(name, o)
	if err != nil {
		return err
	}
	runner, err := c.newRunner(ctx, o.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s...", name))
	spinner.Start()
	result, err := runner.Execute(ctx, opts)
	spinner.Stop()
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Rendered %s", name))

	printComposition(result.Composition, result.CacheInfo.GenerateHit && result.CacheInfo.RenderHit)
	if err := c.writeResult(o, result.Artifacts, result.Failed); err != nil {
		return err
	}
	c.recordRender(ctx, result.Composition, opts.Patch)
	printNextStep("Reroll", fmt.Sprintf("%s reroll %s", appName, name))
	return nil
}

func (c *CLI) runRenderFrom(ctx context.Context, o *renderOpts) error {
	comp, err := compio.ImportJSON(o.from)
	if err != nil {
		return err
	}
	opts, err := c.pipelineOptions(comp.Sketch, o)
	if err != nil {
		return err
	}
	runner, err := c.newRunner(ctx, o.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	out, _, err := runner.RenderWithCacheInfo(ctx, comp, opts)
	if err != nil {
		return err
	}
	printSuccess("Re-rendered %s seed %d from %s", StyleHighlight.Render(comp.Sketch), comp.Seed, o.from)
	return c.writeResult(o, out.Artifacts, out.Failed)
}

// writeResult writes artifacts and reports skipped formats.
func (c *CLI) writeResult(o *renderOpts, artifacts map[string][]byte, failed map[string]error) error {
	paths, err := pipeline.WriteArtifacts(o.outputDir(c.cfg()), time.Now(), artifacts, c.Logger)
	if err != nil {
		return err
	}
	for _, p := range paths {
		printFile(p)
	}
	for format, ferr := range failed {
		printWarning("%s skipped: %v", format, ferr)
	}
	return nil
}
