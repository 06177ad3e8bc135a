package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/scenegen/pkg/pipeline"
)

// generateFlags holds the command-line flags of the generate command.
// Flags override the config file only when set explicitly.
type generateFlags struct {
	tests       int
	angles      int
	count       int
	seed        uint64
	out         string
	maxAttempts int
	workers     int
	width       int
	height      int
	refresh     bool
	preview     bool
	runner      runnerOpts
}

// generateCommand creates the generate command.
func (c *CLI) generateCommand() *cobra.Command {
	var f generateFlags

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate and render a dataset of scenes",
		Long: `Generate places the objects of every scene, composes each scene once per
camera angle and hands it to the renderer. Without --renderer only the scene
description files are written.

The renderer is a command line; {scene}, {dir} and {prefix} are replaced by
the scene description path, the output directory and the view prefix:

  scenegen generate --tests 100 --renderer 'blender -b -P render.py -- {scene}'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.generateOptions(cmd, f)
			return c.runGenerate(cmd.Context(), opts, f.runner)
		},
	}

	fl := cmd.Flags()
	fl.IntVarP(&f.tests, "tests", "n", pipeline.DefaultTests, "number of scenes")
	fl.IntVarP(&f.angles, "angles", "a", pipeline.DefaultAngles, "camera angles per scene")
	fl.IntVarP(&f.count, "count", "c", 0, "objects per scene (default 10)")
	fl.Uint64Var(&f.seed, "seed", pipeline.DefaultSeed, "base random seed")
	fl.StringVarP(&f.out, "out", "o", pipeline.DefaultOutputDir, "output directory")
	fl.IntVar(&f.maxAttempts, "max-attempts", pipeline.DefaultCLIMaxAttempts, "attempt cap per scene (0 retries forever)")
	fl.IntVarP(&f.workers, "workers", "w", pipeline.DefaultWorkers, "scenes generated in parallel")
	fl.IntVar(&f.width, "width", pipeline.DefaultWidth, "image width in pixels")
	fl.IntVar(&f.height, "height", pipeline.DefaultHeight, "image height in pixels")
	fl.BoolVar(&f.refresh, "refresh", false, "regenerate placements even when cached")
	fl.BoolVar(&f.preview, "preview", false, "write a footprint SVG per scene")
	fl.StringVar(&f.runner.renderer, "renderer", "", "renderer command line (default: scene files only)")
	fl.StringVar(&f.runner.catalog, "catalog", "", "catalog URL: sqlite://path, mongodb://host/db or memory://")
	fl.BoolVar(&f.runner.noCache, "no-cache", false, "disable the placement cache")

	return cmd
}

// generateOptions merges explicitly set flags over the configured options.
func (c *CLI) generateOptions(cmd *cobra.Command, f generateFlags) pipeline.Options {
	opts := c.pipelineOptions()
	changed := cmd.Flags().Changed

	if changed("tests") {
		opts.Tests = f.tests
	}
	if changed("angles") {
		opts.Angles = f.angles
	}
	if changed("count") {
		opts.Placement.Count = f.count
	}
	if changed("seed") {
		opts.Seed = f.seed
	}
	if changed("out") {
		opts.OutputDir = f.out
	}
	if changed("max-attempts") {
		opts.Placement.MaxAttempts = f.maxAttempts
	}
	if changed("workers") {
		opts.Workers = f.workers
	}
	if changed("width") {
		opts.Width = f.width
	}
	if changed("height") {
		opts.Height = f.height
	}
	if f.refresh {
		opts.Refresh = true
	}
	if f.preview {
		opts.Preview = true
	}
	return opts
}

func (c *CLI) runGenerate(ctx context.Context, opts pipeline.Options, ro runnerOpts) error {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}
	runner, err := c.newRunner(ctx, ro)
	if err != nil {
		return err
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Generating %d scenes × %d views...", opts.Tests, opts.Angles))
	spinner.Start()
	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Generation failed")
		return err
	}
	spinner.Stop()

	totals := result.Totals()
	printSuccess("Generated %d scenes (%d views) in %s", totals.Scenes, totals.Views, formatDuration(result.Duration))
	for _, sc := range result.Scenes {
		printDetail("test%d  %s", sc.Test, setStats(sc.Set, sc.CacheHit))
	}

	fmt.Println()
	printKeyValue("Run", result.RunID.String())
	printKeyValue("Items", strconv.Itoa(totals.Items))
	printKeyValue("Attempts", strconv.Itoa(totals.Attempts))
	printKeyValue("Rejected", fmt.Sprintf("%d lopsided, %d too close", totals.Rejections.Lopsided, totals.Rejections.TooClose))
	printKeyValue("Cache hits", fmt.Sprintf("%d/%d", totals.CacheHits, totals.Scenes))
	fmt.Println()
	printFile(opts.OutputDir)
	for _, sc := range result.Scenes {
		if sc.Preview != "" {
			printFile(sc.Preview)
		}
	}

	c.Logger.Debug("first scene description", "path", opts.Paths(0, 0).Scene())
	printNextStep("Inspect the first placement", fmt.Sprintf("scenegen place --seed %d | scenegen inspect -", opts.Seed))
	return nil
}
