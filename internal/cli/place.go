package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/matzehuels/scenegen/pkg/errors"
	setio "github.com/matzehuels/scenegen/pkg/io"
	"github.com/matzehuels/scenegen/pkg/pipeline"
	"github.com/matzehuels/scenegen/pkg/placement"
)

type placeFlags struct {
	seed        uint64
	test        int
	count       int
	maxAttempts int
	output      string
	refresh     bool
	noCache     bool
}

// placeCommand creates the place command, which generates a single placement
// set and writes it as JSON.
func (c *CLI) placeCommand() *cobra.Command {
	var f placeFlags

	cmd := &cobra.Command{
		Use:   "place",
		Short: "Generate one placement set as JSON",
		Long: `Place runs the non-overlap heuristic for one scene and writes the result.
The set for --seed S --test i is the one "generate --seed S" uses for scene i.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.pipelineOptions()
			changed := cmd.Flags().Changed
			if changed("seed") {
				opts.Seed = f.seed
			}
			if changed("count") {
				opts.Placement.Count = f.count
			}
			if changed("max-attempts") {
				opts.Placement.MaxAttempts = f.maxAttempts
			}
			opts.Refresh = f.refresh
			return c.runPlace(cmd.Context(), opts, f)
		},
	}

	cmd.Flags().Uint64Var(&f.seed, "seed", pipeline.DefaultSeed, "base random seed")
	cmd.Flags().IntVarP(&f.test, "test", "t", 0, "scene index the seed is derived for")
	cmd.Flags().IntVarP(&f.count, "count", "c", placement.DefaultCount, "objects to place")
	cmd.Flags().IntVar(&f.maxAttempts, "max-attempts", pipeline.DefaultCLIMaxAttempts, "attempt cap (0 retries forever)")
	cmd.Flags().StringVarP(&f.output, "output", "o", "-", "output file, - for stdout")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "regenerate even when cached")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable the placement cache")

	return cmd
}

func (c *CLI) runPlace(ctx context.Context, opts pipeline.Options, f placeFlags) error {
	if f.test < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "test must be >= 0, got %d", f.test)
	}
	runner, err := c.newRunner(ctx, runnerOpts{noCache: f.noCache})
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	set, hit, err := runner.GeneratePlacementWithCacheInfo(ctx, opts, f.test)
	if err != nil {
		return err
	}
	c.Logger.Debug("placement",
		"seed", set.Seed,
		"attempts", set.Attempts,
		"lopsided", set.Rejections.Lopsided,
		"too_close", set.Rejections.TooClose,
		"cached", hit,
		"duration", prog.elapsed())

	if err := setio.ExportJSON(set, f.output); err != nil {
		return err
	}
	if f.output != "-" {
		printSuccess("Placed %d items", set.Len())
		printSetStats(set, hit)
		printFile(f.output)
	}
	return nil
}
