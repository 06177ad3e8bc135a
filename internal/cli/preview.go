package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/scenegen/pkg/errors"
	setio "github.com/matzehuels/scenegen/pkg/io"
	"github.com/matzehuels/scenegen/pkg/pipeline"
	"github.com/matzehuels/scenegen/pkg/placement"
	"github.com/matzehuels/scenegen/pkg/render/preview"
)

const (
	formatSVG = "svg"
	formatPNG = "png"
	formatDOT = "dot"
)

type previewFlags struct {
	output  string
	format  string
	size    int
	upto    int
	sampled bool
	zoom    float64
}

// previewCommand creates the preview command, which draws the top-down
// footprint of a set.
func (c *CLI) previewCommand() *cobra.Command {
	var f previewFlags

	cmd := &cobra.Command{
		Use:   "preview <set.json>",
		Short: "Draw the top-down footprint of a placement set",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateFormat(f.format, formatSVG, formatPNG); err != nil {
				return err
			}
			set, err := setio.ImportJSON(args[0])
			if err != nil {
				return err
			}
			svg := preview.Footprint(set, preview.FootprintOptions{
				Size:        f.size,
				Palette:     pipeline.Palette(set),
				Upto:        f.upto,
				ShowSampled: f.sampled,
			})
			path := outputPath(f.output, args[0], "_footprint", f.format)
			return writeImage(cmd.Context(), path, f.format, svg, f.zoom)
		},
	}

	cmd.Flags().StringVarP(&f.output, "output", "o", "", "output file (default <set>_footprint.<format>)")
	cmd.Flags().StringVarP(&f.format, "format", "f", formatSVG, "output format: svg, png")
	cmd.Flags().IntVar(&f.size, "size", preview.DefaultSize, "image width and height in pixels")
	cmd.Flags().IntVar(&f.upto, "upto", 0, "draw only the first N items")
	cmd.Flags().BoolVar(&f.sampled, "sampled", false, "outline the pre-shrink footprint of shrunk items")
	cmd.Flags().Float64Var(&f.zoom, "zoom", 1, "PNG zoom factor")
	return cmd
}

// graphCommand creates the graph command, which draws the constraint graph
// of a set: an edge from each item to the earlier item that bound its size.
func (c *CLI) graphCommand() *cobra.Command {
	var f previewFlags

	cmd := &cobra.Command{
		Use:   "graph <set.json>",
		Short: "Draw which item constrained which",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateFormat(f.format, formatSVG, formatPNG, formatDOT); err != nil {
				return err
			}
			set, err := setio.ImportJSON(args[0])
			if err != nil {
				return err
			}
			return c.runGraph(cmd.Context(), set, outputPath(f.output, args[0], "_constraints", f.format), f)
		},
	}

	cmd.Flags().StringVarP(&f.output, "output", "o", "", "output file (default <set>_constraints.<format>)")
	cmd.Flags().StringVarP(&f.format, "format", "f", formatSVG, "output format: svg, png, dot")
	cmd.Flags().Float64Var(&f.zoom, "zoom", 1, "PNG zoom factor")
	return cmd
}

func (c *CLI) runGraph(ctx context.Context, set *placement.Set, path string, f previewFlags) error {
	dot := preview.ToDOT(set)
	if f.format == formatDOT {
		return writeOutput(path, []byte(dot))
	}

	spinner := newSpinnerWithContext(ctx, "Laying out constraint graph...")
	spinner.Start()
	svg, err := preview.RenderSVG(ctx, dot)
	spinner.Stop()
	if err != nil {
		return errors.Wrap(errors.ErrCodeRenderFailed, err, "render constraint graph")
	}
	return writeImage(ctx, path, f.format, svg, f.zoom)
}

// writeImage writes svg to path, converting it to PNG first if asked.
func writeImage(ctx context.Context, path, format string, svg []byte, zoom float64) error {
	data := svg
	if format == formatPNG {
		png, err := preview.ToPNG(ctx, svg, zoom)
		if err != nil {
			return err
		}
		data = png
	}
	return writeOutput(path, data)
}

func writeOutput(path string, data []byte) error {
	if path == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	printSuccess("Wrote %s", filepath.Base(path))
	printFile(path)
	return nil
}

// outputPath returns explicit, or the input path with its extension replaced
// by suffix and format. Stdin input writes to stdout.
func outputPath(explicit, input, suffix, format string) string {
	if explicit != "" {
		return explicit
	}
	if input == "-" {
		return "-"
	}
	base := strings.TrimSuffix(input, filepath.Ext(input))
	return base + suffix + "." + format
}

func validateFormat(format string, valid ...string) error {
	for _, v := range valid {
		if format == v {
			return nil
		}
	}
	return errors.New(errors.ErrCodeUnsupported, "format %q (must be one of %s)", format, strings.Join(valid, ", "))
}
