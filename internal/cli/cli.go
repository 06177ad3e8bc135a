// Package cli implements the scenegen command-line interface.
//
// # Commands
//
//   - generate: place, compose and render a dataset of scenes
//   - place: generate one placement set as JSON
//   - verify: re-check a placement set
//   - preview: draw the top-down footprint of a set
//   - graph: draw which item constrained which
//   - inspect: step through a set's insertion order in the terminal
//   - serve: run the HTTP API
//   - cache: manage the placement cache
//
// # Configuration
//
// Options come from built-in defaults, then an optional config file
// (--config, or scenegen.toml / scenegen.yaml in the working directory),
// then command-line flags.
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. The logger is
// attached to the command context.
package cli

import (
	"context"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/scenegen/pkg/buildinfo"
	"github.com/matzehuels/scenegen/pkg/cache"
	"github.com/matzehuels/scenegen/pkg/catalog"
	"github.com/matzehuels/scenegen/pkg/config"
	"github.com/matzehuels/scenegen/pkg/pipeline"
	"github.com/matzehuels/scenegen/pkg/render"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for display and completion scripts.
const appName = "scenegen"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	config     config.File
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:               appName,
		Short:             "Scenegen builds synthetic tabletop scenes of non-overlapping objects",
		Long:              `Scenegen places boxes and spheres on a floor so that no two overlap, composes each placement into a lit, camera-framed scene and hands it to a rendering engine for image, depth and segmentation output.`,
		Version:           buildinfo.Version,
		SilenceUsage:      true,
		PersistentPreRunE: c.loadConfig,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (TOML or YAML; default ./scenegen.toml if present)")

	root.AddCommand(c.generateCommand())
	root.AddCommand(c.placeCommand())
	root.AddCommand(c.verifyCommand())
	root.AddCommand(c.previewCommand())
	root.AddCommand(c.graphCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the config file and attaches the logger to the context.
func (c *CLI) loadConfig(cmd *cobra.Command, args []string) error {
	path := c.configPath
	if path == "" {
		if wd, err := os.Getwd(); err == nil {
			path = config.Discover(wd)
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	c.config = cfg
	if path != "" {
		c.Logger.Debug("loaded config", "path", path)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(withLogger(ctx, c.Logger))
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// runnerOpts selects the collaborators of a pipeline runner.
type runnerOpts struct {
	noCache  bool
	renderer string
	catalog  string
}

// newRunner creates a pipeline runner for CLI use. Empty renderer and catalog
// fall back to the config file.
func (c *CLI) newRunner(ctx context.Context, ro runnerOpts) (*pipeline.Runner, error) {
	store, keyer, err := c.openCache(ctx, ro.noCache)
	if err != nil {
		return nil, err
	}
	r := pipeline.NewRunner(store, keyer, c.Logger)

	engine := ro.renderer
	if engine == "" {
		engine = c.config.Renderer
	}
	if r.Renderer, err = render.New(engine, c.Logger); err != nil {
		r.Close()
		return nil, err
	}

	url := ro.catalog
	if url == "" {
		url = c.config.Catalog
	}
	if r.Catalog, err = catalog.Open(ctx, url); err != nil {
		r.Close()
		return nil, err
	}
	return r, nil
}

func (c *CLI) openCache(ctx context.Context, noCache bool) (cache.Cache, cache.Keyer, error) {
	cfg := c.config.Cache
	if noCache {
		cfg.Backend = config.BackendNone
	}
	return cfg.Open(ctx)
}

// =============================================================================
// Options Helpers
// =============================================================================

// pipelineOptions returns the configured pipeline options with the CLI
// logger and attempt cap applied.
func (c *CLI) pipelineOptions() pipeline.Options {
	opts := c.config.Pipeline
	opts.Logger = c.Logger
	if opts.Placement.MaxAttempts == 0 {
		opts.Placement.MaxAttempts = pipeline.DefaultCLIMaxAttempts
	}
	return opts
}
