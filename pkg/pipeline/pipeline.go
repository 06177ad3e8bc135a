// Package pipeline generates a synthetic scene dataset.
//
// One run produces Tests scenes. For each scene the pipeline places the
// objects, verifies the placement, draws colours and Angles camera angles,
// and hands one scene description per angle to a renderer. The CLI, the
// HTTP API and library users all go through [Runner], so defaults, caching
// and seeding behave the same everywhere.
//
// # Seeding
//
// Scene i uses the seed placement.DeriveSeed(Options.Seed, i) for its
// placement, and a second seed derived from that one for its colours and
// camera angles. A scene therefore looks the same whether it is produced
// alone, in a sequential run or by a parallel worker, and a cached placement
// renders with the same views as a freshly generated one.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	runner.Renderer = render.Describer{}
//	result, err := runner.Execute(ctx, pipeline.Options{Tests: 100, Workers: 8})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, sc := range result.Scenes {
//	    fmt.Println(sc.Test, sc.Set.Attempts)
//	}
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/scenegen/pkg/errors"
	"github.com/matzehuels/scenegen/pkg/placement"
	"github.com/matzehuels/scenegen/pkg/render"
	"github.com/matzehuels/scenegen/pkg/scene"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI, API, and library use
// =============================================================================

const (
	// DefaultTests is the number of scenes per run.
	DefaultTests = 1

	// DefaultAngles is the number of camera views per scene.
	DefaultAngles = 4

	// DefaultSeed is the default base seed.
	DefaultSeed = uint64(42)

	// DefaultWidth and DefaultHeight are the rendered image size in pixels.
	DefaultWidth  = scene.DefaultWidth
	DefaultHeight = scene.DefaultHeight

	// DefaultOutputDir is where renderers write their files.
	DefaultOutputDir = "output/test"

	// DefaultWorkers is the number of scenes generated concurrently.
	DefaultWorkers = 1

	// DefaultCLIMaxAttempts caps placement attempts for interactive use so an
	// infeasible configuration fails instead of spinning. Library callers
	// keep unbounded retry unless they set a cap.
	DefaultCLIMaxAttempts = 100000
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options configures a run. It is decoded from API requests and config
// files; zero fields select defaults.
type Options struct {
	Tests     int    `json:"tests,omitempty" toml:"tests" yaml:"tests"`
	Angles    int    `json:"angles,omitempty" toml:"angles" yaml:"angles"`
	Seed      uint64 `json:"seed,omitempty" toml:"seed" yaml:"seed"`
	Width     int    `json:"width,omitempty" toml:"width" yaml:"width"`
	Height    int    `json:"height,omitempty" toml:"height" yaml:"height"`
	OutputDir string `json:"output_dir,omitempty" toml:"output_dir" yaml:"output_dir"`
	Workers   int    `json:"workers,omitempty" toml:"workers" yaml:"workers"`

	// Refresh regenerates placements even when they are cached.
	Refresh bool `json:"refresh,omitempty" toml:"refresh" yaml:"refresh"`

	// Preview writes a footprint SVG per scene next to the renderer outputs.
	Preview bool `json:"preview,omitempty" toml:"preview" yaml:"preview"`

	// Placement holds the object count, attempt cap and heuristic tunables.
	Placement placement.Options `json:"placement" toml:"placement" yaml:"placement"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-" toml:"-" yaml:"-"`

	validated bool
}

// ValidateAndSetDefaults applies defaults and checks every field. It is
// idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	o.SetDefaults()

	if err := errors.ValidateCount("tests", o.Tests, 1); err != nil {
		return err
	}
	if err := errors.ValidateCount("angles", o.Angles, 1); err != nil {
		return err
	}
	if err := errors.ValidateCount("workers", o.Workers, 1); err != nil {
		return err
	}
	if err := o.SceneOptions().Validate(); err != nil {
		return err
	}
	if err := o.Placement.Validate(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetDefaults fills zero fields with their defaults.
func (o *Options) SetDefaults() {
	if o.Tests == 0 {
		o.Tests = DefaultTests
	}
	if o.Angles == 0 {
		o.Angles = DefaultAngles
	}
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.OutputDir == "" {
		o.OutputDir = DefaultOutputDir
	}
	if o.Workers == 0 {
		o.Workers = DefaultWorkers
	}
	o.Placement = o.Placement.WithDefaults()
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// SceneOptions returns the scene composer options with defaults applied.
func (o *Options) SceneOptions() scene.Options {
	return scene.Options{Width: o.Width, Height: o.Height}.WithDefaults()
}

// Paths returns the output paths of one view.
func (o *Options) Paths(test, angle int) scene.Paths {
	return scene.Paths{Dir: o.OutputDir, Test: test, Angle: angle}
}

// =============================================================================
// Results
// =============================================================================

// Result contains the outputs of a run.
type Result struct {
	// RunID identifies the run in the catalog.
	RunID uuid.UUID

	// Scenes holds one entry per test, in test order.
	Scenes []SceneResult

	// Duration is the wall time of the run.
	Duration time.Duration
}

// SceneResult describes one generated scene.
type SceneResult struct {
	Test   int
	Seed   uint64
	Set    *placement.Set
	Angles []float64

	// Views holds the renderer result of each angle.
	Views []render.Result

	// Preview is the footprint SVG path, when requested.
	Preview string

	CacheHit   bool
	PlaceTime  time.Duration
	RenderTime time.Duration
}

// Totals summarises a run.
type Totals struct {
	Scenes     int
	Views      int
	Items      int
	Attempts   int
	Rejections placement.Rejections
	CacheHits  int
}

// Totals sums the per-scene statistics.
func (r *Result) Totals() Totals {
	var t Totals
	for _, sc := range r.Scenes {
		t.Scenes++
		t.Views += len(sc.Views)
		if sc.CacheHit {
			t.CacheHits++
		}
		if sc.Set == nil {
			continue
		}
		t.Items += sc.Set.Len()
		t.Attempts += sc.Set.Attempts
		t.Rejections.Lopsided += sc.Set.Rejections.Lopsided
		t.Rejections.TooClose += sc.Set.Rejections.TooClose
	}
	return t
}
