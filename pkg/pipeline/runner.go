package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/scenegen/pkg/cache"
	"github.com/matzehuels/scenegen/pkg/catalog"
	"github.com/matzehuels/scenegen/pkg/observability"
	"github.com/matzehuels/scenegen/pkg/placement"
	"github.com/matzehuels/scenegen/pkg/render"
	"github.com/matzehuels/scenegen/pkg/render/preview"
	"github.com/matzehuels/scenegen/pkg/scene"
)

// Runner executes runs with caching, rendering and cataloguing.
//
// The Runner holds no per-run state. Multiple goroutines can safely use the
// same Runner with different options.
type Runner struct {
	Cache    cache.Cache
	Keyer    cache.Keyer
	Catalog  catalog.Store
	Renderer render.Renderer
	Logger   *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
// The renderer defaults to render.Describer and the catalog to
// catalog.Discard; set the fields to change them.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:    c,
		Keyer:    keyer,
		Catalog:  catalog.Discard{},
		Renderer: render.Describer{},
		Logger:   logger,
	}
}

// Execute generates and renders every scene of a run. Scenes are spread
// over opts.Workers goroutines; the first failure cancels the others.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	start := time.Now()
	result := &Result{
		RunID:  uuid.New(),
		Scenes: make([]SceneResult, opts.Tests),
	}
	r.logger(opts).Info("starting run",
		"run", result.RunID,
		"tests", opts.Tests,
		"angles", opts.Angles,
		"count", opts.Placement.Count,
		"seed", opts.Seed,
		"workers", opts.Workers)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)
	for i := 0; i < opts.Tests; i++ {
		g.Go(func() error {
			sc, err := r.RunScene(gctx, opts, result.RunID, start, i)
			if err != nil {
				return fmt.Errorf("test %d: %w", i, err)
			}
			result.Scenes[i] = *sc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result.Duration = time.Since(start)
	t := result.Totals()
	r.logger(opts).Info("run complete",
		"scenes", t.Scenes,
		"views", t.Views,
		"attempts", t.Attempts,
		"cache_hits", t.CacheHits,
		"duration", result.Duration)
	return result, nil
}

// RunScene produces scene test of a run: placement, views, renders and the
// catalog record.
func (r *Runner) RunScene(ctx context.Context, opts Options, runID uuid.UUID, started time.Time, test int) (*SceneResult, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	renderer := r.Renderer
	if renderer == nil {
		renderer = render.Describer{}
	}

	placeStart := time.Now()
	set, hit, err := r.GeneratePlacementWithCacheInfo(ctx, opts, test)
	if err != nil {
		return nil, err
	}
	sc := &SceneResult{
		Test:      test,
		Seed:      set.Seed,
		Set:       set,
		CacheHit:  hit,
		PlaceTime: time.Since(placeStart),
	}
	r.logger(opts).Debug("placed scene",
		"test", test,
		"attempts", set.Attempts,
		"lopsided", set.Rejections.Lopsided,
		"too_close", set.Rejections.TooClose,
		"cached", hit,
		"duration", sc.PlaceTime)

	views := ViewSampler(set)
	palette := scene.Palette(views, set.Len())
	sc.Angles = scene.SampleAngles(views, opts.Angles)

	renderStart := time.Now()
	for j, theta := range sc.Angles {
		res, err := r.renderView(ctx, renderer, set, palette, opts, scene.View{Test: test, Angle: j, Theta: theta})
		if err != nil {
			return nil, err
		}
		sc.Views = append(sc.Views, res)
	}
	sc.RenderTime = time.Since(renderStart)

	if opts.Preview {
		if sc.Preview, err = writePreview(opts, test, set, palette); err != nil {
			return nil, err
		}
	}

	if r.Catalog != nil {
		rec := catalog.NewRecord(runID, started, test, set)
		rec.Angles = sc.Angles
		for _, v := range sc.Views {
			rec.Outputs = append(rec.Outputs, v.Outputs)
		}
		if err := r.Catalog.Put(ctx, rec); err != nil {
			return nil, fmt.Errorf("catalog: %w", err)
		}
	}
	return sc, nil
}

func (r *Runner) renderView(ctx context.Context, renderer render.Renderer, set *placement.Set, palette []scene.Color, opts Options, view scene.View) (render.Result, error) {
	desc, err := scene.Build(set, palette, view, opts.SceneOptions())
	if err != nil {
		return render.Result{}, err
	}
	req := render.Request{Scene: desc, Paths: opts.Paths(view.Test, view.Angle)}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, view.Test, view.Angle)
	start := time.Now()
	res, err := renderer.Render(ctx, req)
	hooks.OnRenderComplete(ctx, view.Test, view.Angle, time.Since(start), err)
	if err != nil {
		return render.Result{}, fmt.Errorf("render %s: %w", req.Paths.Prefix(), err)
	}
	r.logger(opts).Debug("rendered view",
		"prefix", req.Paths.Prefix(),
		"theta", view.Theta,
		"outputs", len(res.Outputs))
	return res, nil
}

// GeneratePlacementWithCacheInfo returns the placement of scene test and
// whether it came from the cache. Cached sets are re-verified before use.
func (r *Runner) GeneratePlacementWithCacheInfo(ctx context.Context, opts Options, test int) (*placement.Set, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}
	c, keyer := r.cacheAndKeyer()
	seed := placement.DeriveSeed(opts.Seed, test)
	key := keyer.PlacementKey(seed, opts.Placement)
	hooks := observability.Cache()

	if !opts.Refresh {
		if data, hit, err := c.Get(ctx, key); err == nil && hit {
			var set placement.Set
			if err := json.Unmarshal(data, &set); err == nil && placement.Verify(&set) == nil {
				hooks.OnCacheHit(ctx, "placement")
				return &set, true, nil
			}
			r.logger(opts).Warn("discarding invalid cached placement", "test", test)
		} else if err != nil {
			r.logger(opts).Warn("cache read failed", "test", test, "err", err)
		}
		hooks.OnCacheMiss(ctx, "placement")
	}

	observability.Pipeline().OnPlacementStart(ctx, test, seed)
	start := time.Now()
	set, err := placement.Generate(ctx, placement.NewSampler(seed), opts.Placement)
	if err == nil {
		set.Seed = seed
		err = placement.Verify(set)
	}
	attempts := 0
	if set != nil {
		attempts = set.Attempts
	}
	observability.Pipeline().OnPlacementComplete(ctx, test, attempts, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	if data, err := json.Marshal(set); err == nil {
		if err := c.Set(ctx, key, data, cache.TTLPlacement); err != nil {
			r.logger(opts).Warn("cache write failed", "test", test, "err", err)
		} else {
			hooks.OnCacheSet(ctx, "placement", len(data))
		}
	}
	return set, false, nil
}

// GeneratePlacement is a convenience wrapper that discards the cache hit info.
func (r *Runner) GeneratePlacement(ctx context.Context, opts Options, test int) (*placement.Set, error) {
	set, _, err := r.GeneratePlacementWithCacheInfo(ctx, opts, test)
	return set, err
}

// ViewSampler returns the sampler a scene draws its colours and camera
// angles from: first set.Len() hues, then one angle per view. It depends only
// on the set's seed, so a cached placement renders the same views.
func ViewSampler(set *placement.Set) placement.Sampler {
	return placement.NewSampler(placement.DeriveSeed(set.Seed, 0))
}

// Palette returns the object colours of the scenes built from set.
func Palette(set *placement.Set) []scene.Color {
	return scene.Palette(ViewSampler(set), set.Len())
}

func writePreview(opts Options, test int, set *placement.Set, palette []scene.Color) (string, error) {
	path := filepath.Join(opts.OutputDir, fmt.Sprintf("test%d_footprint.svg", test))
	if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
		return "", err
	}
	svg := preview.Footprint(set, preview.FootprintOptions{Palette: palette, ShowSampled: true})
	if err := os.WriteFile(path, svg, 0o644); err != nil {
		return "", fmt.Errorf("write preview: %w", err)
	}
	return path, nil
}

// Close releases the cache and the catalog.
func (r *Runner) Close() error {
	var first error
	if r.Cache != nil {
		first = r.Cache.Close()
	}
	if r.Catalog != nil {
		if err := r.Catalog.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// logger returns the runner's logger, falling back to the one on opts.
func (r *Runner) logger(opts Options) *log.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return opts.Logger
}

func (r *Runner) cacheAndKeyer() (cache.Cache, cache.Keyer) {
	c, k := r.Cache, r.Keyer
	if c == nil {
		c = cache.NewNullCache()
	}
	if k == nil {
		k = cache.NewDefaultKeyer()
	}
	return c, k
}
