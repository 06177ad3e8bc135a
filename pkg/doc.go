// Package pkg provides the libraries behind scenegen, a generator of
// synthetic tabletop scenes for vision datasets.
//
// # Overview
//
// Each scene holds a handful of boxes and spheres resting on a floor, none of
// them overlapping. The pkg directory is organized into four areas:
//
//  1. [placement] - The non-overlap placement heuristic and its verifier
//  2. [scene] and [render] - Scene composition and rendering collaborators
//  3. [pipeline] - Orchestration (place → compose → render → catalog)
//  4. [cache], [catalog], [config] - Infrastructure
//
// # Architecture
//
// The data flow of one run:
//
//	seed, options
//	     ↓
//	[placement] package (sample, shrink, accept or reject)
//	     ↓
//	[scene] package (floor, light, camera per angle, coloured objects)
//	     ↓
//	[render] package (scene description + external engine)
//	     ↓
//	image, depth, segmentation, scene JSON
//
// # Quick Start
//
// Place ten objects and check the result:
//
//	set, err := placement.Generate(ctx, placement.NewSampler(42), placement.Options{})
//	if err != nil {
//	    return err
//	}
//	if err := placement.Verify(set); err != nil {
//	    return err
//	}
//
// Run a whole dataset with caching:
//
//	fc, _ := cache.NewFileCache(dir)
//	runner := pipeline.NewRunner(fc, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{Tests: 100, Angles: 4})
//
// # Main Packages
//
// [placement] - Sequential random insertion: candidate extents are drawn
// log-normally, shrunk in the plane until they clear every earlier item and
// rejected when too lopsided or too small. [placement.Constraints] recovers
// which item bound each shrink.
//
// [scene] - Builds the renderer-neutral scene description of a set for one
// camera angle, with palettes, output paths and camera placement.
//
// [render] - The Renderer interface, a scene-file-only Describer and a
// Command adapter driving an external engine. [render/preview] draws
// footprints and constraint graphs.
//
// [pipeline] - Fans scenes out over workers with derived seeds so a run is
// independent of its worker count.
//
// [cache] - Placement cache backends (file, Redis) and key derivation.
//
// [catalog] - Scene records in SQLite or MongoDB.
//
// [config] - TOML and YAML config files.
//
// [io] - Placement set JSON files.
//
// [errors] - Error codes shared by the CLI and the HTTP API.
//
// [placement]: https://pkg.go.dev/github.com/matzehuels/scenegen/pkg/placement
// [scene]: https://pkg.go.dev/github.com/matzehuels/scenegen/pkg/scene
// [render]: https://pkg.go.dev/github.com/matzehuels/scenegen/pkg/render
// [render/preview]: https://pkg.go.dev/github.com/matzehuels/scenegen/pkg/render/preview
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/scenegen/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/scenegen/pkg/cache
// [catalog]: https://pkg.go.dev/github.com/matzehuels/scenegen/pkg/catalog
// [config]: https://pkg.go.dev/github.com/matzehuels/scenegen/pkg/config
// [io]: https://pkg.go.dev/github.com/matzehuels/scenegen/pkg/io
// [errors]: https://pkg.go.dev/github.com/matzehuels/scenegen/pkg/errors
// [placement.Constraints]: https://pkg.go.dev/github.com/matzehuels/scenegen/pkg/placement#Constraints
package pkg
