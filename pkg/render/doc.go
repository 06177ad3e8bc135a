// Package render hands scene descriptions to a rendering engine.
//
// scenegen never rasterises a view itself. A [Renderer] receives one scene
// (one camera angle of one test) with the paths its outputs should be
// written to, and reports which files it produced:
//
//   - [Describer] only writes the scene description JSON. It is the default
//     and lets a later batch job render the whole dataset.
//   - [Command] writes the description and then runs an external engine
//     command line for it, for example
//     "blender -b -P render_scene.py -- {scene} {prefix}".
//   - [Func] adapts an ordinary function, mainly for tests and embedding.
//
// The [preview] subpackage draws top-down footprint maps and constraint
// graphs for inspecting placements without an engine.
//
// [preview]: github.com/matzehuels/scenegen/pkg/render/preview
package render
