// Package preview draws placements without a rendering engine.
//
// [Footprint] renders the top-down view of a placement set as SVG: the
// sampling square, each item's final footprint (rectangles for boxes,
// ellipses for spheres, whose planar radii shrink independently of their
// height) and its insertion index.
//
// [ToDOT] describes the constraint graph, an edge from each binding
// neighbour to the item it shrank, and [RenderSVG] lays it out with
// Graphviz:
//
//	dot := preview.ToDOT(set)
//	svg, err := preview.RenderSVG(ctx, dot)
//
// [ToPNG] rasterises any SVG through rsvg-convert.
package preview
