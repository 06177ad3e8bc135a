// Package placement generates sets of non-overlapping boxes and spheres
// resting on a floor plane.
//
// # Algorithm
//
// Items are placed greedily, one at a time. Each attempt samples a kind
// (one third boxes, two thirds spheres), log-normal half-extents and a planar
// centre inside the square [-Extent, Extent]². The candidate is then compared
// against every item already placed, and its planar half-extents are scaled
// down by the smallest clearance ratio found:
//
//	box:    r = 0.9 * max((|dx| - hx')/hx, (|dy| - hy')/hy)
//	sphere: r = 0.9 * max((|dx| - hx')/hx, (0.5*|dy| - hy')/hy)
//	scale = min(1, min over placed items of r)
//
// A box survives if scale >= 0.5, a sphere if scale >= 0.8. Otherwise the
// whole attempt is discarded and a fresh kind, size and position are drawn.
// Boxes whose sampled half-extents differ by more than a factor of two are
// discarded before their position is drawn.
//
// Only later items shrink; earlier items are never adjusted, so the order of
// a [Set] is significant.
//
// # Termination
//
// With [Options.MaxAttempts] left at zero the generator retries without
// bound, exactly like the reference heuristic. A count that the square cannot
// geometrically admit then never terminates unless the context is cancelled.
// Setting MaxAttempts turns that case into an INFEASIBLE_PLACEMENT error.
//
// # Randomness
//
// All random draws go through a [Sampler]. [NewSampler] returns a seeded PCG
// stream, so [Generate] is reproducible for a given seed; tests can inject
// scripted samplers.
//
// # Usage
//
//	set, err := placement.Generate(ctx, placement.NewSampler(42), placement.Options{Count: 10})
//	if err != nil {
//	    return err
//	}
//	if err := placement.Verify(set); err != nil {
//	    return err
//	}
package placement
