package placement

import (
	"math"

	"github.com/matzehuels/scenegen/pkg/errors"
)

// Verify re-checks a finished set against the guarantees of [Generate]:
//   - the set holds exactly Options.Count items of known kinds
//   - every sampled and final half-extent is finite and positive, and every
//     centre is finite
//   - every item rests on the floor and its vertical half-extent is unshrunk
//   - planar half-extents never exceed the sampled ones
//   - no box was sampled lopsided, and spheres were sampled round
//   - re-evaluating each item's shrink factor with its final half-extents
//     against all earlier items still meets the kind's threshold
//
// The first violation found is returned as a PLACEMENT_VIOLATION error.
func Verify(set *Set) error {
	if set == nil {
		return errors.New(errors.ErrCodeInvalidInput, "nil placement set")
	}
	opts := set.Options.WithDefaults()
	if len(set.Items) != opts.Count {
		return violation("set holds %d items, want %d", len(set.Items), opts.Count)
	}

	for i, it := range set.Items {
		if !it.Kind.Valid() {
			return errors.New(errors.ErrCodeInvalidKind, "item %d: unrecognized object type %d", i, int(it.Kind))
		}
		if !positive(it.Sampled) || !positive(it.HalfExtents) {
			return violation("item %d: half-extents must be positive (sampled %+v, final %+v)", i, it.Sampled, it.HalfExtents)
		}
		if !finite(it.Center.X) || !finite(it.Center.Y) || !finite(it.Center.Z) {
			return violation("item %d: center %+v is not finite", i, it.Center)
		}
		if it.Center.Z != it.HalfExtents.Z {
			return violation("item %d: center z %v does not rest on the floor (half-extent z %v)", i, it.Center.Z, it.HalfExtents.Z)
		}
		if it.HalfExtents.Z != it.Sampled.Z {
			return violation("item %d: vertical half-extent shrunk from %v to %v", i, it.Sampled.Z, it.HalfExtents.Z)
		}
		if it.HalfExtents.X > it.Sampled.X || it.HalfExtents.Y > it.Sampled.Y {
			return violation("item %d: planar half-extents grew past the sampled size", i)
		}
		if math.Abs(it.Center.X) > opts.Extent || math.Abs(it.Center.Y) > opts.Extent {
			return violation("item %d: center (%v, %v) outside the sampling square", i, it.Center.X, it.Center.Y)
		}

		switch it.Kind {
		case Box:
			if lopsided(it.Sampled, opts.LopsidedRatio) {
				return violation("item %d: lopsided box %+v", i, it.Sampled)
			}
		case Sphere:
			if it.Sampled.X != it.Sampled.Y || it.Sampled.Y != it.Sampled.Z {
				return violation("item %d: sphere sampled with unequal radii %+v", i, it.Sampled)
			}
		}

		if i == 0 {
			continue
		}
		scale, binding := ShrinkFactor(it.Kind, it.HalfExtents, it.Center.X, it.Center.Y, set.Items[:i], opts)
		if scale < opts.MinScale(it.Kind) {
			return violation("item %d overlaps item %d (scale %.4f below %.2f)", i, binding, scale, opts.MinScale(it.Kind))
		}
	}
	return nil
}

func violation(format string, args ...any) error {
	return errors.New(errors.ErrCodeViolation, format, args...)
}

// positive reports whether every component of v is finite and above zero.
func positive(v Vec3) bool {
	for _, c := range [3]float64{v.X, v.Y, v.Z} {
		if !finite(c) || c <= 0 {
			return false
		}
	}
	return true
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
