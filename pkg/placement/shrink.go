package placement

import "math"

// Ratio returns the clearance ratio of a candidate of the given kind, with
// half-extents ext centred at (x, y), against the placed item p. A ratio of
// at least 1 means the candidate fits at full size; below 1 it is the factor
// its planar half-extents must shrink by.
//
// The y distance is weighted by SphereYFactor for sphere candidates.
func Ratio(kind Kind, ext Vec3, x, y float64, p Item, opts Options) float64 {
	dy := math.Abs(y - p.Center.Y)
	if kind == Sphere {
		dy *= opts.SphereYFactor
	}
	rx := (math.Abs(x-p.Center.X) - p.HalfExtents.X) / ext.X
	ry := (dy - p.HalfExtents.Y) / ext.Y
	return opts.Clearance * math.Max(rx, ry)
}

// ShrinkFactor returns the planar scale a candidate must take to clear every
// item in placed, capped at 1, and the index of the item that bound it.
// The index is -1 when the candidate fits unshrunk.
func ShrinkFactor(kind Kind, ext Vec3, x, y float64, placed []Item, opts Options) (float64, int) {
	best, binding := 1.0, -1
	for i, p := range placed {
		if r := Ratio(kind, ext, x, y, p, opts); r < best {
			best, binding = r, i
		}
	}
	return best, binding
}

// lopsided reports whether a box's half-extents are too uneven to place.
func lopsided(ext Vec3, ratio float64) bool {
	return ext.Min()*ratio < ext.Max()
}
