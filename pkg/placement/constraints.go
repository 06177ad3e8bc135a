package placement

// Constraint records which earlier item limited the size of a later one.
type Constraint struct {
	// Item is the index of the constrained item.
	Item int `json:"item"`

	// Binding is the index of the earlier item with the smallest clearance
	// ratio, or -1 when the item was placed at full size.
	Binding int `json:"binding"`

	// Scale is the shrink factor the binding item imposed.
	Scale float64 `json:"scale"`
}

// Constraints reconstructs, for every item after the first, the earlier item
// that bound its shrink factor. Ratios are recomputed from the sampled
// half-extents, which reproduces the evaluation made at insertion time.
func Constraints(set *Set) []Constraint {
	if set == nil || len(set.Items) < 2 {
		return nil
	}
	opts := set.Options.WithDefaults()
	out := make([]Constraint, 0, len(set.Items)-1)
	for i := 1; i < len(set.Items); i++ {
		it := set.Items[i]
		scale, binding := ShrinkFactor(it.Kind, it.Sampled, it.Center.X, it.Center.Y, set.Items[:i], opts)
		out = append(out, Constraint{Item: i, Binding: binding, Scale: scale})
	}
	return out
}
