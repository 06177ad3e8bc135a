package cache

// ScopedKeyer prefixes every key of an inner Keyer, so several datasets or
// API tenants can share one Redis instance without colliding.
//
//	keyer := cache.NewScopedKeyer(nil, "dataset:tabletop-v2:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner with prefix. A nil inner uses DefaultKeyer.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// PlacementKey implements Keyer.
func (k *ScopedKeyer) PlacementKey(seed uint64, options any) string {
	return k.prefix + k.inner.PlacementKey(seed, options)
}

// PreviewKey implements Keyer.
func (k *ScopedKeyer) PreviewKey(setHash, format string) string {
	return k.prefix + k.inner.PreviewKey(setHash, format)
}
