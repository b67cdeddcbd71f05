package cache

// ScopedKeyer wraps a Keyer with a prefix so multiple tenants or
// deployments can share one backend without key collisions.
//
// Example usage:
//
//	// Per-project keys on a shared Redis instance
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "proj:flights:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer that prepends prefix to every key.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// BundleKey generates a prefixed key for bundling results.
func (k *ScopedKeyer) BundleKey(edgesHash string, opts BundleKeyOpts) string {
	return k.prefix + k.inner.BundleKey(edgesHash, opts)
}

// MatrixKey generates a prefixed key for compatibility matrices.
func (k *ScopedKeyer) MatrixKey(edgesHash string, threshold float64) string {
	return k.prefix + k.inner.MatrixKey(edgesHash, threshold)
}
