// Package cache provides content-addressed caching for bundling results.
//
// Bundling is deterministic, so a result is fully determined by the input
// edge set and the run options; both are hashed into the cache key and
// entries never go stale, only unused. Several backends implement the same
// small interface:
//
//   - FileCache: per-user directory cache for CLI usage
//   - MemoryCache: in-process cache for tests and embedding
//   - RedisCache: shared cache for multi-instance server deployments
//   - MongoCache: document-store cache when results should persist
//   - NullCache: caching disabled
//
// Keys are produced by a Keyer so that all components agree on the layout,
// and a ScopedKeyer can prefix keys for multi-tenant isolation.
package cache

import (
	"context"
	"time"
)

// TTLs for the different entry kinds. Bundling output is deterministic, so
// these only bound disk/memory usage, not correctness.
const (
	// TTLBundle is the lifetime of cached bundling results.
	TTLBundle = 30 * 24 * time.Hour

	// TTLMatrix is the lifetime of cached compatibility matrix summaries.
	TTLMatrix = 30 * 24 * time.Hour
)

// Cache is the interface implemented by all cache backends.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get retrieves a value. The second return value reports whether the
	// key was present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with the given TTL. A zero TTL means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// BundleKeyOpts are the run options that contribute to a bundle cache key.
// Two runs with the same edge hash and the same BundleKeyOpts produce
// byte-identical results.
type BundleKeyOpts struct {
	K                float64
	Electrostatic    float64
	Cycles           int
	Threshold        float64
	Iterations       int
	StepSize         float64
	InitialPoints    int
	IterationDecay   float64
	NormalizeWeights bool
}

// Keyer generates cache keys. Implementations must be deterministic.
type Keyer interface {
	// BundleKey generates a key for a full bundling result.
	BundleKey(edgeHash string, opts BundleKeyOpts) string

	// MatrixKey generates a key for a compatibility matrix summary.
	MatrixKey(edgeHash string, threshold float64) string
}

// DefaultKeyer is the standard key layout: a type prefix followed by a
// SHA-256 over the identifying components.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// BundleKey generates a key for a full bundling result.
func (k *DefaultKeyer) BundleKey(edgeHash string, opts BundleKeyOpts) string {
	return hashKey("bundle", edgeHash, opts)
}

// MatrixKey generates a key for a compatibility matrix summary.
func (k *DefaultKeyer) MatrixKey(edgeHash string, threshold float64) string {
	return hashKey("matrix", edgeHash, threshold)
}
