package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/edgebundle/pkg/bundle"
	"github.com/matzehuels/edgebundle/pkg/cache"
	"github.com/matzehuels/edgebundle/pkg/graph"
	"github.com/matzehuels/edgebundle/pkg/observability"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store run results. Multiple goroutines can safely use the same Runner
// with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete validate → bundle pipeline with caching.
func (r *Runner) Execute(ctx context.Context, edges graph.EdgeSet, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	if err := edges.Validate(); err != nil {
		return nil, fmt.Errorf("validate edges: %w", err)
	}

	result := &Result{
		Stats: Stats{EdgeCount: len(edges.Edges)},
	}

	edgeData, err := graph.MarshalEdgeSet(edges)
	if err != nil {
		return nil, fmt.Errorf("serialize edges for cache key: %w", err)
	}
	result.EdgeHash = cache.Hash(edgeData)

	bundleStart := time.Now()
	paths, bundleHit, err := r.BundleWithCacheInfo(ctx, edges, result.EdgeHash, opts)
	if err != nil {
		return nil, fmt.Errorf("bundle: %w", err)
	}
	result.Result = paths
	result.Stats.BundleTime = time.Since(bundleStart)
	result.Stats.PointCount = countPoints(paths)
	result.CacheInfo.BundleHit = bundleHit

	r.Logger.Info("bundled edges",
		"edges", result.Stats.EdgeCount,
		"points", result.Stats.PointCount,
		"cached", bundleHit,
		"duration", result.Stats.BundleTime)

	return result, nil
}

// BundleWithCacheInfo runs the simulation with caching and returns cache
// hit info. edgeHash identifies the input; pass cache.Hash over the
// serialized edge set, or an empty string to have it computed here.
func (r *Runner) BundleWithCacheInfo(ctx context.Context, edges graph.EdgeSet, edgeHash string, opts Options) (graph.Result, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return graph.Result{}, false, err
	}
	r.applyLogger(&opts)

	if edgeHash == "" {
		data, err := graph.MarshalEdgeSet(edges)
		if err != nil {
			return graph.Result{}, false, err
		}
		edgeHash = cache.Hash(data)
	}
	cacheKey := r.Keyer.BundleKey(edgeHash, opts.BundleKeyOpts())

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			cached, err := graph.UnmarshalResult(data)
			if err == nil {
				observability.Cache().OnCacheHit(ctx, "bundle")
				return cached, true, nil // Cache hit
			}
			// If deserialization fails, fall through to recompute
		}
		observability.Cache().OnCacheMiss(ctx, "bundle")
	}

	// Run the simulation
	start := time.Now()
	observability.Bundle().OnBundleStart(ctx, len(edges.Edges))
	paths, err := bundle.Bundle(edges.Segments(), opts.BundleOptions())
	if err != nil {
		observability.Bundle().OnBundleComplete(ctx, len(edges.Edges), 0, time.Since(start), err)
		return graph.Result{}, false, err
	}
	result := graph.FromPolylines(paths, edgeIDs(edges))
	observability.Bundle().OnBundleComplete(ctx, len(edges.Edges), countPoints(result), time.Since(start), nil)

	// Cache the result
	if data, err := graph.MarshalResult(result); err == nil {
		if r.Cache.Set(ctx, cacheKey, data, cache.TTLBundle) == nil {
			observability.Cache().OnCacheSet(ctx, "bundle", len(data))
		}
	}

	return result, false, nil // Cache miss
}

// Bundle is a convenience wrapper that calls BundleWithCacheInfo and
// discards the cache hit info.
func (r *Runner) Bundle(ctx context.Context, edges graph.EdgeSet, opts Options) (graph.Result, error) {
	result, _, err := r.BundleWithCacheInfo(ctx, edges, "", opts)
	return result, err
}

// MatrixWithCacheInfo computes the compatibility matrix summary with
// caching and returns cache hit info.
func (r *Runner) MatrixWithCacheInfo(ctx context.Context, edges graph.EdgeSet, threshold float64) (MatrixSummary, bool, error) {
	if err := edges.Validate(); err != nil {
		return MatrixSummary{}, false, fmt.Errorf("validate edges: %w", err)
	}

	edgeData, err := graph.MarshalEdgeSet(edges)
	if err != nil {
		return MatrixSummary{}, false, err
	}
	cacheKey := r.Keyer.MatrixKey(cache.Hash(edgeData), threshold)

	if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
		var cached MatrixSummary
		if json.Unmarshal(data, &cached) == nil {
			observability.Cache().OnCacheHit(ctx, "matrix")
			return cached, true, nil
		}
	}
	observability.Cache().OnCacheMiss(ctx, "matrix")

	start := time.Now()
	observability.Bundle().OnMatrixStart(ctx, len(edges.Edges))
	m, err := bundle.CompatibilityMatrix(edges.Segments(), threshold)
	if err != nil {
		observability.Bundle().OnMatrixComplete(ctx, len(edges.Edges), 0, time.Since(start), err)
		return MatrixSummary{}, false, err
	}
	summary := summarizeMatrix(m, threshold)
	observability.Bundle().OnMatrixComplete(ctx, len(edges.Edges), summary.NonzeroPairs, time.Since(start), nil)

	if data, err := json.Marshal(summary); err == nil {
		if r.Cache.Set(ctx, cacheKey, data, cache.TTLMatrix) == nil {
			observability.Cache().OnCacheSet(ctx, "matrix", len(data))
		}
	}

	return summary, false, nil
}

// Matrix is a convenience wrapper that calls MatrixWithCacheInfo and
// discards the cache hit info.
func (r *Runner) Matrix(ctx context.Context, edges graph.EdgeSet, threshold float64) (MatrixSummary, error) {
	summary, _, err := r.MatrixWithCacheInfo(ctx, edges, threshold)
	return summary, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

func countPoints(r graph.Result) int {
	return len(r.Points)
}

func edgeIDs(edges graph.EdgeSet) []int {
	ids := make([]int, len(edges.Edges))
	for i, e := range edges.Edges {
		ids[i] = e.ID
	}
	return ids
}
