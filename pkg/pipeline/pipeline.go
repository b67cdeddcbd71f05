// Package pipeline provides the core bundling pipeline.
//
// This package implements the complete validate → bundle → export flow that
// can be used by CLI and API components. By centralizing this logic, we
// ensure consistent behavior across all entry points and avoid code
// duplication.
//
// # Architecture
//
// A run consists of two stages:
//
//  1. Validate: check the input edge set and hash it for cache keys
//  2. Bundle: run the force simulation (or return a cached result)
//
// The compatibility matrix can also be computed on its own for inspecting
// why edges do or do not attract each other.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.DefaultOptions()
//	opts.Threshold = 0.8
//	result, err := runner.Execute(ctx, edges, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	paths := result.Result
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/edgebundle/pkg/bundle"
	"github.com/matzehuels/edgebundle/pkg/cache"
	"github.com/matzehuels/edgebundle/pkg/graph"
)

// Options contains all configuration for a bundling run.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Simulation parameters. Zero values are replaced with the bundle
	// package defaults during validation.
	K                float64 `json:"k,omitempty"`
	Electrostatic    float64 `json:"electrostatic,omitempty"`
	Cycles           int     `json:"cycles,omitempty"`
	Threshold        float64 `json:"threshold,omitempty"`
	Iterations       int     `json:"iterations,omitempty"`
	StepSize         float64 `json:"step_size,omitempty"`
	InitialPoints    int     `json:"initial_points,omitempty"`
	IterationDecay   float64 `json:"iteration_decay,omitempty"`

	// NormalizeWeights has no omitempty: an explicit false must survive
	// serialization, since absent means "use the default" to decoders
	// that seed the struct with DefaultOptions.
	NormalizeWeights bool `json:"normalize_weights"`

	// Refresh bypasses the cache lookup and overwrites the cached entry.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Workers int         `json:"-"`
	Logger  *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// DefaultOptions returns the standard pipeline configuration.
func DefaultOptions() Options {
	return Options{
		K:                bundle.DefaultK,
		Electrostatic:    bundle.DefaultElectrostatic,
		Cycles:           bundle.DefaultCycles,
		Threshold:        bundle.DefaultThreshold,
		Iterations:       bundle.DefaultIterations,
		StepSize:         bundle.DefaultStepSize,
		InitialPoints:    bundle.DefaultInitialPoints,
		IterationDecay:   bundle.DefaultIterationDecay,
		NormalizeWeights: true,
	}
}

// ValidateAndSetDefaults checks parameters and applies defaults.
// This method is idempotent - calling it multiple times has the same
// effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	b := o.BundleOptions()
	if err := b.ValidateAndSetDefaults(); err != nil {
		return err
	}
	o.K = b.K
	o.Electrostatic = b.Electrostatic
	o.Cycles = b.Cycles
	o.Threshold = b.Threshold
	o.Iterations = b.Iterations
	o.StepSize = b.StepSize
	o.InitialPoints = b.InitialPoints
	o.IterationDecay = b.IterationDecay
	o.Workers = b.Workers
	o.validated = true
	return nil
}

// BundleOptions converts to the simulation options of the bundle package.
func (o *Options) BundleOptions() bundle.Options {
	return bundle.Options{
		K:                o.K,
		Electrostatic:    o.Electrostatic,
		Cycles:           o.Cycles,
		Threshold:        o.Threshold,
		Iterations:       o.Iterations,
		StepSize:         o.StepSize,
		InitialPoints:    o.InitialPoints,
		IterationDecay:   o.IterationDecay,
		NormalizeWeights: o.NormalizeWeights,
		Workers:          o.Workers,
		Logger:           o.Logger,
	}
}

// BundleKeyOpts returns the cache key options for this configuration.
// Runtime options do not affect the result and are excluded.
func (o *Options) BundleKeyOpts() cache.BundleKeyOpts {
	return cache.BundleKeyOpts{
		K:                o.K,
		Electrostatic:    o.Electrostatic,
		Cycles:           o.Cycles,
		Threshold:        o.Threshold,
		Iterations:       o.Iterations,
		StepSize:         o.StepSize,
		InitialPoints:    o.InitialPoints,
		IterationDecay:   o.IterationDecay,
		NormalizeWeights: o.NormalizeWeights,
	}
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Result holds the bundled polylines keyed by edge id.
	Result graph.Result

	// EdgeHash is the content hash of the input edge set.
	EdgeHash string

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks whether the run hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	EdgeCount  int
	PointCount int
	BundleTime time.Duration
}

// CacheInfo tracks cache hits.
type CacheInfo struct {
	BundleHit bool // Whether the result came from cache
}

// MatrixSummary describes a compatibility matrix for inspection. Scores
// are kept in full so tooling can explain why a pair of edges does or
// does not interact.
type MatrixSummary struct {
	Size         int         `json:"size"`
	Threshold    float64     `json:"threshold"`
	NonzeroPairs int         `json:"nonzero_pairs"`
	MeanScore    float64     `json:"mean_score"`
	Scores       [][]float64 `json:"scores,omitempty"`
}

// summarizeMatrix flattens a matrix into its serializable summary.
func summarizeMatrix(m *bundle.Matrix, threshold float64) MatrixSummary {
	n := m.Size()
	summary := MatrixSummary{
		Size:         n,
		Threshold:    threshold,
		NonzeroPairs: m.NonzeroCount(),
		Scores:       make([][]float64, n),
	}
	var sum float64
	var pairs int
	for i := 0; i < n; i++ {
		summary.Scores[i] = make([]float64, n)
		for j := 0; j < n; j++ {
			v := m.At(i, j)
			summary.Scores[i][j] = v
			if j > i {
				sum += v
				pairs++
			}
		}
	}
	if pairs > 0 {
		summary.MeanScore = sum / float64(pairs)
	}
	return summary
}
