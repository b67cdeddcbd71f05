package bundle

import (
	"io"
	"math"
	"runtime"

	"github.com/charmbracelet/log"
	"github.com/jbeda/geom"

	"github.com/matzehuels/edgebundle/pkg/errors"
)

// Default parameter values for a bundling run. They match the reference
// parameterization of Holten & van Wijk (2009) and work well for inputs
// spanning roughly unit scale; larger layouts mostly need a larger StepSize.
const (
	DefaultK              = 0.1
	DefaultElectrostatic  = 1.0
	DefaultCycles         = 6
	DefaultThreshold      = 0.6
	DefaultIterations     = 90
	DefaultStepSize       = 0.1
	DefaultInitialPoints  = 1
	DefaultIterationDecay = 2.0 / 3.0
)

// Options configures a bundling run. The zero value is not usable - obtain
// defaults from DefaultOptions and override selectively, or call
// ValidateAndSetDefaults which fills unset fields in place.
type Options struct {
	// K is the global spring constant. Higher values stiffen edges and
	// resist bundling. Must be > 0.
	K float64

	// Electrostatic scales the inter-edge attraction term. Higher values
	// bundle more aggressively. Must be >= 0.
	Electrostatic float64

	// Cycles is the number of subdivision cycles. Must be >= 1.
	Cycles int

	// Threshold is the minimum compatibility score for two edges to
	// interact, in [0,1].
	Threshold float64

	// Iterations is the simulation iteration count of the first cycle;
	// later cycles decay geometrically by IterationDecay.
	Iterations int

	// StepSize is the integration step of the first cycle; it halves
	// every cycle.
	StepSize float64

	// InitialPoints is the interior point count before the first cycle.
	InitialPoints int

	// IterationDecay is the per-cycle iteration decay rate in (0,1].
	IterationDecay float64

	// NormalizeWeights rescales raw edge weights into [0.5, 1.5] before
	// simulation, preventing extreme weights from dominating the force
	// balance. Uniform weights collapse to 1.0.
	NormalizeWeights bool

	// Workers bounds the goroutines used for force computation.
	// Zero means one worker per CPU.
	Workers int

	// Logger receives per-cycle progress at debug level.
	// Nil discards all output.
	Logger *log.Logger
}

// DefaultOptions returns the standard bundling configuration.
func DefaultOptions() Options {
	return Options{
		K:                DefaultK,
		Electrostatic:    DefaultElectrostatic,
		Cycles:           DefaultCycles,
		Threshold:        DefaultThreshold,
		Iterations:       DefaultIterations,
		StepSize:         DefaultStepSize,
		InitialPoints:    DefaultInitialPoints,
		IterationDecay:   DefaultIterationDecay,
		NormalizeWeights: true,
	}
}

// ValidateAndSetDefaults fills unset fields with defaults and validates the
// result. It returns an INVALID_INPUT error for out-of-range parameters.
func (o *Options) ValidateAndSetDefaults() error {
	if o.K == 0 {
		o.K = DefaultK
	}
	if o.Electrostatic == 0 {
		o.Electrostatic = DefaultElectrostatic
	}
	if o.Cycles == 0 {
		o.Cycles = DefaultCycles
	}
	if o.Iterations == 0 {
		o.Iterations = DefaultIterations
	}
	if o.StepSize == 0 {
		o.StepSize = DefaultStepSize
	}
	if o.InitialPoints == 0 {
		o.InitialPoints = DefaultInitialPoints
	}
	if o.IterationDecay == 0 {
		o.IterationDecay = DefaultIterationDecay
	}
	if o.Workers == 0 {
		o.Workers = runtime.GOMAXPROCS(0)
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	switch {
	case o.K <= 0 || math.IsNaN(o.K) || math.IsInf(o.K, 0):
		return errors.New(errors.ErrCodeInvalidConfig, "spring constant K must be > 0, got %v", o.K)
	case o.Electrostatic < 0 || math.IsNaN(o.Electrostatic):
		return errors.New(errors.ErrCodeInvalidConfig, "electrostatic constant must be >= 0, got %v", o.Electrostatic)
	case o.Cycles < 1:
		return errors.New(errors.ErrCodeInvalidConfig, "cycles must be >= 1, got %d", o.Cycles)
	case o.Threshold < 0 || o.Threshold > 1 || math.IsNaN(o.Threshold):
		return errors.New(errors.ErrCodeInvalidConfig, "compatibility threshold must be in [0,1], got %v", o.Threshold)
	case o.Iterations < 1:
		return errors.New(errors.ErrCodeInvalidConfig, "iterations must be >= 1, got %d", o.Iterations)
	case o.StepSize <= 0 || math.IsNaN(o.StepSize) || math.IsInf(o.StepSize, 0):
		return errors.New(errors.ErrCodeInvalidConfig, "step size must be > 0, got %v", o.StepSize)
	case o.InitialPoints < 1:
		return errors.New(errors.ErrCodeInvalidConfig, "initial subdivision points must be >= 1, got %d", o.InitialPoints)
	case o.IterationDecay <= 0 || o.IterationDecay > 1:
		return errors.New(errors.ErrCodeInvalidConfig, "iteration decay must be in (0,1], got %v", o.IterationDecay)
	}
	return nil
}

// PointsPerEdge returns the polyline length (endpoints included) every edge
// has after a full run with these options.
func (o Options) PointsPerEdge() int {
	n := o.InitialPoints + 2
	for c := 0; c < o.Cycles-1; c++ {
		n = 2*n - 1
	}
	return n
}

// Polyline is the bundled path of one input edge. Points traces the edge
// from its original start to its original end; the first and last points
// equal the input endpoints.
type Polyline struct {
	EdgeID int
	Points []geom.Coord
}

// Bundle runs force-directed edge bundling on the given segments and
// returns one polyline per input, in input order. The edge identifier is
// the 0-based input index.
//
// The run is synchronous and deterministic; see the package documentation
// for the cycle schedule. Invalid segments or options abort before any
// simulation work with an INVALID_INPUT / INVALID_CONFIG error naming the
// offending record or parameter.
func Bundle(segments []Segment, opts Options) ([]Polyline, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	edges, err := buildEdges(segments)
	if err != nil {
		return nil, err
	}
	if len(edges) == 0 {
		return []Polyline{}, nil
	}

	for _, e := range edges {
		e.Initialize(opts.InitialPoints)
	}

	compat := BuildMatrix(edges, opts.Threshold)
	opts.Logger.Debug("compatibility matrix built",
		"edges", len(edges),
		"interacting_pairs", compat.NonzeroCount())

	weights := normalizeWeights(edges, opts.NormalizeWeights)
	sim := newSimulator(edges, weights, compat, opts.K, opts.Electrostatic, opts.Workers)

	step := opts.StepSize
	for c := 0; c < opts.Cycles; c++ {
		iters := cycleIterations(opts.Iterations, opts.IterationDecay, c)
		for i := 0; i < iters; i++ {
			sim.step(step)
		}
		opts.Logger.Debug("cycle complete",
			"cycle", c,
			"iterations", iters,
			"points", edges[0].PointCount(),
			"step", step)

		// No subdivision after the final cycle.
		if c < opts.Cycles-1 {
			for _, e := range edges {
				e.Subdivide()
			}
			step /= 2
		}
	}

	out := make([]Polyline, len(edges))
	for i, e := range edges {
		pts := make([]geom.Coord, len(e.points))
		copy(pts, e.points)
		out[i] = Polyline{EdgeID: i, Points: pts}
	}
	return out, nil
}

// CompatibilityMatrix builds only the pairwise compatibility matrix for the
// given segments, without running any simulation. It is used by debugging
// tools to inspect which edges would interact at a given threshold.
func CompatibilityMatrix(segments []Segment, threshold float64) (*Matrix, error) {
	if threshold < 0 || threshold > 1 || math.IsNaN(threshold) {
		return nil, errors.New(errors.ErrCodeInvalidConfig,
			"compatibility threshold must be in [0,1], got %v", threshold)
	}
	edges, err := buildEdges(segments)
	if err != nil {
		return nil, err
	}
	return BuildMatrix(edges, threshold), nil
}

// cycleIterations is ceil(base * decay^c).
func cycleIterations(base int, decay float64, c int) int {
	return int(math.Ceil(float64(base) * math.Pow(decay, float64(c))))
}

// normalizeWeights maps raw edge weights into [0.5, 1.5], preserving their
// relative order. If normalization is disabled the raw weights are used; if
// all weights are (near-)equal, every edge gets weight 1.0.
func normalizeWeights(edges []*Edge, normalize bool) []float64 {
	weights := make([]float64, len(edges))
	for i, e := range edges {
		weights[i] = e.Weight()
	}
	if !normalize || len(weights) == 0 {
		return weights
	}

	wmin, wmax := weights[0], weights[0]
	for _, w := range weights[1:] {
		wmin = math.Min(wmin, w)
		wmax = math.Max(wmax, w)
	}
	if wmax-wmin < epsilon {
		for i := range weights {
			weights[i] = 1.0
		}
		return weights
	}
	for i := range weights {
		weights[i] = 0.5 + (weights[i]-wmin)/(wmax-wmin)
	}
	return weights
}
