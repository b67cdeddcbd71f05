package bundle

import (
	"math"

	"github.com/jbeda/geom"

	"github.com/matzehuels/edgebundle/pkg/errors"
)

// epsilon guards divisions by near-zero distances throughout the engine.
// Distances below this are treated as zero.
const epsilon = 1e-8

// Segment is one input edge: two endpoints in layout space and a weight.
// A zero Weight is replaced by 1.0 when edges are built.
type Segment struct {
	Start  geom.Coord
	End    geom.Coord
	Weight float64
}

// Edge is the mutable polyline representation of one input segment during a
// bundling run. The two endpoints are fixed for the lifetime of the run;
// only interior points ever move. The engine owns its edges exclusively -
// they are created fresh per run and discarded afterwards.
type Edge struct {
	p0, p1 geom.Coord
	points []geom.Coord
	weight float64
	length float64 // distance p0-p1, cached at creation
}

// NewEdge builds an edge from two endpoints and a weight.
// It returns an INVALID_INPUT error if any coordinate is NaN or infinite,
// or if the weight is negative. A weight of zero defaults to 1.0.
// Zero-length edges (p0 == p1) are accepted; they are inert during
// simulation and incompatible with every other edge.
func NewEdge(p0, p1 geom.Coord, weight float64) (*Edge, error) {
	if !finite(p0) || !finite(p1) {
		return nil, errors.New(errors.ErrCodeInvalidInput,
			"edge endpoints must be finite, got (%v,%v)-(%v,%v)", p0.X, p0.Y, p1.X, p1.Y)
	}
	if math.IsNaN(weight) || math.IsInf(weight, 0) || weight < 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput,
			"edge weight must be a non-negative finite number, got %v", weight)
	}
	if weight == 0 {
		weight = 1.0
	}
	return &Edge{
		p0:     p0,
		p1:     p1,
		weight: weight,
		length: p0.DistanceFrom(p1),
	}, nil
}

// Start returns the fixed first endpoint.
func (e *Edge) Start() geom.Coord { return e.p0 }

// End returns the fixed second endpoint.
func (e *Edge) End() geom.Coord { return e.p1 }

// Weight returns the raw input weight.
func (e *Edge) Weight() float64 { return e.weight }

// Length returns the straight-line distance between the endpoints,
// computed once at creation.
func (e *Edge) Length() float64 { return e.length }

// IsDegenerate reports whether the edge has (near-)zero length.
// Degenerate edges exert and receive no forces.
func (e *Edge) IsDegenerate() bool { return e.length < epsilon }

// Points returns the current polyline, endpoints included.
// The slice is the edge's own storage; callers must not modify it.
func (e *Edge) Points() []geom.Coord { return e.points }

// PointCount returns the current polyline length, endpoints included.
func (e *Edge) PointCount() int { return len(e.points) }

// Initialize populates the polyline with interior evenly spaced points
// obtained by linear interpolation between the endpoints.
func (e *Edge) Initialize(interior int) {
	e.points = make([]geom.Coord, interior+2)
	e.points[0] = e.p0
	e.points[interior+1] = e.p1
	step := e.p1.Minus(e.p0)
	for i := 1; i <= interior; i++ {
		t := float64(i) / float64(interior+1)
		e.points[i] = e.p0.Plus(step.Times(t))
	}
}

// Subdivide doubles the interior point count by inserting the midpoint of
// every consecutive pair of points. Endpoints and relative order are
// preserved; a polyline of n points becomes one of 2n-1 points.
func (e *Edge) Subdivide() {
	old := e.points
	points := make([]geom.Coord, 0, 2*len(old)-1)
	for i := 0; i < len(old)-1; i++ {
		points = append(points, old[i], midpoint(old[i], old[i+1]))
	}
	e.points = append(points, old[len(old)-1])
}

// Midpoint returns the midpoint of the straight segment between the
// endpoints. Compatibility scoring is defined entirely from endpoints, so
// this is independent of the current subdivision.
func (e *Edge) Midpoint() geom.Coord { return midpoint(e.p0, e.p1) }

// Vector returns the direction vector End-Start (not normalized).
func (e *Edge) Vector() geom.Coord { return e.p1.Minus(e.p0) }

func midpoint(a, b geom.Coord) geom.Coord {
	return geom.Coord{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
}

func finite(c geom.Coord) bool {
	return !math.IsNaN(c.X) && !math.IsInf(c.X, 0) && !math.IsNaN(c.Y) && !math.IsInf(c.Y, 0)
}

// buildEdges converts input segments into engine edges, reporting the index
// of the first invalid record.
func buildEdges(segments []Segment) ([]*Edge, error) {
	edges := make([]*Edge, len(segments))
	for i, s := range segments {
		e, err := NewEdge(s.Start, s.End, s.Weight)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "segment %d", i)
		}
		edges[i] = e
	}
	return edges, nil
}
