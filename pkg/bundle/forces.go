package bundle

import (
	"math"
	"sync"

	"github.com/jbeda/geom"
)

// simulator advances the interior points of every edge by one integration
// step at a time. Forces are computed from the positions as they were at the
// start of the step and applied afterwards, so no edge ever sees a
// partially updated neighbour within the same iteration.
type simulator struct {
	edges     []*Edge
	weights   []float64 // normalized weights, parallel to edges
	compat    *Matrix
	neighbors [][]int // per-edge compatible indices, precomputed once
	k         float64 // global spring constant
	electro   float64 // multiplier on the electrostatic term
	workers   int

	// displacement buffers, one per edge, reused across iterations
	forces [][]geom.Coord
}

func newSimulator(edges []*Edge, weights []float64, compat *Matrix, k, electro float64, workers int) *simulator {
	neighbors := make([][]int, len(edges))
	forces := make([][]geom.Coord, len(edges))
	for i := range edges {
		neighbors[i] = compat.Compatible(i)
	}
	if workers < 1 {
		workers = 1
	}
	return &simulator{
		edges:     edges,
		weights:   weights,
		compat:    compat,
		neighbors: neighbors,
		k:         k,
		electro:   electro,
		workers:   workers,
		forces:    forces,
	}
}

// step runs one force iteration at the given step size. The compute phase
// only reads edge positions and writes each edge's own force buffer, so it
// is parallelized across edges; a barrier separates it from the apply phase.
func (s *simulator) step(stepSize float64) {
	s.computeForces()
	for i, e := range s.edges {
		for k := 1; k < len(e.points)-1; k++ {
			e.points[k] = e.points[k].Plus(s.forces[i][k].Times(stepSize))
		}
	}
}

func (s *simulator) computeForces() {
	if s.workers == 1 || len(s.edges) < 2 {
		for i := range s.edges {
			s.edgeForces(i)
		}
		return
	}

	var wg sync.WaitGroup
	next := make(chan int, len(s.edges))
	for i := range s.edges {
		next <- i
	}
	close(next)
	for w := 0; w < s.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range next {
				s.edgeForces(i)
			}
		}()
	}
	wg.Wait()
}

// edgeForces fills s.forces[i] with the combined force on every interior
// point of edge i.
func (s *simulator) edgeForces(i int) {
	e := s.edges[i]
	if cap(s.forces[i]) < len(e.points) {
		s.forces[i] = make([]geom.Coord, len(e.points))
	}
	s.forces[i] = s.forces[i][:len(e.points)]

	// Degenerate edges are inert: every force term would require
	// normalizing a zero direction.
	if e.IsDegenerate() {
		for k := range s.forces[i] {
			s.forces[i][k] = geom.Coord{}
		}
		return
	}

	interior := len(e.points) - 2
	kP := s.k / (e.length * float64(interior+1))
	maxForce := 0.5 * e.length

	for k := 1; k <= interior; k++ {
		f := s.springForce(e, k, kP)
		f = f.Plus(s.electrostaticForce(i, k).Times(s.electro))
		s.forces[i][k] = clampMagnitude(f, maxForce)
	}
}

// springForce pulls an interior point toward the midpoint of its polyline
// neighbours: kP * ((prev - cur) + (next - cur)). The components are never
// clamped - a point that overshoots must keep its restoring force.
func (s *simulator) springForce(e *Edge, k int, kP float64) geom.Coord {
	cur := e.points[k]
	pull := e.points[k-1].Minus(cur).Plus(e.points[k+1].Minus(cur))
	return pull.Times(kP)
}

// electrostaticForce sums the weighted unit vectors from point k of edge i
// toward point k of every compatible edge. Edges at a different resolution
// are skipped for that pairing, and near-coincident points contribute
// nothing.
func (s *simulator) electrostaticForce(i, k int) geom.Coord {
	var total geom.Coord
	cur := s.edges[i].points[k]
	for _, j := range s.neighbors[i] {
		other := s.edges[j]
		if k >= len(other.points)-1 {
			continue
		}
		d := other.points[k].Minus(cur)
		dist := math.Hypot(d.X, d.Y)
		if dist < epsilon {
			continue
		}
		total = total.Plus(d.Times(s.weights[j] / dist))
	}
	return total
}

// clampMagnitude caps the magnitude of f at limit. This is the stability
// safeguard against force explosion when many compatible edges coincide.
func clampMagnitude(f geom.Coord, limit float64) geom.Coord {
	mag := math.Hypot(f.X, f.Y)
	if mag > limit {
		return f.Times(limit / mag)
	}
	return f
}
