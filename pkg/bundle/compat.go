package bundle

import (
	"math"

	"github.com/jbeda/geom"
)

// Matrix is a symmetric edge-compatibility matrix with a zero diagonal.
// Scores live in [0,1]; anything below the build threshold is stored as
// exactly 0 and means "no interaction". The matrix is computed once per run
// from edge endpoints and is immutable afterwards, so it can be shared
// freely across worker goroutines.
type Matrix struct {
	n      int
	scores []float64 // row-major n×n, kept symmetric by set
}

func newMatrix(n int) *Matrix {
	return &Matrix{n: n, scores: make([]float64, n*n)}
}

// Size returns the number of edges the matrix was built for.
func (m *Matrix) Size() int { return m.n }

// At returns the compatibility score for the edge pair (i, j).
// The diagonal is always zero.
func (m *Matrix) At(i, j int) float64 { return m.scores[i*m.n+j] }

func (m *Matrix) set(i, j int, v float64) {
	m.scores[i*m.n+j] = v
	m.scores[j*m.n+i] = v
}

// Compatible returns the indices of all edges with a nonzero score against
// edge i, in ascending order.
func (m *Matrix) Compatible(i int) []int {
	var out []int
	for j := 0; j < m.n; j++ {
		if m.scores[i*m.n+j] > 0 {
			out = append(out, j)
		}
	}
	return out
}

// NonzeroCount returns the number of interacting (unordered) edge pairs.
func (m *Matrix) NonzeroCount() int {
	count := 0
	for i := 0; i < m.n; i++ {
		for j := i + 1; j < m.n; j++ {
			if m.scores[i*m.n+j] > 0 {
				count++
			}
		}
	}
	return count
}

// BuildMatrix evaluates pairwise compatibility for every edge pair and
// returns the resulting symmetric matrix. Scores below threshold are stored
// as exactly 0. The computation is O(N²), deterministic, and does not
// mutate the edges.
//
// The combined score is the product of four factors from Holten & van Wijk
// (2009): angle, scale, position, and visibility compatibility. A pair
// involving a zero-length edge is fully incompatible.
func BuildMatrix(edges []*Edge, threshold float64) *Matrix {
	m := newMatrix(len(edges))
	for i := 0; i < len(edges); i++ {
		for j := i + 1; j < len(edges); j++ {
			score := Compatibility(edges[i], edges[j])
			if score < threshold {
				score = 0
			}
			m.set(i, j, score)
		}
	}
	return m
}

// Compatibility returns the combined compatibility score for a pair of
// edges, defined purely by their endpoints.
func Compatibility(p, q *Edge) float64 {
	if p.IsDegenerate() || q.IsDegenerate() {
		return 0
	}
	return angleCompatibility(p, q) *
		scaleCompatibility(p, q) *
		positionCompatibility(p, q) *
		visibilityCompatibility(p, q)
}

// angleCompatibility is |cos θ| for the angle θ between the edge vectors.
// Parallel and anti-parallel edges score 1, perpendicular edges score 0.
func angleCompatibility(p, q *Edge) float64 {
	dot := geom.DotProduct(p.Vector(), q.Vector())
	return math.Abs(dot / (p.Length() * q.Length()))
}

// scaleCompatibility penalizes pairs whose lengths differ strongly:
// 2 / (lavg/lmin + lmax/lavg).
func scaleCompatibility(p, q *Edge) float64 {
	lp, lq := p.Length(), q.Length()
	lavg := (lp + lq) / 2
	lmin := math.Min(lp, lq)
	lmax := math.Max(lp, lq)
	return 2 / (lavg/lmin + lmax/lavg)
}

// positionCompatibility decays with the distance between edge midpoints
// relative to the average edge length: lavg / (lavg + dist(mP, mQ)).
func positionCompatibility(p, q *Edge) float64 {
	lavg := (p.Length() + q.Length()) / 2
	return lavg / (lavg + p.Midpoint().DistanceFrom(q.Midpoint()))
}

// visibilityCompatibility is max(0, min(V(P,Q), V(Q,P))) where
// V(P,Q) = 1 - 2*dist(mQ, I)/lP and I is the projection of Q's midpoint onto
// segment P, clamped to the segment.
func visibilityCompatibility(p, q *Edge) float64 {
	v := math.Min(visibility(p, q), visibility(q, p))
	return math.Max(0, v)
}

func visibility(p, q *Edge) float64 {
	mq := q.Midpoint()
	i := projectOntoSegment(mq, p.Start(), p.End())
	return 1 - 2*mq.DistanceFrom(i)/p.Length()
}

// projectOntoSegment returns the orthogonal projection of pt onto the
// segment a-b, clamped to the segment's extent.
func projectOntoSegment(pt, a, b geom.Coord) geom.Coord {
	ab := b.Minus(a)
	lsq := geom.DotProduct(ab, ab)
	if lsq < epsilon*epsilon {
		return a
	}
	t := geom.DotProduct(pt.Minus(a), ab) / lsq
	t = math.Max(0, math.Min(1, t))
	return a.Plus(ab.Times(t))
}
