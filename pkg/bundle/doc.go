// Package bundle implements force-directed edge bundling (FDEB) for 2-D
// node-link graphs, following Holten & van Wijk (2009).
//
// # Overview
//
// Given a set of straight-line edges (two endpoints each, with an optional
// weight), the bundler deforms every edge into a smooth polyline so that
// geometrically compatible edges are pulled toward each other and form
// visually coherent bundles. Node positions are inputs, never computed, and
// nothing in this package draws pictures - the output is an ordered polyline
// per edge for a renderer to consume.
//
// # Algorithm
//
// A run proceeds in refinement cycles. Each cycle simulates spring and
// electrostatic forces on the interior points of every edge for a fixed
// number of iterations, then doubles the polyline resolution by midpoint
// subdivision while halving the integration step size:
//
//  1. Pairwise compatibility scores are computed once, from endpoints only.
//  2. Each iteration combines an intra-edge spring force (pulling a point
//     toward its polyline neighbours) with an inter-edge electrostatic force
//     (pulling it toward the matching point on every compatible edge).
//  3. Forces are computed from a snapshot of the previous positions and
//     applied in a second pass, so results never depend on edge order.
//
// Compatibility between two edges is the product of four [0,1] factors:
// angle, scale, position, and visibility. Pairs scoring below the configured
// threshold do not interact at all.
//
// # Usage
//
//	segments := []bundle.Segment{
//	    {Start: geom.Coord{X: 0, Y: 0}, End: geom.Coord{X: 10, Y: 0}},
//	    {Start: geom.Coord{X: 0, Y: 0.5}, End: geom.Coord{X: 10, Y: 0.5}},
//	}
//	paths, err := bundle.Bundle(segments, bundle.DefaultOptions())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, p := range paths {
//	    // p.Points traces edge p.EdgeID from its original start to its
//	    // original end; endpoints are never displaced.
//	}
//
// # Determinism
//
// A run is a pure function of its input: there is no randomness, and the
// two-phase force integration removes any order dependence. Two runs with
// identical segments and options produce identical output, even when force
// computation is spread across worker goroutines.
//
// # Errors
//
// All validation happens eagerly when a run starts: non-finite coordinates,
// negative weights, and out-of-range options abort with an INVALID_INPUT
// error before any simulation work. Zero-length edges are accepted - they
// score zero compatibility with everything and pass through unchanged.
package bundle
