// Package graph defines the serialization formats at the bundling
// engine's boundary: the edge set consumed from the caller's data layer and
// the flattened point rows handed back to the renderer.
//
// # Formats
//
// An [EdgeSet] is a list of straight-line edge records:
//
//	{
//	  "edges": [
//	    {"x0": 0, "y0": 0, "x1": 10, "y1": 0},
//	    {"x0": 0, "y0": 0.5, "x1": 10, "y1": 0.5, "weight": 2.5}
//	  ]
//	}
//
// A [Result] is the bundled output, one row per polyline point, ordered by
// edge then segment:
//
//	{
//	  "points": [
//	    {"edge_id": 0, "segment": 0, "t": 0, "x": 0, "y": 0},
//	    {"edge_id": 0, "segment": 1, "t": 0.5, "x": 5, "y": 0.12},
//	    ...
//	  ]
//	}
//
// The "t" field is the segment index normalized to [0,1], convenient for
// renderers that parametrize stroke width or opacity along a path.
//
// Both types carry bson tags alongside json so documents can be stored
// as-is by Mongo-backed caches.
//
// Spline smoothing across the points is the renderer's responsibility, not
// this package's - the rows describe a piecewise-linear path.
package graph
