package graph

import (
	"encoding/json"
	"io"
	"math"

	"github.com/jbeda/geom"

	"github.com/matzehuels/edgebundle/pkg/bundle"
	"github.com/matzehuels/edgebundle/pkg/errors"
)

// =============================================================================
// EdgeSet - Bundling Input Serialization
// =============================================================================

// EdgeRecord is one input edge: a straight line from (X0,Y0) to (X1,Y1)
// with an optional weight. A zero or omitted weight means 1.0.
type EdgeRecord struct {
	ID     int     `json:"id" bson:"id"`
	X0     float64 `json:"x0" bson:"x0"`
	Y0     float64 `json:"y0" bson:"y0"`
	X1     float64 `json:"x1" bson:"x1"`
	Y1     float64 `json:"y1" bson:"y1"`
	Weight float64 `json:"weight,omitempty" bson:"weight,omitempty"`
}

// EdgeSet is the canonical serialization format for bundling input.
// Used for API requests, storage, caching, and cross-tool compatibility.
type EdgeSet struct {
	Edges []EdgeRecord `json:"edges" bson:"edges"`
}

// Segments converts the edge set into engine input, in record order.
func (s EdgeSet) Segments() []bundle.Segment {
	segments := make([]bundle.Segment, len(s.Edges))
	for i, e := range s.Edges {
		segments[i] = bundle.Segment{
			Start:  geom.Coord{X: e.X0, Y: e.Y0},
			End:    geom.Coord{X: e.X1, Y: e.Y1},
			Weight: e.Weight,
		}
	}
	return segments
}

// Validate checks every record for finite coordinates and a non-negative
// weight. It returns an INVALID_INPUT error naming the first bad record.
func (s EdgeSet) Validate() error {
	if len(s.Edges) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "edge set is empty")
	}
	for i, e := range s.Edges {
		for _, v := range [...]float64{e.X0, e.Y0, e.X1, e.Y1} {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return errors.New(errors.ErrCodeInvalidInput,
					"edge record %d has a non-finite coordinate", i)
			}
		}
		if e.Weight < 0 || math.IsNaN(e.Weight) {
			return errors.New(errors.ErrCodeInvalidInput,
				"edge record %d has an invalid weight %v", i, e.Weight)
		}
	}
	return nil
}

// =============================================================================
// Result - Bundled Path Serialization
// =============================================================================

// PathPoint is one sample on a bundled polyline. Rows are ordered by edge
// then segment; T is the segment index normalized to [0,1] along the path.
type PathPoint struct {
	EdgeID  int     `json:"edge_id" bson:"edge_id"`
	Segment int     `json:"segment" bson:"segment"`
	T       float64 `json:"t" bson:"t"`
	X       float64 `json:"x" bson:"x"`
	Y       float64 `json:"y" bson:"y"`
}

// Result is the canonical serialization format for bundling output: the
// flattened point rows of every edge's final polyline.
type Result struct {
	Points []PathPoint `json:"points" bson:"points"`
}

// FromPolylines flattens engine output into ordered point rows. The ids
// slice maps the engine's 0-based edge index to the caller's edge
// identifier; pass nil to keep the input index.
func FromPolylines(paths []bundle.Polyline, ids []int) Result {
	var rows []PathPoint
	for _, p := range paths {
		id := p.EdgeID
		if ids != nil {
			id = ids[p.EdgeID]
		}
		last := len(p.Points) - 1
		for i, pt := range p.Points {
			t := 0.0
			if last > 0 {
				t = float64(i) / float64(last)
			}
			rows = append(rows, PathPoint{
				EdgeID:  id,
				Segment: i,
				T:       t,
				X:       pt.X,
				Y:       pt.Y,
			})
		}
	}
	return Result{Points: rows}
}

// Polyline returns the points of a single edge, in segment order.
// Returns nil if the edge is not present.
func (r Result) Polyline(edgeID int) []PathPoint {
	var out []PathPoint
	for _, p := range r.Points {
		if p.EdgeID == edgeID {
			out = append(out, p)
		}
	}
	return out
}

// EdgeCount returns the number of distinct edges in the result.
func (r Result) EdgeCount() int {
	seen := make(map[int]struct{})
	for _, p := range r.Points {
		seen[p.EdgeID] = struct{}{}
	}
	return len(seen)
}

// =============================================================================
// JSON Helpers
// =============================================================================

// MarshalEdgeSet serializes an edge set to JSON bytes.
func MarshalEdgeSet(s EdgeSet) ([]byte, error) {
	return json.Marshal(s)
}

// UnmarshalEdgeSet deserializes JSON bytes to an EdgeSet.
func UnmarshalEdgeSet(data []byte) (EdgeSet, error) {
	var s EdgeSet
	if err := json.Unmarshal(data, &s); err != nil {
		return EdgeSet{}, err
	}
	return s, nil
}

// ReadEdgeSet decodes an EdgeSet from r.
func ReadEdgeSet(r io.Reader) (EdgeSet, error) {
	var s EdgeSet
	if err := json.NewDecoder(r).Decode(&s); err != nil {
		return EdgeSet{}, err
	}
	return s, nil
}

// MarshalResult serializes a result to JSON bytes.
func MarshalResult(r Result) ([]byte, error) {
	return json.Marshal(r)
}

// UnmarshalResult deserializes JSON bytes to a Result.
func UnmarshalResult(data []byte) (Result, error) {
	var r Result
	if err := json.Unmarshal(data, &r); err != nil {
		return Result{}, err
	}
	return r, nil
}
