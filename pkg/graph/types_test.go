package graph

import (
	"math"
	"strings"
	"testing"

	"github.com/jbeda/geom"

	"github.com/matzehuels/edgebundle/pkg/bundle"
	"github.com/matzehuels/edgebundle/pkg/errors"
)

func TestEdgeSet_Segments(t *testing.T) {
	set := EdgeSet{Edges: []EdgeRecord{
		{ID: 7, X0: 0, Y0: 1, X1: 2, Y1: 3, Weight: 4},
		{ID: 8, X0: 5, Y0: 6, X1: 7, Y1: 8},
	}}

	segments := set.Segments()
	if len(segments) != 2 {
		t.Fatalf("len(segments) = %d, want 2", len(segments))
	}
	want := bundle.Segment{
		Start:  geom.Coord{X: 0, Y: 1},
		End:    geom.Coord{X: 2, Y: 3},
		Weight: 4,
	}
	if segments[0] != want {
		t.Errorf("segments[0] = %+v, want %+v", segments[0], want)
	}
	if segments[1].Weight != 0 {
		t.Errorf("segments[1].Weight = %v, want 0 (engine defaults it)", segments[1].Weight)
	}
}

func TestEdgeSet_Validate(t *testing.T) {
	valid := EdgeSet{Edges: []EdgeRecord{{X1: 1, Weight: 1}}}
	if err := valid.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}

	tests := []struct {
		name string
		set  EdgeSet
	}{
		{"empty set", EdgeSet{}},
		{"NaN coordinate", EdgeSet{Edges: []EdgeRecord{{X0: math.NaN()}}}},
		{"infinite coordinate", EdgeSet{Edges: []EdgeRecord{{Y1: math.Inf(-1)}}}},
		{"negative weight", EdgeSet{Edges: []EdgeRecord{{X1: 1, Weight: -1}}}},
		{"NaN weight", EdgeSet{Edges: []EdgeRecord{{X1: 1, Weight: math.NaN()}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.set.Validate()
			if err == nil {
				t.Fatal("Validate() should fail")
			}
			if !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Errorf("error code = %v, want INVALID_INPUT", errors.GetCode(err))
			}
		})
	}
}

func TestEdgeSet_ValidateNamesFirstBadRecord(t *testing.T) {
	set := EdgeSet{Edges: []EdgeRecord{
		{X1: 1},
		{X0: math.NaN()},
		{Y0: math.Inf(1)},
	}}

	err := set.Validate()
	if err == nil {
		t.Fatal("Validate() should fail")
	}
	if !strings.Contains(err.Error(), "record 1") {
		t.Errorf("error = %q, want it to name record 1", err)
	}
}

func TestFromPolylines(t *testing.T) {
	paths := []bundle.Polyline{
		{EdgeID: 0, Points: []geom.Coord{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}}},
		{EdgeID: 1, Points: []geom.Coord{{X: 0, Y: 1}, {X: 2, Y: 1}}},
	}

	r := FromPolylines(paths, nil)
	if len(r.Points) != 5 {
		t.Fatalf("len(Points) = %d, want 5", len(r.Points))
	}

	first := r.Points[0]
	if first.EdgeID != 0 || first.Segment != 0 || first.T != 0 {
		t.Errorf("Points[0] = %+v, want edge 0, segment 0, t 0", first)
	}
	mid := r.Points[1]
	if mid.Segment != 1 || mid.T != 0.5 || mid.X != 1 {
		t.Errorf("Points[1] = %+v, want segment 1, t 0.5, x 1", mid)
	}
	last := r.Points[2]
	if last.T != 1 || last.X != 2 {
		t.Errorf("Points[2] = %+v, want t 1, x 2", last)
	}
	if r.Points[3].EdgeID != 1 || r.Points[4].T != 1 {
		t.Errorf("second edge rows = %+v, %+v", r.Points[3], r.Points[4])
	}
}

func TestFromPolylines_IDMapping(t *testing.T) {
	paths := []bundle.Polyline{
		{EdgeID: 0, Points: []geom.Coord{{}, {X: 1}}},
		{EdgeID: 1, Points: []geom.Coord{{}, {X: 1}}},
	}

	r := FromPolylines(paths, []int{42, 7})
	if r.Points[0].EdgeID != 42 {
		t.Errorf("Points[0].EdgeID = %d, want 42", r.Points[0].EdgeID)
	}
	if r.Points[2].EdgeID != 7 {
		t.Errorf("Points[2].EdgeID = %d, want 7", r.Points[2].EdgeID)
	}
}

func TestResult_Polyline(t *testing.T) {
	r := Result{Points: []PathPoint{
		{EdgeID: 1, Segment: 0},
		{EdgeID: 2, Segment: 0},
		{EdgeID: 1, Segment: 1},
	}}

	pts := r.Polyline(1)
	if len(pts) != 2 {
		t.Fatalf("Polyline(1) has %d points, want 2", len(pts))
	}
	if pts[0].Segment != 0 || pts[1].Segment != 1 {
		t.Errorf("Polyline(1) = %+v, want segments in order", pts)
	}
	if got := r.Polyline(99); got != nil {
		t.Errorf("Polyline(99) = %v, want nil", got)
	}
}

func TestResult_EdgeCount(t *testing.T) {
	r := Result{Points: []PathPoint{
		{EdgeID: 1}, {EdgeID: 1}, {EdgeID: 5}, {EdgeID: 9},
	}}
	if got := r.EdgeCount(); got != 3 {
		t.Errorf("EdgeCount() = %d, want 3", got)
	}
	if got := (Result{}).EdgeCount(); got != 0 {
		t.Errorf("empty EdgeCount() = %d, want 0", got)
	}
}

func TestUnmarshalEdgeSet(t *testing.T) {
	data := []byte(`{"edges":[{"id":3,"x0":1,"y0":2,"x1":3,"y1":4,"weight":2.5}]}`)
	set, err := UnmarshalEdgeSet(data)
	if err != nil {
		t.Fatalf("UnmarshalEdgeSet() error: %v", err)
	}
	want := EdgeRecord{ID: 3, X0: 1, Y0: 2, X1: 3, Y1: 4, Weight: 2.5}
	if len(set.Edges) != 1 || set.Edges[0] != want {
		t.Errorf("edges = %+v, want [%+v]", set.Edges, want)
	}

	if _, err := UnmarshalEdgeSet([]byte("{not json")); err == nil {
		t.Error("malformed JSON should fail")
	}
}

func TestMarshalEdgeSet_OmitsZeroWeight(t *testing.T) {
	data, err := MarshalEdgeSet(EdgeSet{Edges: []EdgeRecord{{ID: 1, X1: 2}}})
	if err != nil {
		t.Fatalf("MarshalEdgeSet() error: %v", err)
	}
	if strings.Contains(string(data), "weight") {
		t.Errorf("output %s should omit a zero weight", data)
	}
}

func TestReadEdgeSet(t *testing.T) {
	set, err := ReadEdgeSet(strings.NewReader(`{"edges":[{"x1":1}]}`))
	if err != nil {
		t.Fatalf("ReadEdgeSet() error: %v", err)
	}
	if len(set.Edges) != 1 {
		t.Errorf("len(Edges) = %d, want 1", len(set.Edges))
	}
}
