package io

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/edgebundle/pkg/errors"
	"github.com/matzehuels/edgebundle/pkg/graph"
)

func TestReadEdgesJSON(t *testing.T) {
	in := `{"edges":[{"x0":0,"y0":0,"x1":10,"y1":0,"weight":2},{"x0":0,"y0":1,"x1":10,"y1":1}]}`
	set, err := ReadEdgesJSON(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ReadEdgesJSON() error: %v", err)
	}
	if len(set.Edges) != 2 {
		t.Fatalf("len(Edges) = %d, want 2", len(set.Edges))
	}

	// Missing IDs are assigned from the input index
	if set.Edges[0].ID != 0 || set.Edges[1].ID != 1 {
		t.Errorf("IDs = %d, %d, want 0, 1", set.Edges[0].ID, set.Edges[1].ID)
	}
	if set.Edges[0].Weight != 2 {
		t.Errorf("Weight = %v, want 2", set.Edges[0].Weight)
	}
}

func TestReadEdgesJSON_KeepsExplicitIDs(t *testing.T) {
	in := `{"edges":[{"id":0,"x1":1},{"id":5,"x1":1}]}`
	set, err := ReadEdgesJSON(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ReadEdgesJSON() error: %v", err)
	}
	if set.Edges[0].ID != 0 || set.Edges[1].ID != 5 {
		t.Errorf("IDs = %d, %d, want 0, 5 preserved", set.Edges[0].ID, set.Edges[1].ID)
	}
}

func TestReadEdgesJSON_Malformed(t *testing.T) {
	_, err := ReadEdgesJSON(strings.NewReader("{edges: nope"))
	if err == nil {
		t.Fatal("ReadEdgesJSON() should fail")
	}
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("error code = %v, want INVALID_FORMAT", errors.GetCode(err))
	}
}

func TestReadEdgesCSV(t *testing.T) {
	in := "x,y,xend,yend,weight\n0,0,10,0,2\n0,1,10,1,1\n"
	set, err := ReadEdgesCSV(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ReadEdgesCSV() error: %v", err)
	}
	if len(set.Edges) != 2 {
		t.Fatalf("len(Edges) = %d, want 2", len(set.Edges))
	}
	want := graph.EdgeRecord{ID: 0, X0: 0, Y0: 0, X1: 10, Y1: 0, Weight: 2}
	if set.Edges[0] != want {
		t.Errorf("Edges[0] = %+v, want %+v", set.Edges[0], want)
	}
	if set.Edges[1].ID != 1 {
		t.Errorf("Edges[1].ID = %d, want 1", set.Edges[1].ID)
	}
}

func TestReadEdgesCSV_HeaderVariants(t *testing.T) {
	// Case-insensitive headers with extra columns and padding
	in := "Name, X, Y, XEnd, YEnd, Notes\nfoo, 1, 2, 3, 4, bar\n"
	set, err := ReadEdgesCSV(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ReadEdgesCSV() error: %v", err)
	}
	e := set.Edges[0]
	if e.X0 != 1 || e.Y0 != 2 || e.X1 != 3 || e.Y1 != 4 {
		t.Errorf("Edges[0] = %+v, want coords 1,2,3,4", e)
	}
	if e.Weight != 0 {
		t.Errorf("Weight = %v, want 0 without a weight column", e.Weight)
	}
}

func TestReadEdgesCSV_MissingColumn(t *testing.T) {
	_, err := ReadEdgesCSV(strings.NewReader("x,y,xend\n1,2,3\n"))
	if err == nil {
		t.Fatal("ReadEdgesCSV() should fail")
	}
	if !strings.Contains(err.Error(), `"yend"`) {
		t.Errorf("error = %q, want it to name the missing column", err)
	}
}

func TestReadEdgesCSV_BadValue(t *testing.T) {
	_, err := ReadEdgesCSV(strings.NewReader("x,y,xend,yend\n1,2,three,4\n"))
	if err == nil {
		t.Fatal("ReadEdgesCSV() should fail")
	}
	if !strings.Contains(err.Error(), "line 2") {
		t.Errorf("error = %q, want it to name line 2", err)
	}
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("error code = %v, want INVALID_INPUT", errors.GetCode(err))
	}
}

func TestImportEdges(t *testing.T) {
	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "edges.json")
	if err := os.WriteFile(jsonPath, []byte(`{"edges":[{"x1":1}]}`), 0o644); err != nil {
		t.Fatal(err)
	}
	set, err := ImportEdges(jsonPath)
	if err != nil {
		t.Fatalf("ImportEdges(json) error: %v", err)
	}
	if len(set.Edges) != 1 {
		t.Errorf("json import: len(Edges) = %d, want 1", len(set.Edges))
	}

	csvPath := filepath.Join(dir, "edges.csv")
	if err := os.WriteFile(csvPath, []byte("x,y,xend,yend\n0,0,1,1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	set, err = ImportEdges(csvPath)
	if err != nil {
		t.Fatalf("ImportEdges(csv) error: %v", err)
	}
	if len(set.Edges) != 1 {
		t.Errorf("csv import: len(Edges) = %d, want 1", len(set.Edges))
	}
}

func TestImportEdges_Missing(t *testing.T) {
	_, err := ImportEdges(filepath.Join(t.TempDir(), "nope.json"))
	if err == nil {
		t.Fatal("ImportEdges() should fail")
	}
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("error code = %v, want FILE_NOT_FOUND", errors.GetCode(err))
	}
}

func TestImportEdges_UnsupportedExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "edges.yaml")
	if err := os.WriteFile(path, []byte("edges: []"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := ImportEdges(path)
	if err == nil {
		t.Fatal("ImportEdges() should fail")
	}
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("error code = %v, want INVALID_FORMAT", errors.GetCode(err))
	}
}

func sampleResult() graph.Result {
	return graph.Result{Points: []graph.PathPoint{
		{EdgeID: 0, Segment: 0, T: 0, X: 0, Y: 0},
		{EdgeID: 0, Segment: 1, T: 0.5, X: 1, Y: 0.25},
		{EdgeID: 0, Segment: 2, T: 1, X: 2, Y: 0},
	}}
}

func TestWriteResultJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteResultJSON(sampleResult(), &buf); err != nil {
		t.Fatalf("WriteResultJSON() error: %v", err)
	}

	got, err := graph.UnmarshalResult(buf.Bytes())
	if err != nil {
		t.Fatalf("round trip failed: %v", err)
	}
	if len(got.Points) != 3 || got.Points[1].X != 1 {
		t.Errorf("round trip = %+v", got.Points)
	}
}

func TestWriteResultCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteResultCSV(sampleResult(), &buf); err != nil {
		t.Fatalf("WriteResultCSV() error: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("output has %d lines, want header + 3 rows:\n%s", len(lines), buf.String())
	}
	if lines[0] != "edge_id,segment,t,x,y" {
		t.Errorf("header = %q", lines[0])
	}
	if lines[2] != "0,1,0.5,1,0.25" {
		t.Errorf("row = %q, want %q", lines[2], "0,1,0.5,1,0.25")
	}
}

func TestExportResult(t *testing.T) {
	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "out.json")
	if err := ExportResult(sampleResult(), jsonPath); err != nil {
		t.Fatalf("ExportResult(json) error: %v", err)
	}
	data, err := os.ReadFile(jsonPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"edge_id"`) {
		t.Errorf("json output missing edge_id field:\n%s", data)
	}

	csvPath := filepath.Join(dir, "out.csv")
	if err := ExportResult(sampleResult(), csvPath); err != nil {
		t.Fatalf("ExportResult(csv) error: %v", err)
	}

	if err := ExportResult(sampleResult(), filepath.Join(dir, "out.svg")); err == nil {
		t.Error("unsupported extension should fail")
	}
}

func TestWriteEdgesJSON(t *testing.T) {
	set := graph.EdgeSet{Edges: []graph.EdgeRecord{{ID: 1, X1: 2, Weight: 3}}}
	var buf bytes.Buffer
	if err := WriteEdgesJSON(set, &buf); err != nil {
		t.Fatalf("WriteEdgesJSON() error: %v", err)
	}
	got, err := graph.UnmarshalEdgeSet(buf.Bytes())
	if err != nil {
		t.Fatalf("round trip failed: %v", err)
	}
	if len(got.Edges) != 1 || got.Edges[0] != set.Edges[0] {
		t.Errorf("round trip = %+v, want %+v", got.Edges, set.Edges)
	}
}
