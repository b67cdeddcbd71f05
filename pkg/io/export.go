package io

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/matzehuels/edgebundle/pkg/errors"
	"github.com/matzehuels/edgebundle/pkg/graph"
)

// ExportResult writes a bundling result to path, choosing the codec from
// the file extension (".json" or ".csv").
func ExportResult(r graph.Result, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return WriteResultJSON(r, f)
	case ".csv":
		return WriteResultCSV(r, f)
	default:
		return errors.New(errors.ErrCodeInvalidFormat,
			"unsupported output extension %q (use .json or .csv)", filepath.Ext(path))
	}
}

// WriteResultJSON encodes a result as indented JSON.
func WriteResultJSON(r graph.Result, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// WriteResultCSV encodes a result as CSV with an edge_id,segment,t,x,y
// header, one row per polyline point.
func WriteResultCSV(r graph.Result, w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"edge_id", "segment", "t", "x", "y"}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, p := range r.Points {
		row := []string{
			strconv.Itoa(p.EdgeID),
			strconv.Itoa(p.Segment),
			formatFloat(p.T),
			formatFloat(p.X),
			formatFloat(p.Y),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteEdgesJSON encodes an edge set as indented JSON. Useful for
// round-tripping converted CSV input.
func WriteEdgesJSON(s graph.EdgeSet, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// formatFloat renders a coordinate with the shortest representation that
// round-trips exactly.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
