package io

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/matzehuels/edgebundle/pkg/errors"
	"github.com/matzehuels/edgebundle/pkg/graph"
)

// edge CSV columns; weight is optional.
const (
	colX    = "x"
	colY    = "y"
	colXEnd = "xend"
	colYEnd = "yend"
	colW    = "weight"
)

// ImportEdges reads an edge set from path, choosing the codec from the
// file extension (".json" or ".csv").
func ImportEdges(path string) (graph.EdgeSet, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return graph.EdgeSet{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return graph.EdgeSet{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return ReadEdgesJSON(f)
	case ".csv":
		return ReadEdgesCSV(f)
	default:
		return graph.EdgeSet{}, errors.New(errors.ErrCodeInvalidFormat,
			"unsupported input extension %q (use .json or .csv)", filepath.Ext(path))
	}
}

// ReadEdgesJSON decodes an edge set from JSON. Record IDs default to the
// 0-based input index when absent.
func ReadEdgesJSON(r io.Reader) (graph.EdgeSet, error) {
	s, err := graph.ReadEdgeSet(r)
	if err != nil {
		return graph.EdgeSet{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode edge set")
	}
	assignIDs(&s)
	return s, nil
}

// ReadEdgesCSV decodes an edge set from CSV. The header must contain the
// x, y, xend and yend columns; a weight column is optional and additional
// columns are ignored.
func ReadEdgesCSV(r io.Reader) (graph.EdgeSet, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return graph.EdgeSet{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "read CSV header")
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{colX, colY, colXEnd, colYEnd} {
		if _, ok := cols[required]; !ok {
			return graph.EdgeSet{}, errors.New(errors.ErrCodeInvalidInput,
				"missing required column %q (have: %s)", required, strings.Join(header, ","))
		}
	}
	wcol, hasWeight := cols[colW]

	var s graph.EdgeSet
	for line := 2; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return graph.EdgeSet{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "read CSV line %d", line)
		}

		rec := graph.EdgeRecord{ID: len(s.Edges)}
		if rec.X0, err = parseField(row, cols[colX], colX, line); err != nil {
			return graph.EdgeSet{}, err
		}
		if rec.Y0, err = parseField(row, cols[colY], colY, line); err != nil {
			return graph.EdgeSet{}, err
		}
		if rec.X1, err = parseField(row, cols[colXEnd], colXEnd, line); err != nil {
			return graph.EdgeSet{}, err
		}
		if rec.Y1, err = parseField(row, cols[colYEnd], colYEnd, line); err != nil {
			return graph.EdgeSet{}, err
		}
		if hasWeight {
			if rec.Weight, err = parseField(row, wcol, colW, line); err != nil {
				return graph.EdgeSet{}, err
			}
		}
		s.Edges = append(s.Edges, rec)
	}
	return s, nil
}

func parseField(row []string, idx int, name string, line int) (float64, error) {
	if idx >= len(row) {
		return 0, errors.New(errors.ErrCodeInvalidInput, "line %d: missing %q field", line, name)
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(row[idx]), 64)
	if err != nil {
		return 0, errors.New(errors.ErrCodeInvalidInput,
			"line %d: invalid %q value %q", line, name, row[idx])
	}
	return v, nil
}

// assignIDs fills in missing record IDs with the 0-based input index.
// IDs are considered missing when every record reports zero.
func assignIDs(s *graph.EdgeSet) {
	allZero := true
	for _, e := range s.Edges {
		if e.ID != 0 {
			allZero = false
			break
		}
	}
	if !allZero {
		return
	}
	for i := range s.Edges {
		s.Edges[i].ID = i
	}
}
