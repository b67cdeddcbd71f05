// Package io provides JSON and CSV import and export for edge sets and
// bundling results.
//
// # Overview
//
// This package moves data across the process boundary: edge lists come in
// from files or pipes, bundled point rows go out to files or pipes for the
// rendering layer to consume. The formats are deliberately plain so that
// dataframes, spreadsheets, and plotting tools can produce and consume them
// without adapters.
//
// # Edge Input
//
// JSON input is the [graph.EdgeSet] format. CSV input expects a header row
// with the columns
//
//	x,y,xend,yend[,weight]
//
// in any order; extra columns are ignored. The column names follow the
// aesthetic names used by grammar-of-graphics tools for segment data, which
// is the most common upstream producer of edge lists.
//
// # Result Output
//
// JSON output is the [graph.Result] format. CSV output has the header
//
//	edge_id,segment,t,x,y
//
// with one row per polyline point, ordered by edge then segment.
//
// # Format Detection
//
// ImportEdges and ExportResult choose the codec from the file extension
// (".json" or ".csv"); use the Read/Write functions directly when working
// with streams.
package io
