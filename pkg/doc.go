// Package pkg provides the core libraries for edgebundle, a force-directed
// edge bundling engine for node-link diagrams.
//
// # Overview
//
// Edgebundle takes a set of straight edges, models each one as a flexible
// polyline, and iteratively pulls compatible edges together until related
// connections merge into shared bundles (Holten & van Wijk, 2009). The pkg
// directory is organized into five main areas:
//
//  1. [bundle] - The simulation engine (compatibility scoring, force model,
//     cycle schedule)
//  2. [graph] - Serialization types for bundling input and output
//  3. [io] - File import/export (JSON and CSV codecs)
//  4. [pipeline] - Orchestration with caching, used by CLI and API
//  5. [api] - HTTP server exposing the pipeline
//
// # Architecture
//
// The typical data flow through edgebundle:
//
//	Edge list (JSON/CSV)
//	         ↓
//	    [io] package (decode into an edge set)
//	         ↓
//	    [bundle] package (compatibility matrix + force simulation)
//	         ↓
//	    [graph] package (flatten polylines into point rows)
//	         ↓
//	    JSON/CSV output
//
// # Quick Start
//
// Bundle a pair of edges:
//
//	import (
//	    "github.com/jbeda/geom"
//	    "github.com/matzehuels/edgebundle/pkg/bundle"
//	)
//
//	segments := []bundle.Segment{
//	    {Start: geom.Coord{X: 0, Y: 0}, End: geom.Coord{X: 10, Y: 0}},
//	    {Start: geom.Coord{X: 0, Y: 1}, End: geom.Coord{X: 10, Y: 1}},
//	}
//	paths, err := bundle.Bundle(segments, bundle.DefaultOptions())
//
// Or run the full pipeline with caching:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, edges, pipeline.DefaultOptions())
//
// # Main Packages
//
// [bundle] - The simulation engine. Edges, the pairwise compatibility
// matrix, the spring and electrostatic force model, and the subdivision
// cycle schedule. Deterministic for a given input and options, regardless
// of worker count.
//
// [graph] - Serialization types: EdgeSet for input edges, Result for the
// flattened output polylines. Used for API requests, files, and caching.
//
// [io] - Extension-dispatched file codecs for edge sets and results.
//
// [pipeline] - Orchestrates validate → bundle → flatten with content-hash
// caching in front of the engine. Also exposes compatibility matrix
// inspection for debugging thresholds.
//
// [cache] - Cache backends: file (CLI default), memory, Redis, and
// MongoDB, behind one interface.
//
// [api] - chi-based HTTP server with /v1/bundle and /v1/matrix endpoints.
//
// [errors] - Structured errors with machine-readable codes shared by the
// CLI and API.
//
// [observability] - Optional lifecycle hooks for bundling runs, cache
// operations, and HTTP requests.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...          # All tests
//	go test ./pkg/bundle/...   # Engine only
//	go test -run Example       # Examples only
//
// [bundle]: https://pkg.go.dev/github.com/matzehuels/edgebundle/pkg/bundle
// [graph]: https://pkg.go.dev/github.com/matzehuels/edgebundle/pkg/graph
// [io]: https://pkg.go.dev/github.com/matzehuels/edgebundle/pkg/io
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/edgebundle/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/edgebundle/pkg/cache
// [api]: https://pkg.go.dev/github.com/matzehuels/edgebundle/pkg/api
// [errors]: https://pkg.go.dev/github.com/matzehuels/edgebundle/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/edgebundle/pkg/observability
package pkg
