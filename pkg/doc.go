// Package pkg provides the core libraries for schemagraph.
//
// # Overview
//
// Schemagraph turns extracted database schema records into an
// entity-relationship graph: one node per entity, one edge per relation,
// positioned by a hierarchical layout and drawn with smooth-step edges
// that fan out when several relations join the same pair of entities.
//
// # Architecture
//
// The data flow through schemagraph:
//
//	Dataset (JSON / BSON / Extended JSON)
//	         ↓
//	    [schema] package (decode + validate entity records)
//	         ↓
//	    [graph] package (nodes, edges, parallel groups)
//	         ↓
//	    [layout] package (layered or Graphviz dot positions)
//	         ↓
//	    [route] package (smooth-step edge paths)
//	         ↓
//	    [view] package (payload for a drawing surface, interaction state)
//
// [pipeline] runs these stages behind a content-addressed [cache], and is
// shared by the layout and explore commands.
//
// # Quick Start
//
//	import (
//	    "context"
//	    "github.com/matzehuels/schemagraph/pkg/pipeline"
//	)
//
//	runner := pipeline.NewRunner(nil, nil, nil)
//	res, _ := runner.RunFile(context.Background(), "schemas.json", pipeline.Options{Routes: true})
//	payload, _ := pipeline.Render(res, pipeline.FormatPayload)
//
// # Main Packages
//
// ## Domain Logic
//
// [schema] - Entity record type, validation, and dataset decoding.
//
// [graph] - Node and edge types, ingest from records, parallel-edge grouping
// and graph file serialization.
//
// [dag] - Directed graph with cycle breaking and longest-path ranks, used by
// the layered engine.
//
// [layout] - Layout engines (layered, dot) and the never-failing [layout.Apply].
//
// [route] - Smooth-step edge paths with parallel offsets and label anchors.
//
// [interact] - Hover and selection state machine.
//
// [view] - Mutable node/label positions and the pure payload derivation.
//
// ## Infrastructure
//
// [pipeline] - Ingest → layout → route with memoization and caching.
//
// [cache] - Byte caches (file, sqlite, redis, none) and key derivation.
//
// [config] - TOML/YAML configuration with validation.
//
// [observability] - Pipeline and cache hooks with a Prometheus implementation.
//
// [errors] - Coded errors and non-fatal diagnostics.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...                    # All tests
//	go test ./pkg/layout/...             # Specific package
//	go test -run Example                 # Examples only
//
// Redis tests run when SCHEMAGRAPH_TEST_REDIS_URL is set.
//
// [schema]: https://pkg.go.dev/github.com/matzehuels/schemagraph/pkg/schema
// [graph]: https://pkg.go.dev/github.com/matzehuels/schemagraph/pkg/graph
// [dag]: https://pkg.go.dev/github.com/matzehuels/schemagraph/pkg/dag
// [layout]: https://pkg.go.dev/github.com/matzehuels/schemagraph/pkg/layout
// [layout.Apply]: https://pkg.go.dev/github.com/matzehuels/schemagraph/pkg/layout#Apply
// [route]: https://pkg.go.dev/github.com/matzehuels/schemagraph/pkg/route
// [interact]: https://pkg.go.dev/github.com/matzehuels/schemagraph/pkg/interact
// [view]: https://pkg.go.dev/github.com/matzehuels/schemagraph/pkg/view
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/schemagraph/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/schemagraph/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/schemagraph/pkg/config
// [observability]: https://pkg.go.dev/github.com/matzehuels/schemagraph/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/schemagraph/pkg/errors
package pkg
