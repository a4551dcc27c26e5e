// Package pkg provides the core libraries of graphgen, a generator of random
// layered graphs.
//
// # Overview
//
// graphgen grows a random tree from a single root with a fixed pool of
// workers, then decorates it with colored edges in four concurrent passes.
// The pkg directory is organized into four main areas:
//
//  1. [graph] and [generator] - Domain logic (the graph store and the
//     two-phase generation algorithm)
//  2. [cache] and [archive] - Infrastructure (run cache and run archive)
//  3. [io] and [render] - Serialization and output artifacts
//  4. [pipeline] - Orchestration (generate → validate → store → render)
//
// # Architecture
//
// The typical data flow through graphgen:
//
//	generator.Params
//	       ↓
//	  [generator] tree phase (worker pool, gray edges)
//	       ↓
//	  [generator] color phase (green, blue, yellow, red passes)
//	       ↓
//	  [graph] Store, checked by Validate
//	       ↓
//	  JSON / DOT / SVG output
//
// # Quick Start
//
//	res, err := generator.Generate(ctx, generator.Params{
//	    MaxDepth:       5,
//	    NewVerticesNum: 3,
//	})
//	if err != nil {
//	    return err
//	}
//	if w := res.Warning(); w != nil {
//	    log.Warn(w)
//	}
//	return io.ExportJSON(res.Graph, "graph.json")
//
// # Main Packages
//
// [graph] - Thread-safe store of vertices and colored edges, indexed by
// depth. Vertex and edge ids are dense and assigned in insertion order.
//
// [generator] - The tree phase runs a FIFO job queue on a fixed number of
// workers; each job grows one branch from a child of the root. The color
// phase runs one goroutine per color and joins them before returning.
//
// [io] - The JSON graph document: vertices with depth and incident edge ids,
// edges with endpoints and color.
//
// [render] - Output formats. [render/dot] writes Graphviz source and renders
// SVG in-process.
//
// [cache] - Keyed byte storage with TTLs: file, Redis and null backends.
//
// [archive] - Durable run history backed by MongoDB.
//
// [pipeline] - Runner used by both the CLI and the HTTP server. Seeded runs
// are reused from the cache.
//
// [observability] - Hooks for progress reporting and metrics.
//
// [errors] - Coded errors shared by every package.
//
// [graph]: https://pkg.go.dev/github.com/matzehuels/graphgen/pkg/graph
// [generator]: https://pkg.go.dev/github.com/matzehuels/graphgen/pkg/generator
// [cache]: https://pkg.go.dev/github.com/matzehuels/graphgen/pkg/cache
// [archive]: https://pkg.go.dev/github.com/matzehuels/graphgen/pkg/archive
// [io]: https://pkg.go.dev/github.com/matzehuels/graphgen/pkg/io
// [render]: https://pkg.go.dev/github.com/matzehuels/graphgen/pkg/render
// [render/dot]: https://pkg.go.dev/github.com/matzehuels/graphgen/pkg/render/dot
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/graphgen/pkg/pipeline
// [observability]: https://pkg.go.dev/github.com/matzehuels/graphgen/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/graphgen/pkg/errors
package pkg
