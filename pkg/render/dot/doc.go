// Package dot renders generated graphs as Graphviz diagrams.
//
// # Usage
//
// Convert a store to DOT source, then render it to SVG:
//
//	src := dot.ToDOT(store, dot.Options{Detailed: false})
//	svg, err := dot.RenderSVG(ctx, src)
//
// The DOT source is an undirected graph. Vertices sharing a depth are placed
// on the same rank, so the Gray tree reads top to bottom from the root, and
// edges are colored by family (see [EdgeColors]).
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering; no Graphviz installation is required.
package dot
