// Package graph provides the concurrent graph store used by the generator.
//
// # Overview
//
// A [Store] holds an undirected multicolor graph whose vertices are arranged
// in depth levels. Vertex 0 is the root at depth 0; every other vertex hangs
// one level below the vertex that created it, linked by a [Gray] edge. The
// Gray edges therefore form a spanning tree, and the remaining colors add
// extra edges on top of it:
//
//   - [Green]: self-loop on a single vertex
//   - [Blue]: two vertices of the same depth
//   - [Yellow]: a vertex and one at depth+1
//   - [Red]: a vertex and one at depth+2
//
// # Depth Index
//
// The store keeps a depth index mapping each depth to the vertices created
// there, in creation order. [Store.VerticesAtDepth] and
// [Store.MaxDepthReached] read it; the color passes use it to pick
// candidates.
//
// # Concurrency
//
// All methods are safe for concurrent use. Mutations take a single exclusive
// lock for their whole duration and reads take a shared lock, so a reader
// never observes a half-built vertex or edge. [Store.InsertChild] creates a
// vertex and its Gray parent edge in one step.
//
// # Errors
//
// Insert operations fail with an INVALID_OPERATION coded error (see
// pkg/errors) when an endpoint is unknown or when two distinct vertices are
// already connected. [Store.Validate] re-checks every structural invariant
// and returns one of the package sentinel errors.
package graph
