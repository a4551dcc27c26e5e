// Package io provides JSON import and export for generated graphs.
//
// # JSON Format
//
// A graph is written as a single object:
//
//	{
//	  "depth": 2,
//	  "vertices": [
//	    {"id": 0, "depth": 0, "edge_ids": [0, 2]},
//	    {"id": 1, "depth": 1, "edge_ids": [0, 1]},
//	    {"id": 2, "depth": 2, "edge_ids": [1, 2]}
//	  ],
//	  "edges": [
//	    {"id": 0, "vertex_ids": [0, 1], "color": "gray"},
//	    {"id": 1, "vertex_ids": [1, 2], "color": "gray"},
//	    {"id": 2, "vertex_ids": [0, 2], "color": "red"}
//	  ]
//	}
//
// "depth" is the deepest level holding a vertex. Each vertex lists its
// incident edges in insertion order. Each edge lists its two endpoints,
// parent first for gray edges and shallower first otherwise; a green loop
// repeats the same vertex. Colors are "gray", "green", "blue", "yellow" and
// "red".
//
// # Import
//
// Use [ImportJSON] to read a graph from a file path, or [ReadJSON] to read
// from any io.Reader. Both rebuild a [graph.Store] and validate it, so a
// document that breaks a graph invariant is rejected with an INVALID_FORMAT
// error.
//
// # Export
//
// Use [ExportJSON] to write a graph to a file, or [WriteJSON] to write to any
// io.Writer. [FromStore] returns the [Document] value itself, which carries
// bson tags for storage in the run archive.
package io
