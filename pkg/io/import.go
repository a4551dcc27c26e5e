package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	errs "github.com/matzehuels/graphgen/pkg/errors"
	"github.com/matzehuels/graphgen/pkg/graph"
)

// ReadJSON decodes a JSON graph document from r into a new store.
//
// The input must be an object with "vertices" and "edges" arrays:
//
//	{
//	  "depth": 1,
//	  "vertices": [
//	    {"id": 0, "depth": 0, "edge_ids": [0]},
//	    {"id": 1, "depth": 1, "edge_ids": [0]}
//	  ],
//	  "edges": [{"id": 0, "vertex_ids": [0, 1], "color": "gray"}]
//	}
//
// Vertices and edges are replayed in ID order; see [Document.ToStore] for
// the checks applied. ReadJSON does not close r.
func ReadJSON(r io.Reader) (*graph.Store, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "decode")
	}
	return doc.ToStore()
}

// ImportJSON reads a JSON file at path and returns the rebuilt store.
//
// ImportJSON returns the same validation errors as [ReadJSON] for malformed
// documents.
func ImportJSON(path string) (*graph.Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}
