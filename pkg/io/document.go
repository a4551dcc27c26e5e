package io

import (
	"encoding/json"
	"fmt"
	"slices"

	errs "github.com/matzehuels/graphgen/pkg/errors"
	"github.com/matzehuels/graphgen/pkg/graph"
)

// Document is the serialized form of a generated graph. It is used for JSON
// files, API responses, cache entries and archive records.
type Document struct {
	// Depth is the deepest level holding a vertex.
	Depth    int      `json:"depth" bson:"depth"`
	Vertices []Vertex `json:"vertices" bson:"vertices"`
	Edges    []Edge   `json:"edges" bson:"edges"`
}

// Vertex is a serialized vertex with the IDs of its incident edges in
// insertion order.
type Vertex struct {
	ID      int   `json:"id" bson:"id"`
	Depth   int   `json:"depth" bson:"depth"`
	EdgeIDs []int `json:"edge_ids" bson:"edge_ids"`
}

// Edge is a serialized edge. VertexIDs holds both endpoints; they are equal
// for a loop.
type Edge struct {
	ID        int    `json:"id" bson:"id"`
	VertexIDs [2]int `json:"vertex_ids" bson:"vertex_ids"`
	Color     string `json:"color" bson:"color"`
}

// FromStore converts a store into a Document.
func FromStore(s *graph.Store) Document {
	vertices := s.Vertices()
	edges := s.Edges()

	doc := Document{
		Depth:    s.MaxDepthReached(),
		Vertices: make([]Vertex, len(vertices)),
		Edges:    make([]Edge, len(edges)),
	}
	for i, v := range vertices {
		ids := s.EdgeIDsOf(v.ID)
		vd := Vertex{ID: int(v.ID), Depth: v.Depth, EdgeIDs: make([]int, len(ids))}
		for j, id := range ids {
			vd.EdgeIDs[j] = int(id)
		}
		doc.Vertices[i] = vd
	}
	for i, e := range edges {
		doc.Edges[i] = Edge{
			ID:        int(e.ID),
			VertexIDs: [2]int{int(e.A), int(e.B)},
			Color:     e.Color.String(),
		}
	}
	return doc
}

// ToStore rebuilds a store by replaying the document's vertices and edges
// in ID order. It fails with an INVALID_FORMAT error if IDs are not dense,
// a color is unknown, the recorded incident edges disagree with the edges,
// or the result breaks a graph invariant.
func (d Document) ToStore() (*graph.Store, error) {
	s := graph.New()
	for i, v := range d.Vertices {
		if v.ID != i {
			return nil, errs.New(errs.ErrCodeInvalidFormat, "vertex %d: expected id %d", v.ID, i)
		}
		if (i == 0) != (v.Depth == 0) {
			return nil, errs.New(errs.ErrCodeInvalidFormat, "vertex %d: invalid depth %d", v.ID, v.Depth)
		}
		if v.Depth < 0 {
			return nil, errs.New(errs.ErrCodeInvalidFormat, "vertex %d: negative depth %d", v.ID, v.Depth)
		}
		// Vertices follow creation order, so a parent level always exists.
		if i > 0 && v.Depth > s.MaxDepthReached()+1 {
			return nil, errs.New(errs.ErrCodeInvalidFormat, "vertex %d: depth %d has no parent level (deepest is %d)", v.ID, v.Depth, s.MaxDepthReached())
		}
		s.InsertVertex(v.Depth - 1)
	}

	for i, e := range d.Edges {
		if e.ID != i {
			return nil, errs.New(errs.ErrCodeInvalidFormat, "edge %d: expected id %d", e.ID, i)
		}
		color, err := graph.ParseColor(e.Color)
		if err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "edge %d", e.ID)
		}
		a, b := graph.VertexID(e.VertexIDs[0]), graph.VertexID(e.VertexIDs[1])
		if _, err := s.InsertEdge(a, b, color); err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "edge %d", e.ID)
		}
	}

	for _, v := range d.Vertices {
		got := s.EdgeIDsOf(graph.VertexID(v.ID))
		want := make([]graph.EdgeID, len(v.EdgeIDs))
		for j, id := range v.EdgeIDs {
			want[j] = graph.EdgeID(id)
		}
		if !slices.Equal(got, want) {
			return nil, errs.New(errs.ErrCodeInvalidFormat, "vertex %d: edge ids %v do not match edges %v", v.ID, v.EdgeIDs, got)
		}
	}

	if err := s.Validate(); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "invalid graph")
	}
	if len(d.Vertices) > 0 && s.MaxDepthReached() != d.Depth {
		return nil, errs.New(errs.ErrCodeInvalidFormat, "depth %d does not match deepest vertex %d", d.Depth, s.MaxDepthReached())
	}
	return s, nil
}

// Marshal converts a store to indented JSON bytes.
func Marshal(s *graph.Store) ([]byte, error) {
	data, err := json.MarshalIndent(FromStore(s), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	return data, nil
}

// Unmarshal decodes JSON bytes into a Document without rebuilding a store.
func Unmarshal(data []byte) (Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Document{}, errs.Wrap(errs.ErrCodeInvalidFormat, err, "decode graph")
	}
	return doc, nil
}
