package graph

import (
	"fmt"
	"slices"
	"sync"

	errs "github.com/matzehuels/graphgen/pkg/errors"
)

var (
	// ErrUnknownVertex is returned by [Store.InsertEdge] and [Store.InsertChild]
	// when an endpoint is not a vertex of the store.
	ErrUnknownVertex = errs.New(errs.ErrCodeInvalidOperation, "unknown vertex")

	// ErrAlreadyConnected is returned by [Store.InsertEdge] when two distinct
	// vertices already share an edge. Self-loops are exempt.
	ErrAlreadyConnected = errs.New(errs.ErrCodeInvalidOperation, "vertices already connected")
)

// VertexID identifies a vertex. IDs are dense, start at 0 and follow
// creation order.
type VertexID int

// EdgeID identifies an edge. IDs are dense, start at 0 and follow
// creation order.
type EdgeID int

// Vertex is a node of the generated graph. Depth is the number of Gray edges
// between the vertex and the root, fixed when the vertex is created.
type Vertex struct {
	ID    VertexID
	Depth int
}

// Edge is an undirected connection between A and B. For a Gray edge A is
// the parent and B the child; for the other colors A is the shallower end.
// Edges are immutable once inserted.
type Edge struct {
	ID    EdgeID
	A     VertexID
	B     VertexID
	Color Color
}

// IsLoop reports whether the edge starts and ends at the same vertex.
func (e Edge) IsLoop() bool { return e.A == e.B }

// Other returns the endpoint opposite to v. For a loop it returns v.
func (e Edge) Other(v VertexID) VertexID {
	if e.A == v {
		return e.B
	}
	return e.A
}

// Store is the shared graph built during a generation run. It owns the
// vertices, the edges, the per-vertex adjacency and the depth index.
//
// Store is safe for concurrent use. Every mutation runs under one exclusive
// lock for its whole duration, so concurrent callers never observe a
// partially inserted vertex or edge. Reads take a shared lock and return
// copies that stay valid after later inserts.
//
// The zero value is not usable - use New.
type Store struct {
	mu sync.RWMutex

	vertices  []Vertex
	edges     []Edge
	incident  [][]EdgeID              // vertex -> incident edge IDs, insertion order
	neighbors []map[VertexID]struct{} // vertex -> adjacent vertices
	depths    [][]VertexID            // depth -> vertex IDs, creation order
}

// New creates an empty store.
func New() *Store {
	return &Store{}
}

// InsertVertex adds a vertex one level below parentDepth and returns its ID.
// The very first vertex is the root and always gets depth 0, whatever
// parentDepth says. The vertex is appended to its depth level.
//
// InsertVertex panics if parentDepth is negative or names a level that holds
// no vertex yet: a parent must exist before its child.
func (s *Store) InsertVertex(parentDepth int) VertexID {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.vertices) == 0 {
		return s.insertVertexLocked(0)
	}
	if parentDepth < 0 {
		panic(errs.New(errs.ErrCodeInvalidOperation, "negative parent depth %d", parentDepth))
	}
	if parentDepth >= len(s.depths) {
		panic(errs.New(errs.ErrCodeInvalidOperation, "parent depth %d beyond deepest level %d", parentDepth, len(s.depths)-1))
	}
	return s.insertVertexLocked(parentDepth + 1)
}

// InsertEdge connects a and b with an edge of the given color and returns
// its ID. It fails with an INVALID_OPERATION error wrapping ErrUnknownVertex
// if either endpoint is unknown, or ErrAlreadyConnected if a != b and the
// pair is already connected. A loop (a == b) records its adjacency once.
func (s *Store) InsertEdge(a, b VertexID, color Color) (EdgeID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insertEdgeLocked(a, b, color)
}

// InsertChild creates a vertex one level below parent together with the Gray
// edge linking them, as one atomic step. Tree growth uses it so that no
// reader ever sees a vertex without its parent edge.
func (s *Store) InsertChild(parent VertexID) (VertexID, EdgeID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.hasVertex(parent) {
		return 0, 0, fmt.Errorf("parent %d: %w", parent, ErrUnknownVertex)
	}
	child := s.insertVertexLocked(s.vertices[parent].Depth + 1)
	edge, err := s.insertEdgeLocked(parent, child, Gray)
	if err != nil {
		return 0, 0, err
	}
	return child, edge, nil
}

func (s *Store) insertVertexLocked(depth int) VertexID {
	id := VertexID(len(s.vertices))
	s.vertices = append(s.vertices, Vertex{ID: id, Depth: depth})
	s.incident = append(s.incident, nil)
	s.neighbors = append(s.neighbors, make(map[VertexID]struct{}))
	for len(s.depths) <= depth {
		s.depths = append(s.depths, nil)
	}
	s.depths[depth] = append(s.depths[depth], id)
	return id
}

func (s *Store) insertEdgeLocked(a, b VertexID, color Color) (EdgeID, error) {
	if !s.hasVertex(a) {
		return 0, fmt.Errorf("edge %d-%d: endpoint %d: %w", a, b, a, ErrUnknownVertex)
	}
	if !s.hasVertex(b) {
		return 0, fmt.Errorf("edge %d-%d: endpoint %d: %w", a, b, b, ErrUnknownVertex)
	}
	if a != b {
		if _, ok := s.neighbors[a][b]; ok {
			return 0, fmt.Errorf("edge %d-%d (%s): %w", a, b, color, ErrAlreadyConnected)
		}
	}

	id := EdgeID(len(s.edges))
	s.edges = append(s.edges, Edge{ID: id, A: a, B: b, Color: color})
	s.incident[a] = append(s.incident[a], id)
	s.neighbors[a][b] = struct{}{}
	if a != b {
		s.incident[b] = append(s.incident[b], id)
		s.neighbors[b][a] = struct{}{}
	}
	return id, nil
}

func (s *Store) hasVertex(v VertexID) bool {
	return v >= 0 && int(v) < len(s.vertices)
}

// AreConnected reports whether any edge, of any color, links a and b.
// For a == b it reports whether the vertex carries a loop.
// Unknown vertices are never connected.
func (s *Store) AreConnected(a, b VertexID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.hasVertex(a) || !s.hasVertex(b) {
		return false
	}
	_, ok := s.neighbors[a][b]
	return ok
}

// VerticesAtDepth returns the IDs of the vertices at depth d in creation
// order. It returns nil when d is negative or beyond the deepest level.
func (s *Store) VerticesAtDepth(d int) []VertexID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if d < 0 || d >= len(s.depths) {
		return nil
	}
	return slices.Clone(s.depths[d])
}

// MaxDepthReached returns the highest depth holding at least one vertex,
// or 0 for an empty store.
func (s *Store) MaxDepthReached() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.depths) == 0 {
		return 0
	}
	return len(s.depths) - 1
}

// Vertex returns the vertex with the given ID and true, or false if unknown.
func (s *Store) Vertex(id VertexID) (Vertex, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.hasVertex(id) {
		return Vertex{}, false
	}
	return s.vertices[id], true
}

// Edge returns the edge with the given ID and true, or false if unknown.
func (s *Store) Edge(id EdgeID) (Edge, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if id < 0 || int(id) >= len(s.edges) {
		return Edge{}, false
	}
	return s.edges[id], true
}

// Vertices returns a copy of all vertices ordered by ID.
func (s *Store) Vertices() []Vertex {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.vertices)
}

// Edges returns a copy of all edges ordered by ID.
func (s *Store) Edges() []Edge {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.edges)
}

// EdgeIDsOf returns the IDs of the edges incident to v in insertion order.
// A loop appears once. Returns nil for an unknown vertex.
func (s *Store) EdgeIDsOf(v VertexID) []EdgeID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.hasVertex(v) {
		return nil
	}
	return slices.Clone(s.incident[v])
}

// VertexCount returns the number of vertices.
func (s *Store) VertexCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.vertices)
}

// EdgeCount returns the number of edges.
func (s *Store) EdgeCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.edges)
}

// ColorCounts returns the number of edges of each color. Every color is
// present in the map, with zero for families that produced no edges.
func (s *Store) ColorCounts() map[Color]int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	counts := make(map[Color]int, len(Colors))
	for _, c := range Colors {
		counts[c] = 0
	}
	for _, e := range s.edges {
		counts[e.Color]++
	}
	return counts
}

// DepthCounts returns the number of vertices at each depth, indexed by depth.
func (s *Store) DepthCounts() []int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	counts := make([]int, len(s.depths))
	for d, ids := range s.depths {
		counts[d] = len(ids)
	}
	return counts
}
