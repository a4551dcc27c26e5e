package graph

import "errors"

var (
	// ErrInvalidEdgeEndpoint is returned by [Store.Validate] when an edge
	// references a vertex that doesn't exist.
	ErrInvalidEdgeEndpoint = errors.New("invalid edge endpoint")

	// ErrNonDenseIDs is returned by [Store.Validate] when vertex or edge IDs
	// do not match their creation index.
	ErrNonDenseIDs = errors.New("ids must be dense and in creation order")

	// ErrDepthMismatch is returned by [Store.Validate] when an edge spans a
	// depth difference its color does not allow.
	ErrDepthMismatch = errors.New("edge spans wrong depth difference")

	// ErrInvalidLoop is returned by [Store.Validate] when a loop is not Green
	// or a Green edge is not a loop.
	ErrInvalidLoop = errors.New("only green edges may be loops")

	// ErrDuplicateEdge is returned by [Store.Validate] when two edges link
	// the same pair of distinct vertices.
	ErrDuplicateEdge = errors.New("duplicate edge between vertices")

	// ErrBrokenTree is returned by [Store.Validate] when the Gray edges do not
	// form a spanning tree rooted at vertex 0.
	ErrBrokenTree = errors.New("gray edges do not form a spanning tree")
)

// Validate checks the structural invariants of the graph:
//
//   - vertex and edge IDs are dense and follow creation order
//   - every edge references known vertices
//   - loops are Green and Green edges are loops
//   - every edge spans the depth difference of its color
//   - no two edges link the same pair of distinct vertices
//   - Gray edges form a spanning tree rooted at vertex 0 in which each
//     vertex hangs one level below its parent
//
// Validate is read-only and may run concurrently with readers.
func (s *Store) Validate() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.validateIDs(); err != nil {
		return err
	}
	if err := s.validateEdges(); err != nil {
		return err
	}
	return s.validateTree()
}

func (s *Store) validateIDs() error {
	for i, v := range s.vertices {
		if int(v.ID) != i {
			return ErrNonDenseIDs
		}
	}
	for i, e := range s.edges {
		if int(e.ID) != i {
			return ErrNonDenseIDs
		}
	}
	return nil
}

func (s *Store) validateEdges() error {
	type pair struct{ lo, hi VertexID }
	seen := make(map[pair]struct{}, len(s.edges))

	for _, e := range s.edges {
		if !s.hasVertex(e.A) || !s.hasVertex(e.B) {
			return ErrInvalidEdgeEndpoint
		}
		if e.IsLoop() != (e.Color == Green) {
			return ErrInvalidLoop
		}
		da, db := s.vertices[e.A].Depth, s.vertices[e.B].Depth
		if db-da != e.Color.DepthDelta() {
			return ErrDepthMismatch
		}
		if e.IsLoop() {
			continue
		}
		p := pair{min(e.A, e.B), max(e.A, e.B)}
		if _, dup := seen[p]; dup {
			return ErrDuplicateEdge
		}
		seen[p] = struct{}{}
	}
	return nil
}

func (s *Store) validateTree() error {
	if len(s.vertices) == 0 {
		return nil
	}
	if s.vertices[0].Depth != 0 || len(s.depths[0]) != 1 {
		return ErrBrokenTree
	}

	parents := make([]int, len(s.vertices))
	children := make([][]VertexID, len(s.vertices))
	for _, e := range s.edges {
		if e.Color != Gray {
			continue
		}
		parents[e.B]++
		children[e.A] = append(children[e.A], e.B)
	}
	if parents[0] != 0 {
		return ErrBrokenTree
	}
	for v := 1; v < len(parents); v++ {
		if parents[v] != 1 {
			return ErrBrokenTree
		}
	}

	const (
		white = iota
		gray
		black
	)

	color := make([]int, len(s.vertices))
	reached := 0
	var cyclic bool

	var dfs func(v VertexID)
	dfs = func(v VertexID) {
		color[v] = gray
		reached++
		for _, child := range children[v] {
			switch color[child] {
			case white:
				dfs(child)
			case gray:
				cyclic = true
				return
			}
		}
		color[v] = black
	}
	dfs(0)

	if cyclic || reached != len(s.vertices) {
		return ErrBrokenTree
	}
	return nil
}
