package graph

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	errs "github.com/matzehuels/graphgen/pkg/errors"
)

func TestInsertVertex(t *testing.T) {
	s := New()

	root := s.InsertVertex(7) // parent depth is ignored for the root
	if root != 0 {
		t.Fatalf("root id = %d, want 0", root)
	}
	if v, _ := s.Vertex(root); v.Depth != 0 {
		t.Errorf("root depth = %d, want 0", v.Depth)
	}

	v1 := s.InsertVertex(0)
	v2 := s.InsertVertex(1)
	if v1 != 1 || v2 != 2 {
		t.Errorf("ids = %d,%d, want 1,2", v1, v2)
	}
	if v, _ := s.Vertex(v2); v.Depth != 2 {
		t.Errorf("depth = %d, want 2", v.Depth)
	}
	if got := s.MaxDepthReached(); got != 2 {
		t.Errorf("MaxDepthReached() = %d, want 2", got)
	}
}

func TestInsertVertexNegativeParentDepthPanics(t *testing.T) {
	s := New()
	s.InsertVertex(0)
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic")
		}
		err, ok := r.(error)
		if !ok || !errs.Is(err, errs.ErrCodeInvalidOperation) {
			t.Errorf("panic value = %v, want INVALID_OPERATION error", r)
		}
	}()
	s.InsertVertex(-1)
}

func TestInsertVertexBeyondDeepestLevelPanics(t *testing.T) {
	s := New()
	s.InsertVertex(0)
	s.InsertVertex(0)
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic")
		}
		err, ok := r.(error)
		if !ok || !errs.Is(err, errs.ErrCodeInvalidOperation) {
			t.Errorf("panic value = %v, want INVALID_OPERATION error", r)
		}
		if got := s.MaxDepthReached(); got != 1 {
			t.Errorf("MaxDepthReached() = %d, want 1", got)
		}
	}()
	s.InsertVertex(200_000_000)
}

func TestInsertEdge(t *testing.T) {
	tests := []struct {
		name    string
		a, b    VertexID
		color   Color
		wantErr error
	}{
		{name: "NewPair", a: 1, b: 2, color: Blue},
		{name: "Loop", a: 1, b: 1, color: Green},
		{name: "AlreadyConnected", a: 0, b: 1, color: Yellow, wantErr: ErrAlreadyConnected},
		{name: "AlreadyConnectedReversed", a: 1, b: 0, color: Blue, wantErr: ErrAlreadyConnected},
		{name: "UnknownA", a: 9, b: 1, color: Blue, wantErr: ErrUnknownVertex},
		{name: "UnknownB", a: 1, b: -1, color: Blue, wantErr: ErrUnknownVertex},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New()
			root := s.InsertVertex(0)
			_, _, _ = s.InsertChild(root)
			_, _, _ = s.InsertChild(root)
			before := s.EdgeCount()

			_, err := s.InsertEdge(tt.a, tt.b, tt.color)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				if !errs.Is(err, errs.ErrCodeInvalidOperation) {
					t.Errorf("code = %q, want %q", errs.GetCode(err), errs.ErrCodeInvalidOperation)
				}
				if s.EdgeCount() != before {
					t.Errorf("failed insert changed edge count")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !s.AreConnected(tt.a, tt.b) || !s.AreConnected(tt.b, tt.a) {
				t.Errorf("AreConnected(%d,%d) = false after insert", tt.a, tt.b)
			}
		})
	}
}

func TestLoopDoesNotBlockLoops(t *testing.T) {
	s := New()
	root := s.InsertVertex(0)
	if _, err := s.InsertEdge(root, root, Green); err != nil {
		t.Fatal(err)
	}
	if _, err := s.InsertEdge(root, root, Green); err != nil {
		t.Fatalf("loops are exempt from the duplicate rule: %v", err)
	}
	if got := len(s.EdgeIDsOf(root)); got != 2 {
		t.Errorf("incident edges = %d, want 2", got)
	}
}

func TestInsertChild(t *testing.T) {
	s := New()
	root := s.InsertVertex(0)

	child, edge, err := s.InsertChild(root)
	if err != nil {
		t.Fatal(err)
	}
	v, ok := s.Vertex(child)
	if !ok || v.Depth != 1 {
		t.Fatalf("child = %+v, %v", v, ok)
	}
	e, ok := s.Edge(edge)
	if !ok {
		t.Fatal("edge missing")
	}
	want := Edge{ID: edge, A: root, B: child, Color: Gray}
	if e != want {
		t.Errorf("edge = %+v, want %+v", e, want)
	}

	if _, _, err := s.InsertChild(42); !errors.Is(err, ErrUnknownVertex) {
		t.Errorf("unknown parent: err = %v", err)
	}
	if s.VertexCount() != 2 {
		t.Errorf("failed InsertChild created a vertex")
	}
}

func TestVerticesAtDepth(t *testing.T) {
	s := New()
	root := s.InsertVertex(0)
	a, _, _ := s.InsertChild(root)
	b, _, _ := s.InsertChild(root)
	c, _, _ := s.InsertChild(a)

	tests := []struct {
		depth int
		want  []VertexID
	}{
		{0, []VertexID{root}},
		{1, []VertexID{a, b}},
		{2, []VertexID{c}},
		{3, nil},
		{-1, nil},
	}
	for _, tt := range tests {
		got := s.VerticesAtDepth(tt.depth)
		if len(got) != len(tt.want) {
			t.Errorf("VerticesAtDepth(%d) = %v, want %v", tt.depth, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("VerticesAtDepth(%d) = %v, want %v", tt.depth, got, tt.want)
				break
			}
		}
	}

	// Returned slices are copies.
	level := s.VerticesAtDepth(1)
	level[0] = 99
	if s.VerticesAtDepth(1)[0] != a {
		t.Error("VerticesAtDepth exposed internal state")
	}
}

func TestEdgeIDsOf(t *testing.T) {
	s := New()
	root := s.InsertVertex(0)
	a, e0, _ := s.InsertChild(root)
	b, e1, _ := s.InsertChild(root)
	e2, _ := s.InsertEdge(a, b, Blue)
	e3, _ := s.InsertEdge(a, a, Green)

	got := s.EdgeIDsOf(a)
	want := []EdgeID{e0, e2, e3}
	require.Equal(t, want, got)
	require.Equal(t, []EdgeID{e0, e1}, s.EdgeIDsOf(root))
	require.Nil(t, s.EdgeIDsOf(100))
}

func TestColorAndDepthCounts(t *testing.T) {
	s := New()
	root := s.InsertVertex(0)
	a, _, _ := s.InsertChild(root)
	b, _, _ := s.InsertChild(root)
	c, _, _ := s.InsertChild(a)
	_, _ = s.InsertEdge(a, b, Blue)
	_, _ = s.InsertEdge(b, b, Green)
	_, _ = s.InsertEdge(root, c, Red)

	counts := s.ColorCounts()
	require.Equal(t, map[Color]int{Gray: 3, Green: 1, Blue: 1, Yellow: 0, Red: 1}, counts)
	require.Equal(t, []int{1, 2, 1}, s.DepthCounts())
}

func TestEmptyStore(t *testing.T) {
	s := New()
	require.Equal(t, 0, s.VertexCount())
	require.Equal(t, 0, s.MaxDepthReached())
	require.Empty(t, s.Vertices())
	require.Empty(t, s.Edges())
	require.NoError(t, s.Validate())
	_, ok := s.Vertex(0)
	require.False(t, ok)
	_, ok = s.Edge(0)
	require.False(t, ok)
}

func TestConcurrentInsertChild(t *testing.T) {
	s := New()
	root := s.InsertVertex(0)

	const goroutines = 16
	const perGoroutine = 200

	var wg sync.WaitGroup
	wg.Add(goroutines)
	for g := 0; g < goroutines; g++ {
		go func() {
			defer wg.Done()
			parent := root
			for i := 0; i < perGoroutine; i++ {
				child, _, err := s.InsertChild(parent)
				require.NoError(t, err)
				// Alternate between deepening and fanning out.
				if i%3 == 0 {
					parent = child
				}
				_ = s.AreConnected(parent, child)
				_ = s.VerticesAtDepth(i % 5)
			}
		}()
	}
	wg.Wait()

	require.Equal(t, 1+goroutines*perGoroutine, s.VertexCount())
	require.Equal(t, goroutines*perGoroutine, s.EdgeCount())
	require.NoError(t, s.Validate())
}

func TestConcurrentInsertEdgeSamePair(t *testing.T) {
	s := New()
	root := s.InsertVertex(0)
	a, _, _ := s.InsertChild(root)
	b, _, _ := s.InsertChild(root)

	const goroutines = 32
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)
	wg.Add(goroutines)
	for g := 0; g < goroutines; g++ {
		go func() {
			defer wg.Done()
			if _, err := s.InsertEdge(a, b, Blue); err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
			} else {
				require.ErrorIs(t, err, ErrAlreadyConnected)
			}
		}()
	}
	wg.Wait()

	require.Equal(t, 1, successes)
	require.NoError(t, s.Validate())
}
