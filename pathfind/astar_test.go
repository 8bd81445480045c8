package pathfind

import (
	"errors"
	"testing"

	aicore "github.com/go-kratos/aicore"
	"github.com/go-kratos/aicore/graph"
)

// buildLine builds a 5-node chain graph 0-1-2-3-4 with unit edge costs in
// both directions.
func buildLine(t *testing.T) (*graph.Graph[int, struct{}], []graph.NodeIndex) {
	t.Helper()
	g := graph.New[int, struct{}]()
	idx := make([]graph.NodeIndex, 5)
	for i := 0; i < 5; i++ {
		idx[i] = g.AddNode(i)
	}
	for i := 0; i < 4; i++ {
		g.AddEdge(idx[i], idx[i+1], 1, struct{}{})
		g.AddEdge(idx[i+1], idx[i], 1, struct{}{})
	}
	return g, idx
}

func intEqual(a, b int) bool { return a == b }

func TestFindPathSimpleChain(t *testing.T) {
	g, idx := buildLine(t)
	a := NewAStar[int, struct{}](g)

	path, err := a.FindPath(idx[0], 4, ZeroHeuristic[int], intEqual, nil)
	if err != nil {
		t.Fatalf("FindPath returned error: %v", err)
	}
	if len(path) != 5 {
		t.Fatalf("len(path) = %d, want 5", len(path))
	}
	for i, want := range idx {
		if path[i] != want {
			t.Fatalf("path[%d] = %v, want %v", i, path[i], want)
		}
	}
}

func TestFindPathNoPath(t *testing.T) {
	g := graph.New[int, struct{}]()
	a := g.AddNode(0)
	b := g.AddNode(1)
	_ = b
	gs := NewAStar[int, struct{}](g)

	path, err := gs.FindPath(a, 1, ZeroHeuristic[int], intEqual, nil)
	if err != nil {
		t.Fatalf("FindPath returned error: %v", err)
	}
	if path != nil {
		t.Fatalf("path = %v, want nil for unreachable goal", path)
	}
}

func TestFindPathPrefersCheaperRoute(t *testing.T) {
	g := graph.New[int, struct{}]()
	start := g.AddNode(0)
	mid := g.AddNode(1)
	alt := g.AddNode(2)
	goal := g.AddNode(3)

	// Expensive direct-ish route through mid (cost 10), cheap route
	// through alt (cost 2).
	g.AddEdge(start, mid, 5, struct{}{})
	g.AddEdge(mid, goal, 5, struct{}{})
	g.AddEdge(start, alt, 1, struct{}{})
	g.AddEdge(alt, goal, 1, struct{}{})

	a := NewAStar[int, struct{}](g)
	path, err := a.FindPath(start, 3, ZeroHeuristic[int], intEqual, nil)
	if err != nil {
		t.Fatalf("FindPath returned error: %v", err)
	}
	want := []graph.NodeIndex{start, alt, goal}
	if len(path) != len(want) {
		t.Fatalf("path = %v, want %v", path, want)
	}
	for i := range want {
		if path[i] != want[i] {
			t.Fatalf("path = %v, want %v", path, want)
		}
	}
}

func TestFindPathRecordsConnections(t *testing.T) {
	g, idx := buildLine(t)
	a := NewAStar[int, struct{}](g)

	var conns []Connection
	_, err := a.FindPath(idx[0], 2, ZeroHeuristic[int], intEqual, &conns)
	if err != nil {
		t.Fatalf("FindPath returned error: %v", err)
	}
	if len(conns) != 2 {
		t.Fatalf("len(conns) = %d, want 2", len(conns))
	}
	if conns[0].From != idx[0] || conns[1].From != idx[1] {
		t.Fatalf("unexpected connection sequence: %+v", conns)
	}
}

func TestFindPathRequiresComparator(t *testing.T) {
	g, idx := buildLine(t)
	a := NewAStar[int, struct{}](g)

	_, err := a.FindPath(idx[0], 4, ZeroHeuristic[int], nil, nil)
	if err == nil {
		t.Fatalf("expected error for nil comparator")
	}
	if !errors.Is(err, aicore.ErrInvalidArgument) {
		t.Fatalf("error %v does not wrap aicore.ErrInvalidArgument", err)
	}
}

func TestResizeGrowsBookkeeping(t *testing.T) {
	g := graph.New[int, struct{}]()
	a0 := g.AddNode(0)
	astr := NewAStar[int, struct{}](g)

	a1 := g.AddNode(1)
	g.AddEdge(a0, a1, 1, struct{}{})
	astr.Resize()

	path, err := astr.FindPath(a0, 1, ZeroHeuristic[int], intEqual, nil)
	if err != nil {
		t.Fatalf("FindPath returned error: %v", err)
	}
	if len(path) != 2 {
		t.Fatalf("len(path) = %d, want 2", len(path))
	}
}
