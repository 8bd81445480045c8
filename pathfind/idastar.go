package pathfind

import (
	"fmt"
	"math"

	aicore "github.com/go-kratos/aicore"
	"github.com/go-kratos/aicore/graph"
)

// IDAStar implements Iterative Deepening A*: a depth-limited search rerun
// with an increasing f-cost threshold each iteration. It needs only
// O(maxDepth) memory, trading repeated node expansion for the O(n)
// preallocated cache AStar requires, which makes it the better fit for
// search spaces too large to bookkeep per node.
type IDAStar[N any, E any] struct {
	g *graph.Graph[N, E]
}

// NewIDAStar returns an IDAStar bound to g.
func NewIDAStar[N any, E any](g *graph.Graph[N, E]) *IDAStar[N, E] {
	return &IDAStar[N, E]{g: g}
}

// candidate is one outgoing edge awaiting expansion at some depth, ordered
// worst-heuristic-first so that popping from the back of the slice always
// yields the best remaining child (a cheap way to get best-first behavior
// out of a plain slice-as-stack).
type candidate struct {
	ordinal int
	target  graph.NodeIndex
	cost    float64
}

// FindPath searches for a shortest path from start to a node satisfying
// equal(node, goal), never expanding beyond maxDepth edges, guided by
// heuristic. maxDepth must be >= 0; a negative maxDepth is a contract
// violation and panics. maxDepth == 0 returns an empty path immediately
// without evaluating heuristic at all.
func (s *IDAStar[N, E]) FindPath(
	start graph.NodeIndex,
	goal N,
	heuristic Heuristic[N],
	equal Comparator[N],
	maxDepth int,
	connections *[]Connection,
) ([]graph.NodeIndex, error) {
	if maxDepth < 0 {
		panic(fmt.Sprintf("pathfind: IDAStar.FindPath maxDepth must be >= 0, got %d", maxDepth))
	}
	if equal == nil {
		return nil, fmt.Errorf("pathfind: IDAStar.FindPath requires a non-nil Comparator: %w", aicore.ErrInvalidArgument)
	}
	if int(start) >= s.g.NumNodes() {
		return nil, fmt.Errorf("pathfind: start index %d out of range: %w", start, aicore.ErrInvalidArgument)
	}
	if maxDepth == 0 {
		if connections != nil {
			*connections = nil
		}
		return nil, nil
	}
	if heuristic == nil {
		heuristic = ZeroHeuristic[N]
	}

	nodeStack := make([]graph.NodeIndex, maxDepth)
	edgeOrdinalStack := make([]int, maxDepth)
	childrenStack := make([][]candidate, maxDepth)
	costStack := make([]float64, maxDepth)

	push := func(depth int, node graph.NodeIndex, ordinal int, cost float64) {
		nodeStack[depth] = node
		costStack[depth] = cost
		if depth > 0 {
			edgeOrdinalStack[depth] = ordinal
		}

		edges := s.g.Edges(node)
		children := make([]candidate, len(edges))
		for i, e := range edges {
			children[i] = candidate{ordinal: i, target: e.Target, cost: e.Cost}
		}
		// Sort worst-heuristic-first: pop from the back to visit the
		// best candidate first, without needing a deque.
		sortCandidatesWorstFirst(children, goal, heuristic, s.g)
		childrenStack[depth] = children
	}

	nextEstimate := heuristic(s.g.Node(start), goal)

	for {
		estimate := nextEstimate
		nextEstimate = math.Inf(1)
		depth := 0
		push(0, start, -1, 0)

		for depth >= 0 {
			remaining := childrenStack[depth]
			if len(remaining) == 0 {
				depth--
				continue
			}

			best := remaining[len(remaining)-1]
			childrenStack[depth] = remaining[:len(remaining)-1]

			gCost := costStack[depth] + best.cost
			h := heuristic(s.g.Node(best.target), goal)
			f := gCost + h

			if f > estimate {
				nextEstimate = math.Min(nextEstimate, f)
				continue
			}

			if equal(s.g.Node(best.target), goal) {
				return s.buildPath(nodeStack, edgeOrdinalStack, depth, best, connections), nil
			}

			if depth+1 < maxDepth {
				depth++
				push(depth, best.target, best.ordinal, gCost)
			}
		}

		if math.IsInf(nextEstimate, 1) {
			return nil, nil
		}
	}
}

func (s *IDAStar[N, E]) buildPath(
	nodeStack []graph.NodeIndex,
	edgeOrdinalStack []int,
	parentDepth int,
	final candidate,
	connections *[]Connection,
) []graph.NodeIndex {
	path := append([]graph.NodeIndex(nil), nodeStack[:parentDepth+1]...)
	path = append(path, final.target)

	if connections != nil {
		conns := make([]Connection, 0, parentDepth+1)
		for d := 1; d <= parentDepth; d++ {
			conns = append(conns, Connection{From: nodeStack[d-1], EdgeOrdinal: edgeOrdinalStack[d]})
		}
		conns = append(conns, Connection{From: nodeStack[parentDepth], EdgeOrdinal: final.ordinal})
		*connections = conns
	}
	return path
}

// sortCandidatesWorstFirst orders children by descending heuristic value
// of their target node, so the best (lowest-heuristic) candidate ends up
// last and can be popped from the back in O(1).
func sortCandidatesWorstFirst[N any, E any](children []candidate, goal N, heuristic Heuristic[N], g *graph.Graph[N, E]) {
	// Small fan-out in practice; insertion sort avoids pulling in
	// sort.Slice's reflection-based comparator for what's usually a
	// handful of elements.
	for i := 1; i < len(children); i++ {
		cv := children[i]
		ch := heuristic(g.Node(cv.target), goal)
		j := i - 1
		for j >= 0 && heuristic(g.Node(children[j].target), goal) < ch {
			children[j+1] = children[j]
			j--
		}
		children[j+1] = cv
	}
}
