// Package pathfind implements graph search over an aicore/graph.Graph: a
// preallocated-bookkeeping A* for repeated searches over a fixed-size
// graph, a cooperative A* Task that time-slices a single search across
// scheduler runs, and an IDA* for searches where preallocating O(n)
// bookkeeping is not practical.
package pathfind

import (
	"container/heap"
	"fmt"

	aicore "github.com/go-kratos/aicore"
	"github.com/go-kratos/aicore/graph"
)

// Heuristic estimates the remaining cost from node to goal. It must never
// overestimate the true remaining cost for the search to guarantee an
// optimal path (admissibility).
type Heuristic[N any] func(node, goal N) float64

// Comparator reports whether a node counts as the goal. There is no
// default: graph nodes need not be comparable with ==, so FindPath and
// IDAStar.FindPath reject a nil Comparator with aicore.ErrInvalidArgument.
type Comparator[N any] func(node, goal N) bool

// ZeroHeuristic always returns 0, degrading A* into an exhaustive
// uniform-cost (Dijkstra) search. Useful when no admissible estimate is
// available for a given node type.
func ZeroHeuristic[N any](node, goal N) float64 { return 0 }

// nodeState tracks an astarNode's membership in the open/closed sets.
type nodeState uint8

const (
	stateUnvisited nodeState = iota
	stateClosed
	stateOpen
)

// astarNode is the preallocated bookkeeping record for a single graph node
// across one search. It is reset in place at the start of every FindPath
// call rather than reallocated, which is the entire point of AStar over
// IDAStar: O(n) memory traded for no per-search allocation of visited
// state.
type astarNode struct {
	estimatedTotalCost float64
	currentCost        float64
	parent             graph.NodeIndex
	hasParent          bool
	connection         int
	state              nodeState
	heapIndex          int
}

// AStar runs repeated searches over a single fixed-size Graph, reusing one
// slice of bookkeeping across calls to FindPath.
type AStar[N any, E any] struct {
	g    *graph.Graph[N, E]
	info []astarNode
}

// NewAStar returns an AStar bound to g. g's node count must not grow after
// construction; call Resize if it does.
func NewAStar[N any, E any](g *graph.Graph[N, E]) *AStar[N, E] {
	return &AStar[N, E]{
		g:    g,
		info: make([]astarNode, g.NumNodes()),
	}
}

// Resize grows the bookkeeping cache to match the graph's current node
// count. Call this after adding nodes to a graph an AStar is already bound
// to.
func (a *AStar[N, E]) Resize() {
	if n := a.g.NumNodes(); n > len(a.info) {
		grown := make([]astarNode, n)
		copy(grown, a.info)
		a.info = grown
	}
}

// Connection records one edge taken along a found path, identified by the
// index of the node it departs from and the ordinal of the outgoing edge
// at that node.
type Connection struct {
	From        graph.NodeIndex
	EdgeOrdinal int
}

// FindPath searches for a shortest path from start to a node satisfying
// equal(node, goal), guided by heuristic. It returns the sequence of node
// indices from start to goal inclusive, or an empty (nil) path if none
// exists. If connections is non-nil, it is filled with the edges taken, in
// start-to-goal order.
func (a *AStar[N, E]) FindPath(
	start graph.NodeIndex,
	goal N,
	heuristic Heuristic[N],
	equal Comparator[N],
	connections *[]Connection,
) ([]graph.NodeIndex, error) {
	if heuristic == nil {
		heuristic = ZeroHeuristic[N]
	}
	if equal == nil {
		return nil, fmt.Errorf("pathfind: FindPath requires a non-nil Comparator: %w", aicore.ErrInvalidArgument)
	}
	if int(start) >= a.g.NumNodes() {
		return nil, fmt.Errorf("pathfind: start index %d out of range: %w", start, aicore.ErrInvalidArgument)
	}

	open := a.initSearch(start, goal, heuristic)

	for {
		found, result, done := a.step(open, goal, heuristic, equal)
		if found {
			return a.buildPath(result, start, connections), nil
		}
		if done {
			return nil, nil
		}
	}
}

// initSearch resets the bookkeeping cache and seeds the open list with
// start, ready for repeated calls to step. Shared by FindPath's run-to-
// completion loop and AStarTask's time-sliced one.
func (a *AStar[N, E]) initSearch(start graph.NodeIndex, goal N, heuristic Heuristic[N]) *openList {
	a.Resize()
	for i := range a.info {
		a.info[i] = astarNode{}
	}

	open := &openList{}
	heap.Init(open)

	startInfo := &a.info[start]
	startInfo.estimatedTotalCost = heuristic(a.g.Node(start), goal)
	startInfo.state = stateOpen
	heap.Push(open, heapEntry{idx: start, info: startInfo})
	return open
}

// step pops and expands a single node from open. found reports that the
// popped node satisfies equal(node, goal), in which case result holds its
// index and buildPath can be called. done reports that the open list is
// exhausted with no solution; once done is true the search must not be
// stepped again.
func (a *AStar[N, E]) step(open *openList, goal N, heuristic Heuristic[N], equal Comparator[N]) (found bool, result graph.NodeIndex, done bool) {
	for open.Len() > 0 {
		top := heap.Pop(open).(heapEntry)
		lowest := top.idx
		lowestInfo := top.info

		if lowestInfo.state == stateClosed {
			// Stale entry: this node was re-pushed after a cost
			// improvement and the old entry is still in the heap.
			continue
		}

		if equal(a.g.Node(lowest), goal) {
			return true, lowest, false
		}

		lowestInfo.state = stateClosed
		a.expand(lowest, lowestInfo, goal, heuristic, open)
		return false, 0, false
	}
	return false, 0, true
}

func (a *AStar[N, E]) expand(idx graph.NodeIndex, info *astarNode, goal N, heuristic Heuristic[N], open *openList) {
	edges := a.g.Edges(idx)
	for ord, e := range edges {
		targetCost := info.currentCost + e.Cost
		target := &a.info[e.Target]

		switch target.state {
		case stateUnvisited:
			h := heuristic(a.g.Node(e.Target), goal)
			target.estimatedTotalCost = targetCost + h
			target.state = stateOpen
			target.parent = idx
			target.hasParent = true
			target.connection = ord
			target.currentCost = targetCost
			heap.Push(open, heapEntry{idx: e.Target, info: target})
		default:
			if target.currentCost <= targetCost {
				continue
			}
			h := target.estimatedTotalCost - target.currentCost
			target.estimatedTotalCost = targetCost + h
			target.parent = idx
			target.hasParent = true
			target.connection = ord
			target.currentCost = targetCost
			if target.state != stateOpen {
				target.state = stateOpen
				heap.Push(open, heapEntry{idx: e.Target, info: target})
			} else {
				heap.Fix(open, target.heapIndex)
			}
		}
	}
}

func (a *AStar[N, E]) buildPath(goal, start graph.NodeIndex, connections *[]Connection) []graph.NodeIndex {
	var path []graph.NodeIndex
	var conns []Connection

	current := goal
	for current != start {
		path = append(path, current)
		info := &a.info[current]
		if connections != nil {
			conns = append(conns, Connection{From: info.parent, EdgeOrdinal: info.connection})
		}
		current = info.parent
	}
	path = append(path, start)

	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	if connections != nil {
		for i, j := 0, len(conns)-1; i < j; i, j = i+1, j-1 {
			conns[i], conns[j] = conns[j], conns[i]
		}
		*connections = conns
	}
	return path
}

// heapEntry is the container/heap element: a node index paired with its
// bookkeeping record, so the heap never needs to re-look-up info by index.
type heapEntry struct {
	idx  graph.NodeIndex
	info *astarNode
}

// openList is a binary min-heap over estimatedTotalCost, implementing
// container/heap.Interface. The original used std::priority_queue with a
// greater-than comparator to get min-ordering; container/heap instead
// takes Less directly, so no inversion is needed here.
type openList []heapEntry

func (o openList) Len() int { return len(o) }
func (o openList) Less(i, j int) bool {
	return o[i].info.estimatedTotalCost < o[j].info.estimatedTotalCost
}
func (o openList) Swap(i, j int) {
	o[i], o[j] = o[j], o[i]
	o[i].info.heapIndex = i
	o[j].info.heapIndex = j
}
func (o *openList) Push(x any) {
	e := x.(heapEntry)
	e.info.heapIndex = len(*o)
	*o = append(*o, e)
}
func (o *openList) Pop() any {
	old := *o
	n := len(old)
	e := old[n-1]
	*o = old[:n-1]
	return e
}
