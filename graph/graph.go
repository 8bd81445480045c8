// Package graph implements the generic adjacency-list graph shared by
// aicore/pathfind and aicore/goap: parallel node/adjacency arrays addressed
// by a stable 0-based NodeIndex, with edges carrying a cost and an optional
// user-data payload.
package graph

import "fmt"

// NodeIndex addresses a node in a Graph. The original C++ source derived
// indices from pointer arithmetic over contiguous node storage; per spec
// §9 that implicit contiguity invariant is collapsed into this explicit
// handle type instead.
type NodeIndex uint32

// Edge is a directed connection from some node to Target, with a
// non-negative Cost and an optional, caller-defined payload of type E (use
// E = struct{} for the no-payload case, as aicore/pathfind does; GOAP
// parameterizes E with goap.Action[S]).
type Edge[E any] struct {
	Target NodeIndex
	Cost   float64
	Data   E
}

// Graph is a generic directed graph over parallel arrays: nodes[i] and
// adjacency[i] describe the same node at index i. len(nodes) always equals
// len(adjacency). Nodes are never relocated once added, so a NodeIndex
// remains valid for the lifetime of the Graph.
type Graph[N any, E any] struct {
	nodes     []N
	adjacency [][]Edge[E]
}

// New returns an empty Graph.
func New[N any, E any]() *Graph[N, E] {
	return &Graph[N, E]{}
}

// AddNode appends node and returns its stable index.
func (g *Graph[N, E]) AddNode(node N) NodeIndex {
	g.nodes = append(g.nodes, node)
	g.adjacency = append(g.adjacency, nil)
	return NodeIndex(len(g.nodes) - 1)
}

// AddEdge adds a directed edge from -> to with the given cost and payload.
// It panics if either index is out of range, matching the assert-class
// contract violations spec §7 describes for malformed graph use.
func (g *Graph[N, E]) AddEdge(from, to NodeIndex, cost float64, data E) {
	g.mustValidIndex(from)
	g.mustValidIndex(to)
	g.adjacency[from] = append(g.adjacency[from], Edge[E]{Target: to, Cost: cost, Data: data})
}

// Node returns the node stored at idx.
func (g *Graph[N, E]) Node(idx NodeIndex) N {
	g.mustValidIndex(idx)
	return g.nodes[idx]
}

// NumNodes returns the number of nodes currently in the graph.
func (g *Graph[N, E]) NumNodes() int {
	return len(g.nodes)
}

// Edges returns the outgoing edges of idx, in the order they were added.
// The returned slice must not be mutated by the caller.
func (g *Graph[N, E]) Edges(idx NodeIndex) []Edge[E] {
	g.mustValidIndex(idx)
	return g.adjacency[idx]
}

func (g *Graph[N, E]) mustValidIndex(idx NodeIndex) {
	if int(idx) >= len(g.nodes) {
		panic(fmt.Sprintf("graph: node index %d out of range (have %d nodes)", idx, len(g.nodes)))
	}
}
