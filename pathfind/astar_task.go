package pathfind

import (
	aicore "github.com/go-kratos/aicore"
	"github.com/go-kratos/aicore/graph"
)

// DefaultStepsPerRun is the number of node expansions an AStarTask performs
// per call to Run before yielding back to its scheduler, matching the
// original's STEPS_PER_RUN default.
const DefaultStepsPerRun = 500

// AStarTask is a cooperative aicore.Task that runs a single A* search,
// time-sliced across StepsPerRun expansions per Run call so a long search
// never blocks a scheduler tick. It embeds aicore.TaskBase for status/
// listener/runtime bookkeeping and reuses AStar's preallocated node cache.
type AStarTask[N any, E any] struct {
	aicore.TaskBase

	astar       *AStar[N, E]
	open        *openList
	start       graph.NodeIndex
	goal        N
	heuristic   Heuristic[N]
	equal       Comparator[N]
	connections *[]Connection
	listener    AStarListener[N]

	// StepsPerRun bounds expansions performed per call to Run. Zero means
	// DefaultStepsPerRun.
	StepsPerRun uint32
}

// AStarListener receives the outcome of an AStarTask once its search
// completes, successfully or not.
type AStarListener[N any] interface {
	OnResult(path []graph.NodeIndex, connections []Connection)
}

// NewAStarTask constructs an AStarTask bound to astar, searching from start
// for a node satisfying equal(node, goal). heuristic may be nil (defaults
// to ZeroHeuristic). connections, if non-nil, is populated with the edge
// sequence of the found path when the task completes.
func NewAStarTask[N any, E any](
	astar *AStar[N, E],
	listener AStarListener[N],
	start graph.NodeIndex,
	goal N,
	heuristic Heuristic[N],
	equal Comparator[N],
	connections *[]Connection,
) *AStarTask[N, E] {
	if heuristic == nil {
		heuristic = ZeroHeuristic[N]
	}
	t := &AStarTask[N, E]{
		astar:       astar,
		start:       start,
		goal:        goal,
		heuristic:   heuristic,
		equal:       equal,
		connections: connections,
		listener:    listener,
	}
	t.Init(t)
	t.open = astar.initSearch(start, goal, heuristic)
	return t
}

// Run performs up to StepsPerRun expansions and yields. It terminates the
// task and notifies the listener once a path is found or the open list is
// exhausted; otherwise it leaves Status() as Running so the scheduler
// re-enqueues it for another slice.
func (t *AStarTask[N, E]) Run() {
	if t.listener == nil {
		t.SetStatus(aicore.StatusTerminated)
		return
	}

	limit := t.StepsPerRun
	if limit == 0 {
		limit = DefaultStepsPerRun
	}

	var steps uint32
	for steps < limit {
		found, result, done := t.astar.step(t.open, t.goal, t.heuristic, t.equal)
		if found {
			path := t.astar.buildPath(result, t.start, t.connections)
			t.SetStatus(aicore.StatusTerminated)
			var conns []Connection
			if t.connections != nil {
				conns = *t.connections
			}
			t.listener.OnResult(path, conns)
			return
		}
		if done {
			t.SetStatus(aicore.StatusTerminated)
			t.listener.OnResult(nil, nil)
			return
		}
		steps++
	}
}
