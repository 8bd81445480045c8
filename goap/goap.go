// Package goap implements Goal-Oriented Action Planning: a set of Actions
// is expanded forward from a start state into a graph.Graph whose nodes
// are world states and whose edges are the actions that connect them, to
// be handed to aicore/pathfind for a shortest-cost plan.
package goap

import (
	"fmt"

	"github.com/google/uuid"

	aicore "github.com/go-kratos/aicore"
	"github.com/go-kratos/aicore/graph"
)

// Action is one operator available to the planner over a world state of
// type S. S must be comparable so visited states can be memoized by value.
type Action[S comparable] interface {
	// IsPreconditionFulfilled reports whether this action can be applied
	// to state.
	IsPreconditionFulfilled(state S) bool
	// ApplyPostcondition returns the state that results from applying
	// this action to state. It must not mutate state in place.
	ApplyPostcondition(state S) S
	// Cost returns this action's cost when applied to state.
	Cost(state S) float64
}

// Planner builds a state-space graph of reachable world states by forward-
// expanding a fixed set of Actions from a start state, pruning states
// already reached at an equal or lower cumulative cost.
type Planner[S comparable] struct {
	actions []Action[S]
	err     error
}

// NewPlanner returns an empty Planner.
func NewPlanner[S comparable]() *Planner[S] {
	return &Planner[S]{}
}

// AddAction registers action with the planner and returns the planner for
// chaining. A nil action sticks an error that surfaces from the next
// BuildGraph call, following the same sticky-builder-error idiom used
// elsewhere in this module.
func (p *Planner[S]) AddAction(action Action[S]) *Planner[S] {
	if action == nil {
		p.err = fmt.Errorf("goap: AddAction called with a nil Action: %w", aicore.ErrInvalidArgument)
		return p
	}
	p.actions = append(p.actions, action)
	return p
}

// Plan is the result of BuildGraph: the expanded state graph, the index of
// the start node within it, and an ID correlating this build for
// host-side logging/tracing.
type Plan[S comparable] struct {
	Graph *graph.Graph[S, Action[S]]
	Start graph.NodeIndex
	ID    uuid.UUID
}

// BuildGraph forward-expands every registered action from startState into
// a graph suitable for aicore/pathfind. Expansion recurses only while the
// current depth is below maxDepth, so the graph holds states up to
// maxDepth+1 action applications from startState (maxDepth 0 adds only
// startState's direct successors). A world state already reached at an equal or lower
// cumulative cost is not re-expanded, bounding the search even when
// actions can cycle back to earlier states.
func (p *Planner[S]) BuildGraph(startState S, maxDepth int) (Plan[S], error) {
	if p.err != nil {
		return Plan[S]{}, p.err
	}
	if maxDepth < 0 {
		return Plan[S]{}, fmt.Errorf("goap: BuildGraph maxDepth must be >= 0, got %d: %w", maxDepth, aicore.ErrInvalidArgument)
	}

	g := graph.New[S, Action[S]]()
	start := g.AddNode(startState)

	b := &builder[S]{
		planner:  p,
		graph:    g,
		maxDepth: maxDepth,
		bestCost: make(map[S]float64),
	}
	b.bestCost[startState] = 0
	b.expand(start, startState, 0, 0)

	return Plan[S]{Graph: g, Start: start, ID: uuid.New()}, nil
}

// builder carries the mutable state of a single BuildGraph call: the
// graph under construction and the memoization table of the lowest
// cumulative cost each distinct world state has been reached at.
type builder[S comparable] struct {
	planner  *Planner[S]
	graph    *graph.Graph[S, Action[S]]
	maxDepth int
	bestCost map[S]float64
}

func (b *builder[S]) expand(currentIdx graph.NodeIndex, currentState S, currentCost float64, currentDepth int) {
	for _, action := range b.planner.actions {
		if !action.IsPreconditionFulfilled(currentState) {
			continue
		}

		cost := action.Cost(currentState)
		nextState := action.ApplyPostcondition(currentState)
		nextCost := currentCost + cost
		nextIdx := b.graph.AddNode(nextState)
		b.graph.AddEdge(currentIdx, nextIdx, cost, action)

		if best, seen := b.bestCost[nextState]; seen {
			if nextCost < best {
				b.bestCost[nextState] = nextCost
			} else {
				// This state has already been reached at an equal or lower
				// cumulative cost; expanding it again can't improve the
				// plan, so this branch is pruned.
				continue
			}
		} else {
			b.bestCost[nextState] = nextCost
		}

		if currentDepth < b.maxDepth {
			b.expand(nextIdx, nextState, nextCost, currentDepth+1)
		}
	}
}
