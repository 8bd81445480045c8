// Package genetic implements a generational genetic algorithm: elitism,
// crossover and mutation over a user-supplied representation, with
// problem-specific fitness, crossover, mutation and generator functions
// supplied by the caller.
package genetic

import (
	"context"
	"sort"

	aicore "github.com/go-kratos/aicore"
	"golang.org/x/sync/errgroup"
)

// FitnessFunction scores a candidate; lower is better (minimization),
// matching the original's "sort best to worst" ascending convention.
type FitnessFunction[T any] func(v T) float64

// CrossoverFunction combines two parents into a new candidate.
type CrossoverFunction[T any] func(a, b T) T

// MutationFunction perturbs a single candidate.
type MutationFunction[T any] func(v T) T

// GeneratorFunction produces the i'th initial population member.
type GeneratorFunction[T any] func(i uint32) T

// Listener receives progress notifications at the end of every generation.
type Listener interface {
	OnGeneration(generation uint32, bestFitness float64)
}

// Genetic runs a fixed-size generational GA over population type T.
type Genetic[T any] struct {
	fitness   FitnessFunction[T]
	crossover CrossoverFunction[T]
	mutation  MutationFunction[T]
	generator GeneratorFunction[T]

	population []T
	fitnesses  []float64

	listener Listener
	rand     aicore.Rand

	concurrentFitness bool
}

// Option configures a Genetic at construction.
type Option[T any] func(*Genetic[T])

// WithConcurrentFitness evaluates each generation's fitness values across
// goroutines via an errgroup instead of sequentially. The core's scheduler
// and planner stay single-threaded (spec'd no locks/atomics); this option
// opts a single, self-contained evaluation step into bounded concurrency
// when fitness itself is the bottleneck and has no shared mutable state.
func WithConcurrentFitness[T any](enabled bool) Option[T] {
	return func(g *Genetic[T]) { g.concurrentFitness = enabled }
}

// New constructs a Genetic with a population of populationSize, all members
// initially zero-valued until GeneratePopulation is called.
func New[T any](
	fitness FitnessFunction[T],
	crossover CrossoverFunction[T],
	mutation MutationFunction[T],
	generator GeneratorFunction[T],
	populationSize uint32,
	r aicore.Rand,
	opts ...Option[T],
) *Genetic[T] {
	g := &Genetic[T]{
		fitness:    fitness,
		crossover:  crossover,
		mutation:   mutation,
		generator:  generator,
		population: make([]T, populationSize),
		fitnesses:  make([]float64, populationSize),
		rand:       r,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// SetListener installs l as the receiver of per-generation progress.
func (g *Genetic[T]) SetListener(l Listener) {
	g.listener = l
}

// Population returns the current population, in whatever order the last
// Optimise call (if any) left it sorted.
func (g *Genetic[T]) Population() []T {
	return g.population
}

// GeneratePopulation (re)fills every member from the generator function,
// indexed by position.
func (g *Genetic[T]) GeneratePopulation() {
	for i := range g.population {
		g.population[i] = g.generator(uint32(i))
	}
}

// Optimise runs numGenerations of selection, crossover and mutation and
// returns the fittest individual found. pElitism, pCrossover and pMutation
// are fractions of the population (0..1): pElitism individuals are never
// touched by crossover or mutation; pCrossover and pMutation, times the
// population size, give the number of crossover/mutation operations to
// apply per generation, each targeting a random non-elite individual.
//
// ctx is checked once per generation so a caller can bound a long run; it is
// not consulted mid-generation, matching the uninterruptible single step
// the scheduler's cooperative model expects of callers driving this outside
// a Task.
func (g *Genetic[T]) Optimise(ctx context.Context, numGenerations uint32, pElitism, pCrossover, pMutation float64) (T, error) {
	var zero T
	if len(g.population) == 0 {
		return zero, nil
	}
	for gen := uint32(0); gen < numGenerations; gen++ {
		if err := ctx.Err(); err != nil {
			return g.population[0], err
		}
		if err := g.evaluateFitness(); err != nil {
			return zero, err
		}
		g.sortByFitness()

		if g.listener != nil {
			g.listener.OnGeneration(gen+1, g.fitnesses[0])
		}

		numElitists := uint32(pElitism * float64(len(g.population)))
		if numElitists >= uint32(len(g.population)) {
			continue // every individual is elite: nothing left to vary
		}

		numCrossovers := int(pCrossover * float64(len(g.population)))
		for i := 0; i < numCrossovers; i++ {
			first := g.randRange(numElitists, uint32(len(g.population)))
			second := first
			for second == first {
				second = g.randRange(numElitists, uint32(len(g.population)))
			}
			g.population[first] = g.crossover(g.population[first], g.population[second])
		}

		numMutations := int(pMutation * float64(len(g.population)))
		for i := 0; i < numMutations; i++ {
			idx := g.randRange(numElitists, uint32(len(g.population)))
			g.population[idx] = g.mutation(g.population[idx])
		}
	}
	if err := g.evaluateFitness(); err != nil {
		return zero, err
	}
	g.sortByFitness()
	return g.population[0], nil
}

func (g *Genetic[T]) evaluateFitness() error {
	if !g.concurrentFitness {
		for i, member := range g.population {
			g.fitnesses[i] = g.fitness(member)
		}
		return nil
	}
	var eg errgroup.Group
	for i := range g.population {
		i := i
		eg.Go(func() error {
			g.fitnesses[i] = g.fitness(g.population[i])
			return nil
		})
	}
	return eg.Wait()
}

func (g *Genetic[T]) sortByFitness() {
	idx := make([]int, len(g.population))
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool { return g.fitnesses[idx[a]] < g.fitnesses[idx[b]] })

	population := make([]T, len(g.population))
	fitnesses := make([]float64, len(g.fitnesses))
	for newPos, oldPos := range idx {
		population[newPos] = g.population[oldPos]
		fitnesses[newPos] = g.fitnesses[oldPos]
	}
	g.population = population
	g.fitnesses = fitnesses
}

func (g *Genetic[T]) randRange(low, high uint32) uint32 {
	return low + uint32(g.rand.Intn(int(high-low)))
}
