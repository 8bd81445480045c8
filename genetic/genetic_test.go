package genetic

import (
	"context"
	"testing"
)

// cyclicRand is a deterministic aicore.Rand that returns values from a fixed
// cycle, enough to exercise crossover/mutation index selection without a
// real PRNG.
type cyclicRand struct {
	seq []int
	i   int
}

func (r *cyclicRand) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	v := r.seq[r.i%len(r.seq)] % n
	r.i++
	return v
}

func targetFitness(v int) float64 {
	target := 50
	d := v - target
	if d < 0 {
		d = -d
	}
	return float64(d)
}

func averageCrossover(a, b int) int { return (a + b) / 2 }

func incrementMutation(v int) int { return v + 1 }

func indexGenerator(i uint32) int { return int(i) * 10 }

type recordingGenListener struct {
	generations []uint32
	fitnesses   []float64
}

func (l *recordingGenListener) OnGeneration(generation uint32, bestFitness float64) {
	l.generations = append(l.generations, generation)
	l.fitnesses = append(l.fitnesses, bestFitness)
}

func TestGeneratePopulationUsesGeneratorByIndex(t *testing.T) {
	g := New[int](targetFitness, averageCrossover, incrementMutation, indexGenerator, 4, &cyclicRand{seq: []int{0}})
	g.GeneratePopulation()

	want := []int{0, 10, 20, 30}
	for i, v := range want {
		if g.Population()[i] != v {
			t.Fatalf("population[%d]=%d, want %d", i, g.Population()[i], v)
		}
	}
}

func TestOptimiseSortsBestFitnessFirst(t *testing.T) {
	g := New[int](targetFitness, averageCrossover, incrementMutation, indexGenerator, 4, &cyclicRand{seq: []int{0, 1}})
	g.GeneratePopulation()

	best, err := g.Optimise(context.Background(), 1, 0.5, 0, 0)
	if err != nil {
		t.Fatalf("Optimise: %v", err)
	}

	if targetFitness(best) > targetFitness(g.Population()[len(g.Population())-1]) {
		t.Fatalf("best individual %d is not at least as fit as the worst", best)
	}
	for i := 1; i < len(g.Population()); i++ {
		if targetFitness(g.Population()[i-1]) > targetFitness(g.Population()[i]) {
			t.Fatalf("population not sorted by ascending fitness at index %d", i)
		}
	}
}

func TestOptimiseNotifiesListenerEveryGeneration(t *testing.T) {
	g := New[int](targetFitness, averageCrossover, incrementMutation, indexGenerator, 4, &cyclicRand{seq: []int{0, 1, 2}})
	g.GeneratePopulation()
	listener := &recordingGenListener{}
	g.SetListener(listener)

	if _, err := g.Optimise(context.Background(), 3, 0.25, 0.25, 0.25); err != nil {
		t.Fatalf("Optimise: %v", err)
	}

	if len(listener.generations) != 3 {
		t.Fatalf("got %d generation notifications, want 3", len(listener.generations))
	}
	for i, gen := range listener.generations {
		if gen != uint32(i+1) {
			t.Fatalf("generations[%d]=%d, want %d", i, gen, i+1)
		}
	}
}

func TestOptimiseSkipsVariationWhenFullyElite(t *testing.T) {
	g := New[int](targetFitness, averageCrossover, incrementMutation, indexGenerator, 3, &cyclicRand{seq: []int{0}})
	g.GeneratePopulation()
	before := append([]int(nil), g.Population()...)

	if _, err := g.Optimise(context.Background(), 2, 1.0, 1.0, 1.0); err != nil {
		t.Fatalf("Optimise: %v", err)
	}

	after := g.Population()
	sortedBefore := append([]int(nil), before...)
	for i := range sortedBefore {
		for j := i + 1; j < len(sortedBefore); j++ {
			if targetFitness(sortedBefore[j]) < targetFitness(sortedBefore[i]) {
				sortedBefore[i], sortedBefore[j] = sortedBefore[j], sortedBefore[i]
			}
		}
	}
	for i := range after {
		if after[i] != sortedBefore[i] {
			t.Fatalf("population mutated despite full elitism: got %v, want %v", after, sortedBefore)
		}
	}
}

func TestOptimiseRespectsCancelledContext(t *testing.T) {
	g := New[int](targetFitness, averageCrossover, incrementMutation, indexGenerator, 4, &cyclicRand{seq: []int{0}})
	g.GeneratePopulation()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := g.Optimise(ctx, 5, 0.5, 0, 0); err == nil {
		t.Fatalf("expected an error from an already-cancelled context")
	}
}

func TestOptimiseOnEmptyPopulationReturnsZeroValue(t *testing.T) {
	g := New[int](targetFitness, averageCrossover, incrementMutation, indexGenerator, 0, &cyclicRand{seq: []int{0}})

	best, err := g.Optimise(context.Background(), 3, 0.5, 0.5, 0.5)
	if err != nil {
		t.Fatalf("Optimise: %v", err)
	}
	if best != 0 {
		t.Fatalf("best=%d, want zero value for an empty population", best)
	}
}

func TestConcurrentFitnessMatchesSequentialResult(t *testing.T) {
	seq := New[int](targetFitness, averageCrossover, incrementMutation, indexGenerator, 5, &cyclicRand{seq: []int{0, 1, 2}})
	seq.GeneratePopulation()
	seqBest, err := seq.Optimise(context.Background(), 2, 0.2, 0.2, 0.2)
	if err != nil {
		t.Fatalf("sequential Optimise: %v", err)
	}

	conc := New[int](targetFitness, averageCrossover, incrementMutation, indexGenerator, 5, &cyclicRand{seq: []int{0, 1, 2}}, WithConcurrentFitness[int](true))
	conc.GeneratePopulation()
	concBest, err := conc.Optimise(context.Background(), 2, 0.2, 0.2, 0.2)
	if err != nil {
		t.Fatalf("concurrent Optimise: %v", err)
	}

	if targetFitness(seqBest) != targetFitness(concBest) {
		t.Fatalf("sequential best fitness %v != concurrent best fitness %v", targetFitness(seqBest), targetFitness(concBest))
	}
}
