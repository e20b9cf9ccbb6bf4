// Package ga implements a parallel steady-state genetic algorithm over
// permutation genomes. It owns the population, the worker pool that
// produces and evaluates children, and per-slot elitist replacement; it is
// deliberately ignorant of what a genome represents or how CostFn computes
// a cost from one.
package ga

import (
	"fmt"
	"math"
	"math/rand"
	"sync"

	"github.com/hamk-uas/logistics-sim/perm"
)

// Mode selects how a generation's crossover partners are chosen.
type Mode int

const (
	// Explore pairs every slot with a partner drawn from a random
	// permutation of the population.
	Explore Mode = iota
	// Greedy pairs every slot with the current best proposal.
	Greedy
)

// Proposal is one candidate solution: a permutation genome and its cost.
type Proposal struct {
	Genome []int
	Cost   float64
}

// Population is a view of the optimiser's candidate set. Members is the
// optimiser's own slice, not a copy; callers must not modify it.
type Population struct {
	Members   []*Proposal
	BestIndex int
}

// CostFn evaluates a candidate genome. earlyOutThreshold is the cost of the
// proposal the candidate would replace; an evaluator may use it as a
// pruning bound and return +Inf without completing a full evaluation.
// worker identifies which static partition of the population is calling,
// letting the caller route the call to a worker-owned, reusable evaluator
// (e.g. a simulator instance) without ga needing to know its type.
type CostFn func(genome []int, earlyOutThreshold float64, worker int) float64

// workerState is the thread-local scratch data one worker owns for the
// lifetime of an Optimiser: an independent PRNG and a reusable
// presence buffer for crossover.
type workerState struct {
	rng     *rand.Rand
	present []bool
}

// Optimiser runs the genetic algorithm described in the package doc.
// Genome buffers in pop and next are never reallocated after New; the
// replacement pass exchanges pointers between the two slices rather than
// copying genome contents.
type Optimiser struct {
	numGenes int
	workers  int
	eval     CostFn
	mainRNG  *rand.Rand

	pop  []*Proposal
	next []*Proposal
	best int

	wstate []*workerState
}

// New constructs an Optimiser with a freshly randomised population of size
// popSize, split evenly across workers. seedGenome, if non-empty, replaces
// proposal 0's genome after shuffling. All initial costs are evaluated on
// worker 0, sequentially, so the result depends only on baseSeed.
func New(numGenes, popSize, workers int, baseSeed int64, evalFn CostFn, seedGenome []int) (*Optimiser, error) {
	if numGenes <= 0 {
		return nil, fmt.Errorf("ga: numGenes must be positive, got %d", numGenes)
	}
	if workers <= 0 {
		return nil, fmt.Errorf("ga: workers must be positive, got %d", workers)
	}
	if popSize <= 0 || popSize%workers != 0 {
		return nil, fmt.Errorf("ga: popSize %d must be a positive multiple of workers %d", popSize, workers)
	}
	if evalFn == nil {
		return nil, fmt.Errorf("ga: evalFn must not be nil")
	}
	if len(seedGenome) != 0 && len(seedGenome) != numGenes {
		return nil, fmt.Errorf("ga: seedGenome length %d, want %d", len(seedGenome), numGenes)
	}

	o := &Optimiser{
		numGenes: numGenes,
		workers:  workers,
		eval:     evalFn,
		mainRNG:  rand.New(rand.NewSource(baseSeed)),
	}

	o.pop = make([]*Proposal, popSize)
	o.next = make([]*Proposal, popSize)
	for i := range o.pop {
		g := make([]int, numGenes)
		for k := range g {
			g[k] = k
		}
		o.mainRNG.Shuffle(numGenes, func(a, b int) { g[a], g[b] = g[b], g[a] })
		o.pop[i] = &Proposal{Genome: g}
		o.next[i] = &Proposal{Genome: make([]int, numGenes)}
	}
	if len(seedGenome) != 0 {
		copy(o.pop[0].Genome, seedGenome)
	}

	o.wstate = make([]*workerState, workers)
	for w := range o.wstate {
		o.wstate[w] = &workerState{
			rng:     rand.New(rand.NewSource(baseSeed + 1 + int64(w))),
			present: make([]bool, numGenes),
		}
	}

	for _, p := range o.pop {
		p.Cost = evalFn(p.Genome, math.Inf(1), 0)
	}
	o.recomputeBest()

	return o, nil
}

// Best returns the best proposal seen so far. The returned Genome shares
// the population's buffer, so a later Optimise call may overwrite it.
func (o *Optimiser) Best() Proposal {
	return Proposal{Genome: o.pop[o.best].Genome, Cost: o.pop[o.best].Cost}
}

// View returns the current population. Its Members slice is updated in
// place by later Optimise calls.
func (o *Optimiser) View() Population {
	return Population{Members: o.pop, BestIndex: o.best}
}

// Optimise advances the population by the given number of generations and
// returns cost statistics over the resulting population. generations == 0
// is a no-op on population content.
func (o *Optimiser) Optimise(generations int, mode Mode) Stats {
	P := len(o.pop)
	slice := P / o.workers

	for gen := 0; gen < generations; gen++ {
		var partner []int
		if mode == Explore {
			partner = make([]int, P)
			for i := range partner {
				partner[i] = i
			}
			o.mainRNG.Shuffle(P, func(a, b int) { partner[a], partner[b] = partner[b], partner[a] })
		}

		var wg sync.WaitGroup
		wg.Add(o.workers)
		for w := 0; w < o.workers; w++ {
			w := w
			start := w * slice
			end := start + slice
			go func() {
				defer wg.Done()
				o.produceChildren(start, end, w, mode, partner)
			}()
		}
		wg.Wait()

		for j := 0; j < P; j++ {
			if o.next[j].Cost < o.pop[j].Cost {
				o.pop[j], o.next[j] = o.next[j], o.pop[j]
			}
		}
		o.recomputeBest()
	}

	var stats Stats
	for _, p := range o.pop {
		stats = stats.Insert(p.Cost)
	}
	return stats
}

// produceChildren runs crossover and evaluation for slots [start,end),
// using the PRNG and presence buffer owned by worker w. It writes only
// o.next[j] for j in its range; other slots of o.pop are only read (as
// mates), and o.pop itself is never mutated, so workers require no
// synchronisation with each other.
func (o *Optimiser) produceChildren(start, end, w int, mode Mode, partner []int) {
	ws := o.wstate[w]
	for j := start; j < end; j++ {
		parent := o.pop[j]
		var mate *Proposal
		if mode == Explore {
			mate = o.pop[partner[j]]
		} else {
			mate = o.pop[o.best]
		}

		child := o.next[j]
		perm.OrderXVariant(child.Genome, parent.Genome, mate.Genome, ws.rng, ws.present)

		if genomeEqual(child.Genome, parent.Genome) {
			child.Cost = math.Inf(1)
			continue
		}
		child.Cost = o.eval(child.Genome, parent.Cost, w)
	}
}

func (o *Optimiser) recomputeBest() {
	best := 0
	for i := 1; i < len(o.pop); i++ {
		if o.pop[i].Cost < o.pop[best].Cost {
			best = i
		}
	}
	o.best = best
}

func genomeEqual(a, b []int) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// PopulationSize computes the standard population size rule:
// max(100, 4*numGenes), rounded up to a multiple of workers.
func PopulationSize(numGenes, workers int) int {
	size := 4 * numGenes
	if size < 100 {
		size = 100
	}
	if rem := size % workers; rem != 0 {
		size += workers - rem
	}
	return size
}
