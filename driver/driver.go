// Package driver wires the problem model, genetic optimiser, and logistics
// simulator together into a single Solve call, and owns the worker pool of
// per-worker simulators that ga.Optimiser's CostFn dispatches into.
package driver

import (
	"context"
	"fmt"
	"math"
	"runtime"

	"github.com/hamk-uas/logistics-sim/ga"
	"github.com/hamk-uas/logistics-sim/model"
	"github.com/hamk-uas/logistics-sim/sim"
)

// SiteInput, LocationInput, and VehicleInput are the structured values the
// driver's caller supplies; translating them from an on-disk encoding is
// out of scope here (it lives in cmd/routeopt).
type SiteInput struct {
	Capacity   float64
	Level      float64
	GrowthRate float64
	LocationID int
}

type LocationInput struct {
	LocationID int
}

type VehicleInput struct {
	LoadCapacity    float64
	HomeDepotIndex  int
	MaxRouteMinutes int
}

// ProblemInput is the full set of structured inputs to one routing run.
type ProblemInput struct {
	Sites          []SiteInput
	Depots         []LocationInput
	Terminals      []LocationInput
	Vehicles       []VehicleInput
	DistanceMatrix [][]float64
	DurationMatrix [][]float64
}

// RunOptions tunes one optimisation run.
type RunOptions struct {
	Seed               int64
	Workers            int
	ExploreGenerations int
	GreedyGenerations  int
	SampleEvery        int
	Progress           func(generation int, bestCost float64)
}

// Result is the decoded outcome of a run: the winning genome's routes and
// its cost.
type Result struct {
	Routes [][][]int // Routes[day][vehicle] -> ordered location ids
	Cost   float64
}

func toModel(in ProblemInput) ([]model.Site, []model.Depot, []model.Terminal, []model.Vehicle) {
	sites := make([]model.Site, len(in.Sites))
	for i, s := range in.Sites {
		sites[i] = model.Site{
			Capacity:     s.Capacity,
			InitialLevel: s.Level,
			GrowthRate:   s.GrowthRate,
			LocationID:   s.LocationID,
		}
	}
	depots := make([]model.Depot, len(in.Depots))
	for i, d := range in.Depots {
		depots[i] = model.Depot{LocationID: d.LocationID}
	}
	terminals := make([]model.Terminal, len(in.Terminals))
	for i, term := range in.Terminals {
		terminals[i] = model.Terminal{LocationID: term.LocationID}
	}
	vehicles := make([]model.Vehicle, len(in.Vehicles))
	for i, v := range in.Vehicles {
		vehicles[i] = model.Vehicle{
			LoadCapacity:    v.LoadCapacity,
			HomeDepotIndex:  v.HomeDepotIndex,
			MaxShiftMinutes: v.MaxRouteMinutes,
		}
	}
	return sites, depots, terminals, vehicles
}

// Solve builds a Problem from in, runs the explore and then the greedy
// phase of the genetic optimiser for opt's configured generation counts,
// and decodes the winning genome into routes. Progress, if set, is called
// every opt.SampleEvery generations with the running best cost. ctx is
// checked between sampling chunks; once it is cancelled, Solve stops
// optimising and returns whatever best proposal has been found so far.
func Solve(ctx context.Context, in ProblemInput, opt RunOptions) (Result, error) {
	sites, depots, terminals, vehicles := toModel(in)
	problem, err := model.New(sites, depots, terminals, vehicles, in.DistanceMatrix, in.DurationMatrix)
	if err != nil {
		return Result{}, fmt.Errorf("driver: build problem: %w", err)
	}

	workers := opt.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	popSize := ga.PopulationSize(problem.NumGenes, workers)

	simulators := make([]*sim.Simulator, workers)
	for w := range simulators {
		simulators[w] = sim.NewSimulator(problem)
	}

	evalFn := func(genome []int, earlyOutThreshold float64, worker int) float64 {
		return simulators[worker].Cost(genome, earlyOutThreshold)
	}

	opti, err := ga.New(problem.NumGenes, popSize, workers, opt.Seed, evalFn, nil)
	if err != nil {
		return Result{}, fmt.Errorf("driver: construct optimiser: %w", err)
	}

	sampleEvery := opt.SampleEvery
	if sampleEvery <= 0 {
		sampleEvery = 1
	}

	runPhase := func(generations int, mode ga.Mode, generationOffset int) (int, error) {
		done := 0
		for done < generations {
			if err := ctx.Err(); err != nil {
				return done, err
			}
			step := sampleEvery
			if done+step > generations {
				step = generations - done
			}
			opti.Optimise(step, mode)
			done += step
			if opt.Progress != nil {
				opt.Progress(generationOffset+done, opti.Best().Cost)
			}
		}
		return done, nil
	}

	exploreDone, err := runPhase(opt.ExploreGenerations, ga.Explore, 0)
	if err != nil && err != context.Canceled {
		return Result{}, fmt.Errorf("driver: explore phase: %w", err)
	}
	if err == nil {
		_, err = runPhase(opt.GreedyGenerations, ga.Greedy, exploreDone)
		if err != nil && err != context.Canceled {
			return Result{}, fmt.Errorf("driver: greedy phase: %w", err)
		}
	}

	best := opti.Best()
	routes := sim.DecodeRoutes(best.Genome, problem)
	cost := best.Cost
	if math.IsInf(cost, 1) {
		cost = simulators[0].Cost(best.Genome, math.Inf(1))
	}

	return Result{Routes: routes, Cost: cost}, nil
}
