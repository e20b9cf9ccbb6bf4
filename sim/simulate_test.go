package sim_test

import (
	"math"
	"testing"

	"github.com/hamk-uas/logistics-sim/model"
	"github.com/hamk-uas/logistics-sim/sim"
)

// TestCostTrivialConvergence checks a single vehicle, single site, single
// depot at distance 10 with a level well within capacity.
// Visiting the site once, on day 0, costs exactly the fuel of one round
// trip, nothing else.
func TestCostTrivialConvergence(t *testing.T) {
	sites := []model.Site{{Capacity: 1000, InitialLevel: 1, GrowthRate: 0, LocationID: 1}}
	depots := []model.Depot{{LocationID: 0}}
	vehicles := []model.Vehicle{{LoadCapacity: 1000, HomeDepotIndex: 0, MaxShiftMinutes: 10000}}
	dist := [][]float64{{0, 10}, {10, 0}}
	dur := [][]float64{{0, 1}, {1, 0}}
	p, err := model.New(sites, depots, nil, vehicles, dist, dur)
	if err != nil {
		t.Fatalf("model.New: %v", err)
	}

	// 14 break markers, 1 site gene with max_visits == 1: genome length 15.
	// The identity genome visits the site on day 0 (gene 0, then the first
	// break marker) and leaves every later day empty.
	if p.NumSiteGenes != 1 {
		t.Fatalf("test fixture assumption broken: NumSiteGenes = %d, want 1", p.NumSiteGenes)
	}
	genome := make([]int, p.NumGenes)
	for i := range genome {
		genome[i] = i
	}

	s := sim.NewSimulator(p)
	cost := s.Cost(genome, math.Inf(1))

	// Only day 0 visits the site (genome exhausts after one break marker);
	// remaining days are empty routes. Round trip distance is 20.
	wantFuel := 20.0 * (50.0 / 100000.0 * 2.0)
	if math.Abs(cost-wantFuel) > 1e-9 {
		t.Fatalf("cost = %v, want %v", cost, wantFuel)
	}
}

// TestCostEarlyOutReturnsInf covers the early-out contract: a threshold
// below the lower-bound cost of decoding must short-circuit before any
// simulation happens.
func TestCostEarlyOutReturnsInf(t *testing.T) {
	sites := []model.Site{{Capacity: 1000, InitialLevel: 1, GrowthRate: 0, LocationID: 1}}
	depots := []model.Depot{{LocationID: 0}}
	vehicles := []model.Vehicle{{LoadCapacity: 1000, HomeDepotIndex: 0, MaxShiftMinutes: 10000}}
	dist := [][]float64{{0, 10000}, {10000, 0}}
	dur := [][]float64{{0, 1}, {1, 0}}
	p, err := model.New(sites, depots, nil, vehicles, dist, dur)
	if err != nil {
		t.Fatalf("model.New: %v", err)
	}
	genome := make([]int, p.NumGenes)
	for i := range genome {
		genome[i] = i
	}

	s := sim.NewSimulator(p)
	cost := s.Cost(genome, 0)
	if !math.IsInf(cost, 1) {
		t.Fatalf("cost = %v, want +Inf", cost)
	}
}

// TestOverloadCounting checks that totalOverloadDays equals the number of
// (day, site) pairs whose post-growth level exceeds capacity, for a site
// that is never visited.
func TestOverloadCounting(t *testing.T) {
	// growth_rate is per simulated minute: 1/144 per minute times the 1440
	// minutes in a day grows the level by exactly 10 per day.
	sites := []model.Site{{Capacity: 100, InitialLevel: 0, GrowthRate: 1.0 / 144.0, LocationID: 1}}
	depots := []model.Depot{{LocationID: 0}}
	vehicles := []model.Vehicle{{LoadCapacity: 5, HomeDepotIndex: 0, MaxShiftMinutes: 10}}
	dist := [][]float64{{0, 1}, {1, 0}}
	dur := [][]float64{{0, 1}, {1, 0}}
	p, err := model.New(sites, depots, nil, vehicles, dist, dur)
	if err != nil {
		t.Fatalf("model.New: %v", err)
	}

	// Build a genome whose single vehicle never reaches the site: all
	// break markers first (one consumed per day slot), all site genes
	// last, so no day's slot ever decodes a site gene.
	genome := make([]int, 0, p.NumGenes)
	for g := p.NumSiteGenes; g < p.NumGenes; g++ {
		genome = append(genome, g)
	}
	for g := 0; g < p.NumSiteGenes; g++ {
		genome = append(genome, g)
	}

	s := sim.NewSimulator(p)
	cost := s.Cost(genome, math.Inf(1))

	// level grows 10/day, capacity 100: exceeds capacity (>100) starting
	// day 10 (level = 110) through day 13: 4 overload days.
	level := 0.0
	wantOverloadDays := 0
	for day := 0; day < p.HorizonDays; day++ {
		level += 10
		if level > 100 {
			wantOverloadDays++
		}
	}

	wantCost := float64(wantOverloadDays) * 50.0
	if math.Abs(cost-wantCost) > 1e-6 {
		t.Fatalf("cost = %v, want %v (overload days = %d)", cost, wantCost, wantOverloadDays)
	}
}

// TestPickupCapsAtVehicleCapacity covers the §4.4.2 load-transfer rule: a
// site holding more than remaining capacity only yields enough to fill the
// vehicle, and leaves the remainder on site. The vehicle takes 30 of the
// 50 on day 0; the 20 left exceeds the site's capacity of 15, so every one
// of the 14 days counts as an overload day.
func TestPickupCapsAtVehicleCapacity(t *testing.T) {
	sites := []model.Site{{Capacity: 15, InitialLevel: 50, GrowthRate: 0, LocationID: 1}}
	depots := []model.Depot{{LocationID: 0}}
	vehicles := []model.Vehicle{{LoadCapacity: 30, HomeDepotIndex: 0, MaxShiftMinutes: 10000}}
	dist := [][]float64{{0, 1}, {1, 0}}
	dur := [][]float64{{0, 1}, {1, 0}}
	p, err := model.New(sites, depots, nil, vehicles, dist, dur)
	if err != nil {
		t.Fatalf("model.New: %v", err)
	}
	genome := make([]int, p.NumGenes)
	for i := range genome {
		genome[i] = i
	}

	s := sim.NewSimulator(p)
	cost := s.Cost(genome, math.Inf(1))
	if cost <= 0 {
		t.Fatalf("expected a positive fuel cost for a round trip, got %v", cost)
	}
	wantCost := 2.0*(50.0/100000.0*2.0) + 14*50.0
	if math.Abs(cost-wantCost) > 1e-9 {
		t.Fatalf("cost = %v, want %v (20 left on a site of capacity 15 for 14 days)", cost, wantCost)
	}
}
