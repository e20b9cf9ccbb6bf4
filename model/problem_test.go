package model_test

import (
	"testing"

	"github.com/hamk-uas/logistics-sim/model"
)

func trivialInputs() ([]model.Site, []model.Depot, []model.Terminal, []model.Vehicle, [][]float64, [][]float64) {
	sites := []model.Site{{Capacity: 10, InitialLevel: 5, GrowthRate: 0, LocationID: 1}}
	depots := []model.Depot{{LocationID: 0}}
	vehicles := []model.Vehicle{{LoadCapacity: 10, HomeDepotIndex: 0, MaxShiftMinutes: 1000}}
	dist := [][]float64{{0, 10}, {10, 0}}
	dur := [][]float64{{0, 10}, {10, 0}}
	return sites, depots, nil, vehicles, dist, dur
}

// TestNewTrivial checks that a single depot, single site, single vehicle
// instance constructs cleanly.
func TestNewTrivial(t *testing.T) {
	sites, depots, terminals, vehicles, dist, dur := trivialInputs()
	p, err := model.New(sites, depots, terminals, vehicles, dist, dur)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.NumSiteGenes == 0 {
		t.Fatalf("expected at least one site gene")
	}
	if p.NumBreakGenes != model.HorizonDays*len(vehicles) {
		t.Fatalf("NumBreakGenes = %d, want %d", p.NumBreakGenes, model.HorizonDays*len(vehicles))
	}
	if p.NumGenes != p.NumSiteGenes+p.NumBreakGenes {
		t.Fatalf("NumGenes mismatch")
	}
	if len(p.GeneToSite) != p.NumSiteGenes {
		t.Fatalf("GeneToSite length mismatch")
	}
}

// TestNewEmptyFleetRejected checks that construction fails when there are
// no vehicles.
func TestNewEmptyFleetRejected(t *testing.T) {
	sites, depots, terminals, _, dist, dur := trivialInputs()
	_, err := model.New(sites, depots, terminals, nil, dist, dur)
	if err == nil {
		t.Fatalf("expected error for empty fleet")
	}
}

func TestNewEmptySitesRejected(t *testing.T) {
	_, depots, terminals, vehicles, dist, dur := trivialInputs()
	_, err := model.New(nil, depots, terminals, vehicles, dist, dur)
	if err == nil {
		t.Fatalf("expected error for empty sites")
	}
}

func TestNewMismatchedMatrixRejected(t *testing.T) {
	sites, depots, terminals, vehicles, _, _ := trivialInputs()
	dist := [][]float64{{0, 1}, {1, 0}}
	dur := [][]float64{{0, 1, 2}, {1, 0, 2}, {2, 1, 0}}
	_, err := model.New(sites, depots, terminals, vehicles, dist, dur)
	if err == nil {
		t.Fatalf("expected error for mismatched matrix dimensions")
	}
}

func TestNewInvalidShiftRejected(t *testing.T) {
	sites, depots, terminals, _, dist, dur := trivialInputs()
	vehicles := []model.Vehicle{{LoadCapacity: 10, HomeDepotIndex: 0, MaxShiftMinutes: 0}}
	_, err := model.New(sites, depots, terminals, vehicles, dist, dur)
	if err == nil {
		t.Fatalf("expected error for non-positive max shift")
	}
}

// TestMaxVisitsUnavoidableOverload checks that a site whose growth over the
// horizon vastly outstrips capacity still gets a finite, usable max-visits
// bound.
func TestMaxVisitsUnavoidableOverload(t *testing.T) {
	sites := []model.Site{{Capacity: 10, InitialLevel: 0, GrowthRate: 10, LocationID: 1}}
	depots := []model.Depot{{LocationID: 0}}
	vehicles := []model.Vehicle{{LoadCapacity: 5, HomeDepotIndex: 0, MaxShiftMinutes: 60}}
	dist := [][]float64{{0, 1}, {1, 0}}
	dur := [][]float64{{0, 1}, {1, 0}}
	p, err := model.New(sites, depots, nil, vehicles, dist, dur)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Sites[0].MaxVisits < 1 {
		t.Fatalf("MaxVisits must be at least 1, got %d", p.Sites[0].MaxVisits)
	}
}

func TestLocationTableCoversAllKinds(t *testing.T) {
	sites := []model.Site{{Capacity: 10, InitialLevel: 1, GrowthRate: 1, LocationID: 1}}
	depots := []model.Depot{{LocationID: 0}}
	terminals := []model.Terminal{{LocationID: 2}}
	vehicles := []model.Vehicle{{LoadCapacity: 10, HomeDepotIndex: 0, MaxShiftMinutes: 100}}
	dist := make([][]float64, 3)
	dur := make([][]float64, 3)
	for i := range dist {
		dist[i] = make([]float64, 3)
		dur[i] = make([]float64, 3)
	}
	p, err := model.New(sites, depots, terminals, vehicles, dist, dur)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.LocationTable[0].Kind != model.KindDepot {
		t.Fatalf("location 0 should be a depot")
	}
	if p.LocationTable[1].Kind != model.KindSite {
		t.Fatalf("location 1 should be a site")
	}
	if p.LocationTable[2].Kind != model.KindTerminal {
		t.Fatalf("location 2 should be a terminal")
	}
}
