// Package model describes the immutable inputs to a waste-pickup routing
// run: sites, depots, terminals, vehicles, and the road network connecting
// them. A Problem is built once by New and never mutated afterward; the
// genetic optimiser and logistics simulator only ever read it.
package model

import (
	"fmt"
	"math"
)

// LocationKind identifies what occupies a location in the road network.
type LocationKind int

const (
	KindDepot LocationKind = iota
	KindSite
	KindTerminal
)

func (k LocationKind) String() string {
	switch k {
	case KindDepot:
		return "depot"
	case KindSite:
		return "site"
	case KindTerminal:
		return "terminal"
	default:
		return "unknown"
	}
}

// LocationRef resolves a location id to the kind of place it is and its
// index within that kind's own slice (e.g. Sites[TypeLocalIndex]).
type LocationRef struct {
	Kind           LocationKind
	TypeLocalIndex int
}

// Site is a pickup point whose level grows at a fixed rate between visits.
type Site struct {
	Capacity     float64
	InitialLevel float64
	GrowthRate   float64
	LocationID   int

	// MaxVisits is derived in New: the number of times this site could
	// plausibly need visiting across the horizon, used to size the
	// site-gene alphabet.
	MaxVisits int
}

// Depot is a vehicle's home base and dump site.
type Depot struct {
	LocationID int
}

// Terminal is a disposal site vehicles may pass through without effect.
type Terminal struct {
	LocationID int
}

// Vehicle is a single truck in the fleet.
type Vehicle struct {
	LoadCapacity    float64
	HomeDepotIndex  int
	MaxShiftMinutes int
}

// HorizonDays is fixed: every run plans 14 days ahead.
const HorizonDays = 14

// PickupDuration is the fixed service time, in minutes, spent at a site once
// a vehicle has arrived.
const PickupDuration = 15.0

// visitSafetyFactor is the fraction of a site's capacity assumed to be
// collected per visit when estimating how many visits it could need.
const visitSafetyFactor = 0.8

// Problem is the immutable description of one routing instance.
type Problem struct {
	Sites     []Site
	Depots    []Depot
	Terminals []Terminal
	Vehicles  []Vehicle

	// DistanceMatrix and DurationMatrix are square matrices indexed by
	// location id, in metres and minutes respectively.
	DistanceMatrix [][]float64
	DurationMatrix [][]float64

	HorizonDays int

	// LocationTable maps a location id to what occupies it.
	LocationTable map[int]LocationRef

	// GeneToSite flattens site visit slots: site i appears MaxVisits[i]
	// times. Indices into this slice are "site genes".
	GeneToSite []int

	NumSiteGenes  int
	NumBreakGenes int
	NumGenes      int
}

// Error values for configuration-invalid problems (spec §7, class 1).
var (
	ErrEmptyFleet      = fmt.Errorf("model: fleet has no vehicles")
	ErrEmptySites      = fmt.Errorf("model: no pickup sites configured")
	ErrMatrixDimension = fmt.Errorf("model: distance/duration matrix dimension mismatch")
	ErrInvalidShift    = fmt.Errorf("model: vehicle max shift duration must be positive")
	ErrInvalidDepot    = fmt.Errorf("model: vehicle references unknown home depot")
	ErrInvalidLocation = fmt.Errorf("model: location id out of range of the road network")
)

// New validates the given inputs and builds the derived fields of a
// Problem: per-site max visit counts, the gene-to-site flattening, and the
// gene-count breakdown between site genes and break-marker genes.
func New(sites []Site, depots []Depot, terminals []Terminal, vehicles []Vehicle, distance, duration [][]float64) (*Problem, error) {
	if len(vehicles) == 0 {
		return nil, ErrEmptyFleet
	}
	if len(sites) == 0 {
		return nil, ErrEmptySites
	}

	dim := len(distance)
	if dim != len(duration) {
		return nil, fmt.Errorf("%w: distance has %d rows, duration has %d", ErrMatrixDimension, dim, len(duration))
	}
	for i, row := range distance {
		if len(row) != dim {
			return nil, fmt.Errorf("%w: distance row %d has %d columns, want %d", ErrMatrixDimension, i, len(row), dim)
		}
	}
	for i, row := range duration {
		if len(row) != dim {
			return nil, fmt.Errorf("%w: duration row %d has %d columns, want %d", ErrMatrixDimension, i, len(row), dim)
		}
	}

	maxLoc := -1
	checkLoc := func(id int) error {
		if id < 0 || id >= dim {
			return fmt.Errorf("%w: location id %d, matrix dimension %d", ErrInvalidLocation, id, dim)
		}
		if id > maxLoc {
			maxLoc = id
		}
		return nil
	}

	locationTable := make(map[int]LocationRef, len(sites)+len(depots)+len(terminals))
	for i, d := range depots {
		if err := checkLoc(d.LocationID); err != nil {
			return nil, err
		}
		locationTable[d.LocationID] = LocationRef{Kind: KindDepot, TypeLocalIndex: i}
	}
	for i, s := range sites {
		if err := checkLoc(s.LocationID); err != nil {
			return nil, err
		}
		locationTable[s.LocationID] = LocationRef{Kind: KindSite, TypeLocalIndex: i}
	}
	for i, t := range terminals {
		if err := checkLoc(t.LocationID); err != nil {
			return nil, err
		}
		locationTable[t.LocationID] = LocationRef{Kind: KindTerminal, TypeLocalIndex: i}
	}

	for i, v := range vehicles {
		if v.MaxShiftMinutes <= 0 {
			return nil, fmt.Errorf("%w: vehicle %d has max shift %d", ErrInvalidShift, i, v.MaxShiftMinutes)
		}
		if v.HomeDepotIndex < 0 || v.HomeDepotIndex >= len(depots) {
			return nil, fmt.Errorf("%w: vehicle %d depot index %d", ErrInvalidDepot, i, v.HomeDepotIndex)
		}
	}

	horizonMinutes := float64(HorizonDays * 24 * 60)
	out := make([]Site, len(sites))
	geneToSite := make([]int, 0, len(sites)*2)
	for i, s := range sites {
		s.MaxVisits = maxVisits(s, horizonMinutes)
		out[i] = s
		for v := 0; v < s.MaxVisits; v++ {
			geneToSite = append(geneToSite, i)
		}
	}

	numSiteGenes := len(geneToSite)
	numBreakGenes := HorizonDays * len(vehicles)

	p := &Problem{
		Sites:          out,
		Depots:         append([]Depot(nil), depots...),
		Terminals:      append([]Terminal(nil), terminals...),
		Vehicles:       append([]Vehicle(nil), vehicles...),
		DistanceMatrix: distance,
		DurationMatrix: duration,
		HorizonDays:    HorizonDays,
		LocationTable:  locationTable,
		GeneToSite:     geneToSite,
		NumSiteGenes:   numSiteGenes,
		NumBreakGenes:  numBreakGenes,
		NumGenes:       numSiteGenes + numBreakGenes,
	}
	return p, nil
}

// maxVisits computes ceil((growth_rate*horizon_minutes + initial_level) / (capacity*0.8)),
// guarded against a zero-capacity or zero-demand site (which needs at least
// one visit slot so the decoder always has somewhere to place it).
func maxVisits(s Site, horizonMinutes float64) int {
	denom := s.Capacity * visitSafetyFactor
	if denom <= 0 {
		return 1
	}
	n := (s.GrowthRate*horizonMinutes + s.InitialLevel) / denom
	visits := int(math.Ceil(n))
	if visits < 1 {
		visits = 1
	}
	return visits
}

// DepotLocationID returns the location id of a vehicle's home depot.
func (p *Problem) DepotLocationID(vehicleIndex int) int {
	return p.Depots[p.Vehicles[vehicleIndex].HomeDepotIndex].LocationID
}
