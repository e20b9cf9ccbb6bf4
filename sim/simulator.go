package sim

import (
	"log"
	"math"

	"github.com/hamk-uas/logistics-sim/clock"
	"github.com/hamk-uas/logistics-sim/model"
)

// Cost weights: fuel at 2 euros per litre and
// 50 litres per 100 km, overload at 50 euros per site-day, overtime at 50
// euros per hour.
const (
	fuelWeightPerMetre      = 50.0 / 100000.0 * 2.0
	overloadWeightPerDay    = 50.0
	overtimeWeightPerMinute = 50.0 / 60.0

	minutesPerDay = 24 * 60
)

type vehicleState struct {
	load, odometer, overtime float64
}

type siteState struct {
	level float64
}

// Simulator is the thread-local cost function for one worker: reusable
// vehicle and site state, plus scratch route buffers sized once at
// construction and reused for every genome the worker evaluates. A
// Simulator must not be shared between workers.
type Simulator struct {
	problem *model.Problem

	vehicles []vehicleState
	sites    []siteState

	// dayRoutes holds one route per vehicle for the day currently being
	// decoded and simulated; reused across days and across calls to Cost.
	dayRoutes [][]int

	overloadDays int
}

// NewSimulator allocates a Simulator's reusable state for problem p.
func NewSimulator(p *model.Problem) *Simulator {
	s := &Simulator{
		problem:   p,
		vehicles:  make([]vehicleState, len(p.Vehicles)),
		sites:     make([]siteState, len(p.Sites)),
		dayRoutes: make([][]int, len(p.Vehicles)),
	}
	for v := range s.dayRoutes {
		s.dayRoutes[v] = make([]int, 0, 8)
	}
	return s
}

func (s *Simulator) reset() {
	for i := range s.vehicles {
		s.vehicles[i] = vehicleState{}
	}
	for i, site := range s.problem.Sites {
		s.sites[i] = siteState{level: site.InitialLevel}
	}
	s.overloadDays = 0
}

// Cost decodes genome one day at a time, interleaving an early-out check
// against earlyOutThreshold: after each day's routes are decoded, if the
// lower-bound cost accumulated so far already exceeds the threshold, Cost
// returns +Inf without simulating any further days. Otherwise it simulates
// the day's vehicle shifts and site growth, and once all horizon_days are
// done returns the aggregated cost (§4.5 of the design). A non-finite
// aggregate is logged and returned as +Inf.
func (s *Simulator) Cost(genome []int, earlyOutThreshold float64) float64 {
	p := s.problem
	s.reset()

	c := cursor{genome: genome}
	var odometerLowerBound float64

	for day := 0; day < p.HorizonDays; day++ {
		for v := range p.Vehicles {
			route, lb := decodeSlot(&c, p, v, s.dayRoutes[v])
			s.dayRoutes[v] = route
			odometerLowerBound += lb
		}

		if odometerLowerBound*fuelWeightPerMetre > earlyOutThreshold {
			return math.Inf(1)
		}

		s.simulateDay(p)
		s.growSites(p)
	}

	cost := s.totalCost()
	if math.IsNaN(cost) || math.IsInf(cost, 0) {
		log.Printf("sim: non-finite cost %v treated as +Inf", cost)
		return math.Inf(1)
	}
	return cost
}

func (s *Simulator) totalCost() float64 {
	var odometer, overtime float64
	for _, v := range s.vehicles {
		odometer += v.odometer
		overtime += v.overtime
	}
	return odometer*fuelWeightPerMetre +
		float64(s.overloadDays)*overloadWeightPerDay +
		overtime*overtimeWeightPerMinute
}

// simulateDay spawns one shift process per vehicle for the routes
// currently held in s.dayRoutes, runs them to completion on a fresh
// per-day clock, then forces the day boundary forward regardless of how
// early the shifts finished.
func (s *Simulator) simulateDay(p *model.Problem) {
	cl := clock.New(0)
	for v := range p.Vehicles {
		v := v
		route := s.dayRoutes[v]
		cl.Spawn(func(proc *clock.Proc) {
			s.runShift(proc, p, v, route)
		})
	}
	cl.Run()
	cl.Advance(minutesPerDay)
}

// runShift walks one vehicle's decoded route for the day, suspending for
// travel and service durations and mutating the vehicle's odometer, load,
// and overtime as it goes.
func (s *Simulator) runShift(proc *clock.Proc, p *model.Problem, v int, route []int) {
	if len(route) == 0 {
		return
	}

	shiftStart := proc.Now()
	cur := route[0]
	for i := 1; i < len(route); i++ {
		next := route[i]
		if cur != next {
			proc.Sleep(p.DurationMatrix[cur][next])
			s.vehicles[v].odometer += p.DistanceMatrix[cur][next]
		}

		switch p.LocationTable[next].Kind {
		case model.KindSite:
			s.pickup(v, p.LocationTable[next].TypeLocalIndex)
			proc.Sleep(model.PickupDuration)
		case model.KindTerminal:
			// no work
		case model.KindDepot:
			s.vehicles[v].load = 0
		}
		cur = next
	}

	shiftDuration := proc.Now() - shiftStart
	if max := float64(p.Vehicles[v].MaxShiftMinutes); shiftDuration > max {
		s.vehicles[v].overtime += shiftDuration - max
	}
}

// pickup applies the load-transfer rule: a full truck or an empty site is
// a no-op; otherwise as much of the site's level as fits is loaded.
func (s *Simulator) pickup(v, site int) {
	load := s.vehicles[v].load
	capacity := s.problem.Vehicles[v].LoadCapacity
	level := s.sites[site].level

	if level == 0 || load == capacity {
		return
	}
	if load+level > capacity {
		s.sites[site].level -= capacity - load
		s.vehicles[v].load = capacity
	} else {
		s.vehicles[v].load += level
		s.sites[site].level = 0
	}
}

func (s *Simulator) growSites(p *model.Problem) {
	for i, site := range p.Sites {
		s.sites[i].level += site.GrowthRate * minutesPerDay
		if s.sites[i].level > site.Capacity {
			s.overloadDays++
		}
	}
}

// DecodeRoutes fully decodes genome into a [day][vehicle] route table, used
// once by the driver to emit the winning genome's routes. Unlike Cost's
// hot path, this allocates fresh storage per call since it runs only once
// per optimisation run.
func DecodeRoutes(genome []int, p *model.Problem) [][][]int {
	routes := make([][][]int, p.HorizonDays)
	c := cursor{genome: genome}
	for day := range routes {
		routes[day] = make([][]int, len(p.Vehicles))
		for v := range p.Vehicles {
			route, _ := decodeSlot(&c, p, v, nil)
			routes[day][v] = append([]int(nil), route...)
		}
	}
	return routes
}
