// Package sim implements the discrete-event logistics simulator: genome
// decoding into per-day, per-vehicle routes, the cooperative vehicle-shift
// processes that consume the clock package, site growth and overload
// counting, and cost aggregation. One Simulator is owned by exactly one
// worker for the lifetime of a run.
package sim

import "github.com/hamk-uas/logistics-sim/model"

// cursor walks a genome left to right across every (day, vehicle) slot
// decoded from it, in day-major, vehicle-minor order, as specified by the
// decoding rule.
type cursor struct {
	genome []int
	locus  int
}

func (c *cursor) isSiteGene(p *model.Problem) bool {
	return c.genome[c.locus] < p.NumSiteGenes
}

// decodeSlot decodes one (day, vehicle) route starting at the cursor's
// current position, consuming genes up to and including the next break
// marker. dst is reused across calls (its backing array only grows when a
// route needs more room than it currently has). It returns the route
// (empty if only the depot was visited) and the odometer distance added by
// walking it.
func decodeSlot(c *cursor, p *model.Problem, vehicle int, dst []int) ([]int, float64) {
	depot := p.DepotLocationID(vehicle)
	dst = append(dst[:0], depot)
	var lowerBound float64

	for c.isSiteGene(p) {
		site := p.GeneToSite[c.genome[c.locus]]
		loc := p.Sites[site].LocationID
		if dst[len(dst)-1] != loc {
			lowerBound += p.DistanceMatrix[dst[len(dst)-1]][loc]
			dst = append(dst, loc)
		}
		c.locus++
	}
	c.locus++ // past the break marker

	if len(dst) == 1 {
		return dst[:0], 0
	}

	last := dst[len(dst)-1]
	lowerBound += p.DistanceMatrix[last][depot]
	dst = append(dst, depot)
	return dst, lowerBound
}
