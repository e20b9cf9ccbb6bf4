package ga

import "math"

// Stats is a running statistics accumulator over a sequence of costs,
// using Welford's online algorithm so a generation's summary can be built
// incrementally without retaining every sample.
type Stats struct {
	max, min float64
	mean     float64
	sumsq    float64 // sum of squares of deviation from the mean
	len      float64
}

// Insert folds a value into the statistics.
func (s Stats) Insert(x float64) Stats {
	if s.len == 0 {
		s.max = math.Inf(-1)
		s.min = math.Inf(+1)
	}

	delta := x - s.mean
	newlen := s.len + 1

	s.max = math.Max(s.max, x)
	s.min = math.Min(s.min, x)
	s.mean += delta / newlen
	s.sumsq += delta * delta * (s.len / newlen)
	s.len = newlen

	return s
}

// Merge combines two independently accumulated Stats.
func (s Stats) Merge(t Stats) Stats {
	if t.len == 0 {
		return s
	}
	if s.len == 0 {
		return t
	}

	delta := t.mean - s.mean
	newlen := t.len + s.len

	s.max = math.Max(s.max, t.max)
	s.min = math.Min(s.min, t.min)
	s.mean += delta * (t.len / newlen)
	s.sumsq += t.sumsq
	s.sumsq += delta * delta * (t.len * s.len / newlen)
	s.len = newlen

	return s
}

// Max returns the maximum cost observed.
func (s Stats) Max() float64 { return s.max }

// Min returns the minimum cost observed.
func (s Stats) Min() float64 { return s.min }

// Mean returns the average cost observed.
func (s Stats) Mean() float64 { return s.mean }

// Variance returns the population variance of cost.
func (s Stats) Variance() float64 { return s.sumsq / s.len }

// StdDeviation returns the population standard deviation of cost.
func (s Stats) StdDeviation() float64 { return math.Sqrt(s.sumsq / s.len) }

// Len returns the number of samples folded into the statistics.
func (s Stats) Len() int { return int(s.len) }
