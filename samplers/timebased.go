package samplers

import (
	"math"

	"github.com/JRL-CARI-CNR-UNIBS/cari-motion-planning/graph"
)

// TimeBased wraps an inner Sampler with a per-dimension max-speed
// vector and rejects draws whose implied start->sample->stop travel
// time exceeds the current best cost, the same informed-sampling
// narrowing other Sampler implementations apply to Euclidean cost,
// applied here to a time-domain cost instead.
type TimeBased struct {
	inner    graph.Sampler
	maxSpeed graph.Configuration
	cost     float64
}

// NewTimeBased builds a time-informed sampler around inner, driven by
// maxSpeed (one entry per configuration dimension, in units per
// second). It starts unconstrained regardless of inner's own recorded
// cost; callers narrow it explicitly via UpdateCost once a solution
// exists.
func NewTimeBased(inner graph.Sampler, maxSpeed graph.Configuration) *TimeBased {
	return &TimeBased{inner: inner, maxSpeed: maxSpeed, cost: math.Inf(1)}
}

// Sample rejection-samples from the inner sampler until a draw whose
// implied time cost is within the current best, or returns immediately
// if no best cost has been recorded yet.
func (s *TimeBased) Sample() graph.Configuration {
	for {
		q := s.inner.Sample()
		if math.IsInf(s.cost, 1) {
			return q
		}
		if s.timeCost(q) <= s.cost {
			return q
		}
	}
}

func (s *TimeBased) timeCost(q graph.Configuration) float64 {
	return timeBetween(s.inner.StartConfig(), q, s.maxSpeed) + timeBetween(q, s.inner.StopConfig(), s.maxSpeed)
}

// timeBetween returns the minimum time needed to move from a to b
// given each dimension's max speed: the slowest-moving joint sets the
// pace.
func timeBetween(a, b, maxSpeed graph.Configuration) float64 {
	worst := 0.0
	for i := range a {
		t := math.Abs(a[i]-b[i]) / maxSpeed[i]
		if t > worst {
			worst = t
		}
	}
	return worst
}

// StartConfig delegates to the wrapped sampler.
func (s *TimeBased) StartConfig() graph.Configuration { return s.inner.StartConfig() }

// StopConfig delegates to the wrapped sampler.
func (s *TimeBased) StopConfig() graph.Configuration { return s.inner.StopConfig() }

// Lower delegates to the wrapped sampler.
func (s *TimeBased) Lower() graph.Configuration { return s.inner.Lower() }

// Upper delegates to the wrapped sampler.
func (s *TimeBased) Upper() graph.Configuration { return s.inner.Upper() }

// Cost returns the current best-solution time cost.
func (s *TimeBased) Cost() float64 { return s.cost }

// UpdateCost records a new best-solution cost, narrowing subsequent
// Sample draws.
func (s *TimeBased) UpdateCost(c float64) { s.cost = c }

var _ graph.Sampler = (*TimeBased)(nil)
