package solvers

import (
	"github.com/JRL-CARI-CNR-UNIBS/cari-motion-planning/graph"
	"github.com/JRL-CARI-CNR-UNIBS/cari-motion-planning/logging"
	"github.com/JRL-CARI-CNR-UNIBS/cari-motion-planning/samplers"
)

// TimeMultigoalSolver is a MultigoalSolver whose sampler is wrapped in
// a per-dimension max-speed time-informed sampler (samplers.TimeBased).
// The wrapper starts with no recorded cost, and neither this type nor
// MultigoalSolver calls UpdateCost on it, so its draws pass through
// from the wrapped sampler unchanged; sampling is not narrowed by the
// best solution found so far.
type TimeMultigoalSolver struct {
	*MultigoalSolver
}

// NewTimeMultigoal wraps sampler with a time-based informed sampler
// driven by maxSpeed (one entry per configuration dimension) before
// building the underlying MultigoalSolver.
func NewTimeMultigoal(
	metric graph.Metrics, checker graph.Checker, sampler graph.Sampler,
	maxSpeed graph.Configuration, opts Options, rewire bool, logger logging.Logger,
) *TimeMultigoalSolver {
	timeSampler := samplers.NewTimeBased(sampler, maxSpeed)
	return &TimeMultigoalSolver{
		MultigoalSolver: NewMultigoal(metric, checker, timeSampler, opts, rewire, logger),
	}
}
