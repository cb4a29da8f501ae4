package solvers

import (
	"context"
	"time"

	"github.com/JRL-CARI-CNR-UNIBS/cari-motion-planning/graph"
	"github.com/JRL-CARI-CNR-UNIBS/cari-motion-planning/logging"
)

// MultigoalSolver maintains one independent Solver per registered
// goal, each growing its own Tree over its own cloned Checker (the
// concurrency model requires an independent checker per Tree since a
// checker may hold mutable planning-scene state), and keeps whichever
// goal has produced the cheapest completed Path.
type MultigoalSolver struct {
	metric      graph.Metrics
	checkerTmpl graph.Checker
	sampler     graph.Sampler
	opts        Options
	rewire      bool

	startConfig graph.Configuration
	subSolvers  []*Solver
	best        *graph.Path

	logger logging.Logger
}

// NewMultigoal builds a multigoal solver. rewire enables RRT*-style
// neighborhood optimization within each per-goal solver.
func NewMultigoal(metric graph.Metrics, checker graph.Checker, sampler graph.Sampler, opts Options, rewire bool, logger logging.Logger) *MultigoalSolver {
	if logger == nil {
		logger = logging.New("multigoal")
	}
	return &MultigoalSolver{
		metric:      metric,
		checkerTmpl: checker,
		sampler:     sampler,
		opts:        opts,
		rewire:      rewire,
		logger:      logger,
	}
}

// AddStart records the shared start configuration every per-goal
// solver grows its own tree from.
func (m *MultigoalSolver) AddStart(root graph.Configuration) {
	m.startConfig = root
}

// AddGoal registers a new goal, spinning up an independent Solver (and
// checker clone) dedicated to reaching it.
func (m *MultigoalSolver) AddGoal(goal *graph.Node, maxTime time.Duration) error {
	sub := newSolver(m.metric, m.checkerTmpl.Clone(), m.sampler, m.opts, m.rewire, true, m.logger.Sublogger("goal"))
	sub.AddStart(m.startConfig)
	if err := sub.AddGoal(goal, maxTime); err != nil {
		m.logger.Errorf("multigoal: failed to register goal %v: %v", goal.Configuration(), err)
		return err
	}
	m.subSolvers = append(m.subSolvers, sub)
	m.logger.Infof("multigoal: registered goal %d at %v with its own tree and checker", len(m.subSolvers), goal.Configuration())
	return nil
}

// Update advances every per-goal solver by one iteration and reports
// whether the overall best solution improved.
func (m *MultigoalSolver) Update(ctx context.Context, solution **graph.Path) (bool, error) {
	improvedAny := false
	for i, sub := range m.subSolvers {
		var subSolution *graph.Path
		ok, err := sub.Update(ctx, &subSolution)
		if err != nil {
			return improvedAny, err
		}
		if ok && (m.best == nil || subSolution.TotalCost() < m.best.TotalCost()) {
			m.logger.Infof("multigoal: goal %d now owns the best solution, cost %v", i, subSolution.TotalCost())
			m.best = subSolution
			improvedAny = true
		}
	}
	if m.best != nil {
		*solution = m.best
	}
	return improvedAny, nil
}

// Solve drives Update across every per-goal solver until max_iter or
// time_budget is exhausted.
func (m *MultigoalSolver) Solve(ctx context.Context, solution **graph.Path, maxIter int, timeBudget time.Duration) (bool, error) {
	start := time.Now()
	found := false
	for iter := 0; iter < maxIter; iter++ {
		if timeBudget > 0 && time.Since(start) >= timeBudget {
			break
		}
		ok, err := m.Update(ctx, solution)
		if err != nil {
			return found, err
		}
		if ok {
			found = true
		}
	}
	return found, nil
}
