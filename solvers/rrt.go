package solvers

import (
	"context"
	"math"
	"time"

	"github.com/JRL-CARI-CNR-UNIBS/cari-motion-planning/graph"
	"github.com/JRL-CARI-CNR-UNIBS/cari-motion-planning/logging"
)

// Solver grows a Tree from a start configuration toward configurations
// drawn from a Sampler, reporting a Path whenever a newly added node
// comes within GoalThreshold of a registered goal. With rewire enabled
// it behaves as RRT*, re-parenting neighbors to lower their cost from
// root; with continueAfterSolution enabled it keeps refining after a
// first solution instead of stopping there.
type Solver struct {
	metric  graph.Metrics
	checker graph.Checker
	sampler graph.Sampler
	opts    Options

	rewire                bool
	continueAfterSolution bool

	tree  *graph.Tree
	goals []*graph.Node
	best  *graph.Path

	logger logging.Logger
}

// NewRRT builds a plain RRT solver: the first goal-connecting edge
// found wins and growth stops.
func NewRRT(metric graph.Metrics, checker graph.Checker, sampler graph.Sampler, opts Options, logger logging.Logger) *Solver {
	return newSolver(metric, checker, sampler, opts, false, false, logger)
}

// NewRRTStar builds an RRT* solver: neighborhoods are rewired around
// every newly added node, and growth continues refining the best
// solution until the iteration/time budget is exhausted.
func NewRRTStar(metric graph.Metrics, checker graph.Checker, sampler graph.Sampler, opts Options, logger logging.Logger) *Solver {
	return newSolver(metric, checker, sampler, opts, true, true, logger)
}

func newSolver(
	metric graph.Metrics, checker graph.Checker, sampler graph.Sampler, opts Options,
	rewire, continueAfterSolution bool, logger logging.Logger,
) *Solver {
	if logger == nil {
		logger = logging.New("solver")
	}
	return &Solver{
		metric:                metric,
		checker:               checker,
		sampler:               sampler,
		opts:                  opts,
		rewire:                rewire,
		continueAfterSolution: continueAfterSolution,
		logger:                logger,
	}
}

// AddStart roots a fresh Tree at root.
func (s *Solver) AddStart(root graph.Configuration) {
	s.tree = graph.NewTree(graph.NewNode(root), s.metric, s.checker, s.opts.MaxDistance, s.logger.Sublogger("tree"))
}

// AddStartTree adopts an already-built tree as the solver's growth
// tree, mirroring the original addStartTree(tree, max_time) signature;
// maxTime is accepted for interface symmetry but unused since adopting
// a tree is not itself an iterative operation.
func (s *Solver) AddStartTree(tree *graph.Tree, maxTime time.Duration) error {
	s.tree = tree
	return nil
}

// AddGoal registers a goal node. If growth is within GoalThreshold and
// the connecting edge is collision-free on a later Update call, a
// solution Path through this goal becomes a candidate.
func (s *Solver) AddGoal(goal *graph.Node, maxTime time.Duration) error {
	s.goals = append(s.goals, goal)
	return nil
}

// Update performs one growth iteration: sample a target, extend the
// tree toward it, optionally rewire its neighborhood, then check every
// registered goal for a collision-free connection. It reports whether
// the best known solution improved this call.
func (s *Solver) Update(ctx context.Context, solution **graph.Path) (bool, error) {
	if s.tree == nil {
		return false, ErrNoStartTree
	}

	target := s.sampler.Sample()
	near := s.tree.NearestNeighbor(ctx, target)
	newNode, ok := s.tree.Extend(ctx, near, target)
	if !ok {
		return false, nil
	}

	parent := near
	cost := s.metric.Cost(near.Configuration(), newNode.Configuration())

	if s.rewire {
		neighborhood := s.tree.NearR(ctx, newNode.Configuration(), s.opts.RewireRadius)
		bestCost := costFromRoot(near) + cost
		for _, m := range neighborhood {
			candidate := costFromRoot(m) + s.metric.Cost(m.Configuration(), newNode.Configuration())
			if candidate < bestCost && s.checker.CheckPath(m.Configuration(), newNode.Configuration()) {
				bestCost = candidate
				parent = m
			}
		}
		conn := graph.NewConnection(parent, newNode)
		conn.SetCost(s.metric.Cost(parent.Configuration(), newNode.Configuration()))
		s.tree.AddNode(newNode, conn)
		s.tree.Rewire(ctx, newNode, neighborhood)
	} else {
		conn := graph.NewConnection(parent, newNode)
		conn.SetCost(cost)
		conn.Attach()
		s.tree.AddNode(newNode, conn)
	}

	improved, err := s.checkGoals(newNode)
	if err != nil {
		return false, err
	}
	if s.best != nil {
		*solution = s.best
	}
	return improved, nil
}

func (s *Solver) checkGoals(newNode *graph.Node) (bool, error) {
	improved := false
	for _, goal := range s.goals {
		if s.metric.Cost(newNode.Configuration(), goal.Configuration()) > s.opts.GoalThreshold {
			continue
		}
		if !s.checker.CheckPath(newNode.Configuration(), goal.Configuration()) {
			continue
		}
		path, err := buildSolution(newNode, goal, s.metric, s.checker)
		if err != nil {
			return improved, err
		}
		if s.best == nil || path.TotalCost() < s.best.TotalCost() {
			s.logger.Debugf("solution improved, cost %v -> %v", bestCostOrInf(s.best), path.TotalCost())
			s.best = path
			improved = true
		}
	}
	return improved, nil
}

func bestCostOrInf(p *graph.Path) float64 {
	if p == nil {
		return math.Inf(1)
	}
	return p.TotalCost()
}

// Solve drives Update until max_iter or time_budget is exhausted, or,
// for a non-optimizing solver, until the first solution is produced.
func (s *Solver) Solve(ctx context.Context, solution **graph.Path, maxIter int, timeBudget time.Duration) (bool, error) {
	start := time.Now()
	found := false
	iter := 0
	for ; iter < maxIter; iter++ {
		if timeBudget > 0 && time.Since(start) >= timeBudget {
			s.logger.Debugf("solve: time budget exhausted after %d iterations", iter)
			break
		}
		ok, err := s.Update(ctx, solution)
		if err != nil {
			s.logger.Errorf("solve: update failed at iteration %d: %v", iter, err)
			return found, err
		}
		if ok {
			found = true
			if !s.continueAfterSolution {
				s.logger.Infof("solve: first solution found after %d iterations, cost %v", iter+1, s.best.TotalCost())
				break
			}
		}
	}
	if !found {
		s.logger.Warnf("solve: exhausted %d iterations without a solution", iter)
	}
	return found, nil
}

// Clone returns a fresh, unstarted solver with the same options and
// growth strategy but a new Metrics/Checker/Sampler triple, mirroring
// the original's clone(metrics, checker, sampler) signature — every
// independent solver needs its own checker since it may hold mutable
// planning-scene state.
func (s *Solver) Clone(metric graph.Metrics, checker graph.Checker, sampler graph.Sampler) *Solver {
	return newSolver(metric, checker, sampler, s.opts, s.rewire, s.continueAfterSolution, s.logger)
}

// costFromRoot sums edge costs along n's single-parent chain back to
// its tree's root.
func costFromRoot(n *graph.Node) float64 {
	cost := 0.0
	cur := n
	for len(cur.Parents()) > 0 {
		p := cur.Parents()[0]
		cost += p.Cost()
		cur = p.Parent()
	}
	return cost
}

// buildSolution walks tail's parent chain back to the tree root,
// appends goal, and prices the result as a fresh Path.
func buildSolution(tail, goal *graph.Node, metric graph.Metrics, checker graph.Checker) (*graph.Path, error) {
	chain := []*graph.Node{tail}
	cur := tail
	for len(cur.Parents()) > 0 {
		p := cur.Parents()[0]
		cur = p.Parent()
		chain = append(chain, cur)
	}
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	chain = append(chain, goal)
	return graph.NewPathFromNodes(chain, metric, checker)
}
