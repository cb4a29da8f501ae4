// Package solvers implements the tree-growing solver framework: plain
// RRT, RRT* neighborhood rewiring, and multigoal variants built on top
// of the graph package's Tree/Path/Node primitives.
package solvers

// Options configures a Solver's iteration behavior.
type Options struct {
	// MaxDistance bounds how far a single Extend step advances toward
	// a sampled target; it becomes the owning Tree's step size.
	MaxDistance float64
	// GoalThreshold is the metric distance within which a newly added
	// tree node is considered connectable to a goal.
	GoalThreshold float64
	// RewireRadius (r_rewire) bounds the neighborhood RRT* rewires
	// around each newly added node. Ignored by plain RRT.
	RewireRadius float64
}

// DefaultOptions returns reasonable defaults for unit-scale
// configuration spaces; callers working at a different scale should
// override MaxDistance, GoalThreshold and RewireRadius accordingly.
func DefaultOptions() Options {
	return Options{
		MaxDistance:   1.0,
		GoalThreshold: 1.0,
		RewireRadius:  2.0,
	}
}
