package graph

// Checker is the collision-checking capability consumed by trees and
// paths. Returning true means "no collision detected". Checkers are
// not required to be deterministic across clones: callers that need
// reproducibility must reuse a single checker instance.
type Checker interface {
	Check(q Configuration) bool
	CheckPath(a, b Configuration) bool
	CheckConnection(e *Connection) bool
	CheckConnectionFromConf(e *Connection, q Configuration) bool
	Clone() Checker
	MinDistance() float64
	GroupName() string
}

// Metrics is the cost capability consumed by trees and paths. Cost(q,q)
// must be zero; symmetry is not required, since time-based or other
// directional metrics are supported.
type Metrics interface {
	Cost(a, b Configuration) float64
	CostNodes(a, b *Node) float64
}

// Sampler is the configuration-sampling capability consumed by
// solvers. Cost/UpdateCost let informed samplers narrow their sampling
// region around the current best solution cost.
type Sampler interface {
	Sample() Configuration
	StartConfig() Configuration
	StopConfig() Configuration
	Lower() Configuration
	Upper() Configuration
	Cost() float64
	UpdateCost(c float64)
}
