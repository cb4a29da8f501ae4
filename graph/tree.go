package graph

import (
	"context"
	"runtime"
	"sort"

	"github.com/google/uuid"

	"github.com/JRL-CARI-CNR-UNIBS/cari-motion-planning/logging"
)

// Tree is a rooted, acyclic bundle of Nodes. Every non-root node has
// exactly one parent edge within the tree; the root has none; every
// edge of the tree is attached. Operations may transiently violate the
// single-parent invariant only while atomically replacing an edge.
type Tree struct {
	ID       uuid.UUID
	root     *Node
	nodes    map[*Node]struct{}
	metric   Metrics
	checker  Checker
	stepSize float64
	nm       *neighborManager
	logger   logging.Logger
}

// NewTree builds a tree rooted at root. stepSize bounds how far Extend
// advances toward a sampled target in a single step.
func NewTree(root *Node, metric Metrics, checker Checker, stepSize float64, logger logging.Logger) *Tree {
	if logger == nil {
		logger = logging.New("tree")
	}
	t := &Tree{
		ID:       uuid.New(),
		root:     root,
		nodes:    map[*Node]struct{}{root: {}},
		metric:   metric,
		checker:  checker,
		stepSize: stepSize,
		nm:       newNeighborManager(runtime.NumCPU(), 1000),
		logger:   logger,
	}
	return t
}

// GetRoot returns the tree's root node.
func (t *Tree) GetRoot() *Node { return t.root }

// Contains reports whether n belongs to this tree.
func (t *Tree) Contains(n *Node) bool {
	_, ok := t.nodes[n]
	return ok
}

// Nodes returns every node currently in the tree, in no particular
// order.
func (t *Tree) Nodes() []*Node {
	out := make([]*Node, 0, len(t.nodes))
	for n := range t.nodes {
		out = append(out, n)
	}
	return out
}

// AddNode inserts n into the tree's index. If attachEdge is non-nil it
// is attached as n's parent edge, giving n its single parent within
// the tree.
func (t *Tree) AddNode(n *Node, attachEdge *Connection) {
	t.nodes[n] = struct{}{}
	if attachEdge != nil {
		attachEdge.Attach()
	}
}

// RemoveNode detaches n's edges and drops it from the tree's index.
// Removing the root is a fatal invariant violation.
func (t *Tree) RemoveNode(n *Node) {
	if n == t.root {
		fatalInvariant("cannot remove the root of a tree")
	}
	n.Disconnect()
	delete(t.nodes, n)
}

// NearestNeighbor returns the tree node minimizing metric-distance to
// q. The tree must be non-empty.
func (t *Tree) NearestNeighbor(ctx context.Context, q Configuration) *Node {
	return t.nm.nearest(ctx, q, t.metric, t.Nodes())
}

// NearK returns the k tree nodes nearest to q, ordered closest first.
func (t *Tree) NearK(ctx context.Context, q Configuration, k int) []*Node {
	nodes := t.Nodes()
	sort.Slice(nodes, func(i, j int) bool {
		return t.metric.Cost(nodes[i].q, q) < t.metric.Cost(nodes[j].q, q)
	})
	if k > len(nodes) {
		k = len(nodes)
	}
	return nodes[:k]
}

// NearR returns every tree node within radius r of q.
func (t *Tree) NearR(ctx context.Context, q Configuration, r float64) []*Node {
	nodes := t.Nodes()
	out := make([]*Node, 0, len(nodes))
	for _, n := range nodes {
		if t.metric.Cost(n.q, q) <= r {
			out = append(out, n)
		}
	}
	return out
}

// Extend produces a candidate new node by interpolating from `from`
// toward target, capped at the tree's step size, and validates the
// resulting segment against the checker. A false return is the normal
// "no progress this iteration" signal, not an error.
func (t *Tree) Extend(ctx context.Context, from *Node, target Configuration) (*Node, bool) {
	direction := subConfig(target, from.q)
	dist := norm(direction)
	if dist < 1e-9 {
		return nil, false
	}
	step := t.stepSize
	if step <= 0 || step > dist {
		step = dist
	}
	newQ := addScaled(from.q, step/dist, direction)
	if !t.checker.CheckPath(from.q, newQ) {
		return nil, false
	}
	return NewNode(newQ), true
}

// costFromRoot walks n's (single) parent chain back to the root,
// summing edge costs.
func costFromRoot(n *Node) float64 {
	cost := 0.0
	cur := n
	for len(cur.parents) > 0 {
		p := cur.parents[0]
		cost += p.cost
		cur = p.parent
	}
	return cost
}

// Rewire performs RRT* neighborhood optimization around a newly added
// node n: each neighbor that offers a strictly cheaper, collision-free
// path to n replaces n's current parent edge; afterward, each neighbor
// that would be strictly cheaper routed through n is reparented to n.
// Equal costs never trigger rewiring.
func (t *Tree) Rewire(ctx context.Context, n *Node, neighborhood []*Node) {
	if len(n.parents) != 1 {
		fatalInvariant("rewire requires the target node to have exactly one parent edge")
	}

	currentCost := costFromRoot(n)
	for _, m := range neighborhood {
		if m == n {
			continue
		}
		candidate := costFromRoot(m) + t.metric.Cost(m.q, n.q)
		if candidate < currentCost && t.checker.CheckPath(m.q, n.q) {
			oldParent := n.parents[0]
			oldParent.Detach()
			nc := NewConnection(m, n)
			nc.SetCost(t.metric.Cost(m.q, n.q))
			nc.Attach()
			t.logger.Debugf("rewire: cheaper parent found, cost %v -> %v", currentCost, candidate)
			currentCost = candidate
		}
	}

	for _, m := range neighborhood {
		if m == n || m == t.root {
			continue
		}
		if len(m.parents) != 1 {
			continue
		}
		candidate := costFromRoot(n) + t.metric.Cost(n.q, m.q)
		if previousCost := costFromRoot(m); candidate < previousCost && t.checker.CheckPath(n.q, m.q) {
			m.parents[0].Detach()
			nc := NewConnection(n, m)
			nc.SetCost(t.metric.Cost(n.q, m.q))
			nc.Attach()
			t.logger.Debugf("rewire: reparented neighbor through new node, cost %v -> %v", previousCost, candidate)
		}
	}
}
