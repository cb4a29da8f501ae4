package graph

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Path is an ordered, non-empty sequence of attached Connections
// c0,c1,...,c_{k-1} such that c_i.child == c_{i+1}.parent. It may
// optionally reference an owning Tree, in which case mutations that
// add or remove nodes keep the Tree in lock-step.
type Path struct {
	connections []*Connection
	cost        float64
	changed     []bool
	tree        *Tree
	metric      Metrics
	checker     Checker
	minLength   float64
}

// NewPath builds a Path from an existing, non-empty, endpoint-linked
// sequence of attached connections. The changed vector is initialized
// true for every index except 0, so the first warp pass always
// considers every interior vertex but never the start.
func NewPath(connections []*Connection, metric Metrics, checker Checker) (*Path, error) {
	if len(connections) == 0 {
		return nil, errors.Wrap(ErrInvalidArgument, "path requires a non-empty connection sequence")
	}
	for i := 1; i < len(connections); i++ {
		if connections[i-1].child != connections[i].parent {
			return nil, errors.Wrap(ErrInvalidArgument, "connections are not endpoint-linked")
		}
	}
	p := &Path{
		connections: connections,
		metric:      metric,
		checker:     checker,
		minLength:   1e-6,
	}
	p.changed = make([]bool, len(connections))
	for i := range p.changed {
		p.changed[i] = i != 0
	}
	p.RecomputeCost()
	return p, nil
}

// NewPathFromNodes builds fresh attached connections between each
// consecutive pair of nodes, pricing each edge from metric.
func NewPathFromNodes(nodes []*Node, metric Metrics, checker Checker) (*Path, error) {
	if len(nodes) < 2 {
		return nil, errors.Wrap(ErrInvalidArgument, "path requires at least two nodes")
	}
	connections := make([]*Connection, 0, len(nodes)-1)
	for i := 0; i < len(nodes)-1; i++ {
		conn := NewConnection(nodes[i], nodes[i+1])
		conn.SetCost(metric.CostNodes(nodes[i], nodes[i+1]))
		conn.Attach()
		connections = append(connections, conn)
	}
	return NewPath(connections, metric, checker)
}

// SetTree attaches an owning Tree to the path; node/connection
// mutations performed through the path thereafter keep the tree in
// sync.
func (p *Path) SetTree(t *Tree) { p.tree = t }

// Tree returns the path's owning tree, or nil.
func (p *Path) Tree() *Tree { return p.tree }

// Connections returns the path's connection sequence.
func (p *Path) Connections() []*Connection { return p.connections }

// Clone deep-copies every connection (and its endpoint
// configurations), preserving per-connection cost and the changed
// vector. The owning Tree reference is not copied.
func (p *Path) Clone() *Path {
	newConns := cloneConnections(p.connections)
	newPath := &Path{
		connections: newConns,
		metric:      p.metric,
		checker:     p.checker,
		minLength:   p.minLength,
		changed:     append([]bool(nil), p.changed...),
	}
	newPath.RecomputeCost()
	return newPath
}

// TotalCost returns the path's cached total cost.
func (p *Path) TotalCost() float64 { return p.cost }

// RecomputeCost resums the connections' costs, +Inf absorbing.
func (p *Path) RecomputeCost() {
	cost := 0.0
	for _, c := range p.connections {
		cost += c.Cost()
	}
	p.cost = cost
}

// EuclideanLength sums the Euclidean lengths of every connection.
func (p *Path) EuclideanLength() float64 {
	length := 0.0
	for _, c := range p.connections {
		length += c.Norm()
	}
	return length
}

// Waypoints returns the ordered list of configurations visited by the
// path: the parent of c0, then each connection's child.
func (p *Path) Waypoints() []Configuration {
	wp := make([]Configuration, 0, len(p.connections)+1)
	wp = append(wp, p.connections[0].parent.q)
	for _, c := range p.connections {
		wp = append(wp, c.child.q)
	}
	return wp
}

// Nodes returns the ordered list of nodes visited by the path.
func (p *Path) Nodes() []*Node {
	nodes := make([]*Node, 0, len(p.connections)+1)
	nodes = append(nodes, p.connections[0].parent)
	for _, c := range p.connections {
		nodes = append(nodes, c.child)
	}
	return nodes
}

// PointAtArcLength interpolates linearly along the path by cumulative
// Euclidean length. s<=0 returns the start, s>=the total length
// returns the goal.
func (p *Path) PointAtArcLength(s float64) Configuration {
	if s <= 0 {
		return p.connections[0].parent.q
	}
	cumulative := 0.0
	for _, c := range p.connections {
		if cumulative+c.norm > s {
			ratio := (s - cumulative) / c.norm
			return addScaled(c.parent.q, ratio, subConfig(c.child.q, c.parent.q))
		}
		cumulative += c.norm
	}
	return p.connections[len(p.connections)-1].child.q
}

// ArcLengthOf returns the normalized (0..1) cumulative arc length of a
// point q that lies on the path, within the fixed tolerance
// findConnection uses. It fails with ErrNotOnPath otherwise.
func (p *Path) ArcLengthOf(q Configuration) (float64, error) {
	_, idx := p.FindConnection(q)
	if idx < 0 {
		return 0, ErrNotOnPath
	}
	return p.arcLengthGivenConnection(q, idx)
}

func (p *Path) arcLengthGivenConnection(q Configuration, connIdx int) (float64, error) {
	if connIdx < 0 || connIdx >= len(p.connections) {
		return 0, errors.Wrap(ErrInvalidArgument, "connection index out of range")
	}
	totalLength := p.EuclideanLength()
	prefixLength := 0.0
	for i := 0; i < connIdx; i++ {
		prefixLength += p.connections[i].norm
	}
	dist := euclideanDistance(q, p.connections[connIdx].parent.q)
	if totalLength == 0 {
		return 0, nil
	}
	return (prefixLength + dist) / totalLength, nil
}

// FindConnection locates the first connection for which the triangle
// equality |p-q| + |q-c| - |p-c| is near zero, i.e. q lies between the
// connection's endpoints. It returns (nil, -1) when q is not on any
// connection.
func (p *Path) FindConnection(q Configuration) (*Connection, int) {
	for i, c := range p.connections {
		parent := c.parent.q
		child := c.child.q
		d := euclideanDistance(parent, child)
		d1 := euclideanDistance(parent, q)
		d2 := euclideanDistance(q, child)
		if math.Abs(d-d1-d2) < 1e-5 {
			return c, i
		}
	}
	return nil, -1
}

// projectOnConnection returns the perpendicular projection of point
// onto conn's line, the distance from point to that projection, and
// whether the foot lies between parent and child. A foot before the
// start of the first connection snaps to the start; symmetrically for
// the last connection's end.
func (p *Path) projectOnConnection(point Configuration, conn *Connection) (Configuration, float64, bool) {
	parent := conn.parent.q
	child := conn.child.q
	connVec := subConfig(child, parent)
	pointVec := subConfig(point, parent)

	connLength := norm(connVec)
	pointLength := norm(pointVec)
	s := dot(pointVec, connVec) / connLength

	projection := addScaled(parent, s/connLength, connVec)
	distSq := pointLength*pointLength - s*s
	if distSq < 0 {
		distSq = 0
	}
	distance := math.Sqrt(distSq)

	inConn := s >= 0 && s <= connLength

	if conn == p.connections[0] && s < 0 {
		projection = parent
		inConn = true
	}
	if conn == p.connections[len(p.connections)-1] && s > connLength {
		projection = child
		inConn = true
	}

	return projection, distance, inConn
}

// ProjectOn projects q onto the closest connection whose orthogonal
// foot lies between parent and child, minimizing distance across all
// connections. If no connection admits an in-segment projection, it
// falls back to the closest path node.
func (p *Path) ProjectOn(q Configuration) Configuration {
	minDistance := math.Inf(1)
	var projection Configuration
	for _, c := range p.connections {
		pr, distance, inConn := p.projectOnConnection(q, c)
		if inConn && distance < minDistance {
			minDistance = distance
			projection = pr
		}
	}
	if math.IsInf(minDistance, 1) {
		closest, _ := p.ClosestNode(q)
		return closest.q
	}
	return projection
}

// ProjectOnKeepingPast projects q, restricting admissible connections
// to the current one (nConn) or the next (nConn+1), preventing
// projection jumps on parallel paths. It returns the projected point,
// the (possibly advanced) connection index, and whether a projection
// was found.
func (p *Path) ProjectOnKeepingPast(q Configuration, nConn int) (Configuration, int, bool) {
	minDistance := math.Inf(1)
	var projection Configuration
	idx := nConn
	for i, c := range p.connections {
		if i != nConn && i != nConn+1 {
			continue
		}
		pr, distance, inConn := p.projectOnConnection(q, c)
		if inConn && distance < minDistance {
			minDistance = distance
			projection = pr
			idx = i
		}
	}
	if math.IsInf(minDistance, 1) {
		return nil, nConn, false
	}
	return projection, idx, true
}

// ProjectOnKeepingAbscissa is ProjectOnKeepingPast's curvilinear-
// abscissa-aware variant: the new normalized arc length must be >=
// pastAbscissa, otherwise the previous projection is kept.
func (p *Path) ProjectOnKeepingAbscissa(
	q Configuration, pastProjection Configuration, pastAbscissa float64, nConn int,
) (Configuration, float64, int) {
	minDistance := math.Inf(1)
	projection := pastProjection
	newAbscissa := pastAbscissa
	idx := nConn

	for i, c := range p.connections {
		if i != nConn && i != nConn+1 {
			continue
		}
		pr, distance, inConn := p.projectOnConnection(q, c)
		if !inConn || distance >= minDistance {
			continue
		}
		abscissa, err := p.arcLengthGivenConnection(pr, i)
		if err != nil {
			continue
		}
		if abscissa >= pastAbscissa {
			newAbscissa = abscissa
			minDistance = distance
			projection = pr
			idx = i
		}
	}
	return projection, newAbscissa, idx
}

// ClosestNode returns the path node nearest to configuration and the
// distance to it. It is ProjectOn's documented fallback when no
// connection admits an in-segment projection.
func (p *Path) ClosestNode(configuration Configuration) (*Node, float64) {
	closest := p.connections[0].parent
	minDist := euclideanDistance(closest.q, configuration)
	for _, c := range p.connections {
		dist := euclideanDistance(c.child.q, configuration)
		if dist < minDist {
			closest = c.child
			minDist = dist
		}
	}
	return closest, minDist
}

// CostFromConf returns the remaining cost from an arbitrary on-path
// configuration to the path's end.
func (p *Path) CostFromConf(conf Configuration) (float64, error) {
	p.RecomputeCost()
	conn, idx := p.FindConnection(conf)
	if conn == nil {
		return 0, ErrNotOnPath
	}

	if sameConfig(conf, p.connections[0].parent.q) {
		return p.cost, nil
	}

	cost := 0.0
	for i := idx + 1; i < len(p.connections); i++ {
		cost += p.connections[i].Cost()
		if math.IsInf(cost, 1) {
			return math.Inf(1), nil
		}
	}

	switch {
	case sameConfig(conf, conn.parent.q):
		cost += conn.Cost()
	case sameConfig(conf, conn.child.q):
		// nothing remaining on this connection
	default:
		if math.IsInf(conn.Cost(), 1) {
			probe := NewConnection(NewNode(conf), conn.child)
			if p.checker.CheckConnection(probe) {
				cost += p.metric.Cost(conf, conn.child.q)
			} else {
				cost = math.Inf(1)
			}
		} else {
			cost += p.metric.Cost(conf, conn.child.q)
		}
	}
	return cost, nil
}

// RemainingLengthFromConf returns the remaining Euclidean length from
// an arbitrary on-path configuration to the path's end.
func (p *Path) RemainingLengthFromConf(conf Configuration) (float64, error) {
	conn, idx := p.FindConnection(conf)
	if conn == nil {
		return 0, ErrNotOnPath
	}
	length := euclideanDistance(conf, conn.child.q)
	for i := idx + 1; i < len(p.connections); i++ {
		length += p.connections[i].norm
	}
	return length, nil
}

// bisection runs the warp smoother's inner search over one interior
// vertex, replacing connections[connIdx-1] and connections[connIdx] in
// place when an improvement is found, within an up-to-5-iteration
// budget.
func (p *Path) bisection(connIdx int, center, direction Configuration, maxDistance, minDistance float64) bool {
	conn12 := p.connections[connIdx-1]
	conn23 := p.connections[connIdx]

	parent := conn12.parent
	child := conn23.child

	improved := false
	cost := conn12.Cost() + conn23.Cost()

	for iter := 0; iter < 5 && (maxDistance-minDistance) > p.minLength; iter++ {
		distance := 0.5 * (maxDistance + minDistance)
		point := addScaled(center, distance, direction)

		costPN := p.metric.Cost(parent.q, point)
		costNC := p.metric.Cost(point, child.q)
		costN := costPN + costNC

		if costN >= cost {
			minDistance = distance
			continue
		}

		probe12 := NewConnection(parent, NewNode(point))
		probe23 := NewConnection(NewNode(point), child)
		if !p.checker.CheckConnection(probe12) || !p.checker.CheckConnection(probe23) {
			minDistance = distance
			continue
		}

		improved = true
		maxDistance = distance
		cost = costN

		oldMid := conn12.child
		conn12.Detach()
		conn23.Detach()
		if p.tree != nil && p.tree.Contains(oldMid) {
			p.tree.RemoveNode(oldMid)
		} else {
			oldMid.Disconnect()
		}

		n := NewNode(point)
		conn12 = NewConnection(parent, n)
		conn23 = NewConnection(n, child)
		conn12.SetCost(costPN)
		conn23.SetCost(costNC)
		conn12.Attach()
		conn23.Attach()

		if p.tree != nil {
			p.tree.AddNode(n, nil)
		}
	}

	p.connections[connIdx-1] = conn12
	p.connections[connIdx] = conn23

	if improved {
		p.RecomputeCost()
	}
	return improved
}

// Warp smooths the path by repositioning interior vertices whose
// incident edges both exceed minEdgeLength, via bisection on a
// perpendicular offset from the chord connecting their neighbors. It
// respects timeBudget (checked between vertices, breaking at 98% of
// the budget) and returns whether any vertex still has a pending
// (changed) smoothing opportunity.
func (p *Path) Warp(minEdgeLength float64, timeBudget time.Duration) bool {
	if timeBudget > 0 {
		start := time.Now()
		for idx := 1; idx < len(p.connections); idx++ {
			if p.connections[idx-1].norm > minEdgeLength && p.connections[idx].norm > minEdgeLength {
				if p.changed[idx-1] || p.changed[idx] {
					center := addScaled(p.connections[idx-1].parent.q, 0.5, subConfig(p.connections[idx].child.q, p.connections[idx-1].parent.q))
					direction := subConfig(p.connections[idx-1].child.q, center)
					maxDistance := norm(direction)
					minDistance := 0.0

					if maxDistance > 0 {
						direction = scaleConfig(1.0/maxDistance, direction)
					}

					if p.bisection(idx, center, direction, maxDistance, minDistance) {
						p.changed[idx] = true
					} else {
						p.changed[idx] = false
					}
				}
			}

			if time.Since(start) >= time.Duration(0.98*float64(timeBudget)) {
				break
			}
		}
	}

	for _, c := range p.changed {
		if c {
			return true
		}
	}
	return false
}

// Simplify runs a single greedy-shortcut pass: for each connection
// whose length is within threshold (with a special case that also
// tries index 0 when the very first connection is shorter than
// threshold), replaces the shortcut from its parent to the following
// child with one edge when that shortcut is collision-free.
func (p *Path) Simplify(threshold float64) bool {
	simplified := false
	reconnectFirst := false
	if len(p.connections) > 1 && p.connections[0].norm < threshold {
		reconnectFirst = true
	}

	ic := 1
	for ic < len(p.connections) {
		dist := p.connections[ic].norm
		if dist > threshold && !(ic == 1 && reconnectFirst) {
			ic++
			continue
		}
		reconnectFirst = false

		parentNode := p.connections[ic-1].parent
		childNode := p.connections[ic].child
		if !p.checker.CheckPath(parentNode.q, childNode.q) {
			ic++
			continue
		}

		simplified = true
		cost := p.metric.CostNodes(parentNode, childNode)
		conn := NewConnection(parentNode, childNode)
		conn.SetCost(cost)

		midNode := p.connections[ic-1].child
		p.connections[ic].Detach()
		p.connections[ic-1].Detach()
		conn.Attach()
		if p.tree != nil && p.tree.Contains(midNode) {
			p.tree.RemoveNode(midNode)
		}

		newConns := make([]*Connection, 0, len(p.connections)-1)
		newConns = append(newConns, p.connections[:ic-1]...)
		newConns = append(newConns, conn)
		newConns = append(newConns, p.connections[ic+1:]...)
		p.connections = newConns

		newChanged := make([]bool, 0, len(p.changed)-1)
		newChanged = append(newChanged, p.changed[:ic]...)
		newChanged = append(newChanged, p.changed[ic+1:]...)
		p.changed = newChanged
		if ic > 1 {
			p.changed[ic-1] = true
		}
	}

	p.RecomputeCost()
	return simplified
}

// RemoveColinearNodes repeatedly merges interior nodes that have
// exactly one parent and one child edge on this path, whose two edges
// are parallel and which are neither whitelisted nor the tree root,
// replacing the pair with a single edge of summed cost. It loops until
// a full pass removes nothing and returns whether any node was
// removed.
func (p *Path) RemoveColinearNodes(whitelist []*Node) bool {
	removedAny := false
	for {
		removed := false
		for i := 0; i < len(p.connections)-1; i++ {
			connParentNode := p.connections[i]
			connNodeChild := p.connections[i+1]
			node := connParentNode.child
			if node != connNodeChild.parent {
				fatalInvariant("adjacency desync: connection %d's child is not connection %d's parent", i, i+1)
			}

			if isWhitelisted(node, whitelist) {
				continue
			}
			if len(node.parents) != 1 || len(node.children) != 1 {
				continue
			}
			if p.tree != nil && node == p.tree.root {
				fatalInvariant("path node equal to tree root has more than zero parents")
			}
			if !connParentNode.IsParallel(connNodeChild, 1e-9) {
				continue
			}

			newConn := NewConnection(connParentNode.parent, connNodeChild.child)
			newConn.SetCost(connParentNode.Cost() + connNodeChild.Cost())
			newConn.Attach()

			node.Disconnect()
			if p.tree != nil {
				p.tree.RemoveNode(node)
			}

			newConns := make([]*Connection, 0, len(p.connections)-1)
			newConns = append(newConns, p.connections[:i]...)
			newConns = append(newConns, newConn)
			newConns = append(newConns, p.connections[i+2:]...)
			p.connections = newConns

			newChanged := make([]bool, 0, len(p.changed)-1)
			newChanged = append(newChanged, p.changed[:i]...)
			newChanged = append(newChanged, true)
			newChanged = append(newChanged, p.changed[i+2:]...)
			p.changed = newChanged

			removed = true
			removedAny = true
			break
		}
		if !removed {
			break
		}
	}
	return removedAny
}

func isWhitelisted(n *Node, whitelist []*Node) bool {
	for _, w := range whitelist {
		if w == n {
			return true
		}
	}
	return false
}

// InsertAt splices a new node at q, which must lie on an existing
// connection, detaching that connection and attaching two new ones
// priced from the Metrics. If the path has an owning Tree, the new
// node is added to it.
func (p *Path) InsertAt(q Configuration) (*Node, error) {
	conn, idx := p.FindConnection(q)
	if conn == nil {
		return nil, ErrNotOnPath
	}
	if sameConfig(q, conn.parent.q) {
		return conn.parent, nil
	}
	if sameConfig(q, conn.child.q) {
		return conn.child, nil
	}

	parent := conn.parent
	child := conn.child
	n := NewNode(q.Clone())

	var costParent, costChild float64
	if math.IsInf(conn.Cost(), 1) {
		if !p.checker.Check(q) {
			costParent, costChild = math.Inf(1), math.Inf(1)
		} else {
			if !p.checker.CheckPath(q, parent.q) {
				costParent = math.Inf(1)
			} else {
				costParent = p.metric.Cost(parent.q, q)
			}
			if !p.checker.CheckPath(q, child.q) {
				costChild = math.Inf(1)
			} else {
				costChild = p.metric.Cost(q, child.q)
			}
		}
	} else {
		costParent = p.metric.Cost(parent.q, q)
		costChild = p.metric.Cost(q, child.q)
	}

	conn.Detach()
	if p.tree != nil {
		p.tree.AddNode(n, nil)
	}

	connParent := NewConnection(parent, n)
	connParent.SetCost(costParent)
	connParent.Attach()

	connChild := NewConnection(n, child)
	connChild.SetCost(costChild)
	connChild.Attach()

	newConns := make([]*Connection, 0, len(p.connections)+1)
	newConns = append(newConns, p.connections[:idx]...)
	newConns = append(newConns, connParent, connChild)
	newConns = append(newConns, p.connections[idx+1:]...)
	p.connections = newConns

	newChanged := make([]bool, 0, len(p.changed)+1)
	newChanged = append(newChanged, p.changed[:idx]...)
	newChanged = append(newChanged, true, true)
	newChanged = append(newChanged, p.changed[idx+1:]...)
	p.changed = newChanged

	p.RecomputeCost()
	return n, nil
}

// NodeAt returns the node that would be created at q without splicing
// it into the path or owning tree: a read-only counterpart to
// InsertAt for callers that just need a Node handle at an on-path
// configuration.
func (p *Path) NodeAt(q Configuration) (*Node, error) {
	conn, _ := p.FindConnection(q)
	if conn == nil {
		return nil, ErrNotOnPath
	}
	if sameConfig(q, conn.parent.q) {
		return conn.parent, nil
	}
	if sameConfig(q, conn.child.q) {
		return conn.child, nil
	}
	return NewNode(q.Clone()), nil
}

// Flip reverses every connection in place and reverses the connection
// list, so that calling Flip twice restores the original path.
func (p *Path) Flip() {
	for _, c := range p.connections {
		c.Flip()
	}
	for i, j := 0, len(p.connections)-1; i < j; i, j = i+1, j-1 {
		p.connections[i], p.connections[j] = p.connections[j], p.connections[i]
	}
}

// subpathToIndex returns a new Path over connections[:upTo], sharing
// the same graph (no copying). upTo must be >= 1.
func (p *Path) subpathToIndex(upTo int) (*Path, error) {
	conns := append([]*Connection(nil), p.connections[:upTo]...)
	return NewPath(conns, p.metric, p.checker)
}

func (p *Path) subpathFromIndex(from int) (*Path, error) {
	conns := append([]*Connection(nil), p.connections[from:]...)
	return NewPath(conns, p.metric, p.checker)
}

// cloneConnections deep-copies a run of connections and re-links the
// clones to one another, exactly as Path.Clone does for a whole path.
func cloneConnections(conns []*Connection) []*Connection {
	out := make([]*Connection, len(conns))
	for i, c := range conns {
		out[i] = c.Clone()
	}
	for i := 1; i < len(out); i++ {
		prevChild := out[i-1].child
		out[i].Detach()
		out[i].parent = prevChild
		out[i].Attach()
	}
	return out
}

// SubpathTo returns the subpath from the start up to conf, which must
// lie on the path. When getCopy is true the result shares no
// nodes/edges with this path; otherwise conf is first spliced in with
// InsertAt and the returned subpath references the real graph.
func (p *Path) SubpathTo(conf Configuration, getCopy bool) (*Path, error) {
	for i, wp := range p.Waypoints() {
		if sameConfig(conf, wp) {
			sub, err := p.subpathToIndex(i)
			if err != nil {
				return nil, err
			}
			if getCopy {
				return sub.Clone(), nil
			}
			return sub, nil
		}
	}

	conn, idx := p.FindConnection(conf)
	if conn == nil {
		return nil, errors.Wrap(ErrInvalidArgument, "subpath requested from a configuration not on the path")
	}

	if !getCopy {
		n, err := p.InsertAt(conf)
		if err != nil {
			return nil, err
		}
		for i, wp := range p.Waypoints() {
			if wp.equalsNode(n) {
				return p.subpathToIndex(i)
			}
		}
		return nil, ErrNotOnPath
	}

	// The head is everything strictly before conn (idx connections,
	// p.connections[:idx]); conf itself becomes a fresh tail node
	// stitched onto a clone of that head.
	head := cloneConnections(p.connections[:idx])

	var cost float64
	if math.IsInf(conn.Cost(), 1) && !p.checker.CheckPath(conn.parent.q, conf) {
		cost = math.Inf(1)
	} else {
		cost = p.metric.Cost(conn.parent.q, conf)
	}

	var lastNode *Node
	if len(head) > 0 {
		lastNode = head[len(head)-1].child
	} else {
		lastNode = NewNode(conn.parent.q.Clone())
	}
	tail := NewNode(conf.Clone())
	tailConn := NewConnection(lastNode, tail)
	tailConn.SetCost(cost)
	tailConn.Attach()

	allConns := append(head, tailConn)
	return NewPath(allConns, p.metric, p.checker)
}

// SubpathFrom is SubpathTo's mirror: the subpath from conf to the
// path's end.
func (p *Path) SubpathFrom(conf Configuration, getCopy bool) (*Path, error) {
	for i, wp := range p.Waypoints() {
		if sameConfig(conf, wp) {
			sub, err := p.subpathFromIndex(i)
			if err != nil {
				return nil, err
			}
			if getCopy {
				return sub.Clone(), nil
			}
			return sub, nil
		}
	}

	conn, idx := p.FindConnection(conf)
	if conn == nil {
		return nil, errors.Wrap(ErrInvalidArgument, "subpath requested from a configuration not on the path")
	}

	if !getCopy {
		n, err := p.InsertAt(conf)
		if err != nil {
			return nil, err
		}
		for i, wp := range p.Waypoints() {
			if wp.equalsNode(n) {
				return p.subpathFromIndex(i)
			}
		}
		return nil, ErrNotOnPath
	}

	// The tail is everything strictly after conn (p.connections[idx+1:]);
	// conf itself becomes a fresh head node stitched onto a clone of
	// that tail.
	tail := cloneConnections(p.connections[idx+1:])

	var cost float64
	if math.IsInf(conn.Cost(), 1) && !p.checker.CheckPath(conf, conn.child.q) {
		cost = math.Inf(1)
	} else {
		cost = p.metric.Cost(conf, conn.child.q)
	}

	var firstNode *Node
	if len(tail) > 0 {
		firstNode = tail[0].parent
	} else {
		firstNode = NewNode(conn.child.q.Clone())
	}
	head := NewNode(conf.Clone())
	headConn := NewConnection(head, firstNode)
	headConn.SetCost(cost)
	headConn.Attach()

	allConns := append([]*Connection{headConn}, tail...)
	return NewPath(allConns, p.metric, p.checker)
}

// equalsNode reports whether configuration wp is (within tolerance)
// the configuration of node n.
func (wp Configuration) equalsNode(n *Node) bool {
	return sameConfig(wp, n.q)
}

// IsValid re-evaluates every connection against checker (or the
// path's own checker when nil): failing connections have their cost
// set to +Inf, succeeding ones are refreshed from the Metrics. It
// returns the logical AND across all connections.
func (p *Path) IsValid(checker Checker) bool {
	if checker == nil {
		checker = p.checker
	}
	valid := p.isValidFromConn(p.connections[0], checker)
	if !valid {
		p.cost = math.Inf(1)
	} else {
		p.RecomputeCost()
	}
	return valid
}

// IsValidFromConnection applies IsValid's logic only from e onward.
func (p *Path) IsValidFromConnection(e *Connection, checker Checker) bool {
	if checker == nil {
		checker = p.checker
	}
	return p.isValidFromConn(e, checker)
}

func (p *Path) isValidFromConn(from *Connection, checker Checker) bool {
	valid := true
	fromHere := false
	for _, c := range p.connections {
		if c == from {
			fromHere = true
		}
		if !fromHere {
			continue
		}
		if !checker.CheckConnection(c) {
			c.SetCost(math.Inf(1))
			valid = false
		} else {
			c.SetCost(p.metric.Cost(c.parent.q, c.child.q))
		}
	}
	return valid
}

// IsValidFromConf re-checks validity starting from an arbitrary
// on-path configuration, handling conf==parent, conf==child, and
// strictly-between cases, and reports posClosestObsFromGoal, the
// distance in edges from the goal to the nearest +Inf edge (-1 if
// none).
func (p *Path) IsValidFromConf(conf Configuration, checker Checker) (bool, int) {
	if checker == nil {
		checker = p.checker
	}
	posClosestObsFromGoal := -1
	conn, idx := p.FindConnection(conf)
	if conn == nil {
		fatalInvariant("IsValidFromConf: configuration does not lie on the path")
	}

	switch {
	case sameConfig(conf, conn.parent.q):
		valid := p.isValidFromConn(conn, checker)
		if !valid {
			for i := len(p.connections) - 1; i >= idx; i-- {
				if math.IsInf(p.connections[i].Cost(), 1) {
					posClosestObsFromGoal = len(p.connections) - 1 - i
				}
			}
		}
		return valid, posClosestObsFromGoal

	case sameConfig(conf, conn.child.q):
		if idx >= len(p.connections)-1 {
			return true, posClosestObsFromGoal
		}
		next := p.connections[idx+1]
		valid := p.isValidFromConn(next, checker)
		if !valid {
			for i := len(p.connections) - 1; i >= idx+1; i-- {
				if math.IsInf(p.connections[i].Cost(), 1) {
					posClosestObsFromGoal = len(p.connections) - 1 - i
				}
			}
		}
		return valid, posClosestObsFromGoal

	default:
		valid := true
		if !checker.CheckConnectionFromConf(conn, conf) {
			valid = false
			conn.SetCost(math.Inf(1))
			posClosestObsFromGoal = len(p.connections) - 1 - idx
		}
		if idx < len(p.connections)-1 {
			if !p.isValidFromConn(p.connections[idx+1], checker) {
				valid = false
				for i := len(p.connections) - 1; i >= idx+1; i-- {
					if math.IsInf(p.connections[i].Cost(), 1) {
						posClosestObsFromGoal = len(p.connections) - 1 - i
					}
				}
			}
		}
		return valid, posClosestObsFromGoal
	}
}

// Resample is declared but intentionally unimplemented: uniform
// arc-length resubdivision of an existing path is not yet built.
// Callers get a typed sentinel they can detect and skip, rather than a
// silent no-op.
func (p *Path) Resample(distance float64) (bool, error) {
	return false, ErrNotImplemented
}

// Dump renders the line-oriented textual form: a cost line followed by
// a bracketed, semicolon-separated waypoint list.
func (p *Path) Dump() string {
	var b strings.Builder
	fmt.Fprintf(&b, "cost = %v\n", p.cost)
	b.WriteString("waypoints=\n[")
	wp := p.Waypoints()
	for i, q := range wp {
		fmt.Fprintf(&b, "%v", []float64(q))
		if i < len(wp)-1 {
			b.WriteString(";\n")
		}
	}
	b.WriteString("];")
	return b.String()
}

// ToStructured returns the ordered sequence of n+1 configurations
// (node first, then children), in reverse order when reverse is true.
func (p *Path) ToStructured(reverse bool) []Configuration {
	wp := p.Waypoints()
	if !reverse {
		return wp
	}
	out := make([]Configuration, len(wp))
	for i, q := range wp {
		out[len(wp)-1-i] = q
	}
	return out
}
