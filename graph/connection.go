package graph

// Connection is a directed edge parent -> child. It holds relation-only
// references to its endpoints (never ownership of them), a cached
// Euclidean norm computed at construction time, a cost that may be
// +Inf to denote an obstructed/invalid edge, an "added" flag recording
// whether it is currently attached to its endpoints' adjacency lists,
// and an optional scalar time used by time-aware solver variants.
//
// A Connection's norm is fixed at construction: geometry changes are
// made by building a fresh Connection, never by mutating an endpoint
// in place, so an attached Connection's norm always matches its
// endpoints' current distance.
type Connection struct {
	parent *Node
	child  *Node
	norm   float64
	cost   float64
	added  bool
	time   float64
}

// NewConnection builds a detached connection from parent to child and
// caches the Euclidean distance between them.
func NewConnection(parent, child *Node) *Connection {
	return &Connection{
		parent: parent,
		child:  child,
		norm:   euclideanDistance(parent.q, child.q),
	}
}

// Parent returns the connection's tail node.
func (c *Connection) Parent() *Node { return c.parent }

// Child returns the connection's head node.
func (c *Connection) Child() *Node { return c.child }

// Norm returns the cached Euclidean length of the connection.
func (c *Connection) Norm() float64 { return c.norm }

// Cost returns the connection's cost, possibly +Inf.
func (c *Connection) Cost() float64 { return c.cost }

// SetCost sets the connection's cost.
func (c *Connection) SetCost(cost float64) { c.cost = cost }

// Added reports whether the connection is currently attached.
func (c *Connection) Added() bool { return c.added }

// Time returns the connection's optional time-domain scalar.
func (c *Connection) Time() float64 { return c.time }

// SetTime sets the connection's optional time-domain scalar.
func (c *Connection) SetTime(t float64) { c.time = t }

// Attach pushes the connection into its endpoints' adjacency lists.
// It is a no-op if already attached.
func (c *Connection) Attach() {
	if c.added {
		return
	}
	c.added = true
	c.parent.addChildConnection(c)
	c.child.addParentConnection(c)
}

// Detach removes the connection from its endpoints' adjacency lists.
// It is idempotent: detaching an already-detached connection is a
// no-op. Detaching with a destroyed endpoint is a fatal invariant
// violation.
func (c *Connection) Detach() {
	if !c.added {
		return
	}
	if c.parent == nil {
		fatalInvariant("connection detach: parent already destroyed")
	}
	if c.child == nil {
		fatalInvariant("connection detach: child already destroyed")
	}
	c.added = false
	c.parent.removeChildConnection(c)
	c.child.removeParentConnection(c)
}

// Flip detaches, swaps endpoints, and re-attaches.
func (c *Connection) Flip() {
	wasAdded := c.added
	if wasAdded {
		c.Detach()
	}
	c.parent, c.child = c.child, c.parent
	if wasAdded {
		c.Attach()
	}
}

// Clone produces a new, attached connection between freshly allocated
// copies of the endpoint configurations, preserving cost.
func (c *Connection) Clone() *Connection {
	newParent := NewNode(c.parent.q.Clone())
	newChild := NewNode(c.child.q.Clone())
	nc := NewConnection(newParent, newChild)
	nc.cost = c.cost
	nc.time = c.time
	nc.Attach()
	return nc
}

// IsParallel reports whether c and other point in the same orientation
// (not anti-parallel): the signed dot product of their direction
// vectors is at least the product of their norms minus tol.
func (c *Connection) IsParallel(other *Connection, tol float64) bool {
	v1 := subConfig(c.child.q, c.parent.q)
	v2 := subConfig(other.child.q, other.parent.q)
	scalarProduct := dot(v1, v2)
	return scalarProduct >= (c.norm*other.norm)-tol
}
