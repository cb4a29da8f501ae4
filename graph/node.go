package graph

// Node is a point in configuration space together with its incoming
// ("parent") and outgoing ("child") adjacency lists. A node may belong
// to many paths and trees simultaneously; it never mutates its
// configuration after construction.
type Node struct {
	q        Configuration
	parents  []*Connection
	children []*Connection
}

// NewNode allocates a node owning q. q is not copied; callers that
// need an independent configuration should clone it first.
func NewNode(q Configuration) *Node {
	return &Node{q: q}
}

// Configuration returns the node's point in configuration space.
func (n *Node) Configuration() Configuration {
	return n.q
}

// Parents returns the node's incoming edges.
func (n *Node) Parents() []*Connection {
	return n.parents
}

// Children returns the node's outgoing edges.
func (n *Node) Children() []*Connection {
	return n.children
}

func (n *Node) addParentConnection(e *Connection) {
	n.parents = append(n.parents, e)
}

func (n *Node) addChildConnection(e *Connection) {
	n.children = append(n.children, e)
}

func (n *Node) removeParentConnection(e *Connection) {
	n.parents = removeConnection(n.parents, e)
}

func (n *Node) removeChildConnection(e *Connection) {
	n.children = removeConnection(n.children, e)
}

func removeConnection(list []*Connection, e *Connection) []*Connection {
	for i, c := range list {
		if c == e {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}

// Disconnect detaches every edge incident to n, leaving n with no
// parents and no children. It must be called before n is discarded
// while still attached; destroying an attached node is a fatal
// invariant violation.
func (n *Node) Disconnect() {
	for len(n.parents) > 0 {
		n.parents[0].Detach()
	}
	for len(n.children) > 0 {
		n.children[0].Detach()
	}
}
