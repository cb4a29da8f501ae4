package graph

import (
	"testing"
	"time"

	"go.viam.com/test"
)

func straightLinePath(t *testing.T, waypoints []Configuration) *Path {
	t.Helper()
	checker := newBoundsChecker(Configuration{-1000, -1000}, Configuration{1000, 1000})
	nodes := make([]*Node, len(waypoints))
	for i, wp := range waypoints {
		nodes[i] = NewNode(wp)
	}
	p, err := NewPathFromNodes(nodes, EuclideanMetric{}, checker)
	test.That(t, err, test.ShouldBeNil)
	return p
}

func TestNewPathRejectsEmptyAndUnlinked(t *testing.T) {
	checker := newBoundsChecker(Configuration{-10, -10}, Configuration{10, 10})
	_, err := NewPath(nil, EuclideanMetric{}, checker)
	test.That(t, err, test.ShouldNotBeNil)

	a := NewNode(Configuration{0, 0})
	b := NewNode(Configuration{1, 0})
	c := NewNode(Configuration{2, 0})
	d := NewNode(Configuration{3, 0})
	c1 := NewConnection(a, b)
	c2 := NewConnection(c, d) // not linked: c1.child != c2.parent
	c1.Attach()
	c2.Attach()
	_, err = NewPath([]*Connection{c1, c2}, EuclideanMetric{}, checker)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestPathWaypointsAndCost(t *testing.T) {
	p := straightLinePath(t, []Configuration{{0, 0}, {1, 0}, {1, 1}})
	test.That(t, len(p.Waypoints()), test.ShouldEqual, 3)
	test.That(t, p.TotalCost(), test.ShouldAlmostEqual, 2.0)
	test.That(t, p.EuclideanLength(), test.ShouldAlmostEqual, 2.0)
}

func TestPathFindConnectionAndProjectOn(t *testing.T) {
	p := straightLinePath(t, []Configuration{{0, 0}, {10, 0}})
	conn, idx := p.FindConnection(Configuration{5, 0})
	test.That(t, conn, test.ShouldNotBeNil)
	test.That(t, idx, test.ShouldEqual, 0)

	projected := p.ProjectOn(Configuration{5, 3})
	test.That(t, projected, test.ShouldResemble, Configuration{5, 0})
}

func TestPathProjectOnKeepingPastRestrictsWindow(t *testing.T) {
	p := straightLinePath(t, []Configuration{{0, 0}, {10, 0}, {20, 0}, {30, 0}})

	// Restricted to connections {0,1}: a point abreast of the far
	// (third) connection must not be found.
	_, _, ok := p.ProjectOnKeepingPast(Configuration{25, 3}, 0)
	test.That(t, ok, test.ShouldBeFalse)

	proj, idx, ok := p.ProjectOnKeepingPast(Configuration{15, 3}, 0)
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, idx, test.ShouldEqual, 1)
	test.That(t, proj, test.ShouldResemble, Configuration{15, 0})
}

func TestPathProjectOnKeepingAbscissaRejectsRegression(t *testing.T) {
	p := straightLinePath(t, []Configuration{{0, 0}, {10, 0}, {20, 0}})
	pastProjection := Configuration{15, 0}
	pastAbscissa, err := p.ArcLengthOf(pastProjection)
	test.That(t, err, test.ShouldBeNil)

	// A point that would project behind the past abscissa keeps the old
	// projection instead of moving backward.
	proj, abscissa, _ := p.ProjectOnKeepingAbscissa(Configuration{5, 3}, pastProjection, pastAbscissa, 0)
	test.That(t, proj, test.ShouldResemble, pastProjection)
	test.That(t, abscissa, test.ShouldAlmostEqual, pastAbscissa)
}

func TestPathClosestNode(t *testing.T) {
	p := straightLinePath(t, []Configuration{{0, 0}, {10, 0}, {20, 0}})
	n, dist := p.ClosestNode(Configuration{19, 1})
	test.That(t, n.Configuration(), test.ShouldResemble, Configuration{20, 0})
	test.That(t, dist, test.ShouldAlmostEqual, euclideanDistance(Configuration{19, 1}, Configuration{20, 0}))
}

func TestPathCostFromConf(t *testing.T) {
	p := straightLinePath(t, []Configuration{{0, 0}, {10, 0}, {20, 0}})
	cost, err := p.CostFromConf(Configuration{15, 0})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, cost, test.ShouldAlmostEqual, 5.0)

	_, err = p.CostFromConf(Configuration{5, 5})
	test.That(t, err, test.ShouldEqual, ErrNotOnPath)
}

func TestPathRemainingLengthFromConf(t *testing.T) {
	p := straightLinePath(t, []Configuration{{0, 0}, {10, 0}, {20, 0}})
	length, err := p.RemainingLengthFromConf(Configuration{15, 0})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, length, test.ShouldAlmostEqual, 5.0)
}

// TestPathRemoveColinearNodesMergesStraightRun exercises the S1-style
// scenario: three colinear waypoints collapse to the single shortcut
// edge, summing cost and freeing the interior node.
func TestPathRemoveColinearNodesMergesStraightRun(t *testing.T) {
	p := straightLinePath(t, []Configuration{{0, 0}, {5, 0}, {10, 0}})
	mid := p.Nodes()[1]

	removed := p.RemoveColinearNodes(nil)
	test.That(t, removed, test.ShouldBeTrue)
	test.That(t, len(p.Connections()), test.ShouldEqual, 1)
	test.That(t, p.TotalCost(), test.ShouldAlmostEqual, 10.0)
	test.That(t, len(mid.Parents()), test.ShouldEqual, 0)
	test.That(t, len(mid.Children()), test.ShouldEqual, 0)
}

func TestPathRemoveColinearNodesRespectsWhitelist(t *testing.T) {
	p := straightLinePath(t, []Configuration{{0, 0}, {5, 0}, {10, 0}})
	mid := p.Nodes()[1]

	removed := p.RemoveColinearNodes([]*Node{mid})
	test.That(t, removed, test.ShouldBeFalse)
	test.That(t, len(p.Connections()), test.ShouldEqual, 2)
}

// TestPathWarpStraightensAngle exercises the S2-style scenario: warping
// a V-shaped path shortens it without leaving the checker's free space.
func TestPathWarpStraightensAngle(t *testing.T) {
	p := straightLinePath(t, []Configuration{{0, 0}, {5, 5}, {10, 0}})
	before := p.EuclideanLength()

	for i := 0; i < 20; i++ {
		if !p.Warp(1e-6, time.Second) {
			break
		}
	}

	after := p.EuclideanLength()
	test.That(t, after, test.ShouldBeLessThan, before)
	// Endpoints are never moved by warp.
	wp := p.Waypoints()
	test.That(t, wp[0], test.ShouldResemble, Configuration{0, 0})
	test.That(t, wp[len(wp)-1], test.ShouldResemble, Configuration{10, 0})
}

func TestPathWarpNoOpOnShortEdges(t *testing.T) {
	p := straightLinePath(t, []Configuration{{0, 0}, {0.01, 0.01}, {0.02, 0}})
	before := p.Waypoints()[1]
	p.Warp(1.0, time.Second)
	// Edges below the threshold are never bisected, so the vertex
	// between them keeps its original configuration.
	test.That(t, p.Waypoints()[1], test.ShouldResemble, before)
}

// TestPathSimplifyShortcutsSingleShortEdge exercises the special-case
// branch: the very first edge is shorter than threshold, so index 0 is
// also tried as a shortcut candidate.
func TestPathSimplifyShortcutsSingleShortEdge(t *testing.T) {
	p := straightLinePath(t, []Configuration{{0, 0}, {0.1, 0}, {10, 0}})
	simplified := p.Simplify(1.0)
	test.That(t, simplified, test.ShouldBeTrue)
	test.That(t, len(p.Connections()), test.ShouldEqual, 1)
	test.That(t, p.TotalCost(), test.ShouldAlmostEqual, 10.0)
}

func TestPathSimplifyLeavesLongEdgesAlone(t *testing.T) {
	p := straightLinePath(t, []Configuration{{0, 0}, {10, 0}, {20, 0}})
	simplified := p.Simplify(1.0)
	test.That(t, simplified, test.ShouldBeFalse)
	test.That(t, len(p.Connections()), test.ShouldEqual, 2)
}

func TestPathInsertAtSumsLengthAcrossSplit(t *testing.T) {
	p := straightLinePath(t, []Configuration{{0, 0}, {10, 0}})
	before := p.EuclideanLength()

	n, err := p.InsertAt(Configuration{4, 0})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, n.Configuration(), test.ShouldResemble, Configuration{4, 0})
	test.That(t, len(p.Connections()), test.ShouldEqual, 2)
	test.That(t, p.EuclideanLength(), test.ShouldAlmostEqual, before)
}

func TestPathInsertAtOnExistingWaypointReturnsExistingNode(t *testing.T) {
	p := straightLinePath(t, []Configuration{{0, 0}, {10, 0}, {20, 0}})
	mid := p.Nodes()[1]

	n, err := p.InsertAt(Configuration{10, 0})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, n, test.ShouldEqual, mid)
	test.That(t, len(p.Connections()), test.ShouldEqual, 2)
}

func TestPathFlipIsInvolution(t *testing.T) {
	p := straightLinePath(t, []Configuration{{0, 0}, {5, 0}, {10, 0}})
	original := p.Waypoints()

	p.Flip()
	flipped := p.Waypoints()
	test.That(t, flipped[0], test.ShouldResemble, original[len(original)-1])
	test.That(t, flipped[len(flipped)-1], test.ShouldResemble, original[0])

	p.Flip()
	test.That(t, p.Waypoints(), test.ShouldResemble, original)
}

// TestPathSubpathToCopyIsFreshlyAllocated exercises the S6-style
// scenario: a copied subpath shares no node identity with the source
// path, even when the split point falls inside the first connection.
func TestPathSubpathToCopyIsFreshlyAllocated(t *testing.T) {
	p := straightLinePath(t, []Configuration{{0, 0}, {10, 0}, {20, 0}})

	sub, err := p.SubpathTo(Configuration{3, 0}, true)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, len(sub.Connections()), test.ShouldEqual, 1)
	test.That(t, sub.Waypoints()[0], test.ShouldResemble, Configuration{0, 0})
	test.That(t, sub.Waypoints()[1], test.ShouldResemble, Configuration{3, 0})

	for _, c := range sub.Connections() {
		for _, pc := range p.Connections() {
			test.That(t, c.Parent(), test.ShouldNotEqual, pc.Parent())
			test.That(t, c.Child(), test.ShouldNotEqual, pc.Child())
		}
	}
}

func TestPathSubpathFromCopyIsFreshlyAllocated(t *testing.T) {
	p := straightLinePath(t, []Configuration{{0, 0}, {10, 0}, {20, 0}})

	sub, err := p.SubpathFrom(Configuration{17, 0}, true)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, len(sub.Connections()), test.ShouldEqual, 1)
	wp := sub.Waypoints()
	test.That(t, wp[0], test.ShouldResemble, Configuration{17, 0})
	test.That(t, wp[len(wp)-1], test.ShouldResemble, Configuration{20, 0})
}

func TestPathSubpathOnExistingWaypointSharesNoCopyOverhead(t *testing.T) {
	p := straightLinePath(t, []Configuration{{0, 0}, {10, 0}, {20, 0}})
	sub, err := p.SubpathTo(Configuration{10, 0}, false)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, len(sub.Connections()), test.ShouldEqual, 1)
}

func TestPathIsValidMarksBlockedConnectionsInfinite(t *testing.T) {
	checker := newBoundsChecker(Configuration{-100, -100}, Configuration{100, 100}).
		withObstacle(Configuration{4, -1}, Configuration{6, 1})
	nodes := []*Node{NewNode(Configuration{0, 0}), NewNode(Configuration{10, 0})}
	p, err := NewPathFromNodes(nodes, EuclideanMetric{}, checker)
	test.That(t, err, test.ShouldBeNil)

	valid := p.IsValid(nil)
	test.That(t, valid, test.ShouldBeFalse)
	test.That(t, mustNotBeInf(p.TotalCost()), test.ShouldBeFalse)
}

// TestPathIsValidFromConnectionLeavesEarlierConnectionsAlone exercises
// IsValidFromConnection's "only re-check from e onward" restriction: an
// obstacle on the second connection invalidates it without disturbing
// the already-valid first connection's cost.
func TestPathIsValidFromConnectionLeavesEarlierConnectionsAlone(t *testing.T) {
	checker := newBoundsChecker(Configuration{-100, -100}, Configuration{100, 100}).
		withObstacle(Configuration{14, -1}, Configuration{16, 1})
	nodes := []*Node{
		NewNode(Configuration{0, 0}),
		NewNode(Configuration{10, 0}),
		NewNode(Configuration{20, 0}),
		NewNode(Configuration{30, 0}),
	}
	p, err := NewPathFromNodes(nodes, EuclideanMetric{}, checker)
	test.That(t, err, test.ShouldBeNil)
	firstCostBefore := p.Connections()[0].Cost()

	valid := p.IsValidFromConnection(p.Connections()[1], nil)
	test.That(t, valid, test.ShouldBeFalse)
	test.That(t, p.Connections()[0].Cost(), test.ShouldAlmostEqual, firstCostBefore)
	test.That(t, mustNotBeInf(p.Connections()[1].Cost()), test.ShouldBeFalse)
	test.That(t, mustNotBeInf(p.Connections()[2].Cost()), test.ShouldBeTrue)
}

func TestPathIsValidFromConfUnobstructedMidConnection(t *testing.T) {
	checker := newBoundsChecker(Configuration{-100, -100}, Configuration{100, 100})
	nodes := []*Node{
		NewNode(Configuration{0, 0}),
		NewNode(Configuration{10, 0}),
		NewNode(Configuration{30, 0}),
	}
	p, err := NewPathFromNodes(nodes, EuclideanMetric{}, checker)
	test.That(t, err, test.ShouldBeNil)

	valid, posClosestObsFromGoal := p.IsValidFromConf(Configuration{20, 0}, nil)
	test.That(t, valid, test.ShouldBeTrue)
	test.That(t, posClosestObsFromGoal, test.ShouldEqual, -1)
}

// TestPathIsValidFromConfDetectsMidConnectionObstacle checks a
// configuration that falls strictly between a connection's endpoints
// (neither the parent nor the child), with an obstacle ahead of it on
// that same connection.
func TestPathIsValidFromConfDetectsMidConnectionObstacle(t *testing.T) {
	checker := newBoundsChecker(Configuration{-100, -100}, Configuration{100, 100}).
		withObstacle(Configuration{24, -1}, Configuration{26, 1})
	nodes := []*Node{
		NewNode(Configuration{0, 0}),
		NewNode(Configuration{10, 0}),
		NewNode(Configuration{30, 0}),
	}
	p, err := NewPathFromNodes(nodes, EuclideanMetric{}, checker)
	test.That(t, err, test.ShouldBeNil)

	valid, posClosestObsFromGoal := p.IsValidFromConf(Configuration{20, 0}, nil)
	test.That(t, valid, test.ShouldBeFalse)
	test.That(t, posClosestObsFromGoal, test.ShouldEqual, 0)
}

func TestPathDumpFormatsCostAndWaypoints(t *testing.T) {
	p := straightLinePath(t, []Configuration{{0, 0}, {5, 0}, {10, 0}})
	expected := "cost = 10\nwaypoints=\n[[0 0];\n[5 0];\n[10 0]];"
	test.That(t, p.Dump(), test.ShouldEqual, expected)
}

func TestPathToStructuredOrdersForwardAndReverse(t *testing.T) {
	p := straightLinePath(t, []Configuration{{0, 0}, {5, 0}, {10, 0}})
	forward := p.ToStructured(false)
	test.That(t, forward, test.ShouldResemble, p.Waypoints())

	reversed := p.ToStructured(true)
	test.That(t, reversed, test.ShouldResemble, []Configuration{{10, 0}, {5, 0}, {0, 0}})
}

func TestPathNodeAtOnExistingWaypointReturnsExistingNode(t *testing.T) {
	p := straightLinePath(t, []Configuration{{0, 0}, {10, 0}, {20, 0}})
	mid := p.Nodes()[1]

	n, err := p.NodeAt(Configuration{10, 0})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, n, test.ShouldEqual, mid)
}

// TestPathNodeAtDoesNotSplicePath inserts at a fresh configuration
// strictly inside the first connection (not the path's end) and checks
// that, unlike InsertAt, the returned node is never attached to the
// path or the graph.
func TestPathNodeAtDoesNotSplicePath(t *testing.T) {
	p := straightLinePath(t, []Configuration{{0, 0}, {10, 0}, {20, 0}})

	n, err := p.NodeAt(Configuration{5, 0})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, n.Configuration(), test.ShouldResemble, Configuration{5, 0})
	test.That(t, len(n.Parents()), test.ShouldEqual, 0)
	test.That(t, len(n.Children()), test.ShouldEqual, 0)
	test.That(t, len(p.Connections()), test.ShouldEqual, 2)
}

func TestPathResampleIsUnimplemented(t *testing.T) {
	p := straightLinePath(t, []Configuration{{0, 0}, {10, 0}})
	ok, err := p.Resample(1.0)
	test.That(t, ok, test.ShouldBeFalse)
	test.That(t, err, test.ShouldEqual, ErrNotImplemented)
}

func TestPathCloneIsIndependent(t *testing.T) {
	p := straightLinePath(t, []Configuration{{0, 0}, {10, 0}})
	clone := p.Clone()
	test.That(t, clone.TotalCost(), test.ShouldAlmostEqual, p.TotalCost())
	test.That(t, clone.Nodes()[0], test.ShouldNotEqual, p.Nodes()[0])
	test.That(t, clone.Tree(), test.ShouldBeNil)
}
