package graph

import (
	"testing"

	"go.viam.com/test"
)

func TestNodeAttachDetach(t *testing.T) {
	a := NewNode(Configuration{0, 0})
	b := NewNode(Configuration{1, 0})
	c := NewConnection(a, b)

	test.That(t, c.Added(), test.ShouldBeFalse)
	test.That(t, len(a.Children()), test.ShouldEqual, 0)
	test.That(t, len(b.Parents()), test.ShouldEqual, 0)

	c.Attach()
	test.That(t, c.Added(), test.ShouldBeTrue)
	test.That(t, a.Children(), test.ShouldResemble, []*Connection{c})
	test.That(t, b.Parents(), test.ShouldResemble, []*Connection{c})

	c.Detach()
	test.That(t, c.Added(), test.ShouldBeFalse)
	test.That(t, len(a.Children()), test.ShouldEqual, 0)
	test.That(t, len(b.Parents()), test.ShouldEqual, 0)

	// Detach is idempotent.
	c.Detach()
	test.That(t, c.Added(), test.ShouldBeFalse)
}

func TestNodeDisconnect(t *testing.T) {
	root := NewNode(Configuration{0, 0})
	mid := NewNode(Configuration{1, 0})
	leaf := NewNode(Configuration{2, 0})

	c1 := NewConnection(root, mid)
	c2 := NewConnection(mid, leaf)
	c1.Attach()
	c2.Attach()

	test.That(t, len(mid.Parents()), test.ShouldEqual, 1)
	test.That(t, len(mid.Children()), test.ShouldEqual, 1)

	mid.Disconnect()

	test.That(t, len(mid.Parents()), test.ShouldEqual, 0)
	test.That(t, len(mid.Children()), test.ShouldEqual, 0)
	test.That(t, len(root.Children()), test.ShouldEqual, 0)
	test.That(t, len(leaf.Parents()), test.ShouldEqual, 0)
	test.That(t, c1.Added(), test.ShouldBeFalse)
	test.That(t, c2.Added(), test.ShouldBeFalse)
}
