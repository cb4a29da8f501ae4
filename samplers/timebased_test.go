package samplers

import (
	"math"
	"testing"

	"go.viam.com/test"

	"github.com/JRL-CARI-CNR-UNIBS/cari-motion-planning/graph"
)

func TestTimeBasedSampleUnconstrainedWithoutCost(t *testing.T) {
	inner := NewUniform(graph.Configuration{0}, graph.Configuration{10}, graph.Configuration{0}, graph.Configuration{10})
	ts := NewTimeBased(inner, graph.Configuration{1})
	test.That(t, math.IsInf(ts.Cost(), 1), test.ShouldBeTrue)

	q := ts.Sample()
	test.That(t, len(q), test.ShouldEqual, 1)
}

func TestTimeBasedRejectsSlowerThanBudget(t *testing.T) {
	inner := NewUniform(graph.Configuration{-10}, graph.Configuration{20}, graph.Configuration{0}, graph.Configuration{10})
	ts := NewTimeBased(inner, graph.Configuration{1})

	// With max speed 1 unit/s, start 0 and stop 10, a draw q costs
	// |0-q|+|q-10| seconds: exactly 10 inside [0,10] and more outside
	// it. With a 10s budget, draws outside [0,10] are rejected, so every
	// returned sample stays within the budget.
	ts.UpdateCost(10.0)
	for i := 0; i < 50; i++ {
		q := ts.Sample()
		timeCost := math.Abs(q[0]-0) + math.Abs(10-q[0])
		test.That(t, timeCost <= 10.0+1e-9, test.ShouldBeTrue)
	}
}
