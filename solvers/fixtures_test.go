package solvers

import (
	"github.com/JRL-CARI-CNR-UNIBS/cari-motion-planning/graph"
)

// openChecker accepts every configuration and edge within fixed
// bounds: enough to exercise solver growth without a real collision
// checker.
type openChecker struct {
	lower, upper graph.Configuration
}

func newOpenChecker(lower, upper graph.Configuration) *openChecker {
	return &openChecker{lower: lower, upper: upper}
}

func (c *openChecker) Check(q graph.Configuration) bool {
	for i := range q {
		if q[i] < c.lower[i] || q[i] > c.upper[i] {
			return false
		}
	}
	return true
}

func (c *openChecker) CheckPath(a, b graph.Configuration) bool {
	return c.Check(a) && c.Check(b)
}

func (c *openChecker) CheckConnection(e *graph.Connection) bool {
	return c.CheckPath(e.Parent().Configuration(), e.Child().Configuration())
}

func (c *openChecker) CheckConnectionFromConf(e *graph.Connection, q graph.Configuration) bool {
	return c.CheckPath(q, e.Child().Configuration())
}

func (c *openChecker) Clone() graph.Checker {
	return &openChecker{lower: c.lower.Clone(), upper: c.upper.Clone()}
}

func (c *openChecker) MinDistance() float64 { return 0 }

func (c *openChecker) GroupName() string { return "test" }

var _ graph.Checker = (*openChecker)(nil)

// fixedSequenceSampler replays a fixed sequence of configurations,
// cycling once exhausted, so solver growth tests are deterministic.
type fixedSequenceSampler struct {
	seq        []graph.Configuration
	i          int
	start, stop graph.Configuration
	lower, upper graph.Configuration
	cost       float64
}

func newFixedSequenceSampler(seq []graph.Configuration, lower, upper graph.Configuration) *fixedSequenceSampler {
	return &fixedSequenceSampler{seq: seq, lower: lower, upper: upper, start: seq[0], stop: seq[len(seq)-1]}
}

func (s *fixedSequenceSampler) Sample() graph.Configuration {
	q := s.seq[s.i%len(s.seq)]
	s.i++
	return q
}

func (s *fixedSequenceSampler) StartConfig() graph.Configuration { return s.start }
func (s *fixedSequenceSampler) StopConfig() graph.Configuration  { return s.stop }
func (s *fixedSequenceSampler) Lower() graph.Configuration       { return s.lower }
func (s *fixedSequenceSampler) Upper() graph.Configuration       { return s.upper }
func (s *fixedSequenceSampler) Cost() float64                    { return s.cost }
func (s *fixedSequenceSampler) UpdateCost(c float64)             { s.cost = c }

var _ graph.Sampler = (*fixedSequenceSampler)(nil)
