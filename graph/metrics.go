package graph

// EuclideanMetric is the default Metrics implementation: plain L2
// distance in configuration space. It is symmetric and satisfies
// Cost(q,q)=0, as every Metrics implementation must.
type EuclideanMetric struct{}

// Cost returns the Euclidean distance between a and b.
func (EuclideanMetric) Cost(a, b Configuration) float64 {
	return euclideanDistance(a, b)
}

// CostNodes returns the Euclidean distance between a.Configuration()
// and b.Configuration().
func (EuclideanMetric) CostNodes(a, b *Node) float64 {
	return euclideanDistance(a.q, b.q)
}
