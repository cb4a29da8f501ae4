package graph

import (
	"context"
	"math"

	"golang.org/x/sync/errgroup"
)

// neighborManager splits nearest-neighbor search between a simple
// serial scan and a worker-parallel scan once the candidate set grows
// past parallelNeighbors, avoiding goroutine fan-out overhead on small
// trees.
type neighborManager struct {
	nCPU              int
	parallelNeighbors int
}

func newNeighborManager(nCPU, parallelNeighbors int) *neighborManager {
	if nCPU < 1 {
		nCPU = 1
	}
	return &neighborManager{nCPU: nCPU, parallelNeighbors: parallelNeighbors}
}

// nearest returns the node in nodes minimizing metric.Cost(n.q, q).
// nodes must be non-empty; nearest on an empty set is a fatal
// invariant violation, not a normal "not found" result.
func (nm *neighborManager) nearest(ctx context.Context, q Configuration, metric Metrics, nodes []*Node) *Node {
	if len(nodes) == 0 {
		fatalInvariant("nearest neighbor requested on an empty node set")
	}
	if len(nodes) < nm.parallelNeighbors {
		return nearestSerial(q, metric, nodes)
	}
	return nm.nearestParallel(ctx, q, metric, nodes)
}

func nearestSerial(q Configuration, metric Metrics, nodes []*Node) *Node {
	best := nodes[0]
	bestCost := metric.Cost(best.q, q)
	for _, n := range nodes[1:] {
		if cost := metric.Cost(n.q, q); cost < bestCost {
			bestCost = cost
			best = n
		}
	}
	return best
}

func (nm *neighborManager) nearestParallel(ctx context.Context, q Configuration, metric Metrics, nodes []*Node) *Node {
	chunks := chunkNodes(nodes, nm.nCPU)
	bests := make([]*Node, len(chunks))
	bestCosts := make([]float64, len(chunks))

	g, _ := errgroup.WithContext(ctx)
	for i, chunk := range chunks {
		i, chunk := i, chunk
		g.Go(func() error {
			bests[i] = nearestSerial(q, metric, chunk)
			bestCosts[i] = metric.Cost(bests[i].q, q)
			return nil
		})
	}
	_ = g.Wait() // workers never return an error; Wait only joins them

	best := bests[0]
	bestCost := bestCosts[0]
	for i := 1; i < len(bests); i++ {
		if bestCosts[i] < bestCost {
			bestCost = bestCosts[i]
			best = bests[i]
		}
	}
	return best
}

func chunkNodes(nodes []*Node, n int) [][]*Node {
	if n > len(nodes) {
		n = len(nodes)
	}
	chunks := make([][]*Node, 0, n)
	size := int(math.Ceil(float64(len(nodes)) / float64(n)))
	for start := 0; start < len(nodes); start += size {
		end := start + size
		if end > len(nodes) {
			end = len(nodes)
		}
		chunks = append(chunks, nodes[start:end])
	}
	return chunks
}
