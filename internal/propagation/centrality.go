package propagation

import (
	"errors"
	"math"

	"go.uber.org/zap"
)

// Centrality measure names recorded in results.
const (
	MeasureEigenvector = "eigenvector"
	MeasureDegree      = "degree"
)

// ErrNoConvergence is returned when the eigenvector power iteration fails
// to converge within its iteration budget.
var ErrNoConvergence = errors.New("eigenvector centrality did not converge")

const (
	eigenMaxIter = 100
	eigenTol     = 1e-6
)

// Centrality holds per-node centrality measures over a propagation graph.
// All maps contain every node in the graph; identities absent from the
// graph simply have no entry and should be read as 0.
//
// EigenSlot holds eigenvector centrality when the power iteration
// converged, and degree centrality otherwise; MeasureUsed records which.
// Eigenvector centrality is undefined or non-convergent on graphs with
// multiple disconnected components, which propagation graphs usually have.
type Centrality struct {
	Betweenness map[string]float64
	Closeness   map[string]float64
	Degree      map[string]float64
	EigenSlot   map[string]float64
	MeasureUsed string
}

// ComputeCentrality computes betweenness, closeness and degree centrality
// over g, attempts eigenvector centrality and falls back to degree on
// non-convergence. All measures are unweighted over the directed edges.
func ComputeCentrality(g *Graph, logger *zap.Logger) *Centrality {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Centrality{
		Betweenness: betweenness(g),
		Closeness:   closeness(g),
		Degree:      degree(g),
	}

	eigen, err := eigenvector(g)
	if err != nil {
		logger.Warn("eigenvector centrality unavailable, substituting degree centrality",
			zap.Error(err))
		c.EigenSlot = c.Degree
		c.MeasureUsed = MeasureDegree
	} else {
		c.EigenSlot = eigen
		c.MeasureUsed = MeasureEigenvector
	}
	return c
}

// degree returns (in+out degree) / (n-1) per node.
func degree(g *Graph) map[string]float64 {
	out := make(map[string]float64, g.Len())
	if g.Len() <= 1 {
		for i := range g.nodes {
			out[g.nodes[i].id] = 0
		}
		return out
	}
	denom := float64(g.Len() - 1)
	for i := range g.nodes {
		out[g.nodes[i].id] = float64(len(g.nodes[i].out)+len(g.nodes[i].in)) / denom
	}
	return out
}

// betweenness implements Brandes' algorithm over unweighted shortest paths,
// normalized by 1/((n-1)(n-2)) as usual for directed graphs.
func betweenness(g *Graph) map[string]float64 {
	n := g.Len()
	bc := make([]float64, n)

	stack := make([]int, 0, n)
	preds := make([][]int, n)
	sigma := make([]float64, n)
	dist := make([]int, n)
	delta := make([]float64, n)
	queue := make([]int, 0, n)

	for s := 0; s < n; s++ {
		stack = stack[:0]
		for i := 0; i < n; i++ {
			preds[i] = preds[i][:0]
			sigma[i] = 0
			dist[i] = -1
			delta[i] = 0
		}
		sigma[s] = 1
		dist[s] = 0
		queue = append(queue[:0], s)

		for len(queue) > 0 {
			v := queue[0]
			queue = queue[1:]
			stack = append(stack, v)
			for _, he := range g.nodes[v].out {
				w := he.peer
				if dist[w] < 0 {
					dist[w] = dist[v] + 1
					queue = append(queue, w)
				}
				if dist[w] == dist[v]+1 {
					sigma[w] += sigma[v]
					preds[w] = append(preds[w], v)
				}
			}
		}

		for i := len(stack) - 1; i >= 0; i-- {
			w := stack[i]
			for _, v := range preds[w] {
				delta[v] += sigma[v] / sigma[w] * (1 + delta[w])
			}
			if w != s {
				bc[w] += delta[w]
			}
		}
	}

	out := make(map[string]float64, n)
	scale := 0.0
	if n > 2 {
		scale = 1 / float64((n-1)*(n-2))
	}
	for i := range g.nodes {
		out[g.nodes[i].id] = bc[i] * scale
	}
	return out
}

// closeness computes closeness centrality over incoming paths (how quickly
// delay reaches a node), with the Wasserman-Faust reachable-fraction
// scaling so disconnected components do not inflate scores.
func closeness(g *Graph) map[string]float64 {
	n := g.Len()
	out := make(map[string]float64, n)
	dist := make([]int, n)
	queue := make([]int, 0, n)

	for u := 0; u < n; u++ {
		for i := range dist {
			dist[i] = -1
		}
		dist[u] = 0
		queue = append(queue[:0], u)
		sum := 0
		reach := 1
		for len(queue) > 0 {
			v := queue[0]
			queue = queue[1:]
			for _, he := range g.nodes[v].in {
				w := he.peer
				if dist[w] < 0 {
					dist[w] = dist[v] + 1
					sum += dist[w]
					reach++
					queue = append(queue, w)
				}
			}
		}
		if sum == 0 || n <= 1 {
			out[g.nodes[u].id] = 0
			continue
		}
		frac := float64(reach-1) / float64(n-1)
		out[g.nodes[u].id] = float64(reach-1) / float64(sum) * frac
	}
	return out
}

// eigenvector runs power iteration accumulating from in-neighbors,
// L2-normalized each round.
func eigenvector(g *Graph) (map[string]float64, error) {
	n := g.Len()
	if n == 0 {
		return map[string]float64{}, nil
	}
	x := make([]float64, n)
	next := make([]float64, n)
	for i := range x {
		x[i] = 1 / float64(n)
	}

	for iter := 0; iter < eigenMaxIter; iter++ {
		for i := range next {
			next[i] = 0
		}
		for v := range g.nodes {
			for _, he := range g.nodes[v].out {
				next[he.peer] += x[v]
			}
		}
		norm := 0.0
		for _, v := range next {
			norm += v * v
		}
		norm = math.Sqrt(norm)
		if norm == 0 {
			return nil, ErrNoConvergence
		}
		diff := 0.0
		for i := range next {
			next[i] /= norm
			diff += math.Abs(next[i] - x[i])
		}
		x, next = next, x
		if diff < float64(n)*eigenTol {
			out := make(map[string]float64, n)
			for i := range g.nodes {
				out[g.nodes[i].id] = x[i]
			}
			return out, nil
		}
	}
	return nil, ErrNoConvergence
}
