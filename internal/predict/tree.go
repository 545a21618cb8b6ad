package predict

import "sort"

// Gradient-boosted regression trees: the tree-ensemble reference model.
// Shallow CART trees are fit to the residuals of a running prediction,
// shrunk by the learning rate.

const (
	treeMaxDepth       = 3
	treeMinLeaf        = 2
	maxSplitCandidates = 16
)

// treeNode is a binary regression tree node. Leaves carry the mean
// residual of their samples.
type treeNode struct {
	leaf      bool
	value     float64
	feature   int
	threshold float64
	left      *treeNode
	right     *treeNode
}

func (t *treeNode) predict(x []float64) float64 {
	for !t.leaf {
		if x[t.feature] <= t.threshold {
			t = t.left
		} else {
			t = t.right
		}
	}
	return t.value
}

// fitTree grows a depth-bounded least-squares tree over the sample indices.
func fitTree(X [][]float64, y []float64, idx []int, depth int) *treeNode {
	mean := 0.0
	for _, i := range idx {
		mean += y[i]
	}
	mean /= float64(len(idx))

	if depth >= treeMaxDepth || len(idx) < 2*treeMinLeaf {
		return &treeNode{leaf: true, value: mean}
	}

	bestFeature, bestThreshold, bestScore := -1, 0.0, sse(y, idx, mean)
	d := len(X[0])
	for j := 0; j < d; j++ {
		for _, thr := range splitCandidates(X, idx, j) {
			var ln, rn int
			var lsum, rsum float64
			for _, i := range idx {
				if X[i][j] <= thr {
					ln++
					lsum += y[i]
				} else {
					rn++
					rsum += y[i]
				}
			}
			if ln < treeMinLeaf || rn < treeMinLeaf {
				continue
			}
			lmean, rmean := lsum/float64(ln), rsum/float64(rn)
			score := 0.0
			for _, i := range idx {
				var diff float64
				if X[i][j] <= thr {
					diff = y[i] - lmean
				} else {
					diff = y[i] - rmean
				}
				score += diff * diff
			}
			if score < bestScore {
				bestScore, bestFeature, bestThreshold = score, j, thr
			}
		}
	}

	if bestFeature < 0 {
		return &treeNode{leaf: true, value: mean}
	}

	var leftIdx, rightIdx []int
	for _, i := range idx {
		if X[i][bestFeature] <= bestThreshold {
			leftIdx = append(leftIdx, i)
		} else {
			rightIdx = append(rightIdx, i)
		}
	}
	return &treeNode{
		feature:   bestFeature,
		threshold: bestThreshold,
		left:      fitTree(X, y, leftIdx, depth+1),
		right:     fitTree(X, y, rightIdx, depth+1),
	}
}

func sse(y []float64, idx []int, mean float64) float64 {
	out := 0.0
	for _, i := range idx {
		d := y[i] - mean
		out += d * d
	}
	return out
}

// splitCandidates returns up to maxSplitCandidates midpoints between
// distinct sorted values of feature j over the samples.
func splitCandidates(X [][]float64, idx []int, j int) []float64 {
	vals := make([]float64, 0, len(idx))
	for _, i := range idx {
		vals = append(vals, X[i][j])
	}
	sort.Float64s(vals)
	uniq := vals[:0]
	for i, v := range vals {
		if i == 0 || v != uniq[len(uniq)-1] {
			uniq = append(uniq, v)
		}
	}
	if len(uniq) < 2 {
		return nil
	}
	step := 1
	if len(uniq)-1 > maxSplitCandidates {
		step = (len(uniq) - 1) / maxSplitCandidates
	}
	var out []float64
	for i := 0; i+1 < len(uniq); i += step {
		out = append(out, (uniq[i]+uniq[i+1])/2)
	}
	return out
}

// boostedTrees is the fitted gradient-boosting ensemble.
type boostedTrees struct {
	base  float64
	rate  float64
	trees []*treeNode
}

func (b *boostedTrees) Name() string { return "gradient_boosted_trees" }

func (b *boostedTrees) Predict(x []float64) float64 {
	out := b.base
	for _, t := range b.trees {
		out += b.rate * t.predict(x)
	}
	return out
}

// fitBoostedTrees fits rounds of residual trees with the given shrinkage.
func fitBoostedTrees(X [][]float64, y []float64, rounds int, rate float64) *boostedTrees {
	n := len(X)
	model := &boostedTrees{rate: rate}
	for _, v := range y {
		model.base += v
	}
	model.base /= float64(n)

	residual := make([]float64, n)
	pred := make([]float64, n)
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
		pred[i] = model.base
	}

	for round := 0; round < rounds; round++ {
		for i := 0; i < n; i++ {
			residual[i] = y[i] - pred[i]
		}
		tree := fitTree(X, residual, idx, 0)
		model.trees = append(model.trees, tree)
		improved := false
		for i := 0; i < n; i++ {
			step := rate * tree.predict(X[i])
			if step != 0 {
				improved = true
			}
			pred[i] += step
		}
		if !improved {
			break
		}
	}
	return model
}
