package model

// node is one node of a regression tree. A node without children is a leaf
// and Value is its (already shrunk) contribution.
type node struct {
	Feature   int     `json:"f"`
	Threshold float64 `json:"t"`
	Value     float64 `json:"v"`
	Left      *node   `json:"l,omitempty"`
	Right     *node   `json:"r,omitempty"`
}

func (n *node) leaf() bool {
	return n.Left == nil
}

// eval walks the tree; x[Feature] < Threshold goes left.
func (n *node) eval(x []float64) float64 {
	cur := n
	for !cur.leaf() {
		if x[cur.Feature] < cur.Threshold {
			cur = cur.Left
		} else {
			cur = cur.Right
		}
	}
	return cur.Value
}

// treeBuilder grows one tree on the current residuals.
type treeBuilder struct {
	cols     [][]float64 // column-major inputs, cols[f][i]
	residual []float64
	params   Params
	side     []bool // scratch: true when the sample goes left
}

// split is the best partition found for a node.
type split struct {
	feature   int
	threshold float64
	gain      float64
}

// build grows a node from the samples in idx. idx[f] lists the node's samples
// sorted by feature f.
func (b *treeBuilder) build(idx [][]int, depth int) *node {
	samples := idx[0]
	sum := 0.0
	for _, i := range samples {
		sum += b.residual[i]
	}
	n := float64(len(samples))

	if depth >= b.params.MaxDepth || len(samples) < 2*b.params.MinSamplesLeaf {
		return b.leaf(sum, n)
	}

	best, ok := b.bestSplit(idx, sum, n)
	if !ok {
		return b.leaf(sum, n)
	}

	col := b.cols[best.feature]
	for _, i := range samples {
		b.side[i] = col[i] < best.threshold
	}
	left := make([][]int, len(idx))
	right := make([][]int, len(idx))
	for f, list := range idx {
		l := make([]int, 0, len(list))
		r := make([]int, 0, len(list))
		for _, i := range list {
			if b.side[i] {
				l = append(l, i)
			} else {
				r = append(r, i)
			}
		}
		left[f], right[f] = l, r
	}

	return &node{
		Feature:   best.feature,
		Threshold: best.threshold,
		Left:      b.build(left, depth+1),
		Right:     b.build(right, depth+1),
	}
}

// leaf returns the L2-regularised, shrunk leaf weight.
func (b *treeBuilder) leaf(sum, n float64) *node {
	return &node{Value: b.params.LearningRate * sum / (n + b.params.Lambda)}
}

func (b *treeBuilder) score(sum, n float64) float64 {
	return sum * sum / (n + b.params.Lambda)
}

// bestSplit scans every feature for the threshold with the highest gain.
// Thresholds sit halfway between distinct consecutive values.
func (b *treeBuilder) bestSplit(idx [][]int, sum, n float64) (split, bool) {
	parent := b.score(sum, n)
	minLeaf := b.params.MinSamplesLeaf
	best := split{gain: 1e-12}
	found := false

	for f, list := range idx {
		col := b.cols[f]
		leftSum := 0.0
		for k := 0; k < len(list)-1; k++ {
			leftSum += b.residual[list[k]]
			nl := k + 1
			nr := len(list) - nl
			if nl < minLeaf {
				continue
			}
			if nr < minLeaf {
				break
			}
			lo, hi := col[list[k]], col[list[k+1]]
			if lo == hi {
				continue
			}
			gain := 0.5 * (b.score(leftSum, float64(nl)) + b.score(sum-leftSum, float64(nr)) - parent)
			if gain > best.gain {
				t := lo + (hi-lo)/2
				if t <= lo {
					t = hi
				}
				best = split{feature: f, threshold: t, gain: gain}
				found = true
			}
		}
	}
	return best, found
}
