package classifier

import (
	"math/rand"
	"sort"
)

// TreeNode is one node of a fitted decision tree in flat-array form, which
// keeps the persisted parameters compact and loadable without pointers.
type TreeNode struct {
	Feature   int     `json:"f"`
	Threshold float64 `json:"t"`
	Left      int     `json:"l,omitempty"`
	Right     int     `json:"r,omitempty"`
	Prob      float64 `json:"p"`
	Leaf      bool    `json:"leaf,omitempty"`
}

// DecisionTree is a depth-limited CART classifier fitted on weighted gini
// impurity. Node 0 is the root.
type DecisionTree struct {
	Nodes []TreeNode `json:"nodes"`
}

// PredictProba walks the tree for one row and returns the leaf's weighted
// positive share.
func (t *DecisionTree) PredictProba(x []float64) float64 {
	i := 0
	for !t.Nodes[i].Leaf {
		n := &t.Nodes[i]
		if x[n.Feature] <= n.Threshold {
			i = n.Left
		} else {
			i = n.Right
		}
	}
	return t.Nodes[i].Prob
}

// treeBuilder grows one tree on a bootstrap sample. Feature subsets are
// drawn per node from the forest's seeded generator, so growth is
// deterministic given the seed.
type treeBuilder struct {
	X           [][]float64
	y           []float64
	w           []float64
	maxDepth    int
	minLeaf     int
	featuresPer int
	rng         *rand.Rand

	totalWeight float64
	importances []float64
	nodes       []TreeNode
}

func (b *treeBuilder) build(indices []int) DecisionTree {
	b.nodes = b.nodes[:0]
	b.grow(indices, 0)
	nodes := make([]TreeNode, len(b.nodes))
	copy(nodes, b.nodes)
	return DecisionTree{Nodes: nodes}
}

// grow appends the subtree for indices and returns its root node index.
func (b *treeBuilder) grow(indices []int, depth int) int {
	nodeWeight, posWeight := b.sums(indices)
	prob := 0.5
	if nodeWeight > 0 {
		prob = posWeight / nodeWeight
	}

	id := len(b.nodes)
	b.nodes = append(b.nodes, TreeNode{Prob: prob, Leaf: true})

	if depth >= b.maxDepth || len(indices) < 2*b.minLeaf {
		return id
	}
	impurity := gini(posWeight, nodeWeight)
	if impurity == 0 {
		return id
	}

	feature, threshold, gain := b.bestSplit(indices, impurity, nodeWeight)
	if gain <= 1e-12 {
		return id
	}

	left := make([]int, 0, len(indices))
	right := make([]int, 0, len(indices))
	for _, i := range indices {
		if b.X[i][feature] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}

	b.importances[feature] += nodeWeight / b.totalWeight * gain

	b.nodes[id].Leaf = false
	b.nodes[id].Feature = feature
	b.nodes[id].Threshold = threshold
	b.nodes[id].Left = b.grow(left, depth+1)
	b.nodes[id].Right = b.grow(right, depth+1)
	return id
}

// bestSplit searches a per-node feature subset for the threshold with the
// largest weighted impurity decrease. Both children must keep at least
// minLeaf samples.
func (b *treeBuilder) bestSplit(indices []int, parentImpurity, nodeWeight float64) (feature int, threshold, gain float64) {
	feature = -1
	candidates := b.rng.Perm(len(b.X[0]))[:b.featuresPer]

	ordered := make([]int, len(indices))
	for _, f := range candidates {
		copy(ordered, indices)
		sort.Slice(ordered, func(i, j int) bool {
			return b.X[ordered[i]][f] < b.X[ordered[j]][f]
		})

		var leftWeight, leftPos float64
		totalPos := 0.0
		for _, i := range ordered {
			totalPos += b.y[i] * b.w[i]
		}

		for k := 0; k < len(ordered)-1; k++ {
			i := ordered[k]
			leftWeight += b.w[i]
			leftPos += b.y[i] * b.w[i]

			v, next := b.X[i][f], b.X[ordered[k+1]][f]
			if v == next {
				continue
			}
			if k+1 < b.minLeaf || len(ordered)-k-1 < b.minLeaf {
				continue
			}

			rightWeight := nodeWeight - leftWeight
			if leftWeight <= 0 || rightWeight <= 0 {
				continue
			}
			children := (leftWeight*gini(leftPos, leftWeight) + rightWeight*gini(totalPos-leftPos, rightWeight)) / nodeWeight
			if g := parentImpurity - children; g > gain {
				gain = g
				feature = f
				threshold = (v + next) / 2
			}
		}
	}
	return feature, threshold, gain
}

func (b *treeBuilder) sums(indices []int) (nodeWeight, posWeight float64) {
	for _, i := range indices {
		nodeWeight += b.w[i]
		posWeight += b.y[i] * b.w[i]
	}
	return nodeWeight, posWeight
}

// gini returns the binary gini impurity of a node with the given positive
// weight mass out of total weight.
func gini(pos, total float64) float64 {
	if total == 0 {
		return 0
	}
	p := pos / total
	return 2 * p * (1 - p)
}
