package anomaly

import (
	"context"
	"math"
	"math/rand"
)

const eulerGamma = 0.5772156649015329

// maxSamples caps the subsample each tree is grown on.
const maxSamples = 256

// isolationNode is a node of a one-dimensional isolation tree. Leaves have nil children.
type isolationNode struct {
	split       float64
	left, right *isolationNode
	size        int
}

// isolationForest scores one-dimensional values by how quickly random splits isolate them.
type isolationForest struct {
	trees      []*isolationNode
	sampleSize int
}

// averagePathLength is c(n), the mean path length of an unsuccessful search in a
// binary search tree of n nodes.
func averagePathLength(n int) float64 {
	switch {
	case n > 2:
		fn := float64(n)
		return 2*(math.Log(fn-1)+eulerGamma) - 2*(fn-1)/fn
	case n == 2:
		return 1
	default:
		return 0
	}
}

func growForest(ctx context.Context, values []float64, trees int, rng *rand.Rand) (*isolationForest, error) {
	sampleSize := len(values)
	if sampleSize > maxSamples {
		sampleSize = maxSamples
	}
	heightLimit := int(math.Ceil(math.Log2(math.Max(float64(sampleSize), 2))))

	forest := &isolationForest{trees: make([]*isolationNode, 0, trees), sampleSize: sampleSize}
	sample := make([]float64, sampleSize)
	for i := 0; i < trees; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for j, idx := range rng.Perm(len(values))[:sampleSize] {
			sample[j] = values[idx]
		}
		forest.trees = append(forest.trees, growTree(sample, 0, heightLimit, rng))
	}
	return forest, nil
}

func growTree(values []float64, depth, limit int, rng *rand.Rand) *isolationNode {
	if depth >= limit || len(values) <= 1 {
		return &isolationNode{size: len(values)}
	}
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if lo == hi {
		return &isolationNode{size: len(values)}
	}

	split := lo + rng.Float64()*(hi-lo)
	var left, right []float64
	for _, v := range values {
		if v < split {
			left = append(left, v)
		} else {
			right = append(right, v)
		}
	}
	return &isolationNode{
		split: split,
		left:  growTree(left, depth+1, limit, rng),
		right: growTree(right, depth+1, limit, rng),
	}
}

func pathLength(x float64, node *isolationNode, depth int) float64 {
	for node.left != nil {
		if x < node.split {
			node = node.left
		} else {
			node = node.right
		}
		depth++
	}
	return float64(depth) + averagePathLength(node.size)
}

// score returns 2^(-E[h(x)]/c(psi)); values near 1 are anomalous, values well below
// 0.5 are normal.
func (f *isolationForest) score(x float64) float64 {
	norm := averagePathLength(f.sampleSize)
	if norm == 0 || len(f.trees) == 0 {
		return 0.5
	}
	total := 0.0
	for _, tree := range f.trees {
		total += pathLength(x, tree, 0)
	}
	return math.Pow(2, -(total/float64(len(f.trees)))/norm)
}
