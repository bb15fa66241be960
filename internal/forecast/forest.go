package forecast

import (
	"math"
	"math/rand"
)

// ForestConfig controls the bagged regression-tree ensemble. Seed feeds
// the injectable random source; identical seeds give identical forests.
type ForestConfig struct {
	Trees           int
	MaxDepth        int
	MinSamplesSplit int
	MaxFeatures     int
	MaxThresholds   int
	Seed            int64
}

func (c ForestConfig) withDefaults() ForestConfig {
	if c.Trees <= 0 {
		c.Trees = 10
	}
	if c.MaxDepth <= 0 {
		c.MaxDepth = 6
	}
	if c.MinSamplesSplit <= 0 {
		c.MinSamplesSplit = 5
	}
	if c.MaxFeatures <= 0 {
		c.MaxFeatures = 8
	}
	if c.MaxThresholds <= 0 {
		c.MaxThresholds = 10
	}
	return c
}

// Forest is a trained ensemble of bootstrap-sampled regression trees.
type Forest struct {
	trees []*treeNode
}

type treeNode struct {
	leaf      bool
	value     float64
	feature   int
	threshold float64
	left      *treeNode
	right     *treeNode
}

// TrainForest grows cfg.Trees regression trees, each on a bootstrap
// resample of the rows. All randomness flows from the seeded source so
// runs are reproducible.
func TrainForest(X [][]float64, y []float64, cfg ForestConfig) *Forest {
	cfg = cfg.withDefaults()
	n := len(X)
	if n == 0 {
		return &Forest{}
	}
	rng := rand.New(rand.NewSource(cfg.Seed))
	trees := make([]*treeNode, 0, cfg.Trees)
	for t := 0; t < cfg.Trees; t++ {
		sample := make([]int, n)
		for i := range sample {
			sample[i] = rng.Intn(n)
		}
		trees = append(trees, growTree(X, y, sample, 0, cfg, rng))
	}
	return &Forest{trees: trees}
}

// growTree greedily picks the split minimizing summed within-child
// variance over a random subset of features and candidate thresholds.
func growTree(X [][]float64, y []float64, idx []int, depth int, cfg ForestConfig, rng *rand.Rand) *treeNode {
	if depth >= cfg.MaxDepth || len(idx) < cfg.MinSamplesSplit {
		return &treeNode{leaf: true, value: meanAt(y, idx)}
	}
	if varianceAt(y, idx) == 0 {
		return &treeNode{leaf: true, value: meanAt(y, idx)}
	}

	dims := len(X[0])
	nFeatures := cfg.MaxFeatures
	if nFeatures > dims {
		nFeatures = dims
	}
	features := rng.Perm(dims)[:nFeatures]

	bestScore := math.Inf(1)
	bestFeature := -1
	bestThreshold := 0.0
	for _, f := range features {
		for k := 0; k < cfg.MaxThresholds; k++ {
			thr := X[idx[rng.Intn(len(idx))]][f]
			score, ok := splitScore(X, y, idx, f, thr)
			if ok && score < bestScore {
				bestScore = score
				bestFeature = f
				bestThreshold = thr
			}
		}
	}
	if bestFeature < 0 {
		return &treeNode{leaf: true, value: meanAt(y, idx)}
	}

	var left, right []int
	for _, i := range idx {
		if X[i][bestFeature] <= bestThreshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	return &treeNode{
		feature:   bestFeature,
		threshold: bestThreshold,
		left:      growTree(X, y, left, depth+1, cfg, rng),
		right:     growTree(X, y, right, depth+1, cfg, rng),
	}
}

// splitScore is the variance of each child weighted by its size; lower is
// better. Degenerate splits that leave a child empty are rejected.
func splitScore(X [][]float64, y []float64, idx []int, feature int, threshold float64) (float64, bool) {
	var left, right []int
	for _, i := range idx {
		if X[i][feature] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	if len(left) == 0 || len(right) == 0 {
		return 0, false
	}
	return varianceAt(y, left)*float64(len(left)) + varianceAt(y, right)*float64(len(right)), true
}

// Predict averages the member trees; confidence derives from the inverse
// coefficient of variation across them, clamped to [0.65, 0.90]. Trees in
// close agreement give high confidence.
func (f *Forest) Predict(x []float64) (float64, float64) {
	if len(f.trees) == 0 {
		return 0, 0.65
	}
	preds := make([]float64, len(f.trees))
	var mean float64
	for i, t := range f.trees {
		preds[i] = predictTree(t, x)
		mean += preds[i]
	}
	mean /= float64(len(preds))

	var variance float64
	for _, p := range preds {
		d := p - mean
		variance += d * d
	}
	std := math.Sqrt(variance / float64(len(preds)))

	cv := 1.0
	if math.Abs(mean) > 1e-8 {
		cv = std / math.Abs(mean)
	}
	return mean, clamp(1-cv, 0.65, 0.90)
}

// Name identifies the model in performance maps.
func (f *Forest) Name() string { return "random_forest" }

func predictTree(node *treeNode, x []float64) float64 {
	for !node.leaf {
		if x[node.feature] <= node.threshold {
			node = node.left
		} else {
			node = node.right
		}
	}
	return node.value
}

func meanAt(y []float64, idx []int) float64 {
	if len(idx) == 0 {
		return 0
	}
	var sum float64
	for _, i := range idx {
		sum += y[i]
	}
	return sum / float64(len(idx))
}

func varianceAt(y []float64, idx []int) float64 {
	if len(idx) == 0 {
		return 0
	}
	m := meanAt(y, idx)
	var v float64
	for _, i := range idx {
		d := y[i] - m
		v += d * d
	}
	return v / float64(len(idx))
}
