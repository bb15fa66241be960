package ensemble

import (
	"math"

	"github.com/quantpilot/mlcore/models"
)

// evaluate computes accuracy metrics for a prediction series against the
// realized values. Degenerate denominators (zero variance, too few
// points) fall back to neutral defaults instead of failing.
func evaluate(yTrue, yPred []float64) models.ModelPerformance {
	n := len(yTrue)
	if n == 0 || n != len(yPred) {
		return models.ModelPerformance{DirectionalAccuracy: 50}
	}

	var absSum, sqSum, pctSum, mean float64
	for i := range yTrue {
		diff := yTrue[i] - yPred[i]
		absSum += math.Abs(diff)
		sqSum += diff * diff
		if yTrue[i] != 0 {
			pctSum += math.Abs(diff / yTrue[i])
		}
		mean += yTrue[i]
	}
	mean /= float64(n)

	var ssTot float64
	for _, v := range yTrue {
		d := v - mean
		ssTot += d * d
	}
	r2 := 0.0
	if ssTot > 0 {
		r2 = 1 - sqSum/ssTot
	}

	directional := 50.0
	if n > 1 {
		hits := 0
		for i := 1; i < n; i++ {
			actualUp := yTrue[i] > yTrue[i-1]
			predUp := yPred[i] > yPred[i-1]
			if actualUp == predUp {
				hits++
			}
		}
		directional = float64(hits) / float64(n-1) * 100
	}

	return models.ModelPerformance{
		MAE:                 absSum / float64(n),
		RMSE:                math.Sqrt(sqSum / float64(n)),
		MAPE:                pctSum / float64(n) * 100,
		R2:                  r2,
		DirectionalAccuracy: directional,
	}
}
