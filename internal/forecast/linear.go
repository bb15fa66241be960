// Package forecast implements the model bank: four independently trained
// forecasters over engineered features or raw price series. Training
// functions are pure and return immutable trained values; prediction
// never mutates a model, so a trained value can be shared freely.
package forecast

import "math"

// LinearConfig controls batch gradient descent for the linear model.
type LinearConfig struct {
	LearningRate float64
	Iterations   int
}

func (c LinearConfig) withDefaults() LinearConfig {
	if c.LearningRate <= 0 {
		c.LearningRate = 0.01
	}
	if c.Iterations <= 0 {
		c.Iterations = 1000
	}
	return c
}

// Linear is a trained linear regression.
type Linear struct {
	weights []float64
	bias    float64
}

// TrainLinear fits weights and bias by batch gradient descent over a
// fixed iteration budget. Inputs are assumed normalized.
func TrainLinear(X [][]float64, y []float64, cfg LinearConfig) *Linear {
	cfg = cfg.withDefaults()
	n := len(X)
	if n == 0 {
		return &Linear{}
	}
	d := len(X[0])
	weights := make([]float64, d)
	bias := 0.0
	grad := make([]float64, d)

	for it := 0; it < cfg.Iterations; it++ {
		for j := range grad {
			grad[j] = 0
		}
		gradBias := 0.0
		for i, row := range X {
			residual := bias + dot(weights, row) - y[i]
			gradBias += residual
			for j, v := range row {
				grad[j] += residual * v
			}
		}
		step := cfg.LearningRate / float64(n)
		bias -= step * gradBias
		for j := range weights {
			weights[j] -= step * grad[j]
		}
	}
	return &Linear{weights: weights, bias: bias}
}

// Predict returns the regression output and a heuristic confidence: the
// larger the weighted contribution relative to the bias term, the more
// the model is actually responding to the features. Clamped to
// [0.60, 0.85].
func (m *Linear) Predict(x []float64) (float64, float64) {
	contribution := dot(m.weights, x)
	pred := m.bias + contribution
	ratio := math.Abs(contribution) / (math.Abs(m.bias) + 1e-8)
	conf := clamp(0.6+0.25*math.Min(1, ratio), 0.60, 0.85)
	return pred, conf
}

// Weights returns a copy of the trained feature weights.
func (m *Linear) Weights() []float64 {
	out := make([]float64, len(m.weights))
	copy(out, m.weights)
	return out
}

// Name identifies the model in performance maps.
func (m *Linear) Name() string { return "linear_regression" }

func dot(a, b []float64) float64 {
	var sum float64
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
