package forecast

import (
	"math"
	"math/rand"
	"testing"
)

func syntheticRows(n, d int, seed int64, target func(x []float64) float64) ([][]float64, []float64) {
	rng := rand.New(rand.NewSource(seed))
	X := make([][]float64, n)
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		row := make([]float64, d)
		for j := range row {
			row[j] = rng.Float64()*2 - 1
		}
		X[i] = row
		y[i] = target(row)
	}
	return X, y
}

func TestTrainLinearRecoversLinearTarget(t *testing.T) {
	X, y := syntheticRows(200, 3, 1, func(x []float64) float64 {
		return 2*x[0] - x[1] + 0.5
	})

	m := TrainLinear(X, y, LinearConfig{})
	for i, row := range X {
		pred, conf := m.Predict(row)
		if math.Abs(pred-y[i]) > 0.2 {
			t.Fatalf("row %d: prediction %v too far from %v", i, pred, y[i])
		}
		if conf < 0.60 || conf > 0.85 {
			t.Fatalf("row %d: confidence %v outside [0.60, 0.85]", i, conf)
		}
	}
}

func TestTrainLinearEmptyInput(t *testing.T) {
	m := TrainLinear(nil, nil, LinearConfig{})
	pred, conf := m.Predict(nil)
	if pred != 0 {
		t.Errorf("prediction on empty model = %v, want 0", pred)
	}
	if conf < 0.60 || conf > 0.85 {
		t.Errorf("confidence on empty model = %v", conf)
	}
}

func TestForestSeedDeterminism(t *testing.T) {
	X, y := syntheticRows(150, 5, 2, func(x []float64) float64 {
		return x[0]*x[0] + x[2]
	})

	a := TrainForest(X, y, ForestConfig{Seed: 42})
	b := TrainForest(X, y, ForestConfig{Seed: 42})

	for i, row := range X {
		pa, _ := a.Predict(row)
		pb, _ := b.Predict(row)
		if pa != pb {
			t.Fatalf("row %d: same seed gave %v and %v", i, pa, pb)
		}
	}
}

func TestForestPredictionWithinTargetRange(t *testing.T) {
	X, y := syntheticRows(150, 5, 3, func(x []float64) float64 {
		return 3*x[1] - x[4]
	})

	lo, hi := y[0], y[0]
	for _, v := range y {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}

	m := TrainForest(X, y, ForestConfig{Seed: 7})
	for i, row := range X {
		pred, conf := m.Predict(row)
		if pred < lo || pred > hi {
			t.Fatalf("row %d: prediction %v outside target range [%v, %v]", i, pred, lo, hi)
		}
		if conf < 0.65 || conf > 0.90 {
			t.Fatalf("row %d: confidence %v outside [0.65, 0.90]", i, conf)
		}
	}
}

func TestSmoothingTracksLinearSeries(t *testing.T) {
	series := make([]float64, 60)
	for i := range series {
		series[i] = 10 + 2*float64(i)
	}

	m := TrainSmoothing(series, SmoothingConfig{})
	last := series[len(series)-1]

	for _, steps := range []int{1, 5, 20} {
		pred, conf := m.Forecast(steps)
		want := last + 2*float64(steps)
		if math.Abs(pred-want) > 1e-6 {
			t.Errorf("Forecast(%d) = %v, want %v", steps, pred, want)
		}
		if conf != smoothingConfidence {
			t.Errorf("Forecast(%d) confidence = %v, want %v", steps, conf, smoothingConfidence)
		}
	}

	fitted, actual := m.OneStepFits()
	if len(fitted) != len(series)-1 || len(actual) != len(fitted) {
		t.Fatalf("OneStepFits lengths = %d/%d", len(fitted), len(actual))
	}
	for i := range fitted {
		if math.Abs(fitted[i]-actual[i]) > 1e-6 {
			t.Fatalf("fit %d: %v vs actual %v on a perfectly linear series", i, fitted[i], actual[i])
		}
	}
}

func TestARMAFlatSeries(t *testing.T) {
	series := make([]float64, 40)
	for i := range series {
		series[i] = 75
	}

	m := TrainARMA(series, ARMAConfig{})
	for _, steps := range []int{1, 5, 20} {
		pred, conf := m.Forecast(steps)
		if math.Abs(pred-75) > 1e-6 {
			t.Errorf("Forecast(%d) on flat series = %v, want 75", steps, pred)
		}
		if conf != armaConfidence {
			t.Errorf("Forecast(%d) confidence = %v, want %v", steps, conf, armaConfidence)
		}
	}
}

func TestARMAShortSeriesFallsBackToLastValue(t *testing.T) {
	series := []float64{100, 102, 101}

	m := TrainARMA(series, ARMAConfig{})
	pred, _ := m.Forecast(5)
	if pred != 101 {
		t.Errorf("Forecast on short series = %v, want last value 101", pred)
	}
}

func TestModelNames(t *testing.T) {
	if name := (&Linear{}).Name(); name != "linear_regression" {
		t.Errorf("Linear name = %q", name)
	}
	if name := (&Forest{}).Name(); name != "random_forest" {
		t.Errorf("Forest name = %q", name)
	}
	if name := (&Smoothing{}).Name(); name != "exponential_smoothing" {
		t.Errorf("Smoothing name = %q", name)
	}
	if name := (&ARMA{}).Name(); name != "arima" {
		t.Errorf("ARMA name = %q", name)
	}
}
