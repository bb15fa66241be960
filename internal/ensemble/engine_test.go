package ensemble

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/quantpilot/mlcore/models"
)

func generateTestBars(n int, generator func(i int) models.PriceBar) []models.PriceBar {
	bars := make([]models.PriceBar, n)
	base := time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		bars[i] = generator(i)
		bars[i].Date = base.AddDate(0, 0, i)
	}
	return bars
}

func marketBars(n int) []models.PriceBar {
	return generateTestBars(n, func(i int) models.PriceBar {
		c := 100 + float64(i)*0.3 + 4*math.Sin(float64(i)/9)
		return models.PriceBar{
			Open: c - 0.5, High: c + 1.5, Low: c - 1.5, Close: c,
			Volume: int64(20000 + (i%11)*700),
		}
	})
}

func TestPredictInsufficientData(t *testing.T) {
	engine := New(Options{Seed: 1})
	_, err := engine.Predict("TEST", marketBars(150))
	if !errors.Is(err, models.ErrInsufficientData) {
		t.Errorf("Predict() error = %v, want ErrInsufficientData", err)
	}
}

func TestPredictInvariants(t *testing.T) {
	engine := New(Options{Seed: 1})
	bars := marketBars(320)

	pred, err := engine.Predict("TEST", bars)
	if err != nil {
		t.Fatalf("Predict() error = %v", err)
	}

	if pred.Symbol != "TEST" {
		t.Errorf("Symbol = %q", pred.Symbol)
	}
	if pred.CurrentPrice != bars[len(bars)-1].Close {
		t.Errorf("CurrentPrice = %v, want %v", pred.CurrentPrice, bars[len(bars)-1].Close)
	}
	if pred.DataPoints != len(bars) {
		t.Errorf("DataPoints = %d, want %d", pred.DataPoints, len(bars))
	}

	horizons := []struct {
		name string
		p    models.PredictionResult
	}{
		{"next day", pred.Predictions.NextDay},
		{"next week", pred.Predictions.NextWeek},
		{"next month", pred.Predictions.NextMonth},
	}
	for _, h := range horizons {
		if h.p.LowerBound > h.p.PredictedPrice || h.p.PredictedPrice > h.p.UpperBound {
			t.Errorf("%s: bounds %v..%v do not contain prediction %v",
				h.name, h.p.LowerBound, h.p.UpperBound, h.p.PredictedPrice)
		}
		if h.p.Confidence < 0 || h.p.Confidence > 1 {
			t.Errorf("%s: confidence %v outside [0, 1]", h.name, h.p.Confidence)
		}
		if math.IsNaN(h.p.PredictedPrice) || math.IsInf(h.p.PredictedPrice, 0) {
			t.Errorf("%s: prediction is not finite: %v", h.name, h.p.PredictedPrice)
		}
	}

	if pred.Predictions.NextWeek.Confidence > pred.Predictions.NextDay.Confidence {
		t.Errorf("week confidence %v exceeds day confidence %v",
			pred.Predictions.NextWeek.Confidence, pred.Predictions.NextDay.Confidence)
	}
	if pred.Predictions.NextMonth.Confidence > pred.Predictions.NextWeek.Confidence {
		t.Errorf("month confidence %v exceeds week confidence %v",
			pred.Predictions.NextMonth.Confidence, pred.Predictions.NextWeek.Confidence)
	}

	if pred.Confidence < 0 || pred.Confidence > 1 {
		t.Errorf("overall confidence %v outside [0, 1]", pred.Confidence)
	}

	for _, name := range []string{"linear_regression", "random_forest", "exponential_smoothing", "arima"} {
		if _, ok := pred.ModelPerformances[name]; !ok {
			t.Errorf("missing performance entry for %s", name)
		}
	}

	if len(pred.FeatureImportance) == 0 || len(pred.FeatureImportance) > 10 {
		t.Fatalf("feature importance entries = %d", len(pred.FeatureImportance))
	}
	var sum float64
	for i, fi := range pred.FeatureImportance {
		sum += fi.Importance
		if i > 0 && fi.Importance > pred.FeatureImportance[i-1].Importance {
			t.Errorf("importance not sorted at %d: %v > %v", i, fi.Importance, pred.FeatureImportance[i-1].Importance)
		}
	}
	if math.Abs(sum-1) > 1e-9 {
		t.Errorf("importance sums to %v, want 1", sum)
	}

	switch pred.Recommendation {
	case models.RecommendStrongBuy, models.RecommendBuy, models.RecommendHold,
		models.RecommendSell, models.RecommendStrongSell:
	default:
		t.Errorf("unexpected recommendation %q", pred.Recommendation)
	}
	if pred.Analysis == "" {
		t.Error("empty analysis text")
	}
}

func TestPredictSeedDeterminism(t *testing.T) {
	bars := marketBars(320)

	a, err := New(Options{Seed: 99}).Predict("TEST", bars)
	if err != nil {
		t.Fatalf("Predict() error = %v", err)
	}
	b, err := New(Options{Seed: 99}).Predict("TEST", bars)
	if err != nil {
		t.Fatalf("Predict() error = %v", err)
	}

	if a.Predictions.NextDay.PredictedPrice != b.Predictions.NextDay.PredictedPrice {
		t.Errorf("same seed gave %v and %v", a.Predictions.NextDay.PredictedPrice, b.Predictions.NextDay.PredictedPrice)
	}
	if a.Confidence != b.Confidence {
		t.Errorf("same seed gave confidences %v and %v", a.Confidence, b.Confidence)
	}
	if a.Recommendation != b.Recommendation {
		t.Errorf("same seed gave recommendations %q and %q", a.Recommendation, b.Recommendation)
	}
}

func TestRecommendThresholds(t *testing.T) {
	tests := []struct {
		name       string
		ret        float64
		confidence float64
		expected   string
	}{
		{"Low confidence holds", 0.10, 0.4, models.RecommendHold},
		{"Strong buy", 0.06, 0.8, models.RecommendStrongBuy},
		{"Large move, modest confidence", 0.06, 0.6, models.RecommendBuy},
		{"Buy", 0.03, 0.6, models.RecommendBuy},
		{"Strong sell", -0.06, 0.8, models.RecommendStrongSell},
		{"Sell", -0.03, 0.6, models.RecommendSell},
		{"Small move holds", 0.01, 0.9, models.RecommendHold},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := recommend(tt.ret, tt.confidence)
			if result != tt.expected {
				t.Errorf("recommend(%v, %v) = %q, want %q", tt.ret, tt.confidence, result, tt.expected)
			}
		})
	}
}

func TestEvaluate(t *testing.T) {
	yTrue := []float64{100, 102, 101, 105}
	yPred := []float64{101, 101, 102, 104}

	perf := evaluate(yTrue, yPred)
	if perf.MAE != 1 {
		t.Errorf("MAE = %v, want 1", perf.MAE)
	}
	if perf.RMSE != 1 {
		t.Errorf("RMSE = %v, want 1", perf.RMSE)
	}
	if perf.R2 > 1 {
		t.Errorf("R2 = %v, want <= 1", perf.R2)
	}

	perfect := evaluate(yTrue, yTrue)
	if perfect.R2 != 1 {
		t.Errorf("perfect R2 = %v, want 1", perfect.R2)
	}
	if perfect.DirectionalAccuracy != 100 {
		t.Errorf("perfect directional accuracy = %v, want 100", perfect.DirectionalAccuracy)
	}

	empty := evaluate(nil, nil)
	if empty.DirectionalAccuracy != 50 {
		t.Errorf("empty directional accuracy = %v, want 50", empty.DirectionalAccuracy)
	}
}
