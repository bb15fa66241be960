package models

import "time"

// Trading recommendations.
const (
	RecommendStrongBuy  = "STRONG_BUY"
	RecommendBuy        = "BUY"
	RecommendHold       = "HOLD"
	RecommendSell       = "SELL"
	RecommendStrongSell = "STRONG_SELL"
)

// PredictionResult is a single-horizon price forecast with confidence
// bounds. LowerBound <= PredictedPrice <= UpperBound always holds.
type PredictionResult struct {
	PredictedPrice float64 `json:"predictedPrice"`
	Confidence     float64 `json:"confidence"`
	LowerBound     float64 `json:"lowerBound"`
	UpperBound     float64 `json:"upperBound"`
	ModelName      string  `json:"modelName"`
}

// HorizonPredictions groups the three forecast horizons.
type HorizonPredictions struct {
	NextDay   PredictionResult `json:"nextDay"`
	NextWeek  PredictionResult `json:"nextWeek"`
	NextMonth PredictionResult `json:"nextMonth"`
}

// ModelPerformance summarizes a model's accuracy on held-out history.
type ModelPerformance struct {
	MAE                 float64 `json:"mae"`
	RMSE                float64 `json:"rmse"`
	MAPE                float64 `json:"mape"`
	R2                  float64 `json:"r2"`
	DirectionalAccuracy float64 `json:"directionalAccuracy"`
}

// FeatureImportance is one entry of the ranked importance list.
type FeatureImportance struct {
	Feature    string  `json:"feature"`
	Importance float64 `json:"importance"`
}

// EnsemblePrediction is the combined output of the model bank for one
// symbol.
type EnsemblePrediction struct {
	Symbol            string                      `json:"symbol"`
	CurrentPrice      float64                     `json:"currentPrice"`
	Predictions       HorizonPredictions          `json:"predictions"`
	ModelPerformances map[string]ModelPerformance `json:"modelPerformances"`
	FeatureImportance []FeatureImportance         `json:"featureImportance"`
	Confidence        float64                     `json:"confidence"`
	Recommendation    string                      `json:"recommendation"`
	Analysis          string                      `json:"analysis"`
	DataPoints        int                         `json:"dataPoints"`
	GeneratedAt       time.Time                   `json:"generatedAt"`
}
