// Package ensemble orchestrates the full prediction pipeline: feature
// engineering, model-bank training, per-horizon combination and the final
// trading recommendation.
package ensemble

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/quantpilot/mlcore/internal/feature"
	"github.com/quantpilot/mlcore/internal/forecast"
	"github.com/quantpilot/mlcore/models"
)

// Reference blend weights for the next-day prediction.
const (
	weightLinear    = 0.3
	weightForest    = 0.3
	weightSmoothing = 0.2
	weightARMA      = 0.2
)

// trainFraction is the chronological share of the dataset used for
// training; the remainder is the held-out evaluation tail.
const trainFraction = 0.8

// Options configures one prediction run. The Seed feeds the random
// forest's bootstrap sampling; identical inputs and seed give identical
// predictions.
type Options struct {
	Lookforward int
	Seed        int64
	Linear      forecast.LinearConfig
	Forest      forecast.ForestConfig
	Smoothing   forecast.SmoothingConfig
	ARMA        forecast.ARMAConfig
}

// Engine runs the prediction pipeline. It holds no state between calls;
// every Predict trains a fresh model bank.
type Engine struct {
	opts   Options
	logger zerolog.Logger
}

// New creates an Engine with the given options.
func New(opts Options) *Engine {
	if opts.Lookforward <= 0 {
		opts.Lookforward = 1
	}
	return &Engine{
		opts:   opts,
		logger: log.With().Str("component", "ensemble").Logger(),
	}
}

// Predict trains the model bank on the bar history and combines the four
// forecasters into per-horizon predictions with bounds, importance
// ranking and a discrete recommendation.
func (e *Engine) Predict(symbol string, bars []models.PriceBar) (*models.EnsemblePrediction, error) {
	if len(bars) < feature.MinHistory {
		return nil, fmt.Errorf("%w: got %d bars for %s, need at least %d",
			models.ErrInsufficientData, len(bars), symbol, feature.MinHistory)
	}

	ds, err := feature.BuildDataset(bars, e.opts.Lookforward)
	if err != nil {
		return nil, fmt.Errorf("engineering dataset for %s: %w", symbol, err)
	}
	e.logger.Debug().Str("symbol", symbol).Int("rows", ds.Len()).Int("features", len(ds.Names)).Msg("Dataset engineered")

	params := feature.ComputeNormalization(ds)
	norm := feature.NormalizeDataset(ds, params)

	split := int(float64(norm.Len()) * trainFraction)
	xTrain, yTrain := norm.Features[:split], norm.Targets[:split]
	xTest, yTest := norm.Features[split:], norm.Targets[split:]

	forestCfg := e.opts.Forest
	forestCfg.Seed = e.opts.Seed
	linear := forecast.TrainLinear(xTrain, yTrain, e.opts.Linear)
	forest := forecast.TrainForest(xTrain, yTrain, forestCfg)
	smoothing := forecast.TrainSmoothing(norm.Targets, e.opts.Smoothing)
	arma := forecast.TrainARMA(norm.Targets, e.opts.ARMA)
	e.logger.Debug().Str("symbol", symbol).Int("train", len(xTrain)).Int("test", len(xTest)).Msg("Model bank trained")

	performances := map[string]models.ModelPerformance{
		linear.Name():    e.evaluateRows(xTest, yTest, params, linear.Predict),
		forest.Name():    e.evaluateRows(xTest, yTest, params, forest.Predict),
		smoothing.Name(): evaluateFits(smoothing, len(yTest), params),
		arma.Name():      evaluateFits(arma, len(yTest), params),
	}

	currentPrice := bars[len(bars)-1].Close
	fv, ok := feature.Extract(bars, len(bars)-1)
	if !ok {
		return nil, fmt.Errorf("%w: no feature vector at the latest bar for %s", models.ErrInsufficientData, symbol)
	}
	x := feature.NormalizeVector(fv.Vector(), params)

	linVal, linConf := linear.Predict(x)
	forVal, forConf := forest.Predict(x)
	smoVal, smoConf := smoothing.Forecast(e.opts.Lookforward)
	armVal, armConf := arma.Forecast(e.opts.Lookforward)

	nextVal := weightLinear*linVal + weightForest*forVal + weightSmoothing*smoVal + weightARMA*armVal
	nextConf := weightLinear*linConf + weightForest*forConf + weightSmoothing*smoConf + weightARMA*armConf
	nextDay := horizonResult(params.DenormalizeTarget(nextVal), currentPrice, nextConf, 0.10, "ensemble")

	smoWeek, _ := smoothing.Forecast(5)
	armWeek, _ := arma.Forecast(5)
	nextWeek := horizonResult(
		params.DenormalizeTarget((smoWeek+armWeek)/2), currentPrice,
		math.Max(0.5, nextConf-0.1), 0.15, "time_series_ensemble")

	smoMonth, _ := smoothing.Forecast(20)
	armMonth, _ := arma.Forecast(20)
	nextMonth := horizonResult(
		params.DenormalizeTarget((smoMonth+armMonth)/2), currentPrice,
		math.Max(0.4, nextConf-0.2), 0.20, "time_series_ensemble")

	var r2Sum float64
	for _, perf := range performances {
		r2Sum += perf.R2
	}
	avgR2 := r2Sum / float64(len(performances))
	overallConf := 0.6*nextConf + 0.4*math.Max(0, avgR2)

	expectedReturn := 0.0
	if currentPrice > 0 {
		expectedReturn = (nextDay.PredictedPrice - currentPrice) / currentPrice
	}

	pred := &models.EnsemblePrediction{
		Symbol:       symbol,
		CurrentPrice: currentPrice,
		Predictions: models.HorizonPredictions{
			NextDay:   nextDay,
			NextWeek:  nextWeek,
			NextMonth: nextMonth,
		},
		ModelPerformances: performances,
		FeatureImportance: featureImportance(linear.Weights(), ds.Names, 10),
		Confidence:        overallConf,
		Recommendation:    recommend(expectedReturn, overallConf),
		Analysis:          buildAnalysis(currentPrice, nextDay, nextWeek, nextMonth, performances),
		DataPoints:        len(bars),
		GeneratedAt:       time.Now(),
	}

	e.logger.Info().
		Str("symbol", symbol).
		Float64("current", currentPrice).
		Float64("next_day", nextDay.PredictedPrice).
		Float64("confidence", overallConf).
		Str("recommendation", pred.Recommendation).
		Msg("Prediction complete")
	return pred, nil
}

// evaluateRows scores a feature-driven model over the held-out rows in
// price units.
func (e *Engine) evaluateRows(xTest [][]float64, yTest []float64, params *models.NormalizationParams, predict func([]float64) (float64, float64)) models.ModelPerformance {
	yTrue := make([]float64, len(yTest))
	yPred := make([]float64, len(yTest))
	for i, row := range xTest {
		v, _ := predict(row)
		yPred[i] = params.DenormalizeTarget(v)
		yTrue[i] = params.DenormalizeTarget(yTest[i])
	}
	return evaluate(yTrue, yPred)
}

// fitProvider is satisfied by the time-series models, which keep their
// in-sample one-step forecasts for evaluation.
type fitProvider interface {
	OneStepFits() (fitted, actual []float64)
}

// evaluateFits scores a time-series model on the tail of its one-step
// fits, matching the held-out span of the feature models.
func evaluateFits(m fitProvider, tail int, params *models.NormalizationParams) models.ModelPerformance {
	fitted, actual := m.OneStepFits()
	if len(fitted) == 0 {
		return models.ModelPerformance{DirectionalAccuracy: 50}
	}
	if tail > 0 && tail < len(fitted) {
		fitted = fitted[len(fitted)-tail:]
		actual = actual[len(actual)-tail:]
	}
	yTrue := make([]float64, len(actual))
	yPred := make([]float64, len(fitted))
	for i := range fitted {
		yTrue[i] = params.DenormalizeTarget(actual[i])
		yPred[i] = params.DenormalizeTarget(fitted[i])
	}
	return evaluate(yTrue, yPred)
}

// horizonResult attaches confidence bounds to a point forecast: the band
// half-width is 2x the given fraction of the predicted move, so larger
// expected moves carry proportionally wider intervals.
func horizonResult(predicted, current, confidence, fraction float64, modelName string) models.PredictionResult {
	width := 2 * fraction * math.Abs(predicted-current)
	return models.PredictionResult{
		PredictedPrice: predicted,
		Confidence:     confidence,
		LowerBound:     predicted - width,
		UpperBound:     predicted + width,
		ModelName:      modelName,
	}
}

// featureImportance ranks features by the linear model's absolute
// weights, truncates to the top entries and normalizes them to sum to 1.
func featureImportance(weights []float64, names []string, top int) []models.FeatureImportance {
	ranked := make([]models.FeatureImportance, 0, len(weights))
	for i, w := range weights {
		if i < len(names) {
			ranked = append(ranked, models.FeatureImportance{Feature: names[i], Importance: math.Abs(w)})
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Importance > ranked[j].Importance
	})
	if len(ranked) > top {
		ranked = ranked[:top]
	}
	var total float64
	for _, fi := range ranked {
		total += fi.Importance
	}
	if total > 0 {
		for i := range ranked {
			ranked[i].Importance /= total
		}
	}
	return ranked
}

// recommend maps the expected next-day return and overall confidence to a
// discrete action.
func recommend(expectedReturn, confidence float64) string {
	if confidence < 0.5 {
		return models.RecommendHold
	}
	switch {
	case expectedReturn > 0.05 && confidence > 0.7:
		return models.RecommendStrongBuy
	case expectedReturn > 0.02:
		return models.RecommendBuy
	case expectedReturn < -0.05 && confidence > 0.7:
		return models.RecommendStrongSell
	case expectedReturn < -0.02:
		return models.RecommendSell
	default:
		return models.RecommendHold
	}
}

// buildAnalysis renders the human-readable summary shipped with the
// prediction.
func buildAnalysis(current float64, day, week, month models.PredictionResult, perf map[string]models.ModelPerformance) string {
	ret := func(p models.PredictionResult) float64 {
		if current == 0 {
			return 0
		}
		return (p.PredictedPrice - current) / current * 100
	}

	var bestR2 float64
	var bestDir float64
	for _, p := range perf {
		if p.R2 > bestR2 {
			bestR2 = p.R2
		}
		if p.DirectionalAccuracy > bestDir {
			bestDir = p.DirectionalAccuracy
		}
	}

	return fmt.Sprintf(
		"Model ensemble predicts %+.2f%% next day (confidence %.0f%%), %+.2f%% next week, %+.2f%% next month. "+
			"Best model R2 %.3f, best directional accuracy %.1f%%. "+
			"Next-day interval %.2f to %.2f.",
		ret(day), day.Confidence*100, ret(week), ret(month),
		bestR2, bestDir, day.LowerBound, day.UpperBound)
}
