package feature

import (
	"fmt"
	"math"

	"github.com/quantpilot/mlcore/models"
)

// MinTrainingRows is the smallest engineered dataset worth training on.
const MinTrainingRows = 50

// BuildDataset pairs each eligible feature vector with the close price
// lookforward bars ahead. Rows are chronological; targets stay in price
// units until normalization.
func BuildDataset(bars []models.PriceBar, lookforward int) (*models.Dataset, error) {
	if lookforward <= 0 {
		lookforward = 1
	}
	ds := &models.Dataset{
		Names:       models.FeatureNames(),
		Lookforward: lookforward,
	}
	for i := MinHistory; i+lookforward < len(bars); i++ {
		fv, ok := Extract(bars, i)
		if !ok {
			continue
		}
		ds.Features = append(ds.Features, sanitize(fv.Vector()))
		ds.Targets = append(ds.Targets, bars[i+lookforward].Close)
		ds.CurrentPrices = append(ds.CurrentPrices, bars[i].Close)
		ds.Dates = append(ds.Dates, bars[i].Date)
	}
	if ds.Len() < MinTrainingRows {
		return nil, fmt.Errorf("%w: %d feature rows engineered, need at least %d",
			models.ErrInsufficientData, ds.Len(), MinTrainingRows)
	}
	return ds, nil
}

// ComputeNormalization derives per-column z-score parameters plus the
// target mean/std over the dataset. A zero standard deviation is stored
// as one so normalization never divides by zero.
func ComputeNormalization(ds *models.Dataset) *models.NormalizationParams {
	cols := len(ds.Names)
	params := &models.NormalizationParams{
		Means: make([]float64, cols),
		Stds:  make([]float64, cols),
	}

	n := float64(ds.Len())
	for _, row := range ds.Features {
		for j, v := range row {
			params.Means[j] += v
		}
	}
	for j := range params.Means {
		params.Means[j] /= n
	}
	for _, row := range ds.Features {
		for j, v := range row {
			d := v - params.Means[j]
			params.Stds[j] += d * d
		}
	}
	for j := range params.Stds {
		params.Stds[j] = math.Sqrt(params.Stds[j] / (n - 1))
		if params.Stds[j] == 0 || math.IsNaN(params.Stds[j]) {
			params.Stds[j] = 1
		}
	}

	var tMean float64
	for _, t := range ds.Targets {
		tMean += t
	}
	tMean /= n
	var tVar float64
	for _, t := range ds.Targets {
		d := t - tMean
		tVar += d * d
	}
	params.TargetMean = tMean
	params.TargetStd = math.Sqrt(tVar / (n - 1))
	if params.TargetStd == 0 || math.IsNaN(params.TargetStd) {
		params.TargetStd = 1
	}
	return params
}

// NormalizeDataset returns a z-scored copy of the dataset; the original
// is left untouched.
func NormalizeDataset(ds *models.Dataset, params *models.NormalizationParams) *models.Dataset {
	out := &models.Dataset{
		Features:      make([][]float64, ds.Len()),
		Targets:       make([]float64, ds.Len()),
		CurrentPrices: ds.CurrentPrices,
		Dates:         ds.Dates,
		Names:         ds.Names,
		Lookforward:   ds.Lookforward,
	}
	for i, row := range ds.Features {
		out.Features[i] = NormalizeVector(row, params)
		out.Targets[i] = params.NormalizeTarget(ds.Targets[i])
	}
	return out
}

// NormalizeVector z-scores a single feature vector with training-set
// statistics.
func NormalizeVector(x []float64, params *models.NormalizationParams) []float64 {
	out := make([]float64, len(x))
	for j, v := range x {
		out[j] = (v - params.Means[j]) / params.Stds[j]
	}
	return sanitize(out)
}

// sanitize replaces non-finite values with zero in place and returns the
// slice.
func sanitize(xs []float64) []float64 {
	for i, v := range xs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			xs[i] = 0
		}
	}
	return xs
}
