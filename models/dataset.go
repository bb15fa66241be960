package models

import "time"

// Dataset is the aligned training matrix produced by the dataset builder.
// Row i pairs the feature vector extracted at some bar with the close
// price lookforward days later.
type Dataset struct {
	Features      [][]float64 `json:"-"`
	Targets       []float64   `json:"-"`
	CurrentPrices []float64   `json:"-"`
	Dates         []time.Time `json:"-"`
	Names         []string    `json:"names"`
	Lookforward   int         `json:"lookforward"`
}

// Len returns the number of training rows.
func (d *Dataset) Len() int { return len(d.Features) }

// NormalizationParams holds the z-score statistics computed over a
// training set. A standard deviation that comes out as zero is stored as
// one so normalization never divides by zero.
type NormalizationParams struct {
	Means      []float64 `json:"means"`
	Stds       []float64 `json:"stds"`
	TargetMean float64   `json:"targetMean"`
	TargetStd  float64   `json:"targetStd"`
}

// DenormalizeTarget maps a normalized model output back to price units.
func (p *NormalizationParams) DenormalizeTarget(v float64) float64 {
	return v*p.TargetStd + p.TargetMean
}

// NormalizeTarget maps a price into normalized target space.
func (p *NormalizationParams) NormalizeTarget(v float64) float64 {
	return (v - p.TargetMean) / p.TargetStd
}
