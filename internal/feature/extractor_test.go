package feature

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

func trendingBars(n int) []models.PriceBar {
	return generateTestBars(n, func(i int) models.PriceBar {
		c := 100 + float64(i)*0.5 + 3*math.Sin(float64(i)/7)
		return models.PriceBar{
			Open: c - 0.4, High: c + 1.2, Low: c - 1.2, Close: c,
			Volume: int64(10000 + (i%9)*500),
		}
	})
}

func TestExtractRequiresFullHistory(t *testing.T) {
	bars := trendingBars(MinHistory + 10)

	if _, ok := Extract(bars, MinHistory-1); ok {
		t.Errorf("Extract at index %d should fail", MinHistory-1)
	}
	if _, ok := Extract(bars, MinHistory); !ok {
		t.Errorf("Extract at index %d should succeed", MinHistory)
	}
}

func TestExtractVectorIsFinite(t *testing.T) {
	bars := trendingBars(260)
	fv, ok := Extract(bars, len(bars)-1)
	if !ok {
		t.Fatal("Extract failed on full history")
	}

	vec := fv.Vector()
	names := models.FeatureNames()
	if len(vec) != len(names) {
		t.Fatalf("vector length = %d, want %d", len(vec), len(names))
	}
	for i, v := range vec {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Errorf("feature %s is not finite: %v", names[i], v)
		}
	}
	if fv.Close != bars[len(bars)-1].Close {
		t.Errorf("Close feature = %v, want %v", fv.Close, bars[len(bars)-1].Close)
	}
}

func TestExtractIgnoresFutureBars(t *testing.T) {
	bars := trendingBars(300)
	idx := 250

	fv1, ok := Extract(bars, idx)
	if !ok {
		t.Fatal("Extract failed")
	}

	// Mutating bars after idx must not change the vector.
	altered := make([]models.PriceBar, len(bars))
	copy(altered, bars)
	for i := idx + 1; i < len(altered); i++ {
		altered[i].Close *= 2
		altered[i].High *= 2
		altered[i].Low *= 2
		altered[i].Open *= 2
	}
	fv2, ok := Extract(altered, idx)
	if !ok {
		t.Fatal("Extract failed on altered series")
	}

	v1, v2 := fv1.Vector(), fv2.Vector()
	for i := range v1 {
		if v1[i] != v2[i] {
			t.Errorf("feature %s leaked future data: %v vs %v", models.FeatureNames()[i], v1[i], v2[i])
		}
	}
}

func TestBuildDatasetTargets(t *testing.T) {
	bars := trendingBars(300)
	ds, err := BuildDataset(bars, 1)
	if err != nil {
		t.Fatalf("BuildDataset() error = %v", err)
	}

	wantRows := len(bars) - MinHistory - 1
	if ds.Len() != wantRows {
		t.Errorf("dataset rows = %d, want %d", ds.Len(), wantRows)
	}
	for i := 0; i < ds.Len(); i++ {
		barIdx := MinHistory + i
		if ds.Targets[i] != bars[barIdx+1].Close {
			t.Errorf("row %d target = %v, want next close %v", i, ds.Targets[i], bars[barIdx+1].Close)
		}
		if ds.CurrentPrices[i] != bars[barIdx].Close {
			t.Errorf("row %d current price = %v, want %v", i, ds.CurrentPrices[i], bars[barIdx].Close)
		}
	}
}

func TestBuildDatasetInsufficientData(t *testing.T) {
	tests := []struct {
		name string
		n    int
	}{
		{"Below feature warmup", MinHistory - 1},
		{"Too few rows", MinHistory + MinTrainingRows - 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BuildDataset(trendingBars(tt.n), 1)
			if !errors.Is(err, models.ErrInsufficientData) {
				t.Errorf("BuildDataset() error = %v, want ErrInsufficientData", err)
			}
		})
	}
}

func TestNormalizationStatistics(t *testing.T) {
	bars := trendingBars(320)
	ds, err := BuildDataset(bars, 1)
	if err != nil {
		t.Fatalf("BuildDataset() error = %v", err)
	}

	params := ComputeNormalization(ds)
	norm := NormalizeDataset(ds, params)

	// Each normalized column should center near zero with unit spread,
	// except constant columns which normalize to exactly zero.
	for j := range norm.Names {
		var mean float64
		for _, row := range norm.Features {
			mean += row[j]
		}
		mean /= float64(norm.Len())
		if math.Abs(mean) > 1e-6 {
			t.Errorf("column %s mean = %v, want ~0", norm.Names[j], mean)
		}

		var variance float64
		for _, row := range norm.Features {
			d := row[j] - mean
			variance += d * d
		}
		variance /= float64(norm.Len() - 1)
		sd := math.Sqrt(variance)
		if sd > 1e-9 && math.Abs(sd-1) > 1e-6 {
			t.Errorf("column %s std = %v, want ~1", norm.Names[j], sd)
		}
	}

	// Round trip through target normalization.
	for i, target := range ds.Targets {
		back := params.DenormalizeTarget(norm.Targets[i])
		if math.Abs(back-target) > 1e-9*math.Abs(target) {
			t.Errorf("target round trip: got %v, want %v", back, target)
		}
	}

	// The source dataset must stay in price units.
	if ds.Targets[0] < 50 {
		t.Errorf("original dataset was mutated: target %v", ds.Targets[0])
	}
}
