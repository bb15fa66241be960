// Package feature engineers the fixed-width numeric vectors that the
// model bank trains on, and assembles them into aligned datasets with
// z-score normalization.
package feature

import (
	"math"

	"github.com/quantpilot/mlcore/internal/indicator"
	"github.com/quantpilot/mlcore/models"
)

// MinHistory is the number of preceding bars a feature vector requires.
// Indices with less history yield no vector at all.
const MinHistory = 200

// tradingDaysPerYear annualizes daily-return volatility.
const tradingDaysPerYear = 252

// Extract builds the feature vector for bar index i using only
// bars[0..i]. It reports false when i has fewer than MinHistory
// preceding bars.
func Extract(bars []models.PriceBar, i int) (*models.FeatureVector, bool) {
	if i < MinHistory || i >= len(bars) {
		return nil, false
	}

	win := bars[:i+1]
	cur := bars[i]
	prev := bars[i-1]
	closes := models.Closes(win)
	snap := indicator.Calculate(win, indicator.Config{})

	f := &models.FeatureVector{
		Close:  cur.Close,
		Open:   cur.Open,
		High:   cur.High,
		Low:    cur.Low,
		Volume: float64(cur.Volume),

		Return1D:  returnOver(closes, 1),
		Return5D:  returnOver(closes, 5),
		Return10D: returnOver(closes, 10),
		Return20D: returnOver(closes, 20),

		RSI14:      snap.RSI.Value,
		MACD:       snap.MACD.MACD,
		MACDSignal: snap.MACD.Signal,
		MACDHist:   snap.MACD.Histogram,
		BBUpper:    snap.Bollinger.Upper,
		BBMiddle:   snap.Bollinger.Middle,
		BBLower:    snap.Bollinger.Lower,
		BBPosition: bandPosition(cur.Close, snap.Bollinger.Upper, snap.Bollinger.Lower),
		SMA10:      meanLast(closes, 10),
		SMA20:      snap.MovingAverages.SMA20,
		SMA50:      snap.MovingAverages.SMA50,
		SMA200:     snap.MovingAverages.SMA200,
		EMA12:      snap.MovingAverages.EMA12,
		EMA26:      snap.MovingAverages.EMA26,

		ROC5:       returnOver(closes, 5) * 100,
		ROC10:      returnOver(closes, 10) * 100,
		Momentum10: cur.Close - closes[len(closes)-11],
		StochK:     snap.Stochastic.K,
		StochD:     snap.Stochastic.D,

		ATR14:        averageTrueRange(win, 14),
		Volatility20: annualizedVolatility(closes, 20),
		Volatility50: annualizedVolatility(closes, 50),
		HLRange:      safeDiv(cur.High-cur.Low, cur.Close),

		OBV: onBalanceVolume(win),

		Gap:            safeDiv(cur.Open-prev.Close, prev.Close),
		IntradayReturn: safeDiv(cur.Close-cur.Open, cur.Open),

		Slope5:  olsSlope(closes[len(closes)-5:]),
		Slope10: olsSlope(closes[len(closes)-10:]),
		Slope20: olsSlope(closes[len(closes)-20:]),
	}

	// Candle shape relative to the day's open/close.
	f.BodySize = safeDiv(math.Abs(cur.Close-cur.Open), cur.Open)
	f.UpperShadow = safeDiv(cur.High-math.Max(cur.Open, cur.Close), cur.Close)
	f.LowerShadow = safeDiv(math.Min(cur.Open, cur.Close)-cur.Low, cur.Close)

	// Volume statistics over the trailing 20 bars.
	avgVol := averageVolume(win, 20)
	f.VolumeRatio = safeDiv(float64(cur.Volume), avgVol)
	f.VolumeChange = safeDiv(float64(cur.Volume-prev.Volume), float64(prev.Volume))
	f.VWAP20 = volumeWeightedPrice(win, 20)
	f.VWAPDeviation = safeDiv(cur.Close-f.VWAP20, f.VWAP20)

	return f, true
}

// returnOver computes the simple return over the last k bars.
func returnOver(closes []float64, k int) float64 {
	n := len(closes)
	if n <= k {
		return 0
	}
	base := closes[n-1-k]
	return safeDiv(closes[n-1]-base, base)
}

// bandPosition places a close within the Bollinger envelope: 0 at the
// lower band, 1 at the upper, 0.5 when the bands have collapsed.
func bandPosition(close, upper, lower float64) float64 {
	if upper-lower <= 0 {
		return 0.5
	}
	return (close - lower) / (upper - lower)
}

// averageTrueRange is the simple mean of the last period true ranges.
func averageTrueRange(bars []models.PriceBar, period int) float64 {
	n := len(bars)
	if n < period+1 {
		return 0
	}
	var sum float64
	for i := n - period; i < n; i++ {
		tr := bars[i].High - bars[i].Low
		if hc := math.Abs(bars[i].High - bars[i-1].Close); hc > tr {
			tr = hc
		}
		if lc := math.Abs(bars[i].Low - bars[i-1].Close); lc > tr {
			tr = lc
		}
		sum += tr
	}
	return sum / float64(period)
}

// annualizedVolatility is the sample standard deviation of the trailing
// window of daily returns, scaled by the square root of the trading year.
func annualizedVolatility(closes []float64, window int) float64 {
	n := len(closes)
	if n < window+1 {
		return 0
	}
	returns := make([]float64, window)
	for i := 0; i < window; i++ {
		idx := n - window + i
		returns[i] = safeDiv(closes[idx]-closes[idx-1], closes[idx-1])
	}
	return sampleStdDev(returns) * math.Sqrt(tradingDaysPerYear)
}

// onBalanceVolume accumulates signed volume over the full history.
func onBalanceVolume(bars []models.PriceBar) float64 {
	if len(bars) < 2 {
		return 0
	}
	obv := float64(bars[0].Volume)
	for i := 1; i < len(bars); i++ {
		switch {
		case bars[i].Close > bars[i-1].Close:
			obv += float64(bars[i].Volume)
		case bars[i].Close < bars[i-1].Close:
			obv -= float64(bars[i].Volume)
		}
	}
	return obv
}

// volumeWeightedPrice is the volume-weighted typical price over the
// trailing window. Falls back to the latest close when no volume traded.
func volumeWeightedPrice(bars []models.PriceBar, window int) float64 {
	n := len(bars)
	start := n - window
	if start < 0 {
		start = 0
	}
	var priceVol, vol float64
	for i := start; i < n; i++ {
		typical := (bars[i].High + bars[i].Low + bars[i].Close) / 3
		priceVol += typical * float64(bars[i].Volume)
		vol += float64(bars[i].Volume)
	}
	if vol == 0 {
		return bars[n-1].Close
	}
	return priceVol / vol
}

func averageVolume(bars []models.PriceBar, window int) float64 {
	n := len(bars)
	start := n - window
	if start < 0 {
		start = 0
	}
	var sum float64
	for i := start; i < n; i++ {
		sum += float64(bars[i].Volume)
	}
	return sum / float64(n-start)
}

// olsSlope fits an ordinary-least-squares line through the values against
// their rank index and returns its slope.
func olsSlope(ys []float64) float64 {
	n := float64(len(ys))
	if n < 2 {
		return 0
	}
	var sumX, sumY, sumXY, sumXX float64
	for i, y := range ys {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}
	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return 0
	}
	return (n*sumXY - sumX*sumY) / denom
}

func meanLast(xs []float64, k int) float64 {
	n := len(xs)
	if n < k {
		k = n
	}
	if k == 0 {
		return 0
	}
	var sum float64
	for i := n - k; i < n; i++ {
		sum += xs[i]
	}
	return sum / float64(k)
}

func sampleStdDev(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	var mean float64
	for _, v := range xs {
		mean += v
	}
	mean /= float64(len(xs))
	var variance float64
	for _, v := range xs {
		d := v - mean
		variance += d * d
	}
	return math.Sqrt(variance / float64(len(xs)-1))
}

func safeDiv(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}
