package backtest

import (
	"math"

	"github.com/quantpilot/mlcore/models"
)

// computeMetrics fills every derived field of the result from its trade
// ledger and capital figures.
func computeMetrics(r *models.BacktestResult) {
	r.NumberOfTrades = len(r.Trades)
	r.TotalReturn = r.FinalCapital - r.InitialCapital
	r.TotalReturnPercent = r.TotalReturn / r.InitialCapital * 100
	r.AnnualizedReturnPercent = annualizedReturn(r)

	if r.NumberOfTrades == 0 {
		return
	}

	var grossWin, grossLoss float64
	var holdingDays int
	for _, t := range r.Trades {
		holdingDays += t.HoldingPeriodDays
		if t.Outcome == models.TradeWin {
			r.WinningTrades++
			grossWin += t.Profit
			if t.Profit > r.LargestWin {
				r.LargestWin = t.Profit
			}
		} else {
			r.LosingTrades++
			grossLoss += -t.Profit
			if t.Profit < r.LargestLoss {
				r.LargestLoss = t.Profit
			}
		}
	}

	r.WinRate = float64(r.WinningTrades) / float64(r.NumberOfTrades) * 100
	if r.WinningTrades > 0 {
		r.AverageWin = grossWin / float64(r.WinningTrades)
	}
	if r.LosingTrades > 0 {
		r.AverageLoss = -grossLoss / float64(r.LosingTrades)
	}
	r.AverageHoldingPeriod = float64(holdingDays) / float64(r.NumberOfTrades)
	r.Expectancy = (grossWin - grossLoss) / float64(r.NumberOfTrades)

	switch {
	case grossLoss > 0:
		r.ProfitFactor = grossWin / grossLoss
	case grossWin > 0:
		r.ProfitFactor = math.Inf(1)
	}

	r.MaxDrawdownPercent = maxDrawdown(r)
	r.SharpeRatio = sharpeRatio(r.Trades)
}

// annualizedReturn scales the total return by the calendar span of the
// simulation.
func annualizedReturn(r *models.BacktestResult) float64 {
	days := r.EndDate.Sub(r.StartDate).Hours() / 24
	if days <= 0 || r.InitialCapital <= 0 {
		return r.TotalReturnPercent
	}
	growth := r.FinalCapital / r.InitialCapital
	if growth <= 0 {
		return -100
	}
	return (math.Pow(growth, 365/days) - 1) * 100
}

// maxDrawdown walks the per-trade equity curve against its high-water
// mark.
func maxDrawdown(r *models.BacktestResult) float64 {
	equity := r.InitialCapital
	peak := equity
	var maxDD float64
	for _, t := range r.Trades {
		equity += t.Profit
		if equity > peak {
			peak = equity
		}
		if peak > 0 {
			dd := (peak - equity) / peak
			if dd > maxDD {
				maxDD = dd
			}
		}
	}
	return maxDD * 100
}

// sharpeRatio is the mean over standard deviation of per-trade percent
// returns, with a zero risk-free rate. Fewer than two trades or a flat
// return series gives zero.
func sharpeRatio(trades []models.Trade) float64 {
	if len(trades) < 2 {
		return 0
	}

	var mean float64
	for _, t := range trades {
		mean += t.ProfitPercent
	}
	mean /= float64(len(trades))

	var variance float64
	for _, t := range trades {
		diff := t.ProfitPercent - mean
		variance += diff * diff
	}
	variance /= float64(len(trades) - 1)

	sd := math.Sqrt(variance)
	if sd == 0 {
		return 0
	}
	return mean / sd
}
