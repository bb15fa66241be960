package backtest

import (
	"fmt"
	"math"

	"github.com/quantpilot/mlcore/models"
)

// FormatResults creates a human-readable summary of backtest results.
func FormatResults(r *models.BacktestResult) string {
	if r == nil {
		return "No backtest results available"
	}

	output := "\n===== BACKTEST RESULTS =====\n"
	output += fmt.Sprintf("Strategy: %s\n", r.StrategyName)
	output += fmt.Sprintf("Symbol: %s\n", r.Symbol)
	output += fmt.Sprintf("Period: %s to %s\n",
		r.StartDate.Format("2006-01-02"), r.EndDate.Format("2006-01-02"))
	output += fmt.Sprintf("Initial capital: %.2f\n", r.InitialCapital)
	output += fmt.Sprintf("Final capital: %.2f\n", r.FinalCapital)
	output += fmt.Sprintf("Total return: %.2f (%.2f%%)\n", r.TotalReturn, r.TotalReturnPercent)
	output += fmt.Sprintf("Annualized return: %.2f%%\n", r.AnnualizedReturnPercent)

	output += fmt.Sprintf("\nTotal trades: %d\n", r.NumberOfTrades)
	if r.NumberOfTrades == 0 {
		return output
	}

	output += fmt.Sprintf("Winning trades: %d (%.2f%%)\n", r.WinningTrades, r.WinRate)
	output += fmt.Sprintf("Losing trades: %d\n", r.LosingTrades)
	output += fmt.Sprintf("Average win: %.2f\n", r.AverageWin)
	output += fmt.Sprintf("Average loss: %.2f\n", r.AverageLoss)
	output += fmt.Sprintf("Largest win: %.2f\n", r.LargestWin)
	output += fmt.Sprintf("Largest loss: %.2f\n", r.LargestLoss)

	if math.IsInf(r.ProfitFactor, 1) {
		output += "Profit factor: inf\n"
	} else {
		output += fmt.Sprintf("Profit factor: %.2f\n", r.ProfitFactor)
	}
	output += fmt.Sprintf("Expectancy: %.2f\n", r.Expectancy)
	output += fmt.Sprintf("Maximum drawdown: %.2f%%\n", r.MaxDrawdownPercent)
	output += fmt.Sprintf("Sharpe ratio: %.2f\n", r.SharpeRatio)
	output += fmt.Sprintf("Average holding period: %.1f days\n", r.AverageHoldingPeriod)

	return output
}
