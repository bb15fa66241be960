package backtest

import (
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/quantpilot/mlcore/internal/indicator"
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
		c := 100 + float64(i)*0.2 + 5*math.Sin(float64(i)/8)
		return models.PriceBar{
			Open: c - 0.5, High: c + 2, Low: c - 2, Close: c,
			Volume: int64(15000 + (i%7)*400),
		}
	})
}

func neverTrade() Strategy {
	return Strategy{
		Name: "never",
		Buy:  func(*models.IndicatorSnapshot) bool { return false },
		Sell: func(*models.IndicatorSnapshot) bool { return false },
	}
}

func alwaysTrade() Strategy {
	return Strategy{
		Name: "always",
		Buy:  func(*models.IndicatorSnapshot) bool { return true },
		Sell: func(*models.IndicatorSnapshot) bool { return true },
	}
}

func TestRunInsufficientHistory(t *testing.T) {
	engine := NewEngine(indicator.DefaultConfig(), 0)
	_, err := engine.Run(neverTrade(), "TEST", marketBars(warmupBars), 10000)
	if !errors.Is(err, models.ErrInsufficientData) {
		t.Errorf("Run() error = %v, want ErrInsufficientData", err)
	}
}

func TestRunNeverBuys(t *testing.T) {
	engine := NewEngine(indicator.DefaultConfig(), 0)
	result, err := engine.Run(neverTrade(), "TEST", marketBars(300), 10000)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if result.NumberOfTrades != 0 {
		t.Errorf("trades = %d, want 0", result.NumberOfTrades)
	}
	if result.FinalCapital != 10000 {
		t.Errorf("final capital = %v, want 10000 unchanged", result.FinalCapital)
	}
	if result.TotalReturnPercent != 0 {
		t.Errorf("total return = %v%%, want 0", result.TotalReturnPercent)
	}
}

func TestRunClosesFinalPosition(t *testing.T) {
	// Buy on the first tradable bar, never sell via rule, no stops: the
	// single position must be closed at the final close.
	strategy := Strategy{
		Name: "buy_and_hold",
		Buy:  func(*models.IndicatorSnapshot) bool { return true },
		Sell: func(*models.IndicatorSnapshot) bool { return false },
	}

	bars := marketBars(300)
	engine := NewEngine(indicator.DefaultConfig(), 0)
	result, err := engine.Run(strategy, "TEST", bars, 10000)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if result.NumberOfTrades != 1 {
		t.Fatalf("trades = %d, want 1", result.NumberOfTrades)
	}
	trade := result.Trades[0]
	if trade.ExitReason != models.ExitFinal {
		t.Errorf("exit reason = %q, want %q", trade.ExitReason, models.ExitFinal)
	}
	if trade.ExitPrice != bars[len(bars)-1].Close {
		t.Errorf("exit price = %v, want final close %v", trade.ExitPrice, bars[len(bars)-1].Close)
	}
	if trade.EntryPrice != bars[warmupBars].Close {
		t.Errorf("entry price = %v, want first tradable close %v", trade.EntryPrice, bars[warmupBars].Close)
	}

	wantFinal := 10000 / trade.EntryPrice * trade.ExitPrice
	if math.Abs(result.FinalCapital-wantFinal) > 1e-9 {
		t.Errorf("final capital = %v, want %v", result.FinalCapital, wantFinal)
	}
}

func TestRunChargesCommissionPerSide(t *testing.T) {
	strategy := Strategy{
		Name: "buy_and_hold",
		Buy:  func(*models.IndicatorSnapshot) bool { return true },
		Sell: func(*models.IndicatorSnapshot) bool { return false },
	}

	const commission = 0.001
	bars := marketBars(300)
	engine := NewEngine(indicator.DefaultConfig(), commission)
	result, err := engine.Run(strategy, "TEST", bars, 10000)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if result.NumberOfTrades != 1 {
		t.Fatalf("trades = %d, want 1", result.NumberOfTrades)
	}

	trade := result.Trades[0]
	wantQuantity := 10000 / (trade.EntryPrice * (1 + commission))
	if math.Abs(trade.Quantity-wantQuantity) > 1e-9 {
		t.Errorf("quantity = %v, want %v", trade.Quantity, wantQuantity)
	}

	wantFinal := wantQuantity * trade.ExitPrice * (1 - commission)
	if math.Abs(result.FinalCapital-wantFinal) > 1e-9 {
		t.Errorf("final capital = %v, want %v", result.FinalCapital, wantFinal)
	}

	wantProfit := wantQuantity * (trade.ExitPrice*(1-commission) - trade.EntryPrice*(1+commission))
	if math.Abs(trade.Profit-wantProfit) > 1e-9 {
		t.Errorf("trade profit = %v, want %v", trade.Profit, wantProfit)
	}
	if math.Abs((result.FinalCapital-result.InitialCapital)-trade.Profit) > 1e-9 {
		t.Errorf("capital change %v != trade profit %v",
			result.FinalCapital-result.InitialCapital, trade.Profit)
	}

	free, err := NewEngine(indicator.DefaultConfig(), 0).Run(strategy, "TEST", bars, 10000)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if result.FinalCapital >= free.FinalCapital {
		t.Errorf("commissioned final capital %v, want below commission-free %v",
			result.FinalCapital, free.FinalCapital)
	}
}

func TestTradeIdentities(t *testing.T) {
	engine := NewEngine(indicator.DefaultConfig(), 0)
	result, err := engine.Run(RSIReversion(0.05, 0.10), "TEST", marketBars(400), 10000)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if result.WinningTrades+result.LosingTrades != result.NumberOfTrades {
		t.Errorf("wins %d + losses %d != trades %d",
			result.WinningTrades, result.LosingTrades, result.NumberOfTrades)
	}

	var total float64
	for _, trade := range result.Trades {
		wantProfit := trade.Quantity * (trade.ExitPrice - trade.EntryPrice)
		if math.Abs(trade.Profit-wantProfit) > 1e-9 {
			t.Errorf("trade profit = %v, want %v", trade.Profit, wantProfit)
		}
		if trade.ExitDate.Before(trade.EntryDate) {
			t.Errorf("exit %v before entry %v", trade.ExitDate, trade.EntryDate)
		}
		if trade.Outcome == models.TradeWin && trade.Profit <= 0 {
			t.Errorf("win with profit %v", trade.Profit)
		}
		if trade.Outcome == models.TradeLoss && trade.Profit > 0 {
			t.Errorf("loss with profit %v", trade.Profit)
		}
		total += trade.Profit
	}

	if math.Abs(result.FinalCapital-result.InitialCapital-total) > 1e-6 {
		t.Errorf("capital change %v does not match summed profits %v",
			result.FinalCapital-result.InitialCapital, total)
	}
}

func TestStopLossExit(t *testing.T) {
	// A cliff drop right after entry must trigger the stop at its exact
	// price, not the bar close.
	bars := generateTestBars(warmupBars+4, func(i int) models.PriceBar {
		c := 100.0
		if i > warmupBars+1 {
			c = 70
		}
		return models.PriceBar{Open: c, High: c + 1, Low: c - 1, Close: c, Volume: 1000}
	})

	strategy := Strategy{
		Name:        "cliff",
		Buy:         func(*models.IndicatorSnapshot) bool { return true },
		Sell:        func(*models.IndicatorSnapshot) bool { return false },
		StopLossPct: 0.05,
	}

	engine := NewEngine(indicator.DefaultConfig(), 0)
	result, err := engine.Run(strategy, "TEST", bars, 10000)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if result.NumberOfTrades == 0 {
		t.Fatal("expected at least one trade")
	}

	trade := result.Trades[0]
	if trade.ExitReason != models.ExitStopLoss {
		t.Fatalf("exit reason = %q, want %q", trade.ExitReason, models.ExitStopLoss)
	}
	wantExit := trade.EntryPrice * 0.95
	if math.Abs(trade.ExitPrice-wantExit) > 1e-9 {
		t.Errorf("exit price = %v, want stop level %v", trade.ExitPrice, wantExit)
	}
}

func TestComputeMetricsProfitFactor(t *testing.T) {
	result := &models.BacktestResult{
		StartDate:      time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:        time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		InitialCapital: 10000,
		FinalCapital:   11000,
		Trades: []models.Trade{
			{Profit: 600, ProfitPercent: 6, Outcome: models.TradeWin},
			{Profit: 400, ProfitPercent: 4, Outcome: models.TradeWin},
		},
	}
	computeMetrics(result)

	if !math.IsInf(result.ProfitFactor, 1) {
		t.Errorf("profit factor with no losses = %v, want +Inf", result.ProfitFactor)
	}
	if result.WinRate != 100 {
		t.Errorf("win rate = %v, want 100", result.WinRate)
	}
	if result.Expectancy != 500 {
		t.Errorf("expectancy = %v, want 500", result.Expectancy)
	}
	if result.MaxDrawdownPercent != 0 {
		t.Errorf("drawdown = %v, want 0", result.MaxDrawdownPercent)
	}
}

func TestComputeMetricsMixedTrades(t *testing.T) {
	result := &models.BacktestResult{
		StartDate:      time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:        time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC),
		InitialCapital: 10000,
		FinalCapital:   10200,
		Trades: []models.Trade{
			{Profit: 500, ProfitPercent: 5, Outcome: models.TradeWin, HoldingPeriodDays: 10},
			{Profit: -300, ProfitPercent: -3, Outcome: models.TradeLoss, HoldingPeriodDays: 6},
			{Profit: 0, ProfitPercent: 0, Outcome: models.TradeLoss, HoldingPeriodDays: 4},
		},
	}
	computeMetrics(result)

	if result.WinningTrades != 1 || result.LosingTrades != 2 {
		t.Errorf("wins/losses = %d/%d, want 1/2", result.WinningTrades, result.LosingTrades)
	}
	if result.AverageWin != 500 {
		t.Errorf("average win = %v, want 500", result.AverageWin)
	}
	if result.AverageLoss != -150 {
		t.Errorf("average loss = %v, want -150", result.AverageLoss)
	}
	if result.LargestLoss != -300 {
		t.Errorf("largest loss = %v, want -300", result.LargestLoss)
	}
	wantPF := 500.0 / 300.0
	if math.Abs(result.ProfitFactor-wantPF) > 1e-9 {
		t.Errorf("profit factor = %v, want %v", result.ProfitFactor, wantPF)
	}
	wantHold := (10.0 + 6 + 4) / 3
	if math.Abs(result.AverageHoldingPeriod-wantHold) > 1e-9 {
		t.Errorf("average holding = %v, want %v", result.AverageHoldingPeriod, wantHold)
	}
}

func TestStrategyByName(t *testing.T) {
	for _, name := range []string{"rsi_reversion", "macd_cross", "trend_follow"} {
		strategy, err := StrategyByName(name, 0.05, 0.10)
		if err != nil {
			t.Errorf("StrategyByName(%q) error = %v", name, err)
		}
		if strategy.Name != name {
			t.Errorf("strategy name = %q, want %q", strategy.Name, name)
		}
	}

	if _, err := StrategyByName("martingale", 0, 0); err == nil {
		t.Error("expected error for unknown strategy")
	}
}

func TestRunModelDriven(t *testing.T) {
	engine := NewEngine(indicator.DefaultConfig(), 0)
	result, err := engine.RunModelDriven("TEST", marketBars(320), 10000, ModelDrivenOptions{Seed: 5})
	if err != nil {
		t.Fatalf("RunModelDriven() error = %v", err)
	}

	if result.StrategyName != "model_driven" {
		t.Errorf("strategy name = %q", result.StrategyName)
	}
	if result.WinningTrades+result.LosingTrades != result.NumberOfTrades {
		t.Errorf("wins %d + losses %d != trades %d",
			result.WinningTrades, result.LosingTrades, result.NumberOfTrades)
	}

	var total float64
	for _, trade := range result.Trades {
		total += trade.Profit
	}
	if math.Abs(result.FinalCapital-result.InitialCapital-total) > 1e-6 {
		t.Errorf("capital change %v does not match summed profits %v",
			result.FinalCapital-result.InitialCapital, total)
	}
}

func TestFormatResults(t *testing.T) {
	if got := FormatResults(nil); got != "No backtest results available" {
		t.Errorf("FormatResults(nil) = %q", got)
	}

	engine := NewEngine(indicator.DefaultConfig(), 0)
	result, err := engine.Run(alwaysTrade(), "TEST", marketBars(300), 10000)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	out := FormatResults(result)
	if !strings.Contains(out, "BACKTEST RESULTS") {
		t.Errorf("missing header in %q", out)
	}
	if !strings.Contains(out, "Total trades:") {
		t.Errorf("missing trade count in %q", out)
	}
}
