package models

import "time"

// Trade outcomes.
const (
	TradeWin  = "win"
	TradeLoss = "loss"
)

// Trade exit reasons.
const (
	ExitStopLoss   = "stop_loss"
	ExitTakeProfit = "take_profit"
	ExitSignal     = "signal"
	ExitFinal      = "final_exit"
)

// Trade is one completed round trip in a backtest ledger.
type Trade struct {
	EntryDate         time.Time `json:"entryDate"`
	EntryPrice        float64   `json:"entryPrice"`
	ExitDate          time.Time `json:"exitDate"`
	ExitPrice         float64   `json:"exitPrice"`
	Quantity          float64   `json:"quantity"`
	Profit            float64   `json:"profit"`
	ProfitPercent     float64   `json:"profitPercent"`
	HoldingPeriodDays int       `json:"holdingPeriodDays"`
	Outcome           string    `json:"outcome"` // win, loss
	ExitReason        string    `json:"exitReason"`
}

// BacktestResult aggregates a full historical simulation of one strategy
// on one symbol.
type BacktestResult struct {
	StrategyName            string    `json:"strategyName"`
	Symbol                  string    `json:"symbol"`
	StartDate               time.Time `json:"startDate"`
	EndDate                 time.Time `json:"endDate"`
	InitialCapital          float64   `json:"initialCapital"`
	FinalCapital            float64   `json:"finalCapital"`
	TotalReturn             float64   `json:"totalReturn"`
	TotalReturnPercent      float64   `json:"totalReturnPercent"`
	AnnualizedReturnPercent float64   `json:"annualizedReturnPercent"`
	Trades                  []Trade   `json:"trades"`
	NumberOfTrades          int       `json:"numberOfTrades"`
	WinningTrades           int       `json:"winningTrades"`
	LosingTrades            int       `json:"losingTrades"`
	WinRate                 float64   `json:"winRate"`
	AverageWin              float64   `json:"averageWin"`
	AverageLoss             float64   `json:"averageLoss"`
	LargestWin              float64   `json:"largestWin"`
	LargestLoss             float64   `json:"largestLoss"`
	MaxDrawdownPercent      float64   `json:"maxDrawdownPercent"`
	SharpeRatio             float64   `json:"sharpeRatio"`
	ProfitFactor            float64   `json:"profitFactor"`
	Expectancy              float64   `json:"expectancy"`
	AverageHoldingPeriod    float64   `json:"averageHoldingPeriod"`
}
