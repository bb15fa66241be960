package backtest

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/quantpilot/mlcore/internal/feature"
	"github.com/quantpilot/mlcore/internal/indicator"
	"github.com/quantpilot/mlcore/models"
)

// warmupBars is the number of leading bars consumed before the first
// trading decision, so every indicator and the SMA200 are fully formed.
const warmupBars = feature.MinHistory

// Engine simulates a strategy bar by bar over daily history. It holds at
// most one long position and invests the full running capital on entry.
// Commission is charged per side: buys fill at price*(1+commission) and
// sells at price*(1-commission).
type Engine struct {
	cfg        indicator.Config
	commission float64
	logger     zerolog.Logger
}

// NewEngine creates a backtest engine using the given indicator settings
// and a per-side commission rate (0.001 means 0.1% each way).
func NewEngine(cfg indicator.Config, commissionPct float64) *Engine {
	return &Engine{
		cfg:        cfg,
		commission: commissionPct,
		logger:     log.With().Str("component", "backtest").Logger(),
	}
}

// position tracks the single open long position during a simulation.
type position struct {
	open       bool
	entryDate  int
	entryPrice float64
	quantity   float64
}

// Run simulates the strategy over the bar history. Stop loss and take
// profit are evaluated against the bar's extremes before the sell rule;
// any position still open on the last bar is closed at its close.
func (e *Engine) Run(strategy Strategy, symbol string, bars []models.PriceBar, initialCapital float64) (*models.BacktestResult, error) {
	if len(bars) <= warmupBars {
		return nil, fmt.Errorf("%w: got %d bars for %s, need more than %d",
			models.ErrInsufficientData, len(bars), symbol, warmupBars)
	}
	if initialCapital <= 0 {
		return nil, fmt.Errorf("initial capital must be positive, got %.2f", initialCapital)
	}

	stream := indicator.NewStream(e.cfg)
	for _, bar := range bars[:warmupBars] {
		stream.Update(bar)
	}

	capital := initialCapital
	var pos position
	var trades []models.Trade

	for i := warmupBars; i < len(bars); i++ {
		bar := bars[i]
		stream.Update(bar)
		snap := stream.Snapshot()

		if pos.open {
			if exitPrice, reason, ok := checkExit(strategy, pos, bar, snap); ok {
				capital = pos.quantity * exitPrice * (1 - e.commission)
				trades = append(trades, closeTrade(pos, bars, i, exitPrice, reason, e.commission))
				pos = position{}
			}
		}

		if !pos.open && i < len(bars)-1 && strategy.Buy(snap) {
			pos = position{
				open:       true,
				entryDate:  i,
				entryPrice: bar.Close,
				quantity:   capital / (bar.Close * (1 + e.commission)),
			}
		}
	}

	if pos.open {
		last := len(bars) - 1
		exitPrice := bars[last].Close
		capital = pos.quantity * exitPrice * (1 - e.commission)
		trades = append(trades, closeTrade(pos, bars, last, exitPrice, models.ExitFinal, e.commission))
	}

	result := &models.BacktestResult{
		StrategyName:   strategy.Name,
		Symbol:         symbol,
		StartDate:      bars[warmupBars].Date,
		EndDate:        bars[len(bars)-1].Date,
		InitialCapital: initialCapital,
		FinalCapital:   capital,
		Trades:         trades,
	}
	computeMetrics(result)

	e.logger.Info().
		Str("strategy", strategy.Name).
		Str("symbol", symbol).
		Int("bars", stream.Count()).
		Int("trades", result.NumberOfTrades).
		Float64("return_pct", result.TotalReturnPercent).
		Msg("Backtest complete")
	return result, nil
}

// checkExit returns the exit price and reason when the position should be
// closed on this bar. Stop loss takes precedence over take profit, which
// takes precedence over the sell rule.
func checkExit(strategy Strategy, pos position, bar models.PriceBar, snap *models.IndicatorSnapshot) (float64, string, bool) {
	if strategy.StopLossPct > 0 {
		stop := pos.entryPrice * (1 - strategy.StopLossPct)
		if bar.Low <= stop {
			return stop, models.ExitStopLoss, true
		}
	}
	if strategy.TakeProfitPct > 0 {
		target := pos.entryPrice * (1 + strategy.TakeProfitPct)
		if bar.High >= target {
			return target, models.ExitTakeProfit, true
		}
	}
	if strategy.Sell(snap) {
		return bar.Close, models.ExitSignal, true
	}
	return 0, "", false
}

// closeTrade builds the ledger entry for a round trip ending at bar index
// exitIdx. Profit is net of both commission legs, so the sum of trade
// profits equals the change in capital.
func closeTrade(pos position, bars []models.PriceBar, exitIdx int, exitPrice float64, reason string, commission float64) models.Trade {
	entryCost := pos.entryPrice * (1 + commission)
	proceeds := exitPrice * (1 - commission)
	profit := pos.quantity * (proceeds - entryCost)
	outcome := models.TradeLoss
	if profit > 0 {
		outcome = models.TradeWin
	}
	return models.Trade{
		EntryDate:         bars[pos.entryDate].Date,
		EntryPrice:        pos.entryPrice,
		ExitDate:          bars[exitIdx].Date,
		ExitPrice:         exitPrice,
		Quantity:          pos.quantity,
		Profit:            profit,
		ProfitPercent:     (proceeds - entryCost) / entryCost * 100,
		HoldingPeriodDays: exitIdx - pos.entryDate,
		Outcome:           outcome,
		ExitReason:        reason,
	}
}
