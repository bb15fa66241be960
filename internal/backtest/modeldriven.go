package backtest

import (
	"fmt"

	"github.com/quantpilot/mlcore/internal/feature"
	"github.com/quantpilot/mlcore/internal/forecast"
	"github.com/quantpilot/mlcore/models"
)

// Model-driven entry and exit thresholds on the predicted next-day
// return.
const (
	modelBuyThreshold  = 0.02
	modelSellThreshold = -0.02
)

// trainFraction is the chronological share of the dataset the feature
// models train on; the remainder is the simulated trading span.
const trainFraction = 0.8

// ModelDrivenOptions configures a model-driven simulation.
type ModelDrivenOptions struct {
	Lookforward int
	Seed        int64
	Linear      forecast.LinearConfig
	Forest      forecast.ForestConfig
}

// RunModelDriven trains the feature models on the first 80% of the
// engineered dataset and trades the held-out tail on their blended
// next-day forecast: buy when the predicted return exceeds 2%, sell when
// it falls below -2%. Trades execute at the row's closing price; any open
// position is closed on the last held-out row.
func (e *Engine) RunModelDriven(symbol string, bars []models.PriceBar, initialCapital float64, opts ModelDrivenOptions) (*models.BacktestResult, error) {
	if initialCapital <= 0 {
		return nil, fmt.Errorf("initial capital must be positive, got %.2f", initialCapital)
	}
	if opts.Lookforward <= 0 {
		opts.Lookforward = 1
	}

	ds, err := feature.BuildDataset(bars, opts.Lookforward)
	if err != nil {
		return nil, fmt.Errorf("engineering dataset for %s: %w", symbol, err)
	}
	params := feature.ComputeNormalization(ds)
	norm := feature.NormalizeDataset(ds, params)

	split := int(float64(norm.Len()) * trainFraction)
	if split < 1 || split >= norm.Len() {
		return nil, fmt.Errorf("%w: %d dataset rows leave no held-out span for %s",
			models.ErrInsufficientData, norm.Len(), symbol)
	}

	forestCfg := opts.Forest
	forestCfg.Seed = opts.Seed
	linear := forecast.TrainLinear(norm.Features[:split], norm.Targets[:split], opts.Linear)
	forest := forecast.TrainForest(norm.Features[:split], norm.Targets[:split], forestCfg)

	capital := initialCapital
	var entryIdx int
	var entryPrice, quantity float64
	holding := false
	var trades []models.Trade

	for i := split; i < norm.Len(); i++ {
		price := ds.CurrentPrices[i]
		if price <= 0 {
			continue
		}
		linVal, _ := linear.Predict(norm.Features[i])
		forVal, _ := forest.Predict(norm.Features[i])
		predicted := params.DenormalizeTarget((linVal + forVal) / 2)
		expectedReturn := (predicted - price) / price

		if holding && expectedReturn < modelSellThreshold {
			capital = quantity * price * (1 - e.commission)
			trades = append(trades, modelTrade(ds, entryIdx, i, entryPrice, price, quantity, models.ExitSignal, e.commission))
			holding = false
		}
		if !holding && i < norm.Len()-1 && expectedReturn > modelBuyThreshold {
			holding = true
			entryIdx = i
			entryPrice = price
			quantity = capital / (price * (1 + e.commission))
		}
	}

	if holding {
		last := norm.Len() - 1
		exitPrice := ds.CurrentPrices[last]
		capital = quantity * exitPrice * (1 - e.commission)
		trades = append(trades, modelTrade(ds, entryIdx, last, entryPrice, exitPrice, quantity, models.ExitFinal, e.commission))
	}

	result := &models.BacktestResult{
		StrategyName:   "model_driven",
		Symbol:         symbol,
		StartDate:      ds.Dates[split],
		EndDate:        ds.Dates[norm.Len()-1],
		InitialCapital: initialCapital,
		FinalCapital:   capital,
		Trades:         trades,
	}
	computeMetrics(result)

	e.logger.Info().
		Str("strategy", "model_driven").
		Str("symbol", symbol).
		Int("trades", result.NumberOfTrades).
		Float64("return_pct", result.TotalReturnPercent).
		Msg("Model-driven backtest complete")
	return result, nil
}

// modelTrade builds a ledger entry from dataset row indexes. Profit is net
// of both commission legs.
func modelTrade(ds *models.Dataset, entryIdx, exitIdx int, entryPrice, exitPrice, quantity float64, reason string, commission float64) models.Trade {
	entryCost := entryPrice * (1 + commission)
	proceeds := exitPrice * (1 - commission)
	profit := quantity * (proceeds - entryCost)
	outcome := models.TradeLoss
	if profit > 0 {
		outcome = models.TradeWin
	}
	return models.Trade{
		EntryDate:         ds.Dates[entryIdx],
		EntryPrice:        entryPrice,
		ExitDate:          ds.Dates[exitIdx],
		ExitPrice:         exitPrice,
		Quantity:          quantity,
		Profit:            profit,
		ProfitPercent:     (proceeds - entryCost) / entryCost * 100,
		HoldingPeriodDays: exitIdx - entryIdx,
		Outcome:           outcome,
		ExitReason:        reason,
	}
}
