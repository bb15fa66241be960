// Package backtest simulates rule-based and model-driven trading
// strategies over daily bar history and reports performance metrics.
package backtest

import (
	"fmt"

	"github.com/quantpilot/mlcore/models"
)

// Strategy describes a rule-based trading strategy. Buy and Sell inspect
// the indicator snapshot at the current bar; stop loss and take profit
// are checked against the bar's low and high before the sell rule.
type Strategy struct {
	Name          string
	Buy           func(snap *models.IndicatorSnapshot) bool
	Sell          func(snap *models.IndicatorSnapshot) bool
	StopLossPct   float64
	TakeProfitPct float64
}

// RSIReversion buys oversold and sells overbought readings.
func RSIReversion(stopLossPct, takeProfitPct float64) Strategy {
	return Strategy{
		Name: "rsi_reversion",
		Buy: func(snap *models.IndicatorSnapshot) bool {
			return snap.RSI.Signal == models.SignalOversold
		},
		Sell: func(snap *models.IndicatorSnapshot) bool {
			return snap.RSI.Signal == models.SignalOverbought
		},
		StopLossPct:   stopLossPct,
		TakeProfitPct: takeProfitPct,
	}
}

// MACDCross buys bullish MACD alignment and sells bearish alignment.
func MACDCross(stopLossPct, takeProfitPct float64) Strategy {
	return Strategy{
		Name: "macd_cross",
		Buy: func(snap *models.IndicatorSnapshot) bool {
			return snap.MACD.Trend == models.TrendBullish
		},
		Sell: func(snap *models.IndicatorSnapshot) bool {
			return snap.MACD.Trend == models.TrendBearish
		},
		StopLossPct:   stopLossPct,
		TakeProfitPct: takeProfitPct,
	}
}

// TrendFollow buys when the moving averages align bullishly and sells
// when the alignment breaks down.
func TrendFollow(stopLossPct, takeProfitPct float64) Strategy {
	return Strategy{
		Name: "trend_follow",
		Buy: func(snap *models.IndicatorSnapshot) bool {
			return snap.MovingAverages.Trend == models.TrendBullish
		},
		Sell: func(snap *models.IndicatorSnapshot) bool {
			return snap.MovingAverages.Trend == models.TrendBearish
		},
		StopLossPct:   stopLossPct,
		TakeProfitPct: takeProfitPct,
	}
}

// StrategyByName resolves a built-in strategy by its name.
func StrategyByName(name string, stopLossPct, takeProfitPct float64) (Strategy, error) {
	switch name {
	case "rsi_reversion":
		return RSIReversion(stopLossPct, takeProfitPct), nil
	case "macd_cross":
		return MACDCross(stopLossPct, takeProfitPct), nil
	case "trend_follow":
		return TrendFollow(stopLossPct, takeProfitPct), nil
	default:
		return Strategy{}, fmt.Errorf("unknown strategy %q", name)
	}
}
