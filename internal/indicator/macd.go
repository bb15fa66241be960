package indicator

import (
	"fmt"

	"github.com/quantpilot/mlcore/models"
)

// macdState tracks the MACD line (fast EMA minus slow EMA) and its signal
// EMA. All three EMAs run from the first bar; a full reading still needs
// slow+signal bars for the seed transients to decay.
type macdState struct {
	fast    *ema
	slow    *ema
	signal  *ema
	count   int
	minBars int
}

func newMACD(fastPeriod, slowPeriod, signalPeriod int) *macdState {
	return &macdState{
		fast:    newEMA(fastPeriod),
		slow:    newEMA(slowPeriod),
		signal:  newEMA(signalPeriod),
		minBars: slowPeriod + signalPeriod,
	}
}

func (m *macdState) update(price float64) {
	m.count++
	m.fast.update(price)
	m.slow.update(price)
	m.signal.update(m.fast.value - m.slow.value)
}

func (m *macdState) ready() bool { return m.count >= m.minBars }

func (m *macdState) render() models.MACDIndicator {
	if !m.ready() {
		return models.MACDIndicator{
			Trend:       models.TrendNeutral,
			Description: "Insufficient history for MACD",
		}
	}

	macd := m.fast.value - m.slow.value
	sig := m.signal.value
	hist := macd - sig

	switch {
	case hist > 0 && macd > sig:
		return models.MACDIndicator{
			MACD: macd, Signal: sig, Histogram: hist,
			Trend:       models.TrendBullish,
			Description: fmt.Sprintf("MACD (%.2f) is above signal line, bullish momentum", macd),
		}
	case hist < 0 && macd < sig:
		return models.MACDIndicator{
			MACD: macd, Signal: sig, Histogram: hist,
			Trend:       models.TrendBearish,
			Description: fmt.Sprintf("MACD (%.2f) is below signal line, bearish momentum", macd),
		}
	default:
		return models.MACDIndicator{
			MACD: macd, Signal: sig, Histogram: hist,
			Trend:       models.TrendNeutral,
			Description: "MACD shows neutral momentum",
		}
	}
}
