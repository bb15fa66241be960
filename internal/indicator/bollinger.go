package indicator

import (
	"fmt"

	"github.com/quantpilot/mlcore/models"
)

// bollState tracks the Bollinger envelope over a rolling close window.
// The window is a ring buffer; mean and deviation are recomputed from its
// contents on render, which keeps per-bar cost bounded by the period.
type bollState struct {
	stdDev    float64
	closes    *window
	lastClose float64
}

func newBollinger(period int, stdDev float64) *bollState {
	return &bollState{stdDev: stdDev, closes: newWindow(period)}
}

func (b *bollState) update(price float64) {
	b.closes.push(price)
	b.lastClose = price
}

func (b *bollState) ready() bool { return b.closes.full() }

func (b *bollState) render() models.BollingerBands {
	if !b.ready() {
		// Collapse the bands onto the latest close when history is short.
		return models.BollingerBands{
			Upper: b.lastClose, Middle: b.lastClose, Lower: b.lastClose,
			Position:    models.PositionMiddle,
			Description: "Insufficient history for Bollinger Bands",
		}
	}

	middle := b.closes.mean()
	sd := b.closes.stdDev()
	upper := middle + sd*b.stdDev
	lower := middle - sd*b.stdDev

	bandwidth := 0.0
	if middle > 0 {
		bandwidth = (upper - lower) / middle * 100
	}

	switch {
	case b.lastClose > upper:
		return models.BollingerBands{
			Upper: upper, Middle: middle, Lower: lower, Bandwidth: bandwidth,
			Position:    models.PositionAbove,
			Description: fmt.Sprintf("Price (%.2f) is above upper band (%.2f), potentially overbought", b.lastClose, upper),
		}
	case b.lastClose < lower:
		return models.BollingerBands{
			Upper: upper, Middle: middle, Lower: lower, Bandwidth: bandwidth,
			Position:    models.PositionBelow,
			Description: fmt.Sprintf("Price (%.2f) is below lower band (%.2f), potentially oversold", b.lastClose, lower),
		}
	default:
		return models.BollingerBands{
			Upper: upper, Middle: middle, Lower: lower, Bandwidth: bandwidth,
			Position:    models.PositionMiddle,
			Description: fmt.Sprintf("Price (%.2f) is within bands, normal volatility", b.lastClose),
		}
	}
}
