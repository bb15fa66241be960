package indicator

import (
	"fmt"

	"github.com/quantpilot/mlcore/models"
)

// rsiState tracks the Relative Strength Index with Wilder's smoothing.
// The first period changes seed the average gain/loss as simple means;
// every later change is smoothed recursively.
type rsiState struct {
	period    int
	count     int
	prevClose float64
	avgGain   float64
	avgLoss   float64
	value     float64
}

func newRSI(period int) *rsiState {
	return &rsiState{period: period, value: 50}
}

func (r *rsiState) update(price float64) {
	r.count++
	if r.count == 1 {
		r.prevClose = price
		return
	}

	change := price - r.prevClose
	r.prevClose = price

	gain, loss := 0.0, 0.0
	if change > 0 {
		gain = change
	} else {
		loss = -change
	}

	if r.count <= r.period+1 {
		r.avgGain += gain
		r.avgLoss += loss
		if r.count == r.period+1 {
			r.avgGain /= float64(r.period)
			r.avgLoss /= float64(r.period)
			r.value = r.compute()
		}
		return
	}

	p := float64(r.period)
	r.avgGain = (r.avgGain*(p-1) + gain) / p
	r.avgLoss = (r.avgLoss*(p-1) + loss) / p
	r.value = r.compute()
}

func (r *rsiState) compute() float64 {
	if r.avgLoss == 0 {
		if r.avgGain == 0 {
			// No movement at all, neither overbought nor oversold.
			return 50
		}
		return 100
	}
	rs := r.avgGain / r.avgLoss
	return 100 - 100/(1+rs)
}

func (r *rsiState) ready() bool { return r.count > r.period }

func (r *rsiState) render() models.RSIIndicator {
	if !r.ready() {
		return models.RSIIndicator{
			Value:       50,
			Signal:      models.SignalNeutral,
			Description: "Insufficient history for RSI",
		}
	}
	v := r.value
	switch {
	case v < 30:
		return models.RSIIndicator{
			Value:       v,
			Signal:      models.SignalOversold,
			Description: fmt.Sprintf("RSI at %.2f indicates oversold conditions", v),
		}
	case v > 70:
		return models.RSIIndicator{
			Value:       v,
			Signal:      models.SignalOverbought,
			Description: fmt.Sprintf("RSI at %.2f indicates overbought conditions", v),
		}
	default:
		return models.RSIIndicator{
			Value:       v,
			Signal:      models.SignalNeutral,
			Description: fmt.Sprintf("RSI at %.2f is in neutral territory", v),
		}
	}
}
