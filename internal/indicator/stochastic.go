package indicator

import (
	"fmt"

	"github.com/quantpilot/mlcore/models"
)

// stochState tracks the stochastic oscillator: %K compares the latest
// close to the high/low range of the lookback window, %D smooths %K over
// a short window.
type stochState struct {
	highs *window
	lows  *window
	kHist *window
	k     float64
}

func newStochastic(kPeriod, dPeriod int) *stochState {
	return &stochState{
		highs: newWindow(kPeriod),
		lows:  newWindow(kPeriod),
		kHist: newWindow(dPeriod),
		k:     50,
	}
}

func (s *stochState) update(bar models.PriceBar) {
	s.highs.push(bar.High)
	s.lows.push(bar.Low)
	if !s.highs.full() {
		return
	}

	hh := s.highs.max()
	ll := s.lows.min()
	if hh-ll > 0 {
		s.k = (bar.Close - ll) / (hh - ll) * 100
	} else {
		// Flat range, no meaningful position within it.
		s.k = 50
	}
	s.kHist.push(s.k)
}

func (s *stochState) ready() bool { return s.highs.full() }

func (s *stochState) render() models.StochasticOscillator {
	if !s.ready() {
		return models.StochasticOscillator{
			K: 50, D: 50,
			Signal:      models.SignalNeutral,
			Description: "Insufficient history for Stochastic",
		}
	}

	k := s.k
	d := s.kHist.mean()
	switch {
	case k < 20:
		return models.StochasticOscillator{
			K: k, D: d,
			Signal:      models.SignalOversold,
			Description: fmt.Sprintf("Stochastic %%K at %.2f indicates oversold conditions", k),
		}
	case k > 80:
		return models.StochasticOscillator{
			K: k, D: d,
			Signal:      models.SignalOverbought,
			Description: fmt.Sprintf("Stochastic %%K at %.2f indicates overbought conditions", k),
		}
	default:
		return models.StochasticOscillator{
			K: k, D: d,
			Signal:      models.SignalNeutral,
			Description: fmt.Sprintf("Stochastic in neutral range at %.2f", k),
		}
	}
}
