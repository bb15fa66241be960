package indicator

import (
	"github.com/quantpilot/mlcore/models"
)

// Stream maintains every indicator incrementally over a growing price
// series. Feed bars in ascending date order with Update and read the
// current state with Snapshot.
type Stream struct {
	cfg Config

	rsi   *rsiState
	macd  *macdState
	boll  *bollState
	stoch *stochState

	sma20  *sma
	sma50  *sma
	sma200 *sma
	ema12  *ema
	ema26  *ema

	lastClose float64
	count     int
}

// NewStream creates a Stream with the given periods (defaults applied for
// zero values).
func NewStream(cfg Config) *Stream {
	cfg = cfg.withDefaults()
	return &Stream{
		cfg:    cfg,
		rsi:    newRSI(cfg.RSIPeriod),
		macd:   newMACD(cfg.MACDFastPeriod, cfg.MACDSlowPeriod, cfg.MACDSignalPeriod),
		boll:   newBollinger(cfg.BBPeriod, cfg.BBStdDev),
		stoch:  newStochastic(cfg.StochKPeriod, cfg.StochDPeriod),
		sma20:  newSMA(20),
		sma50:  newSMA(50),
		sma200: newSMA(200),
		ema12:  newEMA(12),
		ema26:  newEMA(26),
	}
}

// Update feeds the next bar into every indicator.
func (s *Stream) Update(bar models.PriceBar) {
	s.rsi.update(bar.Close)
	s.macd.update(bar.Close)
	s.boll.update(bar.Close)
	s.stoch.update(bar)
	s.sma20.update(bar.Close)
	s.sma50.update(bar.Close)
	s.sma200.update(bar.Close)
	s.ema12.update(bar.Close)
	s.ema26.update(bar.Close)
	s.lastClose = bar.Close
	s.count++
}

// Count returns the number of bars consumed so far.
func (s *Stream) Count() int { return s.count }

// Snapshot renders the current indicator values, applying neutral
// defaults wherever history is still too short.
func (s *Stream) Snapshot() *models.IndicatorSnapshot {
	snap := &models.IndicatorSnapshot{
		RSI:            s.rsi.render(),
		MACD:           s.macd.render(),
		Bollinger:      s.boll.render(),
		MovingAverages: s.renderMovingAverages(),
		Stochastic:     s.stoch.render(),
	}
	snap.OverallSignal = overallSignal(snap)
	return snap
}

func (s *Stream) renderMovingAverages() models.MovingAverages {
	ma := models.MovingAverages{}
	if s.sma20.ready() {
		ma.SMA20 = s.sma20.value
	}
	if s.sma50.ready() {
		ma.SMA50 = s.sma50.value
	}
	if s.sma200.ready() {
		ma.SMA200 = s.sma200.value
	}
	if s.ema12.ready() {
		ma.EMA12 = s.ema12.value
	}
	if s.ema26.ready() {
		ma.EMA26 = s.ema26.value
	}

	// Trend requires the bullish (or bearish) alignment of price and the
	// available SMAs; the 200-day average is ignored until it exists.
	switch {
	case ma.SMA20 > 0 && ma.SMA50 > 0 &&
		s.lastClose > ma.SMA20 && ma.SMA20 > ma.SMA50 &&
		(ma.SMA200 == 0 || ma.SMA50 > ma.SMA200):
		ma.Trend = models.TrendBullish
		ma.Description = "Price above short-term averages in bullish alignment"
	case ma.SMA20 > 0 && ma.SMA50 > 0 &&
		s.lastClose < ma.SMA20 && ma.SMA20 < ma.SMA50 &&
		(ma.SMA200 == 0 || ma.SMA50 < ma.SMA200):
		ma.Trend = models.TrendBearish
		ma.Description = "Price below short-term averages in bearish alignment"
	default:
		ma.Trend = models.TrendNeutral
		ma.Description = "Moving averages show mixed signals"
	}
	return ma
}

// overallSignal tallies bullish and bearish votes across the five
// indicators. Four or more aligned votes give a strong signal, three a
// plain one.
func overallSignal(snap *models.IndicatorSnapshot) string {
	bullish, bearish := 0, 0

	switch snap.RSI.Signal {
	case models.SignalOversold:
		bullish++
	case models.SignalOverbought:
		bearish++
	}
	switch snap.MACD.Trend {
	case models.TrendBullish:
		bullish++
	case models.TrendBearish:
		bearish++
	}
	switch snap.Bollinger.Position {
	case models.PositionBelow:
		bullish++
	case models.PositionAbove:
		bearish++
	}
	switch snap.MovingAverages.Trend {
	case models.TrendBullish:
		bullish++
	case models.TrendBearish:
		bearish++
	}
	switch snap.Stochastic.Signal {
	case models.SignalOversold:
		bullish++
	case models.SignalOverbought:
		bearish++
	}

	switch {
	case bullish >= 4:
		return models.OverallStrongBuy
	case bullish >= 3:
		return models.OverallBuy
	case bearish >= 4:
		return models.OverallStrongSell
	case bearish >= 3:
		return models.OverallSell
	default:
		return models.OverallNeutral
	}
}

// Calculate computes a snapshot for the full series by replaying it
// through a fresh Stream.
func Calculate(bars []models.PriceBar, cfg Config) *models.IndicatorSnapshot {
	s := NewStream(cfg)
	for _, bar := range bars {
		s.Update(bar)
	}
	return s.Snapshot()
}
