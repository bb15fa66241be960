package models

// Qualitative indicator signals.
const (
	SignalOversold   = "oversold"
	SignalOverbought = "overbought"
	SignalNeutral    = "neutral"

	TrendBullish = "bullish"
	TrendBearish = "bearish"
	TrendNeutral = "neutral"

	PositionAbove  = "above"
	PositionBelow  = "below"
	PositionMiddle = "middle"
)

// Overall composite signals.
const (
	OverallStrongBuy  = "strong_buy"
	OverallBuy        = "buy"
	OverallNeutral    = "neutral"
	OverallSell       = "sell"
	OverallStrongSell = "strong_sell"
)

// RSIIndicator holds the Relative Strength Index reading.
type RSIIndicator struct {
	Value       float64 `json:"value"`
	Signal      string  `json:"signal"` // oversold, neutral, overbought
	Description string  `json:"description"`
}

// MACDIndicator holds the MACD line, signal line and histogram.
type MACDIndicator struct {
	MACD        float64 `json:"macd"`
	Signal      float64 `json:"signal"`
	Histogram   float64 `json:"histogram"`
	Trend       string  `json:"trend"` // bullish, bearish, neutral
	Description string  `json:"description"`
}

// BollingerBands holds the volatility envelope around the 20-day SMA.
type BollingerBands struct {
	Upper       float64 `json:"upper"`
	Middle      float64 `json:"middle"`
	Lower       float64 `json:"lower"`
	Bandwidth   float64 `json:"bandwidth"`
	Position    string  `json:"position"` // above, middle, below
	Description string  `json:"description"`
}

// MovingAverages holds the standard SMA/EMA set and the alignment trend.
type MovingAverages struct {
	SMA20       float64 `json:"sma20"`
	SMA50       float64 `json:"sma50"`
	SMA200      float64 `json:"sma200"`
	EMA12       float64 `json:"ema12"`
	EMA26       float64 `json:"ema26"`
	Trend       string  `json:"trend"` // bullish, bearish, neutral
	Description string  `json:"description"`
}

// StochasticOscillator holds %K and %D of the 14-day stochastic.
type StochasticOscillator struct {
	K           float64 `json:"k"`
	D           float64 `json:"d"`
	Signal      string  `json:"signal"` // oversold, neutral, overbought
	Description string  `json:"description"`
}

// IndicatorSnapshot aggregates every indicator for one point in time plus
// the composite vote across them.
type IndicatorSnapshot struct {
	RSI            RSIIndicator         `json:"rsi"`
	MACD           MACDIndicator        `json:"macd"`
	Bollinger      BollingerBands       `json:"bollingerBands"`
	MovingAverages MovingAverages       `json:"movingAverages"`
	Stochastic     StochasticOscillator `json:"stochastic"`
	OverallSignal  string               `json:"overallSignal"`
}
