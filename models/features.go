package models

// FeatureVector is the fixed set of engineered inputs fed to the model
// bank. It is only defined for bars with at least 200 days of preceding
// history; extraction refuses to produce a partial vector.
type FeatureVector struct {
	// Raw price and volume
	Close  float64 `json:"close"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Volume float64 `json:"volume"`

	// Multi-horizon returns
	Return1D  float64 `json:"return1d"`
	Return5D  float64 `json:"return5d"`
	Return10D float64 `json:"return10d"`
	Return20D float64 `json:"return20d"`

	// Indicator outputs
	RSI14      float64 `json:"rsi14"`
	MACD       float64 `json:"macd"`
	MACDSignal float64 `json:"macdSignal"`
	MACDHist   float64 `json:"macdHist"`
	BBUpper    float64 `json:"bbUpper"`
	BBMiddle   float64 `json:"bbMiddle"`
	BBLower    float64 `json:"bbLower"`
	BBPosition float64 `json:"bbPosition"`
	SMA10      float64 `json:"sma10"`
	SMA20      float64 `json:"sma20"`
	SMA50      float64 `json:"sma50"`
	SMA200     float64 `json:"sma200"`
	EMA12      float64 `json:"ema12"`
	EMA26      float64 `json:"ema26"`

	// Momentum
	ROC5       float64 `json:"roc5"`
	ROC10      float64 `json:"roc10"`
	Momentum10 float64 `json:"momentum10"`
	StochK     float64 `json:"stochK"`
	StochD     float64 `json:"stochD"`

	// Volatility
	ATR14        float64 `json:"atr14"`
	Volatility20 float64 `json:"volatility20"`
	Volatility50 float64 `json:"volatility50"`
	HLRange      float64 `json:"hlRange"`

	// Volume statistics
	VolumeRatio   float64 `json:"volumeRatio"`
	VolumeChange  float64 `json:"volumeChange"`
	OBV           float64 `json:"obv"`
	VWAP20        float64 `json:"vwap20"`
	VWAPDeviation float64 `json:"vwapDeviation"`

	// Candle shape
	BodySize       float64 `json:"bodySize"`
	UpperShadow    float64 `json:"upperShadow"`
	LowerShadow    float64 `json:"lowerShadow"`
	Gap            float64 `json:"gap"`
	IntradayReturn float64 `json:"intradayReturn"`

	// Short-window trend slopes
	Slope5  float64 `json:"slope5"`
	Slope10 float64 `json:"slope10"`
	Slope20 float64 `json:"slope20"`
}

// featureNames is the canonical column order for dataset matrices. It must
// match Vector field-for-field.
var featureNames = []string{
	"close", "open", "high", "low", "volume",
	"return1d", "return5d", "return10d", "return20d",
	"rsi14", "macd", "macdSignal", "macdHist",
	"bbUpper", "bbMiddle", "bbLower", "bbPosition",
	"sma10", "sma20", "sma50", "sma200", "ema12", "ema26",
	"roc5", "roc10", "momentum10", "stochK", "stochD",
	"atr14", "volatility20", "volatility50", "hlRange",
	"volumeRatio", "volumeChange", "obv", "vwap20", "vwapDeviation",
	"bodySize", "upperShadow", "lowerShadow", "gap", "intradayReturn",
	"slope5", "slope10", "slope20",
}

// FeatureNames returns the canonical feature column names in matrix order.
func FeatureNames() []string {
	out := make([]string, len(featureNames))
	copy(out, featureNames)
	return out
}

// Vector flattens the feature struct into the canonical column order.
func (f *FeatureVector) Vector() []float64 {
	return []float64{
		f.Close, f.Open, f.High, f.Low, f.Volume,
		f.Return1D, f.Return5D, f.Return10D, f.Return20D,
		f.RSI14, f.MACD, f.MACDSignal, f.MACDHist,
		f.BBUpper, f.BBMiddle, f.BBLower, f.BBPosition,
		f.SMA10, f.SMA20, f.SMA50, f.SMA200, f.EMA12, f.EMA26,
		f.ROC5, f.ROC10, f.Momentum10, f.StochK, f.StochD,
		f.ATR14, f.Volatility20, f.Volatility50, f.HLRange,
		f.VolumeRatio, f.VolumeChange, f.OBV, f.VWAP20, f.VWAPDeviation,
		f.BodySize, f.UpperShadow, f.LowerShadow, f.Gap, f.IntradayReturn,
		f.Slope5, f.Slope10, f.Slope20,
	}
}
