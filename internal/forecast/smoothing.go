package forecast

// SmoothingConfig holds Holt's linear-trend smoothing constants: alpha
// for the level, beta for the trend.
type SmoothingConfig struct {
	Alpha float64
	Beta  float64
}

func (c SmoothingConfig) withDefaults() SmoothingConfig {
	if c.Alpha <= 0 || c.Alpha >= 1 {
		c.Alpha = 0.3
	}
	if c.Beta <= 0 || c.Beta >= 1 {
		c.Beta = 0.1
	}
	return c
}

// smoothingConfidence is the fixed self-reported confidence of the Holt
// forecaster.
const smoothingConfidence = 0.60

// Smoothing is a trained Holt linear-trend model: a smoothed level and a
// smoothed trend extrapolated linearly for multi-step forecasts.
type Smoothing struct {
	level  float64
	trend  float64
	fitted []float64
	actual []float64
}

// TrainSmoothing runs Holt's recursions over the series. The one-step
// forecasts made along the way are retained for evaluation.
func TrainSmoothing(series []float64, cfg SmoothingConfig) *Smoothing {
	cfg = cfg.withDefaults()
	if len(series) == 0 {
		return &Smoothing{}
	}
	if len(series) == 1 {
		return &Smoothing{level: series[0]}
	}

	level := series[0]
	trend := series[1] - series[0]
	fitted := make([]float64, 0, len(series)-1)
	actual := make([]float64, 0, len(series)-1)

	for t := 1; t < len(series); t++ {
		fitted = append(fitted, level+trend)
		actual = append(actual, series[t])

		prevLevel := level
		level = cfg.Alpha*series[t] + (1-cfg.Alpha)*(level+trend)
		trend = cfg.Beta*(level-prevLevel) + (1-cfg.Beta)*trend
	}
	return &Smoothing{level: level, trend: trend, fitted: fitted, actual: actual}
}

// Forecast extrapolates level + steps*trend.
func (m *Smoothing) Forecast(steps int) (float64, float64) {
	return m.level + float64(steps)*m.trend, smoothingConfidence
}

// OneStepFits returns the in-sample one-step-ahead forecasts aligned with
// the values they targeted.
func (m *Smoothing) OneStepFits() (fitted, actual []float64) {
	return m.fitted, m.actual
}

// Name identifies the model in performance maps.
func (m *Smoothing) Name() string { return "exponential_smoothing" }
