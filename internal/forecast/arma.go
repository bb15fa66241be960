package forecast

// ARMAConfig controls the differencing AR+MA forecaster: p AR lags, q MA
// lags, and the gradient-descent budget used for both fits.
type ARMAConfig struct {
	P            int
	Q            int
	LearningRate float64
	Iterations   int
}

func (c ARMAConfig) withDefaults() ARMAConfig {
	if c.P <= 0 {
		c.P = 5
	}
	if c.Q <= 0 {
		c.Q = 2
	}
	if c.LearningRate <= 0 {
		c.LearningRate = 0.01
	}
	if c.Iterations <= 0 {
		c.Iterations = 500
	}
	return c
}

// armaConfidence is the fixed self-reported confidence of the AR+MA
// forecaster.
const armaConfidence = 0.65

// ARMA is a trained differencing AR+MA model. The series is
// first-differenced to approximate stationarity, AR coefficients are fit
// by least squares via gradient descent, and MA coefficients are fit on
// the AR residuals. This is deliberately a lightweight approximation, not
// a maximum-likelihood ARIMA estimator.
type ARMA struct {
	p, q      int
	arCoef    []float64
	arBias    float64
	maCoef    []float64
	lastValue float64
	diffTail  []float64 // most recent first, length p
	residTail []float64 // most recent first, length q
	fitted    []float64
	actual    []float64
}

// TrainARMA fits the model on the price series. Series shorter than the
// lag structure degrade to a flat forecast from the last value.
func TrainARMA(series []float64, cfg ARMAConfig) *ARMA {
	cfg = cfg.withDefaults()
	m := &ARMA{p: cfg.P, q: cfg.Q}
	m.arCoef = make([]float64, cfg.P)
	m.maCoef = make([]float64, cfg.Q)
	m.diffTail = make([]float64, cfg.P)
	m.residTail = make([]float64, cfg.Q)
	if len(series) == 0 {
		return m
	}
	m.lastValue = series[len(series)-1]

	diffs := make([]float64, len(series)-1)
	for i := range diffs {
		diffs[i] = series[i+1] - series[i]
	}
	if len(diffs) <= cfg.P+1 {
		return m
	}

	// AR(p) fit on the differenced series: each row is the p most recent
	// lags, most recent first.
	rows := len(diffs) - cfg.P
	X := make([][]float64, rows)
	y := make([]float64, rows)
	for t := 0; t < rows; t++ {
		row := make([]float64, cfg.P)
		for j := 0; j < cfg.P; j++ {
			row[j] = diffs[cfg.P+t-1-j]
		}
		X[t] = row
		y[t] = diffs[cfg.P+t]
	}
	lin := TrainLinear(X, y, LinearConfig{LearningRate: cfg.LearningRate, Iterations: cfg.Iterations})
	m.arCoef = lin.Weights()
	m.arBias = lin.bias

	// Residuals of the AR fit, then MA(q) on lagged residuals.
	resid := make([]float64, rows)
	for t := 0; t < rows; t++ {
		resid[t] = y[t] - (m.arBias + dot(m.arCoef, X[t]))
	}
	if len(resid) > cfg.Q+1 {
		mRows := len(resid) - cfg.Q
		mX := make([][]float64, mRows)
		mY := make([]float64, mRows)
		for t := 0; t < mRows; t++ {
			row := make([]float64, cfg.Q)
			for j := 0; j < cfg.Q; j++ {
				row[j] = resid[cfg.Q+t-1-j]
			}
			mX[t] = row
			mY[t] = resid[cfg.Q+t]
		}
		maLin := TrainLinear(mX, mY, LinearConfig{LearningRate: cfg.LearningRate, Iterations: cfg.Iterations})
		m.maCoef = maLin.Weights()
	}

	// Tails for forecasting, most recent first.
	for j := 0; j < cfg.P; j++ {
		m.diffTail[j] = diffs[len(diffs)-1-j]
	}
	for j := 0; j < cfg.Q && j < len(resid); j++ {
		m.residTail[j] = resid[len(resid)-1-j]
	}

	// One-step fits in price units for evaluation: predicted next value is
	// the previous value plus the predicted difference.
	m.fitted = make([]float64, rows)
	m.actual = make([]float64, rows)
	for t := 0; t < rows; t++ {
		dhat := m.arBias + dot(m.arCoef, X[t])
		m.fitted[t] = series[cfg.P+t] + dhat
		m.actual[t] = series[cfg.P+t+1]
	}
	return m
}

// Forecast recursively applies the AR coefficients to the most recent
// observed and forecast differences. MA terms contribute only while
// observed residuals remain; future shocks are taken as zero.
func (m *ARMA) Forecast(steps int) (float64, float64) {
	tail := make([]float64, len(m.diffTail))
	copy(tail, m.diffTail)
	resid := make([]float64, len(m.residTail))
	copy(resid, m.residTail)

	value := m.lastValue
	for k := 0; k < steps; k++ {
		dhat := m.arBias + dot(m.arCoef, tail) + dot(m.maCoef, resid)
		value += dhat

		copy(tail[1:], tail)
		if len(tail) > 0 {
			tail[0] = dhat
		}
		copy(resid[1:], resid)
		if len(resid) > 0 {
			resid[0] = 0
		}
	}
	return value, armaConfidence
}

// OneStepFits returns the in-sample one-step-ahead forecasts aligned with
// the values they targeted.
func (m *ARMA) OneStepFits() (fitted, actual []float64) {
	return m.fitted, m.actual
}

// Name identifies the model in performance maps.
func (m *ARMA) Name() string { return "arima" }
