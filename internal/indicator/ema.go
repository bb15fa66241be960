package indicator

// ema maintains an exponential moving average in O(1) per update. The
// recursion starts at the first sample, so on a trending series the value
// converges to its steady-state lag from the trend side rather than
// landing on it exactly. ready() reports when the transient has had a
// full period to decay.
type ema struct {
	period     int
	multiplier float64
	count      int
	value      float64
}

func newEMA(period int) *ema {
	return &ema{period: period, multiplier: 2.0 / float64(period+1)}
}

func (e *ema) update(price float64) {
	e.count++
	if e.count == 1 {
		e.value = price
		return
	}
	e.value = price*e.multiplier + e.value*(1-e.multiplier)
}

func (e *ema) ready() bool { return e.count >= e.period }

// sma maintains a simple moving average over a rolling window using a
// running sum.
type sma struct {
	period int
	buf    []float64
	idx    int
	count  int
	sum    float64
	value  float64
}

func newSMA(period int) *sma {
	return &sma{period: period, buf: make([]float64, period)}
}

func (s *sma) update(price float64) {
	if s.count >= s.period {
		s.sum -= s.buf[s.idx]
	}
	s.buf[s.idx] = price
	s.sum += price
	s.idx = (s.idx + 1) % s.period
	s.count++
	if s.count >= s.period {
		s.value = s.sum / float64(s.period)
	}
}

func (s *sma) ready() bool { return s.count >= s.period }
