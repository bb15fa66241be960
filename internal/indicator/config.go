// Package indicator computes classical technical-analysis signals from an
// OHLCV price series.
//
// Every indicator is maintained incrementally: a Stream accepts one bar at
// a time and keeps O(1) state per indicator (running sums, EMA recursions,
// ring-buffer windows), so replaying a growing series costs O(n) overall.
// The batch Calculate entry point feeds a fresh Stream, which keeps batch
// and streaming results identical.
package indicator

// Config holds the indicator periods. Zero values are replaced by the
// standard defaults.
type Config struct {
	RSIPeriod        int
	MACDFastPeriod   int
	MACDSlowPeriod   int
	MACDSignalPeriod int
	BBPeriod         int
	BBStdDev         float64
	StochKPeriod     int
	StochDPeriod     int
}

// DefaultConfig returns the conventional daily-chart periods.
func DefaultConfig() Config {
	return Config{
		RSIPeriod:        14,
		MACDFastPeriod:   12,
		MACDSlowPeriod:   26,
		MACDSignalPeriod: 9,
		BBPeriod:         20,
		BBStdDev:         2.0,
		StochKPeriod:     14,
		StochDPeriod:     3,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.RSIPeriod <= 0 {
		c.RSIPeriod = d.RSIPeriod
	}
	if c.MACDFastPeriod <= 0 {
		c.MACDFastPeriod = d.MACDFastPeriod
	}
	if c.MACDSlowPeriod <= 0 {
		c.MACDSlowPeriod = d.MACDSlowPeriod
	}
	if c.MACDSignalPeriod <= 0 {
		c.MACDSignalPeriod = d.MACDSignalPeriod
	}
	if c.BBPeriod <= 0 {
		c.BBPeriod = d.BBPeriod
	}
	if c.BBStdDev <= 0 {
		c.BBStdDev = d.BBStdDev
	}
	if c.StochKPeriod <= 0 {
		c.StochKPeriod = d.StochKPeriod
	}
	if c.StochDPeriod <= 0 {
		c.StochDPeriod = d.StochDPeriod
	}
	return c
}
