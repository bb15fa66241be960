package models

import (
	"fmt"
	"time"
)

// PriceBar represents one day of OHLCV market data.
type PriceBar struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
}

// ValidateBars checks that a price series is ordered ascending by date,
// has no duplicate dates, and that every bar is internally consistent.
func ValidateBars(bars []PriceBar) error {
	for i, b := range bars {
		if b.Volume < 0 {
			return fmt.Errorf("bar %d (%s): negative volume %d", i, b.Date.Format("2006-01-02"), b.Volume)
		}
		if b.High < b.Low {
			return fmt.Errorf("bar %d (%s): high %.4f below low %.4f", i, b.Date.Format("2006-01-02"), b.High, b.Low)
		}
		if b.High < b.Open || b.High < b.Close {
			return fmt.Errorf("bar %d (%s): high %.4f below open/close", i, b.Date.Format("2006-01-02"), b.High)
		}
		if b.Low > b.Open || b.Low > b.Close {
			return fmt.Errorf("bar %d (%s): low %.4f above open/close", i, b.Date.Format("2006-01-02"), b.Low)
		}
		if i > 0 && !bars[i-1].Date.Before(b.Date) {
			return fmt.Errorf("bar %d (%s): not after previous bar %s", i, b.Date.Format("2006-01-02"), bars[i-1].Date.Format("2006-01-02"))
		}
	}
	return nil
}

// Closes extracts the close-price series from a bar slice.
func Closes(bars []PriceBar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.Close
	}
	return out
}
