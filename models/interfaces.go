package models

import "context"

// BarSource supplies daily price history for a symbol. Implemented by the
// market-data client; tests and offline tools substitute file-backed
// sources.
type BarSource interface {
	GetDailyBars(ctx context.Context, symbol string, days int) ([]PriceBar, error)
}
