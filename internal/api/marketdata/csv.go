package marketdata

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/quantpilot/mlcore/models"
)

// FileSource serves bars from a local CSV file through the same interface
// as the API client, so offline runs and live runs share a code path.
type FileSource struct {
	Path string
}

var _ models.BarSource = (*FileSource)(nil)

// GetDailyBars loads the file and returns its most recent days bars. A
// non-positive days returns the whole file.
func (f *FileSource) GetDailyBars(_ context.Context, _ string, days int) ([]models.PriceBar, error) {
	bars, err := LoadCSV(f.Path)
	if err != nil {
		return nil, err
	}
	if days > 0 && len(bars) > days {
		bars = bars[len(bars)-days:]
	}
	return bars, nil
}

// LoadCSV reads daily bars from a CSV file with a header row and columns
// date,open,high,low,close,volume. Dates use the 2006-01-02 layout.
func LoadCSV(path string) ([]models.PriceBar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("no data rows in %s", path)
	}

	bars := make([]models.PriceBar, 0, len(records)-1)
	for i, rec := range records[1:] {
		if len(rec) < 6 {
			return nil, fmt.Errorf("row %d: expected 6 columns, got %d", i+2, len(rec))
		}
		bar, err := parseCSVBar(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		bars = append(bars, bar)
	}

	if err := models.ValidateBars(bars); err != nil {
		return nil, fmt.Errorf("validating bars from %s: %w", path, err)
	}
	return bars, nil
}

func parseCSVBar(rec []string) (models.PriceBar, error) {
	date, err := time.Parse("2006-01-02", rec[0])
	if err != nil {
		return models.PriceBar{}, fmt.Errorf("parsing date: %w", err)
	}
	vals := make([]float64, 4)
	for i, field := range rec[1:5] {
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return models.PriceBar{}, fmt.Errorf("parsing column %d: %w", i+2, err)
		}
		vals[i] = v
	}
	vol, err := strconv.ParseInt(rec[5], 10, 64)
	if err != nil {
		return models.PriceBar{}, fmt.Errorf("parsing volume: %w", err)
	}
	return models.PriceBar{
		Date: date, Open: vals[0], High: vals[1], Low: vals[2], Close: vals[3], Volume: vol,
	}, nil
}
