package marketdata

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func writeTempCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bars.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing temp csv: %v", err)
	}
	return path
}

func TestLoadCSV(t *testing.T) {
	path := writeTempCSV(t, `date,open,high,low,close,volume
2024-01-02,100,105,99,104,12000
2024-01-03,104,106,103,105,9000
2024-01-04,105,107,104,106.5,15000
`)

	bars, err := LoadCSV(path)
	if err != nil {
		t.Fatalf("LoadCSV() error = %v", err)
	}
	if len(bars) != 3 {
		t.Fatalf("bars = %d, want 3", len(bars))
	}
	if bars[0].Close != 104 {
		t.Errorf("first close = %v, want 104", bars[0].Close)
	}
	if bars[2].Close != 106.5 {
		t.Errorf("last close = %v, want 106.5", bars[2].Close)
	}
	if bars[1].Volume != 9000 {
		t.Errorf("second volume = %d, want 9000", bars[1].Volume)
	}
	if !bars[0].Date.Before(bars[1].Date) {
		t.Error("dates not ascending")
	}
}

func TestFileSourceTruncatesToDays(t *testing.T) {
	path := writeTempCSV(t, `date,open,high,low,close,volume
2024-01-02,100,105,99,104,12000
2024-01-03,104,106,103,105,9000
2024-01-04,105,107,104,106.5,15000
`)
	source := &FileSource{Path: path}

	bars, err := source.GetDailyBars(context.Background(), "TEST", 2)
	if err != nil {
		t.Fatalf("GetDailyBars() error = %v", err)
	}
	if len(bars) != 2 {
		t.Fatalf("bars = %d, want 2", len(bars))
	}
	if bars[0].Close != 105 || bars[1].Close != 106.5 {
		t.Errorf("kept closes = %v/%v, want the most recent 105/106.5", bars[0].Close, bars[1].Close)
	}

	bars, err = source.GetDailyBars(context.Background(), "TEST", 0)
	if err != nil {
		t.Fatalf("GetDailyBars() error = %v", err)
	}
	if len(bars) != 3 {
		t.Errorf("bars with days=0 = %d, want all 3", len(bars))
	}
}

func TestLoadCSVRejectsBadInput(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"Header only", "date,open,high,low,close,volume\n"},
		{"Bad date", "date,open,high,low,close,volume\n02/01/2024,100,105,99,104,1000\n"},
		{"Missing column", "date,open,high,low,close,volume\n2024-01-02,100,105,99,104\n"},
		{"High below low", "date,open,high,low,close,volume\n2024-01-02,100,95,99,97,1000\n"},
		{"Descending dates", "date,open,high,low,close,volume\n2024-01-03,100,105,99,104,1000\n2024-01-02,100,105,99,104,1000\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadCSV(writeTempCSV(t, tt.content)); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestParseBar(t *testing.T) {
	bar, err := parseBar("2024-03-15", "10.5", "11.0", "10.0", "10.8", "2500")
	if err != nil {
		t.Fatalf("parseBar() error = %v", err)
	}
	if bar.Open != 10.5 || bar.High != 11.0 || bar.Low != 10.0 || bar.Close != 10.8 {
		t.Errorf("parsed bar = %+v", bar)
	}
	if bar.Volume != 2500 {
		t.Errorf("volume = %d, want 2500", bar.Volume)
	}

	// Forex symbols come back without volume.
	bar, err = parseBar("2024-03-15", "1.08", "1.09", "1.07", "1.085", "")
	if err != nil {
		t.Fatalf("parseBar() with empty volume error = %v", err)
	}
	if bar.Volume != 0 {
		t.Errorf("volume = %d, want 0", bar.Volume)
	}

	if _, err := parseBar("15-03-2024", "1", "1", "1", "1", "0"); err == nil {
		t.Error("expected date parse error")
	}
}
