// Package marketdata fetches daily OHLCV bars from the Twelve Data API.
package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/quantpilot/mlcore/models"
)

const baseURL = "https://api.twelvedata.com/time_series"

// Client is a rate-limited Twelve Data client. It implements
// models.BarSource.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	apiKey     string
	logger     zerolog.Logger
}

// NewClient creates a new API client with rate limiting.
func NewClient(apiKey string, timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Every(time.Second), 5), // 5 requests per second
		apiKey:     apiKey,
		logger:     log.With().Str("component", "marketdata").Logger(),
	}
}

// timeSeriesResponse mirrors the Twelve Data time_series payload.
type timeSeriesResponse struct {
	Values []struct {
		Datetime string `json:"datetime"`
		Open     string `json:"open"`
		High     string `json:"high"`
		Low      string `json:"low"`
		Close    string `json:"close"`
		Volume   string `json:"volume"`
	} `json:"values"`
}

// GetDailyBars fetches up to days daily bars for the symbol, oldest
// first, validated and ready for indicator calculations.
func (c *Client) GetDailyBars(ctx context.Context, symbol string, days int) ([]models.PriceBar, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter error: %w", err)
	}

	url := fmt.Sprintf("%s?symbol=%s&interval=1day&outputsize=%d&apikey=%s",
		baseURL, symbol, days, c.apiKey)

	c.logger.Debug().Str("symbol", symbol).Int("days", days).Msg("Fetching daily bars")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	var resp *http.Response
	operation := func() error {
		var err error
		resp, err = c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("HTTP request failed: %w", err)
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return fmt.Errorf("non-200 status code: %d", resp.StatusCode)
		}
		return nil
	}

	backoffStrategy := backoff.NewExponentialBackOff()
	backoffStrategy.MaxElapsedTime = 30 * time.Second

	if err := backoff.Retry(operation, backoffStrategy); err != nil {
		return nil, fmt.Errorf("after retries: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	if strings.Contains(string(body), `"status":"error"`) {
		c.logger.Error().Str("response", string(body)).Msg("Twelve Data API error")
		return nil, fmt.Errorf("Twelve Data API error: %s", string(body))
	}

	var data timeSeriesResponse
	if err := json.Unmarshal(body, &data); err != nil {
		c.logger.Error().Err(err).Msg("Error parsing JSON")
		return nil, fmt.Errorf("parsing JSON: %w", err)
	}

	if len(data.Values) == 0 {
		c.logger.Warn().Str("symbol", symbol).Msg("No bars in response")
		return nil, fmt.Errorf("empty data returned for %s", symbol)
	}

	// Oldest first for proper calculations.
	sort.Slice(data.Values, func(i, j int) bool {
		return data.Values[i].Datetime < data.Values[j].Datetime
	})

	bars := make([]models.PriceBar, 0, len(data.Values))
	for _, v := range data.Values {
		bar, err := parseBar(v.Datetime, v.Open, v.High, v.Low, v.Close, v.Volume)
		if err != nil {
			return nil, fmt.Errorf("parsing bar at %s: %w", v.Datetime, err)
		}
		bars = append(bars, bar)
	}

	if err := models.ValidateBars(bars); err != nil {
		return nil, fmt.Errorf("validating bars for %s: %w", symbol, err)
	}

	c.logger.Debug().Str("symbol", symbol).Int("count", len(bars)).Msg("Fetched daily bars")
	return bars, nil
}

func parseBar(datetime, open, high, low, closePrice, volume string) (models.PriceBar, error) {
	date, err := time.Parse("2006-01-02", datetime)
	if err != nil {
		return models.PriceBar{}, fmt.Errorf("parsing date: %w", err)
	}
	o, err := strconv.ParseFloat(open, 64)
	if err != nil {
		return models.PriceBar{}, fmt.Errorf("parsing open: %w", err)
	}
	h, err := strconv.ParseFloat(high, 64)
	if err != nil {
		return models.PriceBar{}, fmt.Errorf("parsing high: %w", err)
	}
	l, err := strconv.ParseFloat(low, 64)
	if err != nil {
		return models.PriceBar{}, fmt.Errorf("parsing low: %w", err)
	}
	c, err := strconv.ParseFloat(closePrice, 64)
	if err != nil {
		return models.PriceBar{}, fmt.Errorf("parsing close: %w", err)
	}
	var vol int64
	if volume != "" {
		vol, err = strconv.ParseInt(volume, 10, 64)
		if err != nil {
			return models.PriceBar{}, fmt.Errorf("parsing volume: %w", err)
		}
	}
	return models.PriceBar{Date: date, Open: o, High: h, Low: l, Close: c, Volume: vol}, nil
}
