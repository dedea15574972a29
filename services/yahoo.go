package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"market-analyst/models"
	"market-analyst/observability"

	"github.com/shopspring/decimal"
)

// YahooService handles communication with the Yahoo Finance chart API
type YahooService struct {
	httpClient *http.Client
	baseURL    string
}

// NewYahooService creates a new YahooService instance
func NewYahooService() *YahooService {
	return &YahooService{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    "https://query1.finance.yahoo.com/v8/finance/chart",
	}
}

// yahooChartResponse represents the response from the Yahoo Finance chart API.
// Quote arrays use pointers because Yahoo returns null entries for days with
// no trading data.
type yahooChartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol    string `json:"symbol"`
				Currency  string `json:"currency"`
				Exchange  string `json:"exchangeName"`
				LongName  string `json:"longName"`
				ShortName string `json:"shortName"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*int64   `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// fetchChart requests the chart endpoint for a symbol at the given interval and range
func (s *YahooService) fetchChart(ctx context.Context, symbol, interval, rng string) (*yahooChartResponse, error) {
	reqURL := fmt.Sprintf("%s/%s?interval=%s&range=%s",
		s.baseURL, url.PathEscape(symbol), interval, rng)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create chart request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch chart: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read chart response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("chart API returned status %d", resp.StatusCode)
	}

	var chart yahooChartResponse
	if err := json.Unmarshal(body, &chart); err != nil {
		return nil, fmt.Errorf("failed to decode chart response: %w", err)
	}
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("chart API error: %s", chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 {
		return nil, fmt.Errorf("no chart data for symbol %s", symbol)
	}

	return &chart, nil
}

// GetDailyBars returns daily bars for the trailing number of calendar days,
// ascending by date. Null bars (holidays, halts) are skipped.
func (s *YahooService) GetDailyBars(ctx context.Context, symbol string, days int) ([]models.Bar, error) {
	metrics := observability.GetMetrics()
	metrics.RecordExternalAPIRequest(BreakerYahoo, "daily_bars")
	timer := metrics.NewTimer()

	bars, err := WithCircuitBreaker(ctx, BreakerYahoo, func() ([]models.Bar, error) {
		chart, err := s.fetchChart(ctx, symbol, "1d", rangeForDays(days))
		if err != nil {
			return nil, err
		}

		result := chart.Chart.Result[0]
		if len(result.Timestamp) == 0 || len(result.Indicators.Quote) == 0 {
			return nil, fmt.Errorf("empty bar series for symbol %s", symbol)
		}
		quote := result.Indicators.Quote[0]

		bars := make([]models.Bar, 0, len(result.Timestamp))
		for i, ts := range result.Timestamp {
			if i >= len(quote.Close) || quote.Close[i] == nil {
				continue
			}
			var volume int64
			if i < len(quote.Volume) && quote.Volume[i] != nil {
				volume = *quote.Volume[i]
			}
			bars = append(bars, models.Bar{
				Symbol:    symbol,
				Timestamp: time.Unix(ts, 0).UTC(),
				Open:      decimal.NewFromFloat(deref(quote.Open, i)),
				High:      decimal.NewFromFloat(deref(quote.High, i)),
				Low:       decimal.NewFromFloat(deref(quote.Low, i)),
				Close:     decimal.NewFromFloat(*quote.Close[i]),
				Volume:    volume,
			})
		}

		sort.Slice(bars, func(i, j int) bool { return bars[i].Timestamp.Before(bars[j].Timestamp) })
		return bars, nil
	})

	timer.ObserveExternalAPI(BreakerYahoo, "daily_bars")
	if err != nil {
		metrics.RecordExternalAPIError(BreakerYahoo, "daily_bars", categorizeAPIError(err))
	}
	return bars, err
}

// GetCompanyProfile returns descriptive metadata for a symbol, taken from
// the chart metadata
func (s *YahooService) GetCompanyProfile(ctx context.Context, symbol string) (*models.CompanyProfile, error) {
	metrics := observability.GetMetrics()
	metrics.RecordExternalAPIRequest(BreakerYahoo, "profile")
	timer := metrics.NewTimer()

	profile, err := WithCircuitBreaker(ctx, BreakerYahoo, func() (*models.CompanyProfile, error) {
		chart, err := s.fetchChart(ctx, symbol, "1d", "1d")
		if err != nil {
			return nil, err
		}

		meta := chart.Chart.Result[0].Meta
		name := meta.LongName
		if name == "" {
			name = meta.ShortName
		}
		if name == "" {
			return nil, fmt.Errorf("no display name for symbol %s", symbol)
		}

		return &models.CompanyProfile{
			Symbol:      symbol,
			CompanyName: name,
			Exchange:    meta.Exchange,
			Currency:    meta.Currency,
		}, nil
	})

	timer.ObserveExternalAPI(BreakerYahoo, "profile")
	if err != nil {
		metrics.RecordExternalAPIError(BreakerYahoo, "profile", categorizeAPIError(err))
	}
	return profile, err
}

// rangeForDays maps a trailing calendar-day window onto a Yahoo range token
func rangeForDays(days int) string {
	switch {
	case days <= 30:
		return "1mo"
	case days <= 90:
		return "3mo"
	case days <= 180:
		return "6mo"
	case days <= 365:
		return "1y"
	default:
		return "2y"
	}
}

func deref(vals []*float64, i int) float64 {
	if i >= len(vals) || vals[i] == nil {
		return 0
	}
	return *vals[i]
}

// Compile-time interface verification
var _ MarketDataService = (*YahooService)(nil)
