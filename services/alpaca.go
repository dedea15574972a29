package services

import (
	"context"
	"fmt"
	"time"

	"market-analyst/models"
	"market-analyst/observability"

	"github.com/alpacahq/alpaca-trade-api-go/v3/alpaca"
	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"
	"github.com/shopspring/decimal"
)

// AlpacaService handles communication with Alpaca for market data. US-listed
// symbols only.
type AlpacaService struct {
	tradeClient *alpaca.Client
	dataClient  *marketdata.Client
}

// NewAlpacaService creates a new AlpacaService instance
func NewAlpacaService(apiKey, apiSecret, baseURL string) *AlpacaService {
	tradeClient := alpaca.NewClient(alpaca.ClientOpts{
		APIKey:    apiKey,
		APISecret: apiSecret,
		BaseURL:   baseURL,
	})

	dataClient := marketdata.NewClient(marketdata.ClientOpts{
		APIKey:    apiKey,
		APISecret: apiSecret,
	})

	return &AlpacaService{
		tradeClient: tradeClient,
		dataClient:  dataClient,
	}
}

// GetDailyBars returns daily bars for the trailing number of calendar days,
// ascending by date
func (s *AlpacaService) GetDailyBars(ctx context.Context, symbol string, days int) ([]models.Bar, error) {
	metrics := observability.GetMetrics()
	metrics.RecordExternalAPIRequest(BreakerAlpaca, "daily_bars")
	timer := metrics.NewTimer()

	result, err := WithCircuitBreaker(ctx, BreakerAlpaca, func() ([]models.Bar, error) {
		end := time.Now()
		start := end.AddDate(0, 0, -days)

		bars, err := s.dataClient.GetBars(symbol, marketdata.GetBarsRequest{
			TimeFrame: marketdata.OneDay,
			Start:     start,
			End:       end,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to get bars for %s: %w", symbol, err)
		}

		result := make([]models.Bar, 0, len(bars))
		for _, bar := range bars {
			result = append(result, models.Bar{
				Symbol:    symbol,
				Timestamp: bar.Timestamp,
				Open:      decimal.NewFromFloat(bar.Open),
				High:      decimal.NewFromFloat(bar.High),
				Low:       decimal.NewFromFloat(bar.Low),
				Close:     decimal.NewFromFloat(bar.Close),
				Volume:    int64(bar.Volume),
			})
		}

		return result, nil
	})

	timer.ObserveExternalAPI(BreakerAlpaca, "daily_bars")
	if err != nil {
		metrics.RecordExternalAPIError(BreakerAlpaca, "daily_bars", categorizeAPIError(err))
	}
	return result, err
}

// GetCompanyProfile returns descriptive metadata for a symbol from the
// Alpaca assets endpoint
func (s *AlpacaService) GetCompanyProfile(ctx context.Context, symbol string) (*models.CompanyProfile, error) {
	metrics := observability.GetMetrics()
	metrics.RecordExternalAPIRequest(BreakerAlpaca, "profile")
	timer := metrics.NewTimer()

	profile, err := WithCircuitBreaker(ctx, BreakerAlpaca, func() (*models.CompanyProfile, error) {
		asset, err := s.tradeClient.GetAsset(symbol)
		if err != nil {
			return nil, fmt.Errorf("failed to get asset for %s: %w", symbol, err)
		}
		if asset.Name == "" {
			return nil, fmt.Errorf("no display name for symbol %s", symbol)
		}

		return &models.CompanyProfile{
			Symbol:      symbol,
			CompanyName: asset.Name,
			Exchange:    asset.Exchange,
		}, nil
	})

	timer.ObserveExternalAPI(BreakerAlpaca, "profile")
	if err != nil {
		metrics.RecordExternalAPIError(BreakerAlpaca, "profile", categorizeAPIError(err))
	}
	return profile, err
}

// Compile-time interface verification
var _ MarketDataService = (*AlpacaService)(nil)
