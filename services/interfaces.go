package services

import (
	"context"

	"market-analyst/models"
)

// MarketDataService defines the interface for market data providers
type MarketDataService interface {
	// GetDailyBars returns daily bars for the trailing number of calendar
	// days, ascending by date
	GetDailyBars(ctx context.Context, symbol string, days int) ([]models.Bar, error)

	// GetCompanyProfile returns descriptive metadata for a symbol
	GetCompanyProfile(ctx context.Context, symbol string) (*models.CompanyProfile, error)
}

// GeneratorService defines the interface for text-generation backends
type GeneratorService interface {
	// Generate sends the prompt verbatim and returns the model's full
	// textual output unmodified, in a single blocking call
	Generate(ctx context.Context, prompt string) (string, error)
}
