package analyst

import (
	"context"
	"fmt"

	"market-analyst/models"
	"market-analyst/observability"
	"market-analyst/services"
)

// NameResolver looks up a human-readable display name for a ticker. It is
// best-effort: display quality never blocks the pipeline.
type NameResolver struct {
	market services.MarketDataService
}

// NewNameResolver creates a new NameResolver
func NewNameResolver(market services.MarketDataService) *NameResolver {
	return &NameResolver{market: market}
}

// Resolve returns the display name for a ticker, formatted as
// "Company Name (TICKER)". It never fails the caller: on any lookup
// failure it returns the raw ticker with Resolved set to false.
func (r *NameResolver) Resolve(ctx context.Context, ticker string) models.DisplayName {
	profile, err := r.market.GetCompanyProfile(ctx, ticker)
	if err != nil {
		observability.WithTicker(ticker).Warn("name resolution failed, using raw ticker",
			"error", err)
		return models.DisplayName{Name: ticker, Resolved: false}
	}
	if profile == nil || profile.CompanyName == "" {
		observability.WithTicker(ticker).Warn("name resolution returned no name, using raw ticker")
		return models.DisplayName{Name: ticker, Resolved: false}
	}

	return models.DisplayName{
		Name:     fmt.Sprintf("%s (%s)", profile.CompanyName, ticker),
		Resolved: true,
	}
}
