package analyst

import (
	"context"

	"market-analyst/models"
)

type mockMarketDataService struct {
	bars    []models.Bar
	profile *models.CompanyProfile
	err     error
}

func (m *mockMarketDataService) GetDailyBars(ctx context.Context, symbol string, days int) ([]models.Bar, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.bars, nil
}

func (m *mockMarketDataService) GetCompanyProfile(ctx context.Context, symbol string) (*models.CompanyProfile, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.profile, nil
}
