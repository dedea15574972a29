package pipeline

import (
	"context"
	"time"

	"market-analyst/models"

	"github.com/shopspring/decimal"
)

type mockMarketDataService struct {
	bars       []models.Bar
	barsErr    error
	profile    *models.CompanyProfile
	profileErr error
	barCalls   int
}

func (m *mockMarketDataService) GetDailyBars(ctx context.Context, symbol string, days int) ([]models.Bar, error) {
	m.barCalls++
	if m.barsErr != nil {
		return nil, m.barsErr
	}
	return m.bars, nil
}

func (m *mockMarketDataService) GetCompanyProfile(ctx context.Context, symbol string) (*models.CompanyProfile, error) {
	if m.profileErr != nil {
		return nil, m.profileErr
	}
	return m.profile, nil
}

// mockGenerator returns queued responses in order, erroring per-call
type mockGenerator struct {
	responses []string
	errs      []error
	calls     int
	prompts   []string
}

func (m *mockGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	i := m.calls
	m.calls++
	m.prompts = append(m.prompts, prompt)
	if i < len(m.errs) && m.errs[i] != nil {
		return "", m.errs[i]
	}
	if i < len(m.responses) {
		return m.responses[i], nil
	}
	return "", nil
}

type mockWriter struct {
	report *models.Report
	err    error
	calls  int

	snapshot  *models.MarketSnapshot
	name      models.DisplayName
	narrative models.Narrative
}

func (m *mockWriter) Write(snapshot *models.MarketSnapshot, name models.DisplayName, narrative models.Narrative) (*models.Report, error) {
	m.calls++
	m.snapshot = snapshot
	m.name = name
	m.narrative = narrative
	if m.err != nil {
		return nil, m.err
	}
	if m.report != nil {
		return m.report, nil
	}
	return models.NewReport(snapshot.Ticker, name.Name, "outputs/test.txt"), nil
}

// fiftyBars builds a 50-bar ascending series ending with the given closes
func fiftyBars(lastClose, prevClose float64) []models.Bar {
	bars := make([]models.Bar, 50)
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range bars {
		bars[i] = models.Bar{
			Symbol:    "TEST",
			Timestamp: start.AddDate(0, 0, i),
			Close:     decimal.NewFromFloat(100),
			Volume:    5000,
		}
	}
	bars[48].Close = decimal.NewFromFloat(prevClose)
	bars[49].Close = decimal.NewFromFloat(lastClose)
	return bars
}
