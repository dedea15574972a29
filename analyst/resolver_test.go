package analyst

import (
	"context"
	"errors"
	"testing"

	"market-analyst/models"
)

func TestNameResolver_Resolve_Success(t *testing.T) {
	resolver := NewNameResolver(&mockMarketDataService{
		profile: &models.CompanyProfile{
			Symbol:      "VUSA.L",
			CompanyName: "Vanguard S&P 500 UCITS ETF",
		},
	})

	name := resolver.Resolve(context.Background(), "VUSA.L")

	if !name.Resolved {
		t.Error("expected Resolved to be true")
	}
	if name.Name != "Vanguard S&P 500 UCITS ETF (VUSA.L)" {
		t.Errorf("Name = %q, want 'Vanguard S&P 500 UCITS ETF (VUSA.L)'", name.Name)
	}
}

func TestNameResolver_Resolve_LookupFailure(t *testing.T) {
	resolver := NewNameResolver(&mockMarketDataService{
		err: errors.New("connection refused"),
	})

	name := resolver.Resolve(context.Background(), "VUSA.L")

	if name.Resolved {
		t.Error("expected Resolved to be false")
	}
	if name.Name != "VUSA.L" {
		t.Errorf("Name = %q, want raw ticker 'VUSA.L'", name.Name)
	}
}

func TestNameResolver_Resolve_MissingName(t *testing.T) {
	tests := []struct {
		name    string
		profile *models.CompanyProfile
	}{
		{"nil profile", nil},
		{"blank company name", &models.CompanyProfile{Symbol: "VUSA.L"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolver := NewNameResolver(&mockMarketDataService{profile: tt.profile})

			name := resolver.Resolve(context.Background(), "VUSA.L")

			if name.Resolved {
				t.Error("expected Resolved to be false")
			}
			if name.Name != "VUSA.L" {
				t.Errorf("Name = %q, want raw ticker 'VUSA.L'", name.Name)
			}
		})
	}
}
