package services

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

const yahooChartPayload = `{
	"chart": {
		"result": [{
			"meta": {
				"symbol": "VUSA.L",
				"currency": "GBp",
				"exchangeName": "LSE",
				"longName": "Vanguard S&P 500 UCITS ETF",
				"shortName": "VANGUARD FTSE"
			},
			"timestamp": [1717200000, 1717286400, 1717372800],
			"indicators": {
				"quote": [{
					"open": [85.10, null, 84.00],
					"high": [85.60, null, 84.20],
					"low": [84.90, null, 83.50],
					"close": [85.38, null, 83.68],
					"volume": [120000, null, 237174]
				}]
			}
		}],
		"error": null
	}
}`

func newYahooTestService(handler http.HandlerFunc) (*YahooService, *httptest.Server) {
	server := httptest.NewServer(handler)
	service := NewYahooService()
	service.baseURL = server.URL
	return service, server
}

func TestNewYahooService(t *testing.T) {
	service := NewYahooService()
	if service == nil {
		t.Fatal("NewYahooService should not return nil")
	}
	if service.httpClient == nil {
		t.Error("httpClient should not be nil")
	}
	if service.baseURL != "https://query1.finance.yahoo.com/v8/finance/chart" {
		t.Errorf("baseURL = %v, want the Yahoo chart endpoint", service.baseURL)
	}
}

func TestYahooService_GetDailyBars(t *testing.T) {
	resetBreakers(t)

	service, server := newYahooTestService(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/VUSA.L") {
			t.Errorf("path = %v, want /VUSA.L", r.URL.Path)
		}
		if got := r.URL.Query().Get("interval"); got != "1d" {
			t.Errorf("interval = %v, want 1d", got)
		}
		if got := r.URL.Query().Get("range"); got != "1y" {
			t.Errorf("range = %v, want 1y", got)
		}
		fmt.Fprint(w, yahooChartPayload)
	})
	defer server.Close()

	bars, err := service.GetDailyBars(context.Background(), "VUSA.L", 365)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The null middle bar is skipped
	if len(bars) != 2 {
		t.Fatalf("bars = %d, want 2", len(bars))
	}
	if got := bars[0].Close.StringFixed(2); got != "85.38" {
		t.Errorf("first close = %v, want 85.38", got)
	}
	if got := bars[1].Close.StringFixed(2); got != "83.68" {
		t.Errorf("last close = %v, want 83.68", got)
	}
	if bars[1].Volume != 237174 {
		t.Errorf("last volume = %v, want 237174", bars[1].Volume)
	}
	if !bars[0].Timestamp.Before(bars[1].Timestamp) {
		t.Error("bars should be ascending by date")
	}
}

func TestYahooService_GetDailyBars_Errors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		wantErr string
	}{
		{
			name: "api error object",
			handler: func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, `{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found, symbol may be delisted"}}}`)
			},
			wantErr: "delisted",
		},
		{
			name: "empty result",
			handler: func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, `{"chart":{"result":[],"error":null}}`)
			},
			wantErr: "no chart data",
		},
		{
			name: "server error status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "too many requests", http.StatusTooManyRequests)
			},
			wantErr: "status 429",
		},
		{
			name: "no timestamps",
			handler: func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, `{"chart":{"result":[{"meta":{"symbol":"X"},"timestamp":[],"indicators":{"quote":[]}}],"error":null}}`)
			},
			wantErr: "empty bar series",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetBreakers(t)

			service, server := newYahooTestService(tt.handler)
			defer server.Close()

			_, err := service.GetDailyBars(context.Background(), "VUSA.L", 365)
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestYahooService_GetCompanyProfile(t *testing.T) {
	resetBreakers(t)

	service, server := newYahooTestService(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, yahooChartPayload)
	})
	defer server.Close()

	profile, err := service.GetCompanyProfile(context.Background(), "VUSA.L")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if profile.CompanyName != "Vanguard S&P 500 UCITS ETF" {
		t.Errorf("CompanyName = %q, want long name", profile.CompanyName)
	}
	if profile.Currency != "GBp" {
		t.Errorf("Currency = %q, want GBp", profile.Currency)
	}
}

func TestYahooService_GetCompanyProfile_ShortNameFallback(t *testing.T) {
	resetBreakers(t)

	service, server := newYahooTestService(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"chart":{"result":[{"meta":{"symbol":"VUSA.L","shortName":"VANGUARD FTSE"},"timestamp":[1717200000],"indicators":{"quote":[{"close":[85.38]}]}}],"error":null}}`)
	})
	defer server.Close()

	profile, err := service.GetCompanyProfile(context.Background(), "VUSA.L")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if profile.CompanyName != "VANGUARD FTSE" {
		t.Errorf("CompanyName = %q, want short name fallback", profile.CompanyName)
	}
}

func TestYahooService_GetCompanyProfile_NoName(t *testing.T) {
	resetBreakers(t)

	service, server := newYahooTestService(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"chart":{"result":[{"meta":{"symbol":"VUSA.L"},"timestamp":[1717200000],"indicators":{"quote":[{"close":[85.38]}]}}],"error":null}}`)
	})
	defer server.Close()

	_, err := service.GetCompanyProfile(context.Background(), "VUSA.L")
	if err == nil {
		t.Fatal("expected an error when no name is present")
	}
}

func TestRangeForDays(t *testing.T) {
	tests := []struct {
		days int
		want string
	}{
		{7, "1mo"},
		{30, "1mo"},
		{90, "3mo"},
		{180, "6mo"},
		{365, "1y"},
		{500, "2y"},
	}

	for _, tt := range tests {
		if got := rangeForDays(tt.days); got != tt.want {
			t.Errorf("rangeForDays(%d) = %q, want %q", tt.days, got, tt.want)
		}
	}
}

func TestYahooService_Timeout(t *testing.T) {
	service := NewYahooService()
	if service.httpClient.Timeout != 30*time.Second {
		t.Errorf("timeout = %v, want 30s", service.httpClient.Timeout)
	}
}
