package analyst

import (
	"errors"
	"fmt"
	"time"

	"market-analyst/models"

	"github.com/shopspring/decimal"
)

// maWindow is the number of trailing closes in the moving average
const maWindow = 50

var (
	// ErrNoBars indicates the provider returned an empty series
	ErrNoBars = errors.New("no price data")

	// ErrInsufficientHistory indicates too few bars for the 50-day moving
	// average (new listing, illiquid instrument)
	ErrInsufficientHistory = errors.New("insufficient price history")
)

// BuildSnapshot computes a MarketSnapshot from an ascending daily bar
// series. It requires at least maWindow bars and either fully succeeds or
// returns no snapshot. Intermediate arithmetic runs at full precision;
// values are rounded to 2 decimal places only at field assignment.
func BuildSnapshot(ticker string, bars []models.Bar) (*models.MarketSnapshot, error) {
	if len(bars) == 0 {
		return nil, fmt.Errorf("%w for %s", ErrNoBars, ticker)
	}
	if len(bars) < maWindow {
		return nil, fmt.Errorf("%w for %s: have %d bars, need %d",
			ErrInsufficientHistory, ticker, len(bars), maWindow)
	}

	latest := bars[len(bars)-1]
	previous := bars[len(bars)-2]

	dayChange := latest.Close.Sub(previous.Close).
		Div(previous.Close).
		Mul(decimal.NewFromInt(100))

	sum := decimal.Zero
	for _, bar := range bars[len(bars)-maWindow:] {
		sum = sum.Add(bar.Close)
	}
	ma := sum.Div(decimal.NewFromInt(maWindow))

	currentPrice := latest.Close.Round(2)
	movingAverage := ma.Round(2)

	// Ties classify as DOWNWARD
	trend := models.TrendDownward
	if currentPrice.GreaterThan(movingAverage) {
		trend = models.TrendUpward
	}

	return &models.MarketSnapshot{
		Ticker:           ticker,
		CurrentPrice:     currentPrice,
		PreviousClose:    previous.Close.Round(2),
		DayChangePercent: dayChange.Round(2),
		MovingAverage50:  movingAverage,
		Trend:            trend,
		Volume:           latest.Volume,
		GeneratedAt:      time.Now(),
	}, nil
}
