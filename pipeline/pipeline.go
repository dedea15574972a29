package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"market-analyst/analyst"
	"market-analyst/config"
	"market-analyst/models"
	"market-analyst/observability"
	"market-analyst/services"
)

// Sentinel errors for the pipeline failure taxonomy. Callers can test with
// errors.Is; analyst.ErrInsufficientHistory passes through unwrapped.
var (
	ErrDataFetch   = errors.New("market data fetch failed")
	ErrGeneration  = errors.New("narrative generation failed")
	ErrPersistence = errors.New("report persistence failed")
)

// ReportWriter persists a formatted report
type ReportWriter interface {
	Write(snapshot *models.MarketSnapshot, name models.DisplayName, narrative models.Narrative) (*models.Report, error)
}

// Pipeline runs the fetch -> compute -> prompt -> generate -> write
// sequence for one ticker per invocation. Fully sequential; nothing is
// retried; any step failure aborts the rest of the run except name
// resolution, which degrades to the raw ticker.
type Pipeline struct {
	market         services.MarketDataService
	generator      services.GeneratorService
	resolver       *analyst.NameResolver
	writer         ReportWriter
	lookbackDays   int
	currencySymbol string
}

// New creates a Pipeline from its collaborators and configuration
func New(market services.MarketDataService, generator services.GeneratorService, writer ReportWriter, cfg *config.Config) *Pipeline {
	return &Pipeline{
		market:         market,
		generator:      generator,
		resolver:       analyst.NewNameResolver(market),
		writer:         writer,
		lookbackDays:   cfg.MarketData.LookbackDays,
		currencySymbol: cfg.Report.CurrencySymbol,
	}
}

// Run executes the full pipeline for a ticker and returns the written
// report descriptor
func (p *Pipeline) Run(ctx context.Context, ticker string) (*models.Report, error) {
	log := observability.WithTicker(ticker)
	metrics := observability.GetMetrics()
	timer := metrics.NewTimer()

	report, err := p.run(ctx, ticker, log)
	if err != nil {
		timer.ObservePipeline(ticker, "error")
		return nil, err
	}

	timer.ObservePipeline(ticker, "success")
	return report, nil
}

func (p *Pipeline) run(ctx context.Context, ticker string, log *slog.Logger) (*models.Report, error) {
	log.Info("fetching daily bars", "lookback_days", p.lookbackDays)
	bars, err := p.market.GetDailyBars(ctx, ticker, p.lookbackDays)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDataFetch, err)
	}

	snapshot, err := analyst.BuildSnapshot(ticker, bars)
	if err != nil {
		if errors.Is(err, analyst.ErrNoBars) {
			return nil, fmt.Errorf("%w: %v", ErrDataFetch, err)
		}
		return nil, err
	}
	log.Info("snapshot computed",
		"current_price", snapshot.CurrentPrice,
		"previous_close", snapshot.PreviousClose,
		"day_change_percent", snapshot.DayChangePercent,
		"ma50", snapshot.MovingAverage50,
		"trend", snapshot.Trend,
		"volume", snapshot.Volume)

	name := p.resolver.Resolve(ctx, ticker)
	log.Info("display name resolved", "name", name.Name, "resolved", name.Resolved)

	log.Info("generating market analysis")
	analysis, err := p.generator.Generate(ctx, analyst.BuildAnalysisPrompt(snapshot, name, p.currencySymbol))
	if err != nil {
		return nil, fmt.Errorf("%w: analysis: %v", ErrGeneration, err)
	}

	log.Info("generating recommendation")
	recommendation, err := p.generator.Generate(ctx, analyst.BuildRecommendationPrompt(snapshot, name, p.currencySymbol))
	if err != nil {
		return nil, fmt.Errorf("%w: recommendation: %v", ErrGeneration, err)
	}

	narrative := models.Narrative{
		Analysis:       analysis,
		Recommendation: recommendation,
	}

	report, err := p.writer.Write(snapshot, name, narrative)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	log.Info("report written", "path", report.Path, "report_id", report.ID)
	return report, nil
}
