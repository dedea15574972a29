package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"market-analyst/config"
	"market-analyst/observability"
	"market-analyst/pipeline"
	"market-analyst/report"
	"market-analyst/services"

	"github.com/joho/godotenv"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] TICKER\n\n", os.Args[0])
		fmt.Fprintf(flag.CommandLine.Output(), "Fetches a year of daily bars for TICKER, generates a market\n")
		fmt.Fprintf(flag.CommandLine.Output(), "commentary via a text-generation model, and writes a plaintext report.\n\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	// Load environment variables
	if err := godotenv.Load(); err != nil {
		fmt.Fprintln(os.Stderr, "No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	observability.InitLogger(cfg.Log.Production)
	observability.InitMetrics()

	ticker := flag.Arg(0)
	if ticker == "" {
		ticker = os.Getenv("TICKER")
	}
	if ticker == "" {
		flag.Usage()
		os.Exit(1)
	}

	ctx := context.Background()

	market, err := newMarketDataService(cfg)
	if err != nil {
		observability.Fatal("failed to initialize market data provider", "error", err)
	}

	generator, err := newGeneratorService(ctx, cfg)
	if err != nil {
		observability.Fatal("failed to initialize generator backend", "error", err)
	}

	writer := report.NewWriter(cfg.Report.OutputDir, cfg.Report.CurrencySymbol)

	p := pipeline.New(market, generator, writer, cfg)
	rep, err := p.Run(ctx, ticker)
	if err != nil {
		observability.WithTicker(ticker).Error("analysis run aborted", "error", err)
		os.Exit(1)
	}

	observability.WithTicker(ticker).Info("analysis complete", "report", rep.Path)
	fmt.Println(rep.Path)
}

func newMarketDataService(cfg *config.Config) (services.MarketDataService, error) {
	switch cfg.MarketData.Provider {
	case config.ProviderYahoo:
		return services.NewYahooService(), nil
	case config.ProviderAlpaca:
		return services.NewAlpacaService(
			cfg.MarketData.Alpaca.APIKey,
			cfg.MarketData.Alpaca.APISecret,
			cfg.MarketData.Alpaca.BaseURL,
		), nil
	default:
		return nil, fmt.Errorf("unknown market data provider %q", cfg.MarketData.Provider)
	}
}

func newGeneratorService(ctx context.Context, cfg *config.Config) (services.GeneratorService, error) {
	switch cfg.Generator.Backend {
	case config.BackendOllama:
		return services.NewOllamaService(
			cfg.Generator.Ollama.BaseURL,
			cfg.Generator.Ollama.Model,
			time.Duration(cfg.Generator.Ollama.TimeoutSeconds)*time.Second,
		), nil
	case config.BackendBedrock:
		return services.NewBedrockService(ctx,
			cfg.Generator.Bedrock.Region,
			cfg.Generator.Bedrock.ModelID,
			cfg.Generator.Bedrock.MaxTokens,
		)
	default:
		return nil, fmt.Errorf("unknown generator backend %q", cfg.Generator.Backend)
	}
}
