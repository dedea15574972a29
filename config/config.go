package config

import (
	"fmt"
	"os"
	"strconv"
)

// Market data provider identifiers
const (
	ProviderYahoo  = "yahoo"
	ProviderAlpaca = "alpaca"
)

// Generator backend identifiers
const (
	BackendOllama  = "ollama"
	BackendBedrock = "bedrock"
)

// Config holds all application configuration
type Config struct {
	// Market data provider configuration
	MarketData MarketDataConfig

	// Narrative generator configuration
	Generator GeneratorConfig

	// Report output configuration
	Report ReportConfig

	// Logging configuration
	Log LogConfig
}

// MarketDataConfig holds market data provider configuration
type MarketDataConfig struct {
	Provider     string // yahoo or alpaca
	LookbackDays int    // trailing window of daily bars to request
	Alpaca       AlpacaConfig
}

// AlpacaConfig holds Alpaca API configuration
type AlpacaConfig struct {
	APIKey    string
	APISecret string
	BaseURL   string
}

// GeneratorConfig holds narrative generator configuration
type GeneratorConfig struct {
	Backend string // ollama or bedrock
	Ollama  OllamaConfig
	Bedrock BedrockConfig
}

// OllamaConfig holds Ollama inference server configuration
type OllamaConfig struct {
	BaseURL        string
	Model          string
	TimeoutSeconds int
}

// BedrockConfig holds AWS Bedrock configuration
type BedrockConfig struct {
	Region    string
	ModelID   string
	MaxTokens int
}

// ReportConfig holds report output configuration
type ReportConfig struct {
	OutputDir      string
	CurrencySymbol string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Production bool // JSON output when true
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		MarketData: MarketDataConfig{
			Provider:     getEnvString("MARKET_DATA_PROVIDER", ProviderYahoo),
			LookbackDays: getEnvInt("MARKET_DATA_LOOKBACK_DAYS", 365),
			Alpaca: AlpacaConfig{
				APIKey:    os.Getenv("ALPACA_API_KEY"),
				APISecret: os.Getenv("ALPACA_API_SECRET"),
				BaseURL:   getEnvString("ALPACA_BASE_URL", "https://paper-api.alpaca.markets"),
			},
		},
		Generator: GeneratorConfig{
			Backend: getEnvString("GENERATOR_BACKEND", BackendOllama),
			Ollama: OllamaConfig{
				BaseURL:        getEnvString("OLLAMA_BASE_URL", "http://localhost:11434"),
				Model:          getEnvString("OLLAMA_MODEL", "llama3.1:8b-instruct-q8_0"),
				TimeoutSeconds: getEnvInt("OLLAMA_TIMEOUT_SECONDS", 120),
			},
			Bedrock: BedrockConfig{
				Region:    os.Getenv("AWS_REGION"),
				ModelID:   os.Getenv("BEDROCK_MODEL_ID"),
				MaxTokens: getEnvInt("BEDROCK_MAX_TOKENS", 4096),
			},
		},
		Report: ReportConfig{
			OutputDir:      getEnvString("REPORT_OUTPUT_DIR", "outputs"),
			CurrencySymbol: getEnvString("CURRENCY_SYMBOL", "£"),
		},
		Log: LogConfig{
			Production: getEnvBool("LOG_PRODUCTION", false),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.MarketData.Provider {
	case ProviderYahoo:
	case ProviderAlpaca:
		if c.MarketData.Alpaca.APIKey == "" || c.MarketData.Alpaca.APISecret == "" {
			return fmt.Errorf("ALPACA_API_KEY and ALPACA_API_SECRET are required for the alpaca provider")
		}
	default:
		return fmt.Errorf("unknown market data provider %q (want %q or %q)",
			c.MarketData.Provider, ProviderYahoo, ProviderAlpaca)
	}

	if c.MarketData.LookbackDays < 50 {
		return fmt.Errorf("MARKET_DATA_LOOKBACK_DAYS must be at least 50, got %d", c.MarketData.LookbackDays)
	}

	switch c.Generator.Backend {
	case BackendOllama:
		if c.Generator.Ollama.BaseURL == "" {
			return fmt.Errorf("OLLAMA_BASE_URL must not be empty")
		}
		if c.Generator.Ollama.Model == "" {
			return fmt.Errorf("OLLAMA_MODEL must not be empty")
		}
		if c.Generator.Ollama.TimeoutSeconds <= 0 {
			return fmt.Errorf("OLLAMA_TIMEOUT_SECONDS must be positive, got %d", c.Generator.Ollama.TimeoutSeconds)
		}
	case BackendBedrock:
		if c.Generator.Bedrock.Region == "" || c.Generator.Bedrock.ModelID == "" {
			return fmt.Errorf("AWS_REGION and BEDROCK_MODEL_ID are required for the bedrock backend")
		}
	default:
		return fmt.Errorf("unknown generator backend %q (want %q or %q)",
			c.Generator.Backend, BackendOllama, BackendBedrock)
	}

	if c.Report.OutputDir == "" {
		return fmt.Errorf("REPORT_OUTPUT_DIR must not be empty")
	}

	return nil
}

func getEnvString(key, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil && parsed > 0 {
			return parsed
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseBool(val); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// NewTestConfig creates a Config with default values for testing
func NewTestConfig() *Config {
	return &Config{
		MarketData: MarketDataConfig{
			Provider:     ProviderYahoo,
			LookbackDays: 365,
			Alpaca: AlpacaConfig{
				BaseURL: "https://paper-api.alpaca.markets",
			},
		},
		Generator: GeneratorConfig{
			Backend: BackendOllama,
			Ollama: OllamaConfig{
				BaseURL:        "http://localhost:11434",
				Model:          "llama3.1:8b-instruct-q8_0",
				TimeoutSeconds: 120,
			},
			Bedrock: BedrockConfig{
				MaxTokens: 4096,
			},
		},
		Report: ReportConfig{
			OutputDir:      "outputs",
			CurrencySymbol: "£",
		},
	}
}
