package config

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"marketlens/pkg/errors"
)

type Config struct {
	App           AppConfig
	Server        ServerConfig
	MarketData    MarketDataConfig
	AI            AIConfig
	ErrorTracking ErrorTrackingConfig
}

type AppConfig struct {
	Name     string `envconfig:"APP_NAME" default:"marketlens"`
	Env      string `envconfig:"APP_ENV" default:"development"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
}

type ServerConfig struct {
	Port            int           `envconfig:"SERVER_PORT" default:"5000"`
	CORSOrigin      string        `envconfig:"CORS_ORIGIN" default:"http://localhost:3000"`
	ShutdownTimeout time.Duration `envconfig:"SERVER_SHUTDOWN_TIMEOUT" default:"15s"`
}

// MarketDataConfig carries the retry/backoff policy for the quote provider.
// The provider adapter owns retries; callers see only the final outcome.
type MarketDataConfig struct {
	QuoteBaseURL   string        `envconfig:"MARKET_DATA_QUOTE_URL" default:"https://query1.finance.yahoo.com/v7/finance/quote"`
	ChartBaseURL   string        `envconfig:"MARKET_DATA_CHART_URL" default:"https://query1.finance.yahoo.com/v8/finance/chart"`
	Timeout        time.Duration `envconfig:"MARKET_DATA_TIMEOUT" default:"10s"`
	MaxRetries     int           `envconfig:"MARKET_DATA_MAX_RETRIES" default:"3"`
	BackoffStep    time.Duration `envconfig:"MARKET_DATA_BACKOFF_STEP" default:"2s"`
	RequestsPerSec float64       `envconfig:"MARKET_DATA_REQUESTS_PER_SEC" default:"4"`
}

type AIConfig struct {
	APIKey       string        `envconfig:"OPENAI_API_KEY"`
	BaseURL      string        `envconfig:"OPENAI_BASE_URL" default:"https://api.openai.com/v1/chat/completions"`
	Model        string        `envconfig:"OPENAI_MODEL" default:"gpt-4o"`
	Timeout      time.Duration `envconfig:"OPENAI_TIMEOUT" default:"60s"`
	MaxTokens    int           `envconfig:"OPENAI_MAX_TOKENS" default:"1000"`
	Temperature  float64       `envconfig:"OPENAI_TEMPERATURE" default:"0.7"`
	ReqPerMinute float64       `envconfig:"OPENAI_REQ_PER_MINUTE" default:"500"`
	Burst        int           `envconfig:"OPENAI_BURST" default:"50"`
}

type ErrorTrackingConfig struct {
	Enabled     bool   `envconfig:"ERROR_TRACKING_ENABLED" default:"false"`
	SentryDSN   string `envconfig:"SENTRY_DSN"`
	Environment string `envconfig:"SENTRY_ENVIRONMENT" default:"production"`
}

// Load reads configuration from environment variables
// It first tries to load .env file (useful for local development)
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if not exists)
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to process env config")
	}

	return &cfg, nil
}
