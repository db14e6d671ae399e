package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"smartsaver/domain"
)

// Config holds the server configuration.
type Config struct {
	Port              int
	RatesFile         string
	MaxInitial        float64
	MaxTermMonths     int
	MaxEvents         int
	RedisAddr         string
	SessionTTL        time.Duration
	OpenAIAPIKey      string
	OpenAIModel       string
	OpenAIURL         string
	RateLimitCapacity int
	RateLimitWindow   time.Duration
	OTELEndpoint      string
	OTELServiceName   string
	LogLevel          string
}

// LoadConfig reads the configuration from the environment, loading .env first if present.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:              getEnvInt("PORT", 8000),
		RatesFile:         getEnvString("RATES_FILE", "truth.json"),
		MaxInitial:        getEnvFloat("MAX_INITIAL", 1e9),
		MaxTermMonths:     getEnvInt("MAX_TERM_MONTHS", 600),
		MaxEvents:         getEnvInt("MAX_EVENTS", 240),
		RedisAddr:         getEnvString("REDIS_ADDR", ""),
		SessionTTL:        getEnvDuration("SESSION_TTL", 24*time.Hour),
		OpenAIAPIKey:      getEnvString("OPENAI_API_KEY", ""),
		OpenAIModel:       getEnvString("OPENAI_MODEL", "gpt-4o-mini"),
		OpenAIURL:         getEnvString("OPENAI_URL", "https://api.openai.com/v1/chat/completions"),
		RateLimitCapacity: getEnvInt("RATE_LIMIT_CAPACITY", 30),
		RateLimitWindow:   getEnvDuration("RATE_LIMIT_WINDOW", time.Minute),
		OTELEndpoint:      getEnvString("OTEL_ENDPOINT", ""),
		OTELServiceName:   getEnvString("OTEL_SERVICE_NAME", "smartsaver"),
		LogLevel:          getEnvString("LOG_LEVEL", "INFO"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects limits that would make every request fail.
func (c *Config) Validate() error {
	var problems []string
	if c.Port < 1 || c.Port > 65535 {
		problems = append(problems, fmt.Sprintf("invalid port %d", c.Port))
	}
	if math.IsNaN(c.MaxInitial) || math.IsInf(c.MaxInitial, 0) || c.MaxInitial <= 0 {
		problems = append(problems, "MAX_INITIAL must be > 0")
	}
	if c.MaxTermMonths < 1 {
		problems = append(problems, "MAX_TERM_MONTHS must be >= 1")
	}
	if c.MaxEvents < 0 {
		problems = append(problems, "MAX_EVENTS must be >= 0")
	}
	if c.RateLimitCapacity < 1 {
		problems = append(problems, "RATE_LIMIT_CAPACITY must be >= 1")
	}
	if c.RateLimitWindow <= 0 {
		problems = append(problems, "RATE_LIMIT_WINDOW must be > 0")
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

// SlogLevel maps LOG_LEVEL onto a slog level, defaulting to INFO.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToUpper(c.LogLevel) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// MaxInitialAmount returns MaxInitial as a decimal.
func (c *Config) MaxInitialAmount() decimal.Decimal {
	return decimal.NewFromFloat(c.MaxInitial)
}

// DefaultRates is used when no rates file is present.
func DefaultRates() domain.Rates {
	return domain.Rates{
		Products: domain.ProductRates{
			FlexVaultAPR:   decimal.RequireFromString("5.0"),
			LockedVaultAPR: decimal.RequireFromString("7.5"),
			MainAccountAPR: decimal.RequireFromString("2.0"),
		},
		Terms: domain.TermLimits{MinMonths: 12, MaxMonths: 24},
	}
}

// LoadRates reads the rates table from path. A missing file yields DefaultRates.
func LoadRates(path string) (domain.Rates, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return DefaultRates(), nil
	}
	if err != nil {
		return domain.Rates{}, fmt.Errorf("read rates file: %w", err)
	}

	var rates domain.Rates
	if err := json.Unmarshal(data, &rates); err != nil {
		return domain.Rates{}, fmt.Errorf("parse rates file %s: %w", path, err)
	}
	if err := validateRates(rates); err != nil {
		return domain.Rates{}, fmt.Errorf("rates file %s: %w", path, err)
	}
	return rates, nil
}

func validateRates(r domain.Rates) error {
	for name, apr := range map[string]decimal.Decimal{
		"flex_vault_apr":   r.Products.FlexVaultAPR,
		"locked_vault_apr": r.Products.LockedVaultAPR,
		"main_account_apr": r.Products.MainAccountAPR,
	} {
		if apr.IsNegative() {
			return fmt.Errorf("%s must be >= 0", name)
		}
	}
	if r.Terms.MinMonths < 0 || r.Terms.MinMonths > r.Terms.MaxMonths {
		return fmt.Errorf("invalid term range [%d; %d]", r.Terms.MinMonths, r.Terms.MaxMonths)
	}
	return nil
}

func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
