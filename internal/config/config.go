// Package config loads runtime settings from the environment and an optional .env file.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
	"golang.org/x/text/currency"
)

// Config is the resolved application configuration.
type Config struct {
	AppPort          string
	LogLevel         string
	JWTSecret        string
	TokenTTL         time.Duration
	CatalogStore     string
	DatabaseDSN      string
	CatalogFile      string
	RabbitMQURL      string
	DeliveryFee      decimal.Decimal
	Currency         currency.Unit
	ProgressSchedule []time.Duration
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", ":8080")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("JWT_SECRET", "foodexpress-dev-secret")
	v.SetDefault("TOKEN_TTL", "24h")
	v.SetDefault("CATALOG_STORE", "sqlite")
	v.SetDefault("DATABASE_DSN", "")
	v.SetDefault("CATALOG_FILE", "")
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("DELIVERY_FEE", "7.90")
	v.SetDefault("CURRENCY", "BRL")
	v.SetDefault("PROGRESS_SCHEDULE", "2s,4s,7s")
}

// Load reads envFiles (missing files are ignored) and then the process environment.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		_ = godotenv.Load(f)
	}

	v := viper.New()
	SetDefaults(v)
	v.AutomaticEnv()
	return FromViper(v)
}

// FromViper resolves and validates the settings held by v.
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		AppPort:      v.GetString("APP_PORT"),
		LogLevel:     v.GetString("LOG_LEVEL"),
		JWTSecret:    v.GetString("JWT_SECRET"),
		CatalogStore: strings.ToLower(v.GetString("CATALOG_STORE")),
		DatabaseDSN:  v.GetString("DATABASE_DSN"),
		CatalogFile:  v.GetString("CATALOG_FILE"),
		RabbitMQURL:  v.GetString("RABBITMQ_URL"),
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET must not be empty")
	}

	ttl, err := time.ParseDuration(v.GetString("TOKEN_TTL"))
	if err != nil || ttl <= 0 {
		return nil, fmt.Errorf("invalid TOKEN_TTL %q", v.GetString("TOKEN_TTL"))
	}
	cfg.TokenTTL = ttl

	switch cfg.CatalogStore {
	case "sqlite", "postgres", "memory":
	default:
		return nil, fmt.Errorf("invalid CATALOG_STORE %q: want sqlite, postgres or memory", cfg.CatalogStore)
	}
	if cfg.CatalogStore == "postgres" && cfg.DatabaseDSN == "" {
		return nil, fmt.Errorf("DATABASE_DSN is required when CATALOG_STORE is postgres")
	}

	fee, err := decimal.NewFromString(v.GetString("DELIVERY_FEE"))
	if err != nil {
		return nil, fmt.Errorf("invalid DELIVERY_FEE: %w", err)
	}
	if fee.IsNegative() {
		return nil, fmt.Errorf("DELIVERY_FEE must not be negative")
	}
	cfg.DeliveryFee = fee

	unit, err := currency.ParseISO(v.GetString("CURRENCY"))
	if err != nil {
		return nil, fmt.Errorf("invalid CURRENCY: %w", err)
	}
	cfg.Currency = unit

	schedule, err := ParseSchedule(v.GetString("PROGRESS_SCHEDULE"))
	if err != nil {
		return nil, err
	}
	cfg.ProgressSchedule = schedule

	return cfg, nil
}

// ParseSchedule parses a comma separated list of three strictly increasing
// offsets, one per order transition.
func ParseSchedule(s string) ([]time.Duration, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return nil, fmt.Errorf("PROGRESS_SCHEDULE needs 3 offsets, got %d", len(parts))
	}

	out := make([]time.Duration, 0, len(parts))
	for _, p := range parts {
		d, err := time.ParseDuration(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("invalid PROGRESS_SCHEDULE offset %q: %w", p, err)
		}
		if d < 0 || (len(out) > 0 && d <= out[len(out)-1]) {
			return nil, fmt.Errorf("PROGRESS_SCHEDULE offsets must be non-negative and increasing: %q", s)
		}
		out = append(out, d)
	}
	return out, nil
}
