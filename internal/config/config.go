// Package config loads the process-wide settings. Values come from a
// .env file when present, then the environment, then defaults; they
// are constant for the process lifetime.
package config

import (
	"log/slog"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Config is the process configuration.
type Config struct {
	// DataPath is the directory holding the collection files.
	DataPath string

	// TaxRate is the tax percentage applied to every order total.
	TaxRate decimal.Decimal

	// Currency is the symbol prefixed to formatted amounts.
	Currency string

	// RetentionMonths is the order retention window for the pruner.
	RetentionMonths int

	// LenientDecode degrades malformed collection files to empty
	// collections instead of failing loads. Compatibility mode; off by
	// default.
	LenientDecode bool

	// JWTSecret signs session tokens.
	JWTSecret string

	// Port is the HTTP listen port.
	Port int
}

// Load reads the configuration.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found, using environment variables")
	}

	return Config{
		DataPath:        getEnv("DATA_PATH", "./data"),
		TaxRate:         getDecimal("TAX_RATE", "0"),
		Currency:        getEnv("CURRENCY", "Rs."),
		RetentionMonths: getInt("RETENTION_MONTHS", 3),
		LenientDecode:   getBool("LENIENT_DECODE", false),
		JWTSecret:       getEnv("JWT_SECRET", "dev-secret-change-me"),
		Port:            getInt("PORT", 8080),
	}
}

// FormatCurrency renders an amount with the configured symbol and two
// decimal places.
func (c Config) FormatCurrency(amount decimal.Decimal) string {
	return c.Currency + amount.StringFixed(2)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		slog.Warn("invalid integer in environment, using default", "key", key, "value", raw)
		return fallback
	}
	return n
}

func getBool(key string, fallback bool) bool {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		slog.Warn("invalid boolean in environment, using default", "key", key, "value", raw)
		return fallback
	}
	return b
}

func getDecimal(key, fallback string) decimal.Decimal {
	raw := getEnv(key, fallback)
	d, err := decimal.NewFromString(raw)
	if err != nil {
		slog.Warn("invalid decimal in environment, using default", "key", key, "value", raw)
		d, _ = decimal.NewFromString(fallback)
	}
	return d
}
