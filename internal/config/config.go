package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"

	"github.com/noah-isme/backend-kafe/internal/pricing"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	AppEnv             string
	Port               string
	CORSAllowedOrigins []string
	CurrencyCode       string

	// Catalog seed values, all prices in minor units.
	MuffinPrice        pricing.Money
	MuffinInitialStock int
	ShakePrice         pricing.Money
	CoffeePrice        pricing.Money
	ComboDiscount      pricing.Money

	// BakeBatchSize is how many muffins one bake run adds.
	BakeBatchSize int
	// SessionTTL bounds how long an open order session may idle.
	SessionTTL time.Duration
}

// Load reads configuration from environment variables and optional .env files.
func Load() (*Config, error) {
	_ = godotenv.Load()

	k := koanf.New(".")
	if err := k.Load(env.Provider("", ".", func(s string) string { return s }), nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	cfg := &Config{
		AppEnv:             valueOrDefault(k.String("APP_ENV"), "development"),
		Port:               valueOrDefault(k.String("PORT"), "8080"),
		CORSAllowedOrigins: splitAndTrim(k.String("CORS_ALLOWED_ORIGINS")),
		CurrencyCode:       valueOrDefault(k.String("CURRENCY_CODE"), "USD"),
		MuffinPrice:        parseMoney(k.String("MENU_MUFFIN_PRICE"), 200),
		MuffinInitialStock: parseInt(k.String("MENU_MUFFIN_STOCK"), 25),
		ShakePrice:         parseMoney(k.String("MENU_SHAKE_PRICE"), 300),
		CoffeePrice:        parseMoney(k.String("MENU_COFFEE_PRICE"), 250),
		ComboDiscount:      parseMoney(k.String("MENU_COMBO_DISCOUNT"), 100),
		BakeBatchSize:      parseInt(k.String("BAKE_BATCH_SIZE"), 25),
		SessionTTL:         parseDuration(k.String("ORDER_SESSION_TTL"), "30m"),
	}

	if cfg.MuffinPrice <= 0 || cfg.ShakePrice <= 0 || cfg.CoffeePrice <= 0 {
		return nil, errors.New("menu prices must be positive")
	}
	if cfg.MuffinInitialStock < 0 {
		return nil, errors.New("MENU_MUFFIN_STOCK must not be negative")
	}
	if cfg.ComboDiscount < 0 {
		return nil, errors.New("MENU_COMBO_DISCOUNT must not be negative")
	}
	if cfg.BakeBatchSize <= 0 {
		return nil, errors.New("BAKE_BATCH_SIZE must be positive")
	}

	return cfg, nil
}

// HTTPAddr returns the address the HTTP server should bind to.
func (c *Config) HTTPAddr() string {
	port := strings.TrimSpace(c.Port)
	if port == "" {
		port = "8080"
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return ":" + port
}

func splitAndTrim(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func valueOrDefault(value, fallback string) string {
	if strings.TrimSpace(value) != "" {
		return value
	}
	return fallback
}

func parseDuration(value, fallback string) time.Duration {
	base := strings.TrimSpace(value)
	if base == "" {
		base = fallback
	}
	d, err := time.ParseDuration(base)
	if err != nil {
		d, _ = time.ParseDuration(fallback)
	}
	return d
}

func parseInt(value string, fallback int) int {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(trimmed)
	if err != nil {
		return fallback
	}
	return parsed
}

func parseMoney(value string, fallback pricing.Money) pricing.Money {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fallback
	}
	parsed, err := strconv.ParseInt(trimmed, 10, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

// MustLoad behaves like Load but panics on error. Useful for tests and command entrypoints.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// LoadForTests allows tests to override environment variables without touching the real environment.
func LoadForTests(env map[string]string) (*Config, error) {
	original := make(map[string]string, len(env))
	for key := range env {
		original[key] = os.Getenv(key)
		if err := setEnvVar(key, env[key]); err != nil {
			return nil, err
		}
	}
	cfg, err := Load()
	restoreErr := restoreEnv(original)
	if err != nil {
		return nil, err
	}
	return cfg, restoreErr
}

func setEnvVar(key, value string) error {
	if value == "" {
		return os.Unsetenv(key)
	}
	return os.Setenv(key, value)
}

func restoreEnv(values map[string]string) error {
	var errs []string
	for key, value := range values {
		if err := setEnvVar(key, value); err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", key, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("restore env: %s", strings.Join(errs, "; "))
	}
	return nil
}
