// Package config содержит логику чтения конфигурации витрины.
package config

import (
	"flag"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	defaultRunAddress     = "localhost:8080"
	defaultAPIBaseURL     = "http://localhost:8000/api"
	defaultRequestTimeout = 10 * time.Second
	defaultCartOrdering   = "last-resolved"
	defaultLogLevel       = "info"
)

// Config содержит параметры конфигурации витрины.
type Config struct {
	RunAddress     string        `env:"RUN_ADDRESS"`
	APIBaseURL     string        `env:"API_BASE_URL"`
	DatabaseURI    string        `env:"DATABASE_URI"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
	CartOrdering   string        `env:"CART_ORDERING"`
	LogLevel       string        `env:"LOG_LEVEL"`
}

// Parse считывает конфигурацию из файла .env, флагов командной строки и переменных окружения.
// Переменные окружения имеют приоритет над флагами.
func Parse() (*Config, error) {
	// .env необязателен
	_ = godotenv.Load()

	var fromEnv Config
	if err := env.Parse(&fromEnv); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	cfg := &Config{}

	flag.StringVar(&cfg.RunAddress, "a", defaultRunAddress, "address and port for HTTP server")
	flag.StringVar(&cfg.APIBaseURL, "b", defaultAPIBaseURL, "storefront API base URL")
	flag.StringVar(&cfg.DatabaseURI, "d", "", "database URI for credential storage")
	flag.DurationVar(&cfg.RequestTimeout, "t", defaultRequestTimeout, "API request timeout")
	flag.StringVar(&cfg.CartOrdering, "o", defaultCartOrdering, "cart response ordering: last-resolved or last-issued")
	flag.StringVar(&cfg.LogLevel, "l", defaultLogLevel, "log level")

	flag.Parse()

	if fromEnv.RunAddress != "" {
		cfg.RunAddress = fromEnv.RunAddress
	}
	if fromEnv.APIBaseURL != "" {
		cfg.APIBaseURL = fromEnv.APIBaseURL
	}
	if fromEnv.DatabaseURI != "" {
		cfg.DatabaseURI = fromEnv.DatabaseURI
	}
	if fromEnv.RequestTimeout != 0 {
		cfg.RequestTimeout = fromEnv.RequestTimeout
	}
	if fromEnv.CartOrdering != "" {
		cfg.CartOrdering = fromEnv.CartOrdering
	}
	if fromEnv.LogLevel != "" {
		cfg.LogLevel = fromEnv.LogLevel
	}

	if cfg.RunAddress == "" {
		cfg.RunAddress = defaultRunAddress
	}
	if cfg.RequestTimeout <= 0 {
		return nil, fmt.Errorf("request timeout must be positive, got %s", cfg.RequestTimeout)
	}

	return cfg, nil
}
