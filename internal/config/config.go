package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Port        string
	Env         string
	JWTSecret   string
	OperatorKey string

	RedisAddr string
	RedisPass string
	RedisDB   int

	SignerSeed  string
	PricingPath string
}

func Load() (*Config, error) {
	cfg := &Config{
		Port:        envDefault("PORT", "8080"),
		Env:         envDefault("ENV", "development"),
		JWTSecret:   strings.TrimSpace(os.Getenv("JWT_SECRET")),
		OperatorKey: strings.TrimSpace(os.Getenv("OPERATOR_KEY")),
		RedisAddr:   strings.TrimSpace(os.Getenv("REDIS_ADDR")),
		RedisPass:   os.Getenv("REDIS_PASS"),
		RedisDB:     envIntDefault("REDIS_DB", 0),
		SignerSeed:  strings.TrimSpace(os.Getenv("SIGNER_SEED")),
		PricingPath: strings.TrimSpace(os.Getenv("PRICING_CONFIG")),
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.OperatorKey == "" {
		return nil, fmt.Errorf("OPERATOR_KEY is required")
	}

	return cfg, nil
}

func envDefault(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}

func envIntDefault(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
