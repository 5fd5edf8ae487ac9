package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

const (
	defaultListenAddr   = ":8080"
	defaultJWTSecret    = "change-me-jwt-secret"
	defaultJWTAccessTTL = "24h"
	defaultDatabaseURL  = "buildtrack.db"
	defaultTrackingTTL  = "30s"
	defaultPublicBase   = "http://localhost:8080"
)

type Config struct {
	AppEnv      string
	ListenAddr  string
	DatabaseURL string

	JWTSecret    string
	JWTAccessTTL time.Duration

	// RedisAddr empty disables the tracking cache.
	RedisAddr     string
	RedisPassword string
	TrackingTTL   time.Duration

	// PublicBaseURL is used to build customer tracking links.
	PublicBaseURL string
}

func Load() (*Config, error) {
	cfg := &Config{}

	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = "dev"
	}
	cfg.AppEnv = strings.ToLower(appEnv)

	cfg.ListenAddr = getEnv("LISTEN_ADDR", defaultListenAddr)
	cfg.DatabaseURL = getEnv("DATABASE_URL", defaultDatabaseURL)
	cfg.JWTSecret = strings.TrimSpace(getEnv("JWT_SECRET", defaultJWTSecret))
	cfg.RedisAddr = strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	cfg.RedisPassword = os.Getenv("REDIS_PASSWORD")
	cfg.PublicBaseURL = strings.TrimRight(getEnv("PUBLIC_BASE_URL", defaultPublicBase), "/")

	var err error
	cfg.JWTAccessTTL, err = parseDurationEnv("JWT_ACCESS_TTL", defaultJWTAccessTTL)
	if err != nil {
		return nil, err
	}
	cfg.TrackingTTL, err = parseDurationEnv("TRACKING_CACHE_TTL", defaultTrackingTTL)
	if err != nil {
		return nil, err
	}

	if cfg.AppEnv == "prod" && cfg.JWTSecret == defaultJWTSecret {
		return nil, fmt.Errorf("JWT_SECRET must be set in prod")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseDurationEnv(key, fallback string) (time.Duration, error) {
	raw := getEnv(key, fallback)
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
