package config

import (
	"log/slog"
	"os"
	"time"
)

// insecureFallbackSecret signs tokens when JWT_SECRET is unset. Known
// gap carried over from the original deployment: fine for local
// development, refused outright in production.
const insecureFallbackSecret = "default_secret_change_in_production"

type Config struct {
	Port        string
	Env         string
	DatabaseDSN string
	JWTSecret   string
	JWTExpiry   time.Duration
}

func Load() Config {
	cfg := Config{
		Port:        getEnv("PORT", "8080"),
		Env:         getEnv("ENV", "development"),
		DatabaseDSN: getEnv("DATABASE_DSN", "root:password@tcp(127.0.0.1:3306)/bloghub?parseTime=true"),
		JWTSecret:   getEnv("JWT_SECRET", insecureFallbackSecret),
		JWTExpiry:   getDurationEnv("JWT_EXPIRY", 30*24*time.Hour),
	}

	if cfg.Env == "production" && cfg.JWTSecret == insecureFallbackSecret {
		slog.Error("JWT_SECRET must be set in production environment")
		os.Exit(1)
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("invalid duration in environment, using default", "key", key, "value", v)
		return fallback
	}
	return d
}
