// Package config handles loading application configuration from environment variables.
// All settings have sensible defaults for local development.
//
// Values are resolved in order: built-in defaults, an optional .env file,
// an optional YAML file named by CONFIG_FILE, then the process environment.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all application settings.
type Config struct {
	Port               string        `yaml:"port"`
	DatabasePath       string        `yaml:"database_path"`
	JWTSecret          string        `yaml:"jwt_secret"`
	TokenDuration      time.Duration `yaml:"token_duration"`
	RateLimitPerMinute int           `yaml:"rate_limit_per_minute"`
	CORSAllowedOrigins []string      `yaml:"cors_origins"`
	TrustedProxies     []string      `yaml:"trusted_proxies"`
	SentryDSN          string        `yaml:"sentry_dsn"`
	SentryEnvironment  string        `yaml:"sentry_environment"`
	HubBufferSize      int           `yaml:"hub_buffer_size"`
	PublicBaseURL      string        `yaml:"public_base_url"`
}

// Default returns the development configuration.
func Default() *Config {
	return &Config{
		Port:               "8080",
		DatabasePath:       "./dancefloor.db",
		JWTSecret:          "change-me-in-production", // #nosec G101 -- intentional dev default
		TokenDuration:      24 * time.Hour,
		RateLimitPerMinute: 30,
		CORSAllowedOrigins: []string{"http://localhost:5173", "http://localhost:3000"},
		SentryEnvironment:  "production",
		HubBufferSize:      64,
		PublicBaseURL:      "http://localhost:5173",
	}
}

// Load reads configuration, using defaults where not set.
func Load() (*Config, error) {
	// A missing .env is normal outside local development.
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found, using environment variables")
	}

	cfg := Default()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.applyFile(path); err != nil {
			return nil, err
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

// applyFile overlays values from a YAML file onto cfg. Keys absent from the
// file keep their current value.
func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.Port = getEnv("PORT", c.Port)
	c.DatabasePath = getEnv("DATABASE_PATH", c.DatabasePath)
	c.JWTSecret = getEnv("JWT_SECRET", c.JWTSecret)
	c.TokenDuration = getDurationEnv("TOKEN_DURATION", c.TokenDuration)
	c.RateLimitPerMinute = getIntEnv("RATE_LIMIT_PER_MINUTE", c.RateLimitPerMinute)
	if origins := getStringSliceEnv("CORS_ORIGINS"); origins != nil {
		c.CORSAllowedOrigins = origins
	}
	if proxies := getStringSliceEnv("TRUSTED_PROXIES"); proxies != nil {
		c.TrustedProxies = proxies
	}
	c.SentryDSN = getEnv("SENTRY_DSN", c.SentryDSN)
	c.SentryEnvironment = getEnv("SENTRY_ENVIRONMENT", c.SentryEnvironment)
	c.HubBufferSize = getIntEnv("HUB_BUFFER_SIZE", c.HubBufferSize)
	c.PublicBaseURL = strings.TrimRight(getEnv("PUBLIC_BASE_URL", c.PublicBaseURL), "/")
}

func getStringSliceEnv(key string) []string {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	var result []string
	for _, s := range strings.Split(value, ",") {
		s = strings.TrimSpace(s)
		if s != "" {
			result = append(result, s)
		}
	}
	return result
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
