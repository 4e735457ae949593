// Package config loads runtime configuration from the environment.
package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	DatabaseURL    string
	Port           string
	AllowedOrigins string

	// Scraping
	ScrapeInterval string
	MaxRetries     int
	RetryBaseDelay time.Duration
	RetryBackoff   float64

	// Alerts
	DiscordWebhookURL string
	SendGridAPIKey    string
	AlertEmailFrom    string
	AlertEmailTo      string

	// API
	RateLimitPerSecond float64
}

// Load reads the configuration from environment variables, applying defaults
// for everything except the database URL.
func Load() *Config {
	return &Config{
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		Port:           getEnv("PORT", "8080"),
		AllowedOrigins: getEnv("ALLOWED_ORIGINS", "*"),

		ScrapeInterval: getEnv("SCRAPE_INTERVAL", "@every 5m"),
		MaxRetries:     getEnvInt("SCRAPE_MAX_RETRIES", 3),
		RetryBaseDelay: getEnvDuration("SCRAPE_RETRY_BASE_DELAY", 2*time.Second),
		RetryBackoff:   getEnvFloat("SCRAPE_RETRY_BACKOFF", 2.0),

		DiscordWebhookURL: os.Getenv("DISCORD_WEBHOOK_URL"),
		SendGridAPIKey:    os.Getenv("SENDGRID_API_KEY"),
		AlertEmailFrom:    os.Getenv("ALERT_EMAIL_FROM"),
		AlertEmailTo:      os.Getenv("ALERT_EMAIL_TO"),

		RateLimitPerSecond: getEnvFloat("RATE_LIMIT_PER_SECOND", 10),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
