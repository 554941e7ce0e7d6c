// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package config handles application configuration loading from environment
// variables. It provides a centralized Config struct used across the application.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration values loaded from the environment.
type Config struct {
	// Server settings
	Host string
	Port string
	Env  string // "development", "production", "testing"

	// PostgreSQL connection
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Valkey (Redis-compatible cache + session store)
	ValkeyHost     string
	ValkeyPort     string
	ValkeyPassword string

	// AI provider settings
	AIProvider        string // "gemini", "groq", "openrouter"
	GeminiKey         string
	GeminiModel       string
	GeminiBaseURL     string
	GroqKey           string
	GroqModel         string
	GroqBaseURL       string
	OpenRouterKey     string
	OpenRouterModel   string
	OpenRouterBaseURL string

	// Headless browser settings
	BrowserPoolSize   int
	BrowserNavTimeout time.Duration
	BrowserUserAgent  string

	// Transactional email (Resend-compatible API)
	ResendKey string
	EmailFrom string

	// Payments provider (signed webhooks + hosted checkout)
	PaymentsAPIKey        string
	PaymentsSigningSecret string
	PaymentsStoreID       string
	PaymentsProVariantID  string

	// Plan usage limits
	FreeChatsPerMonth int
	FreeSendsPerDay   int
	ProChatsPerMonth  int
	ProSendsPerDay    int
}

// Load reads configuration from environment variables, applying defaults
// for development where appropriate. In development a .env file in the
// working directory is loaded first. Returns an error if critical values
// are missing in production mode.
func Load() (*Config, error) {
	if envOrDefault("APP_ENV", "development") == "development" {
		// Best effort — a missing .env is fine.
		_ = godotenv.Load()
	}

	cfg := &Config{
		Host: envOrDefault("APP_HOST", "0.0.0.0"),
		Port: envOrDefault("APP_PORT", "8080"),
		Env:  envOrDefault("APP_ENV", "development"),

		DBHost:     envOrDefault("POSTGRES_HOST", "localhost"),
		DBPort:     envOrDefault("POSTGRES_PORT", "5432"),
		DBUser:     envOrDefault("POSTGRES_USER", "capsule"),
		DBPassword: envOrDefault("POSTGRES_PASSWORD", "changeme"),
		DBName:     envOrDefault("POSTGRES_DB", "capsule"),

		ValkeyHost:     envOrDefault("VALKEY_HOST", "localhost"),
		ValkeyPort:     envOrDefault("VALKEY_PORT", "6379"),
		ValkeyPassword: os.Getenv("VALKEY_PASSWORD"),

		AIProvider:        envOrDefault("AI_PROVIDER", "gemini"),
		GeminiKey:         os.Getenv("GEMINI_API_KEY"),
		GeminiModel:       envOrDefault("GEMINI_MODEL", "gemini-2.5-flash"),
		GeminiBaseURL:     os.Getenv("GEMINI_BASE_URL"),
		GroqKey:           os.Getenv("GROQ_API_KEY"),
		GroqModel:         envOrDefault("GROQ_MODEL", "llama-3.3-70b-versatile"),
		GroqBaseURL:       os.Getenv("GROQ_BASE_URL"),
		OpenRouterKey:     os.Getenv("OPENROUTER_API_KEY"),
		OpenRouterModel:   envOrDefault("OPENROUTER_MODEL", "google/gemini-2.5-flash"),
		OpenRouterBaseURL: os.Getenv("OPENROUTER_BASE_URL"),

		BrowserPoolSize:   envIntOrDefault("BROWSER_POOL_SIZE", 4),
		BrowserNavTimeout: envDurationOrDefault("BROWSER_NAV_TIMEOUT", 20*time.Second),
		BrowserUserAgent: envOrDefault("BROWSER_USER_AGENT",
			"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"),

		ResendKey: os.Getenv("RESEND_API_KEY"),
		EmailFrom: envOrDefault("EMAIL_FROM", "Capsule <hello@capsule.email>"),

		PaymentsAPIKey:        os.Getenv("PAYMENTS_API_KEY"),
		PaymentsSigningSecret: os.Getenv("PAYMENTS_SIGNING_SECRET"),
		PaymentsStoreID:       os.Getenv("PAYMENTS_STORE_ID"),
		PaymentsProVariantID:  os.Getenv("PAYMENTS_PRO_VARIANT_ID"),

		FreeChatsPerMonth: envIntOrDefault("FREE_CHATS_PER_MONTH", 20),
		FreeSendsPerDay:   envIntOrDefault("FREE_SENDS_PER_DAY", 5),
		ProChatsPerMonth:  envIntOrDefault("PRO_CHATS_PER_MONTH", 500),
		ProSendsPerDay:    envIntOrDefault("PRO_SENDS_PER_DAY", 200),
	}

	if cfg.Env == "production" {
		if cfg.DBPassword == "changeme" {
			return nil, fmt.Errorf("POSTGRES_PASSWORD must be set in production")
		}
		if cfg.PaymentsSigningSecret == "" {
			return nil, fmt.Errorf("PAYMENTS_SIGNING_SECRET must be set in production")
		}
	}

	return cfg, nil
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName,
	)
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// envOrDefault reads an environment variable, returning a fallback if unset or empty.
func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// envIntOrDefault reads an integer environment variable, returning a
// fallback if unset or not a valid integer.
func envIntOrDefault(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

// envDurationOrDefault reads a duration environment variable (e.g. "30s"),
// returning a fallback if unset or invalid.
func envDurationOrDefault(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
