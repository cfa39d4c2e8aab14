package configs

import (
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for the application
type Config struct {
	Server   Server
	Database Database
	Auth     Auth
	Email    Email
}

// Server holds HTTP server configuration
type Server struct {
	Port     string
	Env      string
	BasePath string
}

// Database holds database configuration
type Database struct {
	URL string
}

// Auth holds token and session configuration
type Auth struct {
	AccessTokenSecret string
	AccessTokenTTL    time.Duration
	RefreshTokenTTL   time.Duration
	SecureCookies     bool
}

// Email holds outbound email (Resend) configuration
type Email struct {
	APIKey      string
	FromName    string
	FromAddress string
	FrontendURL string
}

// Load loads configuration from environment variables
func Load() *Config {
	env := getEnv("GO_ENV", "development")

	return &Config{
		Server: Server{
			Port:     getEnv("PORT", "8080"),
			Env:      env,
			BasePath: getEnv("BASE_PATH", "/api"),
		},
		Database: Database{
			URL: getEnv("DATABASE_URL", ""),
		},
		Auth: Auth{
			AccessTokenSecret: getEnv("JWT_ACCESS_TOKEN_SECRET", "default-secret-change-in-production"),
			AccessTokenTTL:    getMinutes("ACCESS_TOKEN_TTL_MINUTES", 25*time.Minute),
			RefreshTokenTTL:   getMinutes("REFRESH_TOKEN_TTL_MINUTES", 30*24*time.Hour),
			SecureCookies:     env == "production",
		},
		Email: Email{
			APIKey:      getEnv("RESEND_API_KEY", ""),
			FromName:    getEnv("EMAIL_FROM", "Trade Journal"),
			FromAddress: getEnv("EMAIL_FROM_ADDRESS", "noreply@localhost"),
			FrontendURL: getEnv("FRONTEND_URL", "http://localhost:3000"),
		},
	}
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getMinutes gets a duration env var expressed in whole minutes
func getMinutes(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	minutes, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return time.Duration(minutes) * time.Minute
}
