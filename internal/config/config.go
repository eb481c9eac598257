// Package config handles loading application configuration from environment variables.
// All settings have sensible defaults for local development except the
// external credentials, which stay empty until configured.
package config

import (
	"os"
	"strconv"
	"strings"
)

// Config holds all application settings loaded from environment variables.
type Config struct {
	Port                string
	PublicBaseURL       string
	OpenAIAPIKey        string
	OpenAIModel         string
	SpotifyClientID     string
	SpotifyClientSecret string
	SpotifyRedirectURI  string
	StateSecret         string
	SecureCookies       bool
	RateLimitPerMinute  int
	CORSAllowedOrigins  []string
	SentryDSN           string
	SentryDSNFrontend   string
	SentryEnvironment   string
}

// Load reads configuration from environment variables, using defaults where not set.
func Load() *Config {
	baseURL := getEnv("PUBLIC_BASE_URL", "http://localhost:"+getEnv("PORT", "8080"))

	return &Config{
		Port:                getEnv("PORT", "8080"),
		PublicBaseURL:       baseURL,
		OpenAIAPIKey:        getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:         getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		SpotifyClientID:     getEnv("SPOTIFY_CLIENT_ID", ""),
		SpotifyClientSecret: getEnv("SPOTIFY_CLIENT_SECRET", ""),
		SpotifyRedirectURI:  getEnv("SPOTIFY_REDIRECT_URI", baseURL+"/api/spotify/callback"),
		StateSecret:         getEnv("STATE_SECRET", "change-me-in-production"), // #nosec G101 -- intentional dev default
		SecureCookies:       getBoolEnv("SECURE_COOKIES", false),
		RateLimitPerMinute:  getIntEnv("RATE_LIMIT_PER_MINUTE", 10),
		CORSAllowedOrigins:  getStringSliceEnv("CORS_ALLOWED_ORIGINS"),
		SentryDSN:           getEnv("SENTRY_DSN", ""),
		SentryDSNFrontend:   getEnv("SENTRY_DSN_FRONTEND", ""),
		SentryEnvironment:   getEnv("SENTRY_ENVIRONMENT", "production"),
	}
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

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
