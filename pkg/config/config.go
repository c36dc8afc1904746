package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
)

// DefaultAllowedOrigins are the front-end origins permitted by the CORS policy
// when CORS_ALLOW_ORIGINS is not set.
var DefaultAllowedOrigins = []string{
	"http://localhost:5173",
	"http://127.0.0.1:5173",
	"https://path-7lc.pages.dev",
}

// Config holds the runtime configuration for the achievements relay.
type Config struct {
	ServiceName        string
	ServiceDisplayName string
	Env                string
	LogLevel           string

	Host             string
	Port             int
	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration

	AllowedOrigins []string

	// SteamAPIKey is the server-held Web API key. When empty, SteamAPIKeySecret may
	// name an AWS Secrets Manager secret holding it under "api_key".
	SteamAPIKey       string
	SteamAPIKeySecret string
	AWSRegion         string

	SteamBaseURL string
	SteamAppID   string
	SteamTimeout time.Duration
}

// Addr returns the host:port the HTTP server binds to.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Load loads configuration from environment variables and optional .env file.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		ServiceName:        GetEnv("SERVICE_NAME", "achievements-relay"),
		ServiceDisplayName: GetEnv("SERVICE_DISPLAY_NAME", "Witcher Command Center Backend"),
		Env:                GetEnv("ENV", "dev"),
		LogLevel:           GetEnv("LOG_LEVEL", "info"),
		Host:               GetEnv("HOST", "0.0.0.0"),
		Port:               GetEnvInt("PORT", 8000),
		HTTPReadTimeout:    GetEnvDuration("HTTP_READ_TIMEOUT", 10*time.Second),
		HTTPWriteTimeout:   GetEnvDuration("HTTP_WRITE_TIMEOUT", 10*time.Second),
		HTTPIdleTimeout:    GetEnvDuration("HTTP_IDLE_TIMEOUT", 60*time.Second),
		AllowedOrigins:     GetEnvList("CORS_ALLOW_ORIGINS", DefaultAllowedOrigins),
		SteamAPIKey:        GetEnv("STEAM_API_KEY", ""),
		SteamAPIKeySecret:  GetEnv("STEAM_API_KEY_SECRET", ""),
		AWSRegion:          GetEnv("AWS_REGION", "us-east-2"),
		SteamBaseURL:       GetEnv("STEAM_API_BASE_URL", "http://api.steampowered.com"),
		SteamAppID:         GetEnv("STEAM_APP_ID", "292030"),
		SteamTimeout:       GetEnvDuration("STEAM_API_TIMEOUT", 5*time.Second),
	}
}
