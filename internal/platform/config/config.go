package config

import (
	"os"
	"strings"
	"time"
)

// Server captures process-level configuration. Values come from the
// environment so main stays lean.
type Server struct {
	Addr          string
	JWTSigningKey string

	// AdminSlackIDs is the set of Slack IDs granted admin scope. Read-only
	// after startup.
	AdminSlackIDs []string

	// OpsTokenHash is the bcrypt hash guarding the session-token mint
	// endpoint. Empty disables the endpoint.
	OpsTokenHash string

	Airbridge AirbridgeConfig
	Slack     SlackConfig
	Redis     RedisConfig

	LogLevel  string
	LogFormat string
}

// AirbridgeConfig points at the spreadsheet-backed upstream API.
type AirbridgeConfig struct {
	BaseURL  string
	BaseName string
	APIKey   string
	Timeout  time.Duration
}

// SlackConfig holds the optional grant-notification webhook.
type SlackConfig struct {
	WebhookURL string
	Timeout    time.Duration
}

// RedisConfig holds cooldown-store connection settings. Empty URL means the
// in-memory store is used instead.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// FromEnv builds a Server config from environment variables.
func FromEnv() Server {
	addr := os.Getenv("BOBADASH_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		// Development default - must be overridden in production.
		jwtSigningKey = "dev-secret-key-change-in-production"
	}

	var adminIDs []string
	for _, id := range strings.Split(os.Getenv("ADMIN_SLACK_IDS"), ",") {
		if id = strings.TrimSpace(id); id != "" {
			adminIDs = append(adminIDs, id)
		}
	}

	airbridgeBase := os.Getenv("AIRBRIDGE_BASE_URL")
	if airbridgeBase == "" {
		airbridgeBase = "https://airbridge.hackclub.com/v0.2"
	}
	airbridgeName := os.Getenv("AIRBRIDGE_BASE_NAME")
	if airbridgeName == "" {
		airbridgeName = "Boba Club Dashboard"
	}

	return Server{
		Addr:          addr,
		JWTSigningKey: jwtSigningKey,
		AdminSlackIDs: adminIDs,
		OpsTokenHash:  os.Getenv("OPS_TOKEN_HASH"),
		Airbridge: AirbridgeConfig{
			BaseURL:  airbridgeBase,
			BaseName: airbridgeName,
			APIKey:   os.Getenv("AIRBRIDGE_API_KEY"),
			Timeout:  durationFromEnv("UPSTREAM_TIMEOUT", 8*time.Second),
		},
		Slack: SlackConfig{
			WebhookURL: os.Getenv("SLACK_WEBHOOK_URL"),
			Timeout:    durationFromEnv("SLACK_TIMEOUT", 8*time.Second),
		},
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     10,
			MinIdleConns: 2,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
		LogLevel:  envOr("LOG_LEVEL", "info"),
		LogFormat: envOr("LOG_FORMAT", "json"),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func durationFromEnv(key string, fallback time.Duration) time.Duration {
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
