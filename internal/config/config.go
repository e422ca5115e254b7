package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	SMTP     SMTPConfig
	Upstream UpstreamConfig
	Session  SessionConfig
	FreeTier FreeTierConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	ClientURL          string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
}

type DatabaseConfig struct {
	Connection string
}

type SMTPConfig struct {
	Host       string
	Port       int
	Email      string
	Password   string
	SenderName string
}

type UpstreamConfig struct {
	SearchBaseURL  string
	SearchAPIKey   string
	AssistBaseURL  string
	AssistAPIKey   string
	RequestTimeout int // seconds
}

type SessionConfig struct {
	AutosaveDebounceMs int
	LiveTTLMinutes     int
}

type FreeTierConfig struct {
	SearchLimit int
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			ClientURL:          getEnv("CLIENT_URL", "http://localhost:5173"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		SMTP: SMTPConfig{
			Host:       getEnv("SMTP_HOST", ""),
			Port:       getEnvAsInt("SMTP_PORT", 587),
			Email:      getEnv("SMTP_EMAIL", ""),
			Password:   getEnv("SMTP_PASSWORD", ""),
			SenderName: getEnv("SMTP_SENDER_NAME", "PatentScout"),
		},
		Upstream: UpstreamConfig{
			SearchBaseURL:  getEnv("SEARCH_API_BASE_URL", "http://localhost:8080/api/v1"),
			SearchAPIKey:   getEnv("SEARCH_API_KEY", ""),
			AssistBaseURL:  getEnv("ASSIST_API_BASE_URL", "http://localhost:8081/api/v1"),
			AssistAPIKey:   getEnv("ASSIST_API_KEY", ""),
			RequestTimeout: getEnvAsInt("UPSTREAM_TIMEOUT_SECONDS", 30),
		},
		Session: SessionConfig{
			AutosaveDebounceMs: getEnvAsInt("SESSION_AUTOSAVE_DEBOUNCE_MS", 2000),
			LiveTTLMinutes:     getEnvAsInt("SESSION_LIVE_TTL_MINUTES", 60),
		},
		FreeTier: FreeTierConfig{
			SearchLimit: getEnvAsInt("FREE_TIER_SEARCH_LIMIT", 5),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}
