package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Addr        string
	RedisURL    string
	DatabaseURL string
	TokenSecret string
	TokenTTL    time.Duration
	HistoryDir  string
	CORSOrigin  string
	MeiliURL    string
	MeiliKey    string
	// MinIO Configuration
	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool
	// SMTP Configuration
	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string
	SMTPFromName string
	ContactTo    string
}

func Load() Config {
	return Config{
		Addr:        getenv("API_ADDR", ":8791"),
		RedisURL:    getenv("REDIS_URL", "redis://localhost:6379/0"),
		DatabaseURL: getenv("DATABASE_URL", ""),
		TokenSecret: getenv("CI_TOKEN_SECRET", "connectideas-dev-secret"),
		TokenTTL:    time.Duration(getenvInt("CI_TOKEN_TTL_SECONDS", 86400)) * time.Second,
		HistoryDir:  getenv("CI_HISTORY_DIR", "./data/history"),
		CORSOrigin:  getenv("CI_CORS_ORIGIN", "*"),
		MeiliURL:    getenv("MEILI_URL", ""),
		MeiliKey:    getenv("MEILI_MASTER_KEY", ""),
		// MinIO - empty by default, image offload disabled if not configured
		MinioEndpoint:  getenv("MINIO_ENDPOINT", ""),
		MinioAccessKey: getenv("MINIO_ACCESS_KEY", ""),
		MinioSecretKey: getenv("MINIO_SECRET_KEY", ""),
		MinioBucket:    getenv("MINIO_BUCKET", "connectideas-images"),
		MinioUseSSL:    getenvBool("MINIO_USE_SSL", false),
		// SMTP - empty by default, contact relay disabled if not configured
		SMTPHost:     getenv("SMTP_HOST", ""),
		SMTPPort:     getenv("SMTP_PORT", "587"),
		SMTPUsername: getenv("SMTP_USERNAME", ""),
		SMTPPassword: getenv("SMTP_PASSWORD", ""),
		SMTPFrom:     getenv("SMTP_FROM", ""),
		SMTPFromName: getenv("SMTP_FROM_NAME", "Connect Ideas"),
		ContactTo:    getenv("CI_CONTACT_TO", ""),
	}
}

func getenv(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getenvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getenvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}
