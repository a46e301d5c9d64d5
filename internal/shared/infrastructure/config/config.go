package config

import (
	"os"
	"strconv"
	"time"

	"github.com/linkme/cardstudio/internal/shared/infrastructure/database"
)

// Config holds all configuration for the application
type Config struct {
	Server      ServerConfig
	Log         LogConfig
	Redis       database.RedisConfig
	Studio      StudioConfig
	Backend     BackendConfig
	FileStorage FileStorageConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port           string
	AllowedOrigins string
}

// LogConfig holds logger configuration
type LogConfig struct {
	Level string
}

// StudioConfig holds card studio session settings
type StudioConfig struct {
	SessionStore  string // memory | redis
	SessionTTL    time.Duration
	PublicBaseURL string
	CopyAckWindow time.Duration
	MaxUploadSize int64
}

// BackendConfig points at the external profile API
type BackendConfig struct {
	BaseURL string
	Timeout time.Duration
}

// FileStorageConfig holds preview blob storage configuration
type FileStorageConfig struct {
	UseS3            bool
	S3Region         string
	S3Endpoint       string
	S3PublicEndpoint string
	S3AccessKey      string
	S3SecretKey      string
	S3BucketName     string
	S3UseSSL         bool
	S3SignedURLTTL   time.Duration
	LocalPath        string
	LocalURL         string
}

// Load reads configuration from environment variables
func Load() Config {
	port := getEnv("PORT", "8080")

	return Config{
		Server: ServerConfig{
			Port:           port,
			AllowedOrigins: getEnv("ALLOWED_ORIGINS", "http://localhost:5173"),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Redis: database.RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       parseInt(getEnv("REDIS_DB", "0"), 0),
		},
		Studio: StudioConfig{
			SessionStore:  getEnv("SESSION_STORE", "memory"),
			SessionTTL:    parseDuration(getEnv("SESSION_TTL", "2h"), 2*time.Hour),
			PublicBaseURL: getEnv("PUBLIC_BASE_URL", "https://linkme.io/"),
			CopyAckWindow: parseDuration(getEnv("COPY_ACK_WINDOW", "2s"), 2*time.Second),
			MaxUploadSize: int64(parseInt(getEnv("MAX_UPLOAD_BYTES", "10485760"), 10<<20)),
		},
		Backend: BackendConfig{
			BaseURL: getEnv("BACKEND_URL", "http://localhost:4000"),
			Timeout: parseDuration(getEnv("BACKEND_TIMEOUT", "10s"), 10*time.Second),
		},
		FileStorage: FileStorageConfig{
			UseS3:            getEnv("USE_S3", "false") == "true",
			S3Region:         getEnv("S3_REGION", "us-east-1"),
			S3Endpoint:       getEnv("S3_ENDPOINT", ""),
			S3PublicEndpoint: getEnv("S3_PUBLIC_ENDPOINT", getEnv("S3_ENDPOINT", "")),
			S3AccessKey:      getEnv("S3_ACCESS_KEY", ""),
			S3SecretKey:      getEnv("S3_SECRET_KEY", ""),
			S3BucketName:     getEnv("S3_BUCKET", ""),
			S3UseSSL:         getEnv("S3_USE_SSL", "true") == "true",
			S3SignedURLTTL:   parseDuration(getEnv("S3_SIGNED_URL_TTL", "0"), 0),
			LocalPath:        getEnv("LOCAL_STORAGE_PATH", "./uploads"),
			LocalURL:         getEnv("LOCAL_STORAGE_URL", "http://localhost:"+port+"/uploads"),
		},
	}
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// parseDuration parses a duration string or returns a default value
func parseDuration(value string, defaultValue time.Duration) time.Duration {
	if duration, err := time.ParseDuration(value); err == nil && duration > 0 {
		return duration
	}
	return defaultValue
}

func parseInt(value string, defaultValue int) int {
	if n, err := strconv.Atoi(value); err == nil {
		return n
	}
	return defaultValue
}
