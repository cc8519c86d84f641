package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	DBUrl       string
	JWTSecret   string
	FrontendURL string
	// Blob storage configuration
	BlobBackend        string // "local" or "s3"
	UploadDir          string // local backend root directory
	S3AccessKeyID      string
	S3SecretAccessKey  string
	S3Region           string
	S3Bucket           string
	S3Endpoint         string // custom endpoint for S3-compatible providers
	BlobTimeoutSeconds int    // ceiling for a single blob store call
	// Upload limits
	MaxUploadBytes       int64
	UploadsPerMinPerIP   int
	UploadsPerDayPerUser int
	// Redis configuration (upload rate limiting)
	RedisURL      string
	RedisPassword string
}

const defaultMaxUploadBytes = 5 << 20 // 5 MiB, rejected before any storage write

func LoadConfig() (*Config, error) {
	// Only effective locally; ignored in production when the file is absent.
	_ = godotenv.Load()

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		DBUrl:       getEnv("DATABASE_URL", ""),
		JWTSecret:   getEnv("JWT_SECRET", ""),
		FrontendURL: strings.TrimRight(getEnv("FRONTEND_URL", "http://localhost:3000"), "/"),

		BlobBackend:        getEnv("BLOB_BACKEND", "local"),
		UploadDir:          getEnv("UPLOAD_DIR", "./uploads"),
		S3AccessKeyID:      getEnv("S3_ACCESS_KEY_ID", ""),
		S3SecretAccessKey:  getEnv("S3_SECRET_ACCESS_KEY", ""),
		S3Region:           getEnv("S3_REGION", ""),
		S3Bucket:           getEnv("S3_BUCKET", ""),
		S3Endpoint:         getEnv("S3_ENDPOINT", ""),
		BlobTimeoutSeconds: getEnvInt("BLOB_TIMEOUT_SECONDS", 15),

		MaxUploadBytes:       getEnvInt64("MAX_UPLOAD_BYTES", defaultMaxUploadBytes),
		UploadsPerMinPerIP:   getEnvInt("UPLOADS_PER_MIN_PER_IP", 10),
		UploadsPerDayPerUser: getEnvInt("UPLOADS_PER_DAY_PER_USER", 50),

		RedisURL:      getEnv("REDIS_URL", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
	}

	if cfg.DBUrl == "" {
		log.Println("WARNING: DATABASE_URL is missing. Application may fail to connect.")
	}
	if cfg.JWTSecret == "" {
		log.Println("WARNING: JWT_SECRET is missing. Authenticated routes will reject all tokens.")
	}
	if cfg.RedisURL == "" {
		log.Println("WARNING: REDIS_URL not configured. Upload rate limiting is disabled.")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvInt returns an integer environment variable or fallback if not set/invalid
func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

// getEnvInt64 returns an int64 environment variable or fallback if not set/invalid
func getEnvInt64(key string, fallback int64) int64 {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return fallback
}
