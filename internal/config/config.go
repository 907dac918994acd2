package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all process-wide settings. It is built once at startup and
// passed down explicitly; nothing mutates it afterwards.
type Config struct {
	// Catalog store (hosted Postgres).
	DatabaseDSN string

	// Artifact store (S3-compatible object storage).
	MinIOEndpoint  string
	MinIOAccessKey string
	MinIOSecretKey string
	MinIOBucket    string
	MinIOUseSSL    bool
	// Optional base URL for public object links (e.g. a CDN host). When
	// empty, links are built from the endpoint.
	MinIOPublicURL string

	// Optional generator credential. Absence is a supported state: the
	// deterministic fallback generator is used instead.
	GeminiAPIKey string
	// Reserved for a real narration synthesizer. Recognized but unused by
	// the placeholder audio path.
	TTSAPIKey string

	HTTPPort string
	LogLevel string
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	cfg := &Config{
		DatabaseDSN:    getEnv("DATABASE_DSN", ""),
		MinIOEndpoint:  getEnv("MINIO_ENDPOINT", ""),
		MinIOAccessKey: getEnv("MINIO_ACCESS_KEY", ""),
		MinIOSecretKey: getEnv("MINIO_SECRET_KEY", ""),
		MinIOBucket:    getEnv("MINIO_BUCKET", "noteshub-resources"),
		MinIOUseSSL:    getEnvAsBool("MINIO_USE_SSL", false),
		MinIOPublicURL: getEnv("MINIO_PUBLIC_URL", ""),
		GeminiAPIKey:   getEnv("GEMINI_API_KEY", ""),
		TTSAPIKey:      getEnv("TTS_API_KEY", ""),
		HTTPPort:       getEnv("HTTP_PORT", "8080"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
	}

	// The store endpoint/credential pairs are the only mandatory settings;
	// everything beyond static rendering depends on them.
	if cfg.DatabaseDSN == "" {
		return nil, fmt.Errorf("DATABASE_DSN environment variable is required")
	}
	if cfg.MinIOEndpoint == "" || cfg.MinIOAccessKey == "" || cfg.MinIOSecretKey == "" {
		return nil, fmt.Errorf("MINIO_ENDPOINT, MINIO_ACCESS_KEY and MINIO_SECRET_KEY are required")
	}

	return cfg, nil
}

func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value, err := strconv.ParseBool(getEnv(key, "")); err == nil {
		return value
	}
	return defaultValue
}
