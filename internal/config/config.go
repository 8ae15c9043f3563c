// Package config provides configuration management for the application.
package config

import (
	"os"
	"strconv"
)

// DefaultMaxUploadBytes is the upload size ceiling (5 MiB).
const DefaultMaxUploadBytes = 5 * 1024 * 1024

// Config holds all configuration for the application.
type Config struct {
	// Server configuration
	ServerPort string

	// Path of the JSON store document
	DataFile string

	// Directory holding uploaded image binaries
	UploadsDir string

	// Directory holding the static client shell
	PublicDir string

	// Redis configuration; empty disables caching
	RedisURL string

	// Upload size ceiling in bytes
	MaxUploadBytes int64

	// Environment
	Environment string
}

// New creates a new Config with values from environment variables or defaults.
func New() *Config {
	return &Config{
		ServerPort:     getEnv("SERVER_PORT", "3000"),
		DataFile:       getEnv("DATA_FILE", "data.json"),
		UploadsDir:     getEnv("UPLOADS_DIR", "uploads"),
		PublicDir:      getEnv("PUBLIC_DIR", "web"),
		RedisURL:       getEnv("REDIS_URL", ""),
		MaxUploadBytes: getEnvInt64("MAX_UPLOAD_BYTES", DefaultMaxUploadBytes),
		Environment:    getEnv("ENVIRONMENT", "development"),
	}
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}
