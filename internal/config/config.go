package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// AppConfig holds the complete application configuration.
type AppConfig struct {
	DataPath    string
	LogDir      string
	SnapshotDir string
	Dataset     string
	HTTPAddr    string
	PostgresURL string
	RedisURL    string
	SnapshotTTL time.Duration
}

// Load loads the configuration from .env files and environment variables.
func Load() (*AppConfig, error) {
	// Try the executable's directory first, then the working directory
	// (useful for development / go run).
	if exePath, err := os.Executable(); err == nil {
		envPath := filepath.Join(filepath.Dir(exePath), ".env")
		if err := godotenv.Load(envPath); err == nil {
			log.Debug().Str("path", envPath).Msg("Loaded configuration from binary directory")
		}
	}
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found in working directory, relying on environment variables")
	}

	dataPath := getEnv("DATA_PATH", ".")
	logDir := filepath.Join(dataPath, "logs")
	snapshotDir := filepath.Join(dataPath, "snapshots")

	for _, dir := range []string{logDir, snapshotDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Warn().Err(err).Str("path", dir).Msg("Failed to create data directory")
		}
	}

	ttlSecs, _ := strconv.Atoi(getEnv("SNAPSHOT_TTL_SECONDS", "60"))

	cfg := &AppConfig{
		DataPath:    dataPath,
		LogDir:      logDir,
		SnapshotDir: snapshotDir,
		Dataset:     getEnv("DATASET", "default"),
		HTTPAddr:    getEnv("HTTP_ADDR", ":8080"),
		PostgresURL: getEnv("POSTGRES_URL", ""),
		RedisURL:    getEnv("REDIS_URL", ""),
		SnapshotTTL: time.Duration(ttlSecs) * time.Second,
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
