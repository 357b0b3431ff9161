package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/vytor/factflash/internal/logger"
)

type Config struct {
	Addr                  string
	DBPath                string
	LogLevel              string
	DefaultBatchSize      int
	MaxBatchSize          int
	RequestTimeoutSeconds int
	MetricsEnabled        bool
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying sensible defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	return Config{
		Addr:                  envOr("ADDR", ":8080"),
		DBPath:                envOr("DB_PATH", "file:factflash.db"),
		LogLevel:              envOr("LOG_LEVEL", "INFO"),
		DefaultBatchSize:      envIntOr("DEFAULT_BATCH_SIZE", 10),
		MaxBatchSize:          envIntOr("MAX_BATCH_SIZE", 50),
		RequestTimeoutSeconds: envIntOr("REQUEST_TIMEOUT_SECONDS", 15),
		MetricsEnabled:        envBoolOr("METRICS_ENABLED", true),
	}
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Addr) == "" {
		errs = append(errs, errors.New("ADDR cannot be empty"))
	}
	if strings.TrimSpace(c.DBPath) == "" {
		errs = append(errs, errors.New("DB_PATH cannot be empty"))
	}
	if _, ok := logger.LookupLevel(c.LogLevel); !ok {
		errs = append(errs, fmt.Errorf("LOG_LEVEL must be one of DEBUG, INFO, WARN, ERROR (got %q)", c.LogLevel))
	}
	if c.DefaultBatchSize <= 0 {
		errs = append(errs, fmt.Errorf("DEFAULT_BATCH_SIZE must be positive (got %d)", c.DefaultBatchSize))
	}
	if c.MaxBatchSize <= 0 {
		errs = append(errs, fmt.Errorf("MAX_BATCH_SIZE must be positive (got %d)", c.MaxBatchSize))
	} else if c.DefaultBatchSize > c.MaxBatchSize {
		errs = append(errs, fmt.Errorf("DEFAULT_BATCH_SIZE (%d) cannot exceed MAX_BATCH_SIZE (%d)", c.DefaultBatchSize, c.MaxBatchSize))
	}
	if c.RequestTimeoutSeconds <= 0 {
		errs = append(errs, fmt.Errorf("REQUEST_TIMEOUT_SECONDS must be positive (got %d)", c.RequestTimeoutSeconds))
	}
	return errors.Join(errs...)
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}

func envBoolOr(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
		log.Printf("invalid value for %s=%q, using default %t", key, v, def)
	}
	return def
}
