// Package config loads and validates application configuration from an
// optional YAML file and environment variables. Environment variables win.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Supported values for Config.DBDriver.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config holds all configuration values for the API server.
// Values are populated by Load.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8080".
	Port string `yaml:"port"`

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string `yaml:"log_level"`

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Defaults to ["http://localhost:5173"] (Vite dev server).
	// Set CORS_ORIGINS to a comma-separated list to override.
	CORSOrigins []string `yaml:"cors_origins"`

	// DBDriver selects the storage engine: "sqlite" (default) or "postgres".
	DBDriver string `yaml:"db_driver"`

	// DBPath is the SQLite database file. Defaults to "tripstore.db".
	DBPath string `yaml:"db_path"`

	// DatabaseURL is the Postgres connection string. Required for postgres.
	DatabaseURL string `yaml:"database_url"`

	// MetricsEnabled exposes Prometheus metrics on /metrics. Defaults to true.
	MetricsEnabled bool `yaml:"metrics_enabled"`

	// MaxBodyBytes caps request body size. Defaults to 1 MiB.
	MaxBodyBytes int64 `yaml:"max_body_bytes"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		Port:           "8080",
		LogLevel:       "info",
		CORSOrigins:    []string{"http://localhost:5173"},
		DBDriver:       DriverSQLite,
		DBPath:         "tripstore.db",
		MetricsEnabled: true,
		MaxBodyBytes:   1 << 20,
	}
}

// Load builds a Config from defaults, then the YAML file named by
// TRIPSTORE_CONFIG (if set), then environment variables.
// Returns an error listing every invalid or missing value.
func Load() (Config, error) {
	cfg := Default()

	if path := os.Getenv("TRIPSTORE_CONFIG"); path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	var problems []string

	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		cfg.CORSOrigins = splitCSV(v)
	}
	cfg.DBDriver = strings.ToLower(getEnv("DB_DRIVER", cfg.DBDriver))
	cfg.DBPath = getEnv("DB_PATH", cfg.DBPath)
	cfg.DatabaseURL = getEnv("DATABASE_URL", cfg.DatabaseURL)

	if v := os.Getenv("METRICS_ENABLED"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			problems = append(problems, fmt.Sprintf("METRICS_ENABLED: %q is not a boolean", v))
		}
		cfg.MetricsEnabled = b
	}
	if v := os.Getenv("MAX_BODY_BYTES"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			problems = append(problems, fmt.Sprintf("MAX_BODY_BYTES: %q is not an integer", v))
		}
		cfg.MaxBodyBytes = n
	}

	switch cfg.DBDriver {
	case DriverSQLite:
		if cfg.DBPath == "" {
			problems = append(problems, "DB_PATH is required for the sqlite driver")
		}
	case DriverPostgres:
		if cfg.DatabaseURL == "" {
			problems = append(problems, "DATABASE_URL is required for the postgres driver")
		}
	default:
		problems = append(problems, fmt.Sprintf("DB_DRIVER: %q is not sqlite or postgres", cfg.DBDriver))
	}
	if cfg.MaxBodyBytes <= 0 {
		problems = append(problems, "MAX_BODY_BYTES must be positive")
	}

	if len(problems) > 0 {
		return Config{}, errors.New("invalid configuration: " + strings.Join(problems, "; "))
	}
	return cfg, nil
}

// loadFile overlays the YAML file at path onto cfg. Keys absent from the
// file keep their current values.
func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// getEnv returns the value of the environment variable named by key,
// or fallback if the variable is not set or is empty.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
