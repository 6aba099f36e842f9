package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pkordes/tripstore/internal/config"
)

// clearEnv blanks every variable Load reads so the host environment cannot
// leak into a test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"TRIPSTORE_CONFIG", "PORT", "LOG_LEVEL", "CORS_ORIGINS", "DB_DRIVER",
		"DB_PATH", "DATABASE_URL", "METRICS_ENABLED", "MAX_BODY_BYTES",
	} {
		t.Setenv(k, "")
	}
}

// TestLoad_defaults verifies that with nothing set the server runs on a local
// SQLite file with metrics on.
func TestLoad_defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := config.Load()

	require.NoError(t, err)
	require.Equal(t, config.Default(), cfg)
	require.Equal(t, "8080", cfg.Port)
	require.Equal(t, "info", cfg.LogLevel)
	require.Equal(t, config.DriverSQLite, cfg.DBDriver)
	require.Equal(t, "tripstore.db", cfg.DBPath)
	require.True(t, cfg.MetricsEnabled)
	require.Equal(t, []string{"http://localhost:5173"}, cfg.CORSOrigins)
}

// TestLoad_overrides verifies that all values can be overridden via env vars.
func TestLoad_overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("DB_DRIVER", "Postgres")
	t.Setenv("DATABASE_URL", "postgres://user:pass@db:5432/trips")
	t.Setenv("PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("CORS_ORIGINS", "https://app.example.com, https://admin.example.com")
	t.Setenv("METRICS_ENABLED", "false")
	t.Setenv("MAX_BODY_BYTES", "4096")

	cfg, err := config.Load()

	require.NoError(t, err)
	require.Equal(t, "9090", cfg.Port)
	require.Equal(t, "debug", cfg.LogLevel)
	require.Equal(t, config.DriverPostgres, cfg.DBDriver)
	require.Equal(t, "postgres://user:pass@db:5432/trips", cfg.DatabaseURL)
	require.Equal(t, []string{"https://app.example.com", "https://admin.example.com"}, cfg.CORSOrigins)
	require.False(t, cfg.MetricsEnabled)
	require.Equal(t, int64(4096), cfg.MaxBodyBytes)
}

// TestLoad_missingRequired verifies that the postgres driver needs
// DATABASE_URL and that the error names the missing variable.
func TestLoad_missingRequired(t *testing.T) {
	clearEnv(t)
	t.Setenv("DB_DRIVER", "postgres")

	_, err := config.Load()

	require.ErrorContains(t, err, "DATABASE_URL")
}

// TestLoad_reportsEveryProblem verifies that one error lists all bad values.
func TestLoad_reportsEveryProblem(t *testing.T) {
	clearEnv(t)
	t.Setenv("DB_DRIVER", "mysql")
	t.Setenv("METRICS_ENABLED", "sometimes")

	_, err := config.Load()

	require.Error(t, err)
	require.ErrorContains(t, err, "DB_DRIVER")
	require.ErrorContains(t, err, "METRICS_ENABLED")
}

// TestLoad_yamlFileWithEnvOverride verifies the file supplies base values and
// the environment still wins.
func TestLoad_yamlFileWithEnvOverride(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "tripstore.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
port: "7070"
db_path: /var/lib/tripstore/data.db
metrics_enabled: false
cors_origins:
  - https://trips.example.com
`), 0o600))
	t.Setenv("TRIPSTORE_CONFIG", path)
	t.Setenv("PORT", "6060")

	cfg, err := config.Load()

	require.NoError(t, err)
	require.Equal(t, "6060", cfg.Port)
	require.Equal(t, "/var/lib/tripstore/data.db", cfg.DBPath)
	require.False(t, cfg.MetricsEnabled)
	require.Equal(t, []string{"https://trips.example.com"}, cfg.CORSOrigins)
	require.Equal(t, "info", cfg.LogLevel, "keys absent from the file keep their defaults")
}

// TestLoad_badYAML verifies that an unreadable file is a load error.
func TestLoad_badYAML(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("port: [unterminated"), 0o600))
	t.Setenv("TRIPSTORE_CONFIG", path)

	_, err := config.Load()

	require.ErrorContains(t, err, "parse config")
}
