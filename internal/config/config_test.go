package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/riskibarqy/league-insights/internal/platform/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, EnvDev, cfg.AppEnv)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, "static/images", cfg.StaticImagesDir)
	assert.Equal(t, BlobBackendMemory, cfg.BlobBackend)
	assert.Equal(t, []string{"PL", "PD", "BL1", "SA", "FL1"}, cfg.IngestLeagues)
	assert.Equal(t, "CRON_TZ=UTC 39 2 * * SUN", cfg.IngestSchedule)
	assert.Equal(t, 1, cfg.IngestMaxWorkers)
	assert.Equal(t, 0, cfg.FootballDataMaxRetries)
	assert.True(t, cfg.FootballDataCircuit.Enabled)
	assert.Equal(t, "https://api.football-data.org/v4", cfg.FootballDataBaseURL)
	assert.Equal(t, logging.LevelInfo, cfg.LogLevel)
	assert.False(t, cfg.DBEnabled)
}

func TestLoad_AppEnvValidation(t *testing.T) {
	t.Setenv("APP_ENV", "invalid")
	_, err := Load()
	require.Error(t, err)
}

func TestLoad_UptraceRequiresDSNWhenEnabled(t *testing.T) {
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", "")

	_, err := Load()
	require.Error(t, err)
}

func TestLoad_UptraceDSNFromOTLPHeaders(t *testing.T) {
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", "foo=bar, uptrace-dsn='https://token@api.uptrace.dev/1'")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "https://token@api.uptrace.dev/1", cfg.UptraceDSN)
}

func TestLoad_BlobBackendValidation(t *testing.T) {
	t.Run("unknown backend", func(t *testing.T) {
		t.Setenv("BLOB_BACKEND", "gcs")
		_, err := Load()
		require.Error(t, err)
	})

	t.Run("s3 requires bucket", func(t *testing.T) {
		t.Setenv("BLOB_BACKEND", "s3")
		t.Setenv("S3_BUCKET", "")
		_, err := Load()
		require.Error(t, err)
	})

	t.Run("s3 parsed", func(t *testing.T) {
		t.Setenv("BLOB_BACKEND", "S3")
		t.Setenv("S3_BUCKET", "football-snapshots")
		t.Setenv("S3_ENDPOINT", "http://localhost:9000")
		t.Setenv("S3_USE_PATH_STYLE", "true")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, BlobBackendS3, cfg.BlobBackend)
		assert.Equal(t, "football-snapshots", cfg.S3Bucket)
		assert.True(t, cfg.S3UsePathStyle)
	})
}

func TestLoad_IngestionSettings(t *testing.T) {
	t.Setenv("INGEST_LEAGUES", " pl, bl1 ,PL,, sa ")
	t.Setenv("INGEST_MAX_WORKERS", "3")
	t.Setenv("INGEST_LEAGUE_TIMEOUT", "10s")
	t.Setenv("FOOTBALLDATA_CIRCUIT_FAILURE_COUNT", "4")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"PL", "BL1", "SA"}, cfg.IngestLeagues)
	assert.Equal(t, 3, cfg.IngestMaxWorkers)
	assert.Equal(t, 10*time.Second, cfg.IngestLeagueTimeout)
	assert.Equal(t, 4, cfg.FootballDataCircuit.FailureThreshold)
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"INGEST_LEAGUES":           "PL,premier-league",
		"INGEST_MAX_WORKERS":       "0",
		"FOOTBALLDATA_MAX_RETRIES": "-1",
		"FOOTBALLDATA_TIMEOUT":     "0s",
		"CACHE_TTL":                "soon",
		"CORS_ALLOWED_ORIGINS":     " , ",
		"DB_ENABLED":               "maybe",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			_, err := Load()
			require.Error(t, err)
		})
	}
}

func TestLoadDotEnv_DoesNotOverrideEnvironment(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("INGEST_LEAGUES=SA\nAPP_HTTP_ADDR=:9999\n"), 0o644))
	t.Chdir(dir)
	t.Setenv("INGEST_LEAGUES", "PL,BL1")
	t.Setenv("APP_HTTP_ADDR", "")
	require.NoError(t, os.Unsetenv("APP_HTTP_ADDR"))

	path, ok := LoadDotEnv()
	require.True(t, ok)
	assert.Equal(t, ".env", path)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"PL", "BL1"}, cfg.IngestLeagues)
	assert.Equal(t, ":9999", cfg.HTTPAddr)
}
