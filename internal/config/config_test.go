package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

var configVars = []string{
	"PORT",
	"ENGINE_VERSION",
	"MAX_BODY_BYTES",
	"SHUTDOWN_TIMEOUT",
	"LOG_LEVEL",
	"OTEL_SERVICE_NAME",
	"TELEMETRY_ENABLED",
	"OTEL_LOGS_ENABLED",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range configVars {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "v0.1-dev", cfg.EngineVersion)
	assert.Equal(t, int64(2<<20), cfg.MaxBodyBytes)
	assert.Equal(t, 5*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, zapcore.InfoLevel, cfg.LogLevel)
	assert.Equal(t, "bersn-calc", cfg.ServiceName)
	assert.True(t, cfg.Telemetry.Enabled)
	assert.False(t, cfg.Telemetry.LogsEnabled)
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", ":9090")
	t.Setenv("ENGINE_VERSION", "v0.2")
	t.Setenv("MAX_BODY_BYTES", "1024")
	t.Setenv("SHUTDOWN_TIMEOUT", "10s")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("OTEL_SERVICE_NAME", "calc-test")
	t.Setenv("TELEMETRY_ENABLED", "false")
	t.Setenv("OTEL_LOGS_ENABLED", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, "v0.2", cfg.EngineVersion)
	assert.Equal(t, int64(1024), cfg.MaxBodyBytes)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, zapcore.DebugLevel, cfg.LogLevel)
	assert.Equal(t, "calc-test", cfg.ServiceName)
	assert.False(t, cfg.Telemetry.Enabled)
	assert.True(t, cfg.Telemetry.LogsEnabled)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := map[string]string{
		"PORT":              "http",
		"MAX_BODY_BYTES":    "-1",
		"SHUTDOWN_TIMEOUT":  "soon",
		"LOG_LEVEL":         "loud",
		"TELEMETRY_ENABLED": "maybe",
	}

	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(key, value)

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), key)
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	t.Setenv("ENGINE_VERSION", "from-process")
	os.Unsetenv("BERSN_DOTENV_PROBE")
	t.Cleanup(func() { os.Unsetenv("BERSN_DOTENV_PROBE") })

	path := filepath.Join(t.TempDir(), "test.env")
	content := "ENGINE_VERSION=from-file\nBERSN_DOTENV_PROBE=from-file\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	require.NoError(t, LoadDotEnv(path))

	assert.Equal(t, "from-process", os.Getenv("ENGINE_VERSION"))
	assert.Equal(t, "from-file", os.Getenv("BERSN_DOTENV_PROBE"))
}

func TestLoadDotEnvMissingFileIsIgnored(t *testing.T) {
	require.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), "absent.env")))
}
