// Package config resolves the calculation service settings from the process
// environment, optionally seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap/zapcore"
)

// Defaults applied when the corresponding variable is unset.
const (
	DefaultPort            = "8080"
	DefaultEngineVersion   = "v0.1-dev"
	DefaultMaxBodyBytes    = 2 << 20
	DefaultShutdownTimeout = 5 * time.Second
	DefaultServiceName     = "bersn-calc"
)

type Config struct {
	// Addr is the listen address, always in ":port" form.
	Addr string

	EngineVersion   string
	MaxBodyBytes    int64
	ShutdownTimeout time.Duration
	LogLevel        zapcore.Level
	ServiceName     string

	Telemetry TelemetryConfig
}

// TelemetryConfig toggles the OTLP exporters. The exporters themselves are
// configured through the standard OTEL_EXPORTER_OTLP_* variables.
type TelemetryConfig struct {
	Enabled     bool
	LogsEnabled bool
}

// LoadDotEnv loads variables from the given files (".env" when none are
// given). Missing files are ignored and existing variables are not overridden.
func LoadDotEnv(filenames ...string) error {
	err := godotenv.Load(filenames...)
	if err == nil {
		return nil
	}

	if errors.Is(err, os.ErrNotExist) {
		return nil
	}

	return fmt.Errorf("load .env: %w", err)
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	cfg := &Config{
		Addr:            ":" + DefaultPort,
		EngineVersion:   DefaultEngineVersion,
		MaxBodyBytes:    DefaultMaxBodyBytes,
		ShutdownTimeout: DefaultShutdownTimeout,
		LogLevel:        zapcore.InfoLevel,
		ServiceName:     DefaultServiceName,
		Telemetry: TelemetryConfig{
			Enabled: true,
		},
	}

	if port := env("PORT"); port != "" {
		addr, err := parseAddr(port)
		if err != nil {
			return nil, err
		}
		cfg.Addr = addr
	}

	if v := env("ENGINE_VERSION"); v != "" {
		cfg.EngineVersion = v
	}

	if v := env("OTEL_SERVICE_NAME"); v != "" {
		cfg.ServiceName = v
	}

	if v := env("MAX_BODY_BYTES"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("config: MAX_BODY_BYTES must be a positive integer, got %q", v)
		}
		cfg.MaxBodyBytes = n
	}

	if v := env("SHUTDOWN_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return nil, fmt.Errorf("config: SHUTDOWN_TIMEOUT must be a positive duration, got %q", v)
		}
		cfg.ShutdownTimeout = d
	}

	if v := env("LOG_LEVEL"); v != "" {
		level, err := zapcore.ParseLevel(v)
		if err != nil {
			return nil, fmt.Errorf("config: LOG_LEVEL: %w", err)
		}
		cfg.LogLevel = level
	}

	var err error
	if cfg.Telemetry.Enabled, err = boolEnv("TELEMETRY_ENABLED", true); err != nil {
		return nil, err
	}
	if cfg.Telemetry.LogsEnabled, err = boolEnv("OTEL_LOGS_ENABLED", false); err != nil {
		return nil, err
	}

	return cfg, nil
}

func parseAddr(port string) (string, error) {
	port = strings.TrimPrefix(port, ":")
	n, err := strconv.Atoi(port)
	if err != nil || n <= 0 || n > 65535 {
		return "", fmt.Errorf("config: PORT must be a TCP port, got %q", port)
	}
	return ":" + port, nil
}

func boolEnv(key string, fallback bool) (bool, error) {
	raw := env(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("config: %s must be a boolean, got %q", key, raw)
	}
	return v, nil
}

func env(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}
