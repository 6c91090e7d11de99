package main

import (
	"context"
	"errors"

	"bersn-calc/internal/bersn"
	"bersn-calc/internal/config"
	"bersn-calc/internal/observability"
)

type shutdownFunc func(context.Context) error

// initTelemetry initialises tracing, metrics and optional OTLP log export,
// then the domain metric instruments. The returned func shuts the providers
// down in reverse order.
func initTelemetry(ctx context.Context, cfg *config.Config) (func(context.Context) error, error) {
	var shutdowns []shutdownFunc

	shutdown := func(ctx context.Context) error {
		var errs []error
		for i := len(shutdowns) - 1; i >= 0; i-- {
			errs = append(errs, shutdowns[i](ctx))
		}
		return errors.Join(errs...)
	}

	if cfg.Telemetry.Enabled {
		traceShutdown, err := observability.InitTracing(ctx, cfg.ServiceName)
		if err != nil {
			return nil, err
		}
		shutdowns = append(shutdowns, traceShutdown)
	}

	metricShutdown, err := observability.InitMetrics(ctx, cfg.ServiceName, cfg.Telemetry.Enabled)
	if err != nil {
		_ = shutdown(ctx)
		return nil, err
	}
	shutdowns = append(shutdowns, metricShutdown)

	if cfg.Telemetry.LogsEnabled {
		logShutdown, err := observability.InitLogging(ctx, cfg.ServiceName)
		if err != nil {
			_ = shutdown(ctx)
			return nil, err
		}
		shutdowns = append(shutdowns, logShutdown)
	}

	if err := bersn.InitMetrics(); err != nil {
		_ = shutdown(ctx)
		return nil, err
	}

	return shutdown, nil
}
