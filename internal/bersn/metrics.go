package bersn

import (
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

// Metric instruments. They are no-ops until InitMetrics runs.
var (
	runsCounter   metric.Int64Counter     = noop.Int64Counter{}
	runsHistogram metric.Float64Histogram = noop.Float64Histogram{}
	errorCounter  metric.Int64Counter     = noop.Int64Counter{}
	scoreGauge    metric.Float64Gauge     = noop.Float64Gauge{}
)

// InitMetrics registers the calculation run instruments on the global meter
// provider. Call this once at startup (after observability.InitMetrics).
func InitMetrics() error {
	return initInstruments(otel.Meter("bersn"))
}

func initInstruments(meter metric.Meter) error {
	var err error

	runsCounter, err = meter.Int64Counter("bersn.calc.runs.total",
		metric.WithDescription("Total number of completed calculation runs"),
		metric.WithUnit("{run}"),
	)
	if err != nil {
		return fmt.Errorf("creating runs counter: %w", err)
	}

	runsHistogram, err = meter.Float64Histogram("bersn.calc.run.duration",
		metric.WithDescription("Duration of calculation runs in milliseconds"),
		metric.WithUnit("ms"),
		metric.WithExplicitBucketBoundaries(0.01, 0.05, 0.1, 0.5, 1, 5, 10, 50),
	)
	if err != nil {
		return fmt.Errorf("creating runs histogram: %w", err)
	}

	errorCounter, err = meter.Int64Counter("bersn.calc.errors.total",
		metric.WithDescription("Total number of rejected or failed calculation runs"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return fmt.Errorf("creating error counter: %w", err)
	}

	scoreGauge, err = meter.Float64Gauge("bersn.calc.last_score",
		metric.WithDescription("Score of the last completed calculation run"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("creating score gauge: %w", err)
	}

	return nil
}
