package observability

import (
	"context"
	"net/http"

	"bersn-calc/internal/handlers"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// RecordError centralises error handling across all domains: records the error
// on the span, increments the provided error counter, logs with trace context (warn
// for client errors, error otherwise),
// and writes body as the JSON error response.
func RecordError(ctx context.Context, span trace.Span, logger *zap.Logger, counter metric.Int64Counter, opName string, err error, status int, w http.ResponseWriter, body handlers.ErrorResponse) {
	span.RecordError(err)
	span.SetStatus(codes.Error, body.Error)

	counter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", opName),
		attribute.Int("http.status_code", status),
	))

	fields := []zap.Field{
		zap.String("operation", opName),
		zap.Error(err),
		zap.Int("status", status),
		zap.String("request_id", RequestIDFromContext(ctx)),
	}
	if status >= http.StatusInternalServerError {
		logger.Error(body.Error, fields...)
	} else {
		logger.Warn(body.Error, fields...)
	}

	handlers.WriteErrorResponse(w, status, body)
}
