package bersn

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"bersn-calc/internal/handlers"
	"bersn-calc/internal/observability"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("bersn")

const opRun = "run"

// Handler serves calculation runs against an Engine.
type Handler struct {
	engine       Engine
	maxBodyBytes int64
}

// NewHandler returns a Handler. maxBodyBytes <= 0 leaves the body unbounded.
func NewHandler(engine Engine, maxBodyBytes int64) *Handler {
	return &Handler{engine: engine, maxBodyBytes: maxBodyBytes}
}

// Run handles POST /calc/bersn/run.
func (h *Handler) Run(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)
	requestID := observability.RequestIDFromContext(ctx)

	ctx, span := tracer.Start(ctx, "bersn.run",
		trace.WithAttributes(
			attribute.String("request.id", requestID),
		),
	)
	defer span.End()

	body := r.Body
	if h.maxBodyBytes > 0 {
		body = http.MaxBytesReader(w, r.Body, h.maxBodyBytes)
	}

	req, err := DecodeRequest(body)
	if err != nil {
		status, resp := rejection(err)
		observability.RecordError(ctx, span, logger, errorCounter, opRun, err, status, w, resp)
		return
	}

	span.SetAttributes(
		attribute.String("bersn.calc_run_id", req.CalcRunID),
		attribute.String("bersn.branch_type", req.BranchType),
		attribute.String("bersn.formula_version", req.FormulaVersion),
		attribute.Int("bersn.inputs_count", len(req.Inputs)),
	)

	start := time.Now()
	result, err := h.engine.Run(ctx, req)
	elapsed := float64(time.Since(start).Microseconds()) / 1000.0 // ms

	if err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, opRun,
			fmt.Errorf("engine run %q: %w", req.CalcRunID, err),
			http.StatusInternalServerError, w,
			handlers.ErrorResponse{Error: "calculation failed"})
		return
	}

	attrs := metric.WithAttributes(attribute.String("operation", opRun))
	runsCounter.Add(ctx, 1, attrs)
	runsHistogram.Record(ctx, elapsed, attrs)
	scoreGauge.Record(ctx, result.Score, attrs)

	span.AddEvent("calculation.complete", trace.WithAttributes(
		attribute.Float64("score", result.Score),
		attribute.String("grade", result.Grade),
		attribute.Float64("duration_ms", elapsed),
	))
	span.SetStatus(codes.Ok, "")

	logger.Info("calculation run completed",
		zap.String("calc_run_id", req.CalcRunID),
		zap.String("branch_type", req.BranchType),
		zap.String("formula_version", req.FormulaVersion),
		zap.Int("inputs_count", len(req.Inputs)),
		zap.Float64("score", result.Score),
		zap.String("grade", result.Grade),
		zap.String("request_id", requestID),
		zap.Float64("duration_ms", elapsed),
	)

	handlers.WriteJSON(w, http.StatusOK, result)
}

// rejection maps a decode failure to its HTTP status and response body.
func rejection(err error) (int, handlers.ErrorResponse) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return http.StatusRequestEntityTooLarge, handlers.ErrorResponse{
			Error: fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit),
		}
	}

	var invalid *ValidationError
	if errors.As(err, &invalid) {
		return http.StatusUnprocessableEntity, handlers.ErrorResponse{
			Error:   ErrInvalidRequest.Error(),
			Details: invalid.Issues,
		}
	}

	return http.StatusBadRequest, handlers.ErrorResponse{Error: "invalid request body"}
}
