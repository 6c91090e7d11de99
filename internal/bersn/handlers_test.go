package bersn

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"bersn-calc/internal/observability"
	"bersn-calc/internal/testutil"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type engineFunc func(ctx context.Context, req CalculationRequest) (CalculationResult, error)

func (f engineFunc) Run(ctx context.Context, req CalculationRequest) (CalculationResult, error) {
	return f(ctx, req)
}

func newTestRouter(engine Engine, maxBodyBytes int64) http.Handler {
	r := chi.NewRouter()
	r.Use(observability.RequestIDMiddleware)
	RegisterRoutes(r, NewHandler(engine, maxBodyBytes))
	return r
}

func postRun(t *testing.T, h http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	return testutil.PostJSON(h, "/calc/bersn/run", body)
}

func TestRunReturnsMockResult(t *testing.T) {
	h := newTestRouter(NewMockEngine("v0.1-dev"), 1<<20)

	w := postRun(t, h, `{"calc_run_id": "run-1", "branch_type": "residential", "formula_version": "v1", "inputs": {"area_m2": 100}}`)

	testutil.CheckResponseCode(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.NotEmpty(t, w.Header().Get(observability.RequestIDHeader))
	assert.JSONEq(t, `{
		"calc_run_id": "run-1",
		"branch_type": "residential",
		"formula_version": "v1",
		"score": 85,
		"grade": "Level-1",
		"outputs": {"EUI": 120, "reference_EUI": 140},
		"warnings": [],
		"intermediates": {},
		"trace": {"engine_version": "v0.1-dev"}
	}`, w.Body.String())
}

func TestRunEchoesIdentifiersVerbatim(t *testing.T) {
	h := newTestRouter(NewMockEngine("v0.1-dev"), 1<<20)

	w := postRun(t, h, `{"calc_run_id":"  spaced id ","branch_type":"","formula_version":"9.9-rc","inputs":{"nested":{"a":[1,"b",null]}}}`)
	testutil.CheckResponseCode(t, http.StatusOK, w.Code)

	var res CalculationResult
	testutil.DecodeJSONBody(t, w.Body, &res)
	assert.Equal(t, "  spaced id ", res.CalcRunID)
	assert.Equal(t, "", res.BranchType)
	assert.Equal(t, "9.9-rc", res.FormulaVersion)
}

func TestRunRejectsInvalidRequestsBeforeEngine(t *testing.T) {
	engine := engineFunc(func(context.Context, CalculationRequest) (CalculationResult, error) {
		t.Fatal("engine must not run for a rejected request")
		return CalculationResult{}, nil
	})
	h := newTestRouter(engine, 100)

	tests := []struct {
		name    string
		body    string
		status  int
		message string
	}{
		{
			name:    "missing inputs",
			body:    `{"calc_run_id":"run-1","branch_type":"residential","formula_version":"v1"}`,
			status:  http.StatusUnprocessableEntity,
			message: "invalid calculation request",
		},
		{
			name:    "malformed json",
			body:    `{"calc_run_id":`,
			status:  http.StatusBadRequest,
			message: "invalid request body",
		},
		{
			name:    "too large",
			body:    `{"calc_run_id":"` + strings.Repeat("x", 128) + `"}`,
			status:  http.StatusRequestEntityTooLarge,
			message: "request body exceeds 100 bytes",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := postRun(t, h, tc.body)
			testutil.CheckResponseCode(t, tc.status, w.Code)

			var body map[string]any
			testutil.DecodeJSONBody(t, w.Body, &body)
			assert.Equal(t, tc.message, body["error"])
			assert.NotContains(t, body, "score")
			assert.NotContains(t, body, "request_id")
		})
	}
}

func TestRunValidationFailureListsDetails(t *testing.T) {
	h := newTestRouter(NewMockEngine("v0.1-dev"), 1<<20)

	w := postRun(t, h, `{"calc_run_id":1,"branch_type":"b","formula_version":"v1"}`)
	testutil.CheckResponseCode(t, http.StatusUnprocessableEntity, w.Code)

	var body struct {
		Error   string  `json:"error"`
		Details []Issue `json:"details"`
	}
	testutil.DecodeJSONBody(t, w.Body, &body)
	assert.Equal(t, []Issue{
		{Field: "calc_run_id", Message: "must be a string"},
		{Field: "inputs", Message: "field required"},
	}, body.Details)
}

func TestRunEngineFailureIsInternalError(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	oldLogger := observability.Logger
	observability.Logger = zap.New(core)
	t.Cleanup(func() { observability.Logger = oldLogger })

	engine := engineFunc(func(context.Context, CalculationRequest) (CalculationResult, error) {
		return CalculationResult{}, errors.New("formula table unavailable")
	})
	h := newTestRouter(engine, 0)

	w := postRun(t, h, `{"calc_run_id":"run-9","branch_type":"b","formula_version":"v1","inputs":{}}`)
	testutil.CheckResponseCode(t, http.StatusInternalServerError, w.Code)

	var body map[string]any
	testutil.DecodeJSONBody(t, w.Body, &body)
	assert.Equal(t, "calculation failed", body["error"])

	entries := logs.FilterMessage("calculation failed").All()
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].ContextMap()["error"], "run-9")
}

func TestRunLogsCompletion(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	oldLogger := observability.Logger
	observability.Logger = zap.New(core)
	t.Cleanup(func() { observability.Logger = oldLogger })

	h := newTestRouter(NewMockEngine("v0.1-dev"), 0)
	w := postRun(t, h, `{"calc_run_id":"run-2","branch_type":"office","formula_version":"v1","inputs":{"a":1,"b":2}}`)
	testutil.CheckResponseCode(t, http.StatusOK, w.Code)

	entries := logs.FilterMessage("calculation run completed").All()
	require.Len(t, entries, 1)

	fields := entries[0].ContextMap()
	assert.Equal(t, "run-2", fields["calc_run_id"])
	assert.Equal(t, "office", fields["branch_type"])
	assert.Equal(t, int64(2), fields["inputs_count"])
	assert.Equal(t, w.Header().Get(observability.RequestIDHeader), fields["request_id"])
}

func TestRunRecordsMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	require.NoError(t, initInstruments(provider.Meter("bersn")))
	t.Cleanup(func() {
		runsCounter = noop.Int64Counter{}
		runsHistogram = noop.Float64Histogram{}
		errorCounter = noop.Int64Counter{}
		scoreGauge = noop.Float64Gauge{}
	})

	h := newTestRouter(NewMockEngine("v0.1-dev"), 0)
	postRun(t, h, `{"calc_run_id":"a","branch_type":"b","formula_version":"c","inputs":{}}`)
	postRun(t, h, `{"calc_run_id":"a","branch_type":"b","formula_version":"c","inputs":{}}`)
	postRun(t, h, `{}`)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	assert.Equal(t, int64(2), sumOf(t, rm, "bersn.calc.runs.total"))
	assert.Equal(t, int64(1), sumOf(t, rm, "bersn.calc.errors.total"))
}

func sumOf(t *testing.T, rm metricdata.ResourceMetrics, name string) int64 {
	t.Helper()
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok, "metric %s is not an int64 sum", name)

			var total int64
			for _, dp := range sum.DataPoints {
				total += dp.Value
			}
			return total
		}
	}
	t.Fatalf("metric %s not found", name)
	return 0
}
