package bersn

import "context"

// Engine computes a calculation result for a validated request.
type Engine interface {
	Run(ctx context.Context, req CalculationRequest) (CalculationResult, error)
}

// Placeholder values returned by MockEngine.
const (
	MockScore        = 85
	MockGrade        = "Level-1"
	MockEUI          = 120
	MockReferenceEUI = 140
)

// MockEngine returns a fixed result for every request, echoing only the
// request identifiers. It stands in until branch and formula rules exist.
type MockEngine struct {
	EngineVersion string
}

func NewMockEngine(engineVersion string) *MockEngine {
	return &MockEngine{EngineVersion: engineVersion}
}

func (e *MockEngine) Run(_ context.Context, req CalculationRequest) (CalculationResult, error) {
	return CalculationResult{
		CalcRunID:      req.CalcRunID,
		BranchType:     req.BranchType,
		FormulaVersion: req.FormulaVersion,
		Score:          MockScore,
		Grade:          MockGrade,
		Outputs: map[string]float64{
			OutputEUI:          MockEUI,
			OutputReferenceEUI: MockReferenceEUI,
		},
		Warnings:      []string{},
		Intermediates: map[string]any{},
		Trace: map[string]string{
			TraceEngineVersion: e.EngineVersion,
		},
	}, nil
}
