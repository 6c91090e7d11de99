// Package bersn implements the BERSn calculation run endpoint: request
// decoding and validation, the calculation engine contract, and its HTTP
// handler.
package bersn

// CalculationRequest is the JSON body for POST /calc/bersn/run.
type CalculationRequest struct {
	CalcRunID      string `json:"calc_run_id"`     // opaque, caller-supplied
	BranchType     string `json:"branch_type"`     // calculation variant selector
	FormulaVersion string `json:"formula_version"` // formula logic selector

	// Inputs holds the caller's measurements and parameters. Numbers decode
	// as json.Number.
	Inputs map[string]any `json:"inputs"`
}

// CalculationResult is the JSON response for POST /calc/bersn/run.
type CalculationResult struct {
	CalcRunID      string             `json:"calc_run_id"`
	BranchType     string             `json:"branch_type"`
	FormulaVersion string             `json:"formula_version"`
	Score          float64            `json:"score"`
	Grade          string             `json:"grade"`
	Outputs        map[string]float64 `json:"outputs"`
	Warnings       []string           `json:"warnings"`
	Intermediates  map[string]any     `json:"intermediates"`
	Trace          map[string]string  `json:"trace"`
}

// Output and trace keys.
const (
	OutputEUI          = "EUI"
	OutputReferenceEUI = "reference_EUI"

	TraceEngineVersion = "engine_version"
)
