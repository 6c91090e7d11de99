package bersn

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

var (
	// ErrMalformedBody is returned when the body is not parseable JSON.
	ErrMalformedBody = errors.New("malformed request body")

	// ErrInvalidRequest is matched by every *ValidationError.
	ErrInvalidRequest = errors.New("invalid calculation request")
)

// Issue describes one structural problem with a request field.
type Issue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError lists every structural problem found in a request body.
type ValidationError struct {
	Issues []Issue
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		parts = append(parts, issue.Field+": "+issue.Message)
	}
	return fmt.Sprintf("%s: %s", ErrInvalidRequest, strings.Join(parts, "; "))
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidRequest
}

const (
	msgRequired  = "field required"
	msgNotString = "must be a string"
	msgNotObject = "must be an object"
)

// DecodeRequest parses and structurally validates a calculation request.
// Identifier values are accepted verbatim, including empty strings; the
// contents of inputs are not inspected and unknown fields are ignored.
func DecodeRequest(r io.Reader) (CalculationRequest, error) {
	var req CalculationRequest

	dec := json.NewDecoder(r)
	dec.UseNumber()

	var raw json.RawMessage
	if err := dec.Decode(&raw); err != nil {
		return req, fmt.Errorf("%w: %w", ErrMalformedBody, err)
	}
	if dec.More() {
		return req, fmt.Errorf("%w: unexpected data after JSON value", ErrMalformedBody)
	}

	if !isObject(raw) {
		return req, &ValidationError{Issues: []Issue{{Field: "body", Message: msgNotObject}}}
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return req, fmt.Errorf("%w: %w", ErrMalformedBody, err)
	}

	var issues []Issue

	for _, f := range []struct {
		name string
		dst  *string
	}{
		{"calc_run_id", &req.CalcRunID},
		{"branch_type", &req.BranchType},
		{"formula_version", &req.FormulaVersion},
	} {
		if msg := decodeString(fields[f.name], f.dst); msg != "" {
			issues = append(issues, Issue{Field: f.name, Message: msg})
		}
	}

	if msg := decodeObject(fields["inputs"], &req.Inputs); msg != "" {
		issues = append(issues, Issue{Field: "inputs", Message: msg})
	}

	if len(issues) > 0 {
		return CalculationRequest{}, &ValidationError{Issues: issues}
	}

	return req, nil
}

func decodeString(raw json.RawMessage, dst *string) string {
	if isMissing(raw) {
		return msgRequired
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return msgNotString
	}
	return ""
}

func decodeObject(raw json.RawMessage, dst *map[string]any) string {
	if isMissing(raw) {
		return msgRequired
	}
	if !isObject(raw) {
		return msgNotObject
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(dst); err != nil {
		return msgNotObject
	}
	return ""
}

func isMissing(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

func isObject(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '{'
}
