// Package regerr defines the error taxonomy shared by every calculation
// engine: invalid input data, numerical failure, and bad configuration.
//
// The engines never substitute a default value for a failed computation; a
// caller can always distinguish "computed x" from "failed" via these types.
package regerr

import "fmt"

// InvalidDataError reports an exposure row whose fields are missing or out of
// their defined domain (e.g. PD outside (0,1), unrecognized exposure class).
type InvalidDataError struct {
	Row    string // exposure id, empty when not row-scoped
	Field  string
	Reason string
}

func (e *InvalidDataError) Error() string {
	if e.Row == "" {
		return fmt.Sprintf("invalid data: %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid data: row %s: %s: %s", e.Row, e.Field, e.Reason)
}

// CalculationError reports a numerical failure inside a formula evaluation
// (NaN/Inf produced, division by zero after all guards).
type CalculationError struct {
	Op     string // e.g. "irb.capital", "capital.cet1_ratio"
	Reason string
}

func (e *CalculationError) Error() string {
	return fmt.Sprintf("calculation failed: %s: %s", e.Op, e.Reason)
}

// ConfigurationError reports a malformed or incomplete scenario parameter set.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration: %s: %s", e.Field, e.Reason)
}

// RowError ties a validation failure to the exposure row it occurred on, so a
// caller can surface "row id + reason" without parsing error strings.
type RowError struct {
	ExposureID string
	Err        error
}

func (e RowError) Error() string {
	return fmt.Sprintf("exposure %s: %v", e.ExposureID, e.Err)
}

func (e RowError) Unwrap() error { return e.Err }

// Invalid is shorthand for a row-scoped InvalidDataError.
func Invalid(row, field, format string, args ...any) *InvalidDataError {
	return &InvalidDataError{Row: row, Field: field, Reason: fmt.Sprintf(format, args...)}
}

// Calc is shorthand for a CalculationError.
func Calc(op, format string, args ...any) *CalculationError {
	return &CalculationError{Op: op, Reason: fmt.Sprintf(format, args...)}
}

// Config is shorthand for a ConfigurationError.
func Config(field, format string, args ...any) *ConfigurationError {
	return &ConfigurationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}
