package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a requested entity doesn't exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidConfig is returned when configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrUnsupportedFormat is returned when an input source is not in a
	// recognized shape.
	ErrUnsupportedFormat = errors.New("unsupported source format")

	// ErrMalformedClass is returned when an equivalence class is missing a
	// required field or has no representatives.
	ErrMalformedClass = errors.New("malformed equivalence class")

	// ErrSampling is returned when the case cap cannot be honored.
	ErrSampling = errors.New("invalid sampling request")

	// ErrVariableLookupMiss is returned when a test case has no value for a
	// variable referenced by an equivalence class.
	ErrVariableLookupMiss = errors.New("test case has no value for variable")

	// ErrNoVariables is returned when there is nothing to combine.
	ErrNoVariables = errors.New("no variables to combine")
)

// UnsupportedFormatError describes an input that could not be interpreted.
type UnsupportedFormatError struct {
	Format string
	Reason string
}

func (e *UnsupportedFormatError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("%s: %q (use .json, .yaml, .yml or .csv)", ErrUnsupportedFormat, e.Format)
	}
	return fmt.Sprintf("%s: %q: %s", ErrUnsupportedFormat, e.Format, e.Reason)
}

func (e *UnsupportedFormatError) Unwrap() error { return ErrUnsupportedFormat }

// MalformedClassError identifies the offending class by its position in the
// source (0-based) and the field that failed validation.
type MalformedClassError struct {
	Index  int
	Field  string
	Reason string
}

func (e *MalformedClassError) Error() string {
	return fmt.Sprintf("%s at index %d: field %q %s", ErrMalformedClass, e.Index, e.Field, e.Reason)
}

func (e *MalformedClassError) Unwrap() error { return ErrMalformedClass }

// SamplingError reports a case cap that is out of range.
type SamplingError struct {
	MaxCases int
	Reason   string
}

func (e *SamplingError) Error() string {
	return fmt.Sprintf("%s: max cases %d: %s", ErrSampling, e.MaxCases, e.Reason)
}

func (e *SamplingError) Unwrap() error { return ErrSampling }

// VariableLookupMissError is an invariant violation: every generated case
// carries a value for every variable.
type VariableLookupMissError struct {
	CaseID   string
	Variable string
}

func (e *VariableLookupMissError) Error() string {
	return fmt.Sprintf("%s: case %s, variable %q", ErrVariableLookupMiss, e.CaseID, e.Variable)
}

func (e *VariableLookupMissError) Unwrap() error { return ErrVariableLookupMiss }
