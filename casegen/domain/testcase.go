package domain

import (
	"fmt"
)

// CaseIDPrefix prefixes every test case identifier.
const CaseIDPrefix = "CP"

// FormatCaseID returns the identifier of the n-th case (1-based): at least
// three digits, growing past CP999 to CP1000.
func FormatCaseID(n int) string {
	return fmt.Sprintf("%s%03d", CaseIDPrefix, n)
}

// Assignment is the value chosen for one variable.
type Assignment struct {
	Variable string `json:"variable"`
	Value    Value  `json:"value"`
}

// TestCase is one finalized, identified combination.
type TestCase struct {
	// ID is the sequential identifier (CP001, CP002, ...).
	ID string `json:"id"`

	// Values holds one assignment per variable in the run's variable order.
	Values []Assignment `json:"values"`
}

// Value returns the case value for a variable.
func (tc TestCase) Value(variable string) (Value, bool) {
	for _, a := range tc.Values {
		if a.Variable == variable {
			return a.Value, true
		}
	}
	return "", false
}

// SourceMode tells how the test cases of a suite were obtained.
type SourceMode string

const (
	// ModeStructured means cases were generated from explicit classes.
	ModeStructured SourceMode = "structured"

	// ModeTabular means cases were taken verbatim from tabular records.
	ModeTabular SourceMode = "tabular"
)

// TestSuite is the output of one generation run.
type TestSuite struct {
	// ID is the unique identifier for this suite.
	ID string

	// Mode records how the cases were obtained.
	Mode SourceMode

	// Variables is the canonical variable order of the run.
	Variables []string

	// Cases are the emitted test cases in identifier order.
	Cases []TestCase

	// ProductSize is the size of the full Cartesian product, saturated at
	// math.MaxInt. For tabular suites it equals len(Cases).
	ProductSize int

	// Sampled is true when the product exceeded the cap and was sampled.
	Sampled bool

	// Seed is the seed actually used for sampling.
	Seed int64

	// Config is the configuration used to build this suite.
	Config GenerationConfig
}

// NumCases returns the number of emitted test cases.
func (s *TestSuite) NumCases() int {
	return len(s.Cases)
}

// CaseIDs returns the identifiers in emission order.
func (s *TestSuite) CaseIDs() []string {
	ids := make([]string, len(s.Cases))
	for i, c := range s.Cases {
		ids[i] = c.ID
	}
	return ids
}

// GetCase returns the case with the given identifier.
func (s *TestSuite) GetCase(id string) *TestCase {
	for i := range s.Cases {
		if s.Cases[i].ID == id {
			return &s.Cases[i]
		}
	}
	return nil
}
