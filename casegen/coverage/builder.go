// Package coverage builds the matrix relating equivalence classes to the
// test cases that exercise them.
package coverage

import (
	"github.com/example/casegen/casegen/domain"
)

// Build returns one row per class, in class order, with one covers flag per
// case, in case order. A case covers a class when its value for the class's
// variable is one of the class representatives.
//
// A case without a value for a class's variable is an invariant violation
// and fails with a *domain.VariableLookupMissError.
func Build(classes []domain.EquivalenceClass, cases []domain.TestCase) (*domain.CoverageMatrix, error) {
	ids := make([]string, len(cases))
	for i, tc := range cases {
		ids[i] = tc.ID
	}

	lookups := make([]map[string]domain.Value, len(cases))
	for i, tc := range cases {
		values := make(map[string]domain.Value, len(tc.Values))
		for _, a := range tc.Values {
			values[a.Variable] = a.Value
		}
		lookups[i] = values
	}

	entries := make([]domain.CoverageEntry, len(classes))
	for ci, class := range classes {
		covers := make([]bool, len(cases))
		for ti, values := range lookups {
			v, ok := values[class.Variable]
			if !ok {
				return nil, &domain.VariableLookupMissError{CaseID: ids[ti], Variable: class.Variable}
			}
			covers[ti] = class.Contains(v)
		}
		entries[ci] = domain.CoverageEntry{Class: class, Covers: covers}
	}

	return &domain.CoverageMatrix{
		CaseIDs: ids,
		Entries: entries,
	}, nil
}
