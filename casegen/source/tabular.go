package source

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/example/casegen/casegen/domain"
)

// ReadCSV reads a header row and the records below it. A UTF-8 or UTF-16
// byte order mark is honored and stripped; input without a BOM is read as
// UTF-8. Header names are trimmed.
func ReadCSV(r io.Reader) ([]string, [][]string, error) {
	decoded := transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))

	reader := csv.NewReader(decoded)
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, nil, &domain.UnsupportedFormatError{Format: string(FormatCSV), Reason: err.Error()}
	}
	if len(rows) == 0 {
		return nil, nil, &domain.UnsupportedFormatError{Format: string(FormatCSV), Reason: "file is empty"}
	}

	header := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		header[i] = strings.TrimSpace(h)
	}
	return header, rows[1:], nil
}

// DeriveTabular derives equivalence classes from records whose last column
// is the outcome. For every variable column it emits a Valid class with the
// distinct non-empty values of rows whose outcome equals validMarker
// (case-insensitive) and an Invalid class with those of every other row.
// A class with no values is omitted.
//
// The records themselves are returned as test cases CP001, CP002, ... in
// row order.
func DeriveTabular(header []string, records [][]string, validMarker string) ([]domain.EquivalenceClass, []domain.TestCase, error) {
	if len(header) < 2 {
		return nil, nil, &domain.UnsupportedFormatError{
			Format: string(FormatCSV),
			Reason: "need at least one variable column and an outcome column",
		}
	}
	variables := header[:len(header)-1]
	seenVars := make(map[string]bool, len(variables))
	for i, v := range variables {
		if v == "" {
			return nil, nil, &domain.MalformedClassError{Index: i, Field: "variable", Reason: "column header is empty"}
		}
		if seenVars[v] {
			return nil, nil, &domain.MalformedClassError{Index: i, Field: "variable", Reason: fmt.Sprintf("column %q is duplicated", v)}
		}
		seenVars[v] = true
	}
	outcomeCol := len(header) - 1
	marker := strings.TrimSpace(validMarker)

	valid := make([][]domain.Value, len(variables))
	invalid := make([][]domain.Value, len(variables))
	validSeen := make([]map[domain.Value]bool, len(variables))
	invalidSeen := make([]map[domain.Value]bool, len(variables))
	for i := range variables {
		validSeen[i] = make(map[domain.Value]bool)
		invalidSeen[i] = make(map[domain.Value]bool)
	}

	cases := make([]domain.TestCase, len(records))
	for ri, rec := range records {
		isValid := strings.EqualFold(strings.TrimSpace(rec[outcomeCol]), marker)

		values := make([]domain.Assignment, len(variables))
		for vi, variable := range variables {
			v, _ := domain.NormalizeValue(strings.TrimSpace(rec[vi]))
			values[vi] = domain.Assignment{Variable: variable, Value: v}
			if v == "" {
				continue
			}
			if isValid {
				if !validSeen[vi][v] {
					validSeen[vi][v] = true
					valid[vi] = append(valid[vi], v)
				}
			} else if !invalidSeen[vi][v] {
				invalidSeen[vi][v] = true
				invalid[vi] = append(invalid[vi], v)
			}
		}
		cases[ri] = domain.TestCase{
			ID:     domain.FormatCaseID(ri+1),
			Values: values,
		}
	}

	var classes []domain.EquivalenceClass
	for vi, variable := range variables {
		if len(valid[vi]) > 0 {
			classes = append(classes, domain.EquivalenceClass{
				Variable:        variable,
				Label:           variable + "-Valid",
				State:           domain.StateValid,
				Representatives: valid[vi],
			})
		}
		if len(invalid[vi]) > 0 {
			classes = append(classes, domain.EquivalenceClass{
				Variable:        variable,
				Label:           variable + "-Invalid",
				State:           domain.StateInvalid,
				Representatives: invalid[vi],
			})
		}
	}
	return classes, cases, nil
}
