package domain

// CoverageEntry is one row of the coverage matrix: a class and, aligned with
// CoverageMatrix.CaseIDs, whether each test case exercises it.
type CoverageEntry struct {
	Class  EquivalenceClass
	Covers []bool
}

// CoveredCount returns the number of test cases covering the class.
func (e CoverageEntry) CoveredCount() int {
	n := 0
	for _, c := range e.Covers {
		if c {
			n++
		}
	}
	return n
}

// CoverageMatrix maps every equivalence class to the test cases that
// exercise it. Rows follow class input order; columns follow case emission
// order.
type CoverageMatrix struct {
	CaseIDs []string
	Entries []CoverageEntry
}

// NumClasses returns the number of rows.
func (m *CoverageMatrix) NumClasses() int {
	return len(m.Entries)
}

// Covers returns true if the class at row classIdx is covered by caseID.
func (m *CoverageMatrix) Covers(classIdx int, caseID string) bool {
	if classIdx < 0 || classIdx >= len(m.Entries) {
		return false
	}
	for i, id := range m.CaseIDs {
		if id == caseID {
			return m.Entries[classIdx].Covers[i]
		}
	}
	return false
}

// CasesCovering returns the identifiers of cases covering the class at row
// classIdx.
func (m *CoverageMatrix) CasesCovering(classIdx int) []string {
	if classIdx < 0 || classIdx >= len(m.Entries) {
		return nil
	}
	var ids []string
	for i, c := range m.Entries[classIdx].Covers {
		if c {
			ids = append(ids, m.CaseIDs[i])
		}
	}
	return ids
}

// Uncovered returns the row indices of classes no test case exercises.
// This happens when sampling drops every combination containing them.
func (m *CoverageMatrix) Uncovered() []int {
	var rows []int
	for i, e := range m.Entries {
		if e.CoveredCount() == 0 {
			rows = append(rows, i)
		}
	}
	return rows
}

// HasTypes reports whether any class carries the optional Type column.
func (m *CoverageMatrix) HasTypes() bool {
	for _, e := range m.Entries {
		if e.Class.Type != "" {
			return true
		}
	}
	return false
}

// Ratio returns the fraction of classes covered by at least one case.
func (m *CoverageMatrix) Ratio() float64 {
	if len(m.Entries) == 0 {
		return 0
	}
	return float64(len(m.Entries)-len(m.Uncovered())) / float64(len(m.Entries))
}
