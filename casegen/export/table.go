// Package export renders a generation run as tables and writes them out as
// XLSX, CSV or JSON.
package export

import (
	"strconv"
	"strings"

	"github.com/example/casegen/casegen/domain"
)

// Default sheet names and coverage marker.
const (
	DefaultCoverageSheet    = "ClasesEquivalencia"
	DefaultCasesSheet       = "CasosPrueba"
	DefaultAnnotationsSheet = "Anotaciones"
	DefaultMarker           = "*"
	DefaultFileName         = "formulario_casos_prueba.xlsx"
)

// Column headers of the coverage table.
const (
	ColumnVariable        = "Variable"
	ColumnLabel           = "Equivalencia"
	ColumnState           = "Estado"
	ColumnType            = "Tipo"
	ColumnRepresentatives = "Representantes"
	ColumnCaseID          = "CP"
)

// Table is a named grid of string cells.
type Table struct {
	Name   string     `json:"name"`
	Header []string   `json:"columns"`
	Rows   [][]string `json:"rows"`
}

// Options controls how tables are laid out.
type Options struct {
	CoverageSheet    string
	CasesSheet       string
	AnnotationsSheet string

	// Marker fills coverage cells of covering cases.
	// Default: "*"
	Marker string
}

// WithDefaults returns a new Options with defaults applied for zero values.
func (o Options) WithDefaults() Options {
	if o.CoverageSheet == "" {
		o.CoverageSheet = DefaultCoverageSheet
	}
	if o.CasesSheet == "" {
		o.CasesSheet = DefaultCasesSheet
	}
	if o.AnnotationsSheet == "" {
		o.AnnotationsSheet = DefaultAnnotationsSheet
	}
	if o.Marker == "" {
		o.Marker = DefaultMarker
	}
	return o
}

// Meta describes the run a document was produced from.
type Meta struct {
	SuiteID     string            `json:"suite_id"`
	Mode        domain.SourceMode `json:"mode"`
	Cases       int               `json:"cases"`
	ProductSize int               `json:"product_size"`
	Sampled     bool              `json:"sampled"`
	Seed        int64             `json:"seed"`
	MaxCases    int               `json:"max_cases"`
}

// Document is the full output of a run: coverage first, then cases, then
// annotations when present.
type Document struct {
	Meta   Meta    `json:"meta"`
	Tables []Table `json:"tables"`
}

// NewDocument lays out the tables of a run.
func NewDocument(suite *domain.TestSuite, matrix *domain.CoverageMatrix, annotations []domain.Annotation, opts Options) Document {
	opts = opts.WithDefaults()

	coverage := CoverageTable(matrix, opts.Marker)
	coverage.Name = opts.CoverageSheet
	cases := TestCaseTable(suite)
	cases.Name = opts.CasesSheet

	doc := Document{
		Meta: Meta{
			SuiteID:     suite.ID,
			Mode:        suite.Mode,
			Cases:       suite.NumCases(),
			ProductSize: suite.ProductSize,
			Sampled:     suite.Sampled,
			Seed:        suite.Seed,
			MaxCases:    suite.Config.MaxCases,
		},
		Tables: []Table{coverage, cases},
	}
	if len(annotations) > 0 {
		anns := AnnotationTable(annotations)
		anns.Name = opts.AnnotationsSheet
		doc.Tables = append(doc.Tables, anns)
	}
	return doc
}

// TestCaseTable builds the test cases table: the identifier column followed
// by one column per variable in the suite's variable order.
func TestCaseTable(suite *domain.TestSuite) Table {
	header := append([]string{ColumnCaseID}, suite.Variables...)
	rows := make([][]string, len(suite.Cases))
	for i, tc := range suite.Cases {
		row := make([]string, 0, len(header))
		row = append(row, tc.ID)
		for _, v := range suite.Variables {
			value, _ := tc.Value(v)
			row = append(row, string(value))
		}
		rows[i] = row
	}
	return Table{Header: header, Rows: rows}
}

// CoverageTable builds the coverage table: one row per class with its
// descriptive columns, then one column per case holding marker where the
// case covers the class. The type column appears only if a class has one.
func CoverageTable(m *domain.CoverageMatrix, marker string) Table {
	withType := m.HasTypes()

	header := []string{ColumnVariable, ColumnLabel, ColumnState}
	if withType {
		header = append(header, ColumnType)
	}
	header = append(header, ColumnRepresentatives)
	header = append(header, m.CaseIDs...)

	rows := make([][]string, len(m.Entries))
	for i, e := range m.Entries {
		row := make([]string, 0, len(header))
		row = append(row, e.Class.Variable, e.Class.Label, string(e.Class.State))
		if withType {
			row = append(row, e.Class.Type)
		}
		row = append(row, e.Class.JoinedRepresentatives(", "))
		for _, covered := range e.Covers {
			if covered {
				row = append(row, marker)
			} else {
				row = append(row, "")
			}
		}
		rows[i] = row
	}
	return Table{Header: header, Rows: rows}
}

// AnnotationTable lists the per-case annotations.
func AnnotationTable(annotations []domain.Annotation) Table {
	header := []string{ColumnCaseID, "Verdict", "InvalidClasses", "Description", "Attempts", "Error"}
	rows := make([][]string, len(annotations))
	for i, a := range annotations {
		rows[i] = []string{
			a.CaseID,
			string(a.Verdict),
			strings.Join(a.InvalidClasses, ", "),
			a.Description,
			strconv.Itoa(a.Attempts),
			a.Error,
		}
	}
	return Table{Header: header, Rows: rows}
}
