package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/casegen/casegen/export"
	"github.com/example/casegen/cmd/casegen/internal/ui"
)

var maxColumns int

var previewCmd = &cobra.Command{
	Use:   "preview <input>",
	Short: "Show the generated tables without writing anything",
	Long: `Run generation and render both tables on the terminal.

Nothing is exported and the run is not recorded. Generation flags behave as in
'casegen generate'.

EXAMPLES:
  casegen preview classes.json
  casegen preview classes.json --max-cases 6 --seed 42 --annotate`,
	Args: cobra.ExactArgs(1),
	RunE: runPreview,
}

func init() {
	previewCmd.Flags().IntVar(&maxCases, "max-cases", 0, "maximum number of test cases")
	previewCmd.Flags().Int64Var(&randomSeed, "seed", 0, "random seed for reproducibility (0 = random)")
	previewCmd.Flags().StringVar(&validMarker, "valid-marker", "", "outcome value of valid CSV records")
	previewCmd.Flags().BoolVar(&annotate, "annotate", false, "annotate each case with its expected verdict")
	previewCmd.Flags().IntVar(&maxColumns, "max-columns", 20, "maximum case columns shown in the coverage matrix (0 = all)")
}

func runPreview(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	applyGenerationFlags(cmd)

	ui.PrintHeader("Preview")
	res, err := runPipeline(ctx, args[0], cfg.Annotate.Enabled)
	if err != nil {
		return err
	}

	doc := export.NewDocument(res.Suite, res.Coverage, res.Annotations, cfg.ExportOptions())
	printDocument(doc)
	printSummary(res.Suite, res.Coverage, res.Warnings, res.Annotations)
	return nil
}

// printDocument renders every table of doc.
func printDocument(doc export.Document) {
	for i, t := range doc.Tables {
		ui.PrintHeader(t.Name)
		switch i {
		case 0:
			header, rows, hidden := truncateColumns(t, fixedCoverageColumns(t), maxColumns)
			ui.PrintGrid(header, rows, fixedCoverageColumns(t))
			if hidden > 0 {
				ui.PrintMuted(fmt.Sprintf("%d more case columns not shown (--max-columns)", hidden))
			}
		default:
			ui.PrintGrid(t.Header, t.Rows, -1)
		}
	}
}

// fixedCoverageColumns returns the number of descriptive columns that
// precede the case columns of a coverage table.
func fixedCoverageColumns(t export.Table) int {
	for i, h := range t.Header {
		if h == export.ColumnRepresentatives {
			return i + 1
		}
	}
	return len(t.Header)
}

// truncateColumns keeps the fixed columns and at most limit of the rest.
func truncateColumns(t export.Table, fixed, limit int) ([]string, [][]string, int) {
	if limit <= 0 || len(t.Header)-fixed <= limit {
		return t.Header, t.Rows, 0
	}
	keep := fixed + limit
	rows := make([][]string, len(t.Rows))
	for i, row := range t.Rows {
		rows[i] = row[:keep]
	}
	return t.Header[:keep], rows, len(t.Header) - keep
}
