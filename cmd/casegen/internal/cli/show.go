package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/casegen/casegen/coverage"
	"github.com/example/casegen/casegen/domain"
	"github.com/example/casegen/casegen/export"
	"github.com/example/casegen/cmd/casegen/internal/ui"
)

var (
	showExport string
	showFormat string
	showQuiet  bool
)

var showCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show a recorded run",
	Long: `Show a recorded run and optionally export it again.

The coverage matrix is rebuilt from the recorded classes and cases, so the
original input file is not needed.

EXAMPLES:
  casegen show run-1b4e28ba
  casegen show run-1b4e28ba --export again.xlsx
  casegen show run-1b4e28ba --export again -f csv --quiet`,
	Args: cobra.MatchAll(cobra.ExactArgs(1), runIDArgs),
	RunE: runShow,
}

func init() {
	showCmd.Flags().StringVar(&showExport, "export", "", "write the run to this file")
	showCmd.Flags().StringVarP(&showFormat, "format", "f", "", "export format: xlsx, csv or json")
	showCmd.Flags().BoolVarP(&showQuiet, "quiet", "q", false, "do not print the tables")
}

func runShow(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	store, err := openStorage(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	uow, err := store.Begin(ctx)
	if err != nil {
		return err
	}
	defer uow.Rollback()

	run, err := uow.Runs().Get(ctx, args[0])
	if errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("run %q not found\nUse 'casegen history' to list recorded runs", args[0])
	}
	if err != nil {
		return fmt.Errorf("failed to load run: %w", err)
	}

	suite := run.Suite()
	matrix, err := coverage.Build(run.Classes, run.Cases)
	if err != nil {
		return fmt.Errorf("failed to rebuild coverage matrix: %w", err)
	}
	doc := export.NewDocument(suite, matrix, run.Annotations, cfg.ExportOptions())

	ui.PrintHeader(fmt.Sprintf("Run %s", run.ID))
	ui.PrintInfo(fmt.Sprintf("Source: %s", run.Source))
	ui.PrintInfo(fmt.Sprintf("Created: %s", run.CreatedAt.Local().Format("2006-01-02 15:04:05")))
	ui.PrintInfo(fmt.Sprintf("Max cases: %d", run.Config.MaxCases))
	if !showQuiet {
		printDocument(doc)
	}
	printSummary(suite, matrix, nil, run.Annotations)

	if showExport != "" {
		ui.PrintInfo("")
		return writeDocument(doc, showExport, showFormat)
	}
	return nil
}
