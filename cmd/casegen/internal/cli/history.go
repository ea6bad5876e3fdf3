package cli

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/example/casegen/cmd/casegen/internal/ui"
	"github.com/example/casegen/internal/storage"
)

var (
	historyLimit  int
	historySource string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded runs",
	Long: `List the runs recorded by 'casegen generate', newest first.

EXAMPLES:
  casegen history
  casegen history --limit 5
  casegen history --source ./classes.json`,
	Aliases: []string{"list"},
	Args:    cobra.NoArgs,
	RunE:    runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "maximum runs to list (0 = all)")
	historyCmd.Flags().StringVar(&historySource, "source", "", "only runs generated from this input")
}

func runHistory(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	store, err := openStorage(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	opts := storage.ListOptions{Limit: historyLimit}
	if historySource != "" {
		if abs, err := filepath.Abs(historySource); err == nil {
			opts.Source = abs
		}
	}

	uow, err := store.Begin(ctx)
	if err != nil {
		return err
	}
	defer uow.Rollback()

	runs, err := uow.Runs().List(ctx, opts)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	if len(runs) == 0 {
		ui.PrintInfo("No recorded runs")
		ui.PrintInfo("Run 'casegen generate <input>' to create one")
		return nil
	}

	ui.PrintHeader("Recorded Runs")
	headers := []string{"RUN", "CREATED", "MODE", "CASES", "PRODUCT", "SEED", "SOURCE"}
	rows := make([][]string, len(runs))
	for i, r := range runs {
		product := strconv.Itoa(r.ProductSize)
		if r.Sampled {
			product += " (sampled)"
		}
		rows[i] = []string{
			r.ID,
			r.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			string(r.Mode),
			strconv.Itoa(len(r.Cases)),
			product,
			strconv.FormatInt(r.Seed, 10),
			r.Source,
		}
	}
	ui.PrintTable(headers, rows)

	ui.PrintInfo("")
	ui.PrintInfo("Use 'casegen show <run>' for details")
	return nil
}
