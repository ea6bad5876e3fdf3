package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/casegen/casegen/domain"
	"github.com/example/casegen/cmd/casegen/internal/ui"
)

var (
	forgetAll bool
	force     bool
)

var forgetCmd = &cobra.Command{
	Use:   "forget [run-id]",
	Short: "Delete recorded runs",
	Long: `Delete one recorded run, or all of them with --all.

Exported files are not touched.

WARNING: This cannot be undone!

EXAMPLES:
  casegen forget run-1b4e28ba
  casegen forget --all --force`,
	Args: cobra.MatchAll(cobra.MaximumNArgs(1), runIDArgs),
	RunE: runForget,
}

func init() {
	forgetCmd.Flags().BoolVar(&forgetAll, "all", false, "delete every recorded run")
	forgetCmd.Flags().BoolVarP(&force, "force", "f", false, "skip confirmation prompt")
}

func runForget(cmd *cobra.Command, args []string) error {
	if forgetAll == (len(args) == 1) {
		return fmt.Errorf("give either a run id or --all")
	}

	message := "Delete every recorded run?"
	if !forgetAll {
		message = fmt.Sprintf("Delete run %s?", args[0])
	}
	if !force && !ui.Confirm(message) {
		ui.PrintInfo("Nothing deleted")
		return nil
	}

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

	if forgetAll {
		n, err := uow.Runs().DeleteAll(ctx)
		if err != nil {
			return fmt.Errorf("failed to delete runs: %w", err)
		}
		if err := uow.Commit(); err != nil {
			return err
		}
		ui.PrintSuccess(fmt.Sprintf("Deleted %d runs", n))
		return nil
	}

	err = uow.Runs().Delete(ctx, args[0])
	if errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("run %q not found", args[0])
	}
	if err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}
	if err := uow.Commit(); err != nil {
		return err
	}
	ui.PrintSuccess(fmt.Sprintf("Deleted run %s", args[0]))
	return nil
}
