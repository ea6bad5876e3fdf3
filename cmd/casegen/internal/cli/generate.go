package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/example/casegen/casegen/domain"
	"github.com/example/casegen/casegen/export"
	"github.com/example/casegen/casegen/pipeline"
	"github.com/example/casegen/cmd/casegen/internal/ui"
)

var (
	maxCases    int
	randomSeed  int64
	validMarker string
	outputPath  string
	outputFmt   string
	annotate    bool
	noSave      bool
	interactive bool
)

var generateCmd = &cobra.Command{
	Use:   "generate <input>",
	Short: "Generate test cases and write both tables",
	Long: `Generate test cases from an equivalence class file and export the test case
table and the coverage matrix.

Input format is taken from the extension: .json, .yaml/.yml (structured) or
.csv (tabular). The run is recorded in the history database unless --no-save
is given.

EXAMPLES:
  # Default: xlsx with the sheets ClasesEquivalencia and CasosPrueba
  casegen generate classes.json

  # Reproducible sample of 6 cases
  casegen generate classes.json --max-cases 6 --seed 42

  # CSV output (one file per table)
  casegen generate classes.yaml -f csv -o out/cases

  # Prompt for the options
  casegen generate -i classes.json

CONFIGURATION:
  --max-cases:    Cap on generated cases (default: 100)
                  Larger products are sampled uniformly without replacement

  --seed:         Sampling seed, 0 picks a fresh one (default: 0)
                  The seed used is printed and recorded so any run can be replayed

  --valid-marker: Outcome value marking a CSV record as valid (default: V)`,
	Args: cobra.ExactArgs(1),
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().IntVar(&maxCases, "max-cases", 0, "maximum number of test cases (default from config: 100)")
	generateCmd.Flags().Int64Var(&randomSeed, "seed", 0, "random seed for reproducibility (0 = random)")
	generateCmd.Flags().StringVar(&validMarker, "valid-marker", "", "outcome value of valid CSV records")
	generateCmd.Flags().StringVarP(&outputPath, "output", "o", "", "output file (default from config: "+export.DefaultFileName+")")
	generateCmd.Flags().StringVarP(&outputFmt, "format", "f", "", "output format: xlsx, csv or json")
	generateCmd.Flags().BoolVar(&annotate, "annotate", false, "annotate each case with its expected verdict")
	generateCmd.Flags().BoolVar(&noSave, "no-save", false, "do not record the run in the history database")
	generateCmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "interactive mode with prompts")
}

// applyGenerationFlags lays explicitly set flags over the loaded config.
func applyGenerationFlags(cmd *cobra.Command) {
	if cmd.Flags().Changed("max-cases") {
		cfg.Generation.MaxCases = maxCases
	}
	if cmd.Flags().Changed("seed") {
		cfg.Generation.Seed = randomSeed
	}
	if cmd.Flags().Changed("valid-marker") {
		cfg.Generation.ValidMarker = validMarker
	}
	if cmd.Flags().Changed("annotate") {
		cfg.Annotate.Enabled = annotate
	}
}

func runGenerate(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	applyGenerationFlags(cmd)
	if interactive {
		if err := runInteractive(); err != nil {
			return err
		}
	}

	ui.PrintHeader("Generating Test Cases")
	start := time.Now()

	res, err := runPipeline(ctx, args[0], cfg.Annotate.Enabled)
	if err != nil {
		return err
	}
	printSummary(res.Suite, res.Coverage, res.Warnings, res.Annotations)
	ui.PrintInfo("")

	doc := export.NewDocument(res.Suite, res.Coverage, res.Annotations, cfg.ExportOptions())
	if err := writeDocument(doc, outputPath, outputFmt); err != nil {
		return err
	}

	if !noSave {
		if err := recordRun(ctx, res, args[0]); err != nil {
			ui.PrintWarning(fmt.Sprintf("Run not recorded: %v", err))
		}
	}

	ui.PrintInfo("")
	ui.PrintSuccess(fmt.Sprintf("Done in %s", ui.FormatDuration(time.Since(start))))
	if res.Suite.Sampled && cfg.Generation.Seed == 0 {
		ui.PrintInfo(fmt.Sprintf("Replay this sample with --seed %d", res.Suite.Seed))
	}
	return nil
}

// recordRun stores the run in the history database.
func recordRun(ctx context.Context, res *pipeline.Result, input string) error {
	store, err := openStorage(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	sourceName := input
	if abs, err := filepath.Abs(input); err == nil {
		sourceName = abs
	}

	uow, err := store.Begin(ctx)
	if err != nil {
		return err
	}
	if err := uow.Runs().Create(ctx, pipeline.NewRun(res, sourceName)); err != nil {
		uow.Rollback()
		return err
	}
	if err := uow.Commit(); err != nil {
		return err
	}

	ui.PrintSuccess(fmt.Sprintf("Recorded run %s", res.Suite.ID))
	return nil
}

// runInteractive prompts for the generation options.
func runInteractive() error {
	ui.PrintHeader("Interactive Configuration")

	maxPrompt := promptui.Prompt{
		Label:   "Maximum test cases",
		Default: strconv.Itoa(cfg.GenerationConfig().WithDefaults().MaxCases),
		Validate: func(s string) error {
			n, err := strconv.Atoi(s)
			if err != nil {
				return fmt.Errorf("enter a number")
			}
			if n <= 0 || n > domain.MaxIdentifierSpace {
				return fmt.Errorf("must be between 1 and %d", domain.MaxIdentifierSpace)
			}
			return nil
		},
	}
	result, err := runPrompt(maxPrompt.Run)
	if err != nil {
		return err
	}
	cfg.Generation.MaxCases, _ = strconv.Atoi(result)

	seedPrompt := promptui.Prompt{
		Label:   "Random seed (0 = random)",
		Default: strconv.FormatInt(cfg.Generation.Seed, 10),
		Validate: func(s string) error {
			if _, err := strconv.ParseInt(s, 10, 64); err != nil {
				return fmt.Errorf("enter an integer")
			}
			return nil
		},
	}
	result, err = runPrompt(seedPrompt.Run)
	if err != nil {
		return err
	}
	cfg.Generation.Seed, _ = strconv.ParseInt(result, 10, 64)

	formats := []string{string(export.FormatXLSX), string(export.FormatCSV), string(export.FormatJSON)}
	formatSelect := promptui.Select{
		Label: "Output format",
		Items: formats,
	}
	_, result, err = runSelect(formatSelect.Run)
	if err != nil {
		return err
	}
	outputFmt = result

	annotateSelect := promptui.Select{
		Label: "Annotate expected verdicts",
		Items: []string{"No", "Yes"},
	}
	idx, _, err := runSelect(annotateSelect.Run)
	if err != nil {
		return err
	}
	cfg.Annotate.Enabled = idx == 1

	return nil
}

func runPrompt(run func() (string, error)) (string, error) {
	result, err := run()
	if err != nil {
		if err == promptui.ErrInterrupt {
			os.Exit(0)
		}
		return "", err
	}
	return result, nil
}

func runSelect(run func() (int, string, error)) (int, string, error) {
	idx, result, err := run()
	if err != nil {
		if err == promptui.ErrInterrupt {
			os.Exit(0)
		}
		return 0, "", err
	}
	return idx, result, nil
}
