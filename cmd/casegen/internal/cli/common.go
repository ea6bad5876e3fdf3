package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/example/casegen/casegen/domain"
	"github.com/example/casegen/casegen/export"
	"github.com/example/casegen/casegen/expect"
	"github.com/example/casegen/casegen/pipeline"
	"github.com/example/casegen/casegen/source"
	"github.com/example/casegen/cmd/casegen/internal/ui"
	"github.com/example/casegen/internal/storage/sqlite"
	"github.com/example/casegen/pkg/id"
)

// runIDArgs rejects arguments that are not run identifiers before any
// storage is opened.
func runIDArgs(cmd *cobra.Command, args []string) error {
	for _, arg := range args {
		if !id.IsRunID(arg) {
			return fmt.Errorf("%q is not a run id (expected %s followed by 8 hex digits)\nUse 'casegen history' to list recorded runs", arg, id.RunPrefix)
		}
	}
	return nil
}

// signalContext returns a context cancelled on Ctrl+C or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// openStorage opens and migrates the run history database.
func openStorage(ctx context.Context) (*sqlite.SQLiteStorage, error) {
	store, err := sqlite.Open(ctx, cfg.Storage.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open run history %s: %w", cfg.Storage.Path, err)
	}
	return store, nil
}

// runPipeline loads path and runs generation with the effective config.
func runPipeline(ctx context.Context, path string, annotate bool) (*pipeline.Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	ui.PrintStep(fmt.Sprintf("Loading %s", path))
	src, err := source.LoadFile(path, source.Options{ValidMarker: cfg.Generation.ValidMarker})
	if err != nil {
		return nil, err
	}
	ui.PrintSuccess(fmt.Sprintf("Loaded %d classes (%s, %s mode)", len(src.Classes), src.Format, src.Mode))

	opts := pipeline.Options{
		Config:      cfg.GenerationConfig(),
		Logger:      logger,
		IDGenerator: id.RunID,
	}
	if annotate {
		opts.Annotator = expect.NewRuleAnnotator()
		opts.Annotation = cfg.RunnerConfig()
	}

	ui.PrintStep("Generating test cases")
	res, err := pipeline.New(opts).Run(ctx, src)
	if err != nil {
		return nil, err
	}
	ui.PrintSuccess(fmt.Sprintf("Generated %d test cases", res.Suite.NumCases()))
	return res, nil
}

// printSummary reports the outcome of a run.
func printSummary(suite *domain.TestSuite, matrix *domain.CoverageMatrix, warnings []domain.StateCollision, annotations []domain.Annotation) {
	ui.PrintInfo(fmt.Sprintf("Run: %s", suite.ID))
	ui.PrintInfo(fmt.Sprintf("Variables: %s", strings.Join(suite.Variables, ", ")))

	switch {
	case suite.Mode == domain.ModeTabular:
		ui.PrintInfo(fmt.Sprintf("Cases: %d (taken from records)", suite.NumCases()))
	case suite.Sampled:
		ui.PrintInfo(fmt.Sprintf("Cases: %d sampled from %d combinations (seed %d)",
			suite.NumCases(), suite.ProductSize, suite.Seed))
	default:
		ui.PrintInfo(fmt.Sprintf("Cases: %d (all combinations)", suite.NumCases()))
	}

	uncovered := matrix.Uncovered()
	ui.PrintCoverage(matrix.NumClasses()-len(uncovered), matrix.NumClasses())
	for _, row := range uncovered {
		c := matrix.Entries[row].Class
		ui.PrintWarning(fmt.Sprintf("No case covers %s (%s)", c.Label, c.Variable))
	}

	for _, w := range warnings {
		states := make([]string, len(w.States))
		for i, s := range w.States {
			states[i] = s.String()
		}
		ui.PrintWarning(fmt.Sprintf("Value %q of %s is declared as %s",
			string(w.Value), w.Variable, strings.Join(states, " and ")))
	}

	if len(annotations) > 0 {
		counts := make(map[domain.Verdict]int)
		failed := 0
		for _, a := range annotations {
			if a.Failed() {
				failed++
				continue
			}
			counts[a.Verdict]++
		}
		ui.PrintInfo(fmt.Sprintf("Expected: %d accept, %d reject, %d unknown",
			counts[domain.VerdictAccept], counts[domain.VerdictReject], counts[domain.VerdictUnknown]))
		if failed > 0 {
			ui.PrintWarning(fmt.Sprintf("%d cases could not be annotated", failed))
		}
	}
}

// resolveOutput picks the output path and format. An explicit format wins;
// otherwise the output extension decides, falling back to the configured
// format. A default output name takes the extension of the chosen format.
func resolveOutput(output, format string) (string, export.Format, error) {
	explicitOutput := output != ""
	if !explicitOutput {
		output = cfg.Export.Output
	}

	var f export.Format
	var err error
	switch {
	case format != "":
		f, err = export.ParseFormat(format)
	case explicitOutput && filepath.Ext(output) != "":
		f, err = export.FormatForPath(output)
	default:
		f, err = export.ParseFormat(cfg.Export.Format)
	}
	if err != nil {
		return "", "", err
	}

	if !explicitOutput || filepath.Ext(output) == "" {
		output = strings.TrimSuffix(output, filepath.Ext(output)) + "." + string(f)
	}
	return output, f, nil
}

// writeDocument exports doc and reports the files written.
func writeDocument(doc export.Document, output, format string) error {
	path, f, err := resolveOutput(output, format)
	if err != nil {
		return err
	}

	ui.PrintStep(fmt.Sprintf("Writing %s", f))
	files, err := export.ExportFile(path, f, doc)
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}
	for _, file := range files {
		ui.PrintSuccess(fmt.Sprintf("Wrote %s", file))
	}
	return nil
}
