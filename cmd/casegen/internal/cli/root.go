package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/casegen/internal/config"
	"github.com/example/casegen/internal/logging"
)

var (
	configPath string
	dbPath     string
	logLevel   string
	logFormat  string

	// Effective configuration and logger, set before any command runs.
	cfg    config.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "casegen",
	Short: "Generate test cases and coverage matrices from equivalence classes",
	Long: `casegen turns equivalence classes into concrete test cases.

Classes are read from a structured file (JSON or YAML) listing each class with
its variable, label, state and representative values, or derived from a CSV of
concrete records whose last column is the outcome (V = valid).

For structured input every combination of one representative per variable is
generated; when there are more combinations than --max-cases, a uniform random
sample is taken. CSV records are used as the test cases directly.

Each run produces two tables:
  - CasosPrueba:         one row per test case (CP001, CP002, ...)
  - ClasesEquivalencia:  one row per class, marking the cases that cover it

WORKFLOW:
  1. casegen preview classes.json      (inspect on the terminal)
  2. casegen generate classes.json     (write formulario_casos_prueba.xlsx)
  3. casegen history                   (list recorded runs)
  4. casegen show <run-id> --export out.csv

EXAMPLES:
  # Cap at 6 cases with a fixed seed
  casegen generate classes.json --max-cases 6 --seed 42

  # Derive classes from recorded outcomes and export as CSV
  casegen generate login.csv -f csv -o login.csv

  # Annotate each case with its expected verdict
  casegen generate classes.yaml --annotate`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadConfig,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", getEnvOrDefault("CASEGEN_CONFIG", ""), "config file (layered over user and project config)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "run history database path (env "+config.EnvDBPath+")")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format (text or json)")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(forgetCmd)
	rootCmd.AddCommand(configCmd)
}

// loadConfig builds the effective configuration: config files first, then
// persistent flags.
func loadConfig(cmd *cobra.Command, args []string) error {
	loaded, err := config.Load(configPath)
	if err != nil {
		return err
	}
	cfg = loaded

	if dbPath != "" {
		cfg.Storage.Path = dbPath
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if logFormat != "" {
		cfg.Log.Format = logFormat
	}

	logger, err = logging.New(cfg.Log.Level, cfg.Log.Format, os.Stderr)
	if err != nil {
		return fmt.Errorf("invalid logging configuration: %w", err)
	}
	slog.SetDefault(logger)
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
