package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/casegen/cmd/casegen/internal/ui"
	"github.com/example/casegen/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	Long: `Display the configuration after layering, in the config file format.

Layers, later ones win:
  1. built-in defaults
  2. ~/.config/casegen/config.yaml
  3. ./.casegen/config.yaml
  4. --config <file> (or CASEGEN_CONFIG)
  5. CASEGEN_DB and command-line flags

EXAMPLES:
  casegen config
  casegen config --config ci.yaml > effective.yaml`,
	Args: cobra.NoArgs,
	RunE: runConfig,
}

func runConfig(cmd *cobra.Command, args []string) error {
	data, err := config.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to render configuration: %w", err)
	}
	fmt.Fprint(ui.Output, string(data))

	if err := cfg.Validate(); err != nil {
		ui.PrintWarning(fmt.Sprintf("Configuration is invalid: %v", err))
	}
	return nil
}
