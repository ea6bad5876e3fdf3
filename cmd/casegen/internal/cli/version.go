package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/casegen/cmd/casegen/internal/ui"
)

const (
	version = "1.0.0"
	banner  = `
   ___ __ _ ___  ___  __ _  ___ _ __
  / __/ _' / __|/ _ \/ _' |/ _ \ '_ \
 | (_| (_| \__ \  __/ (_| |  __/ | | |
  \___\__,_|___/\___|\__, |\___|_| |_|
                     |___/
`
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Long:  `Display the version of casegen.`,
	Run:   runVersion,
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

func runVersion(cmd *cobra.Command, args []string) {
	fmt.Fprint(ui.Output, banner+"\n")
	ui.PrintInfo(fmt.Sprintf("Version: %s", version))
	ui.PrintInfo("Equivalence class test case generator")
	ui.PrintInfo("")
	ui.PrintInfo("For help: casegen --help")
}
