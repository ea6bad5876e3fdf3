package main

import (
	"os"

	"github.com/example/casegen/cmd/casegen/internal/cli"
	"github.com/example/casegen/cmd/casegen/internal/ui"
)

func main() {
	if err := cli.Execute(); err != nil {
		ui.PrintError(err.Error())
		os.Exit(1)
	}
}
