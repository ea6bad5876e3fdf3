package config

import (
	"github.com/example/casegen/casegen/domain"
	"github.com/example/casegen/casegen/export"
	"github.com/example/casegen/casegen/expect"
)

// DefaultDBPath is the run history database used when nothing else is set.
const DefaultDBPath = "./.casegen/history.db"

// DefaultConfig returns the built-in configuration.
func DefaultConfig() Config {
	gen := domain.DefaultConfig()
	runner := expect.DefaultRunnerConfig()
	return Config{
		Generation: GenerationSettings{
			MaxCases:    gen.MaxCases,
			ValidMarker: gen.ValidMarker,
		},
		Export: ExportSettings{
			Format:           string(export.FormatXLSX),
			Output:           export.DefaultFileName,
			Marker:           export.DefaultMarker,
			CoverageSheet:    export.DefaultCoverageSheet,
			CasesSheet:       export.DefaultCasesSheet,
			AnnotationsSheet: export.DefaultAnnotationsSheet,
		},
		Annotate: AnnotateSettings{
			Concurrency: runner.Concurrency,
			Retries:     runner.Retries,
		},
		Storage: StorageSettings{
			Path: DefaultDBPath,
		},
		Log: LogSettings{
			Level:  "warn",
			Format: "text",
		},
	}
}
