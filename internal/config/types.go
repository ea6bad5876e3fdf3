// Package config holds the casegen configuration file format and the layered
// loader that builds the effective configuration.
package config

import (
	"fmt"

	"github.com/example/casegen/casegen/domain"
	"github.com/example/casegen/casegen/export"
	"github.com/example/casegen/casegen/expect"
	"github.com/example/casegen/internal/logging"
)

// Config is the top-level configuration.
type Config struct {
	Generation GenerationSettings `yaml:"generation"`
	Export     ExportSettings     `yaml:"export"`
	Annotate   AnnotateSettings   `yaml:"annotate"`
	Storage    StorageSettings    `yaml:"storage"`
	Log        LogSettings        `yaml:"log"`
}

// GenerationSettings caps and seeds case generation.
type GenerationSettings struct {
	MaxCases    int    `yaml:"max_cases,omitempty"`
	Seed        int64  `yaml:"seed,omitempty"`
	ValidMarker string `yaml:"valid_marker,omitempty"`
}

// ExportSettings controls the written output.
type ExportSettings struct {
	Format           string `yaml:"format,omitempty"`
	Output           string `yaml:"output,omitempty"`
	Marker           string `yaml:"marker,omitempty"`
	CoverageSheet    string `yaml:"coverage_sheet,omitempty"`
	CasesSheet       string `yaml:"cases_sheet,omitempty"`
	AnnotationsSheet string `yaml:"annotations_sheet,omitempty"`
}

// AnnotateSettings controls the expected-outcome annotation step.
type AnnotateSettings struct {
	Enabled     bool `yaml:"enabled,omitempty"`
	Concurrency int  `yaml:"concurrency,omitempty"`
	Retries     int  `yaml:"retries,omitempty"`
}

// StorageSettings locates the run history database.
type StorageSettings struct {
	Path string `yaml:"path,omitempty"`
}

// LogSettings selects the log level and handler.
type LogSettings struct {
	Level  string `yaml:"level,omitempty"`
	Format string `yaml:"format,omitempty"`
}

// Validate checks the configuration for errors.
func (c Config) Validate() error {
	gen := c.GenerationConfig()
	if err := gen.Validate(); err != nil {
		return err
	}
	if _, err := export.ParseFormat(c.Export.Format); err != nil {
		return fmt.Errorf("%w: export.format: %w", domain.ErrInvalidConfig, err)
	}
	if c.Annotate.Concurrency < 0 {
		return fmt.Errorf("%w: annotate.concurrency must be positive", domain.ErrInvalidConfig)
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: log.level: %w", domain.ErrInvalidConfig, err)
	}
	if _, err := logging.ParseFormat(c.Log.Format); err != nil {
		return fmt.Errorf("%w: log.format: %w", domain.ErrInvalidConfig, err)
	}
	return nil
}

// GenerationConfig returns the generator configuration.
func (c Config) GenerationConfig() domain.GenerationConfig {
	return domain.GenerationConfig{
		MaxCases:    c.Generation.MaxCases,
		RandomSeed:  c.Generation.Seed,
		ValidMarker: c.Generation.ValidMarker,
	}
}

// ExportOptions returns the table layout options.
func (c Config) ExportOptions() export.Options {
	return export.Options{
		CoverageSheet:    c.Export.CoverageSheet,
		CasesSheet:       c.Export.CasesSheet,
		AnnotationsSheet: c.Export.AnnotationsSheet,
		Marker:           c.Export.Marker,
	}
}

// RunnerConfig returns the annotation runner configuration.
func (c Config) RunnerConfig() expect.RunnerConfig {
	return expect.RunnerConfig{
		Concurrency: c.Annotate.Concurrency,
		Retries:     c.Annotate.Retries,
	}
}
