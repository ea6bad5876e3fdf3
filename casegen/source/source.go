// Package source loads equivalence classes from files.
//
// Structured files (JSON, YAML) list the classes explicitly. Tabular files
// (CSV) hold concrete records whose last column is the outcome; classes are
// derived from them and the records themselves become the test cases.
package source

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/example/casegen/casegen/domain"
)

// Format is the serialization of a source file.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatCSV  Format = "csv"
)

// Mode returns how a file of this format is interpreted.
func (f Format) Mode() domain.SourceMode {
	if f == FormatCSV {
		return domain.ModeTabular
	}
	return domain.ModeStructured
}

// ParseFormat maps a format name or file extension onto a Format.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(name, ".")) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "csv":
		return FormatCSV, nil
	}
	return "", &domain.UnsupportedFormatError{Format: name}
}

// DetectFormat derives the format from the file extension.
func DetectFormat(path string) (Format, error) {
	ext := filepath.Ext(path)
	if ext == "" {
		return "", &domain.UnsupportedFormatError{Format: path, Reason: "file has no extension"}
	}
	return ParseFormat(ext)
}

// Options controls loading.
type Options struct {
	// Format overrides extension-based detection when set.
	Format Format

	// ValidMarker is the outcome value of valid tabular records.
	// Default: "V"
	ValidMarker string
}

// Result is everything a source provides to the generator.
type Result struct {
	// Path is the file the result was loaded from, if any.
	Path string

	// Format is the serialization that was parsed.
	Format Format

	// Mode tells whether Cases were supplied by the source.
	Mode domain.SourceMode

	// Classes are the equivalence classes in source order.
	Classes []domain.EquivalenceClass

	// Variables is the variable order of tabular sources (column order).
	// Empty for structured sources, whose order comes from the classes.
	Variables []string

	// Cases are the records of a tabular source. Nil for structured sources.
	Cases []domain.TestCase
}

// LoadFile reads and parses a source file.
func LoadFile(path string, opts Options) (*Result, error) {
	format := opts.Format
	if format == "" {
		var err error
		format, err = DetectFormat(path)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read source %s: %w", path, err)
	}

	res, err := Load(bytes.NewReader(data), format, opts)
	if err != nil {
		return nil, err
	}
	res.Path = path
	return res, nil
}

// Load parses a source from r.
func Load(r io.Reader, format Format, opts Options) (*Result, error) {
	marker := opts.ValidMarker
	if marker == "" {
		marker = domain.DefaultConfig().ValidMarker
	}

	switch format {
	case FormatJSON, FormatYAML:
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("failed to read source: %w", err)
		}
		classes, err := ParseStructured(data, format)
		if err != nil {
			return nil, err
		}
		return &Result{Format: format, Mode: domain.ModeStructured, Classes: classes}, nil

	case FormatCSV:
		header, records, err := ReadCSV(r)
		if err != nil {
			return nil, err
		}
		classes, cases, err := DeriveTabular(header, records, marker)
		if err != nil {
			return nil, err
		}
		return &Result{
			Format:    format,
			Mode:      domain.ModeTabular,
			Classes:   classes,
			Variables: append([]string(nil), header[:len(header)-1]...),
			Cases:     cases,
		}, nil
	}
	return nil, &domain.UnsupportedFormatError{Format: string(format)}
}
