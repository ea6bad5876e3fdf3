package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ExportFile writes doc to path and returns the files written.
// XLSX and JSON produce one file. CSV produces one file per table named
// <stem>.<table>.csv next to path. Every file is written to a temporary file
// first and only renamed into place once all of them are complete, so a
// failed export never leaves a partial result behind.
func ExportFile(path string, format Format, doc Document) ([]string, error) {
	switch format {
	case FormatXLSX:
		if err := writeAtomic(path, func(w io.Writer) error { return WriteXLSX(w, doc) }); err != nil {
			return nil, err
		}
		return []string{path}, nil

	case FormatJSON:
		if err := writeAtomic(path, func(w io.Writer) error { return WriteJSON(w, doc) }); err != nil {
			return nil, err
		}
		return []string{path}, nil

	case FormatCSV:
		staged := make([]stagedFile, 0, len(doc.Tables))
		defer func() {
			for _, f := range staged {
				os.Remove(f.tmp)
			}
		}()

		for _, t := range doc.Tables {
			p := CSVPath(path, t.Name)
			f, err := stage(p, func(w io.Writer) error { return WriteCSV(w, t) })
			if err != nil {
				return nil, err
			}
			staged = append(staged, f)
		}

		written := make([]string, 0, len(staged))
		for _, f := range staged {
			if err := f.commit(); err != nil {
				return written, err
			}
			written = append(written, f.path)
		}
		return written, nil
	}
	return nil, fmt.Errorf("unknown output format %q", format)
}

// CSVPath returns the file name used for one table of a CSV export.
func CSVPath(path, table string) string {
	stem := strings.TrimSuffix(path, filepath.Ext(path))
	return fmt.Sprintf("%s.%s.csv", stem, table)
}

// stagedFile is a complete temporary file waiting to replace path.
type stagedFile struct {
	tmp  string
	path string
}

func (f stagedFile) commit() error {
	if err := os.Rename(f.tmp, f.path); err != nil {
		return fmt.Errorf("failed to move %s into place: %w", f.path, err)
	}
	return nil
}

func writeAtomic(path string, write func(io.Writer) error) error {
	f, err := stage(path, write)
	if err != nil {
		return err
	}
	if err := f.commit(); err != nil {
		os.Remove(f.tmp)
		return err
	}
	return nil
}

// stage writes a temporary file next to path. The temporary file is removed
// when writing fails.
func stage(path string, write func(io.Writer) error) (stagedFile, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return stagedFile{}, fmt.Errorf("failed to create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return stagedFile{}, fmt.Errorf("failed to create temp file: %w", err)
	}
	f := stagedFile{tmp: tmp.Name(), path: path}

	if err := write(tmp); err != nil {
		tmp.Close()
		os.Remove(f.tmp)
		return stagedFile{}, fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(f.tmp)
		return stagedFile{}, fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(f.tmp, 0o644); err != nil {
		os.Remove(f.tmp)
		return stagedFile{}, fmt.Errorf("failed to set permissions on %s: %w", path, err)
	}
	return f, nil
}
