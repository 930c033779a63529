package output

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// ErrUnsupportedFormat is returned for format names or file extensions the
// factory does not know.
var ErrUnsupportedFormat = errors.New("unsupported output format")

// Formatter renders a report to its writer.
type Formatter interface {
	Format(report *Report) error
}

// NewFormatter returns a formatter for the given format name.
func NewFormatter(format string, w io.Writer) (Formatter, error) {
	switch format {
	case "table":
		return NewTableFormatter(w), nil
	case "json":
		return NewJSONFormatter(w, true), nil
	case "jsonl":
		return NewJSONLFormatter(w), nil
	case "csv":
		return NewCSVFormatter(w), nil
	case "yaml":
		return NewYAMLFormatter(w), nil
	default:
		return nil, fmt.Errorf("%w: %s (supported: %v)", ErrUnsupportedFormat, format, SupportedFormats())
	}
}

// ForPath returns a formatter inferred from a file extension, for export
// paths like results.json, results.jsonl, results.csv, results.yaml.
func ForPath(path string, w io.Writer) (Formatter, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".json":
		return NewJSONFormatter(w, true), nil
	case ".jsonl":
		return NewJSONLFormatter(w), nil
	case ".csv":
		return NewCSVFormatter(w), nil
	case ".yaml", ".yml":
		return NewYAMLFormatter(w), nil
	default:
		return nil, fmt.Errorf("%w: %q (use .json, .jsonl, .csv, or .yaml)", ErrUnsupportedFormat, ext)
	}
}

// SupportedFormats lists the format names NewFormatter accepts.
func SupportedFormats() []string {
	return []string{"table", "json", "jsonl", "csv", "yaml"}
}
