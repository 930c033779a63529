package output

import (
	"io"

	"github.com/goccy/go-yaml"
)

// YAMLFormatter exports the report as a YAML sequence of records.
type YAMLFormatter struct {
	writer io.Writer
}

// NewYAMLFormatter creates a new YAML formatter.
func NewYAMLFormatter(w io.Writer) *YAMLFormatter {
	return &YAMLFormatter{writer: w}
}

// Format writes the report as YAML.
func (f *YAMLFormatter) Format(report *Report) error {
	enc := yaml.NewEncoder(f.writer, yaml.Indent(2))
	defer enc.Close()
	return enc.Encode(report.Records())
}
