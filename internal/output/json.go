package output

import (
	"encoding/json"
	"io"
)

// JSONFormatter exports the report as a JSON array of records.
type JSONFormatter struct {
	writer io.Writer
	indent bool
}

// NewJSONFormatter creates a new JSON formatter. If indent is true, the
// output is pretty-printed.
func NewJSONFormatter(w io.Writer, indent bool) *JSONFormatter {
	return &JSONFormatter{writer: w, indent: indent}
}

// Format writes the report as JSON.
func (f *JSONFormatter) Format(report *Report) error {
	records := report.Records()

	var data []byte
	var err error
	if f.indent {
		data, err = json.MarshalIndent(records, "", "  ")
	} else {
		data, err = json.Marshal(records)
	}
	if err != nil {
		return err
	}

	if _, err := f.writer.Write(data); err != nil {
		return err
	}
	_, err = f.writer.Write([]byte("\n"))
	return err
}

// JSONLFormatter exports the report as JSON Lines, one record per line.
type JSONLFormatter struct {
	writer io.Writer
}

// NewJSONLFormatter creates a new JSONL formatter.
func NewJSONLFormatter(w io.Writer) *JSONLFormatter {
	return &JSONLFormatter{writer: w}
}

// Format writes each record as a single JSON line.
func (f *JSONLFormatter) Format(report *Report) error {
	enc := json.NewEncoder(f.writer)
	for _, record := range report.Records() {
		if err := enc.Encode(record); err != nil {
			return err
		}
	}
	return nil
}
