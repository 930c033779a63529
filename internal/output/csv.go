package output

import (
	"encoding/csv"
	"io"
)

var csvHeader = []string{"domain", "status", "check_method", "type", "timestamp", "run_id"}

// CSVFormatter exports the report as CSV with a header row.
type CSVFormatter struct {
	writer io.Writer
}

// NewCSVFormatter creates a new CSV formatter.
func NewCSVFormatter(w io.Writer) *CSVFormatter {
	return &CSVFormatter{writer: w}
}

// Format writes the report as CSV.
func (f *CSVFormatter) Format(report *Report) error {
	w := csv.NewWriter(f.writer)
	if err := w.Write(csvHeader); err != nil {
		return err
	}
	for _, r := range report.Records() {
		row := []string{r.Domain, r.Status, r.CheckMethod, r.Type, r.Timestamp, r.RunID}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
