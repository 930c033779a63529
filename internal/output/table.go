package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/domainscout-dev/domainscout/internal/check"
)

// TableFormatter renders a report as a human-readable table with a
// one-line summary.
type TableFormatter struct {
	writer io.Writer
}

// NewTableFormatter creates a new table formatter.
func NewTableFormatter(w io.Writer) *TableFormatter {
	return &TableFormatter{writer: w}
}

// Format writes the report as a table.
func (f *TableFormatter) Format(report *Report) error {
	results := report.Sorted()
	if len(results) == 0 {
		_, err := fmt.Fprintln(f.writer, "No domains checked.")
		return err
	}

	hasHacks := report.HasHacks()

	header := []string{"DOMAIN", "STATUS"}
	if hasHacks {
		header = append(header, "TYPE", "READS AS")
	}

	rows := make([][]string, 0, len(results))
	for _, r := range results {
		row := []string{r.Domain, string(r.Status)}
		if hasHacks {
			meta := report.Meta[r.Domain]
			kind := meta.Kind
			if kind == "" {
				kind = check.KindExact
			}
			row = append(row, string(kind), meta.Visual)
		}
		rows = append(rows, row)
	}

	widths := columnWidths(header, rows)
	if err := f.writeRow(header, widths); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(f.writer, strings.Repeat("─", lineWidth(widths))); err != nil {
		return err
	}
	for _, row := range rows {
		if err := f.writeRow(row, widths); err != nil {
			return err
		}
	}

	s := report.Summarize()
	_, err := fmt.Fprintf(f.writer, "\nTotal: %d | Available: %d | Registered: %d | Unknown: %d\n",
		s.Total, s.Available, s.Registered, s.Unknown)
	return err
}

func (f *TableFormatter) writeRow(cells []string, widths []int) error {
	parts := make([]string, len(cells))
	for i, cell := range cells {
		parts[i] = pad(cell, widths[i])
	}
	_, err := fmt.Fprintln(f.writer, strings.TrimRight(strings.Join(parts, "  "), " "))
	return err
}

func columnWidths(header []string, rows [][]string) []int {
	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}
	return widths
}

func lineWidth(widths []int) int {
	total := 2 * (len(widths) - 1)
	for _, w := range widths {
		total += w
	}
	return total
}

func pad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}
