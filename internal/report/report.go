// Package report renders the plain-text schema summary written to stdout.
package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/alexanderjulianmartinez/csvwatch/internal/table"
	"github.com/alexanderjulianmartinez/csvwatch/pkg/types"
)

func Header(w io.Writer, label string) {
	fmt.Fprintf(w, "\n=== Analyzing %s ===\n", label)
}

func Failure(w io.Writer, label string, err error) {
	fmt.Fprintf(w, "Error analyzing %s: %v\n", label, err)
}

// Source writes the columns, sample and types sections for one table.
func Source(w io.Writer, t *table.Table, sampleRows int) {
	fmt.Fprintf(w, "Columns (%d):\n", t.NumColumns())
	for _, c := range t.Columns {
		fmt.Fprintf(w, "  - %s\n", c)
	}

	fmt.Fprintf(w, "\nSample data (first %d rows):\n", sampleRows)
	fmt.Fprintln(w, Grid(t.Columns, t.Head(sampleRows)))

	fmt.Fprintf(w, "\nData types:\n")
	colTypes := t.Types()
	width := 0
	for _, c := range t.Columns {
		width = max(width, utf8.RuneCountInString(c))
	}
	for j, c := range t.Columns {
		fmt.Fprintf(w, "%s    %s\n", padRight(c, width), colTypes[j])
	}
}

// Profile writes per-column counts, listing the values of low-cardinality
// columns.
func Profile(w io.Writer, t *table.Table) {
	fmt.Fprintf(w, "\nColumn profile:\n")
	for _, p := range t.Profile() {
		fmt.Fprintf(w, "  - %s: %s, %d present, %d missing, %d unique", p.Name, p.Type, p.NonNull, p.Missing, p.Unique)
		if len(p.Values) > 0 {
			fmt.Fprintf(w, " [%s]", strings.Join(p.Values, ", "))
		}
		fmt.Fprintln(w)
	}
}

func Summary(w io.Writer, entries []types.SummaryEntry) {
	fmt.Fprintf(w, "\n=== Summary ===\n")
	fmt.Fprintf(w, "Successfully loaded %d CSV files\n", len(entries))
	for _, e := range entries {
		fmt.Fprintf(w, "%s: %d rows, %d columns\n", e.Label, e.Rows, e.Columns)
	}
}

// Grid renders rows under their column names, right-aligned, each row led
// by its zero-based index. It has no trailing newline.
func Grid(columns []string, rows [][]table.Cell) string {
	if len(rows) == 0 {
		return "Empty table\nColumns: [" + strings.Join(columns, ", ") + "]"
	}

	indexWidth := len(strconv.Itoa(len(rows) - 1))
	widths := make([]int, len(columns))
	for j, c := range columns {
		widths[j] = utf8.RuneCountInString(c)
		for _, row := range rows {
			widths[j] = max(widths[j], utf8.RuneCountInString(row[j].String()))
		}
	}

	var b strings.Builder
	b.WriteString(strings.Repeat(" ", indexWidth))
	for j, c := range columns {
		b.WriteString("  ")
		b.WriteString(padLeft(c, widths[j]))
	}
	for i, row := range rows {
		b.WriteByte('\n')
		b.WriteString(padRight(strconv.Itoa(i), indexWidth))
		for j, cell := range row {
			b.WriteString("  ")
			b.WriteString(padLeft(cell.String(), widths[j]))
		}
	}
	return b.String()
}

func padLeft(s string, width int) string {
	if n := utf8.RuneCountInString(s); n < width {
		return strings.Repeat(" ", width-n) + s
	}
	return s
}

func padRight(s string, width int) string {
	if n := utf8.RuneCountInString(s); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}
