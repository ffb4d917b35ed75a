// Package table parses delimited text into an in-memory table and infers a
// type for every column from its raw cells.
package table

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrNoColumns is returned for an empty body or a blank header line.
var ErrNoColumns = errors.New("no columns to parse")

// AutoDelimiter asks Parse to pick the separator from the header line.
const AutoDelimiter rune = -1

// Cell is one raw value. Missing cells carry no Value.
type Cell struct {
	Value   string
	Missing bool
}

func (c Cell) String() string {
	if c.Missing {
		return "NaN"
	}
	return c.Value
}

// Table is the parsed form of one CSV body. Column names keep header order
// and are not required to be unique.
type Table struct {
	Columns []string
	Rows    [][]Cell
}

func (t *Table) NumRows() int {
	return len(t.Rows)
}

func (t *Table) NumColumns() int {
	return len(t.Columns)
}

// Row returns row i keyed by column name. With duplicate names the last
// column wins; use Rows directly to see every cell.
func (t *Table) Row(i int) map[string]Cell {
	out := make(map[string]Cell, len(t.Columns))
	for j, name := range t.Columns {
		out[name] = t.Rows[i][j]
	}
	return out
}

// Column returns every cell of column j in row order.
func (t *Table) Column(j int) []Cell {
	out := make([]Cell, len(t.Rows))
	for i, row := range t.Rows {
		out[i] = row[j]
	}
	return out
}

// Head returns at most n leading rows.
func (t *Table) Head(n int) [][]Cell {
	if n < 0 {
		n = 0
	}
	if n > len(t.Rows) {
		n = len(t.Rows)
	}
	return t.Rows[:n]
}

type Options struct {
	// Delimiter of zero means comma. AutoDelimiter sniffs the header line.
	Delimiter rune
	// Encoding overrides the charset found in ContentType.
	Encoding    string
	ContentType string
}

// Parse reads a header row followed by data rows. Rows shorter than the
// header are padded with missing cells; longer rows are an error.
func Parse(r io.Reader, opts Options) (*Table, error) {
	data, err := decode(r, opts.Encoding, opts.ContentType)
	if err != nil {
		return nil, err
	}
	data = bytes.TrimPrefix(data, utf8BOM)
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrNoColumns
	}

	delim := opts.Delimiter
	switch delim {
	case 0:
		delim = ','
	case AutoDelimiter:
		delim = sniffDelimiter(data)
	}

	cr := csv.NewReader(bytes.NewReader(data))
	cr.Comma = delim
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrNoColumns
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	if isBlankRecord(header) {
		return nil, ErrNoColumns
	}

	t := &Table{Columns: make([]string, len(header))}
	for i, h := range header {
		t.Columns[i] = strings.TrimSpace(h)
	}

	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		if len(rec) > len(header) {
			line, _ := cr.FieldPos(0)
			return nil, fmt.Errorf("line %d: expected %d fields, saw %d", line, len(header), len(rec))
		}
		row := make([]Cell, len(header))
		for i := range row {
			if i < len(rec) {
				row[i] = newCell(rec[i])
			} else {
				row[i] = Cell{Missing: true}
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

var missingMarkers = map[string]bool{
	"":     true,
	"NA":   true,
	"N/A":  true,
	"NaN":  true,
	"nan":  true,
	"NULL": true,
	"null": true,
}

func newCell(raw string) Cell {
	if missingMarkers[strings.TrimSpace(raw)] {
		return Cell{Missing: true}
	}
	return Cell{Value: raw}
}

func isBlankRecord(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
