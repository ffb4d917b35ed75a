package table

import (
	"math"
	"strconv"
	"strings"
)

type ColumnType string

const (
	TypeInteger ColumnType = "integer"
	TypeFloat   ColumnType = "float"
	TypeBoolean ColumnType = "boolean"
	TypeText    ColumnType = "text"
)

// InferColumn returns the narrowest type that holds every non-missing cell.
// Integers widen to float; any other mix, or no values at all, is text.
func InferColumn(cells []Cell) ColumnType {
	var current ColumnType
	for _, c := range cells {
		if c.Missing {
			continue
		}
		current = widen(current, classify(c.Value))
		if current == TypeText {
			return TypeText
		}
	}
	if current == "" {
		return TypeText
	}
	return current
}

// Types returns the inferred type of every column in header order.
func (t *Table) Types() []ColumnType {
	out := make([]ColumnType, len(t.Columns))
	for j := range t.Columns {
		out[j] = InferColumn(t.Column(j))
	}
	return out
}

func classify(raw string) ColumnType {
	s := strings.TrimSpace(raw)
	if _, err := strconv.ParseInt(s, 10, 64); err == nil {
		return TypeInteger
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsInf(f, 0) && !math.IsNaN(f) {
		return TypeFloat
	}
	if strings.EqualFold(s, "true") || strings.EqualFold(s, "false") {
		return TypeBoolean
	}
	return TypeText
}

func widen(a, b ColumnType) ColumnType {
	switch {
	case a == "":
		return b
	case a == b:
		return a
	case isNumeric(a) && isNumeric(b):
		return TypeFloat
	default:
		return TypeText
	}
}

func isNumeric(t ColumnType) bool {
	return t == TypeInteger || t == TypeFloat
}
