package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func cells(values ...string) []Cell {
	out := make([]Cell, len(values))
	for i, v := range values {
		out[i] = newCell(v)
	}
	return out
}

func TestInferColumn(t *testing.T) {
	cases := []struct {
		name   string
		values []string
		want   ColumnType
	}{
		{"integers", []string{"1", "-2", "30"}, TypeInteger},
		{"integers with missing", []string{"1", "", "NA", "4"}, TypeInteger},
		{"decimal point widens", []string{"1", "2.5", "3"}, TypeFloat},
		{"exponent", []string{"1e3", "2"}, TypeFloat},
		{"one word makes text", []string{"1", "2", "abc"}, TypeText},
		{"booleans", []string{"true", "FALSE", "True"}, TypeBoolean},
		{"boolean and number", []string{"true", "1"}, TypeText},
		{"all missing", []string{"", "null"}, TypeText},
		{"no cells", nil, TypeText},
		{"padded numbers", []string{" 7", "8 "}, TypeInteger},
		{"infinity is text", []string{"1", "Inf"}, TypeText},
		{"int64 overflow is float", []string{"99999999999999999999"}, TypeFloat},
		{"dates are text", []string{"2025-09-16"}, TypeText},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, InferColumn(cells(tc.values...)))
		})
	}
}

func TestTypes_Deterministic(t *testing.T) {
	tbl := &Table{
		Columns: []string{"plate", "km", "litres"},
		Rows: [][]Cell{
			cells("AA-11-BB", "1200", "40.5"),
			cells("CC-22-DD", "800", "35"),
		},
	}
	first := tbl.Types()
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, tbl.Types())
	}
	assert.Equal(t, []ColumnType{TypeText, TypeInteger, TypeFloat}, first)
}

func TestProfile(t *testing.T) {
	tbl := &Table{
		Columns: []string{"fuel", "km"},
		Rows: [][]Cell{
			cells("diesel", "1"),
			cells("gasoline", "2"),
			cells("diesel", ""),
		},
	}
	p := tbl.Profile()
	assert.Equal(t, ColumnProfile{
		Name: "fuel", Type: TypeText, NonNull: 3, Unique: 2,
		Values: []string{"diesel", "gasoline"},
	}, p[0])
	assert.Equal(t, 2, p[1].NonNull)
	assert.Equal(t, 1, p[1].Missing)
	assert.Equal(t, TypeInteger, p[1].Type)
}

func TestProfile_TrimsBeforeCounting(t *testing.T) {
	tbl := &Table{
		Columns: []string{"km"},
		Rows:    [][]Cell{cells(" 7"), cells("7"), cells("7 "), cells("8")},
	}
	p := tbl.Profile()
	assert.Equal(t, TypeInteger, p[0].Type)
	assert.Equal(t, 4, p[0].NonNull)
	assert.Equal(t, 2, p[0].Unique)
	assert.Equal(t, []string{"7", "8"}, p[0].Values)
}

func TestProfile_HighCardinalityOmitsValues(t *testing.T) {
	tbl := &Table{Columns: []string{"id"}}
	for i := 0; i < 11; i++ {
		tbl.Rows = append(tbl.Rows, cells(string(rune('a'+i))))
	}
	p := tbl.Profile()
	assert.Equal(t, 11, p[0].Unique)
	assert.Nil(t, p[0].Values)
}
