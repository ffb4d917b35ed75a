package table

import "strings"

// maxListedValues caps how many distinct values a profile spells out.
const maxListedValues = 10

type ColumnProfile struct {
	Name    string
	Type    ColumnType
	NonNull int
	Missing int
	Unique  int
	// Values lists the distinct values in first-seen order when there are
	// at most maxListedValues of them.
	Values []string
}

// Profile summarizes every column: counts of present, missing and distinct
// values, and the value set itself for low-cardinality columns.
func (t *Table) Profile() []ColumnProfile {
	out := make([]ColumnProfile, len(t.Columns))
	for j, name := range t.Columns {
		cells := t.Column(j)
		p := ColumnProfile{Name: name, Type: InferColumn(cells)}
		seen := map[string]bool{}
		var order []string
		for _, c := range cells {
			if c.Missing {
				p.Missing++
				continue
			}
			p.NonNull++
			v := strings.TrimSpace(c.Value)
			if !seen[v] {
				seen[v] = true
				order = append(order, v)
			}
		}
		p.Unique = len(order)
		if p.Unique <= maxListedValues {
			p.Values = order
		}
		out[j] = p
	}
	return out
}
