package report

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/alexanderjulianmartinez/csvwatch/internal/table"
	"github.com/alexanderjulianmartinez/csvwatch/pkg/types"
)

func demoTable(t *testing.T) *table.Table {
	t.Helper()
	tbl, err := table.Parse(strings.NewReader("a,b\n1,2.5\n3,4.5\n"), table.Options{})
	if err != nil {
		t.Fatal(err)
	}
	return tbl
}

func TestSource_Demo(t *testing.T) {
	var buf bytes.Buffer
	Source(&buf, demoTable(t), 2)

	want := `Columns (2):
  - a
  - b

Sample data (first 2 rows):
   a    b
0  1  2.5
1  3  4.5

Data types:
a    integer
b    float
`
	if buf.String() != want {
		t.Fatalf("unexpected report:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestSource_Repeatable(t *testing.T) {
	tbl := demoTable(t)
	var first, second bytes.Buffer
	Source(&first, tbl, 2)
	Source(&second, tbl, 2)
	if first.String() != second.String() {
		t.Fatalf("report output differs between runs")
	}
}

func TestGrid_FewerRows(t *testing.T) {
	cols := []string{"name", "km"}
	one := [][]table.Cell{{{Value: "João"}, {Missing: true}}}
	got := Grid(cols, one)
	want := "   name   km\n0  João  NaN"
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}

	if got := Grid(cols, nil); got != "Empty table\nColumns: [name, km]" {
		t.Fatalf("unexpected empty grid %q", got)
	}
}

func TestGrid_WideIndex(t *testing.T) {
	rows := make([][]table.Cell, 11)
	for i := range rows {
		rows[i] = []table.Cell{{Value: "x"}}
	}
	lines := strings.Split(Grid([]string{"c"}, rows), "\n")
	if lines[0] != "    c" || lines[1] != "0   x" || lines[11] != "10  x" {
		t.Fatalf("unexpected alignment: %q", lines)
	}
}

func TestFailureAndSummary(t *testing.T) {
	var buf bytes.Buffer
	Header(&buf, "tires")
	Failure(&buf, "tires", errors.New("HTTP 404 Not Found"))
	Summary(&buf, []types.SummaryEntry{{Label: "demo", Rows: 2, Columns: 2}})

	want := "\n=== Analyzing tires ===\n" +
		"Error analyzing tires: HTTP 404 Not Found\n" +
		"\n=== Summary ===\n" +
		"Successfully loaded 1 CSV files\n" +
		"demo: 2 rows, 2 columns\n"
	if buf.String() != want {
		t.Fatalf("got %q want %q", buf.String(), want)
	}
}

func TestProfile(t *testing.T) {
	var buf bytes.Buffer
	Profile(&buf, demoTable(t))
	if !strings.Contains(buf.String(), "  - a: integer, 2 present, 0 missing, 2 unique [1, 3]\n") {
		t.Fatalf("unexpected profile:\n%s", buf.String())
	}
}
