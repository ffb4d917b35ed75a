package sink

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/alexanderjulianmartinez/csvwatch/pkg/types"
)

type fakeSink struct {
	name   string
	err    error
	runs   []Run
	closed bool
}

func (f *fakeSink) Name() string { return f.name }

func (f *fakeSink) Record(ctx context.Context, run Run) error {
	f.runs = append(f.runs, run)
	return f.err
}

func (f *fakeSink) Close() error {
	f.closed = true
	return nil
}

func TestNewRun(t *testing.T) {
	start := time.Date(2025, 9, 16, 15, 53, 1, 0, time.FixedZone("WEST", 3600))
	run := NewRun(start, []types.SummaryEntry{{Label: "demo", Rows: 2, Columns: 2}})
	if _, err := uuid.Parse(run.ID); err != nil {
		t.Fatalf("expected uuid run id, got %q", run.ID)
	}
	if run.StartedAt.Location() != time.UTC || !run.StartedAt.Equal(start) {
		t.Fatalf("expected UTC start time, got %v", run.StartedAt)
	}
}

func TestRecordAll_TriesEverySink(t *testing.T) {
	bad := &fakeSink{name: "sql", err: errors.New("connection refused")}
	good := &fakeSink{name: "kafka"}
	err := RecordAll(context.Background(), []Sink{bad, good}, Run{ID: "r1"})
	if err == nil || err.Error() != "sql sink: connection refused" {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(good.runs) != 1 {
		t.Fatalf("expected second sink to be called")
	}

	if err := CloseAll([]Sink{bad, good}); err != nil {
		t.Fatalf("close error: %v", err)
	}
	if !bad.closed || !good.closed {
		t.Fatal("expected every sink to be closed")
	}
}
