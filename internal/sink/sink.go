// Package sink hands the final tally of a batch to external systems.
package sink

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/alexanderjulianmartinez/csvwatch/pkg/types"
)

// Run is one batch's tally, stamped so repeated runs can be told apart.
type Run struct {
	ID        string
	StartedAt time.Time
	Entries   []types.SummaryEntry
}

func NewRun(startedAt time.Time, entries []types.SummaryEntry) Run {
	return Run{
		ID:        uuid.NewString(),
		StartedAt: startedAt.UTC(),
		Entries:   entries,
	}
}

type Sink interface {
	Name() string
	Record(ctx context.Context, run Run) error
	Close() error
}

// RecordAll hands run to every sink. Every sink is tried; the errors are
// joined.
func RecordAll(ctx context.Context, sinks []Sink, run Run) error {
	var errs []error
	for _, s := range sinks {
		if err := s.Record(ctx, run); err != nil {
			errs = append(errs, fmt.Errorf("%s sink: %w", s.Name(), err))
		}
	}
	return errors.Join(errs...)
}

func CloseAll(sinks []Sink) error {
	var errs []error
	for _, s := range sinks {
		errs = append(errs, s.Close())
	}
	return errors.Join(errs...)
}
