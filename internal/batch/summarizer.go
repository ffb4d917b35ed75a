// Package batch drives the fetch, parse and report loop over an ordered set
// of sources. One failing source never stops the rest.
package batch

import (
	"bytes"
	"context"
	"io"
	"log/slog"

	"github.com/alexanderjulianmartinez/csvwatch/internal/report"
	"github.com/alexanderjulianmartinez/csvwatch/internal/source"
	"github.com/alexanderjulianmartinez/csvwatch/internal/table"
	"github.com/alexanderjulianmartinez/csvwatch/pkg/types"
)

type Options struct {
	SampleRows int
	// Profile appends per-column counts to every report.
	Profile bool
}

type Summarizer struct {
	fetcher source.Fetcher
	out     io.Writer
	log     *slog.Logger
	opts    Options
}

func New(fetcher source.Fetcher, out io.Writer, log *slog.Logger, opts Options) *Summarizer {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Summarizer{fetcher: fetcher, out: out, log: log, opts: opts}
}

// Outcome is what one source produced: a table or an error, never both.
type Outcome struct {
	Source source.Spec
	Table  *table.Table
	Err    error
}

func (o Outcome) OK() bool {
	return o.Err == nil
}

type Result struct {
	Outcomes []Outcome
}

// Entries returns the summary rows for the sources that succeeded, in batch
// order.
func (r *Result) Entries() []types.SummaryEntry {
	var out []types.SummaryEntry
	for _, o := range r.Outcomes {
		if !o.OK() {
			continue
		}
		out = append(out, types.SummaryEntry{
			Label:   o.Source.Label,
			Rows:    o.Table.NumRows(),
			Columns: o.Table.NumColumns(),
		})
	}
	return out
}

func (r *Result) Failed() int {
	n := 0
	for _, o := range r.Outcomes {
		if !o.OK() {
			n++
		}
	}
	return n
}

// Summarize fetches and parses one source and prints its report. The header
// line is printed before anything can fail.
func (s *Summarizer) Summarize(ctx context.Context, src source.Spec) (*table.Table, error) {
	report.Header(s.out, src.Label)
	log := s.log.With("label", src.Label, "url", src.URL)

	log.Debug("fetching source")
	doc, err := s.fetcher.Fetch(ctx, src.URL)
	if err != nil {
		return nil, &FetchError{Label: src.Label, URL: src.URL, Err: err}
	}

	t, err := table.Parse(bytes.NewReader(doc.Body), table.Options{
		Delimiter:   src.Delimiter,
		Encoding:    src.Encoding,
		ContentType: doc.ContentType,
	})
	if err != nil {
		return nil, &ParseError{Label: src.Label, Err: err}
	}
	log.Debug("source parsed", "bytes", len(doc.Body), "rows", t.NumRows(), "columns", t.NumColumns())

	report.Source(s.out, t, s.opts.SampleRows)
	if s.opts.Profile {
		report.Profile(s.out, t)
	}
	return t, nil
}

// Run processes sources in order, then prints the summary block.
func (s *Summarizer) Run(ctx context.Context, sources []source.Spec) *Result {
	res := &Result{Outcomes: make([]Outcome, 0, len(sources))}
	for _, src := range sources {
		t, err := s.Summarize(ctx, src)
		if err != nil {
			s.log.Warn("source failed", "label", src.Label, "error", err)
			report.Failure(s.out, src.Label, cause(err))
		}
		res.Outcomes = append(res.Outcomes, Outcome{Source: src, Table: t, Err: err})
	}
	report.Summary(s.out, res.Entries())
	return res
}

// cause strips the FetchError/ParseError wrapper so the printed line reads
// "Error analyzing x: <reason>" without repeating the label.
func cause(err error) error {
	switch e := err.(type) {
	case *FetchError:
		return e.Err
	case *ParseError:
		return e.Err
	}
	return err
}
