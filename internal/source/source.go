// Package source retrieves the raw bytes of a CSV resource. Concrete
// fetchers live in subpackages and are selected by URL scheme.
package source

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Spec names one resource in a batch.
type Spec struct {
	Label string
	URL   string
	// Encoding overrides the charset announced by the server.
	Encoding string
	// Delimiter of zero means comma; AutoDelimiter sniffs the header line.
	Delimiter rune
}

// Document is the fetched body together with what the server said about it.
type Document struct {
	Body        []byte
	ContentType string
}

type Fetcher interface {
	Name() string
	Fetch(ctx context.Context, rawURL string) (*Document, error)
}

// StatusError reports a non-success response from the remote side.
type StatusError struct {
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	if e.Status != "" {
		return fmt.Sprintf("HTTP %s", e.Status)
	}
	return fmt.Sprintf("HTTP %d", e.Code)
}

// AutoDelimiter matches table.AutoDelimiter.
const AutoDelimiter rune = -1

var ErrUnsupportedScheme = errors.New("unsupported url scheme")

// Mux dispatches to a Fetcher by URL scheme.
type Mux struct {
	fetchers map[string]Fetcher
}

func NewMux() *Mux {
	return &Mux{fetchers: map[string]Fetcher{}}
}

func (m *Mux) Register(f Fetcher, schemes ...string) {
	for _, s := range schemes {
		m.fetchers[strings.ToLower(s)] = f
	}
}

func (m *Mux) Name() string {
	return "mux"
}

func (m *Mux) Fetch(ctx context.Context, rawURL string) (*Document, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse url: %w", err)
	}
	f, ok := m.fetchers[strings.ToLower(u.Scheme)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedScheme, u.Scheme)
	}
	return f.Fetch(ctx, rawURL)
}
