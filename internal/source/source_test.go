package source

import (
	"context"
	"errors"
	"testing"
)

type stubFetcher struct {
	name string
	got  string
}

func (s *stubFetcher) Name() string { return s.name }

func (s *stubFetcher) Fetch(ctx context.Context, rawURL string) (*Document, error) {
	s.got = rawURL
	return &Document{Body: []byte(s.name)}, nil
}

func TestMux_DispatchByScheme(t *testing.T) {
	web := &stubFetcher{name: "web"}
	s3 := &stubFetcher{name: "s3"}
	m := NewMux()
	m.Register(web, "http", "https")
	m.Register(s3, "s3")

	doc, err := m.Fetch(context.Background(), "HTTPS://example.com/a.csv")
	if err != nil {
		t.Fatalf("fetch error: %v", err)
	}
	if string(doc.Body) != "web" || web.got != "HTTPS://example.com/a.csv" {
		t.Fatalf("expected web fetcher, got %q", doc.Body)
	}

	if _, err := m.Fetch(context.Background(), "s3://bucket/key.csv"); err != nil {
		t.Fatalf("fetch error: %v", err)
	}
	if s3.got != "s3://bucket/key.csv" {
		t.Fatalf("s3 fetcher not called, got %q", s3.got)
	}
}

func TestMux_UnknownScheme(t *testing.T) {
	_, err := NewMux().Fetch(context.Background(), "ftp://example.com/a.csv")
	if !errors.Is(err, ErrUnsupportedScheme) {
		t.Fatalf("expected ErrUnsupportedScheme, got %v", err)
	}
}
