// Package filesrc reads file:// sources from the local disk.
package filesrc

import (
	"context"
	"fmt"
	"net/url"
	"os"

	"github.com/alexanderjulianmartinez/csvwatch/internal/source"
)

type Fetcher struct{}

func New() *Fetcher {
	return &Fetcher{}
}

func (f *Fetcher) Name() string {
	return "file"
}

func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*source.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse url: %w", err)
	}
	if u.Path == "" {
		return nil, fmt.Errorf("file url %q has no path", rawURL)
	}
	body, err := os.ReadFile(u.Path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", u.Path, err)
	}
	return &source.Document{Body: body}, nil
}
