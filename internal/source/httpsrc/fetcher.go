package httpsrc

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/alexanderjulianmartinez/csvwatch/internal/source"
)

// Fetcher issues a bare GET per source. No headers, no retries.
type Fetcher struct {
	client *http.Client
}

// New returns a Fetcher. A zero timeout leaves the client without a deadline.
func New(timeout time.Duration) *Fetcher {
	return &Fetcher{client: &http.Client{Timeout: timeout}}
}

func (f *Fetcher) Name() string {
	return "http"
}

func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*source.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// drain so the connection can be reused
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &source.StatusError{Code: resp.StatusCode, Status: resp.Status}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return &source.Document{
		Body:        body,
		ContentType: resp.Header.Get("Content-Type"),
	}, nil
}
