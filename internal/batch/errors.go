package batch

import (
	"errors"
	"fmt"

	"github.com/alexanderjulianmartinez/csvwatch/internal/source"
)

// FetchError covers transport failures, unknown schemes and non-success
// statuses.
type FetchError struct {
	Label string
	URL   string
	Err   error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.Label, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// StatusCode returns the remote status, or 0 when the request never got a
// response.
func (e *FetchError) StatusCode() int {
	var se *source.StatusError
	if errors.As(e.Err, &se) {
		return se.Code
	}
	return 0
}

// ParseError means the body arrived but could not be read as a table.
type ParseError struct {
	Label string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.Label, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
