package table

import (
	"bytes"
	"fmt"
	"io"
	"mime"
	"unicode/utf8"

	"golang.org/x/net/html/charset"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// decode returns the body as UTF-8. An explicit encoding wins, then a
// charset parameter on the content type. Undeclared bodies that are not
// valid UTF-8 fall back to charset detection.
func decode(r io.Reader, encoding, contentType string) ([]byte, error) {
	if encoding != "" {
		enc, _ := charset.Lookup(encoding)
		if enc == nil {
			return nil, fmt.Errorf("unknown encoding %q", encoding)
		}
		return readAll(enc.NewDecoder().Reader(r))
	}

	if declaresCharset(contentType) {
		dr, err := charset.NewReader(r, contentType)
		if err != nil {
			return nil, fmt.Errorf("decode body: %w", err)
		}
		return readAll(dr)
	}

	data, err := readAll(r)
	if err != nil {
		return nil, err
	}
	if utf8.Valid(data) {
		return data, nil
	}
	enc, _, _ := charset.DetermineEncoding(data, contentType)
	return readAll(enc.NewDecoder().Reader(bytes.NewReader(data)))
}

func declaresCharset(contentType string) bool {
	if contentType == "" {
		return false
	}
	_, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	_, ok := params["charset"]
	return ok
}

func readAll(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("decode body: %w", err)
	}
	return data, nil
}

// sniffDelimiter counts candidate separators outside quotes on the first
// line and picks the most frequent. Commas win ties.
func sniffDelimiter(data []byte) rune {
	line := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		line = data[:i]
	}
	counts := map[rune]int{}
	inQuotes := false
	for _, r := range string(line) {
		switch {
		case r == '"':
			inQuotes = !inQuotes
		case inQuotes:
		case r == ',' || r == ';' || r == '\t':
			counts[r]++
		}
	}
	best := ','
	for _, cand := range []rune{';', '\t'} {
		if counts[cand] > counts[best] {
			best = cand
		}
	}
	return best
}
